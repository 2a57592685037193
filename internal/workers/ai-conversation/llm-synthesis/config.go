// internal/workers/ai-conversation/llm-synthesis/config.go
package llmsynthesis

import (
	"time"

	"career-chat-workers/internal/common/config"
)

type Config struct {
	Timeout      time.Duration
	MaxRetries   int
	Temperature  float64
	HistoryLimit int
}

func LoadConfig(wc config.WorkerConfig, genai config.GenAIConfig, conv config.ConversationConfig) *Config {
	cfg := &Config{
		Timeout:      30 * time.Second,
		MaxRetries:   1,
		Temperature:  0.7,
		HistoryLimit: 10,
	}
	if wc.Timeout > 0 {
		cfg.Timeout = config.GetDuration(wc.Timeout)
	}
	if wc.MaxRetries > 0 {
		cfg.MaxRetries = wc.MaxRetries
	}
	if genai.Temperature > 0 {
		cfg.Temperature = genai.Temperature
	}
	if conv.HistoryLimit > 0 {
		cfg.HistoryLimit = conv.HistoryLimit
	}
	return cfg
}
