// internal/workers/conversation/load-conversation/config.go
package loadconversation

import (
	"time"

	"career-chat-workers/internal/common/config"
)

type Config struct {
	Timeout      time.Duration
	HistoryLimit int
}

func LoadConfig(wc config.WorkerConfig, conv config.ConversationConfig) *Config {
	cfg := &Config{
		Timeout:      10 * time.Second,
		HistoryLimit: 10,
	}
	if wc.Timeout > 0 {
		cfg.Timeout = config.GetDuration(wc.Timeout)
	}
	if conv.HistoryLimit > 0 {
		cfg.HistoryLimit = conv.HistoryLimit
	}
	return cfg
}
