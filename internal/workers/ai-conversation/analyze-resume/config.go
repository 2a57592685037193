// internal/workers/ai-conversation/analyze-resume/config.go
package analyzeresume

import (
	"time"

	"career-chat-workers/internal/common/config"
	"career-chat-workers/internal/resume"
)

type Config struct {
	Timeout       time.Duration
	MaxRetries    int
	MaxInputBytes int
}

func LoadConfig(wc config.WorkerConfig) *Config {
	cfg := &Config{
		Timeout:       60 * time.Second,
		MaxRetries:    1,
		MaxInputBytes: resume.DefaultMaxInputBytes,
	}
	if wc.Timeout > 0 {
		cfg.Timeout = config.GetDuration(wc.Timeout)
	}
	if wc.MaxRetries > 0 {
		cfg.MaxRetries = wc.MaxRetries
	}
	return cfg
}
