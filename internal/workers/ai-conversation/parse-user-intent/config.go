// internal/workers/ai-conversation/parse-user-intent/config.go
package parseuserintent

import (
	"time"

	"career-chat-workers/internal/common/config"
)

type Config struct {
	Timeout    time.Duration
	MaxRetries int
}

func LoadConfig(wc config.WorkerConfig) *Config {
	cfg := &Config{
		Timeout:    30 * time.Second,
		MaxRetries: 1,
	}
	if wc.Timeout > 0 {
		cfg.Timeout = config.GetDuration(wc.Timeout)
	}
	if wc.MaxRetries > 0 {
		cfg.MaxRetries = wc.MaxRetries
	}
	return cfg
}
