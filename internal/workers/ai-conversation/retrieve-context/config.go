// internal/workers/ai-conversation/retrieve-context/config.go
package retrievecontext

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
		Timeout:    15 * time.Second,
		MaxRetries: 2,
	}
	if wc.Timeout > 0 {
		cfg.Timeout = config.GetDuration(wc.Timeout)
	}
	if wc.MaxRetries > 0 {
		cfg.MaxRetries = wc.MaxRetries
	}
	return cfg
}
