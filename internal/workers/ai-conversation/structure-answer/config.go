// internal/workers/ai-conversation/structure-answer/config.go
package structureanswer

import (
	"time"

	"career-chat-workers/internal/common/config"
	"career-chat-workers/internal/structuring"
)

type Config struct {
	Timeout       time.Duration
	MaxInputBytes int
}

func LoadConfig(wc config.WorkerConfig, sc config.StructuringConfig) *Config {
	cfg := &Config{
		Timeout:       5 * time.Second,
		MaxInputBytes: structuring.DefaultMaxInputBytes,
	}
	if wc.Timeout > 0 {
		cfg.Timeout = config.GetDuration(wc.Timeout)
	}
	if sc.MaxInputBytes > 0 {
		cfg.MaxInputBytes = sc.MaxInputBytes
	}
	return cfg
}
