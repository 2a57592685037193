// internal/workers/ai-conversation/uplift-response/config.go
package upliftresponse

import (
	"time"

	"career-chat-workers/internal/common/config"
	"career-chat-workers/internal/signals"
)

type Config struct {
	Timeout time.Duration
	Topic   string
}

func LoadConfig(wc config.WorkerConfig) *Config {
	cfg := &Config{
		Timeout: 20 * time.Second,
		Topic:   signals.DefaultUpliftTopic,
	}
	if wc.Timeout > 0 {
		cfg.Timeout = config.GetDuration(wc.Timeout)
	}
	return cfg
}
