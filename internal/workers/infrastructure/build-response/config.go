// internal/workers/infrastructure/build-response/config.go
package buildresponse

import (
	"time"

	"career-chat-workers/internal/common/config"
)

type Config struct {
	// TemplateRegistry points at a JSON template file. Empty uses the
	// templates compiled into the binary.
	TemplateRegistry string
	CacheTTL         time.Duration
	AppVersion       string
	Timeout          time.Duration
}

func LoadConfig(wc config.WorkerConfig, app config.AppConfig) *Config {
	cfg := &Config{
		CacheTTL:   5 * time.Minute,
		AppVersion: app.Version,
		Timeout:    10 * time.Second,
	}
	if wc.Timeout > 0 {
		cfg.Timeout = config.GetDuration(wc.Timeout)
	}
	return cfg
}
