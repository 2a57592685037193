// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	// APIS_GENAI_API_KEY overrides apis.genai.api_key
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // optional

	return finish(v)
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v)
}

func finish(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env", // tests in test/e2e/
		"../../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up from the working directory to the first go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			expanded := os.ExpandEnv(strVal)
			if expanded != strVal {
				v.Set(key, expanded)
			}
		}
	}
}

// overrideEmptyConfig fills secrets from their conventional variable names
// when the config file left them empty.
func overrideEmptyConfig(cfg *Config) {
	setIfEmpty(&cfg.APIs.GenAI.APIKey, "GOOGLE_API_KEY")
	setIfEmpty(&cfg.APIs.GenAI.APIKey, "GENAI_API_KEY")
	setIfEmpty(&cfg.APIs.Anthropic.APIKey, "ANTHROPIC_API_KEY")
	setIfEmpty(&cfg.APIs.Realtime.RapidAPIKey, "RAPIDAPI_KEY")
	setIfEmpty(&cfg.APIs.Realtime.ScrapingDogKey, "SCRAPINGDOG_API_KEY")
	setIfEmpty(&cfg.App.Mode, "APP_MODE")
	setIfEmpty(&cfg.Database.Postgres.User, "DB_USER")
	setIfEmpty(&cfg.Database.Postgres.Password, "DB_PASSWORD")
}

func setIfEmpty(field *string, envKey string) {
	if *field != "" {
		return
	}
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	// Camunda defaults
	if cfg.Camunda.MaxJobsActive == 0 {
		cfg.Camunda.MaxJobsActive = 10
	}
	if cfg.Camunda.Timeout == 0 {
		cfg.Camunda.Timeout = 30000
	}
	if cfg.Camunda.RequestTimeout == 0 {
		cfg.Camunda.RequestTimeout = 30000
	}

	// Database defaults
	if cfg.Database.Postgres.Port == 0 {
		cfg.Database.Postgres.Port = 5432
	}
	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 25
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 5
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}
	if cfg.Database.Elasticsearch.URL == "" && len(cfg.Database.Elasticsearch.Addresses) > 0 {
		cfg.Database.Elasticsearch.URL = cfg.Database.Elasticsearch.Addresses[0]
	}

	if cfg.Registry.Path == "" {
		cfg.Registry.Path = "configs/activity-registry.json"
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	for key, worker := range cfg.Workers {
		if worker.MaxJobsActive == 0 {
			worker.MaxJobsActive = 5
		}
		if worker.Timeout == 0 {
			worker.Timeout = 30000
		}
		if worker.MaxRetries == 0 {
			worker.MaxRetries = 3
		}
		cfg.Workers[key] = worker
	}

	// Generation defaults
	g := &cfg.APIs.GenAI
	if g.Provider == "" {
		g.Provider = "gemini"
	}
	if g.Model == "" {
		g.Model = "gemini-1.5-flash"
	}
	if g.EmbeddingModel == "" {
		g.EmbeddingModel = "text-embedding-004"
	}
	if g.Timeout == 0 {
		g.Timeout = 60000
	}
	if g.MaxTokens == 0 {
		g.MaxTokens = 1024
	}
	if g.Temperature == 0 {
		g.Temperature = 0.3
	}
	if cfg.APIs.Anthropic.Model == "" {
		cfg.APIs.Anthropic.Model = "claude-3-5-haiku-latest"
	}

	// Realtime defaults
	r := &cfg.APIs.Realtime
	if r.EventsURL == "" {
		r.EventsURL = "https://real-time-events-search.p.rapidapi.com/search-events"
	}
	if r.JobsURL == "" {
		r.JobsURL = "https://api.scrapingdog.com/linkedinjobs"
	}
	if r.NewsURL == "" {
		r.NewsURL = "https://real-time-news-data.p.rapidapi.com/topic-news-by-section"
	}
	if r.EventsQuery == "" {
		r.EventsQuery = "Technology events in india"
	}
	if r.NewsTopic == "" {
		r.NewsTopic = "TECHNOLOGY"
	}
	if r.RatePerSecond == 0 {
		r.RatePerSecond = 5
	}
	if r.Timeout == 0 {
		r.Timeout = 10000
	}

	// Chat API defaults
	if cfg.Server.Address == "" {
		cfg.Server.Address = ":5000"
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = []string{"http://localhost:5173"}
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = 90000
	}

	if cfg.Structuring.MaxInputBytes == 0 {
		cfg.Structuring.MaxInputBytes = 64 * 1024
	}

	if cfg.Retrieval.Index == "" {
		cfg.Retrieval.Index = "knowledge"
	}
	if cfg.Retrieval.MaxResults == 0 {
		cfg.Retrieval.MaxResults = 4
	}
	if cfg.Retrieval.CacheTTL == 0 {
		cfg.Retrieval.CacheTTL = 300
	}

	if cfg.Conversation.ListLimit == 0 {
		cfg.Conversation.ListLimit = 20
	}
	if cfg.Conversation.HistoryLimit == 0 {
		cfg.Conversation.HistoryLimit = 20
	}
	if cfg.Conversation.CacheTTL == 0 {
		cfg.Conversation.CacheTTL = 600
	}

	if cfg.Observability.ServiceName == "" {
		cfg.Observability.ServiceName = "career-chat"
	}
}

// validateConfig validates critical configuration fields
func validateConfig(cfg *Config) error {
	if cfg.Database.Postgres.Host == "" {
		return fmt.Errorf("database.postgres.host is required")
	}
	if cfg.Database.Postgres.Database == "" {
		return fmt.Errorf("database.postgres.database is required")
	}
	if cfg.Database.Postgres.User == "" {
		return fmt.Errorf("database.postgres.user is required")
	}

	if len(cfg.Database.Elasticsearch.Addresses) == 0 && cfg.Database.Elasticsearch.URL == "" {
		return fmt.Errorf("database.elasticsearch.addresses or url is required")
	}

	if cfg.Database.Redis.Address == "" {
		return fmt.Errorf("database.redis.address is required")
	}

	switch cfg.APIs.GenAI.Provider {
	case "gemini", "anthropic", "gateway":
	default:
		return fmt.Errorf("apis.genai.provider %q is not supported", cfg.APIs.GenAI.Provider)
	}
	if cfg.APIs.GenAI.Provider == "gateway" && cfg.APIs.GenAI.BaseURL == "" {
		return fmt.Errorf("apis.genai.base_url is required for the gateway provider")
	}

	return nil
}

// ValidateWorkerHost checks the settings only the worker manager needs.
func ValidateWorkerHost(cfg *Config) error {
	if cfg.Camunda.BrokerAddress == "" {
		return fmt.Errorf("camunda.broker_address is required")
	}
	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

// GetWorkerConfig retrieves worker-specific configuration with fallback to defaults
func GetWorkerConfig(cfg *Config, workerName string) WorkerConfig {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker
	}

	return WorkerConfig{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       30000,
		MaxRetries:    3,
	}
}

// IsWorkerEnabled checks if a specific worker is enabled
func IsWorkerEnabled(cfg *Config, workerName string) bool {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker.Enabled
	}
	return true
}
