// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig               `mapstructure:"app"`
	Camunda       CamundaConfig           `mapstructure:"camunda"`
	Database      DatabaseConfig          `mapstructure:"database"`
	Registry      RegistryConfig          `mapstructure:"registry"`
	Workers       map[string]WorkerConfig `mapstructure:"workers"`
	APIs          APIsConfig              `mapstructure:"apis"`
	Server        ServerConfig            `mapstructure:"server"`
	Structuring   StructuringConfig       `mapstructure:"structuring"`
	Retrieval     RetrievalConfig         `mapstructure:"retrieval"`
	Conversation  ConversationConfig      `mapstructure:"conversation"`
	Observability ObservabilityConfig     `mapstructure:"observability"`
	Logging       LoggingConfig           `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	// Mode gates live third-party data: only "production" calls realtime APIs.
	Mode string `mapstructure:"mode"`
}

// IsProduction reports whether realtime data sources should be queried.
func (a AppConfig) IsProduction() bool {
	return a.Mode == "production"
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	URL       string   `mapstructure:"url"` // single address, used when addresses is empty
}

// GetURL returns the first address or the URL field
func (e ElasticsearchConfig) GetURL() string {
	if e.URL != "" {
		return e.URL
	}
	if len(e.Addresses) > 0 {
		return e.Addresses[0]
	}
	return ""
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// RegistryConfig points at the activity registry shared with the modeler.
type RegistryConfig struct {
	Path string `mapstructure:"path"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// APIsConfig holds settings for external API integrations.
type APIsConfig struct {
	GenAI     GenAIConfig     `mapstructure:"genai"`
	Anthropic AnthropicConfig `mapstructure:"anthropic"`
	Realtime  RealtimeConfig  `mapstructure:"realtime"`
}

// GenAIConfig selects and configures the text generation backend.
type GenAIConfig struct {
	Provider       string  `mapstructure:"provider"` // gemini | anthropic | gateway
	Model          string  `mapstructure:"model"`
	EmbeddingModel string  `mapstructure:"embedding_model"`
	BaseURL        string  `mapstructure:"base_url"` // gateway only
	APIKey         string  `mapstructure:"api_key"`
	Timeout        int     `mapstructure:"timeout"` // milliseconds
	MaxRetries     int     `mapstructure:"max_retries"`
	MaxTokens      int     `mapstructure:"max_tokens"`
	Temperature    float64 `mapstructure:"temperature"`
}

type AnthropicConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

// RealtimeConfig holds the live events/jobs/news feed settings.
type RealtimeConfig struct {
	RapidAPIKey    string  `mapstructure:"rapidapi_key"`
	ScrapingDogKey string  `mapstructure:"scrapingdog_key"`
	EventsURL      string  `mapstructure:"events_url"`
	JobsURL        string  `mapstructure:"jobs_url"`
	NewsURL        string  `mapstructure:"news_url"`
	EventsQuery    string  `mapstructure:"events_query"`
	NewsTopic      string  `mapstructure:"news_topic"`
	RatePerSecond  float64 `mapstructure:"rate_per_second"`
	Timeout        int     `mapstructure:"timeout"` // milliseconds
}

// ServerConfig holds the chat API listener settings.
type ServerConfig struct {
	Address        string   `mapstructure:"address"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	RequestTimeout int      `mapstructure:"request_timeout"` // milliseconds
}

type StructuringConfig struct {
	MaxInputBytes int `mapstructure:"max_input_bytes"`
}

type RetrievalConfig struct {
	Index      string `mapstructure:"index"`
	MaxResults int    `mapstructure:"max_results"`
	CacheTTL   int    `mapstructure:"cache_ttl"` // seconds
	EnableKNN  bool   `mapstructure:"enable_knn"`
}

type ConversationConfig struct {
	ListLimit    int `mapstructure:"list_limit"`
	HistoryLimit int `mapstructure:"history_limit"`
	CacheTTL     int `mapstructure:"cache_ttl"` // seconds
}

type ObservabilityConfig struct {
	ServiceName    string `mapstructure:"service_name"`
	JaegerEndpoint string `mapstructure:"jaeger_endpoint"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
