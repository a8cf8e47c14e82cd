package config

import "time"

// ProviderMode selects which real completion backend is used when an API key
// is configured.
type ProviderMode string

const (
	ModeSDK  ProviderMode = "sdk"
	ModeHTTP ProviderMode = "http"
)

// Config is the top-level aipartner configuration, corresponding to .aipartner.yml.
type Config struct {
	APIKey         string          `yaml:"api_key,omitempty" koanf:"api_key"`
	BaseURL        string          `yaml:"base_url" koanf:"base_url"`
	ProviderMode   ProviderMode    `yaml:"provider_mode" koanf:"provider_mode"`
	Model          string          `yaml:"model" koanf:"model"`
	Temperature    float64         `yaml:"temperature" koanf:"temperature"`
	MaxTokens      int             `yaml:"max_tokens" koanf:"max_tokens"`
	RequestTimeout time.Duration   `yaml:"request_timeout" koanf:"request_timeout"`
	RateLimitRPM   int             `yaml:"rate_limit_rpm" koanf:"rate_limit_rpm"`
	MockDelay      time.Duration   `yaml:"mock_delay" koanf:"mock_delay"`
	Search         SearchConfig    `yaml:"search" koanf:"search"`
	Knowledge      KnowledgeConfig `yaml:"knowledge" koanf:"knowledge"`
	Server         ServerConfig    `yaml:"server" koanf:"server"`
	Database       DatabaseConfig  `yaml:"database" koanf:"database"`
	Log            LogConfig       `yaml:"log" koanf:"log"`
}

// SearchConfig configures the web-search enrichment.
type SearchConfig struct {
	BaseURL string        `yaml:"base_url" koanf:"base_url"`
	Limit   int           `yaml:"limit" koanf:"limit"`
	Timeout time.Duration `yaml:"timeout" koanf:"timeout"`
}

// KnowledgeConfig configures the knowledge-base enrichment.
type KnowledgeConfig struct {
	Limit int `yaml:"limit" koanf:"limit"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int  `yaml:"port" koanf:"port"`
	AllowAllOrigins bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}

// DatabaseConfig locates the SQLite database.
type DatabaseConfig struct {
	Path string `yaml:"path" koanf:"path"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `yaml:"level" koanf:"level"`
	Pretty bool   `yaml:"pretty" koanf:"pretty"`
}
