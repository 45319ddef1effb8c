package config

import "time"

// Config holds fieldscan configuration.
// Stored at: {home}/config.yaml
type Config struct {
	Server     ServerCfg     `mapstructure:"server" yaml:"server"`
	Extraction ExtractionCfg `mapstructure:"extraction" yaml:"extraction"`
}

// ServerCfg configures the HTTP server.
type ServerCfg struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port int    `mapstructure:"port" yaml:"port"`
}

// ExtractionCfg configures the inference provider and the extraction loop.
type ExtractionCfg struct {
	Provider   string        `mapstructure:"provider" yaml:"provider"`       // "openai"
	Model      string        `mapstructure:"model" yaml:"model"`             // Model name
	APIKey     string        `mapstructure:"api_key" yaml:"api_key"`         // API key (supports ${ENV_VAR} syntax)
	MaxRetries int           `mapstructure:"max_retries" yaml:"max_retries"` // Extraction attempts per document
	Timeout    time.Duration `mapstructure:"timeout" yaml:"timeout"`         // Per provider call
	RetryDelay time.Duration `mapstructure:"retry_delay" yaml:"retry_delay"` // Base transport backoff
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerCfg{
			Host: "0.0.0.0",
			Port: 8000,
		},
		Extraction: ExtractionCfg{
			Provider:   "openai",
			Model:      "o4-mini",
			APIKey:     "${OPENAI_API_KEY}",
			MaxRetries: 3,
			Timeout:    120 * time.Second,
			RetryDelay: time.Second,
		},
	}
}
