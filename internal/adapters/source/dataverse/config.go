package dataverse

import "time"

const (
	SourceTypeDataverse = "dataverse"

	DefaultAPIVersion        = "9.2"
	DefaultTimeout           = 60 * time.Second
	DefaultMaxRetries        = 5
	DefaultRequestsPerSecond = 10
	DefaultUserAgent         = "flow-drift/1.0"
)

type Config struct {
	APIVersion        string        `mapstructure:"api_version" validate:"required"`
	Timeout           time.Duration `mapstructure:"timeout" validate:"gte=0"`
	MaxRetries        int           `mapstructure:"max_retries" validate:"gte=0,lte=20"`
	RequestsPerSecond int           `mapstructure:"requests_per_second" validate:"gte=0,lte=100"`
	UserAgent         string        `mapstructure:"user_agent"`
}

func DefaultConfig() *Config {
	return &Config{
		APIVersion:        DefaultAPIVersion,
		Timeout:           DefaultTimeout,
		MaxRetries:        DefaultMaxRetries,
		RequestsPerSecond: DefaultRequestsPerSecond,
		UserAgent:         DefaultUserAgent,
	}
}

func (c *Config) withDefaults() Config {
	out := *DefaultConfig()
	if c == nil {
		return out
	}
	if c.APIVersion != "" {
		out.APIVersion = c.APIVersion
	}
	if c.Timeout > 0 {
		out.Timeout = c.Timeout
	}
	out.MaxRetries = c.MaxRetries
	if c.RequestsPerSecond > 0 {
		out.RequestsPerSecond = c.RequestsPerSecond
	}
	if c.UserAgent != "" {
		out.UserAgent = c.UserAgent
	}
	return out
}
