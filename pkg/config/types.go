package config

import "time"

// Config represents the complete application configuration
type Config struct {
	Server       ServerConfig    `mapstructure:"server"`
	Upstream     UpstreamConfig  `mapstructure:"upstream"`
	Feed         FeedConfig      `mapstructure:"feed"`
	Cache        CacheConfig     `mapstructure:"cache"`
	RateLimiting RateLimitConfig `mapstructure:"rate_limiting"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxHeaderBytes  int           `mapstructure:"max_header_bytes"`
}

// UpstreamConfig contains settings for the origin podcast platform
type UpstreamConfig struct {
	// BaseURL is the platform origin, e.g. https://www.xiaoyuzhoufm.com
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

// FeedConfig contains settings for the synthesized RSS output
type FeedConfig struct {
	// SelfURL is the public base URL this service is reachable at. It is
	// embedded in feeds as the self-referencing link, so it must match the
	// externally visible route.
	SelfURL  string        `mapstructure:"self_url"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// CacheConfig contains response cache settings
type CacheConfig struct {
	Enabled   bool  `mapstructure:"enabled"`
	MaxSizeMB int64 `mapstructure:"max_size_mb"`
}

// RateLimitConfig contains per-client rate limiting settings
type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerSecond int  `mapstructure:"requests_per_second"`
	Burst             int  `mapstructure:"burst"`
}
