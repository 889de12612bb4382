package api

import (
	"time"

	"github.com/klauspost/compress/gzip"
)

// Config holds configuration for the API server
type Config struct {
	ListenAddress string            `mapstructure:"listen_address" validate:"required"`
	ReadTimeout   time.Duration     `mapstructure:"read_timeout" validate:"gte=0"`
	WriteTimeout  time.Duration     `mapstructure:"write_timeout" validate:"gte=0"`
	IdleTimeout   time.Duration     `mapstructure:"idle_timeout" validate:"gte=0"`
	EnableCORS    bool              `mapstructure:"enable_cors"`
	EnableSwagger bool              `mapstructure:"enable_swagger"`
	// MaxBodyBytes caps the size of request bodies; 0 disables the cap
	MaxBodyBytes  int64             `mapstructure:"max_body_bytes" validate:"gte=0"`
	CORS          CORSConfig        `mapstructure:"cors"`
	RateLimit     RateLimitConfig   `mapstructure:"rate_limit"`
	Performance   PerformanceConfig `mapstructure:"performance"`

	// Environment and MetricsPath are filled from the top-level configuration
	Environment string `mapstructure:"-"`
	MetricsPath string `mapstructure:"-"`
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	// AllowedOrigins lists permitted origins; "*" allows any origin
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// Limit is the number of requests a client may make per Period
	Limit       int           `mapstructure:"limit" validate:"gte=0"`
	Period      time.Duration `mapstructure:"period" validate:"gte=0"`
	BurstFactor int           `mapstructure:"burst_factor" validate:"gte=0"`
	// Expiration is how long an idle client's limiter is kept
	Expiration time.Duration `mapstructure:"expiration" validate:"gte=0"`
	// MaxClients bounds the number of tracked clients
	MaxClients int `mapstructure:"max_clients" validate:"gte=0"`
}

// PerformanceConfig holds configuration for response optimization
type PerformanceConfig struct {
	EnableCompression bool `mapstructure:"enable_compression"`
	CompressionLevel  int  `mapstructure:"compression_level" validate:"gte=-2,lte=9"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() Config {
	return Config{
		ListenAddress: ":5000",
		ReadTimeout:   30 * time.Second,
		WriteTimeout:  60 * time.Second,
		IdleTimeout:   120 * time.Second,
		EnableCORS:    true,
		EnableSwagger: true,
		MaxBodyBytes:  1 << 20,
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
		},
		RateLimit: RateLimitConfig{
			Enabled:     true,
			Limit:       100,
			Period:      time.Second,
			BurstFactor: 2,
			Expiration:  time.Hour,
			MaxClients:  10000,
		},
		Performance: PerformanceConfig{
			EnableCompression: true,
			CompressionLevel:  gzip.DefaultCompression,
		},
		Environment: "development",
		MetricsPath: "/metrics",
	}
}
