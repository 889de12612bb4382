// Package observability provides logging, metrics and tracing for the
// sae-inference service.
package observability

import (
	"net/http"
	"time"
)

// LoggingConfig holds the configuration for logging
type LoggingConfig struct {
	// Level is the minimum log level to emit
	Level string `mapstructure:"level" json:"level,omitempty" validate:"omitempty,oneof=debug info warn error DEBUG INFO WARN ERROR"`
	// Format is either json or text
	Format string `mapstructure:"format" json:"format,omitempty" validate:"omitempty,oneof=json text"`
}

// MetricsConfig holds the configuration for metrics
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled" json:"enabled"`
	Namespace string `mapstructure:"namespace" json:"namespace,omitempty"`
	// Path is where the scrape endpoint is mounted
	Path string `mapstructure:"path" json:"path,omitempty" validate:"omitempty,startswith=/"`
}

// TracingConfig holds the configuration for tracing
type TracingConfig struct {
	Enabled     bool   `mapstructure:"enabled" json:"enabled"`
	ServiceName string `mapstructure:"service_name" json:"service_name,omitempty"`
	Environment string `mapstructure:"environment" json:"environment,omitempty"`
	// Endpoint is the OTLP gRPC collector address
	Endpoint string `mapstructure:"endpoint" json:"endpoint,omitempty"`
	Insecure bool   `mapstructure:"insecure" json:"insecure"`
}

// LogLevel defines log message severity
type LogLevel string

// Log levels
const (
	LogLevelDebug LogLevel = "DEBUG"
	LogLevelInfo  LogLevel = "INFO"
	LogLevelWarn  LogLevel = "WARN"
	LogLevelError LogLevel = "ERROR"
	LogLevelFatal LogLevel = "FATAL"
)

// Logger defines the interface for logging
type Logger interface {
	// Core logging methods with fields
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	Fatal(msg string, fields map[string]interface{})

	// Formatted logging methods
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})

	// Context methods
	WithPrefix(prefix string) Logger
	With(fields map[string]interface{}) Logger
}

// MetricsClient defines the interface for metrics collection
type MetricsClient interface {
	// RecordAPIOperation records one served HTTP request
	RecordAPIOperation(method, endpoint string, statusCode int, duration time.Duration)
	// RecordOperation records one SAE operation and its outcome
	RecordOperation(operation string, success bool, duration time.Duration)
	// RecordActiveFeatures records the active feature count of one encoding
	RecordActiveFeatures(count int)
	// RecordRateLimited counts a request rejected by the rate limiter
	RecordRateLimited(endpoint string)

	// Handler serves the collected metrics
	Handler() http.Handler
}
