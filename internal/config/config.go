package config

import (
	"os"
	"strings"

	"github.com/S-Corkum/sae-inference/internal/api"
	"github.com/S-Corkum/sae-inference/internal/sae"
	"github.com/S-Corkum/sae-inference/pkg/observability"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Environment variables that control loading
const (
	EnvPrefix         = "SAE"
	ConfigFileEnv     = "SAE_CONFIG_FILE"
	DefaultConfigFile = "configs/config.yaml"
)

// Config holds the complete application configuration
type Config struct {
	Environment string                      `mapstructure:"environment" validate:"oneof=development production test"`
	API         api.Config                  `mapstructure:"api"`
	Engine      sae.Config                  `mapstructure:"engine"`
	Logging     observability.LoggingConfig `mapstructure:"logging"`
	Metrics     observability.MetricsConfig `mapstructure:"metrics"`
	Tracing     observability.TracingConfig `mapstructure:"tracing"`
}

// Load loads configuration from the file named by SAE_CONFIG_FILE and from
// SAE_ prefixed environment variables
func Load() (*Config, error) {
	return LoadFrom(os.Getenv(ConfigFileEnv))
}

// LoadFrom loads configuration from configFile and the environment. A
// missing file is not an error; defaults and environment variables apply.
func LoadFrom(configFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configFile == "" {
		configFile = DefaultConfigFile
	}

	// Read from environment variables prefixed with SAE_
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if _, err := os.Stat(configFile); err == nil {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "error reading config file %s", configFile)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "error checking config file %s", configFile)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "error unmarshaling config")
	}

	config.API.Environment = config.Environment
	if config.Metrics.Enabled {
		config.API.MetricsPath = config.Metrics.Path
	}
	if config.Tracing.Environment == "" {
		config.Tracing.Environment = config.Environment
	}

	if err := Validate(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks struct constraints on the whole configuration
func Validate(config *Config) error {
	if err := validator.New().Struct(config); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	// API defaults
	apiDefaults := api.DefaultConfig()
	v.SetDefault("api.listen_address", apiDefaults.ListenAddress)
	v.SetDefault("api.read_timeout", apiDefaults.ReadTimeout)
	v.SetDefault("api.write_timeout", apiDefaults.WriteTimeout)
	v.SetDefault("api.idle_timeout", apiDefaults.IdleTimeout)
	v.SetDefault("api.enable_cors", apiDefaults.EnableCORS)
	v.SetDefault("api.enable_swagger", apiDefaults.EnableSwagger)
	v.SetDefault("api.max_body_bytes", apiDefaults.MaxBodyBytes)
	v.SetDefault("api.cors.allowed_origins", apiDefaults.CORS.AllowedOrigins)

	// API rate limiting defaults
	v.SetDefault("api.rate_limit.enabled", apiDefaults.RateLimit.Enabled)
	v.SetDefault("api.rate_limit.limit", apiDefaults.RateLimit.Limit)
	v.SetDefault("api.rate_limit.period", apiDefaults.RateLimit.Period)
	v.SetDefault("api.rate_limit.burst_factor", apiDefaults.RateLimit.BurstFactor)
	v.SetDefault("api.rate_limit.expiration", apiDefaults.RateLimit.Expiration)
	v.SetDefault("api.rate_limit.max_clients", apiDefaults.RateLimit.MaxClients)

	v.SetDefault("api.performance.enable_compression", apiDefaults.Performance.EnableCompression)
	v.SetDefault("api.performance.compression_level", apiDefaults.Performance.CompressionLevel)

	// Engine defaults
	engine := sae.DefaultConfig()
	v.SetDefault("engine.feature_dimension", engine.FeatureDimension)
	v.SetDefault("engine.vocabulary_size", engine.VocabularySize)
	v.SetDefault("engine.default_layer", engine.DefaultLayer)
	v.SetDefault("engine.model_tag", engine.ModelTag)
	v.SetDefault("engine.sae_version", engine.SAEVersion)
	v.SetDefault("engine.research_source", engine.ResearchSource)
	v.SetDefault("engine.sparsity_threshold", engine.SparsityThreshold)
	v.SetDefault("engine.activation_mean", engine.ActivationMean)
	v.SetDefault("engine.top_k", engine.TopK)
	v.SetDefault("engine.default_search_limit", engine.DefaultSearchLimit)
	v.SetDefault("engine.max_search_limit", engine.MaxSearchLimit)
	v.SetDefault("engine.min_latency_ms", engine.MinLatencyMS)
	v.SetDefault("engine.max_latency_ms", engine.MaxLatencyMS)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.namespace", observability.DefaultNamespace)
	v.SetDefault("metrics.path", "/metrics")

	// Tracing defaults
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.service_name", observability.DefaultServiceName)
	v.SetDefault("tracing.environment", "")
	v.SetDefault("tracing.endpoint", observability.DefaultEndpoint)
	v.SetDefault("tracing.insecure", true)
}
