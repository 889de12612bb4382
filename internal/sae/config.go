package sae

// Config holds the immutable configuration of the SAE engine
type Config struct {
	// Feature space and tokenizer dimensions. They are fixed by the model the
	// service stands in for; NewEngine accepts other sizes for tests only.
	FeatureDimension int `mapstructure:"feature_dimension" validate:"eq=16384"`
	VocabularySize   int `mapstructure:"vocabulary_size" validate:"eq=50257"`

	// Provenance tags reported with every encoding
	DefaultLayer   int    `mapstructure:"default_layer" validate:"gte=0"`
	ModelTag       string `mapstructure:"model_tag" validate:"required"`
	SAEVersion     string `mapstructure:"sae_version" validate:"required"`
	ResearchSource string `mapstructure:"research_source" validate:"required"`

	// Activation simulation
	SparsityThreshold float64 `mapstructure:"sparsity_threshold" validate:"gt=0"`
	ActivationMean    float64 `mapstructure:"activation_mean" validate:"gt=0"`
	TopK              int     `mapstructure:"top_k" validate:"gt=0"`

	// Search
	DefaultSearchLimit int `mapstructure:"default_search_limit" validate:"gte=0"`
	MaxSearchLimit     int `mapstructure:"max_search_limit" validate:"gte=0,lte=100"`

	// Simulated inference latency, [MinLatencyMS, MaxLatencyMS)
	MinLatencyMS int `mapstructure:"min_latency_ms" validate:"gte=0"`
	MaxLatencyMS int `mapstructure:"max_latency_ms" validate:"gtfield=MinLatencyMS"`
}

// DefaultConfig returns the configuration the service ships with
func DefaultConfig() Config {
	return Config{
		FeatureDimension:   16384,
		VocabularySize:     50257,
		DefaultLayer:       12,
		ModelTag:           "claude-3-sonnet-sae",
		SAEVersion:         "v2.1",
		ResearchSource:     "Anthropic SAE Research 2024",
		SparsityThreshold:  0.5,
		ActivationMean:     0.1,
		TopK:               5,
		DefaultSearchLimit: 20,
		MaxSearchLimit:     100,
		MinLatencyMS:       50,
		MaxLatencyMS:       200,
	}
}
