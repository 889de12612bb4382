package models

// ===============================
// SAE Encoding Models
// ===============================

// FeatureActivation is a single active SAE feature for a token
type FeatureActivation struct {
	FeatureID   int     `json:"feature_id" yaml:"feature_id"`
	Activation  float64 `json:"activation" yaml:"activation"`
	Description string  `json:"description" yaml:"description"`
	Confidence  float64 `json:"confidence" yaml:"confidence"`
}

// TokenFeatures holds the strongest active features for one token
type TokenFeatures struct {
	Token    string              `json:"token" yaml:"token"`
	Position int                 `json:"position" yaml:"position"`
	Features []FeatureActivation `json:"features" yaml:"features"`
}

// EncodingMetadata describes how an encoding was produced
type EncodingMetadata struct {
	FeatureDimension int    `json:"feature_dimension" yaml:"feature_dimension"`
	InferenceTimeMS  int    `json:"inference_time_ms" yaml:"inference_time_ms"`
	SAEVersion       string `json:"sae_version" yaml:"sae_version"`
	ResearchSource   string `json:"research_source" yaml:"research_source"`
}

// EncodingResult is the token-level sparse activation report for a text
type EncodingResult struct {
	Text          string           `json:"text" yaml:"text"`
	Layer         int              `json:"layer" yaml:"layer"`
	Model         string           `json:"model" yaml:"model"`
	TotalFeatures int              `json:"total_features" yaml:"total_features"`
	Sparsity      float64          `json:"sparsity" yaml:"sparsity"`
	TokenFeatures []TokenFeatures  `json:"token_features" yaml:"token_features"`
	Metadata      EncodingMetadata `json:"metadata" yaml:"metadata"`
}

// ===============================
// SAE Feature Models
// ===============================

// FeatureMetadata is the descriptive record of an SAE feature.
// Description, TopTokens and ExamplePrompts depend only on the feature's
// residue class; ActivationFrequency and InterpretabilityScore are sampled.
type FeatureMetadata struct {
	FeatureID             int      `json:"feature_id" yaml:"feature_id"`
	Description           string   `json:"description" yaml:"description"`
	ActivationFrequency   float64  `json:"activation_frequency" yaml:"activation_frequency"`
	TopTokens             []string `json:"top_tokens" yaml:"top_tokens"`
	ExamplePrompts        []string `json:"example_prompts" yaml:"example_prompts"`
	ResearchNotes         string   `json:"research_notes" yaml:"research_notes"`
	InterpretabilityScore float64  `json:"interpretability_score" yaml:"interpretability_score"`
}

// RankedFeature is a search hit: feature metadata plus a relevance score
type RankedFeature struct {
	FeatureMetadata `yaml:",inline"`
	RelevanceScore  float64 `json:"relevance_score" yaml:"relevance_score"`
}

// SearchResult is the ranked response to a feature search
type SearchResult struct {
	Query        string          `json:"query" yaml:"query"`
	TotalResults int             `json:"total_results" yaml:"total_results"`
	Features     []RankedFeature `json:"features" yaml:"features"`
}

// HealthStatus is the response of the health endpoint
type HealthStatus struct {
	Status  string `json:"status" yaml:"status"`
	Service string `json:"service" yaml:"service"`
}
