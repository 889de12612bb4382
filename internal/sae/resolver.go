package sae

import "github.com/S-Corkum/sae-inference/pkg/models"

// Describe returns the metadata record of a feature. The caller is
// responsible for checking that featureID is inside the feature space.
func (e *Engine) Describe(featureID int) models.FeatureMetadata {
	return describe(featureID, e.newSampler())
}

// describe builds a metadata record drawing the numeric fields from sampler
func describe(featureID int, sampler Sampler) models.FeatureMetadata {
	return models.FeatureMetadata{
		FeatureID:             featureID,
		Description:           FeatureDescription(featureID),
		ActivationFrequency:   frequencyShape.draw(sampler),
		TopTokens:             FeatureTopTokens(featureID),
		ExamplePrompts:        FeatureExamplePrompts(featureID),
		ResearchNotes:         FeatureResearchNotes(featureID),
		InterpretabilityScore: interpretabilityShape.draw(sampler),
	}
}
