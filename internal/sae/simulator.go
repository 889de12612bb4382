package sae

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"

	"github.com/S-Corkum/sae-inference/pkg/models"
	"go.opentelemetry.io/otel/attribute"
)

// activation is one surviving cell of a token's activation row
type activation struct {
	featureID int
	strength  float64
}

// Encode simulates SAE encoding of text at the given layer.
//
// Each token gets a row of FeatureDimension exponential draws; cells below
// the sparsity threshold are inactive. Tokens with no active cells are left
// out of TokenFeatures, while TotalFeatures and Sparsity count every active
// cell. Empty or whitespace-only text yields an empty result.
func (e *Engine) Encode(ctx context.Context, text string, layer int) (*models.EncodingResult, error) {
	_, span := e.tracer.Start(ctx, "sae.Encode")
	defer span.End()

	sampler := e.newSampler()
	tokens := Tokenize(text)
	dim := e.config.FeatureDimension

	result := &models.EncodingResult{
		Text:          text,
		Layer:         layer,
		Model:         e.config.ModelTag,
		TokenFeatures: []models.TokenFeatures{},
	}

	total := 0
	row := make([]activation, 0, 256)
	for _, token := range tokens {
		row = row[:0]
		for featureID := 0; featureID < dim; featureID++ {
			strength := sampler.Exponential(e.config.ActivationMean)
			if math.IsNaN(strength) || math.IsInf(strength, 0) || strength < 0 {
				err := NewInternalError(OpEncode, fmt.Errorf("invalid activation %v for feature %d at position %d", strength, featureID, token.Position))
				span.RecordError(err)
				return nil, err
			}
			if strength < e.config.SparsityThreshold {
				continue
			}
			row = append(row, activation{featureID: featureID, strength: strength})
		}

		total += len(row)
		if len(row) == 0 {
			continue
		}

		top := strongest(row, e.config.TopK)
		features := make([]models.FeatureActivation, len(top))
		for i, a := range top {
			features[i] = models.FeatureActivation{
				FeatureID:   a.featureID,
				Activation:  a.strength,
				Description: FeatureDescription(a.featureID),
				Confidence:  confidenceShape.draw(sampler),
			}
		}

		result.TokenFeatures = append(result.TokenFeatures, models.TokenFeatures{
			Token:    token.Text,
			Position: token.Position,
			Features: features,
		})
	}

	result.TotalFeatures = total
	if cells := len(tokens) * dim; cells > 0 {
		result.Sparsity = float64(total) / float64(cells)
	}
	result.Metadata = models.EncodingMetadata{
		FeatureDimension: dim,
		InferenceTimeMS:  e.config.MinLatencyMS + sampler.IntN(e.config.MaxLatencyMS-e.config.MinLatencyMS),
		SAEVersion:       e.config.SAEVersion,
		ResearchSource:   e.config.ResearchSource,
	}

	span.SetAttributes(
		attribute.Int("sae.layer", layer),
		attribute.Int("sae.tokens", len(tokens)),
		attribute.Int("sae.active_features", total),
		attribute.Int("sae.emitted_tokens", len(result.TokenFeatures)),
	)

	return result, nil
}

// strongest sorts row by descending strength, ties by ascending feature id,
// and returns at most k entries
func strongest(row []activation, k int) []activation {
	slices.SortFunc(row, func(a, b activation) int {
		if c := cmp.Compare(b.strength, a.strength); c != 0 {
			return c
		}
		return cmp.Compare(a.featureID, b.featureID)
	})
	if len(row) > k {
		return row[:k]
	}
	return row
}
