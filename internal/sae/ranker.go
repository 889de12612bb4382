package sae

import (
	"cmp"
	"context"
	"slices"

	"github.com/S-Corkum/sae-inference/pkg/models"
	"go.opentelemetry.io/otel/attribute"
)

// Search samples limit feature ids uniformly, describes each one and ranks
// them by a sampled relevance score, highest first.
//
// The query is echoed back but does not influence selection or ranking;
// this stands in for a vector similarity search. Duplicate ids are kept.
func (e *Engine) Search(ctx context.Context, query string, limit int) models.SearchResult {
	_, span := e.tracer.Start(ctx, "sae.Search")
	defer span.End()

	if limit < 0 {
		limit = 0
	}

	sampler := e.newSampler()
	features := make([]models.RankedFeature, 0, limit)
	for i := 0; i < limit; i++ {
		featureID := sampler.IntN(e.config.FeatureDimension)
		features = append(features, models.RankedFeature{
			FeatureMetadata: describe(featureID, sampler),
			RelevanceScore:  relevanceShape.draw(sampler),
		})
	}

	slices.SortStableFunc(features, func(a, b models.RankedFeature) int {
		return cmp.Compare(b.RelevanceScore, a.RelevanceScore)
	})

	span.SetAttributes(
		attribute.Int("sae.limit", limit),
		attribute.Int("sae.results", len(features)),
	)

	return models.SearchResult{
		Query:        query,
		TotalResults: len(features),
		Features:     features,
	}
}
