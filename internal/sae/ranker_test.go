package sae

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearch_ExactLimitSortedDescending(t *testing.T) {
	engine := newSeededEngine(t, 17)

	for _, limit := range []int{0, 1, 5, 20, 100} {
		result := engine.Search(context.Background(), "happiness", limit)

		assert.Equal(t, "happiness", result.Query)
		assert.Equal(t, limit, result.TotalResults)
		require.Len(t, result.Features, limit)

		for i, f := range result.Features {
			assert.GreaterOrEqual(t, f.FeatureID, 0)
			assert.Less(t, f.FeatureID, 16384)
			assert.GreaterOrEqual(t, f.RelevanceScore, 0.0)
			assert.LessOrEqual(t, f.RelevanceScore, 1.0)
			assert.Equal(t, FeatureDescription(f.FeatureID), f.Description)
			if i > 0 {
				assert.GreaterOrEqual(t, result.Features[i-1].RelevanceScore, f.RelevanceScore)
			}
		}
	}
}

func TestSearch_QueryDoesNotAffectRanking(t *testing.T) {
	first := newSeededEngine(t, 21).Search(context.Background(), "cats", 10)
	second := newSeededEngine(t, 21).Search(context.Background(), "quantum chromodynamics", 10)

	assert.Equal(t, first.Features, second.Features)
	assert.NotEqual(t, first.Query, second.Query)
}

func TestSearch_TiesKeepSamplingOrder(t *testing.T) {
	stub := &stubSampler{beta: 0.4, ints: []int{5, 3, 9, 3}}
	engine := newStubEngine(t, smallConfig(16), stub)

	result := engine.Search(context.Background(), "q", 4)

	require.Len(t, result.Features, 4)
	ids := make([]int, 0, 4)
	for _, f := range result.Features {
		ids = append(ids, f.FeatureID)
	}
	// duplicates are kept
	assert.Equal(t, []int{5, 3, 9, 3}, ids)
}

func TestSearch_NegativeLimit(t *testing.T) {
	result := newSeededEngine(t, 1).Search(context.Background(), "q", -4)

	assert.Zero(t, result.TotalResults)
	assert.Empty(t, result.Features)
	assert.NotNil(t, result.Features)
}
