package sae

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeededSampler_Deterministic(t *testing.T) {
	a := NewSeededSampler(123)
	b := NewSeededSampler(123)

	for i := 0; i < 50; i++ {
		assert.Equal(t, a.Exponential(0.1), b.Exponential(0.1))
		assert.Equal(t, a.Beta(8, 2), b.Beta(8, 2))
		assert.Equal(t, a.IntN(16384), b.IntN(16384))
	}
}

func TestSampler_Distributions(t *testing.T) {
	sampler := NewSeededSampler(31337)

	const n = 10000
	var expSum, betaSum float64
	for i := 0; i < n; i++ {
		v := sampler.Exponential(0.1)
		assert.GreaterOrEqual(t, v, 0.0)
		expSum += v

		b := sampler.Beta(8, 2)
		assert.True(t, b >= 0 && b <= 1, "beta draw %v out of range", b)
		betaSum += b

		k := sampler.IntN(7)
		assert.True(t, k >= 0 && k < 7, "int draw %d out of range", k)
	}

	assert.InDelta(t, 0.1, expSum/n, 0.01)
	assert.InDelta(t, 0.8, betaSum/n, 0.02)
}

func TestDefaultSamplerFactory_IndependentSamplers(t *testing.T) {
	a := defaultSamplerFactory()
	b := defaultSamplerFactory()

	same := true
	for i := 0; i < 10; i++ {
		if a.IntN(1<<30) != b.IntN(1<<30) {
			same = false
		}
	}
	assert.False(t, same)
}
