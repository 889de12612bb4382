package sae

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Sampler is the source of every random draw an operation makes.
// A Sampler is used by one operation at a time and need not be safe for
// concurrent use.
type Sampler interface {
	// Exponential draws from an exponential distribution with the given mean
	Exponential(mean float64) float64
	// Beta draws from a Beta(alpha, beta) distribution
	Beta(alpha, beta float64) float64
	// IntN draws a uniform integer in [0, n)
	IntN(n int) int
}

// SamplerFactory returns a fresh Sampler for each operation
type SamplerFactory func() Sampler

// Shape parameters of the Beta distributions used by the engine
type betaShape struct {
	alpha float64
	beta  float64
}

var (
	// confidence is skewed high
	confidenceShape = betaShape{alpha: 8, beta: 2}
	// most features fire rarely
	frequencyShape = betaShape{alpha: 2, beta: 8}
	// curated features are mostly interpretable
	interpretabilityShape = betaShape{alpha: 6, beta: 3}
	// most search candidates are weak matches
	relevanceShape = betaShape{alpha: 3, beta: 7}
)

func (s betaShape) draw(sampler Sampler) float64 {
	return sampler.Beta(s.alpha, s.beta)
}

// distSampler draws from a single source, using gonum for the Beta draws
type distSampler struct {
	src rand.Source
	rng *rand.Rand
}

// NewSampler returns a Sampler drawing from src
func NewSampler(src rand.Source) Sampler {
	return &distSampler{
		src: src,
		rng: rand.New(src),
	}
}

// NewSeededSampler returns a deterministic Sampler for the given seed
func NewSeededSampler(seed uint64) Sampler {
	return NewSampler(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// SeededSamplerFactory returns a factory whose samplers all start from seed
func SeededSamplerFactory(seed uint64) SamplerFactory {
	return func() Sampler {
		return NewSeededSampler(seed)
	}
}

// defaultSamplerFactory seeds a private PCG generator per operation from the
// global generator, which is safe for concurrent use.
func defaultSamplerFactory() Sampler {
	return NewSampler(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// Exponential is drawn once per feature per token, so it reads the shared
// generator directly instead of going through distuv, which wraps Src in a
// new rand.Rand on every call.
func (s *distSampler) Exponential(mean float64) float64 {
	return s.rng.ExpFloat64() * mean
}

func (s *distSampler) Beta(alpha, beta float64) float64 {
	return distuv.Beta{Alpha: alpha, Beta: beta, Src: s.src}.Rand()
}

func (s *distSampler) IntN(n int) int {
	return s.rng.IntN(n)
}
