// Package classify defines the contract for producing classification
// outcomes from a recorded session.
package classify

import (
	"math/rand"

	catalog "github.com/okian/binsight/internal/domain/catalog"
)

// Option applies a configuration option to the RandomSimulator.
type Option func(*RandomSimulator)

// WithCatalog replaces the detection catalog.
func WithCatalog(templates []catalog.Template) Option {
	return func(s *RandomSimulator) {
		if len(templates) > 0 {
			s.catalog = templates
		}
	}
}

// WithRewardPoints sets the points granted for a correct verdict.
func WithRewardPoints(points int) Option {
	return func(s *RandomSimulator) {
		if points > 0 {
			s.rewardPoints = points
		}
	}
}

// WithFinePoints sets the points deducted for an incorrect verdict.
func WithFinePoints(points int) Option {
	return func(s *RandomSimulator) {
		if points > 0 {
			s.finePoints = points
		}
	}
}

// WithCorrectProbability sets the chance of a correct verdict.
func WithCorrectProbability(p float64) Option {
	return func(s *RandomSimulator) {
		if p >= 0 && p <= 1 {
			s.correctProbability = p
		}
	}
}

// WithRandSource sets the random source, making draws reproducible.
func WithRandSource(src rand.Source) Option {
	return func(s *RandomSimulator) {
		if src != nil {
			s.rng = rand.New(src) //nolint:gosec // injected source, non-cryptographic
		}
	}
}
