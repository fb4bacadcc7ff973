// Package classify defines the contract for producing classification
// outcomes from a recorded session.
package classify

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	catalog "github.com/okian/binsight/internal/domain/catalog"
	model "github.com/okian/binsight/internal/domain/model"
)

// Default simulation configuration constants.
const (
	defaultRewardPoints       = 10
	defaultFinePoints         = 5
	defaultCorrectProbability = 0.7
	maxDetections             = 3
	confidenceFloor           = 0.7
	confidenceSpread          = 0.3
)

// Simulator produces a classification outcome for a completed recording.
// There is no real classifier behind it; outcomes are random draws, so the
// random source must be injectable for deterministic tests.
type Simulator interface {
	// Simulate produces one outcome, honoring ctx for cancellation.
	Simulate(ctx context.Context) (model.Outcome, error)
}

// RandomSimulator implements Simulator with random draws from a fixed catalog.
type RandomSimulator struct {
	catalog            []catalog.Template
	rewardPoints       int
	finePoints         int
	correctProbability float64
	rng                *rand.Rand
}

// New creates a random simulator with configuration options.
func New(opts ...Option) *RandomSimulator {
	s := &RandomSimulator{
		catalog:            catalog.Templates(),
		rewardPoints:       defaultRewardPoints,
		finePoints:         defaultFinePoints,
		correctProbability: defaultCorrectProbability,
		rng:                rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // non-cryptographic demo randomness
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Simulate draws 1-3 detections from the catalog with fresh confidences and
// an independent correctness verdict.
//
// The verdict does not compare the drawn categories against any ground truth;
// the source system behaves the same way because there is no real classifier.
func (s *RandomSimulator) Simulate(ctx context.Context) (model.Outcome, error) {
	if err := ctx.Err(); err != nil {
		return model.Outcome{}, fmt.Errorf("context cancelled: %w", err)
	}

	n := 1 + s.rng.Intn(maxDetections)
	items := make([]model.DetectedItem, 0, n)
	for i := 0; i < n; i++ {
		tpl := s.catalog[s.rng.Intn(len(s.catalog))]
		items = append(items, model.DetectedItem{
			Item:       tpl.Item,
			Category:   tpl.Category,
			Confidence: confidenceFloor + s.rng.Float64()*confidenceSpread,
		})
	}

	correct := s.rng.Float64() < s.correctProbability
	points := s.rewardPoints
	if !correct {
		points = -s.finePoints
	}

	return model.Outcome{
		DetectedItems: items,
		IsCorrect:     correct,
		Points:        points,
	}, nil
}
