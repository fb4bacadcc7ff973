// Package stats derives aggregate statistics from stored users and records.
package stats

import (
	model "github.com/okian/binsight/internal/domain/model"
)

// Compute folds users and records into a Summary. Pure and deterministic;
// callers recompute on every query rather than caching increments.
func Compute(users []model.User, records []model.Record) model.Summary {
	s := model.Summary{
		TotalUsers: len(users),
	}

	for _, r := range records {
		if r.IsCorrect {
			s.CorrectSegregations++
		}
		switch {
		case r.Points > 0:
			s.RewardsGiven += r.Points
		case r.Points < 0:
			s.FinesCollected += -r.Points
		}
	}

	return s
}
