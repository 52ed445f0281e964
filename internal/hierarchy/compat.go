package hierarchy

import "github.com/matchforge/matchengine/internal/domain"

// Step-gap compatibility values. Symmetric before the overqualification
// penalty is applied.
var gapScores = []float64{1.0, 0.7, 0.35, 0.05, 0.05, 0.05}

// overqualifiedFactor is applied when the candidate sits two or more
// steps above the job level.
const overqualifiedFactor = 0.7

// criticalGap is the step gap at which a mismatch becomes critical and the
// engine may hard-cap the total score.
const criticalGap = 3

// Compat describes how well two hierarchical levels fit together.
type Compat struct {
	Score         float64 `json:"score"`
	StepGap       int     `json:"step_gap"`
	Overqualified bool    `json:"overqualified"`
	Critical      bool    `json:"critical"`
}

// Compatibility evaluates candidate level against job level using the
// 6x6 compatibility table plus the asymmetric overqualification penalty.
func Compatibility(candidate, job domain.Level) Compat {
	gap := domain.StepGap(candidate, job)
	score := gapScores[gap]

	overqualified := candidate.Ordinal()-job.Ordinal() >= 2
	if overqualified {
		score *= overqualifiedFactor
	}

	return Compat{
		Score:         score,
		StepGap:       gap,
		Overqualified: overqualified,
		Critical:      gap >= criticalGap,
	}
}
