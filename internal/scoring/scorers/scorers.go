// Package scorers implements the twelve component scorers. Each scorer is
// a pure function over one candidate/job pair returning a raw score in
// [0,1], a confidence in [0,1] and a details map; the orchestrator owns
// deadlines, fan-out and weighting.
package scorers

import (
	"context"

	"github.com/matchforge/matchengine/internal/domain"
	"github.com/matchforge/matchengine/internal/transport"
)

// Input carries everything a scorer may read for one request.
type Input struct {
	Candidate *domain.CandidateProfile
	Job       *domain.JobPosting

	// Reason is the listening reason the engine resolved for this request.
	Reason domain.ListeningReason
}

// Output is one scorer's verdict before weighting.
type Output struct {
	Raw        float64
	Confidence float64
	Details    map[string]any
}

// Func is the shape of every component scorer.
type Func func(ctx context.Context, in Input) Output

// Neutral is the substitute output for a scorer that timed out or
// panicked: a score that neither helps nor hurts, with zero confidence.
func Neutral(reason string) Output {
	return Output{
		Raw:        0.5,
		Confidence: 0,
		Details:    map[string]any{reason: true},
	}
}

// Set binds the twelve scorers to their shared dependencies.
type Set struct {
	tables    *Tables
	prefilter *transport.PreFilter
}

// NewSet builds the scorer set. The pre-filter is only used by the
// location scorer; tables feed the semantic and sector scorers.
func NewSet(tables *Tables, prefilter *transport.PreFilter) *Set {
	return &Set{tables: tables, prefilter: prefilter}
}

// ByName returns the scorer for each canonical component name.
func (s *Set) ByName() map[string]Func {
	return map[string]Func{
		domain.ComponentSemantic:          s.Semantic,
		domain.ComponentSalary:            s.Salary,
		domain.ComponentExperience:        s.Experience,
		domain.ComponentLocation:          s.Location,
		domain.ComponentMotivations:       s.Motivations,
		domain.ComponentSector:            s.Sector,
		domain.ComponentContract:          s.Contract,
		domain.ComponentTiming:            s.Timing,
		domain.ComponentWorkModality:      s.WorkModality,
		domain.ComponentSalaryProgression: s.SalaryProgression,
		domain.ComponentListeningReason:   s.ListeningReason,
		domain.ComponentCandidateStatus:   s.CandidateStatus,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
