package transport

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/matchforge/matchengine/internal/domain"
	"github.com/matchforge/matchengine/internal/geo"
)

// Default commute tolerance when the candidate did not bound a mode.
const defaultMaxTravelMin = 45

// Result is the outcome of the transport feasibility check. Degraded means
// the geo provider could not answer: the location score is neutral and the
// result must not trigger the transport hard gate.
type Result struct {
	Feasible         bool                             `json:"feasible"`
	BestMode         domain.TransportMode             `json:"best_mode,omitempty"`
	BestTimeMin      float64                          `json:"best_time_min,omitempty"`
	PerModeScores    map[domain.TransportMode]float64 `json:"per_mode_scores,omitempty"`
	LocationSubScore float64                          `json:"location_sub_score"`
	Reason           string                           `json:"reason,omitempty"`
	Degraded         bool                             `json:"degraded,omitempty"`
}

// Router is the travel capability the pre-filter needs from the geo
// gateway.
type Router interface {
	Geocode(ctx context.Context, address string) (geo.Geocode, error)
	TravelTime(ctx context.Context, from, to geo.Coordinate, mode domain.TransportMode, at time.Time) (float64, error)
}

// PreFilter decides commute feasibility before expensive scoring. It is a
// hard-gate input: an infeasible commute caps the total score in STRICT
// mode.
type PreFilter struct {
	router Router
}

// NewPreFilter creates a pre-filter over the given router.
func NewPreFilter(router Router) *PreFilter {
	return &PreFilter{router: router}
}

// Evaluate runs the feasibility check for one candidate/job pair.
func (p *PreFilter) Evaluate(ctx context.Context, c *domain.CandidateProfile, j *domain.JobPosting) Result {
	// Fully remote positions have no commute to check.
	if j.Modality == domain.ModalityRemote {
		return Result{Feasible: true, LocationSubScore: 1.0, Reason: "remote_position"}
	}

	home, err := p.router.Geocode(ctx, c.HomeAddress)
	if err != nil {
		return p.degraded(err)
	}
	work, err := p.router.Geocode(ctx, j.Location)
	if err != nil {
		return p.degraded(err)
	}

	// An ambiguous address is not a reason to reject anyone.
	if home.Unknown || work.Unknown {
		return Result{Feasible: true, LocationSubScore: 0.5, Reason: "address_ambiguous"}
	}

	result := Result{PerModeScores: make(map[domain.TransportMode]float64)}
	hasRemote := false

	for _, mode := range c.TransportModes {
		if mode == domain.ModeRemote {
			hasRemote = true
			continue
		}

		minutes, err := p.router.TravelTime(ctx, home.Coordinate, work.Coordinate, mode, time.Time{})
		if err != nil {
			return p.degraded(err)
		}

		maxMin := c.MaxTravelTimeMin[mode]
		if maxMin <= 0 {
			maxMin = defaultMaxTravelMin
		}

		score := 0.0
		if minutes <= float64(maxMin) {
			score = 1.0 - minutes/float64(maxMin)
			result.Feasible = true
		}
		result.PerModeScores[mode] = score

		if result.BestMode == "" || score > result.LocationSubScore {
			result.LocationSubScore = score
			result.BestMode = mode
			result.BestTimeMin = minutes
		}
	}

	// REMOTE in the mode set keeps the match feasible even when every
	// physical commute is out of bounds.
	if hasRemote && !result.Feasible {
		result.Feasible = true
		result.Reason = "remote_fallback"
	}
	if !result.Feasible {
		result.Reason = "no_feasible_mode"
	}
	return result
}

func (p *PreFilter) degraded(err error) Result {
	log.Warn().Err(err).Msg("transport pre-filter degraded: geo provider unavailable")
	return Result{
		Feasible:         true,
		LocationSubScore: 0.5,
		Reason:           "provider_unavailable",
		Degraded:         true,
	}
}
