// Package engine orchestrates one matching call: it resolves the weight
// matrix, fans the twelve scorers out under cooperative deadlines, applies
// the hierarchy and transport hard gates and assembles the diagnosed
// result.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/matchforge/matchengine/internal/domain"
	"github.com/matchforge/matchengine/internal/hierarchy"
	"github.com/matchforge/matchengine/internal/scoring/scorers"
	"github.com/matchforge/matchengine/internal/scoring/weights"
	"github.com/matchforge/matchengine/internal/telemetry/metrics"
)

// Score caps applied by the hard gates in STRICT mode.
const (
	hierarchyGateCap = 0.40
	transportGateCap = 0.25
)

// ErrBusy is returned when the engine is at its concurrent-request limit.
// Callers should shed the request rather than queue it.
var ErrBusy = errors.New("engine at concurrency limit")

// Config tunes the engine's deadlines and admission control.
type Config struct {
	TotalDeadline  time.Duration // whole request, diagnostics included
	ScorerBudget   time.Duration // shared by the scorer fan-out
	ScorerDeadline time.Duration // per scorer
	Concurrency    int           // in-flight request ceiling

	HardGateDefault domain.HardGateMode
}

// DefaultConfig returns production deadlines: 175ms total, 150ms scorer
// budget, 30ms per scorer, 128 concurrent requests.
func DefaultConfig() Config {
	return Config{
		TotalDeadline:   175 * time.Millisecond,
		ScorerBudget:    150 * time.Millisecond,
		ScorerDeadline:  30 * time.Millisecond,
		Concurrency:     128,
		HardGateDefault: domain.GateStrict,
	}
}

// Engine is the adaptive scoring orchestrator. Safe for concurrent use;
// all per-request state dies with the request.
type Engine struct {
	registry *weights.Registry
	scorers  map[string]scorers.Func
	detector *hierarchy.Detector
	metrics  *metrics.Registry
	slots    chan struct{}
	cfg      Config
}

// New builds an engine over the given registry, scorer set and detector.
// The metrics registry may be nil.
func New(reg *weights.Registry, set *scorers.Set, det *hierarchy.Detector, m *metrics.Registry, cfg Config) *Engine {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConfig().Concurrency
	}
	return &Engine{
		registry: reg,
		scorers:  set.ByName(),
		detector: det,
		metrics:  m,
		slots:    make(chan struct{}, cfg.Concurrency),
		cfg:      cfg,
	}
}

// scorerResult pairs one component's output with its timing.
type scorerResult struct {
	out     scorers.Output
	elapsed time.Duration
}

// Match scores one candidate/job pair. It returns ErrBusy at the
// concurrency limit and a validation error for malformed requests; every
// other outcome is a MatchResult, possibly partial with
// DeadlineExceeded set.
func (e *Engine) Match(ctx context.Context, req *domain.MatchRequest) (*domain.MatchResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	select {
	case e.slots <- struct{}{}:
	default:
		e.metrics.RecordBusy()
		return nil, ErrBusy
	}
	defer func() { <-e.slots }()
	e.metrics.InFlightAdd(1)
	defer e.metrics.InFlightAdd(-1)

	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, e.cfg.TotalDeadline)
	defer cancel()

	reason := req.ListeningReasonOverride
	if reason == "" {
		reason = req.Candidate.PrimaryListeningReason()
	}
	matrix := e.registry.Resolve(reason)
	base := e.registry.Base()

	gateMode := req.HardGateMode
	if gateMode == "" {
		gateMode = e.cfg.HardGateDefault
	}

	// Level detection is cheap and synchronous; the compat verdict feeds
	// the hierarchy hard gate.
	candLevel := e.detector.DetectCandidate(req.Candidate)
	jobLevel := e.detector.DetectJob(req.Job)
	compat := hierarchy.Compatibility(candLevel.Level, jobLevel.Level)

	in := scorers.Input{Candidate: req.Candidate, Job: req.Job, Reason: reason}
	results := e.fanOut(ctx, in)

	result := &domain.MatchResult{
		RequestID:           uuid.NewString(),
		ListeningReasonUsed: reason,
		MatrixID:            matrix.ID,
		Components:          make([]domain.ComponentScore, 0, len(domain.ComponentOrder)),
	}

	// Totals accumulate in canonical order so identical requests produce
	// identical floats.
	rawTotal := 0.0
	confidence := 0.0
	partial := false
	transportFeasible := true
	transportDegraded := false
	for _, name := range domain.ComponentOrder {
		res := results[name]
		weight := matrix.Weight(name)

		boost := weight - base.Weight(name)
		if boost < 0 {
			boost = 0
		}

		cs := domain.ComponentScore{
			Name:         name,
			RawScore:     clamp01(res.out.Raw, res.out.Details),
			Weight:       weight,
			BoostApplied: boost,
			Confidence:   clamp01(res.out.Confidence, nil),
			Details:      res.out.Details,
			ElapsedMs:    res.elapsed.Milliseconds(),
		}
		cs.WeightedScore = cs.RawScore * cs.Weight

		rawTotal += cs.WeightedScore
		confidence += cs.Confidence * cs.Weight
		result.Components = append(result.Components, cs)
		e.metrics.ObserveScorer(name, res.elapsed)

		if detailBool(res.out.Details, "timeout") {
			partial = true
		}
		if name == domain.ComponentLocation {
			if feasible, ok := res.out.Details["feasible"].(bool); ok {
				transportFeasible = feasible
			}
			if degraded, ok := res.out.Details["degraded"].(bool); ok && degraded {
				transportDegraded = true
			}
		}
	}

	result.TotalScore = rawTotal
	result.Confidence = confidence

	e.applyGates(result, compat, transportFeasible, transportDegraded, gateMode)
	buildDiagnostics(result)

	// A missed global deadline or any substituted scorer means the scores
	// are best-effort partials.
	if ctx.Err() != nil || partial {
		result.DeadlineExceeded = true
		e.metrics.RecordDeadlineExceeded()
	}
	result.TotalElapsedMs = time.Since(start).Milliseconds()
	e.metrics.ObserveMatch(matchOutcome(result), time.Since(start))

	log.Debug().
		Str("request_id", result.RequestID).
		Str("matrix", result.MatrixID).
		Float64("total", result.TotalScore).
		Int64("elapsed_ms", result.TotalElapsedMs).
		Msg("match scored")
	return result, nil
}

// fanOut runs every scorer concurrently under the shared budget and the
// per-scorer deadline. Scorers that blow their deadline or panic are
// replaced by the neutral output; no goroutine outlives the call.
func (e *Engine) fanOut(ctx context.Context, in scorers.Input) map[string]scorerResult {
	budgetCtx, cancel := context.WithTimeout(ctx, e.cfg.ScorerBudget)
	defer cancel()

	type named struct {
		name string
		res  scorerResult
	}
	out := make(chan named, len(e.scorers))

	for name, fn := range e.scorers {
		go func(name string, fn scorers.Func) {
			scorerCtx, cancel := context.WithTimeout(budgetCtx, e.cfg.ScorerDeadline)
			defer cancel()

			started := time.Now()
			done := make(chan scorers.Output, 1)
			go func() {
				defer func() {
					if r := recover(); r != nil {
						log.Error().Str("scorer", name).Interface("panic", r).Msg("scorer panicked")
						done <- scorers.Neutral("panic")
					}
				}()
				done <- fn(scorerCtx, in)
			}()

			select {
			case o := <-done:
				out <- named{name, scorerResult{out: o, elapsed: time.Since(started)}}
			case <-scorerCtx.Done():
				out <- named{name, scorerResult{out: scorers.Neutral("timeout"), elapsed: time.Since(started)}}
			}
		}(name, fn)
	}

	results := make(map[string]scorerResult, len(e.scorers))
	for range e.scorers {
		n := <-out
		results[n.name] = n.res
	}
	return results
}

// applyGates caps the total for categorical incompatibilities in STRICT
// mode and records the corresponding alerts in every mode.
func (e *Engine) applyGates(result *domain.MatchResult, compat hierarchy.Compat, feasible, degraded bool, mode domain.HardGateMode) {
	strict := mode == domain.GateStrict

	if compat.Critical {
		result.Alerts = append(result.Alerts, domain.Alert{
			Kind:     domain.AlertCriticalMismatch,
			Severity: domain.SeverityCritical,
			Message:  fmt.Sprintf("hierarchical levels are %d steps apart", compat.StepGap),
		})
		if strict && result.TotalScore > hierarchyGateCap {
			result.TotalScore = hierarchyGateCap
			result.HardGateTriggered = domain.AlertCriticalMismatch
			e.metrics.RecordGate(string(domain.AlertCriticalMismatch))
		}
	}
	if compat.Overqualified {
		result.Alerts = append(result.Alerts, domain.Alert{
			Kind:     domain.AlertOverqualified,
			Severity: domain.SeverityWarn,
			Message:  "candidate sits two or more levels above the position",
		})
	}

	// A degraded transport check never gates: the provider being down is
	// not evidence the commute is impossible.
	if !feasible && !degraded {
		result.Alerts = append(result.Alerts, domain.Alert{
			Kind:     domain.AlertTransportInfeasible,
			Severity: domain.SeverityCritical,
			Message:  "no declared transport mode reaches the job within the candidate's limits",
		})
		if strict && result.TotalScore > transportGateCap {
			result.TotalScore = transportGateCap
			result.HardGateTriggered = domain.AlertTransportInfeasible
			e.metrics.RecordGate(string(domain.AlertTransportInfeasible))
		}
	}
}

func matchOutcome(r *domain.MatchResult) string {
	switch {
	case r.DeadlineExceeded:
		return "deadline_exceeded"
	case r.HardGateTriggered != "":
		return "gated"
	default:
		return "ok"
	}
}

// clamp01 bounds v to [0,1]; out-of-range inputs are recorded in details
// when a details map is present.
func clamp01(v float64, details map[string]any) float64 {
	if v >= 0 && v <= 1 {
		return v
	}
	if details != nil {
		details["clamped_from"] = v
	}
	if v < 0 {
		return 0
	}
	return 1
}
