package scorers

import "context"

// Location delegates to the transport pre-filter and surfaces its verdict
// in the details map so the engine can apply the transport hard gate
// without re-running the check.
func (s *Set) Location(ctx context.Context, in Input) Output {
	res := s.prefilter.Evaluate(ctx, in.Candidate, in.Job)

	details := map[string]any{
		"feasible": res.Feasible,
	}
	if res.BestMode != "" {
		details["best_mode"] = string(res.BestMode)
		details["best_time_min"] = res.BestTimeMin
	}
	if res.Reason != "" {
		details["reason"] = res.Reason
	}
	if res.Degraded {
		details["degraded"] = true
	}
	for mode, score := range res.PerModeScores {
		details["mode_"+string(mode)] = score
	}

	conf := 0.9
	if res.Degraded || res.Reason == "address_ambiguous" {
		conf = 0.4
	}
	return Output{Raw: clamp01(res.LocationSubScore), Confidence: conf, Details: details}
}
