package scorers

import (
	"context"
	"math"
)

// Tolerance band applied around the candidate's desired salary.
const desiredBandFactor = 0.1

// Salary scores the overlap between the candidate's desired range and the
// job's posted range. Disjoint ranges decay with the relative gap and are
// flagged in details for the alert builder.
func (s *Set) Salary(_ context.Context, in Input) Output {
	desired := in.Candidate.DesiredSalary
	details := map[string]any{}

	if desired <= 0 {
		details["desired_salary_missing"] = true
		return Output{Raw: 0.5, Confidence: 0.3, Details: details}
	}
	if in.Job.SalaryMidpoint() <= 0 {
		details["job_range_missing"] = true
		return Output{Raw: 0.5, Confidence: 0.3, Details: details}
	}

	lo := desired * (1 - desiredBandFactor)
	hi := desired * (1 + desiredBandFactor)
	jobMin, jobMax := in.Job.SalaryMin, in.Job.SalaryMax
	if jobMax <= 0 {
		jobMax = jobMin
	}

	var raw float64
	if hi >= jobMin && jobMax >= lo {
		// Overlapping ranges: closeness of the midpoints, floored at 0.5.
		dist := math.Abs(desired-in.Job.SalaryMidpoint()) / desired
		raw = math.Max(0.5, 1-dist)
	} else {
		var gap float64
		if lo > jobMax {
			gap = lo - jobMax
		} else {
			gap = jobMin - hi
		}
		raw = math.Max(0, 1-gap/desired)
		details["outside_range"] = true
		details["gap"] = gap
	}

	details["desired"] = desired
	details["job_midpoint"] = in.Job.SalaryMidpoint()
	return Output{Raw: clamp01(raw), Confidence: 0.9, Details: details}
}

// SalaryProgression scores the raise the job represents over the
// candidate's current salary: flat is a weak signal, +20% or more is a
// strong one, a pay cut is nearly disqualifying for this component.
func (s *Set) SalaryProgression(_ context.Context, in Input) Output {
	current := in.Candidate.CurrentSalary
	details := map[string]any{}

	if current <= 0 {
		details["current_salary_missing"] = true
		return Output{Raw: 0.5, Confidence: 0.3, Details: details}
	}
	mid := in.Job.SalaryMidpoint()
	if mid <= 0 {
		details["job_range_missing"] = true
		return Output{Raw: 0.5, Confidence: 0.3, Details: details}
	}

	delta := (mid - current) / current
	details["delta_pct"] = delta * 100

	var raw float64
	switch {
	case delta < 0:
		raw = 0.1
	case delta < 0.10:
		raw = 0.3 + 4*delta // 0.3 at flat, 0.7 at +10%
	case delta < 0.20:
		raw = 0.7 + 3*(delta-0.10) // 1.0 at +20%
	default:
		raw = 1.0
	}
	return Output{Raw: clamp01(raw), Confidence: 0.9, Details: details}
}
