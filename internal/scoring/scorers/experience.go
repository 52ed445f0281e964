package scorers

import "context"

const (
	underqualifiedSlope = 0.1
	overqualifiedSlope  = 0.05
)

// Experience scores total years against the job's band: full score inside
// the band, linear decay below it, and a gentler decay above it.
func (s *Set) Experience(_ context.Context, in Input) Output {
	years := float64(in.Candidate.YearsTotal)
	minY := float64(in.Job.MinYears)
	maxY := float64(in.Job.MaxYears)

	details := map[string]any{
		"candidate_years": in.Candidate.YearsTotal,
		"min_years":       in.Job.MinYears,
	}

	var raw float64
	switch {
	case years < minY:
		raw = 1 - underqualifiedSlope*(minY-years)
		details["years_short"] = minY - years
	case maxY > 0 && years > maxY:
		raw = 1 - overqualifiedSlope*(years-maxY)
		details["years_over"] = years - maxY
	default:
		raw = 1.0
	}
	return Output{Raw: clamp01(raw), Confidence: 0.9, Details: details}
}
