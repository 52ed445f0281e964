package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidRequest wraps all request validation failures. Handlers map it
// to an INVALID_REQUEST response before any scoring happens.
var ErrInvalidRequest = errors.New("invalid request")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}

// Validate rejects malformed requests before any scoring work is done.
func (r *MatchRequest) Validate() error {
	if r.Candidate == nil {
		return invalid("candidate profile missing")
	}
	if r.Job == nil {
		return invalid("job posting missing")
	}
	if err := r.Candidate.validate(); err != nil {
		return err
	}
	if err := r.Job.validate(); err != nil {
		return err
	}
	if r.ListeningReasonOverride != "" && !ValidListeningReason(r.ListeningReasonOverride) {
		return invalid("unknown listening reason override %q", r.ListeningReasonOverride)
	}
	switch r.HardGateMode {
	case "", GateStrict, GateAdvisory:
	default:
		return invalid("unknown hard gate mode %q", r.HardGateMode)
	}
	return nil
}

func (c *CandidateProfile) validate() error {
	if c.ID == "" {
		return invalid("candidate id missing")
	}
	if c.YearsTotal < 0 || c.YearsTotal > 60 {
		return invalid("candidate years_total %d out of range [0,60]", c.YearsTotal)
	}
	if c.RemoteDaysPerWeek < 0 || c.RemoteDaysPerWeek > 5 {
		return invalid("candidate remote_days_per_week %d out of range [0,5]", c.RemoteDaysPerWeek)
	}
	if c.SectorOpenness != 0 && (c.SectorOpenness < 1 || c.SectorOpenness > 5) {
		return invalid("candidate sector_openness %d out of range [1,5]", c.SectorOpenness)
	}
	for _, m := range c.TransportModes {
		if !knownTransportMode(m) {
			return invalid("unknown transport mode %q", m)
		}
	}
	for _, reason := range c.ListeningReasons {
		if !ValidListeningReason(reason) {
			return invalid("unknown listening reason %q", reason)
		}
	}
	switch c.Status {
	case "", StatusEmployed, StatusActivelySearching, StatusStudent, StatusFreelancer, StatusBetweenJobs:
	default:
		return invalid("unknown candidate status %q", c.Status)
	}
	return nil
}

func (j *JobPosting) validate() error {
	if j.Title == "" {
		return invalid("job title missing")
	}
	if j.MinYears < 0 || j.MinYears > 60 {
		return invalid("job min_years %d out of range [0,60]", j.MinYears)
	}
	if j.MaxYears != 0 && j.MaxYears < j.MinYears {
		return invalid("job max_years %d below min_years %d", j.MaxYears, j.MinYears)
	}
	if j.SalaryMin < 0 || j.SalaryMax < 0 {
		return invalid("job salary range must be non-negative")
	}
	if j.SalaryMax > 0 && j.SalaryMax < j.SalaryMin {
		return invalid("job salary_max below salary_min")
	}
	if j.RequiredLevel != "" && j.RequiredLevel.Ordinal() < 0 {
		return invalid("unknown required level %q", j.RequiredLevel)
	}
	switch j.Modality {
	case "", ModalityOnSite, ModalityHybrid, ModalityRemote:
	default:
		return invalid("unknown job modality %q", j.Modality)
	}
	return nil
}

func knownTransportMode(m TransportMode) bool {
	for _, known := range KnownTransportModes {
		if m == known {
			return true
		}
	}
	return false
}
