package scorers

import (
	"context"

	"github.com/matchforge/matchengine/internal/domain"
)

// ListeningReason checks that the resolved reason is consistent with
// signals derivable from the rest of the profile. A consistent reason
// scores 1.0; a reason the profile contradicts or does not support scores
// 0.5.
func (s *Set) ListeningReason(_ context.Context, in Input) Output {
	details := map[string]any{"reason": string(in.Reason)}

	if in.Reason == "" {
		details["no_reason"] = true
		return Output{Raw: 0.5, Confidence: 0.2, Details: details}
	}

	consistent, signal := reasonConsistent(in.Reason, in.Candidate, in.Job)
	details["consistent"] = consistent
	if signal != "" {
		details["signal"] = signal
	}

	raw := 0.5
	conf := 0.8
	if consistent {
		raw = 1.0
	}
	if signal == "" {
		// Reasons with no derivable signal are taken at face value.
		conf = 0.4
	}
	return Output{Raw: raw, Confidence: conf, Details: details}
}

func reasonConsistent(reason domain.ListeningReason, c *domain.CandidateProfile, j *domain.JobPosting) (bool, string) {
	hasMotivation := func(toks ...string) bool {
		for _, m := range c.Motivations {
			n := NormalizeToken(m)
			for _, t := range toks {
				if n == t {
					return true
				}
			}
		}
		return false
	}

	switch reason {
	case domain.ReasonCompensationLow:
		if c.CurrentSalary > 0 && j.SalaryMidpoint() > 0 {
			return c.CurrentSalary < j.SalaryMidpoint(), "current_below_market"
		}
		if hasMotivation("compensation") {
			return true, "motivation_compensation"
		}
		return false, "no_salary_data"
	case domain.ReasonGrowthLack:
		if hasMotivation("growth", "learning") {
			return true, "motivation_growth"
		}
		return false, "no_growth_motivation"
	case domain.ReasonFlexibilityLack:
		if hasMotivation("flexibility", "work_life_balance") || c.RemoteDaysPerWeek > 0 {
			return true, "wants_flexibility"
		}
		return false, "no_flexibility_signal"
	case domain.ReasonLocationIssue:
		if c.PreferredModality != domain.ModalityOnSite || c.HasTransportMode(domain.ModeRemote) {
			return true, "prefers_remote_or_hybrid"
		}
		return false, "on_site_preference"
	case domain.ReasonRoleMismatch:
		if hasMotivation("impact", "learning", "leadership") {
			return true, "motivation_role_content"
		}
		return false, "no_role_signal"
	default:
		// MARKET_CURIOSITY, MANAGEMENT_ISSUES, GENERAL_DISSATISFACTION:
		// nothing in the profile can confirm or deny these.
		return true, ""
	}
}

// statusScores maps employment status to an availability multiplier.
var statusScores = map[domain.CandidateStatus]float64{
	domain.StatusActivelySearching: 1.0,
	domain.StatusBetweenJobs:       0.8,
	domain.StatusEmployed:          0.7,
	domain.StatusFreelancer:        0.6,
	domain.StatusStudent:           0.5,
}

// CandidateStatus scores how available the candidate actually is.
func (s *Set) CandidateStatus(_ context.Context, in Input) Output {
	details := map[string]any{"status": string(in.Candidate.Status)}

	raw, ok := statusScores[in.Candidate.Status]
	if !ok {
		details["unknown_status"] = true
		return Output{Raw: 0.5, Confidence: 0.2, Details: details}
	}
	return Output{Raw: raw, Confidence: 1.0, Details: details}
}
