package engine

import (
	"sort"

	"github.com/matchforge/matchengine/internal/domain"
)

// Thresholds for calling a component out in the diagnostics.
const (
	strengthRawMin  = 0.75
	weaknessRawMax  = 0.35
	diagnosisWeight = 0.05
)

// suggestionTexts is keyed by the weakest high-weight component.
var suggestionTexts = map[string]string{
	domain.ComponentSemantic:          "Required skills barely overlap with the candidate's profile; review the skill list or consider adjacent skills.",
	domain.ComponentSalary:            "The posted salary range is far from the candidate's expectations.",
	domain.ComponentExperience:        "The candidate's years of experience fall outside the position's band.",
	domain.ComponentLocation:          "The commute is long for every declared transport mode; a hybrid or remote arrangement could help.",
	domain.ComponentMotivations:       "The candidate's stated motivations do not line up with what the position offers.",
	domain.ComponentSector:            "The job's sector is far from the candidate's preferences.",
	domain.ComponentContract:          "The offered contract type ranks low in the candidate's preferences.",
	domain.ComponentTiming:            "The candidate cannot start within the window the position needs.",
	domain.ComponentWorkModality:      "The work modality policy conflicts with the candidate's preference.",
	domain.ComponentSalaryProgression: "The position offers little or no raise over the candidate's current salary.",
	domain.ComponentListeningReason:   "The candidate's stated reason for listening is not supported by their profile.",
	domain.ComponentCandidateStatus:   "The candidate's current status suggests limited availability.",
}

// Sector exclusions get a more specific message than the generic one.
const sectorExcludedSuggestion = "Job sector is in the candidate's excluded list."

// buildDiagnostics fills the explanatory fields of a result from its
// component scores: top contributors, strengths, weaknesses, suggestions
// and detail-derived alerts.
func buildDiagnostics(result *domain.MatchResult) {
	byWeighted := make([]domain.ComponentScore, len(result.Components))
	copy(byWeighted, result.Components)
	sort.SliceStable(byWeighted, func(i, j int) bool {
		return byWeighted[i].WeightedScore > byWeighted[j].WeightedScore
	})

	result.TopContributors = make([]string, 0, 3)
	for i := 0; i < 3 && i < len(byWeighted); i++ {
		result.TopContributors = append(result.TopContributors, byWeighted[i].Name)
	}

	result.Strengths = nil
	result.Weaknesses = nil
	var worst *domain.ComponentScore
	for i := range result.Components {
		cs := &result.Components[i]
		if cs.Weight < diagnosisWeight {
			continue
		}
		switch {
		case cs.RawScore >= strengthRawMin:
			result.Strengths = append(result.Strengths, cs.Name)
		case cs.RawScore <= weaknessRawMax:
			result.Weaknesses = append(result.Weaknesses, cs.Name)
			if worst == nil || cs.Weight > worst.Weight {
				worst = cs
			}
		}
	}

	result.Suggestions = nil
	if worst != nil {
		text := suggestionTexts[worst.Name]
		if worst.Name == domain.ComponentSector && detailBool(worst.Details, "excluded") {
			text = sectorExcludedSuggestion
		}
		if text != "" {
			result.Suggestions = append(result.Suggestions, text)
		}
	}

	appendDetailAlerts(result)
}

// appendDetailAlerts surfaces scorer findings that warrant an alert even
// without a hard gate.
func appendDetailAlerts(result *domain.MatchResult) {
	if cs := result.Component(domain.ComponentSalary); cs != nil && detailBool(cs.Details, "outside_range") {
		result.Alerts = append(result.Alerts, domain.Alert{
			Kind:     domain.AlertSalaryOutsideRange,
			Severity: domain.SeverityWarn,
			Message:  "candidate's desired salary is outside the posted range",
		})
	}
	if cs := result.Component(domain.ComponentSector); cs != nil && detailBool(cs.Details, "excluded") {
		result.Alerts = append(result.Alerts, domain.Alert{
			Kind:     domain.AlertSectorExcluded,
			Severity: domain.SeverityWarn,
			Message:  "job sector is in the candidate's excluded list",
		})
	}
	// The location scorer blocks on the geo provider: a degraded check or a
	// timed-out scorer both mean the provider could not answer in time and
	// the neutral substitute is in effect.
	if cs := result.Component(domain.ComponentLocation); cs != nil &&
		(detailBool(cs.Details, "degraded") || detailBool(cs.Details, "timeout")) {
		result.Alerts = append(result.Alerts, domain.Alert{
			Kind:     domain.AlertGeoDegraded,
			Severity: domain.SeverityWarn,
			Message:  "geo provider unavailable, location scored neutrally",
		})
	}
}

func detailBool(details map[string]any, key string) bool {
	if details == nil {
		return false
	}
	v, _ := details[key].(bool)
	return v
}
