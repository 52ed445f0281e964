package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/matchforge/matchengine/internal/domain"
)

func component(name string, raw, weight float64, details map[string]any) domain.ComponentScore {
	return domain.ComponentScore{
		Name:          name,
		RawScore:      raw,
		Weight:        weight,
		WeightedScore: raw * weight,
		Confidence:    0.9,
		Details:       details,
	}
}

func TestBuildDiagnostics_TopContributorsAndBuckets(t *testing.T) {
	result := &domain.MatchResult{
		Components: []domain.ComponentScore{
			component(domain.ComponentSemantic, 0.9, 0.24, nil),
			component(domain.ComponentSalary, 0.8, 0.19, nil),
			component(domain.ComponentExperience, 1.0, 0.14, nil),
			component(domain.ComponentLocation, 0.2, 0.09, nil),
			component(domain.ComponentMotivations, 0.5, 0.08, nil),
			component(domain.ComponentSector, 0.7, 0.06, nil),
			component(domain.ComponentContract, 1.0, 0.05, nil),
			component(domain.ComponentTiming, 1.0, 0.04, nil),
			component(domain.ComponentWorkModality, 0.1, 0.04, nil),
			component(domain.ComponentSalaryProgression, 0.9, 0.03, nil),
			component(domain.ComponentListeningReason, 0.5, 0.02, nil),
			component(domain.ComponentCandidateStatus, 1.0, 0.02, nil),
		},
	}

	buildDiagnostics(result)

	assert.Equal(t, []string{domain.ComponentSemantic, domain.ComponentSalary, domain.ComponentExperience}, result.TopContributors)
	assert.ElementsMatch(t, []string{domain.ComponentSemantic, domain.ComponentSalary, domain.ComponentExperience, domain.ComponentContract}, result.Strengths)
	// Work modality scores worse but its weight is below the diagnosis
	// threshold; only location qualifies as a weakness.
	assert.Equal(t, []string{domain.ComponentLocation}, result.Weaknesses)
	assert.Equal(t, []string{suggestionTexts[domain.ComponentLocation]}, result.Suggestions)
}

func TestBuildDiagnostics_SectorExclusionSuggestion(t *testing.T) {
	result := &domain.MatchResult{
		Components: []domain.ComponentScore{
			component(domain.ComponentSemantic, 0.9, 0.24, nil),
			component(domain.ComponentSalary, 0.8, 0.19, nil),
			component(domain.ComponentExperience, 1.0, 0.14, nil),
			component(domain.ComponentLocation, 0.8, 0.09, nil),
			component(domain.ComponentMotivations, 0.5, 0.08, nil),
			component(domain.ComponentSector, 0.0, 0.06, map[string]any{"excluded": true}),
			component(domain.ComponentContract, 1.0, 0.05, nil),
			component(domain.ComponentTiming, 1.0, 0.04, nil),
			component(domain.ComponentWorkModality, 1.0, 0.04, nil),
			component(domain.ComponentSalaryProgression, 0.9, 0.03, nil),
			component(domain.ComponentListeningReason, 0.5, 0.02, nil),
			component(domain.ComponentCandidateStatus, 1.0, 0.02, nil),
		},
	}

	buildDiagnostics(result)

	assert.Equal(t, []string{sectorExcludedSuggestion}, result.Suggestions)
	assert.True(t, result.HasAlert(domain.AlertSectorExcluded))
}

func TestBuildDiagnostics_GeoDegradedAlert(t *testing.T) {
	cases := map[string]map[string]any{
		"degraded prefilter": {"degraded": true},
		"timed out scorer":   {"timeout": true},
	}
	for name, details := range cases {
		t.Run(name, func(t *testing.T) {
			result := &domain.MatchResult{
				Components: []domain.ComponentScore{
					component(domain.ComponentLocation, 0.5, 0.09, details),
				},
			}

			buildDiagnostics(result)

			assert.True(t, result.HasAlert(domain.AlertGeoDegraded))
			for _, a := range result.Alerts {
				assert.Equal(t, domain.SeverityWarn, a.Severity)
			}
		})
	}
}

func TestBuildDiagnostics_HealthyLocationHasNoGeoAlert(t *testing.T) {
	result := &domain.MatchResult{
		Components: []domain.ComponentScore{
			component(domain.ComponentLocation, 0.8, 0.09, map[string]any{"feasible": true}),
		},
	}

	buildDiagnostics(result)

	assert.False(t, result.HasAlert(domain.AlertGeoDegraded))
}

func TestBuildDiagnostics_SalaryOutsideRangeAlert(t *testing.T) {
	result := &domain.MatchResult{
		Components: []domain.ComponentScore{
			component(domain.ComponentSalary, 0.3, 0.19, map[string]any{"outside_range": true}),
		},
	}

	buildDiagnostics(result)

	assert.True(t, result.HasAlert(domain.AlertSalaryOutsideRange))
	assert.Equal(t, []string{domain.ComponentSalary}, result.Weaknesses)
}
