package scorers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matchforge/matchengine/internal/domain"
	"github.com/matchforge/matchengine/internal/geo"
	"github.com/matchforge/matchengine/internal/transport"
)

func newTestSet() *Set {
	return NewSet(DefaultTables(), nil)
}

func TestByName_CoversAllComponents(t *testing.T) {
	byName := newTestSet().ByName()
	require.Len(t, byName, len(domain.ComponentOrder))
	for _, name := range domain.ComponentOrder {
		assert.NotNil(t, byName[name], "missing scorer for %s", name)
	}
}

func TestSemantic_RequiredAndSynonyms(t *testing.T) {
	s := newTestSet()
	in := Input{
		Candidate: &domain.CandidateProfile{
			CurrentTitle: "Backend Engineer",
			Skills:       []string{"golang", "PostgreSQL", "Docker"},
		},
		Job: &domain.JobPosting{
			Title:          "Backend Engineer",
			RequiredSkills: []string{"go", "postgres"},
		},
	}
	out := s.Semantic(context.Background(), in)

	// Both required skills match through the synonym table, plus the full
	// title bonus.
	assert.InDelta(t, 0.7*0.8+0.2, out.Raw, 1e-9)
	assert.Equal(t, 2, out.Details["required_matched"])
	assert.Equal(t, 2, out.Details["synonym_matches"])
}

func TestSemantic_NoOverlap(t *testing.T) {
	s := newTestSet()
	in := Input{
		Candidate: &domain.CandidateProfile{Skills: []string{"accounting"}, CurrentTitle: "Comptable"},
		Job:       &domain.JobPosting{Title: "Machine Learning Engineer", RequiredSkills: []string{"python", "ml"}},
	}
	out := s.Semantic(context.Background(), in)
	assert.Equal(t, 0.0, out.Raw)
}

func TestSalary_OverlapAndFloor(t *testing.T) {
	s := newTestSet()
	in := Input{
		Candidate: &domain.CandidateProfile{DesiredSalary: 50000},
		Job:       &domain.JobPosting{SalaryMin: 48000, SalaryMax: 56000},
	}
	out := s.Salary(context.Background(), in)
	// Midpoints 50000 vs 52000: distance 4%.
	assert.InDelta(t, 0.96, out.Raw, 1e-9)
	assert.NotContains(t, out.Details, "outside_range")
}

func TestSalary_Disjoint(t *testing.T) {
	s := newTestSet()
	in := Input{
		Candidate: &domain.CandidateProfile{DesiredSalary: 80000},
		Job:       &domain.JobPosting{SalaryMin: 40000, SalaryMax: 50000},
	}
	out := s.Salary(context.Background(), in)
	// Band floor 72000 vs job max 50000: gap 22000 over desired 80000.
	assert.InDelta(t, 1-22000.0/80000.0, out.Raw, 1e-9)
	assert.Equal(t, true, out.Details["outside_range"])
}

func TestSalary_MissingDesiredIsNeutral(t *testing.T) {
	s := newTestSet()
	out := s.Salary(context.Background(), Input{
		Candidate: &domain.CandidateProfile{},
		Job:       &domain.JobPosting{SalaryMin: 40000, SalaryMax: 50000},
	})
	assert.Equal(t, 0.5, out.Raw)
	assert.Equal(t, 0.3, out.Confidence)
}

func TestSalaryProgression_Bands(t *testing.T) {
	s := newTestSet()
	cases := []struct {
		current float64
		midpt   float64
		want    float64
	}{
		{50000, 45000, 0.1},  // pay cut
		{50000, 50000, 0.3},  // flat
		{50000, 55000, 0.7},  // +10%
		{50000, 57500, 0.85}, // +15%
		{50000, 60000, 1.0},  // +20%
		{50000, 70000, 1.0},  // +40%
	}
	for _, tc := range cases {
		out := s.SalaryProgression(context.Background(), Input{
			Candidate: &domain.CandidateProfile{CurrentSalary: tc.current},
			Job:       &domain.JobPosting{SalaryMin: tc.midpt, SalaryMax: tc.midpt},
		})
		assert.InDelta(t, tc.want, out.Raw, 1e-9, "midpoint %.0f", tc.midpt)
	}
}

func TestExperience_BandAndDecay(t *testing.T) {
	s := newTestSet()
	job := &domain.JobPosting{MinYears: 3, MaxYears: 8}

	inBand := s.Experience(context.Background(), Input{Candidate: &domain.CandidateProfile{YearsTotal: 5}, Job: job})
	assert.Equal(t, 1.0, inBand.Raw)

	under := s.Experience(context.Background(), Input{Candidate: &domain.CandidateProfile{YearsTotal: 1}, Job: job})
	assert.InDelta(t, 0.8, under.Raw, 1e-9)

	over := s.Experience(context.Background(), Input{Candidate: &domain.CandidateProfile{YearsTotal: 12}, Job: job})
	assert.InDelta(t, 0.8, over.Raw, 1e-9)

	// Open-ended band never penalizes seniority.
	openEnd := s.Experience(context.Background(), Input{
		Candidate: &domain.CandidateProfile{YearsTotal: 20},
		Job:       &domain.JobPosting{MinYears: 3},
	})
	assert.Equal(t, 1.0, openEnd.Raw)
}

func TestWorkModality(t *testing.T) {
	s := newTestSet()

	exact := s.WorkModality(context.Background(), Input{
		Candidate: &domain.CandidateProfile{PreferredModality: domain.ModalityHybrid},
		Job:       &domain.JobPosting{Modality: domain.ModalityHybrid},
	})
	assert.Equal(t, 1.0, exact.Raw)

	hybridClose := s.WorkModality(context.Background(), Input{
		Candidate: &domain.CandidateProfile{PreferredModality: domain.ModalityRemote, RemoteDaysPerWeek: 4},
		Job:       &domain.JobPosting{Modality: domain.ModalityHybrid, RemoteDaysAllowed: 3},
	})
	assert.InDelta(t, 0.8, hybridClose.Raw, 1e-9)

	opposed := s.WorkModality(context.Background(), Input{
		Candidate: &domain.CandidateProfile{PreferredModality: domain.ModalityRemote},
		Job:       &domain.JobPosting{Modality: domain.ModalityOnSite},
	})
	assert.InDelta(t, 0.1, opposed.Raw, 1e-9)

	opposedButCapable := s.WorkModality(context.Background(), Input{
		Candidate: &domain.CandidateProfile{
			PreferredModality: domain.ModalityRemote,
			TransportModes:    []domain.TransportMode{domain.ModeRemote, domain.ModeCar},
		},
		Job: &domain.JobPosting{Modality: domain.ModalityOnSite},
	})
	assert.InDelta(t, 0.3, opposedButCapable.Raw, 1e-9)
}

func TestSector(t *testing.T) {
	s := newTestSet()

	excluded := s.Sector(context.Background(), Input{
		Candidate: &domain.CandidateProfile{ExcludedSectors: []string{"Defense"}},
		Job:       &domain.JobPosting{Sector: "defense"},
	})
	assert.Equal(t, 0.0, excluded.Raw)
	assert.Equal(t, true, excluded.Details["excluded"])

	preferred := s.Sector(context.Background(), Input{
		Candidate: &domain.CandidateProfile{PreferredSectors: []string{"fintech"}},
		Job:       &domain.JobPosting{Sector: "Fintech"},
	})
	assert.Equal(t, 1.0, preferred.Raw)

	// Banking is close to a fintech preference: proximity 0.8 beats the
	// openness baseline.
	adjacent := s.Sector(context.Background(), Input{
		Candidate: &domain.CandidateProfile{PreferredSectors: []string{"fintech"}, SectorOpenness: 2},
		Job:       &domain.JobPosting{Sector: "banking"},
	})
	assert.InDelta(t, 0.8, adjacent.Raw, 1e-9)

	open := s.Sector(context.Background(), Input{
		Candidate: &domain.CandidateProfile{SectorOpenness: 5},
		Job:       &domain.JobPosting{Sector: "logistics"},
	})
	assert.InDelta(t, 0.9, open.Raw, 1e-9)
}

func TestContract_Ranking(t *testing.T) {
	s := newTestSet()
	c := &domain.CandidateProfile{
		ContractRanking: []domain.ContractType{domain.ContractCDI, domain.ContractFreelance, domain.ContractCDD},
	}

	first := s.Contract(context.Background(), Input{Candidate: c, Job: &domain.JobPosting{ContractType: domain.ContractCDI}})
	assert.Equal(t, 1.0, first.Raw)

	third := s.Contract(context.Background(), Input{Candidate: c, Job: &domain.JobPosting{ContractType: domain.ContractCDD}})
	assert.Equal(t, 0.5, third.Raw)

	absent := s.Contract(context.Background(), Input{Candidate: c, Job: &domain.JobPosting{ContractType: domain.ContractInterim}})
	assert.Equal(t, 0.0, absent.Raw)
}

func TestTiming(t *testing.T) {
	s := newTestSet()
	start := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	ready := s.Timing(context.Background(), Input{
		Candidate: &domain.CandidateProfile{AvailabilityDate: start.AddDate(0, 0, -14)},
		Job:       &domain.JobPosting{DesiredStartDate: start},
	})
	assert.Equal(t, 1.0, ready.Raw)

	flexible := s.Timing(context.Background(), Input{
		Candidate: &domain.CandidateProfile{
			AvailabilityDate: start.AddDate(0, 0, 14),
			FlexibilityWeeks: 3,
		},
		Job: &domain.JobPosting{DesiredStartDate: start},
	})
	assert.Equal(t, 0.8, flexible.Raw)

	// Four weeks late with two weeks of flexibility and an eight-week
	// ceiling: 0.5 - 0.02 * (4 - 2).
	waiting := s.Timing(context.Background(), Input{
		Candidate: &domain.CandidateProfile{
			AvailabilityDate: start.AddDate(0, 0, 28),
			FlexibilityWeeks: 2,
		},
		Job: &domain.JobPosting{DesiredStartDate: start, MaxWaitWeeks: 8},
	})
	assert.InDelta(t, 0.46, waiting.Raw, 1e-9)

	tooLate := s.Timing(context.Background(), Input{
		Candidate: &domain.CandidateProfile{AvailabilityDate: start.AddDate(0, 6, 0)},
		Job:       &domain.JobPosting{DesiredStartDate: start, MaxWaitWeeks: 4},
	})
	assert.Equal(t, 0.1, tooLate.Raw)
}

func TestMotivations_OrderWeighted(t *testing.T) {
	s := newTestSet()

	aligned := s.Motivations(context.Background(), Input{
		Candidate: &domain.CandidateProfile{Motivations: []string{"growth", "impact"}},
		Job:       &domain.JobPosting{PositionMotivations: []string{"growth", "impact"}},
	})
	assert.Equal(t, 1.0, aligned.Raw)

	reversed := s.Motivations(context.Background(), Input{
		Candidate: &domain.CandidateProfile{Motivations: []string{"growth", "impact"}},
		Job:       &domain.JobPosting{PositionMotivations: []string{"impact", "growth"}},
	})
	assert.Greater(t, reversed.Raw, 0.0)
	assert.Less(t, reversed.Raw, 1.0)

	disjoint := s.Motivations(context.Background(), Input{
		Candidate: &domain.CandidateProfile{Motivations: []string{"stability"}},
		Job:       &domain.JobPosting{PositionMotivations: []string{"impact"}},
	})
	assert.Equal(t, 0.0, disjoint.Raw)

	empty := s.Motivations(context.Background(), Input{
		Candidate: &domain.CandidateProfile{},
		Job:       &domain.JobPosting{PositionMotivations: []string{"impact"}},
	})
	assert.Equal(t, 0.5, empty.Raw)
	assert.Equal(t, 0.2, empty.Confidence)
}

func TestListeningReason_Consistency(t *testing.T) {
	s := newTestSet()

	consistent := s.ListeningReason(context.Background(), Input{
		Candidate: &domain.CandidateProfile{CurrentSalary: 40000},
		Job:       &domain.JobPosting{SalaryMin: 48000, SalaryMax: 56000},
		Reason:    domain.ReasonCompensationLow,
	})
	assert.Equal(t, 1.0, consistent.Raw)

	inconsistent := s.ListeningReason(context.Background(), Input{
		Candidate: &domain.CandidateProfile{CurrentSalary: 80000},
		Job:       &domain.JobPosting{SalaryMin: 48000, SalaryMax: 56000},
		Reason:    domain.ReasonCompensationLow,
	})
	assert.Equal(t, 0.5, inconsistent.Raw)

	unverifiable := s.ListeningReason(context.Background(), Input{
		Candidate: &domain.CandidateProfile{},
		Job:       &domain.JobPosting{},
		Reason:    domain.ReasonMarketCuriosity,
	})
	assert.Equal(t, 1.0, unverifiable.Raw)
	assert.Equal(t, 0.4, unverifiable.Confidence)
}

func TestCandidateStatus(t *testing.T) {
	s := newTestSet()
	cases := map[domain.CandidateStatus]float64{
		domain.StatusActivelySearching: 1.0,
		domain.StatusBetweenJobs:       0.8,
		domain.StatusEmployed:          0.7,
		domain.StatusFreelancer:        0.6,
		domain.StatusStudent:           0.5,
	}
	for status, want := range cases {
		out := s.CandidateStatus(context.Background(), Input{Candidate: &domain.CandidateProfile{Status: status}})
		assert.Equal(t, want, out.Raw, "status %s", status)
	}
}

func TestLocation_DelegatesToPreFilter(t *testing.T) {
	cfg := geo.DefaultGatewayConfig()
	cache := geo.NewCache(cfg.GeocodeTTL, cfg.RouteTTL, nil, nil)
	defer cache.Close()
	gw := geo.NewGateway(geo.NewFakeProvider(), cache, nil, cfg)
	s := NewSet(DefaultTables(), transport.NewPreFilter(gw))

	out := s.Location(context.Background(), Input{
		Candidate: &domain.CandidateProfile{
			HomeAddress:      "Paris",
			TransportModes:   []domain.TransportMode{domain.ModeCar},
			MaxTravelTimeMin: map[domain.TransportMode]int{domain.ModeCar: 60},
		},
		Job: &domain.JobPosting{Location: "La Defense", Modality: domain.ModalityOnSite},
	})

	assert.Equal(t, true, out.Details["feasible"])
	assert.Greater(t, out.Raw, 0.0)
	assert.Equal(t, "CAR", out.Details["best_mode"])
}

func TestNeutral(t *testing.T) {
	out := Neutral("timeout")
	assert.Equal(t, 0.5, out.Raw)
	assert.Equal(t, 0.0, out.Confidence)
	assert.Equal(t, true, out.Details["timeout"])
}
