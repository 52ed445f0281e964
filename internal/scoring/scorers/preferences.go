package scorers

import (
	"context"
	"math"
	"time"

	"github.com/matchforge/matchengine/internal/domain"
)

// WorkModality compares the candidate's preferred work mode against the
// job's policy. A shared HYBRID side softens the mismatch; fully opposed
// extremes score near zero.
func (s *Set) WorkModality(_ context.Context, in Input) Output {
	pref := in.Candidate.PreferredModality
	policy := in.Job.Modality
	details := map[string]any{
		"candidate": string(pref),
		"job":       string(policy),
	}

	var raw float64
	switch {
	case pref == policy:
		raw = 1.0
	case pref == domain.ModalityHybrid || policy == domain.ModalityHybrid:
		raw = 0.7
		// Remote-days proximity bonus for hybrid arrangements.
		diff := in.Candidate.RemoteDaysPerWeek - in.Job.RemoteDaysAllowed
		if diff < 0 {
			diff = -diff
		}
		if diff <= 1 {
			raw += 0.1
			details["remote_days_close"] = true
		}
	case !in.Candidate.HasTransportMode(domain.ModeRemote):
		// ON_SITE vs REMOTE with no remote capability declared.
		raw = 0.1
	default:
		raw = 0.3
	}
	return Output{Raw: clamp01(raw), Confidence: 0.9, Details: details}
}

// Sector rewards preferred sectors, zeroes excluded ones and otherwise
// scales with the candidate's declared openness, lifted by the curated
// sector proximity table.
func (s *Set) Sector(_ context.Context, in Input) Output {
	sector := NormalizeToken(in.Job.Sector)
	details := map[string]any{"job_sector": sector}

	for _, ex := range in.Candidate.ExcludedSectors {
		if NormalizeToken(ex) == sector {
			details["excluded"] = true
			return Output{Raw: 0, Confidence: 1.0, Details: details}
		}
	}

	bestProx := 0.0
	for _, pref := range in.Candidate.PreferredSectors {
		if prox := s.tables.SectorProximity(pref, sector); prox > bestProx {
			bestProx = prox
		}
	}
	if bestProx >= 1.0 {
		details["preferred"] = true
		return Output{Raw: 1.0, Confidence: 0.9, Details: details}
	}

	openness := in.Candidate.SectorOpenness
	if openness < 1 {
		openness = 3
		details["openness_defaulted"] = true
	}
	raw := 0.4 + 0.1*float64(openness)
	if bestProx > 0 {
		raw = math.Max(raw, bestProx)
		details["proximity"] = bestProx
	}
	return Output{Raw: clamp01(raw), Confidence: 0.7, Details: details}
}

// Contract looks up the job's contract type in the candidate's ranked
// preferences.
func (s *Set) Contract(_ context.Context, in Input) Output {
	details := map[string]any{"contract": string(in.Job.ContractType)}

	if len(in.Candidate.ContractRanking) == 0 {
		details["no_ranking"] = true
		return Output{Raw: 0.5, Confidence: 0.3, Details: details}
	}

	rankScores := []float64{1.0, 0.75, 0.5, 0.25}
	for i, ct := range in.Candidate.ContractRanking {
		if ct == in.Job.ContractType {
			raw := 0.0
			if i < len(rankScores) {
				raw = rankScores[i]
			}
			details["rank"] = i + 1
			return Output{Raw: raw, Confidence: 1.0, Details: details}
		}
	}
	details["unranked"] = true
	return Output{Raw: 0, Confidence: 1.0, Details: details}
}

// Timing compares when the candidate can start against when the job wants
// them. The gap is the weeks the employer would wait past the desired
// start date.
func (s *Set) Timing(_ context.Context, in Input) Output {
	details := map[string]any{}

	if in.Job.DesiredStartDate.IsZero() {
		details["desired_start_missing"] = true
		return Output{Raw: 1.0, Confidence: 0.4, Details: details}
	}

	ready := in.Candidate.AvailabilityDate
	if ready.IsZero() {
		ready = time.Now().UTC()
		details["availability_defaulted"] = true
	}
	ready = ready.AddDate(0, 0, in.Candidate.NoticePeriodWeeks*7)

	gapWeeks := ready.Sub(in.Job.DesiredStartDate).Hours() / (24 * 7)
	details["gap_weeks"] = gapWeeks

	flex := float64(in.Candidate.FlexibilityWeeks)
	maxWait := float64(in.Job.MaxWaitWeeks)

	var raw float64
	switch {
	case gapWeeks <= 0:
		raw = 1.0
	case gapWeeks <= flex:
		raw = 0.8
	case maxWait > 0 && gapWeeks <= maxWait:
		raw = 0.5 - 0.02*(gapWeeks-flex)
	default:
		raw = 0.1
	}
	return Output{Raw: clamp01(raw), Confidence: 0.9, Details: details}
}

// Motivations scores the order-weighted intersection of the candidate's
// motivations with the position's: matches near the top of both lists
// dominate, w(k) = 1/(k+1) per rank.
func (s *Set) Motivations(_ context.Context, in Input) Output {
	details := map[string]any{}

	if len(in.Candidate.Motivations) == 0 || len(in.Job.PositionMotivations) == 0 {
		details["insufficient_data"] = true
		return Output{Raw: 0.5, Confidence: 0.2, Details: details}
	}

	jobRank := make(map[string]int, len(in.Job.PositionMotivations))
	for i, m := range in.Job.PositionMotivations {
		jobRank[NormalizeToken(m)] = i
	}

	w := func(k int) float64 { return 1.0 / float64(k+2) }

	sum := 0.0
	matches := 0
	for r, m := range in.Candidate.Motivations {
		if sIdx, ok := jobRank[NormalizeToken(m)]; ok {
			sum += w(r) * w(sIdx)
			matches++
		}
	}

	// Best case: both lists agree rank for rank over the shorter list.
	n := len(in.Candidate.Motivations)
	if len(in.Job.PositionMotivations) < n {
		n = len(in.Job.PositionMotivations)
	}
	max := 0.0
	for k := 0; k < n; k++ {
		max += w(k) * w(k)
	}

	details["matches"] = matches
	return Output{Raw: clamp01(sum / max), Confidence: 0.8, Details: details}
}
