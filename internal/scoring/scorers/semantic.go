package scorers

import (
	"context"
	"strings"
)

const (
	requiredSkillWeight  = 0.7
	preferredSkillWeight = 0.3
	// Synonym-table matches count slightly below an exact token match.
	synonymCredit = 0.8
	// Title similarity contributes at most this bonus on top of the
	// skill overlap.
	titleBonusMax = 0.2
)

// Semantic scores skill overlap between the candidate and the job.
// Required skills dominate, preferred skills refine, and title similarity
// adds a bounded bonus.
func (s *Set) Semantic(_ context.Context, in Input) Output {
	details := map[string]any{}

	have := make(map[string]bool, len(in.Candidate.Skills))
	for _, sk := range in.Candidate.Skills {
		have[s.tables.Canonical(sk)] = true
	}

	reqFrac, reqMatched, reqSyn := s.coverage(have, in.Candidate.Skills, in.Job.RequiredSkills)
	prefFrac, prefMatched, _ := s.coverage(have, in.Candidate.Skills, in.Job.PreferredSkills)

	var raw float64
	switch {
	case len(in.Job.RequiredSkills) == 0 && len(in.Job.PreferredSkills) == 0:
		raw = 0.5
		details["no_job_skills"] = true
	case len(in.Job.RequiredSkills) == 0:
		raw = prefFrac
	default:
		raw = requiredSkillWeight*reqFrac + preferredSkillWeight*prefFrac
	}

	titleBonus := titleBonusMax * tokenJaccard(in.Candidate.CurrentTitle, in.Job.Title)
	raw = clamp01(raw + titleBonus)

	details["required_matched"] = reqMatched
	details["required_total"] = len(in.Job.RequiredSkills)
	details["preferred_matched"] = prefMatched
	details["synonym_matches"] = reqSyn
	details["title_bonus"] = titleBonus

	conf := 0.9
	if len(in.Candidate.Skills) == 0 || len(in.Job.RequiredSkills) == 0 {
		conf = 0.4
	}
	return Output{Raw: raw, Confidence: conf, Details: details}
}

// coverage returns the matched fraction of wanted skills, counting exact
// canonical matches at full credit and synonym-group matches at
// synonymCredit.
func (s *Set) coverage(have map[string]bool, rawHave, wanted []string) (frac float64, matched, synonyms int) {
	if len(wanted) == 0 {
		return 0, 0, 0
	}

	exact := make(map[string]bool, len(rawHave))
	for _, sk := range rawHave {
		exact[NormalizeToken(sk)] = true
	}

	total := 0.0
	for _, w := range wanted {
		switch {
		case exact[NormalizeToken(w)]:
			total += 1.0
			matched++
		case have[s.tables.Canonical(w)]:
			total += synonymCredit
			matched++
			synonyms++
		}
	}
	return total / float64(len(wanted)), matched, synonyms
}

// tokenJaccard is a cheap stand-in for title embedding similarity: word
// level Jaccard over the two titles.
func tokenJaccard(a, b string) float64 {
	ta := strings.Fields(NormalizeToken(a))
	tb := strings.Fields(NormalizeToken(b))
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	setA := make(map[string]bool, len(ta))
	for _, t := range ta {
		setA[t] = true
	}
	inter := 0
	setB := make(map[string]bool, len(tb))
	for _, t := range tb {
		if setB[t] {
			continue
		}
		setB[t] = true
		if setA[t] {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	return float64(inter) / float64(union)
}
