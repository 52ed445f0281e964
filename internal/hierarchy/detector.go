package hierarchy

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/matchforge/matchengine/internal/domain"
)

// Signal source weights. Title patterns dominate, years of experience
// corroborate, responsibility phrases disambiguate management levels.
const (
	titleWeight = 0.5
	yearsWeight = 0.3
	respWeight  = 0.2
)

// A title match in free text counts less than a match in the title field.
const bodyMatchFactor = 0.6

// Two levels within this margin are considered tied and resolved by the
// years-of-experience tie-break.
const tieMargin = 0.05

// Assessment is the outcome of level detection for one side of a match.
type Assessment struct {
	Level      domain.Level             `json:"level"`
	Confidence float64                  `json:"confidence"`
	Signals    []string                 `json:"signals"`
	Scores     map[domain.Level]float64 `json:"scores,omitempty"`
}

// yearsBand is an inclusive experience range supporting a level. Max < 0
// means open-ended.
type yearsBand struct {
	min, max int
}

var yearsBands = map[domain.Level]yearsBand{
	domain.LevelEntry:     {0, 2},
	domain.LevelJunior:    {2, 5},
	domain.LevelSenior:    {5, 10},
	domain.LevelManager:   {8, -1},
	domain.LevelDirector:  {12, -1},
	domain.LevelExecutive: {15, -1},
}

func (b yearsBand) contains(years int) bool {
	if years < b.min {
		return false
	}
	return b.max < 0 || years <= b.max
}

// Detector classifies CV and job text into hierarchical levels. It is
// immutable after construction and safe for concurrent use.
type Detector struct {
	titlePatterns map[domain.Level][]*regexp.Regexp
	teamOfPattern *regexp.Regexp
	reportsCeo    *regexp.Regexp
	pnlPattern    *regexp.Regexp
}

// NewDetector compiles the per-level pattern families. French and English
// title vocabulary is covered since profiles mix both.
func NewDetector() *Detector {
	compile := func(exprs ...string) []*regexp.Regexp {
		out := make([]*regexp.Regexp, 0, len(exprs))
		for _, e := range exprs {
			out = append(out, regexp.MustCompile("(?i)"+e))
		}
		return out
	}

	return &Detector{
		titlePatterns: map[domain.Level][]*regexp.Regexp{
			domain.LevelExecutive: compile(
				`\bchief\b`, `\bc[efot]o\b`, `\bdaf\b`, `\bdrh\b`, `\bdg\b`,
				`directeur g[ée]n[ée]ral`, `director general`, `\bvp\b`,
				`vice[- ]president`, `\bpr[ée]sident`,
			),
			domain.LevelDirector: compile(
				`\bdirector\b`, `\bdirecteur\b`, `\bdirectrice\b`, `head of\b`,
			),
			domain.LevelManager: compile(
				`\bmanager\b`, `\bresponsable\b`, `chef d.[ée]quipe`,
				`chef de projet`, `\blead\b`, `team lead`,
			),
			domain.LevelSenior: compile(
				`\bsenior\b`, `\bconfirm[ée]e?\b`, `\bexpert`, `\bprincipal\b`, `\bstaff\b`,
			),
			domain.LevelJunior: compile(
				`\bjunior\b`, `\bassistant`, `\bd[ée]butant`,
			),
			domain.LevelEntry: compile(
				`\bintern\b`, `\bstagiaire\b`, `\bapprenti`, `\balternant`,
				`\btrainee\b`, `\bgraduate\b`,
			),
		},
		teamOfPattern: regexp.MustCompile(`(?i)(?:team of|[ée]quipe de|manage[sd]?\s+(?:a team of)?)\s*(\d+)`),
		reportsCeo:    regexp.MustCompile(`(?i)reports? (?:directly )?to (?:the )?(?:ceo|cto|dg)|rattach[ée]e? (?:au|à la) (?:dg|direction g[ée]n[ée]rale)`),
		pnlPattern:    regexp.MustCompile(`(?i)p&l|profit and loss|compte de r[ée]sultat`),
	}
}

// DetectCandidate classifies a candidate profile. Text signals come from
// the current title plus past experience titles and missions.
func (d *Detector) DetectCandidate(c *domain.CandidateProfile) Assessment {
	var body strings.Builder
	teamSize := 0
	for _, exp := range c.Experiences {
		body.WriteString(exp.Title)
		body.WriteString("\n")
		for _, m := range exp.Missions {
			body.WriteString(m)
			body.WriteString("\n")
		}
		if exp.TeamSize > teamSize {
			teamSize = exp.TeamSize
		}
	}
	return d.detect(c.CurrentTitle, body.String(), c.YearsTotal, teamSize)
}

// DetectJob classifies a job posting. A declared required level wins
// outright; otherwise the level is inferred from title, description and
// the minimum years requirement.
func (d *Detector) DetectJob(j *domain.JobPosting) Assessment {
	if j.RequiredLevel != "" {
		return Assessment{
			Level:      j.RequiredLevel,
			Confidence: 1.0,
			Signals:    []string{"required level declared on posting"},
		}
	}
	return d.detect(j.Title, j.Description, j.MinYears, 0)
}

// detect scores every level from the three signal sources and resolves
// near-ties with the years-of-experience bands.
func (d *Detector) detect(title, body string, years, teamSize int) Assessment {
	scores := make(map[domain.Level]float64, len(domain.Levels))
	var signals []string

	// Source 1: title pattern families.
	for _, level := range domain.Levels {
		best := 0.0
		for _, pattern := range d.titlePatterns[level] {
			if pattern.MatchString(title) {
				best = 1.0
				signals = append(signals, fmt.Sprintf("title matches %s pattern %q", level, pattern.String()))
				break
			}
			if body != "" && pattern.MatchString(body) {
				if bodyMatchFactor > best {
					best = bodyMatchFactor
					signals = append(signals, fmt.Sprintf("experience text matches %s pattern %q", level, pattern.String()))
				}
			}
		}
		scores[level] = titleWeight * best
	}

	// Source 2: years-of-experience bands (overlap permitted).
	for _, level := range domain.Levels {
		if yearsBands[level].contains(years) {
			scores[level] += yearsWeight
		}
	}

	// Source 3: responsibility signals.
	for level, weight := range d.responsibilitySignals(title+"\n"+body, teamSize, &signals) {
		scores[level] += respWeight * weight
	}

	return d.resolve(scores, years, signals)
}

// responsibilitySignals extracts management-scope evidence: managed team
// size, reporting line, P&L ownership.
func (d *Detector) responsibilitySignals(text string, teamSize int, signals *[]string) map[domain.Level]float64 {
	out := make(map[domain.Level]float64)
	boost := func(level domain.Level, w float64) {
		if w > out[level] {
			out[level] = w
		}
	}

	if m := d.teamOfPattern.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > teamSize {
			teamSize = n
		}
	}
	switch {
	case teamSize >= 50:
		boost(domain.LevelExecutive, 1.0)
		boost(domain.LevelDirector, 0.8)
		*signals = append(*signals, fmt.Sprintf("manages team of %d", teamSize))
	case teamSize >= 15:
		boost(domain.LevelDirector, 1.0)
		boost(domain.LevelManager, 0.8)
		*signals = append(*signals, fmt.Sprintf("manages team of %d", teamSize))
	case teamSize >= 3:
		boost(domain.LevelManager, 1.0)
		*signals = append(*signals, fmt.Sprintf("manages team of %d", teamSize))
	}

	if d.reportsCeo.MatchString(text) {
		boost(domain.LevelDirector, 0.8)
		boost(domain.LevelExecutive, 0.6)
		*signals = append(*signals, "reports to executive leadership")
	}
	if d.pnlPattern.MatchString(text) {
		boost(domain.LevelDirector, 0.8)
		boost(domain.LevelExecutive, 0.8)
		*signals = append(*signals, "P&L ownership")
	}
	return out
}

// resolve picks the winning level. When the top two levels are within the
// tie margin, the higher one wins only if its years band is also
// supported; otherwise the lower one wins.
func (d *Detector) resolve(scores map[domain.Level]float64, years int, signals []string) Assessment {
	top, second := domain.LevelEntry, domain.LevelEntry
	topScore, secondScore := -1.0, -1.0
	for _, level := range domain.Levels {
		s := scores[level]
		if s > topScore {
			second, secondScore = top, topScore
			top, topScore = level, s
		} else if s > secondScore {
			second, secondScore = level, s
		}
	}

	if topScore-secondScore <= tieMargin && top != second {
		higher, lower := top, second
		if higher.Ordinal() < lower.Ordinal() {
			higher, lower = lower, higher
		}
		if yearsBands[higher].contains(years) {
			top = higher
		} else {
			top = lower
		}
		topScore = scores[top]
		if top == higher {
			secondScore = scores[lower]
		} else {
			secondScore = scores[higher]
		}
	}

	confidence := 0.0
	if topScore > 0 {
		confidence = (topScore - secondScore) / topScore
	}
	confidence = clamp01(confidence)

	return Assessment{
		Level:      top,
		Confidence: confidence,
		Signals:    signals,
		Scores:     scores,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
