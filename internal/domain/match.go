package domain

// Canonical component names, in the fixed order used for weighted sums.
// The order is load-bearing: floating point totals are accumulated in this
// sequence so identical requests produce bit-identical scores.
const (
	ComponentSemantic          = "semantic"
	ComponentSalary            = "salary"
	ComponentExperience        = "experience"
	ComponentLocation          = "location"
	ComponentMotivations       = "motivations"
	ComponentSector            = "sector"
	ComponentContract          = "contract"
	ComponentTiming            = "timing"
	ComponentWorkModality      = "work_modality"
	ComponentSalaryProgression = "salary_progression"
	ComponentListeningReason   = "listening_reason"
	ComponentCandidateStatus   = "candidate_status"
)

// ComponentOrder is the canonical ordering of the twelve scored components.
var ComponentOrder = []string{
	ComponentSemantic,
	ComponentSalary,
	ComponentExperience,
	ComponentLocation,
	ComponentMotivations,
	ComponentSector,
	ComponentContract,
	ComponentTiming,
	ComponentWorkModality,
	ComponentSalaryProgression,
	ComponentListeningReason,
	ComponentCandidateStatus,
}

// MatchRequest is one candidate/job scoring request.
type MatchRequest struct {
	Candidate               *CandidateProfile `json:"candidate"`
	Job                     *JobPosting       `json:"job"`
	ListeningReasonOverride ListeningReason   `json:"listening_reason_override,omitempty"`
	HardGateMode            HardGateMode      `json:"hard_gate_mode,omitempty"`
}

// ComponentScore is the outcome of one scorer under the selected matrix.
type ComponentScore struct {
	Name          string         `json:"name"`
	RawScore      float64        `json:"raw_score"`
	Weight        float64        `json:"weight"`
	BoostApplied  float64        `json:"boost_applied,omitempty"`
	WeightedScore float64        `json:"weighted_score"`
	Confidence    float64        `json:"confidence"`
	Details       map[string]any `json:"details,omitempty"`
	ElapsedMs     int64          `json:"elapsed_ms"`
}

// AlertKind categorizes a detected incompatibility.
type AlertKind string

const (
	AlertCriticalMismatch    AlertKind = "CRITICAL_MISMATCH"
	AlertOverqualified       AlertKind = "OVERQUALIFIED"
	AlertTransportInfeasible AlertKind = "TRANSPORT_INFEASIBLE"
	AlertSalaryOutsideRange  AlertKind = "SALARY_OUTSIDE_RANGE"
	AlertSectorExcluded      AlertKind = "SECTOR_EXCLUDED"
	AlertGeoDegraded         AlertKind = "GEO_DEGRADED"
)

// AlertSeverity grades an alert.
type AlertSeverity string

const (
	SeverityInfo     AlertSeverity = "INFO"
	SeverityWarn     AlertSeverity = "WARN"
	SeverityCritical AlertSeverity = "CRITICAL"
)

// Alert flags a categorical finding about the match.
type Alert struct {
	Kind     AlertKind     `json:"kind"`
	Severity AlertSeverity `json:"severity"`
	Message  string        `json:"message"`
}

// MatchResult is the full outcome of one matching call.
type MatchResult struct {
	RequestID string `json:"request_id"`

	TotalScore float64 `json:"total_score"`
	Confidence float64 `json:"confidence"`

	ListeningReasonUsed ListeningReason  `json:"listening_reason_used"`
	MatrixID            string           `json:"matrix_id"`
	Components          []ComponentScore `json:"components"`

	Alerts          []Alert  `json:"alerts"`
	TopContributors []string `json:"top_contributors"`
	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	Suggestions     []string `json:"suggestions"`

	HardGateTriggered AlertKind `json:"hard_gate_triggered,omitempty"`
	DeadlineExceeded  bool      `json:"deadline_exceeded,omitempty"`
	TotalElapsedMs    int64     `json:"total_elapsed_ms"`
}

// Component returns the named component score, or nil if absent.
func (r *MatchResult) Component(name string) *ComponentScore {
	for i := range r.Components {
		if r.Components[i].Name == name {
			return &r.Components[i]
		}
	}
	return nil
}

// HasAlert reports whether an alert of the given kind is present.
func (r *MatchResult) HasAlert(kind AlertKind) bool {
	for _, a := range r.Alerts {
		if a.Kind == kind {
			return true
		}
	}
	return false
}
