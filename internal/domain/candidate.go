package domain

import "time"

// Experience is one past position on a candidate profile.
type Experience struct {
	Title           string   `json:"title"`
	Company         string   `json:"company"`
	Sector          string   `json:"sector"`
	DurationMonths  int      `json:"duration_months"`
	Missions        []string `json:"missions,omitempty"`
	Achievements    []string `json:"achievements,omitempty"`
	Technologies    []string `json:"technologies,omitempty"`
	TeamSize        int      `json:"team_size,omitempty"`
	ManagementLevel Level    `json:"management_level,omitempty"`
}

// CandidateProfile is the structured candidate record produced by upstream
// parsing. It is read-only within one matching call.
type CandidateProfile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`

	CurrentTitle string       `json:"current_title"`
	Skills       []string     `json:"skills"`
	YearsTotal   int          `json:"years_total"`
	Experiences  []Experience `json:"experiences,omitempty"`

	// Salaries are annual gross amounts; 0 means unknown.
	CurrentSalary float64 `json:"current_salary,omitempty"`
	DesiredSalary float64 `json:"desired_salary,omitempty"`

	HomeAddress      string                `json:"home_address"`
	TransportModes   []TransportMode       `json:"transport_modes"`
	MaxTravelTimeMin map[TransportMode]int `json:"max_travel_time_min"`

	ContractRanking   []ContractType `json:"contract_ranking"`
	PreferredModality WorkModality   `json:"preferred_modality"`
	RemoteDaysPerWeek int            `json:"remote_days_per_week"`

	Motivations      []string `json:"motivations,omitempty"`
	PreferredSectors []string `json:"preferred_sectors,omitempty"`
	ExcludedSectors  []string `json:"excluded_sectors,omitempty"`
	SectorOpenness   int      `json:"sector_openness"` // 1..5

	AvailabilityDate  time.Time `json:"availability_date"`
	NoticePeriodWeeks int       `json:"notice_period_weeks"`
	FlexibilityWeeks  int       `json:"flexibility_weeks"`
	Urgency           int       `json:"urgency"` // 1..5

	Status           CandidateStatus   `json:"status"`
	ListeningReasons []ListeningReason `json:"listening_reasons,omitempty"`
}

// HasTransportMode reports whether the candidate declared the given mode.
func (c *CandidateProfile) HasTransportMode(mode TransportMode) bool {
	for _, m := range c.TransportModes {
		if m == mode {
			return true
		}
	}
	return false
}

// PrimaryListeningReason returns the first listening reason, or "" when the
// candidate declared none.
func (c *CandidateProfile) PrimaryListeningReason() ListeningReason {
	if len(c.ListeningReasons) == 0 {
		return ""
	}
	return c.ListeningReasons[0]
}
