package domain

import "time"

// JobPosting is the structured description of an open position.
type JobPosting struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Company     string      `json:"company"`
	Sector      string      `json:"sector"`
	CompanySize CompanySize `json:"company_size"`
	Location    string      `json:"location"`
	Description string      `json:"description,omitempty"`

	RequiredSkills  []string `json:"required_skills"`
	PreferredSkills []string `json:"preferred_skills,omitempty"`
	MinYears        int      `json:"min_years"`
	MaxYears        int      `json:"max_years,omitempty"` // 0 means open-ended
	RequiredLevel   Level    `json:"required_level,omitempty"`

	SalaryMin float64 `json:"salary_min"`
	SalaryMax float64 `json:"salary_max"`

	ContractType      ContractType `json:"contract_type"`
	Modality          WorkModality `json:"modality"`
	RemoteDaysAllowed int          `json:"remote_days_allowed"`

	DesiredStartDate time.Time `json:"desired_start_date,omitempty"`
	MaxWaitWeeks     int       `json:"max_wait_weeks,omitempty"`
	Urgency          int       `json:"urgency"` // 1..5

	Benefits            []string `json:"benefits,omitempty"`
	PositionMotivations []string `json:"position_motivations,omitempty"`
}

// SalaryMidpoint returns the middle of the posted salary range, or 0 when
// the range is not set.
func (j *JobPosting) SalaryMidpoint() float64 {
	if j.SalaryMin <= 0 && j.SalaryMax <= 0 {
		return 0
	}
	if j.SalaryMax <= 0 {
		return j.SalaryMin
	}
	return (j.SalaryMin + j.SalaryMax) / 2
}
