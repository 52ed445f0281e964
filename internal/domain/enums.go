package domain

// TransportMode is a travel mode available to a candidate.
type TransportMode string

const (
	ModeCar             TransportMode = "CAR"
	ModePublicTransport TransportMode = "PUBLIC_TRANSPORT"
	ModeBike            TransportMode = "BIKE"
	ModeWalk            TransportMode = "WALK"
	ModeRemote          TransportMode = "REMOTE"
)

// KnownTransportModes lists every recognized transport mode.
var KnownTransportModes = []TransportMode{ModeCar, ModePublicTransport, ModeBike, ModeWalk, ModeRemote}

// ContractType is an employment contract category.
type ContractType string

const (
	ContractCDI       ContractType = "CDI"
	ContractCDD       ContractType = "CDD"
	ContractFreelance ContractType = "FREELANCE"
	ContractInterim   ContractType = "INTERIM"
)

// WorkModality describes where work happens.
type WorkModality string

const (
	ModalityOnSite WorkModality = "ON_SITE"
	ModalityHybrid WorkModality = "HYBRID"
	ModalityRemote WorkModality = "REMOTE"
)

// CandidateStatus is the candidate's current employment situation.
type CandidateStatus string

const (
	StatusEmployed          CandidateStatus = "EMPLOYED"
	StatusActivelySearching CandidateStatus = "ACTIVELY_SEARCHING"
	StatusStudent           CandidateStatus = "STUDENT"
	StatusFreelancer        CandidateStatus = "FREELANCER"
	StatusBetweenJobs       CandidateStatus = "BETWEEN_JOBS"
)

// ListeningReason is why a candidate is open to a new role. It drives
// adaptive weight matrix selection.
type ListeningReason string

const (
	ReasonCompensationLow        ListeningReason = "COMPENSATION_LOW"
	ReasonRoleMismatch           ListeningReason = "ROLE_MISMATCH"
	ReasonGrowthLack             ListeningReason = "GROWTH_LACK"
	ReasonLocationIssue          ListeningReason = "LOCATION_ISSUE"
	ReasonFlexibilityLack        ListeningReason = "FLEXIBILITY_LACK"
	ReasonMarketCuriosity        ListeningReason = "MARKET_CURIOSITY"
	ReasonManagementIssues       ListeningReason = "MANAGEMENT_ISSUES"
	ReasonGeneralDissatisfaction ListeningReason = "GENERAL_DISSATISFACTION"
)

// KnownListeningReasons is the closed set of accepted listening reasons.
var KnownListeningReasons = []ListeningReason{
	ReasonCompensationLow,
	ReasonRoleMismatch,
	ReasonGrowthLack,
	ReasonLocationIssue,
	ReasonFlexibilityLack,
	ReasonMarketCuriosity,
	ReasonManagementIssues,
	ReasonGeneralDissatisfaction,
}

// ValidListeningReason reports whether r is in the closed reason set.
func ValidListeningReason(r ListeningReason) bool {
	for _, known := range KnownListeningReasons {
		if r == known {
			return true
		}
	}
	return false
}

// CompanySize buckets employer headcount.
type CompanySize string

const (
	SizeStartup CompanySize = "STARTUP"
	SizeSME     CompanySize = "SME"
	SizeMidcap  CompanySize = "MIDCAP"
	SizeLarge   CompanySize = "LARGE"
)

// HardGateMode controls whether categorical incompatibilities cap the score.
type HardGateMode string

const (
	GateStrict   HardGateMode = "STRICT"
	GateAdvisory HardGateMode = "ADVISORY"
)

// Level is a hierarchical seniority level, ordered from ENTRY to EXECUTIVE.
type Level string

const (
	LevelEntry     Level = "ENTRY"
	LevelJunior    Level = "JUNIOR"
	LevelSenior    Level = "SENIOR"
	LevelManager   Level = "MANAGER"
	LevelDirector  Level = "DIRECTOR"
	LevelExecutive Level = "EXECUTIVE"
)

// Levels lists all hierarchical levels in ascending order.
var Levels = []Level{LevelEntry, LevelJunior, LevelSenior, LevelManager, LevelDirector, LevelExecutive}

// Ordinal returns the position of the level in the hierarchy (0-5), or -1
// for an unknown level.
func (l Level) Ordinal() int {
	for i, lv := range Levels {
		if l == lv {
			return i
		}
	}
	return -1
}

// StepGap returns the absolute ordinal distance between two levels.
func StepGap(a, b Level) int {
	gap := a.Ordinal() - b.Ordinal()
	if gap < 0 {
		return -gap
	}
	return gap
}
