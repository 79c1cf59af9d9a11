package constants

// Ticket statuses (match the CHECK constraints in the schema).
const (
	StatusWaiting    = "waiting"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

const (
	FacilityElectrical = "electrical"
	FacilityPlumbing   = "plumbing"
	FacilityAC         = "ac"
	FacilityFurniture  = "furniture"
	FacilityIT         = "it"
	FacilityOther      = "other"
)

// FilterAll is the sentinel query value meaning "no constraint".
const FilterAll = "all"

const (
	RoleAdmin      = "admin"
	RoleTechnician = "technician"
	RoleUser       = "user"
)

var Statuses = []string{StatusWaiting, StatusInProgress, StatusCompleted}

var FacilityTypes = []string{
	FacilityElectrical,
	FacilityPlumbing,
	FacilityAC,
	FacilityFurniture,
	FacilityIT,
	FacilityOther,
}

var Priorities = []string{PriorityLow, PriorityMedium, PriorityHigh}

func contains(list []string, code string) bool {
	for _, s := range list {
		if s == code {
			return true
		}
	}
	return false
}

func IsValidStatus(code string) bool { return contains(Statuses, code) }

func IsValidFacilityType(code string) bool { return contains(FacilityTypes, code) }

func IsValidPriority(code string) bool { return contains(Priorities, code) }

// IsOpenStatus reports whether a ticket still counts against a
// technician's active workload.
func IsOpenStatus(code string) bool {
	return code == StatusWaiting || code == StatusInProgress
}
