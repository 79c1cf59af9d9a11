package entities

type Technician struct {
	ID             uint64 `json:"id"`
	UserID         uint64 `json:"userId"`
	Specialization string `json:"specialization"`
	Initials       string `json:"initials"`
	Active         bool   `json:"active"`
}
