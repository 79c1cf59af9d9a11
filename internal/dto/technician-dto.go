package dto

import "facility-tickets/internal/entities"

type CreateTechnicianDTO struct {
	UserID         uint64 `json:"userId" validate:"required,gt=0"`
	Specialization string `json:"specialization" validate:"required,min=2,max=255"`
	Initials       string `json:"initials" validate:"required,min=1,max=8"`
	Active         *bool  `json:"active,omitempty"`
}

// TechnicianWithUser is a technician joined with its owning user record.
type TechnicianWithUser struct {
	entities.Technician
	User entities.User `json:"user"`
}

// TechnicianView adds the per-technician performance numbers served by
// GET /api/technicians.
type TechnicianView struct {
	TechnicianWithUser
	ActiveTickets         int     `json:"activeTickets"`
	CompletedTickets      int     `json:"completedTickets"`
	AverageCompletionTime float64 `json:"averageCompletionTime"`
}
