package dto

import (
	"time"

	"facility-tickets/internal/entities"
)

type CreateTicketDTO struct {
	FacilityType string `json:"facilityType" validate:"required,oneof=electrical plumbing ac furniture it other"`
	FacilityName string `json:"facilityName" validate:"required,min=2,max=255"`
	Location     string `json:"location" validate:"required,min=2,max=255"`
	Description  string `json:"description" validate:"required,min=2"`
	Priority     string `json:"priority" validate:"required,oneof=low medium high"`
	CreatedBy    uint64 `json:"createdBy" validate:"required,gt=0"`
}

type UpdateTicketDTO struct {
	FacilityType *string `json:"facilityType,omitempty" validate:"omitempty,oneof=electrical plumbing ac furniture it other"`
	FacilityName *string `json:"facilityName,omitempty" validate:"omitempty,min=2,max=255"`
	Location     *string `json:"location,omitempty" validate:"omitempty,min=2,max=255"`
	Description  *string `json:"description,omitempty" validate:"omitempty,min=2"`
	Priority     *string `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
	Status       *string `json:"status,omitempty" validate:"omitempty,oneof=waiting in_progress completed"`
	TechnicianID *uint64 `json:"technicianId,omitempty" validate:"omitempty,gt=0"`
	Deadline     *time.Time `json:"deadline,omitempty"`
	Notes        *string `json:"notes,omitempty"`
	UpdatedBy    *uint64 `json:"updatedBy,omitempty" validate:"omitempty,gt=0"`
}

type AssignTicketDTO struct {
	TechnicianID uint64    `json:"technicianId" validate:"required,gt=0"`
	Deadline     time.Time `json:"deadline" validate:"required"`
	UpdatedBy    uint64    `json:"updatedBy" validate:"required,gt=0"`
	Notes        *string   `json:"notes,omitempty"`
}

type CompleteTicketDTO struct {
	Notes     string `json:"notes" validate:"required"`
	UpdatedBy uint64 `json:"updatedBy" validate:"required,gt=0"`
}

// TicketFilter is the closed set of predicates the list query supports.
// Zero values mean "no constraint"; the service normalizes the "all"
// sentinel away before the filter reaches the repository.
type TicketFilter struct {
	Status       string `validate:"omitempty,oneof=all waiting in_progress completed"`
	FacilityType string `validate:"omitempty,oneof=all electrical plumbing ac furniture it other"`
	Priority     string `validate:"omitempty,oneof=all low medium high"`
	TechnicianID *uint64
	Search       string
	DateFrom     *time.Time
	DateTo       *time.Time
	Page         int `validate:"gt=0"`
	Limit        int `validate:"gt=0"`
}

// TicketView is a ticket denormalized with its assigned technician (and
// that technician's user) and the creator's user record.
type TicketView struct {
	entities.Ticket
	Technician    *TechnicianWithUser `json:"technician,omitempty"`
	CreatedByUser entities.User       `json:"createdByUser"`
}

type TicketListDTO struct {
	Tickets []TicketView `json:"tickets"`
	Total   uint64       `json:"total"`
}
