package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

type Ticket struct {
	ID           uint64      `json:"id"`
	TicketNumber string      `json:"ticketNumber"`
	FacilityType string      `json:"facilityType"`
	FacilityName string      `json:"facilityName"`
	Location     string      `json:"location"`
	Description  string      `json:"description"`
	Status       string      `json:"status"`
	Priority     string      `json:"priority"`
	CreatedBy    uint64      `json:"createdBy"`
	TechnicianID null.Uint64 `json:"technicianId"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
	Deadline     null.Time   `json:"deadline"`
	CompletedAt  null.Time   `json:"completedAt"`
}
