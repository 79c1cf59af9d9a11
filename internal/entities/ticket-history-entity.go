package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

// TicketHistory is the append-only audit log: one row at creation and one
// per status-affecting mutation. Rows are never updated or deleted.
type TicketHistory struct {
	ID        uint64      `json:"id"`
	TicketID  uint64      `json:"ticketId"`
	Status    string      `json:"status"`
	Notes     null.String `json:"notes"`
	UpdatedBy uint64      `json:"updatedBy"`
	CreatedAt time.Time   `json:"createdAt"`
}
