package model

import (
	"time"

	"github.com/google/uuid"
)

// WorkOrder is a scheduled job. CalendarEventID is the opaque identifier the
// calendar returned; it is stored and forwarded, never interpreted.
type WorkOrder struct {
	ID              uuid.UUID `json:"id"`
	ProposalID      uuid.UUID `json:"proposal_id"`
	LoadoutID       uuid.UUID `json:"loadout_id"`
	Title           string    `json:"title" validate:"required"`
	Start           time.Time `json:"start" validate:"required"`
	End             time.Time `json:"end" validate:"required,gtfield=Start"`
	Location        string    `json:"location"`
	Notes           string    `json:"notes"`
	CalendarEventID string    `json:"calendar_event_id"`
}

// Key returns the work order ID.
func (w WorkOrder) Key() uuid.UUID { return w.ID }

// WithID returns a copy of w carrying id.
func (w WorkOrder) WithID(id uuid.UUID) WorkOrder {
	w.ID = id
	return w
}
