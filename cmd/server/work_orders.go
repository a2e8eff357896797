package main

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/canopyworks/arborcost/internal/calendar"
	"github.com/canopyworks/arborcost/internal/directory"
	"github.com/canopyworks/arborcost/internal/model"
)

var errProposalNotAccepted = errors.New("proposal is not accepted")

type createWorkOrderRequest struct {
	ProposalID uuid.UUID `json:"proposal_id"`
	LoadoutID  uuid.UUID `json:"loadout_id"`
	Title      string    `json:"title"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Location   string    `json:"location"`
	Notes      string    `json:"notes"`
}

// handleCreateWorkOrder books an accepted proposal onto the calendar and
// stores the resulting work order with the calendar's event id.
func (s *server) handleCreateWorkOrder(w http.ResponseWriter, r *http.Request) {
	var req createWorkOrderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	p, ok := s.proposals.Get(req.ProposalID)
	if !ok {
		s.writeError(w, r, fmt.Errorf("%w: proposal %s", directory.ErrNotFound, req.ProposalID))
		return
	}
	if p.Status != model.ProposalAccepted {
		s.writeError(w, r, fmt.Errorf("%w: %s is %s", errProposalNotAccepted, p.Number, p.Status))
		return
	}
	if _, ok := s.loadouts.Get(req.LoadoutID); !ok {
		s.writeError(w, r, fmt.Errorf("%w: loadout %s", directory.ErrNotFound, req.LoadoutID))
		return
	}

	wo := model.WorkOrder{
		ID:         uuid.New(),
		ProposalID: p.ID,
		LoadoutID:  req.LoadoutID,
		Title:      req.Title,
		Start:      req.Start,
		End:        req.End,
		Location:   req.Location,
		Notes:      req.Notes,
	}
	if wo.Title == "" {
		wo.Title = "Work order " + p.Number
	}
	if wo.Location == "" {
		wo.Location = s.customerFor(p).Address
	}

	eventID, err := s.scheduler.Schedule(r.Context(), calendar.Event{
		Title:    wo.Title,
		Start:    wo.Start,
		End:      wo.End,
		Location: wo.Location,
		Notes:    wo.Notes,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	wo.CalendarEventID = eventID

	if err := s.workOrders.Create(r.Context(), wo); err != nil {
		s.log.Warn().Str("event_id", eventID).Msg("work order not stored, calendar event left behind")
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, wo)
}
