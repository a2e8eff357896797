package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/canopyworks/arborcost/internal/directory"
	"github.com/canopyworks/arborcost/internal/export"
	"github.com/canopyworks/arborcost/internal/model"
	"github.com/canopyworks/arborcost/internal/proposal"
)

// proposalView adds the status as seen now; the stored status never becomes
// expired on its own.
type proposalView struct {
	model.Proposal
	DisplayStatus model.ProposalStatus `json:"display_status"`
}

func (s *server) view(p model.Proposal) proposalView {
	return proposalView{Proposal: p, DisplayStatus: p.DisplayStatus(s.proposals.Now())}
}

func (s *server) handleListProposals(w http.ResponseWriter, r *http.Request) {
	var customerID uuid.UUID
	if raw := r.URL.Query().Get("customer_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			s.writeError(w, r, fmt.Errorf("%w: invalid customer_id %q", errBadRequest, raw))
			return
		}
		customerID = id
	}

	all := s.proposals.List()
	out := make([]proposalView, 0, len(all))
	for _, p := range all {
		if customerID != uuid.Nil && p.CustomerID != customerID {
			continue
		}
		out = append(out, s.view(p))
	}
	writeJSON(w, http.StatusOK, out)
}

type createProposalRequest struct {
	CustomerID   uuid.UUID        `json:"customer_id"`
	LineItems    []model.LineItem `json:"line_items"`
	Discount     float64          `json:"discount"`
	Notes        string           `json:"notes"`
	ValidityDays int              `json:"validity_days"`
}

func (s *server) handleCreateProposal(w http.ResponseWriter, r *http.Request) {
	var req createProposalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.ValidityDays < 0 || req.ValidityDays > proposal.MaxValidityDays {
		s.writeError(w, r, fmt.Errorf("%w: validity_days must be between 0 and %d", proposal.ErrInvalidInput, proposal.MaxValidityDays))
		return
	}

	p, err := s.proposals.Create(r.Context(), proposal.Input{
		CustomerID: req.CustomerID,
		LineItems:  req.LineItems,
		Discount:   req.Discount,
		Notes:      req.Notes,
		Validity:   time.Duration(req.ValidityDays) * 24 * time.Hour,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.log.Info().Str("number", p.Number).Float64("total", p.Total).Msg("proposal created")
	writeJSON(w, http.StatusCreated, s.view(p))
}

func (s *server) proposalFromPath(r *http.Request) (model.Proposal, error) {
	id, err := pathID(r)
	if err != nil {
		return model.Proposal{}, err
	}
	p, ok := s.proposals.Get(id)
	if !ok {
		return model.Proposal{}, fmt.Errorf("%w: proposal %s", directory.ErrNotFound, id)
	}
	return p, nil
}

func (s *server) handleGetProposal(w http.ResponseWriter, r *http.Request) {
	p, err := s.proposalFromPath(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.view(p))
}

type statusRequest struct {
	Status model.ProposalStatus `json:"status"`
}

func (s *server) handleProposalStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var req statusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	p, err := s.proposals.SetStatus(r.Context(), id, req.Status)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.view(p))
}

// customerFor tolerates a deleted customer: the proposal keeps only the id.
func (s *server) customerFor(p model.Proposal) model.Customer {
	if c, ok := s.customers.Get(p.CustomerID); ok {
		return c
	}
	return model.Customer{ID: p.CustomerID, Name: "Customer " + p.CustomerID.String()[:8]}
}

func (s *server) handleProposalPDF(w http.ResponseWriter, r *http.Request) {
	p, err := s.proposalFromPath(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	body, err := s.documents.Proposal(p, s.customerFor(p), s.proposals.Now())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+p.Number+`.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

type exportResponse struct {
	Number   string `json:"number"`
	RecordID string `json:"record_id"`
}

// handleProposalExport creates a new accounting record on every call.
func (s *server) handleProposalExport(w http.ResponseWriter, r *http.Request) {
	p, err := s.proposalFromPath(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	recordID, err := s.exporter.Export(r.Context(), export.FromProposal(p, s.customerFor(p)))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.log.Info().Str("number", p.Number).Str("record_id", recordID).Msg("proposal exported")
	writeJSON(w, http.StatusCreated, exportResponse{Number: p.Number, RecordID: recordID})
}
