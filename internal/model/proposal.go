package model

import (
	"time"

	"github.com/google/uuid"
)

// ProposalStatus is the stored status of a proposal.
type ProposalStatus string

const (
	ProposalDraft    ProposalStatus = "draft"
	ProposalSent     ProposalStatus = "sent"
	ProposalViewed   ProposalStatus = "viewed"
	ProposalAccepted ProposalStatus = "accepted"
	ProposalRejected ProposalStatus = "rejected"
	ProposalExpired  ProposalStatus = "expired"
)

// Valid reports whether s may be stored. Expired is derived and never valid here.
func (s ProposalStatus) Valid() bool {
	switch s {
	case ProposalDraft, ProposalSent, ProposalViewed, ProposalAccepted, ProposalRejected, ProposalExpired:
		return true
	}
	return false
}

// Closed reports whether the customer has decided on the proposal.
func (s ProposalStatus) Closed() bool {
	return s == ProposalAccepted || s == ProposalRejected
}

// Proposal owns its line items. Status is the stored status; expiry is
// derived at read time from ExpiresAt.
type Proposal struct {
	ID         uuid.UUID      `json:"id"`
	Number     string         `json:"number"`
	CustomerID uuid.UUID      `json:"customer_id"`
	CreatedAt  time.Time      `json:"created_at"`
	ExpiresAt  time.Time      `json:"expires_at"`
	Status     ProposalStatus `json:"status"`
	Subtotal   float64        `json:"subtotal"`
	Discount   float64        `json:"discount"`
	Total      float64        `json:"total"`
	Notes      string         `json:"notes"`
	LineItems  []LineItem     `json:"line_items"`
}

// Key returns the proposal ID.
func (p Proposal) Key() uuid.UUID { return p.ID }

// IsExpired is true once now is past ExpiresAt unless the customer already
// accepted or rejected.
func (p Proposal) IsExpired(now time.Time) bool {
	return now.After(p.ExpiresAt) && !p.Status.Closed()
}

// DisplayStatus reports Expired for expired proposals and the stored status
// otherwise.
func (p Proposal) DisplayStatus(now time.Time) ProposalStatus {
	if p.IsExpired(now) {
		return ProposalExpired
	}
	return p.Status
}
