// Package proposal assembles priced line items into numbered proposals and
// owns the proposal status rules.
package proposal

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/canopyworks/arborcost/internal/model"
	"github.com/canopyworks/arborcost/internal/treescore"
)

// DefaultValidity is how long a proposal stays open when no validity is given.
const DefaultValidity = 30 * 24 * time.Hour

// MaxValidityDays bounds how long a proposal may stay open.
const MaxValidityDays = 3650

const maxValidity = MaxValidityDays * 24 * time.Hour

const numberPrefix = "EST-"

var (
	ErrInvalidInput      = errors.New("invalid proposal input")
	ErrInvalidTransition = errors.New("invalid proposal status transition")
)

// Input is what a caller supplies to assemble a proposal. A zero Validity
// means DefaultValidity.
type Input struct {
	CustomerID uuid.UUID
	LineItems  []model.LineItem
	Discount   float64
	Notes      string
	Validity   time.Duration
}

// DayPrefix returns the number prefix shared by every proposal of that day.
func DayPrefix(day time.Time) string {
	return numberPrefix + day.Format("20060102") + "-"
}

// NextNumber returns EST-yyyyMMdd-NNN where NNN is one more than the number of
// existing proposals carrying that day's prefix.
//
// The count and the later insert are not atomic: two writers creating a
// proposal on the same day can both get the same number.
func NextNumber(day time.Time, existing []string) string {
	prefix := DayPrefix(day)
	count := 0
	for _, number := range existing {
		if strings.HasPrefix(number, prefix) {
			count++
		}
	}
	return fmt.Sprintf("%s%03d", prefix, count+1)
}

// Assemble prices every line item and builds a proposal in the Sent state.
func Assemble(in Input, rates treescore.RateTable, existingNumbers []string, now time.Time) (model.Proposal, error) {
	if in.CustomerID == uuid.Nil {
		return model.Proposal{}, fmt.Errorf("%w: customer is required", ErrInvalidInput)
	}
	if len(in.LineItems) == 0 {
		return model.Proposal{}, fmt.Errorf("%w: at least one line item is required", ErrInvalidInput)
	}

	items := make([]model.LineItem, 0, len(in.LineItems))
	for i, item := range in.LineItems {
		priced, err := treescore.PriceLineItem(item, rates)
		if err != nil {
			return model.Proposal{}, fmt.Errorf("line item %d: %w", i+1, err)
		}
		if priced.ID == uuid.Nil {
			priced.ID = uuid.New()
		}
		items = append(items, priced)
	}

	subtotal := Subtotal(items)
	if in.Discount < 0 || in.Discount > subtotal {
		return model.Proposal{}, fmt.Errorf("%w: discount must be between 0 and the subtotal %.2f", ErrInvalidInput, subtotal)
	}

	if in.Validity > maxValidity {
		return model.Proposal{}, fmt.Errorf("%w: validity above %d days", ErrInvalidInput, MaxValidityDays)
	}
	validity := in.Validity
	if validity <= 0 {
		validity = DefaultValidity
	}

	return model.Proposal{
		ID:         uuid.New(),
		Number:     NextNumber(now, existingNumbers),
		CustomerID: in.CustomerID,
		CreatedAt:  now,
		ExpiresAt:  now.Add(validity),
		Status:     model.ProposalSent,
		Subtotal:   subtotal,
		Discount:   in.Discount,
		Total:      subtotal - in.Discount,
		Notes:      in.Notes,
		LineItems:  items,
	}, nil
}

// Subtotal sums the line item totals.
func Subtotal(items []model.LineItem) float64 {
	total := 0.0
	for _, item := range items {
		total += item.TotalPrice
	}
	return total
}

var transitions = map[model.ProposalStatus][]model.ProposalStatus{
	model.ProposalDraft:  {model.ProposalSent},
	model.ProposalSent:   {model.ProposalViewed, model.ProposalAccepted, model.ProposalRejected, model.ProposalDraft},
	model.ProposalViewed: {model.ProposalAccepted, model.ProposalRejected, model.ProposalDraft},
}

// CanTransition reports whether the stored status may move from one state to
// another. Expired is never a stored target; it is derived from ExpiresAt.
func CanTransition(from, to model.ProposalStatus) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Transition returns p with its stored status set to to.
func Transition(p model.Proposal, to model.ProposalStatus) (model.Proposal, error) {
	if !CanTransition(p.Status, to) {
		return p, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, p.Status, to)
	}
	p.Status = to
	return p, nil
}

// Numbers lists the numbers of the given proposals.
func Numbers(proposals []model.Proposal) []string {
	out := make([]string, len(proposals))
	for i, p := range proposals {
		out[i] = p.Number
	}
	return out
}
