package proposal

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/canopyworks/arborcost/internal/directory"
	"github.com/canopyworks/arborcost/internal/model"
	"github.com/canopyworks/arborcost/internal/treescore"
)

// RateSource supplies the current pricing rate table.
type RateSource interface {
	RateTable(ctx context.Context) (treescore.RateTable, error)
}

// Service creates proposals and changes their status against the directory stores.
type Service struct {
	proposals *directory.ProposalStore
	customers *directory.CustomerStore
	rates     RateSource
	validity  time.Duration
	now       func() time.Time
}

// NewService returns a Service. A non-positive validity means DefaultValidity.
func NewService(proposals *directory.ProposalStore, customers *directory.CustomerStore, rates RateSource, validity time.Duration) *Service {
	return &Service{
		proposals: proposals,
		customers: customers,
		rates:     rates,
		validity:  validity,
		now:       time.Now,
	}
}

// Create assembles and stores a proposal for an existing customer. The number
// is derived from the proposals loaded in memory at call time.
func (s *Service) Create(ctx context.Context, in Input) (model.Proposal, error) {
	if _, ok := s.customers.Get(in.CustomerID); !ok {
		return model.Proposal{}, fmt.Errorf("%w: customer %s", directory.ErrNotFound, in.CustomerID)
	}

	rates, err := s.rates.RateTable(ctx)
	if err != nil {
		return model.Proposal{}, fmt.Errorf("load rate table: %w", err)
	}

	if in.Validity <= 0 {
		in.Validity = s.validity
	}
	p, err := Assemble(in, rates, Numbers(s.proposals.List()), s.now())
	if err != nil {
		return model.Proposal{}, err
	}

	if err := s.proposals.Create(ctx, p); err != nil {
		return model.Proposal{}, err
	}
	return p, nil
}

// SetStatus applies a stored status transition.
func (s *Service) SetStatus(ctx context.Context, id uuid.UUID, to model.ProposalStatus) (model.Proposal, error) {
	p, ok := s.proposals.Get(id)
	if !ok {
		return model.Proposal{}, fmt.Errorf("%w: proposal %s", directory.ErrNotFound, id)
	}

	next, err := Transition(p, to)
	if err != nil {
		return model.Proposal{}, err
	}
	if err := s.proposals.Update(ctx, next); err != nil {
		return model.Proposal{}, err
	}
	return next, nil
}

// Get returns the proposal with id.
func (s *Service) Get(id uuid.UUID) (model.Proposal, bool) {
	return s.proposals.Get(id)
}

// List returns every proposal.
func (s *Service) List() []model.Proposal {
	return s.proposals.List()
}

// Stats returns the proposal statistics of a customer.
func (s *Service) Stats(customerID uuid.UUID) CustomerStats {
	return StatsFor(customerID, s.proposals.List(), s.now())
}

// Now is the service clock.
func (s *Service) Now() time.Time {
	return s.now()
}
