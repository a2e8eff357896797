package main

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/paulmach/orb/geo"

	"github.com/canopyworks/arborcost/internal/directory"
	"github.com/canopyworks/arborcost/internal/model"
	"github.com/canopyworks/arborcost/internal/proposal"
)

const metersPerMile = 1609.344

// handleCreateCustomer stores a customer, geocoding the address when no
// coordinates were supplied. A failed lookup leaves the location empty.
func (s *server) handleCreateCustomer(w http.ResponseWriter, r *http.Request) {
	var c model.Customer
	if err := decodeJSON(w, r, &c); err != nil {
		s.writeError(w, r, err)
		return
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.proposals.Now()
	}
	if c.Location == nil && strings.TrimSpace(c.Address) != "" {
		s.locate(r.Context(), &c)
	}

	if err := s.customers.Create(r.Context(), c); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (s *server) locate(ctx context.Context, c *model.Customer) {
	if s.geocodeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.geocodeTimeout)
		defer cancel()
	}

	p, err := s.geocoder.Geocode(ctx, c.Address)
	if err != nil {
		s.log.Warn().Err(err).Str("customer", c.Name).Msg("geocode failed, saving without location")
		return
	}
	c.Location = &p
}

type customerDetail struct {
	model.Customer
	Stats proposal.CustomerStats `json:"stats"`
	// DistanceMiles is the great-circle distance from the yard, when both
	// locations are known.
	DistanceMiles *float64 `json:"distance_miles,omitempty"`
}

func (s *server) handleCustomerDetail(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	c, ok := s.customers.Get(id)
	if !ok {
		s.writeError(w, r, fmt.Errorf("%w: customer %s", directory.ErrNotFound, id))
		return
	}

	detail := customerDetail{Customer: c, Stats: s.proposals.Stats(id)}
	if s.yard != nil && c.Location != nil {
		miles := math.Round(geo.DistanceHaversine(*s.yard, *c.Location)/metersPerMile*10) / 10
		detail.DistanceMiles = &miles
	}
	writeJSON(w, http.StatusOK, detail)
}
