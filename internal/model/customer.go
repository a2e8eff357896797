package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
)

// Customer is a client. Location is nil until the address has been geocoded.
type Customer struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name" validate:"required"`
	Email     string     `json:"email" validate:"omitempty,email"`
	Phone     string     `json:"phone"`
	Address   string     `json:"address"`
	Location  *orb.Point `json:"location,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// Key returns the customer ID.
func (c Customer) Key() uuid.UUID { return c.ID }

// WithID returns a copy of c carrying id.
func (c Customer) WithID(id uuid.UUID) Customer {
	c.ID = id
	return c
}
