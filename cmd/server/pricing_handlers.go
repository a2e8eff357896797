package main

import (
	"fmt"
	"net/http"

	"github.com/canopyworks/arborcost/internal/model"
	"github.com/canopyworks/arborcost/internal/treescore"
)

func (s *server) handleAFISSFactors(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, treescore.Catalog())
}

func (s *server) handleListRates(w http.ResponseWriter, r *http.Request) {
	table, err := s.rates.RateTable(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, table.Rates())
}

// handleUpdateRates accepts a partial list; service types left out keep their
// current rate.
func (s *server) handleUpdateRates(w http.ResponseWriter, r *http.Request) {
	var rates []treescore.ServiceRate
	if err := decodeJSON(w, r, &rates); err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(rates) == 0 {
		s.writeError(w, r, fmt.Errorf("%w: no rates given", errBadRequest))
		return
	}

	table := make(treescore.RateTable, len(rates))
	for _, rate := range rates {
		if _, dup := table[rate.ServiceType]; dup {
			s.writeError(w, r, fmt.Errorf("%w: %s listed twice", errBadRequest, rate.ServiceType))
			return
		}
		table[rate.ServiceType] = rate
	}
	if err := s.rates.SaveRates(r.Context(), table); err != nil {
		s.writeError(w, r, err)
		return
	}

	current, err := s.rates.RateTable(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, current.Rates())
}

// handlePriceLineItem prices a single line item without storing anything.
func (s *server) handlePriceLineItem(w http.ResponseWriter, r *http.Request) {
	var item model.LineItem
	if err := decodeJSON(w, r, &item); err != nil {
		s.writeError(w, r, err)
		return
	}

	table, err := s.rates.RateTable(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	quote, err := treescore.Price(item, table)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}
