package main

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/canopyworks/arborcost/internal/directory"
	"github.com/canopyworks/arborcost/internal/loadout"
	"github.com/canopyworks/arborcost/internal/model"
	"github.com/canopyworks/arborcost/internal/pricing"
)

// identified is a record whose identifier can be assigned by the server.
type identified[T any] interface {
	directory.Record
	WithID(id uuid.UUID) T
}

func listRecords[T directory.Record](s *server, store *directory.Store[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, store.List())
	}
}

func getRecord[T directory.Record](s *server, store *directory.Store[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		record, ok := store.Get(id)
		if !ok {
			s.writeError(w, r, fmt.Errorf("%w: %s %s", directory.ErrNotFound, store.Name(), id))
			return
		}
		writeJSON(w, http.StatusOK, record)
	}
}

func createRecord[T identified[T]](s *server, store *directory.Store[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var record T
		if err := decodeJSON(w, r, &record); err != nil {
			s.writeError(w, r, err)
			return
		}
		if record.Key() == uuid.Nil {
			record = record.WithID(uuid.New())
		}
		if err := store.Create(r.Context(), record); err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, record)
	}
}

func updateRecord[T identified[T]](s *server, store *directory.Store[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		var record T
		if err := decodeJSON(w, r, &record); err != nil {
			s.writeError(w, r, err)
			return
		}
		record = record.WithID(id)
		if err := store.Update(r.Context(), record); err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, record)
	}
}

func deleteRecord[T directory.Record](s *server, store *directory.Store[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if err := store.Delete(r.Context(), id); err != nil {
			s.writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *server) handleEquipmentTemplates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, pricing.Templates())
}

func (s *server) handleEquipmentRate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	e, ok := s.equipment.Get(id)
	if !ok {
		s.writeError(w, r, fmt.Errorf("%w: equipment %s", directory.ErrNotFound, id))
		return
	}
	rate, err := pricing.EquipmentRate(e)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rate)
}

func (s *server) handleEmployeeCost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	e, ok := s.employees.Get(id)
	if !ok {
		s.writeError(w, r, fmt.Errorf("%w: employee %s", directory.ErrNotFound, id))
		return
	}
	writeJSON(w, http.StatusOK, pricing.EmployeeCost(e))
}

type loadoutCostResponse struct {
	loadout.Cost
	Markup                float64 `json:"markup"`
	SuggestedBillableRate float64 `json:"suggested_billable_rate"`
}

func (s *server) handleLoadoutCost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	l, ok := s.loadouts.Get(id)
	if !ok {
		s.writeError(w, r, fmt.Errorf("%w: loadout %s", directory.ErrNotFound, id))
		return
	}
	cost := s.costs.Cost(l)
	writeJSON(w, http.StatusOK, loadoutCostResponse{
		Cost:                  cost,
		Markup:                s.markup,
		SuggestedBillableRate: cost.SuggestedBillableRate(s.markup),
	})
}

var (
	_ identified[model.Equipment] = model.Equipment{}
	_ identified[model.Employee]  = model.Employee{}
	_ identified[model.Loadout]   = model.Loadout{}
)
