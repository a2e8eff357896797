package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/rs/zerolog"

	"github.com/canopyworks/arborcost/internal/calendar"
	"github.com/canopyworks/arborcost/internal/directory"
	"github.com/canopyworks/arborcost/internal/document"
	"github.com/canopyworks/arborcost/internal/export"
	"github.com/canopyworks/arborcost/internal/geocode"
	"github.com/canopyworks/arborcost/internal/loadout"
	"github.com/canopyworks/arborcost/internal/pricing"
	"github.com/canopyworks/arborcost/internal/proposal"
	"github.com/canopyworks/arborcost/internal/treescore"
)

const maxBodyBytes = 1 << 20

var errBadRequest = errors.New("bad request")

type rateStore interface {
	proposal.RateSource
	SaveRates(ctx context.Context, table treescore.RateTable) error
}

type server struct {
	auth *authService
	log  zerolog.Logger

	equipment  *directory.EquipmentStore
	employees  *directory.EmployeeStore
	loadouts   *directory.LoadoutStore
	customers  *directory.CustomerStore
	workOrders *directory.WorkOrderStore
	proposals  *proposal.Service
	rates      rateStore
	costs      *loadout.Cache
	markup     float64

	scheduler calendar.Scheduler
	exporter  export.Exporter
	geocoder  geocode.Geocoder
	documents *document.Generator

	// yard is nil when no depot location is configured.
	yard           *orb.Point
	geocodeTimeout time.Duration
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)
	r.Use(s.authMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Post("/login", s.handleLogin)
	r.Post("/logout", s.handleLogout)

	r.Route("/api", func(r chi.Router) {
		r.Route("/equipment", func(r chi.Router) {
			r.Get("/", listRecords(s, s.equipment))
			r.Post("/", createRecord(s, s.equipment))
			r.Get("/templates", s.handleEquipmentTemplates)
			r.Get("/{id}", getRecord(s, s.equipment))
			r.Put("/{id}", updateRecord(s, s.equipment))
			r.Delete("/{id}", deleteRecord(s, s.equipment))
			r.Get("/{id}/rate", s.handleEquipmentRate)
		})
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", listRecords(s, s.employees))
			r.Post("/", createRecord(s, s.employees))
			r.Get("/{id}", getRecord(s, s.employees))
			r.Put("/{id}", updateRecord(s, s.employees))
			r.Delete("/{id}", deleteRecord(s, s.employees))
			r.Get("/{id}/cost", s.handleEmployeeCost)
		})
		r.Route("/loadouts", func(r chi.Router) {
			r.Get("/", listRecords(s, s.loadouts))
			r.Post("/", createRecord(s, s.loadouts))
			r.Get("/{id}", getRecord(s, s.loadouts))
			r.Put("/{id}", updateRecord(s, s.loadouts))
			r.Delete("/{id}", deleteRecord(s, s.loadouts))
			r.Get("/{id}/cost", s.handleLoadoutCost)
		})

		r.Get("/afiss/factors", s.handleAFISSFactors)
		r.Get("/rates", s.handleListRates)
		r.Put("/rates", s.handleUpdateRates)
		r.Post("/line-items/price", s.handlePriceLineItem)

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", listRecords(s, s.customers))
			r.Post("/", s.handleCreateCustomer)
			r.Get("/{id}", s.handleCustomerDetail)
		})
		r.Route("/proposals", func(r chi.Router) {
			r.Get("/", s.handleListProposals)
			r.Post("/", s.handleCreateProposal)
			r.Get("/{id}", s.handleGetProposal)
			r.Post("/{id}/status", s.handleProposalStatus)
			r.Get("/{id}/pdf", s.handleProposalPDF)
			r.Post("/{id}/export", s.handleProposalExport)
		})
		r.Route("/work-orders", func(r chi.Router) {
			r.Get("/", listRecords(s, s.workOrders))
			r.Post("/", s.handleCreateWorkOrder)
		})
	})

	return r
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	valid, err := s.auth.validateCredentials(req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !valid {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "invalid credentials"})
		return
	}

	s.auth.setSessionCookie(w, req.Email)
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.auth.clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/login" || r.URL.Path == "/healthz" {
			next.ServeHTTP(w, r)
			return
		}

		if !s.auth.authenticated(r) {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "authentication required"})
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Debug().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps domain errors onto HTTP status codes. Anything unmapped is
// logged and reported as an internal error.
func (s *server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, directory.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, directory.ErrDuplicate),
		errors.Is(err, proposal.ErrInvalidTransition),
		errors.Is(err, errProposalNotAccepted):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, errBadRequest),
		errors.Is(err, directory.ErrInvalidRecord),
		errors.Is(err, pricing.ErrInvalidConfiguration),
		errors.Is(err, treescore.ErrUnknownServiceType),
		errors.Is(err, treescore.ErrUnknownFactor),
		errors.Is(err, treescore.ErrInvalidLineItem),
		errors.Is(err, proposal.ErrInvalidInput),
		errors.Is(err, calendar.ErrInvalidEvent),
		errors.Is(err, export.ErrEmptyEstimate):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		s.log.Error().Err(err).
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("path", r.URL.Path).
			Msg("request failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

func pathID(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, "id"))
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid id %q", errBadRequest, raw)
	}
	return id, nil
}
