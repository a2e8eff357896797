package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/paulmach/orb"
	"github.com/rs/zerolog"

	"github.com/canopyworks/arborcost/internal/calendar"
	"github.com/canopyworks/arborcost/internal/config"
	"github.com/canopyworks/arborcost/internal/db"
	"github.com/canopyworks/arborcost/internal/directory"
	"github.com/canopyworks/arborcost/internal/document"
	"github.com/canopyworks/arborcost/internal/export"
	"github.com/canopyworks/arborcost/internal/geocode"
	"github.com/canopyworks/arborcost/internal/loadout"
	"github.com/canopyworks/arborcost/internal/logger"
	"github.com/canopyworks/arborcost/internal/migrations"
	"github.com/canopyworks/arborcost/internal/proposal"
	"github.com/canopyworks/arborcost/internal/seed"
	"github.com/canopyworks/arborcost/internal/storage"
)

// geocoderOff disables address lookups.
const geocoderOff = "off"

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)
	for _, w := range cfg.Warnings {
		log.Warn().Msg(w)
	}
	if err := checkSessionSecret(cfg); err != nil {
		log.Fatal().Err(err).Msg("refusing to start")
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer database.Close()

	if err := migrations.Up(database); err != nil {
		log.Fatal().Err(err).Msg("failed to run database migrations")
	}
	if version, err := migrations.Version(context.Background(), database); err == nil {
		log.Info().Int64("schema_version", version).Msg("migrations applied")
	}

	stats, err := seed.Run(database, seed.Config{AdminEmail: cfg.AdminEmail, AdminPassword: cfg.AdminPassword})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to seed database")
	}
	log.Info().Int("inserts", stats.Inserts).Int("updates", stats.Updates).Msg("seed complete")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := newServer(ctx, cfg, database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build server")
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown failed")
		}
	}()

	log.Info().Str("addr", httpServer.Addr).Msg("listening")
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// newServer loads every directory from the database and wires the
// collaborators named in cfg.
func newServer(ctx context.Context, cfg config.Config, database *sql.DB, log zerolog.Logger) (*server, error) {
	store := storage.New(database)

	equipment := directory.NewEquipment(store.Equipment())
	employees := directory.NewEmployees(store.Employees())
	loadouts := directory.NewLoadouts(store.Loadouts())
	customers := directory.NewCustomers(store.Customers())
	proposals := directory.NewProposals(store.Proposals())
	workOrders := directory.NewWorkOrders(store.WorkOrders())

	loaders := []interface {
		Name() string
		Load(context.Context) error
	}{equipment, employees, loadouts, customers, proposals, workOrders}
	for _, l := range loaders {
		if err := l.Load(ctx); err != nil {
			return nil, fmt.Errorf("load %s: %w", l.Name(), err)
		}
	}

	costs := loadout.NewCache(equipment, employees, cfg.LoadoutCacheTTL)
	equipment.Subscribe(costs.Invalidate)
	employees.Subscribe(costs.Invalidate)
	loadouts.Subscribe(costs.Invalidate)

	var geocoder geocode.Geocoder = geocode.Noop{}
	if cfg.GeocoderURL != "" && cfg.GeocoderURL != geocoderOff {
		geocoder = geocode.NewClient(cfg.GeocoderURL, cfg.GeocoderAgent, cfg.GeocodeTimeout)
	}

	var yard *orb.Point
	if cfg.HasYard {
		yard = &orb.Point{cfg.YardLon, cfg.YardLat}
	}

	return &server{
		auth:           newAuthService(database, cfg.SessionSecret),
		log:            log,
		equipment:      equipment,
		employees:      employees,
		loadouts:       loadouts,
		customers:      customers,
		workOrders:     workOrders,
		proposals:      proposal.NewService(proposals, customers, store.Rates(), cfg.ProposalValidity),
		rates:          store.Rates(),
		costs:          costs,
		markup:         cfg.LoadoutMarkup,
		scheduler:      calendar.NewDirectory(cfg.CalendarDir),
		exporter:       export.NewWorkbook(cfg.ExportDir),
		geocoder:       geocoder,
		documents:      document.NewGenerator(cfg.CompanyName),
		yard:           yard,
		geocodeTimeout: cfg.GeocodeTimeout,
	}, nil
}
