package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"stealthcompany.com/opsboard/internal/api"
	"stealthcompany.com/opsboard/internal/config"
	"stealthcompany.com/opsboard/internal/couchbase"
	"stealthcompany.com/opsboard/internal/metrics"
	"stealthcompany.com/opsboard/internal/orchestrator"
	"stealthcompany.com/opsboard/internal/sor"
	"stealthcompany.com/opsboard/internal/store"
	"stealthcompany.com/opsboard/internal/ticket"
	"stealthcompany.com/opsboard/pkg/zerolog_config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	zerolog_config.SetAppPrefix("opsboard-api")
	if err := zerolog_config.StartupWithEnv(cfg.ElasticsearchURL, "logs", cfg.LogLevel); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize logging")
	}

	log.Info().
		Str("source", cfg.TicketSource).
		Msg("Starting opsboard-api service")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	orchestrator.NewSignalHandler().HandleSignals(ctx, cancel)
	metrics.Configure(cfg.BusinessMetrics, cfg.SystemMetrics)
	metrics.StartSystemMetrics(ctx, cfg.SystemMetricsInterval)

	var db *couchbase.Client
	if cfg.UsesCouchbase() {
		if !cfg.CouchbaseConfigured() {
			log.Fatal().Msg("Couchbase is required but COUCHBASE_URL/COUCHBASE_USERNAME are not set")
		}
		db, err = couchbase.NewClient(ctx, couchbase.Config{
			URL:      cfg.CouchbaseURL,
			Username: cfg.CouchbaseUsername,
			Password: cfg.CouchbasePassword,
			Bucket:   cfg.CouchbaseBucket,
		}, hostname("opsboard-api"))
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Couchbase")
		}
	}

	tickets, err := loadTickets(ctx, cfg, db)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load tickets")
	}

	var opts []store.Option
	if db != nil && cfg.MirrorSaves {
		opts = append(opts, store.WithMirror(db))
		log.Info().Str("bucket", cfg.CouchbaseBucket).Msg("Mirroring saved tickets to Couchbase")
	}
	st := store.New(tickets, opts...)

	var sorClient *sor.Client
	if cfg.SORBaseURL != "" {
		sorClient = sor.NewClient(cfg.SORBaseURL, cfg.SORTimeout)
		log.Info().Str("url", cfg.SORBaseURL).Msg("Live system of record enabled")
	}

	server := &http.Server{
		Addr:              ":" + cfg.APIPort,
		Handler:           api.NewServer(st, sorClient).SetupRoutes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sm := orchestrator.NewServiceManager(server, cfg.ShutdownTimeout)
	if db != nil {
		sm.OnShutdown(func() {
			log.Info().Msg("Closing database connection...")
			if err := db.Close(); err != nil {
				log.Warn().Err(err).Msg("Failed to close database connection")
			}
		})
	}

	if err := sm.StartAPIService(); err != nil {
		log.Fatal().Err(err).Str("port", cfg.APIPort).Msg("Failed to start server")
	}

	log.Info().
		Int("tickets", len(st.Tickets())).
		Str("addr", sm.Addr()).
		Msg("API service ready")

	if err := sm.WaitForServices(ctx); err != nil {
		log.Error().Err(err).Msg("API service stopped with error")
		os.Exit(1)
	}
}

// loadTickets reads the board from the configured source.
func loadTickets(ctx context.Context, cfg config.Config, db *couchbase.Client) ([]ticket.Ticket, error) {
	switch cfg.TicketSource {
	case config.SourceFixture:
		return ticket.LoadFixture(cfg.TicketsFixture)
	case config.SourceCouchbase:
		waitCtx, cancel := context.WithTimeout(ctx, cfg.SeedWaitTimeout)
		defer cancel()
		if err := db.WaitForSeed(waitCtx, 2*time.Second); err != nil {
			return nil, fmt.Errorf("wait for seed: %w", err)
		}
		return db.LoadTickets(ctx)
	default:
		return ticket.Seed(), nil
	}
}

func hostname(fallback string) string {
	if h, err := os.Hostname(); err == nil && h != "" {
		return h
	}
	return fallback
}
