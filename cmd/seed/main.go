package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"stealthcompany.com/opsboard/internal/config"
	"stealthcompany.com/opsboard/internal/couchbase"
	"stealthcompany.com/opsboard/internal/orchestrator"
	"stealthcompany.com/opsboard/internal/ticket"
	"stealthcompany.com/opsboard/pkg/zerolog_config"
)

func main() {
	config.LoadDotEnv()

	var cfg config.Config
	if err := config.ParseEnv(&cfg); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	zerolog_config.SetAppPrefix("opsboard-seed")
	if err := zerolog_config.StartupWithEnv(cfg.ElasticsearchURL, "logs", cfg.LogLevel); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize logging")
	}

	log.Info().Msg("Starting opsboard-seed job")

	if !cfg.CouchbaseConfigured() {
		log.Fatal().Msg("COUCHBASE_URL and COUCHBASE_USERNAME are required")
	}

	tickets := ticket.Seed()
	if cfg.TicketsFixture != "" {
		loaded, err := ticket.LoadFixture(cfg.TicketsFixture)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.TicketsFixture).Msg("Failed to load ticket fixture")
		}
		tickets = loaded
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	orchestrator.NewSignalHandler().HandleSignals(ctx, cancel)

	dbClient, err := couchbase.NewClient(ctx, couchbase.Config{
		URL:      cfg.CouchbaseURL,
		Username: cfg.CouchbaseUsername,
		Password: cfg.CouchbasePassword,
		Bucket:   cfg.CouchbaseBucket,
	}, "opsboard-seed")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Couchbase")
	}

	if err := run(ctx, dbClient, tickets); err != nil {
		log.Error().Err(err).Msg("Ticket seed failed")
		_ = dbClient.Close()
		os.Exit(1)
	}

	if err := dbClient.Close(); err != nil {
		log.Warn().Err(err).Msg("Failed to close database connection")
	}
	log.Info().Int("tickets", len(tickets)).Msg("Ticket seed completed successfully")
}

// run seeds the bucket under the seed lock. The lock is released even when
// seeding fails.
func run(ctx context.Context, db *couchbase.Client, tickets []ticket.Ticket) (err error) {
	locker := db.GetLocker()

	log.Info().Msg("Locking database for seeding")
	if err := locker.Lock(ctx); err != nil {
		if errors.Is(err, couchbase.ErrSeedInProgress) {
			log.Warn().Msg("Another seed is already running")
		}
		return err
	}

	defer func() {
		log.Info().Msg("Unlocking database after seeding")
		unlockCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if unlockErr := locker.Unlock(unlockCtx); unlockErr != nil {
			log.Error().Err(unlockErr).Msg("Failed to unlock database")
			if err == nil {
				err = unlockErr
			}
		}
	}()

	if err := db.MarkSeedStarted(ctx); err != nil {
		return err
	}
	if err := db.SeedTickets(ctx, tickets); err != nil {
		return err
	}
	return db.MarkSeedCompleted(ctx, len(tickets))
}
