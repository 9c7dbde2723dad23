package couchbase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// SeedStatusKey is the document key of the seed status
const SeedStatusKey = "_system/seed_status"

// SeedStatus is written by the seed job so the API knows when the bucket
// holds a complete ticket set.
type SeedStatus struct {
	Ready       bool      `json:"ready"`
	StartedAt   time.Time `json:"startedAt"`
	CompletedAt time.Time `json:"completedAt,omitempty"`
	Tickets     int       `json:"tickets"`
	Message     string    `json:"message"`
}

// GetSeedStatus reads the seed status. A missing document reads as not
// ready.
func (c *Client) GetSeedStatus(ctx context.Context) (SeedStatus, error) {
	var status SeedStatus
	err := c.docManager.GetDocument(ctx, SeedStatusKey, &status)
	if errors.Is(err, ErrNotFound) {
		return SeedStatus{Ready: false}, nil
	}
	if err != nil {
		return SeedStatus{}, err
	}
	return status, nil
}

// MarkSeedStarted records that a seed began
func (c *Client) MarkSeedStarted(ctx context.Context) error {
	return c.docManager.UpsertDocument(ctx, SeedStatusKey, SeedStatus{
		Ready:     false,
		StartedAt: time.Now().UTC(),
		Message:   "ticket seed started",
	})
}

// MarkSeedCompleted records a finished seed of n tickets
func (c *Client) MarkSeedCompleted(ctx context.Context, n int) error {
	return c.docManager.UpsertDocument(ctx, SeedStatusKey, SeedStatus{
		Ready:       true,
		CompletedAt: time.Now().UTC(),
		Tickets:     n,
		Message:     fmt.Sprintf("seeded %d tickets", n),
	})
}

// WaitForSeed polls the seed status every interval until it is ready or
// ctx is done.
func (c *Client) WaitForSeed(ctx context.Context, interval time.Duration) error {
	log.Info().Msg("Waiting for ticket seed to complete...")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		status, err := c.GetSeedStatus(ctx)
		switch {
		case err != nil:
			log.Error().Err(err).Msg("Error checking seed status")
		case status.Ready:
			log.Info().Int("tickets", status.Tickets).Msg("Ticket seed completed")
			return nil
		default:
			log.Info().Msg("Ticket seed still in progress, waiting...")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
