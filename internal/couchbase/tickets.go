package couchbase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"stealthcompany.com/opsboard/internal/ticket"
)

// ManifestKey lists the ticket ids in board order.
const ManifestKey = "opsboard/tickets"

type manifest struct {
	IDs       []string  `json:"ids"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ticketDoc struct {
	DocType string        `json:"docType"`
	SavedAt time.Time     `json:"savedAt"`
	Ticket  ticket.Ticket `json:"ticket"`
}

// TicketKey is the document key of one ticket.
func TicketKey(id string) string {
	return "ticket::" + id
}

// SaveTicket mirrors one ticket. Writes are refused with ErrSeedInProgress
// while another process holds the seed lock.
func (c *Client) SaveTicket(ctx context.Context, t ticket.Ticket) error {
	if err := c.locker.CheckWritable(ctx); err != nil {
		return err
	}

	doc := ticketDoc{DocType: "ticket", SavedAt: time.Now().UTC(), Ticket: t}
	if err := c.docManager.UpsertDocument(ctx, TicketKey(t.ID), doc); err != nil {
		return fmt.Errorf("failed to mirror ticket %s: %w", t.ID, err)
	}

	log.Debug().Str("ticket", t.ID).Msg("Ticket mirrored")
	return nil
}

// SeedTickets replaces the stored ticket set. The caller must hold the
// seed lock.
func (c *Client) SeedTickets(ctx context.Context, tickets []ticket.Ticket) error {
	if !c.locker.Held() {
		return errors.New("seed lock not held")
	}

	var previous manifest
	if err := c.docManager.GetDocument(ctx, ManifestKey, &previous); err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}

	ids := make([]string, 0, len(tickets))
	keep := make(map[string]bool, len(tickets))
	for i, t := range tickets {
		if err := c.SaveTicket(ctx, t); err != nil {
			return err
		}
		ids = append(ids, t.ID)
		keep[t.ID] = true

		if (i+1)%100 == 0 {
			log.Info().Int("processed", i+1).Int("total", len(tickets)).Msg("Progress update")
		}
	}

	for _, id := range previous.IDs {
		if keep[id] {
			continue
		}
		if err := c.docManager.DeleteDocument(ctx, TicketKey(id)); err != nil {
			log.Warn().Err(err).Str("ticket", id).Msg("Failed to remove stale ticket")
		}
	}

	return c.docManager.UpsertDocument(ctx, ManifestKey, manifest{IDs: ids, UpdatedAt: time.Now().UTC()})
}

// LoadTickets reads the ticket set in manifest order. Tickets listed in the
// manifest but missing from the bucket are skipped.
func (c *Client) LoadTickets(ctx context.Context) ([]ticket.Ticket, error) {
	var m manifest
	if err := c.docManager.GetDocument(ctx, ManifestKey, &m); err != nil {
		return nil, fmt.Errorf("failed to read ticket manifest: %w", err)
	}

	out := make([]ticket.Ticket, 0, len(m.IDs))
	for _, id := range m.IDs {
		var doc ticketDoc
		err := c.docManager.GetDocument(ctx, TicketKey(id), &doc)
		if errors.Is(err, ErrNotFound) {
			log.Warn().Str("ticket", id).Msg("Ticket in manifest but not in bucket")
			continue
		}
		if err != nil {
			return nil, err
		}
		doc.Ticket.Normalize()
		out = append(out, doc.Ticket)
	}

	log.Info().Int("tickets", len(out)).Msg("Loaded tickets from Couchbase")
	return out, nil
}
