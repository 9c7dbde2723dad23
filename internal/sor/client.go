// Package sor fetches client records from the system of record so the SOR
// cross-check can compare against live data.
package sor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"stealthcompany.com/opsboard/internal/metrics"
	"stealthcompany.com/opsboard/internal/ticket"
)

// ErrNotFound is returned when the system of record has no entry for a
// ticket.
var ErrNotFound = errors.New("sor record not found")

// maxBody caps how much of a response is read.
const maxBody = 1 << 20

// Client reads records from the system-of-record HTTP API
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a new SOR client. A nil client is valid and disabled.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// Enabled reports whether the client has somewhere to fetch from.
func (c *Client) Enabled() bool {
	return c != nil && c.baseURL != ""
}

// Fetch reads GET {base}/records/{ticketID}.
func (c *Client) Fetch(ctx context.Context, ticketID string) (ticket.SORRecord, error) {
	if !c.Enabled() {
		return ticket.SORRecord{}, errors.New("sor client disabled")
	}

	startTime := time.Now()
	endpoint := fmt.Sprintf("%s/records/%s", c.baseURL, url.PathEscape(ticketID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return ticket.SORRecord{}, fmt.Errorf("failed to build sor request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordSORFetch(startTime, 0, "error")
		return ticket.SORRecord{}, fmt.Errorf("failed to fetch sor record %s: %w", ticketID, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("Failed to close response body")
		}
	}()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		metrics.RecordSORFetch(startTime, resp.StatusCode, "not_found")
		return ticket.SORRecord{}, fmt.Errorf("%s: %w", ticketID, ErrNotFound)
	default:
		metrics.RecordSORFetch(startTime, resp.StatusCode, "error")
		return ticket.SORRecord{}, fmt.Errorf("sor server returned status %d for %s", resp.StatusCode, ticketID)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		metrics.RecordSORFetch(startTime, resp.StatusCode, "error")
		return ticket.SORRecord{}, fmt.Errorf("failed to read sor response for %s: %w", ticketID, err)
	}

	var rec ticket.SORRecord
	if err := json.Unmarshal(body, &rec); err != nil {
		metrics.RecordSORFetch(startTime, resp.StatusCode, "invalid")
		return ticket.SORRecord{}, fmt.Errorf("failed to parse sor record for %s: %w", ticketID, err)
	}

	metrics.RecordSORFetch(startTime, resp.StatusCode, "success")
	log.Debug().
		Str("ticket", ticketID).
		Dur("duration", time.Since(startTime)).
		Msg("Fetched sor record")

	return rec, nil
}

// Resolve returns a live record when the client is enabled and the fetch
// succeeds; otherwise nil, meaning the embedded record applies.
func (c *Client) Resolve(ctx context.Context, ticketID string) *ticket.SORRecord {
	if !c.Enabled() {
		return nil
	}
	rec, err := c.Fetch(ctx, ticketID)
	if err != nil {
		log.Warn().
			Err(err).
			Str("ticket", ticketID).
			Msg("Falling back to embedded sor record")
		return nil
	}
	return &rec
}
