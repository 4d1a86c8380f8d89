// Package blinkr provides the client for the external loan collection API.
package blinkr

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/Deep6432/Blinkrloan-Dashboard/internal/domain"
)

// Client fetches a raw loan record payload from the collection API.
// It performs exactly one GET per call; retry policy belongs to the caller
// (a dashboard sync is idempotent and cheap to re-trigger).
//
// The upstream wraps each feed in a single-key envelope: the full portfolio
// lives under "pr", the fraud-screened feed under "cwpr". The key is fixed
// per client instance.
type Client struct {
	url         string
	envelopeKey string
	client      *http.Client
	log         zerolog.Logger
}

// NewClient creates a client for the full portfolio feed ("pr" envelope)
func NewClient(url string, timeout time.Duration, log zerolog.Logger) *Client {
	return newClient(url, "pr", timeout, log)
}

// NewScreenedClient creates a client for the fraud-screened feed
// ("cwpr" envelope)
func NewScreenedClient(url string, timeout time.Duration, log zerolog.Logger) *Client {
	return newClient(url, "cwpr", timeout, log)
}

func newClient(url, envelopeKey string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		url:         url,
		envelopeKey: envelopeKey,
		client:      &http.Client{Timeout: timeout},
		log:         log.With().Str("client", "blinkr").Str("feed", envelopeKey).Logger(),
	}
}

// Fetch performs a single GET against the configured endpoint.
// Any failure mode - no URL configured, network error, non-2xx status,
// malformed body, empty result set - is reported as domain.ErrUnavailable
// so the caller can fall back uniformly.
func (c *Client) Fetch(ctx context.Context) ([]domain.RawRecord, error) {
	if c.url == "" {
		return nil, fmt.Errorf("%w: no source URL configured", domain.ErrUnavailable)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %v", domain.ErrUnavailable, err)
	}

	c.log.Debug().Str("url", c.url).Msg("Fetching loan records")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", domain.ErrUnavailable, resp.StatusCode)
	}

	var env map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("%w: decoding payload: %v", domain.ErrUnavailable, err)
	}

	var records []domain.RawRecord
	if raw, ok := env[c.envelopeKey]; ok {
		if err := json.Unmarshal(raw, &records); err != nil {
			return nil, fmt.Errorf("%w: decoding %q records: %v", domain.ErrUnavailable, c.envelopeKey, err)
		}
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%w: empty result set", domain.ErrUnavailable)
	}

	c.log.Info().Int("records", len(records)).Msg("Fetched loan records")

	return records, nil
}
