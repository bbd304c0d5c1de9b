// Package remote provides the primary prompt store backed by a hosted
// Postgres table exposed over a PostgREST-style HTTP API. The transport is
// treated as an opaque CRUD layer; durability and write serialisation are
// its concern.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/vibelab/promptrec/internal/core/domain"
	"github.com/vibelab/promptrec/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.PromptStore = (*Store)(nil)

// Default configuration values.
const (
	DefaultTable   = "prompts"
	DefaultTimeout = 15 * time.Second
)

// Config holds configuration for the remote store.
type Config struct {
	// URL is the API base URL, e.g. https://xyz.supabase.co (required).
	URL string

	// Key is the API key sent as both apikey and bearer token (required).
	Key string

	// Table is the prompts table name (default: prompts).
	Table string

	// Timeout is the per-request timeout (default: 15s).
	Timeout time.Duration
}

// Store is a remote implementation of driven.PromptStore.
// Every List is a fresh read: remote data may change out-of-band, so no
// response is ever cached.
type Store struct {
	client   *http.Client
	endpoint string
	key      string
}

// New creates a remote store client. It does not contact the server;
// reachability is checked separately with Ping during backend selection.
func New(cfg Config) (*Store, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("remote: URL is required")
	}
	if cfg.Key == "" {
		return nil, fmt.Errorf("remote: API key is required")
	}
	if cfg.Table == "" {
		cfg.Table = DefaultTable
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Store{
		client:   &http.Client{Timeout: cfg.Timeout},
		endpoint: cfg.URL + "/rest/v1/" + cfg.Table,
		key:      cfg.Key,
	}, nil
}

// Backend names the active backend for logging.
func (s *Store) Backend() string {
	return "remote"
}

// Ping verifies the table is reachable with a minimal read.
// Used once, at backend selection time.
func (s *Store) Ping(ctx context.Context) error {
	req, err := s.newRequest(ctx, http.MethodGet, "?select=id&limit=1", nil)
	if err != nil {
		return err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("remote: ping failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("remote: ping returned status %d", resp.StatusCode)
	}
	return nil
}

// List returns the full prompt collection with a fresh read.
func (s *Store) List(ctx context.Context) ([]domain.PromptRecord, error) {
	req, err := s.newRequest(ctx, http.MethodGet, "?select=*", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreRead, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: list request: %v", domain.ErrStoreRead, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: list returned status %d", domain.ErrStoreRead, resp.StatusCode)
	}

	var records []domain.PromptRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("%w: decode list response: %v", domain.ErrStoreRead, err)
	}
	if records == nil {
		records = []domain.PromptRecord{}
	}
	return records, nil
}

// Add validates the record and inserts it. Transport errors surface as
// domain.ErrStoreWrite and are never silently dropped.
func (s *Store) Add(ctx context.Context, record domain.PromptRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}

	exists, err := s.Exists(ctx, record.ID)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: record %q %w", domain.ErrValidation, record.ID, domain.ErrAlreadyExists)
	}

	body, err := json.Marshal([]domain.PromptRecord{record})
	if err != nil {
		return fmt.Errorf("%w: encode record: %v", domain.ErrStoreWrite, err)
	}

	req, err := s.newRequest(ctx, http.MethodPost, "", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreWrite, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=minimal")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: insert request: %v", domain.ErrStoreWrite, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: insert returned status %d: %s", domain.ErrStoreWrite, resp.StatusCode, detail)
	}
	return nil
}

// Exists reports whether a record with the given ID is stored.
func (s *Store) Exists(ctx context.Context, id string) (bool, error) {
	query := "?select=id&id=eq." + url.QueryEscape(id)
	req, err := s.newRequest(ctx, http.MethodGet, query, nil)
	if err != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrStoreRead, err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: exists request: %v", domain.ErrStoreRead, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("%w: exists returned status %d", domain.ErrStoreRead, resp.StatusCode)
	}

	var rows []struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return false, fmt.Errorf("%w: decode exists response: %v", domain.ErrStoreRead, err)
	}
	return len(rows) > 0, nil
}

// Delete removes a record by ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	query := "?id=eq." + url.QueryEscape(id)
	req, err := s.newRequest(ctx, http.MethodDelete, query, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreWrite, err)
	}
	req.Header.Set("Prefer", "return=representation")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: delete request: %v", domain.ErrStoreWrite, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("%w: delete returned status %d", domain.ErrStoreWrite, resp.StatusCode)
	}

	// With return=representation the deleted rows come back; an empty
	// array means nothing matched the ID.
	if resp.StatusCode == http.StatusOK {
		var rows []json.RawMessage
		if err := json.NewDecoder(resp.Body).Decode(&rows); err == nil && len(rows) == 0 {
			return fmt.Errorf("record %q: %w", id, domain.ErrNotFound)
		}
	}
	return nil
}

// Close releases resources.
func (s *Store) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}

func (s *Store) newRequest(ctx context.Context, method, query string, body io.Reader) (*http.Request, error) {
	if body == nil {
		body = http.NoBody
	}
	req, err := http.NewRequestWithContext(ctx, method, s.endpoint+query, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("apikey", s.key)
	req.Header.Set("Authorization", "Bearer "+s.key)
	return req, nil
}
