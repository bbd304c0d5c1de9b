package driven

import (
	"context"

	"github.com/vibelab/promptrec/internal/core/domain"
)

// PromptStore persists prompt records.
// Two interchangeable backends exist: a remote database table and a local
// JSON file. The backend is selected once at startup and never re-attempted
// per call, so one session never mixes reads from two sources.
type PromptStore interface {
	// List returns the full prompt collection. Every call is a fresh read:
	// remote data may change out-of-band and the local file is the sole
	// source of truth.
	List(ctx context.Context) ([]domain.PromptRecord, error)

	// Add validates and stores a new record. It fails with
	// domain.ErrValidation when the ID or prompt body is empty or the ID
	// already exists, and with domain.ErrStoreWrite on persistence failure.
	Add(ctx context.Context, record domain.PromptRecord) error

	// Exists reports whether a record with the given ID is stored.
	Exists(ctx context.Context, id string) (bool, error)

	// Delete removes a record by ID. domain.ErrNotFound when absent.
	Delete(ctx context.Context, id string) error

	// Backend names the active backend ("remote" or "local") for logging.
	Backend() string

	// Close releases resources.
	Close() error
}
