package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a record with the same ID is already stored.
	ErrAlreadyExists = errors.New("already exists")

	// ErrValidation indicates malformed or incomplete input to an add operation.
	ErrValidation = errors.New("validation failed")

	// ErrStoreWrite indicates a persistence failure, local or remote.
	// Writes are never silently dropped.
	ErrStoreWrite = errors.New("store write failed")

	// ErrStoreRead indicates the prompt collection is unavailable,
	// e.g. a corrupt local file or an unreachable remote table.
	ErrStoreRead = errors.New("store read failed")

	// ErrInvalidQuery indicates an empty or whitespace-only query.
	ErrInvalidQuery = errors.New("invalid query")

	// ErrIndexUnavailable indicates the embedding or vector index backend
	// is unreachable. Hybrid mode degrades to keyword-only on this error.
	ErrIndexUnavailable = errors.New("vector index unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	// Vector and hybrid recommendation modes are disabled without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")
)
