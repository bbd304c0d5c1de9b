// Package localfile provides the fallback prompt store backed by a JSON
// file. The file is the sole source of truth: every read goes to disk, so a
// single-process multi-surface UI stays consistent without an in-memory
// cache.
package localfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/gofrs/flock"

	"github.com/vibelab/promptrec/internal/core/domain"
	"github.com/vibelab/promptrec/internal/core/ports/driven"
	"github.com/vibelab/promptrec/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.PromptStore = (*Store)(nil)

// DefaultFileName is used when the configured path is a directory.
const DefaultFileName = "prompts.json"

// Store is a file-backed implementation of driven.PromptStore.
// Records are persisted as a JSON array with the canonical field names.
// Writes are staged to a temporary file and renamed into place so a failed
// write never leaves a corrupted file behind.
type Store struct {
	mu   sync.Mutex
	path string
	lock *flock.Flock
}

// New creates a store persisting to the given file path.
// Parent directories are created; the file itself is created on first Add.
func New(path string) (*Store, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, ".promptrec", DefaultFileName)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	return &Store{
		path: path,
		lock: flock.New(path + ".lock"),
	}, nil
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Backend names the active backend for logging.
func (s *Store) Backend() string {
	return "local"
}

// List returns the full collection with a fresh file read.
// A missing file is an empty collection, not an error.
func (s *Store) List(_ context.Context) ([]domain.PromptRecord, error) {
	return s.read()
}

// Add validates the record and appends it to the file. The whole
// read-modify-write-rename is serialised with an in-process mutex plus a
// file lock, so concurrent adds never lose updates.
func (s *Store) Add(ctx context.Context, record domain.PromptRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.flock(ctx); err != nil {
		return fmt.Errorf("%w: acquire file lock: %v", domain.ErrStoreWrite, err)
	}
	defer s.lock.Unlock() //nolint:errcheck // Lock release failure leaves a stale lock file only.

	records, err := s.read()
	if err != nil {
		return err
	}

	for i := range records {
		if records[i].ID == record.ID {
			return fmt.Errorf("%w: record %q %w", domain.ErrValidation, record.ID, domain.ErrAlreadyExists)
		}
	}

	records = append(records, record)
	return s.write(records)
}

// Exists reports whether a record with the given ID is stored.
func (s *Store) Exists(_ context.Context, id string) (bool, error) {
	records, err := s.read()
	if err != nil {
		return false, err
	}
	for i := range records {
		if records[i].ID == id {
			return true, nil
		}
	}
	return false, nil
}

// Delete removes a record by ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.flock(ctx); err != nil {
		return fmt.Errorf("%w: acquire file lock: %v", domain.ErrStoreWrite, err)
	}
	defer s.lock.Unlock() //nolint:errcheck // See Add.

	records, err := s.read()
	if err != nil {
		return err
	}

	kept := records[:0]
	found := false
	for i := range records {
		if records[i].ID == id {
			found = true
			continue
		}
		kept = append(kept, records[i])
	}
	if !found {
		return fmt.Errorf("record %q: %w", id, domain.ErrNotFound)
	}

	return s.write(kept)
}

// Watch reports out-of-band changes to the backing file until ctx is done.
// Consumers use it to invalidate derived state such as the vector index
// cache. The returned channel is closed when the watch ends.
func (s *Store) Watch(ctx context.Context) (<-chan struct{}, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	// Watch the directory: the rename-into-place write pattern replaces the
	// file node, which a direct file watch would lose track of.
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(s.path), err)
	}

	changes := make(chan struct{}, 1)
	go func() {
		defer close(changes)
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Name != s.path {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				logger.Debug("Prompt file changed on disk: %s", event.Op)
				select {
				case changes <- struct{}{}:
				default: // A pending notification already covers this change.
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("Prompt file watch error: %v", err)
			}
		}
	}()

	return changes, nil
}

// Close releases resources.
func (s *Store) Close() error {
	return nil
}

func (s *Store) flock(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.lock.Lock()
}

// read loads and decodes the whole file.
func (s *Store) read() ([]domain.PromptRecord, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []domain.PromptRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", domain.ErrStoreRead, s.path, err)
	}

	var records []domain.PromptRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: corrupt prompt file %s: %v", domain.ErrStoreRead, s.path, err)
	}
	return records, nil
}

// write stages the serialized collection to a temporary file, syncs it and
// renames it into place. Readers observe either the old or the new file,
// never a partial write.
func (s *Store) write(records []domain.PromptRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode records: %v", domain.ErrStoreWrite, err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".prompts-*.json")
	if err != nil {
		return fmt.Errorf("%w: stage temp file: %v", domain.ErrStoreWrite, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: write temp file: %v", domain.ErrStoreWrite, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: sync temp file: %v", domain.ErrStoreWrite, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: close temp file: %v", domain.ErrStoreWrite, err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: replace %s: %v", domain.ErrStoreWrite, s.path, err)
	}
	return nil
}
