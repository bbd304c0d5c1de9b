package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vibelab/promptrec/internal/core/domain"
)

// fakeTable serves a minimal PostgREST-style prompts table.
type fakeTable struct {
	mu      sync.Mutex
	records []domain.PromptRecord
}

func (f *fakeTable) handler(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("apikey") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		f.mu.Lock()
		defer f.mu.Unlock()

		switch r.Method {
		case http.MethodGet:
			id, filtered := eqFilter(r)
			out := make([]domain.PromptRecord, 0, len(f.records))
			for _, rec := range f.records {
				if filtered && rec.ID != id {
					continue
				}
				out = append(out, rec)
			}
			if err := json.NewEncoder(w).Encode(out); err != nil {
				t.Errorf("encode response: %v", err)
			}

		case http.MethodPost:
			var incoming []domain.PromptRecord
			if err := json.NewDecoder(r.Body).Decode(&incoming); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			f.records = append(f.records, incoming...)
			w.WriteHeader(http.StatusCreated)

		case http.MethodDelete:
			id, _ := eqFilter(r)
			var deleted []domain.PromptRecord
			kept := f.records[:0]
			for _, rec := range f.records {
				if rec.ID == id {
					deleted = append(deleted, rec)
					continue
				}
				kept = append(kept, rec)
			}
			f.records = kept
			if deleted == nil {
				deleted = []domain.PromptRecord{}
			}
			if err := json.NewEncoder(w).Encode(deleted); err != nil {
				t.Errorf("encode response: %v", err)
			}

		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
}

func eqFilter(r *http.Request) (string, bool) {
	v := r.URL.Query().Get("id")
	if len(v) > 3 && v[:3] == "eq." {
		return v[3:], true
	}
	return "", false
}

func newTestStore(t *testing.T) (*Store, *fakeTable) {
	t.Helper()
	table := &fakeTable{}
	srv := httptest.NewServer(table.handler(t))
	t.Cleanup(srv.Close)

	s, err := New(Config{URL: srv.URL, Key: "test-key"})
	require.NoError(t, err)
	return s, table
}

func sample(id string) domain.PromptRecord {
	return domain.PromptRecord{
		ID:       id,
		Title:    "FastAPI upload",
		Prompt:   "FastAPI 파일 업로드 구현",
		Category: "backend",
		Keywords: []string{"FastAPI", "API"},
	}
}

func TestNewRequiresConfig(t *testing.T) {
	_, err := New(Config{Key: "k"})
	assert.Error(t, err)

	_, err = New(Config{URL: "http://localhost"})
	assert.Error(t, err)
}

func TestPing(t *testing.T) {
	s, _ := newTestStore(t)
	assert.NoError(t, s.Ping(context.Background()))
}

func TestPingUnreachable(t *testing.T) {
	s, err := New(Config{URL: "http://127.0.0.1:1", Key: "k"})
	require.NoError(t, err)
	assert.Error(t, s.Ping(context.Background()))
}

func TestAddThenList(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, sample("1")))

	records, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, sample("1"), records[0])
}

func TestAddDuplicateID(t *testing.T) {
	s, table := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, sample("1")))
	err := s.Add(ctx, sample("1"))
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Len(t, table.records, 1)
}

func TestAddValidatesLocally(t *testing.T) {
	s, table := newTestStore(t)

	err := s.Add(context.Background(), domain.PromptRecord{ID: "x"})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, table.records)
}

func TestExists(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Add(ctx, sample("1")))

	ok, err := s.Exists(ctx, "1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Exists(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDelete(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Add(ctx, sample("1")))

	require.NoError(t, s.Delete(ctx, "1"))
	assert.ErrorIs(t, s.Delete(ctx, "1"), domain.ErrNotFound)
}

func TestTransportErrorSurfacesAsWriteError(t *testing.T) {
	s, err := New(Config{URL: "http://127.0.0.1:1", Key: "k"})
	require.NoError(t, err)

	addErr := s.Add(context.Background(), sample("1"))
	assert.ErrorIs(t, addErr, domain.ErrStoreRead) // duplicate check fails first
}
