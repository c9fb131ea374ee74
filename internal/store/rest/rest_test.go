package rest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syncra/paritarias/internal/store"
	"github.com/syncra/paritarias/pkg/errors"
)

var schema = store.Schema{Table: "maestro_paritarias_sanidad", KeyColumn: "jurisdiccion"}

// fakePostgREST records requests and serves canned responses per path.
type fakePostgREST struct {
	mu       sync.Mutex
	requests []*http.Request
	bodies   []string
	handler  func(w http.ResponseWriter, r *http.Request)
}

func newFake(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*fakePostgREST, *Store) {
	t.Helper()
	f := &fakePostgREST{handler: handler}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.requests = append(f.requests, r)
		f.bodies = append(f.bodies, string(body))
		f.mu.Unlock()
		assert.Equal(t, "anon", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer anon", r.Header.Get("Authorization"))
		f.handler(w, r)
	}))
	t.Cleanup(server.Close)
	return f, New(server.URL+"/", "anon", 5*time.Second)
}

func TestLoadTable(t *testing.T) {
	f, s := newFake(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/maestro_paritarias_sanidad", r.URL.Path)
		assert.Equal(t, "*", r.URL.Query().Get("select"))
		_, _ = io.WriteString(w, `[{"jurisdiccion":"caba","basico_profesional":850000}]`)
	})

	rows, err := s.LoadTable(context.Background(), schema)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "caba", rows[0]["jurisdiccion"])
	assert.Len(t, f.requests, 1)
}

func TestLoadTableMissing(t *testing.T) {
	_, s := newFake(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"code":"42P01","message":"relation does not exist"}`)
	})

	_, err := s.LoadTable(context.Background(), schema)
	assert.True(t, errors.IsNotFound(err))
}

func TestUpsertRow(t *testing.T) {
	f, s := newFake(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "jurisdiccion", r.URL.Query().Get("on_conflict"))
		assert.Contains(t, r.Header.Get("Prefer"), "resolution=merge-duplicates")
		w.WriteHeader(http.StatusCreated)
	})

	err := s.UpsertRow(context.Background(), schema, store.Row{"jurisdiccion": "salta", "basico_tecnico": json.Number("680000")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"jurisdiccion":"salta","basico_tecnico":680000}`, f.bodies[0])
}

func TestUpsertRowError(t *testing.T) {
	_, s := newFake(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"message":"permission denied"}`)
	})

	err := s.UpsertRow(context.Background(), schema, store.Row{"jurisdiccion": "salta"})
	assert.ErrorIs(t, err, errors.ErrAPIKeyRequired)
}

func TestLoadEntity(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		_, s := newFake(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/rest/v1/syncra_entities", r.URL.Path)
			q := r.URL.Query()
			assert.Equal(t, "data", q.Get("select"))
			assert.Equal(t, "eq.maestro_paritarias_sanidad", q.Get("type"))
			assert.Equal(t, "eq.", q.Get("key"))
			_, _ = io.WriteString(w, `[{"data":[{"jurisdiccion":"caba"}]}]`)
		})
		data, found, err := s.LoadEntity(context.Background(), "maestro_paritarias_sanidad", "")
		require.NoError(t, err)
		assert.True(t, found)
		assert.JSONEq(t, `[{"jurisdiccion":"caba"}]`, string(data))
	})

	t.Run("missing", func(t *testing.T) {
		_, s := newFake(t, func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, `[]`)
		})
		_, found, err := s.LoadEntity(context.Background(), "maestro_paritarias_sanidad", "")
		require.NoError(t, err)
		assert.False(t, found)
	})
}

func TestUpsertEntity(t *testing.T) {
	f, s := newFake(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "type,key", r.URL.Query().Get("on_conflict"))
		w.WriteHeader(http.StatusCreated)
	})

	at := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.UpsertEntity(context.Background(), "maestro_paritarias_sanidad", "", json.RawMessage(`[]`), at))
	assert.JSONEq(t, `{"type":"maestro_paritarias_sanidad","key":"","data":[],"updated_at":"2026-09-01T00:00:00Z"}`, f.bodies[0])
}

func TestCustomEntitiesTable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/entities", r.URL.Path)
		_, _ = io.WriteString(w, `[]`)
	}))
	defer server.Close()

	s := New(server.URL, "anon", time.Second, WithEntitiesTable("entities"))
	_, _, err := s.LoadEntity(context.Background(), "t", "")
	require.NoError(t, err)
	assert.NoError(t, s.Close())
}
