// Package rest implements store.Backend against a PostgREST endpoint, the
// REST layer of hosted Supabase projects.
package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/syncra/paritarias/internal/store"
	"github.com/syncra/paritarias/internal/transport"
	"github.com/syncra/paritarias/pkg/constants"
)

var _ store.Backend = (*Store)(nil)

const source = "supabase"

// Store talks to /rest/v1 of a Supabase project.
type Store struct {
	client        *transport.Client
	baseURL       string
	entitiesTable string
}

// Option configures a Store.
type Option func(*Store)

// WithEntitiesTable overrides the generic entity table name.
func WithEntitiesTable(table string) Option {
	return func(s *Store) {
		if table != "" {
			s.entitiesTable = table
		}
	}
}

// New creates a Store for the project at projectURL authenticated with apiKey.
func New(projectURL, apiKey string, timeout time.Duration, opts ...Option) *Store {
	s := &Store{
		client: transport.New(transport.SupabaseAuth(),
			transport.WithAPIKey(apiKey),
			transport.WithSource(source),
			transport.WithTimeout(timeout),
		),
		baseURL:       strings.TrimRight(projectURL, "/") + "/rest/v1/",
		entitiesTable: constants.EntitiesTable,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) endpoint(table string, q url.Values) string {
	u := s.baseURL + url.PathEscape(table)
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

// LoadTable implements store.Backend.
func (s *Store) LoadTable(ctx context.Context, schema store.Schema) ([]store.Row, error) {
	resp, err := s.client.Get(ctx, s.endpoint(schema.Table, url.Values{"select": {"*"}}))
	if err != nil {
		return nil, err
	}
	var rows []store.Row
	if err := transport.DecodeResponse(resp, source, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// UpsertRow implements store.Backend.
func (s *Store) UpsertRow(ctx context.Context, schema store.Schema, row store.Row) error {
	q := url.Values{"on_conflict": {schema.KeyColumn}}
	resp, err := s.client.Post(ctx, s.endpoint(schema.Table, q), row, mergeHeaders())
	if err != nil {
		return err
	}
	return transport.DecodeResponse(resp, source, nil)
}

type entityRow struct {
	Type      string          `json:"type"`
	Key       string          `json:"key"`
	Data      json.RawMessage `json:"data"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// LoadEntity implements store.Backend.
func (s *Store) LoadEntity(ctx context.Context, entityType, key string) (json.RawMessage, bool, error) {
	q := url.Values{
		"select": {"data"},
		"type":   {"eq." + entityType},
		"key":    {"eq." + key},
	}
	resp, err := s.client.Get(ctx, s.endpoint(s.entitiesTable, q))
	if err != nil {
		return nil, false, err
	}
	var rows []entityRow
	if err := transport.DecodeResponse(resp, source, &rows); err != nil {
		return nil, false, err
	}
	if len(rows) == 0 || len(rows[0].Data) == 0 || string(rows[0].Data) == "null" {
		return nil, false, nil
	}
	return rows[0].Data, true, nil
}

// UpsertEntity implements store.Backend.
func (s *Store) UpsertEntity(ctx context.Context, entityType, key string, data json.RawMessage, updatedAt time.Time) error {
	q := url.Values{"on_conflict": {"type,key"}}
	body := entityRow{Type: entityType, Key: key, Data: data, UpdatedAt: updatedAt.UTC()}
	resp, err := s.client.Post(ctx, s.endpoint(s.entitiesTable, q), body, mergeHeaders())
	if err != nil {
		return err
	}
	return transport.DecodeResponse(resp, source, nil)
}

// Close implements store.Backend. The REST store holds no connections.
func (s *Store) Close() error { return nil }

func mergeHeaders() http.Header {
	h := http.Header{}
	h.Set("Prefer", "resolution=merge-duplicates,return=minimal")
	return h
}
