package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/syncra/paritarias/pkg/errors"
	"github.com/syncra/paritarias/pkg/logging"
)

// Adapter reads and writes one record collection through a Backend.
// The storage mode is detected on first use and kept for the adapter's lifetime.
type Adapter[R any] struct {
	backend    Backend
	codec      Codec[R]
	entityType string
	entityKey  string
	now        func() time.Time
	fallback   bool

	mode   Mode
	loaded []Row
	held   []string
}

// AdapterOption configures an Adapter.
type AdapterOption func(*adapterConfig)

type adapterConfig struct {
	entityType string
	entityKey  string
	now        func() time.Time
	fallback   bool
}

// WithEntity overrides the (type, key) pair used in entities mode.
// The type defaults to the dedicated table's name and the key to "".
func WithEntity(entityType, key string) AdapterOption {
	return func(c *adapterConfig) {
		if entityType != "" {
			c.entityType = entityType
		}
		c.entityKey = key
	}
}

// WithClock sets the time source used to stamp saved records.
func WithClock(now func() time.Time) AdapterOption {
	return func(c *adapterConfig) {
		if now != nil {
			c.now = now
		}
	}
}

// WithoutFallback makes a failed dedicated-table read an error instead of
// switching to entities mode.
func WithoutFallback() AdapterOption {
	return func(c *adapterConfig) {
		c.fallback = false
	}
}

// NewAdapter creates an Adapter for codec's table over backend.
func NewAdapter[R any](backend Backend, codec Codec[R], opts ...AdapterOption) *Adapter[R] {
	cfg := adapterConfig{
		entityType: codec.Schema().Table,
		now:        func() time.Time { return time.Now().UTC() },
		fallback:   true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Adapter[R]{
		backend:    backend,
		codec:      codec,
		entityType: cfg.entityType,
		entityKey:  cfg.entityKey,
		now:        cfg.now,
		fallback:   cfg.fallback,
	}
}

// Mode returns the detected mode, or ModeUnknown before Open.
func (a *Adapter[R]) Mode() Mode {
	return a.mode
}

// Open detects the storage mode by reading the dedicated table. Any error
// selects entities mode unless the fallback is disabled, in which case the
// read error is returned. Calling Open again is a no-op once a mode is set.
func (a *Adapter[R]) Open(ctx context.Context) (Mode, error) {
	if a.mode != ModeUnknown {
		return a.mode, nil
	}
	schema := a.codec.Schema()
	logger := logging.Ctx(ctx)

	rows, err := a.backend.LoadTable(ctx, schema)
	if err != nil {
		if ctx.Err() != nil {
			return ModeUnknown, ctx.Err()
		}
		if !a.fallback {
			return ModeUnknown, errors.WrapResource("load", schema.Table, "", err)
		}
		logger.Warn().Err(err).
			Str("table", schema.Table).
			Str("entity_type", a.entityType).
			Msg("Dedicated table unavailable, using entities storage")
		a.mode = ModeEntities
		return a.mode, nil
	}

	a.mode = ModeTable
	a.loaded = rows
	logger.Debug().Str("table", schema.Table).Int("rows", len(rows)).Msg("Using dedicated table")
	return a.mode, nil
}

// Load returns the stored records. Backend read failures in entities mode
// are logged and yield an empty collection. Rows that cannot be decoded are
// skipped in table mode and their keys reported by Held; in entities mode
// they fail the load, since saving would drop them from the collection.
func (a *Adapter[R]) Load(ctx context.Context) ([]R, error) {
	mode, err := a.Open(ctx)
	if err != nil {
		return nil, err
	}
	if mode == ModeTable {
		return a.decodeRows(ctx, a.loaded), nil
	}
	return a.loadEntity(ctx)
}

// Held returns the keys of stored rows that could not be decoded by the
// last Load. Their records must be left as stored.
func (a *Adapter[R]) Held() []string {
	return a.held
}

func (a *Adapter[R]) decodeRows(ctx context.Context, rows []Row) []R {
	schema := a.codec.Schema()
	a.held = nil
	records := make([]R, 0, len(rows))
	for i, row := range rows {
		r, err := DecodeRow[R](normalizeRow(schema, row))
		if err != nil {
			key, _ := row[schema.KeyColumn].(string)
			logging.Ctx(ctx).Warn().Err(err).
				Int("row", i).
				Str("jurisdiction", key).
				Msg("Stored row could not be decoded, leaving it untouched")
			if key != "" {
				a.held = append(a.held, key)
			}
			continue
		}
		records = append(records, r)
	}
	return records
}

func (a *Adapter[R]) loadEntity(ctx context.Context) ([]R, error) {
	logger := logging.Ctx(ctx)

	data, found, err := a.backend.LoadEntity(ctx, a.entityType, a.entityKey)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Warn().Err(err).Str("entity_type", a.entityType).Msg("Entity read failed, starting from an empty set")
		return []R{}, nil
	}
	if !found {
		logger.Info().Str("entity_type", a.entityType).Msg("No stored collection, starting from an empty set")
		return []R{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var rows []Row
	if err := dec.Decode(&rows); err != nil {
		return nil, errors.WrapParse("json", a.entityType, err)
	}

	schema := a.codec.Schema()
	records := make([]R, 0, len(rows))
	for i, row := range rows {
		r, err := DecodeRow[R](normalizeRow(schema, row))
		if err != nil {
			key, _ := row[schema.KeyColumn].(string)
			return nil, errors.WrapResource("decode", a.entityType, key, fmt.Errorf("record %d: %w", i, err))
		}
		records = append(records, r)
	}
	return records, nil
}

// Save stamps every record with the current time and writes the collection
// in the detected mode. It returns the stamped records. Any write error is fatal.
func (a *Adapter[R]) Save(ctx context.Context, records []R) ([]R, error) {
	mode, err := a.Open(ctx)
	if err != nil {
		return nil, err
	}

	now := a.now()
	stamped := make([]R, len(records))
	for i, r := range records {
		stamped[i] = a.codec.Touch(r, now)
	}

	if mode == ModeEntities {
		return stamped, a.saveEntity(ctx, stamped, now)
	}
	return stamped, a.saveRows(ctx, stamped)
}

func (a *Adapter[R]) saveRows(ctx context.Context, records []R) error {
	schema := a.codec.Schema()
	for _, r := range records {
		key := a.codec.Key(r)
		row, err := EncodeRow(r)
		if err != nil {
			return errors.WrapResource("encode", schema.Table, key, err)
		}
		if err := a.backend.UpsertRow(ctx, schema, row); err != nil {
			return errors.WrapResource("upsert", schema.Table, key, err)
		}
		logging.Ctx(ctx).Debug().Str("jurisdiction", key).Msg("Record saved")
	}
	return nil
}

func (a *Adapter[R]) saveEntity(ctx context.Context, records []R, now time.Time) error {
	data, err := json.Marshal(records)
	if err != nil {
		return errors.WrapResource("encode", a.entityType, "", err)
	}
	if err := a.backend.UpsertEntity(ctx, a.entityType, a.entityKey, data, now); err != nil {
		return errors.WrapResource("upsert", a.entityType, "", err)
	}
	logging.Ctx(ctx).Debug().Str("entity_type", a.entityType).Int("records", len(records)).Msg("Collection saved")
	return nil
}

// Close closes the backend.
func (a *Adapter[R]) Close() error {
	return a.backend.Close()
}
