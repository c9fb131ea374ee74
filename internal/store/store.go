// Package store persists jurisdiction records either in a dedicated table
// (one row per jurisdiction) or, when that table is unavailable, as a single
// JSON collection in the generic entities table.
//
// Backends only move rows and blobs. Record types are converted to and from
// rows through their JSON encoding, so a record's json tags are its column names.
package store

import (
	"context"
	"encoding/json"
	"time"
)

// Mode is the storage shape selected for a run.
type Mode string

const (
	// ModeUnknown means detection has not run yet.
	ModeUnknown Mode = ""
	// ModeTable stores one row per jurisdiction in a dedicated table.
	ModeTable Mode = "table"
	// ModeEntities stores the whole collection under one (type, key) entity.
	ModeEntities Mode = "entities"
)

// ColumnType is the storage class of a column.
type ColumnType int

const (
	ColumnText ColumnType = iota
	ColumnInteger
	ColumnReal
	ColumnJSON
	ColumnTimestamp
)

// Column describes one column of a dedicated table.
type Column struct {
	Name string
	Type ColumnType
}

// Schema describes a dedicated table.
type Schema struct {
	Table     string
	KeyColumn string
	Columns   []Column
}

// ColumnNames returns the column names in declaration order.
func (s Schema) ColumnNames() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// Row is one record keyed by column name.
type Row = map[string]any

// Codec describes how a record type is stored.
type Codec[R any] interface {
	Schema() Schema
	Key(r R) string
	Touch(r R, now time.Time) R
}

// Backend is a storage engine. It knows nothing about record types.
type Backend interface {
	// LoadTable reads every row of the dedicated table.
	LoadTable(ctx context.Context, schema Schema) ([]Row, error)
	// UpsertRow inserts or replaces one row keyed on schema.KeyColumn.
	UpsertRow(ctx context.Context, schema Schema, row Row) error
	// LoadEntity reads the data blob stored under (entityType, key).
	// A missing entity returns found == false and no error.
	LoadEntity(ctx context.Context, entityType, key string) (data json.RawMessage, found bool, err error)
	// UpsertEntity writes the data blob under (entityType, key).
	UpsertEntity(ctx context.Context, entityType, key string, data json.RawMessage, updatedAt time.Time) error
	// Close releases the backend's resources.
	Close() error
}
