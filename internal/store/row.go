package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/syncra/paritarias/pkg/errors"
)

// EncodeRow converts a record into a row through its JSON encoding.
// Numbers are kept as json.Number so integer columns stay exact.
func EncodeRow[R any](r R) (Row, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, errors.WrapParse("json", "record", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var row Row
	if err := dec.Decode(&row); err != nil {
		return nil, errors.WrapParse("json", "record", err)
	}
	return row, nil
}

// DecodeRow converts a row back into a record. Fields the record type does
// not declare are dropped.
func DecodeRow[R any](row Row) (R, error) {
	var r R
	data, err := json.Marshal(row)
	if err != nil {
		return r, errors.WrapParse("json", "row", err)
	}
	if err := json.Unmarshal(data, &r); err != nil {
		return r, errors.WrapParse("json", "row", err)
	}
	return r, nil
}

// timestampLayouts are the textual timestamp forms seen in stored rows:
// RFC 3339, PostgREST "timestamp" columns without an offset, and the
// Postgres text output of timestamptz.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05Z07",
	"2006-01-02 15:04:05",
}

// ParseTimestamp parses s in any of the accepted layouts. Values without an
// offset are taken as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// normalizeRow returns a copy of row with textual timestamps rewritten to
// RFC 3339 so they decode into time.Time.
func normalizeRow(schema Schema, row Row) Row {
	out := make(Row, len(row))
	for k, v := range row {
		out[k] = v
	}
	for _, c := range schema.Columns {
		if c.Type != ColumnTimestamp {
			continue
		}
		s, ok := out[c.Name].(string)
		if !ok {
			continue
		}
		if t, err := ParseTimestamp(s); err == nil {
			out[c.Name] = t
		}
	}
	return out
}
