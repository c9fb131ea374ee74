package sqlstore

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/syncra/paritarias/internal/store"
)

// bindValue converts a row value into a driver argument for a column.
func (d dialect) bindValue(c store.Column, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch c.Type {
	case store.ColumnInteger:
		return toInt64(v)
	case store.ColumnReal:
		return toFloat64(v)
	case store.ColumnJSON:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		return string(data), nil
	case store.ColumnTimestamp:
		t, err := toTime(v)
		if err != nil {
			return nil, err
		}
		if d.nativeTime {
			return t, nil
		}
		return t.UTC().Format(time.RFC3339Nano), nil
	default:
		if s, ok := v.(string); ok {
			return s, nil
		}
		return fmt.Sprint(v), nil
	}
}

// scanTarget returns a destination for rows.Scan matching the column type.
func scanTarget(c store.Column) any {
	switch c.Type {
	case store.ColumnInteger, store.ColumnReal:
		return new(nullNumber)
	case store.ColumnJSON:
		return new(jsonValue)
	case store.ColumnTimestamp:
		return new(timeValue)
	default:
		return new(nullString)
	}
}

// rowValue extracts the JSON-ready value from a scan target.
func rowValue(target any) any {
	switch t := target.(type) {
	case *nullNumber:
		if !t.Valid {
			return nil
		}
		return t.Float64
	case *jsonValue:
		if t.Raw == nil {
			return nil
		}
		return t.Raw
	case *timeValue:
		if !t.Valid {
			return nil
		}
		return t.Time
	case *nullString:
		if !t.Valid {
			return nil
		}
		return t.String
	}
	return nil
}

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, nil
		}
		f, err := n.Float64()
		if err != nil {
			return 0, err
		}
		return int64(math.Round(f)), nil
	case float64:
		return int64(math.Round(n)), nil
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	}
	return 0, fmt.Errorf("cannot store %T as integer", v)
}

func toFloat64(v any) (float64, error) {
	switch n := v.(type) {
	case json.Number:
		return n.Float64()
	case float64:
		return n, nil
	case int64:
		return float64(n), nil
	case int:
		return float64(n), nil
	}
	return 0, fmt.Errorf("cannot store %T as real", v)
}

func toTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		return store.ParseTimestamp(t)
	}
	return time.Time{}, fmt.Errorf("cannot store %T as timestamp", v)
}

// nullNumber scans integer and real columns, including values stored as text.
type nullNumber struct {
	Float64 float64
	Valid   bool
}

func (n *nullNumber) Scan(src any) error {
	n.Valid = src != nil
	switch v := src.(type) {
	case nil:
		n.Float64 = 0
	case int64:
		n.Float64 = float64(v)
	case float64:
		n.Float64 = v
	case []byte:
		return n.parse(string(v))
	case string:
		return n.parse(v)
	default:
		return fmt.Errorf("unsupported numeric type %T", src)
	}
	return nil
}

func (n *nullNumber) parse(s string) error {
	return json.Unmarshal([]byte(s), &n.Float64)
}

// nullString scans text columns.
type nullString struct {
	String string
	Valid  bool
}

func (s *nullString) Scan(src any) error {
	s.Valid = src != nil
	switch v := src.(type) {
	case nil:
		s.String = ""
	case string:
		s.String = v
	case []byte:
		s.String = string(v)
	default:
		s.String = fmt.Sprint(v)
	}
	return nil
}

// jsonValue scans JSON and JSONB columns whichever way the driver hands them over.
type jsonValue struct {
	Raw json.RawMessage
}

func (j *jsonValue) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		j.Raw = nil
	case []byte:
		j.Raw = append(json.RawMessage(nil), v...)
	case string:
		j.Raw = json.RawMessage(v)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		j.Raw = data
	}
	if j.Raw != nil && !json.Valid(j.Raw) {
		return fmt.Errorf("column holds invalid JSON")
	}
	return nil
}

// timeValue scans timestamp columns stored natively or as RFC 3339 text.
type timeValue struct {
	Time  time.Time
	Valid bool
}

func (t *timeValue) Scan(src any) error {
	t.Valid = src != nil
	switch v := src.(type) {
	case nil:
		t.Time = time.Time{}
		return nil
	case time.Time:
		t.Time = v.UTC()
		return nil
	case []byte:
		return t.parse(string(v))
	case string:
		return t.parse(v)
	}
	return fmt.Errorf("unsupported timestamp type %T", src)
}

func (t *timeValue) parse(s string) error {
	parsed, err := store.ParseTimestamp(s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}
