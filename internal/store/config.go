package store

import (
	"strings"
	"time"

	"github.com/syncra/paritarias/pkg/constants"
	"github.com/syncra/paritarias/pkg/errors"
)

// Driver selects a Backend implementation.
type Driver string

const (
	// DriverREST talks to a PostgREST endpoint (hosted Supabase projects).
	DriverREST Driver = "rest"
	// DriverPostgres connects directly to Postgres through pgx.
	DriverPostgres Driver = "postgres"
	// DriverSQLite uses a local sqlite file.
	DriverSQLite Driver = "sqlite"
)

// Config selects and configures the record store.
type Config struct {
	Driver        Driver
	URL           string
	APIKey        string
	DSN           string
	SQLitePath    string
	EntitiesTable string
	EntityKey     string
	Timeout       time.Duration
}

// ParseDriver parses a driver name. "supabase" is accepted for rest and
// "pgx" for postgres.
func ParseDriver(s string) (Driver, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "rest", "supabase":
		return DriverREST, nil
	case "postgres", "postgresql", "pgx":
		return DriverPostgres, nil
	case "sqlite", "sqlite3":
		return DriverSQLite, nil
	}
	return "", errors.NewValidationError("store.driver", s, "must be rest, postgres or sqlite")
}

// WithDefaults fills unset optional fields.
func (c Config) WithDefaults() Config {
	if c.Driver == "" {
		c.Driver = DriverREST
	}
	if c.EntitiesTable == "" {
		c.EntitiesTable = constants.EntitiesTable
	}
	if c.SQLitePath == "" {
		c.SQLitePath = constants.DefaultSQLitePath
	}
	if c.Timeout <= 0 {
		c.Timeout = constants.DefaultHTTPTimeout
	}
	return c
}

// Validate reports missing credentials for the selected driver.
func (c Config) Validate() error {
	switch c.Driver {
	case DriverREST, "":
		if c.URL == "" {
			return errors.NewConfigError("store", "SUPABASE_URL (or NEXT_PUBLIC_SUPABASE_URL) is required", errors.ErrAPIKeyRequired)
		}
		if c.APIKey == "" {
			return errors.NewConfigError("store", "SUPABASE_KEY (or NEXT_PUBLIC_SUPABASE_ANON_KEY) is required", errors.ErrAPIKeyRequired)
		}
	case DriverPostgres:
		if c.DSN == "" {
			return errors.NewConfigError("store", "PARITARIAS_POSTGRES_DSN is required for the postgres driver", nil)
		}
	case DriverSQLite:
	default:
		return errors.NewConfigError("store", "unknown driver "+string(c.Driver), errors.ErrInvalidInput)
	}
	return nil
}
