// Package sqlstore implements store.Backend over database/sql for Postgres
// (pgx) and sqlite (modernc.org/sqlite).
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
	_ "modernc.org/sqlite"             // register sqlite as a database/sql driver

	"github.com/syncra/paritarias/internal/store"
	"github.com/syncra/paritarias/pkg/constants"
	"github.com/syncra/paritarias/pkg/errors"
)

var _ store.Backend = (*Store)(nil)

// Store is a SQL-backed record store.
type Store struct {
	db            *sql.DB
	dialect       dialect
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

// OpenPostgres connects to Postgres through the pgx driver and pings it.
func OpenPostgres(ctx context.Context, dsn string, opts ...Option) (*Store, error) {
	return open(ctx, postgresDialect, dsn, opts...)
}

// OpenSQLite opens (creating if needed) a sqlite database file.
func OpenSQLite(ctx context.Context, path string, opts ...Option) (*Store, error) {
	if path == "" {
		path = constants.DefaultSQLitePath
	}
	return open(ctx, sqliteDialect, path, opts...)
}

func open(ctx context.Context, d dialect, dsn string, opts ...Option) (*Store, error) {
	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, errors.NewResourceError("open", d.name, "", err)
	}
	if d.name == sqliteDialect.name {
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.NewResourceError("ping", d.name, "", err)
	}
	s := &Store{db: db, dialect: d, entitiesTable: constants.EntitiesTable}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// DB exposes the underlying sql.DB for tests and migrations.
func (s *Store) DB() *sql.DB { return s.db }

// Dialect returns "postgres" or "sqlite".
func (s *Store) Dialect() string { return s.dialect.name }

// DDL returns the statements Migrate would run.
func (s *Store) DDL(schemas ...store.Schema) []string {
	return s.dialect.ddl(s.entitiesTable, schemas...)
}

// DDL returns the create statements for a dialect ("postgres" or "sqlite")
// without connecting.
func DDL(dialectName, entitiesTable string, schemas ...store.Schema) ([]string, error) {
	var d dialect
	switch dialectName {
	case postgresDialect.name:
		d = postgresDialect
	case sqliteDialect.name:
		d = sqliteDialect
	default:
		return nil, errors.NewValidationError("dialect", dialectName, "must be postgres or sqlite")
	}
	if entitiesTable == "" {
		entitiesTable = constants.EntitiesTable
	}
	return d.ddl(entitiesTable, schemas...), nil
}

// Migrate creates the entities table and the given dedicated tables.
// Dedicated tables are only created when passed explicitly.
func (s *Store) Migrate(ctx context.Context, schemas ...store.Schema) error {
	for _, stmt := range s.DDL(schemas...) {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return errors.NewResourceError("migrate", s.dialect.name, "", err)
		}
	}
	return nil
}

// LoadTable implements store.Backend.
func (s *Store) LoadTable(ctx context.Context, schema store.Schema) ([]store.Row, error) {
	query := "SELECT " + quoteAll(schema.ColumnNames()) + " FROM " + quote(schema.Table)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.WrapResource("load", schema.Table, "", err)
	}
	defer func() { _ = rows.Close() }()

	var out []store.Row
	for rows.Next() {
		targets := make([]any, len(schema.Columns))
		for i, c := range schema.Columns {
			targets[i] = scanTarget(c)
		}
		if err := rows.Scan(targets...); err != nil {
			return nil, errors.WrapResource("scan", schema.Table, "", err)
		}
		row := make(store.Row, len(schema.Columns))
		for i, c := range schema.Columns {
			row[c.Name] = rowValue(targets[i])
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapResource("load", schema.Table, "", err)
	}
	return out, nil
}

// UpsertRow implements store.Backend.
func (s *Store) UpsertRow(ctx context.Context, schema store.Schema, row store.Row) error {
	args := make([]any, len(schema.Columns))
	for i, c := range schema.Columns {
		v, err := s.dialect.bindValue(c, row[c.Name])
		if err != nil {
			return errors.NewValidationError(c.Name, row[c.Name], err.Error())
		}
		args[i] = v
	}
	key := fmt.Sprint(row[schema.KeyColumn])
	if _, err := s.db.ExecContext(ctx, s.dialect.upsertRowSQL(schema), args...); err != nil {
		return errors.WrapResource("upsert", schema.Table, key, err)
	}
	return nil
}

// LoadEntity implements store.Backend.
func (s *Store) LoadEntity(ctx context.Context, entityType, key string) (json.RawMessage, bool, error) {
	var data jsonValue
	err := s.db.QueryRowContext(ctx, s.dialect.selectEntitySQL(s.entitiesTable), entityType, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.WrapResource("load", s.entitiesTable, entityType, err)
	}
	return data.Raw, data.Raw != nil, nil
}

// UpsertEntity implements store.Backend.
func (s *Store) UpsertEntity(ctx context.Context, entityType, key string, data json.RawMessage, updatedAt time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.WrapResource("begin", s.entitiesTable, entityType, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var ts any = updatedAt.UTC()
	if !s.dialect.nativeTime {
		ts = updatedAt.UTC().Format(time.RFC3339Nano)
	}
	if _, err = tx.ExecContext(ctx, s.dialect.upsertEntitySQL(s.entitiesTable), entityType, key, string(data), ts); err != nil {
		return errors.WrapResource("upsert", s.entitiesTable, entityType, err)
	}
	if err = tx.Commit(); err != nil {
		return errors.WrapResource("commit", s.entitiesTable, entityType, err)
	}
	return nil
}

// Close implements store.Backend.
func (s *Store) Close() error {
	return s.db.Close()
}
