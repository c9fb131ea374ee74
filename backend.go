package paritarias

import (
	"context"

	"github.com/syncra/paritarias/internal/store"
	"github.com/syncra/paritarias/internal/store/rest"
	"github.com/syncra/paritarias/internal/store/sqlstore"
	"github.com/syncra/paritarias/pkg/errors"
)

// openBackend connects the storage engine selected by cfg.Driver.
func openBackend(ctx context.Context, cfg store.Config) (store.Backend, error) {
	switch cfg.Driver {
	case store.DriverREST:
		return rest.New(cfg.URL, cfg.APIKey, cfg.Timeout, rest.WithEntitiesTable(cfg.EntitiesTable)), nil
	case store.DriverPostgres:
		s, err := sqlstore.OpenPostgres(ctx, cfg.DSN, sqlstore.WithEntitiesTable(cfg.EntitiesTable))
		if err != nil {
			return nil, err
		}
		return s, nil
	case store.DriverSQLite:
		s, err := sqlstore.OpenSQLite(ctx, cfg.SQLitePath, sqlstore.WithEntitiesTable(cfg.EntitiesTable))
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, errors.NewConfigError("store", "unknown driver "+string(cfg.Driver), errors.ErrInvalidInput)
}
