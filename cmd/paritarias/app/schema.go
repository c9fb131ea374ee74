package app

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/syncra/paritarias"
	"github.com/syncra/paritarias/internal/store"
	"github.com/syncra/paritarias/internal/store/sqlstore"
	"github.com/syncra/paritarias/pkg/errors"
	"github.com/syncra/paritarias/pkg/logging"
)

// NewSchemaCommand creates the schema command.
func (a *App) NewSchemaCommand() *cobra.Command {
	var (
		dialect string
		apply   bool
		all     bool
		noTable bool
	)

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print or apply the store tables for postgres or sqlite",
		Long: `Schema prints the CREATE TABLE statements for the entities table and the
dedicated table of the selected scheme.

With --apply the statements are executed against the configured postgres or
sqlite store. Use --no-table to create only the entities table, which makes
runs fall back to entities storage.`,
		Example: `  paritarias schema --dialect postgres
  PARITARIAS_STORE_DRIVER=sqlite paritarias schema --apply --all`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			schemas, err := a.schemas(all, noTable)
			if err != nil {
				return err
			}
			if apply {
				return a.applySchema(cmd, schemas)
			}
			if dialect == "" {
				dialect = a.defaultDialect()
			}
			stmts, err := sqlstore.DDL(dialect, a.config.EntitiesTable, schemas...)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), strings.Join(stmts, ";\n\n")+";")
			return err
		},
	}

	cmd.Flags().StringVar(&dialect, "dialect", "", "SQL dialect: postgres, sqlite (default from the store driver)")
	cmd.Flags().BoolVar(&apply, "apply", false, "execute the statements against the configured store")
	cmd.Flags().BoolVar(&all, "all", false, "include the dedicated tables of every scheme")
	cmd.Flags().BoolVar(&noTable, "no-table", false, "only the entities table")
	cmd.MarkFlagsMutuallyExclusive("all", "no-table")

	return cmd
}

func (a *App) schemas(all, noTable bool) ([]store.Schema, error) {
	if noTable {
		return nil, nil
	}
	if all {
		var out []store.Schema
		for _, s := range paritarias.Schemes() {
			out = append(out, s.Schema())
		}
		return out, nil
	}
	scheme, err := paritarias.ParseScheme(a.config.Scheme)
	if err != nil {
		return nil, err
	}
	return []store.Schema{scheme.Schema()}, nil
}

func (a *App) defaultDialect() string {
	if d, err := store.ParseDriver(a.config.StoreDriver); err == nil && d == store.DriverSQLite {
		return "sqlite"
	}
	return "postgres"
}

func (a *App) applySchema(cmd *cobra.Command, schemas []store.Schema) error {
	ctx := cmd.Context()
	cfg, err := a.config.StoreConfig()
	if err != nil {
		return err
	}

	var s *sqlstore.Store
	switch cfg.Driver {
	case store.DriverPostgres:
		s, err = sqlstore.OpenPostgres(ctx, cfg.DSN, sqlstore.WithEntitiesTable(cfg.EntitiesTable))
	case store.DriverSQLite:
		s, err = sqlstore.OpenSQLite(ctx, cfg.SQLitePath, sqlstore.WithEntitiesTable(cfg.EntitiesTable))
	default:
		return errors.NewConfigError("schema", "--apply needs the postgres or sqlite store driver", errors.ErrInvalidInput)
	}
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	if err := s.Migrate(ctx, schemas...); err != nil {
		return err
	}
	logging.FromContext(ctx).Info().
		Str("dialect", s.Dialect()).
		Int("tables", len(schemas)+1).
		Msg("Schema applied")
	return nil
}
