package app

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syncra/paritarias"
	"github.com/syncra/paritarias/internal/store/sqlstore"
	"github.com/syncra/paritarias/pkg/errors"
	"github.com/syncra/paritarias/pkg/ipc"
	"github.com/syncra/paritarias/pkg/wages"
)

type staticFetcher struct {
	delta ipc.Delta
	err   error
}

func (f staticFetcher) FetchDelta(context.Context) (ipc.Delta, error) {
	return f.delta, f.err
}

func testConfig() *Config {
	return &Config{
		Scheme:      "sanidad",
		StoreDriver: "sqlite",
		LogFormat:   "json",
		LogOutput:   "discard",
	}
}

func newTestApp(t *testing.T, config *Config, opts ...Option) (*App, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	app, err := New("1.2.3", "abc123", "2026-03-01", "test",
		append([]Option{WithConfig(config), WithOutput(&out)}, opts...)...)
	require.NoError(t, err)
	return app, &out
}

func newTestSyncer(t *testing.T, scheme paritarias.Scheme, f ipc.Fetcher) paritarias.Syncer {
	t.Helper()
	ctx := context.Background()
	backend, err := sqlstore.OpenSQLite(ctx, filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	// Federal runs need their dedicated table.
	if scheme == paritarias.SchemeFederal {
		require.NoError(t, backend.Migrate(ctx, wages.Federal{}.Schema()))
	} else {
		require.NoError(t, backend.Migrate(ctx))
	}

	s, err := paritarias.New(
		paritarias.WithScheme(scheme),
		paritarias.WithBackend(backend),
		paritarias.WithFetcher(f),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestExecuteRunsSyncByDefault(t *testing.T) {
	s := newTestSyncer(t, paritarias.SchemeSanidad, staticFetcher{delta: ipc.Delta{Percent: 2.5, Period: "2026-02-01"}})
	app, out := newTestApp(t, testConfig(), WithSyncer(s))

	require.NoError(t, app.Execute(context.Background(), []string{"--format", "json"}))
	assert.Contains(t, out.String(), `"scheme": "sanidad"`)
	assert.Contains(t, out.String(), `"created": 24`)
	assert.Contains(t, out.String(), `"delta_pct": 2.5`)
}

func TestExecuteSyncTable(t *testing.T) {
	s := newTestSyncer(t, paritarias.SchemeSanidad, staticFetcher{err: errors.ErrUnavailable})
	app, out := newTestApp(t, testConfig(), WithSyncer(s))

	require.NoError(t, app.Execute(context.Background(), []string{"sync", "--dry-run", "--format", "table"}))
	assert.Contains(t, out.String(), "Sin ajuste IPC - Valores base")
	assert.Contains(t, out.String(), "Fetch error")
}

func TestExecuteFederalZeroDeltaIsNotAnError(t *testing.T) {
	s := newTestSyncer(t, paritarias.SchemeFederal, staticFetcher{delta: ipc.Delta{Period: "2026-02-01"}})
	config := testConfig()
	config.Scheme = "federal"
	app, out := newTestApp(t, config, WithSyncer(s))

	require.NoError(t, app.Execute(context.Background(), []string{"sync"}))
	assert.Empty(t, out.String())
}

func TestExecuteFederalFetchErrorFails(t *testing.T) {
	s := newTestSyncer(t, paritarias.SchemeFederal, staticFetcher{err: errors.ErrTimeout})
	app, _ := newTestApp(t, testConfig(), WithSyncer(s))

	err := app.Execute(context.Background(), []string{"sync"})
	assert.ErrorIs(t, err, errors.ErrTimeout)
}

func TestExecutePolicyOverride(t *testing.T) {
	s := newTestSyncer(t, paritarias.SchemeFederal, staticFetcher{err: errors.ErrTimeout})
	config := testConfig()
	config.Scheme = "federal"
	app, out := newTestApp(t, config, WithSyncer(s))

	require.NoError(t, app.Execute(context.Background(), []string{"sync", "--policy", "lenient", "--format", "json"}))
	assert.Contains(t, out.String(), `"degraded": true`)
}

func TestExecuteRejectsUnknownPolicy(t *testing.T) {
	s := newTestSyncer(t, paritarias.SchemeFederal, staticFetcher{})
	app, _ := newTestApp(t, testConfig(), WithSyncer(s))

	err := app.Execute(context.Background(), []string{"sync", "--policy", "sometimes"})
	assert.True(t, errors.IsValidationError(err))
}

func TestExecuteOnlyRestrictsTheRun(t *testing.T) {
	config := testConfig()
	config.SQLitePath = filepath.Join(t.TempDir(), "only.db")
	app, out := newTestApp(t, config, WithSyncerOptions(paritarias.WithFetcher(staticFetcher{delta: ipc.Delta{Percent: 2.5, Period: "2026-02-01"}})))
	t.Cleanup(func() { _ = app.Shutdown(context.Background()) })

	require.NoError(t, app.Execute(context.Background(), []string{"sync", "--only", "caba,neuquen", "--dry-run", "--format", "json"}))
	assert.Contains(t, out.String(), `"created": 2`)
}

func TestExecuteOnlyRejectsUnknownKey(t *testing.T) {
	config := testConfig()
	config.SQLitePath = filepath.Join(t.TempDir(), "only.db")
	app, _ := newTestApp(t, config)

	err := app.Execute(context.Background(), []string{"sync", "--only", "atlantida", "--dry-run"})
	assert.True(t, errors.IsNotFound(err))
}

func TestExecuteRejectsShortInterval(t *testing.T) {
	s := newTestSyncer(t, paritarias.SchemeSanidad, staticFetcher{})
	app, _ := newTestApp(t, testConfig(), WithSyncer(s))

	err := app.Execute(context.Background(), []string{"sync", "--interval", "30s"})
	assert.True(t, errors.IsValidationError(err))
}

func TestExecuteRejectsUnknownFormat(t *testing.T) {
	app, _ := newTestApp(t, testConfig())
	err := app.Execute(context.Background(), []string{"version", "--format", "xml"})
	assert.True(t, errors.IsValidationError(err))
}

func TestSyncerFromConfigNeedsCredentials(t *testing.T) {
	config := testConfig()
	config.StoreDriver = "rest"
	app, _ := newTestApp(t, config)

	_, err := app.Syncer()
	var cfgErr *errors.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestSyncerFromConfigSQLite(t *testing.T) {
	config := testConfig()
	config.SQLitePath = filepath.Join(t.TempDir(), "cfg.db")
	app, _ := newTestApp(t, config)

	s, err := app.Syncer()
	require.NoError(t, err)
	assert.Equal(t, paritarias.SchemeSanidad, s.Scheme())

	again, err := app.Syncer()
	require.NoError(t, err)
	assert.Same(t, s, again)
	require.NoError(t, app.Shutdown(context.Background()))
}

func TestJurisdictionsCommand(t *testing.T) {
	app, out := newTestApp(t, testConfig())
	require.NoError(t, app.Execute(context.Background(), []string{"jurisdictions", "--format", "table"}))
	assert.Contains(t, out.String(), "Tierra del Fuego")
	assert.Contains(t, out.String(), "$ 1.020.000")
	assert.Contains(t, out.String(), "$ 850.000")
}

func TestJurisdictionsCommandFederal(t *testing.T) {
	app, out := newTestApp(t, testConfig())
	require.NoError(t, app.Execute(context.Background(), []string{"jurisdictions", "--scheme", "federal", "--format", "json"}))
	assert.Contains(t, out.String(), `"key": "tierraDelFuego"`)
	assert.Contains(t, out.String(), `"patagonica": true`)
}

func TestSchemaCommandPrints(t *testing.T) {
	app, out := newTestApp(t, testConfig())
	require.NoError(t, app.Execute(context.Background(), []string{"schema", "--dialect", "postgres", "--all"}))
	assert.Contains(t, out.String(), `CREATE TABLE IF NOT EXISTS "syncra_entities"`)
	assert.Contains(t, out.String(), `CREATE TABLE IF NOT EXISTS "maestro_paritarias_sanidad"`)
	assert.Contains(t, out.String(), `CREATE TABLE IF NOT EXISTS "maestro_paritarias"`)
}

func TestSchemaCommandApply(t *testing.T) {
	config := testConfig()
	config.SQLitePath = filepath.Join(t.TempDir(), "schema.db")
	app, _ := newTestApp(t, config)
	require.NoError(t, app.Execute(context.Background(), []string{"schema", "--apply"}))

	ctx := context.Background()
	s, err := sqlstore.OpenSQLite(ctx, config.SQLitePath)
	require.NoError(t, err)
	defer s.Close()
	rows, err := s.LoadTable(ctx, wages.Sanidad{}.Schema())
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestVersionCommand(t *testing.T) {
	app, out := newTestApp(t, testConfig())
	require.NoError(t, app.Execute(context.Background(), []string{"version", "--format", "yaml"}))
	assert.Contains(t, out.String(), "version: 1.2.3")
	assert.Contains(t, out.String(), "commit: abc123")
}
