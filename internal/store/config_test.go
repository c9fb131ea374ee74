package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syncra/paritarias/internal/store"
	"github.com/syncra/paritarias/pkg/errors"
)

func TestParseDriver(t *testing.T) {
	tests := map[string]store.Driver{
		"":         store.DriverREST,
		"supabase": store.DriverREST,
		"PGX":      store.DriverPostgres,
		"sqlite3":  store.DriverSQLite,
	}
	for in, want := range tests {
		got, err := store.ParseDriver(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := store.ParseDriver("mongo")
	assert.True(t, errors.IsValidationError(err))
}

func TestConfigValidate(t *testing.T) {
	var cfgErr *errors.ConfigError

	err := store.Config{}.WithDefaults().Validate()
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, err.Error(), "SUPABASE_URL")

	err = store.Config{URL: "https://x.supabase.co"}.WithDefaults().Validate()
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, err.Error(), "SUPABASE_KEY")

	assert.NoError(t, store.Config{URL: "https://x.supabase.co", APIKey: "anon"}.Validate())
	assert.Error(t, store.Config{Driver: store.DriverPostgres}.Validate())
	assert.NoError(t, store.Config{Driver: store.DriverSQLite}.WithDefaults().Validate())
}

func TestConfigDefaults(t *testing.T) {
	cfg := store.Config{}.WithDefaults()
	assert.Equal(t, "syncra_entities", cfg.EntitiesTable)
	assert.Equal(t, "paritarias.db", cfg.SQLitePath)
	assert.Equal(t, store.DriverREST, cfg.Driver)
}
