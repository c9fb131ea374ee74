package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syncra/paritarias/internal/store"
	"github.com/syncra/paritarias/pkg/constants"
	"github.com/syncra/paritarias/pkg/errors"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	config, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "sanidad", config.Scheme)
	assert.Equal(t, "rest", config.StoreDriver)
	assert.Equal(t, constants.IPCSeriesURL, config.IPCURL)
	assert.Equal(t, constants.IPCSeriesID, config.IPCSeries)
	assert.Equal(t, constants.DefaultIPCTimeout, config.IPCTimeout)
	assert.Equal(t, "auto", config.LogFormat)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PARITARIAS_SCHEME", "federal")
	t.Setenv("PARITARIAS_POLICY", "lenient")
	t.Setenv("NEXT_PUBLIC_SUPABASE_URL", "https://demo.supabase.co")
	t.Setenv("NEXT_PUBLIC_SUPABASE_ANON_KEY", "anon")
	t.Setenv("PARITARIAS_IPC_TIMEOUT", "5s")
	t.Setenv("PARITARIAS_ARCHIVE_PATH_STYLE", "true")

	config, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "federal", config.Scheme)
	assert.Equal(t, "lenient", config.Policy)
	assert.Equal(t, "https://demo.supabase.co", config.SupabaseURL)
	assert.Equal(t, 5*time.Second, config.IPCTimeout)
	assert.True(t, config.ArchivePathStyle)

	cfg, err := config.StoreConfig()
	require.NoError(t, err)
	assert.Equal(t, store.DriverREST, cfg.Driver)
	assert.Equal(t, "anon", cfg.APIKey)
	assert.Equal(t, constants.EntitiesTable, cfg.EntitiesTable)
}

func TestLoadConfigJurisdictions(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PARITARIAS_JURISDICTIONS", "caba, neuquen,")

	config, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"caba", "neuquen"}, config.Jurisdictions)
}

func TestLoadConfigRejectsMalformedDurations(t *testing.T) {
	for _, env := range []string{"PARITARIAS_INTERVAL", "PARITARIAS_IPC_TIMEOUT"} {
		t.Run(env, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv(env, "daily")

			_, err := LoadConfig()
			assert.True(t, errors.IsValidationError(err))
		})
	}
}

func TestNewLoggerReadsEnvFields(t *testing.T) {
	t.Setenv("LOG_FIELDS", "region=ar,job=paritarias")
	path := filepath.Join(t.TempDir(), "run.log")

	logger := NewLogger(&Config{LogFormat: "json", LogOutput: path})
	logger.Info().Msg("ready")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"region":"ar"`)
	assert.Contains(t, string(data), `"job":"paritarias"`)
}

func TestLoadConfigPrefersPrimaryVariable(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SUPABASE_URL", "https://primary.supabase.co")
	t.Setenv("NEXT_PUBLIC_SUPABASE_URL", "https://public.supabase.co")

	config, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "https://primary.supabase.co", config.SupabaseURL)
}

func TestStoreConfigMissingKey(t *testing.T) {
	config := &Config{StoreDriver: "rest", SupabaseURL: "https://demo.supabase.co"}
	_, err := config.StoreConfig()
	var cfgErr *errors.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.ErrorIs(t, err, errors.ErrAPIKeyRequired)
}

func TestStoreConfigBadDriver(t *testing.T) {
	_, err := (&Config{StoreDriver: "mongo"}).StoreConfig()
	var cfgErr *errors.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestArchiveConfig(t *testing.T) {
	config := &Config{ArchiveBucket: "snapshots", ArchiveEndpoint: "http://minio:9000", ArchivePathStyle: true}
	a := config.ArchiveConfig()
	assert.Equal(t, "snapshots", a.Bucket)
	assert.True(t, a.PathStyle)
}

func TestDetermineLogLevel(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		want   string
	}{
		{"default", Config{}, "info"},
		{"verbose", Config{Verbose: true}, "debug"},
		{"quiet", Config{Quiet: true}, "warn"},
		{"both", Config{Verbose: true, Quiet: true}, "warn"},
		{"explicit wins", Config{Verbose: true, LogLevel: "error"}, "error"},
		{"invalid", Config{LogLevel: "loud"}, "info"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, determineLogLevel(&tt.config))
		})
	}
}
