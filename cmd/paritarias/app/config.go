package app

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/syncra/paritarias"
	"github.com/syncra/paritarias/internal/archive"
	"github.com/syncra/paritarias/internal/store"
	"github.com/syncra/paritarias/pkg/constants"
	"github.com/syncra/paritarias/pkg/errors"
	"github.com/syncra/paritarias/pkg/ipc"
)

// Config holds the application configuration loaded from .env files,
// environment variables and an optional .paritarias.yaml.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Run
	Scheme        string
	Policy        string
	Jurisdictions []string
	DryRun        bool
	Interval      time.Duration

	// Store
	StoreDriver   string
	SupabaseURL   string
	SupabaseKey   string
	PostgresDSN   string
	SQLitePath    string
	EntitiesTable string

	// Index API
	IPCURL     string
	IPCSeries  string
	IPCTimeout time.Duration

	// Reporting
	PushgatewayURL   string
	ArchiveBucket    string
	ArchiveRegion    string
	ArchiveEndpoint  string
	ArchivePathStyle bool
	ArchivePrefix    string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// envFiles are loaded in order; later files do not override earlier ones,
// so .env.local is read first.
var envFiles = []string{".env.local", ".env"}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables
// 3. .env.local, then .env
// 4. Config file (.paritarias.yaml in the working or home directory)
// 5. Defaults
func LoadConfig() (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	setDefaults(v)

	if err := bindEnv(v); err != nil {
		return nil, errors.NewConfigError("env", "binding environment variables", err)
	}

	v.SetConfigType("yaml")
	v.SetConfigName(".paritarias")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.NewConfigError("file", "reading .paritarias.yaml", err)
		}
	}

	return configFrom(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("scheme", string(paritarias.SchemeSanidad))
	v.SetDefault("store.driver", string(store.DriverREST))
	v.SetDefault("store.sqlite_path", constants.DefaultSQLitePath)
	v.SetDefault("store.entities_table", constants.EntitiesTable)
	v.SetDefault("ipc.url", constants.IPCSeriesURL)
	v.SetDefault("ipc.series", constants.IPCSeriesID)
	v.SetDefault("ipc.timeout", constants.DefaultIPCTimeout.String())
	v.SetDefault("archive.prefix", constants.MetricsNamespace)
	v.SetDefault("log.level", "")
	v.SetDefault("log.format", "auto")
	v.SetDefault("log.output", "stderr")
}

// bindEnv maps config keys to their environment variables. When several
// variables are listed the first one set wins.
func bindEnv(v *viper.Viper) error {
	bindings := map[string][]string{
		"scheme":               {"PARITARIAS_SCHEME"},
		"policy":               {"PARITARIAS_POLICY"},
		"jurisdictions":        {"PARITARIAS_JURISDICTIONS"},
		"interval":             {"PARITARIAS_INTERVAL"},
		"store.driver":         {"PARITARIAS_STORE_DRIVER"},
		"store.url":            {"SUPABASE_URL", "NEXT_PUBLIC_SUPABASE_URL"},
		"store.key":            {"SUPABASE_KEY", "NEXT_PUBLIC_SUPABASE_ANON_KEY"},
		"store.dsn":            {"PARITARIAS_POSTGRES_DSN"},
		"store.sqlite_path":    {"PARITARIAS_SQLITE_PATH"},
		"store.entities_table": {"PARITARIAS_ENTITIES_TABLE"},
		"ipc.url":              {"PARITARIAS_IPC_URL"},
		"ipc.series":           {"PARITARIAS_IPC_SERIES"},
		"ipc.timeout":          {"PARITARIAS_IPC_TIMEOUT"},
		"metrics.pushgateway":  {"PARITARIAS_PUSHGATEWAY_URL"},
		"archive.bucket":       {"PARITARIAS_ARCHIVE_BUCKET"},
		"archive.region":       {"PARITARIAS_ARCHIVE_REGION"},
		"archive.endpoint":     {"PARITARIAS_ARCHIVE_ENDPOINT"},
		"archive.path_style":   {"PARITARIAS_ARCHIVE_PATH_STYLE"},
		"archive.prefix":       {"PARITARIAS_ARCHIVE_PREFIX"},
		"log.level":            {"LOG_LEVEL"},
		"log.format":           {"LOG_FORMAT"},
		"log.output":           {"LOG_OUTPUT"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return err
		}
	}
	return nil
}

func configFrom(v *viper.Viper) (*Config, error) {
	interval, err := duration(v, "interval")
	if err != nil {
		return nil, err
	}
	ipcTimeout, err := duration(v, "ipc.timeout")
	if err != nil {
		return nil, err
	}

	return &Config{
		ConfigFile: v.ConfigFileUsed(),

		Scheme:        v.GetString("scheme"),
		Policy:        v.GetString("policy"),
		Jurisdictions: splitList(v.GetString("jurisdictions")),
		Interval:      interval,

		StoreDriver:   v.GetString("store.driver"),
		SupabaseURL:   v.GetString("store.url"),
		SupabaseKey:   v.GetString("store.key"),
		PostgresDSN:   v.GetString("store.dsn"),
		SQLitePath:    v.GetString("store.sqlite_path"),
		EntitiesTable: v.GetString("store.entities_table"),

		IPCURL:     v.GetString("ipc.url"),
		IPCSeries:  v.GetString("ipc.series"),
		IPCTimeout: ipcTimeout,

		PushgatewayURL:   v.GetString("metrics.pushgateway"),
		ArchiveBucket:    v.GetString("archive.bucket"),
		ArchiveRegion:    v.GetString("archive.region"),
		ArchiveEndpoint:  v.GetString("archive.endpoint"),
		ArchivePathStyle: v.GetBool("archive.path_style"),
		ArchivePrefix:    v.GetString("archive.prefix"),

		LogLevel:  v.GetString("log.level"),
		LogFormat: v.GetString("log.format"),
		LogOutput: v.GetString("log.output"),
	}, nil
}

// duration reads key as a duration. viper turns malformed values into zero,
// which would silently disable a timeout or the interval.
func duration(v *viper.Viper, key string) (time.Duration, error) {
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, errors.WrapValidation(key, err)
	}
	return d, nil
}

// splitList splits a comma-separated list, dropping empty items.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// UpdateFromFlags updates config values from parsed command flags.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// StoreConfig builds and validates the record store configuration.
func (c *Config) StoreConfig() (store.Config, error) {
	driver, err := store.ParseDriver(c.StoreDriver)
	if err != nil {
		return store.Config{}, errors.NewConfigError("store", "invalid PARITARIAS_STORE_DRIVER", err)
	}
	cfg := store.Config{
		Driver:        driver,
		URL:           c.SupabaseURL,
		APIKey:        c.SupabaseKey,
		DSN:           c.PostgresDSN,
		SQLitePath:    c.SQLitePath,
		EntitiesTable: c.EntitiesTable,
		EntityKey:     constants.EntityKey,
	}.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return store.Config{}, err
	}
	return cfg, nil
}

// IPCConfig returns the index API configuration.
func (c *Config) IPCConfig() ipc.Config {
	return ipc.Config{
		BaseURL:  c.IPCURL,
		SeriesID: c.IPCSeries,
		Timeout:  c.IPCTimeout,
	}
}

// ArchiveConfig returns the snapshot archive configuration. An empty bucket
// disables archiving.
func (c *Config) ArchiveConfig() archive.Config {
	return archive.Config{
		Bucket:    c.ArchiveBucket,
		Region:    c.ArchiveRegion,
		Endpoint:  c.ArchiveEndpoint,
		PathStyle: c.ArchivePathStyle,
		Prefix:    c.ArchivePrefix,
	}
}

// SyncerOptions converts the configuration into Syncer options.
func (c *Config) SyncerOptions() ([]paritarias.Option, error) {
	scheme, err := paritarias.ParseScheme(c.Scheme)
	if err != nil {
		return nil, err
	}
	storeCfg, err := c.StoreConfig()
	if err != nil {
		return nil, err
	}
	return []paritarias.Option{
		paritarias.WithScheme(scheme),
		paritarias.WithStore(storeCfg),
		paritarias.WithIPC(c.IPCConfig()),
		paritarias.WithPushgateway(c.PushgatewayURL),
		paritarias.WithArchive(c.ArchiveConfig()),
		paritarias.WithJurisdictionKeys(c.Jurisdictions...),
	}, nil
}

// loadEnvFiles loads environment variables from .env files. godotenv never
// overrides variables that are already set.
func loadEnvFiles() {
	for _, envFile := range envFiles {
		_ = godotenv.Load(envFile)
	}
}
