// Package app wires configuration, logging and the syncer together for the
// paritarias CLI.
package app

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/syncra/paritarias"
	"github.com/syncra/paritarias/pkg/errors"
)

// App represents the paritarias application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger
	stdout io.Writer

	// Syncer instance (lazy-initialized, singleton)
	mu          sync.Mutex
	syncer      paritarias.Syncer
	syncerOpts  []paritarias.Option
	ownedSyncer bool
}

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
		stdout:  os.Stdout,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// Syncer returns the syncer, creating it from the configuration on first use.
func (a *App) Syncer() (paritarias.Syncer, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.syncer != nil {
		return a.syncer, nil
	}

	opts, err := a.config.SyncerOptions()
	if err != nil {
		return nil, err
	}
	s, err := paritarias.New(append(opts, a.syncerOpts...)...)
	if err != nil {
		return nil, err
	}
	a.syncer = s
	a.ownedSyncer = true
	return s, nil
}

// Shutdown releases the syncer's store connection.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.syncer == nil || !a.ownedSyncer {
		return nil
	}
	err := a.syncer.Close()
	a.syncer = nil
	return err
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithSyncer sets a custom syncer (useful for testing). The caller keeps
// ownership and closes it.
func WithSyncer(s paritarias.Syncer) Option {
	return func(a *App) error {
		a.syncer = s
		return nil
	}
}

// WithSyncerOptions appends options used when the syncer is built from config.
func WithSyncerOptions(opts ...paritarias.Option) Option {
	return func(a *App) error {
		a.syncerOpts = append(a.syncerOpts, opts...)
		return nil
	}
}

// WithOutput redirects command output (default os.Stdout).
func WithOutput(w io.Writer) Option {
	return func(a *App) error {
		a.stdout = w
		return nil
	}
}
