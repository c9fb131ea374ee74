// Package paritarias keeps the wage scales of Argentine collective agreements
// (paritarias) in step with the national consumer price index.
//
// Each run fetches the latest monthly IPC variation, loads the stored scale of
// every jurisdiction, scales the index-linked ones, creates defaults for the
// missing ones and writes the result back. Runs are sequential and hold no
// state between them.
//
// Example usage:
//
//	syncer, err := paritarias.New(
//	    paritarias.WithScheme(paritarias.SchemeSanidad),
//	    paritarias.WithStore(store.Config{Driver: store.DriverSQLite, SQLitePath: "paritarias.db"}),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer syncer.Close()
//
//	syncer.OnRecordScaled(func(e paritarias.RecordEvent) {
//	    log.Printf("scaled %s", e.Jurisdiction.Name)
//	})
//
//	result, err := syncer.Sync(ctx, sync.WithDryRun(true))
package paritarias

import (
	"context"
	"time"

	"github.com/syncra/paritarias/internal/archive"
	"github.com/syncra/paritarias/internal/metrics"
	"github.com/syncra/paritarias/internal/store"
	"github.com/syncra/paritarias/pkg/errors"
	"github.com/syncra/paritarias/pkg/ipc"
	"github.com/syncra/paritarias/pkg/logging"
	pkgsync "github.com/syncra/paritarias/pkg/sync"
	"github.com/syncra/paritarias/pkg/wages"
)

// Compile-time interface check to ensure proper implementation.
var _ Syncer = (*client)(nil)

// Syncer runs wage-scale syncs for one scheme.
type Syncer interface {
	// Scheme returns the scheme this syncer reconciles.
	Scheme() Scheme

	// Sync runs one fetch, reconcile and save pass.
	Sync(ctx context.Context, opts ...pkgsync.Option) (*pkgsync.Result, error)

	// Scheduler runs passes on an interval
	Scheduler

	// Hooks provides access to event callback registration
	Hooks

	// Close releases the store connection.
	Close() error
}

// Archiver stores a snapshot of each saved collection.
type Archiver interface {
	Put(ctx context.Context, s archive.Snapshot) (string, error)
}

// client is the internal implementation of the Syncer interface.
type client struct {
	options *options

	backend  store.Backend
	fetcher  ipc.Fetcher
	archiver Archiver
	recorder *metrics.Recorder
	hooks    *hooks
}

// New creates a Syncer. Store credentials are validated before any
// connection is attempted.
func New(opts ...Option) (Syncer, error) {
	o := defaultOptions()
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	if err := o.validate(); err != nil {
		return nil, err
	}

	c := &client{
		options:  o,
		backend:  o.backend,
		fetcher:  o.fetcher,
		archiver: o.archiver,
		recorder: o.recorder,
		hooks:    newHooks(),
	}

	if c.fetcher == nil {
		c.fetcher = ipc.New(o.ipc)
	}
	if c.recorder == nil {
		c.recorder = metrics.New()
	}

	ctx, cancel := context.WithTimeout(context.Background(), o.store.Timeout)
	defer cancel()

	if c.archiver == nil && o.archive != nil {
		a, err := archive.New(ctx, *o.archive)
		if err != nil {
			return nil, err
		}
		c.archiver = a
	}

	if c.backend == nil {
		b, err := openBackend(ctx, o.store)
		if err != nil {
			return nil, err
		}
		c.backend = b
	}

	logging.Debug().
		Str("scheme", string(o.scheme)).
		Str("driver", string(o.store.Driver)).
		Bool("archive", c.archiver != nil).
		Bool("push", o.pushgatewayURL != "").
		Msg("Syncer ready")

	return c, nil
}

// Scheme returns the configured scheme.
func (c *client) Scheme() Scheme {
	return c.options.scheme
}

// Close releases the store connection.
func (c *client) Close() error {
	if c.backend == nil {
		return nil
	}
	if err := c.backend.Close(); err != nil {
		return errors.WrapResource("close", "store", string(c.options.store.Driver), err)
	}
	return nil
}

// Sync runs one pass of the configured scheme.
func (c *client) Sync(ctx context.Context, opts ...pkgsync.Option) (*pkgsync.Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	o := pkgsync.New(opts...)
	if err := o.Validate(); err != nil {
		return nil, err
	}

	var cancel context.CancelFunc
	if o.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, o.Timeout)
	} else {
		cancel = func() {}
	}
	defer cancel()

	switch c.options.scheme {
	case SchemeFederal:
		return run(ctx, c, federal, o)
	default:
		return run(ctx, c, sanidad, o)
	}
}

func (c *client) now() time.Time {
	return c.options.now().UTC()
}

func (c *client) jurisdictions() []wages.Jurisdiction {
	if len(c.options.jurisdictions) > 0 {
		return c.options.jurisdictions
	}
	return wages.Jurisdictions()
}
