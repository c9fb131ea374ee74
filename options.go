package paritarias

import (
	"time"

	"github.com/syncra/paritarias/internal/archive"
	"github.com/syncra/paritarias/internal/metrics"
	"github.com/syncra/paritarias/internal/store"
	"github.com/syncra/paritarias/pkg/constants"
	"github.com/syncra/paritarias/pkg/errors"
	"github.com/syncra/paritarias/pkg/ipc"
	"github.com/syncra/paritarias/pkg/wages"
)

// Option is a function that configures a Syncer.
type Option func(*options) error

// options holds the configuration for a Syncer.
type options struct {
	scheme        Scheme
	store         store.Config
	backend       store.Backend
	ipc           ipc.Config
	fetcher       ipc.Fetcher
	jurisdictions []wages.Jurisdiction

	pushgatewayURL string
	recorder       *metrics.Recorder

	archive  *archive.Config
	archiver Archiver

	now func() time.Time
}

func defaultOptions() *options {
	return &options{
		scheme: SchemeSanidad,
		now:    time.Now,
	}
}

func (o *options) validate() error {
	if _, err := ParseScheme(string(o.scheme)); err != nil {
		return err
	}
	o.store = o.store.WithDefaults()
	if o.backend == nil {
		if err := o.store.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// WithScheme selects the wage scheme to sync.
func WithScheme(s Scheme) Option {
	return func(o *options) error {
		if _, err := ParseScheme(string(s)); err != nil {
			return err
		}
		o.scheme = s
		return nil
	}
}

// WithStore configures the record store connection.
func WithStore(cfg store.Config) Option {
	return func(o *options) error {
		o.store = cfg
		return nil
	}
}

// WithBackend uses an already opened store backend. The Syncer closes it.
func WithBackend(b store.Backend) Option {
	return func(o *options) error {
		if b == nil {
			return errors.NewValidationError("backend", nil, "must not be nil")
		}
		o.backend = b
		return nil
	}
}

// WithIPC configures the index API client.
func WithIPC(cfg ipc.Config) Option {
	return func(o *options) error {
		o.ipc = cfg
		return nil
	}
}

// WithFetcher replaces the index API client.
func WithFetcher(f ipc.Fetcher) Option {
	return func(o *options) error {
		o.fetcher = f
		return nil
	}
}

// WithJurisdictions restricts runs to the given jurisdictions.
func WithJurisdictions(js ...wages.Jurisdiction) Option {
	return func(o *options) error {
		o.jurisdictions = js
		return nil
	}
}

// WithJurisdictionKeys restricts runs to the jurisdictions with the given
// keys. An unknown key is a NotFoundError. No keys leaves the list as is.
func WithJurisdictionKeys(keys ...string) Option {
	return func(o *options) error {
		if len(keys) == 0 {
			return nil
		}
		js := make([]wages.Jurisdiction, 0, len(keys))
		for _, key := range keys {
			j, ok := wages.LookupJurisdiction(key)
			if !ok {
				return errors.NewNotFoundError("jurisdiction", key)
			}
			js = append(js, j)
		}
		o.jurisdictions = js
		return nil
	}
}

// WithPushgateway pushes run metrics to a Prometheus Pushgateway.
func WithPushgateway(url string) Option {
	return func(o *options) error {
		o.pushgatewayURL = url
		return nil
	}
}

// WithMetrics observes runs into r instead of a private recorder.
func WithMetrics(r *metrics.Recorder) Option {
	return func(o *options) error {
		o.recorder = r
		return nil
	}
}

// WithArchive uploads a snapshot of every saved collection to object storage.
// An empty bucket disables archiving.
func WithArchive(cfg archive.Config) Option {
	return func(o *options) error {
		if cfg.Bucket == "" {
			return nil
		}
		if cfg.Prefix == "" {
			cfg.Prefix = constants.MetricsNamespace
		}
		o.archive = &cfg
		return nil
	}
}

// WithArchiver replaces the snapshot uploader.
func WithArchiver(a Archiver) Option {
	return func(o *options) error {
		o.archiver = a
		return nil
	}
}

// WithClock sets the time source for record timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) error {
		if now != nil {
			o.now = now
		}
		return nil
	}
}
