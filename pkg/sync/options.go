// Package sync provides the per-run options and the result of a wage-scale sync.
package sync

import (
	"time"

	"github.com/syncra/paritarias/internal/utils/ptr"
	"github.com/syncra/paritarias/pkg/errors"
	"github.com/syncra/paritarias/pkg/ipc"
)

// Options controls one sync run.
type Options struct {
	DryRun  bool          // Fetch, load and reconcile without saving
	Timeout time.Duration // Timeout for the whole run, 0 means none

	// Policy overrides the scheme's fetch policy when set.
	Policy *ipc.Policy

	SkipArchive bool // Do not upload a snapshot even if an archive is configured
	SkipPush    bool // Do not push metrics even if a Pushgateway is configured
}

// Apply applies the given options to the sync options.
func (s *Options) Apply(opts ...Option) *Options {
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Defaults returns the default sync options.
func Defaults() *Options {
	return &Options{}
}

// New returns the defaults with opts applied.
func New(opts ...Option) *Options {
	return Defaults().Apply(opts...)
}

// Option is a function that configures sync Options.
type Option func(*Options)

// Validate checks if the sync options are valid.
func (s *Options) Validate() error {
	if s.Timeout < 0 {
		return &errors.ValidationError{
			Field:   "Timeout",
			Value:   s.Timeout,
			Message: "timeout must be non-negative",
		}
	}
	if s.Policy != nil && *s.Policy != ipc.PolicyStrict && *s.Policy != ipc.PolicyLenient {
		return &errors.ValidationError{
			Field:   "Policy",
			Value:   int(*s.Policy),
			Message: "unknown fetch policy",
		}
	}
	return nil
}

// PolicyOr returns the override policy, or fallback when none is set.
func (s *Options) PolicyOr(fallback ipc.Policy) ipc.Policy {
	return ptr.Deref(s.Policy, fallback)
}

// WithDryRun configures dry run mode.
func WithDryRun(dryRun bool) Option {
	return func(opts *Options) {
		opts.DryRun = dryRun
	}
}

// WithTimeout configures the sync timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(opts *Options) {
		opts.Timeout = timeout
	}
}

// WithPolicy overrides the scheme's fetch policy.
func WithPolicy(policy ipc.Policy) Option {
	return func(opts *Options) {
		opts.Policy = ptr.To(policy)
	}
}

// WithSkipArchive disables the snapshot upload for this run.
func WithSkipArchive(skip bool) Option {
	return func(opts *Options) {
		opts.SkipArchive = skip
	}
}

// WithSkipPush disables the metrics push for this run.
func WithSkipPush(skip bool) Option {
	return func(opts *Options) {
		opts.SkipPush = skip
	}
}
