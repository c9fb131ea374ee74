package paritarias

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/syncra/paritarias/internal/archive"
	"github.com/syncra/paritarias/internal/metrics"
	"github.com/syncra/paritarias/internal/store"
	"github.com/syncra/paritarias/pkg/errors"
	"github.com/syncra/paritarias/pkg/ipc"
	"github.com/syncra/paritarias/pkg/logging"
	"github.com/syncra/paritarias/pkg/reconcile"
	pkgsync "github.com/syncra/paritarias/pkg/sync"
)

// run executes one pass for binding b: resolve the index, detect the store
// mode, load, reconcile, save, then report.
func run[R any](ctx context.Context, c *client, b binding[R], o *pkgsync.Options) (*pkgsync.Result, error) {
	started, begin := c.now(), time.Now()
	ctx = logging.WithRunID(logging.WithScheme(ctx, string(b.scheme)), uuid.NewString())
	logger := logging.FromContext(ctx)

	result := &pkgsync.Result{
		Scheme:    string(b.scheme),
		DryRun:    o.DryRun,
		StartedAt: started,
	}

	fail := func(stage string, err error) (*pkgsync.Result, error) {
		result.Duration = time.Since(begin)
		c.observe(ctx, o, metrics.Run{
			Scheme:   result.Scheme,
			Mode:     result.Mode,
			Duration: result.Duration,
			Err:      err,
			At:       c.now(),
		})
		return result, errors.NewSyncError(result.Scheme, stage, err)
	}

	// Step 1: resolve the index adjustment
	policy := o.PolicyOr(b.policy)
	resolution, err := ipc.Resolve(ctx, c.fetcher, policy, b.template)
	if err != nil {
		logger.Error().Err(err).Str("policy", policy.String()).Msg("Index fetch aborted the run")
		return fail("fetch", err)
	}
	result.Delta = resolution.Percent()
	result.Period = resolution.Delta.Period
	result.Description = resolution.Description
	result.Degraded = resolution.Degraded()
	if resolution.FetchError != nil {
		result.FetchError = resolution.FetchError.Error()
	}
	logger.Info().
		Float64("delta_pct", result.Delta).
		Str("period", result.Period).
		Bool("degraded", result.Degraded).
		Msg("Index resolved")

	// Step 2: detect the storage mode and load
	adapterOpts := []store.AdapterOption{
		store.WithEntity("", c.options.store.EntityKey),
		store.WithClock(c.now),
	}
	if !b.fallback {
		adapterOpts = append(adapterOpts, store.WithoutFallback())
	}
	adapter := store.NewAdapter[R](c.backend, b.profile, adapterOpts...)
	mode, err := adapter.Open(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Stored records could not be read")
		return fail("load", err)
	}
	result.Mode = string(mode)

	existing, err := adapter.Load(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Stored records could not be decoded")
		return fail("load", err)
	}
	ctx = logging.WithFields(ctx, map[string]any{"mode": result.Mode, "delta_pct": result.Delta})
	logger = logging.FromContext(ctx)
	logger.Info().Int("records", len(existing)).Strs("held", adapter.Held()).Msg("Loaded stored records")

	// Step 3: reconcile
	rec := reconcile.Reconcile(existing, c.jurisdictions(), reconcile.Input{
		Delta:       result.Delta,
		Description: result.Description,
		Held:        adapter.Held(),
		ListedOnly:  len(c.options.jurisdictions) > 0,
	}, b.profile, c.now())

	result.Count(rec.Outcomes)
	result.Unlisted = rec.Unlisted
	result.Duplicates = rec.Duplicates
	result.Records = rec.Records

	for _, out := range rec.Outcomes {
		logging.FromContext(logging.WithJurisdiction(ctx, out.Jurisdiction.Key)).Debug().
			Str("action", string(out.Action)).
			Msg("Reconciled")
	}
	switch {
	case len(rec.Unlisted) > 0 && rec.Carried:
		logger.Info().Strs("keys", rec.Unlisted).Msg("Stored records for unlisted jurisdictions carried through")
	case len(rec.Unlisted) > 0 && mode == store.ModeEntities:
		logger.Warn().Strs("keys", rec.Unlisted).Msg("Stored records for unlisted jurisdictions dropped from the collection")
	case len(rec.Unlisted) > 0:
		logger.Warn().Strs("keys", rec.Unlisted).Msg("Stored records for unlisted jurisdictions left untouched")
	}
	if len(rec.Duplicates) > 0 {
		logger.Warn().Strs("keys", rec.Duplicates).Msg("Duplicate stored records, first occurrence kept")
	}

	// Step 4: save unless dry run
	if o.DryRun {
		logger.Info().Bool("dry_run", true).Msg("Dry run completed - no changes applied")
	} else {
		saved, err := adapter.Save(ctx, rec.Records)
		if err != nil {
			return fail("save", err)
		}
		result.Records = saved
		triggerSaved(c.hooks, b.scheme, rec.Outcomes, saved)

		if c.archiver != nil && !o.SkipArchive {
			key, err := c.archiver.Put(ctx, archive.Snapshot{
				Scheme:      result.Scheme,
				Mode:        result.Mode,
				Delta:       result.Delta,
				Period:      result.Period,
				Description: result.Description,
				SavedAt:     c.now(),
				Records:     saved,
			})
			if err != nil {
				logger.Warn().Err(err).Msg("Could not archive snapshot")
			} else {
				result.ArchiveKey = key
			}
		}
	}

	result.Duration = time.Since(begin)
	c.observe(ctx, o, metrics.Run{
		Scheme:   result.Scheme,
		Mode:     result.Mode,
		Delta:    result.Delta,
		Degraded: result.Degraded,
		Actions:  result.Actions(),
		Duration: result.Duration,
		At:       c.now(),
	})

	logger.Info().
		Str("mode", result.Mode).
		Int("scaled", result.Scaled).
		Int("created", result.Created).
		Int("unchanged", result.Unchanged).
		Int("missing", result.Missing).
		Int("held", result.Held).
		Dur("duration", result.Duration).
		Msg("Sync completed")

	return result, nil
}

// observe records the run and pushes it when a Pushgateway is configured.
// Push failures never fail the run.
func (c *client) observe(ctx context.Context, o *pkgsync.Options, r metrics.Run) {
	c.recorder.Observe(r)
	if o.SkipPush || c.options.pushgatewayURL == "" {
		return
	}
	if err := c.recorder.Push(ctx, c.options.pushgatewayURL, r.Scheme); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("Could not push metrics")
	}
}
