package paritarias

import (
	"context"
	"time"

	"github.com/syncra/paritarias/pkg/constants"
	"github.com/syncra/paritarias/pkg/errors"
	"github.com/syncra/paritarias/pkg/logging"
	pkgsync "github.com/syncra/paritarias/pkg/sync"
)

// Scheduler runs sync passes on a fixed interval.
type Scheduler interface {
	// RunEvery runs a pass immediately and then once per interval until ctx
	// is done. Passes never overlap.
	RunEvery(ctx context.Context, interval time.Duration, opts ...pkgsync.Option) error
}

// RunEvery runs passes serially on the calling goroutine. A failed pass is
// logged and the loop continues; it returns nil once ctx is canceled.
func (c *client) RunEvery(ctx context.Context, interval time.Duration, opts ...pkgsync.Option) error {
	if interval <= 0 {
		return &errors.ValidationError{
			Field:   "interval",
			Value:   interval,
			Message: "interval must be positive",
		}
	}

	logger := logging.FromContext(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		passCtx, cancel := context.WithTimeout(ctx, constants.SyncTimeout)
		result, err := c.Sync(passCtx, opts...)
		cancel()

		switch {
		case err != nil && (ctx.Err() != nil || errors.IsCanceled(err)):
			return nil
		case errors.Is(err, errors.ErrRateLimited):
			logger.Warn().Err(err).Dur("next_in", interval).Msg("Upstream rate limited, retrying on the next pass")
		case err != nil:
			logger.Error().Err(err).Msg("Scheduled sync failed")
		default:
			logger.Info().Str("summary", result.Summary()).Dur("next_in", interval).Msg("Scheduled sync done")
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
