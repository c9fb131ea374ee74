package app

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/syncra/paritarias"
	"github.com/syncra/paritarias/internal/output"
	"github.com/syncra/paritarias/pkg/constants"
	"github.com/syncra/paritarias/pkg/errors"
	"github.com/syncra/paritarias/pkg/ipc"
	"github.com/syncra/paritarias/pkg/logging"
	pkgsync "github.com/syncra/paritarias/pkg/sync"
)

// NewSyncCommand creates the sync command.
func (a *App) NewSyncCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Adjust stored wage scales by the latest index variation",
		Long: `Sync fetches the latest monthly IPC variation, loads the stored scales,
scales the index-linked ones, creates defaults for missing jurisdictions
(sanidad only) and saves the collection back.

With --interval the sync repeats until interrupted.`,
		Example: `  paritarias sync
  paritarias sync --scheme federal --dry-run
  paritarias sync --scheme federal --policy lenient
  paritarias sync --only caba,neuquen --dry-run
  paritarias sync --interval 24h`,
		Args: cobra.NoArgs,
		RunE: a.runSync,
	}
	addSyncFlags(cmd, a.config)
	return cmd
}

func addSyncFlags(cmd *cobra.Command, config *Config) {
	cmd.Flags().BoolVar(&config.DryRun, "dry-run", false, "fetch, load and reconcile without saving")
	cmd.Flags().StringVar(&config.Policy, "policy", config.Policy, "override the scheme's index policy (strict or lenient)")
	cmd.Flags().StringSliceVar(&config.Jurisdictions, "only", config.Jurisdictions, "restrict the run to these jurisdiction keys")
	cmd.Flags().DurationVar(&config.Interval, "interval", config.Interval, "repeat the sync on this interval until interrupted (minimum 1m)")
}

func (a *App) runSync(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)

	s, err := a.Syncer()
	if err != nil {
		return err
	}
	a.logEvents(s)

	opts := []pkgsync.Option{pkgsync.WithDryRun(a.config.DryRun)}
	if a.config.Policy != "" {
		policy, err := ipc.ParsePolicy(a.config.Policy)
		if err != nil {
			return err
		}
		opts = append(opts, pkgsync.WithPolicy(policy))
	}

	if a.config.Interval > 0 {
		if a.config.Interval < constants.MinRunInterval {
			return &errors.ValidationError{
				Field:   "interval",
				Value:   a.config.Interval,
				Message: "interval must be at least " + constants.MinRunInterval.String(),
			}
		}
		logger.Info().Dur("interval", a.config.Interval).Msg("Running on interval, interrupt to stop")
		return s.RunEvery(ctx, a.config.Interval, opts...)
	}

	result, err := s.Sync(ctx, opts...)
	if err != nil {
		if errors.Is(err, errors.ErrNoAdjustment) {
			logger.Warn().Err(err).Msg("No index variation, nothing to adjust")
			return nil
		}
		return err
	}

	return a.formatter().Format(cmd.OutOrStdout(), summaryView{result: result})
}

// logEvents logs one line per saved jurisdiction.
func (a *App) logEvents(s paritarias.Syncer) {
	log := func(msg string) paritarias.RecordHook {
		return func(e paritarias.RecordEvent) {
			a.logger.Info().
				Str("scheme", string(e.Scheme)).
				Str("jurisdiction", e.Jurisdiction.Key).
				Msg(msg + " " + e.Jurisdiction.Name)
		}
	}
	s.OnRecordCreated(log("Created"))
	s.OnRecordScaled(log("Adjusted"))
	s.OnRecordUnchanged(log("Refreshed"))
}

// summaryView renders a sync result as a two-column table.
type summaryView struct {
	result *pkgsync.Result
}

func (v summaryView) Value() any { return v.result }

func (v summaryView) Table() output.Data {
	r := v.result
	rows := [][]string{
		{"Scheme", r.Scheme},
		{"Mode", r.Mode},
		{"IPC", output.Percent(r.Delta)},
		{"Period", r.Period},
		{"Description", r.Description},
		{"Scaled", itoa(r.Scaled)},
		{"Created", itoa(r.Created)},
		{"Unchanged", itoa(r.Unchanged)},
		{"Missing", itoa(r.Missing)},
	}
	if r.Held > 0 {
		rows = append(rows, []string{"Held", itoa(r.Held)})
	}
	if r.Degraded {
		rows = append(rows, []string{"Fetch error", r.FetchError})
	}
	if len(r.Unlisted) > 0 {
		rows = append(rows, []string{"Unlisted", join(r.Unlisted)})
	}
	if len(r.Duplicates) > 0 {
		rows = append(rows, []string{"Duplicates", join(r.Duplicates)})
	}
	if r.ArchiveKey != "" {
		rows = append(rows, []string{"Archive", r.ArchiveKey})
	}
	rows = append(rows,
		[]string{"Dry run", boolText(r.DryRun)},
		[]string{"Duration", r.Duration.Round(time.Millisecond).String()},
	)
	return output.Data{Headers: []string{"Field", "Value"}, Rows: rows}
}
