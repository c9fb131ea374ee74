package sync

import (
	"fmt"
	"strings"
	"time"

	"github.com/syncra/paritarias/pkg/reconcile"
)

// Result represents the outcome of one sync run.
type Result struct {
	Scheme string `json:"scheme" yaml:"scheme"`
	Mode   string `json:"mode" yaml:"mode"`
	DryRun bool   `json:"dry_run" yaml:"dry_run"`

	// Index adjustment
	Delta       float64 `json:"delta_pct" yaml:"delta_pct"`
	Period      string  `json:"period,omitempty" yaml:"period,omitempty"`
	Description string  `json:"description" yaml:"description"`
	Degraded    bool    `json:"degraded" yaml:"degraded"`
	FetchError  string  `json:"fetch_error,omitempty" yaml:"fetch_error,omitempty"`

	// Per-action counts
	Created   int `json:"created" yaml:"created"`
	Scaled    int `json:"scaled" yaml:"scaled"`
	Unchanged int `json:"unchanged" yaml:"unchanged"`
	Missing   int `json:"missing" yaml:"missing"`
	Held      int `json:"held" yaml:"held"`

	Outcomes   []reconcile.Outcome `json:"outcomes" yaml:"outcomes"`
	Unlisted   []string            `json:"unlisted,omitempty" yaml:"unlisted,omitempty"`
	Duplicates []string            `json:"duplicates,omitempty" yaml:"duplicates,omitempty"`

	// Records is the reconciled collection ([]wages.SanidadRecord or []wages.FederalRecord).
	Records any `json:"records,omitempty" yaml:"records,omitempty"`

	ArchiveKey string        `json:"archive_key,omitempty" yaml:"archive_key,omitempty"`
	StartedAt  time.Time     `json:"started_at" yaml:"started_at"`
	Duration   time.Duration `json:"duration" yaml:"duration"`
}

// Count fills the per-action counts from outcomes.
func (r *Result) Count(outcomes []reconcile.Outcome) {
	r.Outcomes = outcomes
	r.Created, r.Scaled, r.Unchanged, r.Missing, r.Held = 0, 0, 0, 0, 0
	for _, o := range outcomes {
		switch o.Action {
		case reconcile.ActionCreated:
			r.Created++
		case reconcile.ActionScaled:
			r.Scaled++
		case reconcile.ActionUnchanged:
			r.Unchanged++
		case reconcile.ActionMissing:
			r.Missing++
		case reconcile.ActionHeld:
			r.Held++
		}
	}
}

// Actions returns the counts keyed by action name.
func (r *Result) Actions() map[string]int {
	return map[string]int{
		string(reconcile.ActionCreated):   r.Created,
		string(reconcile.ActionScaled):    r.Scaled,
		string(reconcile.ActionUnchanged): r.Unchanged,
		string(reconcile.ActionMissing):   r.Missing,
		string(reconcile.ActionHeld):      r.Held,
	}
}

// HasChanges returns true if any amount was scaled or any record created.
func (r *Result) HasChanges() bool {
	return r.Scaled > 0 || r.Created > 0
}

// Summary returns a human-readable summary of the sync result.
func (r *Result) Summary() string {
	var parts []string
	if r.DryRun {
		parts = append(parts, "(Dry run)")
	}
	parts = append(parts, fmt.Sprintf("%s: %d scaled, %d created, %d unchanged", r.Scheme, r.Scaled, r.Created, r.Unchanged))
	if r.Missing > 0 {
		parts = append(parts, fmt.Sprintf("%d missing", r.Missing))
	}
	if r.Held > 0 {
		parts = append(parts, fmt.Sprintf("%d held", r.Held))
	}
	if r.Degraded {
		parts = append(parts, "index unavailable")
	} else {
		parts = append(parts, fmt.Sprintf("delta %v%%", r.Delta))
	}
	return strings.Join(parts, ", ")
}
