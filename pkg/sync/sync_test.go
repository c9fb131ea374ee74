package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syncra/paritarias/pkg/errors"
	"github.com/syncra/paritarias/pkg/ipc"
	"github.com/syncra/paritarias/pkg/reconcile"
	"github.com/syncra/paritarias/pkg/wages"
)

func TestOptions(t *testing.T) {
	o := New(WithDryRun(true), WithPolicy(ipc.PolicyStrict))
	require.NoError(t, o.Validate())
	assert.True(t, o.DryRun)
	assert.Equal(t, ipc.PolicyStrict, o.PolicyOr(ipc.PolicyLenient))
	assert.Equal(t, ipc.PolicyLenient, Defaults().PolicyOr(ipc.PolicyLenient))
}

func TestOptionsValidate(t *testing.T) {
	err := New(WithTimeout(-1)).Validate()
	assert.True(t, errors.IsValidationError(err))

	err = New(WithPolicy(ipc.Policy(9))).Validate()
	assert.True(t, errors.IsValidationError(err))
}

func TestResultCount(t *testing.T) {
	j, _ := wages.LookupJurisdiction("salta")
	r := &Result{Scheme: "sanidad", Delta: 2.5}
	r.Count([]reconcile.Outcome{
		{Jurisdiction: j, Action: reconcile.ActionScaled},
		{Jurisdiction: j, Action: reconcile.ActionCreated},
		{Jurisdiction: j, Action: reconcile.ActionCreated},
		{Jurisdiction: j, Action: reconcile.ActionMissing},
		{Jurisdiction: j, Action: reconcile.ActionHeld},
	})

	assert.Equal(t, 1, r.Scaled)
	assert.Equal(t, 2, r.Created)
	assert.Equal(t, 1, r.Missing)
	assert.Equal(t, 1, r.Held)
	assert.True(t, r.HasChanges())
	assert.Equal(t, 2, r.Actions()["created"])
	assert.Equal(t, "sanidad: 1 scaled, 2 created, 0 unchanged, 1 missing, 1 held, delta 2.5%", r.Summary())
}

func TestResultSummaryDegraded(t *testing.T) {
	r := &Result{Scheme: "sanidad", DryRun: true, Degraded: true}
	assert.False(t, r.HasChanges())
	assert.Equal(t, "(Dry run), sanidad: 0 scaled, 0 created, 0 unchanged, index unavailable", r.Summary())
}
