package paritarias

import (
	"sync"

	"github.com/syncra/paritarias/pkg/reconcile"
	"github.com/syncra/paritarias/pkg/wages"
)

// RecordEvent describes what a saved run did to one jurisdiction.
type RecordEvent struct {
	Scheme       Scheme
	Jurisdiction wages.Jurisdiction
	Action       reconcile.Action
	// Record is the saved wages.SanidadRecord or wages.FederalRecord.
	Record any
}

// RecordHook is called once per jurisdiction after a successful save.
type RecordHook func(RecordEvent)

// Hooks provides event callback registration.
type Hooks interface {
	// OnRecordCreated registers a callback for default records written for new jurisdictions
	OnRecordCreated(RecordHook)

	// OnRecordScaled registers a callback for records adjusted by the index
	OnRecordScaled(RecordHook)

	// OnRecordUnchanged registers a callback for records only re-stamped
	OnRecordUnchanged(RecordHook)
}

// hooks manages event callbacks for saved runs
type hooks struct {
	mu          sync.RWMutex
	onCreated   []RecordHook
	onScaled    []RecordHook
	onUnchanged []RecordHook
}

func newHooks() *hooks {
	return &hooks{}
}

// OnRecordCreated registers a callback for created records.
func (c *client) OnRecordCreated(fn RecordHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onCreated = append(c.hooks.onCreated, fn)
}

// OnRecordScaled registers a callback for scaled records.
func (c *client) OnRecordScaled(fn RecordHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onScaled = append(c.hooks.onScaled, fn)
}

// OnRecordUnchanged registers a callback for re-stamped records.
func (c *client) OnRecordUnchanged(fn RecordHook) {
	c.hooks.mu.Lock()
	defer c.hooks.mu.Unlock()
	c.hooks.onUnchanged = append(c.hooks.onUnchanged, fn)
}

func (h *hooks) forAction(a reconcile.Action) []RecordHook {
	switch a {
	case reconcile.ActionCreated:
		return h.onCreated
	case reconcile.ActionScaled:
		return h.onScaled
	case reconcile.ActionUnchanged:
		return h.onUnchanged
	}
	return nil
}

// triggerSaved fires the hooks for every outcome. Records line up with the
// outcomes that are neither missing nor held, in order.
func triggerSaved[R any](h *hooks, scheme Scheme, outcomes []reconcile.Outcome, records []R) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	i := 0
	for _, o := range outcomes {
		if o.Action == reconcile.ActionMissing || o.Action == reconcile.ActionHeld {
			continue
		}
		if i >= len(records) {
			return
		}
		event := RecordEvent{Scheme: scheme, Jurisdiction: o.Jurisdiction, Action: o.Action, Record: records[i]}
		i++
		for _, hook := range h.forAction(o.Action) {
			hook(event)
		}
	}
}
