// Package reconcile merges an index delta into the stored wage records of
// every listed jurisdiction. It is pure: no I/O, no clock, no globals.
package reconcile

import (
	"time"

	"github.com/syncra/paritarias/pkg/wages"
)

// Action is what happened to one jurisdiction.
type Action string

const (
	// ActionScaled means amounts were multiplied by the delta factor.
	ActionScaled Action = "scaled"
	// ActionUnchanged means only the timestamp was refreshed.
	ActionUnchanged Action = "unchanged"
	// ActionCreated means a default record was synthesized.
	ActionCreated Action = "created"
	// ActionMissing means no record exists and the profile does not synthesize one.
	ActionMissing Action = "missing"
	// ActionHeld means a stored record exists but could not be read, so it
	// is left exactly as stored.
	ActionHeld Action = "held"
)

// Profile supplies the record-type specific rules.
type Profile[R any] interface {
	Key(r R) string
	IndexLinked(r R) bool
	Scale(r R, factor float64, legalSource string, now time.Time) R
	Touch(r R, now time.Time) R
	Default(j wages.Jurisdiction, legalSource string, now time.Time) (R, bool)
	DefaultLegalSource() string
}

// Rules tunes how Reconcile treats a profile's records. The zero value
// scales on a positive delta only and writes listed jurisdictions only.
type Rules struct {
	// CarryUnlisted passes stored records whose key is not listed through
	// the scale and refresh path, after the listed ones.
	CarryUnlisted bool
	// ScaleNegative scales index-linked records on a negative delta too.
	ScaleNegative bool
}

// UnlistedCarrier is implemented by profiles that set Rules.CarryUnlisted.
type UnlistedCarrier interface {
	CarriesUnlisted() bool
}

// NegativeScaler is implemented by profiles that set Rules.ScaleNegative.
type NegativeScaler interface {
	ScalesNegative() bool
}

// RulesOf returns the Rules profile asks for.
func RulesOf[R any](profile Profile[R]) Rules {
	var rules Rules
	if c, ok := any(profile).(UnlistedCarrier); ok {
		rules.CarryUnlisted = c.CarriesUnlisted()
	}
	if n, ok := any(profile).(NegativeScaler); ok {
		rules.ScaleNegative = n.ScalesNegative()
	}
	return rules
}

// Input is the resolved index adjustment for a run.
type Input struct {
	Delta       float64
	Description string
	// Held are stored keys whose records could not be read. They are
	// neither rewritten nor synthesized.
	Held []string
	// ListedOnly disables CarryUnlisted, for runs restricted to a subset.
	ListedOnly bool
}

// Outcome is the decision taken for one jurisdiction. Carried unlisted
// records get a Jurisdiction holding only their key.
type Outcome struct {
	Jurisdiction wages.Jurisdiction `json:"jurisdiction" yaml:"jurisdiction"`
	Action       Action             `json:"action" yaml:"action"`
}

// Result is the reconciled collection plus a report of what was decided.
type Result[R any] struct {
	// Records holds one record per outcome that is neither missing nor
	// held, in outcome order.
	Records  []R       `json:"records" yaml:"records"`
	Outcomes []Outcome `json:"outcomes" yaml:"outcomes"`
	// Unlisted are stored keys absent from the jurisdiction list.
	Unlisted []string `json:"unlisted,omitempty" yaml:"unlisted,omitempty"`
	// Carried reports whether unlisted records were written back.
	Carried bool `json:"carried,omitempty" yaml:"carried,omitempty"`
	// Duplicates are stored keys seen more than once; the first occurrence wins.
	Duplicates []string `json:"duplicates,omitempty" yaml:"duplicates,omitempty"`
}

// Count returns how many outcomes have action a.
func (r Result[R]) Count(a Action) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Action == a {
			n++
		}
	}
	return n
}

// Reconcile walks jurisdictions in order and decides, for each one, whether
// to scale, refresh or create its record. Profiles whose Rules carry
// unlisted records get those appended after the listed ones.
func Reconcile[R any](existing []R, jurisdictions []wages.Jurisdiction, in Input, profile Profile[R], now time.Time) Result[R] {
	rules := RulesOf(profile)
	byKey := make(map[string]R, len(existing))
	listed := make(map[string]bool, len(jurisdictions))
	for _, j := range jurisdictions {
		listed[j.Key] = true
	}
	held := make(map[string]bool, len(in.Held))
	for _, key := range in.Held {
		held[key] = true
	}

	var res Result[R]
	dupSeen := map[string]bool{}
	for _, r := range existing {
		key := profile.Key(r)
		if _, ok := byKey[key]; ok {
			if !dupSeen[key] {
				res.Duplicates = append(res.Duplicates, key)
				dupSeen[key] = true
			}
			continue
		}
		byKey[key] = r
		if !listed[key] {
			res.Unlisted = append(res.Unlisted, key)
		}
	}

	factor := 1 + in.Delta/100
	scales := in.Delta > 0 || (rules.ScaleNegative && in.Delta < 0)
	legal := in.Description
	if legal == "" {
		legal = profile.DefaultLegalSource()
	}

	update := func(r R) (R, Action) {
		if scales && profile.IndexLinked(r) {
			return profile.Scale(r, factor, legal, now), ActionScaled
		}
		return profile.Touch(r, now), ActionUnchanged
	}

	res.Records = make([]R, 0, len(jurisdictions))
	res.Outcomes = make([]Outcome, 0, len(jurisdictions))
	for _, j := range jurisdictions {
		var (
			rec    R
			action Action
		)
		current, ok := byKey[j.Key]
		switch {
		case ok:
			rec, action = update(current)
		case held[j.Key]:
			res.Outcomes = append(res.Outcomes, Outcome{Jurisdiction: j, Action: ActionHeld})
			continue
		default:
			created, synthesized := profile.Default(j, legal, now)
			if !synthesized {
				res.Outcomes = append(res.Outcomes, Outcome{Jurisdiction: j, Action: ActionMissing})
				continue
			}
			rec, action = created, ActionCreated
		}
		res.Records = append(res.Records, rec)
		res.Outcomes = append(res.Outcomes, Outcome{Jurisdiction: j, Action: action})
	}

	if rules.CarryUnlisted && !in.ListedOnly {
		res.Carried = true
		for _, key := range res.Unlisted {
			rec, action := update(byKey[key])
			res.Records = append(res.Records, rec)
			res.Outcomes = append(res.Outcomes, Outcome{Jurisdiction: wages.Jurisdiction{Key: key}, Action: action})
		}
	}
	return res
}
