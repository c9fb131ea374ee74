package ipc

import (
	"context"
	"fmt"
	"strings"

	"github.com/syncra/paritarias/pkg/constants"
	"github.com/syncra/paritarias/pkg/errors"
	"github.com/syncra/paritarias/pkg/logging"
)

// Policy decides what a failed or empty fetch means for the run.
type Policy int

const (
	// PolicyStrict aborts the run when the fetch fails or the delta is zero.
	PolicyStrict Policy = iota
	// PolicyLenient continues with a zero delta and the no-adjustment description.
	PolicyLenient
)

// String implements fmt.Stringer.
func (p Policy) String() string {
	switch p {
	case PolicyStrict:
		return "strict"
	case PolicyLenient:
		return "lenient"
	default:
		return "unknown"
	}
}

// ParsePolicy parses "strict" or "lenient".
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "strict":
		return PolicyStrict, nil
	case "lenient":
		return PolicyLenient, nil
	}
	return 0, errors.NewValidationError("policy", s, "must be strict or lenient")
}

// Resolution is the outcome of applying a Policy to a fetch.
type Resolution struct {
	Delta       Delta  `json:"delta" yaml:"delta"`
	Description string `json:"description" yaml:"description"`
	// FetchError is set when a lenient run fell back to no adjustment.
	// It is never persisted.
	FetchError error `json:"-" yaml:"-"`
}

// Percent is shorthand for r.Delta.Percent.
func (r Resolution) Percent() float64 {
	return r.Delta.Percent
}

// Degraded reports whether the fetch failed and the fallback was used.
func (r Resolution) Degraded() bool {
	return r.FetchError != nil
}

// Resolve fetches once and applies policy. A strict policy returns an error
// for a failed fetch and for a zero delta; a lenient one never errors.
func Resolve(ctx context.Context, f Fetcher, policy Policy, template string) (Resolution, error) {
	logger := logging.Ctx(ctx)

	d, err := f.FetchDelta(ctx)
	if err != nil {
		if policy == PolicyStrict {
			return Resolution{}, err
		}
		logger.Warn().Err(err).Msg("Index fetch failed, continuing without adjustment")
		return Resolution{
			Description: constants.NoAdjustmentLegalSource,
			FetchError:  err,
		}, nil
	}

	if policy == PolicyStrict && d.Percent == 0 {
		return Resolution{}, fmt.Errorf("index variation for %s is zero: %w", d.Period, errors.ErrNoAdjustment)
	}

	return Resolution{Delta: d, Description: Describe(template, d)}, nil
}
