package ipc

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/syncra/paritarias/pkg/errors"
)

// Delta is the month-over-month variation between two observations.
type Delta struct {
	Percent  float64 `json:"percent" yaml:"percent"`
	Period   string  `json:"period" yaml:"period"`
	Current  float64 `json:"current" yaml:"current"`
	Previous float64 `json:"previous" yaml:"previous"`
}

// Fetcher produces a Delta. *Client implements it.
type Fetcher interface {
	FetchDelta(ctx context.Context) (Delta, error)
}

// ComputeDelta returns (current/previous - 1) * 100 rounded to two decimals.
func ComputeDelta(previous, current float64) (float64, error) {
	if previous <= 0 || math.IsNaN(previous) || math.IsInf(previous, 0) {
		return 0, errors.NewValidationError("previous", previous, "must be a positive number")
	}
	if math.IsNaN(current) || math.IsInf(current, 0) {
		return 0, errors.NewValidationError("current", current, "must be a finite number")
	}
	return Round2((current/previous - 1) * 100), nil
}

// Round2 rounds half away from zero to two decimals.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatPercent prints p in its shortest decimal form (2.5, not 2.50).
func FormatPercent(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

// Describe renders a legal-source description from a template taking the
// percent and the observation period, in that order.
func Describe(template string, d Delta) string {
	return fmt.Sprintf(template, FormatPercent(d.Percent), d.Period)
}
