package wages

import (
	"encoding/json"
	"math"
	"strconv"
)

// Amount is a whole-peso money value.
type Amount int64

// Scale multiplies a by factor and rounds half away from zero.
func (a Amount) Scale(factor float64) Amount {
	return Amount(math.Round(float64(a) * factor))
}

// UnmarshalJSON accepts integers, floats and numeric strings, since stores
// that keep amounts in NUMERIC columns hand them back as decimals.
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		*a = 0
		return nil
	}
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	}
	var f float64
	if err := json.Unmarshal([]byte(s), &f); err != nil {
		return err
	}
	*a = Amount(math.Round(f))
	return nil
}

// AdjustmentMode tags whether a record follows the index automatically.
type AdjustmentMode string

const (
	// AdjustmentIPC records are scaled by the monthly index delta.
	AdjustmentIPC AdjustmentMode = "ipc"
	// AdjustmentFixed records only move when edited by hand.
	AdjustmentFixed AdjustmentMode = "fijo"
)
