package schedule

import (
	"errors"
	"math"
)

// ErrInvalidAmount is returned when a pool amount is zero where a positive
// value is required (division or root of a non-positive deposit).
var ErrInvalidAmount = errors.New("amount must be > 0")

// InitialPrice returns the starting pool price as quote units per token unit.
func InitialPrice(tokenAmount, quoteAmount uint64) (float64, error) {
	if tokenAmount == 0 {
		return 0, ErrInvalidAmount
	}
	return float64(quoteAmount) / float64(tokenAmount), nil
}

// LPShareEstimate returns the expected LP token count for an initial deposit
// under the constant-product convention: sqrt(tokenAmount × quoteAmount).
func LPShareEstimate(tokenAmount, quoteAmount uint64) (float64, error) {
	if tokenAmount == 0 {
		return 0, ErrInvalidAmount
	}
	return math.Sqrt(float64(tokenAmount) * float64(quoteAmount)), nil
}
