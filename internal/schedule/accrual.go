// Package schedule provides the pure numeric functions behind vesting
// accrual and liquidity pricing. All functions are deterministic and
// side-effect free.
package schedule

import (
	"errors"

	"solforge/internal/domain"
)

// ErrInvalidDuration is returned when a vesting duration is not positive.
var ErrInvalidDuration = errors.New("vesting duration must be > 0")

// AccrualRate returns the linear release rate in base units per second.
func AccrualRate(totalAmount uint64, vestingDurationSec int64) (float64, error) {
	if vestingDurationSec <= 0 {
		return 0, ErrInvalidDuration
	}
	return float64(totalAmount) / float64(vestingDurationSec), nil
}

// AmountReleasedAt returns the cumulative amount released by nowMs.
//
// Zero before the cliff ends; exactly TotalAmount at or after VestingEnd
// regardless of accumulated float rounding; otherwise linear from StartTime
// (not from CliffEnd — once the cliff passes, accrual is backdated to the
// start), floored to a whole base unit and clamped to [0, TotalAmount].
func AmountReleasedAt(s *domain.VestingSchedule, nowMs int64) uint64 {
	if s == nil {
		return 0
	}
	if nowMs < s.CliffEnd {
		return 0
	}
	if nowMs >= s.VestingEnd {
		return s.TotalAmount
	}

	elapsedSec := float64(nowMs-s.StartTime) / 1000.0
	if elapsedSec <= 0 {
		return 0
	}

	released := uint64(s.AmountPerSecond * elapsedSec)
	if released > s.TotalAmount {
		released = s.TotalAmount
	}
	return released
}

// ClaimableAt returns the amount the beneficiary may claim at nowMs:
// released-to-date minus already claimed. Claimed never exceeds released
// for schedules mutated only through claim operations.
func ClaimableAt(s *domain.VestingSchedule, nowMs int64) uint64 {
	released := AmountReleasedAt(s, nowMs)
	if s.Claimed >= released {
		return 0
	}
	return released - s.Claimed
}
