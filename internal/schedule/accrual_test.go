package schedule

import (
	"errors"
	"testing"

	"solforge/internal/domain"
)

// newSchedule builds a schedule starting at t=1_700_000_000_000 ms with the
// given cliff and vesting durations in seconds.
func newSchedule(total uint64, cliffSec, vestingSec int64) *domain.VestingSchedule {
	start := int64(1_700_000_000_000)
	rate, _ := AccrualRate(total, vestingSec)
	return &domain.VestingSchedule{
		ID:              "vesting_test",
		MintAddress:     "mint",
		Beneficiary:     "wallet",
		Owner:           "owner",
		TotalAmount:     total,
		StartTime:       start,
		CliffEnd:        start + cliffSec*1000,
		VestingEnd:      start + vestingSec*1000,
		AmountPerSecond: rate,
		Status:          domain.ScheduleStatusActive,
	}
}

func TestAccrualRate(t *testing.T) {
	rate, err := AccrualRate(1000, 100)
	if err != nil {
		t.Fatalf("AccrualRate failed: %v", err)
	}
	if rate != 10.0 {
		t.Errorf("rate = %v, want 10.0", rate)
	}
}

func TestAccrualRate_InvalidDuration(t *testing.T) {
	for _, dur := range []int64{0, -1} {
		_, err := AccrualRate(1000, dur)
		if !errors.Is(err, ErrInvalidDuration) {
			t.Errorf("duration %d: expected ErrInvalidDuration, got %v", dur, err)
		}
	}
}

func TestAmountReleasedAt_BeforeCliff(t *testing.T) {
	s := newSchedule(1000, 50, 100)

	// Nothing releases until the cliff passes, even though time has elapsed
	// since the start.
	for _, offsetMs := range []int64{0, 1, 25_000, 49_999} {
		got := AmountReleasedAt(s, s.StartTime+offsetMs)
		if got != 0 {
			t.Errorf("at start+%dms: released = %d, want 0", offsetMs, got)
		}
	}
}

func TestAmountReleasedAt_CliffBackdated(t *testing.T) {
	s := newSchedule(1000, 50, 100)

	// The instant the cliff ends, accrual is backdated to the start time:
	// 50s elapsed at 10 units/s.
	got := AmountReleasedAt(s, s.CliffEnd)
	if got != 500 {
		t.Errorf("at cliff end: released = %d, want 500", got)
	}
}

func TestAmountReleasedAt_Linear(t *testing.T) {
	s := newSchedule(1000, 0, 100)

	tests := []struct {
		offsetSec int64
		want      uint64
	}{
		{0, 0},
		{1, 10},
		{50, 500},
		{99, 990},
		{100, 1000},
	}
	for _, tt := range tests {
		got := AmountReleasedAt(s, s.StartTime+tt.offsetSec*1000)
		if got != tt.want {
			t.Errorf("at +%ds: released = %d, want %d", tt.offsetSec, got, tt.want)
		}
	}
}

func TestAmountReleasedAt_FloorsFractions(t *testing.T) {
	// 100 units over 3 seconds: rate 33.33.../s. Whole base units only.
	s := newSchedule(100, 0, 3)

	got := AmountReleasedAt(s, s.StartTime+1000)
	if got != 33 {
		t.Errorf("at +1s: released = %d, want 33", got)
	}
	got = AmountReleasedAt(s, s.StartTime+2000)
	if got != 66 {
		t.Errorf("at +2s: released = %d, want 66", got)
	}
}

func TestAmountReleasedAt_ExactTotalAtEnd(t *testing.T) {
	// 999_999_999 over 7 seconds does not divide evenly; the total must
	// still come out exact at and after the vesting end.
	s := newSchedule(999_999_999, 0, 7)

	got := AmountReleasedAt(s, s.VestingEnd)
	if got != s.TotalAmount {
		t.Errorf("at vesting end: released = %d, want %d", got, s.TotalAmount)
	}
	got = AmountReleasedAt(s, s.VestingEnd+1_000_000)
	if got != s.TotalAmount {
		t.Errorf("after vesting end: released = %d, want %d", got, s.TotalAmount)
	}
}

func TestAmountReleasedAt_Monotonic(t *testing.T) {
	s := newSchedule(123_457, 10, 97)

	var prev uint64
	for ms := s.StartTime - 5000; ms <= s.VestingEnd+5000; ms += 777 {
		got := AmountReleasedAt(s, ms)
		if got < prev {
			t.Fatalf("released decreased from %d to %d at %d", prev, got, ms)
		}
		if got > s.TotalAmount {
			t.Fatalf("released %d exceeds total %d at %d", got, s.TotalAmount, ms)
		}
		prev = got
	}
}

func TestAmountReleasedAt_NilSchedule(t *testing.T) {
	if got := AmountReleasedAt(nil, 1_700_000_000_000); got != 0 {
		t.Errorf("nil schedule: released = %d, want 0", got)
	}
}

func TestClaimableAt(t *testing.T) {
	s := newSchedule(1000, 0, 100)

	s.Claimed = 300
	got := ClaimableAt(s, s.StartTime+50_000)
	if got != 200 {
		t.Errorf("claimable = %d, want 200", got)
	}

	// Claimed at or above released yields zero, never underflows.
	s.Claimed = 500
	if got := ClaimableAt(s, s.StartTime+50_000); got != 0 {
		t.Errorf("claimable = %d, want 0", got)
	}
	s.Claimed = 900
	if got := ClaimableAt(s, s.StartTime+50_000); got != 0 {
		t.Errorf("claimable = %d, want 0", got)
	}
}
