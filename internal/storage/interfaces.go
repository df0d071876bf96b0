package storage

import (
	"context"

	"solforge/internal/domain"
)

// ScheduleStore is the process-wide vesting schedule registry. Schedules are
// owned by the store for their lifetime and are never physically deleted.
type ScheduleStore interface {
	// Put inserts a new schedule. The id-uniqueness check and the insert are
	// one atomic step. Returns ErrDuplicateKey if the id exists.
	Put(ctx context.Context, s *domain.VestingSchedule) error

	// GetByID retrieves a schedule by its id. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, id string) (*domain.VestingSchedule, error)

	// GetByBeneficiary retrieves all schedules for a beneficiary in insertion
	// order. Each call returns a fresh, consistent snapshot.
	GetByBeneficiary(ctx context.Context, beneficiary string) ([]*domain.VestingSchedule, error)
}
