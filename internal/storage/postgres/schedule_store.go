package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"solforge/internal/domain"
	"solforge/internal/storage"
)

// ScheduleStore implements storage.ScheduleStore using PostgreSQL.
// Insertion order is preserved via the created_seq BIGSERIAL column.
type ScheduleStore struct {
	pool *Pool
}

// NewScheduleStore creates a new ScheduleStore.
func NewScheduleStore(pool *Pool) *ScheduleStore {
	return &ScheduleStore{pool: pool}
}

// Compile-time interface check.
var _ storage.ScheduleStore = (*ScheduleStore)(nil)

// Put inserts a new schedule. Returns ErrDuplicateKey if the id exists.
// The primary-key constraint makes check-then-insert a single atomic step.
func (s *ScheduleStore) Put(ctx context.Context, sched *domain.VestingSchedule) error {
	if sched == nil || sched.ID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO vesting_schedules (
			id, mint_address, beneficiary, owner, total_amount,
			start_time, cliff_end, vesting_end, amount_per_second,
			claimed, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := s.pool.Exec(ctx, query,
		sched.ID,
		sched.MintAddress,
		sched.Beneficiary,
		sched.Owner,
		int64(sched.TotalAmount),
		sched.StartTime,
		sched.CliffEnd,
		sched.VestingEnd,
		sched.AmountPerSecond,
		int64(sched.Claimed),
		string(sched.Status),
		sched.CreatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert vesting schedule: %w", err)
	}
	return nil
}

// GetByID retrieves a schedule by its id. Returns ErrNotFound if not exists.
func (s *ScheduleStore) GetByID(ctx context.Context, id string) (*domain.VestingSchedule, error) {
	query := `
		SELECT id, mint_address, beneficiary, owner, total_amount,
		       start_time, cliff_end, vesting_end, amount_per_second,
		       claimed, status, created_at
		FROM vesting_schedules
		WHERE id = $1
	`

	row := s.pool.QueryRow(ctx, query, id)
	sched, err := scanSchedule(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get vesting schedule by id: %w", err)
	}
	return sched, nil
}

// GetByBeneficiary retrieves all schedules for a beneficiary in insertion order.
func (s *ScheduleStore) GetByBeneficiary(ctx context.Context, beneficiary string) ([]*domain.VestingSchedule, error) {
	query := `
		SELECT id, mint_address, beneficiary, owner, total_amount,
		       start_time, cliff_end, vesting_end, amount_per_second,
		       claimed, status, created_at
		FROM vesting_schedules
		WHERE beneficiary = $1
		ORDER BY created_seq ASC
	`

	rows, err := s.pool.Query(ctx, query, beneficiary)
	if err != nil {
		return nil, fmt.Errorf("get vesting schedules by beneficiary: %w", err)
	}
	defer rows.Close()

	var result []*domain.VestingSchedule
	for rows.Next() {
		sched, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vesting schedule: %w", err)
		}
		result = append(result, sched)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate vesting schedules: %w", err)
	}

	return result, nil
}

// scanSchedule scans one row into a VestingSchedule.
func scanSchedule(row pgx.Row) (*domain.VestingSchedule, error) {
	var (
		sched       domain.VestingSchedule
		totalAmount int64
		claimed     int64
		status      string
	)

	err := row.Scan(
		&sched.ID,
		&sched.MintAddress,
		&sched.Beneficiary,
		&sched.Owner,
		&totalAmount,
		&sched.StartTime,
		&sched.CliffEnd,
		&sched.VestingEnd,
		&sched.AmountPerSecond,
		&claimed,
		&status,
		&sched.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	sched.TotalAmount = uint64(totalAmount)
	sched.Claimed = uint64(claimed)
	sched.Status = domain.ScheduleStatus(status)
	return &sched, nil
}
