package memory

import (
	"context"
	"sync"

	"solforge/internal/domain"
	"solforge/internal/storage"
)

// ScheduleStore is an in-memory implementation of storage.ScheduleStore.
type ScheduleStore struct {
	mu    sync.RWMutex
	data  map[string]*domain.VestingSchedule // keyed by schedule id
	order []string                           // ids in insertion order
}

// NewScheduleStore creates a new in-memory schedule store.
func NewScheduleStore() *ScheduleStore {
	return &ScheduleStore{
		data: make(map[string]*domain.VestingSchedule),
	}
}

// Put inserts a new schedule. Returns ErrDuplicateKey if the id exists.
func (s *ScheduleStore) Put(_ context.Context, sched *domain.VestingSchedule) error {
	if sched == nil || sched.ID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[sched.ID]; exists {
		return storage.ErrDuplicateKey
	}

	// Store a copy to prevent external mutation
	schedCopy := *sched
	s.data[sched.ID] = &schedCopy
	s.order = append(s.order, sched.ID)
	return nil
}

// GetByID retrieves a schedule by its id. Returns ErrNotFound if not exists.
func (s *ScheduleStore) GetByID(_ context.Context, id string) (*domain.VestingSchedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sched, exists := s.data[id]
	if !exists {
		return nil, storage.ErrNotFound
	}

	// Return a copy
	schedCopy := *sched
	return &schedCopy, nil
}

// GetByBeneficiary retrieves all schedules for a beneficiary in insertion order.
func (s *ScheduleStore) GetByBeneficiary(_ context.Context, beneficiary string) ([]*domain.VestingSchedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.VestingSchedule
	for _, id := range s.order {
		sched := s.data[id]
		if sched.Beneficiary == beneficiary {
			schedCopy := *sched
			result = append(result, &schedCopy)
		}
	}

	return result, nil
}

// Verify interface compliance at compile time.
var _ storage.ScheduleStore = (*ScheduleStore)(nil)
