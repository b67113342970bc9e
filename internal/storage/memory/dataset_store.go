package memory

import (
	"context"
	"sync"

	"pig-logistics/internal/domain"
	"pig-logistics/internal/storage"
)

// DatasetStore is an in-memory implementation of storage.DatasetSource,
// storage.DatasetWriter, storage.TripStore and storage.FarmStore.
type DatasetStore struct {
	mu    sync.RWMutex
	ds    *domain.Dataset
	farms map[string]int // farm_id -> index in ds.Farms
}

// Compile-time interface checks
var (
	_ storage.DatasetSource = (*DatasetStore)(nil)
	_ storage.DatasetWriter = (*DatasetStore)(nil)
	_ storage.TripStore     = (*DatasetStore)(nil)
	_ storage.FarmStore     = (*DatasetStore)(nil)
)

// NewDatasetStore creates an empty in-memory dataset store.
func NewDatasetStore() *DatasetStore {
	return &DatasetStore{
		ds:    &domain.Dataset{},
		farms: make(map[string]int),
	}
}

// NewDatasetStoreFrom creates a store holding a copy of ds.
// Farm id validation is skipped; later duplicates shadow earlier ones on lookup.
func NewDatasetStoreFrom(ds *domain.Dataset) *DatasetStore {
	s := NewDatasetStore()
	if ds != nil {
		s.replace(ds.Clone())
	}
	return s
}

// Name returns the backend name.
func (s *DatasetStore) Name() string {
	return "memory"
}

// Load returns a copy of the stored dataset.
func (s *DatasetStore) Load(_ context.Context) (*domain.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.ds.Clone(), nil
}

// Save replaces the stored dataset.
func (s *DatasetStore) Save(_ context.Context, ds *domain.Dataset) error {
	if err := storage.ValidateDataset(ds); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.replace(ds.Clone())
	return nil
}

// replace must be called with the write lock held or before the store is shared.
func (s *DatasetStore) replace(ds *domain.Dataset) {
	s.ds = ds
	s.farms = make(map[string]int, len(ds.Farms))
	for i, f := range ds.Farms {
		s.farms[f.ID] = i
	}
}

// GetByDay returns all rows of a day in dataset order.
func (s *DatasetStore) GetByDay(_ context.Context, day int) ([]domain.TripRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.TripRecord
	for _, t := range s.ds.Activity {
		if t.Day == day {
			result = append(result, t.Clone())
		}
	}
	return result, nil
}

// GetAll returns every row in dataset order.
func (s *DatasetStore) GetAll(_ context.Context) ([]domain.TripRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.TripRecord, len(s.ds.Activity))
	for i, t := range s.ds.Activity {
		result[i] = t.Clone()
	}
	return result, nil
}

// Days returns the distinct days present, ascending.
func (s *DatasetStore) Days(_ context.Context) ([]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.ds.Days(), nil
}

// GetFarm retrieves a farm. Returns ErrNotFound if not exists.
func (s *DatasetStore) GetFarm(_ context.Context, farmID string) (*domain.Farm, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.farms[farmID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	f := s.ds.Farms[i]
	return &f, nil
}

// ListFarms returns all farms in dataset order.
func (s *DatasetStore) ListFarms(_ context.Context) ([]domain.Farm, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]domain.Farm(nil), s.ds.Farms...), nil
}
