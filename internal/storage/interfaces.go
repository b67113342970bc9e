package storage

import (
	"context"

	"pig-logistics/internal/domain"
)

// DatasetSource loads a complete simulation dataset.
type DatasetSource interface {
	// Name identifies the backend in logs and metrics ("file", "s3", "postgres", ...).
	Name() string

	// Load returns the dataset. Missing sections come back as empty slices.
	Load(ctx context.Context) (*domain.Dataset, error)
}

// DatasetWriter replaces the stored dataset with ds.
type DatasetWriter interface {
	// Save validates and stores ds. Returns ErrDuplicateKey on repeated farm ids
	// and ErrInvalidInput on empty ids.
	Save(ctx context.Context, ds *domain.Dataset) error
}

// TripStore provides day-scoped access to the activity log.
type TripStore interface {
	// GetByDay returns all rows of a day, placeholders included, in dataset order.
	GetByDay(ctx context.Context, day int) ([]domain.TripRecord, error)

	// GetAll returns every row in dataset order.
	GetAll(ctx context.Context) ([]domain.TripRecord, error)

	// Days returns the distinct days present, ascending.
	Days(ctx context.Context) ([]int, error)
}

// FarmStore provides access to farm locations.
type FarmStore interface {
	// GetFarm retrieves a farm. Returns ErrNotFound if not exists.
	GetFarm(ctx context.Context, farmID string) (*domain.Farm, error)

	// ListFarms returns all farms in dataset order.
	ListFarms(ctx context.Context) ([]domain.Farm, error)
}

// ValidateDataset checks farm ids for emptiness and duplicates.
func ValidateDataset(ds *domain.Dataset) error {
	if ds == nil {
		return ErrInvalidInput
	}
	seen := make(map[string]struct{}, len(ds.Farms))
	for _, f := range ds.Farms {
		if f.ID == "" {
			return ErrInvalidInput
		}
		if _, ok := seen[f.ID]; ok {
			return ErrDuplicateKey
		}
		seen[f.ID] = struct{}{}
	}
	return nil
}
