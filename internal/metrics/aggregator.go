package metrics

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"pig-logistics/internal/domain"
	"pig-logistics/internal/observability"
	"pig-logistics/internal/storage"
)

// ErrInvalidRange is returned when the last day precedes the first.
var ErrInvalidRange = errors.New("invalid day range")

// Aggregator computes daily metrics from a trip store.
type Aggregator struct {
	tripStore storage.TripStore
	farmStore storage.FarmStore
	capacity  float64

	// MissingFarms tracks stop references to unknown farms (for data quality reporting).
	// Key: farm_id, Value: count of trips referencing it.
	MissingFarms map[string]int

	// MissingByDay breaks MissingFarms down per day.
	MissingByDay map[int]map[string]int

	// PlaceholderRows counts rest and no-activity rows skipped while aggregating.
	PlaceholderRows int
}

// NewAggregator creates a new metrics aggregator using the fixed truck capacity.
func NewAggregator(tripStore storage.TripStore) *Aggregator {
	return &Aggregator{
		tripStore:    tripStore,
		capacity:     domain.TruckCapacityKg,
		MissingFarms: make(map[string]int),
		MissingByDay: make(map[int]map[string]int),
	}
}

// WithCapacity overrides the per-trip capacity used for utilization.
func (a *Aggregator) WithCapacity(kg float64) *Aggregator {
	a.capacity = kg
	return a
}

// WithFarmStore enables stop reference checks against farmStore.
func (a *Aggregator) WithFarmStore(farmStore storage.FarmStore) *Aggregator {
	a.farmStore = farmStore
	return a
}

// ComputeDay loads the rows of day and aggregates them.
func (a *Aggregator) ComputeDay(ctx context.Context, day int) (domain.DailyMetrics, error) {
	rows, err := a.tripStore.GetByDay(ctx, day)
	if err != nil {
		return domain.DailyMetrics{}, fmt.Errorf("load trips for day %d: %w", day, err)
	}

	for _, t := range rows {
		if t.Day == day && t.IsPlaceholder() {
			a.PlaceholderRows++
		}
	}
	trips := DayTrips(rows, day)

	if err := a.checkStops(ctx, day, trips); err != nil {
		return domain.DailyMetrics{}, err
	}

	observability.RecordDayAggregated()
	return computeFromTrips(day, trips, a.capacity), nil
}

// ComputeRange aggregates every day in [firstDay, lastDay].
func (a *Aggregator) ComputeRange(ctx context.Context, firstDay, lastDay int) ([]domain.DailyMetrics, error) {
	if lastDay < firstDay {
		return nil, ErrInvalidRange
	}

	result := make([]domain.DailyMetrics, 0, lastDay-firstDay+1)
	for day := firstDay; day <= lastDay; day++ {
		m, err := a.ComputeDay(ctx, day)
		if err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, nil
}

// checkStops records stops whose farm is unknown instead of silently skipping them.
func (a *Aggregator) checkStops(ctx context.Context, day int, trips []domain.TripRecord) error {
	if a.farmStore == nil {
		return nil
	}
	for _, t := range trips {
		for _, stop := range t.Stops {
			_, err := a.farmStore.GetFarm(ctx, stop)
			if err == nil {
				continue
			}
			if errors.Is(err, storage.ErrNotFound) {
				a.MissingFarms[stop]++
				if a.MissingByDay[day] == nil {
					a.MissingByDay[day] = make(map[string]int)
				}
				a.MissingByDay[day][stop]++
				observability.RecordMissingFarm(stop)
				continue
			}
			return fmt.Errorf("lookup farm %s: %w", stop, err)
		}
	}
	return nil
}

// GetMissingFarmErrors returns data quality errors for unknown stop references.
// Returns slice of error messages sorted by farm_id for deterministic output.
func (a *Aggregator) GetMissingFarmErrors() []string {
	if len(a.MissingFarms) == 0 {
		return nil
	}

	keys := make([]string, 0, len(a.MissingFarms))
	for k := range a.MissingFarms {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	msgs := make([]string, len(keys))
	for i, farmID := range keys {
		msgs[i] = fmt.Sprintf("missing farm %s referenced by %d trip stop(s)", farmID, a.MissingFarms[farmID])
	}
	return msgs
}
