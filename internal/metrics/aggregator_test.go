package metrics

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pig-logistics/internal/domain"
	"pig-logistics/internal/storage/memory"
)

func setupStore() *memory.DatasetStore {
	return memory.NewDatasetStoreFrom(&domain.Dataset{
		Farms: []domain.Farm{
			{ID: "GRANJA_1", Lat: 41.95, Lon: 2.20},
			{ID: "GRANJA_2", Lat: 41.90, Lon: 2.30},
		},
		Activity: []domain.TripRecord{
			makeTrip(1, "T1", []string{"GRANJA_1"}, 100, 9000, 50, 200),
			makeTrip(1, "T2", []string{"GRANJA_2", "GRANJA_9"}, 80, 8000, 40, 160),
			{Day: 2, TruckID: domain.RestDayTruckID},
			makeTrip(3, "T1", []string{"GRANJA_9"}, 50, 5000, 10, 90),
		},
	})
}

func TestAggregator_ComputeDay(t *testing.T) {
	store := setupStore()
	agg := NewAggregator(store)

	m, err := agg.ComputeDay(context.Background(), 1)
	require.NoError(t, err)

	want := Aggregate([]domain.TripRecord{
		makeTrip(1, "T1", []string{"GRANJA_1"}, 100, 9000, 50, 200),
		makeTrip(1, "T2", []string{"GRANJA_2", "GRANJA_9"}, 80, 8000, 40, 160),
	}, 1)
	assert.Equal(t, want, m)
}

func TestAggregator_ComputeRangeCountsPlaceholders(t *testing.T) {
	store := setupStore()
	agg := NewAggregator(store)

	days, err := agg.ComputeRange(context.Background(), 1, 3)
	require.NoError(t, err)
	require.Len(t, days, 3)
	assert.Equal(t, 0, days[1].TripCount)
	assert.Equal(t, 1, agg.PlaceholderRows)
}

func TestAggregator_InvalidRange(t *testing.T) {
	agg := NewAggregator(setupStore())

	_, err := agg.ComputeRange(context.Background(), 5, 1)
	if !errors.Is(err, ErrInvalidRange) {
		t.Errorf("expected ErrInvalidRange, got %v", err)
	}
}

func TestAggregator_MissingFarmErrors(t *testing.T) {
	store := setupStore()
	agg := NewAggregator(store).WithFarmStore(store)

	_, err := agg.ComputeRange(context.Background(), 1, 3)
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"GRANJA_9": 2}, agg.MissingFarms)
	assert.Equal(t, map[int]map[string]int{1: {"GRANJA_9": 1}, 3: {"GRANJA_9": 1}}, agg.MissingByDay)
	assert.Equal(t, []string{"missing farm GRANJA_9 referenced by 2 trip stop(s)"}, agg.GetMissingFarmErrors())
}

func TestAggregator_NoMissingFarmErrorsWithoutFarmStore(t *testing.T) {
	agg := NewAggregator(setupStore())

	_, err := agg.ComputeDay(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, agg.GetMissingFarmErrors())
}

func TestAggregator_WithCapacity(t *testing.T) {
	agg := NewAggregator(setupStore()).WithCapacity(10000)

	m, err := agg.ComputeDay(context.Background(), 3)
	require.NoError(t, err)
	assert.InDelta(t, 50.0, m.TruckUtilizationPct, 1e-9)
}

// leakyTripStore returns every row regardless of the requested day.
type leakyTripStore struct {
	rows []domain.TripRecord
}

func (s leakyTripStore) GetByDay(context.Context, int) ([]domain.TripRecord, error) {
	return s.rows, nil
}

func (s leakyTripStore) GetAll(context.Context) ([]domain.TripRecord, error) {
	return s.rows, nil
}

func (s leakyTripStore) Days(context.Context) ([]int, error) {
	return []int{1, 2}, nil
}

func TestAggregator_ComputeDayIgnoresRowsOfOtherDays(t *testing.T) {
	store := leakyTripStore{rows: []domain.TripRecord{
		makeTrip(1, "T1", []string{"GRANJA_1"}, 100, 9000, 50, 200),
		makeTrip(2, "T1", []string{"GRANJA_2"}, 80, 8000, 40, 160),
		{Day: 2, TruckID: domain.RestDayTruckID},
	}}
	agg := NewAggregator(store)

	m, err := agg.ComputeDay(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, m.TripCount)
	assert.Equal(t, 100, m.PigsDelivered)
	assert.Equal(t, 0, agg.PlaceholderRows)
}
