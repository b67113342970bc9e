package metrics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"pig-logistics/internal/domain"
)

// Helper to create a trip record with the fields the aggregation reads.
func makeTrip(day int, truckID string, stops []string, pigs int, weight, cost, revenue float64) domain.TripRecord {
	return domain.TripRecord{
		Day:         day,
		TruckID:     truckID,
		TruckType:   domain.TruckTypeLarge,
		Stops:       stops,
		PigsTotal:   pigs,
		WeightTotal: weight,
		TripCost:    cost,
		Revenue:     revenue,
	}
}

func TestAggregate_SingleTripScenario(t *testing.T) {
	trips := []domain.TripRecord{
		makeTrip(1, "T1", []string{"F1"}, 100, 9000, 50, 200),
	}

	m := Aggregate(trips, 1)

	assert.Equal(t, 150.0, m.Profit)
	assert.Equal(t, 100, m.PigsDelivered)
	assert.Equal(t, 50.0, m.TotalCost)
	assert.Equal(t, 9000.0, m.TotalWeight)
	assert.Equal(t, 1, m.TripCount)
	assert.Equal(t, 50.0, m.AvgTripCost)
	assert.InDelta(t, 45.0, m.TruckUtilizationPct, 1e-9)
}

func TestAggregate_RestDayIsAllZero(t *testing.T) {
	trips := []domain.TripRecord{
		{Day: 6, TruckID: domain.RestDayTruckID},
		{Day: 7, TruckID: domain.NoActivityTruckID},
		makeTrip(1, "T1", []string{"F1"}, 100, 9000, 50, 200),
	}

	for _, day := range []int{6, 7, 12} {
		m := Aggregate(trips, day)
		if m != (domain.DailyMetrics{Day: day}) {
			t.Errorf("day %d: expected zero metrics, got %+v", day, m)
		}
	}
}

func TestAggregate_EmptyInput(t *testing.T) {
	m := Aggregate(nil, 1)
	assert.Equal(t, domain.DailyMetrics{Day: 1}, m)
	assert.False(t, math.IsNaN(m.AvgTripTime))
}

func TestAggregate_ExcludesPlaceholdersOnActiveDay(t *testing.T) {
	trips := []domain.TripRecord{
		makeTrip(2, "T1", []string{"F1"}, 100, 10000, 100, 500),
		{Day: 2, TruckID: domain.NoActivityTruckID, Revenue: 999},
		makeTrip(2, "T2", []string{"F2", "F3"}, 150, 16000, 200, 900),
	}

	m := Aggregate(trips, 2)

	assert.Equal(t, 2, m.TripCount)
	assert.Equal(t, 250, m.PigsDelivered)
	assert.Equal(t, 1400.0, m.Revenue)
	assert.Equal(t, 1100.0, m.Profit)
	assert.Equal(t, 150.0, m.AvgTripCost)
	assert.InDelta(t, 65.0, m.TruckUtilizationPct, 1e-9)
}

func TestAggregate_SumsAllFields(t *testing.T) {
	a := makeTrip(3, "T1", []string{"F1"}, 60, 7000, 80, 300)
	a.Penalties = 12.5
	a.TotalDistance = 42
	a.TotalTime = 2.5
	b := makeTrip(3, "T2", []string{"F2"}, 40, 4000, 20, 100)
	b.Penalties = 7.5
	b.TotalDistance = 18
	b.TotalTime = 1.5

	m := Aggregate([]domain.TripRecord{a, b}, 3)

	assert.Equal(t, 20.0, m.TotalPenalties)
	assert.Equal(t, 60.0, m.TotalDistance)
	assert.Equal(t, 4.0, m.TotalTime)
	assert.Equal(t, 2.0, m.AvgTripTime)
}

func TestAggregate_Idempotent(t *testing.T) {
	trips := []domain.TripRecord{
		makeTrip(1, "T1", []string{"F1"}, 97, 10530.3, 33.1, 1601.7),
		makeTrip(1, "T2", []string{"F2"}, 88, 9830.9, 21.7, 1540.2),
	}

	first := Aggregate(trips, 1)
	for run := 0; run < 5; run++ {
		if got := Aggregate(trips, 1); got != first {
			t.Fatalf("run %d: result changed: %+v vs %+v", run, got, first)
		}
	}
}

func TestAggregateWithCapacity_ZeroCapacity(t *testing.T) {
	trips := []domain.TripRecord{makeTrip(1, "T1", nil, 10, 1000, 1, 2)}

	m := AggregateWithCapacity(trips, 1, 0)
	assert.Equal(t, 0.0, m.TruckUtilizationPct)
}

func TestAggregateRange(t *testing.T) {
	trips := []domain.TripRecord{
		makeTrip(1, "T1", nil, 10, 1000, 1, 2),
		makeTrip(3, "T1", nil, 20, 2000, 1, 2),
	}

	days := AggregateRange(trips, 1, 3, domain.TruckCapacityKg)
	if len(days) != 3 {
		t.Fatalf("expected 3 days, got %d", len(days))
	}
	assert.Equal(t, 10, days[0].PigsDelivered)
	assert.Equal(t, 0, days[1].TripCount)
	assert.Equal(t, 20, days[2].PigsDelivered)

	assert.Nil(t, AggregateRange(trips, 3, 1, domain.TruckCapacityKg))
}

func TestDayTrips_PreservesOrder(t *testing.T) {
	trips := []domain.TripRecord{
		makeTrip(1, "T3", nil, 0, 0, 0, 0),
		makeTrip(2, "T1", nil, 0, 0, 0, 0),
		makeTrip(1, "T1", nil, 0, 0, 0, 0),
		{Day: 1, TruckID: domain.RestDayTruckID},
	}

	got := DayTrips(trips, 1)
	if len(got) != 2 {
		t.Fatalf("expected 2 trips, got %d", len(got))
	}
	assert.Equal(t, "T3", got[0].TruckID)
	assert.Equal(t, "T1", got[1].TruckID)
}

func TestComputeAverage(t *testing.T) {
	assert.Equal(t, 0.0, computeAverage(10, 0))
	assert.Equal(t, 2.5, computeAverage(10, 4))
}
