package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pig-logistics/internal/domain"
)

func TestUtilizationByTruckType(t *testing.T) {
	small := makeTrip(1, "T3", nil, 50, 9000, 0, 0)
	small.TruckType = domain.TruckTypeSmall
	unknown := makeTrip(1, "T4", nil, 10, 1000, 0, 0)
	unknown.TruckType = ""

	trips := []domain.TripRecord{
		makeTrip(1, "T1", nil, 100, 18000, 0, 0),
		small,
		unknown,
		{Day: 1, TruckID: domain.RestDayTruckID},
	}

	got := UtilizationByTruckType(trips, domain.TruckCapacities, domain.TruckCapacityKg)

	require.Len(t, got.ByType, 3)
	// Sorted by truck type: "", "GRAN", "PETIT"
	assert.Equal(t, "", got.ByType[0].TruckType)
	assert.InDelta(t, 5.0, got.ByType[0].UtilizationPct, 1e-9)
	assert.Equal(t, domain.TruckTypeLarge, got.ByType[1].TruckType)
	assert.InDelta(t, 90.0, got.ByType[1].UtilizationPct, 1e-9)
	assert.Equal(t, domain.TruckTypeSmall, got.ByType[2].TruckType)
	assert.InDelta(t, 90.0, got.ByType[2].UtilizationPct, 1e-9)

	assert.Equal(t, 50000.0, got.TotalCapacity)
	assert.InDelta(t, 56.0, got.UtilizationPct, 1e-9)
}

func TestUtilizationByTruckType_Empty(t *testing.T) {
	got := UtilizationByTruckType(nil, domain.TruckCapacities, domain.TruckCapacityKg)
	assert.Empty(t, got.ByType)
	assert.Equal(t, 0.0, got.UtilizationPct)
}
