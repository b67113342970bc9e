package farms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pig-logistics/internal/classify"
	"pig-logistics/internal/domain"
)

func snapshots() map[string]domain.FarmSnapshot {
	return map[string]domain.FarmSnapshot{
		"F1": {ID: "F1", PigsReady: 30},
		"F2": {ID: "F2", PigsReady: 75},
		"F9": {ID: "F9", PigsReady: 140},
	}
}

func TestResolveStatuses_ActiveAndInactive(t *testing.T) {
	trips := []domain.TripRecord{
		{Day: 1, TruckID: "T1", Stops: []string{"F1"}},
		{Day: 1, TruckID: "T2", Stops: []string{"F2", "F1"}},
	}

	got := ResolveStatuses(snapshots(), trips)
	require.Len(t, got, 3)

	f1 := got["F1"]
	assert.True(t, f1.Active)
	assert.Equal(t, domain.TierLow, f1.Tier)
	assert.Equal(t, classify.ColorLow, f1.Color)
	assert.Equal(t, ActiveMarkerSize, f1.MarkerSize)
	assert.True(t, f1.ShowDetail)

	assert.Equal(t, classify.ColorMedium, got["F2"].Color)
	assert.Equal(t, "Mitjà (51-100)", got["F2"].Label)
}

func TestResolveStatuses_UnvisitedFarmIsInactive(t *testing.T) {
	trips := []domain.TripRecord{{Day: 1, TruckID: "T1", Stops: []string{"F1", "F2"}}}

	f9 := ResolveStatuses(snapshots(), trips)["F9"]

	assert.False(t, f9.Active)
	assert.Equal(t, domain.TierHigh, f9.Tier, "tier is still computed")
	assert.Equal(t, classify.ColorInactive, f9.Color)
	assert.Equal(t, InactiveMarkerSize, f9.MarkerSize)
	assert.Empty(t, f9.Label)
	assert.False(t, f9.ShowDetail)
}

func TestResolveStatuses_PlaceholderNeverActivates(t *testing.T) {
	trips := []domain.TripRecord{{Day: 6, TruckID: domain.RestDayTruckID, Stops: []string{"F1"}}}

	got := ResolveStatuses(snapshots(), trips)
	for id, d := range got {
		assert.False(t, d.Active, "farm %s", id)
	}
}

func TestResolveStatuses_Empty(t *testing.T) {
	assert.Empty(t, ResolveStatuses(nil, nil))
	assert.Len(t, ResolveStatuses(snapshots(), nil), 3)
}

func TestResolveStatuses_Deterministic(t *testing.T) {
	trips := []domain.TripRecord{{Day: 1, TruckID: "T1", Stops: []string{"F2"}}}

	first := ResolveStatuses(snapshots(), trips)
	for run := 0; run < 5; run++ {
		assert.Equal(t, first, ResolveStatuses(snapshots(), trips))
	}
}
