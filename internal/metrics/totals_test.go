package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pig-logistics/internal/domain"
)

func TestTotals(t *testing.T) {
	days := []domain.DailyMetrics{
		{Day: 1, TripCount: 2, PigsDelivered: 200, Revenue: 1000, TotalCost: 100, Profit: 900, TruckUtilizationPct: 80},
		{Day: 2},
		{Day: 3, TripCount: 1, PigsDelivered: 90, Revenue: 400, TotalCost: 50, TotalPenalties: 10, Profit: 350, TruckUtilizationPct: 40},
	}

	got := Totals(days)

	assert.Equal(t, 1, got.FirstDay)
	assert.Equal(t, 3, got.LastDay)
	assert.Equal(t, 2, got.ActiveDays)
	assert.Equal(t, 3, got.TripCount)
	assert.Equal(t, 290, got.PigsDelivered)
	assert.Equal(t, 1400.0, got.Revenue)
	assert.Equal(t, 150.0, got.TransportCost)
	assert.Equal(t, 10.0, got.Penalties)
	assert.Equal(t, 1250.0, got.Profit)
	assert.Equal(t, 60.0, got.AvgUtilization)
}

func TestTotals_Empty(t *testing.T) {
	assert.Equal(t, domain.PeriodTotals{}, Totals(nil))
}
