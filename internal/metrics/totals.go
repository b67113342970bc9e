package metrics

import "pig-logistics/internal/domain"

// Totals sums per-day metrics into period totals.
// AvgUtilization is the mean utilization of days with at least one trip.
func Totals(days []domain.DailyMetrics) domain.PeriodTotals {
	var t domain.PeriodTotals
	if len(days) == 0 {
		return t
	}

	t.FirstDay = days[0].Day
	t.LastDay = days[0].Day
	utilizationSum := 0.0

	for _, d := range days {
		if d.Day < t.FirstDay {
			t.FirstDay = d.Day
		}
		if d.Day > t.LastDay {
			t.LastDay = d.Day
		}
		if d.TripCount > 0 {
			t.ActiveDays++
			utilizationSum += d.TruckUtilizationPct
		}
		t.TripCount += d.TripCount
		t.PigsDelivered += d.PigsDelivered
		t.Revenue += d.Revenue
		t.TransportCost += d.TotalCost
		t.Penalties += d.TotalPenalties
		t.Profit += d.Profit
		t.TotalWeight += d.TotalWeight
		t.TotalDistance += d.TotalDistance
	}

	t.AvgUtilization = computeAverage(utilizationSum, t.ActiveDays)
	return t
}
