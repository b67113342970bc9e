package metrics

import "pig-logistics/internal/domain"

// DayTrips returns the non-placeholder trips of day, preserving input order.
func DayTrips(trips []domain.TripRecord, day int) []domain.TripRecord {
	var result []domain.TripRecord
	for _, t := range trips {
		if t.Day == day && !t.IsPlaceholder() {
			result = append(result, t)
		}
	}
	return result
}

// Aggregate computes the metrics of one day using the fixed per-trip capacity.
func Aggregate(trips []domain.TripRecord, day int) domain.DailyMetrics {
	return AggregateWithCapacity(trips, day, domain.TruckCapacityKg)
}

// AggregateWithCapacity computes the metrics of one day.
// Placeholder rows and rows of other days are ignored.
func AggregateWithCapacity(trips []domain.TripRecord, day int, truckCapacityKg float64) domain.DailyMetrics {
	return computeFromTrips(day, DayTrips(trips, day), truckCapacityKg)
}

// AggregateRange computes metrics for every day in [firstDay, lastDay].
func AggregateRange(trips []domain.TripRecord, firstDay, lastDay int, truckCapacityKg float64) []domain.DailyMetrics {
	if lastDay < firstDay {
		return nil
	}
	result := make([]domain.DailyMetrics, 0, lastDay-firstDay+1)
	for day := firstDay; day <= lastDay; day++ {
		result = append(result, AggregateWithCapacity(trips, day, truckCapacityKg))
	}
	return result
}

// computeFromTrips sums pre-filtered trips of a single day.
// Profit is accumulated per record as revenue minus trip cost.
func computeFromTrips(day int, trips []domain.TripRecord, truckCapacityKg float64) domain.DailyMetrics {
	m := domain.DailyMetrics{Day: day, TripCount: len(trips)}

	for _, t := range trips {
		m.Profit += t.Profit()
		m.Revenue += t.Revenue
		m.PigsDelivered += t.PigsTotal
		m.TotalCost += t.TripCost
		m.TotalPenalties += t.Penalties
		m.TotalWeight += t.WeightTotal
		m.TotalDistance += t.TotalDistance
		m.TotalTime += t.TotalTime
	}

	m.AvgTripCost = computeAverage(m.TotalCost, m.TripCount)
	m.AvgTripTime = computeAverage(m.TotalTime, m.TripCount)
	m.TruckUtilizationPct = computeUtilization(m.TotalWeight, float64(m.TripCount)*truckCapacityKg)

	return m
}

// computeAverage returns total / n, or 0 when n is 0.
func computeAverage(total float64, n int) float64 {
	if n == 0 {
		return 0
	}
	return total / float64(n)
}

// computeUtilization returns weight as a percentage of the available capacity.
// Returns 0 when no capacity is available.
func computeUtilization(weight, capacity float64) float64 {
	if capacity <= 0 {
		return 0
	}
	return weight / capacity * 100
}
