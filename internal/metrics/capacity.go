package metrics

import (
	"sort"

	"pig-logistics/internal/domain"
)

// TypeUtilization is the load figure of one truck type on one day.
type TypeUtilization struct {
	TruckType      string  `json:"truck_type"`
	Trips          int     `json:"trips"`
	Weight         float64 `json:"weight"`
	CapacityKg     float64 `json:"capacity_kg"`
	UtilizationPct float64 `json:"utilization_pct"`
}

// CapacityBreakdown reports utilization against each trip's own truck capacity.
// It sits beside DailyMetrics.TruckUtilizationPct, which always assumes the
// fixed capacity.
type CapacityBreakdown struct {
	ByType         []TypeUtilization `json:"by_type"`
	TotalCapacity  float64           `json:"total_capacity"`
	UtilizationPct float64           `json:"utilization_pct"`
}

// UtilizationByTruckType groups day trips by truck type and computes utilization
// with the capacity of each type. Unknown or empty types use fallbackKg.
func UtilizationByTruckType(dayTrips []domain.TripRecord, capacities map[string]float64, fallbackKg float64) CapacityBreakdown {
	groups := make(map[string]*TypeUtilization)
	var totalWeight, totalCapacity float64

	for _, t := range dayTrips {
		if t.IsPlaceholder() {
			continue
		}
		capKg, ok := capacities[t.TruckType]
		if !ok || capKg <= 0 {
			capKg = fallbackKg
		}

		g, ok := groups[t.TruckType]
		if !ok {
			g = &TypeUtilization{TruckType: t.TruckType}
			groups[t.TruckType] = g
		}
		g.Trips++
		g.Weight += t.WeightTotal
		g.CapacityKg += capKg

		totalWeight += t.WeightTotal
		totalCapacity += capKg
	}

	result := CapacityBreakdown{
		TotalCapacity:  totalCapacity,
		UtilizationPct: computeUtilization(totalWeight, totalCapacity),
	}
	for _, g := range groups {
		g.UtilizationPct = computeUtilization(g.Weight, g.CapacityKg)
		result.ByType = append(result.ByType, *g)
	}
	sort.Slice(result.ByType, func(i, j int) bool {
		return result.ByType[i].TruckType < result.ByType[j].TruckType
	})
	return result
}
