package reporting

import (
	"fmt"
	"strings"
)

// RenderCSV renders the per-day rows as CSV string.
func RenderCSV(rows []DayRow) string {
	var sb strings.Builder

	// Header
	sb.WriteString("day,trip_count,pigs_delivered,revenue,total_cost,total_penalties,profit,")
	sb.WriteString("total_weight,total_distance,total_time,avg_trip_cost,avg_trip_time,truck_utilization_pct,")
	sb.WriteString("facility_utilization_pct,facility_tier,rest_day\n")

	// Rows
	for _, r := range rows {
		m := r.Metrics
		sb.WriteString(fmt.Sprintf("%d,%d,%d,%.6f,%.6f,%.6f,%.6f,%.6f,%.6f,%.6f,%.6f,%.6f,%.6f,%.6f,%s,%t\n",
			m.Day,
			m.TripCount,
			m.PigsDelivered,
			m.Revenue,
			m.TotalCost,
			m.TotalPenalties,
			m.Profit,
			m.TotalWeight,
			m.TotalDistance,
			m.TotalTime,
			m.AvgTripCost,
			m.AvgTripTime,
			m.TruckUtilizationPct,
			r.Facility.UtilizationPct,
			r.Facility.Tier,
			r.RestDay,
		))
	}

	return sb.String()
}
