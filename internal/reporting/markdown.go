package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Pig Logistics Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Days: %d-%d | Facility: %s (%s) | Truck capacity: %.0f kg\n\n",
		r.FirstDay, r.LastDay, r.Facility.Name, r.Facility.ID, r.CapacityKg))

	// Period totals
	t := r.Totals
	sb.WriteString("## Period Totals\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Active Days | %d |\n", t.ActiveDays))
	sb.WriteString(fmt.Sprintf("| Trips | %d |\n", t.TripCount))
	sb.WriteString(fmt.Sprintf("| Pigs Delivered | %d |\n", t.PigsDelivered))
	sb.WriteString(fmt.Sprintf("| Revenue (€) | %.2f |\n", t.Revenue))
	sb.WriteString(fmt.Sprintf("| Transport Cost (€) | %.2f |\n", t.TransportCost))
	sb.WriteString(fmt.Sprintf("| Penalties (€) | %.2f |\n", t.Penalties))
	sb.WriteString(fmt.Sprintf("| Profit (€) | %.2f |\n", t.Profit))
	sb.WriteString(fmt.Sprintf("| Live Weight (kg) | %.1f |\n", t.TotalWeight))
	sb.WriteString(fmt.Sprintf("| Distance (km) | %.1f |\n", t.TotalDistance))
	sb.WriteString(fmt.Sprintf("| Avg Utilization (%%) | %.1f |\n", t.AvgUtilization))
	sb.WriteString("\n")

	// Daily metrics
	sb.WriteString("## Daily Metrics\n\n")
	if len(r.Days) > 0 {
		sb.WriteString("| Day | Trips | Pigs | Profit | Cost | Penalties | Avg Cost | Avg Time (h) | Utilization % | Facility |\n")
		sb.WriteString("|-----|-------|------|--------|------|-----------|----------|--------------|---------------|----------|\n")
		for _, d := range r.Days {
			m := d.Metrics
			facility := d.Facility.StatusLabel
			if d.RestDay {
				facility = "Dia de descans"
			}
			sb.WriteString(fmt.Sprintf("| %d | %d | %d | %.2f | %.2f | %.2f | %.1f | %.1f | %.1f | %s |\n",
				m.Day, m.TripCount, m.PigsDelivered, m.Profit, m.TotalCost, m.TotalPenalties,
				m.AvgTripCost, m.AvgTripTime, m.TruckUtilizationPct, facility))
		}
	} else {
		sb.WriteString("No days in range.\n")
	}
	sb.WriteString("\n")

	// Facility load
	sb.WriteString("## Facility Load\n\n")
	if len(r.Days) > 0 {
		sb.WriteString("| Day | Processed | Live (t) | Carcass (t) | Avg Live (kg) | Avg Carcass (kg) | Utilization % |\n")
		sb.WriteString("|-----|-----------|----------|-------------|---------------|------------------|---------------|\n")
		for _, d := range r.Days {
			f := d.Facility
			sb.WriteString(fmt.Sprintf("| %d | %d | %.1f | %.1f | %.1f | %.1f | %.1f |\n",
				d.Metrics.Day, f.Processed, f.LiveWeightKg/1000, f.CarcassWeightKg/1000,
				f.AvgLiveWeightKg, f.AvgCarcassWeightKg, f.UtilizationPct))
		}
		sb.WriteString("\n")
	}

	// Data Quality
	q := r.DataQuality
	sb.WriteString("## Data Quality\n\n")
	sb.WriteString(fmt.Sprintf("Placeholder rows skipped: %d\n\n", q.PlaceholderRows))
	if q.Clean() {
		sb.WriteString("**No dropped route stops.**\n\n")
	} else {
		sb.WriteString("### Dropped Route Stops\n\n")
		sb.WriteString("| Day | Farm | Stops |\n")
		sb.WriteString("|-----|------|-------|\n")
		for _, row := range q.DroppedStops {
			sb.WriteString(fmt.Sprintf("| %d | %s | %d |\n", row.Day, row.FarmID, row.Count))
		}
		sb.WriteString("\n")
	}

	if len(q.IntegrityErrors) > 0 {
		sb.WriteString("### Integrity Errors\n\n")
		for _, err := range q.IntegrityErrors {
			sb.WriteString(fmt.Sprintf("- %s\n", err))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
