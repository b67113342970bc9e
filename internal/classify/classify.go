// Package classify holds the threshold rules that map raw figures to
// display tiers and load statuses.
package classify

import "pig-logistics/internal/domain"

// Tier colors.
const (
	ColorLow      = "#22c55e"
	ColorMedium   = "#eab308"
	ColorHigh     = "#ef4444"
	ColorInactive = "#94a3b8"
)

// Farm congestion thresholds (pigs ready, inclusive upper bounds).
const (
	FarmLowMax    = 50
	FarmMediumMax = 100
)

// Facility utilization thresholds (percent of daily capacity).
const (
	FacilityLowBelow  = 50
	FacilityMediumMax = 90
)

var farmLabels = map[domain.Tier]string{
	domain.TierLow:    "Pocs porcs esperant (0-50)",
	domain.TierMedium: "Mitjà (51-100)",
	domain.TierHigh:   "Molts (>100)",
}

var facilityLabels = map[domain.Tier]string{
	domain.TierLow:    "< 50% ple",
	domain.TierMedium: "50-90% ple",
	domain.TierHigh:   "PLE!",
}

var loadLabels = map[domain.LoadStatus]string{
	domain.LoadFull:    "Traslladat a plena càrrega",
	domain.LoadPartial: "Traslladat amb espai lliure",
}

// FarmTier classifies a farm by the number of pigs ready for pickup.
func FarmTier(pigsReady int) domain.Tier {
	switch {
	case pigsReady <= FarmLowMax:
		return domain.TierLow
	case pigsReady <= FarmMediumMax:
		return domain.TierMedium
	default:
		return domain.TierHigh
	}
}

// FacilityUtilizationPct returns processed/capacity as a percentage.
// Returns 0 when capacity is not positive.
func FacilityUtilizationPct(processed, capacity int) float64 {
	if capacity <= 0 {
		return 0
	}
	return float64(processed) / float64(capacity) * 100
}

// FacilityTier classifies slaughterhouse utilization.
// A facility without capacity is treated as saturated.
func FacilityTier(processed, capacity int) domain.Tier {
	if capacity <= 0 {
		return domain.TierHigh
	}
	// Compare in integer percent space so the 50 and 90 boundaries are exact.
	scaled := int64(processed) * 100
	switch {
	case scaled < int64(FacilityLowBelow)*int64(capacity):
		return domain.TierLow
	case scaled <= int64(FacilityMediumMax)*int64(capacity):
		return domain.TierMedium
	default:
		return domain.TierHigh
	}
}

// LoadStatus returns FULL when the trip weight exceeds 90% of truck capacity.
func LoadStatus(tripWeight, truckCapacity float64) domain.LoadStatus {
	if tripWeight > domain.FullLoadFactor*truckCapacity {
		return domain.LoadFull
	}
	return domain.LoadPartial
}

// TierColor returns the marker color for a tier.
func TierColor(t domain.Tier) string {
	switch t {
	case domain.TierLow:
		return ColorLow
	case domain.TierMedium:
		return ColorMedium
	default:
		return ColorHigh
	}
}

// FarmLabel returns the legend text for a farm tier.
func FarmLabel(t domain.Tier) string {
	return farmLabels[t]
}

// FacilityLabel returns the status text for a facility tier.
func FacilityLabel(t domain.Tier) string {
	return facilityLabels[t]
}

// LoadLabel returns the display text for a load status.
func LoadLabel(s domain.LoadStatus) string {
	return loadLabels[s]
}

// LegendEntry is one row of the map legend.
type LegendEntry struct {
	Tier  domain.Tier `json:"tier"`
	Color string      `json:"color"`
	Label string      `json:"label"`
}

// FarmLegend returns the farm tiers in ascending order.
func FarmLegend() []LegendEntry {
	tiers := []domain.Tier{domain.TierLow, domain.TierMedium, domain.TierHigh}
	legend := make([]LegendEntry, len(tiers))
	for i, t := range tiers {
		legend[i] = LegendEntry{Tier: t, Color: TierColor(t), Label: FarmLabel(t)}
	}
	return legend
}
