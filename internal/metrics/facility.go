package metrics

import (
	"pig-logistics/internal/classify"
	"pig-logistics/internal/domain"
)

// FacilityLoad is the slaughterhouse view of one day.
type FacilityLoad struct {
	Processed          int         `json:"processed"`
	Capacity           int         `json:"capacity"`
	LiveWeightKg       float64     `json:"live_weight_kg"`
	CarcassWeightKg    float64     `json:"carcass_weight_kg"`
	AvgLiveWeightKg    float64     `json:"avg_live_weight_kg"`
	AvgCarcassWeightKg float64     `json:"avg_carcass_weight_kg"`
	UtilizationPct     float64     `json:"utilization_pct"`
	Tier               domain.Tier `json:"tier"`
	Color              string      `json:"color"`
	StatusLabel        string      `json:"status_label"`
}

// ComputeFacilityLoad derives the facility figures from a day's metrics.
// Processed pigs equal the pigs delivered that day.
func ComputeFacilityLoad(m domain.DailyMetrics, facility domain.Slaughterhouse, carcassYield float64) FacilityLoad {
	tier := classify.FacilityTier(m.PigsDelivered, facility.Capacity)
	carcass := m.TotalWeight * carcassYield

	return FacilityLoad{
		Processed:          m.PigsDelivered,
		Capacity:           facility.Capacity,
		LiveWeightKg:       m.TotalWeight,
		CarcassWeightKg:    carcass,
		AvgLiveWeightKg:    computeAverage(m.TotalWeight, m.PigsDelivered),
		AvgCarcassWeightKg: computeAverage(carcass, m.PigsDelivered),
		UtilizationPct:     classify.FacilityUtilizationPct(m.PigsDelivered, facility.Capacity),
		Tier:               tier,
		Color:              classify.TierColor(tier),
		StatusLabel:        classify.FacilityLabel(tier),
	}
}
