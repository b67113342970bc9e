package domain

// Fixed operating constants used by the aggregation and presentation rules.
const (
	// TruckCapacityKg is the per-trip capacity used for utilization.
	TruckCapacityKg = 20000.0
	// FullLoadFactor is the share of capacity above which a trip counts as full.
	FullLoadFactor = 0.9
	// CarcassYield converts live weight to carcass weight.
	CarcassYield = 0.78

	MinDay = 1
	MaxDay = 15
)

// TruckCapacities maps truck type to per-trip capacity in kg.
var TruckCapacities = map[string]float64{
	TruckTypeLarge: 20000,
	TruckTypeSmall: 10000,
}

// DailyMetrics is the aggregate of all non-placeholder trips of one day.
type DailyMetrics struct {
	Day                 int     `json:"day"`
	Profit              float64 `json:"profit"`
	Revenue             float64 `json:"revenue"`
	PigsDelivered       int     `json:"pigs_delivered"`
	TotalCost           float64 `json:"total_cost"`
	TotalPenalties      float64 `json:"total_penalties"`
	TotalWeight         float64 `json:"total_weight"`
	TotalDistance       float64 `json:"total_distance"`
	TotalTime           float64 `json:"total_time"`
	TripCount           int     `json:"trip_count"`
	AvgTripCost         float64 `json:"avg_trip_cost"`
	AvgTripTime         float64 `json:"avg_trip_time"`
	TruckUtilizationPct float64 `json:"truck_utilization_pct"`
}

// PeriodTotals sums DailyMetrics across a range of days.
type PeriodTotals struct {
	FirstDay       int     `json:"first_day"`
	LastDay        int     `json:"last_day"`
	ActiveDays     int     `json:"active_days"`
	TripCount      int     `json:"trip_count"`
	PigsDelivered  int     `json:"pigs_delivered"`
	Revenue        float64 `json:"revenue"`
	TransportCost  float64 `json:"transport_cost"`
	Penalties      float64 `json:"penalties"`
	Profit         float64 `json:"profit"`
	TotalWeight    float64 `json:"total_weight"`
	TotalDistance  float64 `json:"total_distance"`
	AvgUtilization float64 `json:"avg_utilization_pct"`
}
