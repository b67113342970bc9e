package domain

// Placeholder truck identifiers emitted by the simulator. Rows carrying them
// describe a day without transport and never count as trips.
const (
	RestDayTruckID    = "DESCANS"         // weekend rest day
	NoActivityTruckID = "SENSE_ACTIVITAT" // working day with nothing planned
)

// Truck types used by the simulator fleet.
const (
	TruckTypeLarge = "GRAN"
	TruckTypeSmall = "PETIT"
)

// TripRecord is one row of the daily activity log.
// Weights are kilograms, distances kilometres, times hours, money euros.
type TripRecord struct {
	Day       int    `json:"day"`
	TruckID   string `json:"truck_id"`
	TruckType string `json:"truck_type,omitempty"`

	// Stops lists farm ids in visiting order.
	Stops []string `json:"stops"`
	// StopDetails carries per-stop text like "GRANJA_1 (57 porcs)".
	StopDetails []string `json:"stop_details,omitempty"`

	PigsTotal     int     `json:"pigs_total"`
	WeightTotal   float64 `json:"weight_total"`
	TripCost      float64 `json:"trip_cost"`
	Revenue       float64 `json:"revenue"`
	Penalties     float64 `json:"penalties"`
	TotalDistance float64 `json:"total_distance"`
	TotalTime     float64 `json:"total_time"`
}

// IsPlaceholder reports whether the record is a rest or no-activity marker.
func (t TripRecord) IsPlaceholder() bool {
	return t.TruckID == RestDayTruckID || t.TruckID == NoActivityTruckID
}

// Profit returns revenue minus trip cost for this record.
func (t TripRecord) Profit() float64 {
	return t.Revenue - t.TripCost
}

// Clone returns a copy that shares no slices with t.
func (t TripRecord) Clone() TripRecord {
	out := t
	if t.Stops != nil {
		out.Stops = append([]string(nil), t.Stops...)
	}
	if t.StopDetails != nil {
		out.StopDetails = append([]string(nil), t.StopDetails...)
	}
	return out
}
