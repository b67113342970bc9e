// Package routes turns trip records into route geometry and presentation attributes.
package routes

import (
	"fmt"
	"sort"

	"pig-logistics/internal/classify"
	"pig-logistics/internal/domain"
)

// Palette is the fixed route color cycle.
var Palette = []string{"#ef4444", "#f59e0b", "#3b82f6", "#8b5cf6", "#10b981"}

// Polyline styling shared by all routes.
const (
	LineWeight  = 4
	LineOpacity = 0.8
)

// Presentation holds the derived attributes of one trip.
type Presentation struct {
	TruckID   string               `json:"truck_id"`
	TruckType string               `json:"truck_type,omitempty"`
	Path      []domain.Coordinates `json:"path"`

	LoadStatus      domain.LoadStatus `json:"load_status"`
	LoadLabel       string            `json:"load_label"`
	AvgWeightPerPig float64           `json:"avg_weight_per_pig"`
	StopCount       int               `json:"stop_count"`

	// DroppedStops lists stop ids missing from the farm set, in trip order.
	DroppedStops []string `json:"dropped_stops,omitempty"`
}

// Build computes the presentation of trip against the fixed truck capacity.
func Build(trip domain.TripRecord, farms map[string]domain.FarmSnapshot, origin domain.Slaughterhouse) Presentation {
	return BuildWithCapacity(trip, farms, origin, domain.TruckCapacityKg)
}

// BuildWithCapacity computes the presentation of trip.
// The path is a closed loop: origin, every known stop in order, origin.
func BuildWithCapacity(trip domain.TripRecord, farms map[string]domain.FarmSnapshot, origin domain.Slaughterhouse, truckCapacityKg float64) Presentation {
	start := origin.Position()
	path := make([]domain.Coordinates, 0, len(trip.Stops)+2)
	path = append(path, start)

	var dropped []string
	for _, stop := range trip.Stops {
		farm, ok := farms[stop]
		if !ok {
			dropped = append(dropped, stop)
			continue
		}
		path = append(path, farm.Position())
	}
	path = append(path, start)

	status := classify.LoadStatus(trip.WeightTotal, truckCapacityKg)

	return Presentation{
		TruckID:         trip.TruckID,
		TruckType:       trip.TruckType,
		Path:            path,
		LoadStatus:      status,
		LoadLabel:       classify.LoadLabel(status),
		AvgWeightPerPig: avgWeightPerPig(trip.WeightTotal, trip.PigsTotal),
		StopCount:       len(trip.Stops),
		DroppedStops:    dropped,
	}
}

// avgWeightPerPig returns weight / pigs, or 0 when no pigs were carried.
func avgWeightPerPig(weight float64, pigs int) float64 {
	if pigs <= 0 {
		return 0
	}
	return weight / float64(pigs)
}

// ColorFor returns the palette color for the route at index i of the day list.
func ColorFor(i int) string {
	if i < 0 {
		i = -i
	}
	return Palette[i%len(Palette)]
}

// Route is a presentation with its assigned color.
type Route struct {
	Presentation
	Index int    `json:"index"`
	Color string `json:"color"`
}

// DayRoutes is the set of routes drawn for one day.
type DayRoutes struct {
	Routes []Route `json:"routes"`
	// MissingFarms counts dropped stops by farm id.
	MissingFarms map[string]int `json:"missing_farms,omitempty"`
	DroppedStops int            `json:"dropped_stops"`
}

// BuildDay builds every non-placeholder trip of dayTrips, assigning colors by position.
// Placeholders do not consume a palette slot.
func BuildDay(dayTrips []domain.TripRecord, farms map[string]domain.FarmSnapshot, origin domain.Slaughterhouse, truckCapacityKg float64) DayRoutes {
	result := DayRoutes{Routes: make([]Route, 0, len(dayTrips))}

	for _, trip := range dayTrips {
		if trip.IsPlaceholder() {
			continue
		}
		p := BuildWithCapacity(trip, farms, origin, truckCapacityKg)
		idx := len(result.Routes)
		result.Routes = append(result.Routes, Route{Presentation: p, Index: idx, Color: ColorFor(idx)})

		for _, id := range p.DroppedStops {
			if result.MissingFarms == nil {
				result.MissingFarms = make(map[string]int)
			}
			result.MissingFarms[id]++
			result.DroppedStops++
		}
	}

	return result
}

// MissingFarmErrors returns one message per unknown farm id, sorted by id.
func (d DayRoutes) MissingFarmErrors() []string {
	if len(d.MissingFarms) == 0 {
		return nil
	}
	keys := make([]string, 0, len(d.MissingFarms))
	for k := range d.MissingFarms {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	msgs := make([]string, len(keys))
	for i, id := range keys {
		msgs[i] = fmt.Sprintf("route stop %s skipped %d time(s): unknown farm", id, d.MissingFarms[id])
	}
	return msgs
}
