// Package scene assembles the map descriptors for one selected day.
package scene

import (
	"sort"

	"pig-logistics/internal/domain"
	"pig-logistics/internal/farms"
	"pig-logistics/internal/metrics"
	"pig-logistics/internal/routes"
)

// FacilityMarkerSize is the slaughterhouse icon diameter.
const FacilityMarkerSize = 24

// Params are the fixed inputs shared by every day of a session.
// TruckCapacities only feeds the per-type utilization breakdown; route load
// status and DailyMetrics use TruckCapacityKg.
type Params struct {
	Origin          domain.Slaughterhouse
	TruckCapacityKg float64
	TruckCapacities map[string]float64
	CarcassYield    float64
}

// DefaultParams returns the reference facility with the fixed capacity and yield.
func DefaultParams() Params {
	return Params{
		Origin:          domain.DefaultSlaughterhouse(),
		TruckCapacityKg: domain.TruckCapacityKg,
		TruckCapacities: domain.TruckCapacities,
		CarcassYield:    domain.CarcassYield,
	}
}

// Scene is everything a map renderer needs for one day.
type Scene struct {
	Day      int                   `json:"day"`
	Metrics  domain.DailyMetrics   `json:"metrics"`
	Facility FacilityMarker        `json:"facility"`
	Farms    map[string]FarmMarker `json:"farms"`
	Routes   []RoutePolyline       `json:"routes"`
	// RouteList mirrors Routes in sidebar form.
	RouteList []RouteSummary `json:"route_list"`
	RestDay   bool           `json:"rest_day"`

	DroppedStops int            `json:"dropped_stops"`
	MissingFarms map[string]int `json:"missing_farms,omitempty"`
}

// FacilityMarker is the processing plant pin.
type FacilityMarker struct {
	ID       string             `json:"id"`
	Name     string             `json:"name"`
	Position domain.Coordinates `json:"position"`
	Color    string             `json:"color"`
	Size     int                `json:"size"`
	Tooltip  FacilityTooltip    `json:"tooltip"`
}

// FacilityTooltip carries weights in tonnes and per-pig averages in kg.
type FacilityTooltip struct {
	Processed      int     `json:"processed"`
	Capacity       int     `json:"capacity"`
	LiveWeightT    float64 `json:"live_weight_t"`
	CarcassWeightT float64 `json:"carcass_weight_t"`
	AvgLiveKg      float64 `json:"avg_live_kg"`
	AvgCarcassKg   float64 `json:"avg_carcass_kg"`
	UtilizationPct float64 `json:"utilization_pct"`
	StatusLabel    string  `json:"status_label"`
}

// FarmMarker is one farm pin, highlighted when visited on the day.
type FarmMarker struct {
	ID       string             `json:"id"`
	Position domain.Coordinates `json:"position"`
	Color    string             `json:"color"`
	Size     int                `json:"size"`
	Active   bool               `json:"active"`
	// Tooltip is nil for farms not visited on the day.
	Tooltip *FarmTooltip `json:"tooltip,omitempty"`
}

// FarmTooltip shows a visited farm's inventory and pigs ready for pickup.
type FarmTooltip struct {
	Inventory int    `json:"inventory"`
	PigsReady int    `json:"pigs_ready"`
	Label     string `json:"label"`
}

// RoutePolyline is one truck's drawn path from the plant through its stops and back.
type RoutePolyline struct {
	TruckID string               `json:"truck_id"`
	Color   string               `json:"color"`
	Path    []domain.Coordinates `json:"path"`
	Weight  int                  `json:"weight"`
	Opacity float64              `json:"opacity"`
	Tooltip RouteTooltip         `json:"tooltip"`
}

// RouteTooltip summarizes a route's load, cost and stops.
type RouteTooltip struct {
	LoadKg          float64 `json:"load_kg"`
	Pigs            int     `json:"pigs"`
	AvgWeightPerPig float64 `json:"avg_weight_per_pig"`
	Farms           int     `json:"farms"`
	LoadLabel       string  `json:"load_label"`
	Cost            float64 `json:"cost"`
}

// RouteSummary is one entry of the day's route list.
type RouteSummary struct {
	TruckID   string   `json:"truck_id"`
	TruckType string   `json:"truck_type"`
	Color     string   `json:"color"`
	Stops     []string `json:"stops"`
	Pigs      int      `json:"pigs"`
	WeightKg  float64  `json:"weight_kg"`
	Cost      float64  `json:"cost"`
}

// Build derives the scene of day. It never fails: unknown stops are dropped
// and counted, empty days produce a rest-day scene with zero metrics.
func Build(ds *domain.Dataset, day int, snapshot map[string]domain.FarmSnapshot, p Params) Scene {
	var activity []domain.TripRecord
	if ds != nil {
		activity = ds.Activity
	}
	dayTrips := metrics.DayTrips(activity, day)
	m := metrics.AggregateWithCapacity(activity, day, p.TruckCapacityKg)
	load := metrics.ComputeFacilityLoad(m, p.Origin, p.CarcassYield)
	dayRoutes := routes.BuildDay(dayTrips, snapshot, p.Origin, p.TruckCapacityKg)

	sc := Scene{
		Day:          day,
		Metrics:      m,
		Facility:     facilityMarker(p.Origin, load),
		Farms:        farmMarkers(snapshot, dayTrips),
		Routes:       make([]RoutePolyline, 0, len(dayRoutes.Routes)),
		RouteList:    make([]RouteSummary, 0, len(dayRoutes.Routes)),
		RestDay:      len(dayTrips) == 0,
		DroppedStops: dayRoutes.DroppedStops,
		MissingFarms: dayRoutes.MissingFarms,
	}

	for i, r := range dayRoutes.Routes {
		trip := dayTrips[i]
		sc.Routes = append(sc.Routes, RoutePolyline{
			TruckID: r.TruckID,
			Color:   r.Color,
			Path:    r.Path,
			Weight:  routes.LineWeight,
			Opacity: routes.LineOpacity,
			Tooltip: RouteTooltip{
				LoadKg:          trip.WeightTotal,
				Pigs:            trip.PigsTotal,
				AvgWeightPerPig: r.AvgWeightPerPig,
				Farms:           r.StopCount,
				LoadLabel:       r.LoadLabel,
				Cost:            trip.TripCost,
			},
		})
		sc.RouteList = append(sc.RouteList, RouteSummary{
			TruckID:   trip.TruckID,
			TruckType: trip.TruckType,
			Color:     r.Color,
			Stops:     append([]string(nil), trip.Stops...),
			Pigs:      trip.PigsTotal,
			WeightKg:  trip.WeightTotal,
			Cost:      trip.TripCost,
		})
	}

	return sc
}

func facilityMarker(origin domain.Slaughterhouse, load metrics.FacilityLoad) FacilityMarker {
	return FacilityMarker{
		ID:       origin.ID,
		Name:     origin.Name,
		Position: origin.Position(),
		Color:    load.Color,
		Size:     FacilityMarkerSize,
		Tooltip: FacilityTooltip{
			Processed:      load.Processed,
			Capacity:       load.Capacity,
			LiveWeightT:    load.LiveWeightKg / 1000,
			CarcassWeightT: load.CarcassWeightKg / 1000,
			AvgLiveKg:      load.AvgLiveWeightKg,
			AvgCarcassKg:   load.AvgCarcassWeightKg,
			UtilizationPct: load.UtilizationPct,
			StatusLabel:    load.StatusLabel,
		},
	}
}

func farmMarkers(snapshot map[string]domain.FarmSnapshot, dayTrips []domain.TripRecord) map[string]FarmMarker {
	statuses := farms.ResolveStatuses(snapshot, dayTrips)
	markers := make(map[string]FarmMarker, len(statuses))

	for id, st := range statuses {
		snap := snapshot[id]
		m := FarmMarker{
			ID:       id,
			Position: snap.Position(),
			Color:    st.Color,
			Size:     st.MarkerSize,
			Active:   st.Active,
		}
		if st.ShowDetail {
			m.Tooltip = &FarmTooltip{Inventory: snap.Inventory, PigsReady: snap.PigsReady, Label: st.Label}
		}
		markers[id] = m
	}
	return markers
}

// SortedFarmIDs returns the farm marker ids in ascending order.
func (s Scene) SortedFarmIDs() []string {
	ids := make([]string, 0, len(s.Farms))
	for id := range s.Farms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
