package reporting

import (
	"context"
	"fmt"
	"sort"
	"time"

	"pig-logistics/internal/domain"
	"pig-logistics/internal/metrics"
	"pig-logistics/internal/storage"
)

// Generator produces reports from stored data.
type Generator struct {
	tripStore    storage.TripStore
	farmStore    storage.FarmStore
	facility     domain.Slaughterhouse
	capacityKg   float64
	typeCapacity map[string]float64
	carcassYield float64
	now          func() time.Time // Injectable clock for deterministic output
	progress     func(day int)
}

// NewGenerator creates a new report generator for the reference facility.
func NewGenerator(tripStore storage.TripStore, farmStore storage.FarmStore) *Generator {
	return &Generator{
		tripStore:    tripStore,
		farmStore:    farmStore,
		facility:     domain.DefaultSlaughterhouse(),
		capacityKg:   domain.TruckCapacityKg,
		typeCapacity: domain.TruckCapacities,
		carcassYield: domain.CarcassYield,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// WithFacility overrides the destination facility and carcass yield.
func (g *Generator) WithFacility(facility domain.Slaughterhouse, carcassYield float64) *Generator {
	g.facility = facility
	g.carcassYield = carcassYield
	return g
}

// WithCapacity overrides the fixed per-trip capacity.
func (g *Generator) WithCapacity(kg float64) *Generator {
	g.capacityKg = kg
	return g
}

// WithTruckCapacities overrides the per-type capacities of the utilization breakdown.
func (g *Generator) WithTruckCapacities(byType map[string]float64) *Generator {
	g.typeCapacity = byType
	return g
}

// WithProgress registers fn to be called after each day is aggregated.
func (g *Generator) WithProgress(fn func(day int)) *Generator {
	g.progress = fn
	return g
}

// Generate produces the report for [firstDay, lastDay].
func (g *Generator) Generate(ctx context.Context, firstDay, lastDay int) (*Report, error) {
	if lastDay < firstDay {
		return nil, fmt.Errorf("days %d..%d: %w", firstDay, lastDay, metrics.ErrInvalidRange)
	}

	agg := metrics.NewAggregator(g.tripStore).WithCapacity(g.capacityKg)
	if g.farmStore != nil {
		agg = agg.WithFarmStore(g.farmStore)
	}

	rows := make([]DayRow, 0, lastDay-firstDay+1)
	daily := make([]domain.DailyMetrics, 0, lastDay-firstDay+1)

	for day := firstDay; day <= lastDay; day++ {
		m, err := agg.ComputeDay(ctx, day)
		if err != nil {
			return nil, err
		}

		trips, err := g.tripStore.GetByDay(ctx, day)
		if err != nil {
			return nil, fmt.Errorf("load trips for day %d: %w", day, err)
		}

		rows = append(rows, DayRow{
			Metrics:  m,
			Facility: metrics.ComputeFacilityLoad(m, g.facility, g.carcassYield),
			ByType:   metrics.UtilizationByTruckType(trips, g.typeCapacity, g.capacityKg),
			RestDay:  m.TripCount == 0,
		})
		daily = append(daily, m)

		if g.progress != nil {
			g.progress(day)
		}
	}

	return &Report{
		GeneratedAt: g.now(),
		FirstDay:    firstDay,
		LastDay:     lastDay,
		Facility:    g.facility,
		CapacityKg:  g.capacityKg,
		Days:        rows,
		Totals:      metrics.Totals(daily),
		DataQuality: DataQualitySection{
			PlaceholderRows: agg.PlaceholderRows,
			DroppedStops:    droppedStopRows(agg.MissingByDay),
			IntegrityErrors: agg.GetMissingFarmErrors(),
		},
	}, nil
}

// droppedStopRows flattens per-day counts sorted by day, then farm id.
func droppedStopRows(byDay map[int]map[string]int) []DroppedStopRow {
	var rows []DroppedStopRow
	for day, farms := range byDay {
		for id, n := range farms {
			rows = append(rows, DroppedStopRow{Day: day, FarmID: id, Count: n})
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Day != rows[j].Day {
			return rows[i].Day < rows[j].Day
		}
		return rows[i].FarmID < rows[j].FarmID
	})
	return rows
}
