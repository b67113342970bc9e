package reporting

import (
	"time"

	"pig-logistics/internal/domain"
	"pig-logistics/internal/metrics"
)

// Report is the period report over a day range.
type Report struct {
	// Metadata
	GeneratedAt time.Time
	FirstDay    int
	LastDay     int
	Facility    domain.Slaughterhouse
	CapacityKg  float64

	// Per-day rows, ascending by day
	Days []DayRow

	// Totals equal the column sums of Days
	Totals domain.PeriodTotals

	DataQuality DataQualitySection
}

// DayRow is one day of the report.
type DayRow struct {
	Metrics  domain.DailyMetrics
	Facility metrics.FacilityLoad
	// ByType is utilization against each truck's own capacity.
	ByType  metrics.CapacityBreakdown
	RestDay bool
}

// DataQualitySection lists input problems found while aggregating.
type DataQualitySection struct {
	PlaceholderRows int
	DroppedStops    []DroppedStopRow
	IntegrityErrors []string
}

// Clean reports whether no dropped stop was found.
func (q DataQualitySection) Clean() bool {
	return len(q.DroppedStops) == 0 && len(q.IntegrityErrors) == 0
}

// DroppedStopRow counts route stops of one day that reference an unknown farm.
type DroppedStopRow struct {
	Day    int
	FarmID string
	Count  int
}
