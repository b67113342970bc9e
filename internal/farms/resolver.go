// Package farms decides which farms are served on a day and how each one is drawn.
package farms

import (
	"pig-logistics/internal/classify"
	"pig-logistics/internal/domain"
)

// Marker sizes for active and inactive farms.
const (
	ActiveMarkerSize   = 14
	InactiveMarkerSize = 8
)

// Display is the resolved status of one farm for the selected day.
type Display struct {
	FarmID string      `json:"farm_id"`
	Tier   domain.Tier `json:"tier"`
	Active bool        `json:"active"`
	Color  string      `json:"color"`
	// Label is empty for inactive farms; their tier is computed but not surfaced.
	Label      string `json:"label,omitempty"`
	ShowDetail bool   `json:"show_detail"`
	MarkerSize int    `json:"marker_size"`
}

// ActiveFarmIDs returns the farm ids visited by at least one non-placeholder trip.
func ActiveFarmIDs(dayTrips []domain.TripRecord) map[string]struct{} {
	active := make(map[string]struct{})
	for _, t := range dayTrips {
		if t.IsPlaceholder() {
			continue
		}
		for _, stop := range t.Stops {
			active[stop] = struct{}{}
		}
	}
	return active
}

// ResolveStatuses maps every farm in the snapshot to its display status.
func ResolveStatuses(snapshots map[string]domain.FarmSnapshot, dayTrips []domain.TripRecord) map[string]Display {
	active := ActiveFarmIDs(dayTrips)
	result := make(map[string]Display, len(snapshots))

	for id, snap := range snapshots {
		tier := classify.FarmTier(snap.PigsReady)
		_, isActive := active[id]

		d := Display{
			FarmID:     id,
			Tier:       tier,
			Active:     isActive,
			Color:      classify.ColorInactive,
			MarkerSize: InactiveMarkerSize,
		}
		if isActive {
			d.Color = classify.TierColor(tier)
			d.Label = classify.FarmLabel(tier)
			d.ShowDetail = true
			d.MarkerSize = ActiveMarkerSize
		}
		result[id] = d
	}

	return result
}
