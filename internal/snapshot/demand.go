package snapshot

import (
	"regexp"
	"strconv"

	"pig-logistics/internal/domain"
)

// stopDetailRe matches per-stop text like "GRANJA_12 (57 porcs)".
var stopDetailRe = regexp.MustCompile(`^\s*(\S+)\s*\((\d+)\s*porcs?\)\s*$`)

// DemandGenerator derives readiness from the activity log instead of randomness.
// PigsReady is the number of pigs collected from the farm over the whole log;
// Inventory is MinInventory plus that figure.
type DemandGenerator struct {
	collected map[string]int
}

// NewDemandGenerator indexes collected pigs per farm from activity.
// Stop details are used when they parse; otherwise the trip's pigs are split
// evenly across its stops, with the remainder going to the first stops.
func NewDemandGenerator(activity []domain.TripRecord) *DemandGenerator {
	collected := make(map[string]int)
	for _, t := range activity {
		if t.IsPlaceholder() || len(t.Stops) == 0 {
			continue
		}
		if perStop, ok := parseStopDetails(t.StopDetails); ok {
			for id, n := range perStop {
				collected[id] += n
			}
			continue
		}
		share := t.PigsTotal / len(t.Stops)
		rest := t.PigsTotal % len(t.Stops)
		for i, id := range t.Stops {
			n := share
			if i < rest {
				n++
			}
			collected[id] += n
		}
	}
	return &DemandGenerator{collected: collected}
}

// Generate returns the derived snapshot.
func (g *DemandGenerator) Generate(farms []domain.Farm) map[string]domain.FarmSnapshot {
	result := make(map[string]domain.FarmSnapshot, len(farms))
	for _, f := range farms {
		ready := g.collected[f.ID]
		result[f.ID] = domain.FarmSnapshot{
			ID:        f.ID,
			Lat:       f.Lat,
			Lon:       f.Lon,
			Inventory: MinInventory + ready,
			PigsReady: ready,
		}
	}
	return result
}

// parseStopDetails returns pigs per farm, or false if any entry is malformed.
func parseStopDetails(details []string) (map[string]int, bool) {
	if len(details) == 0 {
		return nil, false
	}
	out := make(map[string]int, len(details))
	for _, d := range details {
		m := stopDetailRe.FindStringSubmatch(d)
		if m == nil {
			return nil, false
		}
		n, err := strconv.Atoi(m[2])
		if err != nil {
			return nil, false
		}
		out[m[1]] += n
	}
	return out, true
}
