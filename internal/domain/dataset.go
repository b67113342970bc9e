package domain

import "sort"

// Metadata describes the simulation run that produced a dataset.
type Metadata struct {
	DaysSimulated int    `json:"days_simulated"`
	FleetSize     int    `json:"fleet_size,omitempty"`
	StartDate     string `json:"start_date,omitempty"`
}

// Dataset is the immutable simulation output loaded at startup.
type Dataset struct {
	Metadata Metadata     `json:"metadata"`
	Farms    []Farm       `json:"farms"`
	Activity []TripRecord `json:"activity"`
}

// FarmIndex returns farms keyed by id. Later duplicates win.
func (d *Dataset) FarmIndex() map[string]Farm {
	idx := make(map[string]Farm, len(d.Farms))
	for _, f := range d.Farms {
		idx[f.ID] = f
	}
	return idx
}

// Days returns the distinct days present in the activity log, ascending.
// Placeholder rows count: a rest day is still a simulated day.
func (d *Dataset) Days() []int {
	seen := make(map[int]struct{})
	for _, t := range d.Activity {
		seen[t.Day] = struct{}{}
	}
	days := make([]int, 0, len(seen))
	for day := range seen {
		days = append(days, day)
	}
	sort.Ints(days)
	return days
}

// Clone returns a deep copy of the dataset.
func (d *Dataset) Clone() *Dataset {
	if d == nil {
		return nil
	}
	out := &Dataset{
		Metadata: d.Metadata,
		Farms:    append([]Farm(nil), d.Farms...),
		Activity: make([]TripRecord, len(d.Activity)),
	}
	for i, t := range d.Activity {
		out.Activity[i] = t.Clone()
	}
	return out
}
