package domain

// Coordinates is a WGS84 position.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Farm is a pig farm location from the dataset.
type Farm struct {
	ID  string  `json:"id"`
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Position returns the farm coordinates.
func (f Farm) Position() Coordinates {
	return Coordinates{Lat: f.Lat, Lon: f.Lon}
}

// FarmSnapshot is a farm enriched with the session's inventory figures.
type FarmSnapshot struct {
	ID        string  `json:"id"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	Inventory int     `json:"inventory"`
	PigsReady int     `json:"pigs_ready"`
}

// Position returns the snapshot coordinates.
func (f FarmSnapshot) Position() Coordinates {
	return Coordinates{Lat: f.Lat, Lon: f.Lon}
}

// Slaughterhouse is the single destination facility.
type Slaughterhouse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Capacity int     `json:"capacity"` // pigs per day
}

// Position returns the facility coordinates.
func (s Slaughterhouse) Position() Coordinates {
	return Coordinates{Lat: s.Lat, Lon: s.Lon}
}

// DefaultSlaughterhouse returns the facility every route departs from and returns to.
func DefaultSlaughterhouse() Slaughterhouse {
	return Slaughterhouse{
		ID:       "S01",
		Name:     "Escorxador Central Vic",
		Lat:      41.93,
		Lon:      2.25,
		Capacity: 2000,
	}
}
