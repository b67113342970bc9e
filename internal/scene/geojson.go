package scene

import "pig-logistics/internal/domain"

// FeatureCollection is a GeoJSON document.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

type Feature struct {
	Type       string     `json:"type"`
	Geometry   Geometry   `json:"geometry"`
	Properties Properties `json:"properties"`
}

// Geometry holds a Point ([lon, lat]) or a LineString ([[lon, lat], ...]).
type Geometry struct {
	Type        string `json:"type"`
	Coordinates any    `json:"coordinates"`
}

// Properties tags a feature with its kind and the marker or route it came from.
type Properties struct {
	Kind        string `json:"kind"`
	Day         int    `json:"day"`
	Information any    `json:"information"`
}

// Feature kinds.
const (
	KindFacility = "facility"
	KindFarm     = "farm"
	KindRoute    = "route"
)

// ToGeoJSON exports the scene as a FeatureCollection: the facility first,
// then farms by id, then routes in list order.
func ToGeoJSON(s Scene) FeatureCollection {
	fc := FeatureCollection{
		Type:     "FeatureCollection",
		Features: make([]Feature, 0, 1+len(s.Farms)+len(s.Routes)),
	}

	fc.Features = append(fc.Features, pointFeature(KindFacility, s.Day, s.Facility.Position, s.Facility))
	for _, id := range s.SortedFarmIDs() {
		farm := s.Farms[id]
		fc.Features = append(fc.Features, pointFeature(KindFarm, s.Day, farm.Position, farm))
	}
	for _, r := range s.Routes {
		line := make([][]float64, len(r.Path))
		for i, c := range r.Path {
			line[i] = lonLat(c)
		}
		fc.Features = append(fc.Features, Feature{
			Type:       "Feature",
			Geometry:   Geometry{Type: "LineString", Coordinates: line},
			Properties: Properties{Kind: KindRoute, Day: s.Day, Information: r},
		})
	}

	return fc
}

func pointFeature(kind string, day int, pos domain.Coordinates, info any) Feature {
	return Feature{
		Type:       "Feature",
		Geometry:   Geometry{Type: "Point", Coordinates: lonLat(pos)},
		Properties: Properties{Kind: kind, Day: day, Information: info},
	}
}

// lonLat orders a coordinate the way GeoJSON expects.
func lonLat(c domain.Coordinates) []float64 {
	return []float64{c.Lon, c.Lat}
}
