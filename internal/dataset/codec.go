// Package dataset reads the simulator's JSON export.
package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"

	"pig-logistics/internal/domain"
)

// ErrInvalidDataset is returned when the input is not a dataset document.
var ErrInvalidDataset = errors.New("invalid dataset")

// document is the simulator export layout.
type document struct {
	Metadata *metadataWire `json:"metadata"`
	Farms    []farmWire    `json:"ubicacions_granges"`
	Activity []tripWire    `json:"activitat_diaria"`
}

type metadataWire struct {
	DaysSimulated float64 `json:"dies_simulats"`
	FleetSize     float64 `json:"flota_utilitzada"`
	StartDate     string  `json:"data_inici"`
}

type farmWire struct {
	ID  string  `json:"id"`
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// tripWire uses float64 for counts: the exporter may write them as 57.0
// once a column has held a missing value.
type tripWire struct {
	Day           float64  `json:"dia"`
	TruckID       string   `json:"camio_id"`
	TruckType     string   `json:"tipus_camio"`
	Stops         []string `json:"parades"`
	StopDetails   []string `json:"detalls_parades"`
	PigsTotal     float64  `json:"porcs_totals"`
	WeightTotal   float64  `json:"pes_total"`
	TripCost      float64  `json:"cost_viatge"`
	Revenue       float64  `json:"ingressos"`
	Penalties     float64  `json:"penalitzacions"`
	TotalDistance float64  `json:"distancia_total"`
	TotalTime     float64  `json:"temps_total"`
}

// Parse decodes a dataset document from r.
// Bare NaN and Infinity tokens are read as missing values.
func Parse(r io.Reader) (*domain.Dataset, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	return Decode(raw)
}

// Decode decodes a dataset document held in memory.
func Decode(raw []byte) (*domain.Dataset, error) {
	var doc document
	if err := json.Unmarshal(sanitizeNonFinite(raw), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDataset, err)
	}

	ds := &domain.Dataset{
		Farms:    make([]domain.Farm, 0, len(doc.Farms)),
		Activity: make([]domain.TripRecord, 0, len(doc.Activity)),
	}
	if doc.Metadata != nil {
		ds.Metadata = domain.Metadata{
			DaysSimulated: toInt(doc.Metadata.DaysSimulated),
			FleetSize:     toInt(doc.Metadata.FleetSize),
			StartDate:     doc.Metadata.StartDate,
		}
	}
	for _, f := range doc.Farms {
		ds.Farms = append(ds.Farms, domain.Farm{ID: f.ID, Lat: f.Lat, Lon: f.Lon})
	}
	for _, t := range doc.Activity {
		ds.Activity = append(ds.Activity, domain.TripRecord{
			Day:           toInt(t.Day),
			TruckID:       t.TruckID,
			TruckType:     t.TruckType,
			Stops:         t.Stops,
			StopDetails:   t.StopDetails,
			PigsTotal:     toInt(t.PigsTotal),
			WeightTotal:   t.WeightTotal,
			TripCost:      t.TripCost,
			Revenue:       t.Revenue,
			Penalties:     t.Penalties,
			TotalDistance: t.TotalDistance,
			TotalTime:     t.TotalTime,
		})
	}
	return ds, nil
}

// Encode writes ds in the simulator export layout.
func Encode(w io.Writer, ds *domain.Dataset) error {
	doc := document{
		Metadata: &metadataWire{
			DaysSimulated: float64(ds.Metadata.DaysSimulated),
			FleetSize:     float64(ds.Metadata.FleetSize),
			StartDate:     ds.Metadata.StartDate,
		},
		Farms:    make([]farmWire, len(ds.Farms)),
		Activity: make([]tripWire, len(ds.Activity)),
	}
	for i, f := range ds.Farms {
		doc.Farms[i] = farmWire{ID: f.ID, Lat: f.Lat, Lon: f.Lon}
	}
	for i, t := range ds.Activity {
		doc.Activity[i] = tripWire{
			Day:           float64(t.Day),
			TruckID:       t.TruckID,
			TruckType:     t.TruckType,
			Stops:         t.Stops,
			StopDetails:   t.StopDetails,
			PigsTotal:     float64(t.PigsTotal),
			WeightTotal:   t.WeightTotal,
			TripCost:      t.TripCost,
			Revenue:       t.Revenue,
			Penalties:     t.Penalties,
			TotalDistance: t.TotalDistance,
			TotalTime:     t.TotalTime,
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}
	return nil
}

// toInt rounds v to the nearest int, saturating at the int range. NaN maps to 0.
func toInt(v float64) int {
	switch {
	case math.IsNaN(v):
		return 0
	case v >= float64(math.MaxInt):
		return math.MaxInt
	case v <= float64(math.MinInt):
		return math.MinInt
	}
	return int(math.Round(v))
}

var nonFiniteTokens = [][]byte{[]byte("-Infinity"), []byte("Infinity"), []byte("NaN")}

// sanitizeNonFinite replaces NaN, Infinity and -Infinity outside string
// literals with null.
func sanitizeNonFinite(raw []byte) []byte {
	if !bytes.Contains(raw, []byte("NaN")) && !bytes.Contains(raw, []byte("Infinity")) {
		return raw
	}

	out := make([]byte, 0, len(raw))
	inString := false
	escaped := false

	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if inString {
			out = append(out, c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		if c == '"' {
			inString = true
			out = append(out, c)
			continue
		}

		replaced := false
		for _, tok := range nonFiniteTokens {
			if bytes.HasPrefix(raw[i:], tok) {
				out = append(out, "null"...)
				i += len(tok) - 1
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, c)
		}
	}
	return out
}
