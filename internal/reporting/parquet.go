package reporting

import (
	"fmt"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"
)

// parquetDayRow is the columnar layout of a DayRow.
type parquetDayRow struct {
	Day                    int32   `parquet:"name=day, type=INT32"`
	TripCount              int32   `parquet:"name=trip_count, type=INT32"`
	PigsDelivered          int32   `parquet:"name=pigs_delivered, type=INT32"`
	Revenue                float64 `parquet:"name=revenue, type=DOUBLE"`
	TotalCost              float64 `parquet:"name=total_cost, type=DOUBLE"`
	TotalPenalties         float64 `parquet:"name=total_penalties, type=DOUBLE"`
	Profit                 float64 `parquet:"name=profit, type=DOUBLE"`
	TotalWeight            float64 `parquet:"name=total_weight, type=DOUBLE"`
	TotalDistance          float64 `parquet:"name=total_distance, type=DOUBLE"`
	TotalTime              float64 `parquet:"name=total_time, type=DOUBLE"`
	AvgTripCost            float64 `parquet:"name=avg_trip_cost, type=DOUBLE"`
	AvgTripTime            float64 `parquet:"name=avg_trip_time, type=DOUBLE"`
	TruckUtilizationPct    float64 `parquet:"name=truck_utilization_pct, type=DOUBLE"`
	CarcassWeight          float64 `parquet:"name=carcass_weight, type=DOUBLE"`
	FacilityUtilizationPct float64 `parquet:"name=facility_utilization_pct, type=DOUBLE"`
	FacilityTier           string  `parquet:"name=facility_tier, type=BYTE_ARRAY, convertedtype=UTF8"`
	RestDay                bool    `parquet:"name=rest_day, type=BOOLEAN"`
}

func toParquetRow(r DayRow) parquetDayRow {
	m := r.Metrics
	return parquetDayRow{
		Day:                    int32(m.Day),
		TripCount:              int32(m.TripCount),
		PigsDelivered:          int32(m.PigsDelivered),
		Revenue:                m.Revenue,
		TotalCost:              m.TotalCost,
		TotalPenalties:         m.TotalPenalties,
		Profit:                 m.Profit,
		TotalWeight:            m.TotalWeight,
		TotalDistance:          m.TotalDistance,
		TotalTime:              m.TotalTime,
		AvgTripCost:            m.AvgTripCost,
		AvgTripTime:            m.AvgTripTime,
		TruckUtilizationPct:    m.TruckUtilizationPct,
		CarcassWeight:          r.Facility.CarcassWeightKg,
		FacilityUtilizationPct: r.Facility.UtilizationPct,
		FacilityTier:           r.Facility.Tier.String(),
		RestDay:                r.RestDay,
	}
}

// WriteParquet writes rows to a Snappy-compressed Parquet file at path.
func WriteParquet(path string, rows []DayRow) (err error) {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return fmt.Errorf("create parquet file %s: %w", path, err)
	}
	defer func() {
		if cerr := fw.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close parquet file %s: %w", path, cerr)
		}
	}()

	pw, err := writer.NewParquetWriter(fw, new(parquetDayRow), 4)
	if err != nil {
		return fmt.Errorf("create parquet writer: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for _, r := range rows {
		if err := pw.Write(toParquetRow(r)); err != nil {
			return fmt.Errorf("write parquet row for day %d: %w", r.Metrics.Day, err)
		}
	}

	if err := pw.WriteStop(); err != nil {
		return fmt.Errorf("finish parquet file: %w", err)
	}
	return nil
}
