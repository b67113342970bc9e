package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"pig-logistics/internal/domain"
	"pig-logistics/internal/observability"
	"pig-logistics/internal/storage"
)

// DatasetStore implements the dataset interfaces on PostgreSQL.
type DatasetStore struct {
	pool *Pool
}

// NewDatasetStore creates a new DatasetStore.
func NewDatasetStore(pool *Pool) *DatasetStore {
	return &DatasetStore{pool: pool}
}

// Compile-time interface checks.
var (
	_ storage.DatasetSource = (*DatasetStore)(nil)
	_ storage.DatasetWriter = (*DatasetStore)(nil)
	_ storage.TripStore     = (*DatasetStore)(nil)
	_ storage.FarmStore     = (*DatasetStore)(nil)
)

const tripColumns = `day, truck_id, truck_type, stops, stop_details, pigs_total, weight_total,
	trip_cost, revenue, penalties, total_distance, total_time`

// Name returns the backend name.
func (s *DatasetStore) Name() string {
	return "postgres"
}

// Load reads metadata, farms and activity.
func (s *DatasetStore) Load(ctx context.Context) (ds *domain.Dataset, err error) {
	defer timeQuery("load")(&err)

	ds = &domain.Dataset{}

	err = s.pool.QueryRow(ctx,
		`SELECT days_simulated, fleet_size, start_date FROM simulation_metadata WHERE id = 1`,
	).Scan(&ds.Metadata.DaysSimulated, &ds.Metadata.FleetSize, &ds.Metadata.StartDate)
	if err != nil && !isNotFoundError(err) {
		return nil, fmt.Errorf("query metadata: %w", err)
	}

	if ds.Farms, err = s.ListFarms(ctx); err != nil {
		return nil, err
	}
	if ds.Activity, err = s.GetAll(ctx); err != nil {
		return nil, err
	}
	return ds, nil
}

// Save replaces all dataset rows in one transaction.
func (s *DatasetStore) Save(ctx context.Context, ds *domain.Dataset) (err error) {
	defer timeQuery("save")(&err)

	if err := storage.ValidateDataset(ds); err != nil {
		return err
	}

	return s.pool.InTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `TRUNCATE daily_activity, farm_locations, simulation_metadata`); err != nil {
			return fmt.Errorf("clear dataset: %w", err)
		}

		if _, err := tx.Exec(ctx,
			`INSERT INTO simulation_metadata (id, days_simulated, fleet_size, start_date) VALUES (1, $1, $2, $3)`,
			ds.Metadata.DaysSimulated, ds.Metadata.FleetSize, ds.Metadata.StartDate,
		); err != nil {
			return fmt.Errorf("insert metadata: %w", err)
		}

		farmRows := make([][]any, len(ds.Farms))
		for i, f := range ds.Farms {
			farmRows[i] = []any{i, f.ID, f.Lat, f.Lon}
		}
		if _, err := tx.CopyFrom(ctx,
			pgx.Identifier{"farm_locations"},
			[]string{"seq", "farm_id", "lat", "lon"},
			pgx.CopyFromRows(farmRows),
		); err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("copy farm locations: %w", err)
		}

		tripRows := make([][]any, len(ds.Activity))
		for i, t := range ds.Activity {
			tripRows[i] = []any{
				i, t.Day, t.TruckID, t.TruckType, nonNil(t.Stops), nonNil(t.StopDetails),
				t.PigsTotal, t.WeightTotal, t.TripCost, t.Revenue, t.Penalties, t.TotalDistance, t.TotalTime,
			}
		}
		if _, err := tx.CopyFrom(ctx,
			pgx.Identifier{"daily_activity"},
			[]string{"seq", "day", "truck_id", "truck_type", "stops", "stop_details", "pigs_total", "weight_total",
				"trip_cost", "revenue", "penalties", "total_distance", "total_time"},
			pgx.CopyFromRows(tripRows),
		); err != nil {
			return fmt.Errorf("copy daily activity: %w", err)
		}
		return nil
	})
}

// GetByDay returns all rows of a day in dataset order.
func (s *DatasetStore) GetByDay(ctx context.Context, day int) (trips []domain.TripRecord, err error) {
	defer timeQuery("get_by_day")(&err)

	query := `SELECT ` + tripColumns + ` FROM daily_activity WHERE day = $1 ORDER BY seq`
	return s.queryTrips(ctx, query, day)
}

// GetAll returns every row in dataset order.
func (s *DatasetStore) GetAll(ctx context.Context) (trips []domain.TripRecord, err error) {
	defer timeQuery("get_all")(&err)

	query := `SELECT ` + tripColumns + ` FROM daily_activity ORDER BY seq`
	return s.queryTrips(ctx, query)
}

// Days returns the distinct days present, ascending.
func (s *DatasetStore) Days(ctx context.Context) ([]int, error) {
	rows, err := s.pool.Query(ctx, `SELECT DISTINCT day FROM daily_activity ORDER BY day`)
	if err != nil {
		return nil, fmt.Errorf("query days: %w", err)
	}
	days, err := pgx.CollectRows(rows, pgx.RowTo[int])
	if err != nil {
		return nil, fmt.Errorf("scan days: %w", err)
	}
	return days, nil
}

// GetFarm retrieves a farm. Returns ErrNotFound if not exists.
func (s *DatasetStore) GetFarm(ctx context.Context, farmID string) (*domain.Farm, error) {
	var f domain.Farm
	err := s.pool.QueryRow(ctx,
		`SELECT farm_id, lat, lon FROM farm_locations WHERE farm_id = $1`, farmID,
	).Scan(&f.ID, &f.Lat, &f.Lon)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get farm: %w", err)
	}
	return &f, nil
}

// ListFarms returns all farms in dataset order.
func (s *DatasetStore) ListFarms(ctx context.Context) ([]domain.Farm, error) {
	rows, err := s.pool.Query(ctx, `SELECT farm_id, lat, lon FROM farm_locations ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query farms: %w", err)
	}
	defer rows.Close()

	farms := make([]domain.Farm, 0)
	for rows.Next() {
		var f domain.Farm
		if err := rows.Scan(&f.ID, &f.Lat, &f.Lon); err != nil {
			return nil, fmt.Errorf("scan farm: %w", err)
		}
		farms = append(farms, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate farms: %w", err)
	}
	return farms, nil
}

func (s *DatasetStore) queryTrips(ctx context.Context, query string, args ...any) ([]domain.TripRecord, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query trips: %w", err)
	}
	defer rows.Close()

	trips := make([]domain.TripRecord, 0)
	for rows.Next() {
		var t domain.TripRecord
		if err := rows.Scan(
			&t.Day, &t.TruckID, &t.TruckType, &t.Stops, &t.StopDetails, &t.PigsTotal, &t.WeightTotal,
			&t.TripCost, &t.Revenue, &t.Penalties, &t.TotalDistance, &t.TotalTime,
		); err != nil {
			return nil, fmt.Errorf("scan trip: %w", err)
		}
		if len(t.Stops) == 0 {
			t.Stops = nil
		}
		if len(t.StopDetails) == 0 {
			t.StopDetails = nil
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trips: %w", err)
	}
	return trips, nil
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

func timeQuery(operation string) func(errp *error) {
	start := time.Now()
	return func(errp *error) {
		observability.RecordDBQuery("postgres", operation, time.Since(start).Seconds(), *errp)
	}
}
