package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"pig-logistics/internal/domain"
	"pig-logistics/internal/observability"
	"pig-logistics/internal/storage"
)

// DatasetStore persists one simulation dataset in SQLite.
type DatasetStore struct {
	db *DB
}

// NewDatasetStore creates a store over an opened database.
func NewDatasetStore(db *DB) *DatasetStore {
	return &DatasetStore{db: db}
}

var (
	_ storage.DatasetSource = (*DatasetStore)(nil)
	_ storage.DatasetWriter = (*DatasetStore)(nil)
	_ storage.TripStore     = (*DatasetStore)(nil)
	_ storage.FarmStore     = (*DatasetStore)(nil)
)

const tripColumns = `day, truck_id, truck_type, stops, stop_details, pigs_total,
	weight_total, trip_cost, revenue, penalties, total_distance, total_time`

// Name implements storage.DatasetSource.
func (s *DatasetStore) Name() string { return "sqlite" }

// Load reads the full dataset back in insertion order.
func (s *DatasetStore) Load(ctx context.Context) (ds *domain.Dataset, err error) {
	defer timeQuery("load")(&err)

	ds = &domain.Dataset{}
	err = s.db.conn.QueryRowContext(ctx,
		`SELECT days_simulated, fleet_size, start_date FROM simulation_metadata WHERE id = 1`,
	).Scan(&ds.Metadata.DaysSimulated, &ds.Metadata.FleetSize, &ds.Metadata.StartDate)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load metadata: %w", err)
	}

	if ds.Farms, err = s.ListFarms(ctx); err != nil {
		return nil, err
	}
	if ds.Activity, err = s.GetAll(ctx); err != nil {
		return nil, err
	}
	return ds, nil
}

// Save replaces the stored dataset in a single transaction.
func (s *DatasetStore) Save(ctx context.Context, ds *domain.Dataset) (err error) {
	defer timeQuery("save")(&err)

	if err := storage.ValidateDataset(ds); err != nil {
		return err
	}

	tx, err := s.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"daily_activity", "farm_locations", "simulation_metadata"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO simulation_metadata (id, days_simulated, fleet_size, start_date) VALUES (1, ?, ?, ?)`,
		ds.Metadata.DaysSimulated, ds.Metadata.FleetSize, ds.Metadata.StartDate,
	); err != nil {
		return fmt.Errorf("insert metadata: %w", err)
	}

	for i, f := range ds.Farms {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO farm_locations (seq, farm_id, lat, lon) VALUES (?, ?, ?, ?)`,
			i, f.ID, f.Lat, f.Lon,
		); err != nil {
			if isConstraintError(err) {
				return fmt.Errorf("farm %s: %w", f.ID, storage.ErrDuplicateKey)
			}
			return fmt.Errorf("insert farm %s: %w", f.ID, err)
		}
	}

	for i, t := range ds.Activity {
		stops, err := encodeList(t.Stops)
		if err != nil {
			return err
		}
		details, err := encodeList(t.StopDetails)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO daily_activity (seq, `+tripColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			i, t.Day, t.TruckID, t.TruckType, stops, details, t.PigsTotal,
			t.WeightTotal, t.TripCost, t.Revenue, t.Penalties, t.TotalDistance, t.TotalTime,
		); err != nil {
			return fmt.Errorf("insert trip #%d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit dataset: %w", err)
	}
	return nil
}

// GetByDay returns the trips of one day in insertion order.
func (s *DatasetStore) GetByDay(ctx context.Context, day int) (trips []domain.TripRecord, err error) {
	defer timeQuery("get_by_day")(&err)
	return s.queryTrips(ctx, `SELECT `+tripColumns+` FROM daily_activity WHERE day = ? ORDER BY seq`, day)
}

// GetAll returns every trip in insertion order.
func (s *DatasetStore) GetAll(ctx context.Context) (trips []domain.TripRecord, err error) {
	defer timeQuery("get_all")(&err)
	return s.queryTrips(ctx, `SELECT `+tripColumns+` FROM daily_activity ORDER BY seq`)
}

// Days returns the distinct days present, ascending.
func (s *DatasetStore) Days(ctx context.Context) (days []int, err error) {
	defer timeQuery("days")(&err)

	rows, err := s.db.conn.QueryContext(ctx, `SELECT DISTINCT day FROM daily_activity ORDER BY day`)
	if err != nil {
		return nil, fmt.Errorf("query days: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var d int
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("scan day: %w", err)
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

// GetFarm returns one farm or storage.ErrNotFound.
func (s *DatasetStore) GetFarm(ctx context.Context, id string) (*domain.Farm, error) {
	f := domain.Farm{ID: id}
	err := s.db.conn.QueryRowContext(ctx,
		`SELECT lat, lon FROM farm_locations WHERE farm_id = ?`, id,
	).Scan(&f.Lat, &f.Lon)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get farm %s: %w", id, err)
	}
	return &f, nil
}

// ListFarms returns all farms in insertion order.
func (s *DatasetStore) ListFarms(ctx context.Context) ([]domain.Farm, error) {
	rows, err := s.db.conn.QueryContext(ctx, `SELECT farm_id, lat, lon FROM farm_locations ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query farms: %w", err)
	}
	defer rows.Close()

	var farms []domain.Farm
	for rows.Next() {
		var f domain.Farm
		if err := rows.Scan(&f.ID, &f.Lat, &f.Lon); err != nil {
			return nil, fmt.Errorf("scan farm: %w", err)
		}
		farms = append(farms, f)
	}
	return farms, rows.Err()
}

func (s *DatasetStore) queryTrips(ctx context.Context, query string, args ...any) ([]domain.TripRecord, error) {
	rows, err := s.db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query trips: %w", err)
	}
	defer rows.Close()

	var trips []domain.TripRecord
	for rows.Next() {
		var (
			t              domain.TripRecord
			stops, details string
		)
		if err := rows.Scan(&t.Day, &t.TruckID, &t.TruckType, &stops, &details, &t.PigsTotal,
			&t.WeightTotal, &t.TripCost, &t.Revenue, &t.Penalties, &t.TotalDistance, &t.TotalTime); err != nil {
			return nil, fmt.Errorf("scan trip: %w", err)
		}
		if t.Stops, err = decodeList(stops); err != nil {
			return nil, err
		}
		if t.StopDetails, err = decodeList(details); err != nil {
			return nil, err
		}
		trips = append(trips, t)
	}
	return trips, rows.Err()
}

func encodeList(items []string) (string, error) {
	if len(items) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("encode list: %w", err)
	}
	return string(b), nil
}

func decodeList(raw string) ([]string, error) {
	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("decode list %q: %w", raw, err)
	}
	if len(items) == 0 {
		return nil, nil
	}
	return items, nil
}

func isConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func timeQuery(op string) func(*error) {
	start := time.Now()
	return func(errp *error) {
		observability.RecordDBQuery("sqlite", op, time.Since(start).Seconds(), *errp)
	}
}
