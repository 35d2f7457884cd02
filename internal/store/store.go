// Package store is the local sqlite cache of readings and prices. It exists
// so the dashboard can render with the backend unreachable and so sparklines
// have history beyond what a single fetch returns.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/oilscope/oilscope/internal/core"
)

type Store struct {
	db  *sql.DB
	now func() time.Time
}

func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: creating DB dir: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("store: opening DB: %w", err)
	}

	s := NewStore(db)
	if err := s.Init(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Init(ctx context.Context) error {
	if err := configureSQLiteConnection(s.db); err != nil {
		return fmt.Errorf("store: configuring sqlite: %w", err)
	}

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS tank_readings (
			location_id INTEGER NOT NULL,
			ts TEXT NOT NULL,
			gallons REAL NOT NULL,
			is_fill_event INTEGER NOT NULL DEFAULT 0,
			is_anomaly INTEGER NOT NULL DEFAULT 0,
			is_post_fill_unstable INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (location_id, ts)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_tank_readings_ts ON tank_readings(ts);`,
		`CREATE TABLE IF NOT EXISTS oil_prices (
			vendor TEXT NOT NULL,
			date TEXT NOT NULL,
			price_per_gallon REAL NOT NULL,
			PRIMARY KEY (vendor, date)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_oil_prices_date ON oil_prices(date);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("store: init schema: %w", err)
		}
	}
	return nil
}

// UpsertReadings inserts readings, skipping timestamps already cached for the
// location. Returns inserted and skipped counts (the import summary shape).
func (s *Store) UpsertReadings(ctx context.Context, locationID int, readings []core.TankReading) (inserted, skipped int, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO tank_readings
		(location_id, ts, gallons, is_fill_event, is_anomaly, is_post_fill_unstable)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, 0, fmt.Errorf("store: prepare: %w", err)
	}
	defer stmt.Close()

	for _, r := range readings {
		res, err := stmt.ExecContext(ctx,
			locationID,
			r.Timestamp.UTC().Format(time.RFC3339),
			r.Gallons,
			boolInt(r.IsFillEvent),
			boolInt(r.IsAnomaly),
			boolInt(r.IsPostFillUnstable),
		)
		if err != nil {
			return inserted, skipped, fmt.Errorf("store: insert reading: %w", err)
		}
		n, _ := res.RowsAffected()
		if n > 0 {
			inserted++
		} else {
			skipped++
		}
	}

	if err := tx.Commit(); err != nil {
		return inserted, skipped, fmt.Errorf("store: commit: %w", err)
	}
	return inserted, skipped, nil
}

// ReadingsSince returns cached readings for the window, oldest first.
func (s *Store) ReadingsSince(ctx context.Context, locationID int, window core.TimeWindow) ([]core.TankReading, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT ts, gallons, is_fill_event, is_anomaly, is_post_fill_unstable
		FROM tank_readings
		WHERE location_id = ? AND ts >= datetime(?, ?)
		ORDER BY ts ASC`,
		locationID,
		s.now().UTC().Format(time.RFC3339),
		window.SQLiteOffset(),
	)
	if err != nil {
		return nil, fmt.Errorf("store: query readings: %w", err)
	}
	defer rows.Close()

	var out []core.TankReading
	for rows.Next() {
		var ts string
		var r core.TankReading
		var fill, anom, unstable int
		if err := rows.Scan(&ts, &r.Gallons, &fill, &anom, &unstable); err != nil {
			return nil, fmt.Errorf("store: scan reading: %w", err)
		}
		t, err := time.Parse(time.RFC3339, ts)
		if err != nil {
			continue
		}
		r.Timestamp = t
		r.IsFillEvent = fill != 0
		r.IsAnomaly = anom != 0
		r.IsPostFillUnstable = unstable != 0
		out = append(out, r)
	}
	return out, rows.Err()
}

// UpsertPrices caches vendor price points; later writes win for a
// (vendor, date) pair so corrections propagate.
func (s *Store) UpsertPrices(ctx context.Context, series []core.VendorSeries) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO oil_prices (vendor, date, price_per_gallon)
		VALUES (?, ?, ?)
		ON CONFLICT(vendor, date) DO UPDATE SET price_per_gallon = excluded.price_per_gallon`)
	if err != nil {
		return fmt.Errorf("store: prepare: %w", err)
	}
	defer stmt.Close()

	for _, vs := range series {
		for _, p := range vs.Points {
			if p.Value == nil {
				continue
			}
			if _, err := stmt.ExecContext(ctx, vs.Vendor, core.Day(p.Date).Format("2006-01-02"), *p.Value); err != nil {
				return fmt.Errorf("store: insert price: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit: %w", err)
	}
	return nil
}

// PriceHistory returns cached series per vendor within the window.
func (s *Store) PriceHistory(ctx context.Context, window core.TimeWindow) ([]core.VendorSeries, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT vendor, date, price_per_gallon
		FROM oil_prices
		WHERE date >= date(?, ?)
		ORDER BY vendor, date ASC`,
		s.now().UTC().Format("2006-01-02"),
		window.SQLiteOffset(),
	)
	if err != nil {
		return nil, fmt.Errorf("store: query prices: %w", err)
	}
	defer rows.Close()

	var out []core.VendorSeries
	for rows.Next() {
		var vendor, date string
		var price float64
		if err := rows.Scan(&vendor, &date, &price); err != nil {
			return nil, fmt.Errorf("store: scan price: %w", err)
		}
		d, err := time.Parse("2006-01-02", date)
		if err != nil {
			continue
		}
		point := core.TimePoint{Date: d, Value: core.Float(price)}
		if len(out) > 0 && out[len(out)-1].Vendor == vendor {
			out[len(out)-1].Points = append(out[len(out)-1].Points, point)
		} else {
			out = append(out, core.VendorSeries{Vendor: vendor, Points: []core.TimePoint{point}})
		}
	}
	return out, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
