// Package storage maintains a SQLite index of battery readings so the GUI
// can run time-range queries without rescanning whole log files. The text
// logs stay the source of truth; this database is a derived cache rebuilt
// by importing them.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/padiauj/battmon/internal/battlog"
)

const schema = `
CREATE TABLE IF NOT EXISTS battery_readings (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	battery TEXT NOT NULL,
	timestamp_ms INTEGER NOT NULL,
	status TEXT NOT NULL,
	capacity INTEGER NOT NULL,
	UNIQUE(battery, timestamp_ms)
);
CREATE INDEX IF NOT EXISTS idx_readings_battery_ts ON battery_readings(battery, timestamp_ms);
`

// DB wraps the SQLite history index.
type DB struct {
	db *sql.DB
}

// Open opens or creates the database at path, creating parent directories
// as needed.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &DB{db: db}, nil
}

// Close closes the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// ImportRecords inserts records for one battery in a single transaction,
// ignoring rows already present so re-importing a log file is idempotent.
// Returns the number of newly inserted rows.
func (d *DB) ImportRecords(battery string, records []battlog.Record) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}
	tx, err := d.db.Begin()
	if err != nil {
		return 0, err
	}
	stmt, err := tx.Prepare("INSERT OR IGNORE INTO battery_readings (battery, timestamp_ms, status, capacity) VALUES (?, ?, ?, ?)")
	if err != nil {
		tx.Rollback()
		return 0, err
	}
	defer stmt.Close()

	var inserted int64
	for _, r := range records {
		res, err := stmt.Exec(battery, r.TimestampMS, r.Status, r.Capacity)
		if err != nil {
			tx.Rollback()
			return 0, err
		}
		n, _ := res.RowsAffected()
		inserted += n
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return inserted, nil
}

// Batteries returns the distinct battery identities with indexed history.
func (d *DB) Batteries() ([]string, error) {
	rows, err := d.db.Query("SELECT DISTINCT battery FROM battery_readings ORDER BY battery")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var batteries []string
	for rows.Next() {
		var b string
		if err := rows.Scan(&b); err != nil {
			return nil, err
		}
		batteries = append(batteries, b)
	}
	return batteries, rows.Err()
}

// LatestReading returns the most recent reading for a battery, or nil when
// it has no history.
func (d *DB) LatestReading(battery string) (*battlog.Record, error) {
	row := d.db.QueryRow(
		"SELECT timestamp_ms, status, capacity FROM battery_readings WHERE battery = ? ORDER BY timestamp_ms DESC LIMIT 1",
		battery,
	)
	var r battlog.Record
	err := row.Scan(&r.TimestampMS, &r.Status, &r.Capacity)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// ReadingsInRange returns a battery's readings within [fromMS, toMS],
// oldest first.
func (d *DB) ReadingsInRange(battery string, fromMS, toMS int64) ([]battlog.Record, error) {
	rows, err := d.db.Query(
		"SELECT timestamp_ms, status, capacity FROM battery_readings WHERE battery = ? AND timestamp_ms >= ? AND timestamp_ms <= ? ORDER BY timestamp_ms",
		battery, fromMS, toMS,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var records []battlog.Record
	for rows.Next() {
		var r battlog.Record
		if err := rows.Scan(&r.TimestampMS, &r.Status, &r.Capacity); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
