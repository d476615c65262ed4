package storage

import "fmt"

// DeleteOlderThan deletes indexed readings with a timestamp before the given
// unix-millisecond cutoff. Returns the number of deleted rows. Only the
// index is pruned; the append-only log files are never touched.
func (d *DB) DeleteOlderThan(beforeMS int64) (int64, error) {
	res, err := d.db.Exec("DELETE FROM battery_readings WHERE timestamp_ms < ?", beforeMS)
	if err != nil {
		return 0, fmt.Errorf("delete old readings: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
