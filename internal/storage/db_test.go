package storage

import (
	"path/filepath"
	"testing"

	"github.com/padiauj/battmon/internal/battlog"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "history.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Fatalf("Close() error = %v", err)
		}
	})

	return db
}

func TestImportAndRangeQuery(t *testing.T) {
	db := openTestDB(t)

	records := []battlog.Record{
		{TimestampMS: 1000, Status: "Discharging", Capacity: 80},
		{TimestampMS: 2000, Status: "Discharging", Capacity: 79},
		{TimestampMS: 3000, Status: "Charging", Capacity: 80},
	}
	n, err := db.ImportRecords("LGC_M_1", records)
	if err != nil {
		t.Fatalf("ImportRecords() error = %v", err)
	}
	if n != 3 {
		t.Fatalf("ImportRecords() inserted = %d, want 3", n)
	}

	got, err := db.ReadingsInRange("LGC_M_1", 1000, 2000)
	if err != nil {
		t.Fatalf("ReadingsInRange() error = %v", err)
	}
	if len(got) != 2 || got[0].TimestampMS != 1000 || got[1].TimestampMS != 2000 {
		t.Fatalf("ReadingsInRange() = %#v, want rows at 1000 and 2000", got)
	}

	latest, err := db.LatestReading("LGC_M_1")
	if err != nil {
		t.Fatalf("LatestReading() error = %v", err)
	}
	if latest == nil || latest.TimestampMS != 3000 || latest.Status != "Charging" {
		t.Fatalf("LatestReading() = %#v, want ts=3000 Charging", latest)
	}
}

func TestImportRecords_ReimportIsIdempotent(t *testing.T) {
	db := openTestDB(t)

	records := []battlog.Record{
		{TimestampMS: 1000, Status: "Discharging", Capacity: 50},
		{TimestampMS: 2000, Status: "Discharging", Capacity: 49},
	}
	if _, err := db.ImportRecords("B", records); err != nil {
		t.Fatalf("first ImportRecords() error = %v", err)
	}

	// Re-import the same file plus one new appended record.
	records = append(records, battlog.Record{TimestampMS: 3000, Status: "Discharging", Capacity: 48})
	n, err := db.ImportRecords("B", records)
	if err != nil {
		t.Fatalf("second ImportRecords() error = %v", err)
	}
	if n != 1 {
		t.Fatalf("second ImportRecords() inserted = %d, want 1 (existing rows ignored)", n)
	}

	got, err := db.ReadingsInRange("B", 0, 9000)
	if err != nil {
		t.Fatalf("ReadingsInRange() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("ReadingsInRange() len = %d, want 3", len(got))
	}
}

func TestBatteries_DistinctIdentities(t *testing.T) {
	db := openTestDB(t)

	if _, err := db.ImportRecords("A_M_1", []battlog.Record{{TimestampMS: 1, Status: "Full", Capacity: 100}}); err != nil {
		t.Fatalf("ImportRecords(A) error = %v", err)
	}
	if _, err := db.ImportRecords("B_M_2", []battlog.Record{{TimestampMS: 1, Status: "Full", Capacity: 100}}); err != nil {
		t.Fatalf("ImportRecords(B) error = %v", err)
	}

	batteries, err := db.Batteries()
	if err != nil {
		t.Fatalf("Batteries() error = %v", err)
	}
	if len(batteries) != 2 || batteries[0] != "A_M_1" || batteries[1] != "B_M_2" {
		t.Fatalf("Batteries() = %#v, want [A_M_1 B_M_2]", batteries)
	}
}

func TestLatestReading_NoHistory(t *testing.T) {
	db := openTestDB(t)

	latest, err := db.LatestReading("unknown")
	if err != nil {
		t.Fatalf("LatestReading() error = %v", err)
	}
	if latest != nil {
		t.Fatalf("LatestReading() = %#v, want nil", latest)
	}
}

func TestDeleteOlderThan(t *testing.T) {
	db := openTestDB(t)

	records := []battlog.Record{
		{TimestampMS: 50, Status: "Discharging", Capacity: 90},
		{TimestampMS: 100, Status: "Discharging", Capacity: 89},
		{TimestampMS: 150, Status: "Discharging", Capacity: 88},
	}
	if _, err := db.ImportRecords("B", records); err != nil {
		t.Fatalf("ImportRecords() error = %v", err)
	}

	deleted, err := db.DeleteOlderThan(100)
	if err != nil {
		t.Fatalf("DeleteOlderThan() error = %v", err)
	}
	if deleted != 1 {
		t.Fatalf("DeleteOlderThan() deleted = %d, want 1 (only the pre-cutoff row)", deleted)
	}

	got, err := db.ReadingsInRange("B", 0, 1000)
	if err != nil {
		t.Fatalf("ReadingsInRange() error = %v", err)
	}
	if len(got) != 2 || got[0].TimestampMS != 100 {
		t.Fatalf("ReadingsInRange() = %#v, want cutoff row and newer", got)
	}
}
