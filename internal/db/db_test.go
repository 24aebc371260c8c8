package db_test

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/liftdesk/liftdesk/internal/db"
)

// WAL is the key SQLite setting for concurrent reads with single-writer
// throughput; the DSN in Open must enable it.
func TestOpenWALMode(t *testing.T) {
	conn, err := db.Open(filepath.Join(t.TempDir(), "wal_test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	var mode string
	conn.Raw("PRAGMA journal_mode").Scan(&mode)
	if mode != "wal" {
		t.Errorf("expected journal_mode=wal, got %q", mode)
	}
}

func TestMigrateCreatesBookingIndexes(t *testing.T) {
	conn, err := db.Open(filepath.Join(t.TempDir(), "idx_test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("get sql.DB: %v", err)
	}

	found := indexNames(t, sqlDB, "class_bookings")
	for _, want := range []string{"idx_booking_schedule", "idx_booking_member", "idx_booking_date"} {
		if !found[want] {
			t.Errorf("index %q missing from class_bookings; found: %v", want, found)
		}
	}
}

// The booking triple must carry a UNIQUE index; it is what closes the
// double-booking race at the storage layer.
func TestMigrateBookingTripleIsUnique(t *testing.T) {
	conn, err := db.Open(filepath.Join(t.TempDir(), "uniq_test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("get sql.DB: %v", err)
	}

	rows, err := sqlDB.Query("PRAGMA index_list(class_bookings)")
	if err != nil {
		t.Fatalf("PRAGMA index_list: %v", err)
	}
	defer rows.Close()

	haveUnique := false
	for rows.Next() {
		var seq int
		var name string
		var unique bool
		var origin, partial string
		if err := rows.Scan(&seq, &name, &unique, &origin, &partial); err != nil {
			t.Fatalf("scan: %v", err)
		}
		if name == "uniq_booking_occurrence" && unique {
			haveUnique = true
		}
	}
	if !haveUnique {
		t.Error("unique index uniq_booking_occurrence missing from class_bookings")
	}
}

func indexNames(t *testing.T, sqlDB *sql.DB, table string) map[string]bool {
	t.Helper()
	rows, err := sqlDB.Query("PRAGMA index_list(" + table + ")")
	if err != nil {
		t.Fatalf("PRAGMA index_list: %v", err)
	}
	defer rows.Close()

	out := make(map[string]bool)
	for rows.Next() {
		var seq int
		var name string
		var unique bool
		var origin, partial string
		if err := rows.Scan(&seq, &name, &unique, &origin, &partial); err != nil {
			t.Fatalf("scan: %v", err)
		}
		out[name] = true
	}
	return out
}
