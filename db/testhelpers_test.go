package db

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

// setupTestDB opens a fresh in-memory sqlite database without running the
// full migrate() set, so individual _test.go files can create just the
// table(s) they exercise (mirroring each test file's own CREATE TABLE call).
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	sqlDB, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	d := &DB{db: sqlDB}
	if _, err := d.db.Exec(sqlCreateAccountsTable); err != nil {
		t.Fatalf("failed to create accounts table: %v", err)
	}

	return d
}
