// Package sqlite_test helpers share one schema-loading function so test
// setup can never drift from the schema bootstrap actually runs.
package sqlite_test

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/researchctl/sentinel/internal/db"
)

// setupTestDB opens an in-memory database and loads the named logical
// database's authoritative schema.
func setupTestDB(t *testing.T, name string) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if _, err := conn.Exec(db.GetSchemaSQL(name)); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}
