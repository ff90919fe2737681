// Package sqlite_test contains integration tests for SQLite repositories.
//
// This file is the single point where the database schema is loaded for
// tests. All test setup uses db.GetSchemaSQL() so tests run against the
// authoritative schema, preventing drift between test and production.
package sqlite_test

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/strat/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if _, err = testDB.Exec(db.GetSchemaSQL()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedProject inserts a test project and returns its ID.
func seedProject(t *testing.T, db *sql.DB, id string) string {
	t.Helper()
	if id == "" {
		id = "project_0001"
	}
	if _, err := db.Exec("INSERT INTO projects (id) VALUES (?)", id); err != nil {
		t.Fatalf("failed to seed project: %v", err)
	}
	return id
}
