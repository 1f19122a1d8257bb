// Package dbtest opens a migrated, emptied Postgres database for tests.
package dbtest

import (
	"database/sql"
	"os"
	"testing"

	"github.com/mindgames/backend/internal/database"
)

// Open connects to TEST_DATABASE_URL, migrates it and truncates every
// game table. The test is skipped when the variable is unset.
func Open(t testing.TB) *sql.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping database test")
	}
	if err := database.Migrate(dsn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	_, err = db.Exec(`TRUNCATE user_achievements, achievements, math_session_scores, math_scores,
		math_mixed_scores, math_round1_scores, memory_scores, reaction_scores, users RESTART IDENTITY CASCADE`)
	if err != nil {
		t.Fatalf("truncate: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}
