// Package testutil holds helpers shared by package tests.
package testutil

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Dosada05/team-manager/db"
)

// NopLogger returns a logger that discards all output.
func NopLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// NewSQLite opens a migrated sqlite database in a temporary directory.
// The database is closed when the test finishes.
func NewSQLite(t testing.TB) *sql.DB {
	t.Helper()

	conn, err := db.Connect(db.DriverSQLite, filepath.Join(t.TempDir(), "test.db"), 5*time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, db.Migrate(context.Background(), conn, db.DriverSQLite))
	return conn
}
