package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "a.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", sqliteDSN("a.db"))
	assert.Equal(t, "a.db?mode=rwc&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", sqliteDSN("a.db?mode=rwc"))
	assert.Equal(t, "a.db?_pragma=foreign_keys(0)", sqliteDSN("a.db?_pragma=foreign_keys(0)"))
}

func TestConnectRejectsUnknownDriver(t *testing.T) {
	_, err := Connect("mysql", "whatever", 0)
	require.Error(t, err)
}

func TestMigrateSQLiteIsRepeatable(t *testing.T) {
	conn, err := Connect(DriverSQLite, filepath.Join(t.TempDir(), "test.db"), defaultTestTimeout)
	require.NoError(t, err)
	defer conn.Close()

	ctx := context.Background()
	require.NoError(t, Migrate(ctx, conn, DriverSQLite))
	require.NoError(t, Migrate(ctx, conn, DriverSQLite))

	var fk int
	require.NoError(t, conn.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fk))
	assert.Equal(t, 1, fk)

	for _, table := range []string{"sports", "users", "players", "training_plans", "training_records", "food_records"} {
		var name string
		err := conn.QueryRowContext(ctx, "SELECT name FROM sqlite_master WHERE type = 'table' AND name = $1", table).Scan(&name)
		require.NoError(t, err, table)
	}
}

func TestMigrateUnknownDriver(t *testing.T) {
	conn, err := Connect(DriverSQLite, filepath.Join(t.TempDir(), "test.db"), defaultTestTimeout)
	require.NoError(t, err)
	defer conn.Close()

	require.Error(t, Migrate(context.Background(), conn, "oracle"))
}
