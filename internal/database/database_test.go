package database

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConnectInMemorySQLite(t *testing.T) {
	db, err := Connect(":memory:")
	require.NoError(t, err, "sqlite driver must be registered")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Ping())
}

func TestMigrateAppliesSchema(t *testing.T) {
	db, err := Connect(":memory:")
	require.NoError(t, err)

	require.NoError(t, Migrate(db))

	for _, table := range []string{"users", "properties", "checklists", "checklist_items", "refresh_tokens"} {
		require.True(t, db.Migrator().HasTable(table), "missing table %s", table)
	}
}
