package database_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	database "ilmhub_backend/internals/databases"
	"ilmhub_backend/internals/testkit"
)

func TestMigrate(t *testing.T) {
	db := testkit.NewDB(t)
	require.NoError(t, database.Migrate(db))
	// second run is a no-op
	require.NoError(t, database.Migrate(db))

	for _, table := range []string{"users", "books", "orders", "events", "payment_gateway_events", "subscriptions"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}
