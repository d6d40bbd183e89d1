package db

import (
	"testing"

	"github.com/ikkim/hairable-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupTestDB_CreatesAllTables(t *testing.T) {
	testDB, err := SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		CleanupTestDB(testDB)
	})

	for _, table := range []string{"stores", "staff_memberships", "service_designers", "reservations", "sales_ledger_entries"} {
		assert.True(t, testDB.Migrator().HasTable(table), table)
	}
}

func TestSeedServiceCategories_Idempotent(t *testing.T) {
	testDB, err := SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		CleanupTestDB(testDB)
	})

	require.NoError(t, seedServiceCategories(testDB))
	require.NoError(t, seedServiceCategories(testDB))

	var count int64
	testDB.Model(&model.ServiceCategory{}).Count(&count)
	assert.Equal(t, int64(len(defaultServiceCategories)), count)
}

func TestTruncateAllTables(t *testing.T) {
	testDB, err := SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		CleanupTestDB(testDB)
	})

	require.NoError(t, testDB.Create(&model.User{Email: "a@b.c", Name: "원장"}).Error)
	require.NoError(t, TruncateAllTables(testDB))

	var count int64
	testDB.Model(&model.User{}).Count(&count)
	assert.Zero(t, count)
}
