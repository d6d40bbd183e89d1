package repository

import (
	"testing"

	"github.com/ikkim/hairable-backend/internal/app/model"
	"github.com/ikkim/hairable-backend/internal/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupSalesTest(t *testing.T) (*gorm.DB, SalesRepository) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})
	return testDB, NewSalesRepository(testDB)
}

func ledgerLine(reservationID uint, date string, kind model.LedgerEntryKind, revenue, expenses int64) *model.SalesLedgerEntry {
	return &model.SalesLedgerEntry{
		ReservationID: reservationID,
		StoreID:       1,
		ReportDate:    date,
		Kind:          kind,
		Revenue:       decimal.NewFromInt(revenue),
		Expenses:      decimal.NewFromInt(expenses),
		Profit:        decimal.NewFromInt(revenue - expenses),
		ServicePrice:  decimal.NewFromInt(revenue),
		DiscountRate:  decimal.Zero,
	}
}

func TestSalesRepository_EnsureReport_Idempotent(t *testing.T) {
	testDB, repo := setupSalesTest(t)

	require.NoError(t, repo.EnsureReport(1, "2024-05-01"))
	require.NoError(t, repo.EnsureReport(1, "2024-05-01"))

	var count int64
	require.NoError(t, testDB.Model(&model.SalesReport{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	report, err := repo.LockReport(1, "2024-05-01")
	require.NoError(t, err)
	assert.True(t, report.TotalRevenue.IsZero())
}

func TestSalesRepository_Sums(t *testing.T) {
	_, repo := setupSalesTest(t)

	require.NoError(t, repo.AppendEntry(ledgerLine(10, "2024-05-01", model.LedgerPosting, 90, 20)))
	require.NoError(t, repo.AppendEntry(ledgerLine(11, "2024-05-01", model.LedgerPosting, 50, 10)))
	require.NoError(t, repo.AppendEntry(ledgerLine(11, "2024-05-01", model.LedgerReversal, -50, -10)))

	byReservation, err := repo.SumForReservation(11)
	require.NoError(t, err)
	assert.True(t, byReservation.IsZero())

	byDate, err := repo.SumForStoreDate(1, "2024-05-01")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(90).Equal(byDate.Revenue))
	assert.True(t, decimal.NewFromInt(20).Equal(byDate.Expenses))
	assert.True(t, decimal.NewFromInt(70).Equal(byDate.Profit))

	count, err := repo.CountEntriesForReservation(11)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	empty, err := repo.SumForReservation(999)
	require.NoError(t, err)
	assert.True(t, empty.IsZero())
}

func TestSalesRepository_Summarize(t *testing.T) {
	testDB, repo := setupSalesTest(t)

	reports := []model.SalesReport{
		{StoreID: 1, ReportDate: "2024-04-30", TotalRevenue: decimal.NewFromInt(100), TotalExpenses: decimal.NewFromInt(10), NetProfit: decimal.NewFromInt(90)},
		{StoreID: 1, ReportDate: "2024-05-01", TotalRevenue: decimal.NewFromInt(200), TotalExpenses: decimal.NewFromInt(20), NetProfit: decimal.NewFromInt(180)},
		{StoreID: 1, ReportDate: "2024-05-02", TotalRevenue: decimal.NewFromInt(300), TotalExpenses: decimal.NewFromInt(30), NetProfit: decimal.NewFromInt(270)},
		{StoreID: 2, ReportDate: "2024-05-02", TotalRevenue: decimal.NewFromInt(999), TotalExpenses: decimal.Zero, NetProfit: decimal.NewFromInt(999)},
	}
	require.NoError(t, testDB.Create(&reports).Error)

	daily, err := repo.Summarize(1, "2024-04-01", "2024-05-31", GranularityDaily)
	require.NoError(t, err)
	require.Len(t, daily, 3)
	assert.Equal(t, "2024-04-30", daily[0].Bucket)
	assert.Equal(t, "2024-05-02", daily[2].Bucket)

	monthly, err := repo.Summarize(1, "2024-04-01", "2024-05-31", GranularityMonthly)
	require.NoError(t, err)
	require.Len(t, monthly, 2)
	assert.Equal(t, "2024-04", monthly[0].Bucket)
	assert.Equal(t, "2024-05", monthly[1].Bucket)
	assert.True(t, decimal.NewFromInt(500).Equal(monthly[1].Revenue))
	assert.True(t, decimal.NewFromInt(450).Equal(monthly[1].Profit))

	yearly, err := repo.Summarize(1, "2024-01-01", "2024-12-31", GranularityYearly)
	require.NoError(t, err)
	require.Len(t, yearly, 1)
	assert.Equal(t, "2024", yearly[0].Bucket)
	assert.True(t, decimal.NewFromInt(60).Equal(yearly[0].Expenses))

	_, err = repo.Summarize(1, "2024-01-01", "2024-12-31", Granularity("weekly"))
	assert.Error(t, err)
}
