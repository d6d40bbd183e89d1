package service

import (
	"context"
	"sync"
	"testing"

	"github.com/ikkim/hairable-backend/internal/app/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReservationService_CreateReservation_ConcurrentSameStaff(t *testing.T) {
	f := setupSalonTest(t)
	f.workShift(t, "2024-10-10", 9, 17)

	const attempts = 5
	errs := make([]error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// 10:00, 10:10, ... 모두 서로 겹치는 60분 시술
			_, errs[i] = f.reservations.CreateReservation(context.Background(), f.ownerActor(), f.bookingInput(at("2024-10-10", 10, i*10)))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrReservationOverlap)
	}
	assert.Equal(t, 1, succeeded)

	var count int64
	require.NoError(t, f.db.Model(&model.Reservation{}).Where("staff_membership_id = ?", f.designer.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestLedgerService_RecordCompletion_Concurrent(t *testing.T) {
	f := setupSalonTest(t)
	ctx := context.Background()
	f.workShift(t, "2024-10-10", 9, 17)

	var ids []uint
	for _, hour := range []int{10, 13} {
		input := f.bookingInput(at("2024-10-10", hour, 0))
		input.Status = string(model.ReservationConfirmed)
		reservation, err := f.reservations.CreateReservation(ctx, f.ownerActor(), input)
		require.NoError(t, err)
		// 원장 반영 없이 완료 상태로만 전환
		require.NoError(t, f.db.Model(&model.Reservation{}).Where("id = ?", reservation.ID).
			Update("status", model.ReservationCompleted).Error)
		ids = append(ids, reservation.ID)
	}

	var wg sync.WaitGroup
	errs := make(chan error, len(ids)*2)
	for _, id := range ids {
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func(id uint) {
				defer wg.Done()
				_, err := f.ledger.RecordCompletion(ctx, id)
				errs <- err
			}(id)
		}
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}

	for _, id := range ids {
		count, err := f.salesRepo.CountEntriesForReservation(id)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	}

	entries, err := f.salesRepo.ListEntries(f.store.ID, "2024-10-10")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	revenue, expenses, profit := decimal.Zero, decimal.Zero, decimal.Zero
	for _, entry := range entries {
		revenue = revenue.Add(entry.Revenue)
		expenses = expenses.Add(entry.Expenses)
		profit = profit.Add(entry.Profit)
	}

	report, err := f.salesRepo.FindReport(f.store.ID, "2024-10-10")
	require.NoError(t, err)
	requireDecimal(t, 200, report.TotalRevenue)
	requireDecimal(t, 40, report.TotalExpenses)
	requireDecimal(t, 160, report.NetProfit)
	assert.True(t, revenue.Equal(report.TotalRevenue))
	assert.True(t, expenses.Equal(report.TotalExpenses))
	assert.True(t, profit.Equal(report.NetProfit))
}
