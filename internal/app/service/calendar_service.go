package service

import (
	"context"
	"errors"
	"time"

	"github.com/ikkim/hairable-backend/internal/app/model"
	"github.com/ikkim/hairable-backend/internal/app/repository"
	"github.com/ikkim/hairable-backend/internal/metrics"
	"github.com/ikkim/hairable-backend/pkg/logger"
	"github.com/ikkim/hairable-backend/pkg/util"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type WorkingHoursInput struct {
	StoreID   uint
	StaffID   uint
	Date      string
	StartTime string
	EndTime   string
	Status    model.WorkStatus
}

type CalendarService interface {
	UpsertWorkingHours(ctx context.Context, actor Principal, input WorkingHoursInput) (*model.WorkingHoursEntry, error)
	GetWorkingStaff(ctx context.Context, actor Principal, storeID uint, date string) ([]model.StaffMembership, error)
	GetStoreCalendar(ctx context.Context, actor Principal, storeID uint, from, to string) ([]model.DailyStaffTally, error)
	RebuildTally(ctx context.Context, actor Principal, storeID uint, date string) (*model.DailyStaffTally, error)
	ListStaffSchedule(ctx context.Context, actor Principal, storeID, staffID uint, from, to string) ([]model.WorkingHoursEntry, error)
}

type calendarService struct {
	db           *gorm.DB
	calendarRepo repository.CalendarRepository
	storeRepo    repository.StoreRepository
	authz        Authorizer
	locker       Locker
}

func NewCalendarService(
	db *gorm.DB,
	calendarRepo repository.CalendarRepository,
	storeRepo repository.StoreRepository,
	authz Authorizer,
	locker Locker,
) CalendarService {
	return &calendarService{
		db:           db,
		calendarRepo: calendarRepo,
		storeRepo:    storeRepo,
		authz:        authz,
		locker:       locker,
	}
}

// UpsertWorkingHours replaces the staff member's entry for the date and refreshes the store tally.
func (s *calendarService) UpsertWorkingHours(ctx context.Context, actor Principal, input WorkingHoursInput) (*model.WorkingHoursEntry, error) {
	entry, err := buildWorkingHoursEntry(input)
	if err != nil {
		return nil, err
	}

	if err := s.authz.Authorize(ctx, actor, ActionCalendarWrite, Resource{StoreID: input.StoreID, StaffID: input.StaffID}); err != nil {
		return nil, err
	}

	release, err := acquireLock(ctx, s.locker, calendarKey(entry.StaffMembershipID, entry.WorkDate))
	if err != nil {
		return nil, err
	}
	defer release()

	tx := s.db.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()
	repo := s.calendarRepo.WithTx(tx)

	membership, err := repo.LockMembership(entry.StaffMembershipID)
	if err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStaffNotFound
		}
		return nil, err
	}
	if membership.StoreID != entry.StoreID {
		tx.Rollback()
		return nil, ErrStaffNotInStore
	}

	if err := repo.ReplaceEntry(entry); err != nil {
		tx.Rollback()
		return nil, err
	}
	tally, err := repo.RecomputeTally(entry.StoreID, entry.WorkDate)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit working hours", err, map[string]interface{}{
			"staff_id":  entry.StaffMembershipID,
			"work_date": entry.WorkDate,
		})
		return nil, err
	}

	metrics.CalendarWrites.WithLabelValues(string(entry.Status)).Inc()
	logger.Info("Working hours saved", map[string]interface{}{
		"store_id":      entry.StoreID,
		"staff_id":      entry.StaffMembershipID,
		"work_date":     entry.WorkDate,
		"status":        entry.Status,
		"working_count": tally.WorkingCount,
		"off_count":     tally.OffCount,
	})
	return entry, nil
}

func buildWorkingHoursEntry(input WorkingHoursInput) (*model.WorkingHoursEntry, error) {
	date, err := util.ParseDate(input.Date)
	if err != nil {
		return nil, formatError("날짜 형식이 올바르지 않습니다 (YYYY-MM-DD)")
	}
	if !input.Status.IsValid() {
		return nil, ErrInvalidWorkStatus
	}

	var start, end time.Duration
	if input.StartTime != "" || input.Status == model.WorkStatusWorking {
		if start, err = util.ParseClock(input.StartTime); err != nil {
			return nil, formatError("시간 형식이 올바르지 않습니다 (HH:MM)")
		}
	}
	if input.EndTime != "" || input.Status == model.WorkStatusWorking {
		if end, err = util.ParseClock(input.EndTime); err != nil {
			return nil, formatError("시간 형식이 올바르지 않습니다 (HH:MM)")
		}
	}
	if input.Status == model.WorkStatusWorking && start >= end {
		return nil, ErrInvalidShift
	}

	return &model.WorkingHoursEntry{
		StaffMembershipID: input.StaffID,
		StoreID:           input.StoreID,
		WorkDate:          date,
		StartTime:         datatypes.Time(start),
		EndTime:           datatypes.Time(end),
		Status:            input.Status,
	}, nil
}

func (s *calendarService) GetWorkingStaff(ctx context.Context, actor Principal, storeID uint, date string) ([]model.StaffMembership, error) {
	if err := s.authz.Authorize(ctx, actor, ActionCalendarView, Resource{StoreID: storeID}); err != nil {
		return nil, err
	}
	day, err := util.ParseDate(date)
	if err != nil {
		return nil, formatError("날짜 형식이 올바르지 않습니다 (YYYY-MM-DD)")
	}
	return s.calendarRepo.ListWorkingStaff(storeID, day)
}

func (s *calendarService) GetStoreCalendar(ctx context.Context, actor Principal, storeID uint, from, to string) ([]model.DailyStaffTally, error) {
	if err := s.authz.Authorize(ctx, actor, ActionCalendarView, Resource{StoreID: storeID}); err != nil {
		return nil, err
	}
	start, end, err := parseDateRange(from, to)
	if err != nil {
		return nil, err
	}
	return s.calendarRepo.ListTallies(storeID, start, end)
}

// RebuildTally recomputes the cached daily tally from the working hours entries.
func (s *calendarService) RebuildTally(ctx context.Context, actor Principal, storeID uint, date string) (*model.DailyStaffTally, error) {
	if err := s.authz.Authorize(ctx, actor, ActionCalendarWrite, Resource{StoreID: storeID}); err != nil {
		return nil, err
	}
	day, err := util.ParseDate(date)
	if err != nil {
		return nil, formatError("날짜 형식이 올바르지 않습니다 (YYYY-MM-DD)")
	}

	var tally *model.DailyStaffTally
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txErr error
		tally, txErr = s.calendarRepo.WithTx(tx).RecomputeTally(storeID, day)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return tally, nil
}

func (s *calendarService) ListStaffSchedule(ctx context.Context, actor Principal, storeID, staffID uint, from, to string) ([]model.WorkingHoursEntry, error) {
	if err := s.authz.Authorize(ctx, actor, ActionCalendarView, Resource{StoreID: storeID}); err != nil {
		return nil, err
	}
	start, end, err := parseDateRange(from, to)
	if err != nil {
		return nil, err
	}

	membership, err := s.storeRepo.FindMembershipByID(staffID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStaffNotFound
		}
		return nil, err
	}
	if membership.StoreID != storeID {
		return nil, ErrStaffNotInStore
	}
	return s.calendarRepo.ListEntries(staffID, start, end)
}

func parseDateRange(from, to string) (string, string, error) {
	start, err := util.ParseDate(from)
	if err != nil {
		return "", "", formatError("시작 날짜 형식이 올바르지 않습니다 (YYYY-MM-DD)")
	}
	end, err := util.ParseDate(to)
	if err != nil {
		return "", "", formatError("종료 날짜 형식이 올바르지 않습니다 (YYYY-MM-DD)")
	}
	if start > end {
		return "", "", ErrInvalidDateRange
	}
	return start, end, nil
}
