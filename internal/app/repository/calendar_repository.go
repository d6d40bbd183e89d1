package repository

import (
	"time"

	"github.com/ikkim/hairable-backend/internal/app/model"
	"github.com/ikkim/hairable-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CalendarRepository interface {
	WithTx(tx *gorm.DB) CalendarRepository
	FindEntry(staffID uint, date string) (*model.WorkingHoursEntry, error)
	ReplaceEntry(entry *model.WorkingHoursEntry) error
	ListEntries(staffID uint, from, to string) ([]model.WorkingHoursEntry, error)
	ListWorkingStaff(storeID uint, date string) ([]model.StaffMembership, error)
	RecomputeTally(storeID uint, date string) (*model.DailyStaffTally, error)
	ListTallies(storeID uint, from, to string) ([]model.DailyStaffTally, error)
	LockMembership(staffID uint) (*model.StaffMembership, error)
}

type calendarRepository struct {
	db *gorm.DB
}

func NewCalendarRepository(db *gorm.DB) CalendarRepository {
	return &calendarRepository{db: db}
}

func (r *calendarRepository) WithTx(tx *gorm.DB) CalendarRepository {
	return &calendarRepository{db: tx}
}

func (r *calendarRepository) FindEntry(staffID uint, date string) (*model.WorkingHoursEntry, error) {
	var entry model.WorkingHoursEntry
	err := r.db.Where("staff_membership_id = ? AND work_date = ?", staffID, date).First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// ReplaceEntry deletes any entry for (staff, date) and inserts the given one.
func (r *calendarRepository) ReplaceEntry(entry *model.WorkingHoursEntry) error {
	err := r.db.
		Where("staff_membership_id = ? AND work_date = ?", entry.StaffMembershipID, entry.WorkDate).
		Delete(&model.WorkingHoursEntry{}).Error
	if err != nil {
		logger.Error("Failed to delete working hours entry", err, map[string]interface{}{
			"staff_id":  entry.StaffMembershipID,
			"work_date": entry.WorkDate,
		})
		return err
	}

	entry.ID = 0
	if err := r.db.Create(entry).Error; err != nil {
		logger.Error("Failed to create working hours entry", err, map[string]interface{}{
			"staff_id":  entry.StaffMembershipID,
			"work_date": entry.WorkDate,
		})
		return err
	}
	return nil
}

func (r *calendarRepository) ListEntries(staffID uint, from, to string) ([]model.WorkingHoursEntry, error) {
	var entries []model.WorkingHoursEntry
	err := r.db.
		Where("staff_membership_id = ?", staffID).
		Where("work_date BETWEEN ? AND ?", from, to).
		Order("work_date ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *calendarRepository) ListWorkingStaff(storeID uint, date string) ([]model.StaffMembership, error) {
	var staff []model.StaffMembership
	err := r.db.
		Preload("User").
		Joins("JOIN working_hours_entries ON working_hours_entries.staff_membership_id = staff_memberships.id").
		Where("working_hours_entries.store_id = ?", storeID).
		Where("working_hours_entries.work_date = ?", date).
		Where("working_hours_entries.status = ?", model.WorkStatusWorking).
		Order("staff_memberships.id ASC").
		Find(&staff).Error
	if err != nil {
		logger.Error("Failed to list working staff", err, map[string]interface{}{
			"store_id": storeID,
			"date":     date,
		})
		return nil, err
	}
	return staff, nil
}

type statusCount struct {
	Status model.WorkStatus
	Total  int
}

// RecomputeTally counts the entries for (store, date) and upserts the tally row.
func (r *calendarRepository) RecomputeTally(storeID uint, date string) (*model.DailyStaffTally, error) {
	var counts []statusCount
	err := r.db.Model(&model.WorkingHoursEntry{}).
		Select("status, COUNT(*) AS total").
		Where("store_id = ? AND work_date = ?", storeID, date).
		Group("status").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}

	tally := model.DailyStaffTally{
		StoreID:   storeID,
		WorkDate:  date,
		UpdatedAt: time.Now(),
	}
	for _, c := range counts {
		switch c.Status {
		case model.WorkStatusWorking:
			tally.WorkingCount = c.Total
		case model.WorkStatusOff:
			tally.OffCount = c.Total
		}
	}

	err = r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "store_id"}, {Name: "work_date"}},
		DoUpdates: clause.AssignmentColumns([]string{"working_count", "off_count", "updated_at"}),
	}).Create(&tally).Error
	if err != nil {
		logger.Error("Failed to upsert daily staff tally", err, map[string]interface{}{
			"store_id": storeID,
			"date":     date,
		})
		return nil, err
	}

	logger.Debug("Daily staff tally recomputed", map[string]interface{}{
		"store_id":      storeID,
		"date":          date,
		"working_count": tally.WorkingCount,
		"off_count":     tally.OffCount,
	})
	return &tally, nil
}

func (r *calendarRepository) ListTallies(storeID uint, from, to string) ([]model.DailyStaffTally, error) {
	var tallies []model.DailyStaffTally
	err := r.db.
		Where("store_id = ?", storeID).
		Where("work_date BETWEEN ? AND ?", from, to).
		Order("work_date ASC").
		Find(&tallies).Error
	if err != nil {
		return nil, err
	}
	return tallies, nil
}

// LockMembership loads the staff membership row FOR UPDATE.
func (r *calendarRepository) LockMembership(staffID uint) (*model.StaffMembership, error) {
	var membership model.StaffMembership
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&membership, staffID).Error
	if err != nil {
		return nil, err
	}
	return &membership, nil
}
