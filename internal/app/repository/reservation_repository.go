package repository

import (
	"github.com/ikkim/hairable-backend/internal/app/model"
	"github.com/ikkim/hairable-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReservationFilter struct {
	Date   string
	Status model.ReservationStatus
}

type ReservationRepository interface {
	WithTx(tx *gorm.DB) ReservationRepository
	Create(reservation *model.Reservation) error
	FindByID(id uint) (*model.Reservation, error)
	FindByIDForUpdate(id uint) (*model.Reservation, error)
	FindForLedger(id uint) (*model.Reservation, error)
	ListByStore(storeID uint, filter ReservationFilter) ([]model.Reservation, error)
	FindBookedForStaff(staffID uint, dates []string, excludeID uint) ([]model.Reservation, error)
	FindCompletedWithoutLedger(limit int) ([]model.Reservation, error)
	Update(reservation *model.Reservation) error
}

type reservationRepository struct {
	db *gorm.DB
}

func NewReservationRepository(db *gorm.DB) ReservationRepository {
	return &reservationRepository{db: db}
}

func (r *reservationRepository) WithTx(tx *gorm.DB) ReservationRepository {
	return &reservationRepository{db: tx}
}

func (r *reservationRepository) Create(reservation *model.Reservation) error {
	logger.Debug("Creating reservation in database", map[string]interface{}{
		"store_id":   reservation.StoreID,
		"service_id": reservation.ServiceID,
		"staff_id":   reservation.StaffMembershipID,
		"date":       reservation.ReservationDate,
	})

	if err := r.db.Create(reservation).Error; err != nil {
		logger.Error("Failed to create reservation in database", err, map[string]interface{}{
			"store_id":   reservation.StoreID,
			"service_id": reservation.ServiceID,
		})
		return err
	}
	return nil
}

func (r *reservationRepository) FindByID(id uint) (*model.Reservation, error) {
	var reservation model.Reservation
	err := r.db.
		Preload("Service").
		Preload("Staff.User").
		Preload("Customer").
		First(&reservation, id).Error
	if err != nil {
		logger.Debug("Reservation not found", map[string]interface{}{
			"reservation_id": id,
			"error":          err.Error(),
		})
		return nil, err
	}
	return &reservation, nil
}

// FindByIDForUpdate locks the reservation row without preloading relations.
func (r *reservationRepository) FindByIDForUpdate(id uint) (*model.Reservation, error) {
	var reservation model.Reservation
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&reservation, id).Error
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

// FindForLedger loads everything needed to price a completed reservation.
func (r *reservationRepository) FindForLedger(id uint) (*model.Reservation, error) {
	var reservation model.Reservation
	err := r.db.
		Preload("Service.Inventory.InventoryItem").
		Preload("Customer").
		First(&reservation, id).Error
	if err != nil {
		return nil, err
	}
	return &reservation, nil
}

func (r *reservationRepository) ListByStore(storeID uint, filter ReservationFilter) ([]model.Reservation, error) {
	query := r.db.
		Preload("Service").
		Preload("Staff.User").
		Where("store_id = ?", storeID)

	if filter.Date != "" {
		query = query.Where("reservation_date = ?", filter.Date)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var reservations []model.Reservation
	if err := query.Order("reservation_time ASC").Find(&reservations).Error; err != nil {
		logger.Error("Failed to list reservations", err, map[string]interface{}{
			"store_id": storeID,
		})
		return nil, err
	}
	return reservations, nil
}

// FindBookedForStaff returns every non-cancelled reservation of the staff member on the given business dates.
// Completed visits keep their slot.
func (r *reservationRepository) FindBookedForStaff(staffID uint, dates []string, excludeID uint) ([]model.Reservation, error) {
	query := r.db.
		Where("staff_membership_id = ?", staffID).
		Where("status <> ?", model.ReservationCancelled).
		Where("reservation_date IN ?", dates)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var reservations []model.Reservation
	if err := query.Order("reservation_time ASC").Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

func (r *reservationRepository) FindCompletedWithoutLedger(limit int) ([]model.Reservation, error) {
	var reservations []model.Reservation
	err := r.db.
		Where("status = ?", model.ReservationCompleted).
		Where("id NOT IN (?)", r.db.Model(&model.SalesLedgerEntry{}).Select("reservation_id")).
		Order("id ASC").
		Limit(limit).
		Find(&reservations).Error
	if err != nil {
		logger.Error("Failed to find completed reservations without ledger", err)
		return nil, err
	}
	return reservations, nil
}

func (r *reservationRepository) Update(reservation *model.Reservation) error {
	err := r.db.Model(reservation).
		Select("reservation_time", "reservation_date", "status", "completed_at", "updated_at").
		Updates(reservation).Error
	if err != nil {
		logger.Error("Failed to update reservation", err, map[string]interface{}{
			"reservation_id": reservation.ID,
		})
		return err
	}
	return nil
}
