package repository

import (
	"github.com/ikkim/hairable-backend/internal/app/model"
	"github.com/ikkim/hairable-backend/pkg/logger"
	"gorm.io/gorm"
)

type StoreRepository interface {
	Create(store *model.Store) error
	FindByID(id uint) (*model.Store, error)
	ListForUser(userID uint) ([]model.Store, error)
	Delete(id uint) error

	CreateMembership(membership *model.StaffMembership) error
	FindMembershipByID(id uint) (*model.StaffMembership, error)
	FindMembership(storeID, userID uint) (*model.StaffMembership, error)
	ListMemberships(storeID uint) ([]model.StaffMembership, error)
	DeleteMembership(id uint) error
}

type storeRepository struct {
	db *gorm.DB
}

func NewStoreRepository(db *gorm.DB) StoreRepository {
	return &storeRepository{db: db}
}

func (r *storeRepository) Create(store *model.Store) error {
	logger.Debug("Creating store in database", map[string]interface{}{
		"name":     store.Name,
		"owner_id": store.OwnerID,
	})

	if err := r.db.Create(store).Error; err != nil {
		logger.Error("Failed to create store in database", err, map[string]interface{}{
			"name":     store.Name,
			"owner_id": store.OwnerID,
		})
		return err
	}

	logger.Debug("Store created in database", map[string]interface{}{
		"store_id": store.ID,
		"name":     store.Name,
	})
	return nil
}

func (r *storeRepository) FindByID(id uint) (*model.Store, error) {
	logger.Debug("Finding store by ID", map[string]interface{}{
		"store_id": id,
	})

	var store model.Store
	if err := r.db.First(&store, id).Error; err != nil {
		logger.Debug("Store not found", map[string]interface{}{
			"store_id": id,
			"error":    err.Error(),
		})
		return nil, err
	}
	return &store, nil
}

// ListForUser returns stores the user owns or belongs to as staff
func (r *storeRepository) ListForUser(userID uint) ([]model.Store, error) {
	var stores []model.Store
	err := r.db.
		Where("owner_id = ?", userID).
		Or("id IN (?)", r.db.Model(&model.StaffMembership{}).Select("store_id").Where("user_id = ?", userID)).
		Order("name ASC").
		Find(&stores).Error
	if err != nil {
		logger.Error("Failed to list stores for user", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("Stores listed for user", map[string]interface{}{
		"user_id": userID,
		"count":   len(stores),
	})
	return stores, nil
}

// Delete removes the store and everything it owns in one transaction.
func (r *storeRepository) Delete(id uint) error {
	logger.Debug("Deleting store from database", map[string]interface{}{
		"store_id": id,
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		staffIDs := tx.Model(&model.StaffMembership{}).Select("id").Where("store_id = ?", id)
		serviceIDs := tx.Model(&model.Service{}).Select("id").Where("store_id = ?", id)

		steps := []struct {
			table string
			run   func() error
		}{
			{"sales_ledger_entries", func() error { return tx.Where("store_id = ?", id).Delete(&model.SalesLedgerEntry{}).Error }},
			{"sales_reports", func() error { return tx.Where("store_id = ?", id).Delete(&model.SalesReport{}).Error }},
			{"daily_staff_tallies", func() error { return tx.Where("store_id = ?", id).Delete(&model.DailyStaffTally{}).Error }},
			{"working_hours_entries", func() error { return tx.Where("store_id = ?", id).Delete(&model.WorkingHoursEntry{}).Error }},
			{"reservations", func() error { return tx.Where("store_id = ?", id).Delete(&model.Reservation{}).Error }},
			{"service_designers", func() error {
				return tx.Exec("DELETE FROM service_designers WHERE staff_membership_id IN (?) OR service_id IN (?)", staffIDs, serviceIDs).Error
			}},
			{"service_inventories", func() error { return tx.Where("service_id IN (?)", serviceIDs).Delete(&model.ServiceInventory{}).Error }},
			{"services", func() error { return tx.Where("store_id = ?", id).Delete(&model.Service{}).Error }},
			{"staff_memberships", func() error { return tx.Where("store_id = ?", id).Delete(&model.StaffMembership{}).Error }},
			{"stores", func() error { return tx.Delete(&model.Store{}, id).Error }},
		}
		for _, step := range steps {
			if err := step.run(); err != nil {
				logger.Error("Failed to delete store data", err, map[string]interface{}{
					"store_id": id,
					"table":    step.table,
				})
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Debug("Store deleted from database", map[string]interface{}{
		"store_id": id,
	})
	return nil
}

func (r *storeRepository) CreateMembership(membership *model.StaffMembership) error {
	logger.Debug("Creating staff membership in database", map[string]interface{}{
		"store_id": membership.StoreID,
		"user_id":  membership.UserID,
		"role":     membership.Role,
	})

	if err := r.db.Create(membership).Error; err != nil {
		logger.Error("Failed to create staff membership", err, map[string]interface{}{
			"store_id": membership.StoreID,
			"user_id":  membership.UserID,
		})
		return err
	}
	return nil
}

func (r *storeRepository) FindMembershipByID(id uint) (*model.StaffMembership, error) {
	var membership model.StaffMembership
	if err := r.db.Preload("User").First(&membership, id).Error; err != nil {
		logger.Debug("Staff membership not found", map[string]interface{}{
			"staff_id": id,
			"error":    err.Error(),
		})
		return nil, err
	}
	return &membership, nil
}

func (r *storeRepository) FindMembership(storeID, userID uint) (*model.StaffMembership, error) {
	var membership model.StaffMembership
	err := r.db.Where("store_id = ? AND user_id = ?", storeID, userID).First(&membership).Error
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

func (r *storeRepository) ListMemberships(storeID uint) ([]model.StaffMembership, error) {
	var memberships []model.StaffMembership
	err := r.db.
		Preload("User").
		Preload("EligibleServices").
		Where("store_id = ?", storeID).
		Order("id ASC").
		Find(&memberships).Error
	if err != nil {
		logger.Error("Failed to list staff memberships", err, map[string]interface{}{
			"store_id": storeID,
		})
		return nil, err
	}
	return memberships, nil
}

// DeleteMembership removes the membership, its service eligibility and its calendar rows.
// Reservations stay and become unassigned.
func (r *storeRepository) DeleteMembership(id uint) error {
	logger.Debug("Deleting staff membership", map[string]interface{}{
		"staff_id": id,
	})

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM service_designers WHERE staff_membership_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Where("staff_membership_id = ?", id).Delete(&model.WorkingHoursEntry{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Reservation{}).Where("staff_membership_id = ?", id).Update("staff_membership_id", nil).Error; err != nil {
			return err
		}
		result := tx.Delete(&model.StaffMembership{}, id)
		if result.Error != nil {
			logger.Error("Failed to delete staff membership", result.Error, map[string]interface{}{
				"staff_id": id,
			})
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
