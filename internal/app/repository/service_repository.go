package repository

import (
	"github.com/ikkim/hairable-backend/internal/app/model"
	"github.com/ikkim/hairable-backend/pkg/logger"
	"gorm.io/gorm"
)

// ServiceRepository stores the service catalog (categories, services, designers, consumption)
type ServiceRepository interface {
	CreateCategory(category *model.ServiceCategory) error
	FindCategoryByID(id uint) (*model.ServiceCategory, error)
	ListCategories() ([]model.ServiceCategory, error)

	Create(service *model.Service) error
	FindByID(id uint) (*model.Service, error)
	ListByStore(storeID uint) ([]model.Service, error)
	ReplaceDesigners(serviceID uint, staffIDs []uint) error
	ReplaceInventory(serviceID uint, requirements []model.ServiceInventory) error
	CountDesigners(serviceID uint) (int64, error)
}

type serviceRepository struct {
	db *gorm.DB
}

func NewServiceRepository(db *gorm.DB) ServiceRepository {
	return &serviceRepository{db: db}
}

func (r *serviceRepository) CreateCategory(category *model.ServiceCategory) error {
	if err := r.db.Create(category).Error; err != nil {
		logger.Error("Failed to create service category", err, map[string]interface{}{
			"name": category.Name,
		})
		return err
	}
	return nil
}

func (r *serviceRepository) FindCategoryByID(id uint) (*model.ServiceCategory, error) {
	var category model.ServiceCategory
	if err := r.db.First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *serviceRepository) ListCategories() ([]model.ServiceCategory, error) {
	var categories []model.ServiceCategory
	if err := r.db.Order("name ASC").Find(&categories).Error; err != nil {
		logger.Error("Failed to list service categories", err)
		return nil, err
	}
	return categories, nil
}

func (r *serviceRepository) Create(service *model.Service) error {
	logger.Debug("Creating service in database", map[string]interface{}{
		"store_id": service.StoreID,
		"name":     service.Name,
	})

	if err := r.db.Create(service).Error; err != nil {
		logger.Error("Failed to create service in database", err, map[string]interface{}{
			"store_id": service.StoreID,
			"name":     service.Name,
		})
		return err
	}
	return nil
}

// FindByID loads the service with its category, designers and inventory requirements
func (r *serviceRepository) FindByID(id uint) (*model.Service, error) {
	var service model.Service
	err := r.db.
		Preload("Category").
		Preload("Designers").
		Preload("Inventory.InventoryItem").
		First(&service, id).Error
	if err != nil {
		logger.Debug("Service not found", map[string]interface{}{
			"service_id": id,
			"error":      err.Error(),
		})
		return nil, err
	}
	return &service, nil
}

func (r *serviceRepository) ListByStore(storeID uint) ([]model.Service, error) {
	var services []model.Service
	err := r.db.
		Preload("Category").
		Preload("Designers").
		Preload("Inventory.InventoryItem").
		Where("store_id = ?", storeID).
		Order("id ASC").
		Find(&services).Error
	if err != nil {
		logger.Error("Failed to list services", err, map[string]interface{}{
			"store_id": storeID,
		})
		return nil, err
	}
	return services, nil
}

func (r *serviceRepository) ReplaceDesigners(serviceID uint, staffIDs []uint) error {
	logger.Debug("Replacing service designers", map[string]interface{}{
		"service_id": serviceID,
		"staff_ids":  staffIDs,
	})

	var designers []model.StaffMembership
	if len(staffIDs) > 0 {
		if err := r.db.Where("id IN ?", staffIDs).Find(&designers).Error; err != nil {
			return err
		}
	}

	service := model.Service{ID: serviceID}
	association := r.db.Model(&service).Association("Designers")
	var err error
	if len(designers) == 0 {
		err = association.Clear()
	} else {
		err = association.Replace(designers)
	}
	if err != nil {
		logger.Error("Failed to replace service designers", err, map[string]interface{}{
			"service_id": serviceID,
		})
		return err
	}
	return nil
}

func (r *serviceRepository) ReplaceInventory(serviceID uint, requirements []model.ServiceInventory) error {
	logger.Debug("Replacing service inventory requirements", map[string]interface{}{
		"service_id": serviceID,
		"count":      len(requirements),
	})

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("service_id = ?", serviceID).Delete(&model.ServiceInventory{}).Error; err != nil {
			return err
		}
		if len(requirements) == 0 {
			return nil
		}
		for i := range requirements {
			requirements[i].ID = 0
			requirements[i].ServiceID = serviceID
		}
		if err := tx.Create(&requirements).Error; err != nil {
			logger.Error("Failed to create service inventory requirements", err, map[string]interface{}{
				"service_id": serviceID,
			})
			return err
		}
		return nil
	})
}

func (r *serviceRepository) CountDesigners(serviceID uint) (int64, error) {
	var count int64
	err := r.db.Table("service_designers").Where("service_id = ?", serviceID).Count(&count).Error
	return count, err
}
