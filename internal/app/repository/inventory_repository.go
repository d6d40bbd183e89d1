package repository

import (
	"github.com/ikkim/hairable-backend/internal/app/model"
	"gorm.io/gorm"
)

// InventoryRepository is a read-only view over items managed by the inventory system
type InventoryRepository interface {
	FindByID(id uint) (*model.InventoryItem, error)
	FindByIDs(ids []uint) ([]model.InventoryItem, error)
	ListBelowSafetyStock() ([]model.InventoryItem, error)
}

type inventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) FindByID(id uint) (*model.InventoryItem, error) {
	var item model.InventoryItem
	if err := r.db.First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *inventoryRepository) FindByIDs(ids []uint) ([]model.InventoryItem, error) {
	var items []model.InventoryItem
	if len(ids) == 0 {
		return items, nil
	}
	if err := r.db.Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *inventoryRepository) ListBelowSafetyStock() ([]model.InventoryItem, error) {
	var items []model.InventoryItem
	if err := r.db.Where("stock < safety_stock").Order("name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}
