package repository

import (
	"github.com/ikkim/hairable-backend/internal/app/model"
	"github.com/ikkim/hairable-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CustomerRepository interface {
	WithTx(tx *gorm.DB) CustomerRepository
	FindByID(id uint) (*model.Customer, error)
	FindByNamePhone(name, phone string) (*model.Customer, error)
	GetOrCreate(name, phone string, gender model.Gender) (*model.Customer, bool, error)
	IncrementReservationCount(id uint) error
	UpdateMembership(id uint, isMembership bool, gender *model.Gender) error
}

type customerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) WithTx(tx *gorm.DB) CustomerRepository {
	return &customerRepository{db: tx}
}

func (r *customerRepository) FindByID(id uint) (*model.Customer, error) {
	var customer model.Customer
	if err := r.db.First(&customer, id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepository) FindByNamePhone(name, phone string) (*model.Customer, error) {
	var customer model.Customer
	err := r.db.Where("name = ? AND phone_number = ?", name, phone).First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// GetOrCreate inserts the customer unless (name, phone) already exists and returns the stored row.
// created is true only when this call inserted it; gender is applied on insert only.
func (r *customerRepository) GetOrCreate(name, phone string, gender model.Gender) (*model.Customer, bool, error) {
	candidate := model.Customer{
		Name:        name,
		PhoneNumber: phone,
		Gender:      gender,
	}
	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}, {Name: "phone_number"}},
		DoNothing: true,
	}).Create(&candidate)
	if result.Error != nil {
		logger.Error("Failed to insert customer", result.Error, map[string]interface{}{
			"name": name,
		})
		return nil, false, result.Error
	}
	created := result.RowsAffected == 1

	customer, err := r.FindByNamePhone(name, phone)
	if err != nil {
		return nil, false, err
	}

	if created {
		logger.Debug("Customer created", map[string]interface{}{
			"customer_id": customer.ID,
		})
	}
	return customer, created, nil
}

func (r *customerRepository) IncrementReservationCount(id uint) error {
	return r.db.Model(&model.Customer{}).
		Where("id = ?", id).
		UpdateColumn("reservation_count", gorm.Expr("reservation_count + ?", 1)).Error
}

func (r *customerRepository) UpdateMembership(id uint, isMembership bool, gender *model.Gender) error {
	updates := map[string]interface{}{
		"is_membership": isMembership,
	}
	if gender != nil {
		updates["gender"] = *gender
	}

	result := r.db.Model(&model.Customer{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		logger.Error("Failed to update customer membership", result.Error, map[string]interface{}{
			"customer_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
