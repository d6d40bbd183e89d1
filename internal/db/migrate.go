package db

import (
	"github.com/ikkim/hairable-backend/internal/app/model"
	"github.com/ikkim/hairable-backend/pkg/logger"
	"gorm.io/gorm"
)

// Models lists every table managed by AutoMigrate, parents first.
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Store{},
		&model.ServiceCategory{},
		&model.InventoryItem{},
		&model.Service{},
		&model.StaffMembership{},
		&model.ServiceInventory{},
		&model.Customer{},
		&model.Reservation{},
		&model.WorkingHoursEntry{},
		&model.DailyStaffTally{},
		&model.SalesReport{},
		&model.SalesLedgerEntry{},
	}
}

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := Models()
	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// Seed adds the default service categories (optional)
func Seed() error {
	return seedServiceCategories(DB)
}

var defaultServiceCategories = []string{"커트", "펌", "염색", "클리닉", "스타일링"}

func seedServiceCategories(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.ServiceCategory{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		logger.Info("Service categories already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	for _, name := range defaultServiceCategories {
		if err := db.Create(&model.ServiceCategory{Name: name}).Error; err != nil {
			logger.Error("Failed to seed service category", err, map[string]interface{}{
				"name": name,
			})
			return err
		}
	}

	logger.Info("Service categories seeded", map[string]interface{}{
		"count": len(defaultServiceCategories),
	})
	return nil
}
