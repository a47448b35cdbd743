package database

import (
	"gorm.io/gorm"

	"github.com/lacasadelchilaquil/chilaquiles-app/models"
	"github.com/lacasadelchilaquil/chilaquiles-app/utils"
)

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
	)
}

// ResetOrders wipes every order. This is the only code path that deletes
// orders; nothing in normal operation does.
func ResetOrders(db *gorm.DB) error {
	if err := db.Where("1 = 1").Delete(&models.OrderItem{}).Error; err != nil {
		return err
	}
	if err := db.Where("1 = 1").Delete(&models.Order{}).Error; err != nil {
		return err
	}
	utils.InfoLogger.Println("All orders cleared")
	return nil
}
