package database

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/lacasadelchilaquil/chilaquiles-app/lifecycle"
	"github.com/lacasadelchilaquil/chilaquiles-app/models"
	"github.com/lacasadelchilaquil/chilaquiles-app/utils"
)

// Seed loads the demo catalog and staff accounts. Safe to run repeatedly;
// it skips anything already present.
func Seed(db *gorm.DB) error {
	if err := seedProducts(db); err != nil {
		return err
	}
	return seedUsers(db)
}

func seedProducts(db *gorm.DB) error {
	var count int64
	db.Model(&models.Product{}).Count(&count)
	if count > 0 {
		return nil
	}

	products := []models.Product{
		{Name: "Totopos Tradicionales", Description: "Totopos de maíz crujientes", Price: 45.00, Category: models.CategoryTortillaChips, Available: true},
		{Name: "Totopos de Maíz Azul", Description: "Totopos artesanales de maíz azul", Price: 55.00, Category: models.CategoryTortillaChips, Available: true},
		{Name: "Salsa Verde", Description: "Salsa de chile serrano y tomatillo", Price: 15.00, Category: models.CategorySauce, Available: true},
		{Name: "Salsa Roja", Description: "Salsa de chile guajillo y jitomate", Price: 15.00, Category: models.CategorySauce, Available: true},
		{Name: "Pollo Deshebrado", Description: "Pollo deshebrado sazonado", Price: 25.00, Category: models.CategoryProtein, Available: true},
		{Name: "Huevo Estrellado", Description: "Huevo frito", Price: 20.00, Category: models.CategoryProtein, Available: true},
		{Name: "Queso Fresco", Description: "Queso fresco desmoronado", Price: 12.00, Category: models.CategoryTopping, Available: true},
		{Name: "Crema", Description: "Crema ácida", Price: 10.00, Category: models.CategoryTopping, Available: true},
		{Name: "Cebolla Morada", Description: "Aros de cebolla morada", Price: 8.00, Category: models.CategoryTopping, Available: true},
		{Name: "Frijoles Refritos", Description: "Porción de frijoles refritos", Price: 18.00, Category: models.CategoryExtras, Available: true},
		{Name: "Aguacate", Description: "Rebanadas de aguacate", Price: 22.00, Category: models.CategoryExtras, Available: true},
		{Name: "Café de Olla", Description: "Café tradicional mexicano con canela", Price: 35.00, Category: models.CategoryDrink, Available: true},
		{Name: "Agua de Jamaica", Description: "Agua fresca de flor de jamaica", Price: 28.00, Category: models.CategoryDrink, Available: true},
	}

	if err := db.Create(&products).Error; err != nil {
		return err
	}
	utils.InfoLogger.Printf("Seeded %d products", len(products))
	return nil
}

func seedUsers(db *gorm.DB) error {
	var count int64
	db.Model(&models.User{}).Count(&count)
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	users := []models.User{
		{Name: "Administrador", Email: "admin@chilaquiles.mx", Password: string(hashed), Role: lifecycle.RoleAdmin.String()},
		{Name: "Caja", Email: "caja@chilaquiles.mx", Password: string(hashed), Role: lifecycle.RoleStaff.String()},
		{Name: "Cocina", Email: "cocina@chilaquiles.mx", Password: string(hashed), Role: lifecycle.RoleKitchen.String()},
		{Name: "Mesero", Email: "mesero@chilaquiles.mx", Password: string(hashed), Role: lifecycle.RoleWaiter.String()},
	}

	if err := db.Create(&users).Error; err != nil {
		return err
	}
	utils.InfoLogger.Printf("Seeded %d staff users (default password: admin123)", len(users))
	return nil
}
