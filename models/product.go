package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product categories for the guided chilaquiles selector.
const (
	CategoryTortillaChips = "TORTILLA_CHIPS"
	CategorySauce         = "SAUCE"
	CategoryProtein       = "PROTEIN"
	CategoryTopping       = "TOPPING"
	CategoryExtras        = "EXTRAS"
	CategoryDrink         = "DRINK"
)

var ProductCategories = []string{
	CategoryTortillaChips,
	CategorySauce,
	CategoryProtein,
	CategoryTopping,
	CategoryExtras,
	CategoryDrink,
}

func ValidProductCategory(category string) bool {
	for _, c := range ProductCategories {
		if c == category {
			return true
		}
	}
	return false
}

type Product struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Price       float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	Category    string    `gorm:"type:varchar(20);not null;index" json:"category"`
	Available   bool      `gorm:"not null;default:true" json:"available"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
