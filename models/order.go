package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Order is a customer's selected items plus lifecycle status. The item list
// is fixed at creation time and Total is never recomputed afterwards.
// Metadata holds the serialized blob (order number, table, payment info);
// it stays opaque at this layer.
type Order struct {
	ID        string      `gorm:"type:varchar(36);primaryKey" json:"id"`
	Status    string      `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	Total     float64     `gorm:"type:decimal(10,2);not null;default:0.00" json:"total"`
	Metadata  string      `gorm:"type:text" json:"metadata"`
	CreatedAt time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time   `gorm:"not null" json:"updated_at"`
	Items     []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}
