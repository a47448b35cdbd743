package lifecycle

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/lacasadelchilaquil/chilaquiles-app/models"
)

// OrderStore is the persistence boundary of the lifecycle manager.
type OrderStore interface {
	// GetByID loads an order with its items. Returns ErrNotFound when the id
	// is unknown.
	GetByID(ctx context.Context, id string) (*models.Order, error)

	// UpdateStatusCAS conditionally writes the new status (and optionally a
	// new metadata blob) only if the row still holds the status we read.
	// Returns false when the guard did not match, i.e. another actor won.
	UpdateStatusCAS(ctx context.Context, id string, from, to Status, metadata *string, at time.Time) (bool, error)
}

// GormStore backs OrderStore with the application database. The conditional
// UPDATE ... WHERE id = ? AND status = ? is what makes concurrent staff
// actions safe without in-process locking.
type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func (s *GormStore) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := s.DB.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product").
		First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *GormStore) UpdateStatusCAS(ctx context.Context, id string, from, to Status, metadata *string, at time.Time) (bool, error) {
	updates := map[string]interface{}{
		"status":     to.String(),
		"updated_at": at,
	}
	if metadata != nil {
		updates["metadata"] = *metadata
	}

	res := s.DB.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from.String()).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
