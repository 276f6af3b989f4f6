package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/orderfeed/backend/internal/domain/commerce"
	"github.com/orderfeed/backend/internal/domain/shared"
	"github.com/orderfeed/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormOrderStatusRepository implements commerce.OrderStatusRepository using GORM
type GormOrderStatusRepository struct {
	db *gorm.DB
}

// NewGormOrderStatusRepository creates a new GormOrderStatusRepository
func NewGormOrderStatusRepository(db *gorm.DB) *GormOrderStatusRepository {
	return &GormOrderStatusRepository{db: db}
}

// FindByHandle finds a status by handle
func (r *GormOrderStatusRepository) FindByHandle(ctx context.Context, handle string) (*commerce.OrderStatus, error) {
	var row models.OrderStatusModel
	if err := r.db.WithContext(ctx).Where("handle = ?", handle).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("find order status %q: %w", handle, err)
	}
	return row.ToDomain(), nil
}

var _ commerce.OrderStatusRepository = (*GormOrderStatusRepository)(nil)
