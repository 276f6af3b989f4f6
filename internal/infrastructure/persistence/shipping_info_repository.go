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

// GormShippingInfoRepository implements commerce.ShippingInfoRepository using GORM
type GormShippingInfoRepository struct {
	db *gorm.DB
}

// NewGormShippingInfoRepository creates a new GormShippingInfoRepository
func NewGormShippingInfoRepository(db *gorm.DB) *GormShippingInfoRepository {
	return &GormShippingInfoRepository{db: db}
}

// Append deactivates the order's active entry and inserts info in one transaction
func (r *GormShippingInfoRepository) Append(ctx context.Context, info *commerce.ShippingInfo) error {
	info.Active = true
	row := &models.ShippingInfoModel{}
	row.FromDomain(info)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.ShippingInfoModel{}).
			Where("order_id = ? AND active = ?", info.OrderID, true).
			Update("active", false).Error; err != nil {
			return err
		}
		return tx.Create(row).Error
	})
	if err != nil {
		return fmt.Errorf("append shipping info for order %d: %w", info.OrderID, err)
	}

	info.ID = row.ID
	return nil
}

// FindLatest returns the order's active entry
func (r *GormShippingInfoRepository) FindLatest(ctx context.Context, orderID int64) (*commerce.ShippingInfo, error) {
	var row models.ShippingInfoModel
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND active = ?", orderID, true).
		Order("id DESC").
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("find shipping info for order %d: %w", orderID, err)
	}
	return row.ToDomain(), nil
}

// FindByOrder returns every entry of the order, oldest first
func (r *GormShippingInfoRepository) FindByOrder(ctx context.Context, orderID int64) ([]commerce.ShippingInfo, error) {
	var rows []models.ShippingInfoModel
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list shipping info for order %d: %w", orderID, err)
	}

	infos := make([]commerce.ShippingInfo, 0, len(rows))
	for i := range rows {
		infos = append(infos, *rows[i].ToDomain())
	}
	return infos, nil
}

var _ commerce.ShippingInfoRepository = (*GormShippingInfoRepository)(nil)
