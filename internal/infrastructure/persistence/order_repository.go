package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/orderfeed/backend/internal/domain/commerce"
	"github.com/orderfeed/backend/internal/domain/shared"
	"github.com/orderfeed/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormOrderRepository implements commerce.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// preloadOrder loads everything the export document reads
func preloadOrder(db *gorm.DB) *gorm.DB {
	return db.
		Preload("OrderStatus").
		Preload("ShippingMethod").
		Preload("PaymentMethod").
		Preload("Customer.User").
		Preload("BillingAddress.Country").
		Preload("ShippingAddress.Country").
		Preload("LineItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("line_items.id ASC")
		})
}

// applyCriteria scopes a query on the orders table
func (r *GormOrderRepository) applyCriteria(db *gorm.DB, criteria commerce.OrderCriteria) *gorm.DB {
	if criteria.CompletedOnly {
		db = db.Where("orders.order_status_id IS NOT NULL")
	}
	if criteria.OrderedAfter != nil {
		db = db.Where("orders.date_ordered > ?", *criteria.OrderedAfter)
	}
	if criteria.OrderedBefore != nil {
		db = db.Where("orders.date_ordered < ?", *criteria.OrderedBefore)
	}
	if len(criteria.StatusHandles) > 0 {
		statuses := r.db.Model(&models.OrderStatusModel{}).
			Select("id").
			Where("handle IN ?", criteria.StatusHandles)
		db = db.Where("orders.order_status_id IN (?)", statuses)
	}
	return db
}

// FindByCriteria returns matching orders ordered by date ordered, then id
func (r *GormOrderRepository) FindByCriteria(ctx context.Context, criteria commerce.OrderCriteria) ([]commerce.Order, error) {
	var rows []models.OrderModel

	query := r.applyCriteria(r.db.WithContext(ctx).Model(&models.OrderModel{}), criteria).
		Order("orders.date_ordered ASC").
		Order("orders.id ASC")
	if criteria.Limit > 0 {
		query = query.Limit(criteria.Limit).Offset(criteria.Offset)
	}

	if err := preloadOrder(query).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("find orders: %w", err)
	}

	orders := make([]commerce.Order, 0, len(rows))
	for i := range rows {
		orders = append(orders, *rows[i].ToDomain())
	}
	return orders, nil
}

// CountByCriteria counts matching orders, ignoring Limit and Offset
func (r *GormOrderRepository) CountByCriteria(ctx context.Context, criteria commerce.OrderCriteria) (int64, error) {
	var count int64
	query := r.applyCriteria(r.db.WithContext(ctx).Model(&models.OrderModel{}), criteria)
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return count, nil
}

// FindByNumber finds an order by its store order number
func (r *GormOrderRepository) FindByNumber(ctx context.Context, number string) (*commerce.Order, error) {
	var row models.OrderModel
	err := preloadOrder(r.db.WithContext(ctx)).
		Where("number = ?", number).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("find order %q: %w", number, err)
	}
	return row.ToDomain(), nil
}

// Save writes the order's status and status message
func (r *GormOrderRepository) Save(ctx context.Context, order *commerce.Order) error {
	var statusID *int64
	if order.Status != nil {
		statusID = &order.Status.ID
	}
	if order.DateUpdated.IsZero() {
		order.DateUpdated = time.Now()
	}

	result := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("id = ?", order.ID).
		Updates(map[string]any{
			"order_status_id": statusID,
			"message":         order.Message,
			"date_updated":    order.DateUpdated,
		})
	if result.Error != nil {
		return fmt.Errorf("save order %d: %w", order.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormOrderRepository implements commerce.OrderRepository
var _ commerce.OrderRepository = (*GormOrderRepository)(nil)
