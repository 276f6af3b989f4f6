package commerce

import (
	"context"
	"time"
)

// OrderCriteria selects orders for export. The zero value matches every order,
// carts included.
type OrderCriteria struct {
	// CompletedOnly excludes carts, i.e. orders without a status
	CompletedOnly bool
	// OrderedAfter and OrderedBefore bound dateOrdered exclusively when set
	OrderedAfter  *time.Time
	OrderedBefore *time.Time
	// StatusHandles restricts to the given statuses when non-empty
	StatusHandles []string
	// Limit and Offset page the result; Limit <= 0 means no limit
	Limit  int
	Offset int
}

// OrderRepository reads and updates store orders.
// Find results are ordered by dateOrdered then id, both ascending.
type OrderRepository interface {
	FindByCriteria(ctx context.Context, criteria OrderCriteria) ([]Order, error)
	CountByCriteria(ctx context.Context, criteria OrderCriteria) (int64, error)
	// FindByNumber returns shared.ErrNotFound when no order has the number
	FindByNumber(ctx context.Context, number string) (*Order, error)
	// Save persists the order's status and message
	Save(ctx context.Context, order *Order) error
}

// OrderStatusRepository reads the order status taxonomy
type OrderStatusRepository interface {
	// FindByHandle returns shared.ErrNotFound when the handle is not defined
	FindByHandle(ctx context.Context, handle string) (*OrderStatus, error)
}

// ShippingInfoRepository stores shipment confirmations
type ShippingInfoRepository interface {
	// Append deactivates the order's current entry and stores info as the active one
	Append(ctx context.Context, info *ShippingInfo) error
	// FindLatest returns the active entry, or shared.ErrNotFound
	FindLatest(ctx context.Context, orderID int64) (*ShippingInfo, error)
	FindByOrder(ctx context.Context, orderID int64) ([]ShippingInfo, error)
}
