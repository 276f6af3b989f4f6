package fulfillment

import (
	"context"
	"time"

	"github.com/orderfeed/backend/internal/domain/commerce"
	"github.com/orderfeed/backend/internal/domain/fulfillment"
	"github.com/orderfeed/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// DefaultPageSize is used when the service is built with a non-positive page size
const DefaultPageSize = 25

// OrderPage is one page of exportable orders
type OrderPage struct {
	Orders     []commerce.Order
	Page       int
	TotalPages int
}

// OrderQueryService selects the orders served by export requests
type OrderQueryService struct {
	orders   commerce.OrderRepository
	hooks    *fulfillment.Hooks
	pageSize int
}

// NewOrderQueryService creates a new OrderQueryService
func NewOrderQueryService(orders commerce.OrderRepository, hooks *fulfillment.Hooks, pageSize int) *OrderQueryService {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return &OrderQueryService{orders: orders, hooks: hooks, pageSize: pageSize}
}

// PageSize returns the number of orders per page
func (s *OrderQueryService) PageSize() int {
	return s.pageSize
}

// OrdersBetween returns page of the completed orders placed strictly between the
// start of start's day and the end of end's day, oldest first. The window is
// applied only when both bounds are given. A registered criteria hook replaces
// the default selection; paging applies either way.
func (s *OrderQueryService) OrdersBetween(ctx context.Context, start, end *time.Time, page int) (*OrderPage, error) {
	if page < 1 {
		page = 1
	}
	ctx, span := telemetry.StartSpan(ctx, "fulfillment.orders_between", attribute.Int("page", page))
	defer span.End()

	criteria := s.criteria(ctx, start, end)

	count, err := s.orders.CountByCriteria(ctx, criteria)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	criteria.Limit = s.pageSize
	criteria.Offset = (page - 1) * s.pageSize
	orders, err := s.orders.FindByCriteria(ctx, criteria)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	result := &OrderPage{
		Orders:     orders,
		Page:       page,
		TotalPages: TotalPages(count, s.pageSize),
	}
	span.SetAttributes(
		attribute.Int64("orders.matching", count),
		attribute.Int("orders.returned", len(orders)),
	)
	return result, nil
}

func (s *OrderQueryService) criteria(ctx context.Context, start, end *time.Time) commerce.OrderCriteria {
	if c, ok := s.hooks.OrderCriteria(ctx, fulfillment.ExportWindow{Start: start, End: end}); ok {
		return *c
	}

	criteria := commerce.OrderCriteria{CompletedOnly: true}
	if start != nil && end != nil {
		after := StartOfDay(*start)
		before := EndOfDay(*end)
		criteria.OrderedAfter = &after
		criteria.OrderedBefore = &before
	}
	return criteria
}

// TotalPages is ceil(count/pageSize)
func TotalPages(count int64, pageSize int) int {
	if count <= 0 || pageSize < 1 {
		return 0
	}
	size := int64(pageSize)
	return int((count + size - 1) / size)
}
