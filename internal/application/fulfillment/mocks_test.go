package fulfillment

import (
	"context"
	"sort"

	"github.com/orderfeed/backend/internal/domain/commerce"
	"github.com/stretchr/testify/mock"
)

// MockOrderRepository is a mock implementation of commerce.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByCriteria(ctx context.Context, criteria commerce.OrderCriteria) ([]commerce.Order, error) {
	args := m.Called(ctx, criteria)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]commerce.Order), args.Error(1)
}

func (m *MockOrderRepository) CountByCriteria(ctx context.Context, criteria commerce.OrderCriteria) (int64, error) {
	args := m.Called(ctx, criteria)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) FindByNumber(ctx context.Context, number string) (*commerce.Order, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commerce.Order), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *commerce.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

// MockOrderStatusRepository is a mock implementation of commerce.OrderStatusRepository
type MockOrderStatusRepository struct {
	mock.Mock
}

func (m *MockOrderStatusRepository) FindByHandle(ctx context.Context, handle string) (*commerce.OrderStatus, error) {
	args := m.Called(ctx, handle)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commerce.OrderStatus), args.Error(1)
}

// MockShippingInfoRepository is a mock implementation of commerce.ShippingInfoRepository
type MockShippingInfoRepository struct {
	mock.Mock
}

func (m *MockShippingInfoRepository) Append(ctx context.Context, info *commerce.ShippingInfo) error {
	args := m.Called(ctx, info)
	return args.Error(0)
}

func (m *MockShippingInfoRepository) FindLatest(ctx context.Context, orderID int64) (*commerce.ShippingInfo, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*commerce.ShippingInfo), args.Error(1)
}

func (m *MockShippingInfoRepository) FindByOrder(ctx context.Context, orderID int64) ([]commerce.ShippingInfo, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).([]commerce.ShippingInfo), args.Error(1)
}

// memoryOrderRepository serves a fixed order set with the repository's ordering and paging rules
type memoryOrderRepository struct {
	orders []commerce.Order
}

func (r *memoryOrderRepository) match(criteria commerce.OrderCriteria) []commerce.Order {
	var out []commerce.Order
	for _, o := range r.orders {
		if criteria.CompletedOnly && o.Status == nil {
			continue
		}
		if criteria.OrderedAfter != nil && (o.DateOrdered == nil || !o.DateOrdered.After(*criteria.OrderedAfter)) {
			continue
		}
		if criteria.OrderedBefore != nil && (o.DateOrdered == nil || !o.DateOrdered.Before(*criteria.OrderedBefore)) {
			continue
		}
		out = append(out, o)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.DateOrdered.Equal(*b.DateOrdered) {
			return a.DateOrdered.Before(*b.DateOrdered)
		}
		return a.ID < b.ID
	})
	return out
}

func (r *memoryOrderRepository) FindByCriteria(_ context.Context, criteria commerce.OrderCriteria) ([]commerce.Order, error) {
	out := r.match(criteria)
	if criteria.Offset >= len(out) {
		return []commerce.Order{}, nil
	}
	out = out[criteria.Offset:]
	if criteria.Limit > 0 && criteria.Limit < len(out) {
		out = out[:criteria.Limit]
	}
	return out, nil
}

func (r *memoryOrderRepository) CountByCriteria(_ context.Context, criteria commerce.OrderCriteria) (int64, error) {
	return int64(len(r.match(criteria))), nil
}

func (r *memoryOrderRepository) FindByNumber(context.Context, string) (*commerce.Order, error) {
	return nil, nil
}

func (r *memoryOrderRepository) Save(context.Context, *commerce.Order) error {
	return nil
}
