package fulfillment

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/orderfeed/backend/internal/domain/commerce"
	"github.com/orderfeed/backend/internal/domain/shared"
	"github.com/orderfeed/backend/internal/infrastructure/logger"
	"github.com/orderfeed/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ShipmentNotification is a shipment confirmation posted by the fulfillment platform
type ShipmentNotification struct {
	OrderNumber    string `form:"order_number" validate:"required,max=255"`
	Carrier        string `form:"carrier" validate:"max=255"`
	Service        string `form:"service" validate:"max=255"`
	TrackingNumber string `form:"tracking_number" validate:"max=255"`
}

// ShipmentService applies shipment confirmations to orders
type ShipmentService struct {
	orders        commerce.OrderRepository
	statuses      commerce.OrderStatusRepository
	shippingInfos commerce.ShippingInfoRepository
	tracking      *TrackingLinkResolver
	validate      *validator.Validate
}

// NewShipmentService creates a new ShipmentService
func NewShipmentService(
	orders commerce.OrderRepository,
	statuses commerce.OrderStatusRepository,
	shippingInfos commerce.ShippingInfoRepository,
	tracking *TrackingLinkResolver,
) *ShipmentService {
	return &ShipmentService{
		orders:        orders,
		statuses:      statuses,
		shippingInfos: shippingInfos,
		tracking:      tracking,
		validate:      newValidator(),
	}
}

// ApplyShipment marks the order shipped, records the shipment message and appends a
// shipping info entry. Only the order save decides success: a failed shipping info
// write is logged and the order stays shipped.
func (s *ShipmentService) ApplyShipment(ctx context.Context, n ShipmentNotification) (*commerce.Order, error) {
	ctx, span := telemetry.StartSpan(ctx, "fulfillment.apply_shipment",
		attribute.String("order.number", n.OrderNumber),
		attribute.String("shipment.carrier", n.Carrier),
	)
	defer span.End()
	log := logger.L(ctx)

	if err := s.validateNotification(n); err != nil {
		return nil, err
	}

	order, err := s.orders.FindByNumber(ctx, n.OrderNumber)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError(fmt.Sprintf("Order with number '%s' not found", n.OrderNumber))
		}
		telemetry.RecordError(span, err)
		return nil, err
	}

	status, err := s.statuses.FindByHandle(ctx, commerce.StatusShipped)
	if err != nil {
		telemetry.RecordError(span, err)
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewConfigurationError(
				fmt.Sprintf("Failed to find order status '%s'", commerce.StatusShipped), err)
		}
		return nil, err
	}

	order.MarkShipped(status, commerce.ShipmentMessage(n.Carrier, n.Service, n.TrackingNumber))
	if err := s.orders.Save(ctx, order); err != nil {
		telemetry.RecordError(span, err)
		return nil, &shared.PersistenceError{OrderID: order.ID, Err: err}
	}

	info := commerce.NewShippingInfo(order.ID, n.Carrier, n.Service, n.TrackingNumber)
	if err := s.shippingInfos.Append(ctx, info); err != nil {
		log.Error("Failed to save shipping information",
			zap.Int64("order_id", order.ID),
			zap.String("order_number", order.Number),
			zap.Error(err),
		)
		return order, nil
	}

	fields := []zap.Field{
		zap.Int64("order_id", order.ID),
		zap.String("order_number", order.Number),
		zap.String("carrier", n.Carrier),
	}
	if s.tracking != nil {
		if u, ok := s.tracking.TrackingURL(ctx, *info); ok {
			fields = append(fields, zap.String("tracking_url", u))
		}
	}
	log.Info("Order marked as shipped", fields...)
	return order, nil
}

// ---------------------------------------------------------------------------
// Validation
// ---------------------------------------------------------------------------

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// validateNotification maps a missing order number to 406 and every other
// violation to 400.
func (s *ShipmentService) validateNotification(n ShipmentNotification) error {
	err := s.validate.Struct(n)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return shared.NewBadRequestError(err.Error())
	}
	for _, fe := range errs {
		if fe.Field() == "order_number" && fe.Tag() == "required" {
			return shared.NewNotAcceptableError("Order number must be set")
		}
	}
	fe := errs[0]
	switch fe.Tag() {
	case "max":
		return shared.NewBadRequestError(fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()))
	default:
		return shared.NewBadRequestError(fmt.Sprintf("%s is invalid", fe.Field()))
	}
}
