package handler

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	fulfillmentapp "github.com/orderfeed/backend/internal/application/fulfillment"
	"github.com/orderfeed/backend/internal/domain/commerce"
	"github.com/orderfeed/backend/internal/domain/shared"
	"github.com/orderfeed/backend/internal/infrastructure/logger"
	"github.com/orderfeed/backend/internal/infrastructure/metrics"
	"github.com/orderfeed/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Actions understood by the fulfillment endpoint
const (
	ActionExport     = "export"
	ActionShipNotify = "shipnotify"
)

const (
	xmlContentType = binding.MIMEXML + "; charset=utf-8"
	authRealm      = "fulfillment"
)

// Exporter renders an order export page
type Exporter interface {
	Export(ctx context.Context, req fulfillmentapp.ExportRequest) (*fulfillmentapp.ExportResult, error)
}

// ShipmentApplier applies a shipment notification
type ShipmentApplier interface {
	ApplyShipment(ctx context.Context, n fulfillmentapp.ShipmentNotification) (*commerce.Order, error)
}

// Credentials are the Basic credentials the fulfillment platform must present
type Credentials struct {
	Username string
	Password string
}

// FulfillmentHandler serves the single endpoint polled by the fulfillment platform
type FulfillmentHandler struct {
	BaseHandler
	path        string
	credentials Credentials
	exporter    Exporter
	shipments   ShipmentApplier
	metrics     *metrics.Registry
}

// NewFulfillmentHandler creates a new FulfillmentHandler. A nil registry disables metrics.
func NewFulfillmentHandler(path string, credentials Credentials, exporter Exporter, shipments ShipmentApplier, registry *metrics.Registry) *FulfillmentHandler {
	return &FulfillmentHandler{
		path:        path,
		credentials: credentials,
		exporter:    exporter,
		shipments:   shipments,
		metrics:     registry,
	}
}

// RegisterRoutes registers the endpoint for both GET and POST
func (h *FulfillmentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET(h.path, h.Process)
	rg.POST(h.path, h.Process)
}

// Process authenticates the caller and dispatches on the action parameter.
// Every response body is fully built before it is written.
func (h *FulfillmentHandler) Process(c *gin.Context) {
	log := logger.GetGinLogger(c)
	defer func() {
		if rec := recover(); rec != nil {
			log.Error("Fulfillment request failed",
				zap.Any("error", rec),
				zap.Stack("stacktrace"),
			)
			c.AbortWithStatusJSON(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		}
	}()

	if !h.authenticate(c) {
		h.Unauthorized(c, authRealm, "Invalid credentials")
		return
	}

	var req dto.ProcessRequest
	if err := c.ShouldBindWith(&req, binding.Form); err != nil {
		h.HandleError(c, shared.NewBadRequestError("Malformed request parameters"))
		return
	}

	switch req.Action {
	case ActionExport:
		h.export(c)
	case ActionShipNotify:
		h.shipNotify(c)
	case "":
		h.HandleError(c, shared.NewBadRequestError("Action must be set"))
	default:
		h.HandleError(c, shared.NewBadRequestError(fmt.Sprintf("Unsupported action '%s'", req.Action)))
	}
}

func (h *FulfillmentHandler) authenticate(c *gin.Context) bool {
	username, password, ok := c.Request.BasicAuth()
	if !ok {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(h.credentials.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(h.credentials.Password)) == 1
	return userOK && passOK
}

func (h *FulfillmentHandler) export(c *gin.Context) {
	var req fulfillmentapp.ExportRequest
	if err := c.ShouldBindWith(&req, binding.Form); err != nil {
		h.HandleError(c, shared.NewBadRequestError("Malformed export parameters"))
		return
	}

	result, err := h.exporter.Export(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.metrics.ObserveExport(result.Orders, result.TotalPages)
	h.XML(c, result.Body)
}

func (h *FulfillmentHandler) shipNotify(c *gin.Context) {
	var n fulfillmentapp.ShipmentNotification
	if err := c.ShouldBindWith(&n, binding.Form); err != nil {
		h.HandleError(c, shared.NewBadRequestError("Malformed shipment parameters"))
		return
	}

	if _, err := h.shipments.ApplyShipment(c.Request.Context(), n); err != nil {
		h.metrics.ObserveShipment(shipmentOutcome(err))
		h.HandleError(c, err)
		return
	}
	h.metrics.ObserveShipment("applied")
	h.Success(c)
}

func shipmentOutcome(err error) string {
	var pe *shared.PersistenceError
	if errors.As(err, &pe) {
		return "save_failed"
	}
	if de, ok := shared.AsDomainError(err); ok {
		switch de.Code {
		case shared.CodeNotFound:
			return "not_found"
		case shared.CodeBadRequest, shared.CodeNotAcceptable:
			return "rejected"
		case shared.CodeConfiguration:
			return "misconfigured"
		}
	}
	return "error"
}
