// Package fulfillment defines the extension points the fulfillment feed consults
// while exporting orders and resolving tracking links.
package fulfillment

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/orderfeed/backend/internal/domain/commerce"
)

// CustomField names an optional slot of the exported order
type CustomField string

const (
	CustomField1  CustomField = "CustomField1"
	CustomField2  CustomField = "CustomField2"
	CustomField3  CustomField = "CustomField3"
	InternalNotes CustomField = "InternalNotes"
	CustomerNotes CustomField = "CustomerNotes"
	Gift          CustomField = "Gift"
	GiftMessage   CustomField = "GiftMessage"
)

// CustomFields lists the slots in the order they are emitted
var CustomFields = []CustomField{
	CustomField1,
	CustomField2,
	CustomField3,
	InternalNotes,
	CustomerNotes,
	Gift,
	GiftMessage,
}

// IsValid returns true if f is one of CustomFields
func (f CustomField) IsValid() bool {
	for _, known := range CustomFields {
		if f == known {
			return true
		}
	}
	return false
}

// ExportWindow is the date range requested by an export call
type ExportWindow struct {
	Start *time.Time
	End   *time.Time
}

// OrderCriteriaHook replaces the default export selection when it returns non-nil criteria.
// Pagination is applied on top of the returned criteria.
type OrderCriteriaHook func(ctx context.Context, window ExportWindow) *commerce.OrderCriteria

// CustomFieldHook supplies the value of a custom field; ok=false means no answer
type CustomFieldHook func(ctx context.Context, order *commerce.Order) (value any, ok bool)

// TrackingURLHook overrides the tracking link for a shipment; ok=false means no answer
type TrackingURLHook func(ctx context.Context, info commerce.ShippingInfo) (url string, ok bool)

// Hooks is the registry of extension points. Hooks are consulted in registration
// order and the first one to answer wins. The zero value is ready to use.
type Hooks struct {
	mu           sync.RWMutex
	criteria     []OrderCriteriaHook
	customFields map[CustomField][]CustomFieldHook
	trackingURL  []TrackingURLHook
}

// NewHooks creates an empty registry
func NewHooks() *Hooks {
	return &Hooks{}
}

// OnOrderCriteria registers an export selection override
func (h *Hooks) OnOrderCriteria(hook OrderCriteriaHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.criteria = append(h.criteria, hook)
}

// OnCustomField registers a value provider for field
func (h *Hooks) OnCustomField(field CustomField, hook CustomFieldHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.customFields == nil {
		h.customFields = make(map[CustomField][]CustomFieldHook)
	}
	h.customFields[field] = append(h.customFields[field], hook)
}

// OnTrackingURL registers a tracking link override
func (h *Hooks) OnTrackingURL(hook TrackingURLHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.trackingURL = append(h.trackingURL, hook)
}

// OrderCriteria returns the first non-nil criteria supplied by a registered hook
func (h *Hooks) OrderCriteria(ctx context.Context, window ExportWindow) (*commerce.OrderCriteria, bool) {
	if h == nil {
		return nil, false
	}
	h.mu.RLock()
	hooks := h.criteria
	h.mu.RUnlock()

	for _, hook := range hooks {
		if c := hook(ctx, window); c != nil {
			return c, true
		}
	}
	return nil, false
}

// CustomField returns the first answer for field
func (h *Hooks) CustomField(ctx context.Context, field CustomField, order *commerce.Order) (any, bool) {
	if h == nil {
		return nil, false
	}
	h.mu.RLock()
	hooks := h.customFields[field]
	h.mu.RUnlock()

	for _, hook := range hooks {
		if v, ok := hook(ctx, order); ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// TrackingURL returns the first non-empty override for info
func (h *Hooks) TrackingURL(ctx context.Context, info commerce.ShippingInfo) (string, bool) {
	if h == nil {
		return "", false
	}
	h.mu.RLock()
	hooks := h.trackingURL
	h.mu.RUnlock()

	for _, hook := range hooks {
		if u, ok := hook(ctx, info); ok && u != "" {
			return u, true
		}
	}
	return "", false
}

// OrderFieldHook answers a custom field from the order's own custom field values,
// for stores that map a slot straight to one of their order fields.
func OrderFieldHook(key string) CustomFieldHook {
	return func(_ context.Context, order *commerce.Order) (any, bool) {
		if order == nil {
			return nil, false
		}
		v, ok := order.CustomFields[key]
		if !ok || v == nil {
			return nil, false
		}
		return v, true
	}
}

// ParseCustomField resolves a slot name case-insensitively
func ParseCustomField(name string) (CustomField, bool) {
	for _, known := range CustomFields {
		if strings.EqualFold(string(known), name) {
			return known, true
		}
	}
	return "", false
}
