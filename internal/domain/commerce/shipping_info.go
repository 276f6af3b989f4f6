package commerce

import (
	"fmt"
	"time"
)

// ShippingInfo is the append-only record of a shipment confirmation. An order has at
// most one active entry; appending a new one deactivates the previous.
type ShippingInfo struct {
	ID             int64
	OrderID        int64
	Carrier        string
	Service        string
	TrackingNumber string
	Active         bool
	CreatedAt      time.Time
}

// NewShippingInfo creates the active entry for orderID
func NewShippingInfo(orderID int64, carrier, service, trackingNumber string) *ShippingInfo {
	return &ShippingInfo{
		OrderID:        orderID,
		Carrier:        carrier,
		Service:        service,
		TrackingNumber: trackingNumber,
		Active:         true,
		CreatedAt:      time.Now(),
	}
}

// ShipmentMessage formats the status-change note stored on a shipped order
func ShipmentMessage(carrier, service, trackingNumber string) string {
	return fmt.Sprintf("carrier: %s, service: %s, trackingNumber: %s", carrier, service, trackingNumber)
}
