// Package commerce models the store-side records the fulfillment feed reads:
// orders with their line items, customer and addresses, the order status
// taxonomy, and the shipping-info entries recorded when the fulfillment
// platform confirms a shipment.
//
// Orders are owned by the commerce store. The feed only mutates an order's
// status and status message, and appends ShippingInfo entries.
package commerce
