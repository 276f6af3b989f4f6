package commerce

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Reference data
// ---------------------------------------------------------------------------

// StatusShipped is the handle of the order status applied on shipment confirmation
const StatusShipped = "shipped"

// OrderStatus is an entry of the store's order status taxonomy
type OrderStatus struct {
	ID     int64
	Handle string
	Name   string
}

// ShippingMethod is the store-defined shipping method chosen at checkout
type ShippingMethod struct {
	ID     int64
	Handle string
	Name   string
}

// PaymentMethod is the gateway used to pay for the order
type PaymentMethod struct {
	ID   int64
	Name string
}

// Country identifies an address country. ISO holds the two-letter region code.
type Country struct {
	ID   int64
	ISO  string
	Name string
}

// ---------------------------------------------------------------------------
// Customer and addresses
// ---------------------------------------------------------------------------

// User is the registered account optionally linked to a customer
type User struct {
	ID        int64
	FirstName string
	LastName  string
}

// FullName joins first and last name, or returns "" when either is missing
func (u *User) FullName() string {
	if u == nil {
		return ""
	}
	return joinName(u.FirstName, u.LastName)
}

// Customer is the buyer of an order
type Customer struct {
	ID    int64
	Email string
	User  *User
}

// Address is a billing or shipping address snapshot attached to an order
type Address struct {
	ID           int64
	FirstName    string
	LastName     string
	BusinessName string
	Phone        string
	Address1     string
	Address2     string
	City         string
	StateText    string
	ZipCode      string
	Country      *Country
}

// FullName joins first and last name, or returns "" when either is missing
func (a *Address) FullName() string {
	if a == nil {
		return ""
	}
	return joinName(a.FirstName, a.LastName)
}

func joinName(first, last string) string {
	first, last = strings.TrimSpace(first), strings.TrimSpace(last)
	if first == "" || last == "" {
		return ""
	}
	return first + " " + last
}

// ---------------------------------------------------------------------------
// Order aggregate
// ---------------------------------------------------------------------------

// LineItem is a purchased SKU. Options is the purchasable's attribute snapshot at sale time.
type LineItem struct {
	ID          int64
	SKU         string
	Description string
	Weight      decimal.Decimal
	Qty         int
	Price       decimal.Decimal
	SalePrice   decimal.Decimal
	Options     map[string]string
}

// Order is the order aggregate exported to the fulfillment platform.
//
// TotalDiscount follows the store convention of being stored as a negative
// adjustment; Discount returns its magnitude.
type Order struct {
	ID                int64
	Number            string
	Status            *OrderStatus
	Message           string
	CouponCode        string
	TotalPrice        decimal.Decimal
	TotalTax          decimal.Decimal
	TotalShippingCost decimal.Decimal
	TotalDiscount     decimal.Decimal
	DateOrdered       *time.Time
	DateUpdated       time.Time
	DatePaid          *time.Time
	ShippingMethod    *ShippingMethod
	PaymentMethod     *PaymentMethod
	Customer          *Customer
	LineItems         []LineItem
	BillingAddress    *Address
	ShippingAddress   *Address
	CustomFields      map[string]any
}

// IsCompleted reports whether the order has left the cart stage
func (o *Order) IsCompleted() bool {
	return o.Status != nil
}

// IsExportable reports whether the order carries both a billing and a shipping address
func (o *Order) IsExportable() bool {
	return o.BillingAddress != nil && o.ShippingAddress != nil
}

// HasDiscount reports whether a discount was applied, regardless of the sign it was stored with
func (o *Order) HasDiscount() bool {
	return !o.TotalDiscount.IsZero()
}

// Discount returns the absolute discount amount
func (o *Order) Discount() decimal.Decimal {
	return o.TotalDiscount.Abs()
}

// Email returns the customer email, if any
func (o *Order) Email() string {
	if o.Customer == nil {
		return ""
	}
	return o.Customer.Email
}

// MarkShipped applies the shipped status and records the shipment message
func (o *Order) MarkShipped(status *OrderStatus, message string) {
	o.Status = status
	o.Message = message
	o.DateUpdated = time.Now()
}
