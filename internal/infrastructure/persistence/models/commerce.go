package models

import (
	"time"

	"github.com/orderfeed/backend/internal/domain/commerce"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// OrderStatusModel maps the store's order status taxonomy
type OrderStatusModel struct {
	ID     int64  `gorm:"primaryKey"`
	Handle string `gorm:"type:varchar(64);uniqueIndex;not null"`
	Name   string `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (OrderStatusModel) TableName() string {
	return "order_statuses"
}

// ToDomain converts the persistence model to a domain OrderStatus
func (m *OrderStatusModel) ToDomain() *commerce.OrderStatus {
	if m == nil {
		return nil
	}
	return &commerce.OrderStatus{ID: m.ID, Handle: m.Handle, Name: m.Name}
}

// ShippingMethodModel maps a checkout shipping method
type ShippingMethodModel struct {
	ID     int64  `gorm:"primaryKey"`
	Handle string `gorm:"type:varchar(64);index"`
	Name   string `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (ShippingMethodModel) TableName() string {
	return "shipping_methods"
}

// PaymentMethodModel maps a payment gateway
type PaymentMethodModel struct {
	ID   int64  `gorm:"primaryKey"`
	Name string `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (PaymentMethodModel) TableName() string {
	return "payment_methods"
}

// CountryModel maps a country reference
type CountryModel struct {
	ID   int64  `gorm:"primaryKey"`
	ISO  string `gorm:"column:iso;type:varchar(3)"`
	Name string `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (CountryModel) TableName() string {
	return "countries"
}

// UserModel maps the registered account linked to a customer
type UserModel struct {
	ID        int64  `gorm:"primaryKey"`
	FirstName string `gorm:"type:varchar(255)"`
	LastName  string `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// CustomerModel maps an order's customer
type CustomerModel struct {
	ID     int64  `gorm:"primaryKey"`
	Email  string `gorm:"type:varchar(255)"`
	UserID *int64
	User   *UserModel `gorm:"foreignKey:UserID"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// AddressModel maps a billing or shipping address
type AddressModel struct {
	ID           int64  `gorm:"primaryKey"`
	FirstName    string `gorm:"type:varchar(255)"`
	LastName     string `gorm:"type:varchar(255)"`
	BusinessName string `gorm:"type:varchar(255)"`
	Phone        string `gorm:"type:varchar(64)"`
	Address1     string `gorm:"type:varchar(255)"`
	Address2     string `gorm:"type:varchar(255)"`
	City         string `gorm:"type:varchar(255)"`
	StateText    string `gorm:"type:varchar(255)"`
	ZipCode      string `gorm:"type:varchar(32)"`
	CountryID    *int64
	Country      *CountryModel `gorm:"foreignKey:CountryID"`
}

// TableName returns the table name for GORM
func (AddressModel) TableName() string {
	return "addresses"
}

// ToDomain converts the persistence model to a domain Address
func (m *AddressModel) ToDomain() *commerce.Address {
	if m == nil {
		return nil
	}
	a := &commerce.Address{
		ID:           m.ID,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		BusinessName: m.BusinessName,
		Phone:        m.Phone,
		Address1:     m.Address1,
		Address2:     m.Address2,
		City:         m.City,
		StateText:    m.StateText,
		ZipCode:      m.ZipCode,
	}
	if m.Country != nil {
		a.Country = &commerce.Country{ID: m.Country.ID, ISO: m.Country.ISO, Name: m.Country.Name}
	}
	return a
}

// LineItemModel maps a purchased line of an order
type LineItemModel struct {
	ID          int64             `gorm:"primaryKey"`
	OrderID     int64             `gorm:"not null;index"`
	SKU         string            `gorm:"column:sku;type:varchar(255)"`
	Description string            `gorm:"type:text"`
	Weight      decimal.Decimal   `gorm:"type:decimal(14,4)"`
	Qty         int               `gorm:"not null"`
	Price       decimal.Decimal   `gorm:"type:decimal(14,4)"`
	SalePrice   decimal.Decimal   `gorm:"type:decimal(14,4)"`
	Options     map[string]string `gorm:"type:text;serializer:json"`
}

// TableName returns the table name for GORM
func (LineItemModel) TableName() string {
	return "line_items"
}

// ToDomain converts the persistence model to a domain LineItem
func (m *LineItemModel) ToDomain() commerce.LineItem {
	return commerce.LineItem{
		ID:          m.ID,
		SKU:         m.SKU,
		Description: m.Description,
		Weight:      m.Weight,
		Qty:         m.Qty,
		Price:       m.Price,
		SalePrice:   m.SalePrice,
		Options:     m.Options,
	}
}

// OrderModel maps a store order
type OrderModel struct {
	ID                int64             `gorm:"primaryKey"`
	Number            string            `gorm:"type:varchar(64);uniqueIndex;not null"`
	OrderStatusID     *int64            `gorm:"index"`
	OrderStatus       *OrderStatusModel `gorm:"foreignKey:OrderStatusID"`
	Message           string            `gorm:"type:text"`
	CouponCode        string            `gorm:"type:varchar(255)"`
	TotalPrice        decimal.Decimal   `gorm:"type:decimal(14,4)"`
	TotalTax          decimal.Decimal   `gorm:"type:decimal(14,4)"`
	TotalShippingCost decimal.Decimal   `gorm:"type:decimal(14,4)"`
	TotalDiscount     decimal.Decimal   `gorm:"type:decimal(14,4)"`
	DateOrdered       *time.Time        `gorm:"index"`
	DatePaid          *time.Time
	DateUpdated       time.Time `gorm:"autoUpdateTime"`
	ShippingMethodID  *int64
	ShippingMethod    *ShippingMethodModel `gorm:"foreignKey:ShippingMethodID"`
	PaymentMethodID   *int64
	PaymentMethod     *PaymentMethodModel `gorm:"foreignKey:PaymentMethodID"`
	CustomerID        *int64
	Customer          *CustomerModel `gorm:"foreignKey:CustomerID"`
	BillingAddressID  *int64
	BillingAddress    *AddressModel `gorm:"foreignKey:BillingAddressID"`
	ShippingAddressID *int64
	ShippingAddress   *AddressModel     `gorm:"foreignKey:ShippingAddressID"`
	LineItems         []LineItemModel   `gorm:"foreignKey:OrderID"`
	CustomFields      datatypes.JSONMap `gorm:"column:custom_fields"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model and its preloaded associations to a domain Order
func (m *OrderModel) ToDomain() *commerce.Order {
	o := &commerce.Order{
		ID:                m.ID,
		Number:            m.Number,
		Status:            m.OrderStatus.ToDomain(),
		Message:           m.Message,
		CouponCode:        m.CouponCode,
		TotalPrice:        m.TotalPrice,
		TotalTax:          m.TotalTax,
		TotalShippingCost: m.TotalShippingCost,
		TotalDiscount:     m.TotalDiscount,
		DateOrdered:       m.DateOrdered,
		DatePaid:          m.DatePaid,
		DateUpdated:       m.DateUpdated,
		BillingAddress:    m.BillingAddress.ToDomain(),
		ShippingAddress:   m.ShippingAddress.ToDomain(),
		CustomFields:      map[string]any(m.CustomFields),
		LineItems:         make([]commerce.LineItem, 0, len(m.LineItems)),
	}
	if m.ShippingMethod != nil {
		o.ShippingMethod = &commerce.ShippingMethod{ID: m.ShippingMethod.ID, Handle: m.ShippingMethod.Handle, Name: m.ShippingMethod.Name}
	}
	if m.PaymentMethod != nil {
		o.PaymentMethod = &commerce.PaymentMethod{ID: m.PaymentMethod.ID, Name: m.PaymentMethod.Name}
	}
	if m.Customer != nil {
		o.Customer = &commerce.Customer{ID: m.Customer.ID, Email: m.Customer.Email}
		if u := m.Customer.User; u != nil {
			o.Customer.User = &commerce.User{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName}
		}
	}
	for i := range m.LineItems {
		o.LineItems = append(o.LineItems, m.LineItems[i].ToDomain())
	}
	return o
}

// ShippingInfoModel maps a shipment confirmation entry
type ShippingInfoModel struct {
	ID             int64     `gorm:"primaryKey"`
	OrderID        int64     `gorm:"not null;index"`
	Carrier        string    `gorm:"type:varchar(255)"`
	Service        string    `gorm:"type:varchar(255)"`
	TrackingNumber string    `gorm:"type:varchar(255)"`
	Active         bool      `gorm:"not null;default:true"`
	CreatedAt      time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ShippingInfoModel) TableName() string {
	return "shipping_infos"
}

// ToDomain converts the persistence model to a domain ShippingInfo
func (m *ShippingInfoModel) ToDomain() *commerce.ShippingInfo {
	return &commerce.ShippingInfo{
		ID:             m.ID,
		OrderID:        m.OrderID,
		Carrier:        m.Carrier,
		Service:        m.Service,
		TrackingNumber: m.TrackingNumber,
		Active:         m.Active,
		CreatedAt:      m.CreatedAt,
	}
}

// FromDomain populates the persistence model from a domain ShippingInfo
func (m *ShippingInfoModel) FromDomain(info *commerce.ShippingInfo) {
	m.ID = info.ID
	m.OrderID = info.OrderID
	m.Carrier = info.Carrier
	m.Service = info.Service
	m.TrackingNumber = info.TrackingNumber
	m.Active = info.Active
	m.CreatedAt = info.CreatedAt
}

// All lists every model, in dependency order, for schema setup in tests and tooling
func All() []any {
	return []any{
		&OrderStatusModel{},
		&ShippingMethodModel{},
		&PaymentMethodModel{},
		&CountryModel{},
		&UserModel{},
		&CustomerModel{},
		&AddressModel{},
		&OrderModel{},
		&LineItemModel{},
		&ShippingInfoModel{},
	}
}
