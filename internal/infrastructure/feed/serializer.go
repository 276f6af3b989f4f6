// Package feed renders store orders as the fulfillment platform's XML order feed.
package feed

import (
	"context"
	"fmt"
	"html"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/beevik/etree"
	"github.com/orderfeed/backend/internal/domain/commerce"
	"github.com/orderfeed/backend/internal/domain/fulfillment"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
)

// customFieldMaxLen is the longest custom field value the platform accepts
const customFieldMaxLen = 100

// Options configures a Serializer
type Options struct {
	OrderIDPrefix string
	WeightUnit    commerce.WeightUnit
	Hooks         *fulfillment.Hooks
	// Indent pretty-prints rendered documents with the given number of spaces when positive
	Indent int
}

// Serializer maps orders to the feed document
type Serializer struct {
	opts     Options
	order    Mapping[*commerce.Order]
	item     Mapping[*commerce.LineItem]
	discount Mapping[*commerce.Order]
	address  Mapping[party]
	// addressTail follows the optional Country element
	addressTail Mapping[party]
	email       Mapping[party]
}

// party is an address seen together with the order's customer, for name fallback
type party struct {
	address  *commerce.Address
	customer *commerce.Customer
}

// NewSerializer builds the field mappings for opts
func NewSerializer(opts Options) *Serializer {
	if !opts.WeightUnit.IsValid() {
		opts.WeightUnit = commerce.WeightUnitGrams
	}
	s := &Serializer{opts: opts}

	s.order = Mapping[*commerce.Order]{
		Compute("OrderID", func(o *commerce.Order) any {
			return opts.OrderIDPrefix + strconv.FormatInt(o.ID, 10)
		}),
		Ref[*commerce.Order]("OrderNumber", "number"),
		Compute("OrderStatus", func(o *commerce.Order) any {
			if o.Status == nil {
				return nil
			}
			return o.Status.Handle
		}),
		Compute("OrderTotal", func(o *commerce.Order) any { return Money(o.TotalPrice) }).Plain(),
		Compute("TaxAmount", func(o *commerce.Order) any { return Money(o.TotalTax) }).Plain(),
		Compute("ShippingAmount", func(o *commerce.Order) any { return Money(o.TotalShippingCost) }).Plain(),
		Compute("OrderDate", func(o *commerce.Order) any { return o.DateOrdered }).Plain(),
		Compute("LastModified", func(o *commerce.Order) any { return o.DateUpdated }).Plain(),
	}

	s.item = Mapping[*commerce.LineItem]{
		Ref[*commerce.LineItem]("SKU", "sku"),
		Ref[*commerce.LineItem]("Name", "description"),
		Compute("Weight", func(li *commerce.LineItem) any {
			w, _ := opts.WeightUnit.Normalize(li.Weight)
			return Weight(w)
		}).Plain(),
		Ref[*commerce.LineItem]("Quantity", "qty").Plain(),
		Compute("UnitPrice", func(li *commerce.LineItem) any { return Money(li.Price) }).Plain(),
		Const[*commerce.LineItem]("Adjustment", false).Plain(),
		Compute("WeightUnits", func(li *commerce.LineItem) any {
			_, label := opts.WeightUnit.Normalize(li.Weight)
			return label
		}),
	}

	s.discount = Mapping[*commerce.Order]{
		Const[*commerce.Order]("SKU", ""),
		Compute("Name", func(o *commerce.Order) any {
			if o.CouponCode != "" {
				return o.CouponCode
			}
			return "Discount"
		}),
		Const[*commerce.Order]("Quantity", 1).Plain(),
		Compute("UnitPrice", func(o *commerce.Order) any { return Money(o.Discount().Neg()) }).Plain(),
		Const[*commerce.Order]("Adjustment", true).Plain(),
	}

	s.address = Mapping[party]{
		Compute("Name", partyName),
		Compute("Company", func(p party) any { return p.address.BusinessName }),
		Compute("Address1", func(p party) any { return p.address.Address1 }),
		Compute("Address2", func(p party) any { return p.address.Address2 }),
		Compute("City", func(p party) any { return p.address.City }),
		Compute("State", func(p party) any { return p.address.StateText }),
		Compute("PostalCode", func(p party) any { return p.address.ZipCode }),
	}
	s.addressTail = Mapping[party]{
		Compute("Phone", func(p party) any { return p.address.Phone }),
	}
	s.email = Mapping[party]{
		Compute("Email", func(p party) any {
			if p.customer == nil {
				return nil
			}
			return p.customer.Email
		}),
	}
	return s
}

// Document builds the feed document. Orders missing a billing or shipping
// address are left out.
func (s *Serializer) Document(ctx context.Context, orders []commerce.Order, pages int) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="utf-8"`)

	root := doc.CreateElement("Orders")
	root.CreateAttr("pages", strconv.Itoa(pages))

	for i := range orders {
		if !orders[i].IsExportable() {
			continue
		}
		s.writeOrder(ctx, root.CreateElement("Order"), &orders[i])
	}
	return doc
}

// Render builds the document and serializes it in memory
func (s *Serializer) Render(ctx context.Context, orders []commerce.Order, pages int) ([]byte, error) {
	doc := s.Document(ctx, orders, pages)
	if s.opts.Indent > 0 {
		doc.Indent(s.opts.Indent)
	}
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("feed: write document: %w", err)
	}
	return out, nil
}

func (s *Serializer) writeOrder(ctx context.Context, el *etree.Element, o *commerce.Order) {
	s.order.Emit(el, o)

	if o.ShippingMethod != nil {
		writeText(el.CreateElement("ShippingMethod"), o.ShippingMethod.Handle, EscapeCDATA)
	}
	if o.PaymentMethod != nil {
		writeText(el.CreateElement("PaymentMethod"), o.PaymentMethod.Name, EscapeCDATA)
	}
	s.writeCustomFields(ctx, el, o)

	items := el.CreateElement("Items")
	for i := range o.LineItems {
		item := items.CreateElement("Item")
		s.item.Emit(item, &o.LineItems[i])
		writeOptions(item, o.LineItems[i].Options)
	}
	if o.HasDiscount() {
		s.discount.Emit(items.CreateElement("Item"), o)
	}

	customer := el.CreateElement("Customer")
	var customerID any
	if o.Customer != nil {
		customerID = o.Customer.ID
	}
	writeText(customer.CreateElement("CustomerCode"), Format(customerID), EscapeCDATA)

	bill := party{address: o.BillingAddress, customer: o.Customer}
	billTo := customer.CreateElement("BillTo")
	s.writeAddress(billTo, bill)
	s.email.Emit(billTo, bill)

	s.writeAddress(customer.CreateElement("ShipTo"), party{address: o.ShippingAddress, customer: o.Customer})
}

// writeAddress emits the address block shared by BillTo and ShipTo
func (s *Serializer) writeAddress(el *etree.Element, p party) {
	s.address.Emit(el, p)
	if iso, ok := countryCode(p.address); ok {
		writeText(el.CreateElement("Country"), iso, EscapeCDATA)
	}
	s.addressTail.Emit(el, p)
}

func (s *Serializer) writeCustomFields(ctx context.Context, el *etree.Element, o *commerce.Order) {
	for _, field := range fulfillment.CustomFields {
		v, ok := s.opts.Hooks.CustomField(ctx, field, o)
		if !ok {
			continue
		}
		writeText(el.CreateElement(string(field)), customFieldValue(v), EscapeCDATA)
	}
}

// writeOptions emits the line item's option snapshot sorted by name
func writeOptions(item *etree.Element, options map[string]string) {
	if len(options) == 0 {
		return
	}
	names := make([]string, 0, len(options))
	for name := range options {
		names = append(names, name)
	}
	sort.Strings(names)

	el := item.CreateElement("Options")
	for _, name := range names {
		opt := el.CreateElement("Option")
		writeText(opt.CreateElement("Name"), name, EscapeCDATA)
		writeText(opt.CreateElement("Value"), options[name], EscapeCDATA)
	}
}

// partyName prefers the address name, then the customer's account name
func partyName(p party) any {
	if name := p.address.FullName(); name != "" {
		return name
	}
	if p.customer != nil {
		if name := p.customer.User.FullName(); name != "" {
			return name
		}
	}
	return "unknown"
}

// countryCode returns the canonical ISO 3166 region of the address country
func countryCode(a *commerce.Address) (string, bool) {
	if a == nil || a.Country == nil || a.Country.ISO == "" {
		return "", false
	}
	region, err := language.ParseRegion(a.Country.ISO)
	if err != nil {
		return strings.ToUpper(a.Country.ISO), true
	}
	return region.String(), true
}

// customFieldValue HTML-escapes v and cuts it to customFieldMaxLen characters
// without splitting an entity.
func customFieldValue(v any) string {
	var text string
	switch t := v.(type) {
	case decimal.Decimal:
		text = Money(t)
	default:
		text = Format(v)
	}
	escaped := html.EscapeString(text)
	if utf8.RuneCountInString(escaped) <= customFieldMaxLen {
		return escaped
	}

	runes := []rune(escaped)[:customFieldMaxLen]
	cut := string(runes)
	if amp := strings.LastIndexByte(cut, '&'); amp >= 0 && !strings.Contains(cut[amp:], ";") {
		cut = cut[:amp]
	}
	return cut
}
