package feed

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/orderfeed/backend/internal/domain/commerce"
	"github.com/orderfeed/backend/internal/domain/fulfillment"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleOrder(id int64) commerce.Order {
	ordered := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	addr := &commerce.Address{
		FirstName:    "Ada",
		LastName:     "Lovelace",
		BusinessName: "Analytical Engines",
		Phone:        "555-0100",
		Address1:     "1 Engine Way",
		City:         "London",
		StateText:    "LDN",
		ZipCode:      "N1",
		Country:      &commerce.Country{ISO: "gb"},
	}
	return commerce.Order{
		ID:                id,
		Number:            "abc123",
		Status:            &commerce.OrderStatus{ID: 1, Handle: "processing"},
		TotalPrice:        decimal.RequireFromString("104.5"),
		TotalTax:          decimal.RequireFromString("4.125"),
		TotalShippingCost: decimal.NewFromInt(5),
		DateOrdered:       &ordered,
		DateUpdated:       ordered.Add(time.Hour),
		ShippingMethod:    &commerce.ShippingMethod{Handle: "freeShipping"},
		PaymentMethod:     &commerce.PaymentMethod{Name: "Stripe"},
		Customer:          &commerce.Customer{ID: 77, Email: "ada@example.com"},
		BillingAddress:    addr,
		ShippingAddress:   addr,
		LineItems: []commerce.LineItem{{
			ID:          1,
			SKU:         "ENG-1",
			Description: "Difference Engine <Mk II>",
			Weight:      decimal.RequireFromString("1.5"),
			Qty:         2,
			Price:       decimal.RequireFromString("49.999"),
			Options:     map[string]string{"size": "L", "colour": "brass"},
		}},
	}
}

func renderAndParse(t *testing.T, s *Serializer, orders []commerce.Order, pages int) (*etree.Document, string) {
	t.Helper()
	out, err := s.Render(context.Background(), orders, pages)
	require.NoError(t, err)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(out))
	return doc, string(out)
}

func TestSerializer_OrderFields(t *testing.T) {
	s := NewSerializer(Options{OrderIDPrefix: "web-", WeightUnit: commerce.WeightUnitKilograms})
	doc, raw := renderAndParse(t, s, []commerce.Order{sampleOrder(12)}, 3)

	root := doc.SelectElement("Orders")
	require.NotNil(t, root)
	assert.Equal(t, "3", root.SelectAttrValue("pages", ""))

	order := root.SelectElement("Order")
	require.NotNil(t, order)

	assert.Equal(t, "web-12", order.SelectElement("OrderID").Text())
	assert.Equal(t, "abc123", order.SelectElement("OrderNumber").Text())
	assert.Equal(t, "processing", order.SelectElement("OrderStatus").Text())
	assert.Equal(t, "5/1/2024 09:30", order.SelectElement("OrderDate").Text())
	assert.Equal(t, "5/1/2024 10:30", order.SelectElement("LastModified").Text())
	assert.Equal(t, "104.50", order.SelectElement("OrderTotal").Text())
	assert.Equal(t, "4.13", order.SelectElement("TaxAmount").Text())
	assert.Equal(t, "5.00", order.SelectElement("ShippingAmount").Text())
	assert.Equal(t, "freeShipping", order.SelectElement("ShippingMethod").Text())
	assert.Equal(t, "Stripe", order.SelectElement("PaymentMethod").Text())

	// money is written bare, text fields as real CDATA sections
	assert.Contains(t, raw, "<OrderTotal>104.50</OrderTotal>")
	assert.Contains(t, raw, "<OrderNumber><![CDATA[abc123]]></OrderNumber>")
	assert.Contains(t, raw, "<Name><![CDATA[Difference Engine <Mk II>]]></Name>")
	assert.NotContains(t, raw, "&lt;![CDATA[")
}

func TestSerializer_ElementOrder(t *testing.T) {
	s := NewSerializer(Options{})
	doc, _ := renderAndParse(t, s, []commerce.Order{sampleOrder(1)}, 1)

	var names []string
	for _, child := range doc.FindElement("//Order").ChildElements() {
		names = append(names, child.Tag)
	}
	assert.Equal(t, []string{
		"OrderID", "OrderNumber", "OrderStatus", "OrderTotal", "TaxAmount",
		"ShippingAmount", "OrderDate", "LastModified", "ShippingMethod", "PaymentMethod",
		"Items", "Customer",
	}, names)

	names = nil
	for _, child := range doc.FindElement("//ShipTo").ChildElements() {
		names = append(names, child.Tag)
	}
	assert.Equal(t, []string{
		"Name", "Company", "Address1", "Address2", "City", "State", "PostalCode", "Country", "Phone",
	}, names)

	names = nil
	for _, child := range doc.FindElement("//BillTo").ChildElements() {
		names = append(names, child.Tag)
	}
	assert.Equal(t, []string{
		"Name", "Company", "Address1", "Address2", "City", "State", "PostalCode", "Country", "Phone", "Email",
	}, names)
}

func TestSerializer_KilogramsBecomeGrams(t *testing.T) {
	s := NewSerializer(Options{WeightUnit: commerce.WeightUnitKilograms})
	doc, _ := renderAndParse(t, s, []commerce.Order{sampleOrder(1)}, 1)

	item := doc.FindElement("//Items/Item")
	require.NotNil(t, item)

	weight, err := decimal.NewFromString(item.SelectElement("Weight").Text())
	require.NoError(t, err)
	assert.True(t, decimal.NewFromFloat(1500.0).Equal(weight))
	assert.Equal(t, "1500", item.SelectElement("Weight").Text())
	assert.Equal(t, "Grams", item.SelectElement("WeightUnits").Text())
	assert.Equal(t, "2", item.SelectElement("Quantity").Text())
	assert.Equal(t, "50.00", item.SelectElement("UnitPrice").Text())
	assert.Equal(t, "false", item.SelectElement("Adjustment").Text())
}

func TestSerializer_PoundsPassThrough(t *testing.T) {
	s := NewSerializer(Options{WeightUnit: commerce.WeightUnitPounds})
	doc, _ := renderAndParse(t, s, []commerce.Order{sampleOrder(1)}, 1)

	item := doc.FindElement("//Items/Item")
	assert.Equal(t, "1.5", item.SelectElement("Weight").Text())
	assert.Equal(t, "Pounds", item.SelectElement("WeightUnits").Text())
}

func TestSerializer_Options(t *testing.T) {
	s := NewSerializer(Options{})
	doc, _ := renderAndParse(t, s, []commerce.Order{sampleOrder(1)}, 1)

	options := doc.FindElements("//Item/Options/Option")
	require.Len(t, options, 2)
	assert.Equal(t, "colour", options[0].SelectElement("Name").Text())
	assert.Equal(t, "brass", options[0].SelectElement("Value").Text())
	assert.Equal(t, "size", options[1].SelectElement("Name").Text())
}

func TestSerializer_DropsOrdersWithoutBothAddresses(t *testing.T) {
	noBilling := sampleOrder(2)
	noBilling.BillingAddress = nil
	noShipping := sampleOrder(3)
	noShipping.ShippingAddress = nil

	s := NewSerializer(Options{})
	doc, _ := renderAndParse(t, s, []commerce.Order{sampleOrder(1), noBilling, noShipping}, 1)

	orders := doc.FindElements("//Order")
	require.Len(t, orders, 1)
	assert.Equal(t, "1", orders[0].SelectElement("OrderID").Text())
}

func TestSerializer_Discount(t *testing.T) {
	tests := []struct {
		name     string
		stored   string
		coupon   string
		wantItem bool
		wantName string
	}{
		{"stored negative with coupon", "-10", "SPRING", true, "SPRING"},
		{"stored positive without coupon", "10", "", true, "Discount"},
		{"no discount", "0", "SPRING", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := sampleOrder(1)
			o.TotalDiscount = decimal.RequireFromString(tt.stored)
			o.CouponCode = tt.coupon

			doc, _ := renderAndParse(t, NewSerializer(Options{}), []commerce.Order{o}, 1)
			items := doc.FindElements("//Items/Item")
			if !tt.wantItem {
				assert.Len(t, items, 1)
				return
			}
			require.Len(t, items, 2)
			discount := items[1]
			assert.Equal(t, tt.wantName, discount.SelectElement("Name").Text())
			assert.Equal(t, "1", discount.SelectElement("Quantity").Text())
			assert.Equal(t, "-10.00", discount.SelectElement("UnitPrice").Text())
			assert.Equal(t, "true", discount.SelectElement("Adjustment").Text())
		})
	}
}

func TestSerializer_Customer(t *testing.T) {
	s := NewSerializer(Options{})
	doc, _ := renderAndParse(t, s, []commerce.Order{sampleOrder(1)}, 1)

	customer := doc.FindElement("//Customer")
	assert.Equal(t, "77", customer.SelectElement("CustomerCode").Text())

	billTo := customer.SelectElement("BillTo")
	assert.Equal(t, "Ada Lovelace", billTo.SelectElement("Name").Text())
	assert.Equal(t, "Analytical Engines", billTo.SelectElement("Company").Text())
	assert.Equal(t, "ada@example.com", billTo.SelectElement("Email").Text())
	assert.Equal(t, "1 Engine Way", billTo.SelectElement("Address1").Text())
	assert.Equal(t, "London", billTo.SelectElement("City").Text())
	assert.Equal(t, "LDN", billTo.SelectElement("State").Text())
	assert.Equal(t, "N1", billTo.SelectElement("PostalCode").Text())
	assert.Equal(t, "GB", billTo.SelectElement("Country").Text())
	assert.Equal(t, "555-0100", billTo.SelectElement("Phone").Text())

	shipTo := customer.SelectElement("ShipTo")
	assert.Nil(t, shipTo.SelectElement("Email"))
	assert.Equal(t, "GB", shipTo.SelectElement("Country").Text())
}

func TestSerializer_BillToUsesBillingAddress(t *testing.T) {
	o := sampleOrder(1)
	o.BillingAddress = &commerce.Address{
		FirstName: "Charles",
		LastName:  "Babbage",
		Address1:  "5 Dorset St",
		Address2:  "Marylebone",
		City:      "London",
		ZipCode:   "W1U",
	}

	doc, _ := renderAndParse(t, NewSerializer(Options{}), []commerce.Order{o}, 1)

	billTo := doc.FindElement("//BillTo")
	require.NotNil(t, billTo)
	assert.Equal(t, "Charles Babbage", billTo.SelectElement("Name").Text())
	assert.Equal(t, "5 Dorset St", billTo.SelectElement("Address1").Text())
	assert.Equal(t, "Marylebone", billTo.SelectElement("Address2").Text())
	assert.Equal(t, "W1U", billTo.SelectElement("PostalCode").Text())
	assert.Nil(t, billTo.SelectElement("Country"))

	assert.Equal(t, "1 Engine Way", doc.FindElement("//ShipTo/Address1").Text())
}

func TestSerializer_NameFallback(t *testing.T) {
	tests := []struct {
		name string
		user *commerce.User
		want string
	}{
		{"linked user", &commerce.User{FirstName: "Grace", LastName: "Hopper"}, "Grace Hopper"},
		{"nothing", nil, "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := sampleOrder(1)
			o.ShippingAddress = &commerce.Address{FirstName: "OnlyFirst"}
			o.Customer.User = tt.user

			doc, _ := renderAndParse(t, NewSerializer(Options{}), []commerce.Order{o}, 1)
			assert.Equal(t, tt.want, doc.FindElement("//ShipTo/Name").Text())
			assert.Nil(t, doc.FindElement("//ShipTo/Country"))
		})
	}
}

func TestSerializer_CustomFields(t *testing.T) {
	hooks := fulfillment.NewHooks()
	hooks.OnCustomField(fulfillment.CustomField1, fulfillment.OrderFieldHook("po"))
	hooks.OnCustomField(fulfillment.Gift, func(context.Context, *commerce.Order) (any, bool) { return true, true })
	hooks.OnCustomField(fulfillment.GiftMessage, func(context.Context, *commerce.Order) (any, bool) {
		return strings.Repeat("x", 98) + "&more", true
	})

	o := sampleOrder(1)
	o.CustomFields = map[string]any{"po": "PO <42>"}

	doc, raw := renderAndParse(t, NewSerializer(Options{Hooks: hooks}), []commerce.Order{o}, 1)
	order := doc.FindElement("//Order")

	assert.Equal(t, "PO &lt;42&gt;", order.SelectElement("CustomField1").Text())
	assert.Equal(t, "true", order.SelectElement("Gift").Text())
	assert.Equal(t, strings.Repeat("x", 98), order.SelectElement("GiftMessage").Text())
	assert.Nil(t, order.SelectElement("CustomField2"))
	assert.Nil(t, order.SelectElement("InternalNotes"))
	assert.Contains(t, raw, "<CustomField1><![CDATA[PO &lt;42&gt;]]></CustomField1>")

	// custom fields come after PaymentMethod and before Items
	var names []string
	for _, child := range order.ChildElements() {
		names = append(names, child.Tag)
	}
	assert.Equal(t, []string{"PaymentMethod", "CustomField1", "Gift", "GiftMessage", "Items"}, names[9:14])
}

func TestCustomFieldValue_Truncates(t *testing.T) {
	long := strings.Repeat("é", 150)
	assert.Equal(t, strings.Repeat("é", 100), customFieldValue(long))
	assert.Equal(t, "12.50", customFieldValue(decimal.RequireFromString("12.5")))
}

func TestSerializer_EmptyDocument(t *testing.T) {
	out, err := NewSerializer(Options{}).Render(context.Background(), nil, 0)
	require.NoError(t, err)
	assert.Equal(t, `<?xml version="1.0" encoding="utf-8"?><Orders pages="0"/>`, string(out))
}
