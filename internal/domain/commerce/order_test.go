package commerce

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestOrder_IsExportable(t *testing.T) {
	addr := &Address{FirstName: "Ada"}

	assert.True(t, (&Order{BillingAddress: addr, ShippingAddress: addr}).IsExportable())
	assert.False(t, (&Order{BillingAddress: addr}).IsExportable())
	assert.False(t, (&Order{ShippingAddress: addr}).IsExportable())
}

func TestOrder_Discount(t *testing.T) {
	tests := []struct {
		name      string
		stored    string
		has       bool
		magnitude string
	}{
		{"stored negative", "-5.25", true, "5.25"},
		{"stored positive", "5.25", true, "5.25"},
		{"none", "0", false, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := &Order{TotalDiscount: decimal.RequireFromString(tt.stored)}
			assert.Equal(t, tt.has, o.HasDiscount())
			assert.True(t, decimal.RequireFromString(tt.magnitude).Equal(o.Discount()))
		})
	}
}

func TestFullName(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", (&Address{FirstName: "Ada", LastName: "Lovelace"}).FullName())
	assert.Equal(t, "", (&Address{FirstName: "Ada"}).FullName())
	assert.Equal(t, "", (*User)(nil).FullName())
	assert.Equal(t, "Grace Hopper", (&User{FirstName: " Grace ", LastName: "Hopper"}).FullName())
}

func TestOrder_Attribute(t *testing.T) {
	o := &Order{ID: 3, Number: "abc", CustomFields: map[string]any{"giftNote": "hi"}}

	v, ok := o.Attribute("number")
	assert.True(t, ok)
	assert.Equal(t, "abc", v)

	v, ok = o.Attribute("giftNote")
	assert.True(t, ok)
	assert.Equal(t, "hi", v)

	_, ok = o.Attribute("missing")
	assert.False(t, ok)
}

func TestOrder_MarkShipped(t *testing.T) {
	o := &Order{}
	status := &OrderStatus{ID: 2, Handle: StatusShipped}

	o.MarkShipped(status, ShipmentMessage("UPS", "Ground", "1Z999"))

	assert.Same(t, status, o.Status)
	assert.Equal(t, "carrier: UPS, service: Ground, trackingNumber: 1Z999", o.Message)
	assert.False(t, o.DateUpdated.IsZero())
}

func TestWeightUnit_Normalize(t *testing.T) {
	w, label := WeightUnitKilograms.Normalize(decimal.RequireFromString("1.5"))
	assert.True(t, decimal.NewFromInt(1500).Equal(w))
	assert.Equal(t, "Grams", label)

	w, label = WeightUnitPounds.Normalize(decimal.RequireFromString("2.25"))
	assert.Equal(t, "2.25", w.String())
	assert.Equal(t, "Pounds", label)

	_, label = ParseWeightUnit("bogus").Normalize(decimal.Zero)
	assert.Equal(t, "Grams", label)
}

func TestParseWeightUnit(t *testing.T) {
	assert.Equal(t, WeightUnitKilograms, ParseWeightUnit("KG"))
	assert.Equal(t, WeightUnitPounds, ParseWeightUnit("lbs"))
	assert.Equal(t, WeightUnitGrams, ParseWeightUnit("g"))
	assert.True(t, ParseWeightUnit("").IsValid())
}
