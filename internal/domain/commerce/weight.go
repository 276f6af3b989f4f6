package commerce

import (
	"strings"

	"github.com/shopspring/decimal"
)

// WeightUnit is the store-wide unit line item weights are recorded in
type WeightUnit string

const (
	WeightUnitKilograms WeightUnit = "kg"
	WeightUnitGrams     WeightUnit = "g"
	WeightUnitPounds    WeightUnit = "lb"
)

var thousand = decimal.NewFromInt(1000)

// ParseWeightUnit normalizes a configured unit name. Unknown names fall back to grams.
func ParseWeightUnit(s string) WeightUnit {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "kg", "kgs", "kilogram", "kilograms":
		return WeightUnitKilograms
	case "lb", "lbs", "pound", "pounds":
		return WeightUnitPounds
	default:
		return WeightUnitGrams
	}
}

// IsValid returns true if the unit is one of the supported units
func (u WeightUnit) IsValid() bool {
	switch u {
	case WeightUnitKilograms, WeightUnitGrams, WeightUnitPounds:
		return true
	default:
		return false
	}
}

// Normalize converts w to the unit reported to the fulfillment platform and
// returns it with the platform's unit label. Kilograms become grams.
func (u WeightUnit) Normalize(w decimal.Decimal) (decimal.Decimal, string) {
	switch u {
	case WeightUnitKilograms:
		return w.Mul(thousand), "Grams"
	case WeightUnitPounds:
		return w, "Pounds"
	default:
		return w, "Grams"
	}
}
