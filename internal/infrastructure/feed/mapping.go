package feed

import (
	"fmt"
	"strconv"
	"time"

	"github.com/beevik/etree"
	"github.com/orderfeed/backend/internal/domain/commerce"
	"github.com/shopspring/decimal"
)

// DateLayout is the date format the fulfillment platform parses
const DateLayout = "1/2/2006 15:04"

// Escape selects how a field value is written into the document
type Escape int

const (
	// EscapeCDATA writes the value as a CDATA section
	EscapeCDATA Escape = iota
	// EscapeNone writes pre-formatted values such as rounded numbers as plain text
	EscapeNone
)

// Source produces the raw value of a field for a record of type T.
// It is implemented by FieldRef, Computed and Literal only.
type Source[T any] interface {
	value(rec T) any
}

// FieldRef reads the named attribute of a record implementing commerce.Attributes
type FieldRef[T any] struct {
	Attr string
}

func (f FieldRef[T]) value(rec T) any {
	a, ok := any(rec).(commerce.Attributes)
	if !ok {
		return nil
	}
	v, _ := a.Attribute(f.Attr)
	return v
}

// Computed derives the value from the record
type Computed[T any] func(rec T) any

func (c Computed[T]) value(rec T) any {
	return c(rec)
}

// Literal is a constant value
type Literal[T any] struct {
	Value any
}

func (l Literal[T]) value(T) any {
	return l.Value
}

// Field is one element of a mapping: the element name, where its value comes
// from and how it is escaped.
type Field[T any] struct {
	Name   string
	Source Source[T]
	Escape Escape
}

// Ref declares a CDATA field read from the record attribute attr
func Ref[T any](name, attr string) Field[T] {
	return Field[T]{Name: name, Source: FieldRef[T]{Attr: attr}}
}

// Compute declares a CDATA field computed from the record
func Compute[T any](name string, fn func(T) any) Field[T] {
	return Field[T]{Name: name, Source: Computed[T](fn)}
}

// Const declares a CDATA field with a fixed value
func Const[T any](name string, v any) Field[T] {
	return Field[T]{Name: name, Source: Literal[T]{Value: v}}
}

// Plain returns a copy of f written without CDATA
func (f Field[T]) Plain() Field[T] {
	f.Escape = EscapeNone
	return f
}

// Mapping is an ordered list of fields. Elements are emitted in declaration order.
type Mapping[T any] []Field[T]

// Emit appends one child element per field to parent
func (m Mapping[T]) Emit(parent *etree.Element, rec T) {
	for _, f := range m {
		writeText(parent.CreateElement(f.Name), Format(f.Source.value(rec)), f.Escape)
	}
}

func writeText(el *etree.Element, text string, esc Escape) {
	if esc == EscapeCDATA && cdataSafe(text) {
		el.CreateCData(text)
		return
	}
	el.SetText(text)
}

// Format renders a field value as element text. Nil becomes "" and booleans
// become "true" or "false".
func Format(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case decimal.Decimal:
		return t.String()
	case *decimal.Decimal:
		if t == nil {
			return ""
		}
		return t.String()
	case time.Time:
		if t.IsZero() {
			return ""
		}
		return t.Format(DateLayout)
	case *time.Time:
		if t == nil || t.IsZero() {
			return ""
		}
		return t.Format(DateLayout)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

// Money rounds to two decimal places and always prints both
func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Weight rounds to two decimal places without padding trailing zeros
func Weight(d decimal.Decimal) string {
	return d.Round(2).String()
}
