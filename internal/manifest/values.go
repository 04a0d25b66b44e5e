package manifest

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// Well-known manifest expressions.
const (
	EntireWorktop  = "ENTIRE_WORKTOP"
	EntireAuthZone = "ENTIRE_AUTH_ZONE"
)

// Value is a typed invocation argument.
type Value interface {
	// String renders the value in manifest syntax.
	String() string
}

// AddressValue is an Address("...") argument. The address is validated when
// the enclosing instruction is added to a Builder.
type AddressValue struct {
	Raw string
}

func (v AddressValue) String() string {
	return "Address(" + strconv.Quote(v.Raw) + ")"
}

// DecimalValue is a Decimal("...") argument.
type DecimalValue struct {
	Amount decimal.Decimal
}

func (v DecimalValue) String() string {
	return "Decimal(" + strconv.Quote(v.Amount.String()) + ")"
}

// U32Value is an unsigned 32-bit integer argument, rendered as 1u32.
type U32Value uint32

func (v U32Value) String() string {
	return fmt.Sprintf("%du32", uint32(v))
}

// ExpressionValue is an Expression("...") argument such as ENTIRE_WORKTOP.
type ExpressionValue string

func (v ExpressionValue) String() string {
	return "Expression(" + strconv.Quote(string(v)) + ")"
}

// StringValue is a quoted string argument.
type StringValue string

func (v StringValue) String() string {
	return strconv.Quote(string(v))
}

// Address returns an address argument.
func Address(addr string) AddressValue {
	return AddressValue{Raw: addr}
}

// Decimal returns a decimal amount argument.
func Decimal(d decimal.Decimal) DecimalValue {
	return DecimalValue{Amount: d}
}

// U32 returns a u32 count argument.
func U32(v uint32) U32Value {
	return U32Value(v)
}

// Expression returns an expression argument.
func Expression(expr string) ExpressionValue {
	return ExpressionValue(expr)
}

// String returns a string argument.
func String(s string) StringValue {
	return StringValue(s)
}
