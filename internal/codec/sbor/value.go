// Package sbor decodes the programmatic JSON form of values returned by
// component invocations, as found in a receipt's output data_json.
package sbor

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Kind discriminates a Value.
type Kind string

const (
	KindString  Kind = "String"
	KindU64     Kind = "U64"
	KindI64     Kind = "I64"
	KindTuple   Kind = "Tuple"
	KindEnum    Kind = "Enum"
	KindAddress Kind = "Address"
	KindOwn     Kind = "Own"
	KindDecimal Kind = "Decimal"
)

// ErrMalformed is returned when JSON does not describe a known value shape.
var ErrMalformed = errors.New("malformed sbor value")

// IsComposite reports whether values of kind k carry child fields instead of a payload.
func (k Kind) IsComposite() bool {
	return k == KindTuple || k == KindEnum
}

func (k Kind) known() bool {
	switch k {
	case KindString, KindU64, KindI64, KindTuple, KindEnum, KindAddress, KindOwn, KindDecimal:
		return true
	}
	return false
}

// Value is one decoded node. Scalars carry Raw; Tuple and Enum carry Fields,
// and Enum additionally carries VariantID.
type Value struct {
	Kind      Kind
	Raw       string
	VariantID uint32
	Fields    []Value
}

// Scalar returns a leaf value of kind k.
func Scalar(k Kind, raw string) Value {
	return Value{Kind: k, Raw: raw}
}

// Tuple returns a tuple of fields.
func Tuple(fields ...Value) Value {
	return Value{Kind: KindTuple, Fields: fields}
}

// Enum returns an enum variant with its fields.
func Enum(variant uint32, fields ...Value) Value {
	return Value{Kind: KindEnum, VariantID: variant, Fields: fields}
}

type wireValue struct {
	Kind      Kind            `json:"kind"`
	Value     json.RawMessage `json:"value"`
	VariantID json.RawMessage `json:"variant_id"`
	Fields    []Value         `json:"fields"`
}

// UnmarshalJSON decodes a tagged value, rejecting unknown kinds and nodes
// missing the payload their kind requires.
func (v *Value) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return fmt.Errorf("%w: null value", ErrMalformed)
	}

	var w wireValue
	if err := json.Unmarshal(data, &w); err != nil {
		if errors.Is(err, ErrMalformed) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if !w.Kind.known() {
		return fmt.Errorf("%w: unknown kind %q", ErrMalformed, w.Kind)
	}

	out := Value{Kind: w.Kind}
	if w.Kind.IsComposite() {
		out.Fields = w.Fields
		if w.Kind == KindEnum {
			id, err := parseVariantID(w.VariantID)
			if err != nil {
				return err
			}
			out.VariantID = id
		}
	} else {
		if len(w.Value) == 0 {
			return fmt.Errorf("%w: %s without value", ErrMalformed, w.Kind)
		}
		if err := json.Unmarshal(w.Value, &out.Raw); err != nil {
			return fmt.Errorf("%w: %s value must be a string", ErrMalformed, w.Kind)
		}
	}

	*v = out
	return nil
}

// parseVariantID accepts a JSON number or a numeric string.
func parseVariantID(raw json.RawMessage) (uint32, error) {
	if len(raw) == 0 {
		return 0, fmt.Errorf("%w: Enum without variant_id", ErrMalformed)
	}
	text := string(raw)
	if unq, err := strconv.Unquote(text); err == nil {
		text = unq
	}
	id, err := strconv.ParseUint(text, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: bad variant_id %s", ErrMalformed, raw)
	}
	return uint32(id), nil
}

// MarshalJSON encodes the value in the same tagged form UnmarshalJSON reads.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindEnum:
		return json.Marshal(struct {
			Kind      Kind    `json:"kind"`
			VariantID uint32  `json:"variant_id"`
			Fields    []Value `json:"fields"`
		}{v.Kind, v.VariantID, nonNil(v.Fields)})
	case KindTuple:
		return json.Marshal(struct {
			Kind   Kind    `json:"kind"`
			Fields []Value `json:"fields"`
		}{v.Kind, nonNil(v.Fields)})
	default:
		return json.Marshal(struct {
			Kind  Kind   `json:"kind"`
			Value string `json:"value"`
		}{v.Kind, v.Raw})
	}
}

func nonNil(fields []Value) []Value {
	if fields == nil {
		return []Value{}
	}
	return fields
}

// Decode parses a single tagged value.
func Decode(data []byte) (Value, error) {
	var v Value
	if err := json.Unmarshal(data, &v); err != nil {
		if errors.Is(err, ErrMalformed) {
			return Value{}, err
		}
		return Value{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return v, nil
}

// String renders the value for logs and error messages.
func (v Value) String() string {
	switch v.Kind {
	case KindTuple, KindEnum:
		var sb strings.Builder
		sb.WriteString(string(v.Kind))
		if v.Kind == KindEnum {
			fmt.Fprintf(&sb, "::%d", v.VariantID)
		}
		sb.WriteString("(")
		for i, f := range v.Fields {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(f.String())
		}
		sb.WriteString(")")
		return sb.String()
	default:
		return fmt.Sprintf("%s(%q)", v.Kind, v.Raw)
	}
}
