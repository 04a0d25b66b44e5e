package oracle

import (
	"fmt"

	"github.com/LeJamon/goRadixOracle/internal/codec/sbor"
	"github.com/LeJamon/goRadixOracle/internal/gateway"
	"github.com/shopspring/decimal"
)

// priceOutputs is the receipt output count of a get_price transaction: the
// fee lock the wallet prepends, then get_price itself.
const priceOutputs = 2

// DecodePrice extracts the get_price result from a receipt's output list.
func DecodePrice(output []gateway.OutputEntry) (PriceResult, error) {
	if len(output) != priceOutputs {
		return PriceResult{}, &DecodeError{
			Op:     OpGetPrice,
			Reason: fmt.Sprintf("expected %d output entries, got %d", priceOutputs, len(output)),
		}
	}
	v, err := output[priceOutputs-1].Value()
	if err != nil {
		return PriceResult{}, &DecodeError{Op: OpGetPrice, Reason: "get_price output", Err: err}
	}
	return DecodePriceValue(v)
}

// DecodePriceValue maps an Option<Decimal> enum onto a PriceResult:
// variant 0 with no fields is Unavailable, variant 1 with a single Decimal
// field is Available. Anything else is a DecodeError.
func DecodePriceValue(v sbor.Value) (PriceResult, error) {
	if v.Kind != sbor.KindEnum {
		return PriceResult{}, &DecodeError{Op: OpGetPrice, Reason: fmt.Sprintf("expected Enum, got %s", v.Kind)}
	}

	switch v.VariantID {
	case 0:
		if len(v.Fields) != 0 {
			return PriceResult{}, &DecodeError{Op: OpGetPrice, Reason: fmt.Sprintf("None variant with %d fields", len(v.Fields))}
		}
		return Unavailable(), nil

	case 1:
		if len(v.Fields) != 1 || v.Fields[0].Kind != sbor.KindDecimal {
			return PriceResult{}, &DecodeError{Op: OpGetPrice, Reason: fmt.Sprintf("Some variant is not a single Decimal: %s", v)}
		}
		d, err := decimal.NewFromString(v.Fields[0].Raw)
		if err != nil {
			return PriceResult{}, &DecodeError{Op: OpGetPrice, Reason: "price is not a decimal", Err: err}
		}
		return Available(d), nil

	default:
		return PriceResult{}, &DecodeError{Op: OpGetPrice, Reason: fmt.Sprintf("unexpected variant %d", v.VariantID)}
	}
}

// Instantiation is the oracle created by an instantiate transaction.
type Instantiation struct {
	ComponentAddress  string
	AdminBadgeAddress string
}

// DecodeInstantiation finds the oracle component and its admin badge among
// the entities referenced by an instantiate receipt. The component is the
// first Component entity; the badge is the entity whose "name" metadata is
// badgeName. Both must be present.
func DecodeInstantiation(entities []gateway.EntityDetails, badgeName string) (Instantiation, error) {
	var inst Instantiation
	for _, e := range entities {
		if inst.ComponentAddress == "" && e.Type() == gateway.EntityTypeComponent {
			inst.ComponentAddress = e.Address
			continue
		}
		if inst.AdminBadgeAddress == "" {
			if name, ok := e.MetadataString("name"); ok && name == badgeName {
				inst.AdminBadgeAddress = e.Address
			}
		}
	}

	switch {
	case inst.ComponentAddress == "" && inst.AdminBadgeAddress == "":
		return Instantiation{}, &DecodeError{Op: OpInstantiate, Reason: "no component and no admin badge among referenced entities"}
	case inst.ComponentAddress == "":
		return Instantiation{}, &DecodeError{Op: OpInstantiate, Reason: "no component among referenced entities"}
	case inst.AdminBadgeAddress == "":
		return Instantiation{}, &DecodeError{Op: OpInstantiate, Reason: fmt.Sprintf("no entity named %q among referenced entities", badgeName)}
	}
	return inst, nil
}
