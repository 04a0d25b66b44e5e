package manifest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/bech32"
)

// EntityKind is the entity class carried in the human readable part of an address.
type EntityKind string

const (
	EntityPackage   EntityKind = "package"
	EntityComponent EntityKind = "component"
	EntityAccount   EntityKind = "account"
	EntityResource  EntityKind = "resource"
)

var (
	// ErrInvalidAddress is returned for addresses that fail bech32m decoding or
	// carry an unexpected entity kind.
	ErrInvalidAddress = errors.New("invalid address")

	// ErrInvalidInstruction is returned for instructions missing a target or name.
	ErrInvalidInstruction = errors.New("invalid instruction")

	// ErrEmptyManifest is returned when building a manifest with no instructions.
	ErrEmptyManifest = errors.New("manifest has no instructions")
)

// ParsedAddress is a validated ledger address.
type ParsedAddress struct {
	Raw     string
	Kind    EntityKind
	Network string
}

// ParseAddress validates a bech32m ledger address such as
// "component_tdx_c_1..." and reports its entity kind and network suffix.
func ParseAddress(addr string) (ParsedAddress, error) {
	if addr == "" {
		return ParsedAddress{}, fmt.Errorf("%w: empty address", ErrInvalidAddress)
	}

	hrp, _, version, err := bech32.DecodeGeneric(addr)
	if err != nil {
		return ParsedAddress{}, fmt.Errorf("%w: %q: %v", ErrInvalidAddress, addr, err)
	}
	if version != bech32.VersionM {
		return ParsedAddress{}, fmt.Errorf("%w: %q is not bech32m encoded", ErrInvalidAddress, addr)
	}

	kind, network, ok := strings.Cut(hrp, "_")
	if !ok || network == "" {
		return ParsedAddress{}, fmt.Errorf("%w: %q has no network in prefix %q", ErrInvalidAddress, addr, hrp)
	}

	switch EntityKind(kind) {
	case EntityPackage, EntityComponent, EntityAccount, EntityResource:
	default:
		return ParsedAddress{}, fmt.Errorf("%w: %q has unknown entity kind %q", ErrInvalidAddress, addr, kind)
	}

	return ParsedAddress{
		Raw:     addr,
		Kind:    EntityKind(kind),
		Network: network,
	}, nil
}

// ParseAddressOf is ParseAddress restricted to the given entity kinds.
func ParseAddressOf(addr string, kinds ...EntityKind) (ParsedAddress, error) {
	pa, err := ParseAddress(addr)
	if err != nil {
		return ParsedAddress{}, err
	}
	for _, k := range kinds {
		if pa.Kind == k {
			return pa, nil
		}
	}
	return ParsedAddress{}, fmt.Errorf("%w: %q is a %s address, want one of %v", ErrInvalidAddress, addr, pa.Kind, kinds)
}

// EncodeAddress builds a bech32m address for kind on network from raw entity bytes.
func EncodeAddress(kind EntityKind, network string, payload []byte) (string, error) {
	data, err := bech32.ConvertBits(payload, 8, 5, true)
	if err != nil {
		return "", fmt.Errorf("convert address payload: %w", err)
	}
	return bech32.EncodeM(string(kind)+"_"+network, data)
}
