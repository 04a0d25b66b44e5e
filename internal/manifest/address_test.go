package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testPackage   = "package_tdx_c_1qrw4sgjw670278sj8rpz9ptgk96vgg679866qa3lqq9s002qvf"
	testAccount   = "account_tdx_c_190vqdjtlpcq27xslcveglfmr4ynfwg7gmw86cnun4acs5mcwhn"
	testComponent = "component_tdx_c_1jgp27m8fykex4e4jtt0l7ze8q528ux2l5wxatzhxanzsjwr0sf"
	testBadge     = "resource_tdx_c_13qzum63tr97ltl24thp4nfl4hmkjumt9meycec7l8h5scr9rcm"
	testXRD       = "resource_tdx_c_1qyqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqq40v2wv"
)

func TestParseAddress(t *testing.T) {
	tests := []struct {
		name    string
		addr    string
		kind    EntityKind
		network string
	}{
		{"package", testPackage, EntityPackage, "tdx_c_"},
		{"account", testAccount, EntityAccount, "tdx_c_"},
		{"component", testComponent, EntityComponent, "tdx_c_"},
		{"resource", testXRD, EntityResource, "tdx_c_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pa, err := ParseAddress(tt.addr)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, pa.Kind)
			assert.Equal(t, tt.network, pa.Network)
			assert.Equal(t, tt.addr, pa.Raw)
		})
	}
}

func TestParseAddressRejects(t *testing.T) {
	tests := []struct {
		name string
		addr string
	}{
		{"empty", ""},
		{"not bech32", "component_abc"},
		{"bad checksum", testComponent[:len(testComponent)-1] + "q"},
		{"unknown entity", mustEncode(t, "validator", "tdx_c_")},
		{"no network", mustEncode(t, "component", "")},
		{"mixed case", "Component_tdx_c_1jgp27m8fykex4e4jtt0l7ze8q528ux2l5wxatzhxanzsjwr0sf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAddress(tt.addr)
			assert.ErrorIs(t, err, ErrInvalidAddress)
		})
	}
}

func TestParseAddressOf(t *testing.T) {
	_, err := ParseAddressOf(testComponent, EntityComponent, EntityAccount)
	require.NoError(t, err)

	_, err = ParseAddressOf(testBadge, EntityComponent, EntityAccount)
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

func TestEncodeAddressRoundTrip(t *testing.T) {
	addr, err := EncodeAddress(EntityComponent, "tdx_c_", []byte("oracle-component-entity-id"))
	require.NoError(t, err)

	pa, err := ParseAddress(addr)
	require.NoError(t, err)
	assert.Equal(t, EntityComponent, pa.Kind)
}

func mustEncode(t *testing.T, kind, network string) string {
	t.Helper()
	addr, err := EncodeAddress(EntityKind(kind), network, []byte{1, 2, 3, 4, 5, 6, 7, 8})
	require.NoError(t, err)
	return addr
}
