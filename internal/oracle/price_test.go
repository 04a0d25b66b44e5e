package oracle

import (
	"encoding/json"
	"testing"

	"github.com/LeJamon/goRadixOracle/internal/manifest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPriceResult(t *testing.T) {
	a := Available(decimal.RequireFromString("1.50"))
	b := Available(decimal.RequireFromString("1.5"))

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(Unavailable()))
	assert.True(t, Unavailable().Equal(PriceResult{}))
	assert.Equal(t, "unavailable", Unavailable().String())

	data, err := json.Marshal(struct {
		A PriceResult `json:"a"`
		N PriceResult `json:"n"`
	}{A: b, N: Unavailable()})
	assert.NoError(t, err)
	assert.JSONEq(t, `{"a":"1.5","n":null}`, string(data))
}

func TestPriceQueryValidate(t *testing.T) {
	tests := []struct {
		name string
		q    PriceQuery
		want error
	}{
		{"ok", PriceQuery{Base: DefaultXRDAddress, Quote: testUSD}, nil},
		{"missing base", PriceQuery{Quote: testUSD}, ErrQueryIncomplete},
		{"missing quote", PriceQuery{Base: testUSD}, ErrQueryIncomplete},
		{"component as base", PriceQuery{Base: testComponent, Quote: testUSD}, manifest.ErrInvalidAddress},
		{"garbage quote", PriceQuery{Base: testUSD, Quote: "resource_xyz"}, manifest.ErrInvalidAddress},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.q.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestPriceQueryWithDefaults(t *testing.T) {
	snap := instantiatedSnapshot()

	q := PriceQuery{}.WithDefaults(DefaultXRDAddress, snap)
	assert.Equal(t, PriceQuery{Base: DefaultXRDAddress, Quote: testBadge}, q)

	q = PriceQuery{Base: testUSD, Quote: DefaultXRDAddress}.WithDefaults(DefaultXRDAddress, snap)
	assert.Equal(t, PriceQuery{Base: testUSD, Quote: DefaultXRDAddress}, q)

	q = PriceQuery{}.WithDefaults(DefaultXRDAddress, Snapshot{})
	assert.False(t, q.Complete())
}
