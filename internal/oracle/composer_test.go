package oracle

import (
	"testing"

	"github.com/LeJamon/goRadixOracle/internal/manifest"
	"github.com/LeJamon/goRadixOracle/internal/wallet"
	"github.com/sebdah/goldie/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposerManifests(t *testing.T) {
	c := NewComposer(DefaultPackageAddress)
	snap := instantiatedSnapshot()
	q := PriceQuery{Base: DefaultXRDAddress, Quote: testUSD}

	tests := []struct {
		name string
		req  Request
	}{
		{"instantiate", Request{Op: OpInstantiate, Account: testWalletAccount()}},
		{"get_price", Request{Op: OpGetPrice, Query: q}},
		{"update_price", Request{Op: OpUpdatePrice, Query: q, Price: decimal.RequireFromString("1.5")}},
	}

	g := goldie.New(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := c.Compose(snap, tt.req)
			require.NoError(t, err)
			g.Assert(t, tt.name, []byte(m.String()))

			// Everything the composer renders is accepted by the wallet's parser.
			parsed, err := manifest.Parse(m.String())
			require.NoError(t, err)
			assert.Equal(t, m.String(), parsed.String())
		})
	}
}

func TestComposerInstantiateAdminCount(t *testing.T) {
	c := NewComposer(DefaultPackageAddress)
	c.AdminCount = 3

	m, err := c.Instantiate(testWalletAccount())
	require.NoError(t, err)
	require.Len(t, m.Instructions, 2)
	assert.Equal(t, manifest.U32(3), m.Instructions[0].Args[0])
	assert.Equal(t, MethodDepositBatch, m.Instructions[1].Name)
	assert.Equal(t, testAccount, m.Instructions[1].Target.Raw)
}

func TestComposerUpdatePriceProvesFirst(t *testing.T) {
	c := NewComposer(DefaultPackageAddress)
	snap := instantiatedSnapshot()
	other := wallet.Account{Address: testOther}
	snap.AdminAccount = &other

	m, err := c.UpdatePrice(snap, PriceQuery{Base: testUSD, Quote: testBadge}, decimal.RequireFromString("0.000000000000000001"))
	require.NoError(t, err)

	proof := m.IndexOf(MethodCreateProofByAmount)
	update := m.IndexOf(MethodUpdatePrice)
	require.Equal(t, 0, proof)
	require.Equal(t, 1, update)
	assert.Equal(t, testOther, m.Instructions[proof].Target.Raw)
	assert.Equal(t, manifest.Address(testBadge), m.Instructions[proof].Args[0])
	assert.Equal(t, testComponent, m.Instructions[update].Target.Raw)
	assert.Contains(t, m.String(), `Decimal("0.000000000000000001")`)
}

func TestComposerUpdatePricePrecision(t *testing.T) {
	c := NewComposer(DefaultPackageAddress)
	snap := instantiatedSnapshot()
	q := PriceQuery{Base: DefaultXRDAddress, Quote: testUSD}

	tests := []struct {
		price string
		ok    bool
	}{
		{"0.000000000000000001", true},
		{"123456789.123456789012345678", true},
		{"1.500000000000000000000", true},
		{"0.0000000000000000001", false},
		{"1.0000000000000000001", false},
	}

	for _, tt := range tests {
		t.Run(tt.price, func(t *testing.T) {
			m, err := c.UpdatePrice(snap, q, decimal.RequireFromString(tt.price))
			if !tt.ok {
				assert.Nil(t, m)
				assert.ErrorIs(t, err, ErrInvalidPrice)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, m)
		})
	}
}

func TestComposerErrors(t *testing.T) {
	c := NewComposer(DefaultPackageAddress)
	full := PriceQuery{Base: DefaultXRDAddress, Quote: testUSD}

	tests := []struct {
		name string
		snap Snapshot
		req  Request
		want error
	}{
		{"instantiate without account", Snapshot{}, Request{Op: OpInstantiate}, ErrNotConnected},
		{"get before instantiate", Snapshot{}, Request{Op: OpGetPrice, Query: full}, ErrNotInstantiated},
		{"get with missing quote", instantiatedSnapshot(), Request{Op: OpGetPrice, Query: PriceQuery{Base: DefaultXRDAddress}}, ErrQueryIncomplete},
		{"update before instantiate", Snapshot{ComponentAddress: testComponent}, Request{Op: OpUpdatePrice, Query: full, Price: decimal.NewFromInt(1)}, ErrNotInstantiated},
		{"update with missing base", instantiatedSnapshot(), Request{Op: OpUpdatePrice, Query: PriceQuery{Quote: testUSD}, Price: decimal.NewFromInt(1)}, ErrQueryIncomplete},
		{"update to zero", instantiatedSnapshot(), Request{Op: OpUpdatePrice, Query: full}, ErrInvalidPrice},
		{"update to negative", instantiatedSnapshot(), Request{Op: OpUpdatePrice, Query: full, Price: decimal.NewFromInt(-2)}, ErrInvalidPrice},
		{"update past ledger precision", instantiatedSnapshot(), Request{Op: OpUpdatePrice, Query: full, Price: decimal.RequireFromString("0.0000000000000000001")}, ErrInvalidPrice},
		{"update with excess fraction", instantiatedSnapshot(), Request{Op: OpUpdatePrice, Query: full, Price: decimal.RequireFromString("2.0000000000000000005")}, ErrInvalidPrice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := c.Compose(tt.snap, tt.req)
			assert.Nil(t, m)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := c.Compose(Snapshot{}, Request{Op: Operation(9)})
	assert.Error(t, err)
}
