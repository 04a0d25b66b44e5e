package oracle

import (
	"github.com/LeJamon/goRadixOracle/internal/wallet"
)

const (
	testAccount   = "account_tdx_c_190vqdjtlpcq27xslcveglfmr4ynfwg7gmw86cnun4acs5mcwhn"
	testOther     = "account_tdx_c_1sxmr0k8u6trd5c6eu6trzyapzux7090ykujmsng7pdxqcppqya"
	testComponent = "component_tdx_c_1jgp27m8fykex4e4jtt0l7ze8q528ux2l5wxatzhxanzsjwr0sf"
	testBadge     = "resource_tdx_c_13qzum63tr97ltl24thp4nfl4hmkjumt9meycec7l8h5scr9rcm"
	testUSD       = "resource_tdx_c_16c8mmpccan4h7a63c69kjh3na7t56rkv52cm7gxf9rnqnx8k45"
)

func testWalletAccount() wallet.Account {
	return wallet.Account{Address: testAccount, Label: "alice"}
}

func instantiatedSnapshot() Snapshot {
	acct := testWalletAccount()
	return Snapshot{
		ComponentAddress:  testComponent,
		AdminBadgeAddress: testBadge,
		AdminAccount:      &acct,
	}
}
