// Package testing provides an in-memory ledger for oracle client tests.
//
// # Overview
//
// TestEnv simulates the network with the oracle package published. It
// implements both collaborators of oracle.Service:
//   - wallet.Connector: connection state, shared accounts, persona and Submit
//   - the ledger gateway: transaction status, committed details and entity details
//
// Submitted manifests are parsed with manifest.Parse and executed against the
// blueprint semantics: instantiate_oracle mints "Oracle Admin Badge" tokens,
// update_price needs a badge proof in the auth zone and stores the inverse
// price too, get_price returns an Option<Decimal>, and the worktop must be
// empty when the transaction ends. Failed transactions commit with a failure
// status and leave the ledger untouched.
//
// # Basic Usage
//
//	func TestGetPrice(t *testing.T) {
//	    env := jtx.NewTestEnv(t)
//	    alice := jtx.NewAccount("alice")
//	    env.Connect(alice)
//
//	    svc := env.NewService(nil)
//
//	    _, err := svc.Instantiate(ctx, alice.Wallet())
//	    require.NoError(t, err)
//	}
//
// # Fault Injection
//
//	env.SetPendingPolls(3)        // report Pending three times per transaction
//	env.RejectNext()              // the network rejects the next transaction
//	env.UserRejectNext()          // the user declines the next transaction
//	env.FailStatusRequests(503)   // the next status request fails
//	env.ReplaceNextOutput(...)    // craft the next receipt output
//	env.SetBadgeName("Other")     // mint badges under another name
//
// # Assertions
//
//	jtx.RequireCommitSuccess(t, env, intentHash)
//	jtx.RequireCommitFailure(t, env, intentHash, "Unauthorized")
//	jtx.RequirePrice(t, env, component, base, quote, "42.5")
//	jtx.RequireBalance(t, env, alice, badge, "1")
package testing
