package testing

import (
	"testing"

	"github.com/LeJamon/goRadixOracle/internal/gateway"
	"github.com/stretchr/testify/require"
)

// RequireCommitSuccess asserts that a transaction committed successfully.
func RequireCommitSuccess(t *testing.T, env *TestEnv, intentHash string) {
	t.Helper()
	result, ok := env.Transaction(intentHash)
	require.True(t, ok, "transaction %s not found", intentHash)
	require.Equal(t, gateway.StatusCommittedSuccess, result.Status,
		"Expected CommittedSuccess for %s, got %s: %s", intentHash, result.Status, result.Message)
}

// RequireCommitFailure asserts that a transaction committed with a failure
// whose message contains msg.
func RequireCommitFailure(t *testing.T, env *TestEnv, intentHash, msg string) {
	t.Helper()
	result, ok := env.Transaction(intentHash)
	require.True(t, ok, "transaction %s not found", intentHash)
	require.Equal(t, gateway.StatusCommittedFailure, result.Status,
		"Expected CommittedFailure for %s, got %s", intentHash, result.Status)
	require.Contains(t, result.Message, msg)
}

// RequirePrice asserts the price stored on the ledger for base/quote.
func RequirePrice(t *testing.T, env *TestEnv, component, base, quote, expected string) {
	t.Helper()
	actual, ok := env.Price(component, base, quote)
	require.True(t, ok, "no price stored for %s/%s", base, quote)
	require.True(t, Dec(expected).Equal(actual),
		"Price mismatch for %s/%s: expected %s, got %s", base, quote, expected, actual)
}

// RequireNoPrice asserts that no price is stored for base/quote.
func RequireNoPrice(t *testing.T, env *TestEnv, component, base, quote string) {
	t.Helper()
	actual, ok := env.Price(component, base, quote)
	require.False(t, ok, "unexpected price %s stored for %s/%s", actual, base, quote)
}

// RequireBalance asserts the amount of res held by acc.
func RequireBalance(t *testing.T, env *TestEnv, acc *Account, res, expected string) {
	t.Helper()
	actual := env.Balance(acc, res)
	require.True(t, Dec(expected).Equal(actual),
		"Account %s balance of %s mismatch: expected %s, got %s", acc.Name, res, expected, actual)
}
