package testing

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/LeJamon/goRadixOracle/internal/gateway"
	"github.com/LeJamon/goRadixOracle/internal/manifest"
	"github.com/LeJamon/goRadixOracle/internal/wallet"
)

// IsConnected reports whether the wallet session is established.
func (e *TestEnv) IsConnected(ctx context.Context) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.connected
}

// ConnectedAccounts returns the shared accounts in connection order.
func (e *TestEnv) ConnectedAccounts(ctx context.Context) ([]wallet.Account, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.connected {
		return nil, wallet.ErrNotConnected
	}
	out := make([]wallet.Account, 0, len(e.accounts))
	for _, acc := range e.accounts {
		out = append(out, acc.Wallet())
	}
	return out, nil
}

// ConnectedPersona returns the logged in persona.
func (e *TestEnv) ConnectedPersona(ctx context.Context) (*wallet.Persona, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.connected || e.persona == nil {
		return nil, wallet.ErrNotConnected
	}
	p := *e.persona
	return &p, nil
}

// Submit plays the wallet: it parses the manifest, lets the user approve it
// and broadcasts it. The transaction executes immediately but stays Pending
// for the configured number of status polls.
func (e *TestEnv) Submit(ctx context.Context, src string) (wallet.TransactionHandle, error) {
	if err := ctx.Err(); err != nil {
		return wallet.TransactionHandle{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.connected {
		return wallet.TransactionHandle{}, wallet.ErrNotConnected
	}
	if e.userRejectNext {
		e.userRejectNext = false
		return wallet.TransactionHandle{}, &wallet.SubmitError{Reason: wallet.ReasonRejectedByUser, Message: "user declined the transaction"}
	}
	m, err := manifest.Parse(src)
	if err != nil {
		return wallet.TransactionHandle{}, &wallet.SubmitError{Reason: wallet.ReasonInvalidManifest, Message: err.Error()}
	}

	e.submitted = append(e.submitted, src)
	sum := sha256.Sum256([]byte(fmt.Sprintf("%d:%s", len(e.submitted), src)))
	intentHash := hex.EncodeToString(sum[:])

	tx := &transaction{
		manifest: src,
		pending:  e.pendingPolls,
		result:   TxResult{IntentHash: intentHash},
	}
	e.txs[intentHash] = tx
	e.order = append(e.order, intentHash)

	if e.rejectNext {
		e.rejectNext = false
		tx.result.Status = gateway.StatusRejected
		tx.result.Message = "transaction rejected by the network"
		return wallet.TransactionHandle{IntentHash: intentHash}, nil
	}

	x := newExecution(e)
	runErr := x.run(m)

	e.stateVersion++
	tx.stateVersion = e.stateVersion
	e.clock.CloseRound()

	if runErr != nil {
		tx.result.Status = gateway.StatusCommittedFailure
		tx.result.Message = runErr.Error()
		tx.result.Output = x.output[:1]
		return wallet.TransactionHandle{IntentHash: intentHash}, nil
	}

	x.commit()
	tx.result.Status = gateway.StatusCommittedSuccess
	tx.result.Output = x.output
	tx.result.Referenced = x.referenced
	if e.outputOverrides != nil {
		tx.result.Output = e.outputOverrides
		e.outputOverrides = nil
	}
	return wallet.TransactionHandle{IntentHash: intentHash}, nil
}

// TransactionStatus answers like the gateway's transaction/status.
func (e *TestEnv) TransactionStatus(ctx context.Context, intentHash string) (*gateway.StatusResponse, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.statusFailures) > 0 {
		code := e.statusFailures[0]
		e.statusFailures = e.statusFailures[1:]
		return nil, &gateway.APIError{StatusCode: code, Message: http.StatusText(code)}
	}

	resp := &gateway.StatusResponse{LedgerState: e.ledgerState()}
	tx, ok := e.txs[intentHash]
	switch {
	case !ok:
		resp.Status = gateway.StatusUnknown
	case tx.pending > 0:
		tx.pending--
		resp.Status = gateway.StatusPending
	default:
		tx.settled = true
		resp.Status = tx.result.Status
		resp.ErrorMessage = tx.result.Message
	}
	return resp, nil
}

// CommittedDetails answers like the gateway's transaction/committed-details.
// A transaction is found only after a status request reported it terminal.
func (e *TestEnv) CommittedDetails(ctx context.Context, intentHash string) (*gateway.CommittedDetails, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	tx, ok := e.txs[intentHash]
	if !ok || !tx.settled || !tx.result.IsCommitted() {
		return nil, &gateway.APIError{
			StatusCode: http.StatusNotFound,
			Message:    "committed transaction not found",
		}
	}

	output := make([]gateway.OutputEntry, 0, len(tx.result.Output))
	for _, v := range tx.result.Output {
		data, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		output = append(output, gateway.OutputEntry{DataJSON: data})
	}

	receiptStatus := "Succeeded"
	if !tx.result.IsSuccess() {
		receiptStatus = "Failed"
	}

	return &gateway.CommittedDetails{
		LedgerState: e.ledgerState(),
		Transaction: gateway.CommittedTransaction{
			IntentHashHex: intentHash,
			StateVersion:  tx.stateVersion,
			Status:        tx.result.Status,
			ErrorMessage:  tx.result.Message,
		},
		Details: gateway.TransactionDetails{
			Receipt: gateway.Receipt{
				Status:       receiptStatus,
				Output:       output,
				ErrorMessage: tx.result.Message,
			},
			ReferencedGlobalEntities: append([]string(nil), tx.result.Referenced...),
		},
	}, nil
}

// EntityDetails answers like the gateway's state/entity/details. Unknown
// addresses are left out of the response.
func (e *TestEnv) EntityDetails(ctx context.Context, addresses []string) ([]gateway.EntityDetails, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var out []gateway.EntityDetails
	for _, addr := range addresses {
		switch {
		case e.components[addr] != nil:
			out = append(out, gateway.EntityDetails{
				Address: addr,
				Details: &gateway.EntityInfo{Type: gateway.EntityTypeComponent},
			})
		case e.resources[addr] != nil:
			ed := gateway.EntityDetails{
				Address: addr,
				Details: &gateway.EntityInfo{Type: "FungibleResource"},
			}
			if name := e.resources[addr].name; name != "" {
				ed.Metadata.TotalCount = 1
				ed.Metadata.Items = []gateway.MetadataItem{{Key: "name", Value: gateway.MetadataValue{AsString: name}}}
			}
			out = append(out, ed)
		case e.isAccount(addr):
			out = append(out, gateway.EntityDetails{
				Address: addr,
				Details: &gateway.EntityInfo{Type: "Account"},
			})
		}
	}
	return out, nil
}

func (e *TestEnv) ledgerState() gateway.LedgerState {
	return gateway.LedgerState{
		Network:                "rcnet",
		StateVersion:           e.stateVersion,
		ProposerRoundTimestamp: e.clock.Now().Format(time.RFC3339),
		Epoch:                  1 + e.clock.Round()/100,
		Round:                  e.clock.Round(),
	}
}
