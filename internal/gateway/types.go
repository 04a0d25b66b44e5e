package gateway

import (
	"encoding/json"
	"fmt"

	"github.com/LeJamon/goRadixOracle/internal/codec/sbor"
)

// TransactionStatus is the ledger status of a submitted transaction intent.
type TransactionStatus string

const (
	StatusUnknown          TransactionStatus = "Unknown"
	StatusPending          TransactionStatus = "Pending"
	StatusCommittedSuccess TransactionStatus = "CommittedSuccess"
	StatusCommittedFailure TransactionStatus = "CommittedFailure"
	StatusRejected         TransactionStatus = "Rejected"
)

// IsTerminal reports whether the status can no longer change.
func (s TransactionStatus) IsTerminal() bool {
	switch s {
	case StatusCommittedSuccess, StatusCommittedFailure, StatusRejected:
		return true
	}
	return false
}

// IsCommitted reports whether the transaction made it into the ledger,
// successfully or not. Only committed transactions have a receipt.
func (s TransactionStatus) IsCommitted() bool {
	return s == StatusCommittedSuccess || s == StatusCommittedFailure
}

// EntityTypeComponent is the details type reported for component entities.
const EntityTypeComponent = "Component"

// LedgerState identifies the ledger version a response was served at.
type LedgerState struct {
	Network                string `json:"network"`
	StateVersion           int64  `json:"state_version"`
	ProposerRoundTimestamp string `json:"proposer_round_timestamp"`
	Epoch                  int64  `json:"epoch"`
	Round                  int64  `json:"round"`
}

// StatusResponse is the body of transaction/status.
type StatusResponse struct {
	LedgerState  LedgerState       `json:"ledger_state"`
	Status       TransactionStatus `json:"status"`
	ErrorMessage string            `json:"error_message,omitempty"`
}

// CommittedDetails is the body of transaction/committed-details.
type CommittedDetails struct {
	LedgerState LedgerState          `json:"ledger_state"`
	Transaction CommittedTransaction `json:"transaction"`
	Details     TransactionDetails   `json:"details"`
}

// CommittedTransaction summarises the committed transaction.
type CommittedTransaction struct {
	IntentHashHex string            `json:"intent_hash_hex"`
	StateVersion  int64             `json:"state_version"`
	Status        TransactionStatus `json:"transaction_status"`
	ConfirmedAt   string            `json:"confirmed_at,omitempty"`
	ErrorMessage  string            `json:"error_message,omitempty"`
}

// TransactionDetails carries the receipt and the global entities touched by it.
type TransactionDetails struct {
	RawHex                   string   `json:"raw_hex,omitempty"`
	Receipt                  Receipt  `json:"receipt"`
	ReferencedGlobalEntities []string `json:"referenced_global_entities"`
}

// Receipt is the execution receipt of a committed transaction.
type Receipt struct {
	Status       string        `json:"status"`
	Output       []OutputEntry `json:"output"`
	ErrorMessage string        `json:"error_message,omitempty"`
}

// OutputEntry is the return value of one manifest instruction.
type OutputEntry struct {
	Hex      string          `json:"hex"`
	DataJSON json.RawMessage `json:"data_json"`
}

// Value decodes the entry's data_json.
func (o OutputEntry) Value() (sbor.Value, error) {
	if len(o.DataJSON) == 0 {
		return sbor.Value{}, fmt.Errorf("%w: output entry has no data_json", sbor.ErrMalformed)
	}
	return sbor.Decode(o.DataJSON)
}

// EntityDetails describes one global entity.
type EntityDetails struct {
	Address  string         `json:"address"`
	Metadata EntityMetadata `json:"metadata"`
	Details  *EntityInfo    `json:"details,omitempty"`
}

// EntityMetadata is the metadata collection of an entity.
type EntityMetadata struct {
	TotalCount int64          `json:"total_count"`
	Items      []MetadataItem `json:"items"`
}

// MetadataItem is a single metadata key and value.
type MetadataItem struct {
	Key   string        `json:"key"`
	Value MetadataValue `json:"value"`
}

// MetadataValue holds the string rendering of a metadata value.
type MetadataValue struct {
	AsString string `json:"as_string"`
}

// EntityInfo carries the entity type.
type EntityInfo struct {
	Type string `json:"type"`
}

// MetadataString returns the string metadata value for key.
func (e EntityDetails) MetadataString(key string) (string, bool) {
	for _, item := range e.Metadata.Items {
		if item.Key == key {
			return item.Value.AsString, true
		}
	}
	return "", false
}

// Type returns the entity type, or "" when details are absent.
func (e EntityDetails) Type() string {
	if e.Details == nil {
		return ""
	}
	return e.Details.Type
}

type statusRequest struct {
	IntentHashHex string `json:"intent_hash_hex"`
}

type committedDetailsRequest struct {
	IntentHashHex string `json:"intent_hash_hex"`
}

type entityDetailsRequest struct {
	Addresses        []string `json:"addresses"`
	AggregationLevel string   `json:"aggregation_level"`
}

type entityDetailsResponse struct {
	LedgerState LedgerState     `json:"ledger_state"`
	Items       []EntityDetails `json:"items"`
}

type errorResponse struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}
