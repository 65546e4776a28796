package domain

import "time"

// Confirmation is the terminal result of a confirmed ledger transaction.
type Confirmation struct {
	TxID  string `json:"tx_id"`
	Round uint64 `json:"round"`
}

const (
	OutcomeTransferred    = "transferred"
	OutcomeTransferFailed = "transfer_failed"
	OutcomeCreateFailed   = "create_failed"
	OutcomeSkippedNoHash  = "skipped_no_hash"
	OutcomeSkippedPolicy  = "skipped_policy"
)

const (
	ErrorCodeLedgerSubmission    = "LEDGER_SUBMISSION"
	ErrorCodeConfirmationTimeout = "CONFIRMATION_TIMEOUT"
	ErrorCodeNoHash              = "NO_HASH"
	ErrorCodePolicyDenied        = "POLICY_DENIED"
	ErrorCodeAuthentication      = "AUTHENTICATION"
	ErrorCodeDocumentRetrieval   = "DOCUMENT_RETRIEVAL"
)

// DocumentOutcome is the per-document processing result. Creation failure
// suppresses the transfer; the transfer round is only set for transferred.
type DocumentOutcome struct {
	DocumentHash  string `json:"document_hash"`
	Status        string `json:"status"`
	ErrorCode     string `json:"error_code,omitempty"`
	AssetTxID     string `json:"asset_tx_id,omitempty"`
	AssetRound    uint64 `json:"asset_round,omitempty"`
	TransferTxID  string `json:"transfer_tx_id,omitempty"`
	TransferRound uint64 `json:"transfer_round,omitempty"`
}

const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// TransferRun is one execution of the transfer pipeline. A run is failed
// only when authentication or document retrieval prevented any processing;
// per-document failures leave the run completed.
type TransferRun struct {
	ID            string            `json:"id"`
	Status        string            `json:"status"`
	ErrorCode     string            `json:"error_code,omitempty"`
	DocumentCount int               `json:"document_count"`
	Outcomes      []DocumentOutcome `json:"outcomes,omitempty"`
	StartedAt     time.Time         `json:"started_at"`
	FinishedAt    *time.Time        `json:"finished_at,omitempty"`
}
