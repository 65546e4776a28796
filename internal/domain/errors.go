package domain

import "errors"

var (
	ErrConfiguration       = errors.New("configuration invalid")
	ErrAuthentication      = errors.New("authentication failed")
	ErrDocumentRetrieval   = errors.New("document retrieval failed")
	ErrLedgerSubmission    = errors.New("ledger submission failed")
	ErrConfirmationTimeout = errors.New("transaction not confirmed")
	ErrNotFound            = errors.New("not found")
)
