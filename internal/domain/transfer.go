package domain

import "github.com/shopspring/decimal"

// TransferStatus is the lifecycle state of a funds transfer as reported by
// the banking API.
type TransferStatus string

const (
	TransferPending   TransferStatus = "pending"
	TransferCompleted TransferStatus = "completed"
	TransferFailed    TransferStatus = "failed"

	// TransferNone marks a run where no money moved (deficit or break-even
	// week). A normal outcome, not an error.
	TransferNone TransferStatus = "no_transfer"
)

// TransferRequest describes a funds movement to submit to the banking API.
// IdempotencyKey guards resubmission: the API must treat two submissions
// carrying the same key as one transfer.
type TransferRequest struct {
	Amount             decimal.Decimal
	SourceAccount      string
	DestinationAccount string
	IdempotencyKey     string
}

// TransferResult is the outcome of a surplus transfer attempt. TransferID is
// assigned by the banking API and is the anchor for status polling and any
// later idempotent retry; it is populated even when verification fails so the
// run status is enough for manual follow-up.
type TransferResult struct {
	TransferID string
	Amount     decimal.Decimal
	Status     TransferStatus
	Initiated  bool // a submission reached the banking API
	Verified   bool // post-transfer balance re-read matched
}
