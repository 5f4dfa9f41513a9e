package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// TransientError wraps a retryable failure: network errors, timeouts, 5xx
// responses. Retry policies treat everything else as permanent.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("%s: transient failure: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// Transient wraps err as retryable.
func Transient(op string, err error) error {
	return &TransientError{Op: op, Err: err}
}

// IsTransient reports whether err is retryable.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

// DataError marks malformed or missing required input. Never retryable.
type DataError struct {
	Op  string
	Err error
}

func (e *DataError) Error() string {
	return fmt.Sprintf("%s: bad data: %v", e.Op, e.Err)
}

func (e *DataError) Unwrap() error { return e.Err }

// BadData wraps err as a non-retryable data problem.
func BadData(op string, err error) error {
	return &DataError{Op: op, Err: err}
}

// InsufficientFundsError is returned when the source account cannot cover a
// requested transfer. The transfer is never submitted in that case.
type InsufficientFundsError struct {
	Balance   decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: balance %s, requested %s",
		e.Balance.StringFixed(2), e.Requested.StringFixed(2))
}
