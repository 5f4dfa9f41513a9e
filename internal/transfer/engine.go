// Package transfer moves a weekly budget surplus to savings through the
// banking API, with a balance guard before submission and an independent
// balance re-verification after completion.
package transfer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/dvloznov/budget-pilot/internal/domain"
)

// BankingAPI is the slice of the banking client the engine needs.
type BankingAPI interface {
	Balance(ctx context.Context, accountID string) (decimal.Decimal, error)
	SubmitTransfer(ctx context.Context, req domain.TransferRequest) (*domain.TransferResult, error)
	TransferStatus(ctx context.Context, transferID string) (domain.TransferStatus, error)
}

// Engine executes the surplus transfer. One transfer per run at most; any
// failure surfaces as an error with no retry at this layer. A fresh run with
// a new idempotency key is the only sanctioned way to try again.
type Engine struct {
	api          BankingAPI
	source       string
	destination  string
	pollInterval time.Duration
	maxPolls     int
	log          zerolog.Logger
}

func NewEngine(api BankingAPI, source, destination string, pollInterval time.Duration, maxPolls int, log zerolog.Logger) *Engine {
	if maxPolls < 1 {
		maxPolls = 1
	}
	return &Engine{
		api:          api,
		source:       source,
		destination:  destination,
		pollInterval: pollInterval,
		maxPolls:     maxPolls,
		log:          log,
	}
}

// TransferSurplus moves amount from the source account to savings.
//
// amount <= 0 returns a no_transfer result without touching the banking API:
// deficit and break-even weeks never move money. The source balance is read
// immediately before submission; if it cannot cover the amount, the transfer
// is never submitted. After the API reports the transfer completed, the
// balance is re-read and must have decreased by exactly amount, otherwise the
// result is an error with Verified false.
func (e *Engine) TransferSurplus(ctx context.Context, amount decimal.Decimal) (*domain.TransferResult, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		e.log.Info().Str("amount", amount.StringFixed(2)).Msg("no surplus to transfer")
		return &domain.TransferResult{
			Amount: amount,
			Status: domain.TransferNone,
		}, nil
	}

	// Balance check sits directly ahead of submission to keep the window for
	// a concurrent external withdrawal as small as the API allows.
	balanceBefore, err := e.api.Balance(ctx, e.source)
	if err != nil {
		return nil, fmt.Errorf("transfer: reading source balance: %w", err)
	}
	if balanceBefore.LessThan(amount) {
		return nil, &domain.InsufficientFundsError{Balance: balanceBefore, Requested: amount}
	}

	req := domain.TransferRequest{
		Amount:             amount,
		SourceAccount:      e.source,
		DestinationAccount: e.destination,
		IdempotencyKey:     uuid.NewString(),
	}

	submitted, err := e.api.SubmitTransfer(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("transfer: submitting: %w", err)
	}

	result := &domain.TransferResult{
		TransferID: submitted.TransferID,
		Amount:     amount,
		Status:     submitted.Status,
		Initiated:  true,
	}

	e.log.Info().
		Str("transfer_id", result.TransferID).
		Str("amount", amount.StringFixed(2)).
		Str("status", string(result.Status)).
		Msg("transfer submitted")

	status, err := e.awaitTerminal(ctx, result)
	if err != nil {
		return result, err
	}
	result.Status = status
	if status == domain.TransferFailed {
		return result, fmt.Errorf("transfer %s: banking API reported failure", result.TransferID)
	}

	// Independent re-verification: the books must balance exactly.
	balanceAfter, err := e.api.Balance(ctx, e.source)
	if err != nil {
		return result, fmt.Errorf("transfer %s: verifying balance: %w", result.TransferID, err)
	}
	expected := balanceBefore.Sub(amount)
	if !balanceAfter.Equal(expected) {
		return result, fmt.Errorf("transfer %s: balance verification mismatch: have %s, want %s",
			result.TransferID, balanceAfter.StringFixed(2), expected.StringFixed(2))
	}
	result.Verified = true

	e.log.Info().
		Str("transfer_id", result.TransferID).
		Str("balance_after", balanceAfter.StringFixed(2)).
		Msg("transfer completed and verified")

	return result, nil
}

// awaitTerminal polls the transfer until the API reports a terminal status or
// the polling budget runs out.
func (e *Engine) awaitTerminal(ctx context.Context, result *domain.TransferResult) (domain.TransferStatus, error) {
	if result.Status != domain.TransferPending {
		return result.Status, nil
	}

	for i := 0; i < e.maxPolls; i++ {
		select {
		case <-time.After(e.pollInterval):
		case <-ctx.Done():
			return result.Status, ctx.Err()
		}

		status, err := e.api.TransferStatus(ctx, result.TransferID)
		if err != nil {
			return result.Status, fmt.Errorf("transfer %s: polling status: %w", result.TransferID, err)
		}
		if status != domain.TransferPending {
			return status, nil
		}
	}

	return domain.TransferPending, fmt.Errorf("transfer %s: still pending after %d polls", result.TransferID, e.maxPolls)
}
