// Package bank is a thin HTTP client for the banking API: transaction
// retrieval, balance reads, and funds transfers. All response amounts arrive
// as decimal strings and are parsed exactly; nothing here goes through
// binary floating point.
package bank

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dvloznov/budget-pilot/internal/domain"
)

// Client talks to the banking REST API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a banking API client. httpClient may be nil, in which
// case a client with a 30s timeout is used.
func NewClient(baseURL, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{baseURL: baseURL, token: token, http: httpClient}
}

type transactionPayload struct {
	ID       string `json:"id"`
	Location string `json:"location"`
	Amount   string `json:"amount"`
	Created  string `json:"created"`
}

type transactionsResponse struct {
	Transactions []transactionPayload `json:"transactions"`
}

type balanceResponse struct {
	Balance string `json:"balance"`
}

type transferPayload struct {
	SourceAccount      string `json:"source_account"`
	DestinationAccount string `json:"destination_account"`
	Amount             string `json:"amount"`
}

type transferResponse struct {
	TransferID string `json:"transfer_id"`
	Status     string `json:"status"`
}

// Transactions returns the account's transactions since the given time.
// Records missing a required field are rejected as a DataError.
func (c *Client) Transactions(ctx context.Context, accountID string, since time.Time) ([]*domain.Transaction, error) {
	endpoint := fmt.Sprintf("/accounts/%s/transactions?since=%s",
		url.PathEscape(accountID), url.QueryEscape(since.UTC().Format(time.RFC3339)))

	var payload transactionsResponse
	if err := c.get(ctx, endpoint, &payload); err != nil {
		return nil, err
	}

	txs := make([]*domain.Transaction, 0, len(payload.Transactions))
	for i, raw := range payload.Transactions {
		if raw.Location == "" || raw.Amount == "" || raw.Created == "" {
			return nil, domain.BadData("bank: transactions",
				fmt.Errorf("record %d missing required field (location/amount/created)", i))
		}
		amount, err := decimal.NewFromString(raw.Amount)
		if err != nil {
			return nil, domain.BadData("bank: transactions",
				fmt.Errorf("record %d has invalid amount %q: %w", i, raw.Amount, err))
		}
		ts, err := time.Parse(time.RFC3339, raw.Created)
		if err != nil {
			return nil, domain.BadData("bank: transactions",
				fmt.Errorf("record %d has invalid timestamp %q: %w", i, raw.Created, err))
		}
		txs = append(txs, &domain.Transaction{
			ID:               raw.ID,
			MerchantLocation: raw.Location,
			Amount:           amount,
			Timestamp:        ts,
		})
	}
	return txs, nil
}

// Balance returns the current balance of an account.
func (c *Client) Balance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	var payload balanceResponse
	if err := c.get(ctx, "/accounts/"+url.PathEscape(accountID)+"/balance", &payload); err != nil {
		return decimal.Zero, err
	}
	balance, err := decimal.NewFromString(payload.Balance)
	if err != nil {
		return decimal.Zero, domain.BadData("bank: balance", fmt.Errorf("invalid balance %q: %w", payload.Balance, err))
	}
	return balance, nil
}

// SubmitTransfer submits a funds transfer. The idempotency key travels in
// the Idempotency-Key header; resubmitting with the same key must not move
// money twice.
func (c *Client) SubmitTransfer(ctx context.Context, req domain.TransferRequest) (*domain.TransferResult, error) {
	body, err := json.Marshal(transferPayload{
		SourceAccount:      req.SourceAccount,
		DestinationAccount: req.DestinationAccount,
		Amount:             req.Amount.StringFixed(2),
	})
	if err != nil {
		return nil, fmt.Errorf("bank: encoding transfer: %w", err)
	}

	httpReq, err := c.newRequest(ctx, http.MethodPost, "/transfers", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Idempotency-Key", req.IdempotencyKey)

	var payload transferResponse
	if err := c.do(httpReq, &payload); err != nil {
		return nil, err
	}
	if payload.TransferID == "" {
		return nil, domain.BadData("bank: transfer", fmt.Errorf("response missing transfer_id"))
	}

	return &domain.TransferResult{
		TransferID: payload.TransferID,
		Amount:     req.Amount,
		Status:     domain.TransferStatus(payload.Status),
		Initiated:  true,
	}, nil
}

// TransferStatus polls a transfer by id.
func (c *Client) TransferStatus(ctx context.Context, transferID string) (domain.TransferStatus, error) {
	var payload transferResponse
	if err := c.get(ctx, "/transfers/"+url.PathEscape(transferID), &payload); err != nil {
		return "", err
	}
	return domain.TransferStatus(payload.Status), nil
}

// Ping verifies the API is reachable and the token accepted.
func (c *Client) Ping(ctx context.Context) error {
	var payload struct{}
	return c.get(ctx, "/ping", &payload)
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("bank: building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	return req, nil
}

func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

// do executes the request and decodes the JSON body. Network failures and
// 5xx responses are transient; 4xx responses are data problems that a retry
// cannot fix.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return domain.Transient("bank: "+req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return domain.Transient("bank: "+req.URL.Path, err)
	}

	switch {
	case resp.StatusCode >= 500:
		return domain.Transient("bank: "+req.URL.Path, fmt.Errorf("status %d: %s", resp.StatusCode, body))
	case resp.StatusCode >= 400:
		return domain.BadData("bank: "+req.URL.Path, fmt.Errorf("status %d: %s", resp.StatusCode, body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return domain.BadData("bank: "+req.URL.Path, fmt.Errorf("decoding response: %w", err))
	}
	return nil
}
