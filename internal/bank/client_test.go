package bank

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dvloznov/budget-pilot/internal/domain"
)

func TestTransactions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/accounts/acc_1/transactions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q", got)
		}
		if r.URL.Query().Get("since") == "" {
			t.Error("missing since parameter")
		}
		w.Write([]byte(`{"transactions":[
			{"id":"tx_1","location":"TESCO STORES 3032","amount":"12.50","created":"2026-08-24T10:00:00Z"},
			{"id":"tx_2","location":"TFL TRAVEL CH","amount":"2.80","created":"2026-08-25T08:30:00Z"}
		]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "tok", nil)
	txs, err := client.Transactions(context.Background(), "acc_1", time.Now().Add(-7*24*time.Hour))
	if err != nil {
		t.Fatalf("Transactions() error = %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("got %d transactions, want 2", len(txs))
	}
	if txs[0].MerchantLocation != "TESCO STORES 3032" {
		t.Errorf("location = %q", txs[0].MerchantLocation)
	}
	if !txs[0].Amount.Equal(decimal.RequireFromString("12.50")) {
		t.Errorf("amount = %s, want 12.50", txs[0].Amount)
	}
	if txs[0].Categorized() {
		t.Error("fresh transaction already categorized")
	}
}

func TestTransactionsMissingField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"transactions":[{"id":"tx_1","location":"","amount":"1.00","created":"2026-08-24T10:00:00Z"}]}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "tok", nil).Transactions(context.Background(), "acc_1", time.Time{})
	var de *domain.DataError
	if !errors.As(err, &de) {
		t.Fatalf("error = %v, want DataError", err)
	}
}

func TestBalance(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/accounts/acc_1/balance" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{"balance":"2000.00"}`))
	}))
	defer srv.Close()

	balance, err := NewClient(srv.URL, "tok", nil).Balance(context.Background(), "acc_1")
	if err != nil {
		t.Fatalf("Balance() error = %v", err)
	}
	if !balance.Equal(decimal.RequireFromString("2000.00")) {
		t.Errorf("balance = %s, want 2000.00", balance)
	}
}

func TestSubmitTransferSendsIdempotencyKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/transfers" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Idempotency-Key"); got != "key-123" {
			t.Errorf("Idempotency-Key = %q", got)
		}
		w.Write([]byte(`{"transfer_id":"tr_9","status":"pending"}`))
	}))
	defer srv.Close()

	result, err := NewClient(srv.URL, "tok", nil).SubmitTransfer(context.Background(), domain.TransferRequest{
		Amount:             decimal.RequireFromString("45.19"),
		SourceAccount:      "acc_1",
		DestinationAccount: "acc_2",
		IdempotencyKey:     "key-123",
	})
	if err != nil {
		t.Fatalf("SubmitTransfer() error = %v", err)
	}
	if result.TransferID != "tr_9" || result.Status != domain.TransferPending {
		t.Errorf("result = %+v", result)
	}
	if !result.Initiated {
		t.Error("Initiated = false")
	}
}

func TestTransferStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transfers/tr_9" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{"transfer_id":"tr_9","status":"completed"}`))
	}))
	defer srv.Close()

	status, err := NewClient(srv.URL, "tok", nil).TransferStatus(context.Background(), "tr_9")
	if err != nil {
		t.Fatalf("TransferStatus() error = %v", err)
	}
	if status != domain.TransferCompleted {
		t.Errorf("status = %q, want completed", status)
	}
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		wantTransient bool
	}{
		{name: "500 is transient", status: http.StatusInternalServerError, wantTransient: true},
		{name: "503 is transient", status: http.StatusServiceUnavailable, wantTransient: true},
		{name: "400 is data error", status: http.StatusBadRequest, wantTransient: false},
		{name: "404 is data error", status: http.StatusNotFound, wantTransient: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, "tok", nil).Balance(context.Background(), "acc_1")
			if err == nil {
				t.Fatal("expected error")
			}
			if got := domain.IsTransient(err); got != tt.wantTransient {
				t.Errorf("IsTransient = %v, want %v (err: %v)", got, tt.wantTransient, err)
			}
		})
	}
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	if err := NewClient(srv.URL, "tok", nil).Ping(context.Background()); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}
}
