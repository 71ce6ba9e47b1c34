package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"riplimit/internal/services"
	"riplimit/internal/store"
)

func TestGetBalance(t *testing.T) {
	handler := newTestHandler(stubLedgerService{
		getAccountFn: func(ctx context.Context, userID string) (store.Account, error) {
			return store.Account{
				UserID:           userID,
				AvailableBalance: 3000,
				BlockedBalance:   2000,
			}, nil
		},
	})
	rr := serveAuthed(t, handler.GetBalance, http.MethodGet, "/riplimit/balance", nil, "user-1", "user")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var payload struct {
		Success bool `json:"success"`
		Balance struct {
			AvailableBalance int64  `json:"available_balance"`
			BlockedBalance   int64  `json:"blocked_balance"`
			AvailableINR     string `json:"available_inr"`
		} `json:"balance"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if !payload.Success {
		t.Fatal("expected success=true")
	}
	if payload.Balance.AvailableBalance != 3000 || payload.Balance.BlockedBalance != 2000 {
		t.Fatalf("unexpected balances %+v", payload.Balance)
	}
	if payload.Balance.AvailableINR != "150.00" {
		t.Fatalf("expected available_inr 150.00, got %q", payload.Balance.AvailableINR)
	}
}

func TestGetBalanceMissingAccountReturnsZeros(t *testing.T) {
	handler := newTestHandler(stubLedgerService{
		getAccountFn: func(ctx context.Context, userID string) (store.Account, error) {
			return store.Account{}, services.ErrAccountNotFound
		},
	})
	rr := serveAuthed(t, handler.GetBalance, http.MethodGet, "/riplimit/balance", nil, "user-1", "user")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var payload struct {
		Balance struct {
			AvailableBalance int64    `json:"available_balance"`
			UnpaidAuctions   []string `json:"unpaid_auction_ids"`
		} `json:"balance"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if payload.Balance.AvailableBalance != 0 {
		t.Fatalf("expected zero balance, got %d", payload.Balance.AvailableBalance)
	}
	if payload.Balance.UnpaidAuctions == nil {
		t.Fatal("expected empty unpaid list, got null")
	}
}

func TestGetBalanceUnauthorized(t *testing.T) {
	handler := newTestHandler(stubLedgerService{})
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/riplimit/balance", nil)
	handler.Routes().ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestListTransactions(t *testing.T) {
	var gotType string
	var gotLimit, gotOffset int
	handler := newTestHandler(stubLedgerService{
		listTxFn: func(ctx context.Context, userID, txType string, limit, offset int) (services.TransactionPage, error) {
			gotType, gotLimit, gotOffset = txType, limit, offset
			return services.TransactionPage{
				Transactions: []store.Transaction{{ID: "txn-1", Type: services.TypeBidBlock, Amount: -2000}},
				Total:        7,
				Limit:        limit,
				Offset:       offset,
			}, nil
		},
	})
	rr := serveAuthed(t, handler.ListTransactions, http.MethodGet,
		"/riplimit/transactions?type=BID_BLOCK&limit=5&offset=10", nil, "user-1", "user")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if gotType != "BID_BLOCK" || gotLimit != 5 || gotOffset != 10 {
		t.Fatalf("query not forwarded: type=%q limit=%d offset=%d", gotType, gotLimit, gotOffset)
	}
	var payload struct {
		Total        int64            `json:"total"`
		Transactions []map[string]any `json:"transactions"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if payload.Total != 7 || len(payload.Transactions) != 1 {
		t.Fatalf("unexpected page: total=%d rows=%d", payload.Total, len(payload.Transactions))
	}
}

func TestListTransactionsInvalidType(t *testing.T) {
	handler := newTestHandler(stubLedgerService{
		listTxFn: func(ctx context.Context, userID, txType string, limit, offset int) (services.TransactionPage, error) {
			return services.TransactionPage{}, services.ErrInvalidType
		},
	})
	rr := serveAuthed(t, handler.ListTransactions, http.MethodGet,
		"/riplimit/transactions?type=BOGUS", nil, "user-1", "user")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}
