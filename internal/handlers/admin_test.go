package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"riplimit/internal/auth"
	"riplimit/internal/services"
	"riplimit/internal/store"
)

func TestAdminStats(t *testing.T) {
	handler := newTestHandler(stubLedgerService{
		statsFn: func(ctx context.Context) (services.AdminStats, error) {
			return services.AdminStats{
				TotalAccounts:    10,
				BlockedAccounts:  2,
				TotalAvailable:   40000,
				TotalBlocked:     10000,
				TotalCirculation: 50000,
				GrossRevenueINR:  2500,
				RefundsINR:       100,
				NetRevenueINR:    2400,
			}, nil
		},
	})
	rr := serveAuthed(t, handler.AdminStats, http.MethodGet, "/admin/riplimit/stats", nil, "admin-1", "admin")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var payload struct {
		TotalCirculation int64  `json:"total_circulation"`
		CirculationINR   string `json:"circulation_inr"`
		NetRevenueINR    int64  `json:"net_revenue_inr"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if payload.TotalCirculation != 50000 || payload.NetRevenueINR != 2400 {
		t.Fatalf("unexpected payload %+v", payload)
	}
	if payload.CirculationINR != "2500.00" {
		t.Fatalf("expected circulation_inr 2500.00, got %q", payload.CirculationINR)
	}
}

func TestAdminAdjustUsesCallerAsAdmin(t *testing.T) {
	var gotAdminID string
	handler := newTestHandler(stubLedgerService{
		adjustFn: func(ctx context.Context, userID string, amount int64, reason, adminID string) (services.CreditResult, error) {
			gotAdminID = adminID
			return services.CreditResult{TransactionID: "txn-1", AvailableBalance: 1000}, nil
		},
	})
	body := []byte(`{"user_id":"user-1","amount":1000,"reason":"goodwill"}`)
	rr := serveAuthed(t, handler.AdminAdjust, http.MethodPost, "/admin/riplimit/adjust", bytes.NewReader(body), "admin-7", "admin")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if gotAdminID != "admin-7" {
		t.Fatalf("expected admin id from token, got %q", gotAdminID)
	}
}

func TestAdminUnblockNotFound(t *testing.T) {
	handler := newTestHandler(stubLedgerService{
		unblockFn: func(ctx context.Context, userID, adminID string) (store.Account, error) {
			return store.Account{}, services.ErrAccountNotFound
		},
	})
	body := []byte(`{"user_id":"ghost"}`)
	rr := serveAuthed(t, handler.AdminUnblock, http.MethodPost, "/admin/riplimit/unblock", bytes.NewReader(body), "admin-7", "admin")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestAdminListAccounts(t *testing.T) {
	handler := newTestHandler(stubLedgerService{
		listAccountsFn: func(ctx context.Context, limit, offset int) (services.AccountPage, error) {
			return services.AccountPage{
				Accounts: []store.Account{{UserID: "user-1", AvailableBalance: 100}},
				Total:    1,
				Limit:    limit,
				Offset:   offset,
			}, nil
		},
	})
	rr := serveAuthed(t, handler.AdminListAccounts, http.MethodGet, "/admin/riplimit/accounts", nil, "admin-1", "admin")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var payload struct {
		Total    int64            `json:"total"`
		Accounts []map[string]any `json:"accounts"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if payload.Total != 1 || len(payload.Accounts) != 1 {
		t.Fatalf("unexpected page %+v", payload)
	}
}

func TestAdminRoutesRejectNonAdmin(t *testing.T) {
	handler := newTestHandler(stubLedgerService{})
	for _, role := range []string{"user", "service"} {
		token, err := auth.GenerateToken("secret", "someone", role, time.Minute)
		if err != nil {
			t.Fatalf("failed to generate token: %v", err)
		}
		req := httptest.NewRequest(http.MethodGet, "/admin/riplimit/stats", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		handler.Routes().ServeHTTP(rr, req)
		if rr.Code != http.StatusForbidden {
			t.Fatalf("role %s: expected 403, got %d", role, rr.Code)
		}
	}
}
