package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"riplimit/internal/auth"
	"riplimit/internal/config"
	"riplimit/internal/middleware"
	"riplimit/internal/services"
	"riplimit/internal/store"
	"riplimit/internal/websocket"
)

type stubLedgerService struct {
	getOrCreateFn  func(ctx context.Context, userID string) (store.Account, error)
	getAccountFn   func(ctx context.Context, userID string) (store.Account, error)
	blockFn        func(ctx context.Context, req services.BlockForBidRequest) (services.BlockResult, error)
	releaseFn      func(ctx context.Context, userID, auctionID, reason string) (services.ReleaseResult, error)
	paymentFn      func(ctx context.Context, userID, auctionID, orderID string) (services.PaymentResult, error)
	creditFn       func(ctx context.Context, req services.CreditRequest) (services.CreditResult, error)
	strikeFn       func(ctx context.Context, userID string) (services.StrikeResult, error)
	markUnpaidFn   func(ctx context.Context, userID, auctionID string) error
	adjustFn       func(ctx context.Context, userID string, amount int64, reason, adminID string) (services.CreditResult, error)
	clearUnpaidFn  func(ctx context.Context, userID, auctionID, adminID string) (services.ReleaseResult, error)
	unblockFn      func(ctx context.Context, userID, adminID string) (store.Account, error)
	listTxFn       func(ctx context.Context, userID, txType string, limit, offset int) (services.TransactionPage, error)
	listAccountsFn func(ctx context.Context, limit, offset int) (services.AccountPage, error)
	userDetailsFn  func(ctx context.Context, userID string) (services.AdminUserDetails, error)
	statsFn        func(ctx context.Context) (services.AdminStats, error)
}

func (s stubLedgerService) GetOrCreateAccount(ctx context.Context, userID string) (store.Account, error) {
	if s.getOrCreateFn == nil {
		return store.Account{UserID: userID}, nil
	}
	return s.getOrCreateFn(ctx, userID)
}

func (s stubLedgerService) GetAccount(ctx context.Context, userID string) (store.Account, error) {
	if s.getAccountFn == nil {
		return store.Account{UserID: userID}, nil
	}
	return s.getAccountFn(ctx, userID)
}

func (s stubLedgerService) BlockForBid(ctx context.Context, req services.BlockForBidRequest) (services.BlockResult, error) {
	if s.blockFn == nil {
		return services.BlockResult{}, nil
	}
	return s.blockFn(ctx, req)
}

func (s stubLedgerService) ReleaseBlockedBid(ctx context.Context, userID, auctionID, reason string) (services.ReleaseResult, error) {
	if s.releaseFn == nil {
		return services.ReleaseResult{}, nil
	}
	return s.releaseFn(ctx, userID, auctionID, reason)
}

func (s stubLedgerService) UseForAuctionPayment(ctx context.Context, userID, auctionID, orderID string) (services.PaymentResult, error) {
	if s.paymentFn == nil {
		return services.PaymentResult{}, nil
	}
	return s.paymentFn(ctx, userID, auctionID, orderID)
}

func (s stubLedgerService) CreditBalance(ctx context.Context, req services.CreditRequest) (services.CreditResult, error) {
	if s.creditFn == nil {
		return services.CreditResult{}, nil
	}
	return s.creditFn(ctx, req)
}

func (s stubLedgerService) AddStrike(ctx context.Context, userID string) (services.StrikeResult, error) {
	if s.strikeFn == nil {
		return services.StrikeResult{}, nil
	}
	return s.strikeFn(ctx, userID)
}

func (s stubLedgerService) MarkAuctionUnpaid(ctx context.Context, userID, auctionID string) error {
	if s.markUnpaidFn == nil {
		return nil
	}
	return s.markUnpaidFn(ctx, userID, auctionID)
}

func (s stubLedgerService) AdminAdjustBalance(ctx context.Context, userID string, amount int64, reason, adminID string) (services.CreditResult, error) {
	if s.adjustFn == nil {
		return services.CreditResult{}, nil
	}
	return s.adjustFn(ctx, userID, amount, reason, adminID)
}

func (s stubLedgerService) AdminClearUnpaidAuction(ctx context.Context, userID, auctionID, adminID string) (services.ReleaseResult, error) {
	if s.clearUnpaidFn == nil {
		return services.ReleaseResult{}, nil
	}
	return s.clearUnpaidFn(ctx, userID, auctionID, adminID)
}

func (s stubLedgerService) AdminUnblockAccount(ctx context.Context, userID, adminID string) (store.Account, error) {
	if s.unblockFn == nil {
		return store.Account{UserID: userID}, nil
	}
	return s.unblockFn(ctx, userID, adminID)
}

func (s stubLedgerService) ListTransactions(ctx context.Context, userID, txType string, limit, offset int) (services.TransactionPage, error) {
	if s.listTxFn == nil {
		return services.TransactionPage{}, nil
	}
	return s.listTxFn(ctx, userID, txType, limit, offset)
}

func (s stubLedgerService) ListAllAccounts(ctx context.Context, limit, offset int) (services.AccountPage, error) {
	if s.listAccountsFn == nil {
		return services.AccountPage{}, nil
	}
	return s.listAccountsFn(ctx, limit, offset)
}

func (s stubLedgerService) GetAdminUserDetails(ctx context.Context, userID string) (services.AdminUserDetails, error) {
	if s.userDetailsFn == nil {
		return services.AdminUserDetails{}, nil
	}
	return s.userDetailsFn(ctx, userID)
}

func (s stubLedgerService) GetAdminStats(ctx context.Context) (services.AdminStats, error) {
	if s.statsFn == nil {
		return services.AdminStats{}, nil
	}
	return s.statsFn(ctx)
}

func newTestHandler(service LedgerService) *Handler {
	cfg := config.Config{
		AppEnv:         "test",
		Port:           "0",
		JWTSecret:      "secret",
		AllowedOrigins: "*",
	}
	return New(cfg, service, websocket.NewHub())
}

func serveAuthed(t *testing.T, handler http.HandlerFunc, method, target string, body io.Reader, userID, role string) *httptest.ResponseRecorder {
	t.Helper()
	token, err := auth.GenerateToken("secret", userID, role, time.Minute)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Authorization", "Bearer "+token)
	middleware.Auth("secret")(handler).ServeHTTP(rr, req)
	return rr
}
