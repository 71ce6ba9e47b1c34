package handlers

import (
	"errors"
	"net/http"

	"riplimit/internal/auth"
	"riplimit/internal/middleware"
	"riplimit/internal/money"
	"riplimit/internal/services"
	"riplimit/internal/store"
	"riplimit/internal/websocket"
)

func accountPayload(account store.Account) map[string]any {
	unpaid := account.UnpaidAuctionIDs
	if unpaid == nil {
		unpaid = []string{}
	}
	return map[string]any{
		"user_id":             account.UserID,
		"available_balance":   account.AvailableBalance,
		"blocked_balance":     account.BlockedBalance,
		"available_inr":       money.FormatINR(account.AvailableBalance),
		"blocked_inr":         money.FormatINR(account.BlockedBalance),
		"lifetime_purchases":  account.LifetimePurchases,
		"lifetime_spent":      account.LifetimeSpent,
		"has_unpaid_auctions": account.HasUnpaidAuctions,
		"unpaid_auction_ids":  unpaid,
		"strikes":             account.Strikes,
		"is_blocked":          account.IsBlocked,
		"block_reason":        account.BlockReason,
	}
}

func transactionPayload(row store.Transaction) map[string]any {
	return map[string]any{
		"id":            row.ID,
		"type":          row.Type,
		"amount":        row.Amount,
		"inr_amount":    row.INRAmount,
		"balance_after": row.BalanceAfter,
		"auction_id":    row.AuctionID,
		"bid_id":        row.BidID,
		"order_id":      row.OrderID,
		"status":        row.Status,
		"description":   row.Description,
		"metadata":      row.Metadata,
		"created_at":    row.CreatedAt,
	}
}

// GetBalance reads the caller's balance. A user who never touched the
// ledger sees a zero account; nothing is persisted for it.
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	account, err := h.service.GetAccount(r.Context(), userID)
	if errors.Is(err, services.ErrAccountNotFound) {
		account = store.Account{UserID: userID, UnpaidAuctionIDs: []string{}}
	} else if err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]any{"balance": accountPayload(account)})
}

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	query := r.URL.Query()
	page, err := h.service.ListTransactions(r.Context(), userID, query.Get("type"),
		parseInt(query.Get("limit"), 20), parseInt(query.Get("offset"), 0))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	transactions := make([]map[string]any, 0, len(page.Transactions))
	for _, row := range page.Transactions {
		transactions = append(transactions, transactionPayload(row))
	}
	respondSuccess(w, http.StatusOK, map[string]any{
		"transactions": transactions,
		"total":        page.Total,
		"limit":        page.Limit,
		"offset":       page.Offset,
	})
}

// WSBalance upgrades to a websocket that streams balance updates. Browsers
// cannot set an Authorization header on the handshake, so the token rides
// in the query string.
func (h *Handler) WSBalance(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		respondError(w, http.StatusUnauthorized, "missing token")
		return
	}
	claims, err := auth.ParseToken(h.cfg.JWTSecret, token)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "invalid token")
		return
	}
	websocket.ServeWS(w, r, h.hub, claims.UserID)
}
