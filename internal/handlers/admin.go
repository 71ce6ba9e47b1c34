package handlers

import (
	"encoding/json"
	"net/http"

	"riplimit/internal/middleware"
	"riplimit/internal/money"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) AdminListAccounts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page, err := h.service.ListAllAccounts(r.Context(),
		parseInt(query.Get("limit"), 20), parseInt(query.Get("offset"), 0))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	accounts := make([]map[string]any, 0, len(page.Accounts))
	for _, account := range page.Accounts {
		accounts = append(accounts, accountPayload(account))
	}
	respondSuccess(w, http.StatusOK, map[string]any{
		"accounts": accounts,
		"total":    page.Total,
		"limit":    page.Limit,
		"offset":   page.Offset,
	})
}

func (h *Handler) AdminUserDetails(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	details, err := h.service.GetAdminUserDetails(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	bids := make([]map[string]any, 0, len(details.BlockedBids))
	for _, bid := range details.BlockedBids {
		bids = append(bids, map[string]any{
			"auction_id":     bid.AuctionID,
			"bid_id":         bid.BidID,
			"amount":         bid.Amount,
			"bid_amount_inr": bid.BidAmountINR,
			"created_at":     bid.CreatedAt,
			"updated_at":     bid.UpdatedAt,
		})
	}
	transactions := make([]map[string]any, 0, len(details.RecentTransactions))
	for _, row := range details.RecentTransactions {
		transactions = append(transactions, transactionPayload(row))
	}
	respondSuccess(w, http.StatusOK, map[string]any{
		"account":             accountPayload(details.Account),
		"blocked_bids":        bids,
		"recent_transactions": transactions,
	})
}

func (h *Handler) AdminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetAdminStats(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]any{
		"total_accounts":    stats.TotalAccounts,
		"blocked_accounts":  stats.BlockedAccounts,
		"total_available":   stats.TotalAvailable,
		"total_blocked":     stats.TotalBlocked,
		"total_circulation": stats.TotalCirculation,
		"circulation_inr":   money.FormatINR(stats.TotalCirculation),
		"gross_revenue_inr": stats.GrossRevenueINR,
		"refunds_inr":       stats.RefundsINR,
		"net_revenue_inr":   stats.NetRevenueINR,
	})
}

type adminAdjustRequest struct {
	UserID string `json:"user_id"`
	Amount int64  `json:"amount"`
	Reason string `json:"reason"`
}

func (h *Handler) AdminAdjust(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req adminAdjustRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	result, err := h.service.AdminAdjustBalance(r.Context(), req.UserID, req.Amount, req.Reason, adminID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]any{
		"transaction_id":    result.TransactionID,
		"available_balance": result.AvailableBalance,
	})
}

type adminClearUnpaidRequest struct {
	UserID    string `json:"user_id"`
	AuctionID string `json:"auction_id"`
}

func (h *Handler) AdminClearUnpaid(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req adminClearUnpaidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	result, err := h.service.AdminClearUnpaidAuction(r.Context(), req.UserID, req.AuctionID, adminID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]any{
		"released":          result.Released,
		"amount":            result.Amount,
		"available_balance": result.AvailableBalance,
		"blocked_balance":   result.BlockedBalance,
	})
}

type adminUnblockRequest struct {
	UserID string `json:"user_id"`
}

func (h *Handler) AdminUnblock(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req adminUnblockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	account, err := h.service.AdminUnblockAccount(r.Context(), req.UserID, adminID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]any{"account": accountPayload(account)})
}
