package handlers

import (
	"encoding/json"
	"net/http"

	"riplimit/internal/money"
	"riplimit/internal/services"
)

type blockBidRequest struct {
	UserID       string `json:"user_id"`
	AuctionID    string `json:"auction_id"`
	BidID        string `json:"bid_id"`
	BidAmountINR int64  `json:"bid_amount_inr"`
}

// BlockBid reserves RipLimit for a bid on behalf of the auction service.
func (h *Handler) BlockBid(w http.ResponseWriter, r *http.Request) {
	var req blockBidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	result, err := h.service.BlockForBid(r.Context(), services.BlockForBidRequest{
		UserID:       req.UserID,
		AuctionID:    req.AuctionID,
		BidID:        req.BidID,
		BidAmountINR: req.BidAmountINR,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]any{
		"transaction_id":    result.TransactionID,
		"blocked_amount":    result.BlockedAmount,
		"net_block":         result.NetBlock,
		"available_balance": result.AvailableBalance,
		"blocked_balance":   result.BlockedBalance,
		"available_inr":     money.FormatINR(result.AvailableBalance),
	})
}

type releaseBidRequest struct {
	UserID    string `json:"user_id"`
	AuctionID string `json:"auction_id"`
	Reason    string `json:"reason"`
}

func (h *Handler) ReleaseBid(w http.ResponseWriter, r *http.Request) {
	var req releaseBidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	result, err := h.service.ReleaseBlockedBid(r.Context(), req.UserID, req.AuctionID, req.Reason)
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

type auctionPaymentRequest struct {
	UserID    string `json:"user_id"`
	AuctionID string `json:"auction_id"`
	OrderID   string `json:"order_id"`
}

func (h *Handler) AuctionPayment(w http.ResponseWriter, r *http.Request) {
	var req auctionPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	result, err := h.service.UseForAuctionPayment(r.Context(), req.UserID, req.AuctionID, req.OrderID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]any{
		"transaction_id":    result.TransactionID,
		"amount":            result.Amount,
		"available_balance": result.AvailableBalance,
		"blocked_balance":   result.BlockedBalance,
		"lifetime_spent":    result.LifetimeSpent,
	})
}

type creditRequest struct {
	UserID      string         `json:"user_id"`
	Amount      int64          `json:"amount"`
	Type        string         `json:"type"`
	Description string         `json:"description"`
	Metadata    map[string]any `json:"metadata"`
}

// Credit is called by the payment service after a completed RipLimit
// purchase, with the amount already converted to units.
func (h *Handler) Credit(w http.ResponseWriter, r *http.Request) {
	var req creditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Type == "" {
		req.Type = services.TypePurchase
	}
	result, err := h.service.CreditBalance(r.Context(), services.CreditRequest{
		UserID:      req.UserID,
		Amount:      req.Amount,
		Type:        req.Type,
		Description: req.Description,
		Metadata:    req.Metadata,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]any{
		"transaction_id":    result.TransactionID,
		"available_balance": result.AvailableBalance,
		"available_inr":     money.FormatINR(result.AvailableBalance),
	})
}

type strikeRequest struct {
	UserID string `json:"user_id"`
}

func (h *Handler) AddStrike(w http.ResponseWriter, r *http.Request) {
	var req strikeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	result, err := h.service.AddStrike(r.Context(), req.UserID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]any{
		"strikes":      result.Strikes,
		"is_blocked":   result.IsBlocked,
		"block_reason": result.BlockReason,
	})
}

type markUnpaidRequest struct {
	UserID    string `json:"user_id"`
	AuctionID string `json:"auction_id"`
}

func (h *Handler) MarkUnpaid(w http.ResponseWriter, r *http.Request) {
	var req markUnpaidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := h.service.MarkAuctionUnpaid(r.Context(), req.UserID, req.AuctionID); err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, nil)
}
