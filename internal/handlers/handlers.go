package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"riplimit/internal/services"

	"github.com/rs/zerolog/log"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondSuccess(w http.ResponseWriter, status int, fields map[string]any) {
	payload := map[string]any{"success": true}
	for key, value := range fields {
		payload[key] = value
	}
	respondJSON(w, status, payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]any{"success": false, "error": message})
}

// respondServiceError maps ledger errors onto the HTTP surface. Business
// rejections keep their message; anything unrecognized is an infrastructure
// failure and stays opaque to the caller.
func respondServiceError(w http.ResponseWriter, err error) {
	var blocked *services.BlockedAccountError
	if errors.As(err, &blocked) {
		respondError(w, http.StatusForbidden, blocked.Error())
		return
	}
	var insufficient *services.InsufficientBalanceError
	if errors.As(err, &insufficient) {
		respondJSON(w, http.StatusBadRequest, map[string]any{
			"success":   false,
			"error":     "insufficient riplimit balance",
			"required":  insufficient.Required,
			"available": insufficient.Available,
		})
		return
	}
	switch {
	case errors.Is(err, services.ErrAccountNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrNoActiveBlock):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrUnpaidAuctions):
		respondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrMissingUserID),
		errors.Is(err, services.ErrMissingAuctionID),
		errors.Is(err, services.ErrMissingBidID),
		errors.Is(err, services.ErrMissingOrderID),
		errors.Is(err, services.ErrMissingAdminID),
		errors.Is(err, services.ErrMissingReason),
		errors.Is(err, services.ErrInvalidAmount),
		errors.Is(err, services.ErrInvalidType):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		log.Error().Err(err).Msg("ledger operation failed")
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func parseInt(raw string, fallback int) int {
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
