package handlers

import (
	"net/http"

	"riplimit/internal/config"
	"riplimit/internal/middleware"
	"riplimit/internal/websocket"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Handler struct {
	cfg     config.Config
	service LedgerService
	hub     *websocket.Hub
}

func New(cfg config.Config, service LedgerService, hub *websocket.Hub) *Handler {
	return &Handler{cfg: cfg, service: service, hub: hub}
}

func (h *Handler) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.Logger)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{h.cfg.AllowedOrigins},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Route("/riplimit", func(r chi.Router) {
		r.Use(middleware.Auth(h.cfg.JWTSecret))
		r.Get("/balance", h.GetBalance)
		r.Get("/transactions", h.ListTransactions)

		// Internal endpoints for the auction and payment services.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireService)
			r.Post("/bids/block", h.BlockBid)
			r.Post("/bids/release", h.ReleaseBid)
			r.Post("/bids/payment", h.AuctionPayment)
			r.Post("/credit", h.Credit)
			r.Post("/strikes", h.AddStrike)
			r.Post("/unpaid", h.MarkUnpaid)
		})
	})

	router.Route("/admin/riplimit", func(r chi.Router) {
		r.Use(middleware.Auth(h.cfg.JWTSecret))
		r.Use(middleware.RequireAdmin)
		r.Get("/accounts", h.AdminListAccounts)
		r.Get("/users/{id}", h.AdminUserDetails)
		r.Get("/stats", h.AdminStats)
		r.Post("/adjust", h.AdminAdjust)
		r.Post("/clear-unpaid", h.AdminClearUnpaid)
		r.Post("/unblock", h.AdminUnblock)
	})

	router.Get("/ws/balance", h.WSBalance)

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return router
}
