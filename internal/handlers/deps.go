package handlers

import (
	"context"

	"riplimit/internal/services"
	"riplimit/internal/store"
)

type LedgerService interface {
	GetOrCreateAccount(ctx context.Context, userID string) (store.Account, error)
	GetAccount(ctx context.Context, userID string) (store.Account, error)
	BlockForBid(ctx context.Context, req services.BlockForBidRequest) (services.BlockResult, error)
	ReleaseBlockedBid(ctx context.Context, userID, auctionID, reason string) (services.ReleaseResult, error)
	UseForAuctionPayment(ctx context.Context, userID, auctionID, orderID string) (services.PaymentResult, error)
	CreditBalance(ctx context.Context, req services.CreditRequest) (services.CreditResult, error)
	AddStrike(ctx context.Context, userID string) (services.StrikeResult, error)
	MarkAuctionUnpaid(ctx context.Context, userID, auctionID string) error
	AdminAdjustBalance(ctx context.Context, userID string, amount int64, reason, adminID string) (services.CreditResult, error)
	AdminClearUnpaidAuction(ctx context.Context, userID, auctionID, adminID string) (services.ReleaseResult, error)
	AdminUnblockAccount(ctx context.Context, userID, adminID string) (store.Account, error)
	ListTransactions(ctx context.Context, userID, txType string, limit, offset int) (services.TransactionPage, error)
	ListAllAccounts(ctx context.Context, limit, offset int) (services.AccountPage, error)
	GetAdminUserDetails(ctx context.Context, userID string) (services.AdminUserDetails, error)
	GetAdminStats(ctx context.Context) (services.AdminStats, error)
}
