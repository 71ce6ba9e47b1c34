package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"riplimit/internal/db"
	"riplimit/internal/money"
	"riplimit/internal/store"
	"riplimit/internal/websocket"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

// Transaction types of the RipLimit audit trail.
const (
	TypePurchase       = "PURCHASE"
	TypeBidBlock       = "BID_BLOCK"
	TypeBidRelease     = "BID_RELEASE"
	TypeAuctionPayment = "AUCTION_PAYMENT"
	TypeAdjustment     = "ADJUSTMENT"
)

const StatusCompleted = "COMPLETED"

// An account is blocked for bidding after this many strikes. Unblocking is
// an explicit admin action; nothing expires the block automatically.
const strikeLimit = 3

const strikeBlockReason = "Account blocked after 3 strikes for unpaid auctions. Contact support to restore bidding access."

const defaultReleaseReason = "Outbid"

var (
	ErrMissingUserID    = errors.New("user id is required")
	ErrMissingAuctionID = errors.New("auction id is required")
	ErrMissingBidID     = errors.New("bid id is required")
	ErrMissingOrderID   = errors.New("order id is required")
	ErrMissingAdminID   = errors.New("admin id is required")
	ErrMissingReason    = errors.New("reason is required")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrAccountNotFound  = errors.New("riplimit account not found")
	ErrNoActiveBlock    = errors.New("no blocked riplimit found for this auction")
	ErrUnpaidAuctions   = errors.New("you have unpaid auctions; clear pending payments before placing new bids")
)

// BlockedAccountError surfaces the reason stored when the account was
// blocked; the message is shown to the user verbatim.
type BlockedAccountError struct {
	Reason string
}

func (e *BlockedAccountError) Error() string {
	if e.Reason == "" {
		return "account is blocked from bidding"
	}
	return e.Reason
}

// InsufficientBalanceError carries the numbers the caller needs to top up.
type InsufficientBalanceError struct {
	Required  int64
	Available int64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient RipLimit balance: required %d, available %d", e.Required, e.Available)
}

type AccountStore interface {
	CreateIfAbsent(ctx context.Context, tx store.Execer, userID string, now time.Time) (bool, error)
	Get(ctx context.Context, userID string) (store.Account, error)
	GetForUpdate(ctx context.Context, tx store.Getter, userID string) (store.Account, error)
	Update(ctx context.Context, tx store.Execer, account store.Account) error
	ListAll(ctx context.Context, limit, offset int) ([]store.Account, error)
	CountAll(ctx context.Context) (int64, error)
	BalanceTotals(ctx context.Context) (store.BalanceTotals, error)
}

type BlockedBidStore interface {
	GetForUpdate(ctx context.Context, tx store.Getter, userID, auctionID string) (store.BlockedBid, error)
	Upsert(ctx context.Context, tx store.Execer, bid store.BlockedBid) error
	Delete(ctx context.Context, tx store.Execer, userID, auctionID string) (int64, error)
	ListByUser(ctx context.Context, userID string) ([]store.BlockedBid, error)
}

type TransactionStore interface {
	Create(ctx context.Context, tx store.Execer, input store.TransactionInput) error
	ListByUser(ctx context.Context, userID, txType string, limit, offset int) ([]store.Transaction, error)
	CountByUser(ctx context.Context, userID, txType string) (int64, error)
	RevenueTotals(ctx context.Context) (store.RevenueTotals, error)
}

type BalanceHub interface {
	BroadcastBalance(userID string, update websocket.BalanceUpdate)
}

// LedgerService is the RipLimit ledger engine. Every mutating operation is
// one serializable read-modify-write transaction on a single account: the
// balance change and its audit row land together or not at all.
type LedgerService struct {
	txRunner     db.TxRunner
	accounts     AccountStore
	bids         BlockedBidStore
	transactions TransactionStore
	hub          BalanceHub

	now   func() time.Time
	newID func() string
}

func NewLedgerService(txRunner db.TxRunner, accounts AccountStore, bids BlockedBidStore, transactions TransactionStore, hub BalanceHub) *LedgerService {
	return &LedgerService{
		txRunner:     txRunner,
		accounts:     accounts,
		bids:         bids,
		transactions: transactions,
		hub:          hub,
		now:          time.Now,
		newID:        uuid.NewString,
	}
}

// GetOrCreateAccount returns the user's account, initializing a zero-balance
// one atomically on first contact.
func (s *LedgerService) GetOrCreateAccount(ctx context.Context, userID string) (store.Account, error) {
	if userID == "" {
		return store.Account{}, ErrMissingUserID
	}
	var account store.Account
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		account, err = s.getOrCreateForUpdate(ctx, tx, userID)
		return err
	})
	if err != nil {
		return store.Account{}, err
	}
	return account, nil
}

func (s *LedgerService) getOrCreateForUpdate(ctx context.Context, tx *sqlx.Tx, userID string) (store.Account, error) {
	if _, err := s.accounts.CreateIfAbsent(ctx, tx, userID, s.now()); err != nil {
		return store.Account{}, err
	}
	return s.accounts.GetForUpdate(ctx, tx, userID)
}

// GetAccount is the read-only view; it does not create missing accounts.
func (s *LedgerService) GetAccount(ctx context.Context, userID string) (store.Account, error) {
	if userID == "" {
		return store.Account{}, ErrMissingUserID
	}
	account, err := s.accounts.Get(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Account{}, ErrAccountNotFound
	}
	if err != nil {
		return store.Account{}, err
	}
	return account, nil
}

type BlockForBidRequest struct {
	UserID       string
	AuctionID    string
	BidID        string
	BidAmountINR int64
}

type BlockResult struct {
	TransactionID    string
	BlockedAmount    int64
	NetBlock         int64
	AvailableBalance int64
	BlockedBalance   int64
}

// BlockForBid reserves RipLimit against a bid. A re-bid on the same auction
// nets against the existing reservation instead of stacking a second one,
// so raising or lowering one's own bid moves only the delta.
func (s *LedgerService) BlockForBid(ctx context.Context, req BlockForBidRequest) (BlockResult, error) {
	if req.UserID == "" {
		return BlockResult{}, ErrMissingUserID
	}
	if req.AuctionID == "" {
		return BlockResult{}, ErrMissingAuctionID
	}
	if req.BidID == "" {
		return BlockResult{}, ErrMissingBidID
	}
	if req.BidAmountINR <= 0 {
		return BlockResult{}, ErrInvalidAmount
	}

	var result BlockResult
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		account, err := s.accounts.GetForUpdate(ctx, tx, req.UserID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrAccountNotFound
		}
		if err != nil {
			return err
		}
		if account.IsBlocked {
			reason := ""
			if account.BlockReason != nil {
				reason = *account.BlockReason
			}
			return &BlockedAccountError{Reason: reason}
		}
		if account.HasUnpaidAuctions {
			return ErrUnpaidAuctions
		}

		required := money.INRToUnits(req.BidAmountINR)
		previouslyBlocked := int64(0)
		existing, err := s.bids.GetForUpdate(ctx, tx, req.UserID, req.AuctionID)
		if err == nil {
			previouslyBlocked = existing.Amount
		} else if !errors.Is(err, sql.ErrNoRows) {
			return err
		}

		netBlock := required - previouslyBlocked
		if account.AvailableBalance < netBlock {
			return &InsufficientBalanceError{Required: netBlock, Available: account.AvailableBalance}
		}

		now := s.now()
		account.AvailableBalance -= netBlock
		account.BlockedBalance += netBlock
		account.UpdatedAt = now
		if err := s.accounts.Update(ctx, tx, account); err != nil {
			return err
		}
		if err := s.bids.Upsert(ctx, tx, store.BlockedBid{
			UserID:       req.UserID,
			AuctionID:    req.AuctionID,
			BidID:        req.BidID,
			Amount:       required,
			BidAmountINR: req.BidAmountINR,
			CreatedAt:    now,
			UpdatedAt:    now,
		}); err != nil {
			return err
		}

		transactionID := s.newID()
		if err := s.transactions.Create(ctx, tx, store.TransactionInput{
			ID:           transactionID,
			UserID:       req.UserID,
			Type:         TypeBidBlock,
			Amount:       -netBlock,
			INRAmount:    money.UnitsToWholeINR(-netBlock),
			BalanceAfter: account.AvailableBalance,
			AuctionID:    &req.AuctionID,
			BidID:        &req.BidID,
			Status:       StatusCompleted,
			Description:  fmt.Sprintf("Blocked %d RipLimit for bid %s on auction %s", required, req.BidID, req.AuctionID),
			Metadata:     "{}",
			CreatedAt:    now,
		}); err != nil {
			return err
		}

		result = BlockResult{
			TransactionID:    transactionID,
			BlockedAmount:    required,
			NetBlock:         netBlock,
			AvailableBalance: account.AvailableBalance,
			BlockedBalance:   account.BlockedBalance,
		}
		return nil
	})
	if err != nil {
		return BlockResult{}, err
	}
	s.broadcastBalance(req.UserID, result.AvailableBalance, result.BlockedBalance)
	return result, nil
}

type ReleaseResult struct {
	Released         bool
	TransactionID    string
	Amount           int64
	AvailableBalance int64
	BlockedBalance   int64
}

// ReleaseBlockedBid returns a reservation to the available balance, e.g.
// after an outbid. A missing account or reservation is a benign no-op with
// Released=false: duplicate and late release calls are expected.
func (s *LedgerService) ReleaseBlockedBid(ctx context.Context, userID, auctionID, reason string) (ReleaseResult, error) {
	if userID == "" {
		return ReleaseResult{}, ErrMissingUserID
	}
	if auctionID == "" {
		return ReleaseResult{}, ErrMissingAuctionID
	}
	if reason == "" {
		reason = defaultReleaseReason
	}

	var result ReleaseResult
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		account, err := s.accounts.GetForUpdate(ctx, tx, userID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		bid, err := s.bids.GetForUpdate(ctx, tx, userID, auctionID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}

		released, err := s.releaseLocked(ctx, tx, &account, bid, reason, "{}")
		if err != nil {
			return err
		}
		result = released
		return nil
	})
	if err != nil {
		return ReleaseResult{}, err
	}
	if result.Released {
		s.broadcastBalance(userID, result.AvailableBalance, result.BlockedBalance)
	}
	return result, nil
}

// releaseLocked moves the full blocked amount back to available and deletes
// the reservation. Caller holds the account row lock; the account update is
// written here.
func (s *LedgerService) releaseLocked(ctx context.Context, tx *sqlx.Tx, account *store.Account, bid store.BlockedBid, reason, metadata string) (ReleaseResult, error) {
	now := s.now()
	account.AvailableBalance += bid.Amount
	account.BlockedBalance -= bid.Amount
	account.UpdatedAt = now
	if err := s.accounts.Update(ctx, tx, *account); err != nil {
		return ReleaseResult{}, err
	}
	if _, err := s.bids.Delete(ctx, tx, bid.UserID, bid.AuctionID); err != nil {
		return ReleaseResult{}, err
	}

	transactionID := s.newID()
	if err := s.transactions.Create(ctx, tx, store.TransactionInput{
		ID:           transactionID,
		UserID:       bid.UserID,
		Type:         TypeBidRelease,
		Amount:       bid.Amount,
		INRAmount:    money.UnitsToWholeINR(bid.Amount),
		BalanceAfter: account.AvailableBalance,
		AuctionID:    &bid.AuctionID,
		BidID:        &bid.BidID,
		Status:       StatusCompleted,
		Description:  fmt.Sprintf("Released %d RipLimit for auction %s: %s", bid.Amount, bid.AuctionID, reason),
		Metadata:     metadata,
		CreatedAt:    now,
	}); err != nil {
		return ReleaseResult{}, err
	}
	return ReleaseResult{
		Released:         true,
		TransactionID:    transactionID,
		Amount:           bid.Amount,
		AvailableBalance: account.AvailableBalance,
		BlockedBalance:   account.BlockedBalance,
	}, nil
}

type PaymentResult struct {
	TransactionID    string
	Amount           int64
	AvailableBalance int64
	BlockedBalance   int64
	LifetimeSpent    int64
}

// UseForAuctionPayment consumes the reservation when the winner pays. The
// available balance is untouched: the funds already left it at block time.
func (s *LedgerService) UseForAuctionPayment(ctx context.Context, userID, auctionID, orderID string) (PaymentResult, error) {
	if userID == "" {
		return PaymentResult{}, ErrMissingUserID
	}
	if auctionID == "" {
		return PaymentResult{}, ErrMissingAuctionID
	}
	if orderID == "" {
		return PaymentResult{}, ErrMissingOrderID
	}

	var result PaymentResult
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		account, err := s.accounts.GetForUpdate(ctx, tx, userID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrAccountNotFound
		}
		if err != nil {
			return err
		}
		bid, err := s.bids.GetForUpdate(ctx, tx, userID, auctionID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNoActiveBlock
		}
		if err != nil {
			return err
		}

		now := s.now()
		account.BlockedBalance -= bid.Amount
		account.LifetimeSpent += bid.Amount
		account.UnpaidAuctionIDs = removeID(account.UnpaidAuctionIDs, auctionID)
		account.HasUnpaidAuctions = len(account.UnpaidAuctionIDs) > 0
		account.UpdatedAt = now
		if err := s.accounts.Update(ctx, tx, account); err != nil {
			return err
		}
		if _, err := s.bids.Delete(ctx, tx, userID, auctionID); err != nil {
			return err
		}

		transactionID := s.newID()
		if err := s.transactions.Create(ctx, tx, store.TransactionInput{
			ID:           transactionID,
			UserID:       userID,
			Type:         TypeAuctionPayment,
			Amount:       -bid.Amount,
			INRAmount:    money.UnitsToWholeINR(-bid.Amount),
			BalanceAfter: account.AvailableBalance,
			AuctionID:    &auctionID,
			BidID:        &bid.BidID,
			OrderID:      &orderID,
			Status:       StatusCompleted,
			Description:  fmt.Sprintf("Auction payment of %d RipLimit for auction %s, order %s", bid.Amount, auctionID, orderID),
			Metadata:     "{}",
			CreatedAt:    now,
		}); err != nil {
			return err
		}

		result = PaymentResult{
			TransactionID:    transactionID,
			Amount:           bid.Amount,
			AvailableBalance: account.AvailableBalance,
			BlockedBalance:   account.BlockedBalance,
			LifetimeSpent:    account.LifetimeSpent,
		}
		return nil
	})
	if err != nil {
		return PaymentResult{}, err
	}
	s.broadcastBalance(userID, result.AvailableBalance, result.BlockedBalance)
	return result, nil
}

type CreditRequest struct {
	UserID      string
	Amount      int64
	Type        string
	Description string
	Metadata    map[string]any
}

type CreditResult struct {
	TransactionID    string
	AvailableBalance int64
	BlockedBalance   int64
}

// CreditBalance is the single entry point for available-balance changes
// outside the bid lifecycle: purchases, admin adjustments, and penalties as
// negative amounts. The account is created lazily on first credit.
func (s *LedgerService) CreditBalance(ctx context.Context, req CreditRequest) (CreditResult, error) {
	if req.UserID == "" {
		return CreditResult{}, ErrMissingUserID
	}
	if req.Amount == 0 {
		return CreditResult{}, ErrInvalidAmount
	}
	if req.Type != TypePurchase && req.Type != TypeAdjustment {
		return CreditResult{}, ErrInvalidType
	}
	metadata, err := metadataJSON(req.Metadata)
	if err != nil {
		return CreditResult{}, err
	}

	var result CreditResult
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		account, err := s.getOrCreateForUpdate(ctx, tx, req.UserID)
		if err != nil {
			return err
		}
		newAvailable := account.AvailableBalance + req.Amount
		if newAvailable < 0 {
			return &InsufficientBalanceError{Required: -req.Amount, Available: account.AvailableBalance}
		}

		now := s.now()
		account.AvailableBalance = newAvailable
		if req.Type == TypePurchase {
			account.LifetimePurchases += req.Amount
		}
		account.UpdatedAt = now
		if err := s.accounts.Update(ctx, tx, account); err != nil {
			return err
		}

		description := req.Description
		if description == "" {
			description = defaultCreditDescription(req.Type)
		}
		transactionID := s.newID()
		if err := s.transactions.Create(ctx, tx, store.TransactionInput{
			ID:           transactionID,
			UserID:       req.UserID,
			Type:         req.Type,
			Amount:       req.Amount,
			INRAmount:    money.UnitsToWholeINR(req.Amount),
			BalanceAfter: newAvailable,
			Status:       StatusCompleted,
			Description:  description,
			Metadata:     metadata,
			CreatedAt:    now,
		}); err != nil {
			return err
		}

		result = CreditResult{
			TransactionID:    transactionID,
			AvailableBalance: newAvailable,
			BlockedBalance:   account.BlockedBalance,
		}
		return nil
	})
	if err != nil {
		return CreditResult{}, err
	}
	s.broadcastBalance(req.UserID, result.AvailableBalance, result.BlockedBalance)
	return result, nil
}

type StrikeResult struct {
	Strikes     int
	IsBlocked   bool
	BlockReason string
}

// AddStrike records one missed-payment strike. Crossing the limit blocks
// the account with a fixed reason; the transition is one-way here.
func (s *LedgerService) AddStrike(ctx context.Context, userID string) (StrikeResult, error) {
	if userID == "" {
		return StrikeResult{}, ErrMissingUserID
	}
	var result StrikeResult
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		account, err := s.getOrCreateForUpdate(ctx, tx, userID)
		if err != nil {
			return err
		}
		account.Strikes++
		if account.Strikes >= strikeLimit && !account.IsBlocked {
			reason := strikeBlockReason
			account.IsBlocked = true
			account.BlockReason = &reason
		}
		account.UpdatedAt = s.now()
		if err := s.accounts.Update(ctx, tx, account); err != nil {
			return err
		}
		result = StrikeResult{Strikes: account.Strikes, IsBlocked: account.IsBlocked}
		if account.BlockReason != nil {
			result.BlockReason = *account.BlockReason
		}
		return nil
	})
	if err != nil {
		return StrikeResult{}, err
	}
	return result, nil
}

// MarkAuctionUnpaid flags a won-but-unpaid auction. Idempotent: marking the
// same auction twice keeps a single entry.
func (s *LedgerService) MarkAuctionUnpaid(ctx context.Context, userID, auctionID string) error {
	if userID == "" {
		return ErrMissingUserID
	}
	if auctionID == "" {
		return ErrMissingAuctionID
	}
	return s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		account, err := s.getOrCreateForUpdate(ctx, tx, userID)
		if err != nil {
			return err
		}
		if !containsID(account.UnpaidAuctionIDs, auctionID) {
			account.UnpaidAuctionIDs = append(account.UnpaidAuctionIDs, auctionID)
		}
		account.HasUnpaidAuctions = true
		account.UpdatedAt = s.now()
		return s.accounts.Update(ctx, tx, account)
	})
}

// AdminAdjustBalance credits or debits an account on behalf of an admin.
// Every manual adjustment is attributable through the metadata.
func (s *LedgerService) AdminAdjustBalance(ctx context.Context, userID string, amount int64, reason, adminID string) (CreditResult, error) {
	if reason == "" {
		return CreditResult{}, ErrMissingReason
	}
	if adminID == "" {
		return CreditResult{}, ErrMissingAdminID
	}
	return s.CreditBalance(ctx, CreditRequest{
		UserID:      userID,
		Amount:      amount,
		Type:        TypeAdjustment,
		Description: "Admin adjustment: " + reason,
		Metadata:    map[string]any{"adjusted_by": adminID, "reason": reason},
	})
}

// AdminClearUnpaidAuction removes an auction from the unpaid set and, if a
// reservation for it still exists, releases it with an admin-attributed
// transaction.
func (s *LedgerService) AdminClearUnpaidAuction(ctx context.Context, userID, auctionID, adminID string) (ReleaseResult, error) {
	if userID == "" {
		return ReleaseResult{}, ErrMissingUserID
	}
	if auctionID == "" {
		return ReleaseResult{}, ErrMissingAuctionID
	}
	if adminID == "" {
		return ReleaseResult{}, ErrMissingAdminID
	}

	var result ReleaseResult
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		account, err := s.accounts.GetForUpdate(ctx, tx, userID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrAccountNotFound
		}
		if err != nil {
			return err
		}
		account.UnpaidAuctionIDs = removeID(account.UnpaidAuctionIDs, auctionID)
		account.HasUnpaidAuctions = len(account.UnpaidAuctionIDs) > 0

		bid, err := s.bids.GetForUpdate(ctx, tx, userID, auctionID)
		if errors.Is(err, sql.ErrNoRows) {
			account.UpdatedAt = s.now()
			return s.accounts.Update(ctx, tx, account)
		}
		if err != nil {
			return err
		}

		metadata, err := metadataJSON(map[string]any{"cleared_by": adminID})
		if err != nil {
			return err
		}
		released, err := s.releaseLocked(ctx, tx, &account, bid, "Cleared by admin", metadata)
		if err != nil {
			return err
		}
		result = released
		return nil
	})
	if err != nil {
		return ReleaseResult{}, err
	}
	if result.Released {
		s.broadcastBalance(userID, result.AvailableBalance, result.BlockedBalance)
	}
	return result, nil
}

// AdminUnblockAccount lifts a strike block. This is the only unblock path;
// it also resets the strike counter so the account starts clean.
func (s *LedgerService) AdminUnblockAccount(ctx context.Context, userID, adminID string) (store.Account, error) {
	if userID == "" {
		return store.Account{}, ErrMissingUserID
	}
	if adminID == "" {
		return store.Account{}, ErrMissingAdminID
	}
	var account store.Account
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		account, err = s.accounts.GetForUpdate(ctx, tx, userID)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrAccountNotFound
		}
		if err != nil {
			return err
		}
		account.IsBlocked = false
		account.BlockReason = nil
		account.Strikes = 0
		account.UpdatedAt = s.now()
		return s.accounts.Update(ctx, tx, account)
	})
	if err != nil {
		return store.Account{}, err
	}
	log.Info().Str("user_id", userID).Str("admin_id", adminID).Msg("account unblocked by admin")
	return account, nil
}

type TransactionPage struct {
	Transactions []store.Transaction
	Total        int64
	Limit        int
	Offset       int
}

func (s *LedgerService) ListTransactions(ctx context.Context, userID, txType string, limit, offset int) (TransactionPage, error) {
	if userID == "" {
		return TransactionPage{}, ErrMissingUserID
	}
	if txType != "" && !validType(txType) {
		return TransactionPage{}, ErrInvalidType
	}
	limit, offset = clampPage(limit, offset)

	transactions, err := s.transactions.ListByUser(ctx, userID, txType, limit, offset)
	if err != nil {
		return TransactionPage{}, err
	}
	total, err := s.transactions.CountByUser(ctx, userID, txType)
	if err != nil {
		return TransactionPage{}, err
	}
	return TransactionPage{Transactions: transactions, Total: total, Limit: limit, Offset: offset}, nil
}

type AccountPage struct {
	Accounts []store.Account
	Total    int64
	Limit    int
	Offset   int
}

func (s *LedgerService) ListAllAccounts(ctx context.Context, limit, offset int) (AccountPage, error) {
	limit, offset = clampPage(limit, offset)
	accounts, err := s.accounts.ListAll(ctx, limit, offset)
	if err != nil {
		return AccountPage{}, err
	}
	total, err := s.accounts.CountAll(ctx)
	if err != nil {
		return AccountPage{}, err
	}
	return AccountPage{Accounts: accounts, Total: total, Limit: limit, Offset: offset}, nil
}

type AdminUserDetails struct {
	Account            store.Account
	BlockedBids        []store.BlockedBid
	RecentTransactions []store.Transaction
}

func (s *LedgerService) GetAdminUserDetails(ctx context.Context, userID string) (AdminUserDetails, error) {
	account, err := s.GetAccount(ctx, userID)
	if err != nil {
		return AdminUserDetails{}, err
	}
	bids, err := s.bids.ListByUser(ctx, userID)
	if err != nil {
		return AdminUserDetails{}, err
	}
	recent, err := s.transactions.ListByUser(ctx, userID, "", 20, 0)
	if err != nil {
		return AdminUserDetails{}, err
	}
	return AdminUserDetails{Account: account, BlockedBids: bids, RecentTransactions: recent}, nil
}

type AdminStats struct {
	TotalAccounts    int64
	BlockedAccounts  int64
	TotalAvailable   int64
	TotalBlocked     int64
	TotalCirculation int64
	GrossRevenueINR  int64
	RefundsINR       int64
	NetRevenueINR    int64
}

// GetAdminStats reports the outstanding RipLimit liability and the rupee
// revenue across completed purchases and refunds.
func (s *LedgerService) GetAdminStats(ctx context.Context) (AdminStats, error) {
	balances, err := s.accounts.BalanceTotals(ctx)
	if err != nil {
		return AdminStats{}, err
	}
	revenue, err := s.transactions.RevenueTotals(ctx)
	if err != nil {
		return AdminStats{}, err
	}
	return AdminStats{
		TotalAccounts:    balances.Accounts,
		BlockedAccounts:  balances.BlockedAccounts,
		TotalAvailable:   balances.TotalAvailable,
		TotalBlocked:     balances.TotalBlocked,
		TotalCirculation: balances.TotalAvailable + balances.TotalBlocked,
		GrossRevenueINR:  revenue.PurchasesINR,
		RefundsINR:       revenue.RefundsINR,
		NetRevenueINR:    revenue.PurchasesINR - revenue.RefundsINR,
	}, nil
}

func (s *LedgerService) broadcastBalance(userID string, available, blocked int64) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastBalance(userID, websocket.BalanceUpdate{
		AvailableBalance: available,
		BlockedBalance:   blocked,
		AvailableINR:     money.FormatINR(available),
		BlockedINR:       money.FormatINR(blocked),
	})
}

func defaultCreditDescription(txType string) string {
	if txType == TypePurchase {
		return "RipLimit purchase"
	}
	return "Balance adjustment"
}

func metadataJSON(metadata map[string]any) (string, error) {
	if len(metadata) == 0 {
		return "{}", nil
	}
	payload, err := json.Marshal(metadata)
	if err != nil {
		return "", err
	}
	return string(payload), nil
}

func validType(txType string) bool {
	switch txType {
	case TypePurchase, TypeBidBlock, TypeBidRelease, TypeAuctionPayment, TypeAdjustment:
		return true
	}
	return false
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func containsID(ids pq.StringArray, id string) bool {
	for _, existing := range ids {
		if existing == id {
			return true
		}
	}
	return false
}

func removeID(ids pq.StringArray, id string) pq.StringArray {
	filtered := make(pq.StringArray, 0, len(ids))
	for _, existing := range ids {
		if existing != id {
			filtered = append(filtered, existing)
		}
	}
	return filtered
}
