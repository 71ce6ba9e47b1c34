package store

import (
	"context"
	"time"

	"github.com/lib/pq"
)

type AccountStore struct {
	db DB
}

// Account is one user's RipLimit balance record. Balances are whole
// RipLimit units and never go negative; the schema enforces the same.
type Account struct {
	UserID            string         `db:"user_id"`
	AvailableBalance  int64          `db:"available_balance"`
	BlockedBalance    int64          `db:"blocked_balance"`
	LifetimePurchases int64          `db:"lifetime_purchases"`
	LifetimeSpent     int64          `db:"lifetime_spent"`
	HasUnpaidAuctions bool           `db:"has_unpaid_auctions"`
	UnpaidAuctionIDs  pq.StringArray `db:"unpaid_auction_ids"`
	Strikes           int            `db:"strikes"`
	IsBlocked         bool           `db:"is_blocked"`
	BlockReason       *string        `db:"block_reason"`
	CreatedAt         time.Time      `db:"created_at"`
	UpdatedAt         time.Time      `db:"updated_at"`
}

type BalanceTotals struct {
	Accounts        int64 `db:"accounts"`
	BlockedAccounts int64 `db:"blocked_accounts"`
	TotalAvailable  int64 `db:"total_available"`
	TotalBlocked    int64 `db:"total_blocked"`
}

func NewAccountStore(db DB) *AccountStore {
	return &AccountStore{db: db}
}

// CreateIfAbsent initializes a zero-balance account unless one already
// exists. ON CONFLICT DO NOTHING makes concurrent first-time callers safe:
// exactly one insert wins, the rest fall through to the read.
func (s *AccountStore) CreateIfAbsent(ctx context.Context, tx Execer, userID string, now time.Time) (bool, error) {
	res, err := tx.ExecContext(ctx, `
		INSERT INTO riplimit_accounts (user_id, unpaid_auction_ids, created_at, updated_at)
		VALUES ($1, '{}', $2, $2)
		ON CONFLICT (user_id) DO NOTHING
	`, userID, now)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

const accountColumns = `
	user_id, available_balance, blocked_balance, lifetime_purchases, lifetime_spent,
	has_unpaid_auctions, unpaid_auction_ids, strikes, is_blocked, block_reason,
	created_at, updated_at`

func (s *AccountStore) Get(ctx context.Context, userID string) (Account, error) {
	var row Account
	err := s.db.GetContext(ctx, &row, `
		SELECT `+accountColumns+`
		FROM riplimit_accounts
		WHERE user_id = $1
	`, userID)
	if err != nil {
		return Account{}, err
	}
	return row, nil
}

func (s *AccountStore) GetForUpdate(ctx context.Context, tx Getter, userID string) (Account, error) {
	var row Account
	err := tx.GetContext(ctx, &row, `
		SELECT `+accountColumns+`
		FROM riplimit_accounts
		WHERE user_id = $1
		FOR UPDATE
	`, userID)
	if err != nil {
		return Account{}, err
	}
	return row, nil
}

// Update writes every mutable column of the account row.
func (s *AccountStore) Update(ctx context.Context, tx Execer, account Account) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE riplimit_accounts
		SET available_balance = $1,
		    blocked_balance = $2,
		    lifetime_purchases = $3,
		    lifetime_spent = $4,
		    has_unpaid_auctions = $5,
		    unpaid_auction_ids = $6,
		    strikes = $7,
		    is_blocked = $8,
		    block_reason = $9,
		    updated_at = $10
		WHERE user_id = $11
	`, account.AvailableBalance, account.BlockedBalance, account.LifetimePurchases,
		account.LifetimeSpent, account.HasUnpaidAuctions, account.UnpaidAuctionIDs,
		account.Strikes, account.IsBlocked, account.BlockReason, account.UpdatedAt,
		account.UserID)
	return err
}

func (s *AccountStore) ListAll(ctx context.Context, limit, offset int) ([]Account, error) {
	var rows []Account
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+accountColumns+`
		FROM riplimit_accounts
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *AccountStore) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.GetContext(ctx, &count, `SELECT COUNT(1) FROM riplimit_accounts`)
	return count, err
}

func (s *AccountStore) BalanceTotals(ctx context.Context) (BalanceTotals, error) {
	var totals BalanceTotals
	err := s.db.GetContext(ctx, &totals, `
		SELECT COUNT(1) AS accounts,
		       COUNT(1) FILTER (WHERE is_blocked) AS blocked_accounts,
		       COALESCE(SUM(available_balance), 0) AS total_available,
		       COALESCE(SUM(blocked_balance), 0) AS total_blocked
		FROM riplimit_accounts
	`)
	return totals, err
}
