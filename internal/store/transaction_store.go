package store

import (
	"context"
	"time"
)

type TransactionStore struct {
	db DB
}

// Transaction is one immutable entry of the RipLimit audit trail. Amount is
// signed ledger units; inr_amount is the rupee value at the fixed rate.
type Transaction struct {
	ID           string    `db:"id"`
	UserID       string    `db:"user_id"`
	Type         string    `db:"type"`
	Amount       int64     `db:"amount"`
	INRAmount    int64     `db:"inr_amount"`
	BalanceAfter int64     `db:"balance_after"`
	AuctionID    *string   `db:"auction_id"`
	BidID        *string   `db:"bid_id"`
	OrderID      *string   `db:"order_id"`
	Status       string    `db:"status"`
	Description  string    `db:"description"`
	Metadata     string    `db:"metadata"`
	CreatedAt    time.Time `db:"created_at"`
}

type TransactionInput struct {
	ID           string
	UserID       string
	Type         string
	Amount       int64
	INRAmount    int64
	BalanceAfter int64
	AuctionID    *string
	BidID        *string
	OrderID      *string
	Status       string
	Description  string
	Metadata     string
	CreatedAt    time.Time
}

type RevenueTotals struct {
	PurchasesINR int64 `db:"purchases_inr"`
	RefundsINR   int64 `db:"refunds_inr"`
}

func NewTransactionStore(db DB) *TransactionStore {
	return &TransactionStore{db: db}
}

func (s *TransactionStore) Create(ctx context.Context, tx Execer, input TransactionInput) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO riplimit_transactions
			(id, user_id, type, amount, inr_amount, balance_after, auction_id, bid_id, order_id, status, description, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, input.ID, input.UserID, input.Type, input.Amount, input.INRAmount, input.BalanceAfter,
		input.AuctionID, input.BidID, input.OrderID, input.Status, input.Description,
		input.Metadata, input.CreatedAt)
	return err
}

const transactionColumns = `
	id, user_id, type, amount, inr_amount, balance_after, auction_id, bid_id, order_id,
	status, description, metadata, created_at`

func (s *TransactionStore) ListByUser(ctx context.Context, userID, txType string, limit, offset int) ([]Transaction, error) {
	var rows []Transaction
	query := `
		SELECT ` + transactionColumns + `
		FROM riplimit_transactions
		WHERE user_id = $1
	`
	args := []any{userID}
	if txType != "" {
		query += " AND type = $2 ORDER BY created_at DESC LIMIT $3 OFFSET $4"
		args = append(args, txType, limit, offset)
	} else {
		query += " ORDER BY created_at DESC LIMIT $2 OFFSET $3"
		args = append(args, limit, offset)
	}
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *TransactionStore) CountByUser(ctx context.Context, userID, txType string) (int64, error) {
	var count int64
	if txType != "" {
		err := s.db.GetContext(ctx, &count, `
			SELECT COUNT(1) FROM riplimit_transactions WHERE user_id = $1 AND type = $2
		`, userID, txType)
		return count, err
	}
	err := s.db.GetContext(ctx, &count, `
		SELECT COUNT(1) FROM riplimit_transactions WHERE user_id = $1
	`, userID)
	return count, err
}

// RevenueTotals sums completed purchases and refunds in rupees. Refunds are
// negative admin adjustments, reported as a positive number.
func (s *TransactionStore) RevenueTotals(ctx context.Context) (RevenueTotals, error) {
	var totals RevenueTotals
	err := s.db.GetContext(ctx, &totals, `
		SELECT COALESCE(SUM(inr_amount) FILTER (WHERE type = 'PURCHASE'), 0) AS purchases_inr,
		       COALESCE(SUM(-inr_amount) FILTER (WHERE type = 'ADJUSTMENT' AND amount < 0), 0) AS refunds_inr
		FROM riplimit_transactions
		WHERE status = 'COMPLETED'
	`)
	return totals, err
}
