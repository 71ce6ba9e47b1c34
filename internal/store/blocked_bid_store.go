package store

import (
	"context"
	"time"
)

type BlockedBidStore struct {
	db DB
}

// BlockedBid is the reservation held against a user's active bid on one
// auction. The (user_id, auction_id) primary key caps each account at a
// single reservation per auction; re-bids replace the row in place.
type BlockedBid struct {
	UserID       string    `db:"user_id"`
	AuctionID    string    `db:"auction_id"`
	BidID        string    `db:"bid_id"`
	Amount       int64     `db:"amount"`
	BidAmountINR int64     `db:"bid_amount_inr"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func NewBlockedBidStore(db DB) *BlockedBidStore {
	return &BlockedBidStore{db: db}
}

func (s *BlockedBidStore) GetForUpdate(ctx context.Context, tx Getter, userID, auctionID string) (BlockedBid, error) {
	var row BlockedBid
	err := tx.GetContext(ctx, &row, `
		SELECT user_id, auction_id, bid_id, amount, bid_amount_inr, created_at, updated_at
		FROM blocked_bids
		WHERE user_id = $1 AND auction_id = $2
		FOR UPDATE
	`, userID, auctionID)
	if err != nil {
		return BlockedBid{}, err
	}
	return row, nil
}

func (s *BlockedBidStore) Upsert(ctx context.Context, tx Execer, bid BlockedBid) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO blocked_bids (user_id, auction_id, bid_id, amount, bid_amount_inr, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		ON CONFLICT (user_id, auction_id) DO UPDATE
		SET bid_id = EXCLUDED.bid_id,
		    amount = EXCLUDED.amount,
		    bid_amount_inr = EXCLUDED.bid_amount_inr,
		    updated_at = EXCLUDED.updated_at
	`, bid.UserID, bid.AuctionID, bid.BidID, bid.Amount, bid.BidAmountINR, bid.UpdatedAt)
	return err
}

func (s *BlockedBidStore) Delete(ctx context.Context, tx Execer, userID, auctionID string) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		DELETE FROM blocked_bids
		WHERE user_id = $1 AND auction_id = $2
	`, userID, auctionID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *BlockedBidStore) ListByUser(ctx context.Context, userID string) ([]BlockedBid, error) {
	var rows []BlockedBid
	err := s.db.SelectContext(ctx, &rows, `
		SELECT user_id, auction_id, bid_id, amount, bid_amount_inr, created_at, updated_at
		FROM blocked_bids
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
