package store

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"
)

func TestBlockedBidStoreGetForUpdate(t *testing.T) {
	ctx := context.Background()
	getter := stubGetter{
		getFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "FOR UPDATE") {
				t.Fatalf("expected row lock, got: %s", query)
			}
			if len(args) != 2 || args[0] != "user-1" || args[1] != "auction-1" {
				t.Fatalf("unexpected args: %#v", args)
			}
			*dest.(*BlockedBid) = BlockedBid{UserID: "user-1", AuctionID: "auction-1", Amount: 2000}
			return nil
		},
	}
	store := NewBlockedBidStore(stubDB{})
	row, err := store.GetForUpdate(ctx, getter, "user-1", "auction-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if row.Amount != 2000 {
		t.Fatalf("unexpected row: %#v", row)
	}
}

func TestBlockedBidStoreUpsert(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "ON CONFLICT (user_id, auction_id) DO UPDATE") {
				t.Fatalf("expected upsert query, got: %s", query)
			}
			if len(args) != 6 {
				t.Fatalf("expected 6 args, got %d", len(args))
			}
			if args[2] != "bid-2" || args[3] != int64(1000) || args[4] != int64(50) {
				t.Fatalf("unexpected args: %#v", args)
			}
			return stubResult{rows: 1}, nil
		},
	}
	store := NewBlockedBidStore(stubDB{})
	err := store.Upsert(ctx, execer, BlockedBid{
		UserID:       "user-1",
		AuctionID:    "auction-1",
		BidID:        "bid-2",
		Amount:       1000,
		BidAmountINR: 50,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBlockedBidStoreDelete(t *testing.T) {
	ctx := context.Background()
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "DELETE FROM blocked_bids") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 2 || args[0] != "user-1" || args[1] != "auction-1" {
				t.Fatalf("unexpected args: %#v", args)
			}
			return stubResult{rows: 1}, nil
		},
	}
	store := NewBlockedBidStore(stubDB{})
	rows, err := store.Delete(ctx, execer, "user-1", "auction-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected 1 row deleted, got %d", rows)
	}
}

func TestBlockedBidStoreListByUser(t *testing.T) {
	ctx := context.Background()
	store := NewBlockedBidStore(stubDB{
		selectFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "WHERE user_id = $1") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 1 || args[0] != "user-1" {
				t.Fatalf("unexpected args: %#v", args)
			}
			*dest.(*[]BlockedBid) = []BlockedBid{{AuctionID: "auction-1"}, {AuctionID: "auction-2"}}
			return nil
		},
	})
	rows, err := store.ListByUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("unexpected rows: %#v", rows)
	}
}
