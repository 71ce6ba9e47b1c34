package store

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"
)

func TestAccountStoreCreateIfAbsent(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "INSERT INTO riplimit_accounts") {
				t.Fatalf("unexpected query: %s", query)
			}
			if !strings.Contains(query, "ON CONFLICT (user_id) DO NOTHING") {
				t.Fatalf("expected insert-if-absent query, got: %s", query)
			}
			if len(args) != 2 || args[0] != "user-1" || args[1] != now {
				t.Fatalf("unexpected args: %#v", args)
			}
			return stubResult{rows: 1}, nil
		},
	}
	store := NewAccountStore(stubDB{})
	created, err := store.CreateIfAbsent(ctx, execer, "user-1", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Fatalf("expected created=true")
	}
}

func TestAccountStoreCreateIfAbsentExisting(t *testing.T) {
	ctx := context.Background()
	execer := stubExecer{
		execFn: func(_ context.Context, _ string, _ ...any) (sql.Result, error) {
			return stubResult{rows: 0}, nil
		},
	}
	store := NewAccountStore(stubDB{})
	created, err := store.CreateIfAbsent(ctx, execer, "user-1", time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Fatalf("expected created=false for existing account")
	}
}

func TestAccountStoreGetForUpdate(t *testing.T) {
	ctx := context.Background()
	getter := stubGetter{
		getFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "FOR UPDATE") {
				t.Fatalf("expected row lock, got: %s", query)
			}
			if len(args) != 1 || args[0] != "user-1" {
				t.Fatalf("unexpected args: %#v", args)
			}
			*dest.(*Account) = Account{UserID: "user-1", AvailableBalance: 5000}
			return nil
		},
	}
	store := NewAccountStore(stubDB{})
	row, err := store.GetForUpdate(ctx, getter, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if row.UserID != "user-1" || row.AvailableBalance != 5000 {
		t.Fatalf("unexpected row: %#v", row)
	}
}

func TestAccountStoreUpdate(t *testing.T) {
	ctx := context.Background()
	reason := "blocked"
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "UPDATE riplimit_accounts") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 11 {
				t.Fatalf("expected 11 args, got %d", len(args))
			}
			if args[0] != int64(3000) || args[1] != int64(2000) || args[10] != "user-1" {
				t.Fatalf("unexpected args: %#v", args)
			}
			return stubResult{rows: 1}, nil
		},
	}
	store := NewAccountStore(stubDB{})
	err := store.Update(ctx, execer, Account{
		UserID:           "user-1",
		AvailableBalance: 3000,
		BlockedBalance:   2000,
		IsBlocked:        true,
		BlockReason:      &reason,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAccountStoreBalanceTotals(t *testing.T) {
	ctx := context.Background()
	store := NewAccountStore(stubDB{
		getFn: func(_ context.Context, dest any, query string, _ ...any) error {
			if !strings.Contains(query, "SUM(available_balance)") || !strings.Contains(query, "SUM(blocked_balance)") {
				t.Fatalf("unexpected query: %s", query)
			}
			*dest.(*BalanceTotals) = BalanceTotals{Accounts: 3, BlockedAccounts: 1, TotalAvailable: 9000, TotalBlocked: 2000}
			return nil
		},
	})
	totals, err := store.BalanceTotals(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if totals.Accounts != 3 || totals.TotalAvailable != 9000 {
		t.Fatalf("unexpected totals: %#v", totals)
	}
}

func TestAccountStoreListAll(t *testing.T) {
	ctx := context.Background()
	store := NewAccountStore(stubDB{
		selectFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "ORDER BY created_at DESC") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 2 || args[0] != 50 || args[1] != 100 {
				t.Fatalf("unexpected args: %#v", args)
			}
			*dest.(*[]Account) = []Account{{UserID: "user-1"}}
			return nil
		},
	})
	rows, err := store.ListAll(ctx, 50, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 || rows[0].UserID != "user-1" {
		t.Fatalf("unexpected rows: %#v", rows)
	}
}
