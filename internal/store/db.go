package store

import (
	"context"
	"database/sql"
)

// The stores accept the narrowest interface a method needs: reads off the
// pool take the DB, statements inside a ledger transaction take an Execer
// or Getter so *sqlx.Tx and *sqlx.DB are interchangeable.

type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type Getter interface {
	GetContext(ctx context.Context, dest any, query string, args ...any) error
}

type Selecter interface {
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

type DB interface {
	Execer
	Getter
	Selecter
}
