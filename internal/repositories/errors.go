package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned when no entity matches an (id, owner) lookup.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when an entity fails a construction rule, such as
// a duplicate phone for the same owner.
var ErrValidation = errors.New("validation failed")

// Database is the query surface shared by *pgxpool.Pool and the pgxmock pool
// used in tests.
type Database interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}
