// Package database owns store selection and lifetime. The handle is
// process-scoped and initialized once; callers never manage connections.
package database

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"bharatbiz/internal/docstore"
)

// Store is the process-wide persistence handle. Exactly one of Pool or Docs
// is set: Pool when a DATABASE_URL is configured, the embedded document
// store otherwise.
type Store struct {
	Pool *pgxpool.Pool
	Docs *docstore.DB
}

// Embedded reports whether the ledger is served by the embedded store.
func (s *Store) Embedded() bool {
	return s.Docs != nil
}

var (
	once   sync.Once
	cached *Store
	errOut error
)

// Connect returns the process store, creating it on first call. With an
// empty dsn the embedded document store backs the ledger, mirroring the
// missing-database fallback of the original deployment.
func Connect(ctx context.Context, dsn string) (*Store, error) {
	once.Do(func() {
		if dsn == "" {
			log.Warn().Msg("DATABASE_URL missing, using embedded document store")
			cached = &Store{Docs: docstore.New()}
			return
		}

		config, err := pgxpool.ParseConfig(dsn)
		if err != nil {
			errOut = err
			return
		}
		pool, err := pgxpool.NewWithConfig(ctx, config)
		if err != nil {
			errOut = err
			return
		}
		if err := pool.Ping(ctx); err != nil {
			// Connection failure degrades to the embedded store rather than
			// refusing to start.
			log.Warn().Err(err).Msg("database unreachable, falling back to embedded document store")
			pool.Close()
			cached = &Store{Docs: docstore.New()}
			return
		}

		log.Info().Msg("database connected")
		cached = &Store{Pool: pool}
	})
	return cached, errOut
}

// Close releases the Postgres pool, if one is active.
func (s *Store) Close() {
	if s.Pool != nil {
		s.Pool.Close()
		log.Info().Msg("database disconnected")
	}
}
