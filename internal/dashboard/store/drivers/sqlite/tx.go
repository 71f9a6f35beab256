package sqlite

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/ledger/internal/dashboard/store"
)

type txStore struct {
	tx *sql.Tx
}

func (t *txStore) Clients() store.Clients { return &clientsRepo{db: t.tx} }
func (t *txStore) Tasks() store.Tasks     { return &tasksRepo{db: t.tx} }

// Nested transactions are not supported; could emulate with SAVEPOINT if needed.
func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Store) error) error {
	return sql.ErrTxDone
}

func (t *txStore) ApplyMigrations() error        { return nil }
func (t *txStore) Close() error                  { return nil }
func (t *txStore) Ping(ctx context.Context) error { return nil }
