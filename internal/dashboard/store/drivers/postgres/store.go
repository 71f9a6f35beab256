package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/ledger/internal/dashboard/store"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// dbtx is satisfied by both *pgxpool.Pool and pgx.Tx.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type options struct {
	maxConns       int32
	minConns       int32
	maxLifetime    time.Duration
	maxIdleTime    time.Duration
	healthCheck    time.Duration
	connectTimeout time.Duration
	logger         *slog.Logger
	logQueries     bool
}

// Option configures the connection pool.
type Option func(*options)

func WithMaxConns(n int) Option {
	return func(o *options) { o.maxConns = int32(n) }
}

func WithMinConns(n int) Option {
	return func(o *options) { o.minConns = int32(n) }
}

func WithConnectTimeout(d time.Duration) Option {
	return func(o *options) { o.connectTimeout = d }
}

// WithLogger sets the logger used by the query tracer.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithLogQueries logs every statement at debug level.
func WithLogQueries(enable bool) Option {
	return func(o *options) { o.logQueries = enable }
}

type Store struct {
	pool *pgxpool.Pool
}

var _ store.Store = (*Store)(nil)

// NewStore opens a pool against databaseURL and pings it once.
func NewStore(databaseURL string, opts ...Option) (*Store, error) {
	o := &options{
		maxConns:       10,
		minConns:       1,
		maxLifetime:    time.Hour,
		maxIdleTime:    30 * time.Minute,
		healthCheck:    time.Minute,
		connectTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}
	cfg.MaxConns = o.maxConns
	cfg.MinConns = o.minConns
	cfg.MaxConnLifetime = o.maxLifetime
	cfg.MaxConnIdleTime = o.maxIdleTime
	cfg.HealthCheckPeriod = o.healthCheck
	if o.logQueries {
		cfg.ConnConfig.Tracer = &queryTracer{logger: o.logger}
	}

	ctx, cancel := context.WithTimeout(context.Background(), o.connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &Store{pool: pool}, nil
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// WithTx executes fn within a transaction, automatically handling commit/rollback.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Store) error) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(&txStore{tx: tx})
	})
}

func (s *Store) Clients() store.Clients { return &clientsRepo{db: s.pool} }
func (s *Store) Tasks() store.Tasks     { return &tasksRepo{db: s.pool} }

type txStore struct {
	tx pgx.Tx
}

func (t *txStore) Clients() store.Clients { return &clientsRepo{db: t.tx} }
func (t *txStore) Tasks() store.Tasks     { return &tasksRepo{db: t.tx} }

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Store) error) error {
	return pgx.BeginFunc(ctx, t.tx, func(tx pgx.Tx) error {
		return fn(&txStore{tx: tx})
	})
}

func (t *txStore) ApplyMigrations() error         { return nil }
func (t *txStore) Close() error                   { return nil }
func (t *txStore) Ping(ctx context.Context) error { return nil }

func mapNotFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

func mapConflict(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return err
	}
	switch pgErr.ConstraintName {
	case "clients_owner_email_key":
		return &store.ConflictError{Field: "email"}
	case "clients_owner_phone_key":
		return &store.ConflictError{Field: "phone"}
	default:
		return &store.ConflictError{}
	}
}

func requireAffected(tag pgconn.CommandTag, err error) error {
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
