package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/config"
	"github.com/spec-kit/support-desk/pkg/util"
)

// PostgresStore keeps the snapshot document in a single jsonb row, upserted
// in full on every persist.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore establishes a connection pool and ensures the snapshot
// table exists.
func NewPostgresStore(ctx context.Context, cfg config.PostgresConfig, logger *zap.Logger) (*PostgresStore, error) {
	if cfg.DSN == "" {
		return nil, errors.New("POSTGRES_DSN required for the postgres store backend")
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, err
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.ConnMaxIdleSec > 0 {
		poolCfg.MaxConnIdleTime = time.Duration(cfg.ConnMaxIdleSec) * time.Second
	}
	if cfg.ConnMaxLifeSec > 0 {
		poolCfg.MaxConnLifetime = time.Duration(cfg.ConnMaxLifeSec) * time.Second
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	const migration = `
        CREATE TABLE IF NOT EXISTS support_snapshot (
            id SMALLINT PRIMARY KEY DEFAULT 1 CHECK (id = 1),
            data JSONB NOT NULL,
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`
	if _, err := pool.Exec(ctx, migration); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure snapshot table: %w", err)
	}

	logger.Info("connected to postgres")
	return &PostgresStore{pool: pool}, nil
}

// Load reads the snapshot row, initializing empty collections when no row
// exists yet.
func (p *PostgresStore) Load(ctx context.Context) (*Snapshot, error) {
	var data []byte
	err := p.pool.QueryRow(ctx, `SELECT data FROM support_snapshot WHERE id = 1`).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return NewSnapshot(), nil
	}
	if err != nil {
		return nil, util.NewInternalError(fmt.Errorf("read snapshot: %w", err))
	}

	snapshot := &Snapshot{}
	if err := json.Unmarshal(data, snapshot); err != nil {
		return nil, util.NewInternalError(fmt.Errorf("decode snapshot: %w", err))
	}
	snapshot.normalize()
	return snapshot, nil
}

// Persist upserts the snapshot row with the full document.
func (p *PostgresStore) Persist(ctx context.Context, snapshot *Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return util.NewInternalError(fmt.Errorf("encode snapshot: %w", err))
	}

	const query = `
        INSERT INTO support_snapshot (id, data, updated_at) VALUES (1, $1, NOW())
        ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()`
	if _, err := p.pool.Exec(ctx, query, data); err != nil {
		return util.NewInternalError(fmt.Errorf("write snapshot: %w", err))
	}
	return nil
}

// Ping verifies database connectivity.
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Close releases pool resources.
func (p *PostgresStore) Close() {
	if p != nil && p.pool != nil {
		p.pool.Close()
	}
}
