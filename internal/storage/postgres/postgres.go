// Package postgres stores actor inventories in PostgreSQL using pgx v5.
// The schema lives in the repository's migrations directory and is applied
// with Migrate or cmd/migrate.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Robak132/MacrosCompanionModules/internal/config"
)

// ErrSchemaMissing is returned by NewPool when the inventory tables do not exist.
var ErrSchemaMissing = errors.New("inventory schema missing; run cmd/migrate")

// Pool is a pgx connection pool holding the inventory schema.
type Pool struct {
	pool *pgxpool.Pool
}

// NewPool connects to the database described by cfg and checks that the
// migrations have been applied.
//
// Precondition: cfg must contain valid database connection parameters.
// Postcondition: Returns a connected Pool, or an error wrapping
// ErrSchemaMissing when the tables are absent.
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}
	p := &Pool{pool: pool}
	if err := p.Health(ctx, 5*time.Second); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return p, nil
}

// Health pings the database and checks the inventory tables exist.
func (p *Pool) Health(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := p.pool.Ping(ctx); err != nil {
		return err
	}
	var actors, items bool
	err := p.pool.QueryRow(ctx,
		`SELECT to_regclass('actors') IS NOT NULL, to_regclass('items') IS NOT NULL`,
	).Scan(&actors, &items)
	if err != nil {
		return fmt.Errorf("checking schema: %w", err)
	}
	if !actors || !items {
		return ErrSchemaMissing
	}
	return nil
}

// Close releases all pool resources.
func (p *Pool) Close() {
	p.pool.Close()
}

// DB returns the underlying pgxpool.Pool.
func (p *Pool) DB() *pgxpool.Pool {
	return p.pool
}

// Inventory returns an InventoryRepository over the pool.
func (p *Pool) Inventory() *InventoryRepository {
	return NewInventoryRepository(p.pool)
}
