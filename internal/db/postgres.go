package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JackLockhart04/course-genius/internal/config"
	"github.com/JackLockhart04/course-genius/internal/pkg/logger"
)

// UserDB is the restricted database capability. It connects as the role that
// is subject to the row-level-security policies, and every operation runs
// inside a transaction that binds the caller's identity to app.user_id so the
// policies evaluate under that caller. It is deliberately a distinct type from
// AdminDB: a repository holding a *UserDB cannot bypass ownership checks.
type UserDB struct {
	pool *pgxpool.Pool
}

// AdminDB is the elevated capability. It connects as the role that bypasses
// row level security. Only migrations, health checks, and startup code hold
// one; request-path code never sees it.
type AdminDB struct {
	pool *pgxpool.Pool
}

// NewUserDB creates the restricted connection pool.
func NewUserDB(cfg *config.Config) (*UserDB, error) {
	pool, err := newPool(cfg, cfg.UserConnectionString())
	if err != nil {
		return nil, err
	}
	return &UserDB{pool: pool}, nil
}

// NewAdminDB creates the RLS-bypassing connection pool.
func NewAdminDB(cfg *config.Config) (*AdminDB, error) {
	pool, err := newPool(cfg, cfg.AdminConnectionString())
	if err != nil {
		return nil, err
	}
	return &AdminDB{pool: pool}, nil
}

func newPool(cfg *config.Config, connString string) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse pgxpool config: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.Database.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.Database.MaxIdleConns)

	maxLifetime, err := time.ParseDuration(cfg.Database.ConnMaxLifetime)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection max lifetime: %w", err)
	}
	poolConfig.MaxConnLifetime = maxLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to establish database connection: %w", err)
	}

	return pool, nil
}

// IdentityFn runs statements under a bound caller identity.
type IdentityFn func(ctx context.Context, tx pgx.Tx) error

// AsIdentity runs fn inside a transaction with app.user_id set to ownerID for
// the transaction's lifetime (SET LOCAL semantics via set_config). The
// row-level-security policies key on that setting, so every statement in fn
// sees and affects only the caller's rows. The binding dies with the
// transaction; pooled connections never leak an identity between requests.
func (d *UserDB) AsIdentity(ctx context.Context, ownerID uuid.UUID, fn IdentityFn) error {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
	}

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback(ctx)
			panic(r)
		}
	}()

	if _, err := tx.Exec(ctx, `SELECT set_config('app.user_id', $1, true)`, ownerID.String()); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			logger.Error().Err(rbErr).Msg("Failed to rollback transaction")
		}
		return fmt.Errorf("failed to bind caller identity: %w", err)
	}

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			logger.Error().Err(rbErr).Msg("Failed to rollback transaction")
			return fmt.Errorf("error: %v, rollback error: %w", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Ping checks the restricted pool.
func (d *UserDB) Ping(ctx context.Context) error {
	return d.pool.Ping(ctx)
}

// Close releases the restricted pool.
func (d *UserDB) Close() {
	if d.pool != nil {
		d.pool.Close()
	}
}

// Pool exposes the elevated pool for migrations and health checks.
func (d *AdminDB) Pool() *pgxpool.Pool {
	return d.pool
}

// Ping checks the elevated pool.
func (d *AdminDB) Ping(ctx context.Context) error {
	return d.pool.Ping(ctx)
}

// Close releases the elevated pool.
func (d *AdminDB) Close() {
	if d.pool != nil {
		d.pool.Close()
	}
}
