package pg

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// Database is the query surface shared by pgxpool.Pool, pgx.Tx and pgxmock.
type Database interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Pool is a Database that can open transactions.
type Pool interface {
	Database
	Begin(ctx context.Context) (pgx.Tx, error)
}

type txKey struct{}

func txFromContext(ctx context.Context) pgx.Tx {
	tx, _ := ctx.Value(txKey{}).(pgx.Tx)
	return tx
}

// DB routes queries to the transaction carried by ctx, if any, and to the pool
// otherwise.
type DB struct {
	pool Pool
}

func New(pool Pool) *DB {
	return &DB{pool: pool}
}

func (d *DB) conn(ctx context.Context) Database {
	if tx := txFromContext(ctx); tx != nil {
		return tx
	}
	return d.pool
}

func (d *DB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return d.conn(ctx).Exec(ctx, sql, args...)
}

func (d *DB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return d.conn(ctx).Query(ctx, sql, args...)
}

func (d *DB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return d.conn(ctx).QueryRow(ctx, sql, args...)
}

type TransactionalFn func(ctx context.Context) error

//go:generate mockgen -source=pg.go -destination=mock_txmanager.go -package=pg TXManager
type TXManager interface {
	Begin(ctx context.Context, fn TransactionalFn) error
}

type Manager struct {
	pool Pool
}

func NewTXManager(pool Pool) *Manager {
	return &Manager{pool: pool}
}

// Begin runs fn inside a transaction. A nested call joins the outer one.
func (m *Manager) Begin(ctx context.Context, fn TransactionalFn) (err error) {
	if txFromContext(ctx) != nil {
		return fn(ctx)
	}

	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				zap.L().Error("failed to rollback transaction", zap.Error(rbErr))
			}
			return
		}
		if err = tx.Commit(ctx); err != nil {
			err = fmt.Errorf("commit transaction: %w", err)
		}
	}()

	return fn(context.WithValue(ctx, txKey{}, tx))
}
