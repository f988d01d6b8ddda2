package accountrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/GlebRadaev/minerledger/internal/domain"
	"github.com/GlebRadaev/minerledger/internal/pg"
)

const uniqueViolation = "23505"

const selectAccount = `SELECT id, login, password_hash, affiliate_code, COALESCE(referred_by, ''), document, version, created_at FROM accounts`

// Repository keeps each account as a JSONB document next to the columns it is
// looked up by.
type Repository struct {
	db        pg.Database
	txManager pg.TXManager
}

func New(db pg.Database, txManager pg.TXManager) *Repository {
	return &Repository{
		db:        db,
		txManager: txManager,
	}
}

func (r *Repository) Create(ctx context.Context, acc *domain.Account) error {
	query := `INSERT INTO accounts (id, login, password_hash, affiliate_code, referred_by, document, version, created_at) VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, 1, $7)`

	doc, err := json.Marshal(acc)
	if err != nil {
		return fmt.Errorf("encode account %s: %w", acc.ID, err)
	}
	_, err = r.db.Exec(ctx, query, acc.ID, acc.Login, acc.PasswordHash, acc.AffiliateCode, acc.ReferredBy, doc, acc.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrAlreadyExists
		}
		zap.L().Error("failed to create account", zap.String("id", acc.ID), zap.Error(err))
		return err
	}
	acc.Version = 1
	return nil
}

func (r *Repository) Get(ctx context.Context, id string) (*domain.Account, error) {
	return r.findOne(ctx, selectAccount+` WHERE id = $1`, id)
}

func (r *Repository) FindByLogin(ctx context.Context, login string) (*domain.Account, error) {
	return r.findOne(ctx, selectAccount+` WHERE login = $1`, login)
}

func (r *Repository) FindByAffiliateCode(ctx context.Context, code string) (*domain.Account, error) {
	return r.findOne(ctx, selectAccount+` WHERE affiliate_code = $1`, code)
}

func (r *Repository) findOne(ctx context.Context, query string, arg string) (*domain.Account, error) {
	acc, err := scanAccount(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("failed to get account", zap.String("key", arg), zap.Error(err))
		return nil, err
	}
	return acc, nil
}

// ListIDs returns up to limit ids strictly greater than after, in ascending
// order.
func (r *Repository) ListIDs(ctx context.Context, after string, limit int) ([]string, error) {
	query := `SELECT id FROM accounts WHERE id > $1 ORDER BY id LIMIT $2`

	rows, err := r.db.Query(ctx, query, after, limit)
	if err != nil {
		zap.L().Error("failed to list accounts", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	ids := make([]string, 0, limit)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Update locks the row, applies fn to the stored account and writes the
// result back in the same transaction.
func (r *Repository) Update(ctx context.Context, id string, fn domain.UpdateFn) (*domain.Account, error) {
	var updated *domain.Account
	query := `UPDATE accounts SET document = $1, version = version + 1, updated_at = now() WHERE id = $2`

	err := r.txManager.Begin(ctx, func(ctx context.Context) error {
		acc, err := scanAccount(r.db.QueryRow(ctx, selectAccount+` WHERE id = $1 FOR UPDATE`, id))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrNotFound
			}
			return err
		}
		if err := fn(acc); err != nil {
			return err
		}

		doc, err := json.Marshal(acc)
		if err != nil {
			return fmt.Errorf("encode account %s: %w", id, err)
		}
		if _, err := r.db.Exec(ctx, query, doc, id); err != nil {
			zap.L().Error("failed to update account", zap.String("id", id), zap.Error(err))
			return err
		}
		acc.Version++
		updated = acc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		acc                               domain.Account
		doc                               []byte
		id, login, hash, code, referredBy string
		version                           int64
		createdAt                         time.Time
	)
	if err := row.Scan(&id, &login, &hash, &code, &referredBy, &doc, &version, &createdAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(doc, &acc); err != nil {
		return nil, fmt.Errorf("decode account %s: %w", id, err)
	}
	acc.ID = id
	acc.Login = login
	acc.PasswordHash = hash
	acc.AffiliateCode = code
	acc.ReferredBy = referredBy
	acc.Version = version
	acc.CreatedAt = createdAt
	return &acc, nil
}
