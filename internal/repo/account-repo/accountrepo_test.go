package accountrepo

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/GlebRadaev/minerledger/internal/domain"
	"github.com/GlebRadaev/minerledger/internal/pg"
)

var columns = []string{"id", "login", "password_hash", "affiliate_code", "referred_by", "document", "version", "created_at"}

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface, *pg.MockTXManager) {
	ctrl := gomock.NewController(t)
	mockTxManager := pg.NewMockTXManager(ctrl)

	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockDB.Close)

	return New(mockDB, mockTxManager), mockDB, mockTxManager
}

func passThrough(tx *pg.MockTXManager) {
	tx.EXPECT().Begin(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn pg.TransactionalFn) error { return fn(ctx) })
}

func document(t *testing.T, acc *domain.Account) []byte {
	doc, err := json.Marshal(acc)
	require.NoError(t, err)
	return doc
}

func TestRepository_Create(t *testing.T) {
	repo, mock, _ := NewMock(t)
	query := regexp.QuoteMeta(`INSERT INTO accounts (id, login, password_hash, affiliate_code, referred_by, document, version, created_at) VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, 1, $7)`)
	created := time.Date(2024, time.June, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		mockSetup func()
		expectErr error
	}{
		{
			name: "Account created",
			mockSetup: func() {
				mock.ExpectExec(query).
					WithArgs("u1", "alice", "hash", "ALICE001", "", pgxmock.AnyArg(), created).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
			},
		},
		{
			name: "Duplicate login",
			mockSetup: func() {
				mock.ExpectExec(query).
					WithArgs("u1", "alice", "hash", "ALICE001", "", pgxmock.AnyArg(), created).
					WillReturnError(&pgconn.PgError{Code: uniqueViolation})
			},
			expectErr: domain.ErrAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			acc := &domain.Account{ID: "u1", Login: "alice", PasswordHash: "hash", AffiliateCode: "ALICE001", CreatedAt: created}

			err := repo.Create(context.Background(), acc)

			if tt.expectErr != nil {
				assert.ErrorIs(t, err, tt.expectErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, int64(1), acc.Version)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_Get(t *testing.T) {
	repo, mock, _ := NewMock(t)
	query := regexp.QuoteMeta(`SELECT id, login, password_hash, affiliate_code, COALESCE(referred_by, ''), document, version, created_at FROM accounts WHERE id = $1`)
	created := time.Date(2024, time.June, 1, 9, 0, 0, 0, time.UTC)
	stored := &domain.Account{Balance: decimal.NewFromInt(88), LastTaskDate: domain.Date{Year: 2024, Month: time.June, Day: 2}}

	tests := []struct {
		name      string
		mockSetup func()
		expectErr bool
		result    *domain.Account
	}{
		{
			name: "Existing account",
			mockSetup: func() {
				mock.ExpectQuery(query).WithArgs("u1").WillReturnRows(
					pgxmock.NewRows(columns).AddRow("u1", "alice", "hash", "ALICE001", "u0", document(t, stored), int64(3), created))
			},
			result: &domain.Account{
				ID: "u1", Login: "alice", PasswordHash: "hash", AffiliateCode: "ALICE001", ReferredBy: "u0",
				Balance: decimal.NewFromInt(88), LastTaskDate: stored.LastTaskDate, Version: 3, CreatedAt: created,
			},
		},
		{
			name: "Missing account",
			mockSetup: func() {
				mock.ExpectQuery(query).WithArgs("u1").WillReturnError(pgx.ErrNoRows)
			},
		},
		{
			name: "Database error",
			mockSetup: func() {
				mock.ExpectQuery(query).WithArgs("u1").WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()

			acc, err := repo.Get(context.Background(), "u1")

			if tt.expectErr {
				assert.Error(t, err)
				assert.Nil(t, acc)
			} else {
				assert.NoError(t, err)
				if tt.result == nil {
					assert.Nil(t, acc)
				} else {
					require.NotNil(t, acc)
					assert.True(t, tt.result.Balance.Equal(acc.Balance))
					assert.Equal(t, tt.result.ID, acc.ID)
					assert.Equal(t, tt.result.Login, acc.Login)
					assert.Equal(t, tt.result.PasswordHash, acc.PasswordHash)
					assert.Equal(t, tt.result.AffiliateCode, acc.AffiliateCode)
					assert.Equal(t, tt.result.ReferredBy, acc.ReferredBy)
					assert.Equal(t, tt.result.LastTaskDate, acc.LastTaskDate)
					assert.Equal(t, tt.result.Version, acc.Version)
					assert.True(t, tt.result.CreatedAt.Equal(acc.CreatedAt))
				}
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_FindByAffiliateCode(t *testing.T) {
	repo, mock, _ := NewMock(t)
	query := regexp.QuoteMeta(`SELECT id, login, password_hash, affiliate_code, COALESCE(referred_by, ''), document, version, created_at FROM accounts WHERE affiliate_code = $1`)

	mock.ExpectQuery(query).WithArgs("REFA123").WillReturnRows(
		pgxmock.NewRows(columns).AddRow("a", "anna", "hash", "REFA123", "", []byte(`{}`), int64(1), time.Now()))

	acc, err := repo.FindByAffiliateCode(context.Background(), "REFA123")

	assert.NoError(t, err)
	require.NotNil(t, acc)
	assert.Equal(t, "a", acc.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListIDs(t *testing.T) {
	repo, mock, _ := NewMock(t)
	query := regexp.QuoteMeta(`SELECT id FROM accounts WHERE id > $1 ORDER BY id LIMIT $2`)

	mock.ExpectQuery(query).WithArgs("b", 2).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("c").AddRow("d"))

	ids, err := repo.ListIDs(context.Background(), "b", 2)

	assert.NoError(t, err)
	assert.Equal(t, []string{"c", "d"}, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Update(t *testing.T) {
	selectQuery := regexp.QuoteMeta(`SELECT id, login, password_hash, affiliate_code, COALESCE(referred_by, ''), document, version, created_at FROM accounts WHERE id = $1 FOR UPDATE`)
	updateQuery := regexp.QuoteMeta(`UPDATE accounts SET document = $1, version = version + 1, updated_at = now() WHERE id = $2`)
	stored := &domain.Account{Balance: decimal.NewFromInt(10)}

	tests := []struct {
		name      string
		mockSetup func(mock pgxmock.PgxPoolIface, t *testing.T)
		fn        domain.UpdateFn
		expectErr error
	}{
		{
			name: "Document rewritten",
			mockSetup: func(mock pgxmock.PgxPoolIface, t *testing.T) {
				mock.ExpectQuery(selectQuery).WithArgs("u1").WillReturnRows(
					pgxmock.NewRows(columns).AddRow("u1", "alice", "hash", "C", "", document(t, stored), int64(4), time.Now()))
				mock.ExpectExec(updateQuery).WithArgs(pgxmock.AnyArg(), "u1").
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			},
			fn: func(acc *domain.Account) error {
				acc.Balance = acc.Balance.Add(decimal.NewFromInt(5))
				return nil
			},
		},
		{
			name: "No changes skips the write",
			mockSetup: func(mock pgxmock.PgxPoolIface, t *testing.T) {
				mock.ExpectQuery(selectQuery).WithArgs("u1").WillReturnRows(
					pgxmock.NewRows(columns).AddRow("u1", "alice", "hash", "C", "", document(t, stored), int64(4), time.Now()))
			},
			fn:        func(*domain.Account) error { return domain.ErrNoChanges },
			expectErr: domain.ErrNoChanges,
		},
		{
			name: "Missing account",
			mockSetup: func(mock pgxmock.PgxPoolIface, t *testing.T) {
				mock.ExpectQuery(selectQuery).WithArgs("u1").WillReturnError(pgx.ErrNoRows)
			},
			fn:        func(*domain.Account) error { return nil },
			expectErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, tx := NewMock(t)
			passThrough(tx)
			tt.mockSetup(mock, t)

			acc, err := repo.Update(context.Background(), "u1", tt.fn)

			if tt.expectErr != nil {
				assert.ErrorIs(t, err, tt.expectErr)
				assert.Nil(t, acc)
			} else {
				assert.NoError(t, err)
				require.NotNil(t, acc)
				assert.True(t, decimal.NewFromInt(15).Equal(acc.Balance))
				assert.Equal(t, int64(5), acc.Version)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
