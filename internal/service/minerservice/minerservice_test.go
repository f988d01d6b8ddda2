package minerservice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"

	"github.com/GlebRadaev/minerledger/internal/domain"
)

var fixedNow = time.Date(2024, time.June, 1, 9, 0, 0, 0, time.UTC)

func NewMock(t *testing.T) (*Service, *MockRepo) {
	ctrl := gomock.NewController(t)
	repo := NewMockRepo(ctrl)
	service := New(repo)
	service.newID = func() string { return "id-1" }
	service.now = func() time.Time { return fixedNow }
	return service, repo
}

// applyTo runs the update fn against acc, the way a store would.
func applyTo(acc *domain.Account) func(context.Context, string, domain.UpdateFn) (*domain.Account, error) {
	return func(_ context.Context, _ string, fn domain.UpdateFn) (*domain.Account, error) {
		if err := fn(acc); err != nil {
			return nil, err
		}
		return acc, nil
	}
}

func TestService_Purchase(t *testing.T) {
	tests := []struct {
		name          string
		tier          string
		balance       int64
		expectedError error
	}{
		{name: "Advanced tier", tier: "Advanced", balance: 1500},
		{name: "Exact balance", tier: "Starter", balance: 500},
		{name: "Insufficient balance", tier: "Pro", balance: 4999, expectedError: domain.ErrInsufficientBalance},
		{name: "Unknown tier", tier: "Mega", balance: 100000, expectedError: ErrUnknownTier},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, repo := NewMock(t)
			acc := &domain.Account{ID: "u1", Balance: decimal.NewFromInt(tt.balance)}
			if tt.expectedError != ErrUnknownTier {
				repo.EXPECT().Update(gomock.Any(), "u1", gomock.Any()).DoAndReturn(applyTo(acc))
			}

			miner, err := service.Purchase(context.Background(), "u1", tt.tier)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, miner)
				assert.True(t, decimal.NewFromInt(tt.balance).Equal(acc.Balance))
				assert.Empty(t, acc.Miners)
				return
			}
			require.NoError(t, err)
			tier, _ := findTier(tt.tier)
			assert.True(t, decimal.NewFromInt(tt.balance).Sub(tier.Price).Equal(acc.Balance))
			require.Len(t, acc.Miners, 1)
			assert.True(t, acc.Miners[0].Active)
			assert.True(t, tier.DailyReturn.Equal(acc.Miners[0].DailyReturn))
			assert.Equal(t, fixedNow.AddDate(0, 0, 30), acc.Miners[0].ExpiresAt)
			assert.True(t, acc.Miners[0].LastProcessed.IsZero())
			require.Len(t, acc.Transactions, 1)
			assert.Equal(t, domain.TransactionPurchase, acc.Transactions[0].Type)
			assert.True(t, tier.Price.Neg().Equal(acc.Transactions[0].Amount))
			assert.True(t, acc.TotalEarnings.IsZero(), "a purchase is not an earning")
		})
	}
}

func TestService_List(t *testing.T) {
	tests := []struct {
		name          string
		prepareMock   func(repo *MockRepo)
		expectedLen   int
		expectedError error
		anyError      bool
	}{
		{
			name: "Positions returned",
			prepareMock: func(repo *MockRepo) {
				repo.EXPECT().Get(gomock.Any(), "u1").Return(&domain.Account{Miners: []domain.Miner{{ID: "m1"}, {ID: "m2"}}}, nil)
			},
			expectedLen: 2,
		},
		{
			name: "Unknown user",
			prepareMock: func(repo *MockRepo) {
				repo.EXPECT().Get(gomock.Any(), "u1").Return(nil, nil)
			},
			expectedError: domain.ErrNotFound,
		},
		{
			name: "Store error",
			prepareMock: func(repo *MockRepo) {
				repo.EXPECT().Get(gomock.Any(), "u1").Return(nil, errors.New("db down"))
			},
			anyError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, repo := NewMock(t)
			tt.prepareMock(repo)

			miners, err := service.List(context.Background(), "u1")

			switch {
			case tt.expectedError != nil:
				assert.ErrorIs(t, err, tt.expectedError)
			case tt.anyError:
				assert.Error(t, err)
			default:
				assert.NoError(t, err)
				assert.Len(t, miners, tt.expectedLen)
			}
		})
	}
}

func TestService_TiersIsACopy(t *testing.T) {
	service, _ := NewMock(t)

	tiers := service.Tiers()
	require.Len(t, tiers, 4)
	tiers[0].Name = "changed"

	assert.Equal(t, "Starter", service.Tiers()[0].Name)
}
