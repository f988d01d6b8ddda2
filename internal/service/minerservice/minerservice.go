package minerservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/GlebRadaev/minerledger/internal/domain"
)

const termDays = 30

var ErrUnknownTier = errors.New("unknown miner tier")

type Tier struct {
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	DailyReturn decimal.Decimal `json:"dailyReturn"`
	TermDays    int             `json:"termDays"`
}

var catalogue = []Tier{
	{Name: "Starter", Price: decimal.NewFromInt(500), DailyReturn: decimal.NewFromInt(20), TermDays: termDays},
	{Name: "Advanced", Price: decimal.NewFromInt(1000), DailyReturn: decimal.NewFromInt(88), TermDays: termDays},
	{Name: "Pro", Price: decimal.NewFromInt(5000), DailyReturn: decimal.NewFromInt(480), TermDays: termDays},
	{Name: "Ultra", Price: decimal.NewFromInt(10000), DailyReturn: decimal.NewFromInt(1000), TermDays: termDays},
}

//go:generate mockgen -source=minerservice.go -destination=mock_repo.go -package=minerservice Repo
type Repo interface {
	Get(ctx context.Context, id string) (*domain.Account, error)
	Update(ctx context.Context, id string, fn domain.UpdateFn) (*domain.Account, error)
}

type Service struct {
	repo  Repo
	newID func() string
	now   func() time.Time
}

func New(repo Repo) *Service {
	return &Service{
		repo:  repo,
		newID: uuid.NewString,
		now:   time.Now,
	}
}

func (s *Service) Tiers() []Tier {
	return append([]Tier(nil), catalogue...)
}

func findTier(name string) (Tier, bool) {
	for _, t := range catalogue {
		if t.Name == name {
			return t, true
		}
	}
	return Tier{}, false
}

// Purchase debits the tier price and opens a new position in the same
// document update.
func (s *Service) Purchase(ctx context.Context, userID, tierName string) (*domain.Miner, error) {
	tier, ok := findTier(tierName)
	if !ok {
		return nil, ErrUnknownTier
	}

	now := s.now()
	miner := domain.Miner{
		ID:          s.newID(),
		Name:        tier.Name,
		DailyReturn: tier.DailyReturn,
		PurchasedAt: now,
		ExpiresAt:   now.AddDate(0, 0, tier.TermDays),
		Active:      true,
		TotalEarned: decimal.Zero,
	}

	_, err := s.repo.Update(ctx, userID, func(acc *domain.Account) error {
		if err := acc.Debit(tier.Price); err != nil {
			return err
		}
		acc.Miners = append(acc.Miners, miner)
		acc.Transactions = append(acc.Transactions, domain.Transaction{
			ID:          s.newID(),
			Type:        domain.TransactionPurchase,
			Amount:      tier.Price.Neg(),
			Status:      domain.StatusSuccess,
			CreatedAt:   now,
			Description: fmt.Sprintf("Purchased %s miner", tier.Name),
		})
		return nil
	})
	if err != nil {
		if !errors.Is(err, domain.ErrInsufficientBalance) {
			zap.L().Error("can't purchase miner", zap.String("userID", userID), zap.String("tier", tierName), zap.Error(err))
		}
		return nil, err
	}

	zap.L().Info("miner purchased", zap.String("userID", userID), zap.String("tier", tier.Name), zap.String("minerID", miner.ID))
	return &miner, nil
}

func (s *Service) List(ctx context.Context, userID string) ([]domain.Miner, error) {
	acc, err := s.repo.Get(ctx, userID)
	if err != nil {
		zap.L().Error("can't get miners", zap.String("userID", userID), zap.Error(err))
		return nil, err
	}
	if acc == nil {
		return nil, domain.ErrNotFound
	}
	return acc.Miners, nil
}
