package affiliateservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/GlebRadaev/minerledger/internal/config"
	"github.com/GlebRadaev/minerledger/internal/domain"
	"github.com/GlebRadaev/minerledger/internal/metrics"
)

var (
	ErrInvalidAmount                = errors.New("amount must be a positive number of cents")
	ErrInsufficientAffiliateBalance = errors.New("insufficient affiliate balance")
)

//go:generate mockgen -source=affiliateservice.go -destination=mock_repo.go -package=affiliateservice Repo
type Repo interface {
	Get(ctx context.Context, id string) (*domain.Account, error)
	FindByAffiliateCode(ctx context.Context, code string) (*domain.Account, error)
	Update(ctx context.Context, id string, fn domain.UpdateFn) (*domain.Account, error)
}

type Stats struct {
	AffiliateCode    string                `json:"affiliateCode"`
	AffiliateBalance decimal.Decimal       `json:"affiliateBalance"`
	Stats            domain.AffiliateStats `json:"affiliateStats"`
}

type Service struct {
	repo  Repo
	rate  decimal.Decimal
	newID func() string
	now   func() time.Time
}

func New(cfg *config.Config, repo Repo) *Service {
	return &Service{
		repo:  repo,
		rate:  decimal.NewFromFloat(cfg.CommissionRate),
		newID: uuid.NewString,
		now:   time.Now,
	}
}

// AttributeCommission credits the depositor's referrer with a share of a
// successful deposit. Each deposit id is paid at most once.
func (s *Service) AttributeCommission(ctx context.Context, depositID string, amount decimal.Decimal, depositor *domain.Account) (domain.CommissionOutcome, error) {
	outcome, commission, err := s.attribute(ctx, depositID, amount, depositor)
	if err != nil {
		metrics.CommissionAttributions.WithLabelValues("error").Inc()
		zap.L().Error("commission attribution failed",
			zap.String("depositID", depositID),
			zap.String("depositorID", depositor.ID),
			zap.Error(err),
		)
		return "", err
	}

	metrics.CommissionAttributions.WithLabelValues(string(outcome)).Inc()
	if outcome == domain.CommissionCredited {
		metrics.CommissionAmount.Add(commission.InexactFloat64())
	}
	return outcome, nil
}

func (s *Service) attribute(ctx context.Context, depositID string, amount decimal.Decimal, depositor *domain.Account) (domain.CommissionOutcome, decimal.Decimal, error) {
	if !domain.ValidAmount(amount) {
		return "", decimal.Zero, fmt.Errorf("deposit %s: %w", depositID, ErrInvalidAmount)
	}
	if depositor.ReferredBy == "" {
		return domain.CommissionNoReferrer, decimal.Zero, nil
	}

	referrer, err := s.repo.FindByAffiliateCode(ctx, depositor.ReferredBy)
	if err != nil {
		return "", decimal.Zero, fmt.Errorf("resolve referral code %s: %w", depositor.ReferredBy, err)
	}
	if referrer == nil || referrer.ID == depositor.ID {
		zap.L().Warn("referrer not found for deposit",
			zap.String("code", depositor.ReferredBy),
			zap.String("depositID", depositID),
		)
		return domain.CommissionReferrerNotFound, decimal.Zero, nil
	}

	commission := amount.Mul(s.rate)
	if !commission.IsPositive() {
		return domain.CommissionNothingDue, decimal.Zero, nil
	}

	now := s.now()
	_, err = s.repo.Update(ctx, referrer.ID, func(acc *domain.Account) error {
		stats := &acc.AffiliateStats
		if stats.HasDeposit(depositID) {
			return domain.ErrNoChanges
		}
		if !stats.HasReferral(depositor.ID) {
			stats.ActiveReferralsCount++
		}
		acc.AffiliateBalance = acc.AffiliateBalance.Add(commission)
		stats.TotalCommissions = stats.TotalCommissions.Add(commission)
		stats.MonthlyCommissions = stats.MonthlyCommissions.Add(commission)
		stats.ActiveReferralsList = append(stats.ActiveReferralsList, domain.CommissionEvent{
			DepositID:      depositID,
			ReferredUserID: depositor.ID,
			Username:       depositor.Login,
			Date:           now,
			Commission:     commission,
			DepositAmount:  amount,
		})
		acc.Transactions = append(acc.Transactions, domain.Transaction{
			ID:          s.newID(),
			Type:        domain.TransactionAffiliateCommission,
			Amount:      commission,
			Status:      domain.StatusSuccess,
			CreatedAt:   now,
			Description: fmt.Sprintf("Commission from %s deposit", depositor.Login),
		})
		return nil
	})
	switch {
	case errors.Is(err, domain.ErrNoChanges):
		zap.L().Info("commission already attributed", zap.String("depositID", depositID))
		return domain.CommissionDuplicate, decimal.Zero, nil
	case errors.Is(err, domain.ErrNotFound):
		return domain.CommissionReferrerNotFound, decimal.Zero, nil
	case err != nil:
		return "", decimal.Zero, err
	}

	zap.L().Info("commission credited",
		zap.String("referrerID", referrer.ID),
		zap.String("depositID", depositID),
		zap.String("commission", commission.StringFixed(2)),
	)
	return domain.CommissionCredited, commission, nil
}

func (s *Service) Stats(ctx context.Context, userID string) (*Stats, error) {
	acc, err := s.repo.Get(ctx, userID)
	if err != nil {
		zap.L().Error("can't get affiliate stats", zap.String("userID", userID), zap.Error(err))
		return nil, err
	}
	if acc == nil {
		return nil, domain.ErrNotFound
	}
	return &Stats{
		AffiliateCode:    acc.AffiliateCode,
		AffiliateBalance: acc.AffiliateBalance,
		Stats:            acc.AffiliateStats,
	}, nil
}

// WithdrawAffiliate moves commission money into the spendable balance.
func (s *Service) WithdrawAffiliate(ctx context.Context, userID string, amount decimal.Decimal) (*domain.Account, error) {
	if !domain.ValidAmount(amount) {
		return nil, ErrInvalidAmount
	}

	now := s.now()
	acc, err := s.repo.Update(ctx, userID, func(acc *domain.Account) error {
		if acc.AffiliateBalance.LessThan(amount) {
			return ErrInsufficientAffiliateBalance
		}
		acc.AffiliateBalance = acc.AffiliateBalance.Sub(amount)
		acc.Credit(domain.Transaction{
			ID:          s.newID(),
			Type:        domain.TransactionAffiliateWithdrawal,
			Amount:      amount,
			CreatedAt:   now,
			Description: "Affiliate balance transfer",
		}, now)
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrInsufficientAffiliateBalance) {
			zap.L().Error("can't withdraw affiliate balance", zap.String("userID", userID), zap.Error(err))
		}
		return nil, err
	}
	return acc, nil
}
