package walletservice

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/GlebRadaev/minerledger/internal/config"
	"github.com/GlebRadaev/minerledger/internal/domain"
	"github.com/GlebRadaev/minerledger/internal/payment"
	"github.com/GlebRadaev/minerledger/pkg/validate"
)

const cardMethod = "card"

var (
	ErrInvalidAmount      = errors.New("amount must be a positive number of cents")
	ErrInvalidCard        = errors.New("invalid card number")
	ErrTaskAlreadyClaimed = errors.New("daily task already claimed")
)

//go:generate mockgen -source=walletservice.go -destination=mock_walletservice.go -package=walletservice Repo,Attributor
type Repo interface {
	Get(ctx context.Context, id string) (*domain.Account, error)
	Update(ctx context.Context, id string, fn domain.UpdateFn) (*domain.Account, error)
}

type Attributor interface {
	AttributeCommission(ctx context.Context, depositID string, amount decimal.Decimal, depositor *domain.Account) (domain.CommissionOutcome, error)
}

type Balance struct {
	Balance          decimal.Decimal `json:"balance"`
	TotalEarnings    decimal.Decimal `json:"totalEarnings"`
	MonthlyEarnings  decimal.Decimal `json:"monthlyEarnings"`
	AffiliateBalance decimal.Decimal `json:"affiliateBalance"`
}

type Service struct {
	repo       Repo
	gateway    payment.Gateway
	attributor Attributor
	taskReward decimal.Decimal
	loc        *time.Location

	newID func() string
	now   func() time.Time
}

func New(cfg *config.Config, repo Repo, gateway payment.Gateway, attributor Attributor, loc *time.Location) *Service {
	return &Service{
		repo:       repo,
		gateway:    gateway,
		attributor: attributor,
		taskReward: decimal.NewFromFloat(cfg.TaskReward),
		loc:        loc,
		newID:      uuid.NewString,
		now:        time.Now,
	}
}

func (s *Service) Balance(ctx context.Context, userID string) (*Balance, error) {
	acc, err := s.account(ctx, userID)
	if err != nil {
		return nil, err
	}
	acc.RecomputeMonthlyEarnings(s.now())
	return &Balance{
		Balance:          acc.Balance,
		TotalEarnings:    acc.TotalEarnings,
		MonthlyEarnings:  acc.MonthlyEarnings,
		AffiliateBalance: acc.AffiliateBalance,
	}, nil
}

// Transactions returns the log newest first.
func (s *Service) Transactions(ctx context.Context, userID string) ([]domain.Transaction, error) {
	acc, err := s.account(ctx, userID)
	if err != nil {
		return nil, err
	}
	txs := acc.Transactions
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].CreatedAt.After(txs[j].CreatedAt)
	})
	return txs, nil
}

func (s *Service) account(ctx context.Context, userID string) (*domain.Account, error) {
	acc, err := s.repo.Get(ctx, userID)
	if err != nil {
		zap.L().Error("can't get account", zap.String("userID", userID), zap.Error(err))
		return nil, err
	}
	if acc == nil {
		return nil, domain.ErrNotFound
	}
	return acc, nil
}

// Deposit charges the gateway and records the outcome. A successful deposit
// is then offered to the commission attributor; its failure never undoes the
// deposit.
func (s *Service) Deposit(ctx context.Context, userID string, amount decimal.Decimal, method string) (*domain.Transaction, error) {
	if !domain.ValidAmount(amount) {
		return nil, ErrInvalidAmount
	}
	if _, err := s.account(ctx, userID); err != nil {
		return nil, err
	}

	depositID := s.newID()
	res, err := s.gateway.Charge(ctx, payment.Request{
		Reference: depositID,
		AccountID: userID,
		Amount:    amount,
		Method:    method,
	})
	if err != nil {
		zap.L().Error("deposit charge failed", zap.String("userID", userID), zap.String("depositID", depositID), zap.Error(err))
		return nil, fmt.Errorf("charge deposit: %w", err)
	}

	// recorded even if the caller went away
	ctx = context.WithoutCancel(ctx)
	now := s.now()
	tx := domain.Transaction{
		ID:          depositID,
		Type:        domain.TransactionDeposit,
		Amount:      amount,
		Status:      res.Status,
		CreatedAt:   now,
		Description: "Deposit via " + method,
		Payment:     &domain.PaymentInfo{Method: method, Reference: res.Reference},
	}
	depositor, err := s.repo.Update(ctx, userID, func(acc *domain.Account) error {
		if tx.Status == domain.StatusSuccess {
			acc.Credit(tx, now)
			return nil
		}
		acc.Transactions = append(acc.Transactions, tx)
		return nil
	})
	if err != nil {
		zap.L().Error("can't record deposit", zap.String("userID", userID), zap.String("depositID", depositID), zap.Error(err))
		return nil, err
	}

	if tx.Status == domain.StatusSuccess {
		outcome, err := s.attributor.AttributeCommission(ctx, depositID, amount, depositor)
		if err != nil {
			zap.L().Error("commission not attributed", zap.String("depositID", depositID), zap.Error(err))
		} else {
			zap.L().Debug("commission attribution", zap.String("depositID", depositID), zap.String("outcome", string(outcome)))
		}
	}

	zap.L().Info("deposit recorded", zap.String("userID", userID), zap.String("depositID", depositID), zap.String("status", string(tx.Status)))
	return &tx, nil
}

// Withdraw reserves the amount, asks the gateway for a payout and settles the
// reservation. A declined payout is refunded; a payout the gateway did not
// answer stays pending.
func (s *Service) Withdraw(ctx context.Context, userID string, amount decimal.Decimal, card string) (*domain.Transaction, error) {
	if !domain.ValidAmount(amount) {
		return nil, ErrInvalidAmount
	}
	if !validate.IsCard(card) {
		return nil, ErrInvalidCard
	}

	withdrawalID := s.newID()
	now := s.now()
	tx := domain.Transaction{
		ID:          withdrawalID,
		Type:        domain.TransactionWithdrawal,
		Amount:      amount.Neg(),
		Status:      domain.StatusPending,
		CreatedAt:   now,
		Description: "Withdrawal to card",
		Payment:     &domain.PaymentInfo{Method: cardMethod, Card: validate.MaskCard(card)},
	}
	_, err := s.repo.Update(ctx, userID, func(acc *domain.Account) error {
		if err := acc.Debit(amount); err != nil {
			return err
		}
		acc.Transactions = append(acc.Transactions, tx)
		return nil
	})
	if err != nil {
		if !errors.Is(err, domain.ErrInsufficientBalance) {
			zap.L().Error("can't reserve withdrawal", zap.String("userID", userID), zap.Error(err))
		}
		return nil, err
	}

	ctx = context.WithoutCancel(ctx)
	res, err := s.gateway.Payout(ctx, payment.Request{
		Reference:   withdrawalID,
		AccountID:   userID,
		Amount:      amount,
		Method:      cardMethod,
		Destination: validate.NormalizeCard(card),
	})
	if err != nil {
		zap.L().Error("payout outcome unknown, withdrawal left pending", zap.String("withdrawalID", withdrawalID), zap.Error(err))
		return &tx, nil
	}
	if res.Status == domain.StatusPending {
		return &tx, nil
	}

	updated, err := s.repo.Update(ctx, userID, func(acc *domain.Account) error {
		stored := acc.Transaction(withdrawalID)
		if stored == nil || stored.Status != domain.StatusPending {
			return domain.ErrNoChanges
		}
		stored.Status = res.Status
		stored.Payment.Reference = res.Reference
		if res.Status == domain.StatusFailed {
			acc.Balance = acc.Balance.Add(amount)
		}
		return nil
	})
	if errors.Is(err, domain.ErrNoChanges) {
		zap.L().Warn("withdrawal already finalized", zap.String("withdrawalID", withdrawalID))
		return &tx, nil
	}
	if err != nil {
		zap.L().Error("can't finalize withdrawal", zap.String("withdrawalID", withdrawalID), zap.Error(err))
		return nil, err
	}

	zap.L().Info("withdrawal finalized", zap.String("userID", userID), zap.String("withdrawalID", withdrawalID), zap.String("status", string(res.Status)))
	return updated.Transaction(withdrawalID), nil
}

// ClaimDailyTask pays the task reward at most once per settlement-zone date.
func (s *Service) ClaimDailyTask(ctx context.Context, userID string) (*domain.Transaction, error) {
	now := s.now()
	today := domain.DateOf(now.In(s.loc))
	tx := domain.Transaction{
		ID:          s.newID(),
		Type:        domain.TransactionTask,
		Amount:      s.taskReward,
		CreatedAt:   now,
		Description: "Daily task reward",
	}

	_, err := s.repo.Update(ctx, userID, func(acc *domain.Account) error {
		if !acc.LastTaskDate.Before(today) {
			return ErrTaskAlreadyClaimed
		}
		acc.LastTaskDate = today
		acc.Credit(tx, now)
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrTaskAlreadyClaimed) {
			zap.L().Error("can't claim daily task", zap.String("userID", userID), zap.Error(err))
		}
		return nil, err
	}
	tx.Status = domain.StatusSuccess
	return &tx, nil
}
