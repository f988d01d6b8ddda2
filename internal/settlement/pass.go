package settlement

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/GlebRadaev/minerledger/internal/domain"
	"github.com/GlebRadaev/minerledger/internal/metrics"
)

// Report summarizes one settlement pass.
type Report struct {
	Manual     bool            `json:"manual"`
	Date       domain.Date     `json:"date"`
	StartedAt  time.Time       `json:"startedAt"`
	FinishedAt time.Time       `json:"finishedAt"`
	Complete   bool            `json:"complete"`
	Scanned    int             `json:"scanned"`
	Updated    int             `json:"updated"`
	Failed     int             `json:"failed"`
	Credited   int             `json:"credited"`
	Expired    int             `json:"expired"`
	Malformed  int             `json:"malformed"`
	Amount     decimal.Decimal `json:"amount"`
}

func (r *Report) Summary() string {
	var b strings.Builder
	trigger := "Scheduled"
	if r.Manual {
		trigger = "Manual"
	}
	fmt.Fprintf(&b, "%s settlement for %s\n", trigger, r.Date)
	fmt.Fprintf(&b, "accounts: %d scanned, %d updated, %d failed\n", r.Scanned, r.Updated, r.Failed)
	fmt.Fprintf(&b, "miners: %d credited, %d expired, %d malformed\n", r.Credited, r.Expired, r.Malformed)
	fmt.Fprintf(&b, "credited: %s", r.Amount.StringFixed(2))
	if !r.Complete {
		b.WriteString("\npass did not complete")
	}
	return b.String()
}

type accountResult struct {
	credited  int
	expired   int
	malformed int
	amount    decimal.Decimal
	changed   bool
}

func (r *Report) add(res accountResult) {
	r.Scanned++
	if res.changed {
		r.Updated++
	}
	r.Credited += res.credited
	r.Expired += res.expired
	r.Malformed += res.malformed
	r.Amount = r.Amount.Add(res.amount)
}

// runPass walks every account in id order, a page at a time, settling up to
// s.workers accounts concurrently. An account that fails is counted and
// skipped. Cancellation stops the walk.
func (s *Service) runPass(ctx context.Context, today domain.Date, manual bool) (*Report, error) {
	report := &Report{Manual: manual, Date: today, StartedAt: s.now(), Amount: decimal.Zero}
	trigger := "scheduled"
	if manual {
		trigger = "manual"
	}
	zap.L().Info("settlement pass started", zap.String("trigger", trigger), zap.Stringer("date", today))

	err := s.walk(ctx, today, report)

	report.FinishedAt = s.now()
	report.Complete = err == nil
	metrics.SettlementDuration.Observe(report.FinishedAt.Sub(report.StartedAt).Seconds())

	result := "ok"
	switch {
	case err != nil:
		result = "aborted"
	case report.Failed > 0:
		result = "partial"
	}
	metrics.SettlementPasses.WithLabelValues(trigger, result).Inc()

	zap.L().Info("settlement pass finished",
		zap.String("trigger", trigger),
		zap.String("result", result),
		zap.Int("scanned", report.Scanned),
		zap.Int("updated", report.Updated),
		zap.Int("failed", report.Failed),
		zap.Int("credited", report.Credited),
		zap.Int("expired", report.Expired),
		zap.String("amount", report.Amount.StringFixed(2)),
	)
	return report, err
}

func (s *Service) walk(ctx context.Context, today domain.Date, report *Report) error {
	var mu sync.Mutex
	after := ""
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		ids, err := s.repo.ListIDs(ctx, after, s.batch)
		if err != nil {
			return fmt.Errorf("list accounts after %q: %w", after, err)
		}
		if len(ids) == 0 {
			return nil
		}

		var g errgroup.Group
		g.SetLimit(s.workers)
		for _, id := range ids {
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				res, err := s.settleAccount(ctx, id, today)
				if err != nil {
					if ctx.Err() != nil {
						return ctx.Err()
					}
					zap.L().Error("failed to settle account", zap.String("user_id", id), zap.Error(err))
					metrics.SettlementAccounts.WithLabelValues("failed").Inc()
					mu.Lock()
					report.Scanned++
					report.Failed++
					mu.Unlock()
					return nil
				}

				outcome := "unchanged"
				if res.changed {
					outcome = "updated"
				}
				metrics.SettlementAccounts.WithLabelValues(outcome).Inc()
				mu.Lock()
				report.add(res)
				mu.Unlock()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		if len(ids) < s.batch {
			return nil
		}
		after = ids[len(ids)-1]
	}
}

// settleAccount settles every position of one account in a single atomic
// update. All rewards of the day go into one mining transaction.
func (s *Service) settleAccount(ctx context.Context, id string, today domain.Date) (accountResult, error) {
	var res accountResult
	_, err := s.repo.Update(ctx, id, func(acc *domain.Account) error {
		// stores may call fn again after a conflict
		res = accountResult{amount: decimal.Zero}
		for i := range acc.Miners {
			m := &acc.Miners[i]
			switch m.Settle(today, s.loc) {
			case domain.SettleCredited:
				res.credited++
				res.amount = res.amount.Add(m.DailyReturn)
			case domain.SettleExpired:
				res.expired++
			case domain.SettleMalformed:
				res.malformed++
				zap.L().Warn("skipping malformed miner", zap.String("user_id", id), zap.String("miner_id", m.ID))
			}
		}
		if res.credited == 0 && res.expired == 0 {
			return domain.ErrNoChanges
		}
		if res.credited > 0 {
			now := s.now()
			acc.Credit(domain.Transaction{
				ID:          s.newID(),
				Type:        domain.TransactionMining,
				Amount:      res.amount,
				CreatedAt:   now,
				Description: fmt.Sprintf("Daily mining reward, %d miner(s)", res.credited),
			}, now)
		}
		return nil
	})
	if err != nil && !errors.Is(err, domain.ErrNoChanges) {
		return accountResult{}, err
	}
	res.changed = err == nil

	metrics.SettlementPositions.WithLabelValues("credited").Add(float64(res.credited))
	metrics.SettlementPositions.WithLabelValues("expired").Add(float64(res.expired))
	metrics.SettlementPositions.WithLabelValues("malformed").Add(float64(res.malformed))
	metrics.SettlementCredited.Add(res.amount.InexactFloat64())
	return res, nil
}
