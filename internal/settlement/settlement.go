package settlement

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/GlebRadaev/minerledger/internal/config"
	"github.com/GlebRadaev/minerledger/internal/domain"
)

const (
	defaultSchedule = "@every 30m"
	defaultWorkers  = 4
	defaultBatch    = 500
)

var ErrInvalidHour = errors.New("settlement hour must be within 0..23")

//go:generate mockgen -source=settlement.go -destination=mock_settlement.go -package=settlement Repo,Notifier
type Repo interface {
	ListIDs(ctx context.Context, after string, limit int) ([]string, error)
	Update(ctx context.Context, id string, fn domain.UpdateFn) (*domain.Account, error)
}

type Notifier interface {
	Notify(ctx context.Context, text string) error
}

type Status struct {
	Running     bool        `json:"running"`
	LastSuccess domain.Date `json:"lastSuccessfulDate"`
	TargetHour  int         `json:"targetHour"`
	Location    string      `json:"location"`
	LastReport  *Report     `json:"lastReport,omitempty"`
}

// Service is the daily settlement engine. A cron schedule wakes it up
// periodically; it settles at most once per date, during the target hour.
type Service struct {
	repo     Repo
	notifier Notifier
	loc      *time.Location
	hour     int
	schedule string
	workers  int
	batch    int

	now   func() time.Time
	newID func() string

	mu          sync.Mutex
	cron        *cron.Cron
	cancel      context.CancelFunc
	lastSuccess domain.Date
	lastReport  *Report
	generation  uint64

	wg       sync.WaitGroup
	checking atomic.Bool
}

// New builds an idle engine. notifier may be nil.
func New(cfg *config.Config, repo Repo, notifier Notifier) (*Service, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	if cfg.SettlementHour < 0 || cfg.SettlementHour > 23 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidHour, cfg.SettlementHour)
	}
	schedule := cfg.SettlementSchedule
	if schedule == "" {
		schedule = defaultSchedule
	}
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("invalid settlement schedule %q: %w", schedule, err)
	}

	s := &Service{
		repo:     repo,
		notifier: notifier,
		loc:      loc,
		hour:     cfg.SettlementHour,
		schedule: schedule,
		workers:  cfg.SettlementWorkers,
		batch:    cfg.SettlementBatch,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	if s.workers < 1 {
		s.workers = defaultWorkers
	}
	if s.batch < 1 {
		s.batch = defaultBatch
	}
	return s, nil
}

// Start arms the schedule and runs one gate check right away. Calling Start on
// a running engine is a no-op.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil {
		zap.L().Warn("settlement engine already running")
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	c := cron.New(cron.WithLocation(s.loc))
	if _, err := c.AddFunc(s.schedule, func() { s.tick(runCtx) }); err != nil {
		cancel()
		return fmt.Errorf("schedule settlement: %w", err)
	}
	s.cron, s.cancel = c, cancel
	c.Start()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.tick(runCtx)
	}()

	zap.L().Info("settlement engine started",
		zap.String("schedule", s.schedule),
		zap.Int("hour", s.hour),
		zap.String("location", s.loc.String()),
	)
	return nil
}

// Stop cancels the schedule and any pass in flight, waits for them and forgets
// the last successful date.
func (s *Service) Stop() {
	s.mu.Lock()
	c, cancel := s.cron, s.cancel
	if c == nil {
		s.mu.Unlock()
		return
	}
	s.cron, s.cancel = nil, nil
	s.lastSuccess = domain.Date{}
	s.generation++
	s.mu.Unlock()

	cancel()
	<-c.Stop().Done()
	s.wg.Wait()
	zap.L().Info("settlement engine stopped")
}

func (s *Service) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Status{
		Running:     s.cron != nil,
		LastSuccess: s.lastSuccess,
		TargetHour:  s.hour,
		Location:    s.loc.String(),
		LastReport:  s.lastReport,
	}
}

// ProcessNow runs a pass regardless of the hour gate. Positions already paid
// today are still skipped. The last successful date is left alone.
func (s *Service) ProcessNow(ctx context.Context) (*Report, error) {
	today := domain.DateOf(s.now().In(s.loc))
	report, err := s.runPass(ctx, today, true)

	s.mu.Lock()
	s.lastReport = report
	s.mu.Unlock()
	return report, err
}

func (s *Service) tick(ctx context.Context) {
	if _, err := s.checkAndProcess(ctx); err != nil {
		zap.L().Error("settlement pass failed", zap.Error(err))
	}
}

// checkAndProcess runs a pass when the gate is open. It returns a nil report
// when nothing was due.
//
// The day is marked settled only when the pass reached every account with no
// per-account failure. A pass that skipped a failing account leaves the gate
// open, so later ticks within the settlement hour retry it; accounts already
// credited today are left untouched by the retry.
func (s *Service) checkAndProcess(ctx context.Context) (*Report, error) {
	now := s.now().In(s.loc)
	today := domain.DateOf(now)

	s.mu.Lock()
	gen := s.generation
	due := now.Hour() == s.hour && s.lastSuccess.Before(today)
	s.mu.Unlock()
	if !due {
		return nil, nil
	}

	if !s.checking.CompareAndSwap(false, true) {
		zap.L().Debug("settlement pass already in progress")
		return nil, nil
	}
	defer s.checking.Store(false)

	report, err := s.runPass(ctx, today, false)

	s.mu.Lock()
	s.lastReport = report
	if err == nil && report.Failed == 0 && ctx.Err() == nil && gen == s.generation {
		s.lastSuccess = today
	}
	s.mu.Unlock()

	s.notify(ctx, report, err)
	return report, err
}

func (s *Service) notify(ctx context.Context, report *Report, passErr error) {
	if s.notifier == nil {
		return
	}
	text := report.Summary()
	if passErr != nil {
		text += "\nerror: " + passErr.Error()
	}
	if err := s.notifier.Notify(context.WithoutCancel(ctx), text); err != nil {
		zap.L().Warn("settlement notification failed", zap.Error(err))
	}
}
