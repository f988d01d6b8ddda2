package settlement

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/GlebRadaev/minerledger/internal/config"
	"github.com/GlebRadaev/minerledger/internal/domain"
	memoryrepo "github.com/GlebRadaev/minerledger/internal/repo/memory-repo"
)

var day0 = time.Date(2024, time.June, 1, 9, 0, 0, 0, time.UTC)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

// at returns the given day after day0 at hh:mm UTC.
func at(day, hh, mm int) time.Time {
	return time.Date(2024, time.June, 1+day, hh, mm, 0, 0, time.UTC)
}

func testConfig() *config.Config {
	return &config.Config{
		SettlementHour:     10,
		SettlementTZ:       "UTC",
		SettlementSchedule: "@every 1h",
		SettlementWorkers:  4,
		SettlementBatch:    2,
	}
}

func newTestService(t *testing.T, repo Repo, notifier Notifier, clk *clock) *Service {
	t.Helper()
	s, err := New(testConfig(), repo, notifier)
	require.NoError(t, err)
	s.now = clk.Now
	return s
}

func miner(id string, daily int64, purchased time.Time) domain.Miner {
	return domain.Miner{
		ID:          id,
		Name:        "Advanced",
		DailyReturn: decimal.NewFromInt(daily),
		PurchasedAt: purchased,
		ExpiresAt:   purchased.AddDate(0, 0, 30),
		Active:      true,
		TotalEarned: decimal.Zero,
	}
}

func seed(t *testing.T, repo *memoryrepo.Repository, id string, miners ...domain.Miner) {
	t.Helper()
	require.NoError(t, repo.Create(context.Background(), &domain.Account{
		ID:            id,
		Login:         "login-" + id,
		AffiliateCode: "CODE-" + id,
		Miners:        miners,
		CreatedAt:     day0,
	}))
}

func load(t *testing.T, repo *memoryrepo.Repository, id string) *domain.Account {
	t.Helper()
	acc, err := repo.Get(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, acc)
	return acc
}

func miningTxs(acc *domain.Account) []domain.Transaction {
	var res []domain.Transaction
	for _, tx := range acc.Transactions {
		if tx.Type == domain.TransactionMining {
			res = append(res, tx)
		}
	}
	return res
}

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(cfg *config.Config)
		expectErr bool
	}{
		{name: "Valid", mutate: func(*config.Config) {}},
		{name: "Hour too large", mutate: func(cfg *config.Config) { cfg.SettlementHour = 24 }, expectErr: true},
		{name: "Negative hour", mutate: func(cfg *config.Config) { cfg.SettlementHour = -1 }, expectErr: true},
		{name: "Unknown zone", mutate: func(cfg *config.Config) { cfg.SettlementTZ = "Nowhere/Land" }, expectErr: true},
		{name: "Broken schedule", mutate: func(cfg *config.Config) { cfg.SettlementSchedule = "every now and then" }, expectErr: true},
		{name: "Defaults fill zero values", mutate: func(cfg *config.Config) {
			cfg.SettlementSchedule = ""
			cfg.SettlementWorkers = 0
			cfg.SettlementBatch = 0
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(cfg)

			s, err := New(cfg, memoryrepo.New(), nil)

			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, s.schedule)
			assert.Positive(t, s.workers)
			assert.Positive(t, s.batch)
		})
	}
}

func TestProcessNow_MinerLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := memoryrepo.New()
	seed(t, repo, "u1", miner("m1", 88, day0))
	clk := &clock{t: at(1, 10, 15)}
	s := newTestService(t, repo, nil, clk)

	report, err := s.ProcessNow(ctx)
	require.NoError(t, err)
	assert.True(t, report.Manual)
	assert.True(t, report.Complete)
	assert.Equal(t, 1, report.Scanned)
	assert.Equal(t, 1, report.Updated)
	assert.Equal(t, 1, report.Credited)
	assert.Equal(t, "88.00", report.Amount.StringFixed(2))

	acc := load(t, repo, "u1")
	assert.Equal(t, "88", acc.Balance.String())
	assert.Equal(t, "88", acc.TotalEarnings.String())
	assert.Equal(t, "88", acc.Miners[0].TotalEarned.String())
	assert.Equal(t, domain.DateOf(at(1, 0, 0)), acc.Miners[0].LastProcessed)
	require.Len(t, miningTxs(acc), 1)
	assert.Equal(t, domain.StatusSuccess, miningTxs(acc)[0].Status)

	// same day again
	report, err = s.ProcessNow(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Scanned)
	assert.Equal(t, 0, report.Updated)
	assert.Equal(t, 0, report.Credited)
	assert.Equal(t, "88", load(t, repo, "u1").Balance.String())

	// expiry day pays nothing and deactivates
	clk.Set(at(30, 10, 15))
	report, err = s.ProcessNow(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Expired)
	assert.Equal(t, 0, report.Credited)
	acc = load(t, repo, "u1")
	assert.False(t, acc.Miners[0].Active)
	assert.Equal(t, "88", acc.Balance.String())
	assert.Len(t, miningTxs(acc), 1)

	clk.Set(at(31, 10, 15))
	report, err = s.ProcessNow(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Updated)
	assert.Equal(t, 0, report.Expired)
}

func TestProcessNow_OneTransactionPerAccount(t *testing.T) {
	repo := memoryrepo.New()
	broken := miner("m3", 0, day0)
	seed(t, repo, "u1", miner("m1", 20, day0), miner("m2", 480, day0), broken)
	s := newTestService(t, repo, nil, &clock{t: at(2, 10, 0)})

	report, err := s.ProcessNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Credited)
	assert.Equal(t, 1, report.Malformed)

	acc := load(t, repo, "u1")
	txs := miningTxs(acc)
	require.Len(t, txs, 1)
	assert.Equal(t, "500", txs[0].Amount.String())
	assert.Equal(t, "500", acc.Balance.String())
	assert.True(t, acc.Miners[2].Active, "malformed miners are left untouched")
	assert.True(t, acc.Miners[2].LastProcessed.IsZero())
}

func TestProcessNow_ConcurrentPassesCreditOnce(t *testing.T) {
	repo := memoryrepo.New()
	for i := 0; i < 5; i++ {
		seed(t, repo, fmt.Sprintf("u%d", i), miner("m", 88, day0))
	}
	s := newTestService(t, repo, nil, &clock{t: at(1, 10, 0)})

	var (
		wg       sync.WaitGroup
		credited atomic.Int64
	)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			report, err := s.ProcessNow(context.Background())
			assert.NoError(t, err)
			credited.Add(int64(report.Credited))
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 5, credited.Load())
	for i := 0; i < 5; i++ {
		acc := load(t, repo, fmt.Sprintf("u%d", i))
		assert.Len(t, miningTxs(acc), 1)
		assert.Equal(t, "88", acc.Balance.String())
	}
}

func TestCheckAndProcess_HourGate(t *testing.T) {
	ctx := context.Background()
	repo := memoryrepo.New()
	seed(t, repo, "u1", miner("m1", 88, day0))
	clk := &clock{}
	s := newTestService(t, repo, nil, clk)

	steps := []struct {
		name    string
		now     time.Time
		runs    bool
		balance string
	}{
		{name: "Before the hour", now: at(1, 9, 59), runs: false, balance: "0"},
		{name: "Inside the hour", now: at(1, 10, 0), runs: true, balance: "88"},
		{name: "Later in the same hour", now: at(1, 10, 30), runs: false, balance: "88"},
		{name: "After the hour", now: at(1, 11, 0), runs: false, balance: "88"},
		{name: "Next day inside the hour", now: at(2, 10, 5), runs: true, balance: "176"},
	}

	for _, step := range steps {
		clk.Set(step.now)

		report, err := s.checkAndProcess(ctx)

		require.NoError(t, err, step.name)
		if step.runs {
			require.NotNil(t, report, step.name)
			assert.False(t, report.Manual, step.name)
			assert.Equal(t, domain.DateOf(step.now), s.Status().LastSuccess, step.name)
		} else {
			assert.Nil(t, report, step.name)
		}
		assert.Equal(t, step.balance, load(t, repo, "u1").Balance.String(), step.name)
	}
}

func TestProcessNow_DoesNotMoveMarker(t *testing.T) {
	repo := memoryrepo.New()
	seed(t, repo, "u1", miner("m1", 88, day0))
	s := newTestService(t, repo, nil, &clock{t: at(1, 10, 0)})

	_, err := s.ProcessNow(context.Background())
	require.NoError(t, err)
	assert.True(t, s.Status().LastSuccess.IsZero())
	require.NotNil(t, s.Status().LastReport)

	// the scheduled pass still runs but finds nothing to pay
	report, err := s.checkAndProcess(context.Background())
	require.NoError(t, err)
	require.NotNil(t, report)
	assert.Equal(t, 0, report.Credited)
	assert.Equal(t, "88", load(t, repo, "u1").Balance.String())
}

type failingRepo struct {
	*memoryrepo.Repository
	mu   sync.Mutex
	fail map[string]bool
}

func (r *failingRepo) setFail(id string, fail bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fail[id] = fail
}

func (r *failingRepo) Update(ctx context.Context, id string, fn domain.UpdateFn) (*domain.Account, error) {
	r.mu.Lock()
	fail := r.fail[id]
	r.mu.Unlock()
	if fail {
		return nil, errors.New("storage unavailable")
	}
	return r.Repository.Update(ctx, id, fn)
}

func TestCheckAndProcess_FailedAccountKeepsGateOpen(t *testing.T) {
	ctx := context.Background()
	mem := memoryrepo.New()
	for _, id := range []string{"u1", "u2", "u3"} {
		seed(t, mem, id, miner("m", 88, day0))
	}
	repo := &failingRepo{Repository: mem, fail: map[string]bool{"u2": true}}
	clk := &clock{t: at(1, 10, 0)}
	s := newTestService(t, repo, nil, clk)

	report, err := s.checkAndProcess(ctx)
	require.NoError(t, err)
	assert.True(t, report.Complete)
	assert.Equal(t, 3, report.Scanned)
	assert.Equal(t, 2, report.Updated)
	assert.Equal(t, 1, report.Failed)
	assert.True(t, s.Status().LastSuccess.IsZero())

	repo.setFail("u2", false)
	clk.Set(at(1, 10, 30))

	report, err = s.checkAndProcess(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Updated)
	assert.Equal(t, 0, report.Failed)
	assert.Equal(t, domain.DateOf(at(1, 0, 0)), s.Status().LastSuccess)

	for _, id := range []string{"u1", "u2", "u3"} {
		assert.Len(t, miningTxs(load(t, mem, id)), 1, id)
	}
}

type cancelAfterRepo struct {
	*memoryrepo.Repository
	after  int32
	calls  atomic.Int32
	cancel context.CancelFunc
}

func (r *cancelAfterRepo) Update(ctx context.Context, id string, fn domain.UpdateFn) (*domain.Account, error) {
	acc, err := r.Repository.Update(ctx, id, fn)
	if err == nil && r.calls.Add(1) == r.after {
		r.cancel()
	}
	return acc, err
}

func TestCheckAndProcess_ResumesAfterInterruption(t *testing.T) {
	mem := memoryrepo.New()
	ids := []string{"u1", "u2", "u3", "u4", "u5"}
	for _, id := range ids {
		seed(t, mem, id, miner("m", 88, day0))
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	repo := &cancelAfterRepo{Repository: mem, after: 2, cancel: cancel}
	s := newTestService(t, repo, nil, &clock{t: at(1, 10, 0)})
	s.workers = 1

	report, err := s.checkAndProcess(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, report.Complete)
	assert.Equal(t, 2, report.Updated)
	assert.True(t, s.Status().LastSuccess.IsZero())

	paid := 0
	for _, id := range ids {
		if len(miningTxs(load(t, mem, id))) == 1 {
			paid++
		}
	}
	assert.Equal(t, 2, paid)

	report, err = s.checkAndProcess(context.Background())
	require.NoError(t, err)
	assert.True(t, report.Complete)
	assert.Equal(t, 3, report.Updated)
	assert.Equal(t, domain.DateOf(at(1, 0, 0)), s.Status().LastSuccess)

	for _, id := range ids {
		acc := load(t, mem, id)
		assert.Len(t, miningTxs(acc), 1, id)
		assert.Equal(t, "88", acc.Balance.String(), id)
	}
}

func TestProcessNow_EarningsMatchLedger(t *testing.T) {
	repo := memoryrepo.New()
	seed(t, repo, "u1", miner("m1", 20, day0), miner("m2", 88, day0.AddDate(0, 0, 3)))
	seed(t, repo, "u2", miner("m1", 1000, day0.AddDate(0, 0, -25)))
	seed(t, repo, "u3")
	clk := &clock{}
	s := newTestService(t, repo, nil, clk)

	for day := 0; day <= 40; day += 3 {
		clk.Set(at(day, 10, 0))
		_, err := s.ProcessNow(context.Background())
		require.NoError(t, err)
	}

	for _, id := range []string{"u1", "u2", "u3"} {
		acc := load(t, repo, id)
		assert.True(t, acc.TotalEarnings.Equal(acc.LoggedEarnings()), id)

		minersTotal := decimal.Zero
		for _, m := range acc.Miners {
			minersTotal = minersTotal.Add(m.TotalEarned)
			assert.False(t, m.Active, "%s/%s should have expired", id, m.ID)
		}
		assert.True(t, minersTotal.Equal(acc.Balance), id)
	}
}

func TestCheckAndProcess_SettlementZone(t *testing.T) {
	repo := memoryrepo.New()
	seed(t, repo, "u1", miner("m1", 88, time.Date(2024, time.May, 31, 0, 0, 0, 0, time.UTC)))
	cfg := testConfig()
	cfg.SettlementTZ = "Asia/Tokyo"
	cfg.SettlementHour = 8
	s, err := New(cfg, repo, nil)
	require.NoError(t, err)
	// 08:30 on June 2nd in Tokyo
	s.now = (&clock{t: time.Date(2024, time.June, 1, 23, 30, 0, 0, time.UTC)}).Now

	report, err := s.checkAndProcess(context.Background())
	require.NoError(t, err)
	require.NotNil(t, report)
	assert.Equal(t, domain.Date{Year: 2024, Month: time.June, Day: 2}, report.Date)
	assert.Equal(t, domain.Date{Year: 2024, Month: time.June, Day: 2}, load(t, repo, "u1").Miners[0].LastProcessed)
}

func TestCheckAndProcess_Pagination(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockRepo(ctrl)
	s := newTestService(t, repo, nil, &clock{t: at(1, 10, 0)})

	accounts := map[string]*domain.Account{
		"a": {ID: "a", Miners: []domain.Miner{miner("m", 20, day0)}},
		"b": {ID: "b"},
		"c": {ID: "c", Miners: []domain.Miner{miner("m", 88, day0)}},
	}

	gomock.InOrder(
		repo.EXPECT().ListIDs(gomock.Any(), "", 2).Return([]string{"a", "b"}, nil),
		repo.EXPECT().ListIDs(gomock.Any(), "b", 2).Return([]string{"c"}, nil),
	)
	repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Times(3).DoAndReturn(
		func(_ context.Context, id string, fn domain.UpdateFn) (*domain.Account, error) {
			acc := accounts[id].Clone()
			if err := fn(acc); err != nil {
				return nil, err
			}
			return acc, nil
		})

	report, err := s.checkAndProcess(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, report.Scanned)
	assert.Equal(t, 2, report.Updated)
	assert.Equal(t, "108", report.Amount.String())
}

func TestCheckAndProcess_ListError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockRepo(ctrl)
	notifier := NewMockNotifier(ctrl)
	s := newTestService(t, repo, notifier, &clock{t: at(1, 10, 0)})

	repo.EXPECT().ListIDs(gomock.Any(), "", 2).Return(nil, errors.New("connection refused"))
	notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, text string) error {
		assert.Contains(t, text, "pass did not complete")
		assert.Contains(t, text, "connection refused")
		return nil
	})

	report, err := s.checkAndProcess(context.Background())
	require.Error(t, err)
	assert.False(t, report.Complete)
	assert.True(t, s.Status().LastSuccess.IsZero())
}

func TestCheckAndProcess_Notifies(t *testing.T) {
	tests := []struct {
		name      string
		notifyErr error
	}{
		{name: "Delivered"},
		{name: "Delivery failure is not a pass failure", notifyErr: errors.New("telegram down")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			notifier := NewMockNotifier(ctrl)
			repo := memoryrepo.New()
			seed(t, repo, "u1", miner("m1", 88, day0))
			s := newTestService(t, repo, notifier, &clock{t: at(1, 10, 0)})

			notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, text string) error {
				assert.Contains(t, text, "Scheduled settlement for 2024-06-02")
				assert.Contains(t, text, "credited: 88.00")
				return tt.notifyErr
			})

			_, err := s.checkAndProcess(context.Background())
			require.NoError(t, err)

			// manual passes stay quiet
			_, err = s.ProcessNow(context.Background())
			require.NoError(t, err)
		})
	}
}

func TestStartStop(t *testing.T) {
	repo := memoryrepo.New()
	seed(t, repo, "u1", miner("m1", 88, day0))
	s := newTestService(t, repo, nil, &clock{t: at(1, 10, 15)})
	today := domain.DateOf(at(1, 0, 0))

	require.NoError(t, s.Start(context.Background()))
	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.Status().Running)

	require.Eventually(t, func() bool {
		return s.Status().LastSuccess == today
	}, time.Second, 10*time.Millisecond)

	s.Stop()
	status := s.Status()
	assert.False(t, status.Running)
	assert.True(t, status.LastSuccess.IsZero())
	assert.Equal(t, 10, status.TargetHour)
	assert.Equal(t, "UTC", status.Location)
	assert.Equal(t, "88", load(t, repo, "u1").Balance.String())

	s.Stop()

	// restarting runs the gate again without paying twice
	require.NoError(t, s.Start(context.Background()))
	require.Eventually(t, func() bool {
		return s.Status().LastSuccess == today
	}, time.Second, 10*time.Millisecond)
	s.Stop()

	acc := load(t, repo, "u1")
	assert.Equal(t, "88", acc.Balance.String())
	assert.Len(t, miningTxs(acc), 1)
}
