package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/GlebRadaev/minerledger/internal/config"
	"github.com/GlebRadaev/minerledger/internal/handlers"
	"github.com/GlebRadaev/minerledger/internal/notify"
	"github.com/GlebRadaev/minerledger/internal/payment"
	"github.com/GlebRadaev/minerledger/internal/repo"
	"github.com/GlebRadaev/minerledger/internal/service"
	"github.com/GlebRadaev/minerledger/internal/settlement"
	"github.com/GlebRadaev/minerledger/pkg/clients"
	"github.com/GlebRadaev/minerledger/pkg/logger"
)

const shutdownTimeout = 5 * time.Second

var ErrNoJWTSecret = errors.New("JWT_SECRET is not set")

type ApplicationI interface {
	Start(ctx context.Context) error
	Wait(ctx context.Context, cancel context.CancelFunc) error
}

type Application struct {
	cfg    *config.Config
	api    *handlers.Handlers
	srv    *service.Services
	repo   *repo.Repositories
	engine *settlement.Service

	errCh chan error
	wg    sync.WaitGroup
	ready bool
}

func New() *Application {
	return &Application{
		errCh: make(chan error),
	}
}

func (a *Application) Start(ctx context.Context) error {
	cfg := config.New()

	err := logger.InitLogger(cfg)
	if err != nil {
		return fmt.Errorf("can't init logger: %w", err)
	}

	return a.run(ctx, cfg)
}

func (a *Application) run(ctx context.Context, cfg *config.Config) error {
	if cfg.JWTSecret == "" {
		return ErrNoJWTSecret
	}

	repos, err := repo.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("can't open %s storage: %w", cfg.Storage, err)
	}
	a.cfg = cfg
	a.repo = repos

	notifier, err := newNotifier(cfg)
	if err != nil {
		zap.L().Warn("telegram notifications disabled", zap.Error(err))
	}

	a.srv, err = service.New(cfg, repos, newGateway(cfg))
	if err != nil {
		return fmt.Errorf("can't build services: %w", err)
	}
	a.engine, err = settlement.New(cfg, repos.Accounts, notifier)
	if err != nil {
		return fmt.Errorf("can't build settlement engine: %w", err)
	}
	a.api = handlers.New(a.srv, a.engine, cfg.AdminToken)
	if cfg.AdminToken == "" {
		zap.L().Warn("ADMIN_TOKEN is not set, admin endpoints are disabled")
	}

	if err = a.startHTTPServer(ctx); err != nil {
		return fmt.Errorf("can't start http server: %w", err)
	}
	if err = a.engine.Start(ctx); err != nil {
		return fmt.Errorf("can't start settlement engine: %w", err)
	}

	a.ready = true
	zap.L().Info("all systems started successfully")
	return nil
}

func newGateway(cfg *config.Config) payment.Gateway {
	if cfg.PaymentAddress == "" {
		zap.L().Warn("PAYMENT_GATEWAY_ADDRESS is not set, every payment will be approved")
		return payment.OfflineGateway{}
	}
	return payment.NewHTTPGateway(cfg.PaymentAddress, clients.NewHTTPClient())
}

func newNotifier(cfg *config.Config) (settlement.Notifier, error) {
	if cfg.TelegramToken == "" {
		return nil, nil
	}
	tg, err := notify.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID)
	if err != nil {
		return nil, err
	}
	return tg, nil
}

func (a *Application) startHTTPServer(ctx context.Context) error {
	router := chi.NewRouter()
	a.api.InitRoutes(router)
	server := http.Server{
		Addr:    a.cfg.Address,
		Handler: router,
	}
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		<-ctx.Done()

		sCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(sCtx); err != nil {
			zap.L().Error("http server shutdown failed", zap.Error(err))
		}
	}()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		zap.L().Info("starting http server on port", zap.String("port", a.cfg.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.errCh <- fmt.Errorf("http server exited with error: %w", err)
		}
	}()

	return nil
}

func (a *Application) shutdown() {
	if a.engine != nil {
		a.engine.Stop()
	}
	if a.repo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.repo.Close(ctx); err != nil {
			zap.L().Error("closing storage failed", zap.Error(err))
		}
	}
}

func (a *Application) Wait(ctx context.Context, cancel context.CancelFunc) error {
	var appErr error

	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()

		for err := range a.errCh {
			cancel()
			zap.L().Error(err.Error())
			appErr = err
		}
	}()

	<-ctx.Done()
	a.wg.Wait()
	a.shutdown()
	close(a.errCh)
	wg.Wait()

	return appErr
}
