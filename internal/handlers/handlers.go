package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/GlebRadaev/minerledger/docs"
	adminhandlers "github.com/GlebRadaev/minerledger/internal/handlers/admin"
	affiliatehandlers "github.com/GlebRadaev/minerledger/internal/handlers/affiliate"
	authhandlers "github.com/GlebRadaev/minerledger/internal/handlers/auth"
	minershandlers "github.com/GlebRadaev/minerledger/internal/handlers/miners"
	wallethandlers "github.com/GlebRadaev/minerledger/internal/handlers/wallet"
	"github.com/GlebRadaev/minerledger/internal/metrics"
	"github.com/GlebRadaev/minerledger/internal/service"
	"github.com/GlebRadaev/minerledger/pkg/auth"
)

//go:generate mockgen -source=handlers.go -destination=mock_handlers.go -package=handlers AuthHandler,WalletHandler,MinersHandler,AffiliateHandler,AdminHandler
type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
}

type WalletHandler interface {
	GetBalance(w http.ResponseWriter, r *http.Request)
	GetTransactions(w http.ResponseWriter, r *http.Request)
	Deposit(w http.ResponseWriter, r *http.Request)
	Withdraw(w http.ResponseWriter, r *http.Request)
	ClaimDailyTask(w http.ResponseWriter, r *http.Request)
}

type MinersHandler interface {
	GetTiers(w http.ResponseWriter, r *http.Request)
	GetMiners(w http.ResponseWriter, r *http.Request)
	PurchaseMiner(w http.ResponseWriter, r *http.Request)
}

type AffiliateHandler interface {
	GetStats(w http.ResponseWriter, r *http.Request)
	Withdraw(w http.ResponseWriter, r *http.Request)
}

type AdminHandler interface {
	GetSettlementStatus(w http.ResponseWriter, r *http.Request)
	RunSettlement(w http.ResponseWriter, r *http.Request)
}

type Handlers struct {
	AuthHandler      AuthHandler
	WalletHandler    WalletHandler
	MinersHandler    MinersHandler
	AffiliateHandler AffiliateHandler
	AdminHandler     AdminHandler

	tokens     auth.JWTServiceInterface
	adminToken string
}

func New(s *service.Services, engine adminhandlers.Service, adminToken string) *Handlers {
	return &Handlers{
		AuthHandler:      authhandlers.New(s.AuthService),
		WalletHandler:    wallethandlers.New(s.WalletService),
		MinersHandler:    minershandlers.New(s.MinerService),
		AffiliateHandler: affiliatehandlers.New(s.AffiliateService),
		AdminHandler:     adminhandlers.New(engine),
		tokens:           s.Tokens,
		adminToken:       adminToken,
	}
}

func (h *Handlers) InitRoutes(r chi.Router) chi.Router {
	r.Use(
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		metricsMiddleware,
	)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("doc.json"),
	))
	r.Get("/api/miners/tiers", h.MinersHandler.GetTiers)

	r.Route("/api/user", func(r chi.Router) {
		r.Post("/register", h.AuthHandler.Register)
		r.Post("/login", h.AuthHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(auth.AuthMiddleware(h.tokens))
			r.Get("/balance", h.WalletHandler.GetBalance)
			r.Get("/transactions", h.WalletHandler.GetTransactions)
			r.Post("/deposit", h.WalletHandler.Deposit)
			r.Post("/withdraw", h.WalletHandler.Withdraw)
			r.Post("/tasks/daily", h.WalletHandler.ClaimDailyTask)

			r.Route("/miners", func(r chi.Router) {
				r.Get("/", h.MinersHandler.GetMiners)
				r.Post("/", h.MinersHandler.PurchaseMiner)
			})
			r.Route("/affiliate", func(r chi.Router) {
				r.Get("/", h.AffiliateHandler.GetStats)
				r.Post("/withdraw", h.AffiliateHandler.Withdraw)
			})
		})
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(auth.AdminMiddleware(h.adminToken))
		r.Get("/settlement", h.AdminHandler.GetSettlementStatus)
		r.Post("/settlement/run", h.AdminHandler.RunSettlement)
	})

	return r
}

const unmatchedRoute = "unmatched"

func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		// label by route pattern, never by raw path
		path := unmatchedRoute
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			path = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		metrics.HttpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(status)).Inc()
		metrics.ResponseTimeHistogram.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}
