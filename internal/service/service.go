package service

import (
	"fmt"

	"github.com/GlebRadaev/minerledger/internal/config"
	"github.com/GlebRadaev/minerledger/internal/handlers/affiliate"
	"github.com/GlebRadaev/minerledger/internal/handlers/auth"
	"github.com/GlebRadaev/minerledger/internal/handlers/miners"
	"github.com/GlebRadaev/minerledger/internal/handlers/wallet"
	"github.com/GlebRadaev/minerledger/internal/payment"
	"github.com/GlebRadaev/minerledger/internal/repo"
	affiliateservice "github.com/GlebRadaev/minerledger/internal/service/affiliateservice"
	authservice "github.com/GlebRadaev/minerledger/internal/service/authservice"
	minerservice "github.com/GlebRadaev/minerledger/internal/service/minerservice"
	walletservice "github.com/GlebRadaev/minerledger/internal/service/walletservice"
	pkgauth "github.com/GlebRadaev/minerledger/pkg/auth"
)

type Services struct {
	AuthService      auth.Service
	WalletService    wallet.Service
	MinerService     miners.Service
	AffiliateService affiliate.Service
	Tokens           pkgauth.JWTServiceInterface
}

func New(cfg *config.Config, repos *repo.Repositories, gateway payment.Gateway) (*Services, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("can't resolve settlement zone: %w", err)
	}

	tokens := pkgauth.NewJWTService(cfg.JWTSecret)
	affiliateService := affiliateservice.New(cfg, repos.Accounts)
	walletService := walletservice.New(cfg, repos.Accounts, gateway, affiliateService, loc)
	minerService := minerservice.New(repos.Accounts)
	authService := authservice.New(repos.Accounts, &pkgauth.HashService{}, tokens)

	return &Services{
		AuthService:      authService,
		WalletService:    walletService,
		MinerService:     minerService,
		AffiliateService: affiliateService,
		Tokens:           tokens,
	}, nil
}
