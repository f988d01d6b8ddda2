package authservice

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/GlebRadaev/minerledger/internal/domain"
	"github.com/GlebRadaev/minerledger/pkg/auth"
)

const (
	tokenTTL          = 24 * time.Hour
	codeLength        = 8
	maxCodeCollisions = 5
)

var (
	ErrLoginTaken         = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrCodeExhausted      = errors.New("could not allocate a unique affiliate code")
)

//go:generate mockgen -source=authservice.go -destination=mock_repo.go -package=authservice Repo
type Repo interface {
	FindByLogin(ctx context.Context, login string) (*domain.Account, error)
	FindByAffiliateCode(ctx context.Context, code string) (*domain.Account, error)
	Create(ctx context.Context, acc *domain.Account) error
}

type Service struct {
	repo        Repo
	hashService auth.HashServiceInterface
	jwtService  auth.JWTServiceInterface

	newID   func() string
	newCode func() string
	now     func() time.Time
}

func New(repo Repo, hashService auth.HashServiceInterface, jwtService auth.JWTServiceInterface) *Service {
	return &Service{
		repo:        repo,
		hashService: hashService,
		jwtService:  jwtService,
		newID:       uuid.NewString,
		newCode:     randomCode,
		now:         time.Now,
	}
}

func randomCode() string {
	return strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:codeLength])
}

// Register creates an account. An unknown referral code is ignored.
func (s *Service) Register(ctx context.Context, login, password, referralCode string) (*domain.Account, error) {
	existing, err := s.repo.FindByLogin(ctx, login)
	if err != nil {
		zap.L().Error("can't find user: ", zap.Error(err))
		return nil, err
	}
	if existing != nil {
		zap.L().Info("user already exists, login: ", zap.String("login", login))
		return nil, ErrLoginTaken
	}

	hashedPassword, err := s.hashService.HashPassword(password)
	if err != nil {
		zap.L().Error("can't hash password: ", zap.Error(err))
		return nil, err
	}

	var referredBy string
	if referralCode != "" {
		referrer, err := s.repo.FindByAffiliateCode(ctx, referralCode)
		if err != nil {
			zap.L().Error("can't resolve referral code: ", zap.Error(err))
			return nil, err
		}
		if referrer != nil {
			referredBy = referralCode
		} else {
			zap.L().Info("unknown referral code ignored", zap.String("code", referralCode))
		}
	}

	code, err := s.allocateCode(ctx)
	if err != nil {
		return nil, err
	}

	acc := &domain.Account{
		ID:               s.newID(),
		Login:            login,
		PasswordHash:     hashedPassword,
		Balance:          decimal.Zero,
		TotalEarnings:    decimal.Zero,
		MonthlyEarnings:  decimal.Zero,
		AffiliateBalance: decimal.Zero,
		AffiliateCode:    code,
		ReferredBy:       referredBy,
		Miners:           []domain.Miner{},
		Transactions:     []domain.Transaction{},
		AffiliateStats: domain.AffiliateStats{
			TotalCommissions:    decimal.Zero,
			MonthlyCommissions:  decimal.Zero,
			ActiveReferralsList: []domain.CommissionEvent{},
		},
		CreatedAt: s.now(),
	}
	if err := s.repo.Create(ctx, acc); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, ErrLoginTaken
		}
		zap.L().Error("can't create user: ", zap.Error(err))
		return nil, err
	}

	zap.L().Info("user successfully registered", zap.String("login", login), zap.Bool("referred", referredBy != ""))
	return acc, nil
}

func (s *Service) allocateCode(ctx context.Context) (string, error) {
	for i := 0; i < maxCodeCollisions; i++ {
		code := s.newCode()
		owner, err := s.repo.FindByAffiliateCode(ctx, code)
		if err != nil {
			return "", err
		}
		if owner == nil {
			return code, nil
		}
	}
	return "", ErrCodeExhausted
}

func (s *Service) Authenticate(ctx context.Context, login, password string) (*domain.Account, error) {
	acc, err := s.repo.FindByLogin(ctx, login)
	if err != nil || acc == nil {
		zap.L().Info("invalid credentials", zap.String("login", login), zap.Error(err))
		return nil, ErrInvalidCredentials
	}
	if ok := s.hashService.ComparePassword(acc.PasswordHash, password); !ok {
		zap.L().Info("invalid credentials", zap.String("login", login))
		return nil, ErrInvalidCredentials
	}
	zap.L().Info("user successfully authenticated", zap.String("login", login))
	return acc, nil
}

func (s *Service) GenerateToken(userID string) (string, error) {
	token, err := s.jwtService.GenerateJWT(userID, s.now().Add(tokenTTL))
	if err != nil {
		zap.L().Error("can't generate token: ", zap.Error(err))
		return "", err
	}
	return token, nil
}
