package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/GlebRadaev/minerledger/internal/config"
	"github.com/GlebRadaev/minerledger/internal/domain"
	"github.com/GlebRadaev/minerledger/internal/pg"
	accountrepo "github.com/GlebRadaev/minerledger/internal/repo/account-repo"
	memoryrepo "github.com/GlebRadaev/minerledger/internal/repo/memory-repo"
	mongorepo "github.com/GlebRadaev/minerledger/internal/repo/mongo-repo"
)

const (
	StoragePostgres = "postgres"
	StorageMongo    = "mongo"
	StorageMemory   = "memory"
)

var ErrUnknownStorage = errors.New("unknown storage backend")

// AccountRepo is the document store every service works against.
type AccountRepo interface {
	Create(ctx context.Context, acc *domain.Account) error
	Get(ctx context.Context, id string) (*domain.Account, error)
	FindByLogin(ctx context.Context, login string) (*domain.Account, error)
	FindByAffiliateCode(ctx context.Context, code string) (*domain.Account, error)
	ListIDs(ctx context.Context, after string, limit int) ([]string, error)
	Update(ctx context.Context, id string, fn domain.UpdateFn) (*domain.Account, error)
}

type Repositories struct {
	Accounts AccountRepo

	closers []func(ctx context.Context) error
}

func NewPostgres(conn pg.Database, txManager pg.TXManager) *Repositories {
	return &Repositories{Accounts: accountrepo.New(conn, txManager)}
}

func NewMemory() *Repositories {
	return &Repositories{Accounts: memoryrepo.New()}
}

func NewMongo(accounts *mongorepo.Repository) *Repositories {
	return &Repositories{Accounts: accounts}
}

// Open builds the repositories for the backend selected by cfg.Storage.
func Open(ctx context.Context, cfg *config.Config) (*Repositories, error) {
	switch cfg.Storage {
	case StoragePostgres:
		pool, err := getPgxpool(ctx, cfg)
		if err != nil {
			zap.L().Error("build pgx pool failed: ", zap.Error(err))
			return nil, fmt.Errorf("can't build pgx pool: %w", err)
		}
		if err := pg.RunMigrations(pool); err != nil {
			zap.L().Error("migrations failed: ", zap.Error(err))
			pool.Close()
			return nil, fmt.Errorf("can't run migrations: %w", err)
		}
		r := NewPostgres(pg.New(pool), pg.NewTXManager(pool))
		r.closers = append(r.closers, func(context.Context) error {
			pool.Close()
			return nil
		})
		return r, nil

	case StorageMongo:
		client, coll, err := mongorepo.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		accounts := mongorepo.New(coll)
		if err := accounts.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		r := NewMongo(accounts)
		r.closers = append(r.closers, client.Disconnect)
		return r, nil

	case StorageMemory:
		zap.L().Warn("using in-memory storage, accounts will not survive a restart")
		return NewMemory(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownStorage, cfg.Storage)
}

func getPgxpool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	cfgpool, err := pgxpool.ParseConfig(cfg.Database)
	if err != nil {
		return nil, err
	}
	dbpool, err := pgxpool.NewWithConfig(ctx, cfgpool)
	if err != nil {
		return nil, err
	}
	if err = dbpool.Ping(ctx); err != nil {
		dbpool.Close()
		return nil, err
	}
	return dbpool, nil
}

func (r *Repositories) Close(ctx context.Context) error {
	var errs []error
	for _, closeFn := range r.closers {
		errs = append(errs, closeFn(ctx))
	}
	r.closers = nil
	return errors.Join(errs...)
}
