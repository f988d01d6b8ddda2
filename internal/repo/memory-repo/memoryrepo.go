package memoryrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/GlebRadaev/minerledger/internal/domain"
)

// Repository is an in-process account store. Update holds the lock for the
// whole read-modify-write, so it serializes all writers.
type Repository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account
}

func New() *Repository {
	return &Repository{accounts: make(map[string]*domain.Account)}
}

func (r *Repository) Create(_ context.Context, acc *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.accounts {
		if existing.ID == acc.ID || existing.Login == acc.Login || existing.AffiliateCode == acc.AffiliateCode {
			return domain.ErrAlreadyExists
		}
	}
	acc.Version = 1
	r.accounts[acc.ID] = acc.Clone()
	return nil
}

func (r *Repository) Get(_ context.Context, id string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	acc, ok := r.accounts[id]
	if !ok {
		return nil, nil
	}
	return acc.Clone(), nil
}

func (r *Repository) FindByLogin(_ context.Context, login string) (*domain.Account, error) {
	return r.find(func(acc *domain.Account) bool { return acc.Login == login }), nil
}

func (r *Repository) FindByAffiliateCode(_ context.Context, code string) (*domain.Account, error) {
	return r.find(func(acc *domain.Account) bool { return acc.AffiliateCode == code }), nil
}

func (r *Repository) find(match func(*domain.Account) bool) *domain.Account {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, acc := range r.accounts {
		if match(acc) {
			return acc.Clone()
		}
	}
	return nil
}

func (r *Repository) ListIDs(ctx context.Context, after string, limit int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	ids := make([]string, 0, len(r.accounts))
	for id := range r.accounts {
		if id > after {
			ids = append(ids, id)
		}
	}
	r.mu.RUnlock()

	sort.Strings(ids)
	if len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

func (r *Repository) Update(ctx context.Context, id string, fn domain.UpdateFn) (*domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.accounts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	acc := stored.Clone()
	if err := fn(acc); err != nil {
		return nil, err
	}
	acc.Version = stored.Version + 1
	r.accounts[id] = acc.Clone()
	return acc, nil
}
