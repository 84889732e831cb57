// Package memory holds the in-process repositories. Accounts and
// matches are memory-only by design: they live for the life of the
// process and reset on restart, with the community fixtures seeded at
// startup.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/msomdec/skillbarter/internal/domain"
)

// AccountRepository implements domain.AccountRepository with a
// mutex-guarded map plus an insertion-order index.
type AccountRepository struct {
	mu    sync.RWMutex
	byID  map[string]*domain.Account
	order []string
}

// NewAccountRepository creates an empty in-memory account store.
func NewAccountRepository() *AccountRepository {
	return &AccountRepository{byID: make(map[string]*domain.Account)}
}

func (r *AccountRepository) Create(_ context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.byID {
		if strings.EqualFold(a.Email, account.Email) {
			return domain.ErrDuplicateEmail
		}
	}

	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	account.CreatedAt = now
	account.UpdatedAt = now

	r.byID[account.ID] = clone(account)
	r.order = append(r.order, account.ID)
	return nil
}

func (r *AccountRepository) GetByID(_ context.Context, id string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return clone(a), nil
}

func (r *AccountRepository) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		if strings.EqualFold(r.byID[id].Email, email) {
			return clone(r.byID[id]), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *AccountRepository) Update(_ context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[account.ID]; !ok {
		return domain.ErrNotFound
	}
	account.UpdatedAt = time.Now().UTC()
	r.byID[account.ID] = clone(account)
	return nil
}

func (r *AccountRepository) List(_ context.Context, excludeID string) ([]*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	accounts := make([]*domain.Account, 0, len(r.order))
	for _, id := range r.order {
		if id == excludeID {
			continue
		}
		accounts = append(accounts, clone(r.byID[id]))
	}
	return accounts, nil
}

// clone copies an account so callers never share slice backing arrays
// with the store.
func clone(a *domain.Account) *domain.Account {
	c := *a
	c.SkillsToTeach = append([]string(nil), a.SkillsToTeach...)
	c.SkillsToLearn = append([]string(nil), a.SkillsToLearn...)
	c.BlockedUserIDs = append([]string(nil), a.BlockedUserIDs...)
	return &c
}
