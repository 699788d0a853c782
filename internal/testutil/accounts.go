// Package testutil holds in-memory fakes of the repository and service interfaces for tests.
package testutil

import (
	"context"
	"slices"
	"sync"
	"time"

	"estate/internal/domain/entity"
	"estate/internal/domain/repository"

	"github.com/google/uuid"
)

// AccountRepository is an in-memory repository.AccountRepository.
type AccountRepository struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]*entity.Account

	// BeforeUpdateModeration runs inside UpdateModeration before the compare-and-set.
	// Tests use it to simulate a concurrent transition.
	BeforeUpdateModeration func(stored *entity.Account)
}

var _ repository.AccountRepository = (*AccountRepository)(nil)

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{accounts: make(map[uuid.UUID]*entity.Account)}
}

func (r *AccountRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	account, ok := r.accounts[id]
	if !ok {
		return nil, repository.ErrAccountNotFound
	}

	return cloneAccount(account), nil
}

func (r *AccountRepository) FindByEmail(_ context.Context, email string) (*entity.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, account := range r.accounts {
		if account.Email == email {
			return cloneAccount(account), nil
		}
	}

	return nil, repository.ErrAccountNotFound
}

func (r *AccountRepository) Create(_ context.Context, account *entity.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.accounts {
		if existing.Email == account.Email {
			return repository.ErrAccountAlreadyExists
		}
	}

	if account.ID == uuid.Nil {
		account.ID = uuid.Must(uuid.NewV7())
	}
	now := time.Now().UTC()
	account.CreatedAt = now
	account.UpdatedAt = now
	r.accounts[account.ID] = cloneAccount(account)

	return nil
}

func (r *AccountRepository) ListByRole(_ context.Context, role entity.Role, state *entity.ModerationState) ([]*entity.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*entity.Account
	for _, account := range r.accounts {
		if account.Role != role {
			continue
		}
		if state != nil && account.Moderation.State() != *state {
			continue
		}
		out = append(out, cloneAccount(account))
	}
	slices.SortFunc(out, func(a, b *entity.Account) int { return b.CreatedAt.Compare(a.CreatedAt) })

	return out, nil
}

func (r *AccountRepository) UpdateModeration(_ context.Context, id uuid.UUID, prev, next entity.Moderation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.accounts[id]
	if !ok {
		return repository.ErrAccountNotFound
	}
	if r.BeforeUpdateModeration != nil {
		r.BeforeUpdateModeration(stored)
	}
	if stored.Moderation.IsApproved != prev.IsApproved {
		return repository.ErrModerationConflict
	}

	stored.Moderation = cloneModeration(next)
	stored.UpdatedAt = time.Now().UTC()

	return nil
}

// Put stores an account as-is, assigning an id when missing. It returns the stored id.
func (r *AccountRepository) Put(account *entity.Account) uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()

	if account.ID == uuid.Nil {
		account.ID = uuid.Must(uuid.NewV7())
	}
	r.accounts[account.ID] = cloneAccount(account)

	return account.ID
}

// Delete drops an account, for tests of tokens that outlive their account.
func (r *AccountRepository) Delete(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.accounts, id)
}

func (r *AccountRepository) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.accounts)
}

func cloneAccount(a *entity.Account) *entity.Account {
	c := *a
	if a.Agent != nil {
		agent := *a.Agent
		c.Agent = &agent
	}
	c.Moderation = cloneModeration(a.Moderation)

	return &c
}

func cloneModeration(m entity.Moderation) entity.Moderation {
	c := m
	if m.ApprovedAt != nil {
		at := *m.ApprovedAt
		c.ApprovedAt = &at
	}
	if m.ApprovedBy != nil {
		by := *m.ApprovedBy
		c.ApprovedBy = &by
	}

	return c
}
