// Package memory provides an in-memory AccountRepository. Mutations are
// serialized per account with a dedicated mutex per entry, so distinct
// accounts commit fully in parallel while a single account never loses an
// update. Used in tests and when no database is configured.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/minipay/minipay/pkg/domain/account"
	"github.com/minipay/minipay/pkg/repository"
)

type entry struct {
	mu   sync.Mutex
	acct account.Account
}

// Repository is a thread-safe in-memory account store.
type Repository struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]*entry
}

// New returns an empty in-memory repository.
func New() *Repository {
	return &Repository{entries: make(map[uuid.UUID]*entry)}
}

// Create stores a copy of the account. The id must not already exist.
func (r *Repository) Create(_ context.Context, a *account.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[a.ID]; ok {
		return fmt.Errorf("account %s already exists", a.ID)
	}
	r.entries[a.ID] = &entry{acct: *a}
	return nil
}

// Get returns a snapshot of the account, or account.ErrAccountNotFound.
func (r *Repository) Get(_ context.Context, id uuid.UUID) (*account.Account, error) {
	e, err := r.lookup(id)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	cp := e.acct
	return &cp, nil
}

// ListByUser returns snapshots of every account owned by userID, ordered by
// creation time.
func (r *Repository) ListByUser(_ context.Context, userID uuid.UUID) ([]*account.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*account.Account
	for _, e := range r.entries {
		e.mu.Lock()
		if e.acct.UserID == userID {
			cp := e.acct
			out = append(out, &cp)
		}
		e.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// ApplyDelta runs fn against a working copy of the account under the entry
// mutex and swaps the copy in only when fn succeeds, so a failed mutation
// leaves no trace.
func (r *Repository) ApplyDelta(_ context.Context, id uuid.UUID, fn repository.MutateFunc) (*account.Account, error) {
	e, err := r.lookup(id)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	working := e.acct
	if err := fn(&working); err != nil {
		return nil, err
	}
	working.UpdatedAt = time.Now()
	e.acct = working
	cp := working
	return &cp, nil
}

func (r *Repository) lookup(id uuid.UUID) (*entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, account.ErrAccountNotFound
	}
	return e, nil
}

var _ repository.AccountRepository = (*Repository)(nil)
