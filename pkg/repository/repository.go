// Package repository defines the data-access contracts the services depend on.
package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/minipay/minipay/pkg/domain/account"
)

// MutateFunc is applied to an account inside its critical section. Returning
// an error aborts the mutation; the stored account is then left untouched.
type MutateFunc func(a *account.Account) error

// AccountRepository provides atomic per-account read-modify-write access.
//
// ApplyDelta serializes mutations per account identifier: concurrent calls
// against the same account commit in some total order with no lost updates,
// while accounts with different identifiers are mutated fully in parallel.
// Implementations return account.ErrAccountNotFound for unknown identifiers.
type AccountRepository interface {
	Create(ctx context.Context, a *account.Account) error
	Get(ctx context.Context, id uuid.UUID) (*account.Account, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*account.Account, error)
	// ApplyDelta runs fn against the account identified by id inside its
	// critical section and returns the post-mutation state.
	ApplyDelta(ctx context.Context, id uuid.UUID, fn MutateFunc) (*account.Account, error)
}
