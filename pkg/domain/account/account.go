// Package account contains the account aggregate and the daily charge-limit
// policy. Balances are stored as int64 in minor currency units.
package account

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrAccountNotFound is returned when an account cannot be found.
	ErrAccountNotFound = errors.New("account not found")

	// ErrNotOwner is returned when a user acts on an account they do not own.
	ErrNotOwner = errors.New("not account owner")

	// ErrWrongAccountType is returned when an operation is not valid for the
	// account's type, e.g. charging a saving account.
	ErrWrongAccountType = errors.New("operation not allowed for account type")

	// ErrInsufficientFunds is returned when a debit exceeds the balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrAmountMustBePositive is returned when an operation amount is not positive.
	ErrAmountMustBePositive = errors.New("amount must be positive")

	// ErrChargeLimitExceeded is returned when a charge exceeds the remaining
	// daily allowance.
	ErrChargeLimitExceeded = errors.New("daily charge limit exceeded")

	// ErrAutoChargeFailed is returned when the implicit charge during a
	// withdrawal exceeds the remaining daily allowance. It wraps
	// ErrChargeLimitExceeded so callers can match either.
	ErrAutoChargeFailed = fmt.Errorf("auto charge failed: %w", ErrChargeLimitExceeded)

	// ErrDepositFailed is returned when the credit leg of a two-step transfer
	// fails after the debit already committed.
	ErrDepositFailed = errors.New("deposit failed")
)

// Type distinguishes transactional main accounts from destination-only
// saving accounts.
type Type string

const (
	// TypeMain is the transactional account; withdrawals and charges
	// originate here and a daily charge limit applies.
	TypeMain Type = "MAIN"
	// TypeSaving is a destination-only account funded from a main account.
	// Saving accounts carry no charge limit.
	TypeSaving Type = "SAVING"
)

// Account is the aggregate for a single monetary account.
//
// Invariants:
//   - Amount is never negative.
//   - LimitAmount is meaningful only when Type is TypeMain; it holds the
//     remaining same-day charge allowance.
//   - LastChargeDate is the calendar date (owner timezone) of the most recent
//     successful charge; the zero value means the account was never charged.
type Account struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	Type           Type
	Amount         int64
	LimitAmount    int64
	LastChargeDate time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Builder provides a fluent API for constructing Account instances.
type Builder struct {
	id          uuid.UUID
	userID      uuid.UUID
	accountType Type
	amount      int64
	limitAmount int64
	createdAt   time.Time
}

// New creates a Builder with a fresh ID and a zero balance.
func New() *Builder {
	return &Builder{
		id:          uuid.New(),
		accountType: TypeMain,
		createdAt:   time.Now(),
	}
}

// WithID sets the ID for the account being built.
func (b *Builder) WithID(id uuid.UUID) *Builder {
	b.id = id
	return b
}

// WithUserID sets the owning user. This is a mandatory field.
func (b *Builder) WithUserID(userID uuid.UUID) *Builder {
	b.userID = userID
	return b
}

// WithType sets the account type.
func (b *Builder) WithType(t Type) *Builder {
	b.accountType = t
	return b
}

// WithAmount sets the initial balance. Intended for hydrating an existing
// account from a data store or for test setup.
func (b *Builder) WithAmount(amount int64) *Builder {
	b.amount = amount
	return b
}

// WithLimitAmount sets the remaining daily charge allowance. For a new main
// account this is the full daily ceiling.
func (b *Builder) WithLimitAmount(limit int64) *Builder {
	b.limitAmount = limit
	return b
}

// Build validates the invariants and returns the new Account.
func (b *Builder) Build() (*Account, error) {
	if b.userID == uuid.Nil {
		return nil, errors.New("userID is required")
	}
	if b.accountType != TypeMain && b.accountType != TypeSaving {
		return nil, fmt.Errorf("unknown account type %q", b.accountType)
	}
	if b.amount < 0 {
		return nil, errors.New("initial amount cannot be negative")
	}
	limit := b.limitAmount
	if b.accountType == TypeSaving {
		// Saving accounts never carry a limit.
		limit = 0
	}
	return &Account{
		ID:          b.id,
		UserID:      b.userID,
		Type:        b.accountType,
		Amount:      b.amount,
		LimitAmount: limit,
		CreatedAt:   b.createdAt,
	}, nil
}

// IsMain reports whether the account is a transactional main account.
func (a *Account) IsMain() bool { return a.Type == TypeMain }

// ValidateOwner fails with ErrNotOwner unless userID owns the account.
func (a *Account) ValidateOwner(userID uuid.UUID) error {
	if a.UserID != userID {
		return ErrNotOwner
	}
	return nil
}

func validateAmount(amount int64) error {
	if amount <= 0 {
		return ErrAmountMustBePositive
	}
	return nil
}

// ValidateCharge checks the invariants for charging this account: the acting
// user must own it, it must be a main account and the amount must be positive.
func (a *Account) ValidateCharge(userID uuid.UUID, amount int64) error {
	if err := a.ValidateOwner(userID); err != nil {
		return err
	}
	if !a.IsMain() {
		return ErrWrongAccountType
	}
	return validateAmount(amount)
}

// ValidateWithdrawal checks ownership, type and amount for a withdrawal.
// Sufficiency is not checked here; a shortfall may still be covered by an
// auto charge.
func (a *Account) ValidateWithdrawal(userID uuid.UUID, amount int64) error {
	return a.ValidateCharge(userID, amount)
}

// ValidateDeposit checks that this account can receive a direct deposit.
// Saving accounts are funded only through transfers, never deposited to
// directly, so only main accounts pass.
func (a *Account) ValidateDeposit(amount int64) error {
	if !a.IsMain() {
		return ErrWrongAccountType
	}
	return validateAmount(amount)
}

// Credit increases the balance by amount.
func (a *Account) Credit(amount int64) error {
	if err := validateAmount(amount); err != nil {
		return err
	}
	a.Amount += amount
	return nil
}

// Debit decreases the balance by amount, failing with ErrInsufficientFunds
// rather than letting the balance go negative.
func (a *Account) Debit(amount int64) error {
	if err := validateAmount(amount); err != nil {
		return err
	}
	if a.Amount < amount {
		return ErrInsufficientFunds
	}
	a.Amount -= amount
	return nil
}
