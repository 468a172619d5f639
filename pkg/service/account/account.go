// Package account provides the business logic for account operations:
// charging a main account against its daily limit, transfers to saving
// accounts, withdrawals with auto charge, and deposits with compensation
// on failure. Every balance mutation happens inside the repository's
// per-account critical section, so validation and the limit decision are
// race-free with respect to concurrent callers.
package account

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/minipay/minipay/pkg/domain/account"
	"github.com/minipay/minipay/pkg/eventbus"
	"github.com/minipay/minipay/pkg/repository"
)

// Service orchestrates account operations over the account store, the charge
// policy and the event bus.
type Service struct {
	repo   repository.AccountRepository
	bus    eventbus.Bus
	policy account.ChargePolicy
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a Service with the provided dependencies.
func NewService(
	repo repository.AccountRepository,
	bus eventbus.Bus,
	policy account.ChargePolicy,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:   repo,
		bus:    bus,
		policy: policy,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock overrides the service clock. Intended for tests exercising
// day-boundary behavior.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// CreateMainAccount opens the transactional account for a user with a zero
// balance and the full daily charge allowance.
func (s *Service) CreateMainAccount(ctx context.Context, userID uuid.UUID) (*account.Account, error) {
	return s.createAccount(ctx, userID, account.TypeMain)
}

// CreateSavingAccount opens a saving account for a user. Saving accounts
// start empty and carry no charge limit.
func (s *Service) CreateSavingAccount(ctx context.Context, userID uuid.UUID) (*account.Account, error) {
	return s.createAccount(ctx, userID, account.TypeSaving)
}

func (s *Service) createAccount(ctx context.Context, userID uuid.UUID, t account.Type) (*account.Account, error) {
	b := account.New().WithUserID(userID).WithType(t)
	if t == account.TypeMain {
		b = b.WithLimitAmount(s.policy.DailyLimit)
	}
	a, err := b.Build()
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, a); err != nil {
		s.logger.Error("account creation failed", "user_id", userID, "type", t, "error", err)
		return nil, err
	}
	s.logger.Info("account created", "account_id", a.ID, "user_id", userID, "type", t)
	return a, nil
}

// GetAccounts lists every account owned by userID.
func (s *Service) GetAccounts(ctx context.Context, userID uuid.UUID) ([]*account.Account, error) {
	return s.repo.ListByUser(ctx, userID)
}

// ChargeResult reports the state of a main account after a charge.
type ChargeResult struct {
	AccountID      uuid.UUID
	NewAmount      int64
	RemainingLimit int64
}

// ChargeMainAccount tops up a main account, bounded by the remaining daily
// allowance. Ownership, type and the limit decision are evaluated inside the
// account's critical section; a failed charge mutates nothing.
func (s *Service) ChargeMainAccount(ctx context.Context, userID, accountID uuid.UUID, amount int64) (*ChargeResult, error) {
	updated, err := s.repo.ApplyDelta(ctx, accountID, func(a *account.Account) error {
		if err := a.ValidateCharge(userID, amount); err != nil {
			return err
		}
		upd, err := s.policy.Evaluate(a.LimitAmount, a.LastChargeDate, s.now(), amount)
		if err != nil {
			return err
		}
		a.Amount += amount
		a.LimitAmount = upd.LimitAmount
		a.LastChargeDate = upd.LastChargeDate
		return nil
	})
	if err != nil {
		s.logger.Warn("charge rejected", "account_id", accountID, "user_id", userID, "amount", amount, "error", err)
		return nil, err
	}
	s.logger.Info("account charged", "account_id", accountID, "amount", amount, "remaining_limit", updated.LimitAmount)
	return &ChargeResult{
		AccountID:      updated.ID,
		NewAmount:      updated.Amount,
		RemainingLimit: updated.LimitAmount,
	}, nil
}

// Withdrawal debits a main account by amount and returns the withdrawn
// amount. When the balance falls short, the shortfall is rounded up to the
// next charge unit and charged implicitly against the daily allowance before
// the debit; if that charge does not fit the allowance the whole withdrawal
// fails with ErrAutoChargeFailed and the account is untouched.
func (s *Service) Withdrawal(ctx context.Context, userID, accountID uuid.UUID, amount int64) (int64, error) {
	_, err := s.repo.ApplyDelta(ctx, accountID, func(a *account.Account) error {
		if err := a.ValidateWithdrawal(userID, amount); err != nil {
			return err
		}
		if a.Amount >= amount {
			a.Amount -= amount
			return nil
		}
		shortfall := s.policy.RoundUpToUnit(amount - a.Amount)
		upd, err := s.policy.Evaluate(a.LimitAmount, a.LastChargeDate, s.now(), shortfall)
		if err != nil {
			return account.ErrAutoChargeFailed
		}
		a.Amount += shortfall - amount
		a.LimitAmount = upd.LimitAmount
		a.LastChargeDate = upd.LastChargeDate
		s.logger.Info("auto charge applied", "account_id", a.ID, "charged", shortfall, "remaining_limit", a.LimitAmount)
		return nil
	})
	if err != nil {
		s.logger.Warn("withdrawal rejected", "account_id", accountID, "user_id", userID, "amount", amount, "error", err)
		return 0, err
	}
	s.logger.Info("withdrawal completed", "account_id", accountID, "amount", amount)
	return amount, nil
}

// Deposit credits a main account by amount and returns the new balance.
// origin, when non-nil, marks this deposit as the credit leg of a
// withdraw-then-deposit sequence: any failure then emits exactly one
// compensation signal referencing the original debit before the error is
// surfaced as ErrDepositFailed.
func (s *Service) Deposit(ctx context.Context, accountID uuid.UUID, amount int64, origin *WithdrawalRequest) (int64, error) {
	updated, err := s.repo.ApplyDelta(ctx, accountID, func(a *account.Account) error {
		if err := a.ValidateDeposit(amount); err != nil {
			return err
		}
		return a.Credit(amount)
	})
	if err != nil {
		if origin != nil {
			return 0, s.failDeposit(ctx, accountID, err, origin)
		}
		s.logger.Warn("deposit rejected", "account_id", accountID, "amount", amount, "error", err)
		return 0, err
	}
	s.logger.Info("deposit completed", "account_id", accountID, "amount", amount)
	return updated.Amount, nil
}
