package account

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/minipay/minipay/pkg/domain/account"
	"github.com/minipay/minipay/pkg/domain/events"
)

// WithdrawalRequest identifies the debit a deposit is paired with. It is
// carried into the compensation signal when the credit leg fails.
type WithdrawalRequest struct {
	AccountID uuid.UUID
	Amount    int64
}

// transferState tracks the debit-then-credit saga. The credit leg runs only
// after the debit committed; whether a failure needs compensating is decided
// from the state, not the call stack.
type transferState int

const (
	transferPending transferState = iota
	transferDebited
	transferCredited
	transferCompensationPending
)

func (st transferState) String() string {
	switch st {
	case transferPending:
		return "pending"
	case transferDebited:
		return "debited"
	case transferCredited:
		return "credited"
	case transferCompensationPending:
		return "compensation_pending"
	}
	return "unknown"
}

type transfer struct {
	fromID uuid.UUID
	toID   uuid.UUID
	amount int64
	state  transferState
}

func newTransfer(fromID, toID uuid.UUID, amount int64) *transfer {
	return &transfer{fromID: fromID, toID: toID, amount: amount, state: transferPending}
}

func (t *transfer) advance(logger *slog.Logger, next transferState) {
	logger.Info("transfer state changed",
		"from", t.fromID, "to", t.toID, "amount", t.amount,
		"prev", t.state.String(), "state", next.String())
	t.state = next
}

// needsCompensation reports whether a failure at this point leaves a
// committed debit behind. Only then is the compensation signal owed.
func (t *transfer) needsCompensation() bool {
	return t.state == transferDebited
}

// TransferResult reports both balances after a completed transfer.
type TransferResult struct {
	FromAccountID uuid.UUID
	FromAmount    int64
	ToAccountID   uuid.UUID
	ToAmount      int64
}

// SendToSavingAccount moves amount from the caller's account into a saving
// account. The destination must exist before the debit leg runs: an unknown
// destination is a validation failure with zero side effects, never a saga
// failure. After the debit committed, a credit failure emits exactly one
// compensation signal so the debit can be reversed out of band, and surfaces
// as ErrDepositFailed.
func (s *Service) SendToSavingAccount(ctx context.Context, userID, fromID, toID uuid.UUID, amount int64) (*TransferResult, error) {
	if _, err := s.repo.Get(ctx, toID); err != nil {
		s.logger.Warn("transfer destination rejected", "to", toID, "error", err)
		return nil, err
	}
	t := newTransfer(fromID, toID, amount)

	from, err := s.repo.ApplyDelta(ctx, fromID, func(a *account.Account) error {
		if err := a.ValidateOwner(userID); err != nil {
			return err
		}
		return a.Debit(amount)
	})
	if err != nil {
		s.logger.Warn("transfer debit rejected", "from", fromID, "user_id", userID, "amount", amount, "error", err)
		return nil, err
	}
	t.advance(s.logger, transferDebited)

	// The destination can still vanish between the existence check and the
	// credit; past this point the committed debit must be compensated.
	to, err := s.repo.ApplyDelta(ctx, toID, func(a *account.Account) error {
		return a.Credit(amount)
	})
	if err != nil {
		if !t.needsCompensation() {
			return nil, err
		}
		t.advance(s.logger, transferCompensationPending)
		return nil, s.failDeposit(ctx, toID, err, &WithdrawalRequest{AccountID: fromID, Amount: amount})
	}
	t.advance(s.logger, transferCredited)

	return &TransferResult{
		FromAccountID: from.ID,
		FromAmount:    from.Amount,
		ToAccountID:   to.ID,
		ToAmount:      to.Amount,
	}, nil
}

// SendToOthers withdraws amount from the caller's main account, auto charging
// a shortfall when needed, and deposits it into another user's main account.
// The destination must exist before the withdrawal runs. The deposit leg
// carries the withdrawal as its origin so a failure there triggers
// compensation for the committed debit.
func (s *Service) SendToOthers(ctx context.Context, userID, fromID, toID uuid.UUID, amount int64) (*TransferResult, error) {
	if _, err := s.repo.Get(ctx, toID); err != nil {
		s.logger.Warn("transfer destination rejected", "to", toID, "error", err)
		return nil, err
	}
	t := newTransfer(fromID, toID, amount)

	withdrawn, err := s.Withdrawal(ctx, userID, fromID, amount)
	if err != nil {
		return nil, err
	}
	t.advance(s.logger, transferDebited)

	origin := &WithdrawalRequest{AccountID: fromID, Amount: withdrawn}
	toAmount, err := s.Deposit(ctx, toID, withdrawn, origin)
	if err != nil {
		// Deposit already emitted the compensation signal for the
		// committed withdrawal.
		if t.needsCompensation() {
			t.advance(s.logger, transferCompensationPending)
		}
		return nil, err
	}
	t.advance(s.logger, transferCredited)

	from, err := s.repo.Get(ctx, fromID)
	if err != nil {
		return nil, err
	}
	return &TransferResult{
		FromAccountID: fromID,
		FromAmount:    from.Amount,
		ToAccountID:   toID,
		ToAmount:      toAmount,
	}, nil
}

// failDeposit emits the compensation signal for a failed credit leg and wraps
// the cause so callers can match both ErrDepositFailed and the underlying
// reason.
func (s *Service) failDeposit(ctx context.Context, targetID uuid.UUID, cause error, origin *WithdrawalRequest) error {
	evt := events.DepositFailed{
		EventID:         uuid.New(),
		SourceAccountID: origin.AccountID,
		TargetAccountID: targetID,
		Amount:          origin.Amount,
		Reason:          cause.Error(),
		OccurredAt:      s.now(),
	}
	if err := s.bus.Emit(ctx, evt); err != nil {
		s.logger.Error("failed to emit compensation signal", "source", origin.AccountID, "error", err)
	}
	s.logger.Error("deposit leg failed, compensation signaled",
		"target", targetID, "source", origin.AccountID, "amount", origin.Amount, "cause", cause)
	return fmt.Errorf("%w: %w", account.ErrDepositFailed, cause)
}
