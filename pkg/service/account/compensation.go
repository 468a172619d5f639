package account

import (
	"context"
	"log/slog"

	"github.com/minipay/minipay/pkg/domain/account"
	"github.com/minipay/minipay/pkg/domain/events"
	"github.com/minipay/minipay/pkg/eventbus"
	"github.com/minipay/minipay/pkg/repository"
)

// RegisterCompensation subscribes the default compensation consumer: when a
// deposit leg fails after its paired debit committed, the withdrawn amount is
// restored to the source account. The engine only emits the signal; this
// consumer owns the reversal and can be replaced by an external one.
func RegisterCompensation(bus eventbus.Bus, repo repository.AccountRepository, logger *slog.Logger) {
	bus.Register(events.TypeDepositFailed, func(ctx context.Context, e events.Event) error {
		evt, ok := e.(events.DepositFailed)
		if !ok {
			logger.Error("unexpected event payload", "event_type", e.Type())
			return nil
		}
		restored, err := repo.ApplyDelta(ctx, evt.SourceAccountID, func(a *account.Account) error {
			return a.Credit(evt.Amount)
		})
		if err != nil {
			logger.Error("compensation failed",
				"source", evt.SourceAccountID, "amount", evt.Amount, "error", err)
			return err
		}
		logger.Info("withdrawal reversed",
			"source", evt.SourceAccountID, "amount", evt.Amount, "new_amount", restored.Amount)
		return nil
	})
}
