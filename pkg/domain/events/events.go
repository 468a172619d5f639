// Package events defines the domain events the ledger emits.
package events

import (
	"time"

	"github.com/google/uuid"
)

// Event is implemented by every domain event.
type Event interface {
	Type() string
}

// TypeDepositFailed is the event type string for DepositFailed.
const TypeDepositFailed = "deposit.failed"

// DepositFailed is the compensation signal emitted when the credit leg of a
// two-step transfer fails after its paired debit committed. It carries enough
// for an out-of-band consumer to reverse the debit: the source account, the
// debited amount and the failure reason.
type DepositFailed struct {
	EventID         uuid.UUID `json:"event_id"`
	SourceAccountID uuid.UUID `json:"source_account_id"`
	TargetAccountID uuid.UUID `json:"target_account_id"`
	Amount          int64     `json:"amount"`
	Reason          string    `json:"reason"`
	OccurredAt      time.Time `json:"occurred_at"`
}

// Type implements Event.
func (e DepositFailed) Type() string { return TypeDepositFailed }
