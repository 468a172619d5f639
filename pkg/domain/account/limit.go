package account

import "time"

// Default policy values. The running values come from configuration; these
// are the fallbacks and the ones the tests pin down.
const (
	// DefaultDailyChargeLimit is the full charge allowance a main account
	// regains on the first charge of each calendar day.
	DefaultDailyChargeLimit int64 = 3_000_000

	// DefaultChargeUnit is the increment an auto-charge shortfall is rounded
	// up to during a withdrawal.
	DefaultChargeUnit int64 = 10_000
)

// ChargePolicy decides whether a charge fits the remaining daily allowance
// of a main account and how the allowance resets across day boundaries.
// The decision is pure: "today" is a parameter, never read from a clock.
type ChargePolicy struct {
	DailyLimit int64
	ChargeUnit int64
	Location   *time.Location
}

// DefaultChargePolicy returns the policy used when no configuration
// overrides it.
func DefaultChargePolicy() ChargePolicy {
	return ChargePolicy{
		DailyLimit: DefaultDailyChargeLimit,
		ChargeUnit: DefaultChargeUnit,
		Location:   time.UTC,
	}
}

// LimitUpdate carries the new limit state a successful charge must persist.
type LimitUpdate struct {
	LimitAmount    int64
	LastChargeDate time.Time
}

// DateOf normalizes t to midnight of its calendar day in the policy location.
func (p ChargePolicy) DateOf(t time.Time) time.Time {
	y, m, d := t.In(p.location()).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, p.location())
}

func (p ChargePolicy) location() *time.Location {
	if p.Location == nil {
		return time.UTC
	}
	return p.Location
}

// Evaluate decides a charge of amount against the remaining allowance.
// When lastChargeDate falls on an earlier calendar day than today, the
// effective allowance is the full daily limit: the reset happens lazily on
// the first charge of the day, never mid-day. On success it returns the
// remaining allowance and today as the new last charge date; otherwise
// ErrChargeLimitExceeded.
func (p ChargePolicy) Evaluate(limitAmount int64, lastChargeDate, today time.Time, amount int64) (LimitUpdate, error) {
	day := p.DateOf(today)
	effective := limitAmount
	if lastChargeDate.IsZero() || p.DateOf(lastChargeDate).Before(day) {
		effective = p.DailyLimit
	}
	if amount > effective {
		return LimitUpdate{}, ErrChargeLimitExceeded
	}
	return LimitUpdate{
		LimitAmount:    effective - amount,
		LastChargeDate: day,
	}, nil
}

// RoundUpToUnit rounds amount up to the next multiple of the charge unit.
// Amounts already on a unit boundary are returned unchanged.
func (p ChargePolicy) RoundUpToUnit(amount int64) int64 {
	unit := p.ChargeUnit
	if unit <= 0 {
		return amount
	}
	if rem := amount % unit; rem != 0 {
		return amount + unit - rem
	}
	return amount
}
