package gormrepo

import (
	"time"

	"github.com/google/uuid"
	"github.com/minipay/minipay/pkg/domain/account"
)

// Account is the persistence model for an account row.
type Account struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID         uuid.UUID `gorm:"type:uuid;index;not null"`
	Type           string    `gorm:"type:varchar(16);not null"`
	Amount         int64     `gorm:"not null;default:0"`
	LimitAmount    int64     `gorm:"not null;default:0"`
	LastChargeDate *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func toModel(a *account.Account) Account {
	m := Account{
		ID:          a.ID,
		UserID:      a.UserID,
		Type:        string(a.Type),
		Amount:      a.Amount,
		LimitAmount: a.LimitAmount,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
	if !a.LastChargeDate.IsZero() {
		d := a.LastChargeDate
		m.LastChargeDate = &d
	}
	return m
}

func toDomain(m *Account) *account.Account {
	a := &account.Account{
		ID:          m.ID,
		UserID:      m.UserID,
		Type:        account.Type(m.Type),
		Amount:      m.Amount,
		LimitAmount: m.LimitAmount,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	if m.LastChargeDate != nil {
		a.LastChargeDate = *m.LastChargeDate
	}
	return a
}
