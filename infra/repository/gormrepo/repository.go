// Package gormrepo provides the Postgres-backed AccountRepository. Per-account
// serialization comes from a SELECT ... FOR UPDATE row lock inside a
// transaction, so concurrent mutations of one account queue on the row while
// other accounts proceed in parallel.
package gormrepo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/minipay/minipay/pkg/domain/account"
	"github.com/minipay/minipay/pkg/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository implements repository.AccountRepository on a *gorm.DB.
type Repository struct {
	db *gorm.DB
}

// New creates a Repository using the provided *gorm.DB.
func New(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Migrate creates or updates the accounts table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Account{})
}

// Create implements repository.AccountRepository.
func (r *Repository) Create(ctx context.Context, a *account.Account) error {
	m := toModel(a)
	return r.db.WithContext(ctx).Create(&m).Error
}

// Get implements repository.AccountRepository.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (*account.Account, error) {
	var m Account
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, account.ErrAccountNotFound
		}
		return nil, err
	}
	return toDomain(&m), nil
}

// ListByUser implements repository.AccountRepository.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*account.Account, error) {
	var models []Account
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at").
		Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]*account.Account, 0, len(models))
	for i := range models {
		out = append(out, toDomain(&models[i]))
	}
	return out, nil
}

// ApplyDelta implements repository.AccountRepository. The row is locked for
// the duration of fn; an error from fn rolls the transaction back with no
// mutation.
func (r *Repository) ApplyDelta(ctx context.Context, id uuid.UUID, fn repository.MutateFunc) (*account.Account, error) {
	var result *account.Account
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m Account
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&m, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return account.ErrAccountNotFound
			}
			return err
		}
		a := toDomain(&m)
		if err := fn(a); err != nil {
			return err
		}
		a.UpdatedAt = time.Now()
		updates := map[string]any{
			"amount":       a.Amount,
			"limit_amount": a.LimitAmount,
			"updated_at":   a.UpdatedAt,
		}
		if !a.LastChargeDate.IsZero() {
			updates["last_charge_date"] = a.LastChargeDate
		}
		if err := tx.Model(&Account{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}
		result = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

var _ repository.AccountRepository = (*Repository)(nil)
