package gormrepo

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/minipay/minipay/pkg/domain/account"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() }) //nolint:errcheck

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 db,
		PreferSimpleProtocol: true,
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	return New(gdb), mock
}

func accountColumns() []string {
	return []string{"id", "user_id", "type", "amount", "limit_amount", "last_charge_date", "created_at", "updated_at"}
}

func TestRepository_Get(t *testing.T) {
	repo, mock := newMockRepo(t)

	id := uuid.New()
	userID := uuid.New()
	charged := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	now := time.Now()

	mock.ExpectQuery(`SELECT \* FROM "accounts" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows(accountColumns()).
			AddRow(id, userID, "MAIN", int64(600_000), int64(2_700_000), charged, now, now))

	got, err := repo.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, userID, got.UserID)
	assert.Equal(t, account.TypeMain, got.Type)
	assert.Equal(t, int64(600_000), got.Amount)
	assert.Equal(t, int64(2_700_000), got.LimitAmount)
	assert.Equal(t, charged, got.LastChargeDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Get_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT \* FROM "accounts" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows(accountColumns()))

	_, err := repo.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, account.ErrAccountNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListByUser(t *testing.T) {
	repo, mock := newMockRepo(t)

	userID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT \* FROM "accounts" WHERE user_id = \$1 ORDER BY created_at`).
		WillReturnRows(sqlmock.NewRows(accountColumns()).
			AddRow(uuid.New(), userID, "MAIN", int64(100_000), int64(3_000_000), nil, now, now).
			AddRow(uuid.New(), userID, "SAVING", int64(50_000), int64(0), nil, now.Add(time.Second), now))

	got, err := repo.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, account.TypeMain, got[0].Type)
	assert.Equal(t, account.TypeSaving, got[1].Type)
	assert.True(t, got[0].LastChargeDate.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ApplyDelta_NotFoundRollsBack(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "accounts" WHERE id = \$1 .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows(accountColumns()))
	mock.ExpectRollback()

	_, err := repo.ApplyDelta(context.Background(), uuid.New(), func(a *account.Account) error { return nil })
	assert.ErrorIs(t, err, account.ErrAccountNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ApplyDelta_MutationErrorRollsBack(t *testing.T) {
	repo, mock := newMockRepo(t)

	id := uuid.New()
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "accounts" WHERE id = \$1 .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows(accountColumns()).
			AddRow(id, uuid.New(), "MAIN", int64(500), int64(3_000_000), nil, now, now))
	mock.ExpectRollback()

	_, err := repo.ApplyDelta(context.Background(), id, func(a *account.Account) error {
		return a.Debit(1_000)
	})
	assert.ErrorIs(t, err, account.ErrInsufficientFunds)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestModelRoundTrip(t *testing.T) {
	charged := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	a := &account.Account{
		ID:             uuid.New(),
		UserID:         uuid.New(),
		Type:           account.TypeMain,
		Amount:         600_000,
		LimitAmount:    2_700_000,
		LastChargeDate: charged,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	m := toModel(a)
	require.NotNil(t, m.LastChargeDate)
	assert.Equal(t, charged, *m.LastChargeDate)

	back := toDomain(&m)
	assert.Equal(t, a, back)
}

func TestModelRoundTrip_NeverCharged(t *testing.T) {
	a := &account.Account{
		ID:     uuid.New(),
		UserID: uuid.New(),
		Type:   account.TypeSaving,
	}

	m := toModel(a)
	assert.Nil(t, m.LastChargeDate)
	assert.True(t, toDomain(&m).LastChargeDate.IsZero())
}
