package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/minipay/minipay/pkg/domain/account"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMainAccount(t *testing.T, amount int64) *account.Account {
	t.Helper()
	a, err := account.New().
		WithUserID(uuid.New()).
		WithType(account.TypeMain).
		WithAmount(amount).
		WithLimitAmount(account.DefaultDailyChargeLimit).
		Build()
	require.NoError(t, err)
	return a
}

func TestRepository_GetNotFound(t *testing.T) {
	repo := New()
	_, err := repo.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, account.ErrAccountNotFound)
}

func TestRepository_CreateAndGet(t *testing.T) {
	repo := New()
	a := newMainAccount(t, 1000)
	require.NoError(t, repo.Create(context.Background(), a))

	got, err := repo.Get(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)
	assert.Equal(t, int64(1000), got.Amount)

	// The snapshot is a copy; mutating it must not leak into the store.
	got.Amount = 999_999
	again, err := repo.Get(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), again.Amount)
}

func TestRepository_CreateDuplicate(t *testing.T) {
	repo := New()
	a := newMainAccount(t, 0)
	require.NoError(t, repo.Create(context.Background(), a))
	assert.Error(t, repo.Create(context.Background(), a))
}

func TestRepository_ApplyDelta_NotFound(t *testing.T) {
	repo := New()
	_, err := repo.ApplyDelta(context.Background(), uuid.New(), func(a *account.Account) error { return nil })
	assert.ErrorIs(t, err, account.ErrAccountNotFound)
}

func TestRepository_ApplyDelta_AbortLeavesNoTrace(t *testing.T) {
	repo := New()
	a := newMainAccount(t, 500)
	require.NoError(t, repo.Create(context.Background(), a))

	_, err := repo.ApplyDelta(context.Background(), a.ID, func(acct *account.Account) error {
		acct.Amount += 1_000_000
		return account.ErrInsufficientFunds
	})
	require.ErrorIs(t, err, account.ErrInsufficientFunds)

	got, err := repo.Get(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(500), got.Amount)
}

func TestRepository_ApplyDelta_ConcurrentDeposits(t *testing.T) {
	const (
		workers = 10_000
		deposit = int64(100_000)
		initial = int64(100_000)
	)
	repo := New()
	a := newMainAccount(t, initial)
	require.NoError(t, repo.Create(context.Background(), a))

	var wg sync.WaitGroup
	wg.Add(workers)
	for range workers {
		go func() {
			defer wg.Done()
			_, err := repo.ApplyDelta(context.Background(), a.ID, func(acct *account.Account) error {
				return acct.Credit(deposit)
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := repo.Get(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, initial+workers*deposit, got.Amount)
}

func TestRepository_ApplyDelta_DistinctAccountsInParallel(t *testing.T) {
	const workers = 100
	repo := New()

	ids := make([]uuid.UUID, workers)
	for i := range ids {
		a := newMainAccount(t, 0)
		require.NoError(t, repo.Create(context.Background(), a))
		ids[i] = a.ID
	}

	var wg sync.WaitGroup
	wg.Add(workers)
	for _, id := range ids {
		go func() {
			defer wg.Done()
			for range 100 {
				_, err := repo.ApplyDelta(context.Background(), id, func(acct *account.Account) error {
					return acct.Credit(1)
				})
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	for _, id := range ids {
		got, err := repo.Get(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, int64(100), got.Amount)
	}
}

func TestRepository_ListByUser(t *testing.T) {
	repo := New()
	userID := uuid.New()

	main, err := account.New().WithUserID(userID).WithType(account.TypeMain).Build()
	require.NoError(t, err)
	saving, err := account.New().WithUserID(userID).WithType(account.TypeSaving).Build()
	require.NoError(t, err)
	other := newMainAccount(t, 0)

	for _, a := range []*account.Account{main, saving, other} {
		require.NoError(t, repo.Create(context.Background(), a))
	}

	got, err := repo.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, a := range got {
		assert.Equal(t, userID, a.UserID)
	}
}
