package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/jimyag/gsp/internal/gsp/entity"
	"github.com/jimyag/gsp/pkg/apierror"
)

func TestLedger_WithDebit(t *testing.T) {
	t.Parallel()

	ts := setupTestServices(t)
	ctx := context.Background()

	t.Run("debit reduces balance", func(t *testing.T) {
		account := createTestAccount(t, ts, "100", "0")

		err := ts.Ledger.WithDebit(ctx, account.ID, entity.CurrencyCoin, decimal.RequireFromString("30"), nil)
		require.NoError(t, err)

		got, err := ts.AccountService.DescribeAccount(ctx, account.ID)
		require.NoError(t, err)
		assert.True(t, got.CoinBalance.Equal(decimal.RequireFromString("70")), "balance = %s", got.CoinBalance)
	})

	t.Run("insufficient funds", func(t *testing.T) {
		account := createTestAccount(t, ts, "10", "0")

		err := ts.Ledger.WithDebit(ctx, account.ID, entity.CurrencyCoin, decimal.RequireFromString("10.01"), nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, apierror.ErrInsufficientFunds)

		// 扣款失败余额不变
		got, err := ts.AccountService.DescribeAccount(ctx, account.ID)
		require.NoError(t, err)
		assert.True(t, got.CoinBalance.Equal(decimal.RequireFromString("10")))
	})

	t.Run("currencies are independent", func(t *testing.T) {
		account := createTestAccount(t, ts, "0", "50")

		err := ts.Ledger.WithDebit(ctx, account.ID, entity.CurrencyCoin, decimal.RequireFromString("1"), nil)
		assert.ErrorIs(t, err, apierror.ErrInsufficientFunds)

		err = ts.Ledger.WithDebit(ctx, account.ID, entity.CurrencyReal, decimal.RequireFromString("50"), nil)
		require.NoError(t, err)
	})

	t.Run("fn failure rolls back debit", func(t *testing.T) {
		account := createTestAccount(t, ts, "100", "0")

		err := ts.Ledger.WithDebit(ctx, account.ID, entity.CurrencyCoin, decimal.RequireFromString("40"), func(tx *gorm.DB) error {
			return fmt.Errorf("boom")
		})
		require.Error(t, err)

		got, err := ts.AccountService.DescribeAccount(ctx, account.ID)
		require.NoError(t, err)
		assert.True(t, got.CoinBalance.Equal(decimal.RequireFromString("100")), "debit must roll back with fn")
	})

	t.Run("account not found", func(t *testing.T) {
		err := ts.Ledger.WithDebit(ctx, "acct-missing", entity.CurrencyCoin, decimal.RequireFromString("1"), nil)
		assert.ErrorIs(t, err, apierror.ErrNotFound)
	})

	t.Run("zero amount passes balance check", func(t *testing.T) {
		account := createTestAccount(t, ts, "0", "0")

		called := false
		err := ts.Ledger.WithDebit(ctx, account.ID, entity.CurrencyCoin, decimal.Zero, func(tx *gorm.DB) error {
			called = true
			return nil
		})
		require.NoError(t, err)
		assert.True(t, called)
	})
}

// TestLedger_ConcurrentDebits 并发扣款不能把余额扣成负数：
// 余额 100，20 个并发扣 30，最多成功 3 次
func TestLedger_ConcurrentDebits(t *testing.T) {
	t.Parallel()

	ts := setupTestServices(t)
	ctx := context.Background()
	account := createTestAccount(t, ts, "100", "0")

	const workers = 20
	amount := decimal.RequireFromString("30")

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := ts.Ledger.WithDebit(ctx, account.ID, entity.CurrencyCoin, amount, nil); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, succeeded, "only 3 debits of 30 fit in a balance of 100")

	got, err := ts.AccountService.DescribeAccount(ctx, account.ID)
	require.NoError(t, err)
	assert.True(t, got.CoinBalance.Equal(decimal.RequireFromString("10")), "balance = %s", got.CoinBalance)
	assert.False(t, got.CoinBalance.IsNegative())
}

func TestLedger_Credit(t *testing.T) {
	t.Parallel()

	ts := setupTestServices(t)
	ctx := context.Background()

	t.Run("credit adds balance", func(t *testing.T) {
		account := createTestAccount(t, ts, "0", "0")

		require.NoError(t, ts.Ledger.Credit(ctx, account.ID, entity.CurrencyReal, decimal.RequireFromString("12.5")))

		got, err := ts.AccountService.DescribeAccount(ctx, account.ID)
		require.NoError(t, err)
		assert.True(t, got.RealBalance.Equal(decimal.RequireFromString("12.5")))
	})

	t.Run("non-positive amount rejected", func(t *testing.T) {
		account := createTestAccount(t, ts, "0", "0")

		err := ts.Ledger.Credit(ctx, account.ID, entity.CurrencyCoin, decimal.Zero)
		assert.Error(t, err)

		err = ts.Ledger.Credit(ctx, account.ID, entity.CurrencyCoin, decimal.RequireFromString("-5"))
		assert.Error(t, err)
	})

	t.Run("account not found", func(t *testing.T) {
		err := ts.Ledger.Credit(ctx, "acct-missing", entity.CurrencyCoin, decimal.RequireFromString("1"))
		assert.ErrorIs(t, err, apierror.ErrNotFound)
	})
}
