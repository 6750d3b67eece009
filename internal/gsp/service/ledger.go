package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/jimyag/gsp/internal/gsp/entity"
	"github.com/jimyag/gsp/internal/gsp/repository/model"
	"github.com/jimyag/gsp/pkg/apierror"
)

// Ledger 账本服务，是账户余额的唯一修改入口
// 同一账户的资金操作严格串行：先拿账户锁，再在数据库事务中读改写，
// 保证并发购买不会把余额扣成负数
type Ledger struct {
	db    *gorm.DB
	locks sync.Map // accountID -> *sync.Mutex
}

// NewLedger 创建 Ledger
func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// accountLock 获取指定账户的互斥锁
func (l *Ledger) accountLock(accountID string) *sync.Mutex {
	mu, _ := l.locks.LoadOrStore(accountID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// WithDebit 在同一个事务中完成扣款和 fn 中的附加操作
// 余额在事务内重新读取后校验，不足时返回 ErrInsufficientFunds，
// fn 失败时扣款一并回滚
func (l *Ledger) WithDebit(ctx context.Context, accountID string, currency entity.Currency, amount decimal.Decimal, fn func(tx *gorm.DB) error) error {
	if amount.IsNegative() {
		return apierror.WrapError(apierror.ErrValidation, "debit amount must not be negative", nil)
	}

	mu := l.accountLock(accountID)
	mu.Lock()
	defer mu.Unlock()

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		account := &model.Account{}
		if err := tx.Where("id = ?", accountID).First(account).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierror.WrapError(apierror.ErrNotFound, fmt.Sprintf("account %s not found", accountID), err)
			}
			return apierror.WrapError(apierror.ErrInternalError, "Failed to load account", err)
		}

		balance := l.balanceOf(account, currency)
		if balance.LessThan(amount) {
			return apierror.WrapError(apierror.ErrInsufficientFunds,
				fmt.Sprintf("balance %s insufficient for %s %s", balance, amount, currency), nil)
		}

		l.setBalance(account, currency, balance.Sub(amount))
		account.UpdatedAt = time.Now()
		if err := tx.Save(account).Error; err != nil {
			return apierror.WrapError(apierror.ErrInternalError, "Failed to save account balance", err)
		}

		if fn != nil {
			return fn(tx)
		}
		return nil
	})
	if err != nil {
		return err
	}

	zerolog.Ctx(ctx).Info().
		Str("account_id", accountID).
		Str("currency", string(currency)).
		Str("amount", amount.String()).
		Msg("Debited account")
	return nil
}

// Credit 无条件入账，用于充值和购买失败后的退款补偿
func (l *Ledger) Credit(ctx context.Context, accountID string, currency entity.Currency, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return apierror.WrapError(apierror.ErrValidation, "credit amount must be positive", nil)
	}

	mu := l.accountLock(accountID)
	mu.Lock()
	defer mu.Unlock()

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		account := &model.Account{}
		if err := tx.Where("id = ?", accountID).First(account).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierror.WrapError(apierror.ErrNotFound, fmt.Sprintf("account %s not found", accountID), err)
			}
			return apierror.WrapError(apierror.ErrInternalError, "Failed to load account", err)
		}

		l.setBalance(account, currency, l.balanceOf(account, currency).Add(amount))
		account.UpdatedAt = time.Now()
		if err := tx.Save(account).Error; err != nil {
			return apierror.WrapError(apierror.ErrInternalError, "Failed to save account balance", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	zerolog.Ctx(ctx).Info().
		Str("account_id", accountID).
		Str("currency", string(currency)).
		Str("amount", amount.String()).
		Msg("Credited account")
	return nil
}

func (l *Ledger) balanceOf(account *model.Account, currency entity.Currency) decimal.Decimal {
	if currency == entity.CurrencyReal {
		return account.RealBalance
	}
	return account.CoinBalance
}

func (l *Ledger) setBalance(account *model.Account, currency entity.Currency, balance decimal.Decimal) {
	if currency == entity.CurrencyReal {
		account.RealBalance = balance
	} else {
		account.CoinBalance = balance
	}
}
