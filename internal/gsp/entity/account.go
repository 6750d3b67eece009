package entity

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Account 账户余额信息
// 两种货币的余额相互独立，只能由 Ledger 在序列化事务中修改
type Account struct {
	ID          string          `json:"id"`           // 账户 ID: acct-{递增 ID}
	CoinBalance decimal.Decimal `json:"coin_balance"` // 虚拟币余额
	RealBalance decimal.Decimal `json:"real_balance"` // 真实货币余额
	CreatedAt   string          `json:"created_at"`   // 创建时间
}

// CreateAccountRequest 创建账户请求
type CreateAccountRequest struct{}

// CreateAccountResponse 创建账户响应
type CreateAccountResponse struct {
	Account *Account `json:"account"`
}

// CreditAccountRequest 账户充值请求
type CreditAccountRequest struct {
	AccountID string          `json:"accountID" binding:"required"`
	Currency  Currency        `json:"currency"  binding:"required"`
	Amount    decimal.Decimal `json:"amount"`
}

// IsValid 校验充值请求
func (r *CreditAccountRequest) IsValid() error {
	if !r.Currency.Valid() {
		return fmt.Errorf("invalid currency: %s", r.Currency)
	}
	if !r.Amount.IsPositive() {
		return fmt.Errorf("amount must be positive")
	}
	return nil
}

// CreditAccountResponse 账户充值响应
type CreditAccountResponse struct {
	Account *Account `json:"account"`
}

// DescribeAccountRequest 查询账户请求
type DescribeAccountRequest struct {
	AccountID string `json:"accountID" binding:"required"`
}

// DescribeAccountResponse 查询账户响应
type DescribeAccountResponse struct {
	Account *Account `json:"account"`
}
