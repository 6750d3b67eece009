package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account 账户表
// 余额字段只能在 Ledger 的序列化事务中读改写
type Account struct {
	ID          string          `gorm:"primaryKey;type:text;column:id" json:"id"`                    // acct-{递增 ID}
	CoinBalance decimal.Decimal `gorm:"type:decimal(20,8);not null;column:coin_balance" json:"coin_balance"` // 虚拟币余额
	RealBalance decimal.Decimal `gorm:"type:decimal(20,8);not null;column:real_balance" json:"real_balance"` // 真实货币余额
	CreatedAt   time.Time       `gorm:"type:datetime;not null;column:created_at" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"type:datetime;not null;column:updated_at" json:"updated_at"`
}

// TableName 指定表名
func (Account) TableName() string {
	return "accounts"
}
