package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Plan 套餐表
type Plan struct {
	ID            string          `gorm:"primaryKey;type:text;column:id" json:"id"`                       // plan-{递增 ID}
	Name          string          `gorm:"type:text;not null;column:name" json:"name"`                     // 套餐名称
	Currency      string          `gorm:"type:text;not null;column:currency" json:"currency"`             // coin, real
	Price         decimal.Decimal `gorm:"type:decimal(20,8);not null;column:price" json:"price"`          // 单周期价格
	MemoryMB      int64           `gorm:"type:integer;not null;column:memory_mb" json:"memory_mb"`        // 内存配额（MB）
	DiskMB        int64           `gorm:"type:integer;not null;column:disk_mb" json:"disk_mb"`            // 磁盘配额（MB）
	CPUPercent    int64           `gorm:"type:integer;not null;column:cpu_percent" json:"cpu_percent"`    // CPU 配额
	DurationValue int             `gorm:"type:integer;not null;column:duration_value" json:"duration_value"`
	DurationUnit  string          `gorm:"type:text;not null;column:duration_unit" json:"duration_unit"`   // day, week, month, lifetime
	Stock         int             `gorm:"type:integer;not null;column:stock" json:"stock"`                // 剩余库存，-1 不限量
	OnePerAccount bool            `gorm:"type:integer;not null;column:one_per_account" json:"one_per_account"`
	CreatedAt     time.Time       `gorm:"type:datetime;not null;column:created_at" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"type:datetime;not null;column:updated_at" json:"updated_at"`
}

// TableName 指定表名
func (Plan) TableName() string {
	return "plans"
}
