// Package entity 定义业务实体
package entity

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Currency 计价货币
type Currency string

const (
	// CurrencyCoin 站内虚拟币
	CurrencyCoin Currency = "coin"
	// CurrencyReal 真实货币余额
	CurrencyReal Currency = "real"
)

// Valid 判断货币类型是否合法
func (c Currency) Valid() bool {
	return c == CurrencyCoin || c == CurrencyReal
}

// DurationUnit 套餐计费周期单位
type DurationUnit string

const (
	DurationDay      DurationUnit = "day"      // 固定天数
	DurationWeek     DurationUnit = "week"     // 周（值 × 7 天）
	DurationMonth    DurationUnit = "month"    // 自然月
	DurationLifetime DurationUnit = "lifetime" // 永久，不参与到期清扫
)

// StockUnlimited 表示套餐库存不限量
const StockUnlimited = -1

// Plan 套餐信息：一组定价的资源配额
// 被在售实例引用后视为不可变，修改只影响后续购买
type Plan struct {
	ID            string          `json:"id"`              // 套餐 ID: plan-{递增 ID}
	Name          string          `json:"name"`            // 套餐名称
	Currency      Currency        `json:"currency"`        // 计价货币
	Price         decimal.Decimal `json:"price"`           // 单周期价格
	MemoryMB      int64           `json:"memory_mb"`       // 内存配额（MB）
	DiskMB        int64           `json:"disk_mb"`         // 磁盘配额（MB）
	CPUPercent    int64           `json:"cpu_percent"`     // CPU 配额（100 = 一个核心）
	DurationValue int             `json:"duration_value"`  // 计费周期数值
	DurationUnit  DurationUnit    `json:"duration_unit"`   // 计费周期单位
	Stock         int             `json:"stock"`           // 剩余库存，-1 表示不限量
	OnePerAccount bool            `json:"one_per_account"` // 每个账户最多持有一个
	CreatedAt     string          `json:"created_at"`      // 创建时间
}

// CreatePlanRequest 创建套餐请求
type CreatePlanRequest struct {
	Name          string          `json:"name"          binding:"required"`
	Currency      Currency        `json:"currency"      binding:"required"`
	Price         decimal.Decimal `json:"price"`
	MemoryMB      int64           `json:"memory_mb"     binding:"required"`
	DiskMB        int64           `json:"disk_mb"       binding:"required"`
	CPUPercent    int64           `json:"cpu_percent"`
	DurationValue int             `json:"duration_value"`
	DurationUnit  DurationUnit    `json:"duration_unit"`
	Stock         int             `json:"stock"`
	OnePerAccount bool            `json:"one_per_account"`
}

// IsValid 校验创建套餐请求
func (r *CreatePlanRequest) IsValid() error {
	if !r.Currency.Valid() {
		return fmt.Errorf("invalid currency: %s", r.Currency)
	}
	switch r.DurationUnit {
	case DurationDay, DurationWeek, DurationMonth:
		if r.DurationValue <= 0 {
			return fmt.Errorf("duration_value must be positive for unit %s", r.DurationUnit)
		}
	case DurationLifetime:
	default:
		return fmt.Errorf("invalid duration_unit: %s", r.DurationUnit)
	}
	if r.Price.IsNegative() {
		return fmt.Errorf("price must not be negative")
	}
	return nil
}

// CreatePlanResponse 创建套餐响应
type CreatePlanResponse struct {
	Plan *Plan `json:"plan"`
}

// DescribePlansRequest 查询套餐请求
type DescribePlansRequest struct {
	PlanIDs []string `json:"planIDs,omitempty"`
}

// DescribePlansResponse 查询套餐响应
type DescribePlansResponse struct {
	Plans []Plan `json:"plans"`
}
