package model

import (
	"time"
)

// Instance 实例表
// 记录不做物理删除：status = deleted 为终态，保留用于审计
type Instance struct {
	ID             string     `gorm:"primaryKey;type:text;column:id" json:"id"`                                        // srv-{递增 ID}
	AccountID      string     `gorm:"type:text;not null;index:idx_instances_account_id;column:account_id" json:"account_id"` // 关联 accounts.id
	PlanID         string     `gorm:"type:text;not null;index:idx_instances_plan_id;column:plan_id" json:"plan_id"`    // 关联 plans.id
	ExternalID     int64      `gorm:"type:integer;not null;column:external_id" json:"external_id"`                     // 面板侧实例 ID
	Name           string     `gorm:"type:text;not null;column:name" json:"name"`                                      // 实例名称
	Status         string     `gorm:"type:text;not null;index:idx_instances_status;column:status" json:"status"`       // active, suspended, deleted
	ExpiresAt      time.Time  `gorm:"type:datetime;not null;index:idx_instances_expires_at;column:expires_at" json:"expires_at"`
	SuspendedAt    *time.Time `gorm:"type:datetime;column:suspended_at" json:"suspended_at,omitempty"`
	GraceExpiresAt *time.Time `gorm:"type:datetime;column:grace_expires_at" json:"grace_expires_at,omitempty"`
	CreatedAt      time.Time  `gorm:"type:datetime;not null;column:created_at" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"type:datetime;not null;column:updated_at" json:"updated_at"`
}

// TableName 指定表名
func (Instance) TableName() string {
	return "instances"
}
