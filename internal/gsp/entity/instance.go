package entity

// InstanceStatus 实例生命周期状态
// 只允许 active → suspended → deleted 单向推进，
// 续费保持 active 不变、只延长到期时间
type InstanceStatus string

const (
	InstanceStatusActive    InstanceStatus = "active"
	InstanceStatusSuspended InstanceStatus = "suspended"
	InstanceStatusDeleted   InstanceStatus = "deleted" // 终态，记录保留用于审计
)

// Instance 租用实例信息
type Instance struct {
	ID             string         `json:"id"`                         // 实例 ID: srv-{递增 ID}
	AccountID      string         `json:"account_id"`                 // 所属账户
	PlanID         string         `json:"plan_id"`                    // 购买的套餐
	ExternalID     int64          `json:"external_id"`                // 面板侧实例 ID
	Name           string         `json:"name"`                       // 实例名称
	Status         InstanceStatus `json:"status"`                     // 生命周期状态
	ExpiresAt      string         `json:"expires_at"`                 // 到期时间
	SuspendedAt    string         `json:"suspended_at,omitempty"`     // 暂停时间
	GraceExpiresAt string         `json:"grace_expires_at,omitempty"` // 宽限期截止时间
	CreatedAt      string         `json:"created_at"`                 // 创建时间
}

// PurchaseInstanceRequest 购买实例请求
type PurchaseInstanceRequest struct {
	AccountID       string `json:"accountID" binding:"required"`
	PlanID          string `json:"planID"    binding:"required"`
	Name            string `json:"name"`
	PreferredNodeID int64  `json:"preferredNodeID,omitempty"` // 可选，指定节点
}

// PurchaseInstanceResponse 购买实例响应
type PurchaseInstanceResponse struct {
	Instance *Instance `json:"instance"`
}

// RenewInstanceRequest 续费实例请求
type RenewInstanceRequest struct {
	AccountID  string `json:"accountID"  binding:"required"`
	InstanceID string `json:"instanceID" binding:"required"`
}

// RenewInstanceResponse 续费实例响应
type RenewInstanceResponse struct {
	Instance *Instance `json:"instance"`
}

// DescribeInstancesRequest 查询实例请求
type DescribeInstancesRequest struct {
	AccountID   string         `json:"accountID,omitempty"`
	InstanceIDs []string       `json:"instanceIDs,omitempty"`
	Status      InstanceStatus `json:"status,omitempty"`
}

// DescribeInstancesResponse 查询实例响应
type DescribeInstancesResponse struct {
	Instances []Instance `json:"instances"`
}
