package panel

// Node 面板节点信息
type Node struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	MemoryMB int64  `json:"memory"` // 标称内存容量（MB）
	DiskMB   int64  `json:"disk"`   // 标称磁盘容量（MB）

	// 超分配策略（百分比）：-1 表示不限制，0 表示不允许超分配，
	// N 表示允许超出标称容量 N%
	MemoryOverallocate int64 `json:"memory_overallocate"`
	DiskOverallocate   int64 `json:"disk_overallocate"`

	// 已分配给现有实例的资源总量（MB）
	AllocatedMemoryMB int64 `json:"-"`
	AllocatedDiskMB   int64 `json:"-"`
}

// Allocation 节点上的一个网络分配（IP + 端口）
type Allocation struct {
	ID       int64  `json:"id"`
	IP       string `json:"ip"`
	Port     int    `json:"port"`
	Assigned bool   `json:"assigned"`
}

// ServerLimits 创建实例时的资源限制
type ServerLimits struct {
	MemoryMB   int64 `json:"memory"`
	DiskMB     int64 `json:"disk"`
	CPUPercent int64 `json:"cpu"`
}

// CreateServerRequest 创建实例请求
type CreateServerRequest struct {
	Name         string       `json:"name"`
	NodeID       int64        `json:"node"`
	AllocationID int64        `json:"allocation"`
	Limits       ServerLimits `json:"limits"`
}

// nodeAttributes 面板节点响应的 attributes 字段
type nodeAttributes struct {
	ID                 int64  `json:"id"`
	Name               string `json:"name"`
	Memory             int64  `json:"memory"`
	Disk               int64  `json:"disk"`
	MemoryOverallocate int64  `json:"memory_overallocate"`
	DiskOverallocate   int64  `json:"disk_overallocate"`
	AllocatedResources struct {
		Memory int64 `json:"memory"`
		Disk   int64 `json:"disk"`
	} `json:"allocated_resources"`
}

// allocationAttributes 面板分配响应的 attributes 字段
type allocationAttributes struct {
	ID       int64  `json:"id"`
	IP       string `json:"ip"`
	Port     int    `json:"port"`
	Assigned bool   `json:"assigned"`
}

// listResponse 面板分页列表响应的通用信封
type listResponse[T any] struct {
	Data []struct {
		Attributes T `json:"attributes"`
	} `json:"data"`
	Meta struct {
		Pagination struct {
			CurrentPage int `json:"current_page"`
			TotalPages  int `json:"total_pages"`
		} `json:"pagination"`
	} `json:"meta"`
}

// createServerResponse 创建实例响应
type createServerResponse struct {
	Attributes struct {
		ID         int64  `json:"id"`
		Identifier string `json:"identifier"`
	} `json:"attributes"`
}
