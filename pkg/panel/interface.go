package panel

import (
	"context"
)

// Client 定义编排面板客户端接口
// 用于抽象面板操作，便于测试和 mock
type Client interface {
	// 节点库存（每次调用都实时查询，不做任何缓存）
	ListNodes(ctx context.Context) ([]Node, error)
	ListFreeAllocations(ctx context.Context, nodeID int64) ([]Allocation, error)

	// 实例操作
	// Suspend/Unsuspend/Delete 对已不存在的实例（404）视为成功，保证幂等重试
	CreateServer(ctx context.Context, req *CreateServerRequest) (externalID int64, err error)
	SuspendServer(ctx context.Context, externalID int64) error
	UnsuspendServer(ctx context.Context, externalID int64) error
	DeleteServer(ctx context.Context, externalID int64) error
}
