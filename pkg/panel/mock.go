package panel

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockClient 是 Client 的 mock 实现
// 用于测试，不需要真实的面板服务
type MockClient struct {
	mock.Mock
}

var _ Client = (*MockClient)(nil)

// NewMockClient 创建 mock 面板客户端
func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) ListNodes(ctx context.Context) ([]Node, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Node), args.Error(1)
}

func (m *MockClient) ListFreeAllocations(ctx context.Context, nodeID int64) ([]Allocation, error) {
	args := m.Called(ctx, nodeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Allocation), args.Error(1)
}

func (m *MockClient) CreateServer(ctx context.Context, req *CreateServerRequest) (int64, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockClient) SuspendServer(ctx context.Context, externalID int64) error {
	args := m.Called(ctx, externalID)
	return args.Error(0)
}

func (m *MockClient) UnsuspendServer(ctx context.Context, externalID int64) error {
	args := m.Called(ctx, externalID)
	return args.Error(0)
}

func (m *MockClient) DeleteServer(ctx context.Context, externalID int64) error {
	args := m.Called(ctx, externalID)
	return args.Error(0)
}
