package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jimyag/gsp/internal/gsp/entity"
	"github.com/jimyag/gsp/internal/gsp/repository"
	"github.com/jimyag/gsp/internal/gsp/repository/model"
	"github.com/jimyag/gsp/pkg/panel"
)

// TestServices 包含测试所需的所有服务和依赖
type TestServices struct {
	Repo             *repository.Repository
	MockPanel        *panel.MockClient
	Ledger           *Ledger
	Selector         *Selector
	AccountService   *AccountService
	PlanService      *PlanService
	ProvisionService *ProvisionService
	Sweeper          *Sweeper
	InstanceRepo     repository.InstanceRepository
	PlanRepo         repository.PlanRepository
	AccountRepo      repository.AccountRepository
}

// setupTestServices 为每个测试用例创建独立的测试环境
// 每个测试用例都有自己的数据库文件和 mock 面板客户端
func setupTestServices(t *testing.T) *TestServices {
	t.Helper()

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")
	repo, err := repository.New(dbPath)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = repo.Close()
		_ = os.RemoveAll(tmpDir)
	})

	mockPanel := panel.NewMockClient()

	instanceRepo := repository.NewInstanceRepository(repo.DB())
	planRepo := repository.NewPlanRepository(repo.DB())
	accountRepo := repository.NewAccountRepository(repo.DB())

	ledger := NewLedger(repo.DB())
	selector := NewSelector(mockPanel)

	return &TestServices{
		Repo:             repo,
		MockPanel:        mockPanel,
		Ledger:           ledger,
		Selector:         selector,
		AccountService:   NewAccountService(accountRepo, ledger),
		PlanService:      NewPlanService(planRepo),
		ProvisionService: NewProvisionService(repo.DB(), ledger, selector, mockPanel, instanceRepo, planRepo),
		Sweeper:          NewSweeper(ledger, mockPanel, instanceRepo, planRepo, time.Minute, 12*time.Hour),
		InstanceRepo:     instanceRepo,
		PlanRepo:         planRepo,
		AccountRepo:      accountRepo,
	}
}

// createTestAccount 创建账户并充值指定金额
func createTestAccount(t *testing.T, ts *TestServices, coin, real string) *entity.Account {
	t.Helper()
	ctx := context.Background()

	account, err := ts.AccountService.CreateAccount(ctx)
	require.NoError(t, err)

	if coin != "" && coin != "0" {
		require.NoError(t, ts.Ledger.Credit(ctx, account.ID, entity.CurrencyCoin, decimal.RequireFromString(coin)))
	}
	if real != "" && real != "0" {
		require.NoError(t, ts.Ledger.Credit(ctx, account.ID, entity.CurrencyReal, decimal.RequireFromString(real)))
	}

	got, err := ts.AccountService.DescribeAccount(ctx, account.ID)
	require.NoError(t, err)
	return got
}

// createTestPlan 创建测试套餐
func createTestPlan(t *testing.T, ts *TestServices, price string, stock int, onePerAccount bool) *entity.Plan {
	t.Helper()
	ctx := context.Background()

	plan, err := ts.PlanService.CreatePlan(ctx, &entity.CreatePlanRequest{
		Name:          "test-plan",
		Currency:      entity.CurrencyCoin,
		Price:         decimal.RequireFromString(price),
		MemoryMB:      2048,
		DiskMB:        10240,
		CPUPercent:    100,
		DurationValue: 1,
		DurationUnit:  entity.DurationMonth,
		Stock:         stock,
		OnePerAccount: onePerAccount,
	})
	require.NoError(t, err)
	return plan
}

// seedInstance 直接写入一条实例记录，用于生命周期测试
func seedInstance(t *testing.T, ts *TestServices, instance *model.Instance) {
	t.Helper()
	now := time.Now()
	if instance.CreatedAt.IsZero() {
		instance.CreatedAt = now
	}
	if instance.UpdatedAt.IsZero() {
		instance.UpdatedAt = now
	}
	require.NoError(t, ts.InstanceRepo.Create(context.Background(), instance))
}

// expectHealthyFleet 给 mock 面板配置一个有充足容量的单节点
func expectHealthyFleet(ts *TestServices, nodeID int64) {
	ts.MockPanel.On("ListNodes", mock.Anything).Return([]panel.Node{
		{
			ID:                 nodeID,
			Name:               "node-1",
			MemoryMB:           32768,
			DiskMB:             1048576,
			MemoryOverallocate: 0,
			DiskOverallocate:   0,
			AllocatedMemoryMB:  0,
			AllocatedDiskMB:    0,
		},
	}, nil)
	ts.MockPanel.On("ListFreeAllocations", mock.Anything, nodeID).Return([]panel.Allocation{
		{ID: 501, IP: "10.0.0.1", Port: 25565},
	}, nil)
}
