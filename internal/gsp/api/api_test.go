package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jimyag/gsp/internal/gsp/entity"
	"github.com/jimyag/gsp/internal/gsp/repository"
	"github.com/jimyag/gsp/internal/gsp/service"
	"github.com/jimyag/gsp/pkg/apierror"
	"github.com/jimyag/gsp/pkg/panel"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("create API with all services", func(t *testing.T) {
		t.Parallel()

		api, err := New(nil, nil, nil, ":7878")
		require.NoError(t, err)
		assert.NotNil(t, api)
		assert.NotNil(t, api.engine)
		assert.NotNil(t, api.server)
		assert.NotNil(t, api.instance)
		assert.NotNil(t, api.plan)
		assert.NotNil(t, api.account)
		assert.Equal(t, ":7878", api.server.Addr)
	})

	t.Run("API has registered routes", func(t *testing.T) {
		t.Parallel()

		api, err := New(nil, nil, nil, ":7878")
		require.NoError(t, err)

		routes := api.engine.Routes()
		assert.Greater(t, len(routes), 0, "API should have registered routes")

		routePaths := make(map[string]bool)
		for _, route := range routes {
			routePaths[route.Path] = true
		}

		assert.True(t, routePaths["/api/store/purchase"], "should have purchase route")
		assert.True(t, routePaths["/api/store/renew"], "should have renew route")
		assert.True(t, routePaths["/api/instances/describe"], "should have instance describe route")
		assert.True(t, routePaths["/api/plans/create"], "should have plan create route")
		assert.True(t, routePaths["/api/accounts/credit"], "should have account credit route")
	})
}

func TestAPI_Name(t *testing.T) {
	t.Parallel()

	api, err := New(nil, nil, nil, ":7878")
	require.NoError(t, err)
	assert.Equal(t, "GSP API", api.Name())
}

// stubProvisionService 模拟实例服务
type stubProvisionService struct {
	purchaseResp *entity.Instance
	purchaseErr  error
	lastPurchase *entity.PurchaseInstanceRequest
}

func (s *stubProvisionService) Purchase(ctx context.Context, req *entity.PurchaseInstanceRequest) (*entity.Instance, error) {
	s.lastPurchase = req
	return s.purchaseResp, s.purchaseErr
}

func (s *stubProvisionService) Renew(ctx context.Context, req *entity.RenewInstanceRequest) (*entity.Instance, error) {
	return nil, apierror.ErrNotFound
}

func (s *stubProvisionService) DescribeInstances(ctx context.Context, req *entity.DescribeInstancesRequest) (*entity.DescribeInstancesResponse, error) {
	return &entity.DescribeInstancesResponse{Instances: []entity.Instance{}}, nil
}

func setupInstanceRouter(stub *stubProvisionService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	instance := &Instance{provisionService: stub}
	instance.RegisterRoutes(engine.Group("/api"))
	return engine
}

func TestInstance_PurchaseInstance(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		stub := &stubProvisionService{
			purchaseResp: &entity.Instance{
				ID:        "srv-1",
				AccountID: "acct-1",
				PlanID:    "plan-1",
				Status:    entity.InstanceStatusActive,
			},
		}
		engine := setupInstanceRouter(stub)

		body, _ := json.Marshal(map[string]any{
			"accountID": "acct-1",
			"planID":    "plan-1",
			"name":      "web-1",
		})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/store/purchase", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		engine.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp entity.PurchaseInstanceResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Instance)
		assert.Equal(t, "srv-1", resp.Instance.ID)

		require.NotNil(t, stub.lastPurchase)
		assert.Equal(t, "web-1", stub.lastPurchase.Name)
	})

	t.Run("missing required field", func(t *testing.T) {
		t.Parallel()

		engine := setupInstanceRouter(&stubProvisionService{})

		body, _ := json.Marshal(map[string]any{"planID": "plan-1"})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/store/purchase", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("service error maps to http status", func(t *testing.T) {
		t.Parallel()

		stub := &stubProvisionService{
			purchaseErr: apierror.ErrInsufficientFunds,
		}
		engine := setupInstanceRouter(stub)

		body, _ := json.Marshal(map[string]any{
			"accountID": "acct-1",
			"planID":    "plan-1",
		})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/store/purchase", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusPaymentRequired, w.Code)
	})
}

// stubAccountService 模拟账户服务
type stubAccountService struct {
	account *entity.Account
}

func (s *stubAccountService) CreateAccount(ctx context.Context) (*entity.Account, error) {
	return s.account, nil
}

func (s *stubAccountService) CreditAccount(ctx context.Context, req *entity.CreditAccountRequest) (*entity.Account, error) {
	if !req.Amount.IsPositive() {
		return nil, apierror.ErrValidation
	}
	return s.account, nil
}

func (s *stubAccountService) DescribeAccount(ctx context.Context, accountID string) (*entity.Account, error) {
	if accountID != s.account.ID {
		return nil, apierror.ErrNotFound
	}
	return s.account, nil
}

func TestAccount_Routes(t *testing.T) {
	t.Parallel()

	gin.SetMode(gin.TestMode)
	engine := gin.New()
	account := &Account{accountService: &stubAccountService{
		account: &entity.Account{
			ID:          "acct-1",
			CoinBalance: decimal.RequireFromString("100"),
		},
	}}
	account.RegisterRoutes(engine.Group("/api"))

	t.Run("create", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/accounts/create", nil)
		engine.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp entity.CreateAccountResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "acct-1", resp.Account.ID)
	})

	t.Run("credit validation failure", func(t *testing.T) {
		body, _ := json.Marshal(map[string]any{
			"accountID": "acct-1",
			"currency":  "coin",
			"amount":    "-5",
		})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/accounts/credit", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("describe missing account", func(t *testing.T) {
		body, _ := json.Marshal(map[string]any{"accountID": "acct-nope"})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/accounts/describe", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

// 走完整的服务层（真实数据库 + 账本），验证业务错误到达 HTTP 边界时
// 带着各自的状态码，而不是统一塌成 500
func TestAPI_ServiceErrorStatuses(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	repo, err := repository.New(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	mockPanel := panel.NewMockClient()
	instanceRepo := repository.NewInstanceRepository(repo.DB())
	planRepo := repository.NewPlanRepository(repo.DB())
	accountRepo := repository.NewAccountRepository(repo.DB())
	ledger := service.NewLedger(repo.DB())
	provisionService := service.NewProvisionService(
		repo.DB(), ledger, service.NewSelector(mockPanel), mockPanel, instanceRepo, planRepo)
	accountService := service.NewAccountService(accountRepo, ledger)
	planService := service.NewPlanService(planRepo)

	gin.SetMode(gin.TestMode)
	api, err := New(provisionService, planService, accountService, ":0")
	require.NoError(t, err)

	ctx := context.Background()
	account, err := accountService.CreateAccount(ctx)
	require.NoError(t, err)
	require.NoError(t, ledger.Credit(ctx, account.ID, entity.CurrencyCoin, decimal.RequireFromString("5")))

	post := func(path string, payload map[string]any) *httptest.ResponseRecorder {
		body, err := json.Marshal(payload)
		require.NoError(t, err)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		api.engine.ServeHTTP(w, req)
		return w
	}

	newPlan := func(price string, stock int) *entity.Plan {
		plan, err := planService.CreatePlan(ctx, &entity.CreatePlanRequest{
			Name:          "boundary-plan",
			Currency:      entity.CurrencyCoin,
			Price:         decimal.RequireFromString(price),
			MemoryMB:      2048,
			DiskMB:        10240,
			CPUPercent:    100,
			DurationValue: 1,
			DurationUnit:  entity.DurationMonth,
			Stock:         stock,
		})
		require.NoError(t, err)
		return plan
	}

	t.Run("insufficient funds renders 402", func(t *testing.T) {
		plan := newPlan("30", 10)
		w := post("/api/store/purchase", map[string]any{
			"accountID": account.ID,
			"planID":    plan.ID,
		})
		assert.Equal(t, http.StatusPaymentRequired, w.Code, w.Body.String())
	})

	t.Run("out of stock renders 409", func(t *testing.T) {
		plan := newPlan("1", 0)
		w := post("/api/store/purchase", map[string]any{
			"accountID": account.ID,
			"planID":    plan.ID,
		})
		assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	})

	t.Run("unknown plan renders 404", func(t *testing.T) {
		w := post("/api/store/purchase", map[string]any{
			"accountID": account.ID,
			"planID":    "plan-nope",
		})
		assert.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
	})

	t.Run("unknown instance renew renders 404", func(t *testing.T) {
		w := post("/api/store/renew", map[string]any{
			"accountID":  account.ID,
			"instanceID": "srv-nope",
		})
		assert.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
	})
}

var (
	_ InstanceServiceInterface = (*stubProvisionService)(nil)
	_ AccountServiceInterface  = (*stubAccountService)(nil)
)
