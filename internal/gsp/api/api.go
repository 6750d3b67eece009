// Package api 提供 HTTP API 层
package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jimyag/gsp/internal/gsp/service"
)

type API struct {
	engine *gin.Engine
	server *http.Server

	instance *Instance
	plan     *Plan
	account  *Account
}

func New(
	provisionService *service.ProvisionService,
	planService *service.PlanService,
	accountService *service.AccountService,
	address string,
) (*API, error) {
	engine := gin.Default()
	api := &API{
		engine:   engine,
		instance: NewInstance(provisionService),
		plan:     NewPlan(planService),
		account:  NewAccount(accountService),
	}

	group := engine.Group("/api")
	api.instance.RegisterRoutes(group)
	api.plan.RegisterRoutes(group)
	api.account.RegisterRoutes(group)

	api.server = &http.Server{
		Addr:    address,
		Handler: engine,
	}
	return api, nil
}

func (a *API) Run(ctx context.Context) error {
	return a.server.ListenAndServe()
}

func (a *API) Shutdown(ctx context.Context) error {
	return a.server.Shutdown(ctx)
}

// Name 实现 grace.Grace 接口
func (a *API) Name() string {
	return "GSP API"
}
