package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/jimyag/gsp/internal/gsp/entity"
	"github.com/jimyag/gsp/internal/gsp/service"
	"github.com/jimyag/gsp/pkg/ginx"
)

// PlanServiceInterface 定义套餐服务的接口
type PlanServiceInterface interface {
	CreatePlan(ctx context.Context, req *entity.CreatePlanRequest) (*entity.Plan, error)
	DescribePlans(ctx context.Context, req *entity.DescribePlansRequest) (*entity.DescribePlansResponse, error)
}

type Plan struct {
	planService PlanServiceInterface
}

func NewPlan(planService *service.PlanService) *Plan {
	return &Plan{
		planService: planService,
	}
}

func (p *Plan) RegisterRoutes(router *gin.RouterGroup) {
	planRouter := router.Group("/plans")
	planRouter.POST("/create", ginx.Adapt5(p.CreatePlan))
	planRouter.POST("/describe", ginx.Adapt5(p.DescribePlans))
}

func (p *Plan) CreatePlan(ctx *gin.Context, req *entity.CreatePlanRequest) (*entity.CreatePlanResponse, error) {
	logger := zerolog.Ctx(ctx)

	plan, err := p.planService.CreatePlan(ctx, req)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("Failed to create plan")
		return nil, err
	}

	return &entity.CreatePlanResponse{
		Plan: plan,
	}, nil
}

func (p *Plan) DescribePlans(ctx *gin.Context, req *entity.DescribePlansRequest) (*entity.DescribePlansResponse, error) {
	return p.planService.DescribePlans(ctx, req)
}
