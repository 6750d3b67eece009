package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/jimyag/gsp/internal/gsp/entity"
	"github.com/jimyag/gsp/internal/gsp/repository"
	"github.com/jimyag/gsp/internal/gsp/repository/model"
	"github.com/jimyag/gsp/pkg/apierror"
	"github.com/jimyag/gsp/pkg/idgen"
)

// PlanService 套餐服务
type PlanService struct {
	planRepo repository.PlanRepository
	idGen    *idgen.Generator
}

// NewPlanService 创建 Plan Service
func NewPlanService(planRepo repository.PlanRepository) *PlanService {
	return &PlanService{
		planRepo: planRepo,
		idGen:    idgen.New(),
	}
}

// CreatePlan 创建套餐
func (s *PlanService) CreatePlan(ctx context.Context, req *entity.CreatePlanRequest) (*entity.Plan, error) {
	logger := zerolog.Ctx(ctx)

	planID, err := s.idGen.GeneratePlanID()
	if err != nil {
		return nil, apierror.WrapError(apierror.ErrInternalError, "Failed to generate plan ID", err)
	}

	now := time.Now()
	m := &model.Plan{
		ID:            planID,
		Name:          req.Name,
		Currency:      string(req.Currency),
		Price:         req.Price,
		MemoryMB:      req.MemoryMB,
		DiskMB:        req.DiskMB,
		CPUPercent:    req.CPUPercent,
		DurationValue: req.DurationValue,
		DurationUnit:  string(req.DurationUnit),
		Stock:         req.Stock,
		OnePerAccount: req.OnePerAccount,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.planRepo.Create(ctx, m); err != nil {
		return nil, apierror.WrapError(apierror.ErrInternalError, "Failed to save plan", err)
	}

	logger.Info().
		Str("plan_id", planID).
		Str("name", req.Name).
		Str("price", req.Price.String()).
		Msg("Created plan")

	return planModelToEntity(m)
}

// DescribePlans 查询套餐，planIDs 为空时返回全部
func (s *PlanService) DescribePlans(ctx context.Context, req *entity.DescribePlansRequest) (*entity.DescribePlansResponse, error) {
	models, err := s.planRepo.List(ctx, req.PlanIDs)
	if err != nil {
		return nil, apierror.WrapError(apierror.ErrInternalError, "Failed to list plans", err)
	}

	plans := make([]entity.Plan, 0, len(models))
	for _, m := range models {
		e, err := planModelToEntity(m)
		if err != nil {
			return nil, apierror.WrapError(apierror.ErrInternalError, "Failed to convert plan", err)
		}
		plans = append(plans, *e)
	}
	return &entity.DescribePlansResponse{Plans: plans}, nil
}
