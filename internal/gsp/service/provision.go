package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/jimyag/gsp/internal/gsp/entity"
	"github.com/jimyag/gsp/internal/gsp/repository"
	"github.com/jimyag/gsp/internal/gsp/repository/model"
	"github.com/jimyag/gsp/pkg/apierror"
	"github.com/jimyag/gsp/pkg/idgen"
	"github.com/jimyag/gsp/pkg/panel"
)

// compensation 一步可回滚的补偿动作
type compensation struct {
	name string
	run  func(ctx context.Context) error
}

// compensationStack 补偿栈
// 购买流程每完成一个有副作用的步骤就压入对应的撤销动作，
// 后续步骤失败时按后进先出的顺序逐个回滚
type compensationStack struct {
	steps []compensation
}

func (s *compensationStack) push(name string, run func(ctx context.Context) error) {
	s.steps = append(s.steps, compensation{name: name, run: run})
}

// unwind 逆序执行所有补偿动作，单步失败不阻断其余补偿
func (s *compensationStack) unwind(ctx context.Context) {
	logger := zerolog.Ctx(ctx)
	for i := len(s.steps) - 1; i >= 0; i-- {
		step := s.steps[i]
		if err := step.run(ctx); err != nil {
			logger.Error().Err(err).Str("step", step.name).Msg("Compensation step failed")
		} else {
			logger.Info().Str("step", step.name).Msg("Compensation step done")
		}
	}
	s.steps = nil
}

// ProvisionService 实例开通与续费服务
type ProvisionService struct {
	db           *gorm.DB
	ledger       *Ledger
	selector     *Selector
	panelClient  panel.Client
	instanceRepo repository.InstanceRepository
	planRepo     repository.PlanRepository
	idGen        *idgen.Generator
}

// NewProvisionService 创建 Provision Service
func NewProvisionService(
	db *gorm.DB,
	ledger *Ledger,
	selector *Selector,
	panelClient panel.Client,
	instanceRepo repository.InstanceRepository,
	planRepo repository.PlanRepository,
) *ProvisionService {
	return &ProvisionService{
		db:           db,
		ledger:       ledger,
		selector:     selector,
		panelClient:  panelClient,
		instanceRepo: instanceRepo,
		planRepo:     planRepo,
		idGen:        idgen.New(),
	}
}

// periodEnd 计算从 from 开始一个计费周期后的到期时间
// lifetime 套餐给一个远期时间，永远不会进入到期清扫
func periodEnd(from time.Time, durationValue int, unit entity.DurationUnit) time.Time {
	switch unit {
	case entity.DurationDay:
		return from.AddDate(0, 0, durationValue)
	case entity.DurationWeek:
		return from.AddDate(0, 0, 7*durationValue)
	case entity.DurationMonth:
		return from.AddDate(0, durationValue, 0)
	case entity.DurationLifetime:
		return from.AddDate(100, 0, 0)
	default:
		return from.AddDate(0, 0, durationValue)
	}
}

// Purchase 购买实例
// 扣款、库存扣减、one_per_account 校验在同一个账本事务中完成，
// 事务内不做任何网络调用；面板侧创建失败时通过补偿栈回滚扣款和库存
func (s *ProvisionService) Purchase(ctx context.Context, req *entity.PurchaseInstanceRequest) (*entity.Instance, error) {
	logger := zerolog.Ctx(ctx)

	plan, err := s.getPlan(ctx, req.PlanID)
	if err != nil {
		return nil, err
	}

	comp := &compensationStack{}

	// 第一步：账本事务（扣款 + 库存 + 持有数校验）
	err = s.ledger.WithDebit(ctx, req.AccountID, entity.Currency(plan.Currency), plan.Price, func(tx *gorm.DB) error {
		// 事务内重读套餐，避免并发购买把库存扣穿
		locked := &model.Plan{}
		if err := tx.Where("id = ?", plan.ID).First(locked).Error; err != nil {
			return apierror.WrapError(apierror.ErrInternalError, "Failed to reload plan", err)
		}
		if locked.Stock == 0 {
			return apierror.WrapError(apierror.ErrOutOfStock, fmt.Sprintf("plan %s is out of stock", plan.ID), nil)
		}

		if locked.OnePerAccount {
			var count int64
			err := tx.Model(&model.Instance{}).
				Where("account_id = ? AND plan_id = ? AND status <> ?", req.AccountID, plan.ID, string(entity.InstanceStatusDeleted)).
				Count(&count).Error
			if err != nil {
				return apierror.WrapError(apierror.ErrInternalError, "Failed to count held instances", err)
			}
			if count > 0 {
				return apierror.WrapError(apierror.ErrAlreadyOwned,
					fmt.Sprintf("account %s already holds an instance of plan %s", req.AccountID, plan.ID), nil)
			}
		}

		if locked.Stock > 0 {
			err := tx.Model(&model.Plan{}).Where("id = ?", plan.ID).
				UpdateColumn("stock", gorm.Expr("stock - 1")).Error
			if err != nil {
				return apierror.WrapError(apierror.ErrInternalError, "Failed to decrement stock", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if plan.Stock > 0 {
		comp.push("restore-stock", func(ctx context.Context) error {
			return s.db.WithContext(ctx).Model(&model.Plan{}).Where("id = ? AND stock >= 0", plan.ID).
				UpdateColumn("stock", gorm.Expr("stock + 1")).Error
		})
	}
	if plan.Price.IsPositive() {
		comp.push("refund-debit", func(ctx context.Context) error {
			return s.ledger.Credit(ctx, req.AccountID, entity.Currency(plan.Currency), plan.Price)
		})
	}

	// 第二步：挑节点（实时库存查询，失败回滚账本）
	placement, err := s.selector.Select(ctx, plan.MemoryMB, plan.DiskMB, req.PreferredNodeID)
	if err != nil {
		comp.unwind(ctx)
		return nil, err
	}

	instanceID, err := s.idGen.GenerateInstanceID()
	if err != nil {
		comp.unwind(ctx)
		return nil, apierror.WrapError(apierror.ErrInternalError, "Failed to generate instance ID", err)
	}
	name := req.Name
	if name == "" {
		name = instanceID
	}

	// 第三步：面板侧创建实例
	externalID, err := s.panelClient.CreateServer(ctx, &panel.CreateServerRequest{
		Name:         name,
		NodeID:       placement.NodeID,
		AllocationID: placement.AllocationID,
		Limits: panel.ServerLimits{
			MemoryMB:   plan.MemoryMB,
			DiskMB:     plan.DiskMB,
			CPUPercent: plan.CPUPercent,
		},
	})
	if err != nil {
		comp.unwind(ctx)
		return nil, apierror.WrapError(apierror.ErrUpstreamFailure, "Failed to create server on panel", err)
	}

	// 第四步：落库
	now := time.Now()
	instance := &model.Instance{
		ID:         instanceID,
		AccountID:  req.AccountID,
		PlanID:     plan.ID,
		ExternalID: externalID,
		Name:       name,
		Status:     string(entity.InstanceStatusActive),
		ExpiresAt:  periodEnd(now, plan.DurationValue, entity.DurationUnit(plan.DurationUnit)),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.instanceRepo.Create(ctx, instance); err != nil {
		// 已经建出来的面板实例要尽力删掉，删不掉只能留给人工对账
		if delErr := s.panelClient.DeleteServer(ctx, externalID); delErr != nil {
			logger.Error().Err(delErr).
				Int64("external_id", externalID).
				Msg("Failed to delete panel server after persist failure, reconciliation required")
		}
		comp.unwind(ctx)
		return nil, apierror.WrapError(apierror.ErrInternalError, "Failed to save instance", err)
	}

	logger.Info().
		Str("instance_id", instanceID).
		Str("account_id", req.AccountID).
		Str("plan_id", plan.ID).
		Int64("node_id", placement.NodeID).
		Int64("external_id", externalID).
		Time("expires_at", instance.ExpiresAt).
		Msg("Purchased instance")

	return instanceModelToEntity(instance)
}

// Renew 续费实例
// 在原到期时间和当前时间中取较晚者为基准延长一个周期；
// 宽限期内的暂停实例续费成功后解除暂停
func (s *ProvisionService) Renew(ctx context.Context, req *entity.RenewInstanceRequest) (*entity.Instance, error) {
	logger := zerolog.Ctx(ctx)

	instance, err := s.instanceRepo.GetByID(ctx, req.InstanceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.WrapError(apierror.ErrNotFound, fmt.Sprintf("instance %s not found", req.InstanceID), nil)
		}
		return nil, apierror.WrapError(apierror.ErrInternalError, "Failed to load instance", err)
	}
	// 不是自己的实例和已删除的实例都按不存在处理
	if instance.AccountID != req.AccountID || instance.Status == string(entity.InstanceStatusDeleted) {
		return nil, apierror.WrapError(apierror.ErrNotFound, fmt.Sprintf("instance %s not found", req.InstanceID), nil)
	}

	plan, err := s.getPlan(ctx, instance.PlanID)
	if err != nil {
		return nil, err
	}

	// 到期基准、状态、宽限期都以事务内重读的行为准，
	// 并发续费时后到的一笔才能看到前一笔已延长的到期时间
	now := time.Now()
	var original model.Instance
	var wasSuspended bool

	err = s.ledger.WithDebit(ctx, req.AccountID, entity.Currency(plan.Currency), plan.Price, func(tx *gorm.DB) error {
		locked := &model.Instance{}
		if err := tx.Where("id = ?", req.InstanceID).First(locked).Error; err != nil {
			return apierror.WrapError(apierror.ErrInternalError, "Failed to reload instance", err)
		}
		if locked.AccountID != req.AccountID || locked.Status == string(entity.InstanceStatusDeleted) {
			return apierror.WrapError(apierror.ErrNotFound, fmt.Sprintf("instance %s not found", req.InstanceID), nil)
		}
		wasSuspended = locked.Status == string(entity.InstanceStatusSuspended)
		if wasSuspended && locked.GraceExpiresAt != nil && !now.Before(*locked.GraceExpiresAt) {
			return apierror.WrapError(apierror.ErrGraceExpired,
				fmt.Sprintf("instance %s grace window elapsed", req.InstanceID), nil)
		}
		original = *locked

		base := locked.ExpiresAt
		if base.Before(now) {
			base = now
		}
		locked.ExpiresAt = periodEnd(base, plan.DurationValue, entity.DurationUnit(plan.DurationUnit))
		if wasSuspended {
			locked.Status = string(entity.InstanceStatusActive)
			locked.SuspendedAt = nil
			locked.GraceExpiresAt = nil
		}
		locked.UpdatedAt = now
		instance = locked
		return tx.Save(locked).Error
	})
	if err != nil {
		return nil, err
	}

	if wasSuspended {
		if err := s.panelClient.UnsuspendServer(ctx, instance.ExternalID); err != nil {
			// 解除暂停失败：退款并把实例恢复原状，下次续费重试
			if plan.Price.IsPositive() {
				if refundErr := s.ledger.Credit(ctx, req.AccountID, entity.Currency(plan.Currency), plan.Price); refundErr != nil {
					logger.Error().Err(refundErr).Str("instance_id", instance.ID).Msg("Failed to refund renewal")
				}
			}
			if restoreErr := s.instanceRepo.Update(ctx, &original); restoreErr != nil {
				logger.Error().Err(restoreErr).Str("instance_id", instance.ID).Msg("Failed to restore instance after unsuspend failure")
			}
			return nil, apierror.WrapError(apierror.ErrUpstreamFailure, "Failed to unsuspend server on panel", err)
		}
	}

	logger.Info().
		Str("instance_id", instance.ID).
		Str("account_id", req.AccountID).
		Time("expires_at", instance.ExpiresAt).
		Bool("was_suspended", wasSuspended).
		Msg("Renewed instance")

	return instanceModelToEntity(instance)
}

// DescribeInstances 查询实例
func (s *ProvisionService) DescribeInstances(ctx context.Context, req *entity.DescribeInstancesRequest) (*entity.DescribeInstancesResponse, error) {
	filters := map[string]interface{}{}
	if req.AccountID != "" {
		filters["account_id"] = req.AccountID
	}
	if len(req.InstanceIDs) > 0 {
		filters["ids"] = req.InstanceIDs
	}
	if req.Status != "" {
		filters["status"] = string(req.Status)
	}

	models, err := s.instanceRepo.List(ctx, filters)
	if err != nil {
		return nil, apierror.WrapError(apierror.ErrInternalError, "Failed to list instances", err)
	}

	instances := make([]entity.Instance, 0, len(models))
	for _, m := range models {
		e, err := instanceModelToEntity(m)
		if err != nil {
			return nil, apierror.WrapError(apierror.ErrInternalError, "Failed to convert instance", err)
		}
		instances = append(instances, *e)
	}
	return &entity.DescribeInstancesResponse{Instances: instances}, nil
}

// getPlan 按 ID 加载套餐
func (s *ProvisionService) getPlan(ctx context.Context, planID string) (*model.Plan, error) {
	m, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.WrapError(apierror.ErrNotFound, fmt.Sprintf("plan %s not found", planID), nil)
		}
		return nil, apierror.WrapError(apierror.ErrInternalError, "Failed to load plan", err)
	}
	return m, nil
}
