package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/jimyag/gsp/internal/gsp/entity"
	"github.com/jimyag/gsp/internal/gsp/repository"
	"github.com/jimyag/gsp/internal/gsp/repository/model"
	"github.com/jimyag/gsp/pkg/apierror"
	"github.com/jimyag/gsp/pkg/panel"
)

const (
	// DefaultSweepInterval 默认清扫间隔
	DefaultSweepInterval = time.Minute
	// DefaultGraceWindow 默认宽限期时长
	DefaultGraceWindow = 12 * time.Hour
)

// Sweeper 生命周期清扫器
// 定时做两轮扫描：到期的 active 实例先尝试自动续费扣款，
// 扣不动的暂停进入宽限期；宽限期过了的 suspended 实例回收删除。
// 每轮对单个实例的失败只记日志，不影响同批其他实例
type Sweeper struct {
	ledger       *Ledger
	panelClient  panel.Client
	instanceRepo repository.InstanceRepository
	planRepo     repository.PlanRepository

	interval    time.Duration
	graceWindow time.Duration
	done        chan struct{}
}

// NewSweeper 创建 Sweeper
func NewSweeper(
	ledger *Ledger,
	panelClient panel.Client,
	instanceRepo repository.InstanceRepository,
	planRepo repository.PlanRepository,
	interval time.Duration,
	graceWindow time.Duration,
) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	if graceWindow <= 0 {
		graceWindow = DefaultGraceWindow
	}
	return &Sweeper{
		ledger:       ledger,
		panelClient:  panelClient,
		instanceRepo: instanceRepo,
		planRepo:     planRepo,
		interval:     interval,
		graceWindow:  graceWindow,
		done:         make(chan struct{}),
	}
}

// Name 实现 grace.Grace 接口
func (s *Sweeper) Name() string {
	return "Lifecycle Sweeper"
}

// Run 启动定时清扫循环，阻塞直到 Shutdown 或 ctx 取消
func (s *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	zerolog.Ctx(ctx).Info().
		Dur("interval", s.interval).
		Dur("grace_window", s.graceWindow).
		Msg("Sweeper started")

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.done:
			return nil
		case <-ticker.C:
			s.sweepOnce(ctx, time.Now())
		}
	}
}

// Shutdown 停止清扫循环
func (s *Sweeper) Shutdown(ctx context.Context) error {
	close(s.done)
	return nil
}

// sweepOnce 执行一轮完整清扫，先到期处理再宽限期回收
// 同一轮重复执行是幂等的：状态推进后实例不再命中扫描条件
func (s *Sweeper) sweepOnce(ctx context.Context, now time.Time) {
	s.sweepExpired(ctx, now)
	s.sweepGraceExpired(ctx, now)
}

// sweepExpired 到期处理：优先尝试自动续费，余额不足再暂停
func (s *Sweeper) sweepExpired(ctx context.Context, now time.Time) {
	logger := zerolog.Ctx(ctx)

	expired, err := s.instanceRepo.ListExpired(ctx, now)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list expired instances")
		return
	}

	for _, instance := range expired {
		if err := s.handleExpired(ctx, instance, now); err != nil {
			logger.Error().Err(err).Str("instance_id", instance.ID).Msg("Failed to handle expired instance")
		}
	}
}

// errSweepSkip 实例已被并发的续费或清扫处理过，本轮跳过
var errSweepSkip = errors.New("instance no longer expired")

// handleExpired 处理单个到期实例
func (s *Sweeper) handleExpired(ctx context.Context, instance *model.Instance, now time.Time) error {
	logger := zerolog.Ctx(ctx)

	plan, err := s.planRepo.GetByID(ctx, instance.PlanID)
	if err != nil {
		return err
	}

	// 先尝试自动续费：扣款和延期在同一个事务里，
	// 相邻两轮清扫重叠时第二次的事务会看到新的到期时间，不会重复扣费
	debitErr := s.ledger.WithDebit(ctx, instance.AccountID, entity.Currency(plan.Currency), plan.Price, func(tx *gorm.DB) error {
		current := &model.Instance{}
		if err := tx.Where("id = ?", instance.ID).First(current).Error; err != nil {
			return err
		}
		if current.Status != string(entity.InstanceStatusActive) || current.ExpiresAt.After(now) {
			return errSweepSkip
		}
		current.ExpiresAt = periodEnd(now, plan.DurationValue, entity.DurationUnit(plan.DurationUnit))
		current.UpdatedAt = now
		return tx.Save(current).Error
	})
	if debitErr == nil {
		logger.Info().Str("instance_id", instance.ID).Msg("Auto-renewed instance")
		return nil
	}
	if errors.Is(debitErr, errSweepSkip) {
		return nil
	}
	if !errors.Is(debitErr, apierror.ErrInsufficientFunds) {
		logger.Warn().Err(debitErr).Str("instance_id", instance.ID).Msg("Auto-renew charge failed, suspending")
	}

	// 续费没扣成：面板侧先暂停，暂停成功才推进状态，
	// 暂停失败保持 active 等下一轮重试
	if err := s.panelClient.SuspendServer(ctx, instance.ExternalID); err != nil {
		return err
	}

	suspendedAt := now
	graceExpiresAt := now.Add(s.graceWindow)
	instance.Status = string(entity.InstanceStatusSuspended)
	instance.SuspendedAt = &suspendedAt
	instance.GraceExpiresAt = &graceExpiresAt
	instance.UpdatedAt = now
	if err := s.instanceRepo.Update(ctx, instance); err != nil {
		return err
	}

	logger.Info().
		Str("instance_id", instance.ID).
		Time("grace_expires_at", graceExpiresAt).
		Msg("Suspended expired instance")
	return nil
}

// sweepGraceExpired 宽限期回收：面板删除成功才标记 deleted
func (s *Sweeper) sweepGraceExpired(ctx context.Context, now time.Time) {
	logger := zerolog.Ctx(ctx)

	reclaimable, err := s.instanceRepo.ListGraceExpired(ctx, now)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list grace-expired instances")
		return
	}

	for _, instance := range reclaimable {
		if err := s.panelClient.DeleteServer(ctx, instance.ExternalID); err != nil {
			logger.Error().Err(err).Str("instance_id", instance.ID).Msg("Failed to delete server on panel")
			continue
		}

		instance.Status = string(entity.InstanceStatusDeleted)
		instance.UpdatedAt = now
		if err := s.instanceRepo.Update(ctx, instance); err != nil {
			logger.Error().Err(err).Str("instance_id", instance.ID).Msg("Failed to mark instance deleted")
			continue
		}

		logger.Info().Str("instance_id", instance.ID).Msg("Reclaimed instance after grace window")
	}
}
