package repository

import (
	"context"

	"github.com/jimyag/gsp/internal/gsp/repository/model"
	"gorm.io/gorm"
)

// PlanRepository 套餐仓库接口
// 库存的扣减/恢复必须在购买事务内通过 *gorm.DB 直接操作，见 service.Ledger
type PlanRepository interface {
	Create(ctx context.Context, plan *model.Plan) error
	GetByID(ctx context.Context, id string) (*model.Plan, error)
	List(ctx context.Context, ids []string) ([]*model.Plan, error)
	Update(ctx context.Context, plan *model.Plan) error
}

type planRepository struct {
	db *gorm.DB
}

// NewPlanRepository 创建套餐仓库
func NewPlanRepository(db *gorm.DB) PlanRepository {
	return &planRepository{db: db}
}

// Create 创建套餐
func (r *planRepository) Create(ctx context.Context, plan *model.Plan) error {
	return r.db.WithContext(ctx).Create(plan).Error
}

// GetByID 根据 ID 获取套餐
func (r *planRepository) GetByID(ctx context.Context, id string) (*model.Plan, error) {
	var plan model.Plan
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&plan).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

// List 列出套餐，ids 为空时返回全部
func (r *planRepository) List(ctx context.Context, ids []string) ([]*model.Plan, error) {
	var plans []*model.Plan
	query := r.db.WithContext(ctx).Model(&model.Plan{})
	if len(ids) > 0 {
		query = query.Where("id IN ?", ids)
	}
	if err := query.Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

// Update 更新套餐
func (r *planRepository) Update(ctx context.Context, plan *model.Plan) error {
	return r.db.WithContext(ctx).Save(plan).Error
}
