package repository

import (
	"context"
	"time"

	"github.com/jimyag/gsp/internal/gsp/repository/model"
	"gorm.io/gorm"
)

// InstanceRepository 实例仓库接口
type InstanceRepository interface {
	Create(ctx context.Context, instance *model.Instance) error
	GetByID(ctx context.Context, id string) (*model.Instance, error)
	List(ctx context.Context, filters map[string]interface{}) ([]*model.Instance, error)
	Update(ctx context.Context, instance *model.Instance) error

	// ListExpired 列出已到期仍为 active 的实例
	ListExpired(ctx context.Context, now time.Time) ([]*model.Instance, error)

	// ListGraceExpired 列出宽限期已过仍为 suspended 的实例
	ListGraceExpired(ctx context.Context, now time.Time) ([]*model.Instance, error)
}

type instanceRepository struct {
	db *gorm.DB
}

// NewInstanceRepository 创建实例仓库
func NewInstanceRepository(db *gorm.DB) InstanceRepository {
	return &instanceRepository{db: db}
}

// Create 创建实例
func (r *instanceRepository) Create(ctx context.Context, instance *model.Instance) error {
	return r.db.WithContext(ctx).Create(instance).Error
}

// GetByID 根据 ID 获取实例（包含已删除的记录，由调用方判断状态）
func (r *instanceRepository) GetByID(ctx context.Context, id string) (*model.Instance, error) {
	var instance model.Instance
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&instance).Error; err != nil {
		return nil, err
	}
	return &instance, nil
}

// List 列出实例
func (r *instanceRepository) List(ctx context.Context, filters map[string]interface{}) ([]*model.Instance, error) {
	var instances []*model.Instance
	query := r.db.WithContext(ctx).Model(&model.Instance{})

	// 应用过滤器
	if accountID, ok := filters["account_id"]; ok {
		query = query.Where("account_id = ?", accountID)
	}
	if planID, ok := filters["plan_id"]; ok {
		query = query.Where("plan_id = ?", planID)
	}
	if status, ok := filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if ids, ok := filters["ids"]; ok {
		query = query.Where("id IN ?", ids)
	}

	if err := query.Find(&instances).Error; err != nil {
		return nil, err
	}

	return instances, nil
}

// Update 更新实例
func (r *instanceRepository) Update(ctx context.Context, instance *model.Instance) error {
	return r.db.WithContext(ctx).Save(instance).Error
}

// ListExpired 列出已到期仍为 active 的实例
func (r *instanceRepository) ListExpired(ctx context.Context, now time.Time) ([]*model.Instance, error) {
	var instances []*model.Instance
	err := r.db.WithContext(ctx).
		Where("status = ? AND expires_at <= ?", "active", now).
		Find(&instances).Error
	if err != nil {
		return nil, err
	}
	return instances, nil
}

// ListGraceExpired 列出宽限期已过仍为 suspended 的实例
func (r *instanceRepository) ListGraceExpired(ctx context.Context, now time.Time) ([]*model.Instance, error) {
	var instances []*model.Instance
	err := r.db.WithContext(ctx).
		Where("status = ? AND grace_expires_at <= ?", "suspended", now).
		Find(&instances).Error
	if err != nil {
		return nil, err
	}
	return instances, nil
}
