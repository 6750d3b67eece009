// Package service 提供业务逻辑层的服务实现
package service

import (
	"time"

	"github.com/jinzhu/copier"

	"github.com/jimyag/gsp/internal/gsp/entity"
	"github.com/jimyag/gsp/internal/gsp/repository/model"
)

// instanceModelToEntity 将 model.Instance 转换为 entity.Instance
func instanceModelToEntity(m *model.Instance) (*entity.Instance, error) {
	e := &entity.Instance{}
	if err := copier.Copy(e, m); err != nil {
		return nil, err
	}

	// 处理时间和状态字段
	e.Status = entity.InstanceStatus(m.Status)
	e.ExpiresAt = m.ExpiresAt.Format(time.RFC3339)
	e.CreatedAt = m.CreatedAt.Format(time.RFC3339)
	if m.SuspendedAt != nil {
		e.SuspendedAt = m.SuspendedAt.Format(time.RFC3339)
	}
	if m.GraceExpiresAt != nil {
		e.GraceExpiresAt = m.GraceExpiresAt.Format(time.RFC3339)
	}

	return e, nil
}

// planModelToEntity 将 model.Plan 转换为 entity.Plan
func planModelToEntity(m *model.Plan) (*entity.Plan, error) {
	e := &entity.Plan{}
	if err := copier.Copy(e, m); err != nil {
		return nil, err
	}

	e.Currency = entity.Currency(m.Currency)
	e.DurationUnit = entity.DurationUnit(m.DurationUnit)
	e.CreatedAt = m.CreatedAt.Format(time.RFC3339)

	return e, nil
}

// planEntityToModel 将 entity.Plan 转换为 model.Plan
func planEntityToModel(e *entity.Plan) (*model.Plan, error) {
	m := &model.Plan{}
	if err := copier.Copy(m, e); err != nil {
		return nil, err
	}

	m.Currency = string(e.Currency)
	m.DurationUnit = string(e.DurationUnit)
	if e.CreatedAt != "" {
		if t, err := time.Parse(time.RFC3339, e.CreatedAt); err == nil {
			m.CreatedAt = t
		} else {
			m.CreatedAt = time.Now()
		}
	} else {
		m.CreatedAt = time.Now()
	}
	m.UpdatedAt = time.Now()

	return m, nil
}

// accountModelToEntity 将 model.Account 转换为 entity.Account
func accountModelToEntity(m *model.Account) (*entity.Account, error) {
	e := &entity.Account{}
	if err := copier.Copy(e, m); err != nil {
		return nil, err
	}

	e.CreatedAt = m.CreatedAt.Format(time.RFC3339)

	return e, nil
}
