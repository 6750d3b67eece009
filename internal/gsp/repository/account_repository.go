package repository

import (
	"context"

	"github.com/jimyag/gsp/internal/gsp/repository/model"
	"gorm.io/gorm"
)

// AccountRepository 账户仓库接口
// 余额修改不在这里提供：余额只能由 Ledger 在序列化事务中改写
type AccountRepository interface {
	Create(ctx context.Context, account *model.Account) error
	GetByID(ctx context.Context, id string) (*model.Account, error)
	List(ctx context.Context) ([]*model.Account, error)
}

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository 创建账户仓库
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

// Create 创建账户
func (r *accountRepository) Create(ctx context.Context, account *model.Account) error {
	return r.db.WithContext(ctx).Create(account).Error
}

// GetByID 根据 ID 获取账户
func (r *accountRepository) GetByID(ctx context.Context, id string) (*model.Account, error) {
	var account model.Account
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// List 列出所有账户
func (r *accountRepository) List(ctx context.Context) ([]*model.Account, error) {
	var accounts []*model.Account
	if err := r.db.WithContext(ctx).Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}
