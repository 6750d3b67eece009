package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/jimyag/gsp/internal/gsp/entity"
	"github.com/jimyag/gsp/internal/gsp/repository"
	"github.com/jimyag/gsp/internal/gsp/repository/model"
	"github.com/jimyag/gsp/pkg/apierror"
	"github.com/jimyag/gsp/pkg/idgen"
)

// AccountService 账户服务
// 余额变动一律走 Ledger，这里只负责账户的创建和查询
type AccountService struct {
	accountRepo repository.AccountRepository
	ledger      *Ledger
	idGen       *idgen.Generator
}

// NewAccountService 创建 Account Service
func NewAccountService(accountRepo repository.AccountRepository, ledger *Ledger) *AccountService {
	return &AccountService{
		accountRepo: accountRepo,
		ledger:      ledger,
		idGen:       idgen.New(),
	}
}

// CreateAccount 创建账户，初始余额为零
func (s *AccountService) CreateAccount(ctx context.Context) (*entity.Account, error) {
	accountID, err := s.idGen.GenerateAccountID()
	if err != nil {
		return nil, apierror.WrapError(apierror.ErrInternalError, "Failed to generate account ID", err)
	}

	now := time.Now()
	m := &model.Account{
		ID:          accountID,
		CoinBalance: decimal.Zero,
		RealBalance: decimal.Zero,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.accountRepo.Create(ctx, m); err != nil {
		return nil, apierror.WrapError(apierror.ErrInternalError, "Failed to save account", err)
	}

	zerolog.Ctx(ctx).Info().Str("account_id", accountID).Msg("Created account")
	return accountModelToEntity(m)
}

// CreditAccount 账户充值
func (s *AccountService) CreditAccount(ctx context.Context, req *entity.CreditAccountRequest) (*entity.Account, error) {
	if err := s.ledger.Credit(ctx, req.AccountID, req.Currency, req.Amount); err != nil {
		return nil, err
	}
	return s.DescribeAccount(ctx, req.AccountID)
}

// DescribeAccount 查询账户
func (s *AccountService) DescribeAccount(ctx context.Context, accountID string) (*entity.Account, error) {
	m, err := s.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.WrapError(apierror.ErrNotFound, fmt.Sprintf("account %s not found", accountID), nil)
		}
		return nil, apierror.WrapError(apierror.ErrInternalError, "Failed to load account", err)
	}
	return accountModelToEntity(m)
}
