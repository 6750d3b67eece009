package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/jimyag/gsp/internal/gsp/entity"
	"github.com/jimyag/gsp/internal/gsp/service"
	"github.com/jimyag/gsp/pkg/ginx"
)

// AccountServiceInterface 定义账户服务的接口
type AccountServiceInterface interface {
	CreateAccount(ctx context.Context) (*entity.Account, error)
	CreditAccount(ctx context.Context, req *entity.CreditAccountRequest) (*entity.Account, error)
	DescribeAccount(ctx context.Context, accountID string) (*entity.Account, error)
}

type Account struct {
	accountService AccountServiceInterface
}

func NewAccount(accountService *service.AccountService) *Account {
	return &Account{
		accountService: accountService,
	}
}

func (a *Account) RegisterRoutes(router *gin.RouterGroup) {
	accountRouter := router.Group("/accounts")
	accountRouter.POST("/create", ginx.Adapt3(a.CreateAccount))
	accountRouter.POST("/credit", ginx.Adapt5(a.CreditAccount))
	accountRouter.POST("/describe", ginx.Adapt5(a.DescribeAccount))
}

func (a *Account) CreateAccount(ctx *gin.Context) (*entity.CreateAccountResponse, error) {
	logger := zerolog.Ctx(ctx)

	account, err := a.accountService.CreateAccount(ctx)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("Failed to create account")
		return nil, err
	}

	return &entity.CreateAccountResponse{
		Account: account,
	}, nil
}

func (a *Account) CreditAccount(ctx *gin.Context, req *entity.CreditAccountRequest) (*entity.CreditAccountResponse, error) {
	logger := zerolog.Ctx(ctx)
	logger.Info().
		Str("account_id", req.AccountID).
		Str("currency", string(req.Currency)).
		Str("amount", req.Amount.String()).
		Msg("CreditAccount called")

	account, err := a.accountService.CreditAccount(ctx, req)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("Failed to credit account")
		return nil, err
	}

	return &entity.CreditAccountResponse{
		Account: account,
	}, nil
}

func (a *Account) DescribeAccount(ctx *gin.Context, req *entity.DescribeAccountRequest) (*entity.DescribeAccountResponse, error) {
	account, err := a.accountService.DescribeAccount(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}
	return &entity.DescribeAccountResponse{
		Account: account,
	}, nil
}
