package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/jimyag/gsp/internal/gsp/entity"
	"github.com/jimyag/gsp/internal/gsp/service"
	"github.com/jimyag/gsp/pkg/ginx"
)

// InstanceServiceInterface 定义实例开通服务的接口
type InstanceServiceInterface interface {
	Purchase(ctx context.Context, req *entity.PurchaseInstanceRequest) (*entity.Instance, error)
	Renew(ctx context.Context, req *entity.RenewInstanceRequest) (*entity.Instance, error)
	DescribeInstances(ctx context.Context, req *entity.DescribeInstancesRequest) (*entity.DescribeInstancesResponse, error)
}

type Instance struct {
	provisionService InstanceServiceInterface
}

func NewInstance(provisionService *service.ProvisionService) *Instance {
	return &Instance{
		provisionService: provisionService,
	}
}

func (i *Instance) RegisterRoutes(router *gin.RouterGroup) {
	// 购买/续费是商店操作，实例查询挂在 instances 下
	storeRouter := router.Group("/store")
	storeRouter.POST("/purchase", ginx.Adapt5(i.PurchaseInstance))
	storeRouter.POST("/renew", ginx.Adapt5(i.RenewInstance))

	instanceRouter := router.Group("/instances")
	instanceRouter.POST("/describe", ginx.Adapt5(i.DescribeInstances))
}

func (i *Instance) PurchaseInstance(ctx *gin.Context, req *entity.PurchaseInstanceRequest) (*entity.PurchaseInstanceResponse, error) {
	logger := zerolog.Ctx(ctx)
	logger.Info().
		Str("account_id", req.AccountID).
		Str("plan_id", req.PlanID).
		Msg("PurchaseInstance called")

	instance, err := i.provisionService.Purchase(ctx, req)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("Failed to purchase instance")
		return nil, err
	}

	return &entity.PurchaseInstanceResponse{
		Instance: instance,
	}, nil
}

func (i *Instance) RenewInstance(ctx *gin.Context, req *entity.RenewInstanceRequest) (*entity.RenewInstanceResponse, error) {
	logger := zerolog.Ctx(ctx)
	logger.Info().
		Str("account_id", req.AccountID).
		Str("instance_id", req.InstanceID).
		Msg("RenewInstance called")

	instance, err := i.provisionService.Renew(ctx, req)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("Failed to renew instance")
		return nil, err
	}

	return &entity.RenewInstanceResponse{
		Instance: instance,
	}, nil
}

func (i *Instance) DescribeInstances(ctx *gin.Context, req *entity.DescribeInstancesRequest) (*entity.DescribeInstancesResponse, error) {
	return i.provisionService.DescribeInstances(ctx, req)
}
