// Package gsp 提供 GSP 服务器的主入口和初始化逻辑
package gsp

import (
	"context"
	"os"
	"time"

	"github.com/jimmicro/grace"
	"github.com/rs/zerolog"

	"github.com/jimyag/gsp/internal/gsp/api"
	"github.com/jimyag/gsp/internal/gsp/config"
	"github.com/jimyag/gsp/internal/gsp/repository"
	"github.com/jimyag/gsp/internal/gsp/service"
	"github.com/jimyag/gsp/pkg/panel"
)

type Server struct {
	cfg     *config.Config
	repo    *repository.Repository
	api     *api.API
	sweeper *service.Sweeper
}

func New(cfg *config.Config) (*Server, error) {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &logger

	// 1. 打开数据库
	repo, err := repository.New(cfg.DatabasePath())
	if err != nil {
		return nil, err
	}
	logger.Info().Str("path", cfg.DatabasePath()).Msg("Database opened")

	// 2. 创建面板客户端
	panelClient := panel.New(cfg.PanelURL, cfg.PanelAPIKey)

	// 3. 仓库
	accountRepo := repository.NewAccountRepository(repo.DB())
	planRepo := repository.NewPlanRepository(repo.DB())
	instanceRepo := repository.NewInstanceRepository(repo.DB())

	// 4. 业务服务
	ledger := service.NewLedger(repo.DB())
	selector := service.NewSelector(panelClient)
	accountService := service.NewAccountService(accountRepo, ledger)
	planService := service.NewPlanService(planRepo)
	provisionService := service.NewProvisionService(repo.DB(), ledger, selector, panelClient, instanceRepo, planRepo)

	// 5. 生命周期清扫器
	sweeper := service.NewSweeper(ledger, panelClient, instanceRepo, planRepo, cfg.SweepInterval, cfg.GraceWindow)

	// 6. API
	apiInstance, err := api.New(provisionService, planService, accountService, cfg.Address)
	if err != nil {
		return nil, err
	}

	return &Server{
		cfg:     cfg,
		repo:    repo,
		api:     apiInstance,
		sweeper: sweeper,
	}, nil
}

func (s *Server) Run(ctx context.Context) error {
	// 使用 grace.Shepherd 管理服务生命周期
	services := []grace.Grace{
		s.api,
		s.sweeper,
	}

	shepherd := grace.NewShepherd(
		services,
		grace.WithTimeout(30*time.Second),
		grace.WithLogger(&zerologLogger{}),
	)

	shepherd.Start(ctx)
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.api.Shutdown(ctx); err != nil {
		return err
	}
	if err := s.sweeper.Shutdown(ctx); err != nil {
		return err
	}
	return s.repo.Close()
}

// Name 实现 grace.Grace 接口
func (s *Server) Name() string {
	return "GSP Server"
}

// zerologLogger 实现 grace.Logger 接口
type zerologLogger struct{}

func (l *zerologLogger) Info(msg string, args ...interface{}) {
	logger := zerolog.DefaultContextLogger.Info()
	if len(args) > 0 {
		logger.Msgf(msg, args...)
	} else {
		logger.Msg(msg)
	}
}

func (l *zerologLogger) Error(msg string, args ...interface{}) {
	logger := zerolog.DefaultContextLogger.Error()
	if len(args) > 0 {
		logger.Msgf(msg, args...)
	} else {
		logger.Msg(msg)
	}
}
