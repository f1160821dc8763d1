package worker

import (
	"context"
	"errors"
	"time"

	"github.com/aurelia-jewels/storefront/internal/config"
	"github.com/aurelia-jewels/storefront/internal/queue"

	"github.com/hibiken/asynq"
)

const (
	sweepInterval  = time.Minute
	sweepBatchSize = 100
)

// Service 异步队列服务，同时负责过期订单兜底扫描
type Service struct {
	name     string
	server   *asynq.Server
	mux      *asynq.ServeMux
	consumer *Consumer
}

// NewService 创建异步队列服务
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:     "worker",
		server:   server,
		mux:      mux,
		consumer: consumer,
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	go runSweepLoop(ctx, s.consumer, sweepInterval)
	return s.server.Run(s.mux)
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

// Sweeper 未启用队列时单独运行的过期订单扫描
type Sweeper struct {
	consumer *Consumer
	interval time.Duration
}

// NewSweeper 创建过期订单扫描服务
func NewSweeper(consumer *Consumer) *Sweeper {
	return &Sweeper{consumer: consumer, interval: sweepInterval}
}

// Name 服务名称
func (s *Sweeper) Name() string {
	return "order_sweeper"
}

// Start 阻塞运行直到 ctx 结束
func (s *Sweeper) Start(ctx context.Context) error {
	if s == nil || s.consumer == nil {
		return errors.New("sweeper not initialized")
	}
	runSweepLoop(ctx, s.consumer, s.interval)
	return nil
}

// Stop 停止服务
func (s *Sweeper) Stop(context.Context) error {
	return nil
}

func runSweepLoop(ctx context.Context, consumer *Consumer, interval time.Duration) {
	if consumer == nil {
		return
	}
	if interval <= 0 {
		interval = sweepInterval
	}
	consumer.sweepOnce(time.Now())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			consumer.sweepOnce(now)
		}
	}
}
