package queue

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aurelia-jewels/storefront/internal/config"
	"github.com/aurelia-jewels/storefront/internal/constants"
	"github.com/aurelia-jewels/storefront/internal/logger"

	"github.com/hibiken/asynq"
)

const (
	// DefaultQueue 超时取消等普通任务
	DefaultQueue = constants.QueueDefault
	// CriticalQueue 支付成功通知
	CriticalQueue = constants.QueueCritical

	paidNotificationMaxRetry  = 5
	paidNotificationRetention = 24 * time.Hour
)

// Client 订单任务投递客户端；未启用队列时所有投递为空操作
type Client struct {
	client *asynq.Client
}

// NewClient 创建队列客户端
func NewClient(cfg *config.QueueConfig) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		return &Client{}, nil
	}
	return &Client{client: asynq.NewClient(buildRedisOpt(cfg))}, nil
}

// Enabled 判断是否启用
func (c *Client) Enabled() bool {
	return c != nil && c.client != nil
}

// Close 关闭客户端
func (c *Client) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.client.Close()
}

// EnqueueOrderPaidNotification 投递支付成功通知；同一订单只投递一次
func (c *Client) EnqueueOrderPaidNotification(payload OrderPaidNotificationPayload) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewOrderPaidNotificationTask(payload)
	if err != nil {
		return err
	}
	return c.enqueueOnce(task, fmt.Sprintf("order-paid-%d", payload.OrderID),
		asynq.Queue(CriticalQueue),
		asynq.MaxRetry(paidNotificationMaxRetry),
		asynq.Retention(paidNotificationRetention),
	)
}

// EnqueueOrderTimeoutCancel 投递订单超时取消，delay 为支付截止前的剩余时间
func (c *Client) EnqueueOrderTimeoutCancel(payload OrderTimeoutCancelPayload, delay time.Duration) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewOrderTimeoutCancelTask(payload)
	if err != nil {
		return err
	}
	if delay < 0 {
		delay = 0
	}
	return c.enqueueOnce(task, fmt.Sprintf("order-timeout-%d", payload.OrderID),
		asynq.Queue(DefaultQueue),
		asynq.ProcessIn(delay),
	)
}

// enqueueOnce 以任务 ID 去重，重复投递视为成功
func (c *Client) enqueueOnce(task *asynq.Task, taskID string, opts ...asynq.Option) error {
	opts = append(opts, asynq.TaskID(taskID))
	info, err := c.client.Enqueue(task, opts...)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		logger.Debugw("queue_task_duplicate", "type", task.Type(), "task_id", taskID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("enqueue %s: %w", task.Type(), err)
	}
	logger.Debugw("queue_task_enqueued", "type", task.Type(), "task_id", taskID, "queue", info.Queue)
	return nil
}

// BuildServerConfig 生成 Worker 配置，通知队列优先于超时队列
func BuildServerConfig(cfg *config.QueueConfig) (asynq.RedisClientOpt, asynq.Config) {
	concurrency := 10
	queues := map[string]int{CriticalQueue: 6, DefaultQueue: 3}
	if cfg != nil {
		if cfg.Concurrency > 0 {
			concurrency = cfg.Concurrency
		}
		if len(cfg.Queues) > 0 {
			queues = cfg.Queues
		}
	}
	return buildRedisOpt(cfg), asynq.Config{
		Concurrency: concurrency,
		Queues:      queues,
	}
}

func buildRedisOpt(cfg *config.QueueConfig) asynq.RedisClientOpt {
	opt := asynq.RedisClientOpt{Addr: "127.0.0.1:6379"}
	if cfg == nil {
		return opt
	}
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.Port
	if port <= 0 {
		port = 6379
	}
	opt.Addr = fmt.Sprintf("%s:%d", host, port)
	opt.Password = cfg.Password
	opt.DB = cfg.DB
	return opt
}
