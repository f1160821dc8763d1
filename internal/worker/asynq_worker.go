package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/aurelia-jewels/storefront/internal/logger"
	"github.com/aurelia-jewels/storefront/internal/provider"
	"github.com/aurelia-jewels/storefront/internal/queue"
	"github.com/aurelia-jewels/storefront/internal/service"

	"github.com/hibiken/asynq"
)

// OrderJobs 订单相关后台任务
type OrderJobs interface {
	CancelExpiredOrder(orderID uint) (bool, error)
	SweepExpired(now time.Time, limit int) (int, error)
	NotifyPaid(orderID, customerID uint) error
}

// Consumer 异步任务消费者
type Consumer struct {
	orders OrderJobs
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	if c == nil || c.OrderService == nil {
		return &Consumer{}
	}
	return &Consumer{orders: c.OrderService}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderPaidNotification, c.handleOrderPaidNotification)
	mux.HandleFunc(queue.TaskOrderTimeoutCancel, c.handleOrderTimeoutCancel)
}

func (c *Consumer) handleOrderPaidNotification(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_paid_notification_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderPaidNotificationPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_paid_notification_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_paid_notification_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}
	if c.orders == nil {
		logger.Warnw("worker_order_paid_notification_skip_order_service_nil", "order_id", payload.OrderID)
		return nil
	}
	if err := c.orders.NotifyPaid(payload.OrderID, payload.CustomerID); err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			logger.Debugw("worker_order_paid_notification_skip_order_not_found", "order_id", payload.OrderID)
			return nil
		}
		logger.Warnw("worker_order_paid_notification_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	return nil
}

func (c *Consumer) handleOrderTimeoutCancel(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_timeout_cancel_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.OrderTimeoutCancelPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_order_timeout_cancel_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == 0 {
		logger.Debugw("worker_order_timeout_cancel_skip_invalid_payload", "order_id", payload.OrderID)
		return nil
	}
	if c.orders == nil {
		logger.Warnw("worker_order_timeout_cancel_skip_order_service_nil", "order_id", payload.OrderID)
		return nil
	}
	canceled, err := c.orders.CancelExpiredOrder(payload.OrderID)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			logger.Debugw("worker_order_timeout_cancel_skip_order_not_found", "order_id", payload.OrderID)
			return nil
		}
		logger.Warnw("worker_order_timeout_cancel_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	if !canceled {
		logger.Debugw("worker_order_timeout_cancel_skip_settled", "order_id", payload.OrderID)
	}
	return nil
}

// sweepOnce 兜底取消已过期但未收到延时任务的订单
func (c *Consumer) sweepOnce(now time.Time) {
	if c == nil || c.orders == nil {
		return
	}
	canceled, err := c.orders.SweepExpired(now, sweepBatchSize)
	if err != nil {
		logger.Warnw("worker_order_sweep_failed", "error", err)
		return
	}
	if canceled > 0 {
		logger.Infow("worker_order_sweep_done", "canceled", canceled)
	}
}
