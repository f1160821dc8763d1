package queue

import (
	"encoding/json"

	"github.com/aurelia-jewels/storefront/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskOrderPaidNotification 订单支付成功通知任务
	TaskOrderPaidNotification = constants.TaskOrderPaidNotification
	// TaskOrderTimeoutCancel 超时取消任务
	TaskOrderTimeoutCancel = constants.TaskOrderTimeoutCancel
)

// OrderPaidNotificationPayload 支付成功通知任务载荷
type OrderPaidNotificationPayload struct {
	OrderID    uint `json:"order_id"`
	CustomerID uint `json:"customer_id"`
}

// OrderTimeoutCancelPayload 超时取消任务载荷
type OrderTimeoutCancelPayload struct {
	OrderID uint `json:"order_id"`
}

// NewOrderPaidNotificationTask 创建支付成功通知任务
func NewOrderPaidNotificationTask(payload OrderPaidNotificationPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderPaidNotification, body), nil
}

// NewOrderTimeoutCancelTask 创建超时取消任务
func NewOrderTimeoutCancelTask(payload OrderTimeoutCancelPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderTimeoutCancel, body), nil
}
