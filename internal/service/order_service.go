package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/aurelia-jewels/storefront/internal/constants"
	"github.com/aurelia-jewels/storefront/internal/i18n"
	"github.com/aurelia-jewels/storefront/internal/logger"
	"github.com/aurelia-jewels/storefront/internal/metrics"
	"github.com/aurelia-jewels/storefront/internal/models"
	"github.com/aurelia-jewels/storefront/internal/repository"

	"gorm.io/gorm"
)

// OrderService 订单查询、超时取消与支付通知
type OrderService struct {
	orderRepo        repository.OrderRepository
	paymentRepo      repository.PaymentRepository
	giftCardRepo     repository.GiftCardRepository
	notificationRepo repository.NotificationRepository
}

// NewOrderService 创建订单服务
func NewOrderService(orderRepo repository.OrderRepository, paymentRepo repository.PaymentRepository, giftCardRepo repository.GiftCardRepository, notificationRepo repository.NotificationRepository) *OrderService {
	return &OrderService{
		orderRepo:        orderRepo,
		paymentRepo:      paymentRepo,
		giftCardRepo:     giftCardRepo,
		notificationRepo: notificationRepo,
	}
}

// OrderListInput 订单列表查询参数
type OrderListInput struct {
	Page     int
	PageSize int
	Status   string
	OrderNo  string
}

// ListForCustomer 顾客订单列表
func (s *OrderService) ListForCustomer(customerID uint, input OrderListInput) ([]models.Order, int64, error) {
	if customerID == 0 {
		return nil, 0, ErrInvalidInput
	}
	return s.orderRepo.ListByCustomer(repository.OrderListFilter{
		Page:       input.Page,
		PageSize:   input.PageSize,
		CustomerID: customerID,
		Status:     strings.TrimSpace(input.Status),
		OrderNo:    strings.TrimSpace(input.OrderNo),
	})
}

// GetForCustomer 顾客订单详情
func (s *OrderService) GetForCustomer(customerID, orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByIDAndCustomer(orderID, customerID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// ListAdmin 管理端订单列表
func (s *OrderService) ListAdmin(filter repository.OrderListFilter) ([]models.Order, int64, error) {
	filter.Status = strings.TrimSpace(filter.Status)
	filter.OrderNo = strings.TrimSpace(filter.OrderNo)
	return s.orderRepo.ListAdmin(filter)
}

// CancelExpiredOrder 取消超时未支付订单；订单已支付或已取消时返回 false
func (s *OrderService) CancelExpiredOrder(orderID uint) (bool, error) {
	if orderID == 0 {
		return false, ErrInvalidInput
	}
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return false, err
	}
	if order == nil {
		return false, ErrOrderNotFound
	}
	now := time.Now()
	if order.ExpiresAt != nil && order.ExpiresAt.After(now) {
		return false, nil
	}

	canceled := false
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		ok, err := s.orderRepo.WithTx(tx).TransitionStatus(order.ID,
			[]string{constants.OrderStatusPendingPayment, constants.OrderStatusPaymentFailed},
			constants.OrderStatusCanceled,
			map[string]interface{}{"canceled_at": now, "updated_at": now},
		)
		if err != nil || !ok {
			return err
		}
		canceled = true
		if order.GiftCardID != nil {
			if _, err := s.giftCardRepo.WithTx(tx).Release(*order.GiftCardID, order.ID); err != nil {
				return err
			}
		}
		paymentRepo := s.paymentRepo.WithTx(tx)
		payment, err := paymentRepo.GetLatestByOrder(order.ID)
		if err != nil {
			return err
		}
		if payment == nil || payment.Status != constants.PaymentStatusPending {
			return nil
		}
		return paymentRepo.UpdateFields(payment.ID, map[string]interface{}{
			"status":     constants.PaymentStatusFailed,
			"updated_at": now,
		})
	})
	if err != nil {
		return false, err
	}
	if canceled {
		metrics.ObserveOrderExpired()
		logger.Infow("order_timeout_canceled", "order_id", order.ID, "order_no", order.OrderNo)
	}
	return canceled, nil
}

// SweepExpired 批量取消已过期的待支付订单，返回取消数量
func (s *OrderService) SweepExpired(now time.Time, limit int) (int, error) {
	orders, err := s.orderRepo.ListExpiredPending(now, limit)
	if err != nil {
		return 0, err
	}
	canceled := 0
	for _, order := range orders {
		ok, err := s.CancelExpiredOrder(order.ID)
		if err != nil {
			logger.Warnw("order_sweep_cancel_failed", "order_id", order.ID, "error", err)
			continue
		}
		if ok {
			canceled++
		}
	}
	return canceled, nil
}

// NotifyPaid 为已支付订单写入站内通知
func (s *OrderService) NotifyPaid(orderID, customerID uint) error {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return ErrOrderNotFound
	}
	if order.Status != constants.OrderStatusPaid {
		logger.Warnw("order_paid_notification_skipped", "order_id", order.ID, "status", order.Status)
		return nil
	}
	if customerID == 0 {
		customerID = order.CustomerID
	}
	return s.notificationRepo.Create(&models.Notification{
		CustomerID: customerID,
		Title:      i18n.T(i18n.DefaultLocale, "notification.order_paid_title"),
		Body:       i18n.Sprintf(i18n.DefaultLocale, "notification.order_paid_body", order.OrderNo, order.FinalAmount.String()),
	})
}

func generateOrderNo() string {
	now := time.Now().Format("20060102150405")
	return fmt.Sprintf("AJ%s%s", now, randNumeric(6))
}

func randNumeric(length int) string {
	var b strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			b.WriteString("0")
			continue
		}
		b.WriteString(n.String())
	}
	return b.String()
}
