package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aurelia-jewels/storefront/internal/constants"
	"github.com/aurelia-jewels/storefront/internal/models"
	"github.com/aurelia-jewels/storefront/internal/repository"

	"gorm.io/gorm"
)

func newOrderServiceForTest(db *gorm.DB) *OrderService {
	return NewOrderService(
		repository.NewOrderRepository(db),
		repository.NewPaymentRepository(db),
		repository.NewGiftCardRepository(db),
		repository.NewNotificationRepository(db),
	)
}

func seedPendingOrder(t *testing.T, db *gorm.DB, customerID uint, orderNo string, expiresAt time.Time) (models.Order, models.Payment) {
	t.Helper()
	order := models.Order{
		OrderNo:       orderNo,
		CustomerID:    customerID,
		AddressID:     1,
		PaymentMethod: constants.PaymentMethodRazorpay,
		Status:        constants.OrderStatusPendingPayment,
		Currency:      constants.BaseCurrencyCode,
		TotalAmount:   models.MustMoney("3000.00"),
		FinalAmount:   models.MustMoney("3000.00"),
		ExpiresAt:     &expiresAt,
	}
	mustCreate(t, db, &order)
	payment := models.Payment{
		OrderID:        order.ID,
		Provider:       constants.PaymentMethodRazorpay,
		GatewayOrderID: "order_" + orderNo,
		Amount:         order.FinalAmount,
		Currency:       order.Currency,
		Status:         constants.PaymentStatusPending,
	}
	mustCreate(t, db, &payment)
	return order, payment
}

func TestCancelExpiredOrder(t *testing.T) {
	db := setupServiceTestDB(t, "order_cancel_expired")
	svc := newOrderServiceForTest(db)
	customer := seedCustomer(t, db, "asha@example.com")

	expired, payment := seedPendingOrder(t, db, customer.ID, "AJ-EXPIRED", time.Now().Add(-time.Minute))
	canceled, err := svc.CancelExpiredOrder(expired.ID)
	if err != nil {
		t.Fatalf("cancel expired order failed: %v", err)
	}
	if !canceled {
		t.Fatalf("expired order should be canceled")
	}
	var reloaded models.Order
	if err := db.First(&reloaded, expired.ID).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if reloaded.Status != constants.OrderStatusCanceled || reloaded.CanceledAt == nil {
		t.Fatalf("order want canceled with canceled_at, got %s", reloaded.Status)
	}
	var reloadedPayment models.Payment
	if err := db.First(&reloadedPayment, payment.ID).Error; err != nil {
		t.Fatalf("reload payment failed: %v", err)
	}
	if reloadedPayment.Status != constants.PaymentStatusFailed {
		t.Fatalf("pending payment want failed got %s", reloadedPayment.Status)
	}

	again, err := svc.CancelExpiredOrder(expired.ID)
	if err != nil || again {
		t.Fatalf("second cancel should be a no-op, got canceled=%v err=%v", again, err)
	}

	live, _ := seedPendingOrder(t, db, customer.ID, "AJ-LIVE", time.Now().Add(10*time.Minute))
	canceled, err = svc.CancelExpiredOrder(live.ID)
	if err != nil || canceled {
		t.Fatalf("order within payment window must stay pending, got canceled=%v err=%v", canceled, err)
	}

	if _, err := svc.CancelExpiredOrder(9999); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("missing order want ErrOrderNotFound got %v", err)
	}
}

func TestSweepExpired(t *testing.T) {
	db := setupServiceTestDB(t, "order_sweep_expired")
	svc := newOrderServiceForTest(db)
	customer := seedCustomer(t, db, "ravi@example.com")

	now := time.Now()
	seedPendingOrder(t, db, customer.ID, "AJ-OLD-1", now.Add(-2*time.Minute))
	seedPendingOrder(t, db, customer.ID, "AJ-OLD-2", now.Add(-time.Minute))
	live, _ := seedPendingOrder(t, db, customer.ID, "AJ-FRESH", now.Add(15*time.Minute))

	count, err := svc.SweepExpired(now, 10)
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("sweep want 2 canceled got %d", count)
	}
	var reloaded models.Order
	if err := db.First(&reloaded, live.ID).Error; err != nil {
		t.Fatalf("reload order failed: %v", err)
	}
	if reloaded.Status != constants.OrderStatusPendingPayment {
		t.Fatalf("fresh order want pending_payment got %s", reloaded.Status)
	}

	count, err = svc.SweepExpired(now, 10)
	if err != nil || count != 0 {
		t.Fatalf("second sweep want 0 got %d err=%v", count, err)
	}
}

func TestNotifyPaid(t *testing.T) {
	db := setupServiceTestDB(t, "order_notify_paid")
	svc := newOrderServiceForTest(db)
	customer := seedCustomer(t, db, "meera@example.com")

	order, _ := seedPendingOrder(t, db, customer.ID, "AJ-PAID", time.Now().Add(10*time.Minute))

	if err := svc.NotifyPaid(order.ID, customer.ID); err != nil {
		t.Fatalf("notify unpaid order failed: %v", err)
	}
	var count int64
	db.Model(&models.Notification{}).Where("customer_id = ?", customer.ID).Count(&count)
	if count != 0 {
		t.Fatalf("unpaid order should not notify, got %d", count)
	}

	if err := db.Model(&models.Order{}).Where("id = ?", order.ID).Update("status", constants.OrderStatusPaid).Error; err != nil {
		t.Fatalf("mark order paid failed: %v", err)
	}
	if err := svc.NotifyPaid(order.ID, 0); err != nil {
		t.Fatalf("notify paid order failed: %v", err)
	}
	var notifications []models.Notification
	if err := db.Where("customer_id = ?", customer.ID).Find(&notifications).Error; err != nil {
		t.Fatalf("load notifications failed: %v", err)
	}
	if len(notifications) != 1 {
		t.Fatalf("want 1 notification got %d", len(notifications))
	}
	if !strings.Contains(notifications[0].Body, "AJ-PAID") {
		t.Fatalf("notification body should mention order no, got %q", notifications[0].Body)
	}

	if err := svc.NotifyPaid(9999, customer.ID); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("missing order want ErrOrderNotFound got %v", err)
	}
}
