package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aurelia-jewels/storefront/internal/queue"
	"github.com/aurelia-jewels/storefront/internal/service"

	"github.com/hibiken/asynq"
)

type fakeOrderJobs struct {
	mu        sync.Mutex
	canceled  []uint
	notified  [][2]uint
	sweeps    int
	cancelErr error
	notifyErr error
}

func (f *fakeOrderJobs) CancelExpiredOrder(orderID uint) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cancelErr != nil {
		return false, f.cancelErr
	}
	f.canceled = append(f.canceled, orderID)
	return true, nil
}

func (f *fakeOrderJobs) SweepExpired(time.Time, int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sweeps++
	return 0, nil
}

func (f *fakeOrderJobs) NotifyPaid(orderID, customerID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.notifyErr != nil {
		return f.notifyErr
	}
	f.notified = append(f.notified, [2]uint{orderID, customerID})
	return nil
}

func (f *fakeOrderJobs) sweepCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sweeps
}

func TestHandleOrderPaidNotification(t *testing.T) {
	jobs := &fakeOrderJobs{}
	consumer := &Consumer{orders: jobs}

	task, err := queue.NewOrderPaidNotificationTask(queue.OrderPaidNotificationPayload{OrderID: 9, CustomerID: 3})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleOrderPaidNotification(context.Background(), task); err != nil {
		t.Fatalf("handle failed: %v", err)
	}
	if len(jobs.notified) != 1 || jobs.notified[0] != [2]uint{9, 3} {
		t.Fatalf("unexpected notifications: %v", jobs.notified)
	}

	jobs.notifyErr = service.ErrOrderNotFound
	if err := consumer.handleOrderPaidNotification(context.Background(), task); err != nil {
		t.Fatalf("missing order should be skipped, got %v", err)
	}
	jobs.notifyErr = errors.New("db down")
	if err := consumer.handleOrderPaidNotification(context.Background(), task); err == nil {
		t.Fatalf("transient failure should be retried")
	}
}

func TestHandleOrderTimeoutCancel(t *testing.T) {
	jobs := &fakeOrderJobs{}
	consumer := &Consumer{orders: jobs}

	body, _ := json.Marshal(queue.OrderTimeoutCancelPayload{OrderID: 5})
	if err := consumer.handleOrderTimeoutCancel(context.Background(), asynq.NewTask(queue.TaskOrderTimeoutCancel, body)); err != nil {
		t.Fatalf("handle failed: %v", err)
	}
	if len(jobs.canceled) != 1 || jobs.canceled[0] != 5 {
		t.Fatalf("unexpected cancellations: %v", jobs.canceled)
	}

	empty, _ := json.Marshal(queue.OrderTimeoutCancelPayload{})
	if err := consumer.handleOrderTimeoutCancel(context.Background(), asynq.NewTask(queue.TaskOrderTimeoutCancel, empty)); err != nil {
		t.Fatalf("empty payload should be skipped, got %v", err)
	}
	if err := consumer.handleOrderTimeoutCancel(context.Background(), asynq.NewTask(queue.TaskOrderTimeoutCancel, []byte("{"))); err == nil {
		t.Fatalf("malformed payload should fail")
	}
}

func TestConsumerWithoutOrderService(t *testing.T) {
	consumer := NewConsumer(nil)
	task, _ := queue.NewOrderTimeoutCancelTask(queue.OrderTimeoutCancelPayload{OrderID: 1})
	if err := consumer.handleOrderTimeoutCancel(context.Background(), task); err != nil {
		t.Fatalf("nil order service should be skipped, got %v", err)
	}
	consumer.sweepOnce(time.Now())
}

func TestSweeperRunsUntilCanceled(t *testing.T) {
	jobs := &fakeOrderJobs{}
	sweeper := &Sweeper{consumer: &Consumer{orders: jobs}, interval: 5 * time.Millisecond}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sweeper.Start(ctx) }()

	deadline := time.Now().Add(time.Second)
	for jobs.sweepCount() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("sweeper returned error: %v", err)
	}
	if jobs.sweepCount() < 2 {
		t.Fatalf("expected repeated sweeps, got %d", jobs.sweepCount())
	}
}
