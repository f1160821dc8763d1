package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeService struct {
	name     string
	startErr error
	block    bool
	mu       *sync.Mutex
	stopped  *[]string
}

func (f *fakeService) Name() string { return f.name }

func (f *fakeService) Start(ctx context.Context) error {
	if f.block {
		<-ctx.Done()
		return nil
	}
	return f.startErr
}

func (f *fakeService) Stop(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	*f.stopped = append(*f.stopped, f.name)
	return nil
}

func TestRunnerStopsAllWhenOneExits(t *testing.T) {
	var mu sync.Mutex
	var stopped []string
	boom := errors.New("listen failed")
	runner := NewRunner(
		&fakeService{name: "http", startErr: boom, mu: &mu, stopped: &stopped},
		nil,
		&fakeService{name: "sweeper", block: true, mu: &mu, stopped: &stopped},
	)

	err := runner.Run(context.Background(), time.Second, nil)
	if !errors.Is(err, boom) {
		t.Fatalf("run error want %v got %v", boom, err)
	}
	if len(stopped) != 2 || stopped[0] != "sweeper" || stopped[1] != "http" {
		t.Fatalf("services should stop in reverse start order, got %v", stopped)
	}
}

func TestRunnerReturnsNilOnCancel(t *testing.T) {
	var mu sync.Mutex
	var stopped []string
	runner := NewRunner(&fakeService{name: "worker", block: true, mu: &mu, stopped: &stopped})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := runner.Run(ctx, time.Second, nil); err != nil {
		t.Fatalf("canceled run should return nil, got %v", err)
	}
	if len(stopped) != 1 {
		t.Fatalf("worker should be stopped, got %v", stopped)
	}
}

func TestValidateMode(t *testing.T) {
	for _, mode := range []string{ModeAll, ModeAPI, ModeWorker} {
		if err := ValidateMode(mode); err != nil {
			t.Fatalf("mode %s should be valid: %v", mode, err)
		}
	}
	if err := ValidateMode("cron"); err == nil {
		t.Fatalf("unknown mode should be rejected")
	}
	if got := normalizeOptions(Options{Mode: " API "}).Mode; got != ModeAPI {
		t.Fatalf("mode should be normalized, got %q", got)
	}
}
