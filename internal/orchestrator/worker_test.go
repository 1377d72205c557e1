package orchestrator

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/meshops/netwarden/models"
)

type fakePoller struct {
	calls int32
}

func (f *fakePoller) Poll(ctx context.Context, job Job) (Result, error) {
	atomic.AddInt32(&f.calls, 1)
	return Result{Device: job.Device, Tier: job.Tier, Reachable: true}, nil
}

func TestWorkerPoolProcessesSubmittedJobs(t *testing.T) {
	poller := &fakePoller{}
	out := make(chan Result, 4)
	wp := NewWorkerPool(2, poller, out, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(ctx)

	for i := 0; i < 3; i++ {
		wp.Submit(Job{Device: models.DeviceConfig{DeviceID: int64(i)}, Tier: models.TierHealth})
	}

	received := 0
	timeout := time.After(2 * time.Second)
	for received < 3 {
		select {
		case <-out:
			received++
		case <-timeout:
			t.Fatalf("timed out waiting for results, got %d/3", received)
		}
	}
	wp.Stop()

	if got := atomic.LoadInt32(&poller.calls); got != 3 {
		t.Errorf("poller.calls = %d, want 3", got)
	}
}

func TestWorkerPoolTrySubmitFailsWhenFull(t *testing.T) {
	blockCh := make(chan struct{})
	poller := pollerFunc(func(ctx context.Context, job Job) (Result, error) {
		<-blockCh
		return Result{}, nil
	})
	out := make(chan Result, 8)
	wp := NewWorkerPool(1, poller, out, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(ctx)

	// First job occupies the sole worker; fill the buffered job channel.
	if !wp.TrySubmit(Job{Tier: models.TierHealth}) {
		t.Fatal("first TrySubmit() should succeed")
	}
	filled := 0
	for wp.TrySubmit(Job{Tier: models.TierHealth}) {
		filled++
		if filled > 16 {
			break
		}
	}
	if filled == 0 {
		t.Fatal("expected TrySubmit() to eventually report the queue full")
	}
	close(blockCh)
}

type pollerFunc func(ctx context.Context, job Job) (Result, error)

func (f pollerFunc) Poll(ctx context.Context, job Job) (Result, error) { return f(ctx, job) }
