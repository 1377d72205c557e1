package orchestrator

import (
	"context"
	"testing"

	"github.com/meshops/netwarden/internal/snmpsession"
	"github.com/meshops/netwarden/models"
)

type fakeSession struct {
	closed bool
}

func (f *fakeSession) Get(oid string) (models.TypedValue, *snmpsession.Error) {
	return models.TypedValue{}, nil
}
func (f *fakeSession) GetNext(oid string) (snmpsession.Varbind, *snmpsession.Error) {
	return snmpsession.Varbind{}, nil
}
func (f *fakeSession) Walk(oid string) ([]snmpsession.Varbind, *snmpsession.Error) { return nil, nil }
func (f *fakeSession) BulkWalk(oid string, max uint32) ([]snmpsession.Varbind, *snmpsession.Error) {
	return nil, nil
}
func (f *fakeSession) Close() error { f.closed = true; return nil }

func TestConnectionPoolReusesPutSession(t *testing.T) {
	dials := 0
	pool := NewConnectionPool(PoolOptions{
		Dial: func(models.DeviceConfig) (snmpsession.Session, error) {
			dials++
			return &fakeSession{}, nil
		},
	}, nil)

	cfg := models.DeviceConfig{DeviceID: 1, MaxConcurrentPolls: 2}

	s1, err := pool.Get(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	pool.Put(cfg.DeviceID, s1)

	s2, err := pool.Get(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if s1 != s2 {
		t.Error("expected the idle session to be reused, got a new dial")
	}
	if dials != 1 {
		t.Errorf("dials = %d, want 1", dials)
	}
}

func TestConnectionPoolDiscardClosesSession(t *testing.T) {
	pool := NewConnectionPool(PoolOptions{
		Dial: func(models.DeviceConfig) (snmpsession.Session, error) { return &fakeSession{}, nil },
	}, nil)
	cfg := models.DeviceConfig{DeviceID: 2, MaxConcurrentPolls: 1}

	s, err := pool.Get(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	fs := s.(*fakeSession)
	pool.Discard(cfg.DeviceID, s)
	if !fs.closed {
		t.Error("Discard() did not close the session")
	}

	// Slot should be free again.
	if _, err := pool.Get(context.Background(), cfg); err != nil {
		t.Fatalf("Get() after Discard() error = %v", err)
	}
}

func TestConnectionPoolRespectsConcurrencyLimit(t *testing.T) {
	pool := NewConnectionPool(PoolOptions{
		Dial: func(models.DeviceConfig) (snmpsession.Session, error) { return &fakeSession{}, nil },
	}, nil)
	cfg := models.DeviceConfig{DeviceID: 3, MaxConcurrentPolls: 1}

	if _, err := pool.Get(context.Background(), cfg); err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := pool.Get(ctx, cfg); err == nil {
		t.Error("Get() with exhausted slot and cancelled context: want error, got nil")
	}
}

func TestConnectionPoolCloseDrainsIdle(t *testing.T) {
	pool := NewConnectionPool(PoolOptions{
		Dial: func(models.DeviceConfig) (snmpsession.Session, error) { return &fakeSession{}, nil },
	}, nil)
	cfg := models.DeviceConfig{DeviceID: 4, MaxConcurrentPolls: 1}

	s, _ := pool.Get(context.Background(), cfg)
	pool.Put(cfg.DeviceID, s)

	if err := pool.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !s.(*fakeSession).closed {
		t.Error("Close() did not close idle session")
	}
	if _, err := pool.Get(context.Background(), cfg); err == nil {
		t.Error("Get() after Close(): want error, got nil")
	}
}
