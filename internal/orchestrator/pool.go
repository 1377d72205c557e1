package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/meshops/netwarden/internal/snmpsession"
	"github.com/meshops/netwarden/models"
)

// PoolOptions configures connection pool behavior.
type PoolOptions struct {
	// MaxIdlePerDevice is the maximum number of idle sessions kept per
	// device (default 2). Excess sessions returned via Put are closed.
	MaxIdlePerDevice int

	// IdleTimeout is how long an idle session remains in the pool before
	// being discarded on next acquisition. Zero means no expiry.
	IdleTimeout time.Duration

	// Dial creates a new session for a device. Defaults to snmpsession.Dial.
	Dial func(models.DeviceConfig) (snmpsession.Session, error)
}

func (o *PoolOptions) defaults() {
	if o.MaxIdlePerDevice <= 0 {
		o.MaxIdlePerDevice = 2
	}
	if o.Dial == nil {
		o.Dial = dialDevice
	}
}

func dialDevice(cfg models.DeviceConfig) (snmpsession.Session, error) {
	return snmpsession.Dial(snmpsession.Options{
		Address:     cfg.Address,
		Credentials: cfg.Credentials,
	})
}

type poolEntry struct {
	session    snmpsession.Session
	returnedAt time.Time
}

// devicePool is the per-device idle stack plus a concurrency semaphore sized
// to that device's MaxConcurrentPolls.
type devicePool struct {
	mu   sync.Mutex
	idle []poolEntry // LIFO

	sem chan struct{}
}

// ConnectionPool manages SNMP sessions keyed by device_id, enforcing
// per-device concurrency limits and recycling idle sessions.
type ConnectionPool struct {
	opts   PoolOptions
	logger *slog.Logger

	mu    sync.RWMutex
	pools map[int64]*devicePool

	closed chan struct{}
}

// NewConnectionPool creates a ready-to-use pool.
func NewConnectionPool(opts PoolOptions, logger *slog.Logger) *ConnectionPool {
	opts.defaults()
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(noopWriter{}, nil))
	}
	return &ConnectionPool{
		opts:   opts,
		logger: logger,
		pools:  make(map[int64]*devicePool),
		closed: make(chan struct{}),
	}
}

// Get acquires a session for the device, blocking if the per-device
// concurrency limit is reached, and respecting context cancellation.
func (p *ConnectionPool) Get(ctx context.Context, cfg models.DeviceConfig) (snmpsession.Session, error) {
	dp := p.getOrCreatePool(cfg.DeviceID, cfg.MaxConcurrentPolls)

	select {
	case <-p.closed:
		return nil, fmt.Errorf("orchestrator: pool closed")
	default:
	}

	select {
	case dp.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-p.closed:
		return nil, fmt.Errorf("orchestrator: pool closed")
	}

	if s := p.popIdle(dp); s != nil {
		return s, nil
	}

	s, err := p.opts.Dial(cfg)
	if err != nil {
		<-dp.sem
		return nil, err
	}
	return s, nil
}

// Put returns a session to the idle pool for reuse, or closes it if the pool
// for this device is already full. Always releases the concurrency slot.
func (p *ConnectionPool) Put(deviceID int64, s snmpsession.Session) {
	dp := p.getPool(deviceID)
	if dp == nil {
		_ = s.Close()
		return
	}
	defer func() { <-dp.sem }()

	dp.mu.Lock()
	defer dp.mu.Unlock()

	if len(dp.idle) >= p.opts.MaxIdlePerDevice {
		_ = s.Close()
		return
	}
	dp.idle = append(dp.idle, poolEntry{session: s, returnedAt: time.Now()})
}

// Discard closes a session known to be broken and releases its slot without
// returning it to the idle pool.
func (p *ConnectionPool) Discard(deviceID int64, s snmpsession.Session) {
	_ = s.Close()
	if dp := p.getPool(deviceID); dp != nil {
		<-dp.sem
	}
}

// Close drains all idle sessions and rejects further Get calls.
func (p *ConnectionPool) Close() error {
	select {
	case <-p.closed:
		return nil
	default:
	}
	close(p.closed)

	p.mu.Lock()
	defer p.mu.Unlock()
	for _, dp := range p.pools {
		dp.mu.Lock()
		for _, e := range dp.idle {
			_ = e.session.Close()
		}
		dp.idle = nil
		dp.mu.Unlock()
	}
	return nil
}

func (p *ConnectionPool) getOrCreatePool(deviceID int64, maxConcurrent int) *devicePool {
	p.mu.RLock()
	dp, ok := p.pools[deviceID]
	p.mu.RUnlock()
	if ok {
		return dp
	}

	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if dp, ok = p.pools[deviceID]; ok {
		return dp
	}
	dp = &devicePool{
		idle: make([]poolEntry, 0, p.opts.MaxIdlePerDevice),
		sem:  make(chan struct{}, maxConcurrent),
	}
	p.pools[deviceID] = dp
	return dp
}

func (p *ConnectionPool) getPool(deviceID int64) *devicePool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.pools[deviceID]
}

func (p *ConnectionPool) popIdle(dp *devicePool) snmpsession.Session {
	dp.mu.Lock()
	defer dp.mu.Unlock()

	for len(dp.idle) > 0 {
		n := len(dp.idle) - 1
		entry := dp.idle[n]
		dp.idle = dp.idle[:n]

		if p.opts.IdleTimeout > 0 && time.Since(entry.returnedAt) > p.opts.IdleTimeout {
			_ = entry.session.Close()
			continue
		}
		return entry.session
	}
	return nil
}

type noopWriter struct{}

func (noopWriter) Write(b []byte) (int, error) { return len(b), nil }
