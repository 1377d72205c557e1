// Package orchestrator drives multi-tier periodic SNMP collection across a
// fleet of devices: a device registry, a per-device connection pool, a
// fixed worker pool, and a tiered scheduler. It normalizes raw SNMP
// varbinds into samples using the OID registry and hands each cycle's
// Result to whatever consumes Output().
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/meshops/netwarden/internal/oidregistry"
	"github.com/meshops/netwarden/models"
)

// Config bundles the tunables for a new Orchestrator.
type Config struct {
	Workers          int
	OutputBufferSize int
	Pool             PoolOptions
}

func (c *Config) withDefaults() {
	if c.Workers <= 0 {
		c.Workers = 16
	}
	if c.OutputBufferSize <= 0 {
		c.OutputBufferSize = 256
	}
}

// Orchestrator owns the device fleet and the pipeline that polls it.
type Orchestrator struct {
	cfg      Config
	logger   *slog.Logger
	registry *oidregistry.Registry

	devices *deviceRegistry
	pool    *ConnectionPool
	poller  *SNMPPoller
	workers *WorkerPool
	sched   *Scheduler

	rawResults chan Result
	output     chan Result

	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New builds an Orchestrator with no devices registered yet. Call
// RegisterDevice before Start, or after — the scheduler picks up
// registrations made while running on its next Reload.
func New(cfg Config, registry *oidregistry.Registry, logger *slog.Logger) *Orchestrator {
	cfg.withDefaults()
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(noopWriter{}, nil))
	}

	pool := NewConnectionPool(cfg.Pool, logger)
	poller := NewSNMPPoller(pool, registry, logger)

	o := &Orchestrator{
		cfg:        cfg,
		logger:     logger,
		registry:   registry,
		devices:    newDeviceRegistry(registry),
		pool:       pool,
		poller:     poller,
		rawResults: make(chan Result, cfg.OutputBufferSize),
		output:     make(chan Result, cfg.OutputBufferSize),
	}
	o.workers = NewWorkerPool(cfg.Workers, o.poller, o.rawResults, logger)
	o.sched = NewScheduler(nil, o.workers, logger)
	return o
}

// RegisterDevice adds a device to the fleet, validating its vendor tag
// against the OID registry. The scheduler is reloaded immediately so the
// new device starts polling without waiting for a restart.
func (o *Orchestrator) RegisterDevice(cfg models.DeviceConfig) error {
	if err := o.devices.Register(cfg); err != nil {
		return err
	}
	o.sched.Reload(o.devices.List())
	return nil
}

// DeregisterDevice removes a device from the fleet and reloads the
// scheduler so it stops being polled.
func (o *Orchestrator) DeregisterDevice(deviceID int64) {
	o.devices.Deregister(deviceID)
	o.sched.Reload(o.devices.List())
}

// EnableDevice flips a device's enabled flag and reloads the scheduler.
// Returns an error if deviceID is not registered.
func (o *Orchestrator) EnableDevice(deviceID int64, enabled bool) error {
	if !o.devices.SetEnabled(deviceID, enabled) {
		return fmt.Errorf("orchestrator: device %d not registered", deviceID)
	}
	o.sched.Reload(o.devices.List())
	return nil
}

// ListDevices returns a snapshot of the registered fleet.
func (o *Orchestrator) ListDevices() []models.DeviceConfig {
	return o.devices.List()
}

// Device returns the registered configuration for deviceID, if any.
func (o *Orchestrator) Device(deviceID int64) (models.DeviceConfig, bool) {
	return o.devices.Get(deviceID)
}

// PollNow runs one tier's poll for a device immediately, bypassing the
// scheduler's cadence but not its re-entrancy guard: if a poll for the
// same (device, tier) is already in flight (scheduled or another
// PollNow), this is rejected rather than run concurrently with it.
func (o *Orchestrator) PollNow(ctx context.Context, deviceID int64, tier models.Tier) (Result, error) {
	cfg, ok := o.devices.Get(deviceID)
	if !ok {
		return Result{}, fmt.Errorf("orchestrator: device %d not registered", deviceID)
	}
	if !o.sched.TryAcquire(deviceID, tier) {
		return Result{}, fmt.Errorf("orchestrator: poll already in flight for device %d tier %s", deviceID, tier)
	}
	defer o.sched.MarkComplete(deviceID, tier)
	return o.poller.Poll(ctx, Job{Device: cfg, Tier: tier})
}

// Output returns the channel of Results the caller should drain — typically
// into sample normalization and the alarm engine.
func (o *Orchestrator) Output() <-chan Result {
	return o.output
}

// Start launches the worker pool, the result-forwarding pump, and the
// scheduler. It returns once everything is running; call Stop to shut down.
func (o *Orchestrator) Start(ctx context.Context) {
	o.workers.Start(ctx)

	o.wg.Add(1)
	go o.pump(ctx)

	o.sched.Reload(o.devices.List())
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		o.sched.Start(ctx)
	}()
}

// pump drains the worker pool's raw results, clears the scheduler's
// re-entrancy guard for each (device, tier), and forwards the Result
// onward. It exits when rawResults is closed.
func (o *Orchestrator) pump(ctx context.Context) {
	defer o.wg.Done()
	for {
		select {
		case res, ok := <-o.rawResults:
			if !ok {
				close(o.output)
				return
			}
			o.sched.MarkComplete(res.Device.DeviceID, res.Tier)
			select {
			case o.output <- res:
			case <-ctx.Done():
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// Stop drains in-flight polls, stops the scheduler, and closes the
// connection pool. It does not return until shutdown completes or the
// given grace period elapses. The context passed to Start must already be
// cancelled before calling Stop, so the scheduler loop and result pump
// have somewhere to exit to.
func (o *Orchestrator) Stop(grace time.Duration) {
	o.stopOnce.Do(func() {
		done := make(chan struct{})
		go func() {
			o.workers.Stop()
			close(o.rawResults)
			o.wg.Wait()
			close(done)
		}()

		select {
		case <-done:
		case <-time.After(grace):
			o.logger.Warn("orchestrator: shutdown grace period elapsed, continuing anyway")
		}
		_ = o.pool.Close()
	})
}
