// Package app wires the monitoring pipeline together and manages its
// lifecycle: load configuration, build the orchestrator/alarm engine/sink
// triad, consume polling results, and evaluate + publish alarms, in the
// same stage-goroutine-plus-WaitGroup shape used throughout this codebase's
// pipeline construction.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/meshops/netwarden/internal/alarmengine"
	"github.com/meshops/netwarden/internal/config"
	"github.com/meshops/netwarden/internal/oidregistry"
	"github.com/meshops/netwarden/internal/orchestrator"
	"github.com/meshops/netwarden/internal/sink"
	"github.com/meshops/netwarden/internal/telemetry"
	"github.com/meshops/netwarden/models"
)

// Config holds top-level application settings. Zero-value fields fall back
// to documented defaults.
type Config struct {
	ConfigPaths config.Paths

	// Workers is the orchestrator's worker pool size. Default 20
	// (max_concurrent_pollers).
	Workers int

	// ResultBufferSize is the capacity of the orchestrator's output channel.
	ResultBufferSize int

	// RingCapacity bounds the sink's drop-oldest retention ring, per kind.
	RingCapacity int

	// Sink is the downstream publish target. Defaults to a stdout FileSink
	// if nil.
	Sink sink.Sink

	// Telemetry is optional; nil disables all metric recording (every
	// method on a nil *telemetry.Telemetry is a safe no-op).
	Telemetry *telemetry.Telemetry
}

func (c *Config) withDefaults() {
	if c.Workers <= 0 {
		c.Workers = 20
	}
	if c.ResultBufferSize <= 0 {
		c.ResultBufferSize = 256
	}
	if c.RingCapacity <= 0 {
		c.RingCapacity = 1000
	}
}

// App owns the orchestrator, alarm engine, and sink, and the goroutine that
// turns polling results into published samples and alarms.
type App struct {
	cfg    Config
	logger *slog.Logger

	loaded *config.LoadedConfig
	orch   *orchestrator.Orchestrator
	alarms *alarmengine.Engine
	snk    *sink.RingSink

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New constructs an App. It does not load configuration or start anything —
// call Start for that.
func New(cfg Config, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(noopWriter{}, nil))
	}
	cfg.withDefaults()
	return &App{cfg: cfg, logger: logger}
}

// Start loads configuration, builds the pipeline, registers every
// configured device, and launches the result-consuming goroutine.
func (a *App) Start(ctx context.Context) error {
	a.logger.Info("app: loading configuration")
	loaded, err := config.Load(a.cfg.ConfigPaths, a.logger)
	if err != nil {
		return fmt.Errorf("app: load config: %w", err)
	}
	a.loaded = loaded
	a.logger.Info("app: configuration loaded", "devices", len(loaded.Devices))

	underlying := a.cfg.Sink
	if underlying == nil {
		underlying = sink.NewFileSink(sink.FileConfig{Writer: os.Stdout}, a.logger)
	}
	a.snk = sink.NewRingSink(underlying, a.cfg.RingCapacity, a.logger)

	a.alarms = alarmengine.New(alarmengine.Defaults{
		CPUPercent:              loaded.Global.CPUThresholdPercent,
		MemoryPercent:           loaded.Global.MemoryThresholdPercent,
		TemperatureCelsius:      loaded.Global.TemperatureThresholdCelsius,
		HysteresisPercent:       loaded.Global.HysteresisPercent,
		HysteresisCelsius:       loaded.Global.HysteresisCelsius,
		UnreachableFailureCount: loaded.Global.UnreachableFailureCount,
	})

	a.orch = orchestrator.New(orchestrator.Config{
		Workers:          a.cfg.Workers,
		OutputBufferSize: a.cfg.ResultBufferSize,
	}, mustBuiltinRegistry(), a.logger)

	for _, dev := range loaded.Devices {
		if err := a.orch.RegisterDevice(dev); err != nil {
			a.logger.Error("app: device registration failed", "device_id", dev.DeviceID, "error", err.Error())
			continue
		}
	}

	pipeCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	a.orch.Start(pipeCtx)

	a.wg.Add(1)
	go a.consume(pipeCtx)

	a.logger.Info("app: pipeline running", "workers", a.cfg.Workers, "devices", len(loaded.Devices))
	return nil
}

// consume drains the orchestrator's output, evaluates alarms in the
// deterministic port_down → device_unreachable → cpu/memory/temperature
// order, and publishes both samples and alarms to the sink.
func (a *App) consume(ctx context.Context) {
	defer a.wg.Done()
	out := a.orch.Output()

	for {
		select {
		case res, ok := <-out:
			if !ok {
				return
			}
			a.handleResult(res)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) handleResult(res orchestrator.Result) {
	dev, ok := a.orch.Device(res.Device.DeviceID)
	if !ok {
		dev = res.Device
	}

	var alarms []models.Alarm

	for _, iface := range res.Interfaces {
		alarms = append(alarms, a.alarms.EvaluateInterface(dev, iface)...)
	}

	reachability := models.ReachabilityEvent{
		DeviceID:   dev.DeviceID,
		DeviceName: dev.Name,
		Success:    res.Reachable,
		ObservedAt: time.Now(),
	}
	alarms = append(alarms, a.alarms.EvaluateReachability(dev, reachability)...)

	if res.Health != nil {
		alarms = append(alarms, a.alarms.EvaluateHealth(dev, *res.Health)...)
	}

	if err := a.snk.PublishSamples(sink.Batch{
		Interfaces: res.Interfaces,
		Health:     res.Health,
		Inventory:  res.Inventory,
	}); err != nil {
		a.logger.Error("app: publish samples failed", "device_id", dev.DeviceID, "error", err.Error())
	}

	if len(alarms) > 0 {
		if err := a.snk.PublishAlarms(alarms); err != nil {
			a.logger.Error("app: publish alarms failed", "device_id", dev.DeviceID, "error", err.Error())
		}
	}

	a.cfg.Telemetry.SetReachable(dev.DeviceID, dev.Name, res.Reachable)
	a.cfg.Telemetry.ObservePoll(res.Tier, res.Reachable, res.Duration.Seconds())
	for _, al := range alarms {
		a.cfg.Telemetry.ObserveAlarm(al.Kind)
	}
}

// Stop performs a graceful shutdown: cancel the pipeline context, let the
// orchestrator drain its scheduler and worker pool, wait for the result
// consumer to exit, and release the sink.
func (a *App) Stop(grace time.Duration) {
	a.logger.Info("app: shutting down")
	if a.cancel != nil {
		a.cancel()
	}
	if a.orch != nil {
		a.orch.Stop(grace)
	}

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(grace):
		a.logger.Warn("app: shutdown grace period elapsed waiting for result consumer")
	}

	if a.snk != nil {
		if err := a.snk.Close(); err != nil {
			a.logger.Error("app: sink close error", "error", err.Error())
		}
	}
	a.logger.Info("app: shutdown complete")
}

// Reload re-reads configuration and re-registers the device fleet.
// Existing devices keep their alarm-engine state; removed devices are
// deregistered and their alarm state forgotten.
func (a *App) Reload() error {
	a.logger.Info("app: reloading configuration")
	newCfg, err := config.Load(a.cfg.ConfigPaths, a.logger)
	if err != nil {
		return fmt.Errorf("app: reload config: %w", err)
	}

	seen := make(map[int64]bool, len(newCfg.Devices))
	for _, dev := range newCfg.Devices {
		seen[dev.DeviceID] = true
		if err := a.orch.RegisterDevice(dev); err != nil {
			a.logger.Error("app: device registration failed on reload", "device_id", dev.DeviceID, "error", err.Error())
		}
	}
	for _, dev := range a.loaded.Devices {
		if !seen[dev.DeviceID] {
			a.orch.DeregisterDevice(dev.DeviceID)
			a.alarms.Forget(dev.DeviceID)
		}
	}

	a.loaded = newCfg
	a.logger.Info("app: configuration reloaded", "devices", len(newCfg.Devices))
	return nil
}

// Orchestrator exposes the administrative interface for callers (e.g. a CLI
// flag driving poll_now) that need direct access.
func (a *App) Orchestrator() *orchestrator.Orchestrator {
	return a.orch
}

// mustBuiltinRegistry loads the compiled-in vendor OID tables. A failure
// here means the built-in tables themselves are malformed — a programming
// error, not a runtime condition the caller can recover from.
func mustBuiltinRegistry() *oidregistry.Registry {
	reg, err := oidregistry.Builtin()
	if err != nil {
		panic(fmt.Sprintf("app: built-in oid registry is malformed: %v", err))
	}
	return reg
}

type noopWriter struct{}

func (noopWriter) Write(p []byte) (int, error) { return len(p), nil }
