// Command netwardend is the main SNMP monitoring service binary.
//
// It loads YAML configuration from paths specified by environment variables
// (or command-line flag overrides), builds the polling/alarm pipeline, and
// runs until interrupted (SIGINT / SIGTERM).
//
// Usage:
//
//	netwardend [flags]
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/meshops/netwarden/internal/app"
	"github.com/meshops/netwarden/internal/config"
	"github.com/meshops/netwarden/internal/sink"
	"github.com/meshops/netwarden/internal/telemetry"
	"github.com/meshops/netwarden/models"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "netwardend: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		logLevel string
		logFmt   string
		workers  int

		sinkKind string
		wsURL    string

		telemetryOn   bool
		telemetryAddr string

		cfgGlobal  string
		cfgDevices string

		pollNowDevice int64
		pollNowTier   string
	)

	flag.StringVar(&logLevel, "log.level", "info", "Log level: debug, info, warn, error")
	flag.StringVar(&logFmt, "log.fmt", "json", "Log format: json, text")
	flag.IntVar(&workers, "poller.workers", 20, "Number of concurrent poller workers (max_concurrent_pollers)")

	flag.StringVar(&sinkKind, "sink", "file", "Downstream sink: file, websocket")
	flag.StringVar(&wsURL, "sink.websocket.url", "", "WebSocket sink URL (required when -sink=websocket)")

	flag.BoolVar(&telemetryOn, "telemetry.enabled", false, "Expose internal prometheus metrics")
	flag.StringVar(&telemetryAddr, "telemetry.listen", "127.0.0.1:9116", "Telemetry /metrics listen address")

	flag.StringVar(&cfgGlobal, "config.global", "", "Override NETWARDEN_GLOBAL_CONFIG_PATH")
	flag.StringVar(&cfgDevices, "config.devices", "", "Override NETWARDEN_DEVICES_DIRECTORY_PATH")

	flag.Int64Var(&pollNowDevice, "admin.poll-now.device", 0, "If set with -admin.poll-now.tier, poll once and exit")
	flag.StringVar(&pollNowTier, "admin.poll-now.tier", "", "Tier to poll for -admin.poll-now.device: interfaces, health, inventory")

	flag.Parse()

	logger, err := buildLogger(logLevel, logFmt)
	if err != nil {
		return err
	}

	paths := config.PathsFromEnv()
	if cfgGlobal != "" {
		paths.Global = cfgGlobal
	}
	if cfgDevices != "" {
		paths.Devices = cfgDevices
	}

	var snk sink.Sink
	switch sinkKind {
	case "file":
		snk = sink.NewFileSink(sink.FileConfig{Writer: os.Stdout}, logger)
	case "websocket":
		if wsURL == "" {
			return fmt.Errorf("-sink.websocket.url is required when -sink=websocket")
		}
		ws, err := sink.NewWSSink(sink.WSConfig{URL: wsURL}, logger)
		if err != nil {
			return fmt.Errorf("sink: %w", err)
		}
		snk = ws
	default:
		return fmt.Errorf("unknown sink %q (expected file|websocket)", sinkKind)
	}

	var tel *telemetry.Telemetry
	if telemetryOn {
		tel = telemetry.New()
		go serveTelemetry(telemetryAddr, tel, logger)
	}

	application := app.New(app.Config{
		ConfigPaths: paths,
		Workers:     workers,
		Sink:        snk,
		Telemetry:   tel,
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := application.Start(ctx); err != nil {
		return fmt.Errorf("start: %w", err)
	}

	if pollNowDevice != 0 && pollNowTier != "" {
		result, err := application.Orchestrator().PollNow(ctx, pollNowDevice, models.Tier(pollNowTier))
		if err != nil {
			application.Stop(10 * time.Second)
			return fmt.Errorf("poll-now: %w", err)
		}
		logger.Info("netwardend: poll-now complete", "device_id", pollNowDevice, "tier", pollNowTier, "reachable", result.Reachable)
		application.Stop(10 * time.Second)
		return nil
	}

	logger.Info("netwardend: running — press Ctrl-C to stop")
	<-ctx.Done()
	logger.Info("netwardend: received shutdown signal")

	application.Stop(10 * time.Second)
	return nil
}

func serveTelemetry(addr string, tel *telemetry.Telemetry, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", tel.Handler())
	logger.Info("netwardend: telemetry listening", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("netwardend: telemetry server stopped", "error", err.Error())
	}
}

func buildLogger(level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		return nil, fmt.Errorf("unknown log level %q (expected debug|info|warn|error)", level)
	}

	opts := &slog.HandlerOptions{Level: lvl}
	var handler slog.Handler

	switch format {
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, opts)
	case "text":
		handler = slog.NewTextHandler(os.Stderr, opts)
	default:
		return nil, fmt.Errorf("unknown log format %q (expected json|text)", format)
	}

	return slog.New(handler), nil
}
