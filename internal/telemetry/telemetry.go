// Package telemetry exposes internal Prometheus counters and gauges for the
// polling and alarm pipeline. It is gated behind a flag, default-off, and is
// never a dashboard in its own right — just metric registration that
// main.go may choose to expose on an already-required /metrics endpoint.
package telemetry

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/meshops/netwarden/models"
)

// Telemetry holds every metric this process registers. A nil *Telemetry is
// valid and every method on it is a safe no-op, so callers never need to
// branch on whether telemetry is enabled.
type Telemetry struct {
	registry *prometheus.Registry

	pollTotal       *prometheus.CounterVec
	pollDuration    *prometheus.HistogramVec
	alarmTotal      *prometheus.CounterVec
	deviceReachable *prometheus.GaugeVec
}

// New constructs a Telemetry backed by its own registry, so it never
// collides with the default global registerer.
func New() *Telemetry {
	reg := prometheus.NewRegistry()
	t := &Telemetry{
		registry: reg,
		pollTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "netwarden_poll_total",
			Help: "Polling attempts by tier and outcome.",
		}, []string{"tier", "outcome"}),
		pollDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "netwarden_poll_duration_seconds",
			Help:    "Wall-clock duration of a single tier poll.",
			Buckets: prometheus.DefBuckets,
		}, []string{"tier"}),
		alarmTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "netwarden_alarm_total",
			Help: "Alarms emitted by kind.",
		}, []string{"kind"}),
		deviceReachable: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "netwarden_device_reachable",
			Help: "1 if the device's last poll succeeded, 0 otherwise.",
		}, []string{"device_id", "device_name"}),
	}
	reg.MustRegister(t.pollTotal, t.pollDuration, t.alarmTotal, t.deviceReachable)
	return t
}

// Handler returns the HTTP handler serving this Telemetry's registry.
func (t *Telemetry) Handler() http.Handler {
	if t == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(t.registry, promhttp.HandlerOpts{})
}

// ObservePoll records one tier poll's outcome and duration.
func (t *Telemetry) ObservePoll(tier models.Tier, reachable bool, seconds float64) {
	if t == nil {
		return
	}
	outcome := "success"
	if !reachable {
		outcome = "failure"
	}
	t.pollTotal.WithLabelValues(string(tier), outcome).Inc()
	t.pollDuration.WithLabelValues(string(tier)).Observe(seconds)
}

// ObserveAlarm records one emitted alarm.
func (t *Telemetry) ObserveAlarm(kind models.AlarmKind) {
	if t == nil {
		return
	}
	t.alarmTotal.WithLabelValues(string(kind)).Inc()
}

// SetReachable updates the per-device reachability gauge.
func (t *Telemetry) SetReachable(deviceID int64, deviceName string, reachable bool) {
	if t == nil {
		return
	}
	v := 0.0
	if reachable {
		v = 1.0
	}
	t.deviceReachable.WithLabelValues(strconv.FormatInt(deviceID, 10), deviceName).Set(v)
}
