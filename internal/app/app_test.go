package app

import (
	"testing"
	"time"

	"github.com/meshops/netwarden/internal/alarmengine"
	"github.com/meshops/netwarden/internal/oidregistry"
	"github.com/meshops/netwarden/internal/orchestrator"
	"github.com/meshops/netwarden/internal/sink"
	"github.com/meshops/netwarden/models"
)

type captureSink struct {
	samples []sink.Batch
	alarms  [][]models.Alarm
}

func (c *captureSink) PublishSamples(b sink.Batch) error {
	c.samples = append(c.samples, b)
	return nil
}

func (c *captureSink) PublishAlarms(a []models.Alarm) error {
	c.alarms = append(c.alarms, a)
	return nil
}

func (c *captureSink) Close() error { return nil }

func newTestApp(t *testing.T) (*App, *captureSink) {
	t.Helper()
	reg, err := oidregistry.Builtin()
	if err != nil {
		t.Fatalf("Builtin() error = %v", err)
	}
	orch := orchestrator.New(orchestrator.Config{}, reg, nil)
	dev := models.DeviceConfig{DeviceID: 1, Name: "sw1", Address: "10.0.0.1", VendorTag: "generic", Enabled: true}
	if err := orch.RegisterDevice(dev); err != nil {
		t.Fatalf("RegisterDevice() error = %v", err)
	}

	cap := &captureSink{}
	a := New(Config{}, nil)
	a.orch = orch
	a.alarms = alarmengine.New(alarmengine.DefaultThresholds())
	a.snk = sink.NewRingSink(cap, 10, nil)
	return a, cap
}

func TestHandleResultPublishesSamplesAndInterfaceAlarm(t *testing.T) {
	a, cap := newTestApp(t)
	dev, _ := a.orch.Device(1)

	res := orchestrator.Result{
		Device:    dev,
		Tier:      models.TierInterfaces,
		Reachable: true,
		Interfaces: []models.InterfaceSample{
			{DeviceID: 1, IfIndex: 1, Name: "Gi0/0/1", AdminStatus: models.StatusUp, OperStatus: models.StatusDown, CollectedAt: time.Now()},
		},
	}
	a.handleResult(res)

	if len(cap.samples) != 1 || len(cap.samples[0].Interfaces) != 1 {
		t.Fatalf("samples = %+v, want one batch with one interface", cap.samples)
	}
	if len(cap.alarms) != 1 || cap.alarms[0][0].Kind != models.AlarmPortDown {
		t.Fatalf("alarms = %+v, want one port_down", cap.alarms)
	}
}

func TestHandleResultEmitsUnreachableAfterThreeFailures(t *testing.T) {
	a, cap := newTestApp(t)
	dev, _ := a.orch.Device(1)

	for i := 0; i < 2; i++ {
		a.handleResult(orchestrator.Result{Device: dev, Tier: models.TierHealth, Reachable: false})
	}
	if len(cap.alarms) != 0 {
		t.Fatalf("alarms after 2 failures = %+v, want none yet", cap.alarms)
	}

	a.handleResult(orchestrator.Result{Device: dev, Tier: models.TierHealth, Reachable: false})
	if len(cap.alarms) != 1 || cap.alarms[0][0].Kind != models.AlarmDeviceUnreachable {
		t.Fatalf("alarms after 3rd failure = %+v, want one device_unreachable", cap.alarms)
	}
}

func TestHandleResultEvaluatesHealthWhenPresent(t *testing.T) {
	a, cap := newTestApp(t)
	dev, _ := a.orch.Device(1)

	cpu := 95.0
	res := orchestrator.Result{
		Device:    dev,
		Tier:      models.TierHealth,
		Reachable: true,
		Health:    &models.HealthSample{DeviceID: 1, CPUPercent: &cpu, CollectedAt: time.Now()},
	}
	a.handleResult(res)

	if len(cap.alarms) != 1 || cap.alarms[0][0].Kind != models.AlarmCPUHigh {
		t.Fatalf("alarms = %+v, want one cpu_high", cap.alarms)
	}
}
