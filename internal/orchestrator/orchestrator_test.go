package orchestrator

import (
	"context"
	"testing"

	"github.com/meshops/netwarden/internal/oidregistry"
	"github.com/meshops/netwarden/internal/snmpsession"
	"github.com/meshops/netwarden/models"
)

// PollNow must obey the same (device, tier) re-entrancy guard the
// scheduler uses, so an operator-triggered poll never races a poll the
// scheduler already has in flight.
func TestPollNowRejectsWhenAlreadyInFlight(t *testing.T) {
	reg, err := oidregistry.Builtin()
	if err != nil {
		t.Fatalf("Builtin() error = %v", err)
	}

	o := New(Config{
		Pool: PoolOptions{
			Dial: func(models.DeviceConfig) (snmpsession.Session, error) {
				return &scriptedSession{}, nil
			},
		},
	}, reg, nil)

	dev := models.DeviceConfig{DeviceID: 1, VendorTag: "generic", Address: "10.0.0.1", Credentials: models.TransportCredentials{Version: "2c"}, Enabled: true}
	if err := o.RegisterDevice(dev); err != nil {
		t.Fatalf("RegisterDevice() error = %v", err)
	}

	if !o.sched.TryAcquire(1, models.TierInterfaces) {
		t.Fatal("TryAcquire() on fresh scheduler = false, want true")
	}

	if _, err := o.PollNow(context.Background(), 1, models.TierInterfaces); err == nil {
		t.Fatal("PollNow() while in flight = nil error, want rejection")
	}

	o.sched.MarkComplete(1, models.TierInterfaces)

	if _, err := o.PollNow(context.Background(), 1, models.TierInterfaces); err != nil {
		t.Fatalf("PollNow() after release error = %v, want nil", err)
	}
}

func TestPollNowUnknownDeviceErrors(t *testing.T) {
	reg, err := oidregistry.Builtin()
	if err != nil {
		t.Fatalf("Builtin() error = %v", err)
	}
	o := New(Config{}, reg, nil)
	if _, err := o.PollNow(context.Background(), 99, models.TierInterfaces); err == nil {
		t.Fatal("PollNow() for unregistered device = nil error, want error")
	}
}
