package orchestrator

import (
	"context"
	"testing"

	"github.com/meshops/netwarden/internal/oidregistry"
	"github.com/meshops/netwarden/internal/snmpsession"
	"github.com/meshops/netwarden/models"
)

type scriptedSession struct {
	getResponses  map[string]models.TypedValue
	walkResponses map[string][]snmpsession.Varbind
}

func (s *scriptedSession) Get(oid string) (models.TypedValue, *snmpsession.Error) {
	v, ok := s.getResponses[oid]
	if !ok {
		return models.TypedValue{}, &snmpsession.Error{Kind: snmpsession.ErrNoSuchName, OID: oid}
	}
	return v, nil
}
func (s *scriptedSession) GetNext(oid string) (snmpsession.Varbind, *snmpsession.Error) {
	return snmpsession.Varbind{}, nil
}
func (s *scriptedSession) Walk(rootOID string) ([]snmpsession.Varbind, *snmpsession.Error) {
	return s.walkResponses[rootOID], nil
}
func (s *scriptedSession) BulkWalk(rootOID string, max uint32) ([]snmpsession.Varbind, *snmpsession.Error) {
	return s.walkResponses[rootOID], nil
}
func (s *scriptedSession) Close() error { return nil }

func TestPollInterfacesMergesColumnsByIndex(t *testing.T) {
	reg, err := oidregistry.Builtin()
	if err != nil {
		t.Fatalf("Builtin() error = %v", err)
	}
	pool := NewConnectionPool(PoolOptions{
		Dial: func(models.DeviceConfig) (snmpsession.Session, error) {
			return &scriptedSession{
				walkResponses: map[string][]snmpsession.Varbind{
					"1.3.6.1.2.1.2.2.1.2":  {{OID: "1.3.6.1.2.1.2.2.1.2.1", Value: models.OctetString("Gi0/0/1")}},
					"1.3.6.1.2.1.2.2.1.7":  {{OID: "1.3.6.1.2.1.2.2.1.7.1", Value: models.Integer(1)}},
					"1.3.6.1.2.1.2.2.1.8":  {{OID: "1.3.6.1.2.1.2.2.1.8.1", Value: models.Integer(2)}},
					"1.3.6.1.2.1.2.2.1.5":  {{OID: "1.3.6.1.2.1.2.2.1.5.1", Value: models.Gauge(1000000000)}},
					"1.3.6.1.2.1.2.2.1.10": {{OID: "1.3.6.1.2.1.2.2.1.10.1", Value: models.Counter32(500)}},
					"1.3.6.1.2.1.2.2.1.16": {{OID: "1.3.6.1.2.1.2.2.1.16.1", Value: models.Counter32(700)}},
				},
			}, nil
		},
	}, nil)
	poller := NewSNMPPoller(pool, reg, nil)

	dev := models.DeviceConfig{DeviceID: 1, VendorTag: "generic", Credentials: models.TransportCredentials{Version: "2c"}}
	result, err := poller.Poll(context.Background(), Job{Device: dev, Tier: models.TierInterfaces})
	if err != nil {
		t.Fatalf("Poll() error = %v", err)
	}
	if len(result.Interfaces) != 1 {
		t.Fatalf("Interfaces len = %d, want 1", len(result.Interfaces))
	}
	iface := result.Interfaces[0]
	if iface.IfIndex != 1 || iface.Name != "Gi0/0/1" {
		t.Errorf("got %+v", iface)
	}
	if iface.AdminStatus != models.StatusUp || iface.OperStatus != models.StatusDown {
		t.Errorf("status decode wrong: admin=%v oper=%v", iface.AdminStatus, iface.OperStatus)
	}
	if iface.InOctets != 500 || iface.OutOctets != 700 {
		t.Errorf("octet counters wrong: in=%d out=%d", iface.InOctets, iface.OutOctets)
	}
	if !result.Reachable {
		t.Error("Reachable should be true on successful poll")
	}
}

func TestPollHealthDerivesMemoryPercentFromUsedAndTotal(t *testing.T) {
	reg, err := oidregistry.Builtin()
	if err != nil {
		t.Fatalf("Builtin() error = %v", err)
	}
	memUsedOID, _ := reg.Lookup("mikrotik", "memory_used_bytes")
	memTotalOID, _ := reg.Lookup("mikrotik", "memory_total_bytes")
	cpuOID, _ := reg.Lookup("mikrotik", "cpu_percent")

	pool := NewConnectionPool(PoolOptions{
		Dial: func(models.DeviceConfig) (snmpsession.Session, error) {
			return &scriptedSession{getResponses: map[string]models.TypedValue{
				cpuOID.OID:      models.Gauge(42),
				memUsedOID.OID:  models.Gauge(750),
				memTotalOID.OID: models.Gauge(1000),
			}}, nil
		},
	}, nil)
	poller := NewSNMPPoller(pool, reg, nil)

	dev := models.DeviceConfig{DeviceID: 2, VendorTag: "mikrotik"}
	result, err := poller.Poll(context.Background(), Job{Device: dev, Tier: models.TierHealth})
	if err != nil {
		t.Fatalf("Poll() error = %v", err)
	}
	if result.Health == nil {
		t.Fatal("Health sample is nil")
	}
	if result.Health.CPUPercent == nil || *result.Health.CPUPercent != 42 {
		t.Errorf("CPUPercent = %v, want 42", result.Health.CPUPercent)
	}
	if result.Health.MemoryPercent == nil || *result.Health.MemoryPercent != 75 {
		t.Errorf("MemoryPercent = %v, want 75 (derived from used/total)", result.Health.MemoryPercent)
	}
}

func TestPollFailureDiscardsSessionAndReportsUnreachable(t *testing.T) {
	reg, err := oidregistry.Builtin()
	if err != nil {
		t.Fatalf("Builtin() error = %v", err)
	}
	var closed bool
	pool := NewConnectionPool(PoolOptions{
		Dial: func(models.DeviceConfig) (snmpsession.Session, error) {
			return &closingSession{onClose: func() { closed = true }}, nil
		},
	}, nil)
	poller := NewSNMPPoller(pool, reg, nil)

	dev := models.DeviceConfig{DeviceID: 3, VendorTag: "generic", Credentials: models.TransportCredentials{Version: "2c"}}
	result, err := poller.Poll(context.Background(), Job{Device: dev, Tier: models.TierInterfaces})
	if err == nil {
		t.Fatal("Poll() with walk failure: want error, got nil")
	}
	if result.Reachable {
		t.Error("Reachable should be false on failed poll")
	}
	if !closed {
		t.Error("failed session should have been discarded (closed)")
	}
}

type closingSession struct {
	onClose func()
}

func (c *closingSession) Get(oid string) (models.TypedValue, *snmpsession.Error) {
	return models.TypedValue{}, nil
}
func (c *closingSession) GetNext(oid string) (snmpsession.Varbind, *snmpsession.Error) {
	return snmpsession.Varbind{}, nil
}
func (c *closingSession) Walk(oid string) ([]snmpsession.Varbind, *snmpsession.Error) {
	return nil, &snmpsession.Error{Kind: snmpsession.ErrTimeout, OID: oid}
}
func (c *closingSession) BulkWalk(oid string, max uint32) ([]snmpsession.Varbind, *snmpsession.Error) {
	return nil, &snmpsession.Error{Kind: snmpsession.ErrTimeout, OID: oid}
}
func (c *closingSession) Close() error {
	c.onClose()
	return nil
}
