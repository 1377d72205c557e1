package models

import "time"

// InterfaceStatus is the IF-MIB admin/oper status enumeration.
type InterfaceStatus string

const (
	StatusUp      InterfaceStatus = "up"
	StatusDown    InterfaceStatus = "down"
	StatusTesting InterfaceStatus = "testing"
	StatusUnknown InterfaceStatus = "unknown"
)

// InterfaceSample is produced once per interface, per polling cycle, by the
// "interfaces" tier.
type InterfaceSample struct {
	DeviceID    int64
	IfIndex     int
	Name        string
	Description string
	AdminStatus InterfaceStatus
	OperStatus  InterfaceStatus
	SpeedBps    uint64
	InOctets    uint64
	OutOctets   uint64
	CollectedAt time.Time
}

// HealthSample is produced once per device, per polling cycle, by the
// "health" tier. Any pointer field is nil if the device does not expose it;
// absence is not an error.
type HealthSample struct {
	DeviceID           int64
	CPUPercent         *float64
	MemoryPercent      *float64
	TemperatureCelsius *float64
	UptimeSeconds      *uint64
	CollectedAt        time.Time
}

// InventorySample is produced once per device, per polling cycle, by the
// "inventory" tier.
type InventorySample struct {
	DeviceID        int64
	SystemDescr     string
	Serial          string
	FirmwareVersion string
	CollectedAt     time.Time
}

// ReachabilityEvent is the structured pseudo-error the orchestrator feeds
// into the alarm engine after classifying a session error or success. It is
// never surfaced to the sink directly.
type ReachabilityEvent struct {
	DeviceID   int64
	DeviceName string
	Success    bool
	ObservedAt time.Time
}

// Tier identifies one of the three independent polling cadences.
type Tier string

const (
	TierInterfaces Tier = "interfaces"
	TierHealth     Tier = "health"
	TierInventory  Tier = "inventory"
)
