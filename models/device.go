package models

import "time"

// TierIntervals holds the per-tier polling cadence for one device.
type TierIntervals struct {
	Interfaces time.Duration
	Health     time.Duration
	Inventory  time.Duration
}

// V3Credentials holds a single set of SNMPv3 USM security parameters.
type V3Credentials struct {
	Username                 string
	AuthenticationProtocol   string // "", noauth, md5, sha, sha224, sha256, sha384, sha512
	AuthenticationPassphrase string
	PrivacyProtocol          string // "", nopriv, des, aes, aes192, aes256, aes192c, aes256c
	PrivacyPassphrase        string
}

// TransportCredentials carries the wire-level authentication material for a
// device, community-based for v1/v2c or USM-based for v3.
type TransportCredentials struct {
	Version   string // "1", "2c", "3"
	Community string
	V3        V3Credentials
}

// Thresholds holds the alarm-evaluation boundaries. Zero values mean "use
// the process-wide default" when resolved by the alarm engine.
type Thresholds struct {
	CPUPercent         float64
	MemoryPercent      float64
	TemperatureCelsius float64
	HysteresisPercent  float64
	HysteresisCelsius  float64
}

// DeviceConfig is owned exclusively by the orchestrator. device_id is stable
// for the lifetime of the process. VendorTag must name a vendor known to the
// OID registry at registration time.
type DeviceConfig struct {
	DeviceID    int64
	Name        string
	Address     string
	Credentials TransportCredentials
	VendorTag   string
	Enabled     bool

	TierIntervals TierIntervals

	// Thresholds overrides the process-wide alarm thresholds for this device.
	// A zero-valued field falls back to the process default.
	Thresholds Thresholds

	// MaxConcurrentPolls bounds simultaneous SNMP requests in flight to this
	// device specifically (distinct from the orchestrator-wide
	// max_concurrent_pollers).
	MaxConcurrentPolls int
}
