package config

import (
	"fmt"
	"time"

	"github.com/meshops/netwarden/models"
)

// rawV3Credentials mirrors models.V3Credentials with YAML tags.
type rawV3Credentials struct {
	Username                 string `yaml:"username"`
	AuthenticationProtocol   string `yaml:"authentication_protocol"`
	AuthenticationPassphrase string `yaml:"authentication_passphrase"`
	PrivacyProtocol          string `yaml:"privacy_protocol"`
	PrivacyPassphrase        string `yaml:"privacy_passphrase"`
}

type rawTierIntervals struct {
	InterfacesSeconds int `yaml:"interfaces_seconds"`
	HealthSeconds     int `yaml:"health_seconds"`
	InventorySeconds  int `yaml:"inventory_seconds"`
}

type rawThresholds struct {
	CPUPercent         float64 `yaml:"cpu_percent"`
	MemoryPercent      float64 `yaml:"memory_percent"`
	TemperatureCelsius float64 `yaml:"temperature_celsius"`
	HysteresisPercent  float64 `yaml:"hysteresis_percent"`
	HysteresisCelsius  float64 `yaml:"hysteresis_celsius"`
}

// rawDeviceEntry is the intermediate YAML-decoded form of a single device.
// A zero-valued tier interval means "disable this tier for this device";
// it is resolved against the global poll interval only when the field is
// entirely absent from the file, distinguished here by a pointer.
type rawDeviceEntry struct {
	DeviceID           int64            `yaml:"device_id"`
	Name               string           `yaml:"name"`
	Address            string           `yaml:"address"`
	Vendor             string           `yaml:"vendor"`
	Enabled            *bool            `yaml:"enabled"`
	Version            string           `yaml:"version"`
	Community          string           `yaml:"community"`
	V3                 rawV3Credentials `yaml:"v3"`
	TierIntervals      *rawTierIntervals `yaml:"tier_intervals"`
	Thresholds         rawThresholds    `yaml:"thresholds"`
	MaxConcurrentPolls int              `yaml:"max_concurrent_polls"`
}

// resolveDevice merges a raw device entry with the global configuration,
// producing a fully-resolved models.DeviceConfig. Per-device thresholds are
// carried as given (the alarm engine falls back to the global default for
// each zero field). Tier intervals are resolved as a whole block: an absent
// tier_intervals block inherits every global interval, while a present
// block replaces all three and its zero fields disable that specific tier.
func resolveDevice(e rawDeviceEntry, g GlobalConfig) (models.DeviceConfig, error) {
	if e.DeviceID == 0 {
		return models.DeviceConfig{}, fmt.Errorf("config: device entry %q missing device_id", e.Name)
	}
	if e.Vendor == "" {
		return models.DeviceConfig{}, fmt.Errorf("config: device %d missing vendor", e.DeviceID)
	}
	if e.Address == "" {
		return models.DeviceConfig{}, fmt.Errorf("config: device %d missing address", e.DeviceID)
	}

	version := e.Version
	if version == "" {
		version = "2c"
	}

	enabled := true
	if e.Enabled != nil {
		enabled = *e.Enabled
	}

	intervals := models.TierIntervals{
		Interfaces: g.InterfacePollInterval,
		Health:     g.HealthPollInterval,
		Inventory:  g.InventoryPollInterval,
	}
	if e.TierIntervals != nil {
		intervals = models.TierIntervals{
			Interfaces: secondsOrZero(e.TierIntervals.InterfacesSeconds),
			Health:     secondsOrZero(e.TierIntervals.HealthSeconds),
			Inventory:  secondsOrZero(e.TierIntervals.InventorySeconds),
		}
	}

	maxPolls := e.MaxConcurrentPolls
	if maxPolls == 0 {
		maxPolls = 4
	}

	return models.DeviceConfig{
		DeviceID: e.DeviceID,
		Name:     deviceName(e),
		Address:  e.Address,
		Credentials: models.TransportCredentials{
			Version:   version,
			Community: e.Community,
			V3: models.V3Credentials{
				Username:                 e.V3.Username,
				AuthenticationProtocol:   e.V3.AuthenticationProtocol,
				AuthenticationPassphrase: e.V3.AuthenticationPassphrase,
				PrivacyProtocol:          e.V3.PrivacyProtocol,
				PrivacyPassphrase:        e.V3.PrivacyPassphrase,
			},
		},
		VendorTag:     e.Vendor,
		Enabled:       enabled,
		TierIntervals: intervals,
		Thresholds: models.Thresholds{
			CPUPercent:         e.Thresholds.CPUPercent,
			MemoryPercent:      e.Thresholds.MemoryPercent,
			TemperatureCelsius: e.Thresholds.TemperatureCelsius,
			HysteresisPercent:  e.Thresholds.HysteresisPercent,
			HysteresisCelsius:  e.Thresholds.HysteresisCelsius,
		},
		MaxConcurrentPolls: maxPolls,
	}, nil
}

func deviceName(e rawDeviceEntry) string {
	if e.Name != "" {
		return e.Name
	}
	return e.Address
}

func secondsOrZero(s int) time.Duration {
	if s <= 0 {
		return 0
	}
	return time.Duration(s) * time.Second
}
