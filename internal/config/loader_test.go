package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestLoadMissingPathsYieldsDefaultsAndEmptyFleet(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(Paths{
		Global:  filepath.Join(dir, "missing.yml"),
		Devices: filepath.Join(dir, "missing-devices"),
	}, nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Global != DefaultGlobalConfig() {
		t.Errorf("Global = %+v, want defaults", cfg.Global)
	}
	if len(cfg.Devices) != 0 {
		t.Errorf("Devices = %d, want 0", len(cfg.Devices))
	}
}

func TestLoadGlobalOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "netwarden.yml", `
max_concurrent_pollers: 50
cpu_threshold_percent: 90
`)
	g, err := loadGlobal(path, nil)
	if err != nil {
		t.Fatalf("loadGlobal() error = %v", err)
	}
	if g.MaxConcurrentPollers != 50 {
		t.Errorf("MaxConcurrentPollers = %d, want 50", g.MaxConcurrentPollers)
	}
	if g.CPUThresholdPercent != 90 {
		t.Errorf("CPUThresholdPercent = %v, want 90", g.CPUThresholdPercent)
	}
	// untouched fields keep their defaults
	if g.SNMPRetries != 3 {
		t.Errorf("SNMPRetries = %d, want default 3", g.SNMPRetries)
	}
}

func TestLoadDevicesResolvesDefaultsAndExplicitTierBlock(t *testing.T) {
	devDir := t.TempDir()
	writeFile(t, devDir, "core.yml", `
sw1:
  device_id: 1
  address: 10.0.0.1
  vendor: cisco
  community: public
sw2:
  device_id: 2
  address: 10.0.0.2
  vendor: fortinet
  enabled: false
  tier_intervals:
    interfaces_seconds: 10
`)
	devices, errs := loadDevices(devDir, DefaultGlobalConfig(), nil)
	if len(errs) != 0 {
		t.Fatalf("loadDevices() errs = %v", errs)
	}
	if len(devices) != 2 {
		t.Fatalf("devices = %d, want 2", len(devices))
	}

	byID := make(map[int64]int)
	for i, d := range devices {
		byID[d.DeviceID] = i
	}

	sw1 := devices[byID[1]]
	if !sw1.Enabled || sw1.Credentials.Version != "2c" {
		t.Errorf("sw1 = %+v", sw1)
	}
	if sw1.TierIntervals.Interfaces != DefaultGlobalConfig().InterfacePollInterval {
		t.Errorf("sw1 interface interval = %v, want global default", sw1.TierIntervals.Interfaces)
	}

	sw2 := devices[byID[2]]
	if sw2.Enabled {
		t.Errorf("sw2.Enabled = true, want false")
	}
	if sw2.TierIntervals.Health != 0 {
		t.Errorf("sw2 health interval = %v, want 0 (tier disabled, absent from explicit block)", sw2.TierIntervals.Health)
	}
}

func TestLoadDevicesRejectsMissingVendor(t *testing.T) {
	devDir := t.TempDir()
	writeFile(t, devDir, "bad.yml", `
sw1:
  device_id: 1
  address: 10.0.0.1
`)
	_, errs := loadDevices(devDir, DefaultGlobalConfig(), nil)
	if len(errs) != 1 {
		t.Fatalf("errs = %v, want exactly one", errs)
	}
}
