package orchestrator

import (
	"fmt"
	"sync"

	"github.com/meshops/netwarden/internal/oidregistry"
	"github.com/meshops/netwarden/models"
)

// deviceRegistry is the orchestrator's fleet of known devices, keyed by
// device_id. Registration validates the device's vendor tag against the OID
// registry up front — a vendor with zero registered mappings is a
// configuration error, not something to discover at poll time.
type deviceRegistry struct {
	registry *oidregistry.Registry

	mu      sync.RWMutex
	devices map[int64]models.DeviceConfig
}

func newDeviceRegistry(registry *oidregistry.Registry) *deviceRegistry {
	return &deviceRegistry{registry: registry, devices: make(map[int64]models.DeviceConfig)}
}

// Register adds or replaces a device. It fails if cfg.VendorTag has no
// mappings in the OID registry at all.
func (d *deviceRegistry) Register(cfg models.DeviceConfig) error {
	if !d.registry.HasVendor(cfg.VendorTag) {
		return fmt.Errorf("orchestrator: vendor %q has no registered OID mappings", cfg.VendorTag)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.devices[cfg.DeviceID] = cfg
	return nil
}

// Deregister removes a device from the fleet. It is not an error to
// deregister an unknown device_id.
func (d *deviceRegistry) Deregister(deviceID int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.devices, deviceID)
}

// SetEnabled flips a device's Enabled flag without touching its other
// fields. Returns false if deviceID is not registered.
func (d *deviceRegistry) SetEnabled(deviceID int64, enabled bool) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	cfg, ok := d.devices[deviceID]
	if !ok {
		return false
	}
	cfg.Enabled = enabled
	d.devices[deviceID] = cfg
	return true
}

// Get returns the registered config for deviceID.
func (d *deviceRegistry) Get(deviceID int64) (models.DeviceConfig, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	cfg, ok := d.devices[deviceID]
	return cfg, ok
}

// List returns a snapshot of every registered device, in no particular
// order.
func (d *deviceRegistry) List() []models.DeviceConfig {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]models.DeviceConfig, 0, len(d.devices))
	for _, cfg := range d.devices {
		out = append(out, cfg)
	}
	return out
}
