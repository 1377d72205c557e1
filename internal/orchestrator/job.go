package orchestrator

import (
	"time"

	"github.com/meshops/netwarden/models"
)

// Job is one (device, tier) unit of work submitted to the worker pool.
type Job struct {
	Device models.DeviceConfig
	Tier   models.Tier
}

// Result is what a single poll produces: the samples decoded for the tier
// polled, plus whether the device responded at all (used to drive the
// reachability state machine independently of which tier ran) and how long
// the poll took (used for the poll-duration telemetry histogram).
type Result struct {
	Device     models.DeviceConfig
	Tier       models.Tier
	Reachable  bool
	Duration   time.Duration
	Interfaces []models.InterfaceSample
	Health     *models.HealthSample
	Inventory  *models.InventorySample
}
