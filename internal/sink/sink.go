// Package sink defines the downstream publish contract the monitoring
// engine emits samples and alarms to, plus a bounded ring-buffered
// decorator for when that downstream is temporarily unavailable.
package sink

import "github.com/meshops/netwarden/models"

// Batch is a polymorphic mixed batch of samples produced by one polling
// cycle. Exactly one field is populated per tier.
type Batch struct {
	Interfaces []models.InterfaceSample
	Health     *models.HealthSample
	Inventory  *models.InventorySample
}

// Sink is the abstract downstream collaborator: an HTTP receiver, a
// database writer, or a message queue. Implementations must be safe for
// concurrent Publish calls from multiple workers.
type Sink interface {
	PublishSamples(batch Batch) error
	PublishAlarms(alarms []models.Alarm) error
	Close() error
}
