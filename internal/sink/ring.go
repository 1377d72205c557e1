package sink

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/meshops/netwarden/models"
)

// RingSink wraps a Sink and absorbs its failures: on PublishSamples or
// PublishAlarms error it retains the rejected batch/alarms in a bounded,
// drop-oldest ring instead of blocking or retrying indefinitely, matching
// the "never retry indefinitely" propagation policy. A background Drain
// call (invoked by the caller on its own schedule) attempts to flush
// retained entries back through the underlying sink.
type RingSink struct {
	underlying Sink
	logger     *slog.Logger
	capacity   int

	mu      sync.Mutex
	samples []Batch
	alarms  [][]models.Alarm
}

// NewRingSink wraps underlying with a ring buffer of the given capacity
// per kind (samples, alarms). Capacity defaults to 1000 if non-positive.
func NewRingSink(underlying Sink, capacity int, logger *slog.Logger) *RingSink {
	if capacity <= 0 {
		capacity = 1000
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(noopWriter{}, nil))
	}
	return &RingSink{underlying: underlying, logger: logger, capacity: capacity}
}

// PublishSamples forwards to the underlying sink; on failure the batch is
// retained (dropping the oldest retained batch if the ring is full) rather
// than propagated as a hard error to the caller.
func (r *RingSink) PublishSamples(batch Batch) error {
	if err := r.underlying.PublishSamples(batch); err != nil {
		r.logger.Warn("sink: publish_samples failed, retaining in ring", "error", err.Error())
		r.mu.Lock()
		r.samples = appendDropOldest(r.samples, batch, r.capacity)
		r.mu.Unlock()
		return nil
	}
	return nil
}

// PublishAlarms forwards to the underlying sink; on failure the alarms are
// retained the same way as samples.
func (r *RingSink) PublishAlarms(alarms []models.Alarm) error {
	if err := r.underlying.PublishAlarms(alarms); err != nil {
		r.logger.Warn("sink: publish_alarms failed, retaining in ring", "error", err.Error())
		r.mu.Lock()
		r.alarms = appendDropOldest(r.alarms, alarms, r.capacity)
		r.mu.Unlock()
		return nil
	}
	return nil
}

// Drain attempts to flush every retained batch and alarm set back through
// the underlying sink, in the order they were retained. It stops at the
// first failure, keeping the remaining entries for the next Drain call.
func (r *RingSink) Drain() error {
	r.mu.Lock()
	samples := r.samples
	alarms := r.alarms
	r.mu.Unlock()

	var flushedSamples int
	for _, b := range samples {
		if err := r.underlying.PublishSamples(b); err != nil {
			return r.requeue(samples[flushedSamples:], alarms, fmt.Errorf("sink: drain samples: %w", err))
		}
		flushedSamples++
	}

	var flushedAlarms int
	for _, a := range alarms {
		if err := r.underlying.PublishAlarms(a); err != nil {
			return r.requeue(nil, alarms[flushedAlarms:], fmt.Errorf("sink: drain alarms: %w", err))
		}
		flushedAlarms++
	}

	r.mu.Lock()
	r.samples = nil
	r.alarms = nil
	r.mu.Unlock()
	return nil
}

func (r *RingSink) requeue(samples []Batch, alarms [][]models.Alarm, err error) error {
	r.mu.Lock()
	r.samples = samples
	r.alarms = alarms
	r.mu.Unlock()
	return err
}

// Retained reports how many batches and alarm sets are currently held,
// for monitoring.
func (r *RingSink) Retained() (samples, alarmSets int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.samples), len(r.alarms)
}

func (r *RingSink) Close() error {
	return r.underlying.Close()
}

func appendDropOldest[T any](ring []T, item T, capacity int) []T {
	if len(ring) >= capacity {
		ring = ring[1:]
	}
	return append(ring, item)
}

type noopWriter struct{}

func (noopWriter) Write(b []byte) (int, error) { return len(b), nil }
