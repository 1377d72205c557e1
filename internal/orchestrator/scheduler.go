package orchestrator

import (
	"context"
	"log/slog"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/meshops/netwarden/models"
)

// JobSubmitter is the subset of WorkerPool the scheduler drives. An
// interface lets tests inject a recorder without a real pool.
type JobSubmitter interface {
	TrySubmit(Job) bool
}

type tierKey struct {
	deviceID int64
	tier     models.Tier
}

// entry tracks one device's one tier: its cadence and next fire time.
type entry struct {
	device   models.DeviceConfig
	tier     models.Tier
	interval time.Duration
	nextRun  time.Time
}

// Scheduler dispatches a Job for each enabled (device, tier) pair at that
// tier's configured interval. The three tiers run independently per
// device — a slow interfaces poll never delays that device's health tier.
type Scheduler struct {
	submitter JobSubmitter
	logger    *slog.Logger

	mu      sync.Mutex
	entries []entry

	flightMu sync.Mutex
	inFlight map[tierKey]bool

	done chan struct{}
}

// NewScheduler builds a Scheduler for devices. It does not start
// automatically — call Start.
func NewScheduler(devices []models.DeviceConfig, submitter JobSubmitter, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(noopWriter{}, nil))
	}
	s := &Scheduler{
		submitter: submitter,
		logger:    logger,
		inFlight:  make(map[tierKey]bool),
		done:      make(chan struct{}),
	}
	s.entries = buildEntries(devices)
	return s
}

// buildEntries creates one entry per enabled (device, tier) pair whose
// interval is positive (a zero interval means that tier is disabled for the
// device). Each entry's first run is jittered within its own interval so
// devices sharing a cadence don't all poll on the same tick.
func buildEntries(devices []models.DeviceConfig) []entry {
	now := time.Now()
	var entries []entry
	for _, d := range devices {
		if !d.Enabled {
			continue
		}
		for _, spec := range []struct {
			tier     models.Tier
			interval time.Duration
		}{
			{models.TierInterfaces, d.TierIntervals.Interfaces},
			{models.TierHealth, d.TierIntervals.Health},
			{models.TierInventory, d.TierIntervals.Inventory},
		} {
			if spec.interval <= 0 {
				continue
			}
			jitter := time.Duration(rand.Int63n(int64(spec.interval)))
			entries = append(entries, entry{
				device:   d,
				tier:     spec.tier,
				interval: spec.interval,
				nextRun:  now.Add(jitter),
			})
		}
	}
	return entries
}

// Start runs the scheduling loop until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	defer close(s.done)

	for {
		s.mu.Lock()
		if len(s.entries) == 0 {
			s.mu.Unlock()
			select {
			case <-ctx.Done():
				return
			case <-time.After(500 * time.Millisecond):
				continue
			}
		}

		sort.Slice(s.entries, func(i, j int) bool {
			return s.entries[i].nextRun.Before(s.entries[j].nextRun)
		})
		next := s.entries[0].nextRun
		s.mu.Unlock()

		delay := time.Until(next)
		if delay < 0 {
			delay = 0
		}
		timer := time.NewTimer(delay)

		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		now := time.Now()
		s.mu.Lock()
		for i := range s.entries {
			if s.entries[i].nextRun.After(now) {
				break
			}
			s.fireEntry(&s.entries[i])
			// Reschedule from the prior nextRun, not from now, so a
			// temporarily delayed tick doesn't shift the whole cadence.
			s.entries[i].nextRun = s.entries[i].nextRun.Add(s.entries[i].interval)
		}
		s.mu.Unlock()
	}
}

// Stop waits for the scheduling loop to exit. Cancel the context passed to
// Start before calling Stop.
func (s *Scheduler) Stop() {
	<-s.done
}

// Reload atomically replaces the device set. Newly-added (device, tier)
// pairs get a fresh jittered first run; pairs that no longer exist simply
// stop being scheduled.
func (s *Scheduler) Reload(devices []models.DeviceConfig) {
	newEntries := buildEntries(devices)
	s.mu.Lock()
	prior := make(map[tierKey]time.Time, len(s.entries))
	for _, e := range s.entries {
		prior[tierKey{e.device.DeviceID, e.tier}] = e.nextRun
	}
	for i := range newEntries {
		if next, ok := prior[tierKey{newEntries[i].device.DeviceID, newEntries[i].tier}]; ok {
			newEntries[i].nextRun = next
		}
	}
	s.entries = newEntries
	s.mu.Unlock()
	s.logger.Info("scheduler: reloaded", "entries", len(newEntries))
}

// MarkComplete clears the in-flight guard for (deviceID, tier), called once
// a submitted Job's Result has been consumed. Until this is called, further
// ticks for the same (device, tier) are skipped rather than queued, so a
// slow or hung device never backs up behind itself.
func (s *Scheduler) MarkComplete(deviceID int64, tier models.Tier) {
	s.flightMu.Lock()
	delete(s.inFlight, tierKey{deviceID, tier})
	s.flightMu.Unlock()
}

// TryAcquire claims the in-flight guard for (deviceID, tier), returning
// false if a poll for that pair is already running. Both the scheduled
// path (fireEntry) and an operator-triggered poll_now go through this same
// guard, so at most one poll per (device, tier) is ever in flight
// regardless of which path started it. The caller must call MarkComplete
// once the poll finishes.
func (s *Scheduler) TryAcquire(deviceID int64, tier models.Tier) bool {
	key := tierKey{deviceID, tier}
	s.flightMu.Lock()
	defer s.flightMu.Unlock()
	if s.inFlight[key] {
		return false
	}
	s.inFlight[key] = true
	return true
}

// fireEntry submits e's job unless the same (device, tier) pair already has
// a poll in flight.
func (s *Scheduler) fireEntry(e *entry) {
	if !s.TryAcquire(e.device.DeviceID, e.tier) {
		s.logger.Debug("scheduler: skip, prior poll still in flight",
			"device_id", e.device.DeviceID, "tier", e.tier)
		return
	}

	if !s.submitter.TrySubmit(Job{Device: e.device, Tier: e.tier}) {
		s.MarkComplete(e.device.DeviceID, e.tier)
		s.logger.Warn("scheduler: job queue full, dropping poll",
			"device_id", e.device.DeviceID, "tier", e.tier)
	}
}

// Entries reports the number of active (device, tier) schedule entries, for
// monitoring and tests.
func (s *Scheduler) Entries() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
