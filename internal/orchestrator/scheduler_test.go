package orchestrator

import (
	"sync"
	"testing"
	"time"

	"github.com/meshops/netwarden/models"
)

type recordingSubmitter struct {
	mu    sync.Mutex
	jobs  []Job
	allow bool
}

func (r *recordingSubmitter) TrySubmit(j Job) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.allow {
		return false
	}
	r.jobs = append(r.jobs, j)
	return true
}

func (r *recordingSubmitter) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.jobs)
}

func TestBuildEntriesSkipsDisabledDevicesAndZeroIntervals(t *testing.T) {
	devices := []models.DeviceConfig{
		{DeviceID: 1, Enabled: false, TierIntervals: models.TierIntervals{Interfaces: time.Minute}},
		{DeviceID: 2, Enabled: true, TierIntervals: models.TierIntervals{Interfaces: time.Minute, Health: 0, Inventory: time.Hour}},
	}
	entries := buildEntries(devices)
	if len(entries) != 2 {
		t.Fatalf("buildEntries() len = %d, want 2 (device 2's interfaces+inventory)", len(entries))
	}
	for _, e := range entries {
		if e.device.DeviceID != 2 {
			t.Errorf("unexpected entry for disabled device: %+v", e)
		}
		if e.tier == models.TierHealth {
			t.Error("zero-interval tier should not produce an entry")
		}
	}
}

func TestFireEntrySkipsWhileInFlight(t *testing.T) {
	sub := &recordingSubmitter{allow: true}
	s := NewScheduler(nil, sub, nil)
	e := &entry{device: models.DeviceConfig{DeviceID: 7}, tier: models.TierHealth, interval: time.Second}

	s.fireEntry(e)
	s.fireEntry(e) // should be skipped: still in flight

	if got := sub.count(); got != 1 {
		t.Errorf("submitted jobs = %d, want 1 (second fire should be skipped)", got)
	}

	s.MarkComplete(7, models.TierHealth)
	s.fireEntry(e)
	if got := sub.count(); got != 2 {
		t.Errorf("submitted jobs after MarkComplete = %d, want 2", got)
	}
}

func TestFireEntryClearsInFlightOnRejectedSubmit(t *testing.T) {
	sub := &recordingSubmitter{allow: false}
	s := NewScheduler(nil, sub, nil)
	e := &entry{device: models.DeviceConfig{DeviceID: 9}, tier: models.TierInterfaces, interval: time.Second}

	s.fireEntry(e)

	s.flightMu.Lock()
	inFlight := s.inFlight[tierKey{9, models.TierInterfaces}]
	s.flightMu.Unlock()
	if inFlight {
		t.Error("in-flight guard should clear when TrySubmit rejects the job")
	}
}
