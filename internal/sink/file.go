package sink

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/meshops/netwarden/models"
)

// FileConfig controls FileSink behaviour.
type FileConfig struct {
	// Writer is the destination. nil defaults to os.Stdout.
	Writer io.Writer

	// PrettyPrint emits indented, human-readable JSON when true. Defaults
	// to false (one compact line per record) for the development/debugging
	// transport.
	PrettyPrint bool
}

type sampleRecord struct {
	Timestamp  time.Time                 `json:"timestamp"`
	Interfaces []models.InterfaceSample  `json:"interfaces,omitempty"`
	Health     *models.HealthSample      `json:"health,omitempty"`
	Inventory  *models.InventorySample   `json:"inventory,omitempty"`
}

type alarmRecord struct {
	Timestamp time.Time      `json:"timestamp"`
	Alarms    []models.Alarm `json:"alarms"`
}

// FileSink implements Sink by writing one JSON record per line to an
// io.Writer, mirroring the write-then-newline transport used for the
// development/debugging output path. It is safe for concurrent use; a
// mutex serializes writes so concurrent publishers never interleave lines.
type FileSink struct {
	mu     sync.Mutex
	w      io.Writer
	pretty bool
	logger *slog.Logger
}

// NewFileSink constructs a FileSink. If logger is nil, a no-op logger is
// substituted so the sink never panics on a nil receiver.
func NewFileSink(cfg FileConfig, logger *slog.Logger) *FileSink {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(noopWriter{}, nil))
	}
	w := cfg.Writer
	if w == nil {
		w = os.Stdout
	}
	return &FileSink{w: w, pretty: cfg.PrettyPrint, logger: logger}
}

// PublishSamples writes one JSON line describing batch.
func (s *FileSink) PublishSamples(batch Batch) error {
	rec := sampleRecord{Timestamp: sampleTime(batch), Interfaces: batch.Interfaces, Health: batch.Health, Inventory: batch.Inventory}
	return s.writeLine(rec, "samples", len(batch.Interfaces))
}

// PublishAlarms writes one JSON line describing alarms. An empty slice is a
// no-op, since there is nothing worth recording.
func (s *FileSink) PublishAlarms(alarms []models.Alarm) error {
	if len(alarms) == 0 {
		return nil
	}
	rec := alarmRecord{Timestamp: alarms[0].RaisedAt, Alarms: alarms}
	return s.writeLine(rec, "alarms", len(alarms))
}

func (s *FileSink) writeLine(v interface{}, kind string, count int) error {
	var (
		data []byte
		err  error
	)
	if s.pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("sink: marshal %s: %w", kind, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.w.Write(data); err != nil {
		return fmt.Errorf("sink: write %s: %w", kind, err)
	}
	if _, err := s.w.Write([]byte("\n")); err != nil {
		return fmt.Errorf("sink: write newline after %s: %w", kind, err)
	}
	s.logger.Debug("sink: wrote record", "kind", kind, "count", count, "bytes", len(data))
	return nil
}

// Close is a no-op; the underlying writer's lifetime belongs to whoever
// constructed it.
func (s *FileSink) Close() error {
	return nil
}

func sampleTime(batch Batch) time.Time {
	switch {
	case len(batch.Interfaces) > 0:
		return batch.Interfaces[0].CollectedAt
	case batch.Health != nil:
		return batch.Health.CollectedAt
	case batch.Inventory != nil:
		return batch.Inventory.CollectedAt
	default:
		return time.Time{}
	}
}
