package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/meshops/netwarden/internal/oidregistry"
	"github.com/meshops/netwarden/internal/snmpsession"
	"github.com/meshops/netwarden/models"
)

// interfaceColumns lists the generic IF-MIB table columns polled on the
// "interfaces" tier, merged by ifIndex into one InterfaceSample per row.
var interfaceColumns = []string{
	"if_descr", "if_admin_status", "if_oper_status", "if_speed", "if_in_octets", "if_out_octets",
}

// healthScalars and inventoryScalars are the vendor-scoped logical names
// polled on the "health" and "inventory" tiers. Not every vendor defines
// every name; a registry miss for one name just skips that field rather
// than failing the whole poll.
var healthScalars = []string{
	"cpu_percent", "memory_percent", "memory_used_bytes", "memory_free_bytes",
	"memory_total_bytes", "temperature_celsius", "uptime_seconds",
}
var inventoryScalars = []string{"sys_descr", "chassis_serial", "firmware_version"}

// SNMPPoller is the production Poller backed by a ConnectionPool and an OID
// registry, which it consults on every poll to resolve logical names to OIDs.
type SNMPPoller struct {
	pool     *ConnectionPool
	registry *oidregistry.Registry
	logger   *slog.Logger
}

// NewSNMPPoller creates a poller that obtains sessions from pool and
// resolves OIDs from registry.
func NewSNMPPoller(pool *ConnectionPool, registry *oidregistry.Registry, logger *slog.Logger) *SNMPPoller {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(noopWriter{}, nil))
	}
	return &SNMPPoller{pool: pool, registry: registry, logger: logger}
}

// Poll executes one tier's SNMP operations for job.Device and returns the
// decoded samples. A failed poll discards the session (it may be broken);
// a successful one returns it to the pool for reuse.
func (p *SNMPPoller) Poll(ctx context.Context, job Job) (Result, error) {
	start := time.Now()
	result := Result{Device: job.Device, Tier: job.Tier}

	sess, err := p.pool.Get(ctx, job.Device)
	if err != nil {
		result.Duration = time.Since(start)
		return result, fmt.Errorf("orchestrator: pool get device %d: %w", job.Device.DeviceID, err)
	}

	var pollErr error
	switch job.Tier {
	case models.TierInterfaces:
		result.Interfaces, pollErr = p.pollInterfaces(job.Device, sess)
	case models.TierHealth:
		result.Health, pollErr = p.pollHealth(job.Device, sess)
	case models.TierInventory:
		result.Inventory, pollErr = p.pollInventory(job.Device, sess)
	default:
		pollErr = fmt.Errorf("orchestrator: unknown tier %q", job.Tier)
	}

	if pollErr != nil {
		p.pool.Discard(job.Device.DeviceID, sess)
		result.Reachable = false
		result.Duration = time.Since(start)
		return result, fmt.Errorf("orchestrator: poll device %d tier %s: %w", job.Device.DeviceID, job.Tier, pollErr)
	}

	p.pool.Put(job.Device.DeviceID, sess)
	result.Reachable = true
	result.Duration = time.Since(start)
	return result, nil
}

func (p *SNMPPoller) walkTable(cred models.TransportCredentials, sess snmpsession.Session, rootOID string) ([]snmpsession.Varbind, *snmpsession.Error) {
	if cred.Version == "1" {
		return sess.Walk(rootOID)
	}
	return sess.BulkWalk(rootOID, 10)
}

func (p *SNMPPoller) pollInterfaces(dev models.DeviceConfig, sess snmpsession.Session) ([]models.InterfaceSample, error) {
	now := time.Now()
	byIndex := make(map[int]*models.InterfaceSample)

	for _, col := range interfaceColumns {
		mapping, err := p.registry.Lookup("generic", col)
		if err != nil {
			return nil, err
		}
		vbs, walkErr := p.walkTable(dev.Credentials, sess, mapping.OID)
		if walkErr != nil {
			return nil, walkErr
		}
		for _, vb := range vbs {
			idx, ok := lastOIDComponent(vb.OID)
			if !ok {
				continue
			}
			sample, ok := byIndex[idx]
			if !ok {
				sample = &models.InterfaceSample{DeviceID: dev.DeviceID, IfIndex: idx, CollectedAt: now}
				byIndex[idx] = sample
			}
			applyInterfaceColumn(sample, col, vb.Value)
		}
	}

	out := make([]models.InterfaceSample, 0, len(byIndex))
	for _, s := range byIndex {
		out = append(out, *s)
	}
	return out, nil
}

func applyInterfaceColumn(sample *models.InterfaceSample, col string, v models.TypedValue) {
	switch col {
	case "if_descr":
		sample.Name = v.Str
		sample.Description = v.Str
	case "if_admin_status":
		sample.AdminStatus = decodeIfStatus(v)
	case "if_oper_status":
		sample.OperStatus = decodeIfStatus(v)
	case "if_speed":
		if u, ok := v.AsUint64(); ok {
			sample.SpeedBps = u
		}
	case "if_in_octets":
		if u, ok := v.AsUint64(); ok {
			sample.InOctets = u
		}
	case "if_out_octets":
		if u, ok := v.AsUint64(); ok {
			sample.OutOctets = u
		}
	}
}

// decodeIfStatus maps the IF-MIB ifAdminStatus/ifOperStatus enumeration
// (1=up, 2=down, 3=testing) to the status enum. Anything else decodes to
// unknown rather than erroring the whole poll.
func decodeIfStatus(v models.TypedValue) models.InterfaceStatus {
	n, ok := v.AsInt64()
	if !ok {
		return models.StatusUnknown
	}
	switch n {
	case 1:
		return models.StatusUp
	case 2:
		return models.StatusDown
	case 3:
		return models.StatusTesting
	default:
		return models.StatusUnknown
	}
}

func lastOIDComponent(oid string) (int, bool) {
	oid = strings.TrimPrefix(oid, ".")
	parts := strings.Split(oid, ".")
	if len(parts) == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(parts[len(parts)-1])
	if err != nil {
		return 0, false
	}
	return n, true
}

func (p *SNMPPoller) pollHealth(dev models.DeviceConfig, sess snmpsession.Session) (*models.HealthSample, error) {
	sample := &models.HealthSample{DeviceID: dev.DeviceID, CollectedAt: time.Now()}
	var memUsed, memFree, memTotal *float64

	for _, name := range healthScalars {
		mapping, err := p.registry.Lookup(dev.VendorTag, name)
		if err != nil {
			continue
		}
		val, getErr := sess.Get(mapping.OID)
		if getErr != nil {
			if getErr.Kind == snmpsession.ErrNoSuchName {
				continue
			}
			return nil, getErr
		}
		f, ok := asFloat(val)
		if !ok {
			continue
		}
		switch name {
		case "cpu_percent":
			sample.CPUPercent = clampPercent(f)
		case "memory_percent":
			sample.MemoryPercent = clampPercent(f)
		case "memory_used_bytes":
			memUsed = &f
		case "memory_free_bytes":
			memFree = &f
		case "memory_total_bytes":
			memTotal = &f
		case "temperature_celsius":
			sample.TemperatureCelsius = &f
		case "uptime_seconds":
			u := uint64(f)
			sample.UptimeSeconds = &u
		}
	}

	if sample.MemoryPercent == nil {
		switch {
		case memUsed != nil && memTotal != nil && *memTotal > 0:
			sample.MemoryPercent = clampPercent(*memUsed / *memTotal * 100)
		case memUsed != nil && memFree != nil && (*memUsed+*memFree) > 0:
			sample.MemoryPercent = clampPercent(*memUsed / (*memUsed + *memFree) * 100)
		}
	}
	return sample, nil
}

func (p *SNMPPoller) pollInventory(dev models.DeviceConfig, sess snmpsession.Session) (*models.InventorySample, error) {
	sample := &models.InventorySample{DeviceID: dev.DeviceID, CollectedAt: time.Now()}
	for _, name := range inventoryScalars {
		mapping, err := p.registry.Lookup(dev.VendorTag, name)
		if err != nil {
			continue
		}
		val, getErr := sess.Get(mapping.OID)
		if getErr != nil {
			if getErr.Kind == snmpsession.ErrNoSuchName {
				continue
			}
			return nil, getErr
		}
		switch name {
		case "sys_descr":
			sample.SystemDescr = val.Str
		case "chassis_serial":
			sample.Serial = val.Str
		case "firmware_version":
			sample.FirmwareVersion = val.Str
		}
	}
	return sample, nil
}

func clampPercent(v float64) *float64 {
	if v < 0 {
		v = 0
	}
	if v > 100 {
		v = 100
	}
	return &v
}

func asFloat(v models.TypedValue) (float64, bool) {
	if u, ok := v.AsUint64(); ok {
		return float64(u), true
	}
	if i, ok := v.AsInt64(); ok {
		return float64(i), true
	}
	return 0, false
}
