// Package alarmengine converts normalized samples into edge-triggered
// alarms with per-device state memory and recovery detection. Evaluations
// for different devices run in parallel; evaluations for the same device
// are serialized by a per-device mutex, mirroring the connection pool's
// map-of-per-key-state idiom used throughout this codebase.
package alarmengine

import (
	"fmt"
	"sync"
	"time"

	"github.com/meshops/netwarden/models"
)

type deviceState struct {
	mu    sync.Mutex
	state *models.AlarmEngineState
}

// Engine is the stateful per-device alarm evaluator.
type Engine struct {
	defaults Defaults

	mu     sync.Mutex
	states map[int64]*deviceState
}

// New builds an Engine with no device state yet.
func New(defaults Defaults) *Engine {
	return &Engine{defaults: defaults, states: make(map[int64]*deviceState)}
}

func (e *Engine) stateFor(deviceID int64) *deviceState {
	e.mu.Lock()
	defer e.mu.Unlock()
	ds, ok := e.states[deviceID]
	if !ok {
		ds = &deviceState{state: models.NewAlarmEngineState()}
		e.states[deviceID] = ds
	}
	return ds
}

// Forget purges a device's state, called on deregistration.
func (e *Engine) Forget(deviceID int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.states, deviceID)
}

// EvaluateInterface compares sample against the interface's last known
// oper_status and returns zero or one alarm. An admin-down interface never
// alarms, but its recorded oper-status baseline is left untouched so a
// later admin-up observation still diffs against the real last-known
// status instead of being treated as a fresh first observation.
func (e *Engine) EvaluateInterface(dev models.DeviceConfig, sample models.InterfaceSample) []models.Alarm {
	ds := e.stateFor(dev.DeviceID)
	ds.mu.Lock()
	defer ds.mu.Unlock()

	if sample.AdminStatus == models.StatusDown {
		ds.state.Seen = true
		return nil
	}

	down := sample.OperStatus == models.StatusDown
	prevStatus, hadPrev := ds.state.LastOperStatus[sample.IfIndex]
	wasDown := hadPrev && prevStatus == models.StatusDown
	ds.state.LastOperStatus[sample.IfIndex] = sample.OperStatus
	ds.state.Seen = true

	switch {
	case down && !wasDown:
		return []models.Alarm{portAlarm(dev, sample, true)}
	case !down && wasDown:
		return []models.Alarm{portAlarm(dev, sample, false)}
	default:
		return nil
	}
}

func portAlarm(dev models.DeviceConfig, sample models.InterfaceSample, down bool) models.Alarm {
	kind, severity, recovery, verb := models.AlarmPortUp, models.SeverityInfo, true, "up"
	if down {
		kind, severity, recovery, verb = models.AlarmPortDown, models.SeverityCritical, false, "down"
	}
	return models.Alarm{
		DeviceID:   dev.DeviceID,
		DeviceName: dev.Name,
		Kind:       kind,
		Severity:   severity,
		Message:    fmt.Sprintf("interface %s (ifIndex %d) is %s", sample.Name, sample.IfIndex, verb),
		Metadata:   map[string]interface{}{"if_index": sample.IfIndex, "name": sample.Name},
		RaisedAt:   sample.CollectedAt,
		Recovery:   recovery,
	}
}

// EvaluateHealth evaluates cpu_high, memory_high, and temperature_high in
// that fixed order; a nil field neither raises nor clears its rule.
func (e *Engine) EvaluateHealth(dev models.DeviceConfig, sample models.HealthSample) []models.Alarm {
	ds := e.stateFor(dev.DeviceID)
	ds.mu.Lock()
	defer ds.mu.Unlock()
	th := e.resolve(dev)

	var alarms []models.Alarm
	if sample.CPUPercent != nil {
		if a, ok := evaluateGauge(dev, sample.CollectedAt, *sample.CPUPercent, th.CPU, th.HysteresisPercent,
			&ds.state.LastCPUHigh, models.AlarmCPUHigh, models.AlarmCPUNormal, "cpu_percent"); ok {
			alarms = append(alarms, a)
		}
	}
	if sample.MemoryPercent != nil {
		if a, ok := evaluateGauge(dev, sample.CollectedAt, *sample.MemoryPercent, th.Memory, th.HysteresisPercent,
			&ds.state.LastMemoryHigh, models.AlarmMemoryHigh, models.AlarmMemoryNormal, "memory_percent"); ok {
			alarms = append(alarms, a)
		}
	}
	if sample.TemperatureCelsius != nil {
		if a, ok := evaluateGauge(dev, sample.CollectedAt, *sample.TemperatureCelsius, th.Temperature, th.HysteresisCelsius,
			&ds.state.LastTemperatureHigh, models.AlarmTemperatureHigh, models.AlarmTemperatureNormal, "temperature_celsius"); ok {
			alarms = append(alarms, a)
		}
	}
	ds.state.Seen = true
	return alarms
}

// evaluateGauge implements one threshold/hysteresis rule: raise on strict
// exceed, clear at-or-below threshold-hysteresis. Values in between hold
// whatever state they already had.
func evaluateGauge(dev models.DeviceConfig, at time.Time, value, threshold, hysteresis float64,
	lastHigh *bool, raiseKind, clearKind models.AlarmKind, field string) (models.Alarm, bool) {

	clearBound := threshold - hysteresis
	switch {
	case value > threshold && !*lastHigh:
		*lastHigh = true
		return gaugeAlarm(dev, at, raiseKind, false, field, value), true
	case *lastHigh && value <= clearBound:
		*lastHigh = false
		return gaugeAlarm(dev, at, clearKind, true, field, value), true
	default:
		return models.Alarm{}, false
	}
}

func gaugeAlarm(dev models.DeviceConfig, at time.Time, kind models.AlarmKind, recovery bool, field string, value float64) models.Alarm {
	verb := "exceeded its threshold"
	if recovery {
		verb = "recovered below its threshold"
	}
	return models.Alarm{
		DeviceID:   dev.DeviceID,
		DeviceName: dev.Name,
		Kind:       kind,
		Severity:   severityFor(kind),
		Message:    fmt.Sprintf("%s %s (value=%.2f)", field, verb, value),
		Metadata:   map[string]interface{}{field: value},
		RaisedAt:   at,
		Recovery:   recovery,
	}
}

func severityFor(kind models.AlarmKind) models.Severity {
	switch kind {
	case models.AlarmPortDown, models.AlarmDeviceUnreachable, models.AlarmTemperatureHigh:
		return models.SeverityCritical
	case models.AlarmCPUHigh, models.AlarmMemoryHigh:
		return models.SeverityWarning
	default:
		return models.SeverityInfo
	}
}

// EvaluateReachability folds one poll's success/failure outcome into the
// 3-consecutive-failures unreachability rule. A device_unreachable alarm
// fires exactly once, on the poll where the failure count reaches the
// threshold; device_reachable fires only when recovering from that alarmed
// state, never on an ordinary first-ever success.
func (e *Engine) EvaluateReachability(dev models.DeviceConfig, event models.ReachabilityEvent) []models.Alarm {
	ds := e.stateFor(dev.DeviceID)
	ds.mu.Lock()
	defer ds.mu.Unlock()

	threshold := e.unreachableFailureCount()
	var alarms []models.Alarm

	if event.Success {
		wasUnreachable := ds.state.ConsecutiveFailures >= threshold
		ds.state.ConsecutiveFailures = 0
		ds.state.DeviceReachable = true
		if wasUnreachable {
			alarms = append(alarms, reachabilityAlarm(dev, event.ObservedAt, true))
		}
	} else {
		ds.state.ConsecutiveFailures++
		if ds.state.ConsecutiveFailures == threshold {
			ds.state.DeviceReachable = false
			alarms = append(alarms, reachabilityAlarm(dev, event.ObservedAt, false))
		}
	}
	ds.state.Seen = true
	return alarms
}

func reachabilityAlarm(dev models.DeviceConfig, at time.Time, recovered bool) models.Alarm {
	kind, severity, message := models.AlarmDeviceUnreachable, models.SeverityCritical, fmt.Sprintf("device %s is unreachable", dev.Name)
	if recovered {
		kind, severity, message = models.AlarmDeviceReachable, models.SeverityInfo, fmt.Sprintf("device %s is reachable again", dev.Name)
	}
	return models.Alarm{
		DeviceID:   dev.DeviceID,
		DeviceName: dev.Name,
		Kind:       kind,
		Severity:   severity,
		Message:    message,
		RaisedAt:   at,
		Recovery:   recovered,
	}
}
