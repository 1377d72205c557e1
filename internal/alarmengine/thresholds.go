package alarmengine

import "github.com/meshops/netwarden/models"

// Defaults are the process-wide alarm thresholds, used whenever a device's
// own DeviceConfig.Thresholds leaves a field at its zero value.
type Defaults struct {
	CPUPercent              float64
	MemoryPercent           float64
	TemperatureCelsius      float64
	HysteresisPercent       float64
	HysteresisCelsius       float64
	UnreachableFailureCount int
}

// DefaultThresholds returns the process-wide defaults: 80% CPU/memory,
// 80°C temperature, 5-point/5°C hysteresis, 3 consecutive failures to mark
// a device unreachable.
func DefaultThresholds() Defaults {
	return Defaults{
		CPUPercent:              80,
		MemoryPercent:           80,
		TemperatureCelsius:      80,
		HysteresisPercent:       5,
		HysteresisCelsius:       5,
		UnreachableFailureCount: 3,
	}
}

type resolvedThresholds struct {
	CPU                float64
	Memory             float64
	Temperature        float64
	HysteresisPercent  float64
	HysteresisCelsius  float64
}

// resolve overlays a device's per-field threshold overrides onto the
// process defaults; a zero-valued override field means "use the default".
func (e *Engine) resolve(dev models.DeviceConfig) resolvedThresholds {
	t := dev.Thresholds
	r := resolvedThresholds{
		CPU:               e.defaults.CPUPercent,
		Memory:            e.defaults.MemoryPercent,
		Temperature:       e.defaults.TemperatureCelsius,
		HysteresisPercent: e.defaults.HysteresisPercent,
		HysteresisCelsius: e.defaults.HysteresisCelsius,
	}
	if t.CPUPercent != 0 {
		r.CPU = t.CPUPercent
	}
	if t.MemoryPercent != 0 {
		r.Memory = t.MemoryPercent
	}
	if t.TemperatureCelsius != 0 {
		r.Temperature = t.TemperatureCelsius
	}
	if t.HysteresisPercent != 0 {
		r.HysteresisPercent = t.HysteresisPercent
	}
	if t.HysteresisCelsius != 0 {
		r.HysteresisCelsius = t.HysteresisCelsius
	}
	return r
}

func (e *Engine) unreachableFailureCount() int {
	if e.defaults.UnreachableFailureCount <= 0 {
		return 3
	}
	return e.defaults.UnreachableFailureCount
}
