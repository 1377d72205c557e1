package config

import "time"

// GlobalConfig carries every process-wide knob: orchestrator concurrency,
// default tier intervals, default alarm thresholds, and shutdown behavior.
// Per-device YAML may override the tier intervals and thresholds; a zero
// value here means "use the hard-coded fallback".
type GlobalConfig struct {
	MaxConcurrentPollers int
	SNMPTimeout          time.Duration
	SNMPRetries          int

	InterfacePollInterval time.Duration
	HealthPollInterval    time.Duration
	InventoryPollInterval time.Duration

	CPUThresholdPercent       float64
	MemoryThresholdPercent    float64
	TemperatureThresholdCelsius float64
	HysteresisPercent         float64
	HysteresisCelsius         float64
	UnreachableFailureCount   int

	ShutdownGrace time.Duration

	// BulkMaxRepetitions is the configured GetBulkRequest max-repetitions
	// value. It is loaded here but not passed on to the polling path: the
	// orchestrator's bulk walks always use a max-repetitions of 10.
	BulkMaxRepetitions int
}

// rawGlobalConfig is the direct YAML decode target; field names follow the
// nominal option names from the configuration list verbatim.
type rawGlobalConfig struct {
	MaxConcurrentPollers        int     `yaml:"max_concurrent_pollers"`
	SNMPTimeoutSeconds          int     `yaml:"snmp_timeout_seconds"`
	SNMPRetries                 int     `yaml:"snmp_retries"`
	InterfacePollIntervalSecs   int     `yaml:"interface_poll_interval_seconds"`
	HealthPollIntervalSecs      int     `yaml:"health_poll_interval_seconds"`
	InventoryPollIntervalSecs   int     `yaml:"inventory_poll_interval_seconds"`
	CPUThresholdPercent         float64 `yaml:"cpu_threshold_percent"`
	MemoryThresholdPercent      float64 `yaml:"memory_threshold_percent"`
	TemperatureThresholdCelsius float64 `yaml:"temperature_threshold_celsius"`
	HysteresisPercent           float64 `yaml:"hysteresis_percent"`
	HysteresisCelsius           float64 `yaml:"hysteresis_celsius"`
	UnreachableFailureCount     int     `yaml:"unreachable_failure_count"`
	ShutdownGraceSeconds        int     `yaml:"shutdown_grace_seconds"`
	BulkMaxRepetitions          int     `yaml:"bulk_max_repetitions"`
}

// DefaultGlobalConfig returns every documented default from the
// configuration list.
func DefaultGlobalConfig() GlobalConfig {
	return GlobalConfig{
		MaxConcurrentPollers:        20,
		SNMPTimeout:                 5 * time.Second,
		SNMPRetries:                 3,
		InterfacePollInterval:       30 * time.Second,
		HealthPollInterval:          300 * time.Second,
		InventoryPollInterval:       3600 * time.Second,
		CPUThresholdPercent:         80,
		MemoryThresholdPercent:      80,
		TemperatureThresholdCelsius: 80,
		HysteresisPercent:           5,
		HysteresisCelsius:           5,
		UnreachableFailureCount:     3,
		ShutdownGrace:               10 * time.Second,
		BulkMaxRepetitions:          10,
	}
}

// resolveGlobal overlays raw's non-zero fields onto the documented defaults.
func resolveGlobal(raw rawGlobalConfig) GlobalConfig {
	g := DefaultGlobalConfig()
	if raw.MaxConcurrentPollers != 0 {
		g.MaxConcurrentPollers = raw.MaxConcurrentPollers
	}
	if raw.SNMPTimeoutSeconds != 0 {
		g.SNMPTimeout = time.Duration(raw.SNMPTimeoutSeconds) * time.Second
	}
	if raw.SNMPRetries != 0 {
		g.SNMPRetries = raw.SNMPRetries
	}
	if raw.InterfacePollIntervalSecs != 0 {
		g.InterfacePollInterval = time.Duration(raw.InterfacePollIntervalSecs) * time.Second
	}
	if raw.HealthPollIntervalSecs != 0 {
		g.HealthPollInterval = time.Duration(raw.HealthPollIntervalSecs) * time.Second
	}
	if raw.InventoryPollIntervalSecs != 0 {
		g.InventoryPollInterval = time.Duration(raw.InventoryPollIntervalSecs) * time.Second
	}
	if raw.CPUThresholdPercent != 0 {
		g.CPUThresholdPercent = raw.CPUThresholdPercent
	}
	if raw.MemoryThresholdPercent != 0 {
		g.MemoryThresholdPercent = raw.MemoryThresholdPercent
	}
	if raw.TemperatureThresholdCelsius != 0 {
		g.TemperatureThresholdCelsius = raw.TemperatureThresholdCelsius
	}
	if raw.HysteresisPercent != 0 {
		g.HysteresisPercent = raw.HysteresisPercent
	}
	if raw.HysteresisCelsius != 0 {
		g.HysteresisCelsius = raw.HysteresisCelsius
	}
	if raw.UnreachableFailureCount != 0 {
		g.UnreachableFailureCount = raw.UnreachableFailureCount
	}
	if raw.ShutdownGraceSeconds != 0 {
		g.ShutdownGrace = time.Duration(raw.ShutdownGraceSeconds) * time.Second
	}
	if raw.BulkMaxRepetitions != 0 {
		g.BulkMaxRepetitions = raw.BulkMaxRepetitions
	}
	return g
}
