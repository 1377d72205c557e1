// Package config loads YAML configuration for netwardend: the global
// threshold/scheduling knobs from a single file, and the monitored device
// fleet from a directory tree of device files. Loading follows the
// directory-walk-plus-lenient-decode idiom used throughout this codebase's
// configuration layer: unknown keys are tolerated, malformed files are
// skipped with a warning rather than aborting the whole load, and every
// path is overridable by environment variable.
package config

import "os"

// Paths holds the on-disk locations for every configuration tree.
type Paths struct {
	// Global is the single YAML file holding process-wide thresholds and
	// scheduling knobs. NETWARDEN_GLOBAL_CONFIG_PATH.
	Global string

	// Devices is a directory of *.yml/*.yaml files, each containing one or
	// more device entries keyed by device name (each entry carries its own
	// device_id). NETWARDEN_DEVICES_DIRECTORY_PATH.
	Devices string
}

// PathsFromEnv reads each path from its environment variable, falling back
// to the documented default when the variable is unset or empty.
func PathsFromEnv() Paths {
	return Paths{
		Global:  envOr("NETWARDEN_GLOBAL_CONFIG_PATH", "/etc/netwarden/netwarden.yml"),
		Devices: envOr("NETWARDEN_DEVICES_DIRECTORY_PATH", "/etc/netwarden/devices"),
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
