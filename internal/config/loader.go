package config

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/meshops/netwarden/models"
)

// LoadedConfig is the fully parsed, fully resolved configuration for one
// process run.
type LoadedConfig struct {
	Global  GlobalConfig
	Devices []models.DeviceConfig
}

// Load reads the global config file and every device file under
// paths.Devices, returning a fully resolved LoadedConfig. Errors from
// individual device files are accumulated and returned together so an
// operator sees every problem in one pass, matching this codebase's
// multi-file error aggregation convention.
//
// A missing global file is not an error: the documented defaults apply. A
// missing devices directory yields an empty fleet, not an error either —
// this allows a deployment to start with zero devices and register the
// rest via the administrative interface.
func Load(paths Paths, logger *slog.Logger) (*LoadedConfig, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(noopWriter{}, nil))
	}

	global, err := loadGlobal(paths.Global, logger)
	if err != nil {
		return nil, fmt.Errorf("config: load global: %w", err)
	}

	devices, errs := loadDevices(paths.Devices, global, logger)
	if len(errs) > 0 {
		return nil, fmt.Errorf("config: %d device error(s):\n  %s", len(errs), strings.Join(errs, "\n  "))
	}

	return &LoadedConfig{Global: global, Devices: devices}, nil
}

func loadGlobal(path string, logger *slog.Logger) (GlobalConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug("config: no global config file, using defaults", "path", path)
			return DefaultGlobalConfig(), nil
		}
		return GlobalConfig{}, err
	}
	defer f.Close()

	var raw rawGlobalConfig
	dec := yaml.NewDecoder(f)
	dec.KnownFields(false)
	if err := dec.Decode(&raw); err != nil {
		return GlobalConfig{}, fmt.Errorf("decode %q: %w", path, err)
	}
	return resolveGlobal(raw), nil
}

func loadDevices(dir string, global GlobalConfig, logger *slog.Logger) ([]models.DeviceConfig, []string) {
	var result []models.DeviceConfig
	var errs []string

	files, err := yamlFiles(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return result, nil
		}
		return nil, []string{fmt.Sprintf("list devices dir %q: %v", dir, err)}
	}

	for _, path := range files {
		var raw map[string]rawDeviceEntry
		if err := decodeFile(path, &raw); err != nil {
			logger.Warn("config: skip malformed device file", "file", path, "error", err.Error())
			continue
		}
		for key, entry := range raw {
			if entry.Name == "" {
				entry.Name = key
			}
			dev, err := resolveDevice(entry, global)
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s: %v", path, err))
				continue
			}
			result = append(result, dev)
		}
		logger.Debug("config: loaded device file", "file", path, "count", len(raw))
	}
	return result, errs
}

// yamlFiles returns all *.yml / *.yaml files under dir, sorted by path.
func yamlFiles(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(p))
		if ext == ".yml" || ext == ".yaml" {
			paths = append(paths, p)
		}
		return nil
	})
	return paths, err
}

// decodeFile opens path and unmarshals the YAML content into out, tolerating
// unknown keys.
func decodeFile(path string, out interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(false)
	return dec.Decode(out)
}

type noopWriter struct{}

func (noopWriter) Write(p []byte) (int, error) { return len(p), nil }
