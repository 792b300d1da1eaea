package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".ivansreport"

// xdgConfigFile is the file name looked up inside XDGConfigDir.
const xdgConfigFile = "config.yaml"

// LoadConfigFile reads and validates a YAML configuration file.
//
// Unknown keys are rejected so that a misspelled setting such as
// "outputdir" is reported instead of silently ignored. An empty file is a
// valid configuration with no overrides. A missing file yields
// ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-chosen config path
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", path, ErrConfigNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// ConfigSearchPaths lists where FindConfigFile looks when no path is
// given, in priority order: the working directory, the home directory and
// the XDG config directory. Locations that cannot be determined are left
// out.
func ConfigSearchPaths() []string {
	var paths []string
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, DefaultConfigFile))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, DefaultConfigFile))
	}
	return append(paths, filepath.Join(XDGConfigDir(), xdgConfigFile))
}

// FindConfigFile returns the configuration file to load, or "" if there is
// none. An explicit configPath is returned only if it exists; otherwise
// the first existing entry of ConfigSearchPaths wins.
func FindConfigFile(configPath string) string {
	candidates := ConfigSearchPaths()
	if configPath != "" {
		candidates = []string{configPath}
	}

	for _, path := range candidates {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}
