package main

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// config tunes canonicalization. The zero value is the default behavior.
type config struct {
	// InternalMarkers lists extra location prefixes treated as
	// runtime/library code, on top of the built-in dart:/package: markers.
	InternalMarkers []string `toml:"internal_markers"`
	// KeepInternalRun disables trimming of the leading internal run.
	KeepInternalRun bool `toml:"keep_internal_run"`
}

// loadConfig reads a TOML config file. An empty path means defaults; a path
// that cannot be read or parsed is an error.
func loadConfig(path string) (*config, error) {
	cfg := &config{}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
