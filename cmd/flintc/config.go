package main

import (
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the subset of driver.Options an optional flint.yaml
// project file can default (spec.md §6's --config flag), using the
// teacher's own yaml.v3 choice for structured config files.
type fileConfig struct {
	Parallel    bool   `yaml:"parallel"`
	MinimalTree bool   `yaml:"minimal_tree"`
	MaxDepth    uint64 `yaml:"max_depth"`
	Test        bool   `yaml:"test"`
}

// loadConfig reads path, returning a zero fileConfig (not an error) when
// path is empty, so --config is optional by construction.
func loadConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
