package main

import (
	"os"
	"path/filepath"
	"testing"

	qt "github.com/go-quicktest/qt"
)

func TestLoadConfigEmptyPathReturnsZeroValue(t *testing.T) {
	cfg, err := loadConfig("")
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(cfg, fileConfig{}))
}

func TestLoadConfigReadsYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flint.yaml")
	qt.Assert(t, qt.IsNil(os.WriteFile(path, []byte(`parallel: true
minimal_tree: true
max_depth: 5
test: true
`), 0o644)))

	cfg, err := loadConfig(path)
	qt.Assert(t, qt.IsNil(err))
	qt.Assert(t, qt.Equals(cfg, fileConfig{Parallel: true, MinimalTree: true, MaxDepth: 5, Test: true}))
}

func TestLoadConfigMissingFileErrors(t *testing.T) {
	_, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	qt.Assert(t, qt.Not(qt.IsNil(err)))
}

func TestCheckCommandRegistersExpectedFlags(t *testing.T) {
	cmd := newCheckCmd()
	for _, name := range []string{"parallel", "minimal-tree", "max-depth", "test", "config"} {
		qt.Assert(t, qt.Not(qt.IsNil(cmd.Flags().Lookup(name))), qt.Commentf("missing flag %q", name))
	}
}
