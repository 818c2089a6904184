// Package project reads a multi-module build manifest: a YAML file mapping
// module names to source files, the input compile_modules() expects when a
// build spans more than one unit. Read directly through gopkg.in/yaml.v3,
// since a project manifest is explicit, versioned build input, not ambient
// environment-layered config like the CLI's own flag defaults.
package project

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Manifest lists every module participating in a linked build.
type Manifest struct {
	Target  string            `yaml:"target"`
	Modules map[string]string `yaml:"modules"`
}

// Load reads and parses a manifest file at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("project: read manifest %q: %w", path, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("project: parse manifest %q: %w", path, err)
	}
	if len(m.Modules) == 0 {
		return nil, fmt.Errorf("project: manifest %q declares no modules", path)
	}
	return &m, nil
}

// Sources reads every module's source file, relative to the manifest's own
// directory, keyed by module name as compile_modules() expects.
func (m *Manifest) Sources(manifestPath string) (map[string]string, error) {
	dir := filepath.Dir(manifestPath)
	out := make(map[string]string, len(m.Modules))
	for name, rel := range m.Modules {
		data, err := os.ReadFile(filepath.Join(dir, rel))
		if err != nil {
			return nil, fmt.Errorf("project: read module %q: %w", name, err)
		}
		out[name] = string(data)
	}
	return out, nil
}
