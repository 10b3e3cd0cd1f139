package framing

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads a scheme definition from a YAML file and validates it. A
// definition without a name is named after the file.
func Load(path string) (*Scheme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scheme %s: %w", path, err)
	}

	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parsing scheme %s: %w", path, err)
	}
	if def.Name == "" {
		def.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	s, err := New(def)
	if err != nil {
		return nil, fmt.Errorf("loading scheme %s: %w", path, err)
	}
	return s, nil
}

// Resolve picks a scheme from a file path or a preset name. The file wins
// when both are set; an empty name selects DefaultPreset.
func Resolve(name, file string) (*Scheme, error) {
	if file != "" {
		return Load(file)
	}
	if name == "" {
		name = DefaultPreset
	}
	return Preset(name)
}
