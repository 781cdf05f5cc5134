package linkage

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// overridesFile is the on-disk shape of a manual override list.
type overridesFile struct {
	Pairs []Override `yaml:"pairs"`
}

// LoadOverrides reads a YAML override list. A missing path returns an empty
// list so the default configuration needs no file.
func LoadOverrides(path string) ([]Override, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read overrides: %w", err)
	}
	var f overridesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse overrides: %w", err)
	}
	for i, p := range f.Pairs {
		if p.A == "" || p.B == "" {
			return nil, fmt.Errorf("overrides: pair %d missing a or b", i)
		}
		if p.A == p.B {
			return nil, fmt.Errorf("overrides: pair %d maps %s to itself", i, p.A)
		}
	}
	return f.Pairs, nil
}
