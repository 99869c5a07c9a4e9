package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile loads and parses a YAML configuration file from the given path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data into a File.
func Parse(data []byte) (*File, error) {
	var f File

	err := yaml.Unmarshal(data, &f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	applyDefaults(&f)

	if err := f.Validate(); err != nil {
		return nil, err
	}

	return &f, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(f *File) {
	if f.Version == "" {
		f.Version = "1"
	}

	if len(f.Packages) == 0 {
		f.Packages = []string{"./..."}
	}

	if f.RuntimeImport == "" {
		f.RuntimeImport = "taskfn-generator/task"
	}

	if f.RuntimePackage == "" {
		f.RuntimePackage = "task"
	}

	if f.OutputSuffix == "" {
		f.OutputSuffix = "_taskfn.go"
	}
}

// Validate checks the trait topology for structural mistakes.
func (f *File) Validate() error {
	seen := map[string]bool{}

	for i := range f.Traits {
		t := &f.Traits[i]

		if t.Name == "" {
			return fmt.Errorf("trait %d: name must not be empty", i)
		}

		if seen[t.Name] {
			return fmt.Errorf("trait %q declared twice", t.Name)
		}

		seen[t.Name] = true

		if len(t.Methods) == 0 {
			return fmt.Errorf("trait %q declares no methods", t.Name)
		}
	}

	return nil
}
