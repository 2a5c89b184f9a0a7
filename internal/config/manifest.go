package config

import (
	"fmt"
	"os"
	"slices"

	"github.com/socotra-protocol/contracts/internal/domain/models"
	"gopkg.in/yaml.v3"
)

// ManifestFile is the default unit manifest file name
const ManifestFile = "deploy.yaml"

// Manifest is the raw content of deploy.yaml
type Manifest struct {
	Units map[string]*models.Unit `yaml:"units"`
}

// LoadManifest parses the unit manifest at path.
// Returns (nil, nil) when the file does not exist.
func LoadManifest(path string) (map[string]*models.Unit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	units, err := ParseManifest(data)
	if err != nil {
		return nil, fmt.Errorf("invalid manifest %s: %w", path, err)
	}
	return units, nil
}

// ParseManifest parses and validates manifest YAML
func ParseManifest(data []byte) (map[string]*models.Unit, error) {
	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if len(manifest.Units) == 0 {
		return nil, fmt.Errorf("at least one unit is required")
	}

	for name, unit := range manifest.Units {
		if unit == nil {
			unit = &models.Unit{}
			manifest.Units[name] = unit
		}
		unit.Name = name
		if err := validateUnit(unit); err != nil {
			return nil, err
		}
	}

	return manifest.Units, nil
}

// validateUnit checks a single unit declaration. Cross-unit checks
// (missing prerequisites, cycles) happen on the merged catalog.
func validateUnit(unit *models.Unit) error {
	for _, dep := range unit.Deps {
		if dep == unit.Name {
			return fmt.Errorf("unit '%s' cannot depend on itself", unit.Name)
		}
	}

	for _, arg := range unit.Args {
		switch arg.Kind {
		case models.ArgUnit:
			if !slices.Contains(unit.Deps, arg.Ref()) {
				return fmt.Errorf("unit '%s' uses %s as argument but does not list it in deps", unit.Name, arg)
			}
		case models.ArgAccount:
			if arg.Ref() == "" {
				return fmt.Errorf("unit '%s' has an empty account argument", unit.Name)
			}
		}
	}

	return nil
}
