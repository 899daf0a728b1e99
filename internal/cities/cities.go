// Package cities loads the static table of city names and provider ids.
package cities

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"weather-dashboard/internal/models"
)

//go:embed cities.yaml
var builtin []byte

type table struct {
	Cities []models.City `yaml:"cities"`
}

// Builtin returns the table compiled into the binary.
func Builtin() ([]models.City, error) {
	return Parse(builtin)
}

// Load reads the table from path, or returns the builtin one when path is empty.
func Load(path string) ([]models.City, error) {
	if path == "" {
		return Builtin()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read city table: %w", err)
	}

	return Parse(data)
}

// Parse decodes a YAML city table. Entries need a name and an id, and ids
// must be unique.
func Parse(data []byte) ([]models.City, error) {
	var t table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse city table: %w", err)
	}

	if len(t.Cities) == 0 {
		return nil, errors.New("city table is empty")
	}

	seen := make(map[string]struct{}, len(t.Cities))
	for i, c := range t.Cities {
		if c.Name == "" || c.ID == "" {
			return nil, fmt.Errorf("city #%d: name and id are required", i)
		}
		if _, dup := seen[c.ID]; dup {
			return nil, fmt.Errorf("city %s: duplicate id %s", c.Name, c.ID)
		}
		seen[c.ID] = struct{}{}
	}

	return t.Cities, nil
}
