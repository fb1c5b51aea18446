package item

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Catalog holds all loaded item definitions, keyed by ID.
type Catalog struct {
	Weapons map[string]*Weapon
	Armor   map[string]*Armor
}

// LoadCatalog reads all *.yaml files in dir, parses each as a weapon or armor
// definition (selected by the top-level kind field), validates it, and returns
// the collected catalog.
//
// Precondition: dir is a readable directory path.
// Postcondition: Returns a catalog of all valid definitions or the first encountered error.
func LoadCatalog(dir string) (*Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("LoadCatalog: cannot read directory %q: %w", dir, err)
	}

	cat := &Catalog{
		Weapons: make(map[string]*Weapon),
		Armor:   make(map[string]*Armor),
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".yaml" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("LoadCatalog: cannot read file %q: %w", path, err)
		}

		var kinded struct {
			Kind string `yaml:"kind"`
		}
		if err := yaml.Unmarshal(data, &kinded); err != nil {
			return nil, fmt.Errorf("LoadCatalog: cannot parse file %q: %w", path, err)
		}

		switch kinded.Kind {
		case "weapon":
			var w Weapon
			if err := yaml.Unmarshal(data, &w); err != nil {
				return nil, fmt.Errorf("LoadCatalog: cannot parse weapon file %q: %w", path, err)
			}
			if err := w.Validate(); err != nil {
				return nil, fmt.Errorf("LoadCatalog: invalid weapon in %q: %w", path, err)
			}
			cat.Weapons[w.ID] = &w
		case "armor":
			var a Armor
			if err := yaml.Unmarshal(data, &a); err != nil {
				return nil, fmt.Errorf("LoadCatalog: cannot parse armor file %q: %w", path, err)
			}
			if err := a.Validate(); err != nil {
				return nil, fmt.Errorf("LoadCatalog: invalid armor in %q: %w", path, err)
			}
			cat.Armor[a.ID] = &a
		default:
			return nil, fmt.Errorf("LoadCatalog: file %q has unknown kind %q (want weapon or armor)", path, kinded.Kind)
		}
	}
	return cat, nil
}
