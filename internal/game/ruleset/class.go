// Package ruleset defines the fixed class and ability tables the combat
// formulas consult. Tables ship with built-in defaults and may be overridden
// by YAML content files.
package ruleset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ClassDef defines the combat-relevant properties of a character class or
// enemy archetype.
type ClassDef struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	// CritBonus is added flat to critical chance for members of this class.
	CritBonus int `yaml:"crit_bonus"`
	// DamageMultiplier scales base damage for members of this class.
	DamageMultiplier float64 `yaml:"damage_multiplier"`
}

// Validate checks that the ClassDef satisfies its invariants.
//
// Precondition: c is non-nil.
// Postcondition: Returns nil iff all fields are valid.
func (c *ClassDef) Validate() error {
	var errs []error
	if c.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if c.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if c.CritBonus < 0 {
		errs = append(errs, fmt.Errorf("crit_bonus must be >= 0, got %d", c.CritBonus))
	}
	if c.DamageMultiplier <= 0 {
		errs = append(errs, fmt.Errorf("damage_multiplier must be > 0, got %g", c.DamageMultiplier))
	}
	if len(errs) > 0 {
		return fmt.Errorf("class validation failed: %v", errs)
	}
	return nil
}

// ClassRegistry provides class lookups with explicit unknown-tag defaults:
// a tag without a registered class contributes no crit bonus and a 1.0
// damage multiplier. Non-character actors (plain enemies) hit this path
// by design.
type ClassRegistry struct {
	classes map[string]*ClassDef
}

// NewClassRegistry returns a registry seeded with defs.
//
// Precondition: every def must be non-nil with a non-empty ID.
// Postcondition: Returns a non-nil registry; duplicate IDs keep the last def.
func NewClassRegistry(defs ...*ClassDef) *ClassRegistry {
	r := &ClassRegistry{classes: make(map[string]*ClassDef)}
	for _, d := range defs {
		r.Register(d)
	}
	return r
}

// Register adds a ClassDef to the registry.
//
// Precondition: def must be non-nil with a non-empty ID.
// Postcondition: def is retrievable by ID; re-registering an ID overwrites.
func (r *ClassRegistry) Register(def *ClassDef) {
	if def == nil {
		panic("ClassRegistry.Register: precondition violated: def must be non-nil")
	}
	if def.ID == "" {
		panic("ClassRegistry.Register: precondition violated: def ID must be non-empty")
	}
	r.classes[def.ID] = def
}

// CritBonus returns the flat critical chance bonus for the given class tag.
//
// Postcondition: Returns 0 for unknown tags.
func (r *ClassRegistry) CritBonus(classTag string) int {
	if c, ok := r.classes[classTag]; ok {
		return c.CritBonus
	}
	return 0
}

// DamageMultiplier returns the damage multiplier for the given class tag.
//
// Postcondition: Returns 1.0 for unknown tags.
func (r *ClassRegistry) DamageMultiplier(classTag string) float64 {
	if c, ok := r.classes[classTag]; ok {
		return c.DamageMultiplier
	}
	return 1.0
}

// Class returns the ClassDef for the given tag, if registered.
func (r *ClassRegistry) Class(classTag string) (*ClassDef, bool) {
	c, ok := r.classes[classTag]
	return c, ok
}

// DefaultClasses returns the built-in class table used when no content
// directory overrides it.
func DefaultClasses() []*ClassDef {
	return []*ClassDef{
		{ID: "warrior", Name: "Warrior", CritBonus: 2, DamageMultiplier: 1.2},
		{ID: "rogue", Name: "Rogue", CritBonus: 10, DamageMultiplier: 1.15},
		{ID: "mage", Name: "Mage", CritBonus: 3, DamageMultiplier: 1.25},
		{ID: "paladin", Name: "Paladin", CritBonus: 1, DamageMultiplier: 1.1},
		{ID: "ranger", Name: "Ranger", CritBonus: 5, DamageMultiplier: 1.1},
	}
}

// LoadClasses reads all *.yaml files in dir and parses each as a ClassDef.
//
// Precondition: dir must be a readable directory path.
// Postcondition: Returns all parsed classes (may be empty slice) or a non-nil error.
func LoadClasses(dir string) ([]*ClassDef, error) {
	files, err := yamlFiles(dir)
	if err != nil {
		return nil, err
	}
	classes := make([]*ClassDef, 0, len(files))
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		var c ClassDef
		if err := yaml.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("parsing class file %s: %w", path, err)
		}
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("invalid class in %s: %w", path, err)
		}
		classes = append(classes, &c)
	}
	return classes, nil
}

// yamlFiles returns the sorted paths of all *.yaml files directly in dir.
func yamlFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".yaml" {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	return files, nil
}
