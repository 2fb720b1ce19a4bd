// Package goals holds the catalog of interview goals and age groups a
// submission can refer to.
package goals

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed goals.yaml
var defaultCatalog []byte

type Category string

const (
	CategoryGeneral  Category = "general"
	CategoryAcademic Category = "academic"
	CategorySocial   Category = "social"
	CategoryCareer   Category = "career"
)

type Goal struct {
	Key      string   `yaml:"key"`
	Label    string   `yaml:"label"`
	Category Category `yaml:"category"`
	Focus    string   `yaml:"focus"`
}

type AgeGroup struct {
	Key   string `yaml:"key"`
	Label string `yaml:"label"`
}

type Catalog struct {
	Goals     []Goal     `yaml:"goals"`
	AgeGroups []AgeGroup `yaml:"age_groups"`

	goalsByKey map[string]Goal
	agesByKey  map[string]AgeGroup
}

// Default returns the catalog compiled into the binary.
func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("embedded goal catalog is invalid: %v", err))
	}
	return c
}

// Load reads a catalog from path, or returns the default one when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read goal catalog: %w", err)
	}

	return Parse(data)
}

func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse goal catalog: %w", err)
	}

	c.goalsByKey = make(map[string]Goal, len(c.Goals))
	for _, g := range c.Goals {
		if g.Key == "" {
			return nil, fmt.Errorf("goal without key")
		}
		if g.Label == "" {
			g.Label = g.Key
		}
		c.goalsByKey[strings.ToLower(g.Key)] = g
	}

	c.agesByKey = make(map[string]AgeGroup, len(c.AgeGroups))
	for _, a := range c.AgeGroups {
		if a.Key == "" {
			return nil, fmt.Errorf("age group without key")
		}
		c.agesByKey[strings.ToLower(a.Key)] = a
	}

	return &c, nil
}

// Goal resolves a goal key. Unknown keys are returned as a free-form goal so
// older clients sending arbitrary strings keep working.
func (c *Catalog) Goal(key string) Goal {
	if g, ok := c.goalsByKey[strings.ToLower(strings.TrimSpace(key))]; ok {
		return g
	}
	return Goal{Key: key, Label: key}
}

func (c *Catalog) AgeGroup(key string) (AgeGroup, bool) {
	a, ok := c.agesByKey[strings.ToLower(strings.TrimSpace(key))]
	return a, ok
}
