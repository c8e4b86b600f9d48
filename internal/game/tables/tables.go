// Package tables loads the game-design data tables (mission objectives and rewards,
// small event odds) embedded in the binary.
package tables

import (
	"embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed missions.yml smallevents.yml
var tablesFS embed.FS

// PerDifficulty holds one value per mission difficulty.
type PerDifficulty struct {
	Easy   int `yaml:"easy"`
	Medium int `yaml:"medium"`
	Hard   int `yaml:"hard"`
}

// For returns the value for difficulty "easy", "medium" or "hard"; anything else is easy.
func (p PerDifficulty) For(difficulty string) int {
	switch difficulty {
	case "medium":
		return p.Medium
	case "hard":
		return p.Hard
	default:
		return p.Easy
	}
}

type MissionDef struct {
	Objectives PerDifficulty `yaml:"objectives"`
	Money      PerDifficulty `yaml:"money"`
	XP         PerDifficulty `yaml:"xp"`
}

type Tables struct {
	Missions    map[string]MissionDef `yaml:"missions"`
	SmallEvents map[string]int        `yaml:"smallEvents"`
}

// Load parses the embedded tables.
func Load() (*Tables, error) {
	t := &Tables{}
	for _, name := range []string{"missions.yml", "smallevents.yml"} {
		data, err := tablesFS.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		if err := yaml.Unmarshal(data, t); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// MustLoad is Load for process start-up.
func MustLoad() *Tables {
	t, err := Load()
	if err != nil {
		panic(err)
	}
	return t
}

// Validate checks objectives are positive and weights non-negative.
func (t *Tables) Validate() error {
	for id, def := range t.Missions {
		if def.Objectives.Easy <= 0 || def.Objectives.Medium <= 0 || def.Objectives.Hard <= 0 {
			return fmt.Errorf("mission %s: objectives must be positive", id)
		}
	}
	for id, w := range t.SmallEvents {
		if w < 0 {
			return fmt.Errorf("small event %s: negative weight %d", id, w)
		}
	}
	return nil
}

// Mission returns the definition of a mission id.
func (t *Tables) Mission(id string) (MissionDef, bool) {
	def, ok := t.Missions[id]
	return def, ok
}

// SmallEventIDs returns small event ids with a weight, sorted for stable picks.
func (t *Tables) SmallEventIDs() []string {
	ids := make([]string, 0, len(t.SmallEvents))
	for id := range t.SmallEvents {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
