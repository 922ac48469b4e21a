package data

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// SpawnEntry configures one monster population for a map.
type SpawnEntry struct {
	Type  string `yaml:"type"`
	Count int    `yaml:"count"`
}

// MapInfo is static, read-only map configuration.
type MapInfo struct {
	ID       string       `yaml:"id"`
	Name     string       `yaml:"name"`
	SpawnX   float64      `yaml:"spawn_x"`
	SpawnY   float64      `yaml:"spawn_y"`
	Width    float64      `yaml:"width"`
	Height   float64      `yaml:"height"`
	SafeZone bool         `yaml:"safe_zone"` // no PvP, no hostile spawns
	PvP      bool         `yaml:"pvp"`
	MinLevel int          `yaml:"min_level"` // 0 = no gate
	Spawns   []SpawnEntry `yaml:"spawns"`
}

type mapListFile struct {
	Maps []MapInfo `yaml:"maps"`
}

// MapTable provides map configuration lookups.
type MapTable struct {
	maps map[string]*MapInfo
}

// NewMapTable builds a table from in-memory config (tests use this directly).
func NewMapTable(maps []MapInfo) *MapTable {
	t := &MapTable{maps: make(map[string]*MapInfo, len(maps))}
	for i := range maps {
		m := maps[i]
		t.maps[m.ID] = &m
	}
	return t
}

// LoadMapTable loads map configuration from a YAML file.
func LoadMapTable(path string) (*MapTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read map list %s: %w", path, err)
	}
	var f mapListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse map list: %w", err)
	}
	seen := make(map[string]bool, len(f.Maps))
	for _, m := range f.Maps {
		if m.ID == "" {
			return nil, fmt.Errorf("map list: entry without id")
		}
		if seen[m.ID] {
			return nil, fmt.Errorf("map list: duplicate id %q", m.ID)
		}
		seen[m.ID] = true
		if m.SafeZone && len(m.Spawns) > 0 {
			return nil, fmt.Errorf("map %q: safe zones cannot have hostile spawns", m.ID)
		}
	}
	return NewMapTable(f.Maps), nil
}

// Get returns a map's configuration, or nil if unknown.
func (t *MapTable) Get(id string) *MapInfo {
	return t.maps[id]
}

func (t *MapTable) Count() int {
	return len(t.maps)
}

// All returns every map in id order.
func (t *MapTable) All() []*MapInfo {
	ids := make([]string, 0, len(t.maps))
	for id := range t.maps {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	result := make([]*MapInfo, 0, len(ids))
	for _, id := range ids {
		result = append(result, t.maps[id])
	}
	return result
}
