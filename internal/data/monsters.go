package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// MonsterDef is the static template for one monster type.
type MonsterDef struct {
	Type             string   `yaml:"type"`
	HP               int      `yaml:"hp"`
	Attack           int      `yaml:"attack"`
	Speed            float64  `yaml:"speed"` // units per second
	AggroRange       float64  `yaml:"aggro_range"`
	AttackRange      float64  `yaml:"attack_range"`
	AttackCooldownMs int      `yaml:"attack_cooldown_ms"`
	XP               int      `yaml:"xp"`
	Loot             []string `yaml:"loot"` // one random entry drops on kill
}

type monsterListFile struct {
	Monsters []MonsterDef `yaml:"monsters"`
}

// MonsterTable holds all monster templates indexed by type tag.
type MonsterTable struct {
	defs map[string]*MonsterDef
}

// NewMonsterTable builds a table from in-memory defs (tests use this directly).
func NewMonsterTable(defs []MonsterDef) *MonsterTable {
	t := &MonsterTable{defs: make(map[string]*MonsterDef, len(defs))}
	for i := range defs {
		d := defs[i]
		t.defs[d.Type] = &d
	}
	return t
}

// LoadMonsterTable loads monster templates from a YAML file.
func LoadMonsterTable(path string) (*MonsterTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read monster list %s: %w", path, err)
	}
	var f monsterListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse monster list: %w", err)
	}
	for _, d := range f.Monsters {
		if d.Type == "" {
			return nil, fmt.Errorf("monster list: entry without type")
		}
		if d.HP <= 0 {
			return nil, fmt.Errorf("monster %q: hp must be positive", d.Type)
		}
	}
	return NewMonsterTable(f.Monsters), nil
}

// Get returns a monster template, or nil if unknown.
func (t *MonsterTable) Get(typeTag string) *MonsterDef {
	return t.defs[typeTag]
}

func (t *MonsterTable) Count() int {
	return len(t.defs)
}
