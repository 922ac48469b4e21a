// Package stats derives combat stats from class, level, allocated attributes
// and equipment. It is the only writer of MaxHP, Attack and Speed on a live
// player; everything else treats those fields as read-only.
package stats

import (
	"math"

	"github.com/fieldrpg/server/internal/world"
)

// ClassDef holds the per-class growth constants.
type ClassDef struct {
	BaseHP         int
	HPPerLevel     int
	BaseAttack     int
	AttackPerLevel int
}

const defaultClass = "swordsman"

var classes = map[string]ClassDef{
	"swordsman": {BaseHP: 120, HPPerLevel: 20, BaseAttack: 15, AttackPerLevel: 3},
}

func classDef(class string) ClassDef {
	if def, ok := classes[class]; ok {
		return def
	}
	return classes[defaultClass]
}

// Base returns the pure class/level stats before attributes and equipment.
func Base(class string, level int) (maxHP, attack int) {
	def := classDef(class)
	if level < 1 {
		level = 1
	}
	maxHP = def.BaseHP + def.HPPerLevel*(level-1)
	attack = def.BaseAttack + def.AttackPerLevel*(level-1)
	return maxHP, attack
}

// Derived is the full output of the pipeline.
type Derived struct {
	MaxHP  int
	Attack int
	Speed  float64
	Extra  map[string]float64 // equipment stats outside the derived set
}

// Derive runs the three stat layers: class base, attribute bonuses,
// equipment bonuses.
func Derive(class string, level int, attrs world.Attributes, equip world.Equipment) Derived {
	maxHP, attack := Base(class, level)

	maxHP += 10 * (attrs.Vit - 1)
	attack += 2 * (attrs.Str - 1)
	speed := 1 + 0.1*float64(attrs.Agi-1)

	totals := make(map[string]float64)
	for _, item := range equip {
		for key, v := range item {
			totals[key] += v
		}
	}

	d := Derived{
		MaxHP:  maxHP + int(totals["maxHp"]),
		Attack: attack + int(totals["attack"]),
		Speed:  speed + totals["speed"],
	}
	for key, v := range totals {
		switch key {
		case "maxHp", "attack", "speed":
		default:
			if d.Extra == nil {
				d.Extra = make(map[string]float64)
			}
			d.Extra[key] = v
		}
	}
	return d
}

// Mode selects the HP reconciliation policy when stats change.
type Mode int

const (
	// PreserveRatio rescales current HP against the new max — used whenever
	// stats change while alive (leveling, allocation, equipping).
	PreserveRatio Mode = iota
	// FullHeal sets HP to the new max — used on first join and on respawn.
	FullHeal
)

// Apply recomputes and writes the derived stats onto the player.
func Apply(p *world.PlayerInfo, mode Mode) {
	d := Derive(p.Class, p.Level, p.Attrs, p.Equipment)

	oldHP, oldMax := p.HP, p.MaxHP
	p.MaxHP = d.MaxHP
	p.Attack = d.Attack
	p.Speed = d.Speed
	p.Extra = d.Extra

	switch mode {
	case FullHeal:
		p.HP = p.MaxHP
	case PreserveRatio:
		if oldMax <= 0 {
			p.HP = p.MaxHP
			return
		}
		hp := int(math.Round(float64(oldHP) / float64(oldMax) * float64(p.MaxHP)))
		if hp > p.MaxHP {
			hp = p.MaxHP
		}
		if hp < 1 && oldHP > 0 {
			hp = 1 // a live player never rounds down to zero
		}
		if hp < 0 {
			hp = 0
		}
		p.HP = hp
	}
}
