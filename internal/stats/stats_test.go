package stats

import (
	"testing"

	"github.com/fieldrpg/server/internal/world"
)

func TestBaseClassGrowth(t *testing.T) {
	hp, atk := Base("swordsman", 1)
	if hp != 120 || atk != 15 {
		t.Errorf("level 1 = %d HP / %d atk, want 120/15", hp, atk)
	}
	hp, atk = Base("swordsman", 5)
	if hp != 200 || atk != 27 {
		t.Errorf("level 5 = %d HP / %d atk, want 200/27", hp, atk)
	}
}

func TestUnknownClassFallsBack(t *testing.T) {
	hp, atk := Base("necromancer", 1)
	wantHP, wantAtk := Base("swordsman", 1)
	if hp != wantHP || atk != wantAtk {
		t.Errorf("unknown class = %d/%d, want swordsman fallback %d/%d", hp, atk, wantHP, wantAtk)
	}
}

func TestDeriveAttributeBonuses(t *testing.T) {
	attrs := world.Attributes{Str: 3, Agi: 2, Vit: 5, Int: 1, Dex: 1, Luck: 1}
	d := Derive("swordsman", 1, attrs, nil)

	if d.MaxHP != 120+40 {
		t.Errorf("maxHP = %d, want +10 per VIT above 1 (160)", d.MaxHP)
	}
	if d.Attack != 15+4 {
		t.Errorf("attack = %d, want +2 per STR above 1 (19)", d.Attack)
	}
	if d.Speed != 1.1 {
		t.Errorf("speed = %v, want 1 + 0.1 per AGI above 1 (1.1)", d.Speed)
	}
}

func TestDeriveEquipmentLayer(t *testing.T) {
	equip := world.Equipment{
		"weapon": {"attack": 10, "crit": 0.05},
		"armor":  {"maxHp": 50, "speed": -0.2},
	}
	d := Derive("swordsman", 1, world.BaseAttributes(), equip)

	if d.MaxHP != 170 {
		t.Errorf("maxHP = %d, want 120+50", d.MaxHP)
	}
	if d.Attack != 25 {
		t.Errorf("attack = %d, want 15+10", d.Attack)
	}
	if d.Speed != 0.8 {
		t.Errorf("speed = %v, want 1-0.2", d.Speed)
	}
	if d.Extra["crit"] != 0.05 {
		t.Errorf("extra = %v, want non-derived keys carried through", d.Extra)
	}
}

func TestApplyPreserveRatio(t *testing.T) {
	p := &world.PlayerInfo{
		Class: "swordsman",
		Level: 1,
		Attrs: world.BaseAttributes(),
		HP:    60,
		MaxHP: 120,
	}
	p.Attrs.Vit = 5 // new max 160

	Apply(p, PreserveRatio)

	if p.MaxHP != 160 {
		t.Fatalf("maxHP = %d, want 160", p.MaxHP)
	}
	if p.HP != 80 {
		t.Errorf("hp = %d, want half of the new max (80)", p.HP)
	}
}

func TestApplyPreserveRatioNeverKills(t *testing.T) {
	p := &world.PlayerInfo{
		Class: "swordsman",
		Level: 1,
		Attrs: world.BaseAttributes(),
		HP:    1,
		MaxHP: 100000, // tiny ratio rounds to zero
	}

	Apply(p, PreserveRatio)

	if p.HP < 1 {
		t.Errorf("hp = %d, a live player must keep at least 1", p.HP)
	}
}

func TestApplyFullHeal(t *testing.T) {
	p := &world.PlayerInfo{
		Class: "swordsman",
		Level: 3,
		Attrs: world.BaseAttributes(),
		HP:    7,
		MaxHP: 160,
	}

	Apply(p, FullHeal)

	if p.HP != p.MaxHP || p.MaxHP != 160 {
		t.Errorf("hp = %d/%d, want full at 160", p.HP, p.MaxHP)
	}
}
