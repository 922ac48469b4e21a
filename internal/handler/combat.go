package handler

import (
	"math/rand"

	"go.uber.org/zap"

	"github.com/fieldrpg/server/internal/core/event"
	"github.com/fieldrpg/server/internal/stats"
	"github.com/fieldrpg/server/internal/world"
)

// ApplyPlayerDamage is the single entry point for hurting a player. HP is
// clamped to [0, MaxHP], the victim and its surroundings are notified, and a
// drop to zero triggers the death transition exactly once.
func ApplyPlayerDamage(deps *Deps, victim *world.PlayerInfo, damage int, attackerID string, pvp bool) {
	if victim.Dead {
		return
	}
	if damage < 0 {
		damage = 0
	}
	hp := victim.HP - damage
	if hp < 0 {
		hp = 0
	}
	victim.HP = hp

	victim.Send(EvPlayerHPChanged, HPChangedPayload{
		HP:       hp,
		MaxHP:    victim.MaxHP,
		Damage:   damage,
		Attacker: attackerID,
	})
	BroadcastToAOI(deps, victim.MapID, victim.X, victim.Y, victim.ID, EvPlayerDamaged, DamagedPayload{
		ID:     victim.ID,
		Damage: damage,
		HP:     hp,
	})

	if hp == 0 {
		KillPlayer(deps, victim, pvp, attackerID)
	}
}

// DamageMonster applies damage to a monster, records kill attribution and
// resolves the kill when HP reaches zero. A monster already at zero is inert.
func DamageMonster(deps *Deps, m *world.MonsterInfo, damage int, attackerID string) {
	if !m.Alive() {
		return
	}
	if damage < 0 {
		damage = 0
	}
	hp := m.HP - damage
	if hp < 0 {
		hp = 0
	}
	m.HP = hp
	m.LastHitBy = attackerID

	BroadcastToAOI(deps, m.MapID, m.X, m.Y, "", EvMonsterHit, MonsterHitPayload{
		ID:       m.ID,
		HP:       hp,
		MaxHP:    m.MaxHP,
		Damage:   damage,
		Attacker: attackerID,
	})

	if hp == 0 {
		killMonster(deps, m)
	}
}

// killMonster resolves a monster death: kill credit goes to the last hitter,
// who is awarded the XP and one loot roll; a pickup drop materializes at the
// corpse; the instance schedules its own respawn.
func killMonster(deps *Deps, m *world.MonsterInfo) {
	m.State = world.StateIdle
	m.Target = ""
	m.AttackStateTicks = 0

	BroadcastToMap(deps, m.MapID, EvMonsterDespawn, LeftPayload{ID: m.ID})
	BroadcastToMap(deps, m.MapID, EvMonsterKilled, MonsterKilledPayload{ID: m.ID, Killer: m.LastHitBy})

	def := deps.Monsters.Get(m.Type)
	killer := deps.World.GetPlayer(m.LastHitBy)
	if def != nil && killer != nil {
		GiveXP(deps, killer, def.XP)
		if len(def.Loot) > 0 {
			item := def.Loot[rand.Intn(len(def.Loot))]
			killer.Inventory = append(killer.Inventory, item)
			spawnDrop(deps, m.MapID, item, m.X, m.Y)
		}
	}

	cfg := deps.Config
	m.RespawnTicks = int(cfg.Gameplay.MonsterRespawn / cfg.Network.TickRate)

	event.Emit(deps.Bus, event.MonsterKilled{
		ID:     m.ID,
		Type:   m.Type,
		MapID:  m.MapID,
		Killer: m.LastHitBy,
	})
}

// GiveXP awards experience and resolves any level-ups it causes. One award
// can cross several thresholds; each level grants its scripted stat points,
// and gaining at least one level recomputes stats and heals to full.
func GiveXP(deps *Deps, p *world.PlayerInfo, amount int) {
	if amount <= 0 {
		return
	}
	p.Exp += amount

	levels := 0
	for {
		need := deps.Scripting.XPToLevel(p.Level)
		if p.Exp < need {
			break
		}
		p.Exp -= need
		p.Level++
		levels++
		p.StatPoints += deps.Scripting.StatPointsPerLevel(p.Level)
	}

	if levels > 0 {
		stats.Apply(p, stats.FullHeal)
		p.Send(EvPlayerLevelUp, LevelUpPayload{Level: p.Level, StatPoints: p.StatPoints})
		p.Send(EvPlayerStatsUpdated, statsPayload(deps, p))
		deps.Log.Info("player leveled up",
			zap.String("player", p.ID), zap.Int("level", p.Level))
		event.Emit(deps.Bus, event.PlayerLeveledUp{ID: p.ID, Level: p.Level})
	}

	p.Send(EvPlayerXPUpdated, XPPayload{
		Level:     p.Level,
		Exp:       p.Exp,
		XPToLevel: deps.Scripting.XPToLevel(p.Level),
	})
}

// spawnDrop materializes a floating loot entity and announces it map-wide.
func spawnDrop(deps *Deps, mapID, item string, x, y float64) *world.DropInfo {
	d := &world.DropInfo{
		ID:    deps.World.NextDropID(),
		Item:  item,
		MapID: mapID,
		X:     x,
		Y:     y,
	}
	deps.World.AddDrop(d)
	BroadcastToMap(deps, mapID, EvDropSpawn, DropPayload{ID: d.ID, Item: d.Item, X: d.X, Y: d.Y, MapID: d.MapID})
	return d
}
