package handler

import (
	"encoding/json"

	"github.com/fieldrpg/server/internal/net"
)

// HandleAttack relays an attack animation to nearby players. Pure broadcast:
// damage resolution against monsters arrives separately as monster-hit.
func HandleAttack(deps *Deps, sess *net.Session, raw json.RawMessage) {
	p := playerFor(deps, sess)
	if p == nil || p.Dead {
		return
	}
	var req AttackRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return
	}
	BroadcastToAOI(deps, p.MapID, p.X, p.Y, p.ID, EvPlayerAttacked, AttackedPayload{
		ID:     p.ID,
		Damage: req.Damage,
	})
}

// HandleSkill relays a skill-use animation to nearby players. The payload is
// passed through opaque; the server does not interpret skill effects.
func HandleSkill(deps *Deps, sess *net.Session, raw json.RawMessage) {
	p := playerFor(deps, sess)
	if p == nil || p.Dead {
		return
	}
	var req SkillRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return
	}
	BroadcastToAOI(deps, p.MapID, p.X, p.Y, p.ID, EvPlayerSkill, SkillPayload{
		ID:      p.ID,
		Type:    req.Type,
		Payload: req.Payload,
	})
}

// HandleMonsterHit applies client-resolved damage to a monster. The server
// checks only that the monster exists, is alive and shares the sender's map;
// the damage value itself is taken as sent. Stale ids after a map cleanup or
// a death race are silent no-ops.
func HandleMonsterHit(deps *Deps, sess *net.Session, raw json.RawMessage) {
	p := playerFor(deps, sess)
	if p == nil || p.Dead {
		return
	}
	var req MonsterHitRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return
	}
	m := deps.World.GetMonster(req.MonsterID)
	if m == nil || !m.Alive() || m.MapID != p.MapID {
		return
	}
	DamageMonster(deps, m, req.Damage, p.ID)
}

// HandleHit applies client-reported damage to the sender itself (environment
// and monster contact resolved client-side).
func HandleHit(deps *Deps, sess *net.Session, raw json.RawMessage) {
	p := playerFor(deps, sess)
	if p == nil || p.Dead {
		return
	}
	var req HitRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return
	}
	ApplyPlayerDamage(deps, p, req.Damage, req.AttackerID, false)
}
