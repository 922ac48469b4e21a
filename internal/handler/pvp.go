package handler

import (
	"encoding/json"
	"time"

	"github.com/fieldrpg/server/internal/net"
)

// PvP denial reasons sent back to the requester.
const (
	DenyNotPvPZone = "not_pvp_zone"
	DenyCooldown   = "cooldown"
)

// HandlePvPAttack resolves a server-rolled attack against another player.
// Unlike monster combat, the damage is computed here from the attacker's
// derived stats and a scripted crit roll; the client only names the target.
func HandlePvPAttack(deps *Deps, sess *net.Session, raw json.RawMessage) {
	attacker := playerFor(deps, sess)
	if attacker == nil || attacker.Dead {
		return
	}
	var req PvPAttackRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return
	}

	target := deps.World.GetPlayer(req.TargetID)
	if target == nil || target.Dead || !target.Online {
		return
	}

	info := deps.Maps.Get(attacker.MapID)
	if info == nil || !info.PvP || target.MapID != attacker.MapID {
		attacker.Send(EvPlayerHitDenied, HitDeniedPayload{TargetID: req.TargetID, Reason: DenyNotPvPZone})
		return
	}

	now := time.Now()
	if now.Sub(attacker.LastPvP) < deps.Config.Gameplay.PvPCooldown {
		attacker.Send(EvPlayerHitDenied, HitDeniedPayload{TargetID: req.TargetID, Reason: DenyCooldown})
		return
	}
	attacker.LastPvP = now

	hit := deps.Scripting.CalcPvPHit(attacker.Attack, attacker.Attrs.Luck)

	attacker.Send(EvPlayerAttackResult, AttackResultPayload{
		TargetID: target.ID,
		Damage:   hit.Damage,
		Crit:     hit.Crit,
	})
	target.Send(EvPlayerPvPHit, PvPHitPayload{
		AttackerID: attacker.ID,
		Damage:     hit.Damage,
		Crit:       hit.Crit,
	})

	ApplyPlayerDamage(deps, target, hit.Damage, attacker.ID, true)
}
