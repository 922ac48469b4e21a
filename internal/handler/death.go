package handler

import (
	"go.uber.org/zap"

	"github.com/fieldrpg/server/internal/core/event"
	"github.com/fieldrpg/server/internal/stats"
	"github.com/fieldrpg/server/internal/world"
)

// KillPlayer runs the death transition exactly once. A PvE death moves the
// player to the default town immediately (the empty-map cleanup can then fire
// behind it); a PvP death leaves the body on the arena and revives it at the
// arena spawn. Either way the revive countdown starts now.
func KillPlayer(deps *Deps, p *world.PlayerInfo, pvp bool, killerID string) {
	if p.Dead {
		return
	}
	p.Dead = true
	p.State = world.StateDead
	p.HP = 0

	cfg := deps.Config
	p.ReviveTicks = int(cfg.Gameplay.ReviveDelay / cfg.Network.TickRate)

	diedAt := p.MapID
	if pvp {
		p.ReviveMap = p.MapID
	} else {
		old := deps.World.RemovePlayerFromMap(p)
		BroadcastToAOI(deps, old, p.X, p.Y, p.ID, EvPlayerLeft, LeftPayload{ID: p.ID})
		CleanupMapIfEmpty(deps, old)

		town := cfg.Gameplay.DefaultTown
		deps.World.AddPlayerToMap(p, town)
		if info := deps.Maps.Get(town); info != nil {
			p.X, p.Y = info.SpawnX, info.SpawnY
		}
		p.ReviveMap = town
	}

	p.Send(EvPlayerDied, DiedPayload{
		ID:        p.ID,
		MapID:     p.MapID,
		X:         p.X,
		Y:         p.Y,
		RespawnMs: cfg.Gameplay.ReviveDelay.Milliseconds(),
	})

	deps.Log.Info("player died",
		zap.String("player", p.ID),
		zap.String("map", diedAt),
		zap.Bool("pvp", pvp),
		zap.String("killer", killerID))
	event.Emit(deps.Bus, event.PlayerDied{ID: p.ID, MapID: diedAt, PvP: pvp, Killer: killerID})
}

// RevivePlayer brings a dead player back: stats recomputed (equipment may
// have changed while dead), HP to full, position reset to the revive map's
// spawn point. Safe against records whose countdown outlived a disconnect.
func RevivePlayer(deps *Deps, p *world.PlayerInfo) {
	if !p.Dead {
		return
	}
	p.Dead = false
	p.ReviveTicks = 0
	p.State = world.StateIdle

	stats.Apply(p, stats.FullHeal)

	if info := deps.Maps.Get(p.ReviveMap); info != nil {
		p.X, p.Y = info.SpawnX, info.SpawnY
	}

	payload := RevivedPayload{
		ID:    p.ID,
		MapID: p.MapID,
		X:     p.X,
		Y:     p.Y,
		HP:    p.HP,
		MaxHP: p.MaxHP,
	}
	p.Send(EvPlayerRevived, payload)
	BroadcastToAOI(deps, p.MapID, p.X, p.Y, p.ID, EvPlayerRevived, payload)
}
