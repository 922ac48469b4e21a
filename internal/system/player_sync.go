package system

import (
	"time"

	"github.com/fieldrpg/server/internal/core/system"
	"github.com/fieldrpg/server/internal/handler"
	"github.com/fieldrpg/server/internal/world"
)

// PlayerSyncSystem fans each online player's position out to its area of
// interest every base tick. Movement handlers only mutate; this is the one
// place player positions go on the wire.
type PlayerSyncSystem struct {
	deps *handler.Deps
}

func NewPlayerSyncSystem(deps *handler.Deps) *PlayerSyncSystem {
	return &PlayerSyncSystem{deps: deps}
}

func (s *PlayerSyncSystem) Phase() system.Phase { return system.PhasePostUpdate }

func (s *PlayerSyncSystem) Update(_ time.Duration) {
	s.deps.World.OnlinePlayers(func(p *world.PlayerInfo) {
		if p.MapID == "" {
			return
		}
		handler.BroadcastToAOI(s.deps, p.MapID, p.X, p.Y, p.ID, handler.EvPlayerMoved, handler.MovedPayload{
			ID:    p.ID,
			X:     p.X,
			Y:     p.Y,
			Dir:   p.Dir,
			State: p.State,
		})
	})
}
