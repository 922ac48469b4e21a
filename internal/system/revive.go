package system

import (
	"time"

	"github.com/fieldrpg/server/internal/core/system"
	"github.com/fieldrpg/server/internal/handler"
	"github.com/fieldrpg/server/internal/world"
)

// ReviveSystem counts dead players back to life. The countdown rides the
// player record, so it survives a disconnect and revives the offline record
// all the same.
type ReviveSystem struct {
	deps *handler.Deps
}

func NewReviveSystem(deps *handler.Deps) *ReviveSystem {
	return &ReviveSystem{deps: deps}
}

func (s *ReviveSystem) Phase() system.Phase { return system.PhaseUpdate }

func (s *ReviveSystem) Update(_ time.Duration) {
	s.deps.World.AllPlayers(func(p *world.PlayerInfo) {
		if !p.Dead || p.ReviveTicks <= 0 {
			return
		}
		p.ReviveTicks--
		if p.ReviveTicks > 0 {
			return
		}
		handler.RevivePlayer(s.deps, p)
	})
}
