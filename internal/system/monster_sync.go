package system

import (
	"time"

	"github.com/fieldrpg/server/internal/core/system"
	"github.com/fieldrpg/server/internal/handler"
)

// MonsterSyncSystem pushes a per-map list of live monster states on the AI
// cadence. Maps without players are skipped outright; their monsters were
// discarded when the last player left.
type MonsterSyncSystem struct {
	deps     *handler.Deps
	interval int
	tick     int
}

func NewMonsterSyncSystem(deps *handler.Deps) *MonsterSyncSystem {
	interval := int(aiPeriod / deps.Config.Network.TickRate)
	if interval < 1 {
		interval = 1
	}
	return &MonsterSyncSystem{deps: deps, interval: interval}
}

func (s *MonsterSyncSystem) Phase() system.Phase { return system.PhasePostUpdate }

func (s *MonsterSyncSystem) Update(_ time.Duration) {
	s.tick++
	if s.tick%s.interval != 0 {
		return
	}
	for _, info := range s.deps.Maps.All() {
		if s.deps.World.MapPlayerCount(info.ID) == 0 {
			continue
		}
		monsters := s.deps.World.MonstersInMap(info.ID)
		if len(monsters) == 0 {
			continue
		}
		payload := handler.MonsterUpdatePayload{MapID: info.ID}
		for _, m := range monsters {
			if m.Alive() {
				payload.Monsters = append(payload.Monsters, handler.MonsterSnapshotOf(m))
			}
		}
		if len(payload.Monsters) == 0 {
			continue
		}
		handler.BroadcastToMap(s.deps, info.ID, handler.EvMonsterUpdate, payload)
	}
}
