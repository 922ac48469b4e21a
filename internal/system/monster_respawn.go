package system

import (
	"time"

	"github.com/fieldrpg/server/internal/core/system"
	"github.com/fieldrpg/server/internal/handler"
	"github.com/fieldrpg/server/internal/world"
)

// MonsterRespawnSystem counts dead monsters back to life. The countdown
// lives on the instance, so a map cleanup that discards the record cancels
// the respawn with it.
type MonsterRespawnSystem struct {
	deps *handler.Deps
}

func NewMonsterRespawnSystem(deps *handler.Deps) *MonsterRespawnSystem {
	return &MonsterRespawnSystem{deps: deps}
}

func (s *MonsterRespawnSystem) Phase() system.Phase { return system.PhaseUpdate }

func (s *MonsterRespawnSystem) Update(_ time.Duration) {
	for _, m := range s.deps.World.MonsterList() {
		if m.Alive() || m.RespawnTicks <= 0 {
			continue
		}
		m.RespawnTicks--
		if m.RespawnTicks > 0 {
			continue
		}
		s.respawn(m)
	}
}

func (s *MonsterRespawnSystem) respawn(m *world.MonsterInfo) {
	m.HP = m.MaxHP
	m.X, m.Y = m.SpawnX, m.SpawnY
	m.Dir = world.DirFront
	m.State = world.StateIdle
	m.Target = ""
	m.LastHitBy = ""
	m.AttackStateTicks = 0

	handler.BroadcastToMap(s.deps, m.MapID, handler.EvMonsterSpawn, handler.MonsterSnapshotOf(m))
}
