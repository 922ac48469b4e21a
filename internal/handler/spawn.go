package handler

import (
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/fieldrpg/server/internal/world"
)

// EnsureMonsters tops a map's monster population up to its configured spawn
// counts. Called whenever a player enters a map; a no-op for maps without
// spawn entries (towns) and for populations already at count.
func EnsureMonsters(deps *Deps, mapID string) {
	info := deps.Maps.Get(mapID)
	if info == nil || len(info.Spawns) == 0 {
		return
	}

	present := make(map[string]int)
	for _, m := range deps.World.MonstersInMap(mapID) {
		present[m.Type]++
	}

	for _, entry := range info.Spawns {
		def := deps.Monsters.Get(entry.Type)
		if def == nil {
			deps.Log.Warn("map references unknown monster type",
				zap.String("map", mapID), zap.String("type", entry.Type))
			continue
		}
		for i := present[entry.Type]; i < entry.Count; i++ {
			m := spawnMonster(deps, info.ID, entry.Type)
			BroadcastToMap(deps, mapID, EvMonsterSpawn, MonsterSnapshotOf(m))
		}
	}
}

// spawnMonster instantiates one monster from its template at a random
// position inside the map bounds and registers it.
func spawnMonster(deps *Deps, mapID, typeTag string) *world.MonsterInfo {
	def := deps.Monsters.Get(typeTag)
	info := deps.Maps.Get(mapID)

	x, y := info.SpawnX, info.SpawnY
	if info.Width > 0 && info.Height > 0 {
		x = rand.Float64() * info.Width
		y = rand.Float64() * info.Height
	}

	m := &world.MonsterInfo{
		ID:             deps.World.NextMonsterID(),
		Type:           typeTag,
		MapID:          mapID,
		X:              x,
		Y:              y,
		SpawnX:         x,
		SpawnY:         y,
		Dir:            world.DirFront,
		State:          world.StateIdle,
		HP:             def.HP,
		MaxHP:          def.HP,
		Attack:         def.Attack,
		Speed:          def.Speed,
		AggroRange:     def.AggroRange,
		AttackRange:    def.AttackRange,
		AttackCooldown: time.Duration(def.AttackCooldownMs) * time.Millisecond,
	}
	deps.World.AddMonster(m)
	return m
}

// CleanupMapIfEmpty discards a map's monsters and drops once its last player
// is gone. Pending respawn timers die with the records, so a respawn can
// never fire into an empty map.
func CleanupMapIfEmpty(deps *Deps, mapID string) {
	if mapID == "" || deps.World.MapPlayerCount(mapID) > 0 {
		return
	}
	removed := deps.World.RemoveMapMonsters(mapID)
	deps.World.RemoveMapDrops(mapID)
	if removed > 0 {
		deps.Log.Debug("cleared empty map", zap.String("map", mapID), zap.Int("monsters", removed))
	}
}
