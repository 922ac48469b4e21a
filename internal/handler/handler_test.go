package handler

import (
	"encoding/json"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/fieldrpg/server/internal/config"
	"github.com/fieldrpg/server/internal/core/event"
	"github.com/fieldrpg/server/internal/data"
	"github.com/fieldrpg/server/internal/net"
	"github.com/fieldrpg/server/internal/scripting"
	"github.com/fieldrpg/server/internal/world"
)

func testMaps() *data.MapTable {
	return data.NewMapTable([]data.MapInfo{
		{ID: "south_town", Name: "South Town", SpawnX: 400, SpawnY: 300, Width: 1600, Height: 1200, SafeZone: true},
		{ID: "monster_field_1", Name: "East Field", SpawnX: 200, SpawnY: 200, Width: 2400, Height: 1800,
			Spawns: []data.SpawnEntry{{Type: "poring", Count: 2}}},
		{ID: "monster_field_2", Name: "North Ridge", SpawnX: 300, SpawnY: 1500, Width: 2400, Height: 1800, MinLevel: 5,
			Spawns: []data.SpawnEntry{{Type: "poring", Count: 1}}},
		{ID: "pvp_arena", Name: "Arena", SpawnX: 600, SpawnY: 600, Width: 1200, Height: 1200, PvP: true},
	})
}

func testMonsters() *data.MonsterTable {
	return data.NewMonsterTable([]data.MonsterDef{
		{Type: "poring", HP: 50, Attack: 5, Speed: 60, AggroRange: 250, AttackRange: 40,
			AttackCooldownMs: 1500, XP: 5, Loot: []string{"potion"}},
	})
}

func newTestDeps(t *testing.T) *Deps {
	t.Helper()
	engine, err := scripting.NewEngine("../../scripts", zap.NewNop())
	if err != nil {
		t.Fatalf("scripting engine: %v", err)
	}
	t.Cleanup(engine.Close)

	return &Deps{
		Config:    config.Defaults(),
		Log:       zap.NewNop(),
		World:     world.NewState(),
		Maps:      testMaps(),
		Monsters:  testMonsters(),
		Scripting: engine,
		Bus:       event.NewBus(),
	}
}

func newTestSession(id uint64) *net.Session {
	return net.NewSession(nil, id, 64, 256, time.Second, zap.NewNop())
}

// drainEvents empties a session's outbound queue.
func drainEvents(sess *net.Session) []net.OutMessage {
	var out []net.OutMessage
	for {
		select {
		case msg := <-sess.OutQueue:
			out = append(out, msg)
		default:
			return out
		}
	}
}

func hasEvent(events []net.OutMessage, name string) bool {
	for _, e := range events {
		if e.Event == name {
			return true
		}
	}
	return false
}

func mustRaw(t *testing.T, v any) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return raw
}

// join is the common test entry: joins an identity on a fresh session and
// clears the snapshot burst.
func join(t *testing.T, deps *Deps, sess *net.Session, id string) *world.PlayerInfo {
	t.Helper()
	HandleJoin(deps, sess, mustRaw(t, JoinRequest{ID: id, Name: id, Class: "swordsman"}))
	p := deps.World.GetPlayer(id)
	if p == nil {
		t.Fatalf("join did not create player %q", id)
	}
	drainEvents(sess)
	return p
}
