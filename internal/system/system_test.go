package system

import (
	"math"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/fieldrpg/server/internal/config"
	"github.com/fieldrpg/server/internal/core/event"
	"github.com/fieldrpg/server/internal/data"
	"github.com/fieldrpg/server/internal/handler"
	"github.com/fieldrpg/server/internal/net"
	"github.com/fieldrpg/server/internal/scripting"
	"github.com/fieldrpg/server/internal/world"
)

func newTestDeps(t *testing.T) *handler.Deps {
	t.Helper()
	engine, err := scripting.NewEngine("../../scripts", zap.NewNop())
	if err != nil {
		t.Fatalf("scripting engine: %v", err)
	}
	t.Cleanup(engine.Close)

	return &handler.Deps{
		Config: config.Defaults(),
		Log:    zap.NewNop(),
		World:  world.NewState(),
		Maps: data.NewMapTable([]data.MapInfo{
			{ID: "south_town", SpawnX: 400, SpawnY: 300, Width: 1600, Height: 1200, SafeZone: true},
			{ID: "field", SpawnX: 200, SpawnY: 200, Width: 2400, Height: 1800,
				Spawns: []data.SpawnEntry{{Type: "poring", Count: 1}}},
		}),
		Monsters: data.NewMonsterTable([]data.MonsterDef{
			{Type: "poring", HP: 50, Attack: 5, Speed: 60, AggroRange: 250, AttackRange: 40,
				AttackCooldownMs: 1500, XP: 5, Loot: []string{"potion"}},
		}),
		Scripting: engine,
		Bus:       event.NewBus(),
	}
}

// fieldPlayer drops a connected player straight into the field at a position,
// bypassing the join flow.
func fieldPlayer(deps *handler.Deps, id string, sessID uint64, x, y float64) (*world.PlayerInfo, *net.Session) {
	sess := net.NewSession(nil, sessID, 64, 256, time.Second, zap.NewNop())
	p := &world.PlayerInfo{
		ID: id, Class: "swordsman", Level: 1,
		X: x, Y: y, Dir: world.DirFront, State: world.StateIdle,
		HP: 120, MaxHP: 120, Attack: 15,
		Attrs: world.BaseAttributes(), ChatLast: map[string]time.Time{},
	}
	deps.World.UpsertPlayer(p)
	deps.World.AttachSession(p, sess)
	deps.World.AddPlayerToMap(p, "field")
	return p, sess
}

func fieldMonster(deps *handler.Deps, x, y float64) *world.MonsterInfo {
	m := &world.MonsterInfo{
		ID: deps.World.NextMonsterID(), Type: "poring", MapID: "field",
		X: x, Y: y, SpawnX: x, SpawnY: y,
		Dir: world.DirFront, State: world.StateIdle,
		HP: 50, MaxHP: 50, Attack: 5, Speed: 60,
		AggroRange: 250, AttackRange: 40, AttackCooldown: 1500 * time.Millisecond,
	}
	deps.World.AddMonster(m)
	return m
}

// stepAI advances the AI system by one AI step (two base ticks).
func stepAI(ai *MonsterAISystem) {
	ai.Update(0)
	ai.Update(0)
}

func drain(sess *net.Session) []net.OutMessage {
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

func TestAIAcquiresAndChases(t *testing.T) {
	deps := newTestDeps(t)
	p, _ := fieldPlayer(deps, "bait@test", 1, 100, 0)
	m := fieldMonster(deps, 0, 0)
	ai := NewMonsterAISystem(deps)

	stepAI(ai)

	if m.Target != p.ID {
		t.Fatalf("target = %q, want the player in aggro range", m.Target)
	}
	if m.State != world.StateChasing {
		t.Errorf("state = %q, want chasing", m.State)
	}
	if math.Abs(m.X-6) > 1e-9 { // speed 60 × 0.1s step, straight along x
		t.Errorf("x = %v, want one chase step (6)", m.X)
	}
	if m.Dir != world.DirRight {
		t.Errorf("dir = %q, want facing the target", m.Dir)
	}
}

func TestAIIgnoresPlayersOutsideAggro(t *testing.T) {
	deps := newTestDeps(t)
	fieldPlayer(deps, "far@test", 1, 1000, 0)
	m := fieldMonster(deps, 0, 0)
	ai := NewMonsterAISystem(deps)

	stepAI(ai)

	if m.Target != "" || m.State != world.StateIdle {
		t.Errorf("target=%q state=%q, want idle with no target", m.Target, m.State)
	}
}

func TestAIAttacksInRange(t *testing.T) {
	deps := newTestDeps(t)
	p, sess := fieldPlayer(deps, "close@test", 1, 20, 0)
	m := fieldMonster(deps, 0, 0)
	ai := NewMonsterAISystem(deps)
	drain(sess)

	stepAI(ai)

	if p.HP != 115 {
		t.Errorf("player hp = %d, want 115 after one monster hit", p.HP)
	}
	if m.State != world.StateAttacking {
		t.Errorf("state = %q, want attacking", m.State)
	}
	events := drain(sess)
	if !hasEvent(events, handler.EvMonsterAttack) || !hasEvent(events, handler.EvPlayerHPChanged) {
		t.Error("attack did not notify the target")
	}

	// Second step: still in range but inside the attack cooldown.
	stepAI(ai)
	if p.HP != 115 {
		t.Errorf("player hp = %d, want cooldown to hold damage at 115", p.HP)
	}
}

func TestAIDropsInvalidTarget(t *testing.T) {
	deps := newTestDeps(t)
	p, _ := fieldPlayer(deps, "gone@test", 1, 100, 0)
	m := fieldMonster(deps, 0, 0)
	ai := NewMonsterAISystem(deps)

	stepAI(ai)
	if m.Target != p.ID {
		t.Fatal("precondition: target acquired")
	}

	p.Dead = true
	stepAI(ai)

	if m.Target != "" {
		t.Errorf("target = %q, want dead player dropped", m.Target)
	}
	if m.State != world.StateIdle {
		t.Errorf("state = %q, want idle", m.State)
	}
}

func TestAIAttackStateAutoClears(t *testing.T) {
	deps := newTestDeps(t)
	m := fieldMonster(deps, 0, 0)
	m.State = world.StateAttacking
	m.AttackStateTicks = 2
	ai := NewMonsterAISystem(deps)

	stepAI(ai)
	if m.State != world.StateAttacking {
		t.Fatal("attack pose cleared early")
	}
	stepAI(ai)
	if m.State != world.StateIdle {
		t.Errorf("state = %q, want idle after the pose window", m.State)
	}
}

func TestWanderStaysInsideMapBounds(t *testing.T) {
	deps := newTestDeps(t)
	deps.Config.Gameplay.MonsterWanderOdds = 1
	deps.Config.Gameplay.MonsterWanderGap = 0
	m := fieldMonster(deps, 0, 0)
	ai := NewMonsterAISystem(deps)

	moved := false
	for i := 0; i < 50; i++ {
		stepAI(ai)
		if m.X < 0 || m.Y < 0 || m.X > 2400 || m.Y > 1800 {
			t.Fatalf("wander left the map at (%v,%v)", m.X, m.Y)
		}
		if m.X != 0 || m.Y != 0 {
			moved = true
		}
	}
	if !moved {
		t.Error("monster never wandered")
	}
}

func TestRespawnCountdown(t *testing.T) {
	deps := newTestDeps(t)
	_, sess := fieldPlayer(deps, "witness@test", 1, 500, 500)
	m := fieldMonster(deps, 5, 6)
	m.HP = 0
	m.X, m.Y = 300, 300
	m.RespawnTicks = 2
	sys := NewMonsterRespawnSystem(deps)
	drain(sess)

	sys.Update(0)
	if m.Alive() {
		t.Fatal("respawned one tick early")
	}
	sys.Update(0)

	if !m.Alive() || m.HP != m.MaxHP {
		t.Fatalf("hp = %d, want full respawn", m.HP)
	}
	if m.X != m.SpawnX || m.Y != m.SpawnY {
		t.Errorf("respawned at (%v,%v), want spawn origin", m.X, m.Y)
	}
	if !hasEvent(drain(sess), handler.EvMonsterSpawn) {
		t.Error("respawn was not announced")
	}
}

func TestReviveCountdown(t *testing.T) {
	deps := newTestDeps(t)
	p, _ := fieldPlayer(deps, "lazarus@test", 1, 10, 10)
	p.Dead = true
	p.State = world.StateDead
	p.HP = 0
	p.ReviveTicks = 2
	p.ReviveMap = "south_town"
	sys := NewReviveSystem(deps)

	sys.Update(0)
	if !p.Dead {
		t.Fatal("revived one tick early")
	}
	sys.Update(0)

	if p.Dead || p.HP != p.MaxHP {
		t.Errorf("dead=%v hp=%d, want alive at full", p.Dead, p.HP)
	}
	town := deps.Maps.Get("south_town")
	if p.X != town.SpawnX || p.Y != town.SpawnY {
		t.Errorf("revived at (%v,%v), want town spawn", p.X, p.Y)
	}
}

func TestPlayerSyncFansOutPositions(t *testing.T) {
	deps := newTestDeps(t)
	_, sessA := fieldPlayer(deps, "a@test", 1, 100, 100)
	_, sessB := fieldPlayer(deps, "b@test", 2, 200, 200)
	sys := NewPlayerSyncSystem(deps)
	drain(sessA)
	drain(sessB)

	sys.Update(0)

	if !hasEvent(drain(sessA), handler.EvPlayerMoved) {
		t.Error("a did not receive b's position")
	}
	if !hasEvent(drain(sessB), handler.EvPlayerMoved) {
		t.Error("b did not receive a's position")
	}
}

func TestMonsterSyncOnlyPopulatedMaps(t *testing.T) {
	deps := newTestDeps(t)
	_, sess := fieldPlayer(deps, "obs@test", 1, 100, 100)
	fieldMonster(deps, 50, 50)
	sys := NewMonsterSyncSystem(deps)
	drain(sess)

	sys.Update(0) // tick 1: off-cadence
	if hasEvent(drain(sess), handler.EvMonsterUpdate) {
		t.Fatal("sync fired off its cadence")
	}
	sys.Update(0) // tick 2: cadence hit

	events := drain(sess)
	if !hasEvent(events, handler.EvMonsterUpdate) {
		t.Error("populated map got no monster sync")
	}
}
