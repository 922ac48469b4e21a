package system

import (
	"math"
	"math/rand"
	"time"

	"github.com/fieldrpg/server/internal/core/system"
	"github.com/fieldrpg/server/internal/handler"
	"github.com/fieldrpg/server/internal/world"
)

// aiPeriod is how often monster brains run; every other base tick.
const aiPeriod = 100 * time.Millisecond

// MonsterAISystem drives the idle → chasing → attacking state machine for
// every live monster. Dead players are invisible to aggro; a target that
// dies, leaves the map or walks out of aggro range is dropped the next step.
type MonsterAISystem struct {
	deps       *handler.Deps
	interval   int // base ticks per AI step
	tick       int
	clearTicks int // AI steps until attacking auto-clears back to idle
}

func NewMonsterAISystem(deps *handler.Deps) *MonsterAISystem {
	tickRate := deps.Config.Network.TickRate
	interval := int(aiPeriod / tickRate)
	if interval < 1 {
		interval = 1
	}
	clearTicks := int(deps.Config.Gameplay.AttackStateClear / (tickRate * time.Duration(interval)))
	if clearTicks < 1 {
		clearTicks = 1
	}
	return &MonsterAISystem{deps: deps, interval: interval, clearTicks: clearTicks}
}

func (s *MonsterAISystem) Phase() system.Phase { return system.PhaseUpdate }

func (s *MonsterAISystem) Update(_ time.Duration) {
	s.tick++
	if s.tick%s.interval != 0 {
		return
	}
	for _, m := range s.deps.World.MonsterList() {
		if m.Alive() {
			s.step(m)
		}
	}
}

func (s *MonsterAISystem) step(m *world.MonsterInfo) {
	if m.AttackStateTicks > 0 {
		m.AttackStateTicks--
		if m.AttackStateTicks == 0 && m.State == world.StateAttacking {
			m.State = world.StateIdle
		}
	}

	target := s.validTarget(m)
	if target == nil {
		m.Target = ""
		target = s.acquireTarget(m)
		if target != nil {
			m.Target = target.ID
			m.State = world.StateChasing
		}
	}

	if target == nil {
		if m.AttackStateTicks == 0 && m.State != world.StateIdle {
			m.State = world.StateIdle
		}
		s.wander(m)
		return
	}

	d := handler.Dist(m.X, m.Y, target.X, target.Y)
	if d <= m.AttackRange {
		s.tryAttack(m, target)
		return
	}
	s.chase(m, target, d)
}

// validTarget returns the current target if it is still attackable: alive,
// online and inside aggro range on the same map.
func (s *MonsterAISystem) validTarget(m *world.MonsterInfo) *world.PlayerInfo {
	if m.Target == "" {
		return nil
	}
	t := s.deps.World.GetPlayer(m.Target)
	if t == nil || t.Dead || !t.Online || t.MapID != m.MapID {
		return nil
	}
	if handler.Dist(m.X, m.Y, t.X, t.Y) > m.AggroRange {
		return nil
	}
	return t
}

// acquireTarget picks the nearest living player within aggro range, ties
// broken by the map's fixed identity order.
func (s *MonsterAISystem) acquireTarget(m *world.MonsterInfo) *world.PlayerInfo {
	var best *world.PlayerInfo
	bestDist := m.AggroRange
	for _, p := range s.deps.World.PlayersInMap(m.MapID) {
		if p.Dead || !p.Online {
			continue
		}
		if d := handler.Dist(m.X, m.Y, p.X, p.Y); d < bestDist || (best == nil && d == bestDist) {
			best = p
			bestDist = d
		}
	}
	return best
}

func (s *MonsterAISystem) tryAttack(m *world.MonsterInfo, target *world.PlayerInfo) {
	now := time.Now()
	if now.Sub(m.LastAttack) < m.AttackCooldown {
		return
	}
	m.LastAttack = now
	m.State = world.StateAttacking
	m.AttackStateTicks = s.clearTicks
	m.Dir = facing(target.X-m.X, target.Y-m.Y)

	handler.BroadcastToAOI(s.deps, m.MapID, m.X, m.Y, "", handler.EvMonsterAttack, handler.MonsterAttackPayload{
		ID:       m.ID,
		TargetID: target.ID,
		Damage:   m.Attack,
	})
	handler.ApplyPlayerDamage(s.deps, target, m.Attack, m.ID, false)
}

func (s *MonsterAISystem) chase(m *world.MonsterInfo, target *world.PlayerInfo, d float64) {
	if m.AttackStateTicks == 0 {
		m.State = world.StateChasing
	}

	step := m.Speed * aiPeriod.Seconds()
	if step > d {
		step = d
	}
	dx := (target.X - m.X) / d * step
	dy := (target.Y - m.Y) / d * step
	m.X += dx
	m.Y += dy
	m.Dir = facing(dx, dy)
	s.clampToMap(m)

	s.broadcastMove(m)
}

// wander gives idle monsters an occasional short drift so fields do not look
// frozen between aggro pulls.
func (s *MonsterAISystem) wander(m *world.MonsterInfo) {
	cfg := s.deps.Config.Gameplay
	if rand.Float64() >= cfg.MonsterWanderOdds {
		return
	}
	now := time.Now()
	if now.Sub(m.LastWander) < cfg.MonsterWanderGap {
		return
	}
	m.LastWander = now

	angle := rand.Float64() * 2 * math.Pi
	step := m.Speed * aiPeriod.Seconds()
	dx := math.Cos(angle) * step
	dy := math.Sin(angle) * step
	m.X += dx
	m.Y += dy
	m.Dir = facing(dx, dy)
	s.clampToMap(m)

	s.broadcastMove(m)
}

// clampToMap keeps AI movement inside the bounds the spawn procedure honors.
func (s *MonsterAISystem) clampToMap(m *world.MonsterInfo) {
	info := s.deps.Maps.Get(m.MapID)
	if info == nil || info.Width <= 0 || info.Height <= 0 {
		return
	}
	m.X = math.Min(math.Max(m.X, 0), info.Width)
	m.Y = math.Min(math.Max(m.Y, 0), info.Height)
}

// broadcastMove pushes a monster:move, rate-limited per monster.
func (s *MonsterAISystem) broadcastMove(m *world.MonsterInfo) {
	now := time.Now()
	if now.Sub(m.LastBroadcast) < s.deps.Config.Gameplay.MonsterMoveBcast {
		return
	}
	m.LastBroadcast = now
	handler.BroadcastToAOI(s.deps, m.MapID, m.X, m.Y, "", handler.EvMonsterMove, handler.MovedPayload{
		ID:    m.ID,
		X:     m.X,
		Y:     m.Y,
		Dir:   m.Dir,
		State: m.State,
	})
}

// facing picks the dominant movement axis.
func facing(dx, dy float64) string {
	if math.Abs(dx) > math.Abs(dy) {
		if dx > 0 {
			return world.DirRight
		}
		return world.DirLeft
	}
	if dy > 0 {
		return world.DirFront
	}
	return world.DirBack
}
