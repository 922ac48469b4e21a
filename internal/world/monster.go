package world

import "time"

// MonsterInfo is one live monster instance. Instances are disposable: the
// whole set for a map is discarded when the map empties and recreated on the
// next entry.
type MonsterInfo struct {
	ID     string // unique per spawn instance
	Type   string
	MapID  string
	X, Y   float64
	SpawnX float64
	SpawnY float64
	Dir    string
	State  string // idle / chasing / attacking

	HP     int
	MaxHP  int
	Attack int
	Speed  float64 // units per second

	AggroRange     float64
	AttackRange    float64
	AttackCooldown time.Duration
	LastAttack     time.Time

	LastBroadcast time.Time // monster:move throttle
	LastWander    time.Time

	Target    string // player identity, empty when idle
	LastHitBy string // kill attribution (last hit)

	AttackStateTicks int // AI ticks until attacking→idle auto-clear
	RespawnTicks     int // base ticks until respawn; >0 only while HP == 0
}

// Alive reports whether the monster participates in AI and broadcasts.
// A monster at 0 HP is inert until its respawn timer fires.
func (m *MonsterInfo) Alive() bool {
	return m.HP > 0
}
