package handler

import (
	"encoding/json"

	"github.com/fieldrpg/server/internal/world"
)

// Inbound event names (client → server).
const (
	CJoin         = "join"
	CMove         = "move"
	CAttack       = "attack"
	CSkill        = "skill"
	CMonsterHit   = "monster-hit"
	CPvPAttack    = "pvp-attack"
	CHit          = "hit"
	CAllocateStat = "allocate-stat"
	CChangeMap    = "change-map"
	CSendChat     = "send-chat"
	CDropPickup   = "drop-pickup"
	CDisconnect   = "disconnect"
)

// Outbound event names (server → client). Payloads are tagged variants: the
// structs below are the minimal required fields; additive fields are optional
// extensions, not breaking changes.
const (
	EvPlayerJoined       = "player:joined"
	EvPlayerLeft         = "player:left"
	EvPlayerMoved        = "player:moved"
	EvPlayerDamaged      = "player:damaged"
	EvPlayerAttacked     = "player:attacked"
	EvPlayerSkill        = "player:skill"
	EvPlayerHPChanged    = "player:hpChanged"
	EvPlayerDied         = "player:died"
	EvPlayerRevived      = "player:revived"
	EvPlayerLevelUp      = "player:levelUp"
	EvPlayerXPUpdated    = "player:xpUpdated"
	EvPlayerStatsInit    = "player:statsInitialized"
	EvPlayerStatsUpdated = "player:statsUpdated"
	EvPlayerAttackResult = "player:attackResult"
	EvPlayerPvPHit       = "player:pvpHit"
	EvPlayerHitDenied    = "player:hitDenied"
	EvPlayerMapError     = "player:mapError"

	EvMonsterSpawn   = "monster:spawn"
	EvMonsterMove    = "monster:move"
	EvMonsterAttack  = "monster:attack"
	EvMonsterHit     = "monster:hit"
	EvMonsterDespawn = "monster:despawn"
	EvMonsterUpdate  = "monster:update"
	EvMonsterKilled  = "monster:killed"

	EvDropSpawn  = "drop:spawn"
	EvDropPickup = "drop:pickup"

	EvChatMessage     = "chat:message"
	EvChatSpamBlocked = "chat:spamBlocked"
	EvChatError       = "chat:error"
)

// ---------- inbound payloads ----------

type JoinRequest struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Class string  `json:"class"`
	Level int     `json:"level"`
	Exp   int     `json:"xp"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	MapID string  `json:"map"`
}

type MoveRequest struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Dir   string  `json:"dir"`
	State string  `json:"state"`
}

type AttackRequest struct {
	Damage int `json:"damage"`
}

type SkillRequest struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type MonsterHitRequest struct {
	MonsterID string `json:"monsterId"`
	Damage    int    `json:"damage"`
}

type PvPAttackRequest struct {
	TargetID string `json:"targetId"`
}

type HitRequest struct {
	Damage     int    `json:"damage"`
	AttackerID string `json:"attackerId"`
}

type AllocateStatRequest struct {
	Stat   string `json:"stat"`
	Points int    `json:"points"`
}

type ChangeMapRequest struct {
	MapID string  `json:"map"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

type ChatRequest struct {
	Message  string `json:"message"`
	Channel  string `json:"channel"`
	TargetID string `json:"targetId"`
}

type PickupRequest struct {
	DropID string `json:"dropId"`
}

// ---------- outbound payloads ----------

// PlayerSnapshot is the view of a player pushed to other clients.
type PlayerSnapshot struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Class string  `json:"class"`
	Level int     `json:"level"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Dir   string  `json:"dir"`
	State string  `json:"state"`
	HP    int     `json:"hp"`
	MaxHP int     `json:"maxHp"`
}

func playerSnapshot(p *world.PlayerInfo) PlayerSnapshot {
	return PlayerSnapshot{
		ID:    p.ID,
		Name:  p.Name,
		Class: p.Class,
		Level: p.Level,
		X:     p.X,
		Y:     p.Y,
		Dir:   p.Dir,
		State: p.State,
		HP:    p.HP,
		MaxHP: p.MaxHP,
	}
}

// MonsterSnapshot is the full monster state pushed by spawn and sync events.
type MonsterSnapshot struct {
	ID     string  `json:"id"`
	Type   string  `json:"type"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Dir    string  `json:"dir"`
	State  string  `json:"state"`
	HP     int     `json:"hp"`
	MaxHP  int     `json:"maxHp"`
	Target string  `json:"target,omitempty"`
}

// MonsterSnapshotOf builds the wire snapshot; also used by the sync systems.
func MonsterSnapshotOf(m *world.MonsterInfo) MonsterSnapshot {
	return MonsterSnapshot{
		ID:     m.ID,
		Type:   m.Type,
		X:      m.X,
		Y:      m.Y,
		Dir:    m.Dir,
		State:  m.State,
		HP:     m.HP,
		MaxHP:  m.MaxHP,
		Target: m.Target,
	}
}

// StatsPayload is the full stat snapshot sent on join, level-up and
// allocation.
type StatsPayload struct {
	Level      int              `json:"level"`
	Exp        int              `json:"xp"`
	XPToLevel  int              `json:"xpToLevel"`
	Stats      world.Attributes `json:"stats"`
	StatPoints int              `json:"statPoints"`
	HP         int              `json:"hp"`
	MaxHP      int              `json:"maxHp"`
	Attack     int              `json:"attack"`
	Speed      float64          `json:"speed"`
}

type MovedPayload struct {
	ID    string  `json:"id"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Dir   string  `json:"dir"`
	State string  `json:"state"`
}

type LeftPayload struct {
	ID string `json:"id"`
}

type HPChangedPayload struct {
	HP       int    `json:"hp"`
	MaxHP    int    `json:"maxHp"`
	Damage   int    `json:"damage"`
	Attacker string `json:"attacker"`
}

type DamagedPayload struct {
	ID     string `json:"id"`
	Damage int    `json:"damage"`
	HP     int    `json:"hp"`
}

type AttackedPayload struct {
	ID     string `json:"id"`
	Damage int    `json:"damage"`
}

type SkillPayload struct {
	ID      string          `json:"id"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type DiedPayload struct {
	ID        string  `json:"id"`
	MapID     string  `json:"map"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	RespawnMs int64   `json:"respawnMs"`
}

type RevivedPayload struct {
	ID    string  `json:"id"`
	MapID string  `json:"map"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	HP    int     `json:"hp"`
	MaxHP int     `json:"maxHp"`
}

type XPPayload struct {
	Level     int `json:"level"`
	Exp       int `json:"xp"`
	XPToLevel int `json:"xpToLevel"`
}

type LevelUpPayload struct {
	Level      int `json:"level"`
	StatPoints int `json:"statPoints"`
}

type AttackResultPayload struct {
	TargetID string `json:"targetId"`
	Damage   int    `json:"damage"`
	Crit     bool   `json:"crit"`
}

type PvPHitPayload struct {
	AttackerID string `json:"attackerId"`
	Damage     int    `json:"damage"`
	Crit       bool   `json:"crit"`
}

type HitDeniedPayload struct {
	TargetID string `json:"targetId"`
	Reason   string `json:"reason"`
}

type MapErrorPayload struct {
	MapID  string `json:"map"`
	Reason string `json:"reason"`
}

type MonsterAttackPayload struct {
	ID       string `json:"id"`
	TargetID string `json:"targetId"`
	Damage   int    `json:"damage"`
}

type MonsterHitPayload struct {
	ID       string `json:"id"`
	HP       int    `json:"hp"`
	MaxHP    int    `json:"maxHp"`
	Damage   int    `json:"damage"`
	Attacker string `json:"attacker"`
}

type MonsterKilledPayload struct {
	ID     string `json:"id"`
	Killer string `json:"killer"`
}

type MonsterUpdatePayload struct {
	MapID    string            `json:"map"`
	Monsters []MonsterSnapshot `json:"monsters"`
}

type DropPayload struct {
	ID    string  `json:"id"`
	Item  string  `json:"item"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	MapID string  `json:"map"`
}

type DropPickupPayload struct {
	ID       string `json:"id"`
	PlayerID string `json:"playerId"`
	Item     string `json:"item"`
}

type ChatPayload struct {
	From    string `json:"from"`
	Name    string `json:"name"`
	Channel string `json:"channel"`
	Message string `json:"message"`
}

type ChatBlockedPayload struct {
	Channel string `json:"channel"`
	RetryMs int64  `json:"retryMs"`
}

type ChatErrorPayload struct {
	Reason string `json:"reason"`
}

func statsPayload(deps *Deps, p *world.PlayerInfo) StatsPayload {
	return StatsPayload{
		Level:      p.Level,
		Exp:        p.Exp,
		XPToLevel:  deps.Scripting.XPToLevel(p.Level),
		Stats:      p.Attrs,
		StatPoints: p.StatPoints,
		HP:         p.HP,
		MaxHP:      p.MaxHP,
		Attack:     p.Attack,
		Speed:      p.Speed,
	}
}
