package world

import (
	"time"

	"github.com/fieldrpg/server/internal/net"
)

// Facing directions and animation states shared by players and monsters.
const (
	DirFront = "front"
	DirBack  = "back"
	DirLeft  = "left"
	DirRight = "right"

	StateIdle      = "idle"
	StateMoving    = "moving"
	StateAttacking = "attacking"
	StateChasing   = "chasing"
	StateDead      = "dead"
)

// Attributes are the six allocatable stats. Each is at least 1.
type Attributes struct {
	Str  int `json:"str"`
	Agi  int `json:"agi"`
	Vit  int `json:"vit"`
	Int  int `json:"int"`
	Dex  int `json:"dex"`
	Luck int `json:"luck"`
}

// BaseAttributes is the starting allocation for a new character.
func BaseAttributes() Attributes {
	return Attributes{Str: 1, Agi: 1, Vit: 1, Int: 1, Dex: 1, Luck: 1}
}

// ItemBonuses is the opaque bag of numeric stat bonuses one equipped item
// contributes. Keys matching a derived stat (maxHp, attack, speed) add onto
// it; any other key is carried as an additive extra stat.
type ItemBonuses map[string]float64

// Equipment maps an equipment slot to the bonuses of the item in it.
type Equipment map[string]ItemBonuses

// PlayerInfo holds in-memory data for a player. The record is created on
// first join and retained for the process lifetime; disconnect only clears
// the session handle. Accessed only from the game loop goroutine.
type PlayerInfo struct {
	ID      string // stable identity (account email)
	Name    string
	Class   string
	Level   int
	Exp     int
	X, Y    float64
	Dir     string
	State   string
	MapID   string
	Session *net.Session // nil when offline
	Online  bool

	// Derived stats — written only by the stats pipeline.
	HP     int
	MaxHP  int
	Attack int
	Speed  float64
	Extra  map[string]float64 // equipment stats outside the derived set

	Attrs      Attributes
	StatPoints int

	Equipment Equipment
	Inventory []string

	ChatLast map[string]time.Time // channel → last accepted message

	LastMove  time.Time // movement throttle
	LastPvP   time.Time // PvP attack cooldown
	LastMapID string    // last map the player was a member of; reconnects resume here

	Dead        bool
	ReviveTicks int    // base ticks until revive; >0 only while dead
	ReviveMap   string // map whose spawn point the revive uses
}

// Connected reports whether the player has a live session to push events to.
func (p *PlayerInfo) Connected() bool {
	return p.Online && p.Session != nil && !p.Session.IsClosed()
}

// Send pushes an event to the player's connection, if any.
func (p *PlayerInfo) Send(event string, data any) {
	if p.Connected() {
		p.Session.Send(event, data)
	}
}
