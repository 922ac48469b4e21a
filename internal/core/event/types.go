package event

// Domain events crossing system boundaries. Consumers see them one tick
// after emission.

type PlayerDied struct {
	ID     string // player identity
	MapID  string // map the player died on
	PvP    bool
	Killer string // empty for monster kills
}

type MonsterKilled struct {
	ID     string
	Type   string
	MapID  string
	Killer string // last-hit attribution
}

type PlayerLeveledUp struct {
	ID    string
	Level int
}

type PlayerDisconnected struct {
	ID    string
	MapID string
}
