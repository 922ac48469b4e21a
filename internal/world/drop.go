package world

// DropInfo is a floating loot entity waiting to be picked up. Drops share
// the monster set's lifetime: both are discarded when their map empties.
type DropInfo struct {
	ID    string
	Item  string
	MapID string
	X, Y  float64
}
