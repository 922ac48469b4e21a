package handler

import (
	"math"

	"github.com/fieldrpg/server/internal/world"
)

// Dist is the Euclidean distance between two points.
func Dist(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x2-x1, y2-y1)
}

// PlayersInAOI returns the map's players within the interest radius of
// (x, y), excluding excludeID. Order is the fixed identity order of
// PlayersInMap.
func PlayersInAOI(deps *Deps, mapID string, x, y float64, excludeID string) []*world.PlayerInfo {
	radius := deps.Config.Gameplay.AOIRadius
	var result []*world.PlayerInfo
	for _, p := range deps.World.PlayersInMap(mapID) {
		if p.ID == excludeID {
			continue
		}
		if Dist(p.X, p.Y, x, y) <= radius {
			result = append(result, p)
		}
	}
	return result
}

// BroadcastToAOI pushes an event to every connected player within the
// interest radius of (x, y) on the map, excluding excludeID. Pass an empty
// excludeID to include everyone.
func BroadcastToAOI(deps *Deps, mapID string, x, y float64, excludeID, event string, data any) {
	for _, p := range PlayersInAOI(deps, mapID, x, y, excludeID) {
		p.Send(event, data)
	}
}

// BroadcastToMap pushes an event to every connected player on the map,
// regardless of distance. Used for events whose effects must be globally
// consistent within the map: spawns, despawns, chat.
func BroadcastToMap(deps *Deps, mapID, event string, data any) {
	for _, p := range deps.World.PlayersInMap(mapID) {
		p.Send(event, data)
	}
}
