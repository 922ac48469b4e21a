package handler

import (
	"encoding/json"

	"github.com/fieldrpg/server/internal/net"
)

// Map transfer rejection reasons.
const (
	MapErrUnknown  = "unknown_map"
	MapErrMinLevel = "level_too_low"
)

// HandleChangeMap moves a player between maps. All gates are checked before
// any state changes, so a rejected transfer leaves the player exactly where
// it was.
func HandleChangeMap(deps *Deps, sess *net.Session, raw json.RawMessage) {
	p := playerFor(deps, sess)
	if p == nil || p.Dead {
		return
	}
	var req ChangeMapRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return
	}

	dest := deps.Maps.Get(req.MapID)
	if dest == nil {
		p.Send(EvPlayerMapError, MapErrorPayload{MapID: req.MapID, Reason: MapErrUnknown})
		return
	}
	if dest.MinLevel > 0 && p.Level < dest.MinLevel {
		p.Send(EvPlayerMapError, MapErrorPayload{MapID: req.MapID, Reason: MapErrMinLevel})
		return
	}

	old := deps.World.RemovePlayerFromMap(p)
	BroadcastToAOI(deps, old, p.X, p.Y, p.ID, EvPlayerLeft, LeftPayload{ID: p.ID})
	CleanupMapIfEmpty(deps, old)

	x, y := req.X, req.Y
	if !insideMap(dest.Width, dest.Height, x, y) || (x == 0 && y == 0) {
		x, y = dest.SpawnX, dest.SpawnY
	}
	enterMap(deps, p, dest.ID, x, y)
}
