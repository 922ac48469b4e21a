package handler

import (
	"encoding/json"

	"github.com/fieldrpg/server/internal/net"
)

// HandleDropPickup claims a floating loot entity. First claim wins; a stale
// drop id (already taken, or swept by map cleanup) is a silent no-op.
func HandleDropPickup(deps *Deps, sess *net.Session, raw json.RawMessage) {
	p := playerFor(deps, sess)
	if p == nil || p.Dead {
		return
	}
	var req PickupRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return
	}

	d := deps.World.GetDrop(req.DropID)
	if d == nil || d.MapID != p.MapID {
		return
	}
	deps.World.RemoveDrop(d.ID)
	p.Inventory = append(p.Inventory, d.Item)

	BroadcastToMap(deps, d.MapID, EvDropPickup, DropPickupPayload{
		ID:       d.ID,
		PlayerID: p.ID,
		Item:     d.Item,
	})
}
