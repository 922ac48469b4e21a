package handler

import (
	"encoding/json"

	"github.com/fieldrpg/server/internal/net"
	"github.com/fieldrpg/server/internal/stats"
)

// HandleAllocateStat spends unspent stat points on one attribute. An unknown
// attribute key or an overspend is dropped without reply; the balance only
// desyncs when the client is stale or hostile, and the next statsUpdated
// resynchronizes it either way.
func HandleAllocateStat(deps *Deps, sess *net.Session, raw json.RawMessage) {
	p := playerFor(deps, sess)
	if p == nil || p.Dead {
		return
	}
	var req AllocateStatRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return
	}
	if req.Points <= 0 || req.Points > p.StatPoints {
		return
	}

	switch req.Stat {
	case "str":
		p.Attrs.Str += req.Points
	case "agi":
		p.Attrs.Agi += req.Points
	case "vit":
		p.Attrs.Vit += req.Points
	case "int":
		p.Attrs.Int += req.Points
	case "dex":
		p.Attrs.Dex += req.Points
	case "luck":
		p.Attrs.Luck += req.Points
	default:
		return
	}
	p.StatPoints -= req.Points

	stats.Apply(p, stats.PreserveRatio)
	p.Send(EvPlayerStatsUpdated, statsPayload(deps, p))
}
