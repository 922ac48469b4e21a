package handler

import (
	"encoding/json"
	"time"

	"github.com/fieldrpg/server/internal/net"
	"github.com/fieldrpg/server/internal/world"
)

// HandleMove records a position update. Updates arriving faster than the
// throttle window are dropped outright; accepted updates only mutate state —
// the periodic sync system broadcasts positions, not this handler.
func HandleMove(deps *Deps, sess *net.Session, raw json.RawMessage) {
	p := playerFor(deps, sess)
	if p == nil || p.Dead {
		return
	}

	now := time.Now()
	if now.Sub(p.LastMove) < deps.Config.Gameplay.MoveThrottle {
		return
	}
	p.LastMove = now

	var req MoveRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return
	}

	x, y := req.X, req.Y
	if info := deps.Maps.Get(p.MapID); info != nil && !insideMap(info.Width, info.Height, x, y) {
		return
	}
	p.X, p.Y = x, y

	switch req.Dir {
	case world.DirFront, world.DirBack, world.DirLeft, world.DirRight:
		p.Dir = req.Dir
	}
	switch req.State {
	case world.StateIdle, world.StateMoving, world.StateAttacking:
		p.State = req.State
	}
}
