package handler

import (
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/fieldrpg/server/internal/net"
	"github.com/fieldrpg/server/internal/stats"
	"github.com/fieldrpg/server/internal/world"
)

// HandleJoin admits a session into the world. A first-time identity gets a
// fresh record with pipeline-derived stats at full HP; a returning identity
// reuses its retained record, so progress made before a disconnect survives
// the reconnect.
func HandleJoin(deps *Deps, sess *net.Session, raw json.RawMessage) {
	var req JoinRequest
	if err := json.Unmarshal(raw, &req); err != nil || req.ID == "" {
		return
	}

	p := deps.World.GetPlayer(req.ID)
	if p == nil {
		p = newPlayer(deps, &req)
		deps.World.UpsertPlayer(p)
		deps.Log.Info("player joined",
			zap.String("player", p.ID), zap.String("map", p.LastMapID))
	} else {
		// Reconnect. The record is authoritative; the payload's gameplay
		// numbers are ignored. A still-open previous connection is replaced,
		// and its map membership is torn down exactly like a disconnect so
		// the re-entry below never leaves a stale index entry behind.
		if p.Connected() && p.Session != sess {
			old := p.Session
			deps.World.DetachSession(p)
			old.Close()
		}
		if prev := deps.World.RemovePlayerFromMap(p); prev != "" {
			BroadcastToAOI(deps, prev, p.X, p.Y, p.ID, EvPlayerLeft, LeftPayload{ID: p.ID})
			CleanupMapIfEmpty(deps, prev)
		}
		stats.Apply(p, stats.PreserveRatio)
		deps.Log.Info("player reconnected", zap.String("player", p.ID))
	}

	deps.World.AttachSession(p, sess)
	sess.Identity = p.ID

	p.Send(EvPlayerStatsInit, statsPayload(deps, p))
	p.Send(EvPlayerXPUpdated, XPPayload{
		Level:     p.Level,
		Exp:       p.Exp,
		XPToLevel: deps.Scripting.XPToLevel(p.Level),
	})

	mapID := p.LastMapID
	if deps.Maps.Get(mapID) == nil {
		mapID = deps.Config.Gameplay.DefaultTown
	}
	enterMap(deps, p, mapID, p.X, p.Y)
}

// newPlayer builds a fresh record from a first-time join request. Identity,
// name, class and starting position are taken from the payload (validated);
// all gameplay numbers come from the stat pipeline.
func newPlayer(deps *Deps, req *JoinRequest) *world.PlayerInfo {
	class := req.Class
	if class == "" {
		class = deps.Config.Gameplay.DefaultClass
	}
	level := req.Level
	if level < 1 {
		level = 1
	}
	exp := req.Exp
	if exp < 0 {
		exp = 0
	}

	mapID := req.MapID
	info := deps.Maps.Get(mapID)
	if info == nil || (info.MinLevel > 0 && level < info.MinLevel) {
		mapID = deps.Config.Gameplay.DefaultTown
		info = deps.Maps.Get(mapID)
	}
	x, y := req.X, req.Y
	if info != nil && !insideMap(info.Width, info.Height, x, y) {
		x, y = info.SpawnX, info.SpawnY
	}

	p := &world.PlayerInfo{
		ID:        req.ID,
		Name:      req.Name,
		Class:     class,
		Level:     level,
		Exp:       exp,
		X:         x,
		Y:         y,
		Dir:       world.DirFront,
		State:     world.StateIdle,
		LastMapID: mapID,
		Attrs:     world.BaseAttributes(),
		Equipment: world.Equipment{},
		ChatLast:  make(map[string]time.Time),
	}
	stats.Apply(p, stats.FullHeal)
	return p
}

// enterMap registers the player in a map and synchronizes both sides: the
// entrant gets snapshots of everything already there, the map's nearby
// players get the entrant's snapshot.
func enterMap(deps *Deps, p *world.PlayerInfo, mapID string, x, y float64) {
	deps.World.AddPlayerToMap(p, mapID)
	p.X, p.Y = x, y

	EnsureMonsters(deps, mapID)

	for _, m := range deps.World.MonstersInMap(mapID) {
		if m.Alive() {
			p.Send(EvMonsterSpawn, MonsterSnapshotOf(m))
		}
	}
	for _, other := range PlayersInAOI(deps, mapID, x, y, p.ID) {
		p.Send(EvPlayerJoined, playerSnapshot(other))
	}
	for _, d := range deps.World.DropsInMap(mapID) {
		p.Send(EvDropSpawn, DropPayload{ID: d.ID, Item: d.Item, X: d.X, Y: d.Y, MapID: d.MapID})
	}

	BroadcastToAOI(deps, mapID, x, y, p.ID, EvPlayerJoined, playerSnapshot(p))
}

func insideMap(width, height, x, y float64) bool {
	if width <= 0 || height <= 0 {
		return true
	}
	return x >= 0 && x <= width && y >= 0 && y <= height
}
