package handler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/fieldrpg/server/internal/core/event"
	"github.com/fieldrpg/server/internal/net"
	"github.com/fieldrpg/server/internal/persist"
)

// HandleQuit is the explicit client goodbye. The session close also surfaces
// through the dead-session path, where Disconnect is a no-op the second time.
func HandleQuit(deps *Deps, sess *net.Session) {
	Disconnect(deps, sess)
	sess.Close()
}

// Disconnect tears a session out of the world. The player record is retained
// offline (a reconnect resumes it); only map membership and the connection
// handle go. If the departure empties the map, its monsters and drops are
// discarded. The profile write happens off the game loop and is never
// allowed to stall a tick.
func Disconnect(deps *Deps, sess *net.Session) {
	p := deps.World.GetBySession(sess.ID)
	if p == nil {
		return
	}

	mapID := deps.World.RemovePlayerFromMap(p)
	if mapID != "" {
		BroadcastToAOI(deps, mapID, p.X, p.Y, p.ID, EvPlayerLeft, LeftPayload{ID: p.ID})
		CleanupMapIfEmpty(deps, mapID)
	}
	deps.World.DetachSession(p)

	deps.Log.Info("player disconnected",
		zap.String("player", p.ID), zap.String("map", mapID))
	event.Emit(deps.Bus, event.PlayerDisconnected{ID: p.ID, MapID: mapID})

	if deps.Profiles == nil {
		return
	}
	row := &persist.ProfileRow{
		Identity:   p.ID,
		Name:       p.Name,
		Str:        p.Attrs.Str,
		Agi:        p.Attrs.Agi,
		Vit:        p.Attrs.Vit,
		Int:        p.Attrs.Int,
		Dex:        p.Attrs.Dex,
		Luck:       p.Attrs.Luck,
		StatPoints: p.StatPoints,
	}
	log := deps.Log
	repo := deps.Profiles
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := repo.Save(ctx, row); err != nil {
			log.Error("profile save failed", zap.String("player", row.Identity), zap.Error(err))
		}
	}()
}
