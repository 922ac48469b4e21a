// Package handler implements the game-loop side of every inbound client
// event: life-cycle (join, map transfer, disconnect), combat resolution,
// progression, chat and loot. Handlers run exclusively on the game loop
// goroutine and mutate world state directly; the only cross-goroutine work
// they start is the fire-and-forget profile save on disconnect.
package handler

import (
	"encoding/json"

	"go.uber.org/zap"

	"github.com/fieldrpg/server/internal/config"
	"github.com/fieldrpg/server/internal/core/event"
	"github.com/fieldrpg/server/internal/data"
	"github.com/fieldrpg/server/internal/net"
	"github.com/fieldrpg/server/internal/persist"
	"github.com/fieldrpg/server/internal/scripting"
	"github.com/fieldrpg/server/internal/world"
)

// Deps bundles everything a handler can touch. One instance is shared by all
// handlers and tick systems.
type Deps struct {
	Config    *config.Config
	Log       *zap.Logger
	World     *world.State
	Maps      *data.MapTable
	Monsters  *data.MonsterTable
	Scripting *scripting.Engine
	Profiles  *persist.ProfileRepo // nil when running without a database
	Bus       *event.Bus
}

// RegisterAll binds every inbound event name to its handler.
func RegisterAll(r *net.Registry, deps *Deps) {
	r.Register(CJoin, func(sess *net.Session, data json.RawMessage) {
		HandleJoin(deps, sess, data)
	})
	r.Register(CMove, func(sess *net.Session, data json.RawMessage) {
		HandleMove(deps, sess, data)
	})
	r.Register(CAttack, func(sess *net.Session, data json.RawMessage) {
		HandleAttack(deps, sess, data)
	})
	r.Register(CSkill, func(sess *net.Session, data json.RawMessage) {
		HandleSkill(deps, sess, data)
	})
	r.Register(CMonsterHit, func(sess *net.Session, data json.RawMessage) {
		HandleMonsterHit(deps, sess, data)
	})
	r.Register(CPvPAttack, func(sess *net.Session, data json.RawMessage) {
		HandlePvPAttack(deps, sess, data)
	})
	r.Register(CHit, func(sess *net.Session, data json.RawMessage) {
		HandleHit(deps, sess, data)
	})
	r.Register(CAllocateStat, func(sess *net.Session, data json.RawMessage) {
		HandleAllocateStat(deps, sess, data)
	})
	r.Register(CChangeMap, func(sess *net.Session, data json.RawMessage) {
		HandleChangeMap(deps, sess, data)
	})
	r.Register(CSendChat, func(sess *net.Session, data json.RawMessage) {
		HandleSendChat(deps, sess, data)
	})
	r.Register(CDropPickup, func(sess *net.Session, data json.RawMessage) {
		HandleDropPickup(deps, sess, data)
	})
	r.Register(CDisconnect, func(sess *net.Session, _ json.RawMessage) {
		HandleQuit(deps, sess)
	})
}

// playerFor resolves the session's joined player, or nil if the session never
// completed a join. Events from un-joined sessions are dropped.
func playerFor(deps *Deps, sess *net.Session) *world.PlayerInfo {
	return deps.World.GetBySession(sess.ID)
}
