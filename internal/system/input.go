// Package system holds the per-tick systems the game loop runs in phase
// order: input draining, bus dispatch, monster AI, respawn and revive
// countdowns, and the periodic state syncs to clients.
package system

import (
	"sort"
	"time"

	"github.com/fieldrpg/server/internal/core/system"
	"github.com/fieldrpg/server/internal/handler"
	"github.com/fieldrpg/server/internal/net"
)

// InputSystem is the only bridge between the network goroutines and the game
// loop: it accepts new sessions, retires dead ones, and drains each session's
// inbound queue through the handler registry. Everything downstream of
// Dispatch runs on the loop goroutine.
type InputSystem struct {
	deps     *handler.Deps
	server   *net.Server
	store    *net.SessionStore
	registry *net.Registry
	maxDrain int
}

func NewInputSystem(deps *handler.Deps, server *net.Server, store *net.SessionStore, registry *net.Registry) *InputSystem {
	return &InputSystem{
		deps:     deps,
		server:   server,
		store:    store,
		registry: registry,
		maxDrain: deps.Config.Network.MaxEventsPerTick,
	}
}

func (s *InputSystem) Phase() system.Phase { return system.PhaseInput }

func (s *InputSystem) Update(_ time.Duration) {
	s.acceptNew()
	s.retireDead()
	s.drainQueues()
}

func (s *InputSystem) acceptNew() {
	for {
		select {
		case sess := <-s.server.NewSessions():
			s.store.Add(sess)
		default:
			return
		}
	}
}

func (s *InputSystem) retireDead() {
	for {
		select {
		case id := <-s.server.DeadSessions():
			if sess := s.store.Remove(id); sess != nil {
				handler.Disconnect(s.deps, sess)
			}
		default:
			return
		}
	}
}

// drainQueues pulls at most maxDrain events per session per tick, in a fixed
// session order so replays are deterministic.
func (s *InputSystem) drainQueues() {
	raw := s.store.Raw()
	ids := make([]uint64, 0, len(raw))
	for id := range raw {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		sess := raw[id]
		if sess.IsClosed() {
			continue
		}
	drain:
		for n := 0; n < s.maxDrain; n++ {
			select {
			case msg := <-sess.InQueue:
				s.registry.Dispatch(sess, msg)
			default:
				break drain
			}
		}
	}
}
