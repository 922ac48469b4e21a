package net

import (
	"encoding/json"

	"go.uber.org/zap"
)

// HandlerFunc processes one inbound event for a session.
type HandlerFunc func(sess *Session, data json.RawMessage)

// Registry maps inbound event names to handlers.
type Registry struct {
	handlers map[string]HandlerFunc
	log      *zap.Logger
}

func NewRegistry(log *zap.Logger) *Registry {
	return &Registry{
		handlers: make(map[string]HandlerFunc),
		log:      log,
	}
}

func (r *Registry) Register(event string, fn HandlerFunc) {
	r.handlers[event] = fn
}

// Dispatch routes a message to its handler. Unknown events are dropped —
// a stale or malicious client never crashes the session.
func (r *Registry) Dispatch(sess *Session, msg Message) {
	fn, ok := r.handlers[msg.Event]
	if !ok {
		r.log.Debug("unhandled event", zap.String("event", msg.Event), zap.Uint64("session", sess.ID))
		return
	}
	fn(sess, msg.Data)
}
