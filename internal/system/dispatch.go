package system

import (
	"time"

	"github.com/fieldrpg/server/internal/core/event"
	"github.com/fieldrpg/server/internal/core/system"
)

// EventDispatchSystem rotates the event bus buffers and delivers last tick's
// domain events to their subscribers. Runs before game logic, so subscribers
// observe a consistent pre-update world.
type EventDispatchSystem struct {
	bus *event.Bus
}

func NewEventDispatchSystem(bus *event.Bus) *EventDispatchSystem {
	return &EventDispatchSystem{bus: bus}
}

func (s *EventDispatchSystem) Phase() system.Phase { return system.PhasePreUpdate }

func (s *EventDispatchSystem) Update(_ time.Duration) {
	s.bus.SwapBuffers()
	s.bus.DispatchAll()
}
