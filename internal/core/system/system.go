package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseInput      Phase = iota // 0: drain session queues, dispatch events
	PhasePreUpdate               // 1: deliver last tick's bus events
	PhaseUpdate                  // 2: game logic (AI, respawn, revive)
	PhasePostUpdate              // 3: periodic state sync to clients
)

// System is the interface every tick system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
