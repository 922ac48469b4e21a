package event

import "testing"

func TestEventsVisibleNextTick(t *testing.T) {
	bus := NewBus()
	var got []PlayerDied
	Subscribe(bus, func(e PlayerDied) { got = append(got, e) })

	Emit(bus, PlayerDied{ID: "p1", MapID: "field"})
	bus.DispatchAll()
	if len(got) != 0 {
		t.Fatal("event delivered in the tick it was emitted")
	}

	bus.SwapBuffers()
	bus.DispatchAll()
	if len(got) != 1 || got[0].ID != "p1" {
		t.Fatalf("got %v, want the emitted event after the swap", got)
	}

	bus.SwapBuffers()
	bus.DispatchAll()
	if len(got) != 1 {
		t.Error("event delivered twice")
	}
}

func TestSubscribersAreTypeScoped(t *testing.T) {
	bus := NewBus()
	deaths, kills := 0, 0
	Subscribe(bus, func(PlayerDied) { deaths++ })
	Subscribe(bus, func(MonsterKilled) { kills++ })

	Emit(bus, MonsterKilled{ID: "m_1"})
	Emit(bus, MonsterKilled{ID: "m_2"})
	Emit(bus, PlayerDied{ID: "p1"})
	bus.SwapBuffers()
	bus.DispatchAll()

	if deaths != 1 || kills != 2 {
		t.Errorf("deaths=%d kills=%d, want 1 and 2", deaths, kills)
	}
}
