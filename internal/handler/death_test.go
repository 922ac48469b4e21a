package handler

import (
	"testing"
)

func TestPvEDeathRelocatesToTown(t *testing.T) {
	deps := newTestDeps(t)
	sess := newTestSession(1)
	p := join(t, deps, sess, "dead@test")
	HandleChangeMap(deps, sess, mustRaw(t, ChangeMapRequest{MapID: "monster_field_1"}))
	drainEvents(sess)

	ApplyPlayerDamage(deps, p, p.MaxHP, "m_1", false)

	if !p.Dead || p.HP != 0 {
		t.Fatalf("after lethal damage: dead=%v hp=%d, want dead at 0", p.Dead, p.HP)
	}
	if p.MapID != "south_town" {
		t.Errorf("body on %q, want immediate relocation to south_town", p.MapID)
	}
	town := deps.Maps.Get("south_town")
	if p.X != town.SpawnX || p.Y != town.SpawnY {
		t.Errorf("body at (%v,%v), want town spawn", p.X, p.Y)
	}
	// The dying player was the field's only occupant; its monsters go too.
	if deps.World.MapMonsterCount("monster_field_1") != 0 {
		t.Error("emptied field kept its monsters")
	}
	if !hasEvent(drainEvents(sess), EvPlayerDied) {
		t.Error("death was not notified")
	}

	RevivePlayer(deps, p)
	if p.Dead || p.HP != p.MaxHP || p.MapID != "south_town" {
		t.Errorf("revive: dead=%v hp=%d map=%q, want alive full in town", p.Dead, p.HP, p.MapID)
	}
}

func TestDeathTransitionRunsOnce(t *testing.T) {
	deps := newTestDeps(t)
	sess := newTestSession(1)
	p := join(t, deps, sess, "once@test")

	ApplyPlayerDamage(deps, p, p.MaxHP, "m_1", false)
	p.ReviveTicks = 1 // distinguishable from a re-arm

	ApplyPlayerDamage(deps, p, 50, "m_2", false)
	KillPlayer(deps, p, false, "m_2")

	if p.ReviveTicks != 1 {
		t.Errorf("revive countdown re-armed (=%d), want second death ignored", p.ReviveTicks)
	}
}

func TestReviveSurvivesDisconnect(t *testing.T) {
	deps := newTestDeps(t)
	sess := newTestSession(1)
	p := join(t, deps, sess, "offline@test")

	ApplyPlayerDamage(deps, p, p.MaxHP, "m_1", false)
	Disconnect(deps, sess)

	RevivePlayer(deps, p) // countdown fires on the offline record

	if p.Dead || p.HP != p.MaxHP {
		t.Errorf("offline revive: dead=%v hp=%d, want alive at full", p.Dead, p.HP)
	}
}
