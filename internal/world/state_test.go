package world

import (
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/fieldrpg/server/internal/net"
)

func testSession(id uint64) *net.Session {
	return net.NewSession(nil, id, 8, 8, time.Second, zap.NewNop())
}

func TestPlayerMapMembership(t *testing.T) {
	s := NewState()
	p := &PlayerInfo{ID: "p1"}
	s.UpsertPlayer(p)
	s.AddPlayerToMap(p, "town")

	if p.MapID != "town" || s.MapPlayerCount("town") != 1 {
		t.Fatal("membership field and index out of sync after add")
	}

	old := s.RemovePlayerFromMap(p)
	if old != "town" {
		t.Errorf("removed from %q, want town", old)
	}
	if p.MapID != "" || s.MapPlayerCount("town") != 0 {
		t.Error("membership field and index out of sync after remove")
	}
	if p.LastMapID != "town" {
		t.Errorf("lastMapID = %q, want the map just left", p.LastMapID)
	}
}

func TestDetachRetainsRecord(t *testing.T) {
	s := NewState()
	p := &PlayerInfo{ID: "p1"}
	s.UpsertPlayer(p)
	sess := testSession(7)
	s.AttachSession(p, sess)

	if s.GetBySession(7) != p || !p.Online {
		t.Fatal("attach did not bind the session")
	}

	s.DetachSession(p)

	if s.GetBySession(7) != nil {
		t.Error("session index still resolves after detach")
	}
	if p.Online {
		t.Error("player still online after detach")
	}
	if s.GetPlayer("p1") != p {
		t.Error("record discarded on detach, want retention")
	}
}

func TestAttachReplacesSession(t *testing.T) {
	s := NewState()
	p := &PlayerInfo{ID: "p1"}
	s.UpsertPlayer(p)
	s.AttachSession(p, testSession(1))
	s.AttachSession(p, testSession(2))

	if s.GetBySession(1) != nil {
		t.Error("stale session index entry survived a re-attach")
	}
	if s.GetBySession(2) != p {
		t.Error("new session does not resolve")
	}
}

func TestMonsterLifecycle(t *testing.T) {
	s := NewState()
	id1, id2 := s.NextMonsterID(), s.NextMonsterID()
	if id1 == id2 {
		t.Fatal("monster ids not unique")
	}
	s.AddMonster(&MonsterInfo{ID: id1, MapID: "field"})
	s.AddMonster(&MonsterInfo{ID: id2, MapID: "field"})

	if s.MapMonsterCount("field") != 2 || len(s.MonsterList()) != 2 {
		t.Fatal("monster indices out of sync after add")
	}

	s.RemoveMonster(id1)
	if s.GetMonster(id1) != nil || s.MapMonsterCount("field") != 1 || len(s.MonsterList()) != 1 {
		t.Error("monster indices out of sync after remove")
	}
}

func TestRemoveMapMonstersDiscardsAll(t *testing.T) {
	s := NewState()
	for i := 0; i < 3; i++ {
		s.AddMonster(&MonsterInfo{ID: s.NextMonsterID(), MapID: "field"})
	}
	s.AddMonster(&MonsterInfo{ID: s.NextMonsterID(), MapID: "other"})

	if got := s.RemoveMapMonsters("field"); got != 3 {
		t.Errorf("removed %d, want 3", got)
	}
	if s.MapMonsterCount("field") != 0 {
		t.Error("field still has monsters")
	}
	if s.MapMonsterCount("other") != 1 {
		t.Error("cleanup leaked into another map")
	}
}

func TestDropLifecycle(t *testing.T) {
	s := NewState()
	d := &DropInfo{ID: s.NextDropID(), Item: "potion", MapID: "field"}
	s.AddDrop(d)

	if s.GetDrop(d.ID) != d || len(s.DropsInMap("field")) != 1 {
		t.Fatal("drop indices out of sync after add")
	}

	s.RemoveDrop(d.ID)
	if s.GetDrop(d.ID) != nil || len(s.DropsInMap("field")) != 0 {
		t.Error("drop indices out of sync after remove")
	}

	s.AddDrop(&DropInfo{ID: s.NextDropID(), MapID: "field"})
	s.RemoveMapDrops("field")
	if len(s.DropsInMap("field")) != 0 {
		t.Error("map drop cleanup left entries behind")
	}
}

func TestPlayersInMapFixedOrder(t *testing.T) {
	s := NewState()
	for _, id := range []string{"c", "a", "b"} {
		p := &PlayerInfo{ID: id}
		s.UpsertPlayer(p)
		s.AddPlayerToMap(p, "town")
	}
	got := s.PlayersInMap("town")
	if len(got) != 3 || got[0].ID != "a" || got[1].ID != "b" || got[2].ID != "c" {
		t.Errorf("order = %v, want identity-sorted", []string{got[0].ID, got[1].ID, got[2].ID})
	}
}
