package world

import (
	"fmt"
	"sort"

	"github.com/fieldrpg/server/internal/net"
)

// State is the exclusive owner of all Player, Monster and Drop records and
// their map-membership indices. Every mutation goes through a State method so
// the entity tables and the indices change together — no entity is ever a
// member of a map without an index entry, or vice versa.
// Single-goroutine access only (game loop).
type State struct {
	players   map[string]*PlayerInfo // identity → player, retained across disconnects
	bySession map[uint64]*PlayerInfo

	monsters    map[string]*MonsterInfo
	monsterList []*MonsterInfo // fixed enumeration order for tick iteration

	drops map[string]*DropInfo

	mapPlayers  map[string]map[string]struct{}
	mapMonsters map[string]map[string]struct{}
	mapDrops    map[string]map[string]struct{}

	nextMonsterID uint64
	nextDropID    uint64
}

func NewState() *State {
	return &State{
		players:     make(map[string]*PlayerInfo),
		bySession:   make(map[uint64]*PlayerInfo),
		monsters:    make(map[string]*MonsterInfo),
		drops:       make(map[string]*DropInfo),
		mapPlayers:  make(map[string]map[string]struct{}),
		mapMonsters: make(map[string]map[string]struct{}),
		mapDrops:    make(map[string]map[string]struct{}),
	}
}

// ---------- players ----------

// UpsertPlayer registers a player record by identity. It does not touch map
// membership; callers use AddPlayerToMap for that.
func (s *State) UpsertPlayer(p *PlayerInfo) {
	s.players[p.ID] = p
}

func (s *State) GetPlayer(id string) *PlayerInfo {
	return s.players[id]
}

func (s *State) GetBySession(sessionID uint64) *PlayerInfo {
	return s.bySession[sessionID]
}

// AttachSession binds a connection to a player and marks it online.
func (s *State) AttachSession(p *PlayerInfo, sess *net.Session) {
	if p.Session != nil {
		delete(s.bySession, p.Session.ID)
	}
	p.Session = sess
	p.Online = sess != nil
	if sess != nil {
		s.bySession[sess.ID] = p
	}
}

// DetachSession clears the connection handle and marks the player offline.
// The player record itself is retained.
func (s *State) DetachSession(p *PlayerInfo) {
	if p.Session != nil {
		delete(s.bySession, p.Session.ID)
	}
	p.Session = nil
	p.Online = false
}

// AddPlayerToMap sets the player's map and the membership index together.
func (s *State) AddPlayerToMap(p *PlayerInfo, mapID string) {
	p.MapID = mapID
	members := s.mapPlayers[mapID]
	if members == nil {
		members = make(map[string]struct{})
		s.mapPlayers[mapID] = members
	}
	members[p.ID] = struct{}{}
}

// RemovePlayerFromMap drops the player from its current map's index and
// returns that map's id (empty if the player was in no map).
func (s *State) RemovePlayerFromMap(p *PlayerInfo) string {
	mapID := p.MapID
	if members := s.mapPlayers[mapID]; members != nil {
		delete(members, p.ID)
		if len(members) == 0 {
			delete(s.mapPlayers, mapID)
		}
	}
	p.MapID = ""
	if mapID != "" {
		p.LastMapID = mapID
	}
	return mapID
}

// PlayersInMap returns the map's players in a fixed (identity-sorted) order.
func (s *State) PlayersInMap(mapID string) []*PlayerInfo {
	members := s.mapPlayers[mapID]
	if len(members) == 0 {
		return nil
	}
	ids := make([]string, 0, len(members))
	for id := range members {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	result := make([]*PlayerInfo, 0, len(ids))
	for _, id := range ids {
		if p := s.players[id]; p != nil {
			result = append(result, p)
		}
	}
	return result
}

// MapPlayerCount returns the membership count of a map.
func (s *State) MapPlayerCount(mapID string) int {
	return len(s.mapPlayers[mapID])
}

func (s *State) PlayerCount() int {
	return len(s.players)
}

// AllPlayers iterates every known player record, online or not.
func (s *State) AllPlayers(fn func(*PlayerInfo)) {
	for _, p := range s.players {
		fn(p)
	}
}

// OnlinePlayers iterates players with a live session, in identity order.
func (s *State) OnlinePlayers(fn func(*PlayerInfo)) {
	ids := make([]string, 0, len(s.players))
	for id, p := range s.players {
		if p.Connected() {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	for _, id := range ids {
		fn(s.players[id])
	}
}

// ---------- monsters ----------

// NextMonsterID mints an instance id for a fresh spawn.
func (s *State) NextMonsterID() string {
	s.nextMonsterID++
	return fmt.Sprintf("m_%d", s.nextMonsterID)
}

func (s *State) AddMonster(m *MonsterInfo) {
	s.monsters[m.ID] = m
	s.monsterList = append(s.monsterList, m)
	members := s.mapMonsters[m.MapID]
	if members == nil {
		members = make(map[string]struct{})
		s.mapMonsters[m.MapID] = members
	}
	members[m.ID] = struct{}{}
}

func (s *State) GetMonster(id string) *MonsterInfo {
	return s.monsters[id]
}

// RemoveMonster destroys a monster record and its index entry.
func (s *State) RemoveMonster(id string) *MonsterInfo {
	m, ok := s.monsters[id]
	if !ok {
		return nil
	}
	delete(s.monsters, id)
	if members := s.mapMonsters[m.MapID]; members != nil {
		delete(members, id)
		if len(members) == 0 {
			delete(s.mapMonsters, m.MapID)
		}
	}
	for i, n := range s.monsterList {
		if n.ID == id {
			s.monsterList[i] = s.monsterList[len(s.monsterList)-1]
			s.monsterList = s.monsterList[:len(s.monsterList)-1]
			break
		}
	}
	return m
}

// RemoveMapMonsters discards a map's whole monster set (map-empty cleanup).
// Pending respawn timers die with the records.
func (s *State) RemoveMapMonsters(mapID string) int {
	members := s.mapMonsters[mapID]
	if len(members) == 0 {
		return 0
	}
	ids := make([]string, 0, len(members))
	for id := range members {
		ids = append(ids, id)
	}
	for _, id := range ids {
		s.RemoveMonster(id)
	}
	return len(ids)
}

// MonstersInMap returns the map's monsters in a fixed (id-sorted) order.
func (s *State) MonstersInMap(mapID string) []*MonsterInfo {
	members := s.mapMonsters[mapID]
	if len(members) == 0 {
		return nil
	}
	ids := make([]string, 0, len(members))
	for id := range members {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	result := make([]*MonsterInfo, 0, len(ids))
	for _, id := range ids {
		result = append(result, s.monsters[id])
	}
	return result
}

// MapMonsterCount returns the monster membership count of a map.
func (s *State) MapMonsterCount(mapID string) int {
	return len(s.mapMonsters[mapID])
}

// MonsterList returns the full monster list for tick iteration.
func (s *State) MonsterList() []*MonsterInfo {
	return s.monsterList
}

func (s *State) MonsterCount() int {
	return len(s.monsters)
}

// ---------- drops ----------

func (s *State) NextDropID() string {
	s.nextDropID++
	return fmt.Sprintf("d_%d", s.nextDropID)
}

func (s *State) AddDrop(d *DropInfo) {
	s.drops[d.ID] = d
	members := s.mapDrops[d.MapID]
	if members == nil {
		members = make(map[string]struct{})
		s.mapDrops[d.MapID] = members
	}
	members[d.ID] = struct{}{}
}

func (s *State) GetDrop(id string) *DropInfo {
	return s.drops[id]
}

func (s *State) RemoveDrop(id string) *DropInfo {
	d, ok := s.drops[id]
	if !ok {
		return nil
	}
	delete(s.drops, id)
	if members := s.mapDrops[d.MapID]; members != nil {
		delete(members, id)
		if len(members) == 0 {
			delete(s.mapDrops, d.MapID)
		}
	}
	return d
}

// RemoveMapDrops discards a map's floating loot (map-empty cleanup).
func (s *State) RemoveMapDrops(mapID string) {
	for id := range s.mapDrops[mapID] {
		delete(s.drops, id)
	}
	delete(s.mapDrops, mapID)
}

// DropsInMap returns the map's drops in a fixed (id-sorted) order.
func (s *State) DropsInMap(mapID string) []*DropInfo {
	members := s.mapDrops[mapID]
	if len(members) == 0 {
		return nil
	}
	ids := make([]string, 0, len(members))
	for id := range members {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	result := make([]*DropInfo, 0, len(ids))
	for _, id := range ids {
		result = append(result, s.drops[id])
	}
	return result
}
