package core

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/tr3ndy661/BootLeg-Gartic/internal/domain"
)

// Store holds every live room. Rooms are created lazily on first join
// and removed once their last member leaves; gameplay mutation happens
// under each room's own lock, never under the store lock.
type Store struct {
	mu    sync.RWMutex
	rooms map[domain.RoomID]*Room
	pool  *PromptPool
}

func NewStore(pool *PromptPool) *Store {
	return &Store{rooms: make(map[domain.RoomID]*Room), pool: pool}
}

func (s *Store) GetOrCreate(id domain.RoomID) *Room {
	s.mu.RLock()
	room, ok := s.rooms[id]
	s.mu.RUnlock()
	if ok {
		return room
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if room, ok = s.rooms[id]; ok {
		return room
	}
	room = NewRoom(id, s.pool)
	s.rooms[id] = room
	log.Info().Str("module", "core.store").Str("room", string(id)).Msg("room created")
	return room
}

func (s *Store) Get(id domain.RoomID) (*Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[id]
	return room, ok
}

// DeleteIfEmpty removes the room when it has no members left.
func (s *Store) DeleteIfEmpty(id domain.RoomID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[id]
	if !ok {
		return false
	}
	if room.MemberCount() > 0 {
		return false
	}
	delete(s.rooms, id)
	log.Info().Str("module", "core.store").Str("room", string(id)).Msg("room deleted")
	return true
}

type RoomInfo struct {
	ID          domain.RoomID `json:"roomId"`
	MemberCount int           `json:"playerCount"`
	State       GameState     `json:"gameState"`
	Round       int           `json:"round"`
}

func (s *Store) List() []RoomInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]RoomInfo, 0, len(s.rooms))
	for id, r := range s.rooms {
		out = append(out, RoomInfo{ID: id, MemberCount: r.MemberCount(), State: r.State(), Round: r.Round()})
	}
	return out
}
