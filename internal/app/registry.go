package app

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/tr3ndy661/BootLeg-Gartic/internal/core"
	"github.com/tr3ndy661/BootLeg-Gartic/internal/domain"
)

var ErrAlreadyRegistered = errors.New("session already registered")

type session struct {
	player  *domain.Player
	roomID  domain.RoomID
	conn    core.SignalConnection
	cancel  context.CancelFunc
	limiter *rate.Limiter
}

// Registry maps active connections to their player records. It is the
// single owner of player lifetimes; rooms only reference players.
type Registry struct {
	mu       sync.RWMutex
	sessions map[core.SessionID]*session

	chatRate  rate.Limit
	chatBurst int
}

func NewRegistry(chatRate rate.Limit, chatBurst int) *Registry {
	return &Registry{
		sessions:  make(map[core.SessionID]*session),
		chatRate:  chatRate,
		chatBurst: chatBurst,
	}
}

// Register creates the player record for a connection. The connection
// id doubles as the player id.
func (r *Registry) Register(sid core.SessionID, name string, conn core.SignalConnection, cancel context.CancelFunc) (*domain.Player, error) {
	player, err := domain.NewPlayer(domain.PlayerID(sid), name)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[sid]; ok {
		return nil, ErrAlreadyRegistered
	}
	r.sessions[sid] = &session{
		player:  player,
		conn:    conn,
		cancel:  cancel,
		limiter: rate.NewLimiter(r.chatRate, r.chatBurst),
	}
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Str("name", name).Msg("registered player")
	return player, nil
}

func (r *Registry) Lookup(sid core.SessionID) (*domain.Player, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if s, ok := r.sessions[sid]; ok {
		return s.player, true
	}
	return nil, false
}

func (r *Registry) ConnOf(sid core.SessionID) (core.SignalConnection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if s, ok := r.sessions[sid]; ok {
		return s.conn, true
	}
	return nil, false
}

func (r *Registry) RoomOf(sid core.SessionID) (domain.RoomID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[sid]
	if !ok || s.roomID == "" {
		return "", false
	}
	return s.roomID, true
}

func (r *Registry) SetRoom(sid core.SessionID, roomID domain.RoomID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[sid]
	if !ok {
		return false
	}
	s.roomID = roomID
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Str("room", string(roomID)).Msg("updated room")
	return true
}

// Unregister drops the player record; idempotent. Callers must notify
// the player's room first so the room never lists a player the
// registry cannot resolve.
func (r *Registry) Unregister(sid core.SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sid)
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("unregistered player")
}

// AllowChat applies the per-connection chat rate limit.
func (r *Registry) AllowChat(sid core.SessionID) bool {
	r.mu.RLock()
	s, ok := r.sessions[sid]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	return s.limiter.Allow()
}

// Cancel tears down one connection by cancelling its pump context.
// The read pump's exit path then runs the normal disconnect cleanup.
func (r *Registry) Cancel(sid core.SessionID) bool {
	r.mu.RLock()
	s, ok := r.sessions[sid]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	if s.cancel != nil {
		s.cancel()
	}
	return true
}

// CancelAll tears down every live connection. Used on shutdown:
// http.Server.Shutdown does not close hijacked websocket connections.
func (r *Registry) CancelAll() int {
	r.mu.RLock()
	sids := make([]core.SessionID, 0, len(r.sessions))
	for sid := range r.sessions {
		sids = append(sids, sid)
	}
	r.mu.RUnlock()

	for _, sid := range sids {
		r.Cancel(sid)
	}
	log.Info().Str("module", "app.registry").Int("sessions", len(sids)).Msg("cancelled all sessions")
	return len(sids)
}
