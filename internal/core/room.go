package core

import (
	"errors"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/tr3ndy661/BootLeg-Gartic/internal/domain"
)

type GameState string

const (
	StateWaiting GameState = "waiting"
	StateDrawing GameState = "drawing"
)

var (
	ErrInsufficientPlayers = errors.New("insufficient players")
	ErrNoPlayers           = errors.New("room has no players")
)

type member struct {
	player *domain.Player
	conn   SignalConnection
}

// Room is a threadsafe in-memory game session. Member order is join
// order and doubles as turn order. It never closes adapter-owned
// connections.
type Room struct {
	id domain.RoomID

	mu              sync.Mutex
	members         []member
	state           GameState
	drawerIndex     int
	prompt          string
	round           int
	correctGuessers map[domain.PlayerID]struct{}

	pool *PromptPool
}

func NewRoom(id domain.RoomID, pool *PromptPool) *Room {
	return &Room{
		id:              id,
		state:           StateWaiting,
		correctGuessers: make(map[domain.PlayerID]struct{}),
		pool:            pool,
	}
}

// TurnInfo is the authoritative turn snapshot handed to the fan-out
// layer after a game start or turn advance.
type TurnInfo struct {
	Prompt string
	Drawer domain.Player
	Round  int
}

// RoomSnapshot is a read-only view for APIs (no transport fields).
type RoomSnapshot struct {
	ID      domain.RoomID   `json:"roomId"`
	Players []domain.Player `json:"players"`
	State   GameState       `json:"gameState"`
	Round   int             `json:"round"`
}

func (r *Room) ID() domain.RoomID { return r.id }

func (r *Room) MemberCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.members)
}

func (r *Room) State() GameState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Room) Round() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.round
}

func (r *Room) AddMember(p *domain.Player, conn SignalConnection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.members = append(r.members, member{player: p, conn: conn})
	log.Info().Str("module", "core.room").Str("room", string(r.id)).Str("player", string(p.ID)).Msg("member added")
}

// RemoveMember drops the player and re-clamps the drawer index so the
// rotation continues with the removed player's successor. Returns the
// removed player and whether the room is now empty.
func (r *Room) RemoveMember(id domain.PlayerID) (*domain.Player, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := -1
	for i, m := range r.members {
		if m.player.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, len(r.members) == 0
	}

	removed := r.members[idx].player
	r.members = append(r.members[:idx], r.members[idx+1:]...)
	delete(r.correctGuessers, id)

	if idx <= r.drawerIndex {
		r.drawerIndex--
	}
	if n := len(r.members); n > 0 {
		r.drawerIndex = ((r.drawerIndex % n) + n) % n
		// The re-clamped drawer may have guessed earlier this round.
		delete(r.correctGuessers, r.members[r.drawerIndex].player.ID)
	} else {
		r.drawerIndex = 0
	}

	log.Info().Str("module", "core.room").Str("room", string(r.id)).Str("player", string(id)).Msg("member removed")
	return removed, len(r.members) == 0
}

// StartGame moves the room into the drawing state with the first
// joiner as drawer. The single-player precondition is intentionally
// permissive so solo sessions work.
func (r *Room) StartGame() (TurnInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.members) < 1 {
		return TurnInfo{}, ErrInsufficientPlayers
	}
	r.state = StateDrawing
	r.drawerIndex = 0
	r.prompt = r.pool.Draw()
	clear(r.correctGuessers)
	log.Info().Str("module", "core.room").Str("room", string(r.id)).Str("drawer", string(r.members[0].player.ID)).Msg("game started")
	return r.turnInfo(), nil
}

func (r *Room) CurrentDrawer() *domain.Player {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.members) == 0 {
		return nil
	}
	p := *r.members[r.drawerIndex].player
	return &p
}

func (r *Room) IsDrawer(id domain.PlayerID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.isDrawer(id)
}

// AdvanceTurn rotates the drawer, draws a fresh prompt and opens a new
// round. Guess bookkeeping from the previous round is discarded.
func (r *Room) AdvanceTurn() (TurnInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.advanceTurn()
}

// AdvanceTurnAs advances only when id is the current drawer; a stale
// request from a previous drawer is a no-op.
func (r *Room) AdvanceTurnAs(id domain.PlayerID) (TurnInfo, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.isDrawer(id) {
		return TurnInfo{}, false
	}
	info, err := r.advanceTurn()
	return info, err == nil
}

func (r *Room) advanceTurn() (TurnInfo, error) {
	if len(r.members) < 1 {
		return TurnInfo{}, ErrNoPlayers
	}
	r.drawerIndex = (r.drawerIndex + 1) % len(r.members)
	r.prompt = r.pool.Draw()
	clear(r.correctGuessers)
	r.round++
	log.Info().Str("module", "core.room").Str("room", string(r.id)).Int("round", r.round).Str("drawer", string(r.members[r.drawerIndex].player.ID)).Msg("turn advanced")
	return r.turnInfo(), nil
}

func (r *Room) turnInfo() TurnInfo {
	return TurnInfo{
		Prompt: r.prompt,
		Drawer: *r.members[r.drawerIndex].player,
		Round:  r.round,
	}
}

func (r *Room) isDrawer(id domain.PlayerID) bool {
	return len(r.members) > 0 && r.members[r.drawerIndex].player.ID == id
}

// EvaluateGuess applies the loose matching heuristic: exact match of
// the normalized strings, or the guess containing the prompt's first
// word as a substring. Short first words can yield false positives;
// that looseness is intended.
func (r *Room) EvaluateGuess(text string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.matches(text)
}

func (r *Room) matches(text string) bool {
	prompt := strings.ToLower(strings.TrimSpace(r.prompt))
	if prompt == "" {
		return false
	}
	guess := strings.ToLower(strings.TrimSpace(text))
	if guess == prompt {
		return true
	}
	return strings.Contains(guess, strings.Fields(prompt)[0])
}

// RecordCorrectGuess marks the player as having guessed this round.
// Reports false when the player was already recorded.
func (r *Room) RecordCorrectGuess(id domain.PlayerID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recordCorrectGuess(id)
}

func (r *Room) recordCorrectGuess(id domain.PlayerID) bool {
	if _, ok := r.correctGuessers[id]; ok {
		return false
	}
	r.correctGuessers[id] = struct{}{}
	return true
}

// AllNonDrawersGuessed reports whether every member except the drawer
// has guessed correctly this round.
func (r *Room) AllNonDrawersGuessed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.allNonDrawersGuessed()
}

func (r *Room) allNonDrawersGuessed() bool {
	return len(r.correctGuessers) == len(r.members)-1
}

// GuessResult reports how a chat line was classified.
type GuessResult struct {
	IsDrawer   bool
	Correct    bool
	First      bool
	AllGuessed bool
}

// Guess runs the whole chat-line evaluation under one lock: drawer and
// state gating, matching, first-time bookkeeping and the end-of-round
// check. Drawer chat and out-of-game chat come back with Correct false
// so the caller treats them as plain messages.
func (r *Room) Guess(id domain.PlayerID, text string) GuessResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := GuessResult{IsDrawer: r.isDrawer(id)}
	if res.IsDrawer || r.state != StateDrawing {
		return res
	}
	if !r.matches(text) {
		return res
	}
	res.Correct = true
	if !r.recordCorrectGuess(id) {
		return res
	}
	res.First = true
	res.AllGuessed = r.allNonDrawersGuessed()
	return res
}

func (r *Room) Snapshot() RoomSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	players := make([]domain.Player, 0, len(r.members))
	for _, m := range r.members {
		players = append(players, *m.player)
	}
	return RoomSnapshot{ID: r.id, Players: players, State: r.state, Round: r.round}
}

// Broadcast fans a frame out to every member except exclude. Sends are
// non-blocking; a member with a full buffer misses the frame and
// converges on the next authoritative broadcast.
func (r *Room) Broadcast(exclude SessionID, data Frame) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	sent := 0
	for _, m := range r.members {
		if SessionID(m.player.ID) == exclude {
			continue
		}
		if err := m.conn.TrySend(data); err != nil {
			log.Debug().Str("module", "core.room").Str("room", string(r.id)).Str("player", string(m.player.ID)).Err(err).Msg("broadcast drop")
			continue
		}
		sent++
	}
	return sent
}
