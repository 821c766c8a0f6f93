package signal

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"

	"github.com/tr3ndy661/BootLeg-Gartic/internal/core"
	"github.com/tr3ndy661/BootLeg-Gartic/internal/domain"
)

// Inbound event names.
const (
	evtJoinRoom        = "join-room"
	evtStartGame       = "start-game"
	evtDrawingData     = "drawing-data"
	evtNextTurn        = "next-turn"
	evtChatMessage     = "chat-message"
	evtVoiceState      = "voice-state"
	evtWebRTCOffer     = "webrtc-offer"
	evtWebRTCAnswer    = "webrtc-answer"
	evtWebRTCCandidate = "webrtc-ice-candidate"
)

// Outbound event names.
const (
	evtRoomJoined       = "room-joined"
	evtPlayerJoined     = "player-joined"
	evtPlayerLeft       = "player-left"
	evtGameStarted      = "game-started"
	evtGameError        = "game-error"
	evtDrawingUpdate    = "drawing-update"
	evtTurnChanged      = "turn-changed"
	evtChatBroadcast    = "chat-message"
	evtCorrectGuess     = "correct-guess"
	evtPlayerVoiceState = "player-voice-state"
)

var validate = validator.New()

type envelope struct {
	Type string `json:"type"`
}

// Inbound payloads. Each is a closed struct; events that fail
// validation are dropped before any state is touched.

type joinRoomPayload struct {
	RoomID     string `json:"roomId" validate:"omitempty,max=36"`
	PlayerName string `json:"playerName" validate:"required,max=36"`
}

type chatPayload struct {
	Message string `json:"message" validate:"max=500"`
}

type voiceStatePayload struct {
	IsActive bool `json:"isActive"`
}

type rtcOfferPayload struct {
	TargetID string          `json:"targetId" validate:"required"`
	Offer    json.RawMessage `json:"offer" validate:"required"`
}

type rtcAnswerPayload struct {
	TargetID string          `json:"targetId" validate:"required"`
	Answer   json.RawMessage `json:"answer" validate:"required"`
}

type rtcCandidatePayload struct {
	TargetID  string          `json:"targetId" validate:"required"`
	Candidate json.RawMessage `json:"candidate" validate:"required"`
}

// Outbound payloads.

type roomJoinedEvent struct {
	Type      string          `json:"type"`
	RoomID    domain.RoomID   `json:"roomId"`
	Players   []domain.Player `json:"players"`
	GameState core.GameState  `json:"gameState"`
}

// rosterEvent is shared by player-joined and player-left notices.
type rosterEvent struct {
	Type    string          `json:"type"`
	Players []domain.Player `json:"players"`
	Message string          `json:"message"`
}

type gameStartedEvent struct {
	Type          string         `json:"type"`
	Prompt        string         `json:"prompt"`
	GameState     core.GameState `json:"gameState"`
	CurrentDrawer domain.Player  `json:"currentDrawer"`
	Round         int            `json:"round"`
}

type turnChangedEvent struct {
	Type          string        `json:"type"`
	Prompt        string        `json:"prompt"`
	CurrentDrawer domain.Player `json:"currentDrawer"`
	Round         int           `json:"round"`
}

type gameErrorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type chatEvent struct {
	Type       string `json:"type"`
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Message    string `json:"message"`
	Timestamp  string `json:"timestamp"`
	IsDrawer   bool   `json:"isDrawer"`
}

type correctGuessEvent struct {
	Type       string `json:"type"`
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Message    string `json:"message"`
	Timestamp  string `json:"timestamp"`
}

type voiceStateEvent struct {
	Type       string `json:"type"`
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	IsActive   bool   `json:"isActive"`
}

type rtcOfferEvent struct {
	Type     string          `json:"type"`
	Offer    json.RawMessage `json:"offer"`
	SenderID string          `json:"senderId"`
}

type rtcAnswerEvent struct {
	Type     string          `json:"type"`
	Answer   json.RawMessage `json:"answer"`
	SenderID string          `json:"senderId"`
}

type rtcCandidateEvent struct {
	Type      string          `json:"type"`
	Candidate json.RawMessage `json:"candidate"`
	SenderID  string          `json:"senderId"`
}
