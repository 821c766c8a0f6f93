package signal

import (
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tr3ndy661/BootLeg-Gartic/internal/core"
)

const clockFormat = "3:04:05 PM"

// handleChatMessage implements the guess protocol: drawer chat and
// out-of-game chat pass through as plain messages, a first correct
// guess becomes a correct-guess event (never also a chat line), and a
// repeat correct guess from the same player is suppressed entirely.
func (ctl *Controller) handleChatMessage(sid core.SessionID, data []byte) {
	player, room, ok := ctl.resolve(sid)
	if !ok {
		return
	}
	if !ctl.Registry.AllowChat(sid) {
		log.Debug().Str("module", "signal").Str("sid", string(sid)).Msg("chat rate limited")
		return
	}

	var p chatPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("bad chat payload")
		return
	}
	if err := validate.Struct(p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("invalid chat payload")
		return
	}

	res := room.Guess(player.ID, p.Message)
	ts := time.Now().Format(clockFormat)

	switch {
	case res.Correct && res.First:
		ctl.broadcastRoom(room, "", correctGuessEvent{
			Type:       evtCorrectGuess,
			PlayerID:   string(sid),
			PlayerName: player.Name,
			Message:    p.Message,
			Timestamp:  ts,
		})
		if res.AllGuessed {
			ctl.scheduleTurnAdvance(room.ID())
		}
	case res.Correct:
		// Repeat correct guess this round; say nothing.
	default:
		ctl.broadcastRoom(room, "", chatEvent{
			Type:       evtChatBroadcast,
			PlayerID:   string(sid),
			PlayerName: player.Name,
			Message:    p.Message,
			Timestamp:  ts,
			IsDrawer:   res.IsDrawer,
		})
	}
}

func (ctl *Controller) handleVoiceState(sid core.SessionID, data []byte) {
	player, room, ok := ctl.resolve(sid)
	if !ok {
		return
	}

	var p voiceStatePayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("bad voice-state payload")
		return
	}

	ctl.broadcastRoom(room, sid, voiceStateEvent{
		Type:       evtPlayerVoiceState,
		PlayerID:   string(sid),
		PlayerName: player.Name,
		IsActive:   p.IsActive,
	})
}
