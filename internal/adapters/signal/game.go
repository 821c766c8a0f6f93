package signal

import (
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tr3ndy661/BootLeg-Gartic/internal/core"
	"github.com/tr3ndy661/BootLeg-Gartic/internal/domain"
)

func (ctl *Controller) handleStartGame(sid core.SessionID, conn core.SignalConnection) {
	_, room, ok := ctl.resolve(sid)
	if !ok {
		return
	}

	info, err := room.StartGame()
	if err != nil {
		ctl.sendJSON(conn, gameErrorEvent{
			Type:    evtGameError,
			Message: "Need at least 2 players to start the game",
		})
		return
	}

	ctl.broadcastRoom(room, "", gameStartedEvent{
		Type:          evtGameStarted,
		Prompt:        info.Prompt,
		GameState:     core.StateDrawing,
		CurrentDrawer: info.Drawer,
		Round:         info.Round + 1,
	})
}

// handleDrawingData relays a stroke from the drawer to everyone else.
// The stroke fields are opaque; they are passed through untouched with
// the sender tags added.
func (ctl *Controller) handleDrawingData(sid core.SessionID, data []byte) {
	player, room, ok := ctl.resolve(sid)
	if !ok {
		return
	}
	if !room.IsDrawer(player.ID) {
		return
	}

	var stroke map[string]any
	if err := json.Unmarshal(data, &stroke); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("bad drawing payload")
		return
	}
	stroke["type"] = evtDrawingUpdate
	stroke["playerId"] = string(sid)
	stroke["playerName"] = player.Name

	ctl.broadcastRoom(room, sid, stroke)
}

func (ctl *Controller) handleNextTurn(sid core.SessionID) {
	player, room, ok := ctl.resolve(sid)
	if !ok {
		return
	}

	info, ok := room.AdvanceTurnAs(player.ID)
	if !ok {
		return
	}
	ctl.broadcastTurnChanged(room, info)
}

func (ctl *Controller) broadcastTurnChanged(room *core.Room, info core.TurnInfo) {
	ctl.broadcastRoom(room, "", turnChangedEvent{
		Type:          evtTurnChanged,
		Prompt:        info.Prompt,
		CurrentDrawer: info.Drawer,
		Round:         info.Round + 1,
	})
}

// scheduleTurnAdvance queues the end-of-round turn change. The room is
// looked up again when the timer fires; it may have emptied in the
// meantime, in which case nothing happens.
func (ctl *Controller) scheduleTurnAdvance(roomID domain.RoomID) {
	time.AfterFunc(ctl.Cfg.TurnAdvanceDelay, func() {
		room, ok := ctl.Rooms.Get(roomID)
		if !ok {
			return
		}
		info, err := room.AdvanceTurn()
		if err != nil {
			return
		}
		ctl.broadcastTurnChanged(room, info)
	})
}
