package signal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/tr3ndy661/BootLeg-Gartic/internal/core"
)

func (ctl *Controller) writePump(ctx context.Context, c *WsConn) {
	for {
		select {
		case <-ctx.Done():
			return
		case data, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Msg("writePump write error")
				return
			}
		}
	}
}

func (ctl *Controller) readPump(ctx context.Context, sid core.SessionID, c *WsConn) {
	defer func() {
		log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("readPump closing")
		ctl.onDisconnect(sid)
		c.Close()
		c.cancel()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				log.Debug().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("readPump read error")
				return
			}
			ctl.handleEvent(sid, c, data)
		}
	}
}

func (ctl *Controller) handleEvent(sid core.SessionID, c *WsConn, data []byte) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("bad json")
		return
	}

	switch env.Type {
	case evtJoinRoom:
		ctl.handleJoinRoom(sid, c, c.cancel, data)
	case evtStartGame:
		ctl.handleStartGame(sid, c)
	case evtDrawingData:
		ctl.handleDrawingData(sid, data)
	case evtNextTurn:
		ctl.handleNextTurn(sid)
	case evtChatMessage:
		ctl.handleChatMessage(sid, data)
	case evtVoiceState:
		ctl.handleVoiceState(sid, data)
	case evtWebRTCOffer:
		ctl.handleWebRTCOffer(sid, data)
	case evtWebRTCAnswer:
		ctl.handleWebRTCAnswer(sid, data)
	case evtWebRTCCandidate:
		ctl.handleWebRTCCandidate(sid, data)
	default:
		log.Warn().Str("module", "signal").Str("type", env.Type).Msg("unknown event")
	}
}

func (ctl *Controller) encode(v any) (core.Frame, bool) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("encode marshal")
		return nil, false
	}
	return b, true
}

func (ctl *Controller) sendJSON(c core.SignalConnection, v any) {
	f, ok := ctl.encode(v)
	if !ok {
		return
	}
	_ = c.TrySend(f)
}
