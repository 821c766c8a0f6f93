package signal

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/tr3ndy661/BootLeg-Gartic/internal/core"
	"github.com/tr3ndy661/BootLeg-Gartic/internal/domain"
)

func (ctl *Controller) handleJoinRoom(sid core.SessionID, conn core.SignalConnection, cancel context.CancelFunc, data []byte) {
	var p joinRoomPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("bad join payload")
		return
	}
	if err := validate.Struct(p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("invalid join payload")
		return
	}

	// A second join from the same connection moves the player: leave
	// the old room first, then register fresh.
	if _, ok := ctl.Registry.Lookup(sid); ok {
		ctl.leaveRoom(sid)
		ctl.Registry.Unregister(sid)
	}

	roomID, err := domain.NewRoomID(p.RoomID)
	if err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("invalid room id")
		return
	}
	if roomID == "" {
		roomID = domain.RoomID(uuid.NewString())
	}

	player, err := ctl.Registry.Register(sid, p.PlayerName, conn, cancel)
	if err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("register failed")
		return
	}

	room := ctl.Rooms.GetOrCreate(roomID)
	room.AddMember(player, conn)
	ctl.Registry.SetRoom(sid, roomID)

	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("room", string(roomID)).Msg("join")

	snap := room.Snapshot()
	ctl.sendJSON(conn, roomJoinedEvent{
		Type:      evtRoomJoined,
		RoomID:    snap.ID,
		Players:   snap.Players,
		GameState: snap.State,
	})
	ctl.broadcastRoom(room, sid, rosterEvent{
		Type:    evtPlayerJoined,
		Players: snap.Players,
		Message: player.Name + " joined the room",
	})
}

// leaveRoom removes the player from their room and notifies the
// remaining members. The departure notice is skipped when the room
// emptied and was deleted.
func (ctl *Controller) leaveRoom(sid core.SessionID) {
	roomID, ok := ctl.Registry.RoomOf(sid)
	if !ok {
		return
	}
	room, ok := ctl.Rooms.Get(roomID)
	if !ok {
		return
	}

	removed, empty := room.RemoveMember(domain.PlayerID(sid))
	if empty {
		ctl.Rooms.DeleteIfEmpty(roomID)
		return
	}
	if removed == nil {
		return
	}

	snap := room.Snapshot()
	ctl.broadcastRoom(room, "", rosterEvent{
		Type:    evtPlayerLeft,
		Players: snap.Players,
		Message: removed.Name + " left the room",
	})
}

// onDisconnect runs when the connection's read pump exits. The room is
// notified before the registry record is dropped.
func (ctl *Controller) onDisconnect(sid core.SessionID) {
	if _, ok := ctl.Registry.Lookup(sid); !ok {
		return
	}
	ctl.leaveRoom(sid)
	ctl.Registry.Unregister(sid)
}
