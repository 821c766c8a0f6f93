package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/tr3ndy661/BootLeg-Gartic/internal/app"
	"github.com/tr3ndy661/BootLeg-Gartic/internal/config"
	"github.com/tr3ndy661/BootLeg-Gartic/internal/core"
	"github.com/tr3ndy661/BootLeg-Gartic/internal/domain"
)

var ErrBackpressure = errors.New("backpressure")

// Controller is the game event router: the only place where inbound
// events become room mutations and outbound fan-out.
type Controller struct {
	Registry *app.Registry
	Rooms    *core.Store
	Cfg      *config.Config
}

func NewController(registry *app.Registry, rooms *core.Store, cfg *config.Config) *Controller {
	return &Controller{Registry: registry, Rooms: rooms, Cfg: cfg}
}

// WsConn is a transport endpoint. Sends are non-blocking against a
// buffered channel drained by the write pump.
type WsConn struct {
	conn         *websocket.Conn
	send         chan core.Frame
	writeTimeout time.Duration
	cancel       context.CancelFunc

	mu     sync.RWMutex
	closed bool
}

func (c *WsConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *WsConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleGame upgrades the connection and starts its pumps. The player
// record is not created here; that happens on join-room, and events
// arriving before it are dropped.
func (ctl *Controller) HandleGame(ctx context.Context, c *gin.Context) {
	sid := core.SessionID(c.GetString("client_token"))
	if sid == "" {
		sid = core.SessionID(uuid.NewString())
	}
	log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("new WS connection")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Msg("ws upgrade")
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	conn := &WsConn{
		conn:         ws,
		send:         make(chan core.Frame, ctl.Cfg.SendBuffer),
		writeTimeout: ctl.Cfg.WriteTimeout,
		cancel:       cancel,
	}

	// Cancelling the pump context (disconnect or registry teardown)
	// closes the socket, which unblocks the read pump and runs its
	// cleanup path.
	go func() {
		<-ctx.Done()
		conn.Close()
	}()
	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, sid, conn)
}

// broadcastRoom encodes once and fans out to the room, optionally
// excluding one connection.
func (ctl *Controller) broadcastRoom(room *core.Room, exclude core.SessionID, v any) {
	f, ok := ctl.encode(v)
	if !ok {
		return
	}
	room.Broadcast(exclude, f)
}

// resolve maps a connection to its player and room, the common prelude
// of every game event. Missing either means the connection is not
// fully joined or already departing, and the event is dropped.
func (ctl *Controller) resolve(sid core.SessionID) (player *domain.Player, room *core.Room, ok bool) {
	p, ok := ctl.Registry.Lookup(sid)
	if !ok {
		return nil, nil, false
	}
	roomID, ok := ctl.Registry.RoomOf(sid)
	if !ok {
		return nil, nil, false
	}
	r, ok := ctl.Rooms.Get(roomID)
	if !ok {
		return nil, nil, false
	}
	return p, r, true
}
