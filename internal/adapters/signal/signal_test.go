package signal

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/tr3ndy661/BootLeg-Gartic/internal/app"
	"github.com/tr3ndy661/BootLeg-Gartic/internal/config"
	"github.com/tr3ndy661/BootLeg-Gartic/internal/core"
)

// recordConn captures every frame sent to it.
type recordConn struct {
	mu     sync.Mutex
	frames []core.Frame
}

func (c *recordConn) TrySend(f core.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := make(core.Frame, len(f))
	copy(cp, f)
	c.frames = append(c.frames, cp)
	return nil
}

func (c *recordConn) Close() {}

func (c *recordConn) events(t *testing.T) []map[string]any {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]map[string]any, 0, len(c.frames))
	for _, f := range c.frames {
		var m map[string]any
		require.NoError(t, json.Unmarshal(f, &m))
		out = append(out, m)
	}
	return out
}

func (c *recordConn) eventsOfType(t *testing.T, typ string) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, e := range c.events(t) {
		if e["type"] == typ {
			out = append(out, e)
		}
	}
	return out
}

func (c *recordConn) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = nil
}

func newTestController(t *testing.T, prompts ...string) *Controller {
	t.Helper()
	if len(prompts) == 0 {
		prompts = []string{"A cat wearing a hat"}
	}
	pool, err := core.NewPromptPool(prompts)
	require.NoError(t, err)
	return NewController(
		app.NewRegistry(rate.Limit(1000), 1000),
		core.NewStore(pool),
		&config.Config{
			SendBuffer:       32,
			WriteTimeout:     time.Second,
			TurnAdvanceDelay: 20 * time.Millisecond,
		},
	)
}

func joinAs(t *testing.T, ctl *Controller, sid, roomID, name string) *recordConn {
	t.Helper()
	conn := &recordConn{}
	raw := fmt.Sprintf(`{"type":"join-room","roomId":%q,"playerName":%q}`, roomID, name)
	ctl.handleJoinRoom(core.SessionID(sid), conn, nil, []byte(raw))
	joined := conn.eventsOfType(t, evtRoomJoined)
	require.Len(t, joined, 1, "join-room should answer with a room snapshot")
	return conn
}
