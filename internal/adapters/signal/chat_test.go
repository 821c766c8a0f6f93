package signal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/tr3ndy661/BootLeg-Gartic/internal/app"
	"github.com/tr3ndy661/BootLeg-Gartic/internal/config"
	"github.com/tr3ndy661/BootLeg-Gartic/internal/core"
)

func chat(msg string) []byte {
	return []byte(`{"type":"chat-message","message":"` + msg + `"}`)
}

func TestChatGuessProtocol(t *testing.T) {
	ctl := newTestController(t)

	alice := joinAs(t, ctl, "A", "r1", "Alice")
	bob := joinAs(t, ctl, "B", "r1", "Bob")
	carol := joinAs(t, ctl, "C", "r1", "Carol")
	ctl.handleStartGame("A", alice)
	for _, c := range []*recordConn{alice, bob, carol} {
		c.reset()
	}

	// Wrong guess goes out as plain chat to the whole room.
	ctl.handleChatMessage("B", chat("dog"))
	for _, c := range []*recordConn{alice, bob, carol} {
		msgs := c.eventsOfType(t, evtChatBroadcast)
		require.Len(t, msgs, 1)
		assert.Equal(t, "dog", msgs[0]["message"])
		assert.Equal(t, false, msgs[0]["isDrawer"])
		assert.NotEmpty(t, msgs[0]["timestamp"])
	}

	// First correct guess becomes a correct-guess event, never a chat line.
	ctl.handleChatMessage("B", chat("cat"))
	for _, c := range []*recordConn{alice, bob, carol} {
		correct := c.eventsOfType(t, evtCorrectGuess)
		require.Len(t, correct, 1)
		assert.Equal(t, "Bob", correct[0]["playerName"])
		assert.Len(t, c.eventsOfType(t, evtChatBroadcast), 1)
	}

	// Only one of two non-drawers has guessed: no turn change yet.
	time.Sleep(60 * time.Millisecond)
	assert.Empty(t, alice.eventsOfType(t, evtTurnChanged))

	// A repeat correct guess is suppressed entirely.
	ctl.handleChatMessage("B", chat("cat"))
	assert.Len(t, alice.eventsOfType(t, evtCorrectGuess), 1)
	assert.Len(t, alice.eventsOfType(t, evtChatBroadcast), 1)

	// Drawer chat is tagged, even when the text matches the prompt.
	ctl.handleChatMessage("A", chat("a cat wearing a hat"))
	msgs := bob.eventsOfType(t, evtChatBroadcast)
	require.Len(t, msgs, 2)
	assert.Equal(t, true, msgs[1]["isDrawer"])
	assert.Len(t, bob.eventsOfType(t, evtCorrectGuess), 1)

	// Carol closes the round; the turn advances after the delay.
	ctl.handleChatMessage("C", chat("a cat wearing a hat"))
	require.Len(t, alice.eventsOfType(t, evtCorrectGuess), 2)

	assert.Empty(t, alice.eventsOfType(t, evtTurnChanged))
	time.Sleep(100 * time.Millisecond)

	changed := alice.eventsOfType(t, evtTurnChanged)
	require.Len(t, changed, 1)
	assert.Equal(t, float64(2), changed[0]["round"])
	drawer := changed[0]["currentDrawer"].(map[string]any)
	assert.Equal(t, "B", drawer["id"])
}

func TestChatBeforeGameIsPlain(t *testing.T) {
	ctl := newTestController(t)

	alice := joinAs(t, ctl, "A", "r1", "Alice")
	joinAs(t, ctl, "B", "r1", "Bob")

	ctl.handleChatMessage("B", chat("a cat wearing a hat"))

	msgs := alice.eventsOfType(t, evtChatBroadcast)
	require.Len(t, msgs, 1)
	assert.Equal(t, false, msgs[0]["isDrawer"])
	assert.Empty(t, alice.eventsOfType(t, evtCorrectGuess))
}

func TestChatRateLimited(t *testing.T) {
	pool, err := core.NewPromptPool([]string{"A cat wearing a hat"})
	require.NoError(t, err)
	ctl := NewController(
		app.NewRegistry(rate.Limit(1), 2),
		core.NewStore(pool),
		&config.Config{SendBuffer: 32, WriteTimeout: time.Second, TurnAdvanceDelay: 20 * time.Millisecond},
	)

	alice := joinAs(t, ctl, "A", "r1", "Alice")
	joinAs(t, ctl, "B", "r1", "Bob")

	for range 5 {
		ctl.handleChatMessage("B", chat("hello"))
	}
	assert.Len(t, alice.eventsOfType(t, evtChatBroadcast), 2)
}

func TestVoiceStateExcludesSender(t *testing.T) {
	ctl := newTestController(t)

	alice := joinAs(t, ctl, "A", "r1", "Alice")
	bob := joinAs(t, ctl, "B", "r1", "Bob")

	ctl.handleVoiceState("B", []byte(`{"type":"voice-state","isActive":true}`))

	states := alice.eventsOfType(t, evtPlayerVoiceState)
	require.Len(t, states, 1)
	assert.Equal(t, "B", states[0]["playerId"])
	assert.Equal(t, "Bob", states[0]["playerName"])
	assert.Equal(t, true, states[0]["isActive"])

	assert.Empty(t, bob.eventsOfType(t, evtPlayerVoiceState))
}
