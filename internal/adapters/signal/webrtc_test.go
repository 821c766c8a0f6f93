package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebRTCOfferRelaysToTarget(t *testing.T) {
	ctl := newTestController(t)

	joinAs(t, ctl, "A", "r1", "Alice")
	bob := joinAs(t, ctl, "B", "r1", "Bob")

	raw := []byte(`{"type":"webrtc-offer","targetId":"B","offer":{"type":"offer","sdp":"v=0"}}`)
	ctl.handleWebRTCOffer("A", raw)

	offers := bob.eventsOfType(t, evtWebRTCOffer)
	require.Len(t, offers, 1)
	assert.Equal(t, "A", offers[0]["senderId"])
	offer := offers[0]["offer"].(map[string]any)
	assert.Equal(t, "v=0", offer["sdp"])
}

func TestWebRTCAnswerRelaysToTarget(t *testing.T) {
	ctl := newTestController(t)

	alice := joinAs(t, ctl, "A", "r1", "Alice")
	joinAs(t, ctl, "B", "r1", "Bob")

	raw := []byte(`{"type":"webrtc-answer","targetId":"A","answer":{"type":"answer","sdp":"v=0"}}`)
	ctl.handleWebRTCAnswer("B", raw)

	answers := alice.eventsOfType(t, evtWebRTCAnswer)
	require.Len(t, answers, 1)
	assert.Equal(t, "B", answers[0]["senderId"])
}

func TestWebRTCCandidateRelaysToTarget(t *testing.T) {
	ctl := newTestController(t)

	joinAs(t, ctl, "A", "r1", "Alice")
	bob := joinAs(t, ctl, "B", "r1", "Bob")

	raw := []byte(`{"type":"webrtc-ice-candidate","targetId":"B","candidate":{"candidate":"candidate:1 1 udp 1 127.0.0.1 3000 typ host","sdpMid":"0"}}`)
	ctl.handleWebRTCCandidate("A", raw)

	cands := bob.eventsOfType(t, evtWebRTCCandidate)
	require.Len(t, cands, 1)
	assert.Equal(t, "A", cands[0]["senderId"])
	cand := cands[0]["candidate"].(map[string]any)
	assert.Equal(t, "0", cand["sdpMid"])
}

func TestWebRTCUnknownTargetIsSilent(t *testing.T) {
	ctl := newTestController(t)

	alice := joinAs(t, ctl, "A", "r1", "Alice")
	alice.reset()

	raw := []byte(`{"type":"webrtc-offer","targetId":"ghost","offer":{"type":"offer","sdp":"v=0"}}`)
	ctl.handleWebRTCOffer("A", raw)

	// No delivery and no error back to the sender.
	assert.Empty(t, alice.events(t))
}

func TestWebRTCMalformedPayloadDropped(t *testing.T) {
	ctl := newTestController(t)

	joinAs(t, ctl, "A", "r1", "Alice")
	bob := joinAs(t, ctl, "B", "r1", "Bob")

	// Missing target.
	ctl.handleWebRTCOffer("A", []byte(`{"type":"webrtc-offer","offer":{"type":"offer","sdp":"v=0"}}`))
	// Offer with no SDP.
	ctl.handleWebRTCOffer("A", []byte(`{"type":"webrtc-offer","targetId":"B","offer":{"type":"offer"}}`))
	// Unregistered sender.
	ctl.handleWebRTCOffer("ghost", []byte(`{"type":"webrtc-offer","targetId":"B","offer":{"type":"offer","sdp":"v=0"}}`))

	require.Empty(t, bob.eventsOfType(t, evtWebRTCOffer))
}
