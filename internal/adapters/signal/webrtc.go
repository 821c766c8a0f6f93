package signal

import (
	"encoding/json"

	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"

	"github.com/tr3ndy661/BootLeg-Gartic/internal/core"
)

// The voice-call relay. Negotiation envelopes are forwarded to the
// named target verbatim, tagged with the sender id; the server keeps
// no WebRTC state and never sees media. An unknown target simply means
// no delivery; peers recover via their own signaling timeouts.

func (ctl *Controller) handleWebRTCOffer(sid core.SessionID, data []byte) {
	var p rtcOfferPayload
	if !ctl.parseRelay(sid, data, &p) {
		return
	}
	var sd webrtc.SessionDescription
	if err := json.Unmarshal(p.Offer, &sd); err != nil || sd.SDP == "" {
		log.Warn().Str("module", "signal").Str("sid", string(sid)).Msg("malformed offer description")
		return
	}
	ctl.relay(sid, p.TargetID, rtcOfferEvent{Type: evtWebRTCOffer, Offer: p.Offer, SenderID: string(sid)})
}

func (ctl *Controller) handleWebRTCAnswer(sid core.SessionID, data []byte) {
	var p rtcAnswerPayload
	if !ctl.parseRelay(sid, data, &p) {
		return
	}
	var sd webrtc.SessionDescription
	if err := json.Unmarshal(p.Answer, &sd); err != nil || sd.SDP == "" {
		log.Warn().Str("module", "signal").Str("sid", string(sid)).Msg("malformed answer description")
		return
	}
	ctl.relay(sid, p.TargetID, rtcAnswerEvent{Type: evtWebRTCAnswer, Answer: p.Answer, SenderID: string(sid)})
}

func (ctl *Controller) handleWebRTCCandidate(sid core.SessionID, data []byte) {
	var p rtcCandidatePayload
	if !ctl.parseRelay(sid, data, &p) {
		return
	}
	var ci webrtc.ICECandidateInit
	if err := json.Unmarshal(p.Candidate, &ci); err != nil {
		log.Warn().Str("module", "signal").Str("sid", string(sid)).Msg("malformed ice candidate")
		return
	}
	ctl.relay(sid, p.TargetID, rtcCandidateEvent{Type: evtWebRTCCandidate, Candidate: p.Candidate, SenderID: string(sid)})
}

func (ctl *Controller) parseRelay(sid core.SessionID, data []byte, p any) bool {
	if _, ok := ctl.Registry.Lookup(sid); !ok {
		return false
	}
	if err := json.Unmarshal(data, p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("bad signaling payload")
		return false
	}
	if err := validate.Struct(p); err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("invalid signaling payload")
		return false
	}
	return true
}

func (ctl *Controller) relay(sid core.SessionID, targetID string, v any) {
	target, ok := ctl.Registry.ConnOf(core.SessionID(targetID))
	if !ok {
		log.Debug().Str("module", "signal").Str("sid", string(sid)).Str("target", targetID).Msg("relay target not connected")
		return
	}
	ctl.sendJSON(target, v)
}
