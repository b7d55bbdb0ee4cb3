package orch

import (
	"github.com/dkeye/Radio/internal/app"
	"github.com/dkeye/Radio/internal/domain"
	"github.com/dkeye/Radio/internal/protocol"
	"github.com/rs/zerolog/log"
)

func (o *Orchestrator) Speaking(sid domain.ConnectionID, ev protocol.Speaking) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.speaking(sid, ev)
}

func (o *Orchestrator) StopSpeaking(sid domain.ConnectionID, ev protocol.StopSpeaking) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.stopSpeaking(sid, ev)
}

func (o *Orchestrator) AudioData(sid domain.ConnectionID, ev protocol.AudioData) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.audioData(sid, ev)
}

func (o *Orchestrator) speaking(sid domain.ConnectionID, ev protocol.Speaking) {
	sess, ok := o.joinedSession(sid)
	if !ok {
		o.drop(sid, "speaking before join")
		return
	}
	name := channelOr(ev.Channel, sess)
	n := o.presence.Relay(name, sid, protocol.NewUserSpeaking(userIDOr(ev.UserID, sid)))
	o.metrics.RelayedEvents.Add(1)
	log.Debug().Str("module", "orch").Str("sid", string(sid)).Str("channel", string(name)).Int("sent_to", n).Msg("speaking")
}

func (o *Orchestrator) stopSpeaking(sid domain.ConnectionID, ev protocol.StopSpeaking) {
	sess, ok := o.joinedSession(sid)
	if !ok {
		o.drop(sid, "stopSpeaking before join")
		return
	}
	name := channelOr(ev.Channel, sess)
	n := o.presence.Relay(name, sid, protocol.NewUserStoppedSpeaking(userIDOr(ev.UserID, sid)))
	o.metrics.RelayedEvents.Add(1)
	log.Debug().Str("module", "orch").Str("sid", string(sid)).Str("channel", string(name)).Int("sent_to", n).Msg("stopped speaking")
}

// audioData relays a payload to the named channel. The sender does not need
// to be a member; it only needs to be connected.
func (o *Orchestrator) audioData(sid domain.ConnectionID, ev protocol.AudioData) {
	sess, ok := o.registry.Get(sid)
	if !ok {
		o.drop(sid, "audio from unknown connection")
		return
	}
	if !ev.HasAudio() || ev.Channel == "" {
		o.drop(sid, "audio without payload or channel")
		return
	}
	name := domain.ChannelName(ev.Channel)
	msg := protocol.AudioRelay{
		Type:      protocol.TypeAudioData,
		UserID:    ev.UserID,
		Audio:     ev.Audio,
		UserName:  sess.User().Name(),
		MimeType:  o.mimeType(ev),
		Timestamp: o.now().UnixMilli(),
	}
	n := o.presence.Relay(name, sid, msg)
	o.metrics.RelayedEvents.Add(1)
	log.Debug().Str("module", "orch").Str("sid", string(sid)).Str("channel", string(name)).Int("bytes", len(ev.Audio)).Int("sent_to", n).Msg("audio relayed")
}

func (o *Orchestrator) ping(sid domain.ConnectionID) {
	sess, ok := o.registry.Get(sid)
	if !ok {
		return
	}
	data, err := protocol.Encode(protocol.NewPong())
	if err != nil {
		return
	}
	if err := sess.Signal().TrySend(data); err != nil {
		o.metrics.DeliveryFailures.Add(1)
		log.Warn().Err(err).Str("module", "orch").Str("sid", string(sid)).Msg("pong not delivered")
	}
}

func (o *Orchestrator) joinedSession(sid domain.ConnectionID) (*app.Session, bool) {
	sess, ok := o.registry.Get(sid)
	if !ok || sess.State() != app.StateJoined {
		return nil, false
	}
	return sess, true
}

func channelOr(channel string, sess *app.Session) domain.ChannelName {
	if channel != "" {
		return domain.ChannelName(channel)
	}
	return sess.Channel()
}

func userIDOr(userID string, sid domain.ConnectionID) string {
	if userID != "" {
		return userID
	}
	return string(sid)
}
