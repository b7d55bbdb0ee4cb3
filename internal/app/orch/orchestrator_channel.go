package orch

import (
	"github.com/dkeye/Radio/internal/app"
	"github.com/dkeye/Radio/internal/domain"
	"github.com/dkeye/Radio/internal/protocol"
	"github.com/rs/zerolog/log"
)

func (o *Orchestrator) Join(sid domain.ConnectionID, ev protocol.Join) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.join(sid, ev)
}

func (o *Orchestrator) join(sid domain.ConnectionID, ev protocol.Join) {
	sess, ok := o.registry.Get(sid)
	if !ok {
		o.drop(sid, "join from unknown connection")
		return
	}
	if ev.Channel == "" || domain.ValidateUsername(ev.User.Name()) != nil {
		o.drop(sid, "join without channel or name")
		return
	}
	name := domain.ChannelName(ev.Channel)

	if sess.State() == app.StateJoined && sess.Channel() != name {
		from := sess.Channel()
		o.leave(sess)
		log.Info().Str("module", "orch").Str("sid", string(sid)).Str("from_channel", string(from)).Msg("left for another channel")
	}

	o.registry.SetUser(sid, ev.User, name)
	created := !o.channels.Has(name)
	members := o.channels.Join(name, sess)
	if created {
		o.metrics.ChannelsCreated.Add(1)
	}
	o.metrics.Joins.Add(1)

	o.presence.BroadcastMemberList(name, members)
	o.presence.NotifyJoined(name, sess.Meta(), sid)
	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("channel", string(name)).Str("name", ev.User.Name()).Int("members", len(members)).Msg("joined channel")
}

// leave takes sess out of its current channel and tells the members that
// remain. The member list goes out first, then userLeft, and only the list
// is skipped when the channel was deleted.
func (o *Orchestrator) leave(sess *app.Session) {
	name := sess.Channel()
	if name == "" {
		return
	}
	leaver := sess.Meta()
	res := o.channels.Leave(name, sess.ID())
	o.registry.ClearChannel(sess.ID())
	if !res.Removed {
		return
	}
	if res.ChannelDeleted {
		o.metrics.ChannelsDeleted.Add(1)
	} else {
		o.presence.BroadcastMemberList(name, res.Remaining)
	}
	o.presence.NotifyLeft(name, leaver, sess.ID())
	log.Info().Str("module", "orch").Str("sid", string(sess.ID())).Str("channel", string(name)).Bool("channel_deleted", res.ChannelDeleted).Msg("left channel")
}
