package app

import (
	"github.com/dkeye/Radio/internal/core"
	"github.com/dkeye/Radio/internal/domain"
	"github.com/dkeye/Radio/internal/protocol"
	"github.com/rs/zerolog/log"
)

// Broadcaster turns membership changes and relayed events into frames for a
// channel's members. Delivery is best effort: failures are logged, counted
// and handed to the Policy, never retried.
type Broadcaster struct {
	channels *core.ChannelRegistry
	policy   Policy
	metrics  *Metrics
}

func NewBroadcaster(channels *core.ChannelRegistry, policy Policy, metrics *Metrics) *Broadcaster {
	if policy == nil {
		policy = LogPolicy{}
	}
	return &Broadcaster{channels: channels, policy: policy, metrics: metrics}
}

// BroadcastMemberList sends the full member list to everyone in the channel,
// the member that caused the change included.
func (b *Broadcaster) BroadcastMemberList(name domain.ChannelName, members []domain.Member) int {
	return b.publish(name, "", protocol.NewUsers(members))
}

func (b *Broadcaster) NotifyJoined(name domain.ChannelName, joiner domain.Member, excluding domain.ConnectionID) int {
	return b.publish(name, excluding, protocol.NewUserJoined(joiner))
}

func (b *Broadcaster) NotifyLeft(name domain.ChannelName, leaver domain.Member, excluding domain.ConnectionID) int {
	return b.publish(name, excluding, protocol.NewUserLeft(leaver))
}

// Relay forwards msg to every member of name except the sender.
func (b *Broadcaster) Relay(name domain.ChannelName, from domain.ConnectionID, msg any) int {
	return b.publish(name, from, msg)
}

func (b *Broadcaster) publish(name domain.ChannelName, excluding domain.ConnectionID, msg any) int {
	data, err := protocol.Encode(msg)
	if err != nil {
		log.Error().Err(err).Str("module", "app.broadcaster").Str("channel", string(name)).Msg("encode")
		return 0
	}
	res := b.channels.Broadcast(name, excluding, core.Frame(data))
	b.metrics.FramesOut.Add(int64(res.SendTo))

	for _, slow := range res.Dropped {
		b.metrics.DeliveryFailures.Add(1)
		log.Warn().
			Str("module", "app.broadcaster").
			Str("channel", string(name)).
			Str("sid", string(slow.ID())).
			Msg("delivery failed")
		if b.policy.OnBackPressure(name, slow) == DisconnectMember {
			slow.Signal().Close()
		}
	}
	log.Debug().Str("module", "app.broadcaster").Str("channel", string(name)).Str("from", string(excluding)).Int("sent_to", res.SendTo).Int("dropped", len(res.Dropped)).Msg("broadcast result")
	return res.SendTo
}
