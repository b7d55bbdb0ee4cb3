package core

import (
	"cmp"
	"slices"

	"github.com/dkeye/Radio/internal/domain"
	"github.com/rs/zerolog/log"
)

type ChannelInfo struct {
	Name        domain.ChannelName `json:"name"`
	MemberCount int                `json:"memberCount"`
}

// LeaveResult describes what a Leave did to the channel.
type LeaveResult struct {
	Removed        bool
	Remaining      []domain.Member
	ChannelDeleted bool
}

// ChannelRegistry maps channel names to their member sets. A channel exists
// only while it has at least one member.
//
// ChannelRegistry is not safe for concurrent use. Its owner serializes every
// call so that a membership change and the reads that follow it are observed
// as one step.
type ChannelRegistry struct {
	channels map[domain.ChannelName]*channel
}

func NewChannelRegistry() *ChannelRegistry {
	return &ChannelRegistry{channels: make(map[domain.ChannelName]*channel)}
}

// Join creates the channel on first use, adds the member and returns the
// member records in join order.
func (r *ChannelRegistry) Join(name domain.ChannelName, ms MemberSession) []domain.Member {
	ch, ok := r.channels[name]
	if !ok {
		ch = newChannel(name)
		r.channels[name] = ch
		log.Info().Str("module", "core.channels").Str("channel", string(name)).Msg("channel created")
	}
	ch.add(ms)
	log.Debug().Str("module", "core.channels").Str("channel", string(name)).Str("sid", string(ms.ID())).Int("members", ch.len()).Msg("member added")
	return ch.records()
}

// Leave removes the member and drops the channel when it becomes empty.
// Unknown channels and members are a no-op with Removed=false.
func (r *ChannelRegistry) Leave(name domain.ChannelName, sid domain.ConnectionID) LeaveResult {
	ch, ok := r.channels[name]
	if !ok || !ch.remove(sid) {
		return LeaveResult{}
	}
	log.Debug().Str("module", "core.channels").Str("channel", string(name)).Str("sid", string(sid)).Int("members", ch.len()).Msg("member removed")
	if ch.len() == 0 {
		delete(r.channels, name)
		log.Info().Str("module", "core.channels").Str("channel", string(name)).Msg("channel deleted")
		return LeaveResult{Removed: true, ChannelDeleted: true}
	}
	return LeaveResult{Removed: true, Remaining: ch.records()}
}

func (r *ChannelRegistry) Has(name domain.ChannelName) bool {
	_, ok := r.channels[name]
	return ok
}

// Members returns the member sessions in join order; nil for unknown channels.
func (r *ChannelRegistry) Members(name domain.ChannelName) []MemberSession {
	ch, ok := r.channels[name]
	if !ok {
		return nil
	}
	return ch.members()
}

// Broadcast sends data to every member of name except from. Sending to an
// unknown channel reaches nobody.
func (r *ChannelRegistry) Broadcast(name domain.ChannelName, from domain.ConnectionID, data Frame) PublishResult {
	ch, ok := r.channels[name]
	if !ok {
		return PublishResult{}
	}
	return ch.broadcast(from, data)
}

func (r *ChannelRegistry) Size() int { return len(r.channels) }

// List returns channels sorted by name.
func (r *ChannelRegistry) List() []ChannelInfo {
	out := make([]ChannelInfo, 0, len(r.channels))
	for name, ch := range r.channels {
		out = append(out, ChannelInfo{Name: name, MemberCount: ch.len()})
	}
	slices.SortFunc(out, func(a, b ChannelInfo) int { return cmp.Compare(a.Name, b.Name) })
	return out
}
