package core

import (
	"slices"

	"github.com/dkeye/Radio/internal/domain"
	"github.com/samber/lo"
)

// PublishResult reports delivery stats/backpressure to the broadcaster.
type PublishResult struct {
	SendTo  int
	Dropped []MemberSession
}

// channel is an insertion-ordered member set.
// It never closes adapter-owned resources.
type channel struct {
	name  domain.ChannelName
	order []domain.ConnectionID
	bySID map[domain.ConnectionID]MemberSession
}

func newChannel(name domain.ChannelName) *channel {
	return &channel{
		name:  name,
		bySID: make(map[domain.ConnectionID]MemberSession),
	}
}

// add keeps the original position of a member that is already present.
func (c *channel) add(ms MemberSession) {
	sid := ms.ID()
	if _, ok := c.bySID[sid]; !ok {
		c.order = append(c.order, sid)
	}
	c.bySID[sid] = ms
}

func (c *channel) remove(sid domain.ConnectionID) bool {
	if _, ok := c.bySID[sid]; !ok {
		return false
	}
	delete(c.bySID, sid)
	if i := slices.Index(c.order, sid); i >= 0 {
		c.order = slices.Delete(c.order, i, i+1)
	}
	return true
}

func (c *channel) len() int { return len(c.order) }

func (c *channel) members() []MemberSession {
	return lo.Map(c.order, func(sid domain.ConnectionID, _ int) MemberSession {
		return c.bySID[sid]
	})
}

func (c *channel) records() []domain.Member {
	return lo.Map(c.order, func(sid domain.ConnectionID, _ int) domain.Member {
		return c.bySID[sid].Meta()
	})
}

func (c *channel) broadcast(from domain.ConnectionID, data Frame) PublishResult {
	res := PublishResult{}
	for _, sid := range c.order {
		if sid == from {
			continue
		}
		m := c.bySID[sid]
		if err := m.Signal().TrySend(data); err != nil {
			res.Dropped = append(res.Dropped, m)
			continue
		}
		res.SendTo++
	}
	return res
}
