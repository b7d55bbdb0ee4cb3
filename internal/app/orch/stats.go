package orch

import (
	"github.com/dkeye/Radio/internal/app"
	"github.com/dkeye/Radio/internal/core"
)

// Stats is the read-only view served on /stats.
type Stats struct {
	ChannelCount    int                 `json:"channelCount"`
	UserCount       int                 `json:"userCount"`
	ConnectionCount int                 `json:"connectionCount"`
	ChannelList     []core.ChannelInfo  `json:"channelList"`
	Counters        app.MetricsSnapshot `json:"counters"`
}

// Snapshot is taken between events, never during one.
func (o *Orchestrator) Snapshot() Stats {
	o.mu.Lock()
	defer o.mu.Unlock()
	return Stats{
		ChannelCount:    o.channels.Size(),
		UserCount:       o.registry.Joined(),
		ConnectionCount: o.registry.Count(),
		ChannelList:     o.channels.List(),
		Counters:        o.metrics.Snapshot(),
	}
}
