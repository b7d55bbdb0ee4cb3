package app

import (
	"sync/atomic"
	"time"
)

// Metrics tracks relay counters.
// All counters use atomic operations for lock-free concurrent access.
type Metrics struct {
	startTime time.Time

	Connections      atomic.Int64 // connections registered
	Disconnects      atomic.Int64 // connections removed
	Joins            atomic.Int64 // successful joins
	RelayedEvents    atomic.Int64 // speaking, stopSpeaking and audioData relayed
	FramesOut        atomic.Int64 // frames queued to recipients
	DroppedEvents    atomic.Int64 // inbound events rejected or ignored
	DeliveryFailures atomic.Int64 // recipients with a full or closed queue
	ChannelsCreated  atomic.Int64
	ChannelsDeleted  atomic.Int64
}

func NewMetrics() *Metrics {
	return &Metrics{startTime: time.Now()}
}

type MetricsSnapshot struct {
	UptimeSeconds    int64 `json:"uptimeSeconds"`
	Connections      int64 `json:"connections"`
	Disconnects      int64 `json:"disconnects"`
	Joins            int64 `json:"joins"`
	RelayedEvents    int64 `json:"relayedEvents"`
	FramesOut        int64 `json:"framesOut"`
	DroppedEvents    int64 `json:"droppedEvents"`
	DeliveryFailures int64 `json:"deliveryFailures"`
	ChannelsCreated  int64 `json:"channelsCreated"`
	ChannelsDeleted  int64 `json:"channelsDeleted"`
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		UptimeSeconds:    int64(time.Since(m.startTime).Seconds()),
		Connections:      m.Connections.Load(),
		Disconnects:      m.Disconnects.Load(),
		Joins:            m.Joins.Load(),
		RelayedEvents:    m.RelayedEvents.Load(),
		FramesOut:        m.FramesOut.Load(),
		DroppedEvents:    m.DroppedEvents.Load(),
		DeliveryFailures: m.DeliveryFailures.Load(),
		ChannelsCreated:  m.ChannelsCreated.Load(),
		ChannelsDeleted:  m.ChannelsDeleted.Load(),
	}
}
