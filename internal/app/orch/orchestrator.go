// Package orch is the event router: it owns the session and channel
// registries and applies inbound events to them one at a time.
package orch

import (
	"sync"
	"time"

	"github.com/dkeye/Radio/internal/app"
	"github.com/dkeye/Radio/internal/core"
	"github.com/dkeye/Radio/internal/domain"
	"github.com/dkeye/Radio/internal/protocol"
	"github.com/rs/zerolog/log"
)

const DefaultMimeType = "audio/webm"

type Options struct {
	Policy          app.Policy
	DefaultMimeType string
	// SniffMimeType inspects the decoded payload when a client omits mimeType.
	SniffMimeType bool
	Now           func() time.Time
}

// Orchestrator serializes every event behind mu, so a membership change and
// the broadcasts derived from it are one step for any reader, Snapshot
// included.
type Orchestrator struct {
	mu       sync.Mutex
	registry *app.Registry
	channels *core.ChannelRegistry
	presence *app.Broadcaster
	metrics  *app.Metrics

	defaultMime string
	sniffMime   bool
	now         func() time.Time
}

func New(opts Options) *Orchestrator {
	if opts.DefaultMimeType == "" {
		opts.DefaultMimeType = DefaultMimeType
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	metrics := app.NewMetrics()
	channels := core.NewChannelRegistry()
	return &Orchestrator{
		registry:    app.NewRegistry(),
		channels:    channels,
		presence:    app.NewBroadcaster(channels, opts.Policy, metrics),
		metrics:     metrics,
		defaultMime: opts.DefaultMimeType,
		sniffMime:   opts.SniffMimeType,
		now:         opts.Now,
	}
}

func (o *Orchestrator) Metrics() *app.Metrics { return o.metrics }

// Connect registers a new connection in the Unjoined state.
func (o *Orchestrator) Connect(sid domain.ConnectionID, signal core.SignalConnection) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, ok := o.registry.Get(sid); ok {
		return
	}
	o.registry.Register(sid, signal)
	o.metrics.Connections.Add(1)
}

// Dispatch applies one decoded event from sid.
func (o *Orchestrator) Dispatch(sid domain.ConnectionID, ev protocol.Event) {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch e := ev.(type) {
	case protocol.Join:
		o.join(sid, e)
	case protocol.Speaking:
		o.speaking(sid, e)
	case protocol.StopSpeaking:
		o.stopSpeaking(sid, e)
	case protocol.AudioData:
		o.audioData(sid, e)
	case protocol.Ping:
		o.ping(sid)
	default:
		o.drop(sid, "unsupported event")
	}
}

// Disconnect removes sid from its channel and from the registry. It is safe
// to call for connections that never joined or are already gone.
func (o *Orchestrator) Disconnect(sid domain.ConnectionID) {
	o.mu.Lock()
	defer o.mu.Unlock()

	sess, ok := o.registry.Get(sid)
	if !ok {
		return
	}
	o.leave(sess)
	o.registry.Remove(sid)
	o.metrics.Disconnects.Add(1)
	log.Info().Str("module", "orch").Str("sid", string(sid)).Msg("disconnected")
}

// Reject counts an event the transport could not decode.
func (o *Orchestrator) Reject(sid domain.ConnectionID, err error) {
	o.metrics.DroppedEvents.Add(1)
	log.Warn().Err(err).Str("module", "orch").Str("sid", string(sid)).Msg("event rejected")
}

func (o *Orchestrator) drop(sid domain.ConnectionID, reason string) {
	o.metrics.DroppedEvents.Add(1)
	log.Warn().Str("module", "orch").Str("sid", string(sid)).Str("reason", reason).Msg("event dropped")
}

// State reports the lifecycle state of sid; unknown ids are Terminated.
func (o *Orchestrator) State(sid domain.ConnectionID) app.SessionState {
	o.mu.Lock()
	defer o.mu.Unlock()
	if sess, ok := o.registry.Get(sid); ok {
		return sess.State()
	}
	return app.StateTerminated
}
