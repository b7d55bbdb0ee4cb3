package app

import (
	"github.com/dkeye/Radio/internal/core"
	"github.com/dkeye/Radio/internal/domain"
	"github.com/rs/zerolog/log"
)

type SessionState int

const (
	StateUnjoined SessionState = iota
	StateJoined
	StateTerminated
)

func (s SessionState) String() string {
	switch s {
	case StateUnjoined:
		return "unjoined"
	case StateJoined:
		return "joined"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Session is the server-side record of one connection. It implements
// core.MemberSession so channels can fan out to it directly.
type Session struct {
	id      domain.ConnectionID
	user    domain.User
	channel domain.ChannelName
	state   SessionState
	signal  core.SignalConnection
}

func (s *Session) ID() domain.ConnectionID       { return s.id }
func (s *Session) User() domain.User             { return s.user }
func (s *Session) Channel() domain.ChannelName   { return s.channel }
func (s *Session) State() SessionState           { return s.state }
func (s *Session) Signal() core.SignalConnection { return s.signal }

func (s *Session) Meta() domain.Member { return domain.NewMember(s.id, s.user) }

// Registry holds one Session per live connection.
//
// Registry is not safe for concurrent use; the orchestrator serializes access.
type Registry struct {
	sessions map[domain.ConnectionID]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[domain.ConnectionID]*Session)}
}

// Register creates an empty session. Registering an id twice returns the
// existing session unchanged.
func (r *Registry) Register(sid domain.ConnectionID, signal core.SignalConnection) *Session {
	if s, ok := r.sessions[sid]; ok {
		return s
	}
	s := &Session{id: sid, signal: signal, state: StateUnjoined}
	r.sessions[sid] = s
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("registered session")
	return s
}

// SetUser stores the user/channel pair after a successful join.
func (r *Registry) SetUser(sid domain.ConnectionID, user domain.User, channel domain.ChannelName) bool {
	s, ok := r.sessions[sid]
	if !ok {
		return false
	}
	s.user = user
	s.channel = channel
	s.state = StateJoined
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Str("channel", string(channel)).Str("name", user.Name()).Msg("updated session")
	return true
}

// ClearChannel forgets the channel association but keeps the user.
func (r *Registry) ClearChannel(sid domain.ConnectionID) {
	if s, ok := r.sessions[sid]; ok {
		s.channel = ""
	}
}

func (r *Registry) Get(sid domain.ConnectionID) (*Session, bool) {
	s, ok := r.sessions[sid]
	return s, ok
}

func (r *Registry) Remove(sid domain.ConnectionID) {
	s, ok := r.sessions[sid]
	if !ok {
		return
	}
	s.state = StateTerminated
	s.channel = ""
	delete(r.sessions, sid)
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("removed session")
}

// Count is the number of registered connections.
func (r *Registry) Count() int { return len(r.sessions) }

// Joined is the number of sessions currently in a channel.
func (r *Registry) Joined() int {
	n := 0
	for _, s := range r.sessions {
		if s.channel != "" {
			n++
		}
	}
	return n
}
