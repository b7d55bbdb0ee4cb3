package core

import "github.com/dkeye/Radio/internal/domain"

// MemberSession binds a member record and its transport endpoint.
// This is what a channel stores and fans out to.
type MemberSession interface {
	ID() domain.ConnectionID
	Meta() domain.Member
	Signal() SignalConnection
}
