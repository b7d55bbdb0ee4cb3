package app

import (
	"fmt"

	"github.com/dkeye/Radio/internal/core"
	"github.com/dkeye/Radio/internal/domain"
)

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	DisconnectMember
)

// Policy decides what happens to a member whose outbound queue is full.
type Policy interface {
	OnBackPressure(channel domain.ChannelName, member core.MemberSession) BackpressureAction
}

// LogPolicy only records the failed delivery.
type LogPolicy struct{}

func (LogPolicy) OnBackPressure(domain.ChannelName, core.MemberSession) BackpressureAction {
	return NoAction
}

// DisconnectPolicy closes the slow member's transport. Its read pump then
// reports the disconnect through the normal path.
type DisconnectPolicy struct{}

func (DisconnectPolicy) OnBackPressure(domain.ChannelName, core.MemberSession) BackpressureAction {
	return DisconnectMember
}

func PolicyByName(name string) (Policy, error) {
	switch name {
	case "", "log":
		return LogPolicy{}, nil
	case "disconnect":
		return DisconnectPolicy{}, nil
	default:
		return nil, fmt.Errorf("unknown backpressure policy %q", name)
	}
}
