package signal

import (
	"errors"

	"github.com/dkeye/Radio/internal/domain"
	"github.com/dkeye/Radio/internal/protocol"
)

var ErrJoinRateLimited = errors.New("join rate limited")

// handleFrame decodes one inbound message and hands it to the orchestrator.
// Nothing is ever sent back for a rejected frame.
func (ctl *SignalWSController) handleFrame(sid domain.ConnectionID, data []byte) {
	ev, err := protocol.Decode(data)
	if err != nil {
		ctl.Orch.Reject(sid, err)
		return
	}
	if ev.EventType() == protocol.TypeJoin && !ctl.joins.Allow(sid) {
		ctl.Orch.Reject(sid, ErrJoinRateLimited)
		return
	}
	ctl.Orch.Dispatch(sid, ev)
}
