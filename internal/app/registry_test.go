package app_test

import (
	"testing"

	"github.com/dkeye/Radio/internal/app"
	"github.com/dkeye/Radio/internal/domain"
	"github.com/dkeye/Radio/internal/mocks"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestRegistry_Session_Lifecycle(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	registry := app.NewRegistry()
	sig := mocks.NewMockSignalConnection(ctrl)

	// When a connection registers
	sess := registry.Register("c1", sig)

	// Then it starts unjoined with no user
	req.Equal(app.StateUnjoined, sess.State())
	req.Empty(sess.Channel())
	req.Equal(1, registry.Count())
	req.Zero(registry.Joined())

	// Registering again keeps the same session
	req.Same(sess, registry.Register("c1", mocks.NewMockSignalConnection(ctrl)))
	req.Same(sig, sess.Signal())

	// When it joins
	req.True(registry.SetUser("c1", domain.User{"name": "Ana", "color": "red"}, "radio1"))
	req.Equal(app.StateJoined, sess.State())
	req.Equal(domain.ChannelName("radio1"), sess.Channel())
	req.Equal(1, registry.Joined())
	req.Equal(domain.Member{"name": "Ana", "color": "red", "connectionId": "c1"}, sess.Meta())

	// When it leaves the channel the user is kept
	registry.ClearChannel("c1")
	req.Empty(sess.Channel())
	req.Equal("Ana", sess.User().Name())
	req.Zero(registry.Joined())

	// When it is removed
	registry.Remove("c1")
	registry.Remove("c1")
	req.Equal(app.StateTerminated, sess.State())
	_, ok := registry.Get("c1")
	req.False(ok)
	req.Zero(registry.Count())
}

func TestRegistry_SetUser_Unknown(t *testing.T) {
	registry := app.NewRegistry()

	require.False(t, registry.SetUser("ghost", domain.User{"name": "Ana"}, "radio1"))
	require.Zero(t, registry.Count())
}

func TestSessionState_String(t *testing.T) {
	req := require.New(t)
	req.Equal("unjoined", app.StateUnjoined.String())
	req.Equal("joined", app.StateJoined.String())
	req.Equal("terminated", app.StateTerminated.String())
	req.Equal("unknown", app.SessionState(42).String())
}
