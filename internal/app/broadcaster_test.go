package app_test

import (
	"errors"
	"testing"

	"github.com/dkeye/Radio/internal/app"
	"github.com/dkeye/Radio/internal/core"
	"github.com/dkeye/Radio/internal/domain"
	"github.com/dkeye/Radio/internal/mocks"
	"github.com/dkeye/Radio/internal/protocol"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	registry *app.Registry
	channels *core.ChannelRegistry
	metrics  *app.Metrics
}

func newFixture() *fixture {
	return &fixture{
		registry: app.NewRegistry(),
		channels: core.NewChannelRegistry(),
		metrics:  app.NewMetrics(),
	}
}

func (f *fixture) join(sid, name string, channel domain.ChannelName, sig core.SignalConnection) []domain.Member {
	sess := f.registry.Register(domain.ConnectionID(sid), sig)
	f.registry.SetUser(sess.ID(), domain.User{"name": name}, channel)
	return f.channels.Join(channel, sess)
}

func TestBroadcaster_MemberList_Reaches_Everyone(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	f := newFixture()
	ana := mocks.NewMockSignalConnection(ctrl)
	bob := mocks.NewMockSignalConnection(ctrl)
	f.join("c1", "Ana", "radio1", ana)
	members := f.join("c2", "Bob", "radio1", bob)

	want, err := protocol.Encode(protocol.NewUsers(members))
	req.NoError(err)
	ana.EXPECT().TrySend(core.Frame(want)).Return(nil)
	bob.EXPECT().TrySend(core.Frame(want)).Return(nil)

	b := app.NewBroadcaster(f.channels, nil, f.metrics)

	req.Equal(2, b.BroadcastMemberList("radio1", members))
	req.Equal(int64(2), f.metrics.FramesOut.Load())
}

func TestBroadcaster_NotifyJoined_Excludes_Joiner(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	f := newFixture()
	ana := mocks.NewMockSignalConnection(ctrl)
	bob := mocks.NewMockSignalConnection(ctrl)
	f.join("c1", "Ana", "radio1", ana)
	f.join("c2", "Bob", "radio1", bob)
	joiner, _ := f.registry.Get("c2")

	want, err := protocol.Encode(protocol.NewUserJoined(joiner.Meta()))
	req.NoError(err)
	ana.EXPECT().TrySend(core.Frame(want)).Return(nil)
	bob.EXPECT().TrySend(gomock.Any()).Times(0)

	b := app.NewBroadcaster(f.channels, app.LogPolicy{}, f.metrics)

	req.Equal(1, b.NotifyJoined("radio1", joiner.Meta(), "c2"))
}

func TestBroadcaster_Disconnect_Policy_Closes_Slow_Member(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	f := newFixture()
	ana := mocks.NewMockSignalConnection(ctrl)
	bob := mocks.NewMockSignalConnection(ctrl)
	f.join("c1", "Ana", "radio1", ana)
	f.join("c2", "Bob", "radio1", bob)

	// Given Bob cannot take more frames
	bob.EXPECT().TrySend(gomock.Any()).Return(errors.New("backpressure"))
	// Then Bob's transport is closed
	bob.EXPECT().Close().Times(1)

	b := app.NewBroadcaster(f.channels, app.DisconnectPolicy{}, f.metrics)

	req.Zero(b.Relay("radio1", "c1", protocol.NewUserSpeaking("c1")))
	req.Equal(int64(1), f.metrics.DeliveryFailures.Load())
}

func TestBroadcaster_Log_Policy_Keeps_Slow_Member(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	f := newFixture()
	ana := mocks.NewMockSignalConnection(ctrl)
	bob := mocks.NewMockSignalConnection(ctrl)
	f.join("c1", "Ana", "radio1", ana)
	f.join("c2", "Bob", "radio1", bob)

	bob.EXPECT().TrySend(gomock.Any()).Return(errors.New("backpressure"))
	bob.EXPECT().Close().Times(0)

	b := app.NewBroadcaster(f.channels, app.LogPolicy{}, f.metrics)

	req.Zero(b.Relay("radio1", "c1", protocol.NewUserStoppedSpeaking("c1")))
	req.Equal(int64(1), f.metrics.DeliveryFailures.Load())
}

func TestBroadcaster_Unknown_Channel_Sends_Nothing(t *testing.T) {
	f := newFixture()
	b := app.NewBroadcaster(f.channels, nil, f.metrics)

	require.Zero(t, b.Relay("nowhere", "c1", protocol.NewUserSpeaking("c1")))
	require.Zero(t, f.metrics.FramesOut.Load())
}

func TestPolicyByName(t *testing.T) {
	tests := []struct {
		name    string
		want    app.Policy
		wantErr bool
	}{
		{name: "", want: app.LogPolicy{}},
		{name: "log", want: app.LogPolicy{}},
		{name: "disconnect", want: app.DisconnectPolicy{}},
		{name: "retry", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := app.PolicyByName(tt.name)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}
