package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	router "github.com/dkeye/Radio/internal/adapters/http"
	"github.com/dkeye/Radio/internal/app/orch"
	"github.com/dkeye/Radio/internal/config"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	cfg.Mode = "test"
	cfg.StaticPath = t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(cfg.StaticPath, "index.html"), []byte("<h1>radio</h1>"), 0o600))
	return cfg
}

func newServer(t *testing.T) (*httptest.Server, *orch.Orchestrator) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	o := orch.New(orch.Options{})
	srv := httptest.NewServer(router.SetupRouter(ctx, testConfig(t), o))
	t.Cleanup(srv.Close)
	return srv, o
}

func getStats(t *testing.T, srv *httptest.Server) orch.Stats {
	t.Helper()
	resp, err := http.Get(srv.URL + "/stats")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var stats orch.Stats
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
	return stats
}

func TestRouter_Index_Sets_Session_Cookie(t *testing.T) {
	req := require.New(t)
	srv, _ := newServer(t)

	resp, err := http.Get(srv.URL + "/")
	req.NoError(err)
	defer resp.Body.Close()

	req.Equal(http.StatusOK, resp.StatusCode)
	var names []string
	for _, c := range resp.Cookies() {
		names = append(names, c.Name)
	}
	req.Contains(names, "RadioSessions")
}

func TestRouter_Stats_Empty(t *testing.T) {
	req := require.New(t)
	srv, _ := newServer(t)

	resp, err := http.Get(srv.URL + "/stats")
	req.NoError(err)
	defer resp.Body.Close()
	var raw map[string]any
	req.NoError(json.NewDecoder(resp.Body).Decode(&raw))

	req.Equal(float64(0), raw["channelCount"])
	req.Equal([]any{}, raw["channelList"])
}

func TestRouter_Stats_Follow_WebSocket_Joins(t *testing.T) {
	req := require.New(t)
	srv, o := newServer(t)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	req.NoError(err)
	defer conn.Close()

	req.NoError(conn.WriteJSON(map[string]any{"type": "join", "user": map[string]any{"name": "Ana"}, "channel": "radio1"}))
	req.NoError(conn.SetReadDeadline(time.Now().Add(2 * time.Second)))
	var msg map[string]any
	req.NoError(conn.ReadJSON(&msg))
	req.Equal("users", msg["type"])

	stats := getStats(t, srv)
	req.Equal(1, stats.ChannelCount)
	req.Equal(1, stats.UserCount)
	req.Equal("radio1", string(stats.ChannelList[0].Name))
	req.Equal(1, stats.ChannelList[0].MemberCount)

	req.NoError(conn.Close())
	req.Eventually(func() bool {
		s := o.Snapshot()
		return s.ChannelCount == 0 && s.ConnectionCount == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func dialWS(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readMsg(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg map[string]any
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestRouter_Relays_Binary_Audio_Array(t *testing.T) {
	req := require.New(t)
	srv, o := newServer(t)
	ana := dialWS(t, srv)
	bob := dialWS(t, srv)

	req.NoError(ana.WriteJSON(map[string]any{"type": "join", "user": map[string]any{"name": "Ana"}, "channel": "radio1"}))
	req.Equal("users", readMsg(t, ana)["type"])
	req.NoError(bob.WriteJSON(map[string]any{"type": "join", "user": map[string]any{"name": "Bob"}, "channel": "radio1"}))
	req.Equal("users", readMsg(t, bob)["type"])

	// Given an empty array, nothing is relayed
	req.NoError(ana.WriteMessage(websocket.TextMessage, []byte(`{"type":"audioData","userId":"c1","audio":[],"channel":"radio1"}`)))
	// And a byte array is relayed as sent
	req.NoError(ana.WriteMessage(websocket.TextMessage, []byte(`{"type":"audioData","userId":"c1","audio":[26,69,223,163],"channel":"radio1"}`)))

	msg := readMsg(t, bob)
	req.Equal("audioData", msg["type"])
	req.Equal([]any{float64(26), float64(69), float64(223), float64(163)}, msg["audio"])
	req.Equal("Ana", msg["userName"])
	req.Equal(int64(1), o.Snapshot().Counters.DroppedEvents)
}
