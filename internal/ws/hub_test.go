package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	diag "github.com/coreman2200/arcaluminis-surfaces/internal/diagnostics"
	"github.com/coreman2200/arcaluminis-surfaces/internal/sequence"
	"github.com/coreman2200/arcaluminis-surfaces/internal/surface"
)

func newTestServer(t *testing.T, h *Hub) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	h.Routes(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, path string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + path
	c, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestHubBroadcastsFrames(t *testing.T) {
	st := sequence.State{Current: surface.Wave, Pending: surface.MultiWave, Transitioning: true, Progress: 0.25}
	h := NewHub(func() (sequence.State, int) { return st, 10 }, 0)
	srv := newTestServer(t, h)
	c := dial(t, srv, "/ws")
	require.Eventually(t, func() bool { return h.Clients() == 1 }, time.Second, 5*time.Millisecond)

	pts := []surface.Point{{X: 0.1, Y: 0.2, Z: 0.3}}
	require.NoError(t, h.Write(pts))

	require.NoError(t, c.SetReadDeadline(time.Now().Add(2*time.Second)))
	mt, msg, err := c.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, websocket.BinaryMessage, mt)

	hdr, got, err := DecodeFrame(msg)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), hdr.FrameID)
	assert.Equal(t, uint32(10), hdr.Resolution)
	assert.Equal(t, surface.MultiWave, hdr.Pending)
	assert.Equal(t, pts, got)
}

func TestHubThrottlesSends(t *testing.T) {
	h := NewHub(nil, 1)
	srv := newTestServer(t, h)
	dial(t, srv, "/ws")
	require.Eventually(t, func() bool { return h.Clients() == 1 }, time.Second, 5*time.Millisecond)

	for i := 0; i < 5; i++ {
		require.NoError(t, h.Write(nil))
	}
	hs := h.Health()
	assert.Equal(t, uint64(5), hs.FrameID)
	assert.Equal(t, uint64(1), hs.Sent)
}

func TestHubWriteWithoutViewers(t *testing.T) {
	calls := 0
	h := NewHub(func() (sequence.State, int) {
		calls++
		return sequence.State{Current: surface.Torus}, 12
	}, 0)
	require.NoError(t, h.Write([]surface.Point{{}}))
	assert.Equal(t, 1, calls)

	hs := h.Health()
	assert.Equal(t, "torus", hs.Current)
	assert.Equal(t, 12, hs.Resolution)
	assert.Zero(t, hs.Sent)
}

func TestHubHealthEndpoint(t *testing.T) {
	h := NewHub(func() (sequence.State, int) {
		return sequence.State{Current: surface.Sphere, Pending: surface.Torus, Transitioning: true, Progress: 0.5}, 16
	}, 0)
	require.NoError(t, h.Write(nil))
	srv := newTestServer(t, h)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var hs Health
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&hs))
	assert.Equal(t, "sphere", hs.Current)
	assert.Equal(t, "torus", hs.Pending)
	assert.True(t, hs.Transitioning)
	assert.Equal(t, 16, hs.Resolution)
}

func TestHubPushDiag(t *testing.T) {
	h := NewHub(nil, 0)
	srv := newTestServer(t, h)
	c := dial(t, srv, "/diag")
	require.Eventually(t, func() bool {
		h.mu.RLock()
		defer h.mu.RUnlock()
		return len(h.diagClients) == 1
	}, time.Second, 5*time.Millisecond)

	h.PushDiag(diag.TransitionStarted(surface.Wave, surface.Ripple))

	require.NoError(t, c.SetReadDeadline(time.Now().Add(2*time.Second)))
	mt, msg, err := c.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, websocket.TextMessage, mt)
	var d diag.Diagnostic
	require.NoError(t, json.Unmarshal(msg, &d))
	assert.Equal(t, diag.TransitionStarted(surface.Wave, surface.Ripple).Code, d.Code)
}
