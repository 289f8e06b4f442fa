package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	diag "github.com/coreman2200/arcaluminis-surfaces/internal/diagnostics"
	"github.com/coreman2200/arcaluminis-surfaces/internal/sequence"
	"github.com/coreman2200/arcaluminis-surfaces/internal/surface"
)

// Source reports what the engine is showing. It is only called from Write,
// on the goroutine that drives the engine.
type Source func() (st sequence.State, resolution int)

// Hub streams sampled frames to websocket viewers. It implements the
// engine's Sink interface.
type Hub struct {
	mu      sync.RWMutex
	source  Source
	sendFPS int

	frameID   uint64
	sent      uint64
	lastState sequence.State
	lastRes   int
	lastSend  time.Time
	startTime time.Time
	buf       []byte

	clients     map[*websocket.Conn]bool
	diagClients map[*websocket.Conn]bool
	upgrader    websocket.Upgrader
}

// NewHub builds a hub that sends at most sendFPS frames per second to
// viewers; sendFPS <= 0 sends every frame.
func NewHub(src Source, sendFPS int) *Hub {
	return &Hub{
		source:      src,
		sendFPS:     sendFPS,
		startTime:   time.Now(),
		clients:     map[*websocket.Conn]bool{},
		diagClients: map[*websocket.Conn]bool{},
		upgrader:    websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
	}
}

// Routes registers the hub's handlers on mux.
func (h *Hub) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/ws", h.HandleFramesWS)
	mux.HandleFunc("/diag", h.HandleDiagWS)
	mux.HandleFunc("/health", h.HandleHealth)
}

// Write encodes pts and broadcasts them to every frame client. Frames are
// dropped, not queued, when they arrive faster than the send rate.
func (h *Hub) Write(pts []surface.Point) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.frameID++
	if h.source != nil {
		h.lastState, h.lastRes = h.source()
	}
	if len(h.clients) == 0 {
		return nil
	}
	now := time.Now()
	if h.sendFPS > 0 && now.Sub(h.lastSend) < time.Second/time.Duration(h.sendFPS) {
		return nil
	}
	h.lastSend = now

	h.buf = EncodeFrame(h.buf[:0], headerFor(h.frameID, h.lastRes, h.lastState), pts)
	for c := range h.clients {
		c.SetWriteDeadline(now.Add(200 * time.Millisecond))
		if err := c.WriteMessage(websocket.BinaryMessage, h.buf); err != nil {
			log.Debug().Err(err).Msg("write frame")
		}
	}
	h.sent++
	return nil
}

// PushDiag sends d to every /diag client.
func (h *Hub) PushDiag(d diag.Diagnostic) {
	b, err := json.Marshal(d)
	if err != nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.diagClients {
		c.SetWriteDeadline(time.Now().Add(200 * time.Millisecond))
		_ = c.WriteMessage(websocket.TextMessage, b)
	}
}

func (h *Hub) HandleFramesWS(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.clients)
}

func (h *Hub) HandleDiagWS(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.diagClients)
}

// serve registers the connection in set and drains it until the peer goes
// away.
func (h *Hub) serve(w http.ResponseWriter, r *http.Request, set map[*websocket.Conn]bool) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Debug().Err(err).Str("path", r.URL.Path).Msg("websocket upgrade")
		return
	}
	h.mu.Lock()
	set[conn] = true
	h.mu.Unlock()
	log.Debug().Str("remote", r.RemoteAddr).Str("path", r.URL.Path).Msg("viewer connected")

	go func() {
		defer func() {
			h.mu.Lock()
			delete(set, conn)
			h.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Health is the /health payload.
type Health struct {
	FrameID       uint64  `json:"frame_id"`
	Sent          uint64  `json:"sent"`
	UptimeS       float64 `json:"uptime_s"`
	Resolution    int     `json:"resolution"`
	Current       string  `json:"current"`
	Pending       string  `json:"pending,omitempty"`
	Transitioning bool    `json:"transitioning"`
	Progress      float32 `json:"progress"`
	Clients       int     `json:"clients"`
}

func (h *Hub) Health() Health {
	h.mu.RLock()
	defer h.mu.RUnlock()
	hs := Health{
		FrameID: h.frameID,
		Sent:    h.sent,
		UptimeS: time.Since(h.startTime).Seconds(),
		Clients: len(h.clients),
	}
	st := h.lastState
	hs.Resolution = h.lastRes
	hs.Current = st.Current.String()
	hs.Transitioning = st.Transitioning
	hs.Progress = st.Progress
	if st.Transitioning {
		hs.Pending = st.Pending.String()
	}
	return hs
}

func (h *Hub) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(h.Health())
}

// Clients returns the number of connected frame viewers.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
