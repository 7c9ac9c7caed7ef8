package main

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"penaltyshot/internal/arena"
	"penaltyshot/internal/config"
	"penaltyshot/internal/shared/types"
	"penaltyshot/internal/simulation"
	"penaltyshot/internal/telemetry"
)

const (
	readTimeout  = 90 * time.Second
	writeTimeout = 10 * time.Second
	pingInterval = 20 * time.Second
	// Largest field a client may request, in field units.
	maxFieldSize = 4096
)

// client is one websocket connection and the private session it plays.
type client struct {
	sessionID string
	session   *simulation.Session
	conn      *websocket.Conn
	frames    <-chan types.Snapshot
	send      chan []byte
	log       zerolog.Logger
}

type server struct {
	cfg      config.Config
	log      zerolog.Logger
	arena    *arena.Manager
	store    *telemetry.Store
	upgrader websocket.Upgrader
}

func newServer(cfg config.Config, log zerolog.Logger, mgr *arena.Manager, store *telemetry.Store) *server {
	return &server{
		cfg:   cfg,
		log:   log,
		arena: mgr,
		store: store,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/v1/events", telemetry.EventsHandler(s.store))
	mux.HandleFunc("/metrics", telemetry.MetricsHandler(s.store, map[string]func() int64{
		"shootout_sessions_open": func() int64 { return int64(s.arena.Count()) },
	}))
	return mux
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"status":   "ok",
		"sessions": s.arena.Count(),
	})
}

// handleWS opens a private session sized to the client's field, given as
// ?width=&height= in field units.
func (s *server) handleWS(w http.ResponseWriter, r *http.Request) {
	width := queryFloat(r, "width", s.cfg.Field.Width)
	height := queryFloat(r, "height", s.cfg.Field.Height)

	id := arena.NextID("s")
	session, err := simulation.NewSession(id, width, height, s.cfg.Tuning, simulation.WithLogger(s.log))
	if err != nil {
		s.log.Warn().Err(err).Float64("width", width).Float64("height", height).Msg("rejecting session")
		http.Error(w, "bad field size", http.StatusBadRequest)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade error")
		return
	}

	frames, err := s.arena.Open(session)
	if err != nil {
		s.log.Error().Err(err).Str("session", id).Msg("open session")
		_ = conn.Close()
		return
	}

	c := &client{
		sessionID: id,
		session:   session,
		conn:      conn,
		frames:    frames,
		send:      make(chan []byte, 16),
		log:       s.log.With().Str("session", id).Logger(),
	}
	c.log.Info().Str("remote", r.RemoteAddr).Msg("client connected")

	snap := session.Snapshot()
	c.enqueue(types.ServerEnvelope{
		Type:     "welcome",
		State:    &snap,
		ServerMS: time.Now().UTC().UnixMilli(),
		Message:  id,
	})

	go c.writePump()
	s.readPump(c)
}

func (s *server) readPump(c *client) {
	defer func() {
		close(c.send)
		if err := s.arena.Close(c.sessionID); err != nil {
			c.log.Debug().Err(err).Msg("session already closed")
		}
		_ = c.conn.Close()
	}()

	_ = c.conn.SetReadDeadline(time.Now().Add(readTimeout))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Info().Msg("client disconnected")
				return
			}
			c.log.Warn().Err(err).Msg("read error")
			return
		}

		var in types.ClientEnvelope
		if err := json.Unmarshal(msg, &in); err != nil {
			c.sendError("bad_payload")
			continue
		}

		switch in.Type {
		case "gesture":
			if in.Gesture == nil {
				c.sendError("missing_gesture")
				continue
			}
			_, ok := c.session.Release(*in.Gesture)
			c.enqueue(types.ServerEnvelope{
				Type:     "ack",
				Accepted: ok,
				ServerMS: time.Now().UTC().UnixMilli(),
			})
		case "ping":
			c.enqueue(types.ServerEnvelope{Type: "pong", ServerMS: time.Now().UTC().UnixMilli()})
		default:
			c.sendError("unsupported_message_type")
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case snap, ok := <-c.frames:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			payload, err := json.Marshal(types.ServerEnvelope{
				Type:     "frame",
				Tick:     snap.Tick,
				State:    &snap,
				ServerMS: time.Now().UTC().UnixMilli(),
			})
			if err != nil {
				c.log.Error().Err(err).Msg("marshal frame failed")
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, []byte("keepalive")); err != nil {
				return
			}
		}
	}
}

// enqueue drops the message when the client is not keeping up.
func (c *client) enqueue(env types.ServerEnvelope) {
	payload, err := json.Marshal(env)
	if err != nil {
		c.log.Error().Err(err).Str("type", env.Type).Msg("marshal envelope failed")
		return
	}
	select {
	case c.send <- payload:
	default:
	}
}

func (c *client) sendError(message string) {
	c.enqueue(types.ServerEnvelope{Type: "error", Message: message})
}

func queryFloat(r *http.Request, key string, fallback float64) float64 {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v > maxFieldSize {
		return fallback
	}
	return v
}
