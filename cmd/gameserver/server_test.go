package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"penaltyshot/internal/arena"
	"penaltyshot/internal/config"
	"penaltyshot/internal/shared/types"
	"penaltyshot/internal/telemetry"
)

func startServer(t *testing.T) (*httptest.Server, *arena.Manager) {
	t.Helper()
	cfg := config.Default()
	store := telemetry.NewStore(100)
	rec, err := telemetry.NewRecorder(store)
	require.NoError(t, err)
	mgr := arena.NewManager(64, arena.WithRecorder(rec))

	ctx, cancel := context.WithCancel(context.Background())
	go mgr.Run(ctx, 5*time.Millisecond)

	srv := httptest.NewServer(newServer(cfg, zerolog.Nop(), mgr, store).routes())
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return srv, mgr
}

func dial(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// readUntil returns the first envelope of type typ.
func readUntil(t *testing.T, conn *websocket.Conn, typ string) types.ServerEnvelope {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		var env types.ServerEnvelope
		require.NoError(t, conn.ReadJSON(&env))
		if env.Type == typ {
			return env
		}
	}
}

func TestWelcomeCarriesRestingSnapshot(t *testing.T) {
	srv, mgr := startServer(t)
	conn := dial(t, srv, "?width=600&height=300")

	env := readUntil(t, conn, "welcome")
	require.NotNil(t, env.State)
	assert.Equal(t, 600.0, env.State.Field.Width)
	assert.Equal(t, "ready", env.State.Phase)
	assert.False(t, env.State.Ball.Shooting)
	assert.Equal(t, env.State.SessionID, env.Message)
	assert.Eventually(t, func() bool { return mgr.Count() == 1 }, time.Second, 5*time.Millisecond)
}

func TestGestureIsAcknowledged(t *testing.T) {
	srv, _ := startServer(t)
	conn := dial(t, srv, "")
	readUntil(t, conn, "welcome")

	require.NoError(t, conn.WriteJSON(types.ClientEnvelope{
		Type: "gesture",
		Gesture: &types.Gesture{
			Start: types.Point{X: 600, Y: 300},
			End:   types.Point{X: 600, Y: 100},
		},
	}))
	ack := readUntil(t, conn, "ack")
	assert.True(t, ack.Accepted)

	frame := readUntil(t, conn, "frame")
	require.NotNil(t, frame.State)

	require.NoError(t, conn.WriteJSON(types.ClientEnvelope{
		Type:    "gesture",
		Gesture: &types.Gesture{Start: types.Point{X: 10, Y: 300}, End: types.Point{X: 10, Y: 100}},
	}))
	ack = readUntil(t, conn, "ack")
	assert.False(t, ack.Accepted)
}

func TestBadMessages(t *testing.T) {
	srv, _ := startServer(t)
	conn := dial(t, srv, "")
	readUntil(t, conn, "welcome")

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{")))
	assert.Equal(t, "bad_payload", readUntil(t, conn, "error").Message)

	require.NoError(t, conn.WriteJSON(types.ClientEnvelope{Type: "gesture"}))
	assert.Equal(t, "missing_gesture", readUntil(t, conn, "error").Message)

	require.NoError(t, conn.WriteJSON(types.ClientEnvelope{Type: "dance"}))
	assert.Equal(t, "unsupported_message_type", readUntil(t, conn, "error").Message)

	require.NoError(t, conn.WriteJSON(types.ClientEnvelope{Type: "ping"}))
	assert.NotZero(t, readUntil(t, conn, "pong").ServerMS)
}

func TestDisconnectClosesSession(t *testing.T) {
	srv, mgr := startServer(t)
	conn := dial(t, srv, "")
	readUntil(t, conn, "welcome")
	require.Eventually(t, func() bool { return mgr.Count() == 1 }, time.Second, 5*time.Millisecond)

	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	_ = conn.Close()
	assert.Eventually(t, func() bool { return mgr.Count() == 0 }, 2*time.Second, 5*time.Millisecond)
}

func TestInvalidFieldRejected(t *testing.T) {
	srv, _ := startServer(t)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?width=-5"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHealthAndMetrics(t *testing.T) {
	srv, _ := startServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	var health map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "ok", health["status"])

	conn := dial(t, srv, "")
	readUntil(t, conn, "welcome")

	require.Eventually(t, func() bool {
		resp, err := http.Get(srv.URL + "/metrics")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		buf := new(strings.Builder)
		_, _ = io.Copy(buf, resp.Body)
		return strings.Contains(buf.String(), `shootout_events_by_type{event_type="session_opened"} 1`) &&
			strings.Contains(buf.String(), "shootout_sessions_open 1")
	}, 2*time.Second, 10*time.Millisecond)
}
