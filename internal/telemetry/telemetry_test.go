package telemetry

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"

	"penaltyshot/internal/shared/types"
)

func TestStoreRingKeepsNewest(t *testing.T) {
	s := NewStore(3)
	for _, typ := range []string{"goal", "save", "miss", "goal", "win"} {
		s.Ingest(types.TelemetryEvent{EventType: typ})
	}

	recent := s.ListRecent(0)
	require.Len(t, recent, 3)
	assert.Equal(t, "miss", recent[0].EventType)
	assert.Equal(t, "win", recent[2].EventType)

	assert.Len(t, s.ListRecent(2), 2)
	assert.Len(t, s.ListRecent(50), 3)

	sum := s.Summary()
	assert.Equal(t, int64(5), sum.Total)
	assert.Equal(t, int64(2), sum.ByType["goal"])
	assert.Equal(t, int64(1), sum.ByType["win"])
}

func TestSummaryIsCopy(t *testing.T) {
	s := NewStore(10)
	s.Ingest(types.TelemetryEvent{EventType: "goal"})
	sum := s.Summary()
	sum.ByType["goal"] = 99
	assert.Equal(t, int64(1), s.Summary().ByType["goal"])
}

func newTestRecorder(t *testing.T, s *Store) *Recorder {
	t.Helper()
	r, err := NewRecorder(s, WithMeter(noop.NewMeterProvider().Meter("test")))
	require.NoError(t, err)
	return r
}

func TestRecorderLifecycle(t *testing.T) {
	s := NewStore(10)
	r := newTestRecorder(t, s)

	r.SessionOpened("s1")
	r.Outcome(types.Snapshot{SessionID: "s1", Event: types.EventNone})
	r.Outcome(types.Snapshot{SessionID: "s1", Round: 2, Event: types.EventGoal, Score: types.ScoreView{Goals: 1}})
	r.SessionClosed("s1")

	events := s.ListRecent(0)
	require.Len(t, events, 3)
	assert.Equal(t, EventSessionOpened, events[0].EventType)
	assert.Equal(t, "goal", events[1].EventType)
	assert.Equal(t, "s1", events[1].SessionID)
	assert.Equal(t, 1, events[1].Payload["score"])
	assert.Equal(t, EventSessionClosed, events[2].EventType)
	assert.NotEmpty(t, events[1].EventID)
	assert.NotZero(t, events[1].Timestamp)
}

func TestRecorderUsesGlobalMeterByDefault(t *testing.T) {
	r, err := NewRecorder(NewStore(1))
	require.NoError(t, err)
	r.SessionOpened("x")
}

func TestEventsHandlerPostAndList(t *testing.T) {
	s := NewStore(10)
	h := EventsHandler(s)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/events", strings.NewReader(`{"event_type":"client_ping"}`)))
	require.Equal(t, http.StatusAccepted, rec.Code)

	var accepted map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &accepted))
	assert.Equal(t, "accepted", accepted["status"])
	assert.NotEmpty(t, accepted["event_id"])

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/events?limit=5", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Count  int                    `json:"count"`
		Events []types.TelemetryEvent `json:"events"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)
	assert.Equal(t, "client_ping", body.Events[0].EventType)
	assert.NotZero(t, body.Events[0].Timestamp)
}

func TestEventsHandlerRejects(t *testing.T) {
	h := EventsHandler(NewStore(10))
	cases := []struct {
		method, target, body string
		code                 int
	}{
		{http.MethodPost, "/v1/events", `{`, http.StatusBadRequest},
		{http.MethodPost, "/v1/events", `{"event_id":"x"}`, http.StatusBadRequest},
		{http.MethodGet, "/v1/events?limit=abc", "", http.StatusBadRequest},
		{http.MethodDelete, "/v1/events", "", http.StatusMethodNotAllowed},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.target, strings.NewReader(tc.body)))
		assert.Equal(t, tc.code, rec.Code, "%s %s", tc.method, tc.target)
	}
}

func TestMetricsHandler(t *testing.T) {
	s := NewStore(10)
	s.Ingest(types.TelemetryEvent{EventType: "goal"})
	s.Ingest(types.TelemetryEvent{EventType: "save"})
	s.Ingest(types.TelemetryEvent{EventType: "goal"})

	h := MetricsHandler(s, map[string]func() int64{
		"shootout_sessions_open": func() int64 { return 4 },
	})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	out := rec.Body.String()
	assert.Contains(t, out, "shootout_events_total 3")
	assert.Contains(t, out, `shootout_events_by_type{event_type="goal"} 2`)
	assert.Contains(t, out, `shootout_events_by_type{event_type="save"} 1`)
	assert.Contains(t, out, "shootout_sessions_open 4")
	assert.True(t, strings.Index(out, `"goal"`) < strings.Index(out, `"save"`))
}

func TestWithCORS(t *testing.T) {
	called := false
	h := WithCORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/v1/events", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.False(t, called)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/events", nil))
	assert.True(t, called)
}
