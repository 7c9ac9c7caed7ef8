package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"penaltyshot/internal/shared/types"
)

const instrumentationName = "penaltyshot/internal/telemetry"

const (
	EventSessionOpened = "session_opened"
	EventSessionClosed = "session_closed"
)

// Recorder turns session lifecycle and shot outcomes into telemetry events
// and OpenTelemetry counters.
type Recorder struct {
	store *Store
	log   zerolog.Logger

	resolved metric.Int64Counter
	opened   metric.Int64Counter
	active   metric.Int64UpDownCounter
}

// RecorderOption configures a Recorder.
type RecorderOption func(*recorderConfig)

type recorderConfig struct {
	meter metric.Meter
	log   zerolog.Logger
}

// WithMeter overrides the global OTel meter.
func WithMeter(m metric.Meter) RecorderOption {
	return func(c *recorderConfig) { c.meter = m }
}

func WithLogger(log zerolog.Logger) RecorderOption {
	return func(c *recorderConfig) { c.log = log }
}

// NewRecorder uses the global OTel meter unless WithMeter is given; it is a
// no-op until a provider is installed.
func NewRecorder(store *Store, opts ...RecorderOption) (*Recorder, error) {
	cfg := recorderConfig{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.meter == nil {
		cfg.meter = otel.Meter(instrumentationName)
	}

	r := &Recorder{store: store, log: cfg.log}

	var err error
	r.resolved, err = cfg.meter.Int64Counter(
		"shootout.shots.resolved",
		metric.WithDescription("Total shots resolved, by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resolved counter: %w", err)
	}

	r.opened, err = cfg.meter.Int64Counter(
		"shootout.sessions.opened",
		metric.WithDescription("Total sessions opened"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating opened counter: %w", err)
	}

	r.active, err = cfg.meter.Int64UpDownCounter(
		"shootout.sessions.active",
		metric.WithDescription("Sessions currently open"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating active counter: %w", err)
	}

	return r, nil
}

func (r *Recorder) SessionOpened(id string) {
	r.opened.Add(context.Background(), 1)
	r.active.Add(context.Background(), 1)
	r.store.Ingest(newEvent(EventSessionOpened, id, nil))
}

func (r *Recorder) SessionClosed(id string) {
	r.active.Add(context.Background(), -1)
	r.store.Ingest(newEvent(EventSessionClosed, id, nil))
}

// Outcome records a goal, save, miss or win frame.
func (r *Recorder) Outcome(snap types.Snapshot) {
	if snap.Event == types.EventNone {
		return
	}
	r.resolved.Add(context.Background(), 1,
		metric.WithAttributes(attribute.String("outcome", string(snap.Event))))

	r.store.Ingest(newEvent(string(snap.Event), snap.SessionID, map[string]interface{}{
		"round":    snap.Round,
		"score":    snap.Score.Goals,
		"ball_x":   snap.Ball.X,
		"keeper_x": snap.Keeper.X,
		"keeper":   snap.Keeper.State,
	}))
	r.log.Debug().
		Str("session", snap.SessionID).
		Str("outcome", string(snap.Event)).
		Int("score", snap.Score.Goals).
		Msg("outcome recorded")
}

func newEvent(eventType, sessionID string, payload map[string]interface{}) types.TelemetryEvent {
	now := time.Now().UTC()
	return types.TelemetryEvent{
		EventID:   fmt.Sprintf("ev_%d", now.UnixNano()),
		EventType: eventType,
		SessionID: sessionID,
		Timestamp: now.UnixMilli(),
		Payload:   payload,
	}
}
