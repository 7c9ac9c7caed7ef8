package types

// Point is a pointer sample in field-local units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	T int64   `json:"t"` // ms
}

// Gesture is a completed drag, reported on release.
type Gesture struct {
	Start Point `json:"start"`
	End   Point `json:"end"`
}

// EventType is a discrete game outcome emitted by a tick.
type EventType string

const (
	EventNone EventType = ""
	EventGoal EventType = "goal"
	EventSave EventType = "save"
	EventMiss EventType = "miss"
	EventWin  EventType = "win"
)

// FieldView describes the play area layout.
type FieldView struct {
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	HorizonY  float64 `json:"horizon_y"`
	GoalLineY float64 `json:"goal_line_y"`
}

// BallView is the ball state plus perspective metadata for renderers.
type BallView struct {
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	VX           float64 `json:"vx"`
	VY           float64 `json:"vy"`
	Depth        float64 `json:"depth"`
	DepthVel     float64 `json:"depth_vel"`
	Radius       float64 `json:"radius"`
	Shooting     bool    `json:"shooting"`
	Scale        float64 `json:"scale"`
	DrawRadius   float64 `json:"draw_radius"`
	ShadowX      float64 `json:"shadow_x"`
	ShadowY      float64 `json:"shadow_y"`
	ShadowRadius float64 `json:"shadow_radius"`
}

// KeeperView is the goalkeeper state.
type KeeperView struct {
	X             float64 `json:"x"`
	Y             float64 `json:"y"`
	State         string  `json:"state"` // idle|diving
	DiveTimer     float64 `json:"dive_timer"`
	PredictedX    float64 `json:"predicted_x,omitempty"`
	HasPrediction bool    `json:"has_prediction"`
}

// GoalView is the target rectangle on the horizon.
type GoalView struct {
	CenterX float64 `json:"center_x"`
	Top     float64 `json:"top"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
}

// ScoreView tracks goals toward the win condition.
type ScoreView struct {
	Goals      int `json:"goals"`
	ScoreToWin int `json:"score_to_win"`
}

// Snapshot is an immutable per-tick view of a session.
type Snapshot struct {
	SessionID string     `json:"session_id"`
	Tick      uint64     `json:"tick"`
	Clock     float64    `json:"clock"`
	Round     uint64     `json:"round"`
	Phase     string     `json:"phase"` // ready|in_flight|resolved|closed
	Field     FieldView  `json:"field"`
	Ball      BallView   `json:"ball"`
	Keeper    KeeperView `json:"keeper"`
	Goal      GoalView   `json:"goal"`
	Score     ScoreView  `json:"score"`
	Message   string     `json:"message,omitempty"`
	Event     EventType  `json:"event,omitempty"`
}

// ClientEnvelope is sent from client to server.
type ClientEnvelope struct {
	Type    string   `json:"type"` // gesture|ping
	Gesture *Gesture `json:"gesture,omitempty"`
}

// ServerEnvelope is sent from server to client.
type ServerEnvelope struct {
	Type     string    `json:"type"` // welcome|frame|ack|pong|error
	Tick     uint64    `json:"tick,omitempty"`
	State    *Snapshot `json:"state,omitempty"`
	Accepted bool      `json:"accepted,omitempty"`
	ServerMS int64     `json:"server_ms,omitempty"`
	Message  string    `json:"message,omitempty"`
}

// TelemetryEvent records a resolved shot or session lifecycle change.
type TelemetryEvent struct {
	EventID   string                 `json:"event_id"`
	EventType string                 `json:"event_type"`
	SessionID string                 `json:"session_id,omitempty"`
	Timestamp int64                  `json:"timestamp"`
	Payload   map[string]interface{} `json:"payload"`
}
