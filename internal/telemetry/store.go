package telemetry

import (
	"sync"

	"penaltyshot/internal/shared/types"
)

// Store keeps recent events and per-type counts in memory. Nothing is
// persisted.
type Store struct {
	mu          sync.RWMutex
	capacity    int
	recent      []types.TelemetryEvent
	totalIngest int64
	byType      map[string]int64
}

// Summary is a point-in-time copy of the counters.
type Summary struct {
	Total  int64            `json:"total"`
	ByType map[string]int64 `json:"by_type"`
}

func NewStore(capacity int) *Store {
	if capacity < 1 {
		capacity = 1000
	}
	return &Store{
		capacity: capacity,
		recent:   make([]types.TelemetryEvent, 0, min(capacity, 512)),
		byType:   make(map[string]int64),
	}
}

func (s *Store) Ingest(ev types.TelemetryEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.totalIngest++
	s.byType[ev.EventType]++
	s.recent = append(s.recent, ev)
	if len(s.recent) > s.capacity {
		s.recent = s.recent[len(s.recent)-s.capacity:]
	}
}

// ListRecent returns up to limit events, oldest first. limit <= 0 means all.
func (s *Store) ListRecent(limit int) []types.TelemetryEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 || limit > len(s.recent) {
		limit = len(s.recent)
	}
	out := make([]types.TelemetryEvent, limit)
	copy(out, s.recent[len(s.recent)-limit:])
	return out
}

func (s *Store) Summary() Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byType := make(map[string]int64, len(s.byType))
	for k, v := range s.byType {
		byType[k] = v
	}
	return Summary{Total: s.totalIngest, ByType: byType}
}
