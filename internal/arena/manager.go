package arena

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"penaltyshot/internal/shared/types"
	"penaltyshot/internal/simulation"
)

var (
	ErrSessionExists   = errors.New("session already open")
	ErrSessionNotFound = errors.New("session not found")
)

// Recorder observes session lifecycle and shot outcomes. Calls happen on the
// arena's tick goroutine and must not block.
type Recorder interface {
	SessionOpened(id string)
	SessionClosed(id string)
	Outcome(snap types.Snapshot)
}

type nopRecorder struct{}

func (nopRecorder) SessionOpened(string) {}
func (nopRecorder) SessionClosed(string) {}
func (nopRecorder) Outcome(types.Snapshot) {}

type entry struct {
	session  *simulation.Session
	frames   chan types.Snapshot
	openedAt time.Time
	dropped  uint64
}

// Manager drives every open session on one fixed-cadence loop and fans the
// resulting snapshots out to per-session frame channels.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*entry
	buffer   int
	log      zerolog.Logger
	recorder Recorder
}

// Option configures a Manager.
type Option func(*Manager)

func WithLogger(log zerolog.Logger) Option {
	return func(m *Manager) { m.log = log }
}

func WithRecorder(r Recorder) Option {
	return func(m *Manager) {
		if r != nil {
			m.recorder = r
		}
	}
}

// NewManager returns an empty arena. buffer is the frame channel capacity
// per session.
func NewManager(buffer int, opts ...Option) *Manager {
	if buffer < 1 {
		buffer = 1
	}
	m := &Manager{
		sessions: make(map[string]*entry),
		buffer:   buffer,
		log:      zerolog.Nop(),
		recorder: nopRecorder{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

var idSeq atomic.Uint64

// NextID returns a process-unique id with the given prefix.
func NextID(prefix string) string {
	return fmt.Sprintf("%s_%d_%d", prefix, time.Now().UTC().UnixNano(), idSeq.Add(1))
}

// Open registers s and returns the channel its frames are delivered on. The
// channel is closed when the session is closed or the arena stops.
func (m *Manager) Open(s *simulation.Session) (<-chan types.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[s.ID()]; ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionExists, s.ID())
	}
	e := &entry{
		session:  s,
		frames:   make(chan types.Snapshot, m.buffer),
		openedAt: time.Now().UTC(),
	}
	m.sessions[s.ID()] = e
	m.recorder.SessionOpened(s.ID())
	m.log.Info().Str("session", s.ID()).Int("open", len(m.sessions)).Msg("session opened")
	return e.frames, nil
}

// Get returns the open session with id.
func (m *Manager) Get(id string) (*simulation.Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	return e.session, true
}

// Close stops a session, cancelling its deferred work and closing its frame
// channel.
func (m *Manager) Close(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	m.closeLocked(id, e)
	return nil
}

// Count returns the number of open sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// IDs returns open session ids in sorted order.
func (m *Manager) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Run ticks every session at cadence with a fixed step until ctx is done,
// then closes all sessions.
func (m *Manager) Run(ctx context.Context, cadence time.Duration) {
	if cadence <= 0 {
		cadence = time.Second / 60
	}
	dt := cadence.Seconds()

	ticker := time.NewTicker(cadence)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.closeAll()
			return
		case <-ticker.C:
			m.step(dt)
		}
	}
}

func (m *Manager) step(dt float64) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, e := range m.sessions {
		snap := e.session.Tick(dt)
		if snap.Event != types.EventNone {
			m.recorder.Outcome(snap)
		}
		m.deliver(e, snap)
	}
}

// deliver never blocks the loop: a full channel loses its oldest frame.
func (m *Manager) deliver(e *entry, snap types.Snapshot) {
	for {
		select {
		case e.frames <- snap:
			return
		default:
		}
		select {
		case <-e.frames:
			if atomic.AddUint64(&e.dropped, 1)%600 == 1 {
				m.log.Warn().Str("session", snap.SessionID).Uint64("dropped", atomic.LoadUint64(&e.dropped)).Msg("slow frame consumer")
			}
		default:
		}
	}
}

func (m *Manager) closeAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, e := range m.sessions {
		m.closeLocked(id, e)
	}
}

func (m *Manager) closeLocked(id string, e *entry) {
	e.session.Close()
	close(e.frames)
	delete(m.sessions, id)
	m.recorder.SessionClosed(id)
	m.log.Info().
		Str("session", id).
		Dur("uptime", time.Since(e.openedAt)).
		Int("open", len(m.sessions)).
		Msg("session closed")
}
