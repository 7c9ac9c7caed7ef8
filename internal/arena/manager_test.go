package arena

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"penaltyshot/internal/shared/types"
	"penaltyshot/internal/simulation"
)

type fakeRecorder struct {
	mu       sync.Mutex
	opened   []string
	closed   []string
	outcomes []types.Snapshot
}

func (f *fakeRecorder) SessionOpened(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.opened = append(f.opened, id)
}

func (f *fakeRecorder) SessionClosed(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = append(f.closed, id)
}

func (f *fakeRecorder) Outcome(snap types.Snapshot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.outcomes = append(f.outcomes, snap)
}

func newSession(t *testing.T, id string) *simulation.Session {
	t.Helper()
	s, err := simulation.NewSession(id, 800, 400, simulation.DefaultTuning())
	require.NoError(t, err)
	return s
}

func TestOpenGetCount(t *testing.T) {
	rec := &fakeRecorder{}
	m := NewManager(4, WithRecorder(rec))

	_, err := m.Open(newSession(t, "a"))
	require.NoError(t, err)
	_, err = m.Open(newSession(t, "b"))
	require.NoError(t, err)

	assert.Equal(t, 2, m.Count())
	assert.Equal(t, []string{"a", "b"}, m.IDs())
	assert.Equal(t, []string{"a", "b"}, rec.opened)

	s, ok := m.Get("a")
	require.True(t, ok)
	assert.Equal(t, "a", s.ID())

	_, ok = m.Get("missing")
	assert.False(t, ok)
}

func TestOpenDuplicate(t *testing.T) {
	m := NewManager(4)
	_, err := m.Open(newSession(t, "dup"))
	require.NoError(t, err)

	_, err = m.Open(newSession(t, "dup"))
	require.ErrorIs(t, err, ErrSessionExists)
	assert.Equal(t, 1, m.Count())
}

func TestCloseSession(t *testing.T) {
	rec := &fakeRecorder{}
	m := NewManager(4, WithRecorder(rec))
	s := newSession(t, "a")
	frames, err := m.Open(s)
	require.NoError(t, err)

	require.NoError(t, m.Close("a"))
	assert.True(t, s.Closed())
	assert.Equal(t, 0, m.Count())
	assert.Equal(t, []string{"a"}, rec.closed)

	_, ok := <-frames
	assert.False(t, ok, "expected frame channel closed")

	require.ErrorIs(t, m.Close("a"), ErrSessionNotFound)
}

func TestRunDeliversFrames(t *testing.T) {
	m := NewManager(64)
	frames, err := m.Open(newSession(t, "a"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Run(ctx, 5*time.Millisecond)
	time.Sleep(60 * time.Millisecond)

	select {
	case snap := <-frames:
		assert.Equal(t, "a", snap.SessionID)
		assert.Greater(t, snap.Tick, uint64(0))
	default:
		t.Fatal("expected at least one frame")
	}
}

func TestRunClosesSessionsOnCancel(t *testing.T) {
	m := NewManager(1)
	s := newSession(t, "a")
	frames, err := m.Open(s)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx, 5*time.Millisecond)
		close(done)
	}()
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expected Run to return after cancel")
	}
	assert.Equal(t, 0, m.Count())
	assert.True(t, s.Closed())

	for range frames {
	}
}

func TestDeliverKeepsNewestFrame(t *testing.T) {
	m := NewManager(2)
	frames, err := m.Open(newSession(t, "a"))
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		m.step(1.0 / 60.0)
	}
	require.Len(t, frames, 2)

	first := <-frames
	second := <-frames
	assert.Equal(t, uint64(9), first.Tick)
	assert.Equal(t, uint64(10), second.Tick)
}

func TestStepRecordsOutcome(t *testing.T) {
	rec := &fakeRecorder{}
	m := NewManager(256, WithRecorder(rec))
	s := newSession(t, "a")
	frames, err := m.Open(s)
	require.NoError(t, err)

	_, ok := s.Release(types.Gesture{
		Start: types.Point{X: 600, Y: 300},
		End:   types.Point{X: 600, Y: 100},
	})
	require.True(t, ok)

	for i := 0; i < 120; i++ {
		m.step(1.0 / 60.0)
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	require.Len(t, rec.outcomes, 1)
	ev := rec.outcomes[0].Event
	assert.Contains(t, []types.EventType{types.EventGoal, types.EventSave}, ev)

	var seen int
	for len(frames) > 0 {
		if snap := <-frames; snap.Event != types.EventNone {
			seen++
		}
	}
	assert.Equal(t, 1, seen)
}

func TestNextIDUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		id := NextID("s")
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}
