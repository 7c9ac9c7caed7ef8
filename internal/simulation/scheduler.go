package simulation

import "sort"

// DeferredKind names a mutation the session applies later.
type DeferredKind uint8

const (
	DeferredResetBall DeferredKind = iota
	DeferredResetScore
	DeferredClearMessage
)

func (k DeferredKind) String() string {
	switch k {
	case DeferredResetBall:
		return "reset_ball"
	case DeferredResetScore:
		return "reset_score"
	case DeferredClearMessage:
		return "clear_message"
	default:
		return "unknown"
	}
}

// Deferred is a scheduled mutation due at a simulation-clock time.
type Deferred struct {
	ID    uint64
	Kind  DeferredKind
	Due   float64
	Round uint64
}

// Scheduler is a small queue of deferred mutations on the simulation clock.
// It is not safe for concurrent use; the owning session serialises access.
type Scheduler struct {
	nextID  uint64
	pending []Deferred
}

// Schedule queues kind to fire at due and returns its id.
func (s *Scheduler) Schedule(kind DeferredKind, due float64, round uint64) uint64 {
	s.nextID++
	s.pending = append(s.pending, Deferred{ID: s.nextID, Kind: kind, Due: due, Round: round})
	return s.nextID
}

// Cancel removes a pending entry. It reports whether anything was removed.
func (s *Scheduler) Cancel(id uint64) bool {
	for i := range s.pending {
		if s.pending[i].ID == id {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			return true
		}
	}
	return false
}

// CancelKind drops every pending entry of kind.
func (s *Scheduler) CancelKind(kind DeferredKind) int {
	kept := s.pending[:0]
	removed := 0
	for _, d := range s.pending {
		if d.Kind == kind {
			removed++
			continue
		}
		kept = append(kept, d)
	}
	s.pending = kept
	return removed
}

// Clear cancels everything.
func (s *Scheduler) Clear() {
	s.pending = nil
}

// Len returns the number of pending entries.
func (s *Scheduler) Len() int {
	return len(s.pending)
}

// Pending reports whether an entry of kind is queued.
func (s *Scheduler) Pending(kind DeferredKind) bool {
	for _, d := range s.pending {
		if d.Kind == kind {
			return true
		}
	}
	return false
}

// PopDue removes and returns entries due at or before now, earliest first.
func (s *Scheduler) PopDue(now float64) []Deferred {
	var due []Deferred
	kept := s.pending[:0]
	for _, d := range s.pending {
		if d.Due <= now {
			due = append(due, d)
			continue
		}
		kept = append(kept, d)
	}
	s.pending = kept
	sort.SliceStable(due, func(i, j int) bool {
		if due[i].Due == due[j].Due {
			return due[i].ID < due[j].ID
		}
		return due[i].Due < due[j].Due
	})
	return due
}
