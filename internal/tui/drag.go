package tui

import (
	"time"

	"github.com/gdamore/tcell/v2"

	"penaltyshot/internal/shared/types"
)

// DragTracker turns primary-button mouse events into gestures.
type DragTracker struct {
	active bool
	start  types.Point
	last   types.Point
}

// Handle consumes one mouse event. It returns a gesture when the primary
// button is released after a press.
func (d *DragTracker) Handle(ev *tcell.EventMouse, vp Viewport) (types.Gesture, bool) {
	col, row := ev.Position()
	x, y := vp.ToField(col, row)
	p := types.Point{X: x, Y: y, T: stamp(ev.When())}

	pressed := ev.Buttons()&tcell.Button1 != 0
	switch {
	case pressed && !d.active:
		d.active = true
		d.start = p
		d.last = p
	case pressed:
		d.last = p
	case d.active:
		d.active = false
		return types.Gesture{Start: d.start, End: p}, true
	}
	return types.Gesture{}, false
}

// Active reports whether a drag is in progress.
func (d *DragTracker) Active() bool {
	return d.active
}

// Current returns the in-progress drag for drawing the aim line.
func (d *DragTracker) Current() (types.Gesture, bool) {
	if !d.active {
		return types.Gesture{}, false
	}
	return types.Gesture{Start: d.start, End: d.last}, true
}

// Cancel drops an in-progress drag, e.g. on resize.
func (d *DragTracker) Cancel() {
	d.active = false
}

func stamp(t time.Time) int64 {
	if t.IsZero() {
		return time.Now().UnixMilli()
	}
	return t.UnixMilli()
}
