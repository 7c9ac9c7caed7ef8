package tui

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"penaltyshot/internal/shared/types"
)

var (
	styleSky      = tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite)
	styleGrass    = tcell.StyleDefault.Background(tcell.ColorGreen).Foreground(tcell.ColorWhite)
	styleGrassAlt = tcell.StyleDefault.Background(tcell.ColorForestGreen).Foreground(tcell.ColorWhite)
	styleHUD      = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite).Bold(true)
	styleSplash   = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite)
)

const (
	diveLeft  = "<==O"
	diveRight = "O==>"
)

// Renderer draws snapshots onto a terminal screen.
type Renderer struct {
	screen tcell.Screen
	vp     Viewport
	field  types.FieldView
}

func NewRenderer(screen tcell.Screen) *Renderer {
	cols, rows := screen.Size()
	return &Renderer{screen: screen, vp: NewViewport(cols, rows)}
}

// Viewport returns the mapping used for the last frame.
func (r *Renderer) Viewport() Viewport {
	return r.vp
}

// Resize updates the viewport after a terminal resize.
func (r *Renderer) Resize() Viewport {
	cols, rows := r.screen.Size()
	r.vp = NewViewport(cols, rows)
	return r.vp
}

// Draw renders one frame. aim is the drag in progress, if any; splash covers
// the field with the start screen.
func (r *Renderer) Draw(snap types.Snapshot, aim *types.Gesture, splash bool) {
	r.field = snap.Field
	r.screen.Clear()

	r.drawPitch()
	r.drawGoal(snap.Goal)
	r.drawShadow(snap.Ball)
	r.drawKeeper(snap.Keeper)
	r.drawBall(snap.Ball)
	if aim != nil {
		r.drawAim(*aim)
	}
	r.drawHUD(snap.Score)
	if snap.Message != "" {
		r.drawCentered(1, " "+snap.Message+" ", styleHUD.Foreground(tcell.ColorYellow))
	}
	if splash {
		r.drawSplash(snap.Score.ScoreToWin)
	}

	r.screen.Show()
}

// bg is the background style of a row: sky above the horizon, mown stripes
// below it.
func (r *Renderer) bg(row int) tcell.Style {
	_, horizon := r.vp.ToCell(0, r.field.HorizonY)
	if row < horizon {
		return styleSky
	}
	if ((row-horizon)/2)%2 == 0 {
		return styleGrass
	}
	return styleGrassAlt
}

func (r *Renderer) put(col, row int, ch rune, fg tcell.Color, bold bool) {
	if !r.vp.Contains(col, row) {
		return
	}
	r.screen.SetContent(col, row, ch, nil, r.bg(row).Foreground(fg).Bold(bold))
}

func (r *Renderer) text(col, row int, s string, style tcell.Style) {
	for i, ch := range []rune(s) {
		if r.vp.Contains(col+i, row) {
			r.screen.SetContent(col+i, row, ch, nil, style)
		}
	}
}

func (r *Renderer) drawCentered(row int, s string, style tcell.Style) {
	col := (r.vp.Cols - len([]rune(s))) / 2
	if col < 0 {
		col = 0
	}
	r.text(col, row, s, style)
}

func (r *Renderer) drawPitch() {
	_, horizon := r.vp.ToCell(0, r.field.HorizonY)
	for row := 0; row < r.vp.Rows; row++ {
		style := r.bg(row)
		for col := 0; col < r.vp.Cols; col++ {
			ch := ' '
			if row == horizon {
				ch = '▔'
			}
			r.screen.SetContent(col, row, ch, nil, style)
		}
	}
}

func (r *Renderer) drawGoal(g types.GoalView) {
	left, top := r.vp.ToCell(g.CenterX-g.Width/2, g.Top)
	right, bottom := r.vp.ToCell(g.CenterX+g.Width/2, g.Top+g.Height)

	for row := top + 1; row <= bottom; row++ {
		for col := left + 1; col < right; col++ {
			ch := '·'
			if (col-left)%4 == 0 || (row-top)%2 == 0 {
				ch = '┼'
			}
			r.put(col, row, ch, tcell.ColorSilver, false)
		}
		r.put(left, row, '┃', tcell.ColorWhite, true)
		r.put(right, row, '┃', tcell.ColorWhite, true)
	}
	for col := left + 1; col < right; col++ {
		r.put(col, top, '━', tcell.ColorWhite, true)
	}
	r.put(left, top, '┏', tcell.ColorWhite, true)
	r.put(right, top, '┓', tcell.ColorWhite, true)
}

func (r *Renderer) drawShadow(b types.BallView) {
	col, row := r.vp.ToCell(b.ShadowX, b.ShadowY)
	w := r.vp.SpanCols(2 * b.ShadowRadius)
	for i := 0; i < w; i++ {
		r.put(col-w/2+i, row, '▂', tcell.ColorBlack, false)
	}
}

func (r *Renderer) drawKeeper(k types.KeeperView) {
	col, row := r.vp.ToCell(k.X, k.Y)
	if k.State == "diving" {
		pose, anchor := diveRight, 0
		if k.HasPrediction && k.PredictedX < k.X {
			pose, anchor = diveLeft, len(diveLeft)-1
		}
		for i, ch := range pose {
			r.put(col-anchor+i, row-1, ch, tcell.ColorRed, true)
		}
		return
	}
	r.put(col, row-2, 'O', tcell.ColorYellow, true)
	r.put(col-1, row-1, '/', tcell.ColorYellow, true)
	r.put(col, row-1, '█', tcell.ColorYellow, true)
	r.put(col+1, row-1, '\\', tcell.ColorYellow, true)
	r.put(col-1, row, '/', tcell.ColorYellow, true)
	r.put(col+1, row, '\\', tcell.ColorYellow, true)
}

// drawBall fills an ellipse of the projected radius; tiny balls are a dot.
func (r *Renderer) drawBall(b types.BallView) {
	col, row := r.vp.ToCell(b.X, b.Y)
	if b.DrawRadius < CellHeight/2 {
		r.put(col, row, '●', tcell.ColorWhite, true)
		return
	}
	cx, cy := r.vp.ToField(col, row)
	rc := int(math.Ceil(b.DrawRadius / CellWidth))
	rr := int(math.Ceil(b.DrawRadius / CellHeight))
	for dr := -rr; dr <= rr; dr++ {
		for dc := -rc; dc <= rc; dc++ {
			x, y := r.vp.ToField(col+dc, row+dr)
			if math.Hypot(x-cx, y-cy) <= b.DrawRadius {
				r.put(col+dc, row+dr, '█', tcell.ColorWhite, false)
			}
		}
	}
}

func (r *Renderer) drawAim(g types.Gesture) {
	c0, r0 := r.vp.ToCell(g.Start.X, g.Start.Y)
	c1, r1 := r.vp.ToCell(g.End.X, g.End.Y)
	steps := max(abs(c1-c0), abs(r1-r0))
	for i := 0; i <= steps; i++ {
		t := 0.0
		if steps > 0 {
			t = float64(i) / float64(steps)
		}
		col := c0 + int(math.Round(t*float64(c1-c0)))
		row := r0 + int(math.Round(t*float64(r1-r0)))
		r.put(col, row, '•', tcell.ColorWhite, false)
	}
}

func (r *Renderer) drawHUD(s types.ScoreView) {
	r.text(0, 0, fmt.Sprintf(" Goals %d/%d ", s.Goals, s.ScoreToWin), styleHUD)
	hint := " drag up to shoot · q quit "
	r.text(r.vp.Cols-len([]rune(hint)), 0, hint, styleHUD.Bold(false))
}

func (r *Renderer) drawSplash(scoreToWin int) {
	lines := []string{
		"PENALTY SHOOTOUT",
		"",
		"Drag from the right of the pitch upward to shoot.",
		"Longer drags shoot harder; sideways aims the shot.",
		fmt.Sprintf("Score %d goals to win.", scoreToWin),
		"",
		"Click anywhere to start · q to quit",
	}
	width := 0
	for _, l := range lines {
		width = max(width, len([]rune(l)))
	}
	top := (r.vp.Rows - len(lines)) / 2
	left := (r.vp.Cols - width - 4) / 2
	for row := top - 1; row <= top+len(lines); row++ {
		for col := left; col < left+width+4; col++ {
			if r.vp.Contains(col, row) {
				r.screen.SetContent(col, row, ' ', nil, styleSplash)
			}
		}
	}
	for i, l := range lines {
		style := styleSplash
		if i == 0 {
			style = style.Bold(true).Foreground(tcell.ColorYellow)
		}
		r.drawCentered(top+i, l, style)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
