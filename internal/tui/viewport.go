package tui

import "math"

// Field units covered by one terminal cell. Cells are about twice as tall as
// they are wide, so a 100x25 terminal maps onto an 800x400 field.
const (
	CellWidth  = 8.0
	CellHeight = 16.0
)

// Viewport maps terminal cells onto field units.
type Viewport struct {
	Cols int
	Rows int
}

func NewViewport(cols, rows int) Viewport {
	return Viewport{Cols: cols, Rows: rows}
}

// FieldSize is the play area covered by the whole terminal.
func (v Viewport) FieldSize() (width, height float64) {
	return float64(v.Cols) * CellWidth, float64(v.Rows) * CellHeight
}

// ToField returns the field point at the centre of a cell.
func (v Viewport) ToField(col, row int) (x, y float64) {
	return (float64(col) + 0.5) * CellWidth, (float64(row) + 0.5) * CellHeight
}

// ToCell returns the cell containing a field point.
func (v Viewport) ToCell(x, y float64) (col, row int) {
	return int(math.Floor(x / CellWidth)), int(math.Floor(y / CellHeight))
}

// SpanCols returns how many cells a horizontal field span covers, at least one.
func (v Viewport) SpanCols(w float64) int {
	n := int(math.Round(w / CellWidth))
	if n < 1 {
		n = 1
	}
	return n
}

// SpanRows is SpanCols for vertical spans.
func (v Viewport) SpanRows(h float64) int {
	n := int(math.Round(h / CellHeight))
	if n < 1 {
		n = 1
	}
	return n
}

// Contains reports whether a cell is on screen.
func (v Viewport) Contains(col, row int) bool {
	return col >= 0 && row >= 0 && col < v.Cols && row < v.Rows
}
