package engine

import "strings"

// RenderMap draws the inclusive rectangle from topLeft to bottomRight, one
// row per Y from top to bottom. Each cell shows the symbol of the first
// obstacle in insertion order that blocks it, or EmptySymbol. An inverted
// rectangle on either axis yields no rows; callers decide what to do with it.
func (r *Registry) RenderMap(topLeft, bottomRight Position) MapView {
	view := MapView{
		TopLeft:     topLeft,
		BottomRight: bottomRight,
		Rows:        []string{},
	}
	if (Window{TopLeft: topLeft, BottomRight: bottomRight}).Inverted() {
		return view
	}

	obstacles := r.snapshot()
	for y := topLeft.Y; y <= bottomRight.Y; y++ {
		var row strings.Builder
		for x := topLeft.X; x <= bottomRight.X; x++ {
			row.WriteRune(symbolAt(obstacles, Position{X: x, Y: y}))
		}
		view.Rows = append(view.Rows, row.String())
	}

	return view
}

func symbolAt(obstacles []Obstacle, p Position) rune {
	for _, o := range obstacles {
		if IsBlocked(o, p) {
			return Symbol(o)
		}
	}
	return EmptySymbol
}

// Empty reports whether the window produced no cells at all
func (m MapView) Empty() bool {
	return len(m.Rows) == 0 || len(m.Rows[0]) == 0
}

// Width returns the number of columns in the view
func (m MapView) Width() int {
	if len(m.Rows) == 0 {
		return 0
	}
	return len(m.Rows[0])
}

// String joins the rows with newlines
func (m MapView) String() string {
	return strings.Join(m.Rows, "\n")
}

// At returns the symbol at absolute position p, or 0 if p is outside the view
func (m MapView) At(p Position) rune {
	row := p.Y - m.TopLeft.Y
	col := p.X - m.TopLeft.X
	if row < 0 || row >= len(m.Rows) || col < 0 || col >= len(m.Rows[row]) {
		return 0
	}
	return rune(m.Rows[row][col])
}

// Cells returns the number of cells a window covers, zero when inverted
func (w Window) Cells() int {
	width := w.BottomRight.X - w.TopLeft.X + 1
	height := w.BottomRight.Y - w.TopLeft.Y + 1
	if width <= 0 || height <= 0 {
		return 0
	}
	return width * height
}

// Exceeds reports whether a non-inverted window covers more than limit cells.
// Spans that overflow int count as exceeding.
func (w Window) Exceeds(limit int) bool {
	if w.Inverted() {
		return false
	}
	width := w.BottomRight.X - w.TopLeft.X + 1
	height := w.BottomRight.Y - w.TopLeft.Y + 1
	if width <= 0 || height <= 0 {
		return true
	}
	return width > limit || height > limit || width*height > limit
}

// Inverted reports whether the bottom-right corner lies north or west of the top-left
func (w Window) Inverted() bool {
	return w.BottomRight.X < w.TopLeft.X || w.BottomRight.Y < w.TopLeft.Y
}
