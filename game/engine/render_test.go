package engine

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRenderMap_GuardAtCentre(t *testing.T) {
	r := NewRegistry()
	r.Add(NewGuard(pos(1, 1)))

	view := r.RenderMap(pos(0, 0), pos(2, 2))
	want := []string{
		"...",
		".G.",
		"...",
	}
	if diff := cmp.Diff(want, view.Rows); diff != "" {
		t.Errorf("Rows mismatch (-want +got):\n%s", diff)
	}

	empties := strings.Count(view.String(), string(EmptySymbol))
	if empties != 8 {
		t.Errorf("Expected 8 empty cells, got %d", empties)
	}
}

func TestRenderMap_FirstInsertedWins(t *testing.T) {
	r := NewRegistry()
	fence, _ := NewFence(pos(0, 0), pos(3, 0))
	r.Add(fence)
	r.Add(NewGuard(pos(1, 0)))
	sensor, _ := NewSensor(pos(1, 2), 1)
	r.Add(sensor)

	view := r.RenderMap(pos(0, 0), pos(3, 3))
	want := []string{
		"FFFF",
		".S..",
		"SSS.",
		".S..",
	}
	if diff := cmp.Diff(want, view.Rows); diff != "" {
		t.Errorf("Rows mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderMap_AllSymbols(t *testing.T) {
	r := NewRegistry()
	r.Add(NewGuard(pos(0, 0)))
	fence, _ := NewFence(pos(2, 0), pos(2, 1))
	r.Add(fence)
	camera, _ := NewCamera(pos(4, 0), West)
	r.Add(camera)
	laser, _ := NewLaserBarrier(pos(0, 3), East, 2)
	r.Add(laser)

	view := r.RenderMap(pos(0, 0), pos(4, 3))

	checks := map[Position]rune{
		pos(0, 0): 'G',
		pos(2, 1): 'F',
		pos(4, 0): 'C',
		pos(3, 0): 'C',
		pos(0, 3): 'L',
		pos(2, 3): 'L',
		pos(1, 3): EmptySymbol,
	}
	for p, want := range checks {
		if got := view.At(p); got != want {
			t.Errorf("At(%v) = %q, expected %q\n%s", p, got, want, view)
		}
	}
}

func TestRenderMap_NegativeCoordinates(t *testing.T) {
	r := NewRegistry()
	r.Add(NewGuard(pos(-3, -2)))

	view := r.RenderMap(pos(-4, -3), pos(-2, -1))
	if view.At(pos(-3, -2)) != 'G' {
		t.Errorf("Expected guard at (-3,-2), got\n%s", view)
	}
	if len(view.Rows) != 3 || view.Width() != 3 {
		t.Errorf("Expected 3x3 view, got %dx%d", view.Width(), len(view.Rows))
	}
}

func TestRenderMap_InvertedWindowRendersNothing(t *testing.T) {
	r := NewRegistry()
	r.Add(NewGuard(pos(0, 0)))

	tests := []struct {
		name   string
		tl, br Position
	}{
		{"north of top left", pos(0, 0), pos(2, -2)},
		{"west of top left", pos(0, 0), pos(-2, 2)},
		{"north west", pos(0, 0), pos(-1, -1)},
		{"west and very tall", pos(1, 0), pos(0, 5_000_000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := r.RenderMap(tt.tl, tt.br)
			if !view.Empty() {
				t.Errorf("Expected empty view, got %q", view.Rows)
			}
			if len(view.Rows) != 0 {
				t.Errorf("Expected no rows, got %d", len(view.Rows))
			}
		})
	}
}

func TestWindow_Cells(t *testing.T) {
	tests := []struct {
		name     string
		w        Window
		cells    int
		inverted bool
	}{
		{"single cell", Window{pos(0, 0), pos(0, 0)}, 1, false},
		{"3x2", Window{pos(-1, 0), pos(1, 1)}, 6, false},
		{"inverted", Window{pos(2, 2), pos(0, 0)}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.w.Cells(); got != tt.cells {
				t.Errorf("Cells() = %d, expected %d", got, tt.cells)
			}
			if got := tt.w.Inverted(); got != tt.inverted {
				t.Errorf("Inverted() = %v, expected %v", got, tt.inverted)
			}
		})
	}

	huge := Window{pos(0, 0), pos(1000, 1000)}
	if !huge.Exceeds(MaxRenderCells) {
		t.Error("Expected 1001x1001 window to exceed the render limit")
	}
}
