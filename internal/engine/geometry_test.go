package engine_test

import (
	"errors"
	"testing"

	"snake-obstacles/internal/engine"
)

func TestNewBoard(t *testing.T) {
	if _, err := engine.NewBoard(700, 500, 0, nil); !errors.Is(err, engine.ErrInvalidBoard) {
		t.Fatalf("zero block size err=%v", err)
	}
	if _, err := engine.NewBoard(10, 500, 20, nil); !errors.Is(err, engine.ErrInvalidBoard) {
		t.Fatalf("sub-block screen err=%v", err)
	}

	obs := []engine.Rect{{X: 0, Y: 0, W: 20, H: 20}}
	b, err := engine.NewBoard(710, 505, 20, obs)
	if err != nil {
		t.Fatalf("NewBoard: %v", err)
	}
	if b.Width != 35 || b.Height != 25 {
		t.Fatalf("grid=%dx%d want=35x25 (integer division)", b.Width, b.Height)
	}
	obs[0].W = 999
	if b.Obstacles[0].W != 20 {
		t.Fatalf("board aliases the caller's obstacle slice")
	}
}

func TestRectIntersects(t *testing.T) {
	o := engine.Rect{X: 100, Y: 120, W: 200, H: 20}
	cases := []struct {
		name string
		r    engine.Rect
		want bool
	}{
		{"inside", engine.Rect{X: 120, Y: 120, W: 20, H: 20}, true},
		{"overlap left edge", engine.Rect{X: 90, Y: 120, W: 20, H: 20}, true},
		{"touching left edge", engine.Rect{X: 80, Y: 120, W: 20, H: 20}, false},
		{"touching right edge", engine.Rect{X: 300, Y: 120, W: 20, H: 20}, false},
		{"row above", engine.Rect{X: 120, Y: 100, W: 20, H: 20}, false},
		{"empty", engine.Rect{X: 120, Y: 120, W: 0, H: 20}, false},
	}
	for _, tc := range cases {
		if got := tc.r.Intersects(o); got != tc.want {
			t.Errorf("%s: Intersects=%v want=%v", tc.name, got, tc.want)
		}
		if got := o.Intersects(tc.r); got != tc.want {
			t.Errorf("%s (swapped): Intersects=%v want=%v", tc.name, got, tc.want)
		}
	}
}

func TestObstacleCells(t *testing.T) {
	b := defaultBoard(t)
	cells := b.ObstacleCells()
	// 10 + 10 + 5 cells for the three default bars.
	if len(cells) != 25 {
		t.Fatalf("obstacle cells=%d want=25: %v", len(cells), cells)
	}
	for _, p := range []engine.Point{{X: 5, Y: 6}, {X: 14, Y: 6}, {X: 21, Y: 18}, {X: 30, Y: 18}, {X: 15, Y: 12}, {X: 19, Y: 12}} {
		if !b.HitsObstacle(p) {
			t.Errorf("%v should hit an obstacle", p)
		}
	}
	for _, p := range []engine.Point{{X: 4, Y: 6}, {X: 15, Y: 6}, {X: 20, Y: 12}, {X: 15, Y: 15}} {
		if b.HitsObstacle(p) {
			t.Errorf("%v should be clear", p)
		}
	}
}

func TestDirection(t *testing.T) {
	for d := engine.Up; d <= engine.Right; d++ {
		if d.Opposite().Opposite() != d {
			t.Errorf("%v: double opposite=%v", d, d.Opposite().Opposite())
		}
		sum := d.Delta().Add(d.Opposite().Delta())
		if sum != (engine.Point{}) {
			t.Errorf("%v: delta + opposite delta = %v", d, sum)
		}
		got, err := engine.ParseDirection(d.String())
		if err != nil || got != d {
			t.Errorf("ParseDirection(%q)=%v,%v", d.String(), got, err)
		}
	}
	if _, err := engine.ParseDirection("sideways"); err == nil {
		t.Fatalf("expected error for unknown direction")
	}
	if engine.Direction(0).Valid() {
		t.Fatalf("zero direction reported valid")
	}
}
