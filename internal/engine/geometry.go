// Package engine holds the game state types and the per-tick transition
// function of the snake game.
//
// Grid coordinates are in cells; obstacles are measured in pixels and
// converted through the board's block size.
package engine

import (
	"errors"
	"fmt"
)

// Point is a grid cell.
type Point struct {
	X, Y int
}

// Absent is the off-grid sentinel for an inactive bonus or an empty slot.
var Absent = Point{X: -1, Y: -1}

func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Direction of travel. The zero value is not a valid direction.
type Direction uint8

const (
	Up Direction = iota + 1
	Down
	Left
	Right
)

// Delta returns the one-cell offset for d. Y grows downwards.
func (d Direction) Delta() Point {
	switch d {
	case Up:
		return Point{X: 0, Y: -1}
	case Down:
		return Point{X: 0, Y: 1}
	case Left:
		return Point{X: -1, Y: 0}
	case Right:
		return Point{X: 1, Y: 0}
	}
	return Point{}
}

func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	case Right:
		return Left
	}
	return d
}

func (d Direction) Valid() bool {
	return d >= Up && d <= Right
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return fmt.Sprintf("direction(%d)", uint8(d))
}

// ParseDirection accepts the names produced by Direction.String.
func ParseDirection(s string) (Direction, error) {
	for d := Up; d <= Right; d++ {
		if d.String() == s {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

// Rect is an axis-aligned rectangle in pixel space.
type Rect struct {
	X, Y, W, H int
}

func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Intersects reports whether r and o overlap with positive area.
// Rectangles that only share an edge do not intersect.
func (r Rect) Intersects(o Rect) bool {
	if r.Empty() || o.Empty() {
		return false
	}
	return r.X < o.X+o.W && o.X < r.X+r.W &&
		r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

// Board is the static geometry of a game.
type Board struct {
	Width     int // cells
	Height    int // cells
	BlockSize int // pixels per cell
	Obstacles []Rect
}

var ErrInvalidBoard = errors.New("engine: invalid board geometry")

// NewBoard derives the grid from a pixel screen size.
func NewBoard(screenWidth, screenHeight, blockSize int, obstacles []Rect) (Board, error) {
	if blockSize <= 0 {
		return Board{}, fmt.Errorf("%w: block size %d", ErrInvalidBoard, blockSize)
	}
	w, h := screenWidth/blockSize, screenHeight/blockSize
	if w <= 0 || h <= 0 {
		return Board{}, fmt.Errorf("%w: screen %dx%d smaller than one %dpx block", ErrInvalidBoard, screenWidth, screenHeight, blockSize)
	}
	obs := make([]Rect, len(obstacles))
	copy(obs, obstacles)
	return Board{Width: w, Height: h, BlockSize: blockSize, Obstacles: obs}, nil
}

func (b Board) Contains(p Point) bool {
	return p.X >= 0 && p.X < b.Width && p.Y >= 0 && p.Y < b.Height
}

// Wrap moves an out-of-range coordinate to the opposite edge.
func (b Board) Wrap(p Point) Point {
	if p.X < 0 {
		p.X = b.Width - 1
	} else if p.X >= b.Width {
		p.X = 0
	}
	if p.Y < 0 {
		p.Y = b.Height - 1
	} else if p.Y >= b.Height {
		p.Y = 0
	}
	return p
}

// CellRect expands a grid cell to its pixel rectangle.
func (b Board) CellRect(p Point) Rect {
	return Rect{X: p.X * b.BlockSize, Y: p.Y * b.BlockSize, W: b.BlockSize, H: b.BlockSize}
}

func (b Board) HitsObstacle(p Point) bool {
	cell := b.CellRect(p)
	for _, o := range b.Obstacles {
		if cell.Intersects(o) {
			return true
		}
	}
	return false
}

// ObstacleCells lists every on-grid cell touched by an obstacle, row by row.
func (b Board) ObstacleCells() []Point {
	var cells []Point
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			p := Point{X: x, Y: y}
			if b.HitsObstacle(p) {
				cells = append(cells, p)
			}
		}
	}
	return cells
}

// PixelSize is the drawable area covered by the grid.
func (b Board) PixelSize() (int, int) {
	return b.Width * b.BlockSize, b.Height * b.BlockSize
}
