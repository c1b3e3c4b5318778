// Package placement draws uniformly random free grid cells for food and
// bonus items.
package placement

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/zyedidia/generic/mapset"

	"snake-obstacles/internal/engine"
)

// ErrNoFreeCell means every cell of the grid is forbidden.
var ErrNoFreeCell = errors.New("placement: no free cell left on the grid")

// rejectionFactor bounds the rejection loop at rejectionFactor*cells draws
// before falling back to enumerating the free cells.
const rejectionFactor = 4

// Sampler is a rejection sampler over a rectangular grid.
type Sampler struct {
	rng *rand.Rand
}

func New(rng *rand.Rand) *Sampler {
	return &Sampler{rng: rng}
}

// NewSeeded returns a sampler with its own source. A zero seed uses the clock.
func NewSeeded(seed int64) *Sampler {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return New(rand.New(rand.NewSource(seed)))
}

// Sample returns a cell in [0,width)x[0,height) that is not in forbidden,
// uniformly distributed over the free cells. Forbidden cells outside the
// grid are ignored.
func (s *Sampler) Sample(forbidden mapset.Set[engine.Point], width, height int) (engine.Point, error) {
	if width <= 0 || height <= 0 {
		return engine.Absent, fmt.Errorf("placement: invalid grid %dx%d", width, height)
	}
	cells := width * height
	free := cells - blocked(forbidden, width, height)
	if free <= 0 {
		return engine.Absent, ErrNoFreeCell
	}

	for i := 0; i < rejectionFactor*cells; i++ {
		p := engine.Point{X: s.rng.Intn(width), Y: s.rng.Intn(height)}
		if !forbidden.Has(p) {
			return p, nil
		}
	}
	return s.pickFree(forbidden, width, height, free), nil
}

// pickFree is the slow path for nearly full grids.
func (s *Sampler) pickFree(forbidden mapset.Set[engine.Point], width, height, n int) engine.Point {
	free := make([]engine.Point, 0, n)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			p := engine.Point{X: x, Y: y}
			if !forbidden.Has(p) {
				free = append(free, p)
			}
		}
	}
	return free[s.rng.Intn(len(free))]
}

func blocked(forbidden mapset.Set[engine.Point], width, height int) int {
	n := 0
	forbidden.Each(func(p engine.Point) {
		if p.X >= 0 && p.X < width && p.Y >= 0 && p.Y < height {
			n++
		}
	})
	return n
}
