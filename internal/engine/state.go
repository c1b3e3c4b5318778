package engine

import (
	"fmt"

	"github.com/zyedidia/generic/mapset"
)

// Phase is the state-machine position of a game.
type Phase uint8

const (
	Playing Phase = iota
	AwaitingObstacleDecision
	Over
)

func (p Phase) String() string {
	switch p {
	case Playing:
		return "playing"
	case AwaitingObstacleDecision:
		return "awaiting-obstacle-decision"
	case Over:
		return "over"
	}
	return fmt.Sprintf("phase(%d)", uint8(p))
}

// Outcome classifies what a transition did.
type Outcome uint8

const (
	Moved Outcome = iota
	AteFood
	AteBonus
	CollidedSelf
	ObstacleContact  // suspended until Resolve
	CollidedObstacle // player quit at the obstacle prompt
)

func (o Outcome) String() string {
	switch o {
	case Moved:
		return "moved"
	case AteFood:
		return "ate-food"
	case AteBonus:
		return "ate-bonus"
	case CollidedSelf:
		return "collided-self"
	case ObstacleContact:
		return "obstacle-contact"
	case CollidedObstacle:
		return "collided-obstacle"
	}
	return fmt.Sprintf("outcome(%d)", uint8(o))
}

// Terminal reports whether the outcome ends the game.
func (o Outcome) Terminal() bool {
	return o == CollidedSelf || o == CollidedObstacle
}

// Choice is the player's answer at the obstacle prompt.
type Choice uint8

const (
	Continue Choice = iota + 1
	Quit
)

func (c Choice) String() string {
	switch c {
	case Continue:
		return "continue"
	case Quit:
		return "quit"
	}
	return fmt.Sprintf("choice(%d)", uint8(c))
}

// State is everything that changes between ticks.
type State struct {
	Snake       []Point // head first
	Direction   Direction
	Food        Point
	Bonus       Point
	BonusActive bool
	Score       int
	Phase       Phase
	Pending     Point // candidate head held while awaiting the obstacle decision
}

// NewState builds the opening state. The starting food is re-drawn when it
// would sit on the snake or an obstacle.
func NewState(b Board, start Point, dir Direction, food Point, sampler Sampler) (State, error) {
	if !b.Contains(start) {
		return State{}, fmt.Errorf("%w: start %v outside %dx%d grid", ErrInvalidBoard, start, b.Width, b.Height)
	}
	if !dir.Valid() {
		return State{}, fmt.Errorf("engine: invalid start direction %v", dir)
	}
	s := State{
		Snake:     []Point{start},
		Direction: dir,
		Food:      food,
		Bonus:     Absent,
		Pending:   Absent,
		Phase:     Playing,
	}
	forbidden := Forbidden(b, s, FoodSlot)
	if !b.Contains(food) || forbidden.Has(food) {
		p, err := sampler.Sample(forbidden, b.Width, b.Height)
		if err != nil {
			return State{}, fmt.Errorf("place starting food: %w", err)
		}
		s.Food = p
	}
	return s, nil
}

func (s State) Head() Point {
	return s.Snake[0]
}

// Occupies reports whether any body cell, head included, is at p.
func (s State) Occupies(p Point) bool {
	for _, c := range s.Snake {
		if c == p {
			return true
		}
	}
	return false
}

// Clone performs a deep copy of the state.
func (s State) Clone() State {
	out := s
	if s.Snake != nil {
		out.Snake = make([]Point, len(s.Snake))
		copy(out.Snake, s.Snake)
	}
	return out
}

// Slot names which item a placement draw is for.
type Slot uint8

const (
	FoodSlot Slot = iota
	BonusSlot
)

// Forbidden returns the cells a new item in slot may not take: the snake,
// the obstacle footprint, and the other live item.
func Forbidden(b Board, s State, slot Slot) mapset.Set[Point] {
	set := mapset.New[Point]()
	for _, c := range s.Snake {
		set.Put(c)
	}
	for _, c := range b.ObstacleCells() {
		set.Put(c)
	}
	switch slot {
	case FoodSlot:
		if s.BonusActive {
			set.Put(s.Bonus)
		}
	case BonusSlot:
		set.Put(s.Food)
	}
	return set
}
