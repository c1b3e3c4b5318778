package engine

import (
	"errors"
	"fmt"

	"github.com/zyedidia/generic/mapset"
)

// Scoring rules.
const (
	FoodPoints      = 1
	BonusPoints     = 10
	BonusInterval   = 5
	ObstaclePenalty = 10
)

var (
	ErrNotPlaying        = errors.New("engine: game is not accepting moves")
	ErrNoDecisionPending = errors.New("engine: no obstacle decision pending")
	ErrInvalidChoice     = errors.New("engine: invalid obstacle choice")
)

// Sampler draws a free cell on a width x height grid.
type Sampler interface {
	Sample(forbidden mapset.Set[Point], width, height int) (Point, error)
}

// Steer turns the snake unless d would reverse it or the game is not
// accepting moves.
func Steer(s State, d Direction) State {
	if s.Phase != Playing || !d.Valid() || d == s.Direction.Opposite() {
		return s
	}
	s.Direction = d
	return s
}

// Step advances s by one tick. The returned state never aliases s.
//
// On ObstacleContact the move is held in Pending and the game waits for
// Resolve. Sampler errors are returned wrapped together with the
// unmodified input state.
func Step(b Board, s State, sampler Sampler) (State, Outcome, error) {
	if s.Phase != Playing {
		return s, Moved, fmt.Errorf("%w (phase %v)", ErrNotPlaying, s.Phase)
	}
	next := s.Clone()
	head := b.Wrap(s.Head().Add(s.Direction.Delta()))

	if s.Occupies(head) {
		next.Phase = Over
		return next, CollidedSelf, nil
	}
	if b.HitsObstacle(head) {
		next.Phase = AwaitingObstacleDecision
		next.Pending = head
		return next, ObstacleContact, nil
	}
	return advance(b, s, next, head, sampler)
}

// Resolve continues a move suspended by an obstacle contact. Continue costs
// ObstaclePenalty points and completes the held move; Quit ends the game.
func Resolve(b Board, s State, c Choice, sampler Sampler) (State, Outcome, error) {
	if s.Phase != AwaitingObstacleDecision {
		return s, Moved, fmt.Errorf("%w (phase %v)", ErrNoDecisionPending, s.Phase)
	}
	next := s.Clone()
	head := next.Pending
	next.Pending = Absent

	switch c {
	case Quit:
		next.Phase = Over
		return next, CollidedObstacle, nil
	case Continue:
		next.Score -= ObstaclePenalty
		next.Phase = Playing
		return advance(b, s, next, head, sampler)
	}
	return s, Moved, fmt.Errorf("%w: %v", ErrInvalidChoice, c)
}

// advance applies food, bonus and plain-move rules for head. prev is
// returned untouched when placement fails.
func advance(b Board, prev, next State, head Point, sampler Sampler) (State, Outcome, error) {
	switch {
	case head == next.Food:
		next.Snake = grow(next.Snake, head)
		next.Score += FoodPoints

		food, err := sampler.Sample(Forbidden(b, next, FoodSlot), b.Width, b.Height)
		if err != nil {
			return prev, AteFood, fmt.Errorf("respawn food: %w", err)
		}
		next.Food = food

		if next.Score > 0 && next.Score%BonusInterval == 0 && !next.BonusActive {
			bonus, err := sampler.Sample(Forbidden(b, next, BonusSlot), b.Width, b.Height)
			if err != nil {
				return prev, AteFood, fmt.Errorf("spawn bonus: %w", err)
			}
			next.Bonus = bonus
			next.BonusActive = true
		}
		return next, AteFood, nil

	case next.BonusActive && head == next.Bonus:
		next.Snake = grow(next.Snake, head)
		next.Score += BonusPoints
		next.BonusActive = false
		next.Bonus = Absent
		return next, AteBonus, nil
	}

	copy(next.Snake[1:], next.Snake[:len(next.Snake)-1])
	next.Snake[0] = head
	return next, Moved, nil
}

func grow(body []Point, head Point) []Point {
	out := make([]Point, 0, len(body)+1)
	out = append(out, head)
	return append(out, body...)
}
