// Package session runs one game: it owns the state, the tick cadence and
// the queued direction, and talks to a front-end through Renderer, Audio
// and Input.
package session

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"snake-obstacles/internal/engine"
)

// ErrQuit is returned by Advance when the player is done. It is not a
// failure.
var ErrQuit = errors.New("session: quit")

type Sound uint8

const (
	SoundEat Sound = iota + 1
	SoundGameOver
)

func (s Sound) String() string {
	switch s {
	case SoundEat:
		return "eat"
	case SoundGameOver:
		return "game-over"
	}
	return fmt.Sprintf("sound(%d)", uint8(s))
}

// Renderer draws one frame. Coordinates are grid cells for DrawCell and
// pixels otherwise. DrawText returns the size of the drawn text.
type Renderer interface {
	DrawCell(x, y int, c color.Color)
	DrawRect(r engine.Rect, c color.Color)
	DrawText(text string, x, y int, c color.Color) (w, h int)
}

type Audio interface {
	Play(s Sound)
	PlayMusicLoop()
}

// Input is polled once per frame. Each method reports what happened since
// the previous frame.
type Input interface {
	Direction() (engine.Direction, bool)
	QuitRequested() bool
	ModalChoice() (engine.Choice, bool)
	Acknowledged() bool
}

const (
	ObstacleMessage = "Game Paused! Press Y to continue (-10 points), N to Quit"
	GameOverMessage = "Game Over! Press Any Key to Exit"
)

var (
	SnakeColor    = color.RGBA{0, 102, 204, 255}
	FoodColor     = color.RGBA{255, 0, 0, 255}
	BonusColor    = color.RGBA{255, 255, 0, 255}
	ObstacleColor = color.RGBA{0, 51, 0, 255}
	TextColor     = color.RGBA{255, 255, 255, 255}
)

type Options struct {
	Board     engine.Board
	Start     engine.Point
	Direction engine.Direction
	Food      engine.Point

	// FramesPerTick is how many Advance calls make one game tick.
	FramesPerTick int

	Sampler engine.Sampler
	Logger  *slog.Logger
}

// FramesPerTick converts a tick delay into frames at tps frames per
// second, never less than one.
func FramesPerTick(delay time.Duration, tps int) int {
	n := int(math.Round(delay.Seconds() * float64(tps)))
	if n < 1 {
		return 1
	}
	return n
}

type Session struct {
	id      string
	board   engine.Board
	state   engine.State
	sampler engine.Sampler
	audio   Audio
	log     *slog.Logger

	framesPerTick int
	frame         int
	ticks         int
	nextDir       engine.Direction
	closed        bool
}

func New(opts Options, audio Audio) (*Session, error) {
	if opts.Sampler == nil {
		return nil, errors.New("session: nil sampler")
	}
	if audio == nil {
		return nil, errors.New("session: nil audio")
	}
	state, err := engine.NewState(opts.Board, opts.Start, opts.Direction, opts.Food, opts.Sampler)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	fpt := opts.FramesPerTick
	if fpt < 1 {
		fpt = 1
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	id := uuid.NewString()
	s := &Session{
		id:            id,
		board:         opts.Board,
		state:         state,
		sampler:       opts.Sampler,
		audio:         audio,
		log:           logger.With("session", id),
		framesPerTick: fpt,
		nextDir:       state.Direction,
	}
	s.audio.PlayMusicLoop()
	s.log.Info("session started",
		"grid", fmt.Sprintf("%dx%d", s.board.Width, s.board.Height),
		"start", state.Head(),
		"food", state.Food,
		"frames_per_tick", fpt)
	return s, nil
}

func (s *Session) ID() string { return s.id }

// State returns a copy of the current game state.
func (s *Session) State() engine.State { return s.state.Clone() }

func (s *Session) Ticks() int { return s.ticks }

// Advance processes one frame of input. It returns ErrQuit when the game
// should end normally and a wrapped error on failure.
func (s *Session) Advance(in Input) error {
	if in.QuitRequested() {
		s.log.Info("quit requested", "phase", s.state.Phase, "score", s.state.Score)
		return ErrQuit
	}

	switch s.state.Phase {
	case engine.Playing:
		if d, ok := in.Direction(); ok {
			s.queue(d)
		}
		s.frame++
		if s.frame%s.framesPerTick != 0 {
			return nil
		}
		return s.tick()

	case engine.AwaitingObstacleDecision:
		c, ok := in.ModalChoice()
		if !ok {
			return nil
		}
		next, out, err := engine.Resolve(s.board, s.state, c, s.sampler)
		if err != nil {
			s.log.Error("resolve failed", "err", err)
			return fmt.Errorf("session: resolve obstacle: %w", err)
		}
		s.log.Info("obstacle decision", "choice", c, "score", next.Score)
		s.frame = 0
		s.apply(next, out)

	case engine.Over:
		if in.Acknowledged() {
			s.log.Info("game over acknowledged", "score", s.state.Score)
			return ErrQuit
		}
	}
	return nil
}

// queue accepts d unless it reverses the committed direction.
func (s *Session) queue(d engine.Direction) {
	if !d.Valid() || d == s.state.Direction.Opposite() {
		return
	}
	s.nextDir = d
}

func (s *Session) tick() error {
	s.ticks++
	s.state = engine.Steer(s.state, s.nextDir)
	next, out, err := engine.Step(s.board, s.state, s.sampler)
	if err != nil {
		s.log.Error("step failed", "tick", s.ticks, "err", err)
		return fmt.Errorf("session: tick %d: %w", s.ticks, err)
	}
	s.apply(next, out)
	return nil
}

func (s *Session) apply(next engine.State, out engine.Outcome) {
	hadBonus := s.state.BonusActive
	s.state = next

	switch out {
	case engine.Moved:
		s.log.Debug("moved", "tick", s.ticks, "head", next.Head(), "dir", next.Direction)
	case engine.AteFood:
		s.audio.Play(SoundEat)
		s.log.Info("ate food", "score", next.Score, "length", len(next.Snake), "food", next.Food)
		if next.BonusActive && !hadBonus {
			s.log.Info("bonus spawned", "bonus", next.Bonus)
		}
	case engine.AteBonus:
		s.audio.Play(SoundEat)
		s.log.Info("ate bonus", "score", next.Score, "length", len(next.Snake))
	case engine.ObstacleContact:
		s.log.Info("obstacle contact", "cell", next.Pending, "score", next.Score)
	case engine.CollidedSelf, engine.CollidedObstacle:
		s.audio.Play(SoundGameOver)
		s.log.Info("game over", "outcome", out, "score", next.Score, "length", len(next.Snake))
	}
}

// Draw renders the board, the score and the message for the current phase.
func (s *Session) Draw(r Renderer) {
	for _, c := range s.state.Snake {
		r.DrawCell(c.X, c.Y, SnakeColor)
	}
	r.DrawCell(s.state.Food.X, s.state.Food.Y, FoodColor)
	if s.state.BonusActive {
		r.DrawCell(s.state.Bonus.X, s.state.Bonus.Y, BonusColor)
	}
	for _, o := range s.board.Obstacles {
		r.DrawRect(o, ObstacleColor)
	}
	r.DrawText(fmt.Sprintf("Score: %d", s.state.Score), 30, 30, TextColor)

	w, h := s.board.PixelSize()
	x, y := w/4, h/2
	switch s.state.Phase {
	case engine.AwaitingObstacleDecision:
		r.DrawText(ObstacleMessage, x, y, TextColor)
	case engine.Over:
		_, th := r.DrawText(GameOverMessage, x, y, TextColor)
		r.DrawText(fmt.Sprintf("Final Score: %d", s.state.Score), x, y+th+10, TextColor)
	}
}

// Close logs the session summary. Calling it again is a no-op.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.log.Info("session closed",
		"phase", s.state.Phase,
		"score", s.state.Score,
		"length", len(s.state.Snake),
		"ticks", s.ticks)
	return nil
}
