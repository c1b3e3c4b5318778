package main

import (
	"errors"
	"fmt"
	"image/color"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"snake-obstacles/internal/engine"
	"snake-obstacles/internal/session"
)

// soundTicks is how long a sound tag stays on screen.
const soundTicks = 3

var (
	emptyCell = lipgloss.NewStyle().Foreground(lipgloss.Color("#303030")).Render(" .")
	textStyle = lipgloss.NewStyle().Bold(true)
	tagStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffd700"))
	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
)

type tickMsg time.Time

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

type model struct {
	sess   *session.Session
	board  engine.Board
	delay  time.Duration
	keys   *keyInput
	sounds *statusAudio
	err    error
}

func newModel(sess *session.Session, board engine.Board, delay time.Duration, sounds *statusAudio) model {
	return model{
		sess:   sess,
		board:  board,
		delay:  delay,
		keys:   &keyInput{},
		sounds: sounds,
	}
}

func (m model) Init() tea.Cmd {
	return tickCmd(m.delay)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.keys.quit = true
			return m.advance(nil)
		}
		m.keys.record(msg.String())
	case tickMsg:
		return m.advance(tickCmd(m.delay))
	}
	return m, nil
}

// advance runs one session frame with the keys seen since the last one.
func (m model) advance(next tea.Cmd) (tea.Model, tea.Cmd) {
	err := m.sess.Advance(m.keys)
	m.keys.reset()
	m.sounds.fade()
	switch {
	case errors.Is(err, session.ErrQuit):
		return m, tea.Quit
	case err != nil:
		m.err = err
		return m, tea.Quit
	}
	return m, next
}

func (m model) View() string {
	c := newCanvas(m.board)
	m.sess.Draw(c)

	var sb strings.Builder
	sb.WriteString(c.render())
	for _, line := range c.lines {
		sb.WriteString(textStyle.Render(line))
		sb.WriteByte('\n')
	}
	if tag := m.sounds.tag(); tag != "" {
		sb.WriteString(tagStyle.Render(tag))
		sb.WriteByte('\n')
	}
	sb.WriteString(helpStyle.Render("arrows/wasd: move  y/n: answer prompt  q: quit"))
	sb.WriteByte('\n')
	return sb.String()
}

// keyInput collects key presses between ticks.
type keyInput struct {
	dir    engine.Direction
	choice engine.Choice
	ack    bool
	quit   bool
}

var keyDirections = map[string]engine.Direction{
	"up": engine.Up, "w": engine.Up,
	"down": engine.Down, "s": engine.Down,
	"left": engine.Left, "a": engine.Left,
	"right": engine.Right, "d": engine.Right,
}

func (k *keyInput) record(key string) {
	k.ack = true
	if d, ok := keyDirections[key]; ok {
		k.dir = d
	}
	switch key {
	case "y", "Y":
		k.choice = engine.Continue
	case "n", "N":
		k.choice = engine.Quit
	}
}

func (k *keyInput) reset() { *k = keyInput{} }

func (k *keyInput) Direction() (engine.Direction, bool) { return k.dir, k.dir != 0 }
func (k *keyInput) QuitRequested() bool                 { return k.quit }
func (k *keyInput) ModalChoice() (engine.Choice, bool)  { return k.choice, k.choice != 0 }
func (k *keyInput) Acknowledged() bool                  { return k.ack }

// statusAudio shows sounds as a short tag under the board.
type statusAudio struct {
	music bool
	last  session.Sound
	ttl   int
}

func (a *statusAudio) Play(s session.Sound) {
	a.last = s
	a.ttl = soundTicks
}

func (a *statusAudio) PlayMusicLoop() { a.music = true }

func (a *statusAudio) fade() {
	if a.ttl > 0 {
		a.ttl--
	}
}

func (a *statusAudio) tag() string {
	var parts []string
	if a.music {
		parts = append(parts, "[music]")
	}
	if a.ttl > 0 {
		parts = append(parts, fmt.Sprintf("[%s]", a.last))
	}
	return strings.Join(parts, " ")
}

// canvas is a session.Renderer over terminal cells, two columns per cell.
type canvas struct {
	board  engine.Board
	cells  [][]color.Color
	lines  []string
	styles map[string]string
}

func newCanvas(b engine.Board) *canvas {
	cells := make([][]color.Color, b.Height)
	for y := range cells {
		cells[y] = make([]color.Color, b.Width)
	}
	return &canvas{board: b, cells: cells, styles: map[string]string{}}
}

func (c *canvas) DrawCell(x, y int, col color.Color) {
	if c.board.Contains(engine.Point{X: x, Y: y}) {
		c.cells[y][x] = col
	}
}

func (c *canvas) DrawRect(r engine.Rect, col color.Color) {
	for y := 0; y < c.board.Height; y++ {
		for x := 0; x < c.board.Width; x++ {
			if c.board.CellRect(engine.Point{X: x, Y: y}).Intersects(r) {
				c.cells[y][x] = col
			}
		}
	}
}

// DrawText ignores the position: text goes below the board in call order.
func (c *canvas) DrawText(text string, _, _ int, _ color.Color) (int, int) {
	c.lines = append(c.lines, text)
	return len(text), 1
}

func (c *canvas) render() string {
	var sb strings.Builder
	for _, row := range c.cells {
		for _, col := range row {
			if col == nil {
				sb.WriteString(emptyCell)
				continue
			}
			sb.WriteString(c.block(col))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (c *canvas) block(col color.Color) string {
	hex := toHex(col)
	if s, ok := c.styles[hex]; ok {
		return s
	}
	s := lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render("  ")
	c.styles[hex] = s
	return s
}

func toHex(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}
