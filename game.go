package main

import (
	"errors"
	"image/color"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"snake-obstacles/internal/config"
	"snake-obstacles/internal/engine"
	"snake-obstacles/internal/placement"
	"snake-obstacles/internal/session"
)

var (
	bgColor   = color.RGBA{0, 0, 0, 255}
	gridColor = color.RGBA{24, 24, 28, 255}
)

type Game struct {
	cfg          config.Config
	board        engine.Board
	session      *session.Session
	input        *keyboardInput
	renderer     *screenRenderer
	sounds       *soundBank
	background   *ebiten.Image
	isFullscreen bool // Track maximized state
	log          *slog.Logger
}

func NewGame(cfg config.Config, logger *slog.Logger) (*Game, error) {
	board, err := cfg.Board()
	if err != nil {
		return nil, err
	}
	face, err := loadFace(cfg.Assets.Font)
	if err != nil {
		return nil, err
	}
	bg, err := loadBackground(cfg.Assets.Background)
	if err != nil {
		return nil, err
	}
	sounds, err := newSoundBank(audio.NewContext(sampleRate), cfg.Assets, logger)
	if err != nil {
		return nil, err
	}

	sess, err := session.New(session.Options{
		Board:         board,
		Start:         cfg.Start,
		Direction:     cfg.Direction,
		Food:          cfg.Food,
		FramesPerTick: session.FramesPerTick(cfg.TickDelay, ebiten.DefaultTPS),
		Sampler:       placement.NewSeeded(cfg.Seed),
		Logger:        logger,
	}, sounds)
	if err != nil {
		sounds.Close()
		return nil, err
	}

	return &Game{
		cfg:        cfg,
		board:      board,
		session:    sess,
		input:      &keyboardInput{},
		renderer:   &screenRenderer{block: board.BlockSize, face: face},
		sounds:     sounds,
		background: bg,
		log:        logger.With("session", sess.ID()),
	}, nil
}

func (g *Game) Update() error {
	// Toggle maximized with F key
	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		g.isFullscreen = !g.isFullscreen
		if g.isFullscreen {
			ebiten.MaximizeWindow()
		} else {
			g.restoreWindow()
		}
		g.log.Debug("window toggled", "maximized", g.isFullscreen)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) && g.isFullscreen {
		g.isFullscreen = false
		g.restoreWindow()
	}

	err := g.session.Advance(g.input.poll())
	if errors.Is(err, session.ErrQuit) {
		return ebiten.Termination
	}
	return err
}

func (g *Game) restoreWindow() {
	ebiten.RestoreWindow()
	ebiten.SetWindowSize(g.cfg.ScreenWidth, g.cfg.ScreenHeight)
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(bgColor)
	w, h := g.board.PixelSize()
	if g.background != nil {
		op := &ebiten.DrawImageOptions{}
		bw, bh := g.background.Bounds().Dx(), g.background.Bounds().Dy()
		op.GeoM.Scale(float64(w)/float64(bw), float64(h)/float64(bh))
		screen.DrawImage(g.background, op)
	} else {
		for x := 0; x < g.board.Width; x++ {
			ebitenutil.DrawRect(screen, float64(x*g.board.BlockSize), 0, 1, float64(h), gridColor)
		}
		for y := 0; y < g.board.Height; y++ {
			ebitenutil.DrawRect(screen, 0, float64(y*g.board.BlockSize), float64(w), 1, gridColor)
		}
	}

	g.renderer.screen = screen
	g.session.Draw(g.renderer)
}

// Layout keeps the logical screen fixed; ebiten scales it to the window.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.isFullscreen = ebiten.IsWindowMaximized()
	return g.board.PixelSize()
}

func (g *Game) Close() error {
	g.session.Close()
	return g.sounds.Close()
}

// keyboardInput snapshots the keys pressed this frame.
type keyboardInput struct {
	keys []ebiten.Key
}

var directionKeys = []struct {
	key ebiten.Key
	dir engine.Direction
}{
	{ebiten.KeyArrowUp, engine.Up},
	{ebiten.KeyW, engine.Up},
	{ebiten.KeyArrowDown, engine.Down},
	{ebiten.KeyS, engine.Down},
	{ebiten.KeyArrowLeft, engine.Left},
	{ebiten.KeyA, engine.Left},
	{ebiten.KeyArrowRight, engine.Right},
	{ebiten.KeyD, engine.Right},
}

func (k *keyboardInput) poll() *keyboardInput {
	k.keys = inpututil.AppendJustPressedKeys(k.keys[:0])
	return k
}

func (k *keyboardInput) pressed(key ebiten.Key) bool {
	for _, p := range k.keys {
		if p == key {
			return true
		}
	}
	return false
}

func (k *keyboardInput) Direction() (engine.Direction, bool) {
	for _, dk := range directionKeys {
		if k.pressed(dk.key) {
			return dk.dir, true
		}
	}
	return 0, false
}

func (k *keyboardInput) QuitRequested() bool {
	return ebiten.IsWindowBeingClosed()
}

func (k *keyboardInput) ModalChoice() (engine.Choice, bool) {
	switch {
	case k.pressed(ebiten.KeyY):
		return engine.Continue, true
	case k.pressed(ebiten.KeyN):
		return engine.Quit, true
	}
	return 0, false
}

// Acknowledged ignores the window keys so restoring the window does not
// close the game.
func (k *keyboardInput) Acknowledged() bool {
	for _, p := range k.keys {
		if p != ebiten.KeyF && p != ebiten.KeyEscape {
			return true
		}
	}
	return false
}

type screenRenderer struct {
	screen *ebiten.Image
	block  int
	face   text.Face
}

func (r *screenRenderer) DrawCell(x, y int, c color.Color) {
	b := float64(r.block)
	ebitenutil.DrawRect(r.screen, float64(x)*b, float64(y)*b, b, b, c)
}

func (r *screenRenderer) DrawRect(rect engine.Rect, c color.Color) {
	vector.DrawFilledRect(r.screen, float32(rect.X), float32(rect.Y), float32(rect.W), float32(rect.H), c, false)
}

func (r *screenRenderer) DrawText(s string, x, y int, c color.Color) (int, int) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(c)
	text.Draw(r.screen, s, r.face, op)
	w, h := text.Measure(s, r.face, 0)
	return int(w), int(h)
}
