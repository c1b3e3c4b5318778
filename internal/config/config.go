// Package config holds the game geometry and the runtime knobs shared by
// both front-ends.
//
// Geometry and rules are compile-time defaults. Seed, tick delay, assets and
// logging can be set by flag, by SNAKE_* environment variables, or by a
// .env file, in that order of precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"snake-obstacles/internal/engine"
	"snake-obstacles/internal/logging"
)

const (
	ScreenWidth  = 700
	ScreenHeight = 500
	BlockSize    = 20

	DefaultTickDelay = 100 * time.Millisecond
	DefaultTitle     = "Snake Game"
)

// Obstacles are the three static bars, in pixels.
var Obstacles = []engine.Rect{
	{X: 100, Y: 120, W: 200, H: 20},
	{X: 420, Y: 360, W: 200, H: 20},
	{X: 300, Y: 240, W: 100, H: 20},
}

// Assets are optional files. Empty paths select the built-in fallbacks.
type Assets struct {
	Font          string
	Background    string
	Music         string
	EatSound      string
	GameOverSound string
}

type Config struct {
	Title        string
	ScreenWidth  int
	ScreenHeight int
	BlockSize    int
	Obstacles    []engine.Rect

	Start     engine.Point
	Direction engine.Direction
	Food      engine.Point

	TickDelay time.Duration
	Seed      int64 // 0 seeds from the clock

	Assets Assets
	Log    logging.Options
}

func Default() Config {
	obs := make([]engine.Rect, len(Obstacles))
	copy(obs, Obstacles)
	return Config{
		Title:        DefaultTitle,
		ScreenWidth:  ScreenWidth,
		ScreenHeight: ScreenHeight,
		BlockSize:    BlockSize,
		Obstacles:    obs,
		Start:        engine.Point{X: 15, Y: 15},
		Direction:    engine.Right,
		Food:         engine.Point{X: 10, Y: 10},
		TickDelay:    DefaultTickDelay,
		Log:          logging.Options{Level: "info", Format: "text"},
	}
}

// Board derives the grid geometry.
func (c Config) Board() (engine.Board, error) {
	return engine.NewBoard(c.ScreenWidth, c.ScreenHeight, c.BlockSize, c.Obstacles)
}

func (c Config) Validate() error {
	if c.BlockSize <= 0 || c.ScreenWidth%c.BlockSize != 0 || c.ScreenHeight%c.BlockSize != 0 {
		return fmt.Errorf("config: block size %d must divide screen %dx%d", c.BlockSize, c.ScreenWidth, c.ScreenHeight)
	}
	if c.TickDelay <= 0 {
		return fmt.Errorf("config: tick delay must be positive, got %s", c.TickDelay)
	}
	b, err := c.Board()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if !b.Contains(c.Start) {
		return fmt.Errorf("config: start cell %v outside the %dx%d grid", c.Start, b.Width, b.Height)
	}
	if b.HitsObstacle(c.Start) {
		return fmt.Errorf("config: start cell %v is inside an obstacle", c.Start)
	}
	if !c.Direction.Valid() {
		return fmt.Errorf("config: invalid start direction %v", c.Direction)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := logging.ParseFormat(c.Log.Format); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Load builds a Config for the named program from args, the environment,
// and an optional .env file (SNAKE_ENV_FILE overrides the path).
func Load(name string, args []string) (Config, error) {
	if err := loadDotEnv(getEnvOrDefault("SNAKE_ENV_FILE", ".env")); err != nil {
		return Config{}, err
	}

	cfg := Default()
	seed, err := getEnvInt64OrDefault("SNAKE_SEED", 0)
	if err != nil {
		return Config{}, err
	}
	tick, err := getEnvDurationOrDefault("SNAKE_TICK", DefaultTickDelay)
	if err != nil {
		return Config{}, err
	}

	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.Int64Var(&cfg.Seed, "seed", seed, "Random seed for food placement (0 = clock)")
	flags.DurationVar(&cfg.TickDelay, "tick", tick, "Delay between game ticks")
	flags.StringVar(&cfg.Log.Level, "log-level", getEnvOrDefault("SNAKE_LOG_LEVEL", cfg.Log.Level), "Log level: debug, info, warn, error")
	flags.StringVar(&cfg.Log.Format, "log-format", getEnvOrDefault("SNAKE_LOG_FORMAT", cfg.Log.Format), "Log format: text, json, pretty")
	flags.StringVar(&cfg.Log.File, "log-file", getEnvOrDefault("SNAKE_LOG_FILE", ""), "Append logs to this file instead of stderr")
	flags.StringVar(&cfg.Assets.Font, "font", getEnvOrDefault("SNAKE_FONT", ""), "TrueType font for on-screen text")
	flags.StringVar(&cfg.Assets.Background, "background", getEnvOrDefault("SNAKE_BACKGROUND", ""), "Background image (.png, .jpg, .bmp)")
	flags.StringVar(&cfg.Assets.Music, "music", getEnvOrDefault("SNAKE_MUSIC", ""), "Looping background music (.wav, .mp3)")
	flags.StringVar(&cfg.Assets.EatSound, "eat-sound", getEnvOrDefault("SNAKE_EAT_SOUND", ""), "Eat sound effect (.wav, .mp3)")
	flags.StringVar(&cfg.Assets.GameOverSound, "gameover-sound", getEnvOrDefault("SNAKE_GAMEOVER_SOUND", ""), "Game over sound effect (.wav, .mp3)")
	if err := flags.Parse(args); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// loadDotEnv applies path without overriding variables already set.
// A missing file is not an error.
func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: load %s: %w", path, err)
	}
	return nil
}

func getEnvOrDefault(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getEnvInt64OrDefault(key string, def int64) (int64, error) {
	v := getEnvOrDefault(key, "")
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q: %w", key, v, err)
	}
	return n, nil
}

func getEnvDurationOrDefault(key string, def time.Duration) (time.Duration, error) {
	v := getEnvOrDefault(key, "")
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s=%q: %w", key, v, err)
	}
	return d, nil
}
