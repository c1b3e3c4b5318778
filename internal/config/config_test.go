package config

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"snake-obstacles/internal/engine"
)

var envKeys = []string{
	"SNAKE_ENV_FILE", "SNAKE_SEED", "SNAKE_TICK",
	"SNAKE_LOG_LEVEL", "SNAKE_LOG_FORMAT", "SNAKE_LOG_FILE",
	"SNAKE_FONT", "SNAKE_BACKGROUND", "SNAKE_MUSIC", "SNAKE_EAT_SOUND", "SNAKE_GAMEOVER_SOUND",
}

// clearEnv unsets every SNAKE_* variable for the duration of the test and
// points the .env lookup at a file that does not exist.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	t.Setenv("SNAKE_ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
}

func TestDefault_Validates(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	b, err := cfg.Board()
	if err != nil {
		t.Fatalf("Board: %v", err)
	}
	if b.Width != 35 || b.Height != 25 {
		t.Fatalf("grid=%dx%d want 35x25", b.Width, b.Height)
	}
	if cfg.Start != (engine.Point{X: 15, Y: 15}) || cfg.Direction != engine.Right {
		t.Fatalf("start=%v dir=%v", cfg.Start, cfg.Direction)
	}

	cfg.Obstacles[0].X = 0
	if Obstacles[0].X != 100 {
		t.Fatalf("Default shares the package obstacle slice")
	}
}

func TestValidate_Rejects(t *testing.T) {
	cases := map[string]func(*Config){
		"block":     func(c *Config) { c.BlockSize = 30 },
		"zeroBlock": func(c *Config) { c.BlockSize = 0 },
		"tick":      func(c *Config) { c.TickDelay = 0 },
		"start":     func(c *Config) { c.Start = engine.Point{X: 40, Y: 0} },
		"obstacle":  func(c *Config) { c.Start = engine.Point{X: 5, Y: 6} },
		"direction": func(c *Config) { c.Direction = 0 },
		"level":     func(c *Config) { c.Log.Level = "loud" },
		"format":    func(c *Config) { c.Log.Format = "xml" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("snake", nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TickDelay != DefaultTickDelay || cfg.Seed != 0 || cfg.Log.Level != "info" {
		t.Fatalf("cfg=%+v", cfg)
	}
}

func TestLoad_EnvAndFlags(t *testing.T) {
	clearEnv(t)
	t.Setenv("SNAKE_SEED", "42")
	t.Setenv("SNAKE_TICK", "150ms")
	t.Setenv("SNAKE_LOG_FORMAT", "json")

	cfg, err := Load("snake", []string{"-seed", "7", "-music", "loop.mp3"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Seed != 7 {
		t.Errorf("seed=%d want flag value 7", cfg.Seed)
	}
	if cfg.TickDelay != 150*time.Millisecond {
		t.Errorf("tick=%s want env value 150ms", cfg.TickDelay)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("log format=%q", cfg.Log.Format)
	}
	if cfg.Assets.Music != "loop.mp3" {
		t.Errorf("music=%q", cfg.Assets.Music)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "snake.env")
	if err := os.WriteFile(path, []byte("SNAKE_SEED=99\nSNAKE_LOG_LEVEL=debug\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SNAKE_ENV_FILE", path)
	t.Cleanup(func() {
		os.Unsetenv("SNAKE_SEED")
		os.Unsetenv("SNAKE_LOG_LEVEL")
	})

	cfg, err := Load("snake", nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Seed != 99 || cfg.Log.Level != "debug" {
		t.Fatalf("seed=%d level=%q", cfg.Seed, cfg.Log.Level)
	}
}

func TestLoad_Errors(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{name: "badSeedEnv", env: map[string]string{"SNAKE_SEED": "many"}},
		{name: "badTickEnv", env: map[string]string{"SNAKE_TICK": "soon"}},
		{name: "negativeTick", args: []string{"-tick", "-5ms"}},
		{name: "badLevel", args: []string{"-log-level", "loud"}},
		{name: "unknownFlag", args: []string{"-speed", "3"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			if _, err := Load("snake", tc.args); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestLoad_Help(t *testing.T) {
	clearEnv(t)
	_, err := Load("snake", []string{"-h"})
	if !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("err=%v want flag.ErrHelp", err)
	}
}
