// Command snake-tui plays the obstacle Snake game in a terminal.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"snake-obstacles/internal/config"
	"snake-obstacles/internal/logging"
	"snake-obstacles/internal/placement"
	"snake-obstacles/internal/session"
)

const defaultLogFile = "snake-tui.log"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, err := config.Load("snake-tui", args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	// Logging to the terminal would tear the board.
	if cfg.Log.File == "" {
		cfg.Log.File = defaultLogFile
	}
	logger, closer, err := logging.Open(cfg.Log, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	defer closer.Close()

	board, err := cfg.Board()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	sounds := &statusAudio{}
	sess, err := session.New(session.Options{
		Board:         board,
		Start:         cfg.Start,
		Direction:     cfg.Direction,
		Food:          cfg.Food,
		FramesPerTick: 1,
		Sampler:       placement.NewSeeded(cfg.Seed),
		Logger:        logger,
	}, sounds)
	if err != nil {
		logger.Error("startup failed", "err", err)
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer sess.Close()

	p := tea.NewProgram(newModel(sess, board, cfg.TickDelay, sounds), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		logger.Error("terminal program failed", "err", err)
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if m, ok := final.(model); ok && m.err != nil {
		logger.Error("game stopped", "err", m.err)
		fmt.Fprintln(os.Stderr, m.err)
		return 1
	}
	return 0
}
