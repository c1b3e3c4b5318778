// Package logging builds the slog loggers used by the front-ends.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Options selects the level and output format of a logger.
type Options struct {
	Level  string // debug, info, warn, error
	Format string // text, json, pretty
	File   string // empty logs to the fallback writer
}

type Format string

const (
	FormatText   Format = "text"
	FormatJSON   Format = "json"
	FormatPretty Format = "pretty"
)

func ParseLevel(s string) (slog.Level, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return slog.LevelInfo, nil
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
	return l, nil
}

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON, FormatPretty:
		return f, nil
	}
	return "", fmt.Errorf("unknown log format %q", s)
}

// New returns a logger writing to w.
func New(w io.Writer, opts Options) (*slog.Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	format, err := ParseFormat(opts.Format)
	if err != nil {
		return nil, err
	}

	hopts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	switch format {
	case FormatJSON:
		h = slog.NewJSONHandler(w, hopts)
	case FormatPretty:
		h = NewPrettyJSONHandler(w, hopts)
	default:
		h = slog.NewTextHandler(w, hopts)
	}
	return slog.New(h), nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open returns a logger for opts. When opts.File is set the file is opened
// for append and must be closed by the caller; otherwise logs go to fallback.
func Open(opts Options, fallback io.Writer) (*slog.Logger, io.Closer, error) {
	if opts.File == "" {
		l, err := New(fallback, opts)
		return l, nopCloser{}, err
	}
	f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	l, err := New(f, opts)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return l, f, nil
}
