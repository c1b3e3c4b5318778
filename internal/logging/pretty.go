package logging

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"time"
)

// PrettyJSONHandler writes one indented JSON object per record. It is meant
// for reading logs by eye, not for throughput.
type PrettyJSONHandler struct {
	w     io.Writer
	mu    *sync.Mutex
	level slog.Leveler

	attrs  []slog.Attr
	groups []string
}

func NewPrettyJSONHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyJSONHandler {
	var level slog.Leveler = slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level
	}
	return &PrettyJSONHandler{w: w, mu: &sync.Mutex{}, level: level}
}

func (h *PrettyJSONHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *PrettyJSONHandler) Handle(_ context.Context, r slog.Record) error {
	when := r.Time
	if when.IsZero() {
		when = time.Now()
	}
	payload := map[string]any{
		"time":  when.Format(time.RFC3339Nano),
		"level": r.Level.String(),
		"msg":   r.Message,
	}

	dst := payload
	for _, g := range h.groups {
		child := map[string]any{}
		dst[g] = child
		dst = child
	}
	for _, a := range h.attrs {
		putAttr(dst, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		putAttr(dst, a)
		return true
	})

	b, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	_, err = h.w.Write(append(b, '\n'))
	return err
}

func (h *PrettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &clone
}

// WithGroup nests later attributes. Attributes added before the group stay
// inside it as well, which is good enough for a console handler.
func (h *PrettyJSONHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = append(append([]string(nil), h.groups...), name)
	return &clone
}

func putAttr(dst map[string]any, a slog.Attr) {
	if a.Key == "" {
		return
	}
	v := a.Value.Resolve()
	switch v.Kind() {
	case slog.KindGroup:
		child := map[string]any{}
		for _, ga := range v.Group() {
			putAttr(child, ga)
		}
		dst[a.Key] = child
	case slog.KindDuration:
		dst[a.Key] = v.Duration().String()
	case slog.KindTime:
		dst[a.Key] = v.Time().Format(time.RFC3339Nano)
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			dst[a.Key] = err.Error()
			return
		}
		dst[a.Key] = v.Any()
	default:
		dst[a.Key] = v.Any()
	}
}
