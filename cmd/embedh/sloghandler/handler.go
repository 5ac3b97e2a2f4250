package sloghandler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"strings"
	"sync"

	"github.com/fatih/color"
)

var levelToIcon = map[slog.Level]string{
	slog.LevelDebug: color.New(color.FgHiBlack).Sprint("(-)"),
	slog.LevelInfo:  color.New(color.FgGreen).Sprint("(✓)"),
	slog.LevelWarn:  color.New(color.FgYellow).Sprint("(!)"),
	slog.LevelError: color.New(color.FgRed).Sprint("(✗)"),
}

func NewHandler(w io.Writer, opts *slog.HandlerOptions) *Handler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return &Handler{
		w:    w,
		opts: opts,
		mu:   &sync.Mutex{},
	}
}

type Handler struct {
	w    io.Writer
	opts *slog.HandlerOptions
	// mu is shared between clones so writes to w never interleave.
	mu    *sync.Mutex
	attrs []slog.Attr
	group string
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	sb := new(strings.Builder)
	sb.WriteString(levelToIcon[r.Level])
	sb.WriteString(" ")
	sb.WriteString(r.Message)
	for _, attr := range h.attrs {
		h.writeAttr(sb, attr)
	}
	r.Attrs(func(attr slog.Attr) bool {
		h.writeAttr(sb, attr)
		return true
	})
	if h.opts.AddSource && r.PC != 0 {
		frames := runtime.CallersFrames([]uintptr{r.PC})
		frame, _ := frames.Next()
		fmt.Fprintf(sb, " source=%s:%d", frame.File, frame.Line)
	}
	sb.WriteString("\n")

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, sb.String())
	return err
}

func (h *Handler) writeAttr(sb *strings.Builder, attr slog.Attr) {
	if attr.Equal(slog.Attr{}) {
		return
	}
	key := attr.Key
	if h.group != "" {
		key = h.group + "." + key
	}
	fmt.Fprintf(sb, " %s=%v", key, attr.Value)
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h2 := *h
	h2.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &h2
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := *h
	if h2.group != "" {
		h2.group += "." + name
	} else {
		h2.group = name
	}
	return &h2
}
