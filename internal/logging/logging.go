// Package logging provides the structured log sink for a run: an slog
// handler that writes one line per event in the form
//
//	timestamp - LEVEL - [context] message (key=value, …)
//
// to a date-stamped, append-only file. Rotation happens by calendar date:
// each day gets its own file, and old files are left for external cleanup.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// ComponentKey is the attribute that becomes the bracketed context of a
// log line. Use logger.With(logging.Component("cycle")) to set it.
const ComponentKey = "component"

// DefaultComponent is used when no component attribute is present.
const DefaultComponent = "autocoder"

// Component returns the attr that sets a line's bracketed context.
func Component(name string) slog.Attr {
	return slog.String(ComponentKey, name)
}

// LineHandler formats records as single text lines.
type LineHandler struct {
	mu        *sync.Mutex
	w         io.Writer
	level     slog.Leveler
	component string
	attrs     []slog.Attr
}

// NewLineHandler creates a handler writing to w at the given minimum level.
func NewLineHandler(w io.Writer, level slog.Leveler) *LineHandler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &LineHandler{
		mu:    &sync.Mutex{},
		w:     w,
		level: level,
	}
}

// Enabled implements slog.Handler.
func (h *LineHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle implements slog.Handler.
func (h *LineHandler) Handle(_ context.Context, r slog.Record) error {
	component := h.component
	var kvs []string

	collect := func(a slog.Attr) bool {
		if a.Key == ComponentKey {
			component = a.Value.String()
			return true
		}
		if a.Key != "" {
			kvs = append(kvs, a.Key+"="+a.Value.String())
		}
		return true
	}

	for _, a := range h.attrs {
		collect(a)
	}
	r.Attrs(collect)

	if component == "" {
		component = DefaultComponent
	}

	var b strings.Builder
	b.WriteString(r.Time.Format("2006-01-02 15:04:05"))
	b.WriteString(" - ")
	b.WriteString(r.Level.String())
	b.WriteString(" - [")
	b.WriteString(component)
	b.WriteString("] ")
	b.WriteString(r.Message)
	if len(kvs) > 0 {
		b.WriteString(" (")
		b.WriteString(strings.Join(kvs, ", "))
		b.WriteString(")")
	}
	b.WriteString("\n")

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

// WithAttrs implements slog.Handler.
func (h *LineHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append([]slog.Attr(nil), h.attrs...)
	for _, a := range attrs {
		if a.Key == ComponentKey {
			clone.component = a.Value.String()
			continue
		}
		clone.attrs = append(clone.attrs, a)
	}
	return &clone
}

// WithGroup implements slog.Handler. Groups are flattened: the line format
// has no nesting, so group names are folded into the context instead.
func (h *LineHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.component = name
	return &clone
}

// FileSink is an open, date-stamped log file with its logger.
type FileSink struct {
	Logger *slog.Logger
	Path   string

	file *os.File
}

// Close flushes and closes the underlying file.
func (s *FileSink) Close() error {
	if s.file == nil {
		return nil
	}
	return s.file.Close()
}

// DefaultDir returns the per-user log directory (~/.autocoder/logs).
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".autocoder", "logs"), nil
}

// Open creates (or appends to) today's log file in dir and returns a sink
// whose logger writes lines at the given level.
func Open(dir string, level slog.Leveler) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("autocoder-%s.log", time.Now().Format("2006-01-02")))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}

	return &FileSink{
		Logger: slog.New(NewLineHandler(f, level)),
		Path:   path,
		file:   f,
	}, nil
}
