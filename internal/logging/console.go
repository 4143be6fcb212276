package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"
)

const consoleTimeLayout = "2006-01-02 15:04:05"

// consoleHandler writes one human-readable line per record:
//
//	2026-01-02 15:04:05 INFO [1a2b3c4d] session: labeled batch clips=3
//
// Attributes bound with With are rendered once and reused.
type consoleHandler struct {
	mu     *sync.Mutex
	out    io.Writer
	level  slog.Leveler
	caller bool

	component string
	runID     string
	prefix    string
	bound     []byte
}

func newConsoleHandler(out io.Writer, level slog.Leveler, caller bool) *consoleHandler {
	return &consoleHandler{mu: &sync.Mutex{}, out: out, level: level, caller: caller}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) Handle(_ context.Context, r slog.Record) error {
	component, runID := h.component, h.runID
	var fields []byte
	r.Attrs(func(a slog.Attr) bool {
		if h.prefix == "" {
			switch a.Key {
			case FieldComponent:
				component = a.Value.Resolve().String()
				return true
			case FieldRunID:
				runID = shortRunID(a.Value.Resolve().String())
				return true
			}
		}
		fields = appendField(fields, h.prefix, a)
		return true
	})

	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	line := make([]byte, 0, 96+len(h.bound)+len(fields))
	line = ts.Local().AppendFormat(line, consoleTimeLayout)
	line = append(line, ' ')
	line = append(line, levelName(r.Level)...)
	line = append(line, ' ')
	if runID != "" {
		line = append(line, '[')
		line = append(line, runID...)
		line = append(line, "] "...)
	}
	if component != "" {
		line = append(line, component...)
		line = append(line, ": "...)
	}
	msg := strings.TrimSpace(r.Message)
	if msg == "" {
		msg = "(no message)"
	}
	line = append(line, msg...)
	if h.caller && r.PC != 0 {
		frame, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
		if frame.File != "" {
			line = fmt.Appendf(line, " [%s:%d]", filepath.Base(frame.File), frame.Line)
		}
	}
	line = append(line, h.bound...)
	line = append(line, fields...)
	line = append(line, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.Write(line)
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	next := h.clone()
	for _, a := range attrs {
		if next.prefix == "" {
			switch a.Key {
			case FieldComponent:
				next.component = a.Value.Resolve().String()
				continue
			case FieldRunID:
				next.runID = shortRunID(a.Value.Resolve().String())
				continue
			}
		}
		next.bound = appendField(next.bound, next.prefix, a)
	}
	return next
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := h.clone()
	next.prefix += name + "."
	return next
}

func (h *consoleHandler) clone() *consoleHandler {
	next := *h
	next.bound = append([]byte(nil), h.bound...)
	return &next
}

// shortRunID keeps console lines narrow; JSON output carries the full value.
func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func levelName(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}

// appendField renders a as " key=value", flattening groups into dotted keys.
func appendField(buf []byte, prefix string, a slog.Attr) []byte {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return buf
	}
	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}
		for _, member := range a.Value.Group() {
			buf = appendField(buf, prefix, member)
		}
		return buf
	}
	buf = append(buf, ' ')
	buf = append(buf, prefix...)
	buf = append(buf, a.Key...)
	buf = append(buf, '=')
	return appendValue(buf, a.Value)
}

func appendValue(buf []byte, v slog.Value) []byte {
	var text string
	switch v.Kind() {
	case slog.KindTime:
		text = v.Time().UTC().Format(time.RFC3339)
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			text = err.Error()
		} else {
			text = fmt.Sprint(v.Any())
		}
	default:
		text = v.String()
	}
	if text == "" || strings.ContainsFunc(text, needsQuote) {
		return strconv.AppendQuote(buf, text)
	}
	return append(buf, text...)
}

func needsQuote(r rune) bool {
	return unicode.IsSpace(r) || unicode.IsControl(r) || r == '=' || r == '"'
}
