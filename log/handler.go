// Package log provides the slog handlers used by the capability host: a
// colored line handler for terminals and the standard JSON handler for
// machine consumption.
package log

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/fatih/color"
)

// ColorHandler implements slog.Handler and writes one colored line per record:
//
//	15:04:05.000 INFO  capability host ready business="AutoGroup North" groups=3
type ColorHandler struct {
	mu     *sync.Mutex
	w      io.Writer
	opts   handlerConfig
	attrs  []byte // pre-formatted attributes from WithAttrs
	prefix string // group prefix from WithGroup
}

// HandlerOption configures the ColorHandler.
type HandlerOption func(*handlerConfig)

type handlerConfig struct {
	level     slog.Leveler
	addSource bool
	color     bool
}

// defaultHandlerConfig returns the default configuration.
func defaultHandlerConfig() handlerConfig {
	return handlerConfig{
		level: slog.LevelInfo,
		color: !color.NoColor,
	}
}

// WithLevel sets the minimum log level to report.
func WithLevel(level slog.Leveler) HandlerOption {
	return func(c *handlerConfig) {
		c.level = level
	}
}

// WithSource enables reporting of source location (file/line).
func WithSource(enabled bool) HandlerOption {
	return func(c *handlerConfig) {
		c.addSource = enabled
	}
}

// WithColor forces colored output on or off. By default color follows the
// terminal detection of fatih/color.
func WithColor(enabled bool) HandlerOption {
	return func(c *handlerConfig) {
		c.color = enabled
	}
}

// NewHandler creates a new ColorHandler writing to w.
func NewHandler(w io.Writer, opts ...HandlerOption) *ColorHandler {
	cfg := defaultHandlerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &ColorHandler{mu: &sync.Mutex{}, w: w, opts: cfg}
}

// Enabled reports whether the handler handles records at the given level.
func (h *ColorHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.level.Level()
}

// Handle formats the record and writes it as a single line.
func (h *ColorHandler) Handle(_ context.Context, record slog.Record) error {
	var buf bytes.Buffer

	if !record.Time.IsZero() {
		buf.WriteString(h.paint(timeColor, record.Time.Format("15:04:05.000")))
		buf.WriteByte(' ')
	}
	buf.WriteString(h.paint(levelColor(record.Level), levelLabel(record.Level)))
	buf.WriteByte(' ')
	buf.WriteString(record.Message)

	if h.opts.addSource && record.PC != 0 {
		frames := runtime.CallersFrames([]uintptr{record.PC})
		f, _ := frames.Next()
		buf.WriteByte(' ')
		buf.WriteString(h.paint(keyColor, "source="))
		buf.WriteString(f.File + ":" + strconv.Itoa(f.Line))
	}

	buf.Write(h.attrs)
	record.Attrs(func(attr slog.Attr) bool {
		h.appendAttr(&buf, h.prefix, attr)
		return true
	})
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf.Bytes())
	return err
}

// WithAttrs returns a new ColorHandler that includes the given attributes.
func (h *ColorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	var buf bytes.Buffer
	buf.Write(h.attrs)
	for _, a := range attrs {
		h.appendAttr(&buf, h.prefix, a)
	}
	clone := *h
	clone.attrs = buf.Bytes()
	return &clone
}

// WithGroup returns a new ColorHandler that qualifies later attribute keys
// with name.
func (h *ColorHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.prefix = h.prefix + name + "."
	return &clone
}

func (h *ColorHandler) appendAttr(buf *bytes.Buffer, prefix string, attr slog.Attr) {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return
	}

	if attr.Value.Kind() == slog.KindGroup {
		group := attr.Value.Group()
		if len(group) == 0 {
			return
		}
		if attr.Key != "" {
			prefix += attr.Key + "."
		}
		for _, a := range group {
			h.appendAttr(buf, prefix, a)
		}
		return
	}

	buf.WriteByte(' ')
	buf.WriteString(h.paint(keyColor, prefix+attr.Key+"="))
	value := formatValue(attr.Value)
	if attr.Key == "error" || attr.Key == "err" {
		value = h.paint(errorColor, value)
	}
	buf.WriteString(value)
}

func (h *ColorHandler) paint(c *color.Color, s string) string {
	if !h.opts.color {
		return s
	}
	return c.Sprint(s)
}

var (
	timeColor  = color.New(color.Faint)
	keyColor   = color.New(color.FgCyan)
	errorColor = color.New(color.FgRed)
	debugColor = color.New(color.FgMagenta)
	infoColor  = color.New(color.FgGreen)
	warnColor  = color.New(color.FgYellow)
	errColor   = color.New(color.FgRed, color.Bold)
)

func init() {
	// Painting is decided per handler by WithColor.
	for _, c := range []*color.Color{timeColor, keyColor, errorColor, debugColor, infoColor, warnColor, errColor} {
		c.EnableColor()
	}
}

func levelColor(level slog.Level) *color.Color {
	switch {
	case level >= slog.LevelError:
		return errColor
	case level >= slog.LevelWarn:
		return warnColor
	case level >= slog.LevelInfo:
		return infoColor
	default:
		return debugColor
	}
}

// levelLabel pads the level to five characters so messages line up.
func levelLabel(level slog.Level) string {
	s := level.String()
	for len(s) < 5 {
		s += " "
	}
	return s
}

// durationMillis formats d as fractional milliseconds.
func durationMillis(d time.Duration) string {
	return strconv.FormatFloat(float64(d)/float64(time.Millisecond), 'f', 3, 64) + "ms"
}
