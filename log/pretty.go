package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// palette holds the colors used by [prettyTextHandler].
// Every color is disabled when the output is not a terminal.
type palette struct {
	key, str, num, boolTrue, boolFalse, dur, time, err *color.Color
	trace, debug, info, warn, error                    *color.Color
}

func makePalette(enable bool) palette {
	paint := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enable {
			c.EnableColor()
		} else {
			c.DisableColor()
		}

		return c
	}

	return palette{
		key:       paint(color.FgHiBlack),
		str:       paint(color.FgCyan),
		num:       paint(color.FgYellow),
		boolTrue:  paint(color.FgGreen),
		boolFalse: paint(color.FgRed),
		dur:       paint(color.FgMagenta),
		time:      paint(color.FgBlue),
		err:       paint(color.FgRed),
		trace:     paint(color.FgHiBlack, color.Bold),
		debug:     paint(color.FgBlue, color.Bold),
		info:      paint(color.FgGreen, color.Bold),
		warn:      paint(color.FgYellow, color.Bold),
		error:     paint(color.FgRed, color.Bold),
	}
}

func (p palette) level(l Level) *color.Color {
	switch {
	case l >= LevelError:
		return p.error
	case l >= LevelWarn:
		return p.warn
	case l >= LevelInfo:
		return p.info
	case l >= LevelDebug:
		return p.debug
	default:
		return p.trace
	}
}

// IsTerminal reports whether w is a terminal that should receive colors.
// Setting NO_COLOR in the environment disables colors everywhere.
func IsTerminal(w io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}

	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// prettyTextHandler implements an aligned, colorized text handler.
type prettyTextHandler struct {
	opts       slog.HandlerOptions
	formatTime FormatTime
	colors     palette
	mu         *sync.Mutex
	w          io.Writer
	prefix     string // preformatted attributes from WithAttrs
	groups     []string
}

func newPrettyTextHandler(
	w io.Writer,
	formatTime FormatTime,
	opts *slog.HandlerOptions,
) *prettyTextHandler {
	if formatTime == nil {
		formatTime = makeFormatTimeFunc(DefaultTimeLayout)
	}

	return &prettyTextHandler{
		opts:       *opts,
		formatTime: formatTime,
		colors:     makePalette(IsTerminal(w)),
		mu:         &sync.Mutex{},
		w:          w,
	}
}

func (h *prettyTextHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}

	return level >= minLevel
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	if !r.Time.IsZero() {
		if ts := h.formatTime(r.Time); ts != "" {
			buf.WriteString(h.colors.key.Sprint(ts))
			buf.WriteByte(' ')
		}
	}

	level := Level(r.Level)
	buf.WriteString(
		h.colors.level(level).Sprintf("%-5s", strings.ToUpper(level.String())),
	)

	if h.opts.AddSource {
		if src := r.Source(); src != nil && src.File != "" {
			buf.WriteByte(' ')
			buf.WriteString(h.colors.key.Sprintf("%s:%d", src.File, src.Line))
		}
	}

	buf.WriteByte(' ')
	buf.WriteString(r.Message)
	buf.WriteString(h.prefix)

	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(buf, h.groups, a)

		return true
	})

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	buf := new(bytes.Buffer)
	for _, a := range attrs {
		h.writeAttr(buf, h.groups, a)
	}

	clone := *h
	clone.prefix = h.prefix + buf.String()

	return &clone
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	clone := *h
	clone.groups = append(h.groups[:len(h.groups):len(h.groups)], name)

	return &clone
}

func (h *prettyTextHandler) writeAttr(
	buf *bytes.Buffer,
	groups []string,
	a slog.Attr,
) {
	a.Value = a.Value.Resolve()

	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		inner := groups
		if a.Key != "" {
			inner = append(groups[:len(groups):len(groups)], a.Key)
		}

		for _, ga := range a.Value.Group() {
			h.writeAttr(buf, inner, ga)
		}

		return
	}

	key := a.Key
	if len(groups) > 0 {
		key = strings.Join(groups, ".") + "." + key
	}

	buf.WriteByte(' ')
	buf.WriteString(h.colors.key.Sprint(key + "="))
	h.writeValue(buf, a.Value)
}

func (h *prettyTextHandler) writeValue(buf *bytes.Buffer, v slog.Value) {
	switch v.Kind() {
	case slog.KindString:
		buf.WriteString(h.colors.str.Sprint(quoteIfNeeded(v.String())))

	case slog.KindInt64:
		buf.WriteString(h.colors.num.Sprint(strconv.FormatInt(v.Int64(), 10)))

	case slog.KindUint64:
		buf.WriteString(h.colors.num.Sprint(strconv.FormatUint(v.Uint64(), 10)))

	case slog.KindFloat64:
		buf.WriteString(
			h.colors.num.Sprint(strconv.FormatFloat(v.Float64(), 'g', -1, 64)),
		)

	case slog.KindBool:
		if v.Bool() {
			buf.WriteString(h.colors.boolTrue.Sprint("true"))
		} else {
			buf.WriteString(h.colors.boolFalse.Sprint("false"))
		}

	case slog.KindDuration:
		buf.WriteString(h.colors.dur.Sprint(v.Duration().String()))

	case slog.KindTime:
		buf.WriteString(h.colors.time.Sprint(h.formatTime(v.Time())))

	case slog.KindAny:
		switch val := v.Any().(type) {
		case error:
			buf.WriteString(h.colors.err.Sprint(quoteIfNeeded(val.Error())))
		case slog.Level:
			buf.WriteString(h.colors.level(Level(val)).Sprint(Level(val).String()))
		default:
			buf.WriteString(h.colors.str.Sprint(quoteIfNeeded(fmt.Sprint(val))))
		}

	default:
		buf.WriteString(h.colors.str.Sprint(quoteIfNeeded(v.String())))
	}
}

// quoteIfNeeded quotes s when it is empty or contains characters that would
// make the key=value output ambiguous.
func quoteIfNeeded(s string) string {
	if s == "" || strings.ContainsAny(s, " \t\r\n\"=") {
		return strconv.Quote(s)
	}

	return s
}
