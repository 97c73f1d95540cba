package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
)

// ANSI color codes for pretty printing.
const (
	colorReset   = "\033[0m"
	colorGray    = "\033[90m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorBlue    = "\033[34m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
)

// prettyHandler writes colorized records for a terminal.
//
// In [FormatText] each record is one line of key=value pairs, with the keys
// of nested groups joined by dots. In [FormatJSON] each record is an indented
// object and groups become nested objects.
type prettyHandler struct {
	opts       slog.HandlerOptions
	format     Format
	formatTime FormatTime
	mu         *sync.Mutex
	w          io.Writer
	attrs      []slog.Attr // from WithAttrs, nested in the groups open then
	groups     []string
}

func newPrettyHandler(
	w io.Writer,
	format Format,
	formatTime FormatTime,
	opts *slog.HandlerOptions,
) *prettyHandler {
	return &prettyHandler{
		opts:       *opts,
		format:     format,
		formatTime: formatTime,
		mu:         &sync.Mutex{},
		w:          w,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}

	return level >= minLevel
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	head := make([]slog.Attr, 0, 4+len(h.attrs))

	if !r.Time.IsZero() && h.formatTime != nil {
		if s := h.formatTime(r.Time); s != "" {
			head = append(head, slog.String(slog.TimeKey, s))
		}
	}

	head = append(head, slog.Any(slog.LevelKey, r.Level))

	if h.opts.AddSource {
		if src := r.Source(); src != nil && src.File != "" {
			head = append(head,
				slog.String(slog.SourceKey, fmt.Sprintf("%s:%d", src.File, src.Line)))
		}
	}

	head = append(head, slog.String(slog.MessageKey, r.Message))
	head = append(head, h.attrs...)

	own := make([]slog.Attr, 0, r.NumAttrs())
	r.Attrs(func(a slog.Attr) bool {
		own = append(own, a)

		return true
	})

	attrs := append(head, nest(h.groups, own)...)

	buf := new(bytes.Buffer)

	if h.format == FormatJSON {
		writeObject(buf, attrs, 1)
	} else {
		writeFlat(buf, "", attrs)
	}

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}

	c := *h
	c.attrs = append(h.attrs[:len(h.attrs):len(h.attrs)], nest(h.groups, attrs)...)

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.groups = append(h.groups[:len(h.groups):len(h.groups)], name)

	return &c
}

// nest wraps attrs in the given groups, outermost first.
func nest(groups []string, attrs []slog.Attr) []slog.Attr {
	if len(attrs) == 0 {
		return nil
	}

	for i := len(groups) - 1; i >= 0; i-- {
		attrs = []slog.Attr{{Key: groups[i], Value: slog.GroupValue(attrs...)}}
	}

	return attrs
}

// members resolves the values of attrs, drops empty attributes and groups,
// and inlines groups without a key.
func members(attrs []slog.Attr) []slog.Attr {
	out := make([]slog.Attr, 0, len(attrs))

	for _, a := range attrs {
		a.Value = a.Value.Resolve()

		switch {
		case a.Equal(slog.Attr{}):
			continue

		case a.Value.Kind() == slog.KindGroup:
			group := members(a.Value.Group())
			if len(group) == 0 {
				continue
			}

			if a.Key == "" {
				out = append(out, group...)

				continue
			}

			a.Value = slog.GroupValue(group...)
		}

		out = append(out, a)
	}

	return out
}

func writeFlat(buf *bytes.Buffer, prefix string, attrs []slog.Attr) {
	for _, a := range members(attrs) {
		key := a.Key
		if prefix != "" {
			key = prefix + "." + key
		}

		if a.Value.Kind() == slog.KindGroup {
			writeFlat(buf, key, a.Value.Group())

			continue
		}

		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}

		paint(buf, colorGray, key)
		buf.WriteByte('=')
		writeValue(buf, a.Value)
	}
}

func writeObject(buf *bytes.Buffer, attrs []slog.Attr, depth int) {
	buf.WriteString("{\n")

	for i, a := range members(attrs) {
		if i > 0 {
			buf.WriteString(",\n")
		}

		buf.WriteString(strings.Repeat("  ", depth))
		paint(buf, colorGray, a.Key)
		buf.WriteString(": ")

		if a.Value.Kind() == slog.KindGroup {
			writeObject(buf, a.Value.Group(), depth+1)
		} else {
			writeValue(buf, a.Value)
		}
	}

	buf.WriteByte('\n')
	buf.WriteString(strings.Repeat("  ", depth-1))
	buf.WriteByte('}')
}

func writeValue(buf *bytes.Buffer, v slog.Value) {
	switch v.Kind() {
	case slog.KindString:
		paint(buf, colorCyan, v.String())

	case slog.KindInt64:
		paint(buf, colorYellow, strconv.FormatInt(v.Int64(), 10))

	case slog.KindUint64:
		paint(buf, colorYellow, strconv.FormatUint(v.Uint64(), 10))

	case slog.KindFloat64:
		paint(buf, colorYellow, strconv.FormatFloat(v.Float64(), 'g', -1, 64))

	case slog.KindBool:
		if v.Bool() {
			paint(buf, colorGreen, "true")
		} else {
			paint(buf, colorRed, "false")
		}

	case slog.KindDuration:
		paint(buf, colorMagenta, v.Duration().String())

	case slog.KindTime:
		paint(buf, colorBlue, v.Time().String())

	default:
		switch x := v.Any().(type) {
		case nil:
			paint(buf, colorGray, "null")

		case slog.Level:
			paint(buf, levelColor(x), levelLabel(x))

		default:
			paint(buf, colorCyan, v.String())
		}
	}
}

func levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return colorRed
	case level >= slog.LevelWarn:
		return colorYellow
	case level >= slog.LevelInfo:
		return colorGreen
	case level >= slog.LevelDebug:
		return colorBlue
	default:
		return colorMagenta
	}
}

func paint(buf *bytes.Buffer, color, s string) {
	buf.WriteString(color)
	buf.WriteString(s)
	buf.WriteString(colorReset)
}
