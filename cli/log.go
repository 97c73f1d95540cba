package cli

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/moye/log"
)

// logFormat configures the package logger's format as soon as kong decodes
// the --log-format flag, so that later parse errors use it.
type logFormat string

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *logFormat) UnmarshalText(text []byte) error {
	*f = logFormat(text)
	log.Config(log.WithFormat(log.ParseFormat(string(*f))))

	return nil
}

// logLevel configures the package logger's level as soon as kong decodes the
// --log-level flag.
type logLevel string

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *logLevel) UnmarshalText(text []byte) error {
	*l = logLevel(text)
	log.Config(log.WithLevel(log.ParseLevel(string(*l))))

	return nil
}

type logConfig struct {
	Level      logLevel  `default:"${logLevel}"  enum:"${logLevels}"  help:"Set log level."`
	Format     logFormat `default:"${logFormat}" enum:"${logFormats}" help:"Set log format."`
	TimeLayout string    `default:"RFC3339"                            help:"Set timestamp layout, by name or Go layout (none disables)."`
	Caller     bool      `default:"false"                              help:"Include caller information."       negatable:""`
	Pretty     bool      `default:"true"                               help:"Enable colorized pretty printing." negatable:""`
}

func (*logConfig) vars() kong.Vars {
	return kong.Vars{
		"logLevel":   log.DefaultLevel.String(),
		"logLevels":  strings.Join(slices.Collect(log.Levels()), ","),
		"logFormat":  log.DefaultFormat.String(),
		"logFormats": strings.Join(slices.Collect(log.Formats()), ","),
	}
}

func (*logConfig) group() kong.Group {
	return kong.Group{Key: "log", Title: "Logging options"}
}

func (f *logConfig) options() []log.Option {
	return []log.Option{
		log.WithLevel(log.ParseLevel(string(f.Level))),
		log.WithFormat(log.ParseFormat(string(f.Format))),
		log.WithTimeLayout(f.TimeLayout),
		log.WithCaller(f.Caller),
		log.WithPretty(f.Pretty),
	}
}

// start applies the parsed settings, including those kong assigns without
// calling UnmarshalText.
func (f *logConfig) start(ctx context.Context) {
	log.Config(f.options()...)

	log.DebugContext(ctx, "logger initialized",
		slog.String("level", string(f.Level)),
		slog.String("format", string(f.Format)),
		slog.String("time", f.TimeLayout),
		slog.Bool("caller", f.Caller),
		slog.Bool("pretty", f.Pretty),
	)
}

// scan applies logging flags found in args before kong parses them, so the
// logger is configured while configuration files load and flags are
// validated. Scanning stops at "--".
func (f *logConfig) scan(args []string) {
	for i := 0; i < len(args); i++ {
		if args[i] == "--" {
			return
		}

		name, value, assigned := strings.Cut(args[i], "=")

		key, negated := strings.CutPrefix(name, "--no-log-")
		if !negated {
			var ok bool
			if key, ok = strings.CutPrefix(name, "--log-"); !ok {
				continue
			}
		}

		// Valued flags may take their value from the next argument.
		valued := key == "level" || key == "format" || key == "time-layout"
		if valued && !negated && !assigned && i+1 < len(args) &&
			!strings.HasPrefix(args[i+1], "-") {
			i++
			value, assigned = args[i], true
		}

		switch {
		case negated && valued:
			continue

		case key == "level" && assigned:
			_ = f.Level.UnmarshalText([]byte(value))

		case key == "format" && assigned:
			_ = f.Format.UnmarshalText([]byte(value))

		case key == "time-layout" && assigned:
			f.TimeLayout = value
			log.Config(log.WithTimeLayout(value))

		case key == "pretty", key == "caller":
			enable, ok := scanBool(value, assigned, negated)
			if !ok {
				continue
			}

			if key == "pretty" {
				f.Pretty = enable
				log.Config(log.WithPretty(enable))
			} else {
				f.Caller = enable
				log.Config(log.WithCaller(enable))
			}
		}
	}
}

// scanBool interprets a boolean flag. A bare flag is true, an assigned value
// is parsed, and a negated flag inverts the result.
func scanBool(value string, assigned, negated bool) (enable, ok bool) {
	enable = true

	if assigned {
		v, err := strconv.ParseBool(value)
		if err != nil {
			return false, false
		}

		enable = v
	}

	return enable != negated, true
}
