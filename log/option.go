package log

import "io"

// Option changes one setting of a [Logger] being made.
type Option func(*config)

// WithDefaults returns an [Option] that resets every setting to its default
// and directs output to w.
func WithDefaults(w io.Writer) Option {
	return func(c *config) { *c = defaultConfig(w) }
}

// WithOutput returns an [Option] that sets the destination of log messages.
// A nil writer discards them.
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		if w == nil {
			w = io.Discard
		}

		c.output = w
	}
}

// WithLevel returns an [Option] that sets the minimum level of messages
// written.
func WithLevel(level Level) Option {
	return func(c *config) { c.level = level }
}

// WithFormat returns an [Option] that sets the output format.
func WithFormat(format Format) Option {
	return func(c *config) { c.format = format }
}

// WithTimeLayout returns an [Option] that sets the timestamp layout.
//
// The layout is either a name such as "RFC3339", "Kitchen" or "ms", or a
// layout passed verbatim to [time.Time.Format]. A blank layout, "none" or
// "off" omits timestamps.
func WithTimeLayout(layout string) Option {
	format := makeFormatTimeFunc(layout)

	return func(c *config) { c.formatTime = format }
}

// WithCaller returns an [Option] that controls whether the source location of
// the logging call is included.
func WithCaller(enable bool) Option {
	return func(c *config) { c.caller = enable }
}

// WithPretty returns an [Option] that controls colorized output.
//
// Pretty text output drops quoting and colors keys and values. Pretty JSON
// output is indented, one field per line. Either form expands nested groups,
// such as interpreter errors with their attributes.
func WithPretty(enable bool) Option {
	return func(c *config) { c.pretty = enable }
}
