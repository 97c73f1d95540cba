package lang

import (
	"github.com/ardnew/moye/log"
)

// DefaultMaxDepth is the default bound on parser recursion and on nested
// block and call evaluation. Users may modify this before parsing to change
// the default.
var DefaultMaxDepth = 1000

// optionsKey holds the options that influence the parsed result.
// Its fields are gob-encoded into the parse cache key.
type optionsKey struct {
	maxDepth int
}

// config holds the effective options of a parse or evaluation.
type config struct {
	opts   optionsKey
	logger log.Logger // outside optionsKey, doesn't affect cache
}

// Option configures parsing or evaluation behavior.
type Option func(*config)

// WithMaxDepth bounds the nesting depth of parsing and evaluation.
// A depth of zero or less disables the bound.
func WithMaxDepth(depth int) Option {
	return func(c *config) {
		c.opts.maxDepth = depth
	}
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

func makeConfig(opts ...Option) config {
	c := config{opts: optionsKey{maxDepth: DefaultMaxDepth}}

	for _, opt := range opts {
		opt(&c)
	}

	return c
}
