package lang

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
)

// Session is one interactive interpreter: a root scope that persists across
// evaluation requests. Every failure a Session reports wraps exactly one of
// [ErrParse] or [ErrEvaluate] (or [ErrReadInput] for [Session.Load]).
//
// A failed request never corrupts the root scope: only definitions that
// completed are stored. Sessions are independent of each other; a Session is
// not safe for concurrent use.
type Session struct {
	env  *Env
	opts []Option
	cfg  config
}

// NewSession returns a session with an empty root scope. The options apply
// to every request made through the session.
func NewSession(opts ...Option) *Session {
	return &Session{env: NewEnv(), opts: opts, cfg: makeConfig(opts...)}
}

// Env returns the session's root scope.
func (s *Session) Env() *Env { return s.env }

// Reset replaces the root scope with an empty one.
func (s *Session) Reset() {
	s.env = NewEnv()
	s.cfg.logger.Debug("session reset")
}

// Exec parses line as a single statement and evaluates it in the root scope.
// Leading and trailing white space is ignored.
func (s *Session) Exec(ctx context.Context, line string) (Value, error) {
	prog, err := Parse(ctx, strings.TrimSpace(line), s.opts...)
	if err != nil {
		return nil, ErrParse.Wrap(err)
	}

	v, err := prog.Eval(ctx, s.env)
	if err != nil {
		return nil, ErrEvaluate.Wrap(err)
	}

	return v, nil
}

// Run parses source as a script and evaluates its statements in order in the
// root scope, passing each result to yield.
func (s *Session) Run(
	ctx context.Context,
	source string,
	yield func(Value) bool,
) error {
	script, err := ParseAll(ctx, source, s.opts...)
	if err != nil {
		return ErrParse.Wrap(err)
	}

	return s.eval(ctx, script, yield)
}

// Check parses source as a script with the session's options without
// evaluating it.
func (s *Session) Check(ctx context.Context, source string) error {
	if _, err := ParseAll(ctx, source, s.opts...); err != nil {
		return ErrParse.Wrap(err)
	}

	return nil
}

// Load reads a script from r and evaluates it in the root scope, discarding
// the statement results. It is used to load prelude files.
func (s *Session) Load(ctx context.Context, r io.Reader) error {
	return s.RunReader(ctx, r, nil)
}

// RunReader reads a whole script from r and evaluates it like [Session.Run].
// A read failure is returned as [ErrReadInput] without a parse or evaluation
// prefix.
func (s *Session) RunReader(
	ctx context.Context,
	r io.Reader,
	yield func(Value) bool,
) error {
	script, err := ParseReader(ctx, r, s.opts...)
	if err != nil {
		if errors.Is(err, ErrReadInput) {
			return err
		}

		return ErrParse.Wrap(err)
	}

	return s.eval(ctx, script, yield)
}

func (s *Session) eval(
	ctx context.Context,
	script *Script,
	yield func(Value) bool,
) error {
	if err := script.Eval(ctx, s.env, yield); err != nil {
		return ErrEvaluate.Wrap(err)
	}

	s.cfg.logger.DebugContext(ctx, "script evaluated",
		slog.Int("statements", len(script.Stmts)),
		slog.Int("names", s.env.Len()),
	)

	return nil
}
