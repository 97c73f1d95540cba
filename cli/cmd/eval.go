package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/moye/lang"
)

// Eval evaluates scripts read from source files, or the statements given
// with --expr, in one shared root scope.
type Eval struct {
	Expr   []string `help:"Statement to evaluate instead of reading sources (repeatable)" name:"expr"   short:"e"`
	Source []string `help:"Source input file(s) or '-' for stdin"                          name:"source" arg:"" optional:""`
}

// Run executes the eval command. Every statement result other than the unit
// value is printed on its own line. The first failure stops evaluation.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	session, err := newSession(ctx)
	if err != nil {
		return err
	}

	w := stdoutFrom(ctx)

	emit := func(v lang.Value) bool {
		if !lang.IsUnit(v) {
			fmt.Fprintln(w, v)
		}

		return true
	}

	if len(e.Expr) > 0 {
		for _, line := range e.Expr {
			v, err := session.Exec(ctx, line)
			if err != nil {
				return lang.WrapError(err).
					With(
						slog.String("command", "eval"),
						slog.String("expr", line),
					)
			}

			emit(v)
		}

		return nil
	}

	src, err := openSources(e.Source)
	if err != nil {
		return err
	}
	defer src.Close()

	if err := session.RunReader(ctx, src, emit); err != nil {
		return lang.WrapError(err).
			With(slog.String("command", "eval"))
	}

	return nil
}
