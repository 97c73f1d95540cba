package cmd

import (
	"context"

	"github.com/ardnew/moye/cli/cmd/repl"
	"github.com/ardnew/moye/log"
)

// Repl starts an interactive session on the terminal.
type Repl struct{}

// Run executes the repl command. Prelude files are loaded before the first
// prompt, and history is kept in the cache directory.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	session, err := newSession(ctx)
	if err != nil {
		return err
	}

	var cacheDir string
	if ktx := kongContextFrom(ctx); ktx != nil {
		cacheDir = ktx.Model.Vars()[CacheIdentifier]
	}

	return repl.Run(ctx, session, cacheDir, log.Default())
}
