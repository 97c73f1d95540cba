package cmd

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ardnew/moye/lang"
)

// Fmt parses input and writes it back in the chosen format.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as native moye syntax (default)."`
	JSON   JSON   `cmd:""                    help:"Format as JSON."`
	YAML   YAML   `cmd:""                    help:"Format as YAML."`
	AST    AST    `cmd:""                    help:"Format as abstract syntax tree."`
}

// parseSources reads and parses the concatenated sources as one script.
func parseSources(
	ctx context.Context,
	sources []string,
	format string,
) (*lang.Script, error) {
	src, err := openSources(sources)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	script, err := lang.ParseReader(ctx, src, optionsFrom(ctx)...)
	if err != nil {
		if !errors.Is(err, lang.ErrReadInput) {
			err = lang.ErrParse.Wrap(err)
		}

		return nil, lang.WrapError(err).
			With(slog.String("format", format))
	}

	return script, nil
}

// Native formats input as native moye syntax.
type Native struct {
	Indent int `default:"2" help:"Indent width for formatted output" short:"i"`

	Source []string `arg:"" help:"Source input file(s) or '-' for stdin." name:"source" optional:""`
}

// Run executes the fmt command.
func (f *Native) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	script, err := parseSources(ctx, f.Source, "native")
	if err != nil {
		return err
	}

	return script.Format(ctx, stdoutFrom(ctx), f.Indent)
}

// JSON parses input and outputs its syntax tree as JSON.
type JSON struct {
	Indent int `default:"2" help:"Indent width for JSON output" short:"i"`

	Source []string `arg:"" help:"Source input file(s) or '-' for stdin." name:"source" optional:""`
}

// Run executes the json command.
func (j *JSON) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	script, err := parseSources(ctx, j.Source, "json")
	if err != nil {
		return err
	}

	return script.FormatJSON(ctx, stdoutFrom(ctx), j.Indent)
}

// YAML parses input and outputs its syntax tree as YAML.
type YAML struct {
	Indent int `default:"2" help:"Indent width for YAML output" short:"i"`

	Source []string `arg:"" help:"Source input file(s) or '-' for stdin." name:"source" optional:""`
}

// Run executes the yaml command.
func (y *YAML) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	script, err := parseSources(ctx, y.Source, "yaml")
	if err != nil {
		return err
	}

	return script.FormatYAML(ctx, stdoutFrom(ctx), y.Indent)
}

// AST formats input as an abstract syntax tree representation.
type AST struct {
	Source []string `arg:"" help:"Source input file(s) or '-' for stdin." name:"source" optional:""`
}

// Run executes the ast command.
func (a *AST) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	script, err := parseSources(ctx, a.Source, "ast")
	if err != nil {
		return err
	}

	return script.Print(ctx, stdoutFrom(ctx))
}
