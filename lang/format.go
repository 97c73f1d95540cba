package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format writes the program in canonical native syntax to the writer,
// indenting block contents by indent spaces per level.
//
// The output parses back into a structurally equal statement.
func (p *Program) Format(_ context.Context, w io.Writer, indent int) error {
	f := &formatter{w: w, indent: indent}
	f.stmt(p.Stmt, 0)
	f.write("\n")

	return f.err
}

// Format writes the script in canonical native syntax, one top-level
// statement per line.
func (s *Script) Format(_ context.Context, w io.Writer, indent int) error {
	f := &formatter{w: w, indent: indent}

	for _, stmt := range s.Stmts {
		f.stmt(stmt, 0)
		f.write("\n")
	}

	return f.err
}

// FormatJSON writes the program's map form as JSON to the writer.
func (p *Program) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	return formatJSON(w, p, indent)
}

// FormatJSON writes the script's map form as JSON to the writer.
func (s *Script) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	return formatJSON(w, s, indent)
}

// FormatYAML writes the program's map form as YAML to the writer.
func (p *Program) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	return formatYAML(ctx, w, p.ToMap(), indent)
}

// FormatYAML writes the script's map form as YAML to the writer.
func (s *Script) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	return formatYAML(ctx, w, s.ToMap(), indent)
}

// Print writes an indented tree dump of the program to the writer.
func (p *Program) Print(ctx context.Context, w io.Writer) error {
	return p.Stmt.Print(ctx, w)
}

// Print writes an indented tree dump of every statement in the script.
func (s *Script) Print(ctx context.Context, w io.Writer) error {
	for _, stmt := range s.Stmts {
		if err := stmt.Print(ctx, w); err != nil {
			return err
		}
	}

	return nil
}

// String returns the statement in canonical native syntax without
// indentation.
func (s *Stmt) String() string {
	var sb strings.Builder

	f := &formatter{w: &sb}
	f.stmt(s, 0)

	return sb.String()
}

// String returns the expression in canonical native syntax without
// indentation.
func (e *Expr) String() string {
	var sb strings.Builder

	f := &formatter{w: &sb}
	f.expr(e, 0)

	return sb.String()
}

func formatJSON(w io.Writer, v any, indent int) error {
	var (
		jsonData []byte
		err      error
	)

	if indent > 0 {
		jsonData, err = json.MarshalIndent(v, "", strings.Repeat(" ", indent))
	} else {
		jsonData, err = json.Marshal(v)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

func formatYAML(ctx context.Context, w io.Writer, v any, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(ctx, v, opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(yamlData))

	return err
}

// formatter renders native syntax and remembers the first write error.
//
// Block statements always go on separate lines because a newline is what
// ends a call's argument list.
type formatter struct {
	w      io.Writer
	indent int
	err    error
}

func (f *formatter) write(s ...string) {
	for _, part := range s {
		if f.err != nil {
			return
		}

		_, f.err = io.WriteString(f.w, part)
	}
}

func (f *formatter) pad(depth int) {
	f.write(strings.Repeat(" ", depth*f.indent))
}

func (f *formatter) stmt(s *Stmt, depth int) {
	switch s.Kind {
	case StmtBinding:
		f.write("let ", s.Name, " = ")
		f.expr(s.Value, depth)

	case StmtFunc:
		f.write("fun ", s.Name)

		for _, param := range s.Params {
			f.write(" ", param)
		}

		f.write(" => ")
		f.stmt(s.Body, depth)

	case StmtExpr:
		f.expr(s.Value, depth)
	}
}

func (f *formatter) expr(e *Expr, depth int) {
	switch e.Kind {
	case KindNumber:
		f.number(e.Number)

	case KindOperation:
		f.operation(e, depth)

	case KindCall:
		f.write(e.Name)

		for i, arg := range e.Args {
			f.write(" ")

			// A following argument would be absorbed by an open one.
			if i < len(e.Args)-1 && open(arg) {
				f.wrap(arg, depth)
			} else {
				f.expr(arg, depth)
			}
		}

	case KindBinding:
		f.write(e.Name)

	case KindBlock:
		if len(e.Stmts) == 0 {
			f.write("{}")

			return
		}

		f.write("{\n")

		for _, stmt := range e.Stmts {
			f.pad(depth + 1)
			f.stmt(stmt, depth+1)
			f.write("\n")
		}

		f.pad(depth)
		f.write("}")
	}
}

func (f *formatter) operation(e *Expr, depth int) {
	// Operations cannot be operands, and an operand that would absorb the
	// operator as part of its own last argument must be closed off.
	if e.LHS.Kind == KindOperation || absorbsOp(e.LHS) {
		f.wrap(e.LHS, depth)
	} else {
		f.expr(e.LHS, depth)
	}

	f.write(" ", e.Op.String(), " ")

	if e.RHS.Kind == KindOperation {
		f.wrap(e.RHS, depth)
	} else {
		f.expr(e.RHS, depth)
	}
}

// number writes n. Negative values have no literal form and are written as
// a subtraction from zero.
func (f *formatter) number(n int64) {
	switch {
	case n >= 0:
		f.write(strconv.FormatInt(n, 10))
	case n == math.MinInt64:
		f.write("{ { 0 - ", strconv.FormatInt(math.MaxInt64, 10), " } - 1 }")
	default:
		f.write("{ 0 - ", strconv.FormatInt(-n, 10), " }")
	}
}

// wrap writes e as the only statement of a block, which evaluates to the
// same value.
func (f *formatter) wrap(e *Expr, depth int) {
	f.write("{ ")
	f.expr(e, depth)
	f.write(" }")
}

// open reports whether the text of e would absorb a following
// space-separated expression as another call argument.
func open(e *Expr) bool {
	switch e.Kind {
	case KindBinding, KindCall:
		return true
	case KindOperation:
		return open(e.RHS)
	default:
		return false
	}
}

// absorbsOp reports whether the text of e followed by an operator and an
// operand would parse as e with that operation inside its last argument.
func absorbsOp(e *Expr) bool {
	switch e.Kind {
	case KindCall:
		last := e.Args[len(e.Args)-1]
		if last.Kind == KindOperation {
			return absorbsOp(last.RHS)
		}

		return true
	case KindOperation:
		return absorbsOp(e.RHS)
	default:
		return false
	}
}
