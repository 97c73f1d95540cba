package lang

import (
	"context"
	"log/slog"
	"strconv"
)

// Program is a single parsed statement together with the options it was
// parsed with.
type Program struct {
	Stmt *Stmt
	cfg  config
}

// Script is a parsed sequence of statements, as read from a source file.
type Script struct {
	Stmts []*Stmt
	cfg   config
}

// Parse parses text as exactly one statement. The whole of text must be
// consumed, including any trailing white space, or Parse fails with
// [ErrIncomplete].
//
// Results are cached by source text and options; see [ClearCache].
func Parse(ctx context.Context, text string, opts ...Option) (*Program, error) {
	cfg := makeConfig(opts...)

	stmts, err := parseCached(ctx, modeStatement, text, cfg)
	if err != nil {
		return nil, err
	}

	return &Program{Stmt: stmts[0], cfg: cfg}, nil
}

// ParseAll parses text as a sequence of statements separated by white space,
// with optional leading and trailing white space.
func ParseAll(ctx context.Context, text string, opts ...Option) (*Script, error) {
	cfg := makeConfig(opts...)

	stmts, err := parseCached(ctx, modeScript, text, cfg)
	if err != nil {
		return nil, err
	}

	return &Script{Stmts: stmts, cfg: cfg}, nil
}

// parseMode selects the top-level production.
type parseMode int

const (
	modeStatement parseMode = iota
	modeScript
)

func parse(
	ctx context.Context,
	mode parseMode,
	text string,
	cfg config,
) ([]*Stmt, error) {
	p := newParser(ctx, cfg.opts.maxDepth)

	var (
		stmts []*Stmt
		err   error
	)

	switch mode {
	case modeScript:
		stmts, err = p.script(text)
	default:
		var stmt *Stmt

		stmt, err = p.program(text)
		stmts = []*Stmt{stmt}
	}

	if err != nil {
		err = locate(err, text)
		cfg.logger.TraceContext(ctx, "parse failed", slog.Any("error", err))

		return nil, err
	}

	cfg.logger.TraceContext(
		ctx,
		"parse complete",
		slog.Int("source_bytes", len(text)),
		slog.Int("statements", len(stmts)),
	)

	return stmts, nil
}

// parser holds the state shared by the grammar productions. Productions take
// the remaining input and return the unconsumed suffix.
//
// Every remaining input is a suffix of the source, so its length identifies
// a position. The results of the productions that alternatives retry are
// memoized by position, which bounds backtracking to polynomial time.
type parser struct {
	ctx      context.Context
	depth    int
	maxDepth int
	err      error // fatal failure; no alternative may recover from it

	stmts map[int]result[*Stmt]
	exprs map[int]result[*Expr]
	terms map[int]result[*Expr] // nonOperation
}

// result is a memoized production outcome.
type result[T any] struct {
	rest string
	v    T
	err  error
}

func newParser(ctx context.Context, maxDepth int) *parser {
	return &parser{
		ctx:      ctx,
		maxDepth: maxDepth,
		stmts:    make(map[int]result[*Stmt]),
		exprs:    make(map[int]result[*Expr]),
		terms:    make(map[int]result[*Expr]),
	}
}

// memo returns the result of parse at s, computing it only on the first
// request for that position. Fatal failures are not recorded.
func memo[T any](
	p *parser,
	table map[int]result[T],
	parse parseFunc[T],
	s string,
) (string, T, error) {
	if r, ok := table[len(s)]; ok {
		return r.rest, r.v, r.err
	}

	rest, v, err := parse(s)
	if p.err == nil {
		table[len(s)] = result[T]{rest, v, err}
	}

	return rest, v, err
}

// enter records one level of recursion, failing fatally once the depth
// bound is exceeded or the context is done.
func (p *parser) enter(s string) error {
	if p.err != nil {
		return p.err
	}

	if err := p.ctx.Err(); err != nil {
		p.err = ErrCanceled.Wrap(err).With(slog.Int(remainingKey, len(s)))

		return p.err
	}

	p.depth++

	if p.maxDepth > 0 && p.depth > p.maxDepth {
		p.depth--
		p.err = ErrMaxDepthExceeded.With(
			slog.Int("max_depth", p.maxDepth),
			slog.Int(remainingKey, len(s)),
		)

		return p.err
	}

	return nil
}

func (p *parser) leave() { p.depth-- }

// program: statement EOF.
func (p *parser) program(s string) (*Stmt, error) {
	rest, stmt, err := p.statement(s)
	if p.err != nil {
		return nil, p.err
	}

	if err != nil {
		return nil, err
	}

	if rest != "" {
		return nil, ErrIncomplete.With(slog.Int(remainingKey, len(rest)))
	}

	return stmt, nil
}

// script: WS* (statement (WS* statement)*)? WS* EOF.
func (p *parser) script(s string) ([]*Stmt, error) {
	s, _ = extractWhitespace(s)
	s, stmts := sequence(p.statement, extractWhitespace, s)
	s, _ = extractWhitespace(s)

	if p.err != nil {
		return nil, p.err
	}

	if s != "" {
		// Report why the next statement could not be parsed.
		_, _, err := p.statement(s)
		if p.err != nil {
			return nil, p.err
		}

		incomplete := ErrIncomplete.With(slog.Int(remainingKey, len(s)))
		if err != nil {
			return nil, incomplete.Wrap(err)
		}

		return nil, incomplete
	}

	return stmts, nil
}

// statement: bindingDef | funcDef | expression.
func (p *parser) statement(s string) (string, *Stmt, error) {
	if err := p.enter(s); err != nil {
		return s, nil, err
	}
	defer p.leave()

	return memo(p, p.stmts, p.statementAt, s)
}

func (p *parser) statementAt(s string) (string, *Stmt, error) {
	if rest, stmt, err := p.bindingDef(s); err == nil {
		return rest, stmt, nil
	} else if p.err != nil {
		return s, nil, p.err
	}

	if rest, stmt, err := p.funcDef(s); err == nil {
		return rest, stmt, nil
	} else if p.err != nil {
		return s, nil, p.err
	}

	rest, expr, err := p.expression(s)
	if err != nil {
		return s, nil, err
	}

	return rest, NewExprStmt(expr), nil
}

// bindingDef: "let" WS+ ident WS* "=" WS* expression.
func (p *parser) bindingDef(s string) (string, *Stmt, error) {
	rest, err := tag("let", s)
	if err != nil {
		return s, nil, err
	}

	if rest, _, err = extractWhitespaceRequired(rest); err != nil {
		return s, nil, err
	}

	rest, name, err := extractIdent(rest)
	if err != nil {
		return s, nil, err
	}

	rest, _ = extractWhitespace(rest)

	if rest, err = tag("=", rest); err != nil {
		return s, nil, err
	}

	rest, _ = extractWhitespace(rest)

	rest, value, err := p.expression(rest)
	if err != nil {
		return s, nil, err
	}

	return rest, NewLet(name, value), nil
}

// funcDef: "fun" WS+ ident WS* (ident WS*)* "=>" WS* statement.
func (p *parser) funcDef(s string) (string, *Stmt, error) {
	rest, err := tag("fun", s)
	if err != nil {
		return s, nil, err
	}

	if rest, _, err = extractWhitespaceRequired(rest); err != nil {
		return s, nil, err
	}

	rest, name, err := extractIdent(rest)
	if err != nil {
		return s, nil, err
	}

	rest, _ = extractWhitespace(rest)
	rest, params := sequence(extractIdent, extractWhitespace, rest)

	if rest, err = tag("=>", rest); err != nil {
		return s, nil, err
	}

	rest, _ = extractWhitespace(rest)

	rest, body, err := p.statement(rest)
	if err != nil {
		return s, nil, err
	}

	return rest, NewFunc(name, params, body), nil
}

// expression: operation | nonOperation, where
// operation: nonOperation WS* op WS* nonOperation.
//
// Both alternatives begin with the same nonOperation, so it is parsed once
// and the operation suffix is attempted after it.
func (p *parser) expression(s string) (string, *Expr, error) {
	if err := p.enter(s); err != nil {
		return s, nil, err
	}
	defer p.leave()

	return memo(p, p.exprs, p.expressionAt, s)
}

func (p *parser) expressionAt(s string) (string, *Expr, error) {
	rest, lhs, err := p.nonOperation(s)
	if err != nil {
		return s, nil, err
	}

	if tail, expr, ok := p.operation(lhs, rest); ok {
		return tail, expr, nil
	}

	if p.err != nil {
		return s, nil, p.err
	}

	return rest, lhs, nil
}

// operation parses the WS* op WS* nonOperation suffix of an operation whose
// left-hand side is lhs.
func (p *parser) operation(lhs *Expr, s string) (string, *Expr, bool) {
	rest, _ := extractWhitespace(s)

	rest, op, err := operator(rest)
	if err != nil {
		return s, nil, false
	}

	rest, _ = extractWhitespace(rest)

	rest, rhs, err := p.nonOperation(rest)
	if err != nil {
		return s, nil, false
	}

	return rest, NewOperation(op, lhs, rhs), true
}

// operator: "+" | "-" | "*" | "/", tried in that order.
func operator(s string) (string, Op, error) {
	var err error

	for _, op := range ops {
		var rest string
		if rest, err = tag(op.String(), s); err == nil {
			return rest, op, nil
		}
	}

	return s, 0, err
}

// nonOperation: number | call | bindingUsage | block.
func (p *parser) nonOperation(s string) (string, *Expr, error) {
	return memo(p, p.terms, p.nonOperationAt, s)
}

func (p *parser) nonOperationAt(s string) (string, *Expr, error) {
	if rest, expr, err := p.number(s); err == nil {
		return rest, expr, nil
	} else if p.err != nil {
		return s, nil, p.err
	}

	if rest, expr, err := p.call(s); err == nil {
		return rest, expr, nil
	} else if p.err != nil {
		return s, nil, p.err
	}

	if rest, expr, err := bindingUsage(s); err == nil {
		return rest, expr, nil
	}

	return p.block(s)
}

// number: digit+. A literal that does not fit in int64 fails the parse.
func (p *parser) number(s string) (string, *Expr, error) {
	rest, digits, err := extractDigits(s)
	if err != nil {
		return s, nil, err
	}

	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		p.err = ErrSyntax.Describe("number literal out of range").With(
			slog.String("literal", digits),
			slog.Int(remainingKey, len(s)),
		)

		return s, nil, p.err
	}

	return rest, NewNumber(n), nil
}

// call: ident (SP+ expression)+.
//
// Only spaces separate arguments; a newline ends the argument list so that
// statements on separate lines of a block never merge into one call.
func (p *parser) call(s string) (string, *Expr, error) {
	rest, name, err := extractIdent(s)
	if err != nil {
		return s, nil, err
	}

	rest, args, err := nonEmptySequence(p.argument, noSeparator, rest)
	if err != nil {
		return s, nil, err
	}

	return rest, NewCall(name, args...), nil
}

// argument: SP+ expression.
func (p *parser) argument(s string) (string, *Expr, error) {
	rest, spaces := extractSpaces(s)
	if spaces == "" {
		return s, nil, syntaxError("expected a space", s)
	}

	rest, expr, err := p.expression(rest)
	if err != nil {
		return s, nil, err
	}

	return rest, expr, nil
}

func noSeparator(s string) (rest, taken string) { return s, "" }

// bindingUsage: ident.
func bindingUsage(s string) (string, *Expr, error) {
	rest, name, err := extractIdent(s)
	if err != nil {
		return s, nil, err
	}

	return rest, NewBinding(name), nil
}

// block: "{" WS* (statement (WS* statement)*)? WS* "}".
func (p *parser) block(s string) (string, *Expr, error) {
	rest, err := tag("{", s)
	if err != nil {
		return s, nil, err
	}

	rest, _ = extractWhitespace(rest)
	rest, stmts := sequence(p.statement, extractWhitespace, rest)

	if p.err != nil {
		return s, nil, p.err
	}

	rest, _ = extractWhitespace(rest)

	if rest, err = tag("}", rest); err != nil {
		return s, nil, err
	}

	return rest, NewBlock(stmts...), nil
}
