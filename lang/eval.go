package lang

import (
	"context"
	"log/slog"

	"github.com/ardnew/moye/log"
)

// Eval evaluates the program's statement in env. Definitions are stored in
// env and yield [Unit].
func (p *Program) Eval(ctx context.Context, env *Env) (Value, error) {
	return newEvaluator(ctx, p.cfg).stmt(p.Stmt, env)
}

// Eval evaluates the script's statements in order against env, passing each
// result to yield. It stops at the first failure, or when yield returns
// false. Definitions made by statements that completed before a failure
// remain in env.
func (s *Script) Eval(
	ctx context.Context,
	env *Env,
	yield func(Value) bool,
) error {
	ev := newEvaluator(ctx, s.cfg)

	for _, stmt := range s.Stmts {
		v, err := ev.stmt(stmt, env)
		if err != nil {
			return err
		}

		if yield != nil && !yield(v) {
			return nil
		}
	}

	return nil
}

// evaluator walks the tree of a single evaluation request.
type evaluator struct {
	ctx      context.Context
	logger   log.Logger
	depth    int
	maxDepth int
}

func newEvaluator(ctx context.Context, cfg config) *evaluator {
	return &evaluator{
		ctx:      ctx,
		logger:   cfg.logger,
		maxDepth: cfg.opts.maxDepth,
	}
}

// enter records one level of block or call nesting.
func (ev *evaluator) enter() *Error {
	if ev.maxDepth > 0 && ev.depth >= ev.maxDepth {
		return ErrMaxDepthExceeded.With(slog.Int("max_depth", ev.maxDepth))
	}

	ev.depth++

	return nil
}

func (ev *evaluator) leave() { ev.depth-- }

func (ev *evaluator) stmt(s *Stmt, env *Env) (Value, error) {
	switch s.Kind {
	case StmtBinding:
		v, err := ev.expr(s.Value, env)
		if err != nil {
			return nil, err
		}

		env.StoreBinding(s.Name, v)

		ev.logger.TraceContext(ev.ctx, "store binding",
			slog.String("name", s.Name), slog.String("value", v.String()))

		return Unit{}, nil

	case StmtFunc:
		env.StoreFunc(s.Name, s.Params, s.Body)

		ev.logger.TraceContext(ev.ctx, "store function",
			slog.String("name", s.Name), slog.Int("params", len(s.Params)))

		return Unit{}, nil

	case StmtExpr:
		return ev.expr(s.Value, env)
	}

	return nil, ErrSyntax.Describe("unknown statement kind %s", s.Kind)
}

func (ev *evaluator) expr(e *Expr, env *Env) (Value, error) {
	switch e.Kind {
	case KindNumber:
		return Number(e.Number), nil

	case KindOperation:
		return ev.operation(e, env)

	case KindCall:
		return ev.call(e, env)

	case KindBinding:
		return env.Binding(e.Name)

	case KindBlock:
		return ev.block(e, env)
	}

	return nil, ErrSyntax.Describe("unknown expression kind %s", e.Kind)
}

func (ev *evaluator) operation(e *Expr, env *Env) (Value, error) {
	lhs, err := ev.expr(e.LHS, env)
	if err != nil {
		return nil, err
	}

	rhs, err := ev.expr(e.RHS, env)
	if err != nil {
		return nil, err
	}

	l, lok := lhs.(Number)
	r, rok := rhs.(Number)

	if !lok || !rok {
		return nil, ErrTypeMismatch.With(
			slog.String("op", e.Op.String()),
			slog.String("lhs", typeName(lhs)),
			slog.String("rhs", typeName(rhs)),
		)
	}

	switch e.Op {
	case OpAdd:
		return l + r, nil
	case OpSub:
		return l - r, nil
	case OpMul:
		return l * r, nil
	case OpDiv:
		if r == 0 {
			return nil, ErrDivisionByZero.With(slog.Int64("lhs", int64(l)))
		}

		return l / r, nil
	}

	return nil, ErrSyntax.Describe("unknown operator %s", e.Op)
}

// call evaluates the arguments in the calling scope, binds them to the
// function's parameters in a fresh child of the calling scope and evaluates
// the body there.
func (ev *evaluator) call(e *Expr, env *Env) (Value, error) {
	if err := ev.ctx.Err(); err != nil {
		return nil, ErrCanceled.Wrap(err).With(slog.String("name", e.Name))
	}

	fn, err := env.Func(e.Name)
	if err != nil {
		return nil, err
	}

	if len(fn.Params) != len(e.Args) {
		return nil, ErrArityMismatch.Describe(
			"expected %d parameters, got %d", len(fn.Params), len(e.Args),
		).With(
			slog.String("name", e.Name),
			slog.Int("expected", len(fn.Params)),
			slog.Int("got", len(e.Args)),
		)
	}

	args := make([]Value, len(e.Args))

	for i, arg := range e.Args {
		if args[i], err = ev.expr(arg, env); err != nil {
			return nil, err
		}
	}

	if err := ev.enter(); err != nil {
		return nil, err.With(slog.String("name", e.Name))
	}
	defer ev.leave()

	ev.logger.TraceContext(ev.ctx, "call",
		slog.String("name", e.Name), slog.Int("depth", ev.depth))

	frame := env.Child()
	for i, param := range fn.Params {
		frame.StoreBinding(param, args[i])
	}

	return ev.stmt(fn.Body, frame)
}

// block evaluates every statement in one child scope and yields the value of
// the last. The empty block is Unit.
func (ev *evaluator) block(e *Expr, env *Env) (Value, error) {
	if len(e.Stmts) == 0 {
		return Unit{}, nil
	}

	if err := ev.enter(); err != nil {
		return nil, err
	}
	defer ev.leave()

	scope := env.Child()

	var (
		v   Value
		err error
	)

	for _, stmt := range e.Stmts {
		if v, err = ev.stmt(stmt, scope); err != nil {
			return nil, err
		}
	}

	return v, nil
}
