package lang

//go:generate go tool stringer --linecomment --type Kind,StmtKind,Op --output ast_string.go

import (
	"context"
	"io"
	"slices"
	"strconv"
	"strings"
)

// Kind selects which fields of an [Expr] are populated.
type Kind int

const (
	// KindNumber is an integer literal. Number is set.
	KindNumber Kind = iota // number

	// KindOperation is a binary arithmetic operation. Op, LHS and RHS are set.
	KindOperation // operation

	// KindCall is a function call. Name and Args are set.
	KindCall // call

	// KindBinding is a reference to a binding. Name is set.
	KindBinding // binding

	// KindBlock is a braced statement list. Stmts is set.
	KindBlock // block
)

// StmtKind selects which fields of a [Stmt] are populated.
type StmtKind int

const (
	// StmtBinding is a binding definition. Name and Value are set.
	StmtBinding StmtKind = iota // let

	// StmtFunc is a function definition. Name, Params and Body are set.
	StmtFunc // fun

	// StmtExpr is a bare expression. Value is set.
	StmtExpr // expression
)

// Op is a binary arithmetic operator.
type Op int

const (
	OpAdd Op = iota // +
	OpSub           // -
	OpMul           // *
	OpDiv           // /
)

// ops lists the operators in the order the parser tries them.
var ops = [...]Op{OpAdd, OpSub, OpMul, OpDiv}

// Expr is an expression node. Nodes are immutable once parsed and may be
// shared between programs.
type Expr struct {
	Kind   Kind
	Number int64   // KindNumber
	Op     Op      // KindOperation
	LHS    *Expr   // KindOperation
	RHS    *Expr   // KindOperation
	Name   string  // KindCall, KindBinding
	Args   []*Expr // KindCall
	Stmts  []*Stmt // KindBlock
}

// Stmt is a statement node.
type Stmt struct {
	Kind   StmtKind
	Name   string   // StmtBinding, StmtFunc
	Params []string // StmtFunc
	Value  *Expr    // StmtBinding, StmtExpr
	Body   *Stmt    // StmtFunc
}

// NewNumber returns a number literal.
func NewNumber(n int64) *Expr {
	return &Expr{Kind: KindNumber, Number: n}
}

// NewOperation returns the binary operation lhs op rhs.
func NewOperation(op Op, lhs, rhs *Expr) *Expr {
	return &Expr{Kind: KindOperation, Op: op, LHS: lhs, RHS: rhs}
}

// NewCall returns a call of the named function with the given arguments.
func NewCall(name string, args ...*Expr) *Expr {
	return &Expr{Kind: KindCall, Name: name, Args: args}
}

// NewBinding returns a reference to the named binding.
func NewBinding(name string) *Expr {
	return &Expr{Kind: KindBinding, Name: name}
}

// NewBlock returns a block containing stmts.
func NewBlock(stmts ...*Stmt) *Expr {
	return &Expr{Kind: KindBlock, Stmts: stmts}
}

// NewLet returns the binding definition "let name = value".
func NewLet(name string, value *Expr) *Stmt {
	return &Stmt{Kind: StmtBinding, Name: name, Value: value}
}

// NewFunc returns the function definition "fun name params... => body".
func NewFunc(name string, params []string, body *Stmt) *Stmt {
	return &Stmt{Kind: StmtFunc, Name: name, Params: params, Body: body}
}

// NewExprStmt returns a statement consisting of the expression e.
func NewExprStmt(e *Expr) *Stmt {
	return &Stmt{Kind: StmtExpr, Value: e}
}

// Equal reports whether e and other are structurally identical.
func (e *Expr) Equal(other *Expr) bool {
	if e == nil || other == nil {
		return e == other
	}

	if e.Kind != other.Kind {
		return false
	}

	switch e.Kind {
	case KindNumber:
		return e.Number == other.Number

	case KindOperation:
		return e.Op == other.Op && e.LHS.Equal(other.LHS) &&
			e.RHS.Equal(other.RHS)

	case KindCall:
		return e.Name == other.Name &&
			slices.EqualFunc(e.Args, other.Args, (*Expr).Equal)

	case KindBinding:
		return e.Name == other.Name

	case KindBlock:
		return slices.EqualFunc(e.Stmts, other.Stmts, (*Stmt).Equal)
	}

	return false
}

// Equal reports whether s and other are structurally identical.
func (s *Stmt) Equal(other *Stmt) bool {
	if s == nil || other == nil {
		return s == other
	}

	if s.Kind != other.Kind || s.Name != other.Name {
		return false
	}

	switch s.Kind {
	case StmtBinding, StmtExpr:
		return s.Value.Equal(other.Value)

	case StmtFunc:
		return slices.Equal(s.Params, other.Params) && s.Body.Equal(other.Body)
	}

	return false
}

// printer writes an indented tree dump and remembers the first write error.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) put(depth int, item ...string) {
	if p.err != nil {
		return
	}

	_, p.err = io.WriteString(
		p.w,
		strings.Repeat("  ", depth)+strings.Join(item, ": ")+"\n",
	)
}

// Print writes an indented tree representation of the statement to w.
func (s *Stmt) Print(ctx context.Context, w io.Writer) error {
	p := &printer{w: w}
	s.print(ctx, p, 0)

	return p.err
}

// Print writes an indented tree representation of the expression to w.
func (e *Expr) Print(ctx context.Context, w io.Writer) error {
	p := &printer{w: w}
	e.print(ctx, p, 0)

	return p.err
}

func (s *Stmt) print(ctx context.Context, p *printer, depth int) {
	switch s.Kind {
	case StmtBinding:
		p.put(depth, "Binding", s.Name)
		s.Value.print(ctx, p, depth+1)

	case StmtFunc:
		p.put(depth, "Function", s.Name)

		if len(s.Params) > 0 {
			p.put(depth+1, "Parameters", strings.Join(s.Params, " "))
		}

		p.put(depth+1, "Body")
		s.Body.print(ctx, p, depth+2)

	case StmtExpr:
		s.Value.print(ctx, p, depth)
	}
}

func (e *Expr) print(ctx context.Context, p *printer, depth int) {
	switch e.Kind {
	case KindNumber:
		p.put(depth, "Number", strconv.FormatInt(e.Number, 10))

	case KindOperation:
		p.put(depth, "Operation", e.Op.String())
		e.LHS.print(ctx, p, depth+1)
		e.RHS.print(ctx, p, depth+1)

	case KindCall:
		p.put(depth, "Call", e.Name)

		for _, arg := range e.Args {
			arg.print(ctx, p, depth+1)
		}

	case KindBinding:
		p.put(depth, "Usage", e.Name)

	case KindBlock:
		if len(e.Stmts) == 0 {
			p.put(depth, "Block", "(empty)")

			return
		}

		p.put(depth, "Block")

		for _, stmt := range e.Stmts {
			stmt.print(ctx, p, depth+1)
		}
	}
}
