package lang

import (
	"encoding/json"
)

// MarshalJSON implements json.Marshaler for Program.
func (p *Program) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.ToMap())
}

// MarshalJSON implements json.Marshaler for Script.
func (s *Script) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.ToMap())
}

// ToMap converts the program to a native Go map structure.
func (p *Program) ToMap() map[string]any {
	return map[string]any{"statement": p.Stmt.ToNative()}
}

// ToMap converts the script to a native Go map structure.
func (s *Script) ToMap() map[string]any {
	stmts := make([]any, len(s.Stmts))
	for i, stmt := range s.Stmts {
		stmts[i] = stmt.ToNative()
	}

	return map[string]any{"statements": stmts}
}

// ToNative converts a statement to native Go types. Definitions become maps
// keyed by their keyword; a bare expression becomes the native form of the
// expression.
func (s *Stmt) ToNative() any {
	switch s.Kind {
	case StmtBinding:
		return map[string]any{
			"let":   s.Name,
			"value": s.Value.ToNative(),
		}

	case StmtFunc:
		params := make([]any, len(s.Params))
		for i, param := range s.Params {
			params[i] = param
		}

		return map[string]any{
			"fun":    s.Name,
			"params": params,
			"body":   s.Body.ToNative(),
		}

	default:
		return s.Value.ToNative()
	}
}

// ToNative converts an expression to native Go types. Numbers become int64;
// every other kind becomes a map.
func (e *Expr) ToNative() any {
	switch e.Kind {
	case KindNumber:
		return e.Number

	case KindOperation:
		return map[string]any{
			"op":  e.Op.String(),
			"lhs": e.LHS.ToNative(),
			"rhs": e.RHS.ToNative(),
		}

	case KindCall:
		args := make([]any, len(e.Args))
		for i, arg := range e.Args {
			args[i] = arg.ToNative()
		}

		return map[string]any{"call": e.Name, "args": args}

	case KindBinding:
		return map[string]any{"binding": e.Name}

	case KindBlock:
		stmts := make([]any, len(e.Stmts))
		for i, stmt := range e.Stmts {
			stmts[i] = stmt.ToNative()
		}

		return map[string]any{"block": stmts}

	default:
		return nil
	}
}
