// Package lang implements the moye language: a hand-written recursive-descent
// parser and a tree-walking evaluator over 64-bit signed integers.
//
// # Grammar
//
// Informal EBNF. WS is a space or newline; SP is a space only.
//
//	program      → statement EOF
//	script       → WS* (statement (WS* statement)*)? WS* EOF
//	statement    → bindingDef | funcDef | expression
//	bindingDef   → "let" WS+ ident WS* "=" WS* expression
//	funcDef      → "fun" WS+ ident WS* (ident WS*)* "=>" WS* statement
//	expression   → operation | nonOperation
//	operation    → nonOperation WS* op WS* nonOperation
//	nonOperation → number | call | bindingUsage | block
//	call         → ident (SP+ expression)+
//	bindingUsage → ident
//	block        → "{" WS* (statement (WS* statement)*)? WS* "}"
//	op           → "+" | "-" | "*" | "/"
//	number       → [0-9]+
//	ident        → [A-Za-z][A-Za-z0-9]*
//
// Alternatives are tried in the order written and the first that succeeds
// wins. Operands of an operation are never operations themselves, so there
// is no precedence and no chaining: "1 + 2 + 3" fails with
// [ErrIncomplete]. Use blocks to group: "{1 + 2} + 3".
//
// # Evaluation
//
// Numbers evaluate to themselves. An operation evaluates both operands and
// requires both to be numbers; arithmetic wraps on overflow and division by
// zero fails with [ErrDivisionByZero]. A block evaluates its statements in
// one child scope and yields the value of the last, or [Unit] when empty.
// Definitions store into the current scope and yield Unit.
//
// A call evaluates its arguments in the calling scope, binds them to the
// function's parameters in a fresh child of the calling scope, and evaluates
// the body there. Functions do not capture the scope they were defined in.
//
// Each argument is itself an expression, so an identifier followed by more
// arguments is a nested call: "add x 3" calls x with 3. Wrap such arguments
// in a block, as in "add {x} 3".
//
// # Example
//
//	let x = 5
//	fun add a b => a + b
//	add {x} 3
//	{
//	  let y = add 1 x
//	  y * 2
//	}
package lang
