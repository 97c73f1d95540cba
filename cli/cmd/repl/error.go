package repl

import "github.com/ardnew/moye/lang"

// Sentinel errors.
var (
	ErrOutOfBounds  = lang.NewError("history index out of range")
	ErrEditDeclined = lang.NewError("edit declined")
	ErrNoSession    = lang.NewError("no session")
)
