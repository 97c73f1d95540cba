package lang

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Parse failures.
var (
	ErrSyntax     = NewError("syntax error")
	ErrIncomplete = NewError("input was not consumed fully by parser")
)

// Evaluation failures.
var (
	ErrUndefinedBinding  = NewError("undefined binding")
	ErrUndefinedFunction = NewError("undefined function")
	ErrArityMismatch     = NewError("parameter count mismatch")
	ErrTypeMismatch      = NewError("cannot evaluate operation whose left-hand side and right-hand side are not both numbers")
	ErrDivisionByZero    = NewError("division by zero")
	ErrMaxDepthExceeded  = NewError("maximum nesting depth exceeded")
	ErrCanceled          = NewError("canceled")
)

// Host-level failures. A [Session] wraps every failure in exactly one of
// ErrParse or ErrEvaluate, so the message reads "Parse error: <reason>" or
// "Evaluation error: <reason>".
var (
	ErrParse     = NewError("Parse error")
	ErrEvaluate  = NewError("Evaluation error")
	ErrReadInput = NewError("failed to read input")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
//
// Errors derived from a sentinel (via [Error.Wrap], [Error.With] or
// [Error.Describe]) still match that sentinel with [errors.Is].
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
	kind  *Error      // Sentinel this error was derived from
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	// Build error message using the first available format,
	// depending on which fields are set:
	//
	//   1. "<msg>: <err>" // base and wrapped error both set
	//   2. "<msg>"        // wrapped error is nil
	//   3. "<err>"        // base error message is empty
	//   4. ""             // no fields are set
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether e was derived from the sentinel target.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return e == t || (e.kind != nil && e.kind == t.root())
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	var cause *Error

	switch {
	case errors.As(e.err, &cause):
		attrs = append(attrs, slog.Any("cause", cause))
	case e.err != nil:
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Attrs returns a copy of the structured attributes attached to e.
func (e *Error) Attrs() []slog.Attr {
	return append([]slog.Attr(nil), e.attrs...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs, // Share attrs
		kind:  e.root(),
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
		kind:  e.root(),
	}
}

// Describe returns a new Error of the same kind whose message is replaced by
// the formatted text.
func (e *Error) Describe(format string, args ...any) *Error {
	return &Error{
		msg:   fmt.Sprintf(format, args...),
		err:   e.err,
		attrs: e.attrs,
		kind:  e.root(),
	}
}

func (e *Error) root() *Error {
	if e.kind != nil {
		return e.kind
	}

	return e
}

const remainingKey = "remaining"

// syntaxError returns a parse failure carrying reason as its message. The
// length of the unconsumed input at is recorded so that [locate] can later
// turn it into an offset.
func syntaxError(reason, at string) *Error {
	return ErrSyntax.Describe("%s", reason).
		With(slog.Int(remainingKey, len(at)))
}

// locate rewrites the remaining-input attribute of a parse failure into the
// byte offset into src where the failure occurred.
func locate(err error, src string) error {
	var e *Error
	if !errors.As(err, &e) {
		return err
	}

	attrs := make([]slog.Attr, 0, len(e.attrs))

	for _, a := range e.attrs {
		if a.Key == remainingKey {
			a = slog.Int("offset", len(src)-int(a.Value.Int64()))
		}

		attrs = append(attrs, a)
	}

	return &Error{msg: e.msg, err: e.err, attrs: attrs, kind: e.root()}
}
