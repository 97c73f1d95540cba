package lang

import (
	"errors"
	"io"
	"log/slog"
	"testing"
)

func TestError_Message(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{name: "message only", err: NewError("boom"), want: "boom"},
		{name: "wrapped only", err: WrapError(io.EOF), want: "EOF"},
		{name: "both", err: ErrReadInput.Wrap(io.EOF), want: "failed to read input: EOF"},
		{name: "empty", err: &Error{}, want: ""},
		{
			name: "described",
			err:  ErrUndefinedBinding.Describe("binding with name '%s' does not exist", "q"),
			want: "binding with name 'q' does not exist",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestError_IsSentinel(t *testing.T) {
	derived := ErrDivisionByZero.
		With(slog.String("op", "/")).
		Describe("dividing %d", 1).
		Wrap(io.EOF)

	if !errors.Is(derived, ErrDivisionByZero) {
		t.Error("derived error should match its sentinel")
	}

	if errors.Is(derived, ErrTypeMismatch) {
		t.Error("derived error should not match another sentinel")
	}

	if !errors.Is(derived, io.EOF) {
		t.Error("derived error should unwrap to its cause")
	}

	outer := ErrEvaluate.Wrap(derived)
	if !errors.Is(outer, ErrEvaluate) || !errors.Is(outer, ErrDivisionByZero) {
		t.Errorf("wrapped chain lost a sentinel: %v", outer)
	}
}

func TestError_WithDoesNotMutate(t *testing.T) {
	base := NewError("base").With(slog.Int("a", 1))
	_ = base.With(slog.Int("b", 2))

	if got := len(base.Attrs()); got != 1 {
		t.Errorf("base has %d attrs, want 1", got)
	}
}

func TestWrapError_KeepsError(t *testing.T) {
	e := ErrSyntax.With(slog.Int("offset", 3))

	if got := WrapError(e); got != e {
		t.Errorf("WrapError returned a new error for an *Error")
	}
}

func TestError_LogValue(t *testing.T) {
	err := ErrParse.Wrap(ErrIncomplete.With(slog.Int("offset", 4)))

	group := err.LogValue().Group()

	var (
		sawError bool
		sawCause bool
	)

	for _, a := range group {
		switch a.Key {
		case "error":
			sawError = a.Value.String() == "Parse error"
		case "cause":
			_, sawCause = a.Value.Any().(*Error)
		}
	}

	if !sawError || !sawCause {
		t.Errorf("unexpected log value: %v", group)
	}
}

func TestLocate(t *testing.T) {
	src := "let x = 1 +"

	err := locate(syntaxError("expected digits", src[3:]), src)

	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *Error, got %T", err)
	}

	for _, a := range e.Attrs() {
		if a.Key == "offset" {
			if a.Value.Int64() != 3 {
				t.Errorf("offset = %d, want 3", a.Value.Int64())
			}

			return
		}
	}

	t.Error("offset attribute not found")
}
