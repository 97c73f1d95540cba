package lang

import (
	"errors"
	"strings"
	"testing"
)

func TestSession_SharedRootAcrossRequests(t *testing.T) {
	s := NewSession()

	v, err := s.Exec(t.Context(), "fun add x y => x + y")
	if err != nil {
		t.Fatalf("define: %v", err)
	}

	if !IsUnit(v) {
		t.Errorf("definition yielded %v", v)
	}

	v, err = s.Exec(t.Context(), "add 2 3")
	if err != nil {
		t.Fatalf("call: %v", err)
	}

	if v != Number(5) {
		t.Errorf("got %v, want 5", v)
	}
}

func TestSession_TrimsInput(t *testing.T) {
	s := NewSession()

	v, err := s.Exec(t.Context(), "  1 + 1 \n")
	if err != nil {
		t.Fatalf("exec: %v", err)
	}

	if v.String() != "2" {
		t.Errorf("got %q", v.String())
	}
}

func TestSession_ErrorPrefixes(t *testing.T) {
	tests := []struct {
		line    string
		want    string
		wantErr error
	}{
		{
			line:    "1 + 2 + 3",
			want:    "Parse error: input was not consumed fully by parser",
			wantErr: ErrParse,
		},
		{
			line:    "missing",
			want:    "Evaluation error: binding with name 'missing' does not exist",
			wantErr: ErrEvaluate,
		},
		{
			line:    "10 / 0",
			want:    "Evaluation error: division by zero",
			wantErr: ErrEvaluate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			s := NewSession()

			_, err := s.Exec(t.Context(), tt.line)
			if err == nil {
				t.Fatal("expected error, got nil")
			}

			if err.Error() != tt.want {
				t.Errorf("error = %q, want %q", err.Error(), tt.want)
			}

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v in chain of %v", tt.wantErr, err)
			}
		})
	}
}

func TestSession_FailureKeepsEnvironment(t *testing.T) {
	s := NewSession()

	for _, line := range []string{"let a = 1", "let a = a / 0", "let b = ("} {
		_, _ = s.Exec(t.Context(), line)
	}

	v, err := s.Exec(t.Context(), "a")
	if err != nil || v != Number(1) {
		t.Errorf("got (%v, %v), want 1", v, err)
	}

	if s.Env().Len() != 1 {
		t.Errorf("env has %d names, want 1", s.Env().Len())
	}
}

func TestSession_RunAndReset(t *testing.T) {
	s := NewSession()

	var out []string

	err := s.Run(t.Context(), "let x = 4\nfun sq n => n * n\nsq x\n{}\n", func(v Value) bool {
		if !IsUnit(v) {
			out = append(out, v.String())
		}

		return true
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if strings.Join(out, ",") != "16" {
		t.Errorf("got %v, want [16]", out)
	}

	s.Reset()

	if _, err := s.Exec(t.Context(), "x"); !errors.Is(err, ErrUndefinedBinding) {
		t.Errorf("expected ErrUndefinedBinding after reset, got %v", err)
	}
}

func TestSession_RunStopsAtFirstFailure(t *testing.T) {
	s := NewSession()

	err := s.Run(t.Context(), "let a = 1\nboom 1\nlet b = 2", nil)
	if !errors.Is(err, ErrEvaluate) || !errors.Is(err, ErrUndefinedFunction) {
		t.Fatalf("expected undefined function evaluation error, got %v", err)
	}

	if _, err := s.Env().Binding("a"); err != nil {
		t.Errorf("a should be defined: %v", err)
	}

	if _, err := s.Env().Binding("b"); err == nil {
		t.Error("b should not be defined")
	}
}

func TestSession_Load(t *testing.T) {
	s := NewSession()

	if err := s.Load(t.Context(), strings.NewReader("fun inc n => n + 1\n")); err != nil {
		t.Fatalf("load: %v", err)
	}

	v, err := s.Exec(t.Context(), "inc 41")
	if err != nil || v != Number(42) {
		t.Errorf("got (%v, %v), want 42", v, err)
	}

	err = s.Load(t.Context(), strings.NewReader("fun => 1"))
	if !errors.Is(err, ErrParse) {
		t.Errorf("expected ErrParse, got %v", err)
	}
}

func TestSession_CheckDoesNotEvaluate(t *testing.T) {
	s := NewSession(WithMaxDepth(3))

	if err := s.Check(t.Context(), "let a = 1\nfun f x => x"); err != nil {
		t.Fatalf("check: %v", err)
	}

	if s.Env().Len() != 0 {
		t.Errorf("check stored %d names", s.Env().Len())
	}

	err := s.Check(t.Context(), "{{{{1}}}}")
	if !errors.Is(err, ErrParse) || !errors.Is(err, ErrMaxDepthExceeded) {
		t.Errorf("expected depth failure from session options, got %v", err)
	}
}
