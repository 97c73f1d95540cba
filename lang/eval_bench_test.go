package lang

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

// BenchmarkEval benchmarks statement evaluation against a prepared scope.
func BenchmarkEval(b *testing.B) {
	tests := []struct {
		name    string
		prelude string
		expr    string
	}{
		{
			name:    "simple_arithmetic",
			prelude: "let x = 10\nlet y = 20",
			expr:    "x + y",
		},
		{
			name:    "function_call",
			prelude: "fun add a b => a + b",
			expr:    "add 2 3",
		},
		{
			name:    "nested_calls",
			prelude: "fun sq n => n * n\nfun add a b => a + b",
			expr:    "add {sq 3} {sq 4}",
		},
		{
			name:    "block",
			prelude: "let base = 100",
			expr:    "{\n  let a = base * 2\n  let b = a / 3\n  a - b\n}",
		},
	}

	for _, tt := range tests {
		b.Run(tt.name, func(b *testing.B) {
			ctx := context.Background()

			s := NewSession()
			if err := s.Run(ctx, tt.prelude, nil); err != nil {
				b.Fatalf("prelude error: %v", err)
			}

			prog, err := Parse(ctx, tt.expr)
			if err != nil {
				b.Fatalf("parse error: %v", err)
			}

			b.ResetTimer()

			for b.Loop() {
				if _, err := prog.Eval(ctx, s.Env()); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkParse compares cached and uncached parsing of a script.
func BenchmarkParse(b *testing.B) {
	var sb strings.Builder
	for range 100 {
		sb.WriteString("fun f a b => { let c = a * b\n c + a }\nf 1 {2 + 3}\n")
	}

	source := sb.String()

	b.Run("uncached", func(b *testing.B) {
		for b.Loop() {
			ClearCache()

			if _, err := ParseAll(b.Context(), source); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("cached", func(b *testing.B) {
		ClearCache()

		for b.Loop() {
			if _, err := ParseAll(b.Context(), source); err != nil {
				b.Fatal(err)
			}
		}
	})
}

// BenchmarkRecursion measures deep call chains.
func BenchmarkRecursion(b *testing.B) {
	ctx := context.Background()

	var sb strings.Builder

	sb.WriteString("fun f0 n => n + 1\n")

	for i := 1; i < 50; i++ {
		fmt.Fprintf(&sb, "fun f%d n => f%d n\n", i, i-1)
	}

	s := NewSession()
	if err := s.Run(ctx, sb.String(), nil); err != nil {
		b.Fatal(err)
	}

	for b.Loop() {
		if _, err := s.Exec(ctx, "f49 1"); err != nil {
			b.Fatal(err)
		}
	}
}
