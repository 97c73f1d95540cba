package lang

import (
	"strings"
	"testing"
	"unicode/utf8"
)

// FuzzParse tests the parser with random inputs to find edge cases.
func FuzzParse(f *testing.F) {
	// Seed corpus with known valid inputs
	for _, src := range roundTripSources {
		f.Add(src)
	}

	f.Add("1 + 2 + 3")
	f.Add("{ { { } } }")
	f.Add("let = 1")
	f.Add("fun f => ")
	f.Add("99999999999999999999")
	f.Add("f\t1")

	f.Fuzz(func(t *testing.T, input string) {
		// Skip invalid UTF-8
		if !utf8.ValidString(input) {
			t.Skip("invalid UTF-8")
		}

		// Parser should not panic on any input
		defer func() {
			if r := recover(); r != nil {
				t.Errorf("parser panicked on input %q: %v", input, r)
			}
		}()

		prog, err := Parse(t.Context(), input, WithMaxDepth(64))
		if err != nil {
			return
		}

		// Anything that parses must format back to text with the same tree.
		text := strings.TrimSuffix(prog.Stmt.String(), "\n")

		again, err := Parse(t.Context(), text, WithMaxDepth(0))
		if err != nil {
			t.Fatalf("reparse of %q (from %q): %v", text, input, err)
		}

		if !again.Stmt.Equal(prog.Stmt) {
			t.Errorf("%q formatted as %q, which parses differently", input, text)
		}
	})
}

// FuzzEval checks that evaluation of any parsed script fails with an error
// rather than a panic.
func FuzzEval(f *testing.F) {
	f.Add("fun add x y => x + y\nadd 2 3")
	f.Add("let a = 1 / 0")
	f.Add("fun r n => r n\nr 1")
	f.Add("{ let k = 2\n k * k }")

	f.Fuzz(func(t *testing.T, input string) {
		if !utf8.ValidString(input) {
			t.Skip("invalid UTF-8")
		}

		s := NewSession(WithMaxDepth(64))

		defer func() {
			if r := recover(); r != nil {
				t.Errorf("evaluator panicked on input %q: %v", input, r)
			}
		}()

		_ = s.Run(t.Context(), input, nil)
	})
}
