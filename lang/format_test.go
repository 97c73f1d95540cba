package lang

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
)

var roundTripSources = []string{
	"1",
	"1 + 2",
	"x / y",
	"let a = 10 / 2",
	"fun nothing => {}",
	"fun add x y => x + y",
	"fun f x => let y = x",
	"add 2 3",
	"add x 3",
	"add {x} 3",
	"f 1 + 2",
	"f 1 + 2 + 3",
	"f 1 + g 2 + 3",
	"{}",
	"{ 1 2 3 }",
	"{\n  let a = 10\n  let b = a\n  b\n}",
	"{\n  f 1\n  2\n}",
	"{1 + 2} + 3",
	"{ f 1 } * 2",
	"let v = { let w = 2\n w * w }",
	"fun g a b => { let c = a * b\n c + a }",
	"h {1} {2} x",
	"letter",
	"let x = fun",
}

func TestFormat_RoundTrip(t *testing.T) {
	for _, src := range roundTripSources {
		t.Run(src, func(t *testing.T) {
			prog, err := Parse(t.Context(), src)
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}

			for _, indent := range []int{0, 2, 4} {
				var buf bytes.Buffer
				if err := prog.Format(t.Context(), &buf, indent); err != nil {
					t.Fatalf("format error: %v", err)
				}

				text := strings.TrimSuffix(buf.String(), "\n")

				again, err := Parse(t.Context(), text)
				if err != nil {
					t.Fatalf("reparse of %q: %v", text, err)
				}

				if !again.Stmt.Equal(prog.Stmt) {
					t.Errorf("indent %d: %q reparsed as %s, want %s",
						indent, text, again.Stmt, prog.Stmt)
				}
			}
		})
	}
}

func TestFormat_Canonical(t *testing.T) {
	tests := []struct {
		name string
		stmt *Stmt
		want string
	}{
		{
			name: "block",
			stmt: NewLet("v", NewBlock(
				NewLet("w", NewNumber(2)),
				NewExprStmt(NewOperation(OpMul, NewBinding("w"), NewBinding("w"))),
			)),
			want: "let v = {\n  let w = 2\n  w * w\n}\n",
		},
		{
			name: "negative number",
			stmt: NewExprStmt(NewOperation(OpAdd, NewNumber(-3), NewNumber(1))),
			want: "{ 0 - 3 } + 1\n",
		},
		{
			name: "binding argument before another argument",
			stmt: NewExprStmt(NewCall("add", NewBinding("x"), NewNumber(3))),
			want: "add { x } 3\n",
		},
		{
			name: "call as left operand",
			stmt: NewExprStmt(NewOperation(OpSub,
				NewCall("f", NewNumber(1)), NewNumber(2))),
			want: "{ f 1 } - 2\n",
		},
		{
			name: "operation as operand",
			stmt: NewExprStmt(NewOperation(OpMul,
				NewNumber(4),
				NewOperation(OpAdd, NewNumber(1), NewNumber(2)))),
			want: "4 * { 1 + 2 }\n",
		},
		{
			name: "function",
			stmt: NewFunc("f", []string{"a", "b"}, NewExprStmt(NewCall("g", NewBinding("a")))),
			want: "fun f a b => g a\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			prog := &Program{Stmt: tt.stmt, cfg: makeConfig()}
			if err := prog.Format(t.Context(), &buf, 2); err != nil {
				t.Fatalf("format error: %v", err)
			}

			if got := buf.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

// Programmatic trees that have no direct literal form still format to text
// with the same value.
func TestFormat_PreservesValue(t *testing.T) {
	stmts := []*Stmt{
		NewExprStmt(NewOperation(OpSub, NewNumber(0), NewNumber(math.MinInt64))),
		NewExprStmt(NewOperation(OpAdd,
			NewOperation(OpMul, NewNumber(-2), NewNumber(3)),
			NewOperation(OpDiv, NewNumber(9), NewNumber(-4)))),
		NewExprStmt(NewCall("pair",
			NewCall("neg", NewNumber(5)),
			NewOperation(OpAdd, NewNumber(1), NewBinding("k")),
			NewNumber(7))),
	}

	setup := []string{
		"let k = 10",
		"fun neg n => 0 - n",
		"fun pair a b c => a + { b * c }",
	}

	for _, stmt := range stmts {
		env := NewEnv()
		if _, err := eval(t, env, setup...); err != nil {
			t.Fatalf("setup: %v", err)
		}

		want, err := (&Program{Stmt: stmt, cfg: makeConfig()}).Eval(t.Context(), env)
		if err != nil {
			t.Fatalf("direct eval of %s: %v", stmt, err)
		}

		got, err := eval(t, env, stmt.String())
		if err != nil {
			t.Fatalf("eval of %q: %v", stmt.String(), err)
		}

		if got != want {
			t.Errorf("%q = %v, want %v", stmt.String(), got, want)
		}
	}
}

func TestFormat_JSONAndYAML(t *testing.T) {
	prog, err := Parse(t.Context(), "let a = add 1 {2 * x}")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	var buf bytes.Buffer
	if err := prog.FormatJSON(t.Context(), &buf, 0); err != nil {
		t.Fatalf("json: %v", err)
	}

	var fromJSON map[string]any
	if err := json.Unmarshal(buf.Bytes(), &fromJSON); err != nil {
		t.Fatalf("unmarshal json %q: %v", buf.String(), err)
	}

	stmt, ok := fromJSON["statement"].(map[string]any)
	if !ok {
		t.Fatalf("statement missing: %v", fromJSON)
	}

	if stmt["let"] != "a" {
		t.Errorf("let = %v", stmt["let"])
	}

	buf.Reset()

	if err := prog.FormatYAML(t.Context(), &buf, 2); err != nil {
		t.Fatalf("yaml: %v", err)
	}

	var fromYAML map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &fromYAML); err != nil {
		t.Fatalf("unmarshal yaml %q: %v", buf.String(), err)
	}

	if _, ok := fromYAML["statement"]; !ok {
		t.Errorf("statement missing from yaml: %s", buf.String())
	}
}

func TestPrint(t *testing.T) {
	prog, err := Parse(t.Context(), "fun f x => { x + 1 }")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	var buf bytes.Buffer
	if err := prog.Print(t.Context(), &buf); err != nil {
		t.Fatalf("print error: %v", err)
	}

	want := strings.Join([]string{
		"Function: f",
		"  Parameters: x",
		"  Body",
		"    Block",
		"      Operation: +",
		"        Usage: x",
		"        Number: 1",
		"",
	}, "\n")

	if got := buf.String(); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}
