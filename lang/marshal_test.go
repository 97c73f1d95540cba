package lang

import (
	"encoding/json"
	"testing"

	"github.com/goccy/go-yaml"
)

func TestProgram_MarshalJSON(t *testing.T) {
	prog, err := Parse(t.Context(), "fun add x y => x + y")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	jsonData, err := json.Marshal(prog)
	if err != nil {
		t.Fatalf("JSON marshal error: %v", err)
	}

	var result map[string]any
	if err := json.Unmarshal(jsonData, &result); err != nil {
		t.Fatalf("JSON unmarshal error: %v", err)
	}

	stmt, ok := result["statement"].(map[string]any)
	if !ok {
		t.Fatalf("expected 'statement' to be object: %v", result)
	}

	if stmt["fun"] != "add" {
		t.Errorf("expected fun=add, got %v", stmt["fun"])
	}

	params, ok := stmt["params"].([]any)
	if !ok || len(params) != 2 || params[0] != "x" || params[1] != "y" {
		t.Errorf("expected params [x y], got %v", stmt["params"])
	}

	body, ok := stmt["body"].(map[string]any)
	if !ok || body["op"] != "+" {
		t.Errorf("expected '+' operation body, got %v", stmt["body"])
	}
}

func TestScript_MarshalJSON(t *testing.T) {
	script, err := ParseAll(t.Context(), "let a = 1\nf a 2\n{}")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	jsonData, err := json.Marshal(script)
	if err != nil {
		t.Fatalf("JSON marshal error: %v", err)
	}

	var result struct {
		Statements []any `json:"statements"`
	}
	if err := json.Unmarshal(jsonData, &result); err != nil {
		t.Fatalf("JSON unmarshal error: %v", err)
	}

	if len(result.Statements) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(result.Statements))
	}

	let, ok := result.Statements[0].(map[string]any)
	if !ok || let["let"] != "a" || let["value"] != float64(1) {
		t.Errorf("unexpected binding: %v", result.Statements[0])
	}

	// "f a 2" is a call whose only argument is the call "a 2".
	call, ok := result.Statements[1].(map[string]any)
	if !ok || call["call"] != "f" {
		t.Fatalf("unexpected call: %v", result.Statements[1])
	}

	args, ok := call["args"].([]any)
	if !ok || len(args) != 1 {
		t.Fatalf("expected one argument, got %v", call["args"])
	}

	if inner, ok := args[0].(map[string]any); !ok || inner["call"] != "a" {
		t.Errorf("expected nested call to a, got %v", args[0])
	}

	block, ok := result.Statements[2].(map[string]any)
	if !ok {
		t.Fatalf("unexpected block: %v", result.Statements[2])
	}

	if stmts, ok := block["block"].([]any); !ok || len(stmts) != 0 {
		t.Errorf("expected empty block, got %v", block["block"])
	}
}

func TestExpr_ToNative(t *testing.T) {
	tests := []struct {
		name string
		expr *Expr
		want string
	}{
		{name: "number", expr: NewNumber(7), want: "7\n"},
		{name: "binding", expr: NewBinding("x"), want: "binding: x\n"},
		{
			name: "operation",
			expr: NewOperation(OpDiv, NewNumber(6), NewBinding("d")),
			want: "lhs: 6\nop: /\nrhs:\n  binding: d\n",
		},
		{
			name: "call",
			expr: NewCall("g", NewNumber(1)),
			want: "args:\n- 1\ncall: g\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := yaml.Marshal(tt.expr.ToNative())
			if err != nil {
				t.Fatalf("YAML marshal error: %v", err)
			}

			if got := string(data); got != tt.want {
				t.Errorf("got:\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}
}
