package lang

import (
	"errors"
	"slices"
	"testing"
)

func TestEnv_BindingLookupWalksParents(t *testing.T) {
	root := NewEnv()
	root.StoreBinding("a", Number(1))
	root.StoreBinding("b", Number(2))

	child := root.Child()
	child.StoreBinding("b", Number(20))

	grandchild := child.Child()

	tests := []struct {
		env  *Env
		name string
		want Value
	}{
		{env: grandchild, name: "a", want: Number(1)},
		{env: grandchild, name: "b", want: Number(20)},
		{env: root, name: "b", want: Number(2)},
	}

	for _, tt := range tests {
		got, err := tt.env.Binding(tt.name)
		if err != nil {
			t.Fatalf("Binding(%q): %v", tt.name, err)
		}

		if got != tt.want {
			t.Errorf("Binding(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}

	if _, err := root.Binding("missing"); !errors.Is(err, ErrUndefinedBinding) {
		t.Errorf("expected ErrUndefinedBinding, got %v", err)
	}
}

func TestEnv_ChildDoesNotLeakIntoParent(t *testing.T) {
	root := NewEnv()

	child := root.Child()
	child.StoreBinding("x", Number(1))
	child.StoreFunc("f", []string{"p"}, NewExprStmt(NewBinding("p")))

	if _, err := root.Binding("x"); err == nil {
		t.Error("child binding visible in parent")
	}

	if _, err := root.Func("f"); err == nil {
		t.Error("child function visible in parent")
	}
}

func TestEnv_FuncCapturesParamsByValue(t *testing.T) {
	env := NewEnv()

	params := []string{"a", "b"}
	body := NewExprStmt(NewOperation(OpAdd, NewBinding("a"), NewBinding("b")))
	env.StoreFunc("add", params, body)

	params[0] = "z"

	fn, err := env.Func("add")
	if err != nil {
		t.Fatalf("Func: %v", err)
	}

	if !slices.Equal(fn.Params, []string{"a", "b"}) {
		t.Errorf("params = %v", fn.Params)
	}

	if !fn.Body.Equal(body) {
		t.Errorf("body = %s", fn.Body)
	}

	if got := fn.Signature("add"); got != "add a b" {
		t.Errorf("signature = %q", got)
	}
}

func TestEnv_EntryKindMismatch(t *testing.T) {
	env := NewEnv()
	env.StoreFunc("f", nil, NewExprStmt(NewNumber(1)))
	env.StoreBinding("x", Number(1))

	if _, err := env.Binding("f"); !errors.Is(err, ErrUndefinedBinding) {
		t.Errorf("expected ErrUndefinedBinding, got %v", err)
	}

	if _, err := env.Func("x"); !errors.Is(err, ErrUndefinedFunction) {
		t.Errorf("expected ErrUndefinedFunction, got %v", err)
	}

	// An inner binding hides an outer function of the same name.
	child := env.Child()
	child.StoreBinding("f", Number(2))

	if _, err := child.Func("f"); !errors.Is(err, ErrUndefinedFunction) {
		t.Errorf("expected ErrUndefinedFunction, got %v", err)
	}
}

func TestEnv_NamesAndEntries(t *testing.T) {
	root := NewEnv()
	root.StoreBinding("b", Number(1))
	root.StoreFunc("a", []string{"x"}, NewExprStmt(NewBinding("x")))

	child := root.Child()
	child.StoreBinding("c", Number(3))
	child.StoreBinding("b", Number(2))

	if got := slices.Collect(child.Names()); !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Errorf("names = %v", got)
	}

	if got := child.Len(); got != 3 {
		t.Errorf("len = %d, want 3", got)
	}

	for ent := range child.Entries() {
		switch ent.Name {
		case "a":
			if ent.Func == nil || ent.Value != nil {
				t.Errorf("a should be a function: %+v", ent)
			}
		case "b":
			if ent.Value != Number(2) {
				t.Errorf("b should be shadowed by the child: %v", ent.Value)
			}
		}
	}

	if got := root.Len(); got != 2 {
		t.Errorf("root len = %d, want 2", got)
	}
}

func TestEntry_DefinitionRecreatesScope(t *testing.T) {
	env := NewEnv()
	if _, err := eval(t, env,
		"let neg = 0 - 5",
		"let nothing = {}",
		"fun add x y => x + y",
	); err != nil {
		t.Fatalf("setup: %v", err)
	}

	again := NewEnv()

	for ent := range env.Entries() {
		if _, err := eval(t, again, ent.Definition().String()); err != nil {
			t.Fatalf("replay %s: %v", ent.Name, err)
		}
	}

	v, err := eval(t, again, "add {neg} 1")
	if err != nil || v != Number(-4) {
		t.Errorf("got (%v, %v), want -4", v, err)
	}

	if v, err := again.Binding("nothing"); err != nil || !IsUnit(v) {
		t.Errorf("nothing = (%v, %v), want unit", v, err)
	}
}
