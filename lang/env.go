package lang

import (
	"iter"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Func is a user-defined function: its parameter names and body, captured by
// value when the function is defined. A Func never captures the scope it was
// defined in.
type Func struct {
	Params []string
	Body   *Stmt
}

// Signature returns "name p1 p2 ...".
func (f Func) Signature(name string) string {
	return strings.Join(append([]string{name}, f.Params...), " ")
}

// Entry is a name visible from an [Env] together with what it refers to.
// Exactly one of Value and Func is set.
type Entry struct {
	Name  string
	Value Value
	Func  *Func
}

// Env is a lexical scope: a table of bindings and functions chained to an
// optional parent scope. Lookups walk from the innermost scope outward and
// the first match wins.
//
// A child scope is created for every block and every function call and is
// discarded when that evaluation returns. An Env is not safe for concurrent
// use.
type Env struct {
	named  map[string]Entry
	parent *Env
}

// NewEnv returns an empty root scope.
func NewEnv() *Env {
	return &Env{named: make(map[string]Entry)}
}

// Child returns a new empty scope whose parent is e.
func (e *Env) Child() *Env {
	return &Env{named: make(map[string]Entry), parent: e}
}

// StoreBinding binds name to v in e, replacing any entry of the same name in
// this scope.
func (e *Env) StoreBinding(name string, v Value) {
	e.named[name] = Entry{Name: name, Value: v}
}

// StoreFunc defines the function name in e, replacing any entry of the same
// name in this scope.
func (e *Env) StoreFunc(name string, params []string, body *Stmt) {
	e.named[name] = Entry{
		Name: name,
		Func: &Func{Params: slices.Clone(params), Body: body},
	}
}

// Binding returns the value bound to name in the nearest scope that defines
// name. It fails with [ErrUndefinedBinding] when that entry is a function or
// when no scope defines name.
func (e *Env) Binding(name string) (Value, error) {
	if ent, ok := e.lookup(name); ok && ent.Func == nil {
		return ent.Value, nil
	}

	return nil, ErrUndefinedBinding.
		Describe("binding with name '%s' does not exist", name).
		With(e.suggest(name)...)
}

// Func returns the function defined as name in the nearest scope that
// defines name. It fails with [ErrUndefinedFunction] when that entry is a
// binding or when no scope defines name.
func (e *Env) Func(name string) (Func, error) {
	if ent, ok := e.lookup(name); ok && ent.Func != nil {
		return *ent.Func, nil
	}

	return Func{}, ErrUndefinedFunction.
		Describe("function with name '%s' does not exist", name).
		With(e.suggest(name)...)
}

func (e *Env) lookup(name string) (Entry, bool) {
	for s := e; s != nil; s = s.parent {
		if ent, ok := s.named[name]; ok {
			return ent, true
		}
	}

	return Entry{}, false
}

// Len returns the number of distinct names visible from e.
func (e *Env) Len() int {
	return len(e.visible())
}

// Names returns the names visible from e in sorted order.
func (e *Env) Names() iter.Seq[string] {
	return slices.Values(slices.Sorted(maps.Keys(e.visible())))
}

// Entries returns the entries visible from e, sorted by name. Entries in
// inner scopes shadow entries of the same name in outer scopes.
func (e *Env) Entries() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		vis := e.visible()
		for _, name := range slices.Sorted(maps.Keys(vis)) {
			if !yield(vis[name]) {
				return
			}
		}
	}
}

// Definition returns a statement that recreates ent when evaluated.
func (ent Entry) Definition() *Stmt {
	switch v := ent.Value.(type) {
	case Number:
		return NewLet(ent.Name, NewNumber(int64(v)))
	case Unit:
		return NewLet(ent.Name, NewBlock())
	}

	if ent.Func != nil {
		return NewFunc(ent.Name, ent.Func.Params, ent.Func.Body)
	}

	return nil
}

func (e *Env) visible() map[string]Entry {
	vis := make(map[string]Entry)

	for s := e; s != nil; s = s.parent {
		for name, ent := range s.named {
			if _, shadowed := vis[name]; !shadowed {
				vis[name] = ent
			}
		}
	}

	return vis
}

// maxSuggestions bounds the number of similar names attached to a lookup
// failure.
const maxSuggestions = 3

// suggest returns log attributes naming the missing name and the visible
// names that fuzzily resemble it.
func (e *Env) suggest(name string) []slog.Attr {
	attrs := []slog.Attr{slog.String("name", name)}

	names := slices.Collect(e.Names())
	if len(names) == 0 {
		return attrs
	}

	matches := fuzzy.Find(name, names)
	if len(matches) == 0 {
		return attrs
	}

	similar := make([]string, 0, maxSuggestions)
	for _, m := range matches[:min(len(matches), maxSuggestions)] {
		similar = append(similar, m.Str)
	}

	return append(attrs, slog.Any("similar", similar))
}
