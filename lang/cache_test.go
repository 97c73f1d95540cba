package lang

import (
	"errors"
	"strconv"
	"strings"
	"sync"
	"testing"
)

func TestParse_CacheSharesTrees(t *testing.T) {
	ClearCache()

	first, err := Parse(t.Context(), "fun add x y => x + y")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	second, err := Parse(t.Context(), "fun add x y => x + y")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if first == second {
		t.Error("expected distinct programs")
	}

	if first.Stmt != second.Stmt {
		t.Error("expected cached statement to be shared")
	}
}

func TestParse_CacheKeyIncludesOptions(t *testing.T) {
	ClearCache()

	nested := strings.Repeat("{", 10) + "1" + strings.Repeat("}", 10)

	if _, err := Parse(t.Context(), nested); err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if _, err := Parse(t.Context(), nested, WithMaxDepth(5)); !errors.Is(err, ErrMaxDepthExceeded) {
		t.Errorf("expected ErrMaxDepthExceeded, got %v", err)
	}
}

func TestParse_CacheModes(t *testing.T) {
	ClearCache()

	// The same text is a valid script but not a valid single statement.
	src := "1\n2"

	if _, err := ParseAll(t.Context(), src); err != nil {
		t.Fatalf("ParseAll error: %v", err)
	}

	if _, err := Parse(t.Context(), src); !errors.Is(err, ErrIncomplete) {
		t.Errorf("expected ErrIncomplete, got %v", err)
	}
}

func TestParse_CachesFailures(t *testing.T) {
	ClearCache()

	_, first := Parse(t.Context(), "1 +")
	_, second := Parse(t.Context(), "1 +")

	if first == nil || first != second {
		t.Errorf("expected the same cached error, got %v and %v", first, second)
	}
}

func TestParse_CacheConcurrent(t *testing.T) {
	ClearCache()

	var wg sync.WaitGroup

	for range 16 {
		wg.Go(func() {
			env := NewEnv()

			prog, err := Parse(t.Context(), "{\n  let a = 6\n  a * 7\n}")
			if err != nil {
				t.Errorf("parse error: %v", err)

				return
			}

			v, err := prog.Eval(t.Context(), env)
			if err != nil || v != Number(42) {
				t.Errorf("got (%v, %v), want 42", v, err)
			}
		})
	}

	wg.Wait()
}

func TestParseReader(t *testing.T) {
	script, err := ParseReader(t.Context(), strings.NewReader("let a = 1\na + 1\n"))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}

	if len(script.Stmts) != 2 {
		t.Fatalf("got %d statements, want 2", len(script.Stmts))
	}

	var got []Value

	err = script.Eval(t.Context(), NewEnv(), func(v Value) bool {
		got = append(got, v)

		return true
	})
	if err != nil {
		t.Fatalf("eval error: %v", err)
	}

	if len(got) != 2 || got[0] != (Unit{}) || got[1] != Number(2) {
		t.Errorf("got %v", got)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("boom") }

func TestParseReader_ReadError(t *testing.T) {
	_, err := ParseReader(t.Context(), failingReader{})
	if !errors.Is(err, ErrReadInput) {
		t.Errorf("expected ErrReadInput, got %v", err)
	}
}

func TestParse_CacheBounded(t *testing.T) {
	ClearCache()

	limit := MaxCacheEntries
	MaxCacheEntries = 8

	t.Cleanup(func() {
		MaxCacheEntries = limit
		ClearCache()
	})

	for i := range 3 * MaxCacheEntries {
		if _, err := Parse(t.Context(), strconv.Itoa(i)); err != nil {
			t.Fatalf("parse %d: %v", i, err)
		}

		if n := int(cacheLen.Load()); n > MaxCacheEntries {
			t.Fatalf("cache holds %d entries, limit %d", n, MaxCacheEntries)
		}
	}
}
