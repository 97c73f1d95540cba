package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ardnew/moye/lang"
)

// isolate points the configuration and cache directories at a temporary
// directory. The directories are resolved once per process, so only the
// first call decides them; later runs recreate them as needed.
func isolate(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()

	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Setenv("HOME", dir)

	return dir
}

func exitUnexpected(t *testing.T) func(int) {
	return func(code int) {
		t.Fatalf("unexpected exit with code %d", code)
	}
}

func TestRun_EvalErrors(t *testing.T) {
	isolate(t)

	tests := []struct {
		name string
		args []string
		want error
	}{
		{
			name: "evaluation",
			args: []string{"eval", "-e", "1 / 0"},
			want: lang.ErrDivisionByZero,
		},
		{
			name: "parse",
			args: []string{"eval", "-e", "let = 1"},
			want: lang.ErrParse,
		},
		{
			name: "depth limit",
			args: []string{"--max-depth", "2", "eval", "-e", "{{{{1}}}}"},
			want: lang.ErrMaxDepthExceeded,
		},
		{
			name: "missing prelude",
			args: []string{"--load", "absent.moye", "eval", "-e", "1"},
			want: errPreludeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Run(t.Context(), exitUnexpected(t), tt.args...)
			if !errors.Is(err, tt.want) {
				t.Errorf("Run(%q) error = %v, want %v", tt.args, err, tt.want)
			}
		})
	}
}

func TestRun_PreludeFromPath(t *testing.T) {
	dir := isolate(t)

	lib := filepath.Join(dir, "lib")
	if err := os.MkdirAll(lib, 0o700); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(filepath.Join(lib, "zero.moye"), []byte("let zero = 0\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv(pathEnv(), lib)

	err := Run(t.Context(), exitUnexpected(t), "--load", "zero.moye", "eval", "-e", "5 / zero")
	if !errors.Is(err, lang.ErrDivisionByZero) {
		t.Errorf("error = %v, want %v", err, lang.ErrDivisionByZero)
	}
}

func TestRun_InitWritesConfig(t *testing.T) {
	isolate(t)

	if err := Run(t.Context(), exitUnexpected(t), "--max-depth", "77", "init"); err != nil {
		t.Fatalf("init: %v", err)
	}

	path := configPath(baseConfig + ".yaml")
	t.Cleanup(func() { os.Remove(path) })

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	res, err := resolve(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}

	if got := res.(config)["max-depth"]; got != "77" {
		t.Errorf("max-depth = %v, want 77\n%s", got, data)
	}

	// The written file now supplies the default.
	err = Run(t.Context(), exitUnexpected(t), "eval", "-e", "{{{{{{{{1}}}}}}}}")
	if err != nil {
		t.Errorf("eval with configured depth: %v", err)
	}
}
