package cli

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func TestResolve_Values(t *testing.T) {
	src := strings.Join([]string{
		"max_depth: 200",
		"log-level: debug",
		"log_pretty: false",
		"load:",
		"  - a.moye",
		"  - 7",
		"",
	}, "\n")

	res, err := resolve(strings.NewReader(src))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	cfg, ok := res.(config)
	if !ok {
		t.Fatalf("resolver type = %T, want config", res)
	}

	tests := []struct {
		flag string
		want any
	}{
		{"max-depth", "200"},
		{"log-level", "debug"},
		{"log-pretty", false},
	}

	for _, tt := range tests {
		got, err := cfg.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: tt.flag}})
		if err != nil {
			t.Fatalf("Resolve(%s): %v", tt.flag, err)
		}

		if got != tt.want {
			t.Errorf("Resolve(%s) = %v (%T), want %v", tt.flag, got, got, tt.want)
		}
	}

	load, _ := cfg.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: "load"}})
	if items, _ := load.([]any); !slices.Equal(items, []any{"a.moye", "7"}) {
		t.Errorf("Resolve(load) = %v, want [a.moye 7]", load)
	}

	missing, err := cfg.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: "missing"}})
	if missing != nil || err != nil {
		t.Errorf("Resolve(missing) = %v, %v, want nil, nil", missing, err)
	}
}

func TestResolve_EmptyAndInvalid(t *testing.T) {
	for _, src := range []string{"", "max-depth: [unterminated"} {
		res, err := resolve(strings.NewReader(src))
		if err != nil {
			t.Errorf("resolve(%q) error = %v, want nil", src, err)
		}

		if cfg, _ := res.(config); len(cfg) != 0 {
			t.Errorf("resolve(%q) = %v, want empty", src, cfg)
		}
	}
}

// TestResolve_Kong tests that configuration values reach parsed flags and
// that the command line overrides them.
func TestResolve_Kong(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	err := os.WriteFile(path, []byte("max-depth: 50\nload: [x.moye, y.moye]\n"), 0o600)
	if err != nil {
		t.Fatal(err)
	}

	type app struct {
		MaxDepth int      `default:"1000" name:"max-depth"`
		Load     []string `name:"load"`
	}

	parse := func(args ...string) app {
		t.Helper()

		var cli app

		parser, err := kong.New(&cli, kong.Configuration(resolve, path))
		if err != nil {
			t.Fatal(err)
		}

		if _, err := parser.Parse(args); err != nil {
			t.Fatal(err)
		}

		return cli
	}

	cli := parse()
	if cli.MaxDepth != 50 {
		t.Errorf("MaxDepth = %d, want 50", cli.MaxDepth)
	}

	if !slices.Equal(cli.Load, []string{"x.moye", "y.moye"}) {
		t.Errorf("Load = %v, want [x.moye y.moye]", cli.Load)
	}

	if cli = parse("--max-depth=7"); cli.MaxDepth != 7 {
		t.Errorf("MaxDepth = %d, want 7", cli.MaxDepth)
	}
}

func TestFindPrelude(t *testing.T) {
	isolate(t)

	dir := t.TempDir()

	if err := os.WriteFile(filepath.Join(dir, "defs.moye"), []byte("let a = 1\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv(pathEnv(), dir)

	paths, err := findPrelude([]string{"defs.moye", "/abs/other.moye"})
	if err != nil {
		t.Fatalf("findPrelude: %v", err)
	}

	want := []string{filepath.Join(dir, "defs.moye"), "/abs/other.moye"}
	if !slices.Equal(paths, want) {
		t.Errorf("paths = %v, want %v", paths, want)
	}

	if _, err := findPrelude([]string{"absent.moye"}); err == nil {
		t.Error("findPrelude(absent) returned no error")
	}
}
