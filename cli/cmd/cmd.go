package cmd

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/moye/lang"
	"github.com/ardnew/moye/log"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type (
	optionsKey struct{}
	preludeKey struct{}
	stdoutKey  struct{}
)

// WithOptions returns a new context.Context carrying the interpreter options
// applied to every session and parse a command performs.
func WithOptions(ctx context.Context, opts ...lang.Option) context.Context {
	return context.WithValue(ctx, optionsKey{}, opts)
}

func optionsFrom(ctx context.Context) []lang.Option {
	opts, _ := ctx.Value(optionsKey{}).([]lang.Option)

	return opts
}

// WithPrelude returns a new context.Context carrying the paths of script
// files loaded, in order, into every new session before it is used.
func WithPrelude(ctx context.Context, paths []string) context.Context {
	return context.WithValue(ctx, preludeKey{}, paths)
}

func preludeFrom(ctx context.Context) []string {
	paths, _ := ctx.Value(preludeKey{}).([]string)

	return paths
}

// WithStdout returns a new context.Context whose commands write their results
// to w instead of os.Stdout.
func WithStdout(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, stdoutKey{}, w)
}

func stdoutFrom(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(stdoutKey{}).(io.Writer); ok && w != nil {
		return w
	}

	return os.Stdout
}

// newSession creates an interpreter session with the options carried by ctx
// and loads every prelude file into its root scope.
func newSession(ctx context.Context) (*lang.Session, error) {
	opts := append([]lang.Option{lang.WithLogger(log.Default())}, optionsFrom(ctx)...)
	session := lang.NewSession(opts...)

	for _, path := range preludeFrom(ctx) {
		if err := loadPrelude(ctx, session, path); err != nil {
			return nil, err
		}
	}

	return session, nil
}

func loadPrelude(ctx context.Context, session *lang.Session, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return ErrLoadPrelude.With(slog.String("file", path)).Wrap(err)
	}
	defer file.Close()

	if err := session.Load(ctx, file); err != nil {
		return ErrLoadPrelude.With(slog.String("file", path)).Wrap(err)
	}

	log.DebugContext(ctx, "prelude loaded",
		slog.String("file", path),
		slog.Int("names", session.Env().Len()),
	)

	return nil
}

type (
	sourceFiles struct {
		files    []*os.File
		hasStdin bool
		reader   io.Reader
	}

	// SourceFiles reads the concatenated content of one or more inputs.
	SourceFiles interface {
		IsZero() bool
		io.ReadCloser
	}
)

// IsZero reports whether there are no source files.
func (s *sourceFiles) IsZero() bool { return len(s.files) == 0 && !s.hasStdin }

// Read implements io.Reader by reading from all source files in order,
// followed by stdin if present.
func (s *sourceFiles) Read(p []byte) (n int, err error) {
	if s.reader == nil {
		readers := make([]io.Reader, 0, len(s.files)+1)
		for _, f := range s.files {
			readers = append(readers, f)
		}

		if s.hasStdin {
			readers = append(readers, os.Stdin)
		}

		s.reader = io.MultiReader(readers...)
	}

	return s.reader.Read(p)
}

// Close closes every opened file. Stdin is left open.
func (s *sourceFiles) Close() error {
	var errs []error

	for _, f := range s.files {
		errs = append(errs, f.Close())
	}

	return errors.Join(errs...)
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// buildSourceFiles constructs a SourceFiles from the given source paths.
// It deduplicates readers by resolving symlinks and comparing device/inode
// pairs. All occurrences of "-" are replaced with a single stdin reader placed
// last so it reads after all regular files.
func buildSourceFiles(sources []string) SourceFiles {
	if len(sources) == 0 {
		return nil
	}

	var srcs sourceFiles

	srcs.files = make([]*os.File, 0, len(sources))
	seen := make(map[fileKey]struct{})

	stdinInfo, _ := os.Stdin.Stat()
	stdinKey, _ := makeFileKey(stdinInfo)

	for _, src := range sources {
		if src == stdinSource {
			seen[stdinKey] = struct{}{}

			continue
		}

		file, ok := openUniqueFile(src, seen)
		if !ok {
			log.Warn("skipping source", slog.String("file", src))

			continue
		}

		srcs.files = append(srcs.files, file)
	}

	// Stdin may have been included via "-" or as a named file.
	// Both of which will be represented by stdinKey in seen.
	_, srcs.hasStdin = seen[stdinKey]

	if srcs.IsZero() {
		return nil
	}

	return &srcs
}

// openUniqueFile opens the file at path if it hasn't been seen before.
// It resolves symlinks and uses device/inode to detect duplicates.
// Returns the opened file and true if successful, or nil and false if the file
// is a duplicate or cannot be opened.
func openUniqueFile(path string, seen map[fileKey]struct{}) (*os.File, bool) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, false
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return nil, false
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, false
	}

	key, ok := makeFileKey(info)
	if !ok {
		return nil, false
	}

	if _, exists := seen[key]; exists {
		return nil, false
	}

	seen[key] = struct{}{}

	file, err := os.Open(resolved)
	if err != nil {
		return nil, false
	}

	return file, true
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	if info == nil {
		return key, false
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: stat.Dev, ino: stat.Ino}, true
}

// openSources returns a reader over the given sources, defaulting to stdin.
func openSources(sources []string) (SourceFiles, error) {
	if len(sources) == 0 {
		sources = []string{stdinSource}
	}

	src := buildSourceFiles(sources)
	if src == nil {
		return nil, ErrNoSource.With(slog.Any("sources", sources))
	}

	return src, nil
}
