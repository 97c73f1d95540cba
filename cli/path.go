package cli

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/ardnew/mung"

	"github.com/ardnew/moye/lang"
	"github.com/ardnew/moye/pkg"
)

// baseConfig is the base name of the configuration file and namespace.
const baseConfig = "config"

// baseLib is the directory under the configuration directory searched last
// for prelude files.
const baseLib = "lib"

// DefaultDirMode is the default permission mode for created directories.
var defaultDirMode os.FileMode = 0o700

// basePrefix returns the base prefix string used to construct the path to the
// configuration directory and the prefix for environment variable identifiers.
//
// By default, basePrefix is the base name of the executable file unless it
// matches one of the following substitution rules:
//   - "__debug_bin" (default output of the dlv debugger): replaced with cmd
//   - "^\.+" (dot-prefixed names): remove the dot prefix
var basePrefix = sync.OnceValue(
	func() string {
		id := os.Args[0]
		exe, err := os.Executable()
		if err == nil {
			id = exe
		}

		ext := filepath.Ext(filepath.Base(id))
		id = strings.TrimSuffix(filepath.Base(id), ext)

		for rex, rep := range map[*regexp.Regexp]string{
			regexp.MustCompile(`^__debug_bin\d+$`): pkg.Name, // dlv default output
			regexp.MustCompile(`^\.+`):             "",       // remove leading dot(s)
		} {
			id = rex.ReplaceAllString(id, rep)
		}

		return id
	},
)

// configDir returns the configuration directory path.
var configDir = sync.OnceValue(
	func() string {
		dir, err := os.UserConfigDir()
		if err != nil {
			dir, err = os.UserHomeDir()
			if err == nil {
				dir = filepath.Join(dir, ".config")
			} else {
				var err error
				dir, err = os.Getwd()
				if err != nil {
					dir = "."
				}
			}
		}

		return filepath.Join(dir, basePrefix())
	},
)

// cacheDir returns the cache directory path used for transient files.
var cacheDir = sync.OnceValue(
	func() string {
		dir, err := os.UserCacheDir()
		if err != nil {
			dir, err = os.UserHomeDir()
			if err == nil {
				dir = filepath.Join(dir, ".cache")
			} else {
				var err error
				dir, err = os.Getwd()
				if err != nil {
					dir = "."
				}
			}
		}

		return filepath.Join(dir, basePrefix())
	},
)

// configPath returns the absolute path to a file or directory formed by joining
// the global configuration directory path with the given path elements.
//
// If no elements are given, it is equivalent to calling [configDir].
func configPath(elem ...string) string {
	return filepath.Join(append([]string{configDir()}, elem...)...)
}

// mkdirAllRequired creates all required runtime directories.
func mkdirAllRequired() error {
	// Create base config directory
	err := os.MkdirAll(configDir(), defaultDirMode)
	if err != nil {
		return err
	}

	// Create base cache directory
	err = os.MkdirAll(cacheDir(), defaultDirMode)
	if err != nil {
		return err
	}

	return nil
}

// pathEnv returns the name of the environment variable listing directories
// searched for prelude files, e.g. MOYE_PATH.
func pathEnv() string {
	return strings.ToUpper(basePrefix()) + "_PATH"
}

// searchPath returns the directories searched for prelude files given by a
// relative path: the working directory, each existing directory listed in the
// path variable, and finally the library directory under the configuration
// directory.
func searchPath() []string {
	dirs := mung.Make(
		mung.WithSubjectItems(os.Getenv(pathEnv())),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems("."),
		mung.WithFilter(isDir),
	).String()

	return append(filepath.SplitList(dirs), configPath(baseLib))
}

func isDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}

// errPreludeNotFound reports a prelude file missing from every search path
// directory.
var errPreludeNotFound = lang.NewError("prelude not found")

// findPrelude resolves each prelude name to a file path. Absolute names are
// used as given. Relative names are looked up in [searchPath] order, and a
// name without an extension also matches the file with [pkg.Extension].
func findPrelude(names []string) ([]string, error) {
	if len(names) == 0 {
		return nil, nil
	}

	search := searchPath()
	paths := make([]string, 0, len(names))

	for _, name := range names {
		path, err := lookPrelude(name, search)
		if err != nil {
			return nil, err
		}

		paths = append(paths, path)
	}

	return paths, nil
}

func lookPrelude(name string, search []string) (string, error) {
	if filepath.IsAbs(name) {
		return name, nil
	}

	candidates := []string{name}
	if filepath.Ext(name) == "" {
		candidates = append(candidates, name+pkg.Extension)
	}

	for _, dir := range search {
		for _, file := range candidates {
			path := filepath.Join(dir, file)

			info, err := os.Stat(path)
			if err == nil && info.Mode().IsRegular() {
				return path, nil
			}

			if err != nil && !errors.Is(err, os.ErrNotExist) {
				return "", errPreludeNotFound.
					With(slog.String("file", path)).
					Wrap(err)
			}
		}
	}

	return "", errPreludeNotFound.
		Describe("prelude %q not found", name).
		With(slog.Any("search", search))
}
