// Package cli contains the command line interface for moye.
//
// # Usage
//
// Without a command, moye starts an interactive session:
//
//	moye
//	moye --load prelude.moye
//
// Scripts and single statements are evaluated with the eval command. Each
// result other than the unit value is printed on its own line, and the
// process exits with status 1 on the first parse or evaluation error:
//
//	moye eval defs.moye main.moye
//	moye eval -e 'fun sq n => n * n' -e 'sq 12'
//	echo '6 * 7' | moye eval
//
// The fmt command rewrites scripts in canonical syntax, or dumps their
// syntax tree as JSON, YAML or an indented outline:
//
//	moye fmt --indent 4 script.moye
//	moye fmt yaml script.moye
//
// # Prelude Files
//
// Files named with --load are evaluated, in order, into the root scope before
// any input. Relative names are looked up in the working directory, then in
// each directory listed by MOYE_PATH, then in the lib directory under the
// configuration directory.
//
// # Configuration
//
// Flag defaults are read from config.yaml (and config.json) in the user
// configuration directory, e.g. ~/.config/moye/config.yaml. Keys are flag
// names. The init command writes the current flag values to that file:
//
//	moye --max-depth 200 --log-level debug init
//
// Command-line flags override config file values.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o moye .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default ~/.cache/moye/pprof)
package cli
