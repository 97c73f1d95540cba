// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// The interpreter, the command line and the REPL all log through this
// package. A zero [Logger] discards everything, so library code can hold one
// unconditionally and only pay for logging when a host configures it.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("session started", slog.String("prelude", path))
//	logger.Error("evaluation failed", slog.Any("error", err))
//
// # Configuration
//
// Configure the logger using functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithTimeLayout("RFC3339Nano"),
//		log.WithCaller(true))
//
// The package-level logger used by [Debug], [Info] and friends is changed
// with [Config], which applies options on top of its current settings.
//
// # Adding Attributes
//
// Attributes can be added to the logger to be included in all subsequent
// log messages using the [Logger.With] method:
//
//	logger = logger.With(slog.String("mode", "eval"))
//	logger.Info("line read") // includes mode=eval
//
// # Context-Aware Logging
//
// Each logging level has both a context-aware and context-unaware variant.
// Context-unaware functions call their context-aware counterparts using
// [DefaultContextProvider], which returns [context.TODO] by default.
//
// # Supported Levels
//
// The package supports five log levels: [LevelTrace], [LevelDebug],
// [LevelInfo], [LevelWarn], and [LevelError]. Trace is below slog's Debug
// and is used for per-node parser and evaluator events.
//
// # Output Formats
//
// Two output formats are supported: [FormatJSON] (default) and
// [FormatText]. Either may be pretty printed with [WithPretty].
package log
