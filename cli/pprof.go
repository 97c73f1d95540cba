//go:build pprof

package cli

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/ardnew/moye/log"
	"github.com/ardnew/moye/profile"
)

// pprofConfig selects a runtime profile recorded while the command runs.
type pprofConfig struct {
	Mode string `default:""            enum:",${pprofModes}" help:"Record a runtime profile of the command" placeholder:"${enum}" short:"p"`
	Dir  string `default:"${pprofDir}"                       help:"Profile output directory"                                      type:"path"`
}

func (pprofConfig) vars() kong.Vars {
	return kong.Vars{
		"pprofModes": strings.Join(profile.Modes(), ","),
		"pprofDir":   filepath.Join(cacheDir(), profile.Tag),
	}
}

func (pprofConfig) group() kong.Group {
	return kong.Group{Key: profile.Tag, Title: "Profiling (pprof)"}
}

// start begins recording the selected profile. The returned function stops
// it and writes the profile to Dir.
func (f pprofConfig) start(ctx context.Context) (stop func()) {
	if f.Mode == "" {
		return func() {}
	}

	logger := log.Default().With(
		slog.String("mode", f.Mode),
		slog.String("dir", f.Dir),
	)
	logger.DebugContext(ctx, "profiling started")

	began := time.Now()
	session := profile.Profiler{Mode: f.Mode, Path: f.Dir, Quiet: true}.Start()

	return func() {
		session.Stop()
		logger.DebugContext(ctx, "profile written",
			slog.Duration("elapsed", time.Since(began)))
	}
}
