package cli

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/ardnew/moye/cli/cmd"
	"github.com/ardnew/moye/lang"
	"github.com/ardnew/moye/log"
	"github.com/ardnew/moye/pkg"
)

// CLI is the top-level command-line interface for moye.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	MaxDepth int      `default:"${maxDepth}" help:"Maximum nesting depth of parsing and evaluation (0 disables the limit)" name:"max-depth"`
	Load     []string `                      help:"Prelude file(s) evaluated before any input, searched for in ${pathEnv}" name:"load" short:"l"`

	Repl cmd.Repl `cmd:"" default:"1"         help:"Start an interactive session (default)"`
	Eval cmd.Eval `cmd:""                     help:"Evaluate scripts or expressions"`
	Fmt  cmd.Fmt  `cmd:""                     help:"Format scripts"`
	Init cmd.Init `cmd:""                     help:"Initialize configuration file"`

	Version kong.VersionFlag `help:"Print version and exit" short:"V"`
}

// Run executes the moye CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	configFilePath := configPath(baseConfig + ".yaml")

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  cacheDir(),
		"maxDepth":           strconv.Itoa(lang.DefaultMaxDepth),
		"pathEnv":            "$" + pathEnv(),
		"version":            pkg.Version,
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags to ensure early configuration regardless of
	// flag position. TextUnmarshaler on logFormat/logLevel handles those flags
	// during normal parsing, but this early scan also catches boolean flags
	// like --log-pretty.
	cli.Log.scan(args)

	// Parse command line
	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				FlagsLast:           false,
				NoAppSummary:        false,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configPath(baseConfig+".json")),
		kong.Configuration(resolve, configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Finalize logger configuration with all parsed values including
	// TimeLayout and Caller which don't use TextUnmarshaler.
	cli.Log.start(ctx)

	prelude, err := findPrelude(cli.Load)
	if err != nil {
		return err
	}

	// Stuff additional context values for use by commands
	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithOptions(ctx, lang.WithMaxDepth(cli.MaxDepth))
	ctx = cmd.WithPrelude(ctx, prelude)

	log.DebugContext(ctx, "command selected",
		slog.String("command", ktx.Command()),
		slog.Int("max_depth", cli.MaxDepth),
		slog.Any("prelude", prelude),
	)

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	// Execute the selected command
	return ktx.Run(ctx, &cli)
}
