package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/envyaml/cli/cmd"
	"github.com/ardnew/envyaml/log"
	"github.com/ardnew/envyaml/pkg"
	"github.com/ardnew/envyaml/processor"
	"github.com/ardnew/envyaml/resolve"
)

// baseConfig is the base name of the configuration file.
const baseConfig = "config.yaml"

// CLI is the top-level command-line interface for envyaml.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`
	Env   envConfig   `embed:"" group:"env"   prefix:"env-"`

	Parser  string           `default:"${parserDefault}" enum:"${parserEnum}" help:"YAML parser (${enum})."`
	Version kong.VersionFlag `help:"Print version and exit." short:"V"`

	Eval    cmd.Eval    `cmd:"" default:"withargs" help:"Convert documents into typed trees"`
	Resolve cmd.Resolve `cmd:""                    help:"Explain how raw scalars resolve"`
	Query   cmd.Query   `cmd:""                    help:"Evaluate an expression against a document"`
	Diff    cmd.Diff    `cmd:""                    help:"Show what resolution changed"`
	Repl    cmd.Repl    `cmd:""                    help:"Probe the resolver interactively"`
	Init    cmd.Init    `cmd:""                    help:"Initialize configuration file"`
}

// Run executes the envyaml CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	return run(ctx, exit, resolve.OS, os.Stdout, args...)
}

// run is [Run] with the process environment and output supplied by the
// caller.
func run(
	ctx context.Context,
	exit func(code int),
	base resolve.Env,
	stdout io.Writer,
	args ...string,
) (err error) {
	var cli CLI

	err = mkdirAllRequired()
	if err != nil {
		return err
	}

	configFilePath := filepath.Join(pkg.ConfigDir(), baseConfig)

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  pkg.CacheDir(),
		"version":            pkg.Name + " " + pkg.Version,
		"parserDefault":      processor.DefaultParser,
		"parserEnum":         strings.Join(processor.Parsers(), ","),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars()).
		CloneWith(cli.Env.vars())

	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

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
		kong.Writers(stdout, os.Stderr),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group(), cli.Env.group()},
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
		kong.Configuration(loadConfig(ctx, base), configFilePath),
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

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	env := cli.Env.build(ctx, base)

	proc, err := processor.New(
		processor.WithParser(cli.Parser),
		processor.WithEnv(env),
		processor.WithLogger(log.Default()),
	)
	if err != nil {
		return err
	}

	// Stuff additional context values for use by commands
	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithEnv(ctx, env)
	ctx = cmd.WithProcessor(ctx, proc)
	ctx = cmd.WithOutput(ctx, ktx.Stdout)

	// Execute the selected command
	return ktx.Run(ctx, &cli)
}

// mkdirAllRequired creates all required runtime directories.
func mkdirAllRequired() error {
	for _, dir := range []string{pkg.ConfigDir(), pkg.CacheDir()} {
		if err := os.MkdirAll(dir, pkg.DirMode); err != nil {
			return err
		}
	}

	return nil
}
