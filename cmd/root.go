package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/arfbllh/mdq/internal/config"
	"github.com/arfbllh/mdq/internal/watch"
	"github.com/arfbllh/mdq/run"
)

// errNothingSelected makes the process exit with status 1 without printing
// anything further; run.Run has already reported any failure.
var errNothingSelected = errors.New("nothing selected")

type cliFlags struct {
	output         string
	enhancedErrors bool
	breaks         bool
	noBreaks       bool
	linkPos        string
	footnotePos    string
	linkFormat     string
	jsonPath       string
	quiet          bool
	watch          bool
	repl           bool
}

// app carries what the commands share: the process streams, the
// environment and the logger built from the persistent flags.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	getenv func(string) string

	cfgFile string
	verbose bool
	flags   cliFlags

	logger *zap.Logger
}

// Execute runs mdq with the process arguments and returns the exit code.
func Execute() int {
	a := &app{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr, getenv: os.Getenv}
	root := a.rootCmd()
	if err := root.Execute(); err != nil {
		if !errors.Is(err, errNothingSelected) {
			writeError(a.stderr, err)
		}
		return 1
	}
	return 0
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "mdq [flags] <selectors> [files...]",
		Short: "mdq - select parts of Markdown documents, like jq for Markdown",
		Long: `mdq parses Markdown and prints the elements matching a selector chain.
Selectors are separated by '|', for example:

  mdq '# Usage | - [ ] ' README.md

With no files, or with '-', the document is read from stdin. Put '--'
before a selector that starts with '-':

  mdq -- '- [x]' TODO.md`,
		TraverseChildren: true,
		SilenceErrors:    true,
		SilenceUsage:     true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.logger = newLogger(a.stderr, a.verbose)
			return nil
		},
		RunE: a.runRoot,
	}
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "configuration file (default "+config.DefaultPath+" if present)")
	pf.BoolVar(&a.verbose, "verbose", false, "log debug information to stderr")

	f := root.Flags()
	f.StringVarP(&a.flags.output, "output", "o", "", "output format: md, markdown, json or plain")
	f.BoolVar(&a.flags.enhancedErrors, "enhanced-errors", false, "add suggestions to query syntax errors")
	f.BoolVar(&a.flags.breaks, "br", true, "separate selected elements with a thematic break")
	f.BoolVar(&a.flags.noBreaks, "no-br", false, "do not separate selected elements")
	f.StringVar(&a.flags.linkPos, "link-pos", "", "where link definitions go: section or doc")
	f.StringVar(&a.flags.footnotePos, "footnote-pos", "", "where footnote definitions go: section or doc (default: --link-pos)")
	f.StringVar(&a.flags.linkFormat, "link-format", "", "link output: keep, inline or never-inline")
	f.StringVar(&a.flags.jsonPath, "json-path", "", "filter the JSON output with a JSONPath expression")
	f.BoolVarP(&a.flags.quiet, "quiet", "q", false, "print nothing; only set the exit status")
	f.BoolVar(&a.flags.watch, "watch", false, "run again whenever an input file is written")
	f.BoolVar(&a.flags.repl, "repl", false, "start an interactive session on the first file")

	root.AddCommand(a.replCmd())
	root.AddCommand(a.initCmd())
	return root
}

func (a *app) runRoot(cmd *cobra.Command, args []string) error {
	if a.flags.repl {
		return a.startRepl(cmd, args)
	}
	if len(args) == 0 {
		return cmd.Help()
	}

	opts, _, err := a.options(cmd)
	if err != nil {
		return err
	}
	opts.Selectors = args[0]
	opts.Files = args[1:]

	sys := &systemOS{stdin: a.stdin, stdout: a.stdout, stderr: a.stderr}
	found := run.Run(opts, sys, a.logger)
	if a.flags.watch {
		return a.watch(cmd.Context(), opts, sys)
	}
	if !found {
		return errNothingSelected
	}
	return nil
}

// options layers the configuration file, the environment and the flags
// that were set explicitly, in that order.
func (a *app) options(cmd *cobra.Command) (run.Options, config.Config, error) {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return run.Options{}, cfg, err
	}
	cfg.ApplyEnv(a.getenv)

	// Root flags are parsed before a subcommand runs.
	f := cmd.Root().Flags()
	if f.Changed("output") {
		cfg.Output = a.flags.output
	}
	if f.Changed("enhanced-errors") {
		cfg.EnhancedErrors = a.flags.enhancedErrors
	}
	if f.Changed("br") {
		cfg.AddBreaks = a.flags.breaks
	}
	if f.Changed("no-br") {
		cfg.AddBreaks = !a.flags.noBreaks
	}
	if f.Changed("link-pos") {
		cfg.LinkPos = a.flags.linkPos
	}
	if f.Changed("footnote-pos") {
		cfg.FootnotePos = a.flags.footnotePos
	}
	if f.Changed("link-format") {
		cfg.LinkFormat = a.flags.linkFormat
	}
	if f.Changed("quiet") {
		cfg.Quiet = a.flags.quiet
	}

	if err := cfg.Validate(); err != nil {
		return run.Options{}, cfg, err
	}
	opts, err := cfg.RunOptions()
	if err != nil {
		return run.Options{}, cfg, err
	}
	opts.JSONPath = a.flags.jsonPath
	a.logger.Debug("options resolved",
		zap.String("config", a.cfgFile),
		zap.String("output", opts.Output.String()),
		zap.Bool("breaks", opts.Breaks),
		zap.String("link_format", opts.LinkFormat.String()),
	)
	return opts, cfg, nil
}

func (a *app) watch(ctx context.Context, opts run.Options, sys *systemOS) error {
	files := make([]string, 0, len(opts.Files))
	for _, f := range opts.Files {
		if f != run.Stdin {
			files = append(files, f)
		}
	}
	if len(files) == 0 {
		return errors.New("--watch needs at least one input file")
	}

	w, err := watch.New(files, func(path string) {
		a.logger.Info("input changed, running again", zap.String("path", path))
		run.Run(opts, sys, a.logger)
	}, a.logger)
	if err != nil {
		return err
	}
	defer w.Close()

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	return w.Run(ctx)
}

func newLogger(w io.Writer, verbose bool) *zap.Logger {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	encoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	return zap.New(zapcore.NewCore(encoder, zapcore.Lock(zapcore.AddSync(w)), level))
}

func writeError(w io.Writer, err error) {
	errorStyle.Fprint(w, "error: ")
	fmt.Fprintln(w, err)
}
