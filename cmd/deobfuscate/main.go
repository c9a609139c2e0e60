// Command deobfuscate runs the rewrite engine's orchestrator against a
// single JavaScript source file and writes the rewritten result.
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/t14raptor/deobfuscate/arborist"
	"github.com/t14raptor/deobfuscate/orchestrator"
)

var errInvalidArgs = errors.New("invalid arguments")

type options struct {
	output        string
	clean         bool
	quiet         bool
	verbose       bool
	maxIterations int
	dumpAST       bool
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, errInvalidArgs) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := pflag.NewFlagSet("deobfuscate", pflag.ContinueOnError)
	flags.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: deobfuscate [flags] input_filename")
		flags.PrintDefaults()
	}

	var opts options
	flags.StringVarP(&opts.output, "output", "o", "", "output filename (default <input>-deob.js)")
	flags.BoolVarP(&opts.clean, "clean", "c", false, "run dead-code removal to fixpoint after rewriting")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "suppress non-error log output")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "emit debug-level log output")
	flags.IntVarP(&opts.maxIterations, "max-iterations", "m", 100, "bound on orchestrator iterations")
	flags.BoolVar(&opts.dumpAST, "dump-ast", false, "print the arborist's flat node table instead of rewriting")

	if err := flags.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errInvalidArgs, err)
	}

	if opts.quiet && opts.verbose {
		return fmt.Errorf("%w: -q/--quiet and -v/--verbose are mutually exclusive", errInvalidArgs)
	}
	if opts.maxIterations <= 0 {
		return fmt.Errorf("%w: --max-iterations must be positive", errInvalidArgs)
	}

	positional := flags.Args()
	if len(positional) != 1 {
		return fmt.Errorf("%w: expected exactly one input_filename", errInvalidArgs)
	}
	inputPath := positional[0]

	log := buildLogger(opts)
	defer log.Sync()

	source, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", inputPath, err)
	}

	if opts.dumpAST {
		return dumpAST(string(source), log)
	}

	result, err := orchestrator.Run(string(source), orchestrator.Config{
		MaxIterations: opts.maxIterations,
		Cleanup:       opts.clean,
	}, log)
	if err != nil {
		return fmt.Errorf("rewriting %s: %w", inputPath, err)
	}

	log.Info("rewrite complete",
		zap.String("input", inputPath),
		zap.Int("iterations", result.Iterations),
	)

	outputPath := opts.output
	if outputPath == "" {
		outputPath = defaultOutputPath(inputPath)
	}
	if err := os.WriteFile(outputPath, []byte(result.Output), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outputPath, err)
	}
	log.Info("wrote output", zap.String("path", outputPath))
	return nil
}

// defaultOutputPath implements spec.md §6's default: `<input>-deob.js`,
// the extension swapped in rather than appended so `foo.js` becomes
// `foo-deob.js`, not `foo.js-deob.js`.
func defaultOutputPath(inputPath string) string {
	ext := ".js"
	base := inputPath
	if strings.HasSuffix(inputPath, ext) {
		base = strings.TrimSuffix(inputPath, ext)
	}
	return base + "-deob.js"
}

func buildLogger(opts options) *zap.Logger {
	level := zapcore.InfoLevel
	switch {
	case opts.quiet:
		level = zapcore.ErrorLevel
	case opts.verbose:
		level = zapcore.DebugLevel
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.EncoderConfig.TimeKey = ""
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// dumpAST is the supplemented `--dump-ast` debug flag: prints the
// arborist's flat node table (id, kind, byte range) instead of running
// the rewrite pipeline.
func dumpAST(source string, log *zap.Logger) error {
	arb, err := arborist.New(source)
	if err != nil {
		return fmt.Errorf("parsing: %w", err)
	}
	for i, n := range arb.Nodes() {
		fmt.Printf("%5d  %-24s [%d,%d)\n", i, n.Kind(), n.Idx0(), n.Idx1())
	}
	log.Debug("dump-ast complete", zap.Int("nodeCount", len(arb.Nodes())))
	return nil
}
