package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/mgomes/lexor/lexor"
)

// Exit statuses: static errors 65, runtime errors 70, anything else 1.
const (
	exitStaticError  = 65
	exitRuntimeError = 70
	exitFailure      = 1
)

func main() {
	err := runCLI(os.Args)
	if err == nil {
		return
	}
	printError(os.Stderr, err, stderrIsTerminal())
	os.Exit(exitCodeFor(err))
}

func runCLI(args []string) error {
	if len(args) < 2 {
		return usageError()
	}
	switch args[1] {
	case "run":
		return runCommand(args[2:])
	case "repl":
		return runREPL()
	case "fmt":
		return fmtCommand(args[2:])
	case "analyze":
		return analyzeCommand(args[2:])
	case "lsp":
		return runLSP()
	case "tokens":
		return tokensCommand(args[2:])
	case "ast":
		return astCommand(args[2:])
	case "test":
		return testCommand(args[2:])
	case "help", "-h", "--help":
		printUsage()
		return nil
	default:
		return usageError()
	}
}

type runOptions struct {
	checkOnly bool
	watch     bool
	maxSteps  int
	debug     bool
}

func runCommand(args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	var opts runOptions
	fs.BoolVar(&opts.checkOnly, "check", false, "only compile the program without executing")
	fs.BoolVar(&opts.watch, "watch", false, "rerun the program whenever the file changes")
	fs.IntVar(&opts.maxSteps, "max-steps", 0, "stop after this many statements (0 means no limit)")
	fs.BoolVar(&opts.debug, "debug", false, "log interpreter phases to stderr")
	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) == 0 {
		return errors.New("lexor run: program path required")
	}
	path, err := filepath.Abs(remaining[0])
	if err != nil {
		return fmt.Errorf("resolve program path: %w", err)
	}

	engine := lexor.NewEngine(lexor.Config{
		Stdout:    os.Stdout,
		Stdin:     os.Stdin,
		StepQuota: opts.maxSteps,
		Logger:    newLogger(os.Stderr, opts.debug),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if !opts.watch {
		return runFile(ctx, engine, path, opts.checkOnly)
	}
	return watchFile(ctx, path, func() error {
		engine.Reset()
		return runFile(ctx, engine, path, opts.checkOnly)
	}, os.Stderr)
}

func runFile(ctx context.Context, engine *lexor.Engine, path string, checkOnly bool) error {
	input, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read program: %w", err)
	}
	program, err := engine.Compile(string(input))
	if err != nil {
		return err
	}
	if checkOnly {
		return nil
	}
	return engine.Execute(ctx, program)
}

// exitCodeFor maps the two diagnostic signals onto process statuses.
func exitCodeFor(err error) int {
	var compileErr *lexor.CompileError
	var runtimeErr *lexor.RuntimeError
	switch {
	case errors.As(err, &compileErr):
		return exitStaticError
	case errors.As(err, &runtimeErr):
		return exitRuntimeError
	default:
		return exitFailure
	}
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	if !debug {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func readProgramArg(command string, args []string) (string, string, error) {
	fs := flag.NewFlagSet(command, flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	if err := fs.Parse(args); err != nil {
		return "", "", err
	}
	remaining := fs.Args()
	if len(remaining) == 0 {
		return "", "", fmt.Errorf("lexor %s: program path required", command)
	}
	path, err := filepath.Abs(remaining[0])
	if err != nil {
		return "", "", fmt.Errorf("resolve program path: %w", err)
	}
	input, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("read program: %w", err)
	}
	return path, string(input), nil
}

func usageError() error {
	printUsage()
	return errors.New("invalid command")
}

func printUsage() {
	prog := filepath.Base(os.Args[0])
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [flags] [args]\n", prog)
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  run [-check] [-watch] [-max-steps N] [-debug] <program>")
	fmt.Fprintln(os.Stderr, "    compile and execute a program")
	fmt.Fprintln(os.Stderr, "  repl")
	fmt.Fprintln(os.Stderr, "    start the interactive shell")
	fmt.Fprintln(os.Stderr, "  fmt [-w] [-check] <path>...")
	fmt.Fprintln(os.Stderr, "    format .lexor files")
	fmt.Fprintln(os.Stderr, "  analyze <program>")
	fmt.Fprintln(os.Stderr, "    report lint warnings")
	fmt.Fprintln(os.Stderr, "  lsp")
	fmt.Fprintln(os.Stderr, "    serve diagnostics over the language server protocol")
	fmt.Fprintln(os.Stderr, "  tokens <program>")
	fmt.Fprintln(os.Stderr, "    print the token stream")
	fmt.Fprintln(os.Stderr, "  ast <program>")
	fmt.Fprintln(os.Stderr, "    print the syntax tree")
	fmt.Fprintln(os.Stderr, "  test <suite.yml>...")
	fmt.Fprintln(os.Stderr, "    run YAML case suites")
}

type flagErrorSink struct{}

func (flagErrorSink) Write(p []byte) (int, error) {
	return len(p), nil
}
