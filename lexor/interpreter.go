package lexor

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
)

// Config controls where a program reads and writes and how long it may run.
type Config struct {
	Stdout io.Writer
	Stdin  io.Reader
	// StepQuota caps executed statements and loop iterations. Zero means no
	// limit.
	StepQuota int
	Logger    *slog.Logger
}

// Engine compiles and runs LEXOR programs. Diagnostics accumulate in one sink
// until Reset; every Execute starts from a fresh root scope.
type Engine struct {
	config Config
	diags  *Diagnostics
	in     *bufio.Reader
	log    *slog.Logger
}

// NewEngine constructs an Engine, defaulting to the process streams.
func NewEngine(cfg Config) *Engine {
	if cfg.Stdout == nil {
		cfg.Stdout = os.Stdout
	}
	if cfg.Stdin == nil {
		cfg.Stdin = os.Stdin
	}
	if cfg.StepQuota < 0 {
		cfg.StepQuota = 0
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{
		config: cfg,
		diags:  NewDiagnostics(),
		in:     bufio.NewReader(cfg.Stdin),
		log:    cfg.Logger,
	}
}

func (e *Engine) Diagnostics() *Diagnostics {
	return e.diags
}

// Reset clears the diagnostics sink so the engine can take another input.
func (e *Engine) Reset() {
	e.diags.Reset()
}

// Compile parses source. When any lexical or syntax error is reported the
// program is discarded and a *CompileError lists this compile's diagnostics.
func (e *Engine) Compile(source string) (*Program, error) {
	before := e.diags.Len()
	program, ok := Parse(source, e.diags)
	if !ok {
		static := e.diags.staticSince(before)
		e.log.Debug("compile failed", "diagnostics", len(static))
		return nil, &CompileError{Diagnostics: static}
	}
	e.log.Debug("compiled", "statements", len(program.Statements))
	return program, nil
}

// Execute runs a compiled program. The first runtime error stops the run, is
// recorded in the diagnostics sink and is returned as a *RuntimeError.
// Output written before the error stays written.
func (e *Engine) Execute(ctx context.Context, program *Program) error {
	if ctx == nil {
		ctx = context.Background()
	}
	exec := &Execution{
		ctx:    ctx,
		source: program.source,
		root:   newEnv(nil),
		out:    e.config.Stdout,
		in:     e.in,
		log:    e.log,
		quota:  e.config.StepQuota,
	}
	err := exec.run(program)
	e.log.Debug("executed", "steps", exec.steps, "error", err != nil)
	if err == nil {
		return nil
	}

	var runtimeErr *RuntimeError
	if errors.As(err, &runtimeErr) {
		e.diags.attach(program.source)
		e.diags.Report(DiagnosticRuntime, runtimeErr.Pos, runtimeErr.Message)
	}
	return err
}

// Run compiles and executes source.
func (e *Engine) Run(ctx context.Context, source string) error {
	program, err := e.Compile(source)
	if err != nil {
		return err
	}
	return e.Execute(ctx, program)
}
