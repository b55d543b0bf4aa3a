package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/mgomes/lexor/internal/casefile"
	"github.com/mgomes/lexor/lexor"
)

// tokensCommand prints one token per line. Lexical errors are reported after
// the stream, which is still printed in full.
func tokensCommand(args []string) error {
	_, source, err := readProgramArg("tokens", args)
	if err != nil {
		return err
	}
	diags := lexor.NewDiagnostics()
	for _, tok := range lexor.Tokenize(source, diags) {
		line := fmt.Sprintf("%d:%d\t%s", tok.Pos.Line, tok.Pos.Column, tok.Type)
		if tok.Lexeme != "" && tok.Lexeme != "\n" {
			line += "\t" + tok.Lexeme
		}
		if tok.HasLiteral() {
			line += "\t" + tok.Literal.String()
		}
		fmt.Println(line)
	}
	if static := diags.Static(); len(static) > 0 {
		return &lexor.CompileError{Diagnostics: static}
	}
	return nil
}

func astCommand(args []string) error {
	_, source, err := readProgramArg("ast", args)
	if err != nil {
		return err
	}
	program, err := lexor.NewEngine(lexor.Config{}).Compile(source)
	if err != nil {
		return err
	}
	fmt.Print(lexor.FormatProgram(program))
	return nil
}

func testCommand(args []string) error {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	verbose := fs.Bool("v", false, "print passing cases too")
	debug := fs.Bool("debug", false, "log interpreter phases to stderr")
	if err := fs.Parse(args); err != nil {
		return err
	}
	paths := fs.Args()
	if len(paths) == 0 {
		return errors.New("lexor test: suite path required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	logger := newLogger(os.Stderr, *debug)

	failed, total := 0, 0
	for _, path := range paths {
		suite, err := casefile.Load(path)
		if err != nil {
			return err
		}
		for _, result := range casefile.Run(ctx, suite, logger) {
			total++
			if result.Passed() {
				if *verbose {
					fmt.Printf("PASS %s/%s\n", suite.Name, result.Case.Name)
				}
				continue
			}
			failed++
			fmt.Printf("FAIL %s/%s\n", suite.Name, result.Case.Name)
			for _, line := range strings.Split(result.Failure, "\n") {
				fmt.Printf("    %s\n", line)
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("lexor test: %d of %d case(s) failed", failed, total)
	}
	fmt.Printf("ok %d case(s)\n", total)
	return nil
}
