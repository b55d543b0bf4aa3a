package lexor

import (
	"context"
	"io"
	"strings"
	"testing"
)

func FuzzCompileDoesNotPanic(f *testing.F) {
	f.Add([]byte(""))
	f.Add([]byte("SCRIPT AREA\nSTART SCRIPT\nEND SCRIPT\n"))
	f.Add([]byte("SCRIPT AREA\nSTART SCRIPT\nPRINT: (1\nEND SCRIPT"))
	f.Add([]byte("IF (x)\nSTART IF\nEND FOR\n"))
	f.Add([]byte("\"unterminated [n\n'ab'\n[x"))

	f.Fuzz(func(t *testing.T, raw []byte) {
		engine := NewEngine(Config{Stdout: io.Discard})
		_, _ = engine.Compile(string(raw))
	})
}

func FuzzScanInputDoesNotPanic(f *testing.F) {
	engine := NewEngine(Config{Stdout: io.Discard})
	program, err := engine.Compile(`SCRIPT AREA
START SCRIPT
DECLARE STRING s
SCAN: s
PRINT: s
END SCRIPT
`)
	if err != nil {
		f.Fatalf("compile failed: %v", err)
	}

	f.Add("hello")
	f.Add("-")
	f.Add("'a', \"b\", -1.5")
	f.Add("[x")

	f.Fuzz(func(t *testing.T, line string) {
		if len(line) > 4096 {
			line = line[:4096]
		}
		line = strings.ReplaceAll(line, "\n", " ")
		run := NewEngine(Config{Stdout: io.Discard, Stdin: strings.NewReader(line + "\n"), StepQuota: 100})
		_ = run.Execute(context.Background(), program)
	})
}
