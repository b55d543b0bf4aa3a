package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mgomes/lexor/lexor"
)

const helloProgram = `SCRIPT AREA
START SCRIPT
DECLARE INT x = 4, y = 5
PRINT: x * y & $
END SCRIPT
`

func TestRunCLIHelp(t *testing.T) {
	if err := runCLI([]string{"lexor", "help"}); err != nil {
		t.Fatalf("runCLI help failed: %v", err)
	}
}

func TestRunCLIInvalidCommand(t *testing.T) {
	err := runCLI([]string{"lexor", "unknown"})
	if err == nil {
		t.Fatalf("expected invalid command error")
	}
	if !strings.Contains(err.Error(), "invalid command") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunCLIWithoutCommand(t *testing.T) {
	err := runCLI([]string{"lexor"})
	if err == nil {
		t.Fatalf("expected invalid command error")
	}
	if !strings.Contains(err.Error(), "invalid command") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunCommandCheckOnly(t *testing.T) {
	scriptPath := writeScript(t, helloProgram)

	out, err := captureStdout(t, func() error {
		return runCommand([]string{"-check", scriptPath})
	})
	if err != nil {
		t.Fatalf("runCommand check failed: %v", err)
	}
	if out != "" {
		t.Fatalf("check should not execute, got %q", out)
	}
}

func TestRunCommandExecutesProgram(t *testing.T) {
	scriptPath := writeScript(t, helloProgram)

	out, err := captureStdout(t, func() error {
		return runCommand([]string{scriptPath})
	})
	if err != nil {
		t.Fatalf("runCommand failed: %v", err)
	}
	if out != "20\n" {
		t.Fatalf("unexpected stdout: %q", out)
	}
}

func TestRunCommandRequiresProgramPath(t *testing.T) {
	err := runCommand(nil)
	if err == nil {
		t.Fatalf("expected program path error")
	}
	if !strings.Contains(err.Error(), "program path required") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunCommandStaticErrorExitCode(t *testing.T) {
	scriptPath := writeScript(t, "SCRIPT AREA\nSTART SCRIPT\nPRINT 1\nEND SCRIPT\n")

	_, err := captureStdout(t, func() error {
		return runCommand([]string{scriptPath})
	})
	var compileErr *lexor.CompileError
	if !errors.As(err, &compileErr) {
		t.Fatalf("expected compile error, got %v", err)
	}
	if code := exitCodeFor(err); code != exitStaticError {
		t.Fatalf("expected exit code %d, got %d", exitStaticError, code)
	}
}

func TestRunCommandRuntimeErrorExitCode(t *testing.T) {
	scriptPath := writeScript(t, "SCRIPT AREA\nSTART SCRIPT\nPRINT: 1 / 0\nEND SCRIPT\n")

	_, err := captureStdout(t, func() error {
		return runCommand([]string{scriptPath})
	})
	if code := exitCodeFor(err); code != exitRuntimeError {
		t.Fatalf("expected exit code %d, got %d (%v)", exitRuntimeError, code, err)
	}
}

func TestRunCommandMaxStepsStopsLoop(t *testing.T) {
	scriptPath := writeScript(t, `SCRIPT AREA
START SCRIPT
REPEAT WHEN (TRUE)
START REPEAT
END REPEAT
END SCRIPT
`)

	_, err := captureStdout(t, func() error {
		return runCommand([]string{"-max-steps", "50", scriptPath})
	})
	if err == nil || !strings.Contains(err.Error(), "step quota exceeded (50)") {
		t.Fatalf("expected step quota error, got %v", err)
	}
}

func TestExitCodeForOtherErrors(t *testing.T) {
	if code := exitCodeFor(errors.New("boom")); code != exitFailure {
		t.Fatalf("expected exit code %d, got %d", exitFailure, code)
	}
}

func TestPrintErrorPlainWritesHeaderAndFrame(t *testing.T) {
	engine := lexor.NewEngine(lexor.Config{Stdout: io.Discard})
	err := engine.Run(t.Context(), "SCRIPT AREA\nSTART SCRIPT\nPRINT: nope\nEND SCRIPT\n")

	var buf bytes.Buffer
	printError(&buf, err, false)
	got := buf.String()
	if !strings.HasPrefix(got, "runtime error at 3:8: undefined variable 'nope'") {
		t.Fatalf("unexpected header: %q", got)
	}
	if !strings.Contains(got, " 3 | PRINT: nope") {
		t.Fatalf("expected code frame, got %q", got)
	}
}

func TestAnalyzeCommandNoIssues(t *testing.T) {
	scriptPath := writeScript(t, helloProgram)

	out, err := captureStdout(t, func() error {
		return analyzeCommand([]string{scriptPath})
	})
	if err != nil {
		t.Fatalf("analyzeCommand failed: %v", err)
	}
	if !strings.Contains(out, "No issues found") {
		t.Fatalf("unexpected analyze output: %q", out)
	}
}

func TestAnalyzeCommandReportsIssues(t *testing.T) {
	scriptPath := writeScript(t, `SCRIPT AREA
START SCRIPT
DECLARE INT unused, never
DECLARE BOOL done = FALSE
PRINT: never
REPEAT WHEN (TRUE)
START REPEAT
done = TRUE
END REPEAT
END SCRIPT
`)

	out, err := captureStdout(t, func() error {
		return analyzeCommand([]string{scriptPath})
	})
	if err == nil {
		t.Fatalf("expected analyze command to report lint failures")
	}
	if !strings.Contains(err.Error(), "analysis found 3 issue(s)") {
		t.Fatalf("unexpected analyze error: %v", err)
	}
	for _, want := range []string{
		":3:13: variable 'unused' is declared but never used",
		":5:8: variable 'never' is read but never given a value",
		":6:1: loop condition is always TRUE",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output, got %q", want, out)
		}
	}
}

func TestAnalyzeFlagsConstantIfCondition(t *testing.T) {
	program, err := lexor.NewEngine(lexor.Config{}).Compile(`SCRIPT AREA
START SCRIPT
IF (FALSE)
START IF
PRINT: 1
END IF
END SCRIPT
`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	warnings := analyzeProgram(program)
	if len(warnings) != 1 || warnings[0].Message != "IF condition FALSE is constant" {
		t.Fatalf("unexpected warnings: %#v", warnings)
	}
}

func TestAnalyzeTreatsScanAsAssignment(t *testing.T) {
	program, err := lexor.NewEngine(lexor.Config{}).Compile(`SCRIPT AREA
START SCRIPT
DECLARE INT n
SCAN: n
PRINT: n
END SCRIPT
`)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if warnings := analyzeProgram(program); len(warnings) != 0 {
		t.Fatalf("expected no warnings, got %#v", warnings)
	}
}

func TestTokensCommandPrintsStream(t *testing.T) {
	scriptPath := writeScript(t, "PRINT: 'a'\n")

	out, err := captureStdout(t, func() error {
		return tokensCommand([]string{scriptPath})
	})
	if err != nil {
		t.Fatalf("tokensCommand failed: %v", err)
	}
	want := "1:1\tPRINT\tPRINT\n1:6\t:\t:\n1:8\tCHAR_LITERAL\t'a'\ta\n1:11\tNEWLINE\n2:1\tEOF\n"
	if out != want {
		t.Fatalf("unexpected token stream:\n%q\nwant\n%q", out, want)
	}
}

func TestTokensCommandReportsLexicalErrors(t *testing.T) {
	scriptPath := writeScript(t, "PRINT: #\n")

	_, err := captureStdout(t, func() error {
		return tokensCommand([]string{scriptPath})
	})
	if code := exitCodeFor(err); code != exitStaticError {
		t.Fatalf("expected static error exit code, got %d (%v)", code, err)
	}
}

func TestASTCommandPrintsTree(t *testing.T) {
	scriptPath := writeScript(t, helloProgram)

	out, err := captureStdout(t, func() error {
		return astCommand([]string{scriptPath})
	})
	if err != nil {
		t.Fatalf("astCommand failed: %v", err)
	}
	if !strings.Contains(out, "(declare INT (x 4) (y 5))") {
		t.Fatalf("unexpected ast output: %q", out)
	}
	if !strings.Contains(out, `(print (& (* x y) "\n"))`) {
		t.Fatalf("expected print node, got %q", out)
	}
}

func TestTestCommandRunsSuites(t *testing.T) {
	suite := filepath.Join(t.TempDir(), "suite.yml")
	content := `name: cli
cases:
  - name: product
    source: |
      SCRIPT AREA
      START SCRIPT
      PRINT: 6 * 7
      END SCRIPT
    output: "42"
  - name: wrong
    source: |
      SCRIPT AREA
      START SCRIPT
      PRINT: 1
      END SCRIPT
    output: "2"
`
	if err := os.WriteFile(suite, []byte(content), 0o644); err != nil {
		t.Fatalf("write suite: %v", err)
	}

	out, err := captureStdout(t, func() error {
		return testCommand([]string{"-v", suite})
	})
	if err == nil || !strings.Contains(err.Error(), "1 of 2 case(s) failed") {
		t.Fatalf("expected one failing case, got %v", err)
	}
	if !strings.Contains(out, "PASS cli/product") || !strings.Contains(out, "FAIL cli/wrong") {
		t.Fatalf("unexpected test output: %q", out)
	}
}

func TestTestCommandRequiresSuite(t *testing.T) {
	err := testCommand(nil)
	if err == nil || !strings.Contains(err.Error(), "suite path required") {
		t.Fatalf("expected suite path error, got %v", err)
	}
}

func writeScript(t *testing.T, source string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "program.lexor")
	if err := os.WriteFile(path, []byte(source), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func captureStdout(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w

	runErr := fn()
	_ = w.Close()
	os.Stdout = orig

	var buf bytes.Buffer
	if _, copyErr := io.Copy(&buf, r); copyErr != nil {
		t.Fatalf("read stdout: %v", copyErr)
	}
	_ = r.Close()
	return buf.String(), runErr
}
