package casefile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mgomes/lexor/lexor"
)

// Result is the outcome of one case. Failure is empty when the case passed.
type Result struct {
	Case    Case
	Output  string
	Outcome Outcome
	Err     error
	Failure string
}

func (r Result) Passed() bool { return r.Failure == "" }

// Run executes every case of the suite on its own engine.
func Run(ctx context.Context, suite *Suite, logger *slog.Logger) []Result {
	results := make([]Result, 0, len(suite.Cases))
	for _, c := range suite.Cases {
		results = append(results, RunCase(ctx, c, logger))
	}
	return results
}

// RunCase executes a single case and compares it against its expectations.
func RunCase(ctx context.Context, c Case, logger *slog.Logger) Result {
	var out bytes.Buffer
	engine := lexor.NewEngine(lexor.Config{
		Stdout:    &out,
		Stdin:     strings.NewReader(c.Input),
		StepQuota: c.MaxSteps,
		Logger:    logger,
	})
	err := engine.Run(ctx, c.Source)

	res := Result{Case: c, Output: out.String(), Outcome: classify(err), Err: err}
	switch {
	case res.Outcome != c.Expect:
		res.Failure = fmt.Sprintf("expected outcome %s, got %s", c.Expect, res.Outcome)
		if err != nil {
			res.Failure += ": " + firstLine(err.Error())
		}
	case c.Expect != OutcomeStatic && res.Output != c.Output:
		res.Failure = fmt.Sprintf("output mismatch: expected %q, got %q", c.Output, res.Output)
	case c.Message != "" && !strings.Contains(firstMessage(engine.Diagnostics()), c.Message):
		res.Failure = fmt.Sprintf("expected a diagnostic containing %q, got %q", c.Message, firstMessage(engine.Diagnostics()))
	}
	return res
}

func classify(err error) Outcome {
	var compileErr *lexor.CompileError
	var runtimeErr *lexor.RuntimeError
	switch {
	case err == nil:
		return OutcomeOK
	case errors.As(err, &compileErr):
		return OutcomeStatic
	case errors.As(err, &runtimeErr):
		return OutcomeRuntime
	default:
		return Outcome("error")
	}
}

func firstMessage(diags *lexor.Diagnostics) string {
	entries := diags.Entries()
	if len(entries) == 0 {
		return ""
	}
	return entries[0].Message
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
