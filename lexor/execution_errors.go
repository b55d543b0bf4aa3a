package lexor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// RuntimeError is the failure value threaded back up through statement
// execution. The first one aborts the run.
type RuntimeError struct {
	Pos       Position
	Message   string
	CodeFrame string
}

var errStepQuotaExceeded = errors.New("step quota exceeded")

func (re *RuntimeError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "runtime error at %d:%d: %s", re.Pos.Line, re.Pos.Column, re.Message)
	if re.CodeFrame != "" {
		b.WriteString("\n")
		b.WriteString(re.CodeFrame)
	}
	return b.String()
}

func (exec *Execution) step(pos Position) error {
	exec.steps++
	if exec.quota > 0 && exec.steps > exec.quota {
		return exec.errorAt(pos, "%v (%d)", errStepQuotaExceeded, exec.quota)
	}
	if exec.ctx != nil {
		select {
		case <-exec.ctx.Done():
			return exec.errorAt(pos, "execution interrupted: %v", exec.ctx.Err())
		default:
		}
	}
	return nil
}

func (exec *Execution) errorAt(pos Position, format string, args ...any) error {
	return &RuntimeError{
		Pos:       pos,
		Message:   fmt.Sprintf(format, args...),
		CodeFrame: formatCodeFrame(exec.source, pos),
	}
}

// wrapError attaches a position to an error coming out of the scope
// environment. Undefined names get a suggestion from the visible names.
func (exec *Execution) wrapError(err error, pos Position, env *Env) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*RuntimeError); ok {
		return err
	}
	var undefined *undefinedError
	if errors.As(err, &undefined) {
		if hint := suggestName(undefined.name, env.Names()); hint != "" {
			return exec.errorAt(pos, "%s (did you mean '%s'?)", err.Error(), hint)
		}
	}
	return exec.errorAt(pos, "%s", err.Error())
}

// suggestName picks the closest visible name, or "" when nothing is close.
func suggestName(name string, candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	ranks := fuzzy.RankFindFold(name, candidates)
	if len(ranks) == 0 {
		for _, candidate := range candidates {
			if distance := fuzzy.LevenshteinDistance(strings.ToLower(name), strings.ToLower(candidate)); distance <= 2 {
				ranks = append(ranks, fuzzy.Rank{Target: candidate, Distance: distance})
			}
		}
	}
	if len(ranks) == 0 {
		return ""
	}
	best := ranks[0]
	for _, r := range ranks[1:] {
		if r.Distance < best.Distance || (r.Distance == best.Distance && r.Target < best.Target) {
			best = r
		}
	}
	return best.Target
}
