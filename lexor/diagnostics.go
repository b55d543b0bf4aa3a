package lexor

import (
	"fmt"
	"strings"
)

// DiagnosticKind classifies a diagnostic by the stage that produced it.
type DiagnosticKind int

const (
	DiagnosticLexical DiagnosticKind = iota
	DiagnosticSyntax
	DiagnosticRuntime
)

func (k DiagnosticKind) String() string {
	switch k {
	case DiagnosticLexical:
		return "lexical error"
	case DiagnosticSyntax:
		return "syntax error"
	case DiagnosticRuntime:
		return "runtime error"
	default:
		return "error"
	}
}

// Static reports whether the diagnostic blocks evaluation.
func (k DiagnosticKind) Static() bool {
	return k == DiagnosticLexical || k == DiagnosticSyntax
}

// Diagnostic is one recorded problem with its source position.
type Diagnostic struct {
	Kind      DiagnosticKind
	Pos       Position
	Message   string
	CodeFrame string
}

func (d Diagnostic) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s at %d:%d: %s", d.Kind, d.Pos.Line, d.Pos.Column, d.Message)
	if d.CodeFrame != "" {
		b.WriteString("\n")
		b.WriteString(d.CodeFrame)
	}
	return b.String()
}

// Diagnostics collects everything reported during one run. It is reset
// between runs when a host (a REPL) reuses it.
type Diagnostics struct {
	source     string
	entries    []Diagnostic
	hadStatic  bool
	hadRuntime bool
}

func NewDiagnostics() *Diagnostics {
	return &Diagnostics{}
}

// attach sets the source text used to render code frames.
func (d *Diagnostics) attach(source string) {
	d.source = source
}

func (d *Diagnostics) lexical(pos Position, format string, args ...any) {
	d.Report(DiagnosticLexical, pos, fmt.Sprintf(format, args...))
}

func (d *Diagnostics) syntax(pos Position, msg string) {
	d.Report(DiagnosticSyntax, pos, msg)
}

// Report records a diagnostic and raises the matching signal.
func (d *Diagnostics) Report(kind DiagnosticKind, pos Position, msg string) {
	d.entries = append(d.entries, Diagnostic{
		Kind:      kind,
		Pos:       pos,
		Message:   msg,
		CodeFrame: formatCodeFrame(d.source, pos),
	})
	if kind.Static() {
		d.hadStatic = true
	} else {
		d.hadRuntime = true
	}
}

func (d *Diagnostics) HadStaticError() bool  { return d.hadStatic }
func (d *Diagnostics) HadRuntimeError() bool { return d.hadRuntime }

// Entries returns a copy of the recorded diagnostics in report order.
func (d *Diagnostics) Entries() []Diagnostic {
	return append([]Diagnostic(nil), d.entries...)
}

// Len reports how many diagnostics have been recorded.
func (d *Diagnostics) Len() int {
	return len(d.entries)
}

// Static returns only the lexical and syntax diagnostics.
func (d *Diagnostics) Static() []Diagnostic {
	return d.staticSince(0)
}

func (d *Diagnostics) staticSince(start int) []Diagnostic {
	var out []Diagnostic
	for _, diag := range d.entries[start:] {
		if diag.Kind.Static() {
			out = append(out, diag)
		}
	}
	return out
}

// Reset clears entries and both signals.
func (d *Diagnostics) Reset() {
	d.source = ""
	d.entries = nil
	d.hadStatic = false
	d.hadRuntime = false
}

// CompileError is returned when a source text failed to tokenize or parse.
type CompileError struct {
	Diagnostics []Diagnostic
}

func (e *CompileError) Error() string {
	parts := make([]string, len(e.Diagnostics))
	for i, diag := range e.Diagnostics {
		parts[i] = diag.Error()
	}
	return strings.Join(parts, "\n")
}
