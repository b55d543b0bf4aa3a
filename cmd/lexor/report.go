package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/mgomes/lexor/lexor"
)

var (
	reportHeaderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	reportFrameStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

func stderrIsTerminal() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// printError writes err to w, one block per diagnostic. Color is only used
// when styled is set.
func printError(w io.Writer, err error, styled bool) {
	var compileErr *lexor.CompileError
	var runtimeErr *lexor.RuntimeError
	switch {
	case errors.As(err, &compileErr):
		for _, diag := range compileErr.Diagnostics {
			header := fmt.Sprintf("%s at %d:%d: %s", diag.Kind, diag.Pos.Line, diag.Pos.Column, diag.Message)
			writeReport(w, header, diag.CodeFrame, styled)
		}
	case errors.As(err, &runtimeErr):
		header := fmt.Sprintf("runtime error at %d:%d: %s", runtimeErr.Pos.Line, runtimeErr.Pos.Column, runtimeErr.Message)
		writeReport(w, header, runtimeErr.CodeFrame, styled)
	default:
		fmt.Fprintln(w, err)
	}
}

func writeReport(w io.Writer, header, frame string, styled bool) {
	if styled {
		header = reportHeaderStyle.Render(header)
	}
	fmt.Fprintln(w, header)
	if frame == "" {
		return
	}
	frame = strings.TrimRight(frame, "\n")
	if styled {
		frame = reportFrameStyle.Render(frame)
	}
	fmt.Fprintln(w, frame)
}
