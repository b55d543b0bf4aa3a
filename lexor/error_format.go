package lexor

import (
	"fmt"
	"strconv"
	"strings"
)

// formatCodeFrame renders the offending source line with a caret under pos.
func formatCodeFrame(source string, pos Position) string {
	if source == "" || pos.Line <= 0 {
		return ""
	}

	lines := strings.Split(source, "\n")
	if pos.Line > len(lines) {
		return ""
	}

	lineText := strings.TrimRight(lines[pos.Line-1], "\r")
	lineRunes := []rune(lineText)

	column := max(pos.Column, 1)
	column = min(column, len(lineRunes)+1)

	// Tabs keep their width in the caret line so the caret stays aligned.
	var caret strings.Builder
	for i := 0; i < column-1; i++ {
		if lineRunes[i] == '\t' {
			caret.WriteByte('\t')
		} else {
			caret.WriteByte(' ')
		}
	}

	lineLabel := strconv.Itoa(pos.Line)
	gutterPad := strings.Repeat(" ", len(lineLabel))

	return fmt.Sprintf(
		"  --> line %d, column %d\n %s | %s\n %s | %s^",
		pos.Line,
		column,
		lineLabel,
		lineText,
		gutterPad,
		caret.String(),
	)
}
