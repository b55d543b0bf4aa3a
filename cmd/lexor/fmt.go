package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const sourceExt = ".lexor"

func fmtCommand(args []string) error {
	fs := flag.NewFlagSet("fmt", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	write := fs.Bool("w", false, "write result to source files instead of stdout")
	check := fs.Bool("check", false, "fail if any source file needs formatting")
	if err := fs.Parse(args); err != nil {
		return err
	}

	targets := fs.Args()
	if len(targets) == 0 {
		return errors.New("lexor fmt: path required")
	}

	files, err := collectSourceFiles(targets)
	if err != nil {
		return err
	}

	changedCount := 0
	for _, path := range files {
		originalBytes, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		original := string(originalBytes)
		formatted := formatSource(original)
		changed := formatted != original
		if changed {
			changedCount++
		}

		switch {
		case *write && changed:
			info, err := os.Stat(path)
			if err != nil {
				return fmt.Errorf("stat %s: %w", path, err)
			}
			if err := os.WriteFile(path, []byte(formatted), info.Mode().Perm()); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
		case !*write && !*check:
			fmt.Print(formatted)
		}
	}

	if *check && changedCount > 0 {
		return fmt.Errorf("lexor fmt: %d file(s) need formatting", changedCount)
	}
	return nil
}

func collectSourceFiles(targets []string) ([]string, error) {
	seen := make(map[string]struct{})
	files := make([]string, 0)
	addFile := func(path string) {
		if filepath.Ext(path) != sourceExt {
			return
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return
		}
		if _, ok := seen[abs]; ok {
			return
		}
		seen[abs] = struct{}{}
		files = append(files, abs)
	}

	for _, target := range targets {
		info, err := os.Stat(target)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", target, err)
		}
		if !info.IsDir() {
			addFile(target)
			continue
		}
		err = filepath.WalkDir(target, func(path string, entry fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if entry.IsDir() {
				return nil
			}
			addFile(path)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", target, err)
		}
	}

	sort.Strings(files)
	return files, nil
}

// blockKinds are the keywords whose START/END pairs indent their body.
// START SCRIPT is left flush so a program body reads at column one.
var blockKinds = map[string]bool{"IF": true, "FOR": true, "REPEAT": true}

// formatSource normalizes line endings, strips surrounding whitespace and
// re-indents block bodies by two spaces per level.
func formatSource(source string) string {
	normalized := strings.ReplaceAll(source, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")

	lines := strings.Split(normalized, "\n")
	depth := 0
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			lines[i] = ""
			continue
		}
		marker := blockMarker(trimmed)
		if marker == "END" && depth > 0 {
			depth--
		}
		lines[i] = strings.Repeat("  ", depth) + trimmed
		if marker == "START" {
			depth++
		}
	}

	joined := strings.Join(lines, "\n")
	joined = strings.TrimRight(joined, "\n")
	return joined + "\n"
}

// blockMarker returns "START" or "END" when line opens or closes an
// indenting block, and "" otherwise.
func blockMarker(line string) string {
	fields := strings.Fields(line)
	if len(fields) < 2 || !blockKinds[fields[1]] {
		return ""
	}
	if fields[0] != "START" && fields[0] != "END" {
		return ""
	}
	return fields[0]
}
