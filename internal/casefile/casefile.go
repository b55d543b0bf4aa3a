// Package casefile loads YAML suites of LEXOR programs with their expected
// output and runs them against the interpreter.
package casefile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Outcome is how a case is expected to finish.
type Outcome string

const (
	OutcomeOK      Outcome = "ok"
	OutcomeStatic  Outcome = "static"
	OutcomeRuntime Outcome = "runtime"
)

// Suite is one parsed suite file.
type Suite struct {
	Path  string
	Name  string
	Cases []Case
}

// Case is a single program with its input lines and expectations. Message,
// when set, must appear in the first diagnostic.
type Case struct {
	Name     string
	Source   string
	Input    string
	Output   string
	Expect   Outcome
	Message  string
	MaxSteps int
}

type suiteFile struct {
	Name  string     `yaml:"name"`
	Cases []caseFile `yaml:"cases"`
}

type caseFile struct {
	Name     string `yaml:"name"`
	Source   string `yaml:"source"`
	Input    string `yaml:"input"`
	Output   string `yaml:"output"`
	Expect   string `yaml:"expect"`
	Message  string `yaml:"message"`
	MaxSteps int    `yaml:"max_steps"`
}

// ValidationError aggregates problems found in a suite file.
type ValidationError struct {
	Path   string
	Issues []string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "casefile: %s is invalid:", e.Path)
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// Load reads and validates the suite at path.
func Load(path string) (*Suite, error) {
	if path == "" {
		return nil, fmt.Errorf("casefile: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("casefile: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("casefile: open %s: %w", absPath, err)
	}
	defer file.Close()
	return Decode(file, absPath)
}

// Decode parses a suite from r. path is only used in messages and as the
// default suite name.
func Decode(r io.Reader, path string) (*Suite, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var raw suiteFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("casefile: %s is empty", path)
		}
		return nil, fmt.Errorf("casefile: parse %s: %w", path, err)
	}

	suite := &Suite{Path: path, Name: raw.Name}
	if suite.Name == "" {
		suite.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	var issues []string
	seen := make(map[string]bool)
	for i, c := range raw.Cases {
		label := c.Name
		if label == "" {
			issues = append(issues, fmt.Sprintf("case #%d has no name", i+1))
			label = fmt.Sprintf("#%d", i+1)
		} else if seen[label] {
			issues = append(issues, fmt.Sprintf("duplicate case name %q", label))
		}
		seen[label] = true

		if strings.TrimSpace(c.Source) == "" {
			issues = append(issues, fmt.Sprintf("case %s has no source", label))
		}
		outcome := Outcome(strings.ToLower(strings.TrimSpace(c.Expect)))
		switch outcome {
		case "":
			outcome = OutcomeOK
		case OutcomeOK, OutcomeStatic, OutcomeRuntime:
		default:
			issues = append(issues, fmt.Sprintf("case %s: expect must be ok, static or runtime, got %q", label, c.Expect))
		}
		if c.MaxSteps < 0 {
			issues = append(issues, fmt.Sprintf("case %s: max_steps must not be negative", label))
		}
		suite.Cases = append(suite.Cases, Case{
			Name:     label,
			Source:   c.Source,
			Input:    c.Input,
			Output:   c.Output,
			Expect:   outcome,
			Message:  c.Message,
			MaxSteps: c.MaxSteps,
		})
	}
	if len(raw.Cases) == 0 {
		issues = append(issues, "suite has no cases")
	}
	if len(issues) > 0 {
		return nil, &ValidationError{Path: path, Issues: issues}
	}
	return suite, nil
}
