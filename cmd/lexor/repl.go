package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/mgomes/lexor/lexor"
)

var (
	accentColor    = lipgloss.Color("#3B82F6")
	successColor   = lipgloss.Color("#10B981")
	errorColor     = lipgloss.Color("#EF4444")
	mutedColor     = lipgloss.Color("#6B7280")
	highlightColor = lipgloss.Color("#F59E0B")

	promptStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	resultStyle = lipgloss.NewStyle().
			Foreground(successColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	headerStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true).
			Padding(0, 1)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(highlightColor)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Padding(0, 1)
)

// replStepQuota keeps a runaway loop from freezing the terminal.
const replStepQuota = 1_000_000

type historyEntry struct {
	input  string
	output string
	isErr  bool
}

// replModel keeps a session as source text. Every submission replays the
// declarations and statements accepted so far plus the new chunk, and only
// the output past what the session already printed is shown. A chunk that
// fails is dropped, so the session always holds a program that runs.
type replModel struct {
	textInput   textinput.Model
	history     []historyEntry
	cmdHistory  []string
	historyIdx  int
	width       int
	height      int
	showHelp    bool
	showVars    bool
	quitting    bool
	initialized bool

	decls   []string
	stmts   []string
	inputs  []string
	printed string
	vars    []sessionVar

	pending     []string
	pendingKind string
	depth       int
}

type sessionVar struct {
	name string
	typ  lexor.DeclaredType
}

type keyMap struct {
	Up    key.Binding
	Down  key.Binding
	Enter key.Binding
	CtrlC key.Binding
	CtrlD key.Binding
	CtrlL key.Binding
	Tab   key.Binding
	CtrlV key.Binding
	CtrlH key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up"),
		key.WithHelp("↑", "previous command"),
	),
	Down: key.NewBinding(
		key.WithKeys("down"),
		key.WithHelp("↓", "next command"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "execute"),
	),
	CtrlC: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
	CtrlD: key.NewBinding(
		key.WithKeys("ctrl+d"),
		key.WithHelp("ctrl+d", "quit"),
	),
	CtrlL: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("ctrl+l", "clear"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "autocomplete"),
	),
	CtrlV: key.NewBinding(
		key.WithKeys("ctrl+v"),
		key.WithHelp("ctrl+v", "toggle vars"),
	),
	CtrlH: key.NewBinding(
		key.WithKeys("ctrl+k"),
		key.WithHelp("ctrl+k", "toggle help"),
	),
}

const (
	mainPrompt         = "lexor> "
	continuationPrompt = "  ...> "
)

func newREPLModel() replModel {
	ti := textinput.New()
	ti.Placeholder = "type a statement..."
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60
	ti.PromptStyle = promptStyle
	ti.Prompt = mainPrompt

	return replModel{
		textInput:  ti,
		history:    make([]historyEntry, 0),
		cmdHistory: make([]string, 0),
		historyIdx: -1,
	}
}

func (m replModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tea.EnterAltScreen)
}

func (m replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.textInput.Width = msg.Width - 10
		m.initialized = true
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.CtrlC), key.Matches(msg, keys.CtrlD):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.CtrlL):
			m.history = make([]historyEntry, 0)
			return m, nil

		case key.Matches(msg, keys.CtrlV):
			m.showVars = !m.showVars
			return m, nil

		case key.Matches(msg, keys.CtrlH):
			m.showHelp = !m.showHelp
			return m, nil

		case key.Matches(msg, keys.Up):
			if len(m.cmdHistory) > 0 {
				if m.historyIdx == -1 {
					m.historyIdx = len(m.cmdHistory) - 1
				} else if m.historyIdx > 0 {
					m.historyIdx--
				}
				m.textInput.SetValue(m.cmdHistory[m.historyIdx])
				m.textInput.CursorEnd()
			}
			return m, nil

		case key.Matches(msg, keys.Down):
			if m.historyIdx != -1 {
				if m.historyIdx < len(m.cmdHistory)-1 {
					m.historyIdx++
					m.textInput.SetValue(m.cmdHistory[m.historyIdx])
				} else {
					m.historyIdx = -1
					m.textInput.SetValue("")
				}
				m.textInput.CursorEnd()
			}
			return m, nil

		case key.Matches(msg, keys.Tab):
			m = m.handleAutocomplete()
			return m, nil

		case key.Matches(msg, keys.Enter):
			input := strings.TrimSpace(m.textInput.Value())
			m.textInput.SetValue("")
			m.historyIdx = -1

			if strings.HasPrefix(input, ":") && len(m.pending) == 0 {
				var cmd tea.Cmd
				m, cmd = m.handleCommand(input)
				return m, cmd
			}
			if input != "" {
				m.cmdHistory = append(m.cmdHistory, input)
			}
			m.history = append(m.history, m.feed(input)...)
			if len(m.pending) > 0 {
				m.textInput.Prompt = continuationPrompt
			} else {
				m.textInput.Prompt = mainPrompt
			}
			return m, nil
		}
	}

	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m replModel) handleCommand(input string) (replModel, tea.Cmd) {
	parts := strings.Fields(input)
	cmd := parts[0]

	switch cmd {
	case ":help", ":h":
		m.showHelp = !m.showHelp
	case ":clear", ":c":
		m.history = make([]historyEntry, 0)
	case ":vars", ":v":
		m.showVars = !m.showVars
	case ":input", ":i":
		line := strings.TrimSpace(strings.TrimPrefix(input, cmd))
		m.inputs = append(m.inputs, line)
		m.history = append(m.history, historyEntry{
			input:  input,
			output: fmt.Sprintf("Queued input line %d", len(m.inputs)),
		})
	case ":reset", ":r":
		m.decls = nil
		m.stmts = nil
		m.inputs = nil
		m.printed = ""
		m.vars = nil
		m.history = append(m.history, historyEntry{
			input:  input,
			output: "Session reset",
		})
	case ":quit", ":q":
		m.quitting = true
		return m, tea.Quit
	default:
		m.history = append(m.history, historyEntry{
			input:  input,
			output: fmt.Sprintf("Unknown command: %s", cmd),
			isErr:  true,
		})
	}
	return m, nil
}

// feed takes one submitted line. Lines opening a block or a whole program
// are buffered until the block closes; everything else runs at once.
func (m *replModel) feed(line string) []historyEntry {
	if len(m.pending) > 0 {
		return m.continueChunk(line)
	}
	if line == "" {
		return nil
	}

	fields := strings.Fields(line)
	switch fields[0] {
	case "SCRIPT":
		m.pending = []string{line}
		m.pendingKind = "SCRIPT"
		return []historyEntry{{input: line}}
	case "IF", "FOR", "REPEAT":
		m.pending = []string{line}
		m.pendingKind = fields[0]
		m.depth = 0
		return []historyEntry{{input: line}}
	case "DECLARE":
		return []historyEntry{m.declare(line)}
	default:
		return []historyEntry{m.execute(line, []string{line})}
	}
}

func (m *replModel) continueChunk(line string) []historyEntry {
	if m.pendingKind == "SCRIPT" {
		m.pending = append(m.pending, line)
		if strings.Join(strings.Fields(line), " ") != "END SCRIPT" {
			return []historyEntry{{input: line}}
		}
		return []historyEntry{{input: line}, m.runProgram(strings.Join(m.pending, "\n"))}
	}

	// An IF chain may continue with ELSE after its END IF, so it is only
	// closed by a blank line or by the next line that is not an ELSE.
	if m.pendingKind == "IF" && m.depth == 0 && len(m.pending) > 1 {
		if line == "" {
			return []historyEntry{m.flushChunk()}
		}
		if !strings.HasPrefix(line, "ELSE") {
			entry := m.flushChunk()
			return append([]historyEntry{entry}, m.feed(line)...)
		}
	}
	if line == "" {
		return nil
	}

	m.pending = append(m.pending, line)
	switch blockMarker(line) {
	case "START":
		m.depth++
	case "END":
		m.depth--
	}
	entries := []historyEntry{{input: line}}
	if m.depth <= 0 && blockMarker(line) == "END" && m.pendingKind != "IF" {
		entries = append(entries, m.flushChunk())
	}
	return entries
}

func (m *replModel) flushChunk() historyEntry {
	chunk := m.pending
	m.pending = nil
	m.pendingKind = ""
	m.depth = 0
	return m.execute("", chunk)
}

func (m *replModel) declare(line string) historyEntry {
	decls := append(append([]string(nil), m.decls...), line)
	_, program, err := m.replay(decls, m.stmts)
	if err != nil {
		return historyEntry{input: line, output: summarizeError(err), isErr: true}
	}
	m.decls = decls
	m.vars = declaredVars(program)
	return historyEntry{input: line, output: "ok"}
}

func (m *replModel) execute(input string, chunk []string) historyEntry {
	stmts := append(append([]string(nil), m.stmts...), chunk...)
	out, _, err := m.replay(m.decls, stmts)
	fresh := strings.TrimPrefix(out, m.printed)
	if err != nil {
		msg := summarizeError(err)
		if fresh != "" {
			msg = strings.TrimRight(fresh, "\n") + "\n" + msg
		}
		return historyEntry{input: input, output: msg, isErr: true}
	}
	m.stmts = stmts
	m.printed = out
	if fresh == "" {
		return historyEntry{input: input, output: "ok"}
	}
	return historyEntry{input: input, output: strings.TrimRight(fresh, "\n")}
}

// runProgram runs a complete program outside the session.
func (m *replModel) runProgram(source string) historyEntry {
	m.pending = nil
	m.pendingKind = ""
	out, err := runSource(source, m.inputs)
	if err != nil {
		msg := summarizeError(err)
		if out != "" {
			msg = strings.TrimRight(out, "\n") + "\n" + msg
		}
		return historyEntry{output: msg, isErr: true}
	}
	if out == "" {
		return historyEntry{output: "ok"}
	}
	return historyEntry{output: strings.TrimRight(out, "\n")}
}

func (m *replModel) replay(decls, stmts []string) (string, *lexor.Program, error) {
	var b strings.Builder
	b.WriteString("SCRIPT AREA\nSTART SCRIPT\n")
	for _, line := range decls {
		b.WriteString(line + "\n")
	}
	for _, line := range stmts {
		b.WriteString(line + "\n")
	}
	b.WriteString("END SCRIPT\n")
	return runSourceProgram(b.String(), m.inputs)
}

func runSource(source string, inputs []string) (string, error) {
	out, _, err := runSourceProgram(source, inputs)
	return out, err
}

func runSourceProgram(source string, inputs []string) (string, *lexor.Program, error) {
	var out bytes.Buffer
	var in string
	if len(inputs) > 0 {
		in = strings.Join(inputs, "\n") + "\n"
	}
	engine := lexor.NewEngine(lexor.Config{
		Stdout:    &out,
		Stdin:     strings.NewReader(in),
		StepQuota: replStepQuota,
	})
	program, err := engine.Compile(source)
	if err != nil {
		return "", nil, err
	}
	err = engine.Execute(context.Background(), program)
	return out.String(), program, err
}

func declaredVars(program *lexor.Program) []sessionVar {
	var vars []sessionVar
	for _, stmt := range program.Statements {
		decl, ok := stmt.(*lexor.DeclareStmt)
		if !ok {
			continue
		}
		for _, v := range decl.Vars {
			vars = append(vars, sessionVar{name: v.Name.Lexeme, typ: decl.Type})
		}
	}
	return vars
}

// summarizeError drops code frames, which point into the replayed program
// rather than the line the user typed.
func summarizeError(err error) string {
	var compileErr *lexor.CompileError
	var runtimeErr *lexor.RuntimeError
	switch {
	case errors.As(err, &compileErr):
		msgs := make([]string, len(compileErr.Diagnostics))
		for i, diag := range compileErr.Diagnostics {
			msgs[i] = diag.Kind.String() + ": " + diag.Message
		}
		return strings.Join(msgs, "\n")
	case errors.As(err, &runtimeErr):
		return "runtime error: " + runtimeErr.Message
	default:
		return err.Error()
	}
}

func (m replModel) handleAutocomplete() replModel {
	input := m.textInput.Value()
	words := strings.Fields(input)
	if len(words) == 0 || strings.HasSuffix(input, " ") {
		return m
	}
	lastWord := words[len(words)-1]

	completions := m.completions(lastWord)
	if len(completions) == 1 {
		prefix := strings.TrimSuffix(input, lastWord)
		m.textInput.SetValue(prefix + completions[0])
		m.textInput.CursorEnd()
	} else if len(completions) > 1 {
		m.history = append(m.history, historyEntry{
			output: "Completions: " + strings.Join(completions, ", "),
		})
	}
	return m
}

// completions prefers candidates that start with word and falls back to
// fuzzy matches ranked by distance.
func (m replModel) completions(word string) []string {
	candidates := lexor.Keywords()
	for _, v := range m.vars {
		candidates = append(candidates, v.name)
	}
	sort.Strings(candidates)

	var prefixed []string
	for _, c := range candidates {
		if strings.HasPrefix(strings.ToUpper(c), strings.ToUpper(word)) {
			prefixed = append(prefixed, c)
		}
	}
	if len(prefixed) > 0 {
		return prefixed
	}

	ranks := fuzzy.RankFindFold(word, candidates)
	sort.Sort(ranks)
	out := make([]string, len(ranks))
	for i, r := range ranks {
		out[i] = r.Target
	}
	return out
}

func (m replModel) View() string {
	if !m.initialized {
		return "Loading..."
	}

	if m.quitting {
		return mutedStyle.Render("Goodbye!\n")
	}

	var b strings.Builder

	header := headerStyle.Render("LEXOR REPL")
	b.WriteString(header + "\n")
	b.WriteString(mutedStyle.Render(strings.Repeat("─", min(m.width-2, 60))) + "\n\n")

	reservedLines := 8
	if m.showHelp {
		reservedLines += 12
	}
	if m.showVars {
		reservedLines += len(m.vars) + 3
	}
	availableHeight := max(m.height-reservedLines, 1)

	historyStart := 0
	if len(m.history) > availableHeight {
		historyStart = len(m.history) - availableHeight
	}

	for i := historyStart; i < len(m.history); i++ {
		entry := m.history[i]
		if entry.input != "" {
			b.WriteString(mutedStyle.Render("  › ") + entry.input + "\n")
		}
		if entry.output == "" {
			continue
		}
		if entry.isErr {
			b.WriteString("  " + errorStyle.Render("✗ "+entry.output) + "\n")
		} else {
			b.WriteString("  " + resultStyle.Render("→ "+entry.output) + "\n")
		}
		b.WriteString("\n")
	}

	if m.showVars {
		b.WriteString(renderVarsPanel(m.vars))
		b.WriteString("\n")
	}

	if m.showHelp {
		b.WriteString(renderHelpPanel())
		b.WriteString("\n")
	}

	b.WriteString(m.textInput.View() + "\n\n")

	footer := helpKeyStyle.Render("ctrl+k") + helpDescStyle.Render(" help  ") +
		helpKeyStyle.Render("ctrl+v") + helpDescStyle.Render(" vars  ") +
		helpKeyStyle.Render("ctrl+l") + helpDescStyle.Render(" clear  ") +
		helpKeyStyle.Render("ctrl+c") + helpDescStyle.Render(" quit")
	b.WriteString(footer)

	return b.String()
}

func renderVarsPanel(vars []sessionVar) string {
	if len(vars) == 0 {
		return borderStyle.Render(mutedStyle.Render("No variables declared"))
	}

	var lines []string
	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(accentColor).Render("Variables"))
	varNameStyle := lipgloss.NewStyle().Foreground(highlightColor)
	for _, v := range vars {
		lines = append(lines, fmt.Sprintf("  %s %s", mutedStyle.Render(string(v.typ)), varNameStyle.Render(v.name)))
	}
	return borderStyle.Render(strings.Join(lines, "\n"))
}

func renderHelpPanel() string {
	help := []struct {
		key  string
		desc string
	}{
		{"↑/↓", "Navigate command history"},
		{"Tab", "Autocomplete keywords and variables"},
		{"Enter", "Run a statement or extend a block"},
		{"(blank)", "Close a pending IF chain"},
		{":input", "Queue a line for SCAN"},
		{":help", "Toggle this help"},
		{":vars", "Toggle variables panel"},
		{":clear", "Clear history"},
		{":reset", "Forget declarations and statements"},
		{":quit", "Exit REPL"},
	}

	var lines []string
	lines = append(lines, lipgloss.NewStyle().Bold(true).Foreground(accentColor).Render("Help"))
	for _, h := range help {
		line := fmt.Sprintf("  %s  %s",
			helpKeyStyle.Render(fmt.Sprintf("%-8s", h.key)),
			helpDescStyle.Render(h.desc))
		lines = append(lines, line)
	}

	return borderStyle.Render(strings.Join(lines, "\n"))
}

func runREPL() error {
	p := tea.NewProgram(newREPLModel(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
