package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/mgomes/lexor/lexor"
)

const (
	lspSeverityError   = 1
	lspSeverityWarning = 2

	lspKindVariable = 6
	lspKindKeyword  = 14
)

type lspInboundMessage struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      *json.RawMessage `json:"id,omitempty"`
	Method  string           `json:"method,omitempty"`
	Params  json.RawMessage  `json:"params,omitempty"`
}

type lspResponseError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type lspOutboundMessage struct {
	JSONRPC string            `json:"jsonrpc"`
	ID      *json.RawMessage  `json:"id,omitempty"`
	Method  string            `json:"method,omitempty"`
	Params  any               `json:"params,omitempty"`
	Result  any               `json:"result,omitempty"`
	Error   *lspResponseError `json:"error,omitempty"`
}

type lspDidOpenParams struct {
	TextDocument struct {
		URI  string `json:"uri"`
		Text string `json:"text"`
	} `json:"textDocument"`
}

type lspDidChangeParams struct {
	TextDocument struct {
		URI string `json:"uri"`
	} `json:"textDocument"`
	ContentChanges []struct {
		Text string `json:"text"`
	} `json:"contentChanges"`
}

type lspDidCloseParams struct {
	TextDocument struct {
		URI string `json:"uri"`
	} `json:"textDocument"`
}

type lspTextDocumentPositionParams struct {
	TextDocument struct {
		URI string `json:"uri"`
	} `json:"textDocument"`
	Position struct {
		Line      int `json:"line"`
		Character int `json:"character"`
	} `json:"position"`
}

type lspServer struct {
	reader *bufio.Reader
	writer *bufio.Writer
	engine *lexor.Engine
	docs   map[string]string
}

func runLSP() error {
	server := newLSPServer(os.Stdin, os.Stdout)
	return server.serve()
}

func newLSPServer(r io.Reader, w io.Writer) *lspServer {
	return &lspServer{
		reader: bufio.NewReader(r),
		writer: bufio.NewWriter(w),
		engine: lexor.NewEngine(lexor.Config{}),
		docs:   make(map[string]string),
	}
}

func (s *lspServer) serve() error {
	for {
		payload, err := s.readPayload()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		var incoming lspInboundMessage
		if err := json.Unmarshal(payload, &incoming); err != nil {
			continue
		}

		for _, msg := range s.handleMessage(incoming) {
			if err := s.writePayload(msg); err != nil {
				return err
			}
		}

		if incoming.Method == "exit" {
			return nil
		}
	}
}

func (s *lspServer) handleMessage(incoming lspInboundMessage) []lspOutboundMessage {
	switch incoming.Method {
	case "initialize":
		return []lspOutboundMessage{
			{
				JSONRPC: "2.0",
				ID:      incoming.ID,
				Result: map[string]any{
					"capabilities": map[string]any{
						"textDocumentSync": 1,
						"hoverProvider":    true,
						"completionProvider": map[string]any{
							"resolveProvider": false,
						},
					},
					"serverInfo": map[string]any{"name": "lexor-lsp"},
				},
			},
		}
	case "initialized", "exit":
		return nil
	case "shutdown":
		if incoming.ID == nil {
			return nil
		}
		return []lspOutboundMessage{{JSONRPC: "2.0", ID: incoming.ID, Result: nil}}
	case "textDocument/didOpen":
		var params lspDidOpenParams
		if err := json.Unmarshal(incoming.Params, &params); err != nil {
			return nil
		}
		s.docs[params.TextDocument.URI] = params.TextDocument.Text
		return []lspOutboundMessage{
			s.publishDiagnostics(params.TextDocument.URI, params.TextDocument.Text),
		}
	case "textDocument/didChange":
		var params lspDidChangeParams
		if err := json.Unmarshal(incoming.Params, &params); err != nil {
			return nil
		}
		if len(params.ContentChanges) == 0 {
			return nil
		}
		latest := params.ContentChanges[len(params.ContentChanges)-1].Text
		s.docs[params.TextDocument.URI] = latest
		return []lspOutboundMessage{
			s.publishDiagnostics(params.TextDocument.URI, latest),
		}
	case "textDocument/didClose":
		var params lspDidCloseParams
		if err := json.Unmarshal(incoming.Params, &params); err != nil {
			return nil
		}
		delete(s.docs, params.TextDocument.URI)
		return []lspOutboundMessage{{
			JSONRPC: "2.0",
			Method:  "textDocument/publishDiagnostics",
			Params: map[string]any{
				"uri":         params.TextDocument.URI,
				"diagnostics": []map[string]any{},
			},
		}}
	case "textDocument/completion":
		if incoming.ID == nil {
			return nil
		}
		var params lspTextDocumentPositionParams
		if err := json.Unmarshal(incoming.Params, &params); err != nil {
			return []lspOutboundMessage{
				{
					JSONRPC: "2.0",
					ID:      incoming.ID,
					Error:   &lspResponseError{Code: -32602, Message: "invalid completion params"},
				},
			}
		}
		return []lspOutboundMessage{
			{
				JSONRPC: "2.0",
				ID:      incoming.ID,
				Result: map[string]any{
					"isIncomplete": false,
					"items":        completionItems(s.docs[params.TextDocument.URI]),
				},
			},
		}
	case "textDocument/hover":
		if incoming.ID == nil {
			return nil
		}
		var params lspTextDocumentPositionParams
		if err := json.Unmarshal(incoming.Params, &params); err != nil {
			return []lspOutboundMessage{
				{
					JSONRPC: "2.0",
					ID:      incoming.ID,
					Error:   &lspResponseError{Code: -32602, Message: "invalid hover params"},
				},
			}
		}
		source := s.docs[params.TextDocument.URI]
		word := wordAtPosition(source, params.Position.Line, params.Position.Character)
		text := hoverText(source, word)
		if text == "" {
			return []lspOutboundMessage{{JSONRPC: "2.0", ID: incoming.ID, Result: nil}}
		}
		return []lspOutboundMessage{
			{
				JSONRPC: "2.0",
				ID:      incoming.ID,
				Result: map[string]any{
					"contents": map[string]any{
						"kind":  "markdown",
						"value": text,
					},
				},
			},
		}
	default:
		if incoming.ID == nil {
			return nil
		}
		return []lspOutboundMessage{
			{
				JSONRPC: "2.0",
				ID:      incoming.ID,
				Error: &lspResponseError{
					Code:    -32601,
					Message: "method not found",
				},
			},
		}
	}
}

func (s *lspServer) publishDiagnostics(uri, source string) lspOutboundMessage {
	return lspOutboundMessage{
		JSONRPC: "2.0",
		Method:  "textDocument/publishDiagnostics",
		Params: map[string]any{
			"uri":         uri,
			"diagnostics": diagnosticsForSource(s.engine, source),
		},
	}
}

// diagnosticsForSource reports static errors, or the analyzer's warnings when
// the document compiles.
func diagnosticsForSource(engine *lexor.Engine, source string) []map[string]any {
	engine.Reset()
	program, err := engine.Compile(source)
	if err == nil {
		warnings := analyzeProgram(program)
		out := make([]map[string]any, 0, len(warnings))
		for _, w := range warnings {
			out = append(out, newDiagnostic(source, w.Pos, lspSeverityWarning, w.Message))
		}
		return out
	}

	var compileErr *lexor.CompileError
	if !errors.As(err, &compileErr) {
		return []map[string]any{newDiagnostic(source, lexor.Position{}, lspSeverityError, err.Error())}
	}
	out := make([]map[string]any, 0, len(compileErr.Diagnostics))
	for _, diag := range compileErr.Diagnostics {
		out = append(out, newDiagnostic(source, diag.Pos, lspSeverityError, diag.Kind.String()+": "+diag.Message))
	}
	return out
}

func newDiagnostic(source string, pos lexor.Position, severity int, message string) map[string]any {
	line := max(0, pos.Line-1)
	character := utf16Column(source, line, max(0, pos.Column-1))
	return map[string]any{
		"range": map[string]any{
			"start": map[string]any{
				"line":      line,
				"character": character,
			},
			"end": map[string]any{
				"line":      line,
				"character": character + 1,
			},
		},
		"severity": severity,
		"source":   "lexor-lsp",
		"message":  message,
	}
}

// utf16Column converts a rune offset on line to UTF-16 code units.
func utf16Column(source string, line, runeOffset int) int {
	lines := strings.Split(source, "\n")
	if line >= len(lines) {
		return runeOffset
	}
	units := 0
	for i, r := range []rune(lines[line]) {
		if i >= runeOffset {
			break
		}
		units += utf16.RuneLen(r)
	}
	return units
}

// declarations parses source leniently and returns its DECLARE statements, so
// completion and hover keep working while the document has errors.
func declarations(source string) []*lexor.DeclareStmt {
	if source == "" {
		return nil
	}
	program, _ := lexor.Parse(source, lexor.NewDiagnostics())
	var out []*lexor.DeclareStmt
	for _, stmt := range program.Statements {
		if decl, ok := stmt.(*lexor.DeclareStmt); ok {
			out = append(out, decl)
		}
	}
	return out
}

func completionItems(source string) []map[string]any {
	keywords := lexor.Keywords()
	sort.Strings(keywords)

	items := make([]map[string]any, 0, len(keywords))
	for _, label := range keywords {
		items = append(items, map[string]any{
			"label":  label,
			"kind":   lspKindKeyword,
			"detail": "keyword",
		})
	}
	for _, decl := range declarations(source) {
		for _, v := range decl.Vars {
			items = append(items, map[string]any{
				"label":  v.Name.Lexeme,
				"kind":   lspKindVariable,
				"detail": string(decl.Type),
			})
		}
	}
	return items
}

func hoverText(source, word string) string {
	if word == "" {
		return ""
	}
	if lexor.IsKeyword(word) {
		return fmt.Sprintf("`%s`\n\nLEXOR keyword", word)
	}
	for _, decl := range declarations(source) {
		for _, v := range decl.Vars {
			if v.Name.Lexeme != word {
				continue
			}
			text := fmt.Sprintf("`%s %s`\n\ndeclared at line %d", decl.Type, word, v.Name.Pos.Line)
			if v.Init != nil {
				text += ", initial value `" + lexor.FormatExpression(v.Init) + "`"
			}
			return text
		}
	}
	return fmt.Sprintf("`%s`\n\nundeclared name", word)
}

// wordAtPosition returns the identifier under an LSP position. character is
// counted in UTF-16 code units.
func wordAtPosition(source string, line, character int) string {
	lines := strings.Split(source, "\n")
	if line < 0 || line >= len(lines) {
		return ""
	}

	runes := []rune(strings.TrimRight(lines[line], "\r"))
	if len(runes) == 0 {
		return ""
	}

	cursor := 0
	for units := 0; cursor < len(runes); cursor++ {
		if units >= character {
			break
		}
		units += utf16.RuneLen(runes[cursor])
	}

	if cursor == len(runes) {
		cursor--
	}
	if !isWordRune(runes[cursor]) {
		if cursor > 0 && isWordRune(runes[cursor-1]) {
			cursor--
		} else {
			return ""
		}
	}

	start := cursor
	for start > 0 && isWordRune(runes[start-1]) {
		start--
	}
	end := cursor
	for end < len(runes) && isWordRune(runes[end]) {
		end++
	}
	return string(runes[start:end])
}

func isWordRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_'
}

func (s *lspServer) readPayload() ([]byte, error) {
	contentLength := -1
	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(name), "Content-Length") {
			n, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return nil, fmt.Errorf("invalid Content-Length: %w", err)
			}
			contentLength = n
		}
	}

	if contentLength < 0 {
		return nil, errors.New("missing Content-Length header")
	}
	payload := make([]byte, contentLength)
	if _, err := io.ReadFull(s.reader, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func (s *lspServer) writePayload(msg lspOutboundMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.writer, "Content-Length: %d\r\n\r\n", len(data)); err != nil {
		return err
	}
	if _, err := s.writer.Write(data); err != nil {
		return err
	}
	return s.writer.Flush()
}
