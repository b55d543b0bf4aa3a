package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strings"
	"testing"

	"github.com/mgomes/lexor/lexor"
)

const lspTestURI = "file:///tmp/test.lexor"

func TestRunCLIStartsLSPAndExitsOnEOF(t *testing.T) {
	origStdin := os.Stdin
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close write pipe: %v", err)
	}
	os.Stdin = r
	defer func() {
		os.Stdin = origStdin
		_ = r.Close()
	}()

	if err := runCLI([]string{"lexor", "lsp"}); err != nil {
		t.Fatalf("runCLI lsp failed: %v", err)
	}
}

func TestServeAnswersInitializeOverFraming(t *testing.T) {
	request := `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`
	exit := `{"jsonrpc":"2.0","method":"exit"}`
	input := fmt.Sprintf("Content-Length: %d\r\n\r\n%sContent-Length: %d\r\n\r\n%s", len(request), request, len(exit), exit)

	var out bytes.Buffer
	server := newLSPServer(strings.NewReader(input), &out)
	if err := server.serve(); err != nil {
		t.Fatalf("serve failed: %v", err)
	}

	header, body, ok := strings.Cut(out.String(), "\r\n\r\n")
	if !ok || !strings.HasPrefix(header, "Content-Length: ") {
		t.Fatalf("unexpected framing: %q", out.String())
	}
	var response map[string]any
	if err := json.Unmarshal([]byte(body), &response); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	result, ok := response["result"].(map[string]any)
	if !ok {
		t.Fatalf("missing result: %#v", response)
	}
	if _, ok := result["capabilities"]; !ok {
		t.Fatalf("missing capabilities: %#v", result)
	}
}

func TestDiagnosticsForSourceWithoutErrors(t *testing.T) {
	engine := lexor.NewEngine(lexor.Config{})
	source := "SCRIPT AREA\nSTART SCRIPT\nDECLARE INT x = 1\nPRINT: x\nEND SCRIPT\n"
	diags := diagnosticsForSource(engine, source)
	if len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %v", diags)
	}
}

func TestDiagnosticsForSourceWithParseError(t *testing.T) {
	engine := lexor.NewEngine(lexor.Config{})
	source := "SCRIPT AREA\nSTART SCRIPT\nPRINT 1\nEND SCRIPT\n"
	diags := diagnosticsForSource(engine, source)
	if len(diags) != 1 {
		t.Fatalf("expected one diagnostic, got %v", diags)
	}
	first := diags[0]
	if first["severity"] != lspSeverityError {
		t.Fatalf("expected severity 1, got %#v", first["severity"])
	}
	message, ok := first["message"].(string)
	if !ok || !strings.Contains(message, "':' after PRINT") {
		t.Fatalf("unexpected diagnostic message: %#v", first["message"])
	}
	start := first["range"].(map[string]any)["start"].(map[string]any)
	if start["line"] != 2 || start["character"] != 6 {
		t.Fatalf("unexpected diagnostic start: %#v", start)
	}
}

func TestDiagnosticsForSourceDoesNotAccumulate(t *testing.T) {
	engine := lexor.NewEngine(lexor.Config{})
	bad := "SCRIPT AREA\nSTART SCRIPT\nPRINT 1\nEND SCRIPT\n"
	diagnosticsForSource(engine, bad)
	if got := diagnosticsForSource(engine, bad); len(got) != 1 {
		t.Fatalf("expected one diagnostic on the second pass, got %d", len(got))
	}
}

func TestDiagnosticsForSourceReportsLintWarnings(t *testing.T) {
	engine := lexor.NewEngine(lexor.Config{})
	source := "SCRIPT AREA\nSTART SCRIPT\nDECLARE INT unused\nEND SCRIPT\n"
	diags := diagnosticsForSource(engine, source)
	if len(diags) != 1 {
		t.Fatalf("expected one warning, got %v", diags)
	}
	if diags[0]["severity"] != lspSeverityWarning {
		t.Fatalf("expected warning severity, got %#v", diags[0]["severity"])
	}
}

func TestCompletionItemsIncludeKeywordsAndDeclarations(t *testing.T) {
	source := "SCRIPT AREA\nSTART SCRIPT\nDECLARE FLOAT rate\nEND SCRIPT\n"
	items := completionItems(source)

	var keywords []string
	for _, item := range items {
		if item["kind"] == lspKindKeyword {
			keywords = append(keywords, item["label"].(string))
		}
	}
	if !slices.IsSorted(keywords) {
		t.Fatalf("expected sorted keyword labels, got %v", keywords)
	}

	keyword := findCompletionItem(t, items, "REPEAT")
	if keyword["detail"] != "keyword" {
		t.Fatalf("expected keyword detail, got %#v", keyword["detail"])
	}
	variable := findCompletionItem(t, items, "rate")
	if variable["detail"] != "FLOAT" || variable["kind"] != lspKindVariable {
		t.Fatalf("unexpected variable item: %#v", variable)
	}
}

func TestHandleMessageDidOpenPublishesDiagnostics(t *testing.T) {
	server := &lspServer{
		engine: lexor.NewEngine(lexor.Config{}),
		docs:   make(map[string]string),
	}
	params := map[string]any{
		"textDocument": map[string]any{
			"uri":  lspTestURI,
			"text": "SCRIPT AREA\nSTART SCRIPT\nPRINT: (1\nEND SCRIPT\n",
		},
	}
	payload, err := json.Marshal(params)
	if err != nil {
		t.Fatalf("marshal params: %v", err)
	}

	messages := server.handleMessage(lspInboundMessage{
		JSONRPC: "2.0",
		Method:  "textDocument/didOpen",
		Params:  payload,
	})
	if len(messages) != 1 {
		t.Fatalf("expected one publishDiagnostics notification, got %d", len(messages))
	}
	if messages[0].Method != "textDocument/publishDiagnostics" {
		t.Fatalf("unexpected method: %q", messages[0].Method)
	}
	paramsMap, ok := messages[0].Params.(map[string]any)
	if !ok {
		t.Fatalf("unexpected params payload: %#v", messages[0].Params)
	}
	diags, ok := paramsMap["diagnostics"].([]map[string]any)
	if !ok {
		t.Fatalf("unexpected diagnostics payload: %#v", paramsMap["diagnostics"])
	}
	if len(diags) == 0 {
		t.Fatalf("expected diagnostics for invalid source")
	}
	if _, ok := server.docs[lspTestURI]; !ok {
		t.Fatalf("document not tracked after didOpen")
	}
}

func TestHandleMessageHoverDescribesDeclaredVariable(t *testing.T) {
	server := &lspServer{
		engine: lexor.NewEngine(lexor.Config{}),
		docs: map[string]string{
			lspTestURI: "SCRIPT AREA\nSTART SCRIPT\nDECLARE INT total = 2 * 3\nPRINT: total\nEND SCRIPT\n",
		},
	}

	value := hoverValue(t, server, 3, 9)
	if !strings.Contains(value, "`INT total`") {
		t.Fatalf("expected declared type in hover, got %q", value)
	}
	if !strings.Contains(value, "(* 2 3)") {
		t.Fatalf("expected initializer in hover, got %q", value)
	}
}

func TestHandleMessageHoverClassifiesKeywords(t *testing.T) {
	server := &lspServer{
		engine: lexor.NewEngine(lexor.Config{}),
		docs: map[string]string{
			lspTestURI: "SCRIPT AREA\nSTART SCRIPT\nEND SCRIPT\n",
		},
	}

	value := hoverValue(t, server, 1, 2)
	if !strings.Contains(value, "LEXOR keyword") {
		t.Fatalf("expected keyword classification, got %q", value)
	}
}

func TestHandleMessageUnknownMethod(t *testing.T) {
	server := &lspServer{engine: lexor.NewEngine(lexor.Config{}), docs: map[string]string{}}
	messages := server.handleMessage(lspInboundMessage{JSONRPC: "2.0", ID: rawID("7"), Method: "workspace/symbol"})
	if len(messages) != 1 || messages[0].Error == nil || messages[0].Error.Code != -32601 {
		t.Fatalf("expected method not found error, got %#v", messages)
	}
}

func TestHandleMessageCompletion(t *testing.T) {
	server := &lspServer{
		engine: lexor.NewEngine(lexor.Config{}),
		docs: map[string]string{
			lspTestURI: "SCRIPT AREA\nSTART SCRIPT\nDECLARE CHAR grade\nEND SCRIPT\n",
		},
	}
	payload, err := json.Marshal(map[string]any{
		"textDocument": map[string]any{"uri": lspTestURI},
		"position":     map[string]any{"line": 2, "character": 0},
	})
	if err != nil {
		t.Fatalf("marshal params: %v", err)
	}

	messages := server.handleMessage(lspInboundMessage{JSONRPC: "2.0", ID: rawID("3"), Method: "textDocument/completion", Params: payload})
	if len(messages) != 1 || messages[0].Error != nil {
		t.Fatalf("expected a completion result, got %#v", messages)
	}
	result, ok := messages[0].Result.(map[string]any)
	if !ok {
		t.Fatalf("unexpected completion result: %#v", messages[0].Result)
	}
	items, ok := result["items"].([]map[string]any)
	if !ok {
		t.Fatalf("unexpected completion items: %#v", result["items"])
	}
	findCompletionItem(t, items, "grade")
}

func TestHandleMessageCompletionRejectsInvalidParams(t *testing.T) {
	server := &lspServer{engine: lexor.NewEngine(lexor.Config{}), docs: map[string]string{}}
	messages := server.handleMessage(lspInboundMessage{
		JSONRPC: "2.0",
		ID:      rawID("4"),
		Method:  "textDocument/completion",
		Params:  json.RawMessage(`{"position":"nowhere"}`),
	})
	if len(messages) != 1 || messages[0].Error == nil || messages[0].Error.Code != -32602 {
		t.Fatalf("expected invalid params error, got %#v", messages)
	}
}

func TestWordAtPosition(t *testing.T) {
	source := "SCRIPT AREA\n  PRINT: counter\n"
	word := wordAtPosition(source, 1, 12)
	if word != "counter" {
		t.Fatalf("expected counter, got %q", word)
	}
}

func TestWordAtPositionUsesUTF16CharacterOffsets(t *testing.T) {
	source := "😀😀x y\n"
	word := wordAtPosition(source, 0, 4)
	if word != "x" {
		t.Fatalf("expected x, got %q", word)
	}
}

func TestUTF16ColumnCountsSurrogatePairs(t *testing.T) {
	if got := utf16Column("😀a\n", 0, 1); got != 2 {
		t.Fatalf("expected 2 code units, got %d", got)
	}
}

func hoverValue(t *testing.T, server *lspServer, line, character int) string {
	t.Helper()
	params := map[string]any{
		"textDocument": map[string]any{"uri": lspTestURI},
		"position":     map[string]any{"line": line, "character": character},
	}
	payload, err := json.Marshal(params)
	if err != nil {
		t.Fatalf("marshal params: %v", err)
	}
	messages := server.handleMessage(lspInboundMessage{
		JSONRPC: "2.0",
		ID:      rawID("1"),
		Method:  "textDocument/hover",
		Params:  payload,
	})
	if len(messages) != 1 {
		t.Fatalf("expected one response, got %d", len(messages))
	}
	result, ok := messages[0].Result.(map[string]any)
	if !ok {
		t.Fatalf("unexpected hover result: %#v", messages[0].Result)
	}
	contents, ok := result["contents"].(map[string]any)
	if !ok {
		t.Fatalf("unexpected hover contents: %#v", result["contents"])
	}
	value, ok := contents["value"].(string)
	if !ok {
		t.Fatalf("unexpected hover value: %#v", contents["value"])
	}
	return value
}

func rawID(value string) *json.RawMessage {
	raw := json.RawMessage(value)
	return &raw
}

func findCompletionItem(t *testing.T, items []map[string]any, label string) map[string]any {
	t.Helper()
	for _, item := range items {
		itemLabel, ok := item["label"].(string)
		if ok && itemLabel == label {
			return item
		}
	}
	t.Fatalf("missing completion item %q", label)
	return nil
}
