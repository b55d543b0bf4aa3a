package lexor

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func tokenTypes(tokens []Token) []TokenType {
	out := make([]TokenType, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Type
	}
	return out
}

func TestTokenizeDeclaration(t *testing.T) {
	diags := NewDiagnostics()
	tokens := Tokenize("DECLARE INT x=5, y %% trailing comment\n", diags)
	if diags.HadStaticError() {
		t.Fatalf("unexpected diagnostics: %v", diags.Entries())
	}
	want := []TokenType{
		tokenDeclare, tokenIntType, tokenIdent, tokenAssign, tokenIntLit,
		tokenComma, tokenIdent, tokenNewline, tokenEOF,
	}
	if diff := cmp.Diff(want, tokenTypes(tokens)); diff != "" {
		t.Fatalf("token types mismatch (-want +got):\n%s", diff)
	}
	if tokens[4].Literal.Int() != 5 {
		t.Fatalf("expected literal 5, got %v", tokens[4].Literal)
	}
}

func TestTokenizeOperatorsMaximalMunch(t *testing.T) {
	diags := NewDiagnostics()
	tokens := Tokenize("a == b <> c <= d >= e < f > g = h & i % j $", diags)
	var ops []TokenType
	for _, tok := range tokens {
		if tok.Type != tokenIdent && tok.Type != tokenEOF {
			ops = append(ops, tok.Type)
		}
	}
	want := []TokenType{
		tokenEQ, tokenNotEQ, tokenLTE, tokenGTE, tokenLT, tokenGT,
		tokenAssign, tokenAmpersand, tokenPercent, tokenDollar,
	}
	if diff := cmp.Diff(want, ops); diff != "" {
		t.Fatalf("operators mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizeKeywordsAreCaseSensitive(t *testing.T) {
	diags := NewDiagnostics()
	tokens := Tokenize("PRINT print Print", diags)
	want := []TokenType{tokenPrint, tokenIdent, tokenIdent, tokenEOF}
	if diff := cmp.Diff(want, tokenTypes(tokens)); diff != "" {
		t.Fatalf("token types mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizeNumbers(t *testing.T) {
	diags := NewDiagnostics()
	tokens := Tokenize("42 3.25 7", diags)
	if tokens[0].Type != tokenIntLit || tokens[0].Literal.Int() != 42 {
		t.Fatalf("unexpected first token %+v", tokens[0])
	}
	if tokens[1].Type != tokenFloatLit || tokens[1].Literal.Float() != 3.25 {
		t.Fatalf("unexpected second token %+v", tokens[1])
	}
	if tokens[2].Type != tokenIntLit {
		t.Fatalf("unexpected third token %+v", tokens[2])
	}
}

func TestTokenizeTrailingDotIsNotAFloat(t *testing.T) {
	diags := NewDiagnostics()
	tokens := Tokenize("3.", diags)
	if tokens[0].Type != tokenIntLit {
		t.Fatalf("expected integer literal, got %s", tokens[0].Type)
	}
	if !diags.HadStaticError() {
		t.Fatalf("expected the lone dot to be reported")
	}
}

func TestTokenizeStringEscapes(t *testing.T) {
	diags := NewDiagnostics()
	tokens := Tokenize(`"a[[]b[]]c[n]d[t]e[$]f["]g[#]"`, diags)
	if diags.HadStaticError() {
		t.Fatalf("unexpected diagnostics: %v", diags.Entries())
	}
	if got, want := tokens[0].Literal.Text(), "a[b]c\nd\te\rf\"g#"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestTokenizeStandaloneEscape(t *testing.T) {
	diags := NewDiagnostics()
	tokens := Tokenize(`[[] & x & []]`, diags)
	want := []TokenType{tokenStringLit, tokenAmpersand, tokenIdent, tokenAmpersand, tokenStringLit, tokenEOF}
	if diff := cmp.Diff(want, tokenTypes(tokens)); diff != "" {
		t.Fatalf("token types mismatch (-want +got):\n%s", diff)
	}
	if tokens[0].Literal.Text() != "[" || tokens[4].Literal.Text() != "]" {
		t.Fatalf("unexpected escape values %q %q", tokens[0].Literal.Text(), tokens[4].Literal.Text())
	}
}

func TestTokenizeCharLiteral(t *testing.T) {
	diags := NewDiagnostics()
	tokens := Tokenize("'c'", diags)
	if tokens[0].Type != tokenCharLit || tokens[0].Literal.Char() != 'c' {
		t.Fatalf("unexpected token %+v", tokens[0])
	}
}

func TestTokenizeErrorsAccumulate(t *testing.T) {
	diags := NewDiagnostics()
	tokens := Tokenize("x # y\n\"open\nz ''", diags)
	entries := diags.Entries()
	if len(entries) != 3 {
		t.Fatalf("expected 3 diagnostics, got %d: %v", len(entries), entries)
	}
	for _, entry := range entries {
		if entry.Kind != DiagnosticLexical {
			t.Fatalf("expected lexical diagnostic, got %s", entry.Kind)
		}
	}
	want := []TokenType{tokenIdent, tokenIdent, tokenNewline, tokenNewline, tokenIdent, tokenEOF}
	if diff := cmp.Diff(want, tokenTypes(tokens)); diff != "" {
		t.Fatalf("token types mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizeBadEscapeAbandonsString(t *testing.T) {
	diags := NewDiagnostics()
	tokens := Tokenize(`"ab[xy" PRINT`, diags)
	if !diags.HadStaticError() {
		t.Fatalf("expected an escape diagnostic")
	}
	want := []TokenType{tokenPrint, tokenEOF}
	if diff := cmp.Diff(want, tokenTypes(tokens)); diff != "" {
		t.Fatalf("token types mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenPositions(t *testing.T) {
	diags := NewDiagnostics()
	tokens := Tokenize("SCRIPT AREA\n  PRINT: x", diags)
	want := []Position{
		{Line: 1, Column: 1},
		{Line: 1, Column: 8},
		{Line: 1, Column: 12},
		{Line: 2, Column: 3},
		{Line: 2, Column: 8},
		{Line: 2, Column: 10},
		{Line: 2, Column: 11},
	}
	got := make([]Position, len(tokens))
	for i, tok := range tokens {
		got[i] = tok.Pos
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("positions mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizeAcceptsNilDiagnostics(t *testing.T) {
	tokens := Tokenize("# 1", nil)
	if diff := cmp.Diff([]TokenType{tokenIntLit, tokenEOF}, tokenTypes(tokens)); diff != "" {
		t.Fatalf("token types mismatch (-want +got):\n%s", diff)
	}
}
