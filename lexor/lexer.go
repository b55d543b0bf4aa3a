package lexor

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

type lexer struct {
	input string
	diags *Diagnostics

	offset int
	width  int
	eof    bool

	line   int
	column int

	ch rune
}

func newLexer(input string, diags *Diagnostics) *lexer {
	l := &lexer{input: input, diags: diags, line: 1}
	l.readRune()
	return l
}

// Tokenize scans source to completion. Lexical errors are reported to diags
// and the offending text produces no token. The result always ends with an
// EOF token. A nil diags discards the errors.
func Tokenize(source string, diags *Diagnostics) []Token {
	if diags == nil {
		diags = NewDiagnostics()
	}
	l := newLexer(source, diags)
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == tokenEOF {
			return tokens
		}
	}
}

func (l *lexer) readRune() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	l.column++
	if l.offset >= len(l.input) {
		l.width = 0
		l.ch = 0
		l.eof = true
		return
	}

	r, w := utf8.DecodeRuneInString(l.input[l.offset:])
	l.width = w
	l.offset += w
	l.ch = r
}

func (l *lexer) peekRune() rune {
	if l.offset >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.offset:])
	return r
}

func (l *lexer) currentOffset() int {
	return l.offset - l.width
}

func (l *lexer) position() Position {
	return Position{Line: l.line, Column: l.column}
}

// NextToken returns the next token, skipping anything that failed to lex.
func (l *lexer) NextToken() Token {
	for {
		if tok, ok := l.scanToken(); ok {
			return tok
		}
	}
}

func (l *lexer) scanToken() (Token, bool) {
	l.skipWhitespaceAndComments()

	pos := l.position()
	start := l.currentOffset()

	if l.eof {
		return Token{Type: tokenEOF, Pos: pos}, true
	}

	single := func(tt TokenType) (Token, bool) {
		l.readRune()
		return l.token(tt, start, pos), true
	}
	double := func(next rune, long, short TokenType) (Token, bool) {
		if l.peekRune() == next {
			l.readRune()
			return single(long)
		}
		return single(short)
	}

	switch l.ch {
	case '\n':
		return single(tokenNewline)
	case '(':
		return single(tokenLParen)
	case ')':
		return single(tokenRParen)
	case ',':
		return single(tokenComma)
	case ':':
		return single(tokenColon)
	case '+':
		return single(tokenPlus)
	case '-':
		return single(tokenMinus)
	case '*':
		return single(tokenAsterisk)
	case '/':
		return single(tokenSlash)
	case '%':
		return single(tokenPercent)
	case '&':
		return single(tokenAmpersand)
	case '$':
		return single(tokenDollar)
	case '=':
		return double('=', tokenEQ, tokenAssign)
	case '>':
		return double('=', tokenGTE, tokenGT)
	case '<':
		switch l.peekRune() {
		case '=':
			l.readRune()
			return single(tokenLTE)
		case '>':
			l.readRune()
			return single(tokenNotEQ)
		default:
			return single(tokenLT)
		}
	case '"':
		return l.readString(start, pos)
	case '\'':
		return l.readChar(start, pos)
	case '[':
		text, ok := l.readEscape(pos)
		if !ok {
			return Token{}, false
		}
		tok := l.token(tokenStringLit, start, pos)
		tok.Literal = NewString(text)
		return tok, true
	}

	switch {
	case isIdentifierStart(l.ch):
		for isIdentifierRune(l.peekRune()) {
			l.readRune()
		}
		l.readRune()
		literal := l.input[start:l.currentOffset()]
		return l.token(lookupIdent(literal), start, pos), true
	case isDigit(l.ch):
		return l.readNumber(start, pos)
	default:
		l.diags.lexical(pos, "unexpected character %q", l.ch)
		l.readRune()
		return Token{}, false
	}
}

func (l *lexer) token(tt TokenType, start int, pos Position) Token {
	return Token{Type: tt, Lexeme: l.input[start:l.currentOffset()], Pos: pos}
}

func (l *lexer) skipWhitespaceAndComments() {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r':
			l.readRune()
		case l.ch == '%' && l.peekRune() == '%':
			for !l.eof && l.ch != '\n' {
				l.readRune()
			}
		default:
			return
		}
	}
}

func (l *lexer) readNumber(start int, pos Position) (Token, bool) {
	isFloat := false
	for isDigit(l.peekRune()) {
		l.readRune()
	}
	if l.peekRune() == '.' {
		rest := l.input[l.offset+1:]
		if rest != "" && isDigit(rune(rest[0])) {
			isFloat = true
			l.readRune()
			for isDigit(l.peekRune()) {
				l.readRune()
			}
		}
	}
	l.readRune()

	tok := l.token(tokenIntLit, start, pos)
	if isFloat {
		f, err := strconv.ParseFloat(tok.Lexeme, 64)
		if err != nil {
			l.diags.lexical(pos, "invalid float literal %s", tok.Lexeme)
			return Token{}, false
		}
		tok.Type = tokenFloatLit
		tok.Literal = NewFloat(f)
		return tok, true
	}
	i, err := strconv.ParseInt(tok.Lexeme, 10, 64)
	if err != nil {
		l.diags.lexical(pos, "integer literal %s out of range", tok.Lexeme)
		return Token{}, false
	}
	tok.Literal = NewInt(i)
	return tok, true
}

// readString consumes a double-quoted literal. Strings end at the line; an
// unterminated one is reported and the newline is left for the parser.
func (l *lexer) readString(start int, pos Position) (Token, bool) {
	var sb strings.Builder
	valid := true
	l.readRune()
	for {
		switch {
		case l.eof || l.ch == '\n':
			if valid {
				l.diags.lexical(pos, "unterminated string")
			}
			return Token{}, false
		case l.ch == '"':
			l.readRune()
			if !valid {
				return Token{}, false
			}
			tok := l.token(tokenStringLit, start, pos)
			tok.Literal = NewString(sb.String())
			return tok, true
		case l.ch == '[':
			text, ok := l.readEscape(l.position())
			if !ok {
				valid = false
				continue
			}
			sb.WriteString(text)
		default:
			sb.WriteRune(l.ch)
			l.readRune()
		}
	}
}

func (l *lexer) readChar(start int, pos Position) (Token, bool) {
	l.readRune()
	if l.eof || l.ch == '\n' {
		l.diags.lexical(pos, "unterminated character literal")
		return Token{}, false
	}
	if l.ch == '\'' {
		l.diags.lexical(pos, "empty character literal")
		l.readRune()
		return Token{}, false
	}
	value := l.ch
	l.readRune()
	if l.ch != '\'' {
		l.diags.lexical(pos, "unterminated character literal, expected closing quote")
		return Token{}, false
	}
	l.readRune()
	tok := l.token(tokenCharLit, start, pos)
	tok.Literal = NewChar(value)
	return tok, true
}

// readEscape consumes `[x]` starting at the opening bracket and returns the
// replacement text for code x.
func (l *lexer) readEscape(pos Position) (string, bool) {
	l.readRune()
	if l.eof || l.ch == '\n' {
		l.diags.lexical(pos, "unterminated escape sequence")
		return "", false
	}
	code := l.ch
	l.readRune()
	if l.ch != ']' {
		l.diags.lexical(pos, "expected ']' to close escape sequence")
		return "", false
	}
	l.readRune()

	switch code {
	case 'n':
		return "\n", true
	case 't':
		return "\t", true
	case '$':
		return "\r", true
	default:
		return string(code), true
	}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isIdentifierStart(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
}

func isIdentifierRune(r rune) bool {
	return isIdentifierStart(r) || isDigit(r)
}
