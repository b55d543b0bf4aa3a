package lexor

import (
	"fmt"
	"strconv"
)

func (p *parser) errorExpected(tok Token, expected string) {
	p.addParseError(tok.Pos, fmt.Sprintf("expected %s, got %s", expected, tokenLabel(tok)))
}

func (p *parser) addParseError(pos Position, msg string) {
	p.diags.syntax(pos, msg)
}

func tokenLabel(tok Token) string {
	switch tok.Type {
	case tokenIllegal:
		return "invalid token"
	case tokenEOF:
		return "end of input"
	case tokenNewline:
		return "end of line"
	case tokenIdent:
		return "identifier " + strconv.Quote(tok.Lexeme)
	case tokenIntLit:
		return "integer " + tok.Lexeme
	case tokenFloatLit:
		return "float " + tok.Lexeme
	case tokenCharLit:
		return "character " + tok.Lexeme
	case tokenStringLit:
		return "string " + strconv.Quote(tok.Literal.Text())
	default:
		return "'" + string(tok.Type) + "'"
	}
}
