package lexor

type (
	prefixParseFn func() Expression
	infixParseFn  func(Expression) Expression
)

// parser is a recursive-descent parser over a lazily pulled token stream.
// curToken is the next unconsumed token; peekToken is one past it.
//
// A parse function that fails records a diagnostic and returns nil. The
// caller then resynchronizes; nothing unwinds.
type parser struct {
	l     *lexer
	diags *Diagnostics

	prevToken Token
	curToken  Token
	peekToken Token

	prefixFns map[TokenType]prefixParseFn
	infixFns  map[TokenType]infixParseFn
}

func newParser(input string, diags *Diagnostics) *parser {
	p := &parser{l: newLexer(input, diags), diags: diags}

	p.prefixFns = map[TokenType]prefixParseFn{
		tokenIdent:     p.parseVariable,
		tokenIntLit:    p.parseLiteral,
		tokenFloatLit:  p.parseLiteral,
		tokenCharLit:   p.parseLiteral,
		tokenStringLit: p.parseLiteral,
		tokenTrue:      p.parseBooleanLiteral,
		tokenFalse:     p.parseBooleanLiteral,
		tokenNull:      p.parseNullLiteral,
		tokenDollar:    p.parseLineBreakLiteral,
		tokenLParen:    p.parseGroupedExpression,
		tokenNot:       p.parsePrefixExpression,
		tokenMinus:     p.parsePrefixExpression,
		tokenPlus:      p.parsePrefixExpression,
	}

	p.infixFns = make(map[TokenType]infixParseFn)
	for _, tt := range []TokenType{
		tokenPlus, tokenMinus, tokenAmpersand, tokenPercent,
		tokenAsterisk, tokenSlash,
		tokenEQ, tokenNotEQ, tokenLT, tokenLTE, tokenGT, tokenGTE,
	} {
		p.infixFns[tt] = p.parseInfixExpression
	}
	p.infixFns[tokenAnd] = p.parseLogicalExpression
	p.infixFns[tokenOr] = p.parseLogicalExpression
	p.infixFns[tokenAssign] = p.parseAssignExpression

	p.nextToken()
	p.nextToken()

	return p
}

// Parse tokenizes and parses source. Diagnostics are recorded in diags; ok is
// false when this parse reported any lexical or syntax error. A nil diags
// is replaced by a private sink.
func Parse(source string, diags *Diagnostics) (program *Program, ok bool) {
	if diags == nil {
		diags = NewDiagnostics()
	}
	diags.attach(source)
	before := diags.Len()
	p := newParser(source, diags)
	program = p.ParseProgram()
	program.source = source
	return program, len(diags.staticSince(before)) == 0
}

func (p *parser) nextToken() Token {
	p.prevToken = p.curToken
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
	return p.prevToken
}

func (p *parser) check(tt TokenType) bool {
	return p.curToken.Type == tt
}

func (p *parser) match(tt TokenType) bool {
	if !p.check(tt) {
		return false
	}
	p.nextToken()
	return true
}

func (p *parser) expect(tt TokenType, context string) bool {
	if p.match(tt) {
		return true
	}
	p.errorExpected(p.curToken, context)
	return false
}

// expectPair consumes a two-keyword marker such as SCRIPT AREA or END IF.
func (p *parser) expectPair(first, second TokenType) bool {
	if p.curToken.Type == first && p.peekToken.Type == second {
		p.nextToken()
		p.nextToken()
		return true
	}
	offending := p.curToken
	if offending.Type == first {
		offending = p.peekToken
	}
	p.errorExpected(offending, "'"+string(first)+" "+string(second)+"'")
	return false
}

// expectNewline enforces one statement per line.
func (p *parser) expectNewline(after string) bool {
	if p.match(tokenNewline) {
		return true
	}
	p.errorExpected(p.curToken, "end of line after "+after)
	return false
}

func (p *parser) skipNewlines() {
	for p.check(tokenNewline) {
		p.nextToken()
	}
}

// synchronize discards tokens until just past a newline or up to a token
// that can start a statement. It always consumes at least one token.
func (p *parser) synchronize() {
	if p.check(tokenEOF) {
		return
	}
	p.nextToken()
	for !p.check(tokenEOF) {
		if p.prevToken.Type == tokenNewline {
			return
		}
		switch p.curToken.Type {
		case tokenWhen, tokenIf, tokenFor, tokenDeclare, tokenStart, tokenPrint:
			return
		}
		p.nextToken()
	}
}

var blockKeywords = map[TokenType]bool{tokenIf: true, tokenFor: true, tokenRepeat: true}

// skipAbandonedBody discards the START/END body, and for IF any ELSE
// branches, left behind by a compound statement whose header failed. The
// error was already reported for the header.
func (p *parser) skipAbandonedBody(kind TokenType) {
	if !blockKeywords[kind] {
		return
	}
	p.skipNewlines()
	if !p.check(tokenStart) || p.peekToken.Type != kind {
		return
	}
	p.skipBlock()
	if kind != tokenIf {
		return
	}
	for {
		p.skipNewlines()
		if !p.match(tokenElse) {
			return
		}
		for !p.check(tokenNewline) && !p.check(tokenEOF) {
			p.nextToken()
		}
		p.skipNewlines()
		if !p.check(tokenStart) || p.peekToken.Type != tokenIf {
			return
		}
		p.skipBlock()
	}
}

// skipBlock consumes from START <kind> through its matching END <kind>,
// counting nested blocks.
func (p *parser) skipBlock() {
	depth := 0
	for !p.check(tokenEOF) {
		switch {
		case p.check(tokenEnd) && p.peekToken.Type == tokenScript:
			return
		case p.check(tokenStart) && blockKeywords[p.peekToken.Type]:
			depth++
			p.nextToken()
		case p.check(tokenEnd) && blockKeywords[p.peekToken.Type]:
			depth--
			p.nextToken()
			if depth == 0 {
				p.nextToken()
				return
			}
		}
		p.nextToken()
	}
}

// ParseProgram parses the whole envelope:
//
//	SCRIPT AREA
//	START SCRIPT
//	DECLARE ...      (declarations block)
//	...              (executable block)
//	END SCRIPT
func (p *parser) ParseProgram() *Program {
	program := &Program{}

	p.parseHeader()

	p.skipNewlines()
	for p.check(tokenDeclare) {
		if stmt := p.parseDeclareStatement(); stmt != nil {
			program.Statements = append(program.Statements, stmt)
		} else {
			p.synchronize()
		}
		p.skipNewlines()
	}

	for {
		program.Statements = append(program.Statements, p.parseStatements()...)
		if p.check(tokenEOF) {
			p.errorExpected(p.curToken, "'END SCRIPT' to finish the program")
			return program
		}
		if p.peekToken.Type == tokenScript {
			break
		}
		p.addParseError(p.curToken.Pos, "unexpected 'END' followed by "+tokenLabel(p.peekToken)+" outside of any block")
		p.synchronize()
	}

	p.nextToken()
	p.nextToken()
	p.skipNewlines()
	if !p.check(tokenEOF) {
		p.addParseError(p.curToken.Pos, "unexpected "+tokenLabel(p.curToken)+" after 'END SCRIPT'")
	}
	return program
}

// parseHeader records a diagnostic for a missing marker and carries on, so
// the rest of the file is still checked.
func (p *parser) parseHeader() {
	p.skipNewlines()
	if p.expectPair(tokenScript, tokenArea) {
		p.expectNewline("'SCRIPT AREA'")
	}
	p.skipNewlines()
	if p.expectPair(tokenStart, tokenScript) {
		p.expectNewline("'START SCRIPT'")
	}
}

// parseStatements parses executable statements until END or end of input.
func (p *parser) parseStatements() []Statement {
	var stmts []Statement
	for {
		p.skipNewlines()
		if p.check(tokenEnd) || p.check(tokenEOF) {
			return stmts
		}
		kind := p.curToken.Type
		stmt := p.parseStatement()
		if stmt == nil {
			p.synchronize()
			p.skipAbandonedBody(kind)
			continue
		}
		stmts = append(stmts, stmt)
	}
}
