package lexor

// parseCondition parses the parenthesized condition of IF and REPEAT WHEN.
func (p *parser) parseCondition(owner string) Expression {
	if !p.expect(tokenLParen, "'(' before "+owner+" condition") {
		return nil
	}
	cond := p.parseExpression(lowestPrec)
	if cond == nil {
		return nil
	}
	if !p.expect(tokenRParen, "')' after "+owner+" condition") {
		return nil
	}
	return cond
}

// parseBody parses `START <kind>` ... `END <kind>` into a block. The caller
// consumes the newline after END.
func (p *parser) parseBody(kind TokenType) *BlockStmt {
	p.skipNewlines()
	pos := p.curToken.Pos
	if !p.expectPair(tokenStart, kind) {
		return nil
	}
	if !p.expectNewline("'START " + string(kind) + "'") {
		return nil
	}
	stmts := p.parseStatements()
	if !p.expectPair(tokenEnd, kind) {
		return nil
	}
	return &BlockStmt{Statements: stmts, position: pos}
}

// parseIfStatement handles
//
//	IF (cond)
//	START IF ... END IF
//	[ELSE IF (cond) ... | ELSE
//	START IF ... END IF]
//
// An ELSE IF recurses, so a chain becomes nested IfStmts.
func (p *parser) parseIfStatement() Statement {
	pos := p.nextToken().Pos
	cond := p.parseCondition("IF")
	if cond == nil {
		return nil
	}
	if !p.expectNewline("IF condition") {
		return nil
	}
	then := p.parseBody(tokenIf)
	if then == nil {
		return nil
	}
	if !p.expectNewline("'END IF'") {
		return nil
	}

	stmt := &IfStmt{Condition: cond, Then: then, position: pos}

	p.skipNewlines()
	if !p.match(tokenElse) {
		return stmt
	}
	if p.check(tokenIf) {
		alt := p.parseIfStatement()
		if alt == nil {
			return nil
		}
		stmt.Else = alt
		return stmt
	}
	if !p.expectNewline("ELSE") {
		return nil
	}
	alt := p.parseBody(tokenIf)
	if alt == nil {
		return nil
	}
	if !p.expectNewline("'END IF'") {
		return nil
	}
	stmt.Else = alt
	return stmt
}

// parseForStatement desugars
//
//	FOR (init, cond, incr)
//	START FOR body END FOR
//
// into Block[init, When(cond, Block[Block(body), incr])]. A missing condition
// is TRUE; a missing init or increment is left out.
func (p *parser) parseForStatement() Statement {
	pos := p.nextToken().Pos
	if !p.expect(tokenLParen, "'(' after FOR") {
		return nil
	}

	var init, cond, incr Expression
	if !p.check(tokenComma) {
		if init = p.parseExpression(lowestPrec); init == nil {
			return nil
		}
	}
	if !p.expect(tokenComma, "',' after FOR initializer") {
		return nil
	}
	if !p.check(tokenComma) {
		if cond = p.parseExpression(lowestPrec); cond == nil {
			return nil
		}
	}
	if !p.expect(tokenComma, "',' after FOR condition") {
		return nil
	}
	if !p.check(tokenRParen) {
		if incr = p.parseExpression(lowestPrec); incr == nil {
			return nil
		}
	}
	if !p.expect(tokenRParen, "')' after FOR clauses") {
		return nil
	}
	if !p.expectNewline("FOR clauses") {
		return nil
	}

	body := p.parseBody(tokenFor)
	if body == nil {
		return nil
	}
	if !p.expectNewline("'END FOR'") {
		return nil
	}

	if cond == nil {
		cond = &LiteralExpr{Value: NewBool(true), position: pos}
	}
	loopBody := &BlockStmt{Statements: []Statement{body}, position: body.Pos()}
	if incr != nil {
		loopBody.Statements = append(loopBody.Statements, &ExprStmt{Expr: incr, position: incr.Pos()})
	}
	loop := &WhenStmt{Condition: cond, Body: loopBody, position: pos}
	if init == nil {
		return loop
	}
	return &BlockStmt{
		Statements: []Statement{&ExprStmt{Expr: init, position: init.Pos()}, loop},
		position:   pos,
	}
}

// parseRepeatStatement desugars REPEAT WHEN (cond) START REPEAT ... END REPEAT
// directly into When(cond, Block).
func (p *parser) parseRepeatStatement() Statement {
	pos := p.nextToken().Pos
	if !p.expect(tokenWhen, "WHEN after REPEAT") {
		return nil
	}
	cond := p.parseCondition("REPEAT WHEN")
	if cond == nil {
		return nil
	}
	if !p.expectNewline("REPEAT WHEN condition") {
		return nil
	}
	body := p.parseBody(tokenRepeat)
	if body == nil {
		return nil
	}
	if !p.expectNewline("'END REPEAT'") {
		return nil
	}
	return &WhenStmt{Condition: cond, Body: body, position: pos}
}
