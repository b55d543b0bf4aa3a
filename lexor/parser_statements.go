package lexor

var declaredTypes = map[TokenType]DeclaredType{
	tokenIntType:    TypeInt,
	tokenFloatType:  TypeFloat,
	tokenStringType: TypeString,
	tokenBoolType:   TypeBool,
	tokenCharType:   TypeChar,
}

func (p *parser) parseStatement() Statement {
	switch p.curToken.Type {
	case tokenDeclare:
		p.addParseError(p.curToken.Pos, "DECLARE must appear in the declarations block before any executable statement")
		return nil
	case tokenIf:
		return p.parseIfStatement()
	case tokenFor:
		return p.parseForStatement()
	case tokenRepeat:
		return p.parseRepeatStatement()
	case tokenPrint:
		return p.parsePrintStatement()
	case tokenScan:
		return p.parseScanStatement()
	default:
		return p.parseExpressionStatement()
	}
}

func (p *parser) parseDeclareStatement() Statement {
	pos := p.nextToken().Pos

	declared, ok := declaredTypes[p.curToken.Type]
	if !ok {
		p.errorExpected(p.curToken, "variable type after DECLARE")
		return nil
	}
	p.nextToken()

	stmt := &DeclareStmt{Type: declared, position: pos}
	for {
		if !p.check(tokenIdent) {
			p.errorExpected(p.curToken, "variable name")
			return nil
		}
		decl := Declarator{Name: p.nextToken()}
		if p.match(tokenAssign) {
			decl.Init = p.parseExpression(lowestPrec)
			if decl.Init == nil {
				return nil
			}
		}
		stmt.Vars = append(stmt.Vars, decl)
		if !p.match(tokenComma) {
			break
		}
	}

	if !p.expectNewline("variable declaration") {
		return nil
	}
	return stmt
}

func (p *parser) parsePrintStatement() Statement {
	pos := p.nextToken().Pos
	if !p.expect(tokenColon, "':' after PRINT") {
		return nil
	}
	value := p.parseExpression(lowestPrec)
	if value == nil {
		return nil
	}
	if !p.expectNewline("PRINT value") {
		return nil
	}
	return &PrintStmt{Expr: value, position: pos}
}

func (p *parser) parseScanStatement() Statement {
	pos := p.nextToken().Pos
	if !p.expect(tokenColon, "':' after SCAN") {
		return nil
	}
	stmt := &ScanStmt{position: pos}
	for {
		if !p.check(tokenIdent) {
			p.errorExpected(p.curToken, "variable name in SCAN")
			return nil
		}
		stmt.Names = append(stmt.Names, p.nextToken())
		if !p.match(tokenComma) {
			break
		}
	}
	if !p.expectNewline("SCAN targets") {
		return nil
	}
	return stmt
}

func (p *parser) parseExpressionStatement() Statement {
	expr := p.parseExpression(lowestPrec)
	if expr == nil {
		return nil
	}
	if !p.expectNewline("statement") {
		return nil
	}
	return &ExprStmt{Expr: expr, position: expr.Pos()}
}
