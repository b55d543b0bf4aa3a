package lexor

// parseExpression is a Pratt loop. Prefix and infix functions consume their
// own operator token; on return curToken is the first token past the
// expression.
func (p *parser) parseExpression(precedence int) Expression {
	prefix := p.prefixFns[p.curToken.Type]
	if prefix == nil {
		p.errorExpected(p.curToken, "expression")
		return nil
	}

	left := prefix()
	if left == nil {
		return nil
	}

	for precedence < p.curPrecedence() {
		infix := p.infixFns[p.curToken.Type]
		if infix == nil {
			return left
		}
		left = infix(left)
		if left == nil {
			return nil
		}
	}

	return left
}

func (p *parser) parseVariable() Expression {
	tok := p.nextToken()
	return &VariableExpr{Name: tok, position: tok.Pos}
}

func (p *parser) parseLiteral() Expression {
	tok := p.nextToken()
	return &LiteralExpr{Value: tok.Literal, position: tok.Pos}
}

func (p *parser) parseBooleanLiteral() Expression {
	tok := p.nextToken()
	return &LiteralExpr{Value: NewBool(tok.Type == tokenTrue), position: tok.Pos}
}

func (p *parser) parseNullLiteral() Expression {
	tok := p.nextToken()
	return &LiteralExpr{Value: NewNull(), position: tok.Pos}
}

// parseLineBreakLiteral turns `$` into a one-newline string.
func (p *parser) parseLineBreakLiteral() Expression {
	tok := p.nextToken()
	return &LiteralExpr{Value: NewString("\n"), position: tok.Pos}
}

func (p *parser) parseGroupedExpression() Expression {
	pos := p.nextToken().Pos
	inner := p.parseExpression(lowestPrec)
	if inner == nil {
		return nil
	}
	if !p.expect(tokenRParen, "')' to close group") {
		return nil
	}
	return &GroupingExpr{Inner: inner, position: pos}
}

func (p *parser) parsePrefixExpression() Expression {
	op := p.nextToken()
	right := p.parseExpression(precPrefix)
	if right == nil {
		return nil
	}
	return &UnaryExpr{Operator: op, Right: right, position: op.Pos}
}

// parseInfixExpression parses the right operand at the operator's own
// precedence, which makes every binary operator left-associative.
func (p *parser) parseInfixExpression(left Expression) Expression {
	prec := p.curPrecedence()
	op := p.nextToken()
	right := p.parseExpression(prec)
	if right == nil {
		return nil
	}
	return &BinaryExpr{Left: left, Operator: op, Right: right, position: op.Pos}
}

func (p *parser) parseLogicalExpression(left Expression) Expression {
	prec := p.curPrecedence()
	op := p.nextToken()
	right := p.parseExpression(prec)
	if right == nil {
		return nil
	}
	return &LogicalExpr{Left: left, Operator: op, Right: right, position: op.Pos}
}

// parseAssignExpression is right-associative: the value is parsed from the
// lowest precedence so `a = b = 1` assigns b first.
func (p *parser) parseAssignExpression(left Expression) Expression {
	eq := p.nextToken()
	target, ok := left.(*VariableExpr)
	if !ok {
		p.addParseError(eq.Pos, "invalid assignment target")
		return nil
	}
	value := p.parseExpression(lowestPrec)
	if value == nil {
		return nil
	}
	return &AssignExpr{Target: target.Name, Value: value, position: target.Pos()}
}
