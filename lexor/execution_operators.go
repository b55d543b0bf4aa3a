package lexor

import "math"

func (exec *Execution) evalUnaryExpr(e *UnaryExpr, env *Env) (Value, error) {
	right, err := exec.evalExpression(e.Right, env)
	if err != nil {
		return Value{}, err
	}
	switch e.Operator.Type {
	case tokenNot:
		if right.Kind() != KindBool {
			return Value{}, exec.errorAt(e.Pos(), "operand of NOT must be BOOL, got %s", right.Kind())
		}
		return NewBool(!right.Bool()), nil
	case tokenMinus:
		switch right.Kind() {
		case KindInt:
			return NewInt(-right.Int()), nil
		case KindFloat:
			return NewFloat(-right.Float()), nil
		}
	case tokenPlus:
		if right.IsNumeric() {
			return right, nil
		}
	default:
		return Value{}, exec.errorAt(e.Pos(), "unsupported unary operator %s", e.Operator.Lexeme)
	}
	return Value{}, exec.errorAt(e.Pos(), "operand of unary %s must be a number, got %s", e.Operator.Lexeme, right.Kind())
}

func (exec *Execution) evalBinaryExpr(expr *BinaryExpr, env *Env) (Value, error) {
	left, err := exec.evalExpression(expr.Left, env)
	if err != nil {
		return Value{}, err
	}
	right, err := exec.evalExpression(expr.Right, env)
	if err != nil {
		return Value{}, err
	}

	op := expr.Operator
	switch op.Type {
	case tokenAmpersand:
		return NewString(left.String() + right.String()), nil
	case tokenEQ:
		return NewBool(left.Equal(right)), nil
	case tokenNotEQ:
		return NewBool(!left.Equal(right)), nil
	}

	if !left.IsNumeric() || !right.IsNumeric() {
		return Value{}, exec.errorAt(op.Pos, "operands of '%s' must be numbers, got %s and %s", op.Lexeme, left.Kind(), right.Kind())
	}

	switch op.Type {
	case tokenLT:
		return NewBool(left.Float() < right.Float()), nil
	case tokenLTE:
		return NewBool(left.Float() <= right.Float()), nil
	case tokenGT:
		return NewBool(left.Float() > right.Float()), nil
	case tokenGTE:
		return NewBool(left.Float() >= right.Float()), nil
	}

	if left.Kind() == KindInt && right.Kind() == KindInt {
		return exec.intArithmetic(op, left.Int(), right.Int())
	}
	return exec.floatArithmetic(op, left.Float(), right.Float())
}

func (exec *Execution) intArithmetic(op Token, a, b int64) (Value, error) {
	switch op.Type {
	case tokenPlus:
		return NewInt(a + b), nil
	case tokenMinus:
		return NewInt(a - b), nil
	case tokenAsterisk:
		return NewInt(a * b), nil
	case tokenSlash:
		if b == 0 {
			return Value{}, exec.errorAt(op.Pos, "division by zero")
		}
		return NewInt(a / b), nil
	case tokenPercent:
		if b == 0 {
			return Value{}, exec.errorAt(op.Pos, "modulo by zero")
		}
		return NewInt(a % b), nil
	default:
		return Value{}, exec.errorAt(op.Pos, "unsupported operator %s", op.Lexeme)
	}
}

func (exec *Execution) floatArithmetic(op Token, a, b float64) (Value, error) {
	switch op.Type {
	case tokenPlus:
		return NewFloat(a + b), nil
	case tokenMinus:
		return NewFloat(a - b), nil
	case tokenAsterisk:
		return NewFloat(a * b), nil
	case tokenSlash:
		if b == 0 {
			return Value{}, exec.errorAt(op.Pos, "division by zero")
		}
		return NewFloat(a / b), nil
	case tokenPercent:
		if b == 0 {
			return Value{}, exec.errorAt(op.Pos, "modulo by zero")
		}
		return NewFloat(math.Mod(a, b)), nil
	default:
		return Value{}, exec.errorAt(op.Pos, "unsupported operator %s", op.Lexeme)
	}
}

// evalLogicalExpr never evaluates the right operand once the left one
// decides the result.
func (exec *Execution) evalLogicalExpr(expr *LogicalExpr, env *Env) (Value, error) {
	left, err := exec.evalLogicalOperand(expr, expr.Left, env)
	if err != nil {
		return Value{}, err
	}
	if expr.Operator.Type == tokenOr && left {
		return NewBool(true), nil
	}
	if expr.Operator.Type == tokenAnd && !left {
		return NewBool(false), nil
	}
	right, err := exec.evalLogicalOperand(expr, expr.Right, env)
	if err != nil {
		return Value{}, err
	}
	return NewBool(right), nil
}

func (exec *Execution) evalLogicalOperand(expr *LogicalExpr, operand Expression, env *Env) (bool, error) {
	val, err := exec.evalExpression(operand, env)
	if err != nil {
		return false, err
	}
	if val.Kind() != KindBool {
		return false, exec.errorAt(operand.Pos(), "operands of %s must be BOOL, got %s", expr.Operator.Lexeme, val.Kind())
	}
	return val.Bool(), nil
}
