package lexor

import (
	"bufio"
	"context"
	"io"
	"log/slog"
)

// Execution holds the state of one program run: the root scope, the output
// and input streams and the step counter.
type Execution struct {
	ctx    context.Context
	source string
	root   *Env
	out    io.Writer
	in     *bufio.Reader
	log    *slog.Logger
	quota  int
	steps  int
}

func (exec *Execution) run(program *Program) error {
	for _, stmt := range program.Statements {
		if err := exec.execStatement(stmt, exec.root); err != nil {
			return err
		}
	}
	return nil
}

func (exec *Execution) execStatement(stmt Statement, env *Env) error {
	if err := exec.step(stmt.Pos()); err != nil {
		return err
	}
	switch s := stmt.(type) {
	case *DeclareStmt:
		return exec.execDeclare(s, env)
	case *ExprStmt:
		_, err := exec.evalExpression(s.Expr, env)
		return err
	case *PrintStmt:
		val, err := exec.evalExpression(s.Expr, env)
		if err != nil {
			return err
		}
		if _, err := io.WriteString(exec.out, val.String()); err != nil {
			return exec.errorAt(s.Pos(), "write output: %v", err)
		}
		return nil
	case *ScanStmt:
		return exec.execScan(s, env)
	case *IfStmt:
		return exec.execIf(s, env)
	case *WhenStmt:
		return exec.execWhen(s, env)
	case *BlockStmt:
		return exec.execBlock(s, env)
	default:
		return exec.errorAt(stmt.Pos(), "unsupported statement %T", stmt)
	}
}

func (exec *Execution) execDeclare(stmt *DeclareStmt, env *Env) error {
	for _, decl := range stmt.Vars {
		var init *Value
		if decl.Init != nil {
			val, err := exec.evalExpression(decl.Init, env)
			if err != nil {
				return err
			}
			init = &val
		}
		if err := env.Declare(decl.Name.Lexeme, stmt.Type, init); err != nil {
			return exec.wrapError(err, decl.Name.Pos, env)
		}
	}
	return nil
}

// execBlock runs statements in a child scope that is dropped on every exit
// path.
func (exec *Execution) execBlock(block *BlockStmt, env *Env) error {
	scope := newEnv(env)
	for _, stmt := range block.Statements {
		if err := exec.execStatement(stmt, scope); err != nil {
			return err
		}
	}
	return nil
}

func (exec *Execution) execIf(stmt *IfStmt, env *Env) error {
	cond, err := exec.evalCondition(stmt.Condition, env, "IF")
	if err != nil {
		return err
	}
	if cond {
		return exec.execStatement(stmt.Then, env)
	}
	if stmt.Else != nil {
		return exec.execStatement(stmt.Else, env)
	}
	return nil
}

func (exec *Execution) execWhen(stmt *WhenStmt, env *Env) error {
	for {
		cond, err := exec.evalCondition(stmt.Condition, env, "loop")
		if err != nil {
			return err
		}
		if !cond {
			return nil
		}
		if err := exec.execStatement(stmt.Body, env); err != nil {
			return err
		}
	}
}

func (exec *Execution) evalCondition(expr Expression, env *Env, owner string) (bool, error) {
	val, err := exec.evalExpression(expr, env)
	if err != nil {
		return false, err
	}
	if val.Kind() != KindBool {
		return false, exec.errorAt(expr.Pos(), "%s condition must be BOOL, got %s", owner, val.Kind())
	}
	return val.Bool(), nil
}

func (exec *Execution) evalExpression(expr Expression, env *Env) (Value, error) {
	switch e := expr.(type) {
	case *LiteralExpr:
		return e.Value, nil
	case *GroupingExpr:
		return exec.evalExpression(e.Inner, env)
	case *VariableExpr:
		val, err := env.Get(e.Name.Lexeme)
		if err != nil {
			return Value{}, exec.wrapError(err, e.Pos(), env)
		}
		return val, nil
	case *AssignExpr:
		val, err := exec.evalExpression(e.Value, env)
		if err != nil {
			return Value{}, err
		}
		stored, err := env.Assign(e.Target.Lexeme, val)
		if err != nil {
			return Value{}, exec.wrapError(err, e.Pos(), env)
		}
		return stored, nil
	case *UnaryExpr:
		return exec.evalUnaryExpr(e, env)
	case *BinaryExpr:
		return exec.evalBinaryExpr(e, env)
	case *LogicalExpr:
		return exec.evalLogicalExpr(e, env)
	default:
		return Value{}, exec.errorAt(expr.Pos(), "unsupported expression %T", expr)
	}
}

func (exec *Execution) debug(msg string, args ...any) {
	exec.log.Debug(msg, args...)
}
