package main

import (
	"fmt"
	"sort"

	"github.com/mgomes/lexor/lexor"
)

type lintWarning struct {
	Pos     lexor.Position
	Message string
}

func analyzeCommand(args []string) error {
	path, source, err := readProgramArg("analyze", args)
	if err != nil {
		return err
	}

	engine := lexor.NewEngine(lexor.Config{})
	program, err := engine.Compile(source)
	if err != nil {
		return fmt.Errorf("analysis compile failed: %w", err)
	}

	warnings := analyzeProgram(program)
	if len(warnings) == 0 {
		fmt.Println("No issues found")
		return nil
	}

	for _, warning := range warnings {
		line := max(warning.Pos.Line, 1)
		column := max(warning.Pos.Column, 1)
		fmt.Printf("%s:%d:%d: %s\n", path, line, column, warning.Message)
	}
	return fmt.Errorf("analysis found %d issue(s)", len(warnings))
}

// variableUsage tracks one declared name across the whole program. All
// declarations live at the top level, so names never collide across scopes.
type variableUsage struct {
	decl        lexor.Token
	initialized bool
	assigned    bool
	read        bool
	firstRead   lexor.Position
}

type analyzer struct {
	vars     map[string]*variableUsage
	warnings []lintWarning
}

func analyzeProgram(program *lexor.Program) []lintWarning {
	a := &analyzer{vars: make(map[string]*variableUsage)}
	for _, stmt := range program.Statements {
		a.statement(stmt)
	}

	for _, usage := range a.vars {
		name := usage.decl.Lexeme
		switch {
		case !usage.read && !usage.assigned:
			a.warn(usage.decl.Pos, "variable '%s' is declared but never used", name)
		case usage.read && !usage.initialized && !usage.assigned:
			a.warn(usage.firstRead, "variable '%s' is read but never given a value", name)
		}
	}

	sort.SliceStable(a.warnings, func(i, j int) bool {
		if a.warnings[i].Pos.Line != a.warnings[j].Pos.Line {
			return a.warnings[i].Pos.Line < a.warnings[j].Pos.Line
		}
		if a.warnings[i].Pos.Column != a.warnings[j].Pos.Column {
			return a.warnings[i].Pos.Column < a.warnings[j].Pos.Column
		}
		return a.warnings[i].Message < a.warnings[j].Message
	})
	return a.warnings
}

func (a *analyzer) warn(pos lexor.Position, format string, args ...any) {
	a.warnings = append(a.warnings, lintWarning{Pos: pos, Message: fmt.Sprintf(format, args...)})
}

func (a *analyzer) statement(stmt lexor.Statement) {
	switch s := stmt.(type) {
	case *lexor.DeclareStmt:
		for _, decl := range s.Vars {
			if decl.Init != nil {
				a.expression(decl.Init)
			}
			if _, exists := a.vars[decl.Name.Lexeme]; exists {
				continue
			}
			a.vars[decl.Name.Lexeme] = &variableUsage{decl: decl.Name, initialized: decl.Init != nil}
		}
	case *lexor.ExprStmt:
		a.expression(s.Expr)
	case *lexor.PrintStmt:
		a.expression(s.Expr)
	case *lexor.ScanStmt:
		for _, name := range s.Names {
			if usage, ok := a.vars[name.Lexeme]; ok {
				usage.assigned = true
			}
		}
	case *lexor.BlockStmt:
		for _, inner := range s.Statements {
			a.statement(inner)
		}
	case *lexor.IfStmt:
		a.constantCondition("IF", s.Condition)
		a.expression(s.Condition)
		a.statement(s.Then)
		if s.Else != nil {
			a.statement(s.Else)
		}
	case *lexor.WhenStmt:
		if lit, ok := s.Condition.(*lexor.LiteralExpr); ok && lit.Value.Equal(lexor.NewBool(true)) {
			a.warn(s.Pos(), "loop condition is always TRUE")
		} else {
			a.constantCondition("loop", s.Condition)
		}
		a.expression(s.Condition)
		a.statement(s.Body)
	}
}

// constantCondition flags a condition that is a bare literal.
func (a *analyzer) constantCondition(owner string, cond lexor.Expression) {
	lit, ok := cond.(*lexor.LiteralExpr)
	if !ok {
		return
	}
	a.warn(cond.Pos(), "%s condition %s is constant", owner, lexor.FormatExpression(lit))
}

func (a *analyzer) expression(expr lexor.Expression) {
	switch e := expr.(type) {
	case *lexor.VariableExpr:
		if usage, ok := a.vars[e.Name.Lexeme]; ok && !usage.read {
			usage.read = true
			usage.firstRead = e.Pos()
		}
	case *lexor.AssignExpr:
		a.expression(e.Value)
		if usage, ok := a.vars[e.Target.Lexeme]; ok {
			usage.assigned = true
		}
	case *lexor.UnaryExpr:
		a.expression(e.Right)
	case *lexor.BinaryExpr:
		a.expression(e.Left)
		a.expression(e.Right)
	case *lexor.LogicalExpr:
		a.expression(e.Left)
		a.expression(e.Right)
	case *lexor.GroupingExpr:
		a.expression(e.Inner)
	}
}
