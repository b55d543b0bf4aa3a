package lexor

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatProgram renders the tree as indented S-expressions, one statement per
// line. Desugared loops print in their When/Block form.
func FormatProgram(program *Program) string {
	pr := &treePrinter{}
	for _, stmt := range program.Statements {
		pr.statement(stmt, 0)
	}
	return pr.b.String()
}

// FormatExpression renders a single expression as an S-expression.
func FormatExpression(expr Expression) string {
	return formatExpr(expr)
}

type treePrinter struct {
	b strings.Builder
}

func (pr *treePrinter) line(depth int, text string) {
	pr.b.WriteString(strings.Repeat("  ", depth))
	pr.b.WriteString(text)
	pr.b.WriteByte('\n')
}

func (pr *treePrinter) statement(stmt Statement, depth int) {
	switch s := stmt.(type) {
	case *DeclareStmt:
		parts := make([]string, 0, len(s.Vars)+2)
		parts = append(parts, "declare", string(s.Type))
		for _, decl := range s.Vars {
			if decl.Init == nil {
				parts = append(parts, decl.Name.Lexeme)
				continue
			}
			parts = append(parts, fmt.Sprintf("(%s %s)", decl.Name.Lexeme, formatExpr(decl.Init)))
		}
		pr.line(depth, "("+strings.Join(parts, " ")+")")
	case *ExprStmt:
		pr.line(depth, "(expr "+formatExpr(s.Expr)+")")
	case *PrintStmt:
		pr.line(depth, "(print "+formatExpr(s.Expr)+")")
	case *ScanStmt:
		names := make([]string, len(s.Names))
		for i, name := range s.Names {
			names[i] = name.Lexeme
		}
		pr.line(depth, "(scan "+strings.Join(names, " ")+")")
	case *IfStmt:
		pr.line(depth, "(if "+formatExpr(s.Condition))
		pr.statement(s.Then, depth+1)
		if s.Else != nil {
			pr.line(depth+1, "else")
			pr.statement(s.Else, depth+1)
		}
		pr.line(depth, ")")
	case *WhenStmt:
		pr.line(depth, "(when "+formatExpr(s.Condition))
		pr.statement(s.Body, depth+1)
		pr.line(depth, ")")
	case *BlockStmt:
		if len(s.Statements) == 0 {
			pr.line(depth, "(block)")
			return
		}
		pr.line(depth, "(block")
		for _, inner := range s.Statements {
			pr.statement(inner, depth+1)
		}
		pr.line(depth, ")")
	default:
		pr.line(depth, fmt.Sprintf("(unknown %T)", stmt))
	}
}

func formatExpr(expr Expression) string {
	switch e := expr.(type) {
	case *LiteralExpr:
		return formatLiteral(e.Value)
	case *VariableExpr:
		return e.Name.Lexeme
	case *AssignExpr:
		return "(= " + e.Target.Lexeme + " " + formatExpr(e.Value) + ")"
	case *UnaryExpr:
		return "(" + e.Operator.Lexeme + " " + formatExpr(e.Right) + ")"
	case *BinaryExpr:
		return "(" + e.Operator.Lexeme + " " + formatExpr(e.Left) + " " + formatExpr(e.Right) + ")"
	case *LogicalExpr:
		return "(" + e.Operator.Lexeme + " " + formatExpr(e.Left) + " " + formatExpr(e.Right) + ")"
	case *GroupingExpr:
		return "(group " + formatExpr(e.Inner) + ")"
	default:
		return fmt.Sprintf("<%T>", expr)
	}
}

func formatLiteral(v Value) string {
	switch v.Kind() {
	case KindString:
		return strconv.Quote(v.Text())
	case KindChar:
		return strconv.QuoteRune(v.Char())
	default:
		return v.String()
	}
}
