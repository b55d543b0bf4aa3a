package lexor

// Node is implemented by every AST node. The sets of statements and
// expressions are closed: consumers type-switch over the concrete types
// below, so adding a consumer never touches these definitions.
type Node interface {
	Pos() Position
}

type Statement interface {
	Node
	stmtNode()
}

type Expression interface {
	Node
	exprNode()
}

// Program is the statement list between START SCRIPT and END SCRIPT.
type Program struct {
	Statements []Statement
	source     string
}

// DeclaredType is the primitive type named in a DECLARE statement.
type DeclaredType string

const (
	TypeInt    DeclaredType = "INT"
	TypeFloat  DeclaredType = "FLOAT"
	TypeString DeclaredType = "STRING"
	TypeBool   DeclaredType = "BOOL"
	TypeChar   DeclaredType = "CHAR"
)

type LiteralExpr struct {
	Value    Value
	position Position
}

func (e *LiteralExpr) exprNode()     {}
func (e *LiteralExpr) Pos() Position { return e.position }

type VariableExpr struct {
	Name     Token
	position Position
}

func (e *VariableExpr) exprNode()     {}
func (e *VariableExpr) Pos() Position { return e.position }

type AssignExpr struct {
	Target   Token
	Value    Expression
	position Position
}

func (e *AssignExpr) exprNode()     {}
func (e *AssignExpr) Pos() Position { return e.position }

type UnaryExpr struct {
	Operator Token
	Right    Expression
	position Position
}

func (e *UnaryExpr) exprNode()     {}
func (e *UnaryExpr) Pos() Position { return e.position }

type BinaryExpr struct {
	Left     Expression
	Operator Token
	Right    Expression
	position Position
}

func (e *BinaryExpr) exprNode()     {}
func (e *BinaryExpr) Pos() Position { return e.position }

// LogicalExpr is AND/OR, kept apart from BinaryExpr because it short-circuits.
type LogicalExpr struct {
	Left     Expression
	Operator Token
	Right    Expression
	position Position
}

func (e *LogicalExpr) exprNode()     {}
func (e *LogicalExpr) Pos() Position { return e.position }

type GroupingExpr struct {
	Inner    Expression
	position Position
}

func (e *GroupingExpr) exprNode()     {}
func (e *GroupingExpr) Pos() Position { return e.position }

// Declarator is one `name[=expr]` entry of a DECLARE list. Init may be nil.
type Declarator struct {
	Name Token
	Init Expression
}

type DeclareStmt struct {
	Type     DeclaredType
	Vars     []Declarator
	position Position
}

func (s *DeclareStmt) stmtNode()     {}
func (s *DeclareStmt) Pos() Position { return s.position }

type ExprStmt struct {
	Expr     Expression
	position Position
}

func (s *ExprStmt) stmtNode()     {}
func (s *ExprStmt) Pos() Position { return s.position }

type PrintStmt struct {
	Expr     Expression
	position Position
}

func (s *PrintStmt) stmtNode()     {}
func (s *PrintStmt) Pos() Position { return s.position }

type ScanStmt struct {
	Names    []Token
	position Position
}

func (s *ScanStmt) stmtNode()     {}
func (s *ScanStmt) Pos() Position { return s.position }

// IfStmt branches are blocks; an ELSE IF chain nests another IfStmt as Else.
type IfStmt struct {
	Condition Expression
	Then      Statement
	Else      Statement
	position  Position
}

func (s *IfStmt) stmtNode()     {}
func (s *IfStmt) Pos() Position { return s.position }

// WhenStmt is the only loop node. FOR and REPEAT WHEN both desugar to it.
type WhenStmt struct {
	Condition Expression
	Body      Statement
	position  Position
}

func (s *WhenStmt) stmtNode()     {}
func (s *WhenStmt) Pos() Position { return s.position }

type BlockStmt struct {
	Statements []Statement
	position   Position
}

func (s *BlockStmt) stmtNode()     {}
func (s *BlockStmt) Pos() Position { return s.position }
