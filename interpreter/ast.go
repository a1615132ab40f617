package interpreter

import (
	"strconv"
	"strings"
)

// Node is implemented by every AST node.
type Node interface {
	String() string
}

// Expr is the closed set of expression nodes.
type Expr interface {
	Node
	exprNode()
}

// Stmt is the closed set of statement nodes.
type Stmt interface {
	Node
	stmtNode()
}

type Literal struct {
	Token Token
	Value Value
}

func (l *Literal) exprNode() {}
func (l *Literal) String() string {
	if s, ok := l.Value.(String); ok {
		return `"` + s.Value + `"`
	}
	if b, ok := l.Value.(Boolean); ok {
		return strconv.FormatBool(b.Value)
	}
	return inspect(l.Value)
}

type Identifier struct {
	Name Token
}

func (i *Identifier) exprNode()      {}
func (i *Identifier) String() string { return i.Name.Lexeme }

type Unary struct {
	Operator Token
	Right    Expr
}

func (u *Unary) exprNode()      {}
func (u *Unary) String() string { return "(" + u.Operator.Lexeme + u.Right.String() + ")" }

type Binary struct {
	Left     Expr
	Operator Token
	Right    Expr
}

func (b *Binary) exprNode() {}
func (b *Binary) String() string {
	return "(" + b.Left.String() + " " + b.Operator.Lexeme + " " + b.Right.String() + ")"
}

type Logical struct {
	Left     Expr
	Operator Token
	Right    Expr
}

func (l *Logical) exprNode() {}
func (l *Logical) String() string {
	return "(" + l.Left.String() + " " + l.Operator.Lexeme + " " + l.Right.String() + ")"
}

type Grouping struct {
	Expression Expr
}

func (g *Grouping) exprNode()      {}
func (g *Grouping) String() string { return "(group " + g.Expression.String() + ")" }

type Assign struct {
	Name  Token
	Value Expr
}

func (a *Assign) exprNode()      {}
func (a *Assign) String() string { return "(" + a.Name.Lexeme + " = " + a.Value.String() + ")" }

type Call struct {
	Callee    Expr
	Paren     Token
	Arguments []Expr
}

func (c *Call) exprNode() {}
func (c *Call) String() string {
	return c.Callee.String() + "(" + joinExprs(c.Arguments) + ")"
}

type ExpressionStmt struct {
	Expression Expr
}

func (es *ExpressionStmt) stmtNode()      {}
func (es *ExpressionStmt) String() string { return es.Expression.String() + ";" }

type Block struct {
	Statements []Stmt
}

func (b *Block) stmtNode() {}
func (b *Block) String() string {
	var out strings.Builder
	out.WriteString("{ ")
	for _, s := range b.Statements {
		out.WriteString(s.String())
		out.WriteString(" ")
	}
	out.WriteString("}")
	return out.String()
}

type If struct {
	Condition Expr
	Then      Stmt
	Else      Stmt
}

func (i *If) stmtNode() {}
func (i *If) String() string {
	out := "if (" + i.Condition.String() + ") " + i.Then.String()
	if i.Else != nil {
		out += " else " + i.Else.String()
	}
	return out
}

type While struct {
	Condition Expr
	Body      Stmt
}

func (w *While) stmtNode() {}
func (w *While) String() string {
	return "while (" + w.Condition.String() + ") " + w.Body.String()
}

// For keeps its clauses separate instead of desugaring into a while loop so
// the initializer gets its own scope.
type For struct {
	Init      Stmt
	Condition Expr
	Increment Expr
	Body      Stmt
}

func (f *For) stmtNode() {}
func (f *For) String() string {
	var out strings.Builder
	out.WriteString("for (")
	if f.Init != nil {
		out.WriteString(f.Init.String())
	} else {
		out.WriteString(";")
	}
	out.WriteString(" ")
	if f.Condition != nil {
		out.WriteString(f.Condition.String())
	}
	out.WriteString("; ")
	if f.Increment != nil {
		out.WriteString(f.Increment.String())
	}
	out.WriteString(") ")
	out.WriteString(f.Body.String())
	return out.String()
}

type VarDecl struct {
	Name        Token
	Initializer Expr
}

func (v *VarDecl) stmtNode() {}
func (v *VarDecl) String() string {
	if v.Initializer == nil {
		return "var " + v.Name.Lexeme + ";"
	}
	return "var " + v.Name.Lexeme + " = " + v.Initializer.String() + ";"
}

type FunctionDecl struct {
	Name   Token
	Params []Token
	Body   []Stmt
}

func (f *FunctionDecl) stmtNode() {}
func (f *FunctionDecl) String() string {
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.Lexeme
	}
	return "funct " + f.Name.Lexeme + "(" + strings.Join(params, ", ") + ") " + (&Block{Statements: f.Body}).String()
}

type Return struct {
	Keyword Token
	Value   Expr
}

func (r *Return) stmtNode() {}
func (r *Return) String() string {
	if r.Value == nil {
		return "return;"
	}
	return "return " + r.Value.String() + ";"
}

type Echo struct {
	Keyword    Token
	Expression Expr
}

func (e *Echo) stmtNode()      {}
func (e *Echo) String() string { return "echo " + e.Expression.String() + ";" }

type Time struct {
	Keyword Token
}

func (t *Time) stmtNode()      {}
func (t *Time) String() string { return "time;" }

type Clear struct {
	Keyword Token
}

func (c *Clear) stmtNode()      {}
func (c *Clear) String() string { return "clear;" }

type Pwd struct {
	Keyword Token
}

func (p *Pwd) stmtNode()      {}
func (p *Pwd) String() string { return "pwd;" }

type Cd struct {
	Keyword Token
	Path    Expr
}

func (c *Cd) stmtNode() {}
func (c *Cd) String() string {
	if c.Path == nil {
		return "cd;"
	}
	return "cd " + c.Path.String() + ";"
}

type Run struct {
	Keyword   Token
	Program   Expr
	Arguments []Expr
}

func (r *Run) stmtNode() {}
func (r *Run) String() string {
	out := "run " + r.Program.String()
	if len(r.Arguments) > 0 {
		out += ", " + joinExprs(r.Arguments)
	}
	return out + ";"
}

func joinExprs(exprs []Expr) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}
