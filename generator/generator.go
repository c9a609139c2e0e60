// Package generator implements the pure function `print(Tree) -> text`.
// It walks the ast package's node types with a recursive printer that
// tracks the enclosing node so it can add parentheses only where operator
// precedence actually requires them, the same shape as a hand-rolled
// recursive-descent pretty-printer.
package generator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/t14raptor/deobfuscate/ast"
)

type state struct {
	out    *strings.Builder
	indent int
}

func (s *state) writeIndent() {
	s.out.WriteString(strings.Repeat("  ", s.indent))
}

// Print renders n as source text. A Program's statements are separated by
// newlines, with none after the last; a single statement or an expression
// is rendered with no trailing newline.
func Print(n ast.Node) string {
	s := &state{out: &strings.Builder{}}
	switch n := n.(type) {
	case *ast.Program:
		for i, stmt := range n.Body {
			if i > 0 {
				s.out.WriteString("\n")
			}
			s.writeIndent()
			s.stmt(stmt)
		}
	case ast.Stmt:
		s.stmt(n)
	case ast.Expr:
		s.expr(n, 0)
	}
	return s.out.String()
}

// PrintExpr renders a single expression with no surrounding statement
// terminator, for use by fragment printers (context collector output) and
// literalisation.
func PrintExpr(e ast.Expr) string {
	s := &state{out: &strings.Builder{}}
	s.expr(e, 0)
	return s.out.String()
}

func (s *state) block(b *ast.BlockStatement) {
	s.out.WriteString("{\n")
	s.indent++
	for _, st := range b.Body {
		s.writeIndent()
		s.stmt(st)
		s.out.WriteString("\n")
	}
	s.indent--
	s.writeIndent()
	s.out.WriteString("}")
}

func (s *state) stmt(n ast.Stmt) {
	switch n := n.(type) {
	case *ast.ExpressionStatement:
		s.exprStatementHead(n.Expression)
		s.out.WriteString(";")
	case *ast.BlockStatement:
		s.block(n)
	case *ast.VariableDeclaration:
		s.out.WriteString(string(n.DKind))
		s.out.WriteString(" ")
		for i, d := range n.Declarations {
			if i > 0 {
				s.out.WriteString(", ")
			}
			s.expr(d.Id, 0)
			if d.Init != nil {
				s.out.WriteString(" = ")
				s.expr(d.Init, 0)
			}
		}
		s.out.WriteString(";")
	case *ast.FunctionDeclaration:
		s.funcHead(n.Async, n.Generator, n.Name, n.Params)
		s.out.WriteString(" ")
		s.block(n.Body)
	case *ast.IfStatement:
		s.out.WriteString("if (")
		s.expr(n.Test, 0)
		s.out.WriteString(") ")
		s.stmtOrBlock(n.Consequent)
		if n.Alternate != nil {
			s.out.WriteString(" else ")
			s.stmtOrBlock(n.Alternate)
		}
	case *ast.ForStatement:
		s.out.WriteString("for (")
		switch init := n.Init.(type) {
		case nil:
		case *ast.VariableDeclaration:
			s.stmtNoSemi(init)
		case ast.Expr:
			s.expr(init, 0)
		}
		s.out.WriteString("; ")
		if n.Test != nil {
			s.expr(n.Test, 0)
		}
		s.out.WriteString("; ")
		if n.Update != nil {
			s.expr(n.Update, 0)
		}
		s.out.WriteString(") ")
		s.stmtOrBlock(n.Body)
	case *ast.ForInStatement:
		s.out.WriteString("for (")
		s.forLeft(n.Left)
		s.out.WriteString(" in ")
		s.expr(n.Right, 0)
		s.out.WriteString(") ")
		s.stmtOrBlock(n.Body)
	case *ast.ForOfStatement:
		s.out.WriteString("for (")
		s.forLeft(n.Left)
		s.out.WriteString(" of ")
		s.expr(n.Right, 0)
		s.out.WriteString(") ")
		s.stmtOrBlock(n.Body)
	case *ast.WhileStatement:
		s.out.WriteString("while (")
		s.expr(n.Test, 0)
		s.out.WriteString(") ")
		s.stmtOrBlock(n.Body)
	case *ast.DoWhileStatement:
		s.out.WriteString("do ")
		s.stmtOrBlock(n.Body)
		s.out.WriteString(" while (")
		s.expr(n.Test, 0)
		s.out.WriteString(");")
	case *ast.BreakStatement:
		s.out.WriteString("break")
		if n.Label != "" {
			s.out.WriteString(" " + n.Label)
		}
		s.out.WriteString(";")
	case *ast.ContinueStatement:
		s.out.WriteString("continue")
		if n.Label != "" {
			s.out.WriteString(" " + n.Label)
		}
		s.out.WriteString(";")
	case *ast.ReturnStatement:
		s.out.WriteString("return")
		if n.Argument != nil {
			s.out.WriteString(" ")
			s.expr(n.Argument, 0)
		}
		s.out.WriteString(";")
	case *ast.ThrowStatement:
		s.out.WriteString("throw ")
		s.expr(n.Argument, 0)
		s.out.WriteString(";")
	case *ast.TryStatement:
		s.out.WriteString("try ")
		s.block(n.Block)
		if n.Handler != nil {
			s.out.WriteString(" catch ")
			if n.Handler.Param != nil {
				s.out.WriteString("(")
				s.expr(n.Handler.Param, 0)
				s.out.WriteString(") ")
			}
			s.block(n.Handler.Body)
		}
		if n.Finalizer != nil {
			s.out.WriteString(" finally ")
			s.block(n.Finalizer)
		}
	case *ast.SwitchStatement:
		s.out.WriteString("switch (")
		s.expr(n.Discriminant, 0)
		s.out.WriteString(") {\n")
		s.indent++
		for _, c := range n.Cases {
			s.writeIndent()
			if c.Test != nil {
				s.out.WriteString("case ")
				s.expr(c.Test, 0)
				s.out.WriteString(":\n")
			} else {
				s.out.WriteString("default:\n")
			}
			s.indent++
			for _, st := range c.Consequent {
				s.writeIndent()
				s.stmt(st)
				s.out.WriteString("\n")
			}
			s.indent--
		}
		s.indent--
		s.writeIndent()
		s.out.WriteString("}")
	case *ast.LabeledStatement:
		s.out.WriteString(n.Label + ": ")
		s.stmt(n.Body)
	case *ast.EmptyStatement:
		s.out.WriteString(";")
	case *ast.DebuggerStatement:
		s.out.WriteString("debugger;")
	}
}

func (s *state) stmtNoSemi(n ast.Stmt) {
	var b strings.Builder
	sub := &state{out: &b, indent: s.indent}
	sub.stmt(n)
	s.out.WriteString(strings.TrimSuffix(b.String(), ";"))
}

func (s *state) forLeft(n ast.Node) {
	if decl, ok := n.(*ast.VariableDeclaration); ok {
		s.out.WriteString(string(decl.DKind) + " ")
		s.expr(decl.Declarations[0].Id, 0)
		return
	}
	s.expr(n.(ast.Expr), 0)
}

func (s *state) stmtOrBlock(n ast.Stmt) {
	if b, ok := n.(*ast.BlockStatement); ok {
		s.block(b)
		return
	}
	s.stmt(n)
}

// exprStatementHead wraps an expression statement in parens when its
// leftmost operand (reached through callees and member objects) is a
// function or object expression, so it is not misparsed as a declaration
// or block, per the classic `(function(){})()`/`({}).x` ASI hazard.
func (s *state) exprStatementHead(e ast.Expr) {
	head := e
	for walking := true; walking; {
		switch h := head.(type) {
		case *ast.CallExpression:
			head = h.Callee
		case *ast.MemberExpression:
			head = h.Object
		default:
			walking = false
		}
	}
	switch head.(type) {
	case *ast.FunctionExpression, *ast.ObjectExpression:
		s.out.WriteString("(")
		s.expr(e, 0)
		s.out.WriteString(")")
		return
	}
	s.expr(e, 0)
}

func (s *state) funcHead(async, gen bool, name *ast.Identifier, params ast.FunctionParams) {
	if async {
		s.out.WriteString("async ")
	}
	s.out.WriteString("function")
	if gen {
		s.out.WriteString("*")
	}
	if name != nil {
		s.out.WriteString(" " + name.Name)
	} else {
		s.out.WriteString(" ")
	}
	s.params(params)
}

func (s *state) params(p ast.FunctionParams) {
	s.out.WriteString("(")
	for i, pr := range p.Params {
		if i > 0 {
			s.out.WriteString(", ")
		}
		s.expr(pr, 0)
	}
	if p.Rest != nil {
		if len(p.Params) > 0 {
			s.out.WriteString(", ")
		}
		s.out.WriteString("...")
		s.expr(p.Rest, 0)
	}
	s.out.WriteString(")")
}

// prec returns a syntactic binding power for e, used only to decide
// whether to parenthesize a child of a binary/unary/member/call
// expression. Higher binds tighter. Non-operator expressions return a
// number higher than every operator so they're never parenthesized by
// this logic alone (call/member chains handle their own cases directly).
func prec(e ast.Expr) int {
	switch e := e.(type) {
	case *ast.SequenceExpression:
		return 0
	case *ast.AssignmentExpression:
		return 1
	case *ast.ConditionalExpression:
		return 2
	case *ast.ArrowFunctionExpression:
		return 2
	case *ast.LogicalExpression:
		switch e.Operator {
		case "||", "??":
			return 4
		case "&&":
			return 5
		}
	case *ast.BinaryExpression:
		return binOpPrec(e.Operator)
	case *ast.UnaryExpression, *ast.UpdateExpression:
		return 15
	case *ast.CallExpression, *ast.NewExpression, *ast.MemberExpression:
		return 18
	}
	return 20
}

func binOpPrec(op string) int {
	switch op {
	case "|":
		return 6
	case "^":
		return 7
	case "&":
		return 8
	case "==", "!=", "===", "!==":
		return 9
	case "<", "<=", ">", ">=", "instanceof", "in":
		return 10
	case "<<", ">>", ">>>":
		return 11
	case "+", "-":
		return 12
	case "*", "/", "%":
		return 13
	case "**":
		return 14
	}
	return 20
}

func (s *state) expr(e ast.Expr, parentPrec int) {
	if e == nil {
		return
	}
	myPrec := prec(e)
	needParens := myPrec < parentPrec
	if needParens {
		s.out.WriteString("(")
	}
	s.exprInner(e, myPrec)
	if needParens {
		s.out.WriteString(")")
	}
}

func (s *state) exprInner(e ast.Expr, myPrec int) {
	switch e := e.(type) {
	case *ast.Literal:
		s.literal(e)
	case *ast.RegExpLiteral:
		s.out.WriteString("/" + e.Pattern + "/" + e.Flags)
	case *ast.BigIntLiteral:
		s.out.WriteString(e.Raw + "n")
	case *ast.Identifier:
		s.out.WriteString(e.Name)
	case *ast.ThisExpression:
		s.out.WriteString("this")
	case *ast.ArrayExpression:
		s.out.WriteString("[")
		for i, el := range e.Elements {
			if i > 0 {
				s.out.WriteString(", ")
			}
			if el != nil {
				s.expr(el, 1)
			}
		}
		s.out.WriteString("]")
	case *ast.ObjectExpression:
		s.out.WriteString("{")
		for i, p := range e.Properties {
			if i > 0 {
				s.out.WriteString(", ")
			}
			s.property(p)
		}
		s.out.WriteString("}")
	case *ast.FunctionExpression:
		s.funcHead(e.Async, e.Generator, e.Name, e.Params)
		s.out.WriteString(" ")
		s.block(e.Body)
	case *ast.ArrowFunctionExpression:
		if e.Async {
			s.out.WriteString("async ")
		}
		s.params(e.Params)
		s.out.WriteString(" => ")
		switch body := e.Body.(type) {
		case *ast.BlockStatement:
			s.block(body)
		case ast.Expr:
			if _, ok := body.(*ast.ObjectExpression); ok {
				s.out.WriteString("(")
				s.expr(body, 0)
				s.out.WriteString(")")
			} else {
				s.expr(body, 2)
			}
		}
	case *ast.BinaryExpression:
		s.expr(e.Left, myPrec)
		s.out.WriteString(" " + e.Operator + " ")
		s.expr(e.Right, myPrec+1)
	case *ast.LogicalExpression:
		s.expr(e.Left, myPrec)
		s.out.WriteString(" " + e.Operator + " ")
		s.expr(e.Right, myPrec+1)
	case *ast.UnaryExpression:
		if len(e.Operator) > 1 {
			s.out.WriteString(e.Operator + " ")
		} else {
			s.out.WriteString(e.Operator)
		}
		s.expr(e.Operand, myPrec)
	case *ast.UpdateExpression:
		if e.Prefix {
			s.out.WriteString(e.Operator)
			s.expr(e.Operand, myPrec)
		} else {
			s.expr(e.Operand, myPrec)
			s.out.WriteString(e.Operator)
		}
	case *ast.AssignmentExpression:
		s.expr(e.Left, myPrec+1)
		s.out.WriteString(" " + e.Operator + " ")
		s.expr(e.Right, myPrec)
	case *ast.ConditionalExpression:
		s.expr(e.Test, myPrec+1)
		s.out.WriteString(" ? ")
		s.expr(e.Consequent, 0)
		s.out.WriteString(" : ")
		s.expr(e.Alternate, myPrec)
	case *ast.CallExpression:
		s.expr(e.Callee, myPrec)
		if e.Optional {
			s.out.WriteString("?.")
		}
		s.out.WriteString("(")
		for i, a := range e.Arguments {
			if i > 0 {
				s.out.WriteString(", ")
			}
			s.expr(a, 1)
		}
		s.out.WriteString(")")
	case *ast.NewExpression:
		s.out.WriteString("new ")
		s.expr(e.Callee, myPrec)
		s.out.WriteString("(")
		for i, a := range e.Arguments {
			if i > 0 {
				s.out.WriteString(", ")
			}
			s.expr(a, 1)
		}
		s.out.WriteString(")")
	case *ast.MemberExpression:
		s.expr(e.Object, myPrec)
		if e.Computed {
			if e.Optional {
				s.out.WriteString("?.")
			}
			s.out.WriteString("[")
			s.expr(e.Property, 0)
			s.out.WriteString("]")
		} else {
			if e.Optional {
				s.out.WriteString("?.")
			} else {
				s.out.WriteString(".")
			}
			s.expr(e.Property, 0)
		}
	case *ast.SequenceExpression:
		for i, ex := range e.Expressions {
			if i > 0 {
				s.out.WriteString(", ")
			}
			s.expr(ex, 1)
		}
	case *ast.SpreadElement:
		s.out.WriteString("...")
		s.expr(e.Argument, 1)
	case *ast.TemplateLiteral:
		s.out.WriteString("`")
		for i, q := range e.Quasis {
			s.out.WriteString(q.Raw)
			if i < len(e.Expressions) {
				s.out.WriteString("${")
				s.expr(e.Expressions[i], 0)
				s.out.WriteString("}")
			}
		}
		s.out.WriteString("`")
	default:
		s.out.WriteString(fmt.Sprintf("/*unknown:%T*/", e))
	}
}

func (s *state) property(p *ast.Property) {
	if p.PropKind == "spread" {
		s.expr(p.Value, 1)
		return
	}
	if p.PropKind == "get" || p.PropKind == "set" {
		s.out.WriteString(p.PropKind + " ")
		s.expr(p.Key, 0)
		fn := p.Value.(*ast.FunctionExpression)
		s.params(fn.Params)
		s.out.WriteString(" ")
		s.block(fn.Body)
		return
	}
	if fn, ok := p.Value.(*ast.FunctionExpression); ok && !p.Shorthand {
		s.expr(p.Key, 0)
		s.params(fn.Params)
		s.out.WriteString(" ")
		s.block(fn.Body)
		return
	}
	if p.Shorthand {
		if assign, ok := p.Value.(*ast.AssignmentExpression); ok {
			s.expr(p.Key, 0)
			s.out.WriteString(" = ")
			s.expr(assign.Right, 0)
			return
		}
		s.expr(p.Key, 0)
		return
	}
	if p.Computed {
		s.out.WriteString("[")
		s.expr(p.Key, 0)
		s.out.WriteString("]")
	} else {
		s.expr(p.Key, 0)
	}
	s.out.WriteString(": ")
	s.expr(p.Value, 1)
}

func (s *state) literal(l *ast.Literal) {
	switch l.LKind {
	case ast.LitString:
		s.out.WriteString(l.Raw)
	case ast.LitNumber:
		if l.Raw != "" {
			s.out.WriteString(l.Raw)
		} else {
			s.out.WriteString(formatNumber(l.Num))
		}
	case ast.LitBoolean:
		s.out.WriteString(strconv.FormatBool(l.Bool))
	case ast.LitNull:
		s.out.WriteString("null")
	}
}

// formatNumber renders a float64 the way JS's Number.prototype.toString
// would for the finite, non-huge values this engine actually folds.
func formatNumber(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
