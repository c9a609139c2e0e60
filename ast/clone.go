package ast

// Clone deep-copies n and everything beneath it, producing entirely new
// node values. The arborist's commit step clones the whole Program
// before staging any in-place mutation, so a rewrite that turns out not
// to reparse never touches the previous generation's nodes — Clone is
// what makes that rollback free.
//
// Scope/DeclNode/References links are not carried over: the clone is
// only ever printed and immediately reparsed, at which point a fresh
// resolver pass rebuilds them from scratch.
func Clone(n Node) Node {
	switch n := n.(type) {
	case nil:
		return nil
	case *Program:
		return &Program{Span: n.Span, Body: cloneStmts(n.Body)}
	case *Literal:
		cp := *n
		return &cp
	case *RegExpLiteral:
		cp := *n
		return &cp
	case *BigIntLiteral:
		cp := *n
		return &cp
	case *Identifier:
		return &Identifier{Span: n.Span, Name: n.Name}
	case *ThisExpression:
		cp := *n
		return &cp
	case *ArrayExpression:
		elems := make([]Expr, len(n.Elements))
		for i, e := range n.Elements {
			elems[i] = cloneExpr(e)
		}
		return &ArrayExpression{Span: n.Span, Elements: elems}
	case *ObjectExpression:
		props := make([]*Property, len(n.Properties))
		for i, p := range n.Properties {
			props[i] = Clone(p).(*Property)
		}
		return &ObjectExpression{Span: n.Span, Properties: props}
	case *Property:
		return &Property{Span: n.Span, Key: cloneExpr(n.Key), Value: cloneExpr(n.Value), Computed: n.Computed, Shorthand: n.Shorthand, PropKind: n.PropKind}
	case *FunctionExpression:
		return &FunctionExpression{
			Span: n.Span, Name: cloneIdent(n.Name), Params: cloneParams(n.Params),
			Body: cloneBlock(n.Body), Async: n.Async, Generator: n.Generator,
		}
	case *ArrowFunctionExpression:
		var body Node
		switch b := n.Body.(type) {
		case *BlockStatement:
			body = cloneBlock(b)
		case Expr:
			body = cloneExpr(b)
		}
		return &ArrowFunctionExpression{Span: n.Span, Params: cloneParams(n.Params), Body: body, Async: n.Async}
	case *BinaryExpression:
		return &BinaryExpression{Span: n.Span, Operator: n.Operator, Left: cloneExpr(n.Left), Right: cloneExpr(n.Right)}
	case *LogicalExpression:
		return &LogicalExpression{Span: n.Span, Operator: n.Operator, Left: cloneExpr(n.Left), Right: cloneExpr(n.Right)}
	case *UnaryExpression:
		return &UnaryExpression{Span: n.Span, Operator: n.Operator, Operand: cloneExpr(n.Operand)}
	case *UpdateExpression:
		return &UpdateExpression{Span: n.Span, Operator: n.Operator, Operand: cloneExpr(n.Operand), Prefix: n.Prefix}
	case *AssignmentExpression:
		return &AssignmentExpression{Span: n.Span, Operator: n.Operator, Left: cloneExpr(n.Left), Right: cloneExpr(n.Right)}
	case *ConditionalExpression:
		return &ConditionalExpression{Span: n.Span, Test: cloneExpr(n.Test), Consequent: cloneExpr(n.Consequent), Alternate: cloneExpr(n.Alternate)}
	case *CallExpression:
		return &CallExpression{Span: n.Span, Callee: cloneExpr(n.Callee), Arguments: cloneExprs(n.Arguments), Optional: n.Optional}
	case *NewExpression:
		return &NewExpression{Span: n.Span, Callee: cloneExpr(n.Callee), Arguments: cloneExprs(n.Arguments)}
	case *MemberExpression:
		return &MemberExpression{Span: n.Span, Object: cloneExpr(n.Object), Property: cloneExpr(n.Property), Computed: n.Computed, Optional: n.Optional}
	case *SequenceExpression:
		return &SequenceExpression{Span: n.Span, Expressions: cloneExprs(n.Expressions)}
	case *SpreadElement:
		return &SpreadElement{Span: n.Span, Argument: cloneExpr(n.Argument)}
	case *TemplateElement:
		cp := *n
		return &cp
	case *TemplateLiteral:
		quasis := make([]*TemplateElement, len(n.Quasis))
		for i, q := range n.Quasis {
			quasis[i] = Clone(q).(*TemplateElement)
		}
		return &TemplateLiteral{Span: n.Span, Quasis: quasis, Expressions: cloneExprs(n.Expressions)}
	case *ExpressionStatement:
		return &ExpressionStatement{Span: n.Span, Expression: cloneExpr(n.Expression)}
	case *BlockStatement:
		return &BlockStatement{Span: n.Span, Body: cloneStmts(n.Body)}
	case *IfStatement:
		return &IfStatement{Span: n.Span, Test: cloneExpr(n.Test), Consequent: cloneStmt(n.Consequent), Alternate: cloneStmt(n.Alternate)}
	case *ForStatement:
		var init Node
		switch i := n.Init.(type) {
		case *VariableDeclaration:
			init = Clone(i)
		case Expr:
			init = cloneExpr(i)
		}
		return &ForStatement{Span: n.Span, Init: init, Test: cloneExpr(n.Test), Update: cloneExpr(n.Update), Body: cloneStmt(n.Body)}
	case *ForInStatement:
		return &ForInStatement{Span: n.Span, Left: cloneForHead(n.Left), Right: cloneExpr(n.Right), Body: cloneStmt(n.Body)}
	case *ForOfStatement:
		return &ForOfStatement{Span: n.Span, Left: cloneForHead(n.Left), Right: cloneExpr(n.Right), Body: cloneStmt(n.Body), Await: n.Await}
	case *WhileStatement:
		return &WhileStatement{Span: n.Span, Test: cloneExpr(n.Test), Body: cloneStmt(n.Body)}
	case *DoWhileStatement:
		return &DoWhileStatement{Span: n.Span, Body: cloneStmt(n.Body), Test: cloneExpr(n.Test)}
	case *BreakStatement:
		cp := *n
		return &cp
	case *ContinueStatement:
		cp := *n
		return &cp
	case *ReturnStatement:
		return &ReturnStatement{Span: n.Span, Argument: cloneExpr(n.Argument)}
	case *ThrowStatement:
		return &ThrowStatement{Span: n.Span, Argument: cloneExpr(n.Argument)}
	case *TryStatement:
		var handler *CatchClause
		if n.Handler != nil {
			handler = &CatchClause{Span: n.Handler.Span, Param: cloneExpr(n.Handler.Param), Body: cloneBlock(n.Handler.Body)}
		}
		return &TryStatement{Span: n.Span, Block: cloneBlock(n.Block), Handler: handler, Finalizer: cloneBlock(n.Finalizer)}
	case *SwitchStatement:
		cases := make([]*SwitchCase, len(n.Cases))
		for i, c := range n.Cases {
			cases[i] = Clone(c).(*SwitchCase)
		}
		return &SwitchStatement{Span: n.Span, Discriminant: cloneExpr(n.Discriminant), Cases: cases}
	case *SwitchCase:
		return &SwitchCase{Span: n.Span, Test: cloneExpr(n.Test), Consequent: cloneStmts(n.Consequent)}
	case *LabeledStatement:
		return &LabeledStatement{Span: n.Span, Label: n.Label, Body: cloneStmt(n.Body)}
	case *EmptyStatement:
		cp := *n
		return &cp
	case *DebuggerStatement:
		cp := *n
		return &cp
	case *VariableDeclaration:
		decls := make([]*VariableDeclarator, len(n.Declarations))
		for i, d := range n.Declarations {
			decls[i] = Clone(d).(*VariableDeclarator)
		}
		return &VariableDeclaration{Span: n.Span, DKind: n.DKind, Declarations: decls}
	case *VariableDeclarator:
		return &VariableDeclarator{Span: n.Span, Id: cloneExpr(n.Id), Init: cloneExpr(n.Init)}
	case *FunctionDeclaration:
		return &FunctionDeclaration{
			Span: n.Span, Name: cloneIdent(n.Name), Params: cloneParams(n.Params),
			Body: cloneBlock(n.Body), Async: n.Async, Generator: n.Generator,
		}
	case *CatchClause:
		return &CatchClause{Span: n.Span, Param: cloneExpr(n.Param), Body: cloneBlock(n.Body)}
	}
	return nil
}

func cloneExpr(e Expr) Expr {
	if e == nil {
		return nil
	}
	c := Clone(e)
	if c == nil {
		return nil
	}
	return c.(Expr)
}

func cloneStmt(s Stmt) Stmt {
	if s == nil {
		return nil
	}
	c := Clone(s)
	if c == nil {
		return nil
	}
	return c.(Stmt)
}

func cloneIdent(id *Identifier) *Identifier {
	if id == nil {
		return nil
	}
	return Clone(id).(*Identifier)
}

func cloneBlock(b *BlockStatement) *BlockStatement {
	if b == nil {
		return nil
	}
	return Clone(b).(*BlockStatement)
}

func cloneExprs(es []Expr) []Expr {
	out := make([]Expr, len(es))
	for i, e := range es {
		out[i] = cloneExpr(e)
	}
	return out
}

func cloneStmts(ss []Stmt) []Stmt {
	out := make([]Stmt, len(ss))
	for i, s := range ss {
		out[i] = cloneStmt(s)
	}
	return out
}

func cloneParams(p FunctionParams) FunctionParams {
	return FunctionParams{Params: cloneExprs(p.Params), Rest: cloneExpr(p.Rest)}
}

func cloneForHead(n Node) Node {
	switch n := n.(type) {
	case *VariableDeclaration:
		return Clone(n)
	case Expr:
		return cloneExpr(n)
	}
	return nil
}
