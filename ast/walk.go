package ast

// Children returns the direct syntactic children of n, in source order,
// skipping nils. The arborist and resolver both need an untyped walk over
// "whatever this node points at" without re-deriving a type switch at
// each call site, so it lives here once.
func Children(n Node) []Node {
	var out []Node
	add := func(c Node) {
		if c == nil {
			return
		}
		out = append(out, c)
	}
	addExpr := func(e Expr) {
		if e == nil {
			return
		}
		out = append(out, e)
	}

	switch n := n.(type) {
	case *Program:
		for _, s := range n.Body {
			add(s)
		}
	case *ExpressionStatement:
		addExpr(n.Expression)
	case *BlockStatement:
		for _, s := range n.Body {
			add(s)
		}
	case *IfStatement:
		addExpr(n.Test)
		add(n.Consequent)
		add(n.Alternate)
	case *ForStatement:
		add(n.Init)
		addExpr(n.Test)
		addExpr(n.Update)
		add(n.Body)
	case *ForInStatement:
		add(n.Left)
		addExpr(n.Right)
		add(n.Body)
	case *ForOfStatement:
		add(n.Left)
		addExpr(n.Right)
		add(n.Body)
	case *WhileStatement:
		addExpr(n.Test)
		add(n.Body)
	case *DoWhileStatement:
		add(n.Body)
		addExpr(n.Test)
	case *ReturnStatement:
		addExpr(n.Argument)
	case *ThrowStatement:
		addExpr(n.Argument)
	case *TryStatement:
		add(n.Block)
		if n.Handler != nil {
			add(n.Handler)
		}
		if n.Finalizer != nil {
			add(n.Finalizer)
		}
	case *CatchClause:
		addExpr(n.Param)
		add(n.Body)
	case *SwitchStatement:
		addExpr(n.Discriminant)
		for _, c := range n.Cases {
			add(c)
		}
	case *SwitchCase:
		addExpr(n.Test)
		for _, s := range n.Consequent {
			add(s)
		}
	case *LabeledStatement:
		add(n.Body)
	case *FunctionDeclaration:
		if n.Name != nil {
			add(n.Name)
		}
		addFuncParams(&out, n.Params)
		add(n.Body)
	case *VariableDeclaration:
		for _, d := range n.Declarations {
			add(d)
		}
	case *VariableDeclarator:
		addExpr(n.Id)
		addExpr(n.Init)
	case *ArrayExpression:
		for _, e := range n.Elements {
			addExpr(e)
		}
	case *ObjectExpression:
		for _, p := range n.Properties {
			add(p)
		}
	case *Property:
		addExpr(n.Key)
		addExpr(n.Value)
	case *FunctionExpression:
		if n.Name != nil {
			add(n.Name)
		}
		addFuncParams(&out, n.Params)
		add(n.Body)
	case *ArrowFunctionExpression:
		addFuncParams(&out, n.Params)
		add(n.Body)
	case *BinaryExpression:
		addExpr(n.Left)
		addExpr(n.Right)
	case *LogicalExpression:
		addExpr(n.Left)
		addExpr(n.Right)
	case *UnaryExpression:
		addExpr(n.Operand)
	case *UpdateExpression:
		addExpr(n.Operand)
	case *AssignmentExpression:
		addExpr(n.Left)
		addExpr(n.Right)
	case *ConditionalExpression:
		addExpr(n.Test)
		addExpr(n.Consequent)
		addExpr(n.Alternate)
	case *CallExpression:
		addExpr(n.Callee)
		for _, a := range n.Arguments {
			addExpr(a)
		}
	case *NewExpression:
		addExpr(n.Callee)
		for _, a := range n.Arguments {
			addExpr(a)
		}
	case *MemberExpression:
		addExpr(n.Object)
		addExpr(n.Property)
	case *SequenceExpression:
		for _, e := range n.Expressions {
			addExpr(e)
		}
	case *SpreadElement:
		addExpr(n.Argument)
	case *TemplateLiteral:
		for i, q := range n.Quasis {
			add(q)
			if i < len(n.Expressions) {
				addExpr(n.Expressions[i])
			}
		}
	}
	return out
}

func addFuncParams(out *[]Node, p FunctionParams) {
	for _, e := range p.Params {
		if e != nil {
			*out = append(*out, e)
		}
	}
	if p.Rest != nil {
		*out = append(*out, p.Rest)
	}
}

// Walk calls visit on n and every descendant, pre-order depth-first. visit
// returning false skips n's children but continues the walk elsewhere.
func Walk(n Node, visit func(Node) bool) {
	if n == nil {
		return
	}
	if !visit(n) {
		return
	}
	for _, c := range Children(n) {
		Walk(c, visit)
	}
}
