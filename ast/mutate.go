package ast

// ReplaceChild finds old among n's direct children and overwrites that
// slot with replacement. If replacement is nil and the slot is a list
// element (a statement in a body, a case in a switch), the element is
// removed from the list entirely rather than set to nil, since a nil
// Stmt/Expr in those positions has no valid printed form. It reports
// whether old was found.
//
// This is the in-place half of commit: the arborist calls this once per
// mark, on the marked node's parent (for a removal, on the parent of the
// nearest enclosing Stmt), before reprinting and reparsing the whole tree.
func ReplaceChild(n Node, old, replacement Node) bool {
	switch n := n.(type) {
	case *Program:
		return replaceInStmtList(&n.Body, old, replacement)
	case *ExpressionStatement:
		if n.Expression == old {
			n.Expression, _ = replacement.(Expr)
			return true
		}
	case *BlockStatement:
		return replaceInStmtList(&n.Body, old, replacement)
	case *IfStatement:
		if n.Test == old {
			n.Test, _ = replacement.(Expr)
			return true
		}
		if n.Consequent == old {
			n.Consequent = replaceStmtOrEmpty(replacement)
			return true
		}
		if n.Alternate == old {
			if replacement == nil {
				n.Alternate = nil
			} else {
				n.Alternate, _ = replacement.(Stmt)
			}
			return true
		}
	case *ForStatement:
		if n.Init == old {
			if replacement == nil {
				n.Init = nil
			} else {
				n.Init = replacement
			}
			return true
		}
		if n.Test == old {
			n.Test, _ = replacement.(Expr)
			return true
		}
		if n.Update == old {
			n.Update, _ = replacement.(Expr)
			return true
		}
		if n.Body == old {
			n.Body = replaceStmtOrEmpty(replacement)
			return true
		}
	case *ForInStatement:
		return replaceForHead(&n.Left, &n.Right, &n.Body, old, replacement)
	case *ForOfStatement:
		return replaceForHead(&n.Left, &n.Right, &n.Body, old, replacement)
	case *WhileStatement:
		if n.Test == old {
			n.Test, _ = replacement.(Expr)
			return true
		}
		if n.Body == old {
			n.Body = replaceStmtOrEmpty(replacement)
			return true
		}
	case *DoWhileStatement:
		if n.Body == old {
			n.Body = replaceStmtOrEmpty(replacement)
			return true
		}
		if n.Test == old {
			n.Test, _ = replacement.(Expr)
			return true
		}
	case *ReturnStatement:
		if n.Argument == old {
			n.Argument, _ = replacement.(Expr)
			return true
		}
	case *ThrowStatement:
		if n.Argument == old {
			n.Argument, _ = replacement.(Expr)
			return true
		}
	case *TryStatement:
		if n.Block == old {
			if replacement == nil {
				return true
			}
			n.Block, _ = replacement.(*BlockStatement)
			return true
		}
		if n.Finalizer == old {
			n.Finalizer, _ = replacement.(*BlockStatement)
			return true
		}
	case *CatchClause:
		if n.Param == old {
			n.Param, _ = replacement.(Expr)
			return true
		}
		if n.Body == old {
			n.Body, _ = replacement.(*BlockStatement)
			return true
		}
	case *SwitchStatement:
		if n.Discriminant == old {
			n.Discriminant, _ = replacement.(Expr)
			return true
		}
		return replaceInCaseList(&n.Cases, old, replacement)
	case *SwitchCase:
		if n.Test == old {
			n.Test, _ = replacement.(Expr)
			return true
		}
		return replaceInStmtList(&n.Consequent, old, replacement)
	case *LabeledStatement:
		if n.Body == old {
			n.Body = replaceStmtOrEmpty(replacement)
			return true
		}
	case *FunctionDeclaration:
		if n.Body == old {
			n.Body, _ = replacement.(*BlockStatement)
			return true
		}
		return replaceInParams(&n.Params, old, replacement)
	case *FunctionExpression:
		if n.Body == old {
			n.Body, _ = replacement.(*BlockStatement)
			return true
		}
		return replaceInParams(&n.Params, old, replacement)
	case *ArrowFunctionExpression:
		if n.Body == old {
			n.Body = replacement
			return true
		}
		return replaceInParams(&n.Params, old, replacement)
	case *VariableDeclaration:
		for _, d := range n.Declarations {
			if d == old {
				// declarations are only removed via the statement they
				// live in; in place they must be replaced with another
				// declarator, which callers don't currently do.
				return false
			}
		}
	case *VariableDeclarator:
		if n.Id == old {
			n.Id, _ = replacement.(Expr)
			return true
		}
		if n.Init == old {
			n.Init, _ = replacement.(Expr)
			return true
		}
	case *ArrayExpression:
		for i, e := range n.Elements {
			if e == old {
				n.Elements[i], _ = replacement.(Expr)
				return true
			}
		}
	case *ObjectExpression:
		for _, p := range n.Properties {
			if p == old {
				return false
			}
		}
	case *Property:
		if n.Key == old {
			n.Key, _ = replacement.(Expr)
			return true
		}
		if n.Value == old {
			n.Value, _ = replacement.(Expr)
			return true
		}
	case *BinaryExpression:
		if n.Left == old {
			n.Left, _ = replacement.(Expr)
			return true
		}
		if n.Right == old {
			n.Right, _ = replacement.(Expr)
			return true
		}
	case *LogicalExpression:
		if n.Left == old {
			n.Left, _ = replacement.(Expr)
			return true
		}
		if n.Right == old {
			n.Right, _ = replacement.(Expr)
			return true
		}
	case *UnaryExpression:
		if n.Operand == old {
			n.Operand, _ = replacement.(Expr)
			return true
		}
	case *UpdateExpression:
		if n.Operand == old {
			n.Operand, _ = replacement.(Expr)
			return true
		}
	case *AssignmentExpression:
		if n.Left == old {
			n.Left, _ = replacement.(Expr)
			return true
		}
		if n.Right == old {
			n.Right, _ = replacement.(Expr)
			return true
		}
	case *ConditionalExpression:
		if n.Test == old {
			n.Test, _ = replacement.(Expr)
			return true
		}
		if n.Consequent == old {
			n.Consequent, _ = replacement.(Expr)
			return true
		}
		if n.Alternate == old {
			n.Alternate, _ = replacement.(Expr)
			return true
		}
	case *CallExpression:
		if n.Callee == old {
			n.Callee, _ = replacement.(Expr)
			return true
		}
		for i, a := range n.Arguments {
			if a == old {
				n.Arguments[i], _ = replacement.(Expr)
				return true
			}
		}
	case *NewExpression:
		if n.Callee == old {
			n.Callee, _ = replacement.(Expr)
			return true
		}
		for i, a := range n.Arguments {
			if a == old {
				n.Arguments[i], _ = replacement.(Expr)
				return true
			}
		}
	case *MemberExpression:
		if n.Object == old {
			n.Object, _ = replacement.(Expr)
			return true
		}
		if n.Property == old {
			n.Property, _ = replacement.(Expr)
			return true
		}
	case *SequenceExpression:
		for i, e := range n.Expressions {
			if e == old {
				n.Expressions[i], _ = replacement.(Expr)
				return true
			}
		}
	case *SpreadElement:
		if n.Argument == old {
			n.Argument, _ = replacement.(Expr)
			return true
		}
	case *TemplateLiteral:
		for i, e := range n.Expressions {
			if e == old {
				n.Expressions[i], _ = replacement.(Expr)
				return true
			}
		}
	}
	return false
}

func replaceStmtOrEmpty(replacement Node) Stmt {
	if replacement == nil {
		return &EmptyStatement{}
	}
	s, _ := replacement.(Stmt)
	return s
}

func replaceForHead(left *Node, right *Expr, body *Stmt, old, replacement Node) bool {
	if *left == old {
		*left = replacement
		return true
	}
	if Node(*right) == old {
		*right, _ = replacement.(Expr)
		return true
	}
	if Node(*body) == old {
		*body = replaceStmtOrEmpty(replacement)
		return true
	}
	return false
}

func replaceInStmtList(list *[]Stmt, old, replacement Node) bool {
	for i, s := range *list {
		if Node(s) == old {
			if replacement == nil {
				*list = append((*list)[:i], (*list)[i+1:]...)
			} else if ns, ok := replacement.(Stmt); ok {
				(*list)[i] = ns
			} else {
				*list = append((*list)[:i], (*list)[i+1:]...)
			}
			return true
		}
	}
	return false
}

func replaceInCaseList(list *[]*SwitchCase, old, replacement Node) bool {
	for i, c := range *list {
		if Node(c) == old {
			if replacement == nil {
				*list = append((*list)[:i], (*list)[i+1:]...)
			} else if nc, ok := replacement.(*SwitchCase); ok {
				(*list)[i] = nc
			}
			return true
		}
	}
	return false
}

func replaceInParams(params *FunctionParams, old, replacement Node) bool {
	for i, p := range params.Params {
		if Node(p) == old {
			params.Params[i], _ = replacement.(Expr)
			return true
		}
	}
	if Node(params.Rest) == old {
		params.Rest, _ = replacement.(Expr)
		return true
	}
	return false
}
