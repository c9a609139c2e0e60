// Package resolver links every ast.Identifier to its declaring binding,
// populating the DeclNode/References/Scope extras spec.md §3 calls for.
// It walks the tree once, pushing a new *ast.Scope at each function and
// block boundary and resolving free names against the enclosing chain,
// the same two-pass (collect bindings, then resolve references) shape
// the teacher's own scope resolver used.
package resolver

import "github.com/t14raptor/deobfuscate/ast"

type resolver struct {
	scope *ast.Scope
}

// Resolve mutates prog in place: every Identifier gets its Scope set, a
// DeclNode if it resolves to a binding, and declaring Identifiers
// accumulate their References.
func Resolve(prog *ast.Program) {
	r := &resolver{}
	global := &ast.Scope{Kind: ast.ScopeGlobal, Declared: map[string]*ast.Identifier{}}
	r.scope = global

	r.hoistVars(prog.Body, global)
	r.hoistFunctions(prog.Body, global)
	for _, s := range prog.Body {
		r.stmt(s)
	}
}

func (r *resolver) pushScope(kind ast.ScopeKind) *ast.Scope {
	s := &ast.Scope{Kind: kind, Parent: r.scope, Declared: map[string]*ast.Identifier{}}
	r.scope.Children = append(r.scope.Children, s)
	r.scope = s
	return s
}

func (r *resolver) popScope() {
	r.scope = r.scope.Parent
}

func (r *resolver) declare(id *ast.Identifier, scope *ast.Scope) {
	id.Scope = scope
	if _, exists := scope.Declared[id.Name]; !exists {
		scope.Declared[id.Name] = id
	}
}

// hoistVars collects every `var` binding reachable without crossing a
// function boundary and declares them on fnScope, matching JS's
// var-hoisting semantics. Function-declaration names are declared by
// hoistFunctions instead.
func (r *resolver) hoistVars(body []ast.Stmt, fnScope *ast.Scope) {
	var walk func(n ast.Node)
	walk = func(n ast.Node) {
		switch n := n.(type) {
		case *ast.VariableDeclaration:
			if n.DKind == ast.DeclVar {
				for _, d := range n.Declarations {
					declareTarget(r, d.Id, fnScope)
				}
			}
		case *ast.FunctionDeclaration, *ast.FunctionExpression, *ast.ArrowFunctionExpression:
			return // do not cross function boundaries
		}
		for _, c := range ast.Children(n) {
			walk(c)
		}
	}
	for _, s := range body {
		walk(s)
	}
}

func declareTarget(r *resolver, target ast.Expr, scope *ast.Scope) {
	switch t := target.(type) {
	case *ast.Identifier:
		r.declare(t, scope)
	case *ast.ArrayExpression:
		for _, e := range t.Elements {
			if e != nil {
				declareTarget(r, e, scope)
			}
		}
	case *ast.ObjectExpression:
		for _, p := range t.Properties {
			declareTarget(r, p.Value, scope)
		}
	case *ast.AssignmentExpression:
		declareTarget(r, t.Left, scope)
	case *ast.SpreadElement:
		declareTarget(r, t.Argument, scope)
	}
}

// hoistFunctions declares top-level function-declaration names in the
// current block scope (they're visible for calls before their textual
// position, same as var).
func (r *resolver) hoistFunctions(body []ast.Stmt, scope *ast.Scope) {
	for _, s := range body {
		if fd, ok := s.(*ast.FunctionDeclaration); ok && fd.Name != nil {
			r.declare(fd.Name, scope)
		}
	}
}

func (r *resolver) stmt(n ast.Stmt) {
	switch n := n.(type) {
	case *ast.ExpressionStatement:
		r.expr(n.Expression)
	case *ast.BlockStatement:
		n.Scope = r.pushScope(ast.ScopeBlock)
		r.hoistFunctions(n.Body, n.Scope)
		for _, s := range n.Body {
			r.stmt(s)
		}
		r.popScope()
	case *ast.VariableDeclaration:
		for _, d := range n.Declarations {
			if n.DKind != ast.DeclVar {
				declareTarget(r, d.Id, r.scope)
			} else {
				r.bindExistingTarget(d.Id)
			}
			if d.Init != nil {
				r.expr(d.Init)
			}
		}
	case *ast.FunctionDeclaration:
		r.function(n.Name, n.Params, n.Body)
	case *ast.IfStatement:
		r.expr(n.Test)
		r.stmt(n.Consequent)
		if n.Alternate != nil {
			r.stmt(n.Alternate)
		}
	case *ast.ForStatement:
		n.Scope = r.pushScope(ast.ScopeBlock)
		switch init := n.Init.(type) {
		case *ast.VariableDeclaration:
			r.stmt(init)
		case ast.Expr:
			r.expr(init)
		}
		if n.Test != nil {
			r.expr(n.Test)
		}
		if n.Update != nil {
			r.expr(n.Update)
		}
		r.stmt(n.Body)
		r.popScope()
	case *ast.ForInStatement:
		n.Scope = r.pushScope(ast.ScopeBlock)
		r.forLeft(n.Left)
		r.expr(n.Right)
		r.stmt(n.Body)
		r.popScope()
	case *ast.ForOfStatement:
		n.Scope = r.pushScope(ast.ScopeBlock)
		r.forLeft(n.Left)
		r.expr(n.Right)
		r.stmt(n.Body)
		r.popScope()
	case *ast.WhileStatement:
		r.expr(n.Test)
		r.stmt(n.Body)
	case *ast.DoWhileStatement:
		r.stmt(n.Body)
		r.expr(n.Test)
	case *ast.ReturnStatement:
		if n.Argument != nil {
			r.expr(n.Argument)
		}
	case *ast.ThrowStatement:
		r.expr(n.Argument)
	case *ast.TryStatement:
		r.stmt(n.Block)
		if n.Handler != nil {
			n.Handler.Scope = r.pushScope(ast.ScopeBlock)
			if n.Handler.Param != nil {
				declareTarget(r, n.Handler.Param, n.Handler.Scope)
			}
			for _, s := range n.Handler.Body.Body {
				r.stmt(s)
			}
			r.popScope()
		}
		if n.Finalizer != nil {
			r.stmt(n.Finalizer)
		}
	case *ast.SwitchStatement:
		r.expr(n.Discriminant)
		n.Scope = r.pushScope(ast.ScopeBlock)
		for _, c := range n.Cases {
			if c.Test != nil {
				r.expr(c.Test)
			}
			for _, s := range c.Consequent {
				r.stmt(s)
			}
		}
		r.popScope()
	case *ast.LabeledStatement:
		r.stmt(n.Body)
	}
}

// forLeft resolves the loop-variable side of a for-in/for-of head: either
// a fresh `let`/`const`/`var` declarator or an existing assignment target.
func (r *resolver) forLeft(left ast.Node) {
	switch l := left.(type) {
	case *ast.VariableDeclaration:
		d := l.Declarations[0]
		if l.DKind == ast.DeclVar {
			r.bindExistingTarget(d.Id)
		} else {
			declareTarget(r, d.Id, r.scope)
		}
	case ast.Expr:
		r.expr(l)
	}
}

// bindExistingTarget resolves a var target against the already-hoisted
// binding instead of declaring a new one.
func (r *resolver) bindExistingTarget(target ast.Expr) {
	switch t := target.(type) {
	case *ast.Identifier:
		r.resolveIdent(t)
	case *ast.ArrayExpression:
		for _, e := range t.Elements {
			if e != nil {
				r.bindExistingTarget(e)
			}
		}
	case *ast.ObjectExpression:
		for _, p := range t.Properties {
			r.bindExistingTarget(p.Value)
		}
	case *ast.AssignmentExpression:
		r.bindExistingTarget(t.Left)
		r.expr(t.Right)
	case *ast.SpreadElement:
		r.bindExistingTarget(t.Argument)
	}
}

func (r *resolver) function(name *ast.Identifier, params ast.FunctionParams, body *ast.BlockStatement) {
	fnScope := r.pushScope(ast.ScopeFunction)
	for _, p := range params.Params {
		declareTarget(r, paramTarget(p), fnScope)
		if assign, ok := p.(*ast.AssignmentExpression); ok {
			r.expr(assign.Right)
		}
	}
	if params.Rest != nil {
		declareTarget(r, params.Rest, fnScope)
	}
	r.hoistVars(body.Body, fnScope)
	r.hoistFunctions(body.Body, fnScope)
	for _, s := range body.Body {
		r.stmt(s)
	}
	r.popScope()
	_ = name
}

func paramTarget(p ast.Expr) ast.Expr {
	if assign, ok := p.(*ast.AssignmentExpression); ok {
		return assign.Left
	}
	return p
}

func (r *resolver) expr(n ast.Expr) {
	switch n := n.(type) {
	case *ast.Identifier:
		r.resolveIdent(n)
	case *ast.ArrayExpression:
		for _, e := range n.Elements {
			if e != nil {
				r.expr(e)
			}
		}
	case *ast.ObjectExpression:
		for _, p := range n.Properties {
			if p.Computed {
				r.expr(p.Key)
			}
			r.expr(p.Value)
		}
	case *ast.FunctionExpression:
		r.function(n.Name, n.Params, n.Body)
	case *ast.ArrowFunctionExpression:
		fnScope := r.pushScope(ast.ScopeFunction)
		for _, p := range n.Params.Params {
			declareTarget(r, paramTarget(p), fnScope)
		}
		if n.Params.Rest != nil {
			declareTarget(r, n.Params.Rest, fnScope)
		}
		switch body := n.Body.(type) {
		case *ast.BlockStatement:
			r.hoistVars(body.Body, fnScope)
			r.hoistFunctions(body.Body, fnScope)
			for _, s := range body.Body {
				r.stmt(s)
			}
		case ast.Expr:
			r.expr(body)
		}
		r.popScope()
	case *ast.BinaryExpression:
		r.expr(n.Left)
		r.expr(n.Right)
	case *ast.LogicalExpression:
		r.expr(n.Left)
		r.expr(n.Right)
	case *ast.UnaryExpression:
		r.expr(n.Operand)
	case *ast.UpdateExpression:
		r.expr(n.Operand)
	case *ast.AssignmentExpression:
		r.expr(n.Left)
		r.expr(n.Right)
	case *ast.ConditionalExpression:
		r.expr(n.Test)
		r.expr(n.Consequent)
		r.expr(n.Alternate)
	case *ast.CallExpression:
		r.expr(n.Callee)
		for _, a := range n.Arguments {
			r.expr(a)
		}
	case *ast.NewExpression:
		r.expr(n.Callee)
		for _, a := range n.Arguments {
			r.expr(a)
		}
	case *ast.MemberExpression:
		r.expr(n.Object)
		if n.Computed {
			r.expr(n.Property)
		}
	case *ast.SequenceExpression:
		for _, e := range n.Expressions {
			r.expr(e)
		}
	case *ast.SpreadElement:
		r.expr(n.Argument)
	case *ast.TemplateLiteral:
		for _, e := range n.Expressions {
			r.expr(e)
		}
	}
}

func (r *resolver) resolveIdent(id *ast.Identifier) {
	id.Scope = r.scope
	decl := r.scope.Resolve(id.Name)
	if decl == nil || decl == id {
		return
	}
	id.DeclNode = decl
	decl.References = append(decl.References, id)
}
