package parser

import (
	"github.com/t14raptor/deobfuscate/ast"
	"github.com/t14raptor/deobfuscate/token"
)

func (p *parser) parseStatementList(end token.Token) ([]ast.Stmt, error) {
	var list []ast.Stmt
	for !p.at(end) && !p.at(token.EOF) {
		s, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, nil
}

func (p *parser) parseStatement() (ast.Stmt, error) {
	start := p.tok.Start
	switch p.tok.Tok {
	case token.LBRACE:
		return p.parseBlock()
	case token.VAR, token.LET, token.CONST:
		d, err := p.parseVariableDeclaration()
		if err != nil {
			return nil, err
		}
		return d, p.semicolon()
	case token.FUNCTION:
		return p.parseFunctionDeclaration(false)
	case token.ASYNC:
		return p.parseFunctionDeclaration(true)
	case token.IF:
		return p.parseIf()
	case token.FOR:
		return p.parseFor()
	case token.WHILE:
		return p.parseWhile()
	case token.DO:
		return p.parseDoWhile()
	case token.BREAK:
		p.advance()
		label := ""
		if p.at(token.IDENT) && !p.tok.NewlineBefore {
			label = p.tok.Literal
			p.advance()
		}
		return &ast.BreakStatement{Span: span(start, p.prevEnd), Label: label}, p.semicolon()
	case token.CONTINUE:
		p.advance()
		label := ""
		if p.at(token.IDENT) && !p.tok.NewlineBefore {
			label = p.tok.Literal
			p.advance()
		}
		return &ast.ContinueStatement{Span: span(start, p.prevEnd), Label: label}, p.semicolon()
	case token.RETURN:
		p.advance()
		var arg ast.Expr
		if !p.at(token.SEMICOLON) && !p.at(token.RBRACE) && !p.at(token.EOF) && !p.tok.NewlineBefore {
			e, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			arg = e
		}
		return &ast.ReturnStatement{Span: span(start, p.prevEnd), Argument: arg}, p.semicolon()
	case token.THROW:
		p.advance()
		e, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return &ast.ThrowStatement{Span: span(start, p.prevEnd), Argument: e}, p.semicolon()
	case token.TRY:
		return p.parseTry()
	case token.SWITCH:
		return p.parseSwitch()
	case token.SEMICOLON:
		p.advance()
		return &ast.EmptyStatement{Span: span(start, p.prevEnd)}, nil
	case token.DEBUGGER:
		p.advance()
		err := p.semicolon()
		return &ast.DebuggerStatement{Span: span(start, p.prevEnd)}, err
	case token.IDENT:
		// Lookahead for a labeled statement: IDENT ':'.
		ck := p.save()
		name := p.tok.Literal
		p.advance()
		if p.at(token.COLON) {
			p.advance()
			body, err := p.parseStatement()
			if err != nil {
				return nil, err
			}
			return &ast.LabeledStatement{Span: span(start, p.prevEnd), Label: name, Body: body}, nil
		}
		p.restore(ck)
		return p.parseExpressionStatement()
	default:
		return p.parseExpressionStatement()
	}
}

func (p *parser) parseExpressionStatement() (ast.Stmt, error) {
	start := p.tok.Start
	e, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.semicolon(); err != nil {
		return nil, err
	}
	return &ast.ExpressionStatement{Span: span(start, p.prevEnd), Expression: e}, nil
}

func (p *parser) parseBlock() (*ast.BlockStatement, error) {
	start := p.tok.Start
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	body, err := p.parseStatementList(token.RBRACE)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return &ast.BlockStatement{Span: span(start, p.prevEnd), Body: body}, nil
}

func (p *parser) parseVariableDeclaration() (*ast.VariableDeclaration, error) {
	start := p.tok.Start
	var kind ast.DeclKind
	switch p.tok.Tok {
	case token.VAR:
		kind = ast.DeclVar
	case token.LET:
		kind = ast.DeclLet
	case token.CONST:
		kind = ast.DeclConst
	}
	p.advance()

	var decls []*ast.VariableDeclarator
	for {
		dstart := p.tok.Start
		id, err := p.parseBindingTarget()
		if err != nil {
			return nil, err
		}
		var init ast.Expr
		if p.at(token.ASSIGN) {
			p.advance()
			init, err = p.parseAssignExpr()
			if err != nil {
				return nil, err
			}
		}
		decls = append(decls, &ast.VariableDeclarator{Span: span(dstart, p.prevEnd), Id: id, Init: init})
		if !p.at(token.COMMA) {
			break
		}
		p.advance()
	}
	return &ast.VariableDeclaration{Span: span(start, p.prevEnd), DKind: kind, Declarations: decls}, nil
}

// parseBindingTarget parses an identifier or an array/object destructuring
// pattern; patterns are represented by reusing ArrayExpression/
// ObjectExpression, matching how the same tokens are parsed in expression
// position.
func (p *parser) parseBindingTarget() (ast.Expr, error) {
	if p.at(token.LBRACKET) || p.at(token.LBRACE) {
		return p.parseAssignExpr()
	}
	start := p.tok.Start
	name, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	return &ast.Identifier{Span: span(start, p.prevEnd), Name: name.Literal}, nil
}

func (p *parser) parseIf() (ast.Stmt, error) {
	start := p.tok.Start
	p.advance()
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	test, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	cons, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	var alt ast.Stmt
	if p.at(token.ELSE) {
		p.advance()
		alt, err = p.parseStatement()
		if err != nil {
			return nil, err
		}
	}
	return &ast.IfStatement{Span: span(start, p.prevEnd), Test: test, Consequent: cons, Alternate: alt}, nil
}

func (p *parser) parseWhile() (ast.Stmt, error) {
	start := p.tok.Start
	p.advance()
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	test, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStatement{Span: span(start, p.prevEnd), Test: test, Body: body}, nil
}

func (p *parser) parseDoWhile() (ast.Stmt, error) {
	start := p.tok.Start
	p.advance()
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.WHILE); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	test, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	_ = p.semicolon()
	return &ast.DoWhileStatement{Span: span(start, p.prevEnd), Body: body, Test: test}, nil
}

func (p *parser) parseFor() (ast.Stmt, error) {
	start := p.tok.Start
	p.advance()
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}

	var init ast.Node
	if !p.at(token.SEMICOLON) {
		if p.at(token.VAR) || p.at(token.LET) || p.at(token.CONST) {
			d, err := p.parseVariableDeclaration()
			if err != nil {
				return nil, err
			}
			init = d
		} else {
			e, err := p.parseExpressionNoIn()
			if err != nil {
				return nil, err
			}
			init = e
		}
	}

	if p.at(token.IN) || p.at(token.OF) {
		isOf := p.at(token.OF)
		p.advance()
		right, err := p.parseAssignExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		body, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		if isOf {
			return &ast.ForOfStatement{Span: span(start, p.prevEnd), Left: init, Right: right, Body: body}, nil
		}
		return &ast.ForInStatement{Span: span(start, p.prevEnd), Left: init, Right: right, Body: body}, nil
	}

	if _, err := p.expect(token.SEMICOLON); err != nil {
		return nil, err
	}
	var test ast.Expr
	if !p.at(token.SEMICOLON) {
		e, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		test = e
	}
	if _, err := p.expect(token.SEMICOLON); err != nil {
		return nil, err
	}
	var update ast.Expr
	if !p.at(token.RPAREN) {
		e, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		update = e
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	return &ast.ForStatement{Span: span(start, p.prevEnd), Init: init, Test: test, Update: update, Body: body}, nil
}

func (p *parser) parseTry() (ast.Stmt, error) {
	start := p.tok.Start
	p.advance()
	block, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	var handler *ast.CatchClause
	if p.at(token.CATCH) {
		cstart := p.tok.Start
		p.advance()
		var param ast.Expr
		if p.at(token.LPAREN) {
			p.advance()
			param, err = p.parseBindingTarget()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RPAREN); err != nil {
				return nil, err
			}
		}
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		handler = &ast.CatchClause{Span: span(cstart, p.prevEnd), Param: param, Body: body}
	}
	var finalizer *ast.BlockStatement
	if p.at(token.FINALLY) {
		p.advance()
		finalizer, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}
	return &ast.TryStatement{Span: span(start, p.prevEnd), Block: block, Handler: handler, Finalizer: finalizer}, nil
}

func (p *parser) parseSwitch() (ast.Stmt, error) {
	start := p.tok.Start
	p.advance()
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	disc, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	var cases []*ast.SwitchCase
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		cstart := p.tok.Start
		var test ast.Expr
		if p.at(token.CASE) {
			p.advance()
			test, err = p.parseExpression()
			if err != nil {
				return nil, err
			}
		} else if _, err := p.expect(token.DEFAULT); err != nil {
			return nil, err
		}
		if _, err := p.expect(token.COLON); err != nil {
			return nil, err
		}
		var body []ast.Stmt
		for !p.at(token.CASE) && !p.at(token.DEFAULT) && !p.at(token.RBRACE) && !p.at(token.EOF) {
			s, err := p.parseStatement()
			if err != nil {
				return nil, err
			}
			body = append(body, s)
		}
		cases = append(cases, &ast.SwitchCase{Span: span(cstart, p.prevEnd), Test: test, Consequent: body})
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return &ast.SwitchStatement{Span: span(start, p.prevEnd), Discriminant: disc, Cases: cases}, nil
}

func (p *parser) parseFunctionDeclaration(async bool) (ast.Stmt, error) {
	start := p.tok.Start
	if async {
		p.advance() // 'async'
	}
	if _, err := p.expect(token.FUNCTION); err != nil {
		return nil, err
	}
	gen := false
	if p.at(token.MULTIPLY) {
		gen = true
		p.advance()
	}
	nameTok, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	name := &ast.Identifier{Span: span(nameTok.Start, nameTok.End), Name: nameTok.Literal}
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.FunctionDeclaration{
		Span: span(start, p.prevEnd), Name: name, Params: params, Body: body,
		Async: async, Generator: gen,
	}, nil
}

func (p *parser) parseParams() (ast.FunctionParams, error) {
	var out ast.FunctionParams
	if _, err := p.expect(token.LPAREN); err != nil {
		return out, err
	}
	for !p.at(token.RPAREN) {
		if p.at(token.ELLIPSIS) {
			p.advance()
			rest, err := p.parseBindingTarget()
			if err != nil {
				return out, err
			}
			out.Rest = rest
			break
		}
		param, err := p.parseBindingTarget()
		if err != nil {
			return out, err
		}
		if p.at(token.ASSIGN) {
			astart := param.Idx0()
			p.advance()
			def, err := p.parseAssignExpr()
			if err != nil {
				return out, err
			}
			param = &ast.AssignmentExpression{Span: span(astart, p.prevEnd), Operator: "=", Left: param, Right: def}
		}
		out.Params = append(out.Params, param)
		if !p.at(token.COMMA) {
			break
		}
		p.advance()
	}
	_, err := p.expect(token.RPAREN)
	return out, err
}

func span(start, end int) ast.Span { return ast.Span{Start: start, End: end} }
