package parser

import (
	"strconv"
	"strings"

	"github.com/t14raptor/deobfuscate/ast"
	"github.com/t14raptor/deobfuscate/token"
)

// parseExpression parses a full expression, including top-level comma
// (SequenceExpression).
func (p *parser) parseExpression() (ast.Expr, error) {
	return p.parseExpressionPrec(false)
}

// parseExpressionNoIn disallows a bare `in` at the top level, for the
// init clause of a C-style for-statement head.
func (p *parser) parseExpressionNoIn() (ast.Expr, error) {
	return p.parseExpressionPrec(true)
}

func (p *parser) parseExpressionPrec(noIn bool) (ast.Expr, error) {
	start := p.tok.Start
	first, err := p.parseAssignExprNoIn(noIn)
	if err != nil {
		return nil, err
	}
	if !p.at(token.COMMA) {
		return first, nil
	}
	exprs := []ast.Expr{first}
	for p.at(token.COMMA) {
		p.advance()
		e, err := p.parseAssignExprNoIn(noIn)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
	}
	return &ast.SequenceExpression{Span: span(start, p.prevEnd), Expressions: exprs}, nil
}

func (p *parser) parseAssignExpr() (ast.Expr, error) {
	return p.parseAssignExprNoIn(false)
}

func (p *parser) parseAssignExprNoIn(noIn bool) (ast.Expr, error) {
	if arrow, ok, err := p.tryParseArrow(); err != nil {
		return nil, err
	} else if ok {
		return arrow, nil
	}

	start := p.tok.Start
	left, err := p.parseConditional(noIn)
	if err != nil {
		return nil, err
	}
	if p.tok.Tok.IsAssign() {
		op := p.tok.Tok.String()
		p.advance()
		right, err := p.parseAssignExprNoIn(noIn)
		if err != nil {
			return nil, err
		}
		return &ast.AssignmentExpression{Span: span(start, p.prevEnd), Operator: op, Left: left, Right: right}, nil
	}
	return left, nil
}

func (p *parser) parseConditional(noIn bool) (ast.Expr, error) {
	start := p.tok.Start
	test, err := p.parseBinary(1, noIn)
	if err != nil {
		return nil, err
	}
	if !p.at(token.QUESTION) {
		return test, nil
	}
	p.advance()
	cons, err := p.parseAssignExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.COLON); err != nil {
		return nil, err
	}
	alt, err := p.parseAssignExprNoIn(noIn)
	if err != nil {
		return nil, err
	}
	return &ast.ConditionalExpression{Span: span(start, p.prevEnd), Test: test, Consequent: cons, Alternate: alt}, nil
}

func isLogical(t token.Token) bool {
	return t == token.LOGICAL_AND || t == token.LOGICAL_OR || t == token.QUESTION_QUESTION
}

// parseBinary implements precedence climbing over token.Precedence.
func (p *parser) parseBinary(minPrec int, noIn bool) (ast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		prec := p.tok.Tok.Precedence(noIn)
		if prec == 0 || prec < minPrec {
			return left, nil
		}
		op := p.tok.Tok
		opStr := op.String()
		start := left.Idx0()
		p.advance()
		right, err := p.parseBinary(prec+1, noIn)
		if err != nil {
			return nil, err
		}
		if isLogical(op) {
			left = &ast.LogicalExpression{Span: span(start, p.prevEnd), Operator: opStr, Left: left, Right: right}
		} else {
			left = &ast.BinaryExpression{Span: span(start, p.prevEnd), Operator: opStr, Left: left, Right: right}
		}
	}
}

func isUnaryOp(t token.Token) bool {
	switch t {
	case token.ADD, token.SUBTRACT, token.NOT, token.BITWISE_NOT, token.TYPEOF, token.VOID, token.DELETE:
		return true
	}
	return false
}

func (p *parser) parseUnary() (ast.Expr, error) {
	start := p.tok.Start
	if p.at(token.INCREMENT) || p.at(token.DECREMENT) {
		op := p.tok.Tok.String()
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UpdateExpression{Span: span(start, p.prevEnd), Operator: op, Operand: operand, Prefix: true}, nil
	}
	if isUnaryOp(p.tok.Tok) {
		op := p.tok.Tok.String()
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpression{Span: span(start, p.prevEnd), Operator: op, Operand: operand}, nil
	}
	return p.parsePostfix()
}

func (p *parser) parsePostfix() (ast.Expr, error) {
	start := p.tok.Start
	e, err := p.parseCallOrMember()
	if err != nil {
		return nil, err
	}
	if (p.at(token.INCREMENT) || p.at(token.DECREMENT)) && !p.tok.NewlineBefore {
		op := p.tok.Tok.String()
		p.advance()
		return &ast.UpdateExpression{Span: span(start, p.prevEnd), Operator: op, Operand: e, Prefix: false}, nil
	}
	return e, nil
}

func (p *parser) parseCallOrMember() (ast.Expr, error) {
	start := p.tok.Start
	var e ast.Expr
	var err error
	if p.at(token.NEW) {
		e, err = p.parseNew()
	} else {
		e, err = p.parsePrimary()
	}
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.at(token.PERIOD):
			p.advance()
			nameTok, err := p.expect(token.IDENT)
			if err != nil {
				return nil, err
			}
			e = &ast.MemberExpression{Span: span(start, p.prevEnd), Object: e,
				Property: &ast.Identifier{Span: span(nameTok.Start, nameTok.End), Name: nameTok.Literal}}
		case p.at(token.QUESTION_DOT):
			p.advance()
			if p.at(token.LPAREN) {
				args, err := p.parseArguments()
				if err != nil {
					return nil, err
				}
				e = &ast.CallExpression{Span: span(start, p.prevEnd), Callee: e, Arguments: args, Optional: true}
				continue
			}
			if p.at(token.LBRACKET) {
				p.advance()
				prop, err := p.parseExpression()
				if err != nil {
					return nil, err
				}
				if _, err := p.expect(token.RBRACKET); err != nil {
					return nil, err
				}
				e = &ast.MemberExpression{Span: span(start, p.prevEnd), Object: e, Property: prop, Computed: true, Optional: true}
				continue
			}
			nameTok, err := p.expect(token.IDENT)
			if err != nil {
				return nil, err
			}
			e = &ast.MemberExpression{Span: span(start, p.prevEnd), Object: e,
				Property: &ast.Identifier{Span: span(nameTok.Start, nameTok.End), Name: nameTok.Literal}, Optional: true}
		case p.at(token.LBRACKET):
			p.advance()
			prop, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RBRACKET); err != nil {
				return nil, err
			}
			e = &ast.MemberExpression{Span: span(start, p.prevEnd), Object: e, Property: prop, Computed: true}
		case p.at(token.LPAREN):
			args, err := p.parseArguments()
			if err != nil {
				return nil, err
			}
			e = &ast.CallExpression{Span: span(start, p.prevEnd), Callee: e, Arguments: args}
		case p.at(token.TEMPLATE):
			// Tagged template: treat as a call for scope purposes, the
			// tag remains reachable through Callee.
			tstart := p.tok.Start
			lit, err := p.parseTemplateLiteral()
			if err != nil {
				return nil, err
			}
			e = &ast.CallExpression{Span: span(start, p.prevEnd), Callee: e, Arguments: []ast.Expr{lit}}
			_ = tstart
		default:
			return e, nil
		}
	}
}

func (p *parser) parseNew() (ast.Expr, error) {
	start := p.tok.Start
	p.advance()
	callee, err := p.parseCallOrMemberNoCall()
	if err != nil {
		return nil, err
	}
	var args []ast.Expr
	if p.at(token.LPAREN) {
		args, err = p.parseArguments()
		if err != nil {
			return nil, err
		}
	}
	return &ast.NewExpression{Span: span(start, p.prevEnd), Callee: callee, Arguments: args}, nil
}

// parseCallOrMemberNoCall parses a member-expression chain (no calls) for
// use as a `new` callee, per the grammar's MemberExpression production.
func (p *parser) parseCallOrMemberNoCall() (ast.Expr, error) {
	start := p.tok.Start
	var e ast.Expr
	var err error
	if p.at(token.NEW) {
		e, err = p.parseNew()
	} else {
		e, err = p.parsePrimary()
	}
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.at(token.PERIOD):
			p.advance()
			nameTok, err := p.expect(token.IDENT)
			if err != nil {
				return nil, err
			}
			e = &ast.MemberExpression{Span: span(start, p.prevEnd), Object: e,
				Property: &ast.Identifier{Span: span(nameTok.Start, nameTok.End), Name: nameTok.Literal}}
		case p.at(token.LBRACKET):
			p.advance()
			prop, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.RBRACKET); err != nil {
				return nil, err
			}
			e = &ast.MemberExpression{Span: span(start, p.prevEnd), Object: e, Property: prop, Computed: true}
		default:
			return e, nil
		}
	}
}

func (p *parser) parseArguments() ([]ast.Expr, error) {
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	var args []ast.Expr
	for !p.at(token.RPAREN) {
		if p.at(token.ELLIPSIS) {
			start := p.tok.Start
			p.advance()
			e, err := p.parseAssignExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, &ast.SpreadElement{Span: span(start, p.prevEnd), Argument: e})
		} else {
			e, err := p.parseAssignExpr()
			if err != nil {
				return nil, err
			}
			args = append(args, e)
		}
		if !p.at(token.COMMA) {
			break
		}
		p.advance()
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *parser) parsePrimary() (ast.Expr, error) {
	start := p.tok.Start
	switch p.tok.Tok {
	case token.NUMBER:
		lit := p.tok.Literal
		p.advance()
		n, _ := strconv.ParseFloat(lit, 64)
		if strings.HasPrefix(lit, "0x") || strings.HasPrefix(lit, "0X") {
			if v, err := strconv.ParseInt(lit[2:], 16, 64); err == nil {
				n = float64(v)
			}
		}
		return &ast.Literal{Span: span(start, p.prevEnd), LKind: ast.LitNumber, Raw: lit, Num: n}, nil
	case token.BIGINT:
		lit := p.tok.Literal
		p.advance()
		return &ast.BigIntLiteral{Span: span(start, p.prevEnd), Raw: lit}, nil
	case token.STRING:
		lit := p.tok.Literal
		p.advance()
		return &ast.Literal{Span: span(start, p.prevEnd), LKind: ast.LitString, Raw: quoteJS(lit), Str: lit}, nil
	case token.TEMPLATE:
		return p.parseTemplateLiteral()
	case token.REGEXP:
		raw := p.tok.Literal
		p.advance()
		pattern, flags := splitRegexp(raw)
		return &ast.RegExpLiteral{Span: span(start, p.prevEnd), Pattern: pattern, Flags: flags}, nil
	case token.TRUE, token.FALSE:
		b := p.tok.Tok == token.TRUE
		p.advance()
		return &ast.Literal{Span: span(start, p.prevEnd), LKind: ast.LitBoolean, Bool: b, Raw: strconv.FormatBool(b)}, nil
	case token.NULL:
		p.advance()
		return &ast.Literal{Span: span(start, p.prevEnd), LKind: ast.LitNull, Raw: "null"}, nil
	case token.THIS:
		p.advance()
		return &ast.ThisExpression{Span: span(start, p.prevEnd)}, nil
	case token.IDENT, token.ASYNC, token.OF, token.GET, token.SET:
		name := p.tok.Literal
		p.advance()
		return &ast.Identifier{Span: span(start, p.prevEnd), Name: name}, nil
	case token.LPAREN:
		p.advance()
		e, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return e, nil
	case token.LBRACKET:
		return p.parseArrayLiteral()
	case token.LBRACE:
		return p.parseObjectLiteral()
	case token.FUNCTION:
		return p.parseFunctionExpression(false)
	case token.NEW:
		return p.parseNew()
	}
	return nil, p.errorf("unexpected token %s", p.tok.Tok)
}

func quoteJS(s string) string {
	return strconv.Quote(s)
}

func splitRegexp(raw string) (pattern, flags string) {
	i := strings.LastIndex(raw, "/")
	return raw[1:i], raw[i+1:]
}

func (p *parser) parseArrayLiteral() (ast.Expr, error) {
	start := p.tok.Start
	p.advance()
	var elems []ast.Expr
	for !p.at(token.RBRACKET) {
		if p.at(token.COMMA) {
			elems = append(elems, nil)
			p.advance()
			continue
		}
		if p.at(token.ELLIPSIS) {
			sstart := p.tok.Start
			p.advance()
			e, err := p.parseAssignExpr()
			if err != nil {
				return nil, err
			}
			elems = append(elems, &ast.SpreadElement{Span: span(sstart, p.prevEnd), Argument: e})
		} else {
			e, err := p.parseAssignExpr()
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
		}
		if p.at(token.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	if _, err := p.expect(token.RBRACKET); err != nil {
		return nil, err
	}
	return &ast.ArrayExpression{Span: span(start, p.prevEnd), Elements: elems}, nil
}

func (p *parser) parseObjectLiteral() (ast.Expr, error) {
	start := p.tok.Start
	p.advance()
	var props []*ast.Property
	for !p.at(token.RBRACE) {
		prop, err := p.parseProperty()
		if err != nil {
			return nil, err
		}
		props = append(props, prop)
		if p.at(token.COMMA) {
			p.advance()
		} else {
			break
		}
	}
	if _, err := p.expect(token.RBRACE); err != nil {
		return nil, err
	}
	return &ast.ObjectExpression{Span: span(start, p.prevEnd), Properties: props}, nil
}

func (p *parser) parseProperty() (*ast.Property, error) {
	start := p.tok.Start

	if p.at(token.ELLIPSIS) {
		p.advance()
		e, err := p.parseAssignExpr()
		if err != nil {
			return nil, err
		}
		return &ast.Property{Span: span(start, p.prevEnd), Value: &ast.SpreadElement{Span: span(start, p.prevEnd), Argument: e}, PropKind: "spread"}, nil
	}

	if (p.at(token.GET) || p.at(token.SET)) {
		kindTok := p.tok.Tok
		ck := p.save()
		p.advance()
		if !p.at(token.COLON) && !p.at(token.COMMA) && !p.at(token.RBRACE) && !p.at(token.LPAREN) {
			key, err := p.parsePropertyKey()
			if err != nil {
				return nil, err
			}
			params, err := p.parseParams()
			if err != nil {
				return nil, err
			}
			body, err := p.parseBlock()
			if err != nil {
				return nil, err
			}
			kindStr := "get"
			if kindTok == token.SET {
				kindStr = "set"
			}
			fn := &ast.FunctionExpression{Span: span(start, p.prevEnd), Params: params, Body: body}
			return &ast.Property{Span: span(start, p.prevEnd), Key: key, Value: fn, PropKind: kindStr}, nil
		}
		p.restore(ck)
	}

	computed := false
	var key ast.Expr
	var err error
	if p.at(token.LBRACKET) {
		computed = true
		p.advance()
		key, err = p.parseAssignExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RBRACKET); err != nil {
			return nil, err
		}
	} else {
		key, err = p.parsePropertyKey()
		if err != nil {
			return nil, err
		}
	}

	if p.at(token.LPAREN) {
		params, err := p.parseParams()
		if err != nil {
			return nil, err
		}
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		fn := &ast.FunctionExpression{Span: span(start, p.prevEnd), Params: params, Body: body}
		return &ast.Property{Span: span(start, p.prevEnd), Key: key, Value: fn, Computed: computed, PropKind: "init"}, nil
	}

	if p.at(token.COLON) {
		p.advance()
		val, err := p.parseAssignExpr()
		if err != nil {
			return nil, err
		}
		return &ast.Property{Span: span(start, p.prevEnd), Key: key, Value: val, Computed: computed, PropKind: "init"}, nil
	}

	// Shorthand { x } or { x = default } (the latter only valid in
	// destructuring, accepted here too for simplicity).
	if id, ok := key.(*ast.Identifier); ok {
		var val ast.Expr = &ast.Identifier{Span: id.Span, Name: id.Name}
		if p.at(token.ASSIGN) {
			p.advance()
			def, err := p.parseAssignExpr()
			if err != nil {
				return nil, err
			}
			val = &ast.AssignmentExpression{Span: span(start, p.prevEnd), Operator: "=", Left: val, Right: def}
		}
		return &ast.Property{Span: span(start, p.prevEnd), Key: key, Value: val, Shorthand: true, PropKind: "init"}, nil
	}
	return nil, p.errorf("invalid property")
}

func (p *parser) parsePropertyKey() (ast.Expr, error) {
	start := p.tok.Start
	switch p.tok.Tok {
	case token.STRING:
		lit := p.tok.Literal
		p.advance()
		return &ast.Literal{Span: span(start, p.prevEnd), LKind: ast.LitString, Raw: quoteJS(lit), Str: lit}, nil
	case token.NUMBER:
		lit := p.tok.Literal
		p.advance()
		n, _ := strconv.ParseFloat(lit, 64)
		return &ast.Literal{Span: span(start, p.prevEnd), LKind: ast.LitNumber, Raw: lit, Num: n}, nil
	default:
		name := p.tok.Literal
		if name == "" {
			name = p.tok.Tok.String()
		}
		p.advance()
		return &ast.Identifier{Span: span(start, p.prevEnd), Name: name}, nil
	}
}

func (p *parser) parseFunctionExpression(async bool) (ast.Expr, error) {
	start := p.tok.Start
	if async {
		p.advance()
	}
	if _, err := p.expect(token.FUNCTION); err != nil {
		return nil, err
	}
	gen := false
	if p.at(token.MULTIPLY) {
		gen = true
		p.advance()
	}
	var name *ast.Identifier
	if p.at(token.IDENT) {
		name = &ast.Identifier{Span: span(p.tok.Start, p.tok.End), Name: p.tok.Literal}
		p.advance()
	}
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.FunctionExpression{Span: span(start, p.prevEnd), Name: name, Params: params, Body: body, Async: async, Generator: gen}, nil
}

func (p *parser) parseTemplateLiteral() (ast.Expr, error) {
	start := p.tok.Start
	raw := p.tok.Literal
	p.advance()
	// Decompose `...${expr}...` chunks by re-lexing the captured raw text
	// with a nested parser; this keeps the main token stream simple at
	// the cost of re-scanning template bodies.
	quasis, exprs, err := decomposeTemplate(raw, start)
	if err != nil {
		return nil, err
	}
	return &ast.TemplateLiteral{Span: span(start, p.prevEnd), Quasis: quasis, Expressions: exprs}, nil
}

func decomposeTemplate(raw string, base int) ([]*ast.TemplateElement, []ast.Expr, error) {
	// raw includes the surrounding backticks.
	body := raw[1 : len(raw)-1]
	var quasis []*ast.TemplateElement
	var exprs []ast.Expr
	i := 0
	chunkStart := 0
	for i < len(body) {
		if body[i] == '\\' {
			i += 2
			continue
		}
		if body[i] == '$' && i+1 < len(body) && body[i+1] == '{' {
			text := body[chunkStart:i]
			quasis = append(quasis, &ast.TemplateElement{
				Span: span(base+1+chunkStart, base+1+i), Raw: text, Cooked: text,
			})
			depth := 1
			j := i + 2
			for j < len(body) && depth > 0 {
				if body[j] == '{' {
					depth++
				} else if body[j] == '}' {
					depth--
					if depth == 0 {
						break
					}
				}
				j++
			}
			inner := body[i+2 : j]
			sub, err := Parse(inner)
			if err == nil && len(sub.Body) == 1 {
				if es, ok := sub.Body[0].(*ast.ExpressionStatement); ok {
					exprs = append(exprs, es.Expression)
				} else {
					exprs = append(exprs, &ast.Literal{LKind: ast.LitString, Str: inner, Raw: quoteJS(inner)})
				}
			} else {
				exprs = append(exprs, &ast.Literal{LKind: ast.LitString, Str: inner, Raw: quoteJS(inner)})
			}
			i = j + 1
			chunkStart = i
			continue
		}
		i++
	}
	text := body[chunkStart:]
	quasis = append(quasis, &ast.TemplateElement{
		Span: span(base+1+chunkStart, base+1+len(body)), Raw: text, Cooked: text, Tail: true,
	})
	return quasis, exprs, nil
}

// tryParseArrow speculatively attempts to parse an arrow function at the
// current position (`ident =>` or `(params) =>`), restoring the parser if
// it turns out not to be one.
func (p *parser) tryParseArrow() (ast.Expr, bool, error) {
	start := p.tok.Start
	ck := p.save()

	async := false
	if p.at(token.ASYNC) {
		peek := p.save()
		p.advance()
		if p.tok.NewlineBefore || !(p.at(token.IDENT) || p.at(token.LPAREN)) {
			p.restore(peek)
		} else {
			async = true
		}
	}

	if p.at(token.IDENT) {
		ck2 := p.save()
		name := p.tok.Literal
		namePos := p.tok.Start
		p.advance()
		if p.at(token.ARROW) {
			p.advance()
			body, err := p.parseArrowBody()
			if err != nil {
				p.restore(ck)
				return nil, false, nil
			}
			params := ast.FunctionParams{Params: []ast.Expr{&ast.Identifier{Span: span(namePos, namePos+len(name)), Name: name}}}
			return &ast.ArrowFunctionExpression{Span: span(start, p.prevEnd), Params: params, Body: body, Async: async}, true, nil
		}
		p.restore(ck2)
		if async {
			p.restore(ck)
			return nil, false, nil
		}
		return nil, false, nil
	}

	if p.at(token.LPAREN) {
		params, ok := p.tryParseArrowParams()
		if !ok {
			p.restore(ck)
			return nil, false, nil
		}
		if !p.at(token.ARROW) {
			p.restore(ck)
			return nil, false, nil
		}
		p.advance()
		body, err := p.parseArrowBody()
		if err != nil {
			p.restore(ck)
			return nil, false, nil
		}
		return &ast.ArrowFunctionExpression{Span: span(start, p.prevEnd), Params: params, Body: body, Async: async}, true, nil
	}

	p.restore(ck)
	return nil, false, nil
}

// tryParseArrowParams parses a parenthesized parameter list without
// committing to the interpretation; any parse error is reported back via
// ok=false so the caller can fall back to a parenthesized expression.
func (p *parser) tryParseArrowParams() (params ast.FunctionParams, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
	}()
	got, err := p.parseParams()
	if err != nil {
		return ast.FunctionParams{}, false
	}
	return got, true
}

func (p *parser) parseArrowBody() (ast.Node, error) {
	if p.at(token.LBRACE) {
		return p.parseBlock()
	}
	return p.parseAssignExpr()
}
