// Package parser implements the pure function `parse(text) -> Tree` spec.md
// treats as an external collaborator: a recursive-descent parser over the
// lexer's token stream producing an *ast.Program. It deliberately covers
// the subset of ES2020 syntax spec.md's node-kind vocabulary names;
// class declarations and full destructuring-pattern grammar are out of
// scope.
package parser

import (
	"fmt"

	"github.com/t14raptor/deobfuscate/ast"
	"github.com/t14raptor/deobfuscate/lexer"
	"github.com/t14raptor/deobfuscate/token"
)

// ParseError is the design-level "ParseError" of spec.md §7: fatal on the
// initial build, always carrying a byte position.
type ParseError struct {
	Pos     int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at byte %d: %s", e.Pos, e.Message)
}

type parser struct {
	lex *lexer.Lexer
	src string

	tok     lexer.Token
	prevEnd int
}

// Parse runs the full pipeline: lex + recursive descent. It returns a
// *ParseError wrapped as error on the first syntax error encountered.
func Parse(src string) (*ast.Program, error) {
	p := &parser{lex: lexer.New(src), src: src}
	p.advance()

	prog := &ast.Program{Span: ast.Span{Start: 0, End: len(src)}}
	defer func() {
		if r := recover(); r != nil {
			panic(r)
		}
	}()

	body, err := p.parseStatementList(token.EOF)
	if err != nil {
		return nil, err
	}
	prog.Body = body
	return prog, nil
}

func (p *parser) advance() {
	p.prevEnd = p.tok.End
	p.tok = p.lex.Next()
}

// checkpoint is a resumable parse position: the current token, the
// previous token's end, and the lexer's internal scan position. save/
// restore bracket the speculative parses the grammar needs (labeled
// statement vs. expression statement, arrow function vs. parenthesized
// expression).
type checkpoint struct {
	tok     lexer.Token
	prevEnd int
	lexCk   lexer.Checkpoint
}

func (p *parser) save() checkpoint {
	return checkpoint{tok: p.tok, prevEnd: p.prevEnd, lexCk: p.lex.Save()}
}

func (p *parser) restore(c checkpoint) {
	p.tok = c.tok
	p.prevEnd = c.prevEnd
	p.lex.Restore(c.lexCk)
}

func (p *parser) at(t token.Token) bool { return p.tok.Tok == t }

func (p *parser) errorf(format string, args ...interface{}) error {
	return &ParseError{Pos: p.tok.Start, Message: fmt.Sprintf(format, args...)}
}

func (p *parser) expect(t token.Token) (lexer.Token, error) {
	if p.tok.Tok != t {
		return lexer.Token{}, p.errorf("expected %s, got %s", t, p.tok.Tok)
	}
	tok := p.tok
	p.advance()
	return tok, nil
}

// semicolon implements automatic semicolon insertion: an explicit `;` is
// consumed; otherwise a newline before the current token, an `}` closing
// the enclosing block, or EOF all silently terminate the statement.
func (p *parser) semicolon() error {
	if p.at(token.SEMICOLON) {
		p.advance()
		return nil
	}
	if p.at(token.RBRACE) || p.at(token.EOF) || p.tok.NewlineBefore {
		return nil
	}
	return p.errorf("expected ';', got %s", p.tok.Tok)
}
