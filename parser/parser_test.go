package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/t14raptor/deobfuscate/ast"
	"github.com/t14raptor/deobfuscate/generator"
	"github.com/t14raptor/deobfuscate/parser"
)

func TestParseRoundTripsThroughGenerator(t *testing.T) {
	sources := []string{
		"var x = 1 + 2 * 3;",
		"function f(a, b) { return a + b; }",
		"for (var i = 0; i < 10; i++) { console.log(i); }",
		"const {a, b: c} = obj;",
		"label: for (;;) { break label; }",
		"x => x + 1;",
		"(a, b) => { return a * b; };",
		"`a${1+1}b`;",
		"a ? b : c;",
		"try { f(); } catch (e) { g(e); } finally { h(); }",
	}
	for _, src := range sources {
		prog, err := parser.Parse(src)
		require.NoError(t, err, src)
		printed := generator.Print(prog)
		_, err = parser.Parse(printed)
		require.NoError(t, err, printed)
	}
}

func TestParseLabeledStatementDisambiguation(t *testing.T) {
	prog, err := parser.Parse("foo: bar;")
	require.NoError(t, err)
	require.Len(t, prog.Body, 1)
	_, ok := prog.Body[0].(*ast.LabeledStatement)
	assert.True(t, ok)
}

func TestParseArrowVsParenExpression(t *testing.T) {
	prog, err := parser.Parse("(x);")
	require.NoError(t, err)
	stmt := prog.Body[0].(*ast.ExpressionStatement)
	_, isIdent := stmt.Expression.(*ast.Identifier)
	assert.True(t, isIdent)

	prog, err = parser.Parse("(x) => x;")
	require.NoError(t, err)
	stmt = prog.Body[0].(*ast.ExpressionStatement)
	_, isArrow := stmt.Expression.(*ast.ArrowFunctionExpression)
	assert.True(t, isArrow)
}

func TestParseErrorOnInvalidSource(t *testing.T) {
	_, err := parser.Parse("var = ;")
	assert.Error(t, err)
}
