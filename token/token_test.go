package token_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/t14raptor/deobfuscate/token"
)

func TestKeywordRecognizesReservedWords(t *testing.T) {
	tok, ok := token.Keyword("function")
	assert.True(t, ok)
	assert.Equal(t, token.FUNCTION, tok)

	_, ok = token.Keyword("notAKeyword")
	assert.False(t, ok)
}

func TestPrecedenceOrdersArithmeticAboveComparison(t *testing.T) {
	assert.Greater(t, token.MULTIPLY.Precedence(false), token.ADD.Precedence(false))
	assert.Greater(t, token.ADD.Precedence(false), token.LESS.Precedence(false))
	assert.Greater(t, token.LESS.Precedence(false), token.LOGICAL_AND.Precedence(false))
	assert.Greater(t, token.LOGICAL_AND.Precedence(false), token.LOGICAL_OR.Precedence(false))
}

func TestPrecedenceExcludesInWhenNoIn(t *testing.T) {
	assert.Equal(t, 0, token.IN.Precedence(true))
	assert.Greater(t, token.IN.Precedence(false), 0)
}

func TestIsAssignRecognizesCompoundOperators(t *testing.T) {
	assert.True(t, token.ADD_ASSIGN.IsAssign())
	assert.True(t, token.ASSIGN.IsAssign())
	assert.False(t, token.ADD.IsAssign())
}
