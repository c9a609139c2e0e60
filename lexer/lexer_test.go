package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/t14raptor/deobfuscate/lexer"
	"github.com/t14raptor/deobfuscate/token"
)

func tokens(t *testing.T, src string) []lexer.Token {
	t.Helper()
	l := lexer.New(src)
	var out []lexer.Token
	for {
		tok := l.Next()
		out = append(out, tok)
		if tok.Tok == token.EOF {
			break
		}
	}
	require.NoError(t, l.Err())
	return out
}

func TestNextScansIdentifiersKeywordsAndPunctuation(t *testing.T) {
	toks := tokens(t, "var a = 1;")
	kinds := make([]token.Token, len(toks))
	for i, tk := range toks {
		kinds[i] = tk.Tok
	}
	assert.Equal(t, []token.Token{
		token.VAR, token.IDENT, token.ASSIGN, token.NUMBER, token.SEMICOLON, token.EOF,
	}, kinds)
}

func TestNextTracksNewlineBeforeForASI(t *testing.T) {
	toks := tokens(t, "a\nb")
	require.Len(t, toks, 3)
	assert.False(t, toks[0].NewlineBefore)
	assert.True(t, toks[1].NewlineBefore)
}

func TestSaveRestoreRewindsLexerState(t *testing.T) {
	l := lexer.New("a b")
	checkpoint := l.Save()
	first := l.Next()
	assert.Equal(t, "a", first.Literal)

	l.Restore(checkpoint)
	replayed := l.Next()
	assert.Equal(t, first, replayed)
}

func TestNextScansStringLiteralEscapes(t *testing.T) {
	toks := tokens(t, `'a\nb'`)
	require.Len(t, toks, 2)
	assert.Equal(t, token.STRING, toks[0].Tok)
}
