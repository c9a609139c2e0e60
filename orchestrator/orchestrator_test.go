package orchestrator_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/t14raptor/deobfuscate/orchestrator"
)

func run(t *testing.T, source string) string {
	t.Helper()
	result, err := orchestrator.Run(source, orchestrator.Config{MaxIterations: 20}, nil)
	require.NoError(t, err)
	return strings.TrimSpace(result.Output)
}

func TestNotOperatorFolding(t *testing.T) {
	out := run(t, "!true || !false || !0 || !1 || !a || !'a' || ![] || !{} || !-1 || !!true || !!!true;")
	assert.Contains(t, out, "false || true")
}

func TestBuiltinFolding(t *testing.T) {
	out := run(t, "atob('c29sdmVkIQ==');")
	assert.Equal(t, "'solved!';", out)
}

func TestBinaryFolding(t *testing.T) {
	out := run(t, "5 * 3; '2' + 2; '10' - 1; 'o' + 'k'; 'o' - 'k'; 3 - -1;")
	assert.Equal(t, "15;\n'22';\n9;\n'ok';\nNaN;\n4;", out)
}

func TestMemberLiteralFolding(t *testing.T) {
	out := run(t, "'123'[0]; 'hello'.length;")
	assert.Equal(t, "'1';\n5;", out)
}

func TestLocalCallInlining(t *testing.T) {
	out := run(t, "function add(a,b){return a+b;} add(1,2);")
	assert.Contains(t, out, "function add(a, b)")
	assert.Contains(t, out, "3;")
}

func TestPrototypeInjectionFolding(t *testing.T) {
	out := run(t, "String.prototype.secret = function(){return 'secret ' + this;}; 'hello'.secret();")
	assert.Contains(t, out, "String.prototype.secret")
	assert.Contains(t, out, "'secret hello';")
}

func TestUnchangedWhenNothingMatches(t *testing.T) {
	out := run(t, "console.log(x);")
	assert.Equal(t, "console.log(x);", out)
}

func TestOutOfBoundsIndexingLeftUnchanged(t *testing.T) {
	out := run(t, "'abc'[10];")
	assert.Equal(t, "'abc'[10];", out)
}

func TestMaxIterationsBoundsProgress(t *testing.T) {
	result, err := orchestrator.Run("1+1;", orchestrator.Config{MaxIterations: 1}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Iterations)
}

func TestMaxIterationsZeroRunsNoIterations(t *testing.T) {
	result, err := orchestrator.Run("1+1;", orchestrator.Config{MaxIterations: 0}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Iterations)
	assert.Equal(t, "1 + 1;", result.Output)
}

func TestMaxIterationsNegativeRunsNoIterations(t *testing.T) {
	result, err := orchestrator.Run("1+1;", orchestrator.Config{MaxIterations: -5}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Iterations)
	assert.Equal(t, "1 + 1;", result.Output)
}

func TestLocalCallInliningRefusesMutatedBinding(t *testing.T) {
	out := run(t, "function add(a,b){return a+b;} add = function(a,b){return a-b;}; add(1,2);")
	assert.Contains(t, out, "add(1, 2)")
	assert.NotContains(t, out, "\n3;")
}
