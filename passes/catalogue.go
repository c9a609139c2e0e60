package passes

import "github.com/t14raptor/deobfuscate/context"

// SafePasses is the declared-order safe pass list spec.md §4.7 step 2a
// runs once every iteration, before the unsafe pass list.
var SafePasses = []Pass{
	NormalizeComputedMemberToDot,
	FoldEmptyStatements,
}

// UnsafePasses returns the declared-order unsafe pass list of spec.md
// §4.6, bound to the given collector so the passes that need contextOf
// (resolveLocalCalls, resolveAugmentedFunctionWrappedArrayReplacements)
// share the caller's fingerprint cache.
func UnsafePasses(collector *context.Collector) []Pass {
	return []Pass{
		NormalizeRedundantNotOperator,
		ResolveMinimalAlphabet,
		ResolveDefiniteBinaryExpressions,
		ResolveDefiniteMemberExpressions,
		ResolveDeterministicConditionalExpressions,
		ResolveBuiltinCalls,
		ResolveFunctionToArray,
		ResolveInjectedPrototypeMethodCalls,
		ResolveEvalCallsOnNonLiterals,
		NewResolveLocalCalls(collector),
		NewResolveAugmentedFunctionWrappedArrayReplacements(collector),
	}
}
