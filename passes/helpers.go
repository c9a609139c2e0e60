package passes

import (
	"github.com/t14raptor/deobfuscate/ast"
	"github.com/t14raptor/deobfuscate/generator"
	"github.com/t14raptor/deobfuscate/sandbox"
)

// isPureLiteralSubtree reports whether e can be evaluated with no free
// variables and no observable side effects: literals, the undefined/NaN/
// Infinity identifiers, and literal-only arrays/objects/operators nested
// arbitrarily deep. Every unsafe folding pass gates on this before
// handing source to the sandbox, so a pass never evaluates attacker
// code that reads or calls anything outside the expression itself.
func isPureLiteralSubtree(e ast.Expr) bool {
	switch e := e.(type) {
	case nil:
		return false
	case *ast.Literal, *ast.RegExpLiteral, *ast.BigIntLiteral:
		return true
	case *ast.Identifier:
		switch e.Name {
		case "undefined", "NaN", "Infinity":
			return true
		}
		return false
	case *ast.UnaryExpression:
		switch e.Operator {
		case "-", "+", "!", "~", "typeof", "void":
			return isPureLiteralSubtree(e.Operand)
		}
		return false
	case *ast.BinaryExpression:
		return isPureLiteralSubtree(e.Left) && isPureLiteralSubtree(e.Right)
	case *ast.LogicalExpression:
		return isPureLiteralSubtree(e.Left) && isPureLiteralSubtree(e.Right)
	case *ast.ConditionalExpression:
		return isPureLiteralSubtree(e.Test) && isPureLiteralSubtree(e.Consequent) && isPureLiteralSubtree(e.Alternate)
	case *ast.ArrayExpression:
		for _, el := range e.Elements {
			if el == nil {
				continue
			}
			if !isPureLiteralSubtree(el) {
				return false
			}
		}
		return true
	case *ast.ObjectExpression:
		for _, p := range e.Properties {
			if p.Computed || p.PropKind != "init" {
				return false
			}
			if !isPureLiteralSubtree(p.Value) {
				return false
			}
		}
		return true
	case *ast.SequenceExpression:
		for _, el := range e.Expressions {
			if !isPureLiteralSubtree(el) {
				return false
			}
		}
		return true
	}
	return false
}

// evalExpr prints e and runs it through sb, returning the literalised
// result. Callers must already have established e has no unsafe free
// variables (isPureLiteralSubtree) or that sb's global surface is
// otherwise safe for e (e.g. a builtin call whose callee is a known
// pure global).
func evalExpr(sb *sandbox.Sandbox, e ast.Expr) (ast.Expr, bool) {
	src := generator.PrintExpr(e)
	return sb.Eval(src, sandbox.DefaultTimeout)
}

// sameLiteralKind reports whether replacing old with replacement would
// be a no-op fold (e.g. a number literal evaluating to the exact same
// number literal) not worth staging a mark for.
func sameLiteralKind(a, b ast.Expr) bool {
	al, aok := a.(*ast.Literal)
	bl, bok := b.(*ast.Literal)
	if !aok || !bok {
		return false
	}
	if al.LKind != bl.LKind {
		return false
	}
	switch al.LKind {
	case ast.LitNumber:
		return al.Num == bl.Num
	case ast.LitString:
		return al.Str == bl.Str
	case ast.LitBoolean:
		return al.Bool == bl.Bool
	default:
		return al.Raw == bl.Raw
	}
}
