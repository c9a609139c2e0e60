// Package sandbox implements spec.md §4.3: execution of small JavaScript
// fragments in an isolated environment with no host globals beyond a
// fixed pure subset, and literalisation (§4.3.1) of the result back into
// a syntax node.
package sandbox

import (
	"errors"
	"math"
	"math/big"
	"time"

	"github.com/dop251/goja"

	"github.com/t14raptor/deobfuscate/ast"
)

// ErrBadValue names the BAD_VALUE outcome. Eval does not return it:
// Eval reports BAD_VALUE by returning false as its second value.
var ErrBadValue = errors.New("sandbox: BAD_VALUE")

// DefaultTimeout is spec.md §4.3's default wall-clock budget per call.
const DefaultTimeout = 10 * time.Second

// Sandbox wraps a goja.Runtime configured with nothing beyond the pure
// global subset spec.md §4.3 allows. goja itself installs no DOM,
// filesystem, network, or console bindings, but it does ship the
// standard ECMAScript `Date` object and `Math.random`, both of which
// are impure (wall-clock time, entropy) and must be unreachable per
// spec.md §4.3's "time, randomness... must be unreachable" — so those
// are stripped/overridden here alongside adding the couple of
// browser-originated pure helpers (atob/btoa) the obfuscation idioms in
// spec.md §4.6 rely on; everything else pure (the rest of Math, JSON,
// String, Array, Object, Number, RegExp, Symbol, BigInt) is already
// just ECMAScript and ships with every goja.Runtime.
type Sandbox struct {
	vm *goja.Runtime
}

// New builds a fresh, warm sandbox instance. Per spec.md §4.3 a
// sharedSandbox may be reused across candidates within one pass but must
// not cross a pass boundary, so callers construct one per pass.
func New() *Sandbox {
	vm := goja.New()
	installPureGlobals(vm)
	return &Sandbox{vm: vm}
}

func installPureGlobals(vm *goja.Runtime) {
	must := func(err error) {
		if err != nil {
			panic(err)
		}
	}
	must(vm.Set("atob", func(s string) (string, error) {
		return base64Decode(s)
	}))
	must(vm.Set("btoa", func(s string) string {
		return base64Encode(s)
	}))

	// Date is wall-clock time, not a pure function of its arguments;
	// make every reachable form a BAD_VALUE by deleting the
	// constructor outright rather than trying to enumerate its methods.
	must(vm.GlobalObject().Delete("Date"))

	// Math.random is the one impure member of an otherwise pure Math
	// namespace; override it in place rather than deleting all of Math.
	mathObj := vm.GlobalObject().Get("Math").ToObject(vm)
	must(mathObj.Set("random", func() goja.Value {
		panic(vm.NewGoError(errors.New("random: unreachable in sandbox")))
	}))
}

// Eval executes fragmentSource and literalises its completion value.
// Any runtime error, an interrupt from exceeding timeout, or a value
// literalisation can't represent purely all count as BAD_VALUE: the
// caller's only correct response is to skip the candidate, never to
// treat this as fatal (spec.md §7).
func (s *Sandbox) Eval(fragmentSource string, timeout time.Duration) (ast.Expr, bool) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	timer := time.AfterFunc(timeout, func() {
		s.vm.Interrupt("timeout")
	})
	defer timer.Stop()

	v, err := s.vm.RunString(fragmentSource)
	if err != nil {
		return nil, false
	}
	return literalize(v, s.vm, 0)
}

const maxLiteralizeDepth = 64

// literalize implements the table in spec.md §4.3.1.
func literalize(v goja.Value, vm *goja.Runtime, depth int) (ast.Expr, bool) {
	if depth > maxLiteralizeDepth {
		return nil, false
	}
	if v == nil || goja.IsUndefined(v) {
		return &ast.Identifier{Name: "undefined"}, true
	}
	if goja.IsNull(v) {
		return &ast.Literal{LKind: ast.LitNull, Raw: "null"}, true
	}

	switch {
	case isBoolean(v):
		b := v.ToBoolean()
		return &ast.Literal{LKind: ast.LitBoolean, Bool: b, Raw: boolRaw(b)}, true
	case isString(v):
		str := v.String()
		return &ast.Literal{LKind: ast.LitString, Str: str, Raw: goStringQuote(str)}, true
	case isNumber(v):
		return literalizeNumber(v.ToFloat())
	case isSymbol(v):
		sym, ok := v.Export().(*goja.Symbol)
		if !ok {
			return nil, false
		}
		desc := sym.String()
		if desc == "Symbol()" {
			return &ast.CallExpression{Callee: &ast.Identifier{Name: "Symbol"}}, true
		}
		return nil, false
	}

	obj := v.ToObject(vm)
	if obj == nil {
		return nil, false
	}

	if class := obj.ClassName(); class == "Array" {
		return literalizeArray(obj, vm, depth)
	}
	if bi, ok := v.Export().(*big.Int); ok {
		return &ast.BigIntLiteral{Raw: bi.String()}, true
	}
	if isRegExp(obj) {
		pattern := obj.Get("source")
		flags := obj.Get("flags")
		return &ast.RegExpLiteral{Pattern: pattern.String(), Flags: flags.String()}, true
	}

	return literalizeObject(obj, vm, depth)
}

func literalizeNumber(f float64) (ast.Expr, bool) {
	switch {
	case math.IsNaN(f):
		return &ast.Identifier{Name: "NaN"}, true
	case math.IsInf(f, 1):
		return &ast.Identifier{Name: "Infinity"}, true
	case math.IsInf(f, -1):
		return &ast.UnaryExpression{Operator: "-", Operand: &ast.Identifier{Name: "Infinity"}}, true
	case f == 0 && math.Signbit(f):
		return &ast.UnaryExpression{Operator: "-", Operand: numLit(0)}, true
	case f < 0:
		return &ast.UnaryExpression{Operator: "-", Operand: numLit(-f)}, true
	default:
		return numLit(f), true
	}
}

func numLit(f float64) *ast.Literal {
	return &ast.Literal{LKind: ast.LitNumber, Num: f}
}

func literalizeArray(obj *goja.Object, vm *goja.Runtime, depth int) (ast.Expr, bool) {
	lengthVal := obj.Get("length")
	n := int(lengthVal.ToInteger())
	elems := make([]ast.Expr, 0, n)
	for i := 0; i < n; i++ {
		ev := obj.Get(itoa(i))
		if ev == nil {
			elems = append(elems, nil)
			continue
		}
		lit, ok := literalize(ev, vm, depth+1)
		if !ok {
			return nil, false
		}
		elems = append(elems, lit)
	}
	return &ast.ArrayExpression{Elements: elems}, true
}

func literalizeObject(obj *goja.Object, vm *goja.Runtime, depth int) (ast.Expr, bool) {
	var props []*ast.Property
	for _, key := range obj.Keys() {
		pv := obj.Get(key)
		if pv == nil {
			continue
		}
		if _, isFunc := goja.AssertFunction(pv); isFunc {
			return nil, false
		}
		lit, ok := literalize(pv, vm, depth+1)
		if !ok {
			return nil, false
		}
		props = append(props, &ast.Property{
			Key:      &ast.Literal{LKind: ast.LitString, Str: key, Raw: goStringQuote(key)},
			Value:    lit,
			PropKind: "init",
		})
	}
	return &ast.ObjectExpression{Properties: props}, true
}

func isBoolean(v goja.Value) bool { return v.ExportType() != nil && v.ExportType().Kind().String() == "bool" }
func isString(v goja.Value) bool  { return v.ExportType() != nil && v.ExportType().Kind().String() == "string" }
func isNumber(v goja.Value) bool {
	if v.ExportType() == nil {
		return false
	}
	switch v.ExportType().Kind().String() {
	case "int64", "float64", "int", "int32":
		return true
	}
	return false
}
func isSymbol(v goja.Value) bool {
	_, ok := v.Export().(*goja.Symbol)
	return ok
}

func isRegExp(obj *goja.Object) bool { return obj.ClassName() == "RegExp" }

func boolRaw(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}
